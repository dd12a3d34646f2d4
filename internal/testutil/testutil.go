// Package testutil provides database and Redis helpers for integration
// tests. Tests skip themselves when the backing services are unreachable
// unless TEST_REQUIRE_DB / TEST_REQUIRE_REDIS / TEST_REQUIRE_INFRA demand
// them (CI sets these so missing infrastructure fails loudly).
package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	// pgx driver for database/sql in tests.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/brightsteps/brightsteps-web/internal/migrate"
)

// Test infrastructure defaults match the docker-compose test profile; CI
// overrides them through TEST_DB_* and REDIS_ADDR.
func testDSN(searchPath string) string {
	host := envOr("TEST_DB_HOST", "localhost")
	port := envOr("TEST_DB_PORT", "55432")
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(envOr("TEST_DB_USER", "brightsteps"), envOr("TEST_DB_PASSWORD", "brightsteps")),
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + envOr("TEST_DB_NAME", "brightsteps"),
	}
	q := url.Values{"sslmode": []string{envOr("DB_SSL_MODE", "disable")}}
	if searchPath != "" {
		q.Set("search_path", searchPath)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// SkipIfNoTestDB skips (or fails, when the DB is required) unless the test
// database answers a ping.
func SkipIfNoTestDB(t testing.TB) {
	t.Helper()

	db, err := sql.Open("pgx", testDSN(""))
	if err == nil {
		defer closeQuietly(t, "test db", db)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err = db.PingContext(ctx)
	}
	if err != nil {
		skipMissing(t, requireDB(), "Test database not available:", err)
	}
}

// WithAutoDB runs fn against a migrated test database. With
// TEST_DB_EPHEMERAL set, each test gets its own schema that is dropped
// afterward; otherwise tests share one database and rows are wiped before
// and after each run.
func WithAutoDB(t testing.TB, fn func(*sql.DB)) {
	t.Helper()
	SkipIfNoTestDB(t)

	if envBool("TEST_DB_EPHEMERAL") {
		fn(ephemeralSchemaDB(t))
		return
	}

	db := sharedDB(t)
	defer func() {
		wipeTables(t, db)
		closeQuietly(t, "test db", db)
	}()
	fn(db)
}

func sharedDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN(""))
	if err != nil {
		t.Fatal("open test database:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatal("ping test database (is docker-compose up?):", err)
	}
	if err := migrate.Run(ctx, db); err != nil {
		t.Fatal("run migrations:", err)
	}

	wipeTables(t, db)
	return db
}

// wipeTables deletes rows in reverse dependency order: event_rsvps
// references events, coachees references coaches.
func wipeTables(t testing.TB, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, table := range []string{
		"event_rsvps",
		"events",
		"coachees",
		"coaches",
		"mentor_applications",
		"gallery_images",
		"blog_posts",
		"admin_accounts",
	} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("clean up table %s: %v", table, err)
		}
	}
}

// ephemeralSchemaDB creates a throwaway schema, migrates it, and registers
// cleanup that drops it when the test finishes.
func ephemeralSchemaDB(t testing.TB) *sql.DB {
	t.Helper()

	adminDB, err := sql.Open("pgx", testDSN(""))
	if err != nil {
		t.Fatal("open admin db:", err)
	}

	schema := newSchemaName()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := adminDB.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+schema); err != nil {
		closeQuietly(t, "admin db", adminDB)
		t.Fatalf("create schema %s: %v", schema, err)
	}

	db, err := sql.Open("pgx", testDSN(schema+",public"))
	if err != nil {
		closeQuietly(t, "admin db", adminDB)
		t.Fatal("open schema-scoped db:", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	t.Logf("using ephemeral schema %s", schema)
	t.Cleanup(func() {
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dropCancel()
		closeQuietly(t, "schema db", db)
		if _, err := adminDB.ExecContext(dropCtx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
		closeQuietly(t, "admin db", adminDB)
	})

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer migrateCancel()
	if err := migrate.Run(migrateCtx, db); err != nil {
		t.Fatal("run migrations in ephemeral schema:", err)
	}
	return db
}

func newSchemaName() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err == nil {
		return "t_" + hex.EncodeToString(b)
	}
	return fmt.Sprintf("t_%d", time.Now().UnixNano())
}

// SetupTestRedis connects to the test Redis, reserves a DB index so
// packages running in parallel do not flush each other, and returns a
// client pointed at a freshly flushed database.
func SetupTestRedis(t testing.TB) *redis.Client {
	t.Helper()

	addr, ok := findRedisAddr(t)
	if !ok {
		skipMissing(t, requireRedis(), "Redis not available for testing")
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   reserveRedisDB(t, addr),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		closeQuietly(t, "redis client", client)
		if requireRedis() {
			t.Fatalf("Redis not available at %s: %v", addr, err)
		}
		t.Skipf("Redis not available at %s: %v", addr, err)
	}

	client.FlushDB(ctx)
	return client
}

// findRedisAddr probes REDIS_ADDR, the usual CI addresses, then the local
// docker-compose test port.
func findRedisAddr(t testing.TB) (string, bool) {
	t.Helper()

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr, pingRedis(t, addr)
	}
	for _, addr := range []string{"redis:6379", "localhost:6379"} {
		if pingRedis(t, addr) {
			return addr, true
		}
	}
	const local = "localhost:56379"
	return local, pingRedis(t, local)
}

func pingRedis(t testing.TB, addr string) bool {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer closeQuietly(t, "redis probe", client)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Logf("redis not available at %s: %v", addr, err)
		return false
	}
	return true
}

// reserveRedisDB picks a DB index for this test run. TEST_REDIS_DB wins when
// set; otherwise indexes 1-15 are claimed through lock keys held in DB 0,
// which FlushDB on the claimed database cannot remove.
func reserveRedisDB(t testing.TB, addr string) int {
	t.Helper()

	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
		t.Logf("invalid TEST_REDIS_DB=%q, auto-selecting", v)
	}

	meta := redis.NewClient(&redis.Options{Addr: addr, DB: 0})
	defer closeQuietly(t, "redis meta client", meta)

	for i := 1; i <= 15; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		lockKey := fmt.Sprintf("brightsteps:testutil:db_lock:%d", i)
		lockVal := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())
		ok, err := meta.SetNX(ctx, lockKey, lockVal, 30*time.Minute).Result()
		cancel()
		if err != nil || !ok {
			continue
		}

		t.Cleanup(func() { releaseRedisLock(t, addr, lockKey) })
		t.Logf("using redis DB=%d at %s", i, addr)
		return i
	}

	t.Logf("no free redis DB lock, falling back to DB=1 at %s", addr)
	return 1
}

func releaseRedisLock(t testing.TB, addr, lockKey string) {
	c := redis.NewClient(&redis.Options{Addr: addr, DB: 0})
	defer closeQuietly(t, "redis cleanup client", c)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Del(ctx, lockKey).Err(); err != nil {
		t.Logf("release redis db lock %s: %v", lockKey, err)
	}
}

func closeQuietly(t testing.TB, name string, closer interface{ Close() error }) {
	if err := closer.Close(); err != nil {
		t.Logf("close %s: %v", name, err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// skipMissing skips the test, or fails it when the environment insists the
// dependency be present.
func skipMissing(t testing.TB, required bool, args ...any) {
	t.Helper()
	if required {
		t.Fatal(args...)
	}
	t.Skip(args...)
}

func requireDB() bool    { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

// Pointer helpers for optional update-request fields.

func StringPtr(s string) *string { return &s }
func BoolPtr(b bool) *bool       { return &b }
func IntPtr(i int) *int          { return &i }
