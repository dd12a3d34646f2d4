package bootstrap

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/brightsteps/brightsteps-web/config"
	"github.com/brightsteps/brightsteps-web/internal/data"
	"github.com/redis/go-redis/v9"
)

const (
	dbMaxOpenConns    = 25
	dbMaxIdleConns    = 5
	dbConnMaxLifetime = 5 * time.Minute

	connectPingTimeout = 5 * time.Second
)

// ConnectDB opens a PostgreSQL connection pool and verifies it responds.
func ConnectDB(cfg config.DBConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", postgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	if err := verifyConn("database", db.PingContext, db.Close); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("database connected", "host", cfg.Host, "port", cfg.Port, "database", cfg.Name)
	}
	return db, nil
}

// verifyConn pings the freshly opened handle within the connect timeout and
// closes it again when the ping fails.
func verifyConn(what string, ping func(context.Context) error, closeFn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), connectPingTimeout)
	defer cancel()

	err := ping(ctx)
	if err == nil {
		return nil
	}
	if closeErr := closeFn(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("close %s handle: %w", what, closeErr))
	}
	return fmt.Errorf("ping %s: %w", what, err)
}

// postgresDSN builds the connection string. url.URL takes care of escaping
// credentials that contain special characters.
func postgresDSN(cfg config.DBConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": []string{cfg.SSLMode}}.Encode(),
	}
	return u.String()
}

// ConnectRedis connects the session store backend, selecting a direct,
// sentinel, or cluster client based on configuration.
//
//nolint:ireturn // redis.UniversalClient covers all three client flavors.
func ConnectRedis(cfg config.RedisConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	client, addr, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err := verifyConn("redis", ping, client.Close); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("redis connected", "addr", redactRedisAddr(addr))
	}
	return client, nil
}

//nolint:ireturn // redis.UniversalClient covers all three client flavors.
func newRedisClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	switch {
	case cfg.UseCluster:
		return newClusterClient(cfg)
	case cfg.UseSentinel:
		return newSentinelClient(cfg)
	default:
		return newDirectClient(cfg)
	}
}

//nolint:ireturn // redis.UniversalClient covers all three client flavors.
func newClusterClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	var addrs []string
	for _, node := range cfg.ClusterNodes {
		if trimmed := strings.TrimSpace(node); trimmed != "" {
			addrs = append(addrs, trimmed)
		}
	}

	endpoint := redisEndpoint{password: cfg.Password}
	if len(addrs) == 0 {
		// Single-address fallback when no explicit node list is configured.
		parsed, err := redisEndpointFromURI(cfg.URI, cfg.Password)
		if err != nil {
			return nil, "", err
		}
		if parsed.addr != "" {
			addrs = []string{parsed.addr}
			endpoint = parsed
		}
	}

	if len(addrs) == 0 {
		return nil, "", errors.New("redis cluster configuration requires at least one address")
	}

	opts := &redis.ClusterOptions{
		Addrs:     addrs,
		Username:  endpoint.username,
		Password:  endpoint.password,
		TLSConfig: endpoint.tls,
	}
	return redis.NewClusterClient(opts), "cluster:" + strings.Join(addrs, ","), nil
}

//nolint:ireturn // redis.UniversalClient covers all three client flavors.
func newSentinelClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	if len(cfg.SentinelNodes) == 0 {
		return nil, "", errors.New("redis sentinel configuration requires at least one sentinel node")
	}

	client := redis.NewFailoverClient(&redis.FailoverOptions{
		MasterName:       cfg.SentinelMasterName,
		SentinelAddrs:    cfg.SentinelNodes,
		Password:         cfg.Password,
		SentinelPassword: cfg.SentinelPassword,
	})
	return client, "sentinel:" + cfg.SentinelMasterName, nil
}

//nolint:ireturn // redis.UniversalClient covers all three client flavors.
func newDirectClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	uri := strings.TrimSpace(cfg.URI)
	switch {
	case uri == "":
		return nil, "", errors.New("redis direct configuration requires a URI")
	case !isRedisURL(uri):
		// Bare host:port address.
		return redis.NewClient(&redis.Options{Addr: uri, Password: cfg.Password}), uri, nil
	}

	opt, err := redis.ParseURL(uri)
	if err != nil {
		return nil, "", fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opt), opt.Addr, nil
}

// redisEndpoint carries connection details parsed from a redis:// URI.
type redisEndpoint struct {
	addr     string
	username string
	password string
	tls      *tls.Config
}

func redisEndpointFromURI(uri, defaultPassword string) (redisEndpoint, error) {
	trimmed := strings.TrimSpace(uri)
	if trimmed == "" {
		return redisEndpoint{password: defaultPassword}, nil
	}

	if !isRedisURL(trimmed) {
		return redisEndpoint{addr: trimmed, password: defaultPassword}, nil
	}

	opt, err := redis.ParseURL(trimmed)
	if err != nil {
		return redisEndpoint{}, fmt.Errorf("parse redis cluster url: %w", err)
	}

	ep := redisEndpoint{
		addr:     opt.Addr,
		username: opt.Username,
		password: defaultPassword,
		tls:      opt.TLSConfig,
	}
	if opt.Password != "" {
		ep.password = opt.Password
	}
	return ep, nil
}

func isRedisURL(value string) bool {
	return strings.HasPrefix(value, "redis://") || strings.HasPrefix(value, "rediss://")
}

// redactRedisAddr strips credentials before the address reaches the log.
func redactRedisAddr(addr string) string {
	u, err := url.Parse(addr)
	if err == nil && u.User != nil {
		u.User = url.User("*")
		return u.Redacted()
	}
	if i := strings.LastIndex(addr, "@"); i >= 0 {
		return addr[i+1:]
	}
	return addr
}

// RunMigrations applies any pending database migrations.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if err := data.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if logger == nil {
		return nil
	}
	logger.InfoContext(ctx, "database migrations completed")
	return nil
}
