package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
	"github.com/brightsteps/brightsteps-web/internal/testutil"
)

// newTestStore connects to the test Redis (skipping when unavailable) and
// returns the client alongside a store using the default prefix.
func newTestStore(t *testing.T) (*redis.Client, *SessionStore) {
	t.Helper()
	client := testutil.SetupTestRedis(t)
	t.Cleanup(func() { client.Close() })
	return client, NewSessionStore(client)
}

// adminSession builds a session for id expiring ttl from now.
func adminSession(id string, ttl time.Duration) domainauth.Session {
	return domainauth.Session{
		ID:          id,
		UserID:      "admin-123",
		Email:       "admin@brightsteps.org",
		DisplayName: "Pat Admin",
		Role:        domainauth.RoleAdmin,
		ExpiresAt:   time.Now().Add(ttl),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	session := adminSession("test-session-1", 30*time.Minute)
	require.NoError(t, store.Save(ctx, session))

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
	assert.Equal(t, session.UserID, retrieved.UserID)
	assert.Equal(t, session.Email, retrieved.Email)
	assert.Equal(t, session.DisplayName, retrieved.DisplayName)
	assert.Equal(t, session.Role, retrieved.Role)
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	_, store := newTestStore(t)

	_, err := store.Get(context.Background(), "non-existent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_Delete(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, adminSession("test-session-delete", 30*time.Minute)))

	_, err := store.Get(ctx, "test-session-delete")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "test-session-delete"))

	_, err = store.Get(ctx, "test-session-delete")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op.
	require.NoError(t, store.Delete(ctx, "test-session-delete"))
}

func TestSessionStore_TTLExpiration(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, adminSession("test-session-ttl", 100*time.Millisecond)))

	time.Sleep(200 * time.Millisecond)

	_, err := store.Get(ctx, "test-session-ttl")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_CustomPrefix(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	t.Cleanup(func() { client.Close() })

	store := NewSessionStoreWithPrefix(client, "test-prefix:")
	ctx := context.Background()

	session := adminSession("prefix-test", 30*time.Minute)
	session.Role = domainauth.RoleSuperAdmin
	require.NoError(t, store.Save(ctx, session))

	assert.Equal(t, int64(1), client.Exists(ctx, "test-prefix:prefix-test").Val())

	retrieved, err := store.Get(ctx, "prefix-test")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
}

func TestSessionStore_SaveEmptyID(t *testing.T) {
	_, store := newTestStore(t)

	session := adminSession("", 30*time.Minute)
	err := store.Save(context.Background(), session)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session ID cannot be empty")
}

func TestSessionStore_SaveExpiredSession(t *testing.T) {
	_, store := newTestStore(t)

	session := adminSession("expired-session", -time.Hour)
	err := store.Save(context.Background(), session)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session is expired")
}

func TestSessionStore_GetEmptyID(t *testing.T) {
	_, store := newTestStore(t)

	_, err := store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}
