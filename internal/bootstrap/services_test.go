package bootstrap

import (
	"io"
	"log/slog"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/brightsteps/brightsteps-web/config"
)

func TestBuildServicesWiresContentServices(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	container := BuildServices(ServiceDeps{
		Config: &config.AppConfig{},
		Logger: logger,
	})

	if container.Blog == nil {
		t.Error("Blog service not wired")
	}
	if container.Gallery == nil {
		t.Error("Gallery service not wired")
	}
	if container.Coaches == nil {
		t.Error("Coach service not wired")
	}
	if container.Coachees == nil {
		t.Error("Coachee service not wired")
	}
	if container.Applications == nil {
		t.Error("Application service not wired")
	}
	if container.Events == nil {
		t.Error("Event service not wired")
	}
	if container.Admins == nil {
		t.Error("Admin service not wired")
	}
	if container.Dashboard == nil {
		t.Error("Dashboard service not wired")
	}

	// No redis client means no session store, so auth stays disabled.
	if container.Auth != nil {
		t.Error("Auth service should be nil without redis")
	}
}

func TestBuildServicesEnablesAuthWithRedis(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	t.Cleanup(func() { _ = client.Close() })

	container := BuildServices(ServiceDeps{
		Config: &config.AppConfig{
			Auth: config.AuthConfig{
				Mode: config.AuthModeMock,
				DevAuth: config.DevAuthConfig{
					Email:       "dev@example.com",
					DisplayName: "Dev Admin",
					Password:    "dev",
					Groups:      []string{"super_admins"},
				},
			},
		},
		RedisClient: client,
		Logger:      logger,
	})

	if container.Auth == nil {
		t.Fatal("Auth service not wired with redis client and mock mode")
	}
}
