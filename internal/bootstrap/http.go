package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/brightsteps/brightsteps-web/config"
	httpx "github.com/brightsteps/brightsteps-web/internal/http"
)

const (
	httpReadTimeout     = 30 * time.Second
	httpWriteTimeout    = 30 * time.Second
	httpIdleTimeout     = 120 * time.Second
	httpShutdownTimeout = 10 * time.Second
)

// HTTPServerConfig groups what StartHTTPServer needs to stand up the site.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer builds the router, wraps it in middleware, and begins
// listening in a goroutine. The returned server is handed back for graceful
// shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}

	logger := slog.Default()
	if cfg.Logger != nil {
		logger = cfg.Logger
	}
	appCfg := &config.AppConfig{}
	if cfg.Config != nil {
		appCfg = cfg.Config
	}

	handler := assembleHandler(appCfg, cfg.Services, logger)

	addr := appCfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  httpReadTimeout,
		WriteTimeout: httpWriteTimeout,
		IdleTimeout:  httpIdleTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// Middleware order, outermost first: Recover, Logging, Compression, router.
// Compression sits innermost so the access log records compressed sizes.
func assembleHandler(appCfg *config.AppConfig, svc ServiceContainer, logger *slog.Logger) http.Handler {
	h := httpx.NewRouter(httpx.RouterServices{
		Blog:         svc.Blog,
		Gallery:      svc.Gallery,
		Coaches:      svc.Coaches,
		Coachees:     svc.Coachees,
		Applications: svc.Applications,
		Events:       svc.Events,
		Admins:       svc.Admins,
		Dashboard:    svc.Dashboard,
		Auth:         svc.Auth,
		CookieDomain: appCfg.HTTP.CookieDomain,
		IsDev:        appCfg.IsDev,
		Logger:       logger,
	})

	if appCfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", appCfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: appCfg.HTTP.CompressionLevel})(h)
	}
	h = httpx.Logging(logger)(h)
	return httpx.Recover(logger)(h)
}

// ShutdownHTTPServer drains in-flight requests, bounded by
// httpShutdownTimeout.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, httpShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}
