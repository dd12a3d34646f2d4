package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/brightsteps/brightsteps-web/config"
)

// InitLogger builds the JSON structured logger and installs it as the
// process default.
func InitLogger() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// LoadConfig reads settings from the environment, after loading a .env file
// when one is present for local development.
func LoadConfig() (config.AppConfig, error) {
	var cfg config.AppConfig

	if err := godotenv.Load(); err != nil {
		// A missing .env file is the normal case outside development.
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return cfg, fmt.Errorf("load .env file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}
