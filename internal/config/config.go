// Copyright (c) 2025-2026 Blogport Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"BLOGPORT_DB_PATH" envDefault:"./data/blogport.db"`
	UploadsDir string `env:"BLOGPORT_UPLOADS_DIR" envDefault:"./uploads"`
	ServerHost string `env:"BLOGPORT_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"BLOGPORT_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"BLOGPORT_ENV" envDefault:"development"`
	LogLevel   string `env:"BLOGPORT_LOG_LEVEL" envDefault:"info"`

	// Import configuration
	GalleryFieldKey string        `env:"BLOGPORT_GALLERY_FIELD_KEY"`              // Attached-field key for image galleries
	FetchTimeout    time.Duration `env:"BLOGPORT_FETCH_TIMEOUT" envDefault:"30s"` // Remote image download timeout
	ImportImages    bool          `env:"BLOGPORT_IMPORT_IMAGES" envDefault:"true"`
	PreserveDates   bool          `env:"BLOGPORT_PRESERVE_DATES" envDefault:"true"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// SlogLevel maps the configured log level name to a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.FetchTimeout <= 0 {
		return nil, fmt.Errorf("BLOGPORT_FETCH_TIMEOUT must be positive, got %s", cfg.FetchTimeout)
	}

	return cfg, nil
}
