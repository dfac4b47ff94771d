// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

// Package config loads and validates application configuration.
//
// Configuration is layered via Koanf v2 (highest priority wins):
//  1. Environment variables (HTTP_PORT, LOG_LEVEL, DUCKDB_PATH, ...)
//  2. Config file (config.yaml, or path from CONFIG_PATH)
//  3. Built-in defaults
package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Logging   LoggingConfig   `koanf:"logging"`
	Mood      MoodConfig      `koanf:"mood"`
	Recommend RecommendConfig `koanf:"recommend"`
	Vibe      VibeConfig      `koanf:"vibe"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimitPerMinute bounds requests per client IP across the API.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute" validate:"gte=1"`

	// CORSOrigins lists allowed origins. Empty means same-origin only.
	CORSOrigins []string `koanf:"cors_origins"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file path. Empty opens an in-memory database.
	Path string `koanf:"path"`

	// MaxMemory is DuckDB's memory limit, e.g. "2GB". Empty uses the default.
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 uses runtime.NumCPU().
	Threads int `koanf:"threads" validate:"gte=0"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// MoodConfig holds mood-computation settings.
type MoodConfig struct {
	// HistoryLimit caps the number of merged interactions fed into one
	// mood computation. 0 means unlimited.
	HistoryLimit int `koanf:"history_limit" validate:"gte=0"`
}

// RecommendConfig holds recommendation-engine settings.
type RecommendConfig struct {
	// CacheTTL is how long a ranked recommendation list stays valid.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// DefaultLimit is used when a request omits the limit.
	DefaultLimit int `koanf:"default_limit" validate:"gte=1"`

	// MaxLimit caps the requested limit.
	MaxLimit int `koanf:"max_limit" validate:"gte=1"`

	// MaxCandidates bounds the catalog pool fetched for scoring.
	MaxCandidates int `koanf:"max_candidates" validate:"gte=1"`
}

// VibeConfig holds vibe-override settings.
type VibeConfig struct {
	// MaxDurationHours caps how long a vibe override may live.
	MaxDurationHours int `koanf:"max_duration_hours" validate:"gte=1"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8484,
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       30 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			RateLimitPerMinute: 300,
			CORSOrigins:        nil,
		},
		Database: DatabaseConfig{
			Path:      "/data/filmtrack.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Mood: MoodConfig{
			HistoryLimit: 500,
		},
		Recommend: RecommendConfig{
			CacheTTL:      30 * time.Minute,
			DefaultLimit:  20,
			MaxLimit:      100,
			MaxCandidates: 2000,
		},
		Vibe: VibeConfig{
			MaxDurationHours: 72,
		},
	}
}
