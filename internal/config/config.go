// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

// Package config loads server configuration from built-in defaults, an
// optional YAML file and environment variables, in that order of precedence.
//
// Environment Variables:
//   - HTTP_PORT, HTTP_HOST, HTTP_TIMEOUT, ENVIRONMENT
//   - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS
//   - JWT_SECRET, SESSION_TIMEOUT, BCRYPT_COST, CORS_ORIGINS
//   - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
//   - SHEETS_DIR, SHEETS_DEFAULT_RANGE, SHEETS_FETCH_TIMEOUT, SHEETS_DEMO_ENABLED
//   - SHEETS_FETCH_RATE, SHEETS_FETCH_BURST
//   - CHART_SAMPLE_SIZE, TABLE_PAGE_SIZE
//   - CACHE_TTL, VIEW_IDLE_TIMEOUT
//   - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
//   - CONFIG_PATH (YAML file location)
package config

import "time"

// Config is the complete server configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Sheets   SheetsConfig   `koanf:"sheets"`
	Charts   ChartsConfig   `koanf:"charts"`
	Cache    CacheConfig    `koanf:"cache"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging or production
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()
}

// SecurityConfig holds authentication and request limiting settings
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	BcryptCost        int           `koanf:"bcrypt_cost"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// SheetsConfig controls where datasets come from and how fetches are
// bounded.
type SheetsConfig struct {
	// Dir holds <sourceId>.xlsx workbooks.
	Dir          string        `koanf:"dir"`
	DefaultRange string        `koanf:"default_range"`
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
	DemoEnabled  bool          `koanf:"demo_enabled"`

	// FetchRate is the per-user sustained fetch rate (fetches/second) and
	// FetchBurst the bucket size.
	FetchRate  float64 `koanf:"fetch_rate"`
	FetchBurst int     `koanf:"fetch_burst"`
}

// ChartsConfig holds chart defaults
type ChartsConfig struct {
	DefaultSampleSize int `koanf:"default_sample_size"`
	TablePageSize     int `koanf:"table_page_size"`
}

// CacheConfig holds render cache and view lifetime settings
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`

	// ViewIdleTimeout evicts dashboard views nobody touched for this long.
	ViewIdleTimeout time.Duration `koanf:"view_idle_timeout"`
}

// LoggingConfig holds zerolog settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads the configuration. See LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}
