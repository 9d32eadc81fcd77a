// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package config loads and validates the server configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	db, err := database.New(&cfg.Database)
package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Database     DatabaseConfig     `koanf:"database"`
	API          APIConfig          `koanf:"api"`
	Security     SecurityConfig     `koanf:"security"`
	Logging      LoggingConfig      `koanf:"logging"`
	Recipes      RecipesConfig      `koanf:"recipes"`
	ShoppingList ShoppingListConfig `koanf:"shopping_list"`
	Events       EventsConfig       `koanf:"events"`
	Audit        AuditConfig        `koanf:"audit"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings.
//
// IngredientsFixture points at a JSON array of {"name", "measurement_unit"}
// objects that is loaded once when the ingredients table is empty.
type DatabaseConfig struct {
	Path               string `koanf:"path"`
	MaxMemory          string `koanf:"max_memory"`
	Threads            int    `koanf:"threads"`
	IngredientsFixture string `koanf:"ingredients_fixture"`
}

// APIConfig holds pagination settings
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds authentication, authorization and rate limiting settings
type SecurityConfig struct {
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// AdminEmail is promoted to the admin role at startup. When AdminPassword
	// is also set and the account does not exist, it is created.
	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`

	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// LoginAttempts per LoginWindow are allowed for a single email address.
	LoginAttempts int           `koanf:"login_attempts"`
	LoginWindow   time.Duration `koanf:"login_window"`

	CORSOrigins    []string `koanf:"cors_origins"`
	TrustedProxies []string `koanf:"trusted_proxies"`

	// RevocationPath is the badger directory for revoked token IDs.
	// Empty keeps revocations in memory.
	RevocationPath string `koanf:"revocation_path"`

	// PolicyPath overrides the embedded Casbin route policy.
	PolicyPath string `koanf:"policy_path"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RecipesConfig holds the bounds applied to recipe input.
// Earlier deployments used 1..1000 for amounts, so both ends are configurable.
type RecipesConfig struct {
	MinAmount      int `koanf:"min_amount"`
	MaxAmount      int `koanf:"max_amount"`
	MinCookingTime int `koanf:"min_cooking_time"`
	MaxCookingTime int `koanf:"max_cooking_time"`
}

// ShoppingListConfig holds shopping list consolidation and rendering settings
type ShoppingListConfig struct {
	// Format is the default download format: "pdf" or "txt".
	Format string `koanf:"format"`
	Title  string `koanf:"title"`

	// FontPath is an optional TrueType font for the PDF renderer. Without it
	// the embedded DejaVu Sans is used.
	FontPath string `koanf:"font_path"`

	// MaxLineTotal is the largest total a line may carry before it is
	// flagged as overflowing.
	MaxLineTotal int64 `koanf:"max_line_total"`

	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
}

// EventsConfig holds domain event transport settings
type EventsConfig struct {
	// Transport is "gochannel" (in-process) or "nats".
	Transport string `koanf:"transport"`

	NATSURL string `koanf:"nats_url"`

	// EmbeddedServer starts an in-process NATS server and connects to it.
	EmbeddedServer bool   `koanf:"embedded_server"`
	EmbeddedHost   string `koanf:"embedded_host"`
	EmbeddedPort   int    `koanf:"embedded_port"`

	TopicPrefix string `koanf:"topic_prefix"`

	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout"`
}

// AuditConfig holds security audit trail settings
type AuditConfig struct {
	Enabled       bool `koanf:"enabled"`
	RetentionDays int  `koanf:"retention_days"`

	// BufferSize is the async write queue length. Zero writes synchronously.
	BufferSize int `koanf:"buffer_size"`

	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// Load reads configuration from defaults, an optional config file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
