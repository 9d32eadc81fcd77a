// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateRecipes(); err != nil {
		return err
	}

	if err := c.validateShoppingList(); err != nil {
		return err
	}

	if err := c.validateEvents(); err != nil {
		return err
	}

	if err := c.validateAudit(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates HTTP server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// validateDatabase validates DuckDB configuration
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative")
	}
	return nil
}

// validateAPI validates pagination configuration
func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be greater than or equal to API_DEFAULT_PAGE_SIZE")
	}
	return nil
}

// validateSecurity validates authentication and rate limiting configuration
func (c *Config) validateSecurity() error {
	if err := c.validateJWTSecret(); err != nil {
		return err
	}
	if err := c.validateAdminCredentials(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validateLoginThrottle()
}

// validateJWTSecret validates the JWT secret configuration
func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for security")
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	return nil
}

// validateAdminCredentials validates the optional admin bootstrap account
func (c *Config) validateAdminCredentials() error {
	if c.Security.AdminPassword == "" {
		return nil
	}
	if c.Security.AdminEmail == "" {
		return fmt.Errorf("ADMIN_EMAIL is required when ADMIN_PASSWORD is set")
	}
	if containsPlaceholder(c.Security.AdminPassword) {
		return fmt.Errorf("ADMIN_PASSWORD contains a placeholder value - set a secure password")
	}
	if len(c.Security.AdminPassword) < 8 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
	}
	return nil
}

// validateRateLimits validates the global API rate limit
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Security.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s")
	}
	return nil
}

// validateLoginThrottle validates the per-email login throttle
func (c *Config) validateLoginThrottle() error {
	if c.Security.LoginAttempts < 1 {
		return fmt.Errorf("LOGIN_ATTEMPTS must be at least 1")
	}
	if c.Security.LoginWindow <= 0 {
		return fmt.Errorf("LOGIN_WINDOW must be positive")
	}
	return nil
}

// validateRecipes validates amount and cooking time bounds
func (c *Config) validateRecipes() error {
	r := c.Recipes
	if r.MinAmount < 1 {
		return fmt.Errorf("RECIPE_MIN_AMOUNT must be at least 1")
	}
	if r.MaxAmount < r.MinAmount {
		return fmt.Errorf("RECIPE_MAX_AMOUNT must be greater than or equal to RECIPE_MIN_AMOUNT")
	}
	if r.MinCookingTime < 1 {
		return fmt.Errorf("RECIPE_MIN_COOKING_TIME must be at least 1")
	}
	if r.MaxCookingTime < r.MinCookingTime {
		return fmt.Errorf("RECIPE_MAX_COOKING_TIME must be greater than or equal to RECIPE_MIN_COOKING_TIME")
	}
	return nil
}

// validShoppingListFormats contains the supported download formats
var validShoppingListFormats = map[string]bool{
	"pdf": true,
	"txt": true,
}

// validateShoppingList validates shopping list settings
func (c *Config) validateShoppingList() error {
	if !validShoppingListFormats[c.ShoppingList.Format] {
		return fmt.Errorf("SHOPPING_LIST_FORMAT must be one of: pdf, txt")
	}
	if c.ShoppingList.MaxLineTotal < 1 {
		return fmt.Errorf("SHOPPING_LIST_MAX_LINE_TOTAL must be at least 1")
	}
	if c.ShoppingList.CacheSize < 0 {
		return fmt.Errorf("SHOPPING_LIST_CACHE_SIZE must be non-negative")
	}
	return nil
}

// validEventTransports contains the supported event transports
var validEventTransports = map[string]bool{
	"gochannel": true,
	"nats":      true,
}

// validateEvents validates the event transport configuration
func (c *Config) validateEvents() error {
	if !validEventTransports[c.Events.Transport] {
		return fmt.Errorf("EVENTS_TRANSPORT must be one of: gochannel, nats")
	}
	if c.Events.Transport != "nats" {
		return nil
	}
	if !c.Events.EmbeddedServer && c.Events.NATSURL == "" {
		return fmt.Errorf("NATS_URL is required when EVENTS_TRANSPORT=nats and NATS_EMBEDDED=false")
	}
	if c.Events.EmbeddedServer && (c.Events.EmbeddedPort < -1 || c.Events.EmbeddedPort > 65535) {
		return fmt.Errorf("NATS_EMBEDDED_PORT must be between -1 and 65535")
	}
	return nil
}

// validateAudit validates audit trail configuration
func (c *Config) validateAudit() error {
	if !c.Audit.Enabled {
		return nil
	}
	if c.Audit.RetentionDays < 1 {
		return fmt.Errorf("AUDIT_RETENTION_DAYS must be at least 1")
	}
	if c.Audit.BufferSize < 0 {
		return fmt.Errorf("AUDIT_BUFFER_SIZE must be non-negative")
	}
	if c.Audit.CleanupInterval <= 0 {
		return fmt.Errorf("AUDIT_CLEANUP_INTERVAL must be positive")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

// ShouldWarnAboutCORS reports a wildcard CORS origin in production.
func (c *Config) ShouldWarnAboutCORS() bool {
	if !c.IsProduction() {
		return false
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns defines common placeholder patterns that indicate
// the user forgot to set a real value.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"YOUR_PASSWORD",
	"PLACEHOLDER",
	"EXAMPLE",
}

// containsPlaceholder checks if a value contains common placeholder patterns
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
