// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package config

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateSecurity,
		c.validateSheets,
		c.validateInstagram,
		c.validateSync,
		c.validateCache,
		c.validateAnalytics,
		c.validateAudit,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateAuthMode(); err != nil {
		return err
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	if err := c.validateRoles(); err != nil {
		return err
	}
	if c.Security.AuthMode == "jwt" {
		return c.validateJWTAuth()
	}
	return nil
}

// validAuthModes defines the allowed authentication modes
var validAuthModes = map[string]bool{
	"none": true,
	"jwt":  true,
}

// ValidRoles lists the roles known to the authorization policy.
var ValidRoles = map[string]bool{
	"admin":   true,
	"analyst": true,
	"viewer":  true,
}

func (c *Config) validateAuthMode() error {
	if !validAuthModes[c.Security.AuthMode] {
		return fmt.Errorf("AUTH_MODE must be one of: none, jwt")
	}
	if c.Security.AuthMode == "none" && c.IsProduction() {
		return fmt.Errorf("AUTH_MODE=none is not allowed when ENVIRONMENT=production. " +
			"Set AUTH_MODE=jwt or use ENVIRONMENT=development for testing purposes")
	}
	return nil
}

// validateCORS rejects wildcard origins in production with authentication,
// since the session cookie is sent with credentialed requests.
func (c *Config) validateCORS() error {
	if c.Security.AuthMode != "none" && c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production with authentication enabled. " +
			"Set specific origins: CORS_ORIGINS=https://dashboard.example.com")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.Security.AuthMode != "none" && c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	if c.Security.LoginRateLimit < minRateLimitRequests || c.Security.LoginRateLimit > maxRateLimitRequests {
		return fmt.Errorf("LOGIN_RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	return nil
}

func (c *Config) validateRoles() error {
	if !ValidRoles[c.Security.Casbin.DefaultRole] {
		return fmt.Errorf("CASBIN_DEFAULT_ROLE must be one of: admin, analyst, viewer")
	}
	seen := make(map[string]bool, len(c.Security.Users))
	for i, u := range c.Security.Users {
		if u.Username == "" {
			return fmt.Errorf("security.users[%d]: username is required", i)
		}
		key := strings.ToLower(u.Username)
		if seen[key] {
			return fmt.Errorf("security.users[%d]: duplicate username %q", i, u.Username)
		}
		seen[key] = true
		if u.Role != "" && !ValidRoles[u.Role] {
			return fmt.Errorf("security.users[%d]: role %q must be one of: admin, analyst, viewer", i, u.Role)
		}
		if _, err := bcrypt.Cost([]byte(u.PasswordHash)); err != nil {
			return fmt.Errorf("security.users[%d]: password_hash is not a bcrypt hash: %w", i, err)
		}
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

func (c *Config) validateJWTAuth() error {
	if err := c.validateJWTSecret(); err != nil {
		return err
	}
	if c.Security.SessionTimeout < time.Minute {
		return fmt.Errorf("SESSION_TIMEOUT must be at least 1m")
	}
	return c.validateAdminCredentials()
}

func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_MODE is jwt")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for security")
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

// validateAdminCredentials requires at least one account in jwt mode: the
// bootstrap admin from ADMIN_USERNAME or an entry in security.users.
func (c *Config) validateAdminCredentials() error {
	s := c.Security
	if s.AdminUsername == "" {
		if len(s.Users) == 0 {
			return fmt.Errorf("ADMIN_USERNAME or security.users is required when AUTH_MODE is jwt")
		}
		return nil
	}

	switch {
	case s.AdminPasswordHash != "":
		if _, err := bcrypt.Cost([]byte(s.AdminPasswordHash)); err != nil {
			return fmt.Errorf("ADMIN_PASSWORD_HASH is not a bcrypt hash: %w", err)
		}
	case s.AdminPassword != "":
		if containsPlaceholder(s.AdminPassword) {
			return fmt.Errorf("ADMIN_PASSWORD contains a placeholder value - set a secure password")
		}
		if err := DefaultPasswordPolicy().Validate(s.AdminPassword, s.AdminUsername); err != nil {
			return fmt.Errorf("ADMIN_PASSWORD: %w", err)
		}
	default:
		return fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required when ADMIN_USERNAME is set")
	}
	return nil
}

func (c *Config) validateSheets() error {
	if c.Sheets.Timeout <= 0 {
		return fmt.Errorf("SHEETS_TIMEOUT must be positive")
	}
	for name, src := range c.Sheets.Sources {
		if src.Configured() && src.Range == "" {
			return fmt.Errorf("sheets source %q has a spreadsheet id but no range", name)
		}
	}
	return nil
}

func (c *Config) validateInstagram() error {
	ig := c.Instagram
	if !ig.Enabled {
		return nil
	}
	if ig.AccessToken == "" {
		return fmt.Errorf("INSTAGRAM_ACCESS_TOKEN is required when INSTAGRAM_ENABLED=true")
	}
	if ig.UserID == "" {
		return fmt.Errorf("INSTAGRAM_USER_ID is required when INSTAGRAM_ENABLED=true")
	}
	if err := validateHTTPURL(ig.BaseURL, "INSTAGRAM_BASE_URL"); err != nil {
		return err
	}
	if ig.RateLimit <= 0 {
		return fmt.Errorf("INSTAGRAM_RATE_LIMIT must be positive")
	}
	if ig.RateBurst < 1 {
		return fmt.Errorf("INSTAGRAM_RATE_BURST must be at least 1")
	}
	if ig.Timeout <= 0 {
		return fmt.Errorf("INSTAGRAM_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSync() error {
	if !c.Sync.Enabled {
		return nil
	}
	if !c.Instagram.Enabled {
		return fmt.Errorf("SYNC_ENABLED=true requires INSTAGRAM_ENABLED=true")
	}
	if !c.Sheets.Sources[SourceInstagram].Configured() {
		return fmt.Errorf("SYNC_ENABLED=true requires SHEETS_INSTAGRAM_ID")
	}
	if c.Sync.Interval < time.Minute {
		return fmt.Errorf("SYNC_INTERVAL must be at least 1m")
	}
	if c.Sync.RetryAttempts < 1 || c.Sync.RetryAttempts > 10 {
		return fmt.Errorf("SYNC_RETRY_ATTEMPTS must be between 1 and 10")
	}
	if c.Sync.RetryDelay < 0 {
		return fmt.Errorf("SYNC_RETRY_DELAY must not be negative")
	}
	if c.Sync.MediaLimit < 1 || c.Sync.MediaLimit > 100 {
		return fmt.Errorf("SYNC_MEDIA_LIMIT must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when CACHE_ENABLED=true")
	}
	if c.Cache.MaxEntries < 1 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be at least 1")
	}
	return nil
}

func (c *Config) validateAudit() error {
	if !c.Audit.Enabled {
		return nil
	}
	if c.Audit.MaxEvents < 1 {
		return fmt.Errorf("AUDIT_MAX_EVENTS must be at least 1")
	}
	if c.Audit.Retention < 0 {
		return fmt.Errorf("AUDIT_RETENTION must not be negative")
	}
	if c.Audit.BufferSize < 1 {
		return fmt.Errorf("AUDIT_BUFFER_SIZE must be at least 1")
	}
	return nil
}

func (c *Config) validateAnalytics() error {
	a := c.Analytics
	if a.Year != 0 && (a.Year < 1970 || a.Year > 9999) {
		return fmt.Errorf("ANALYTICS_YEAR must be 0 or between 1970 and 9999")
	}
	if a.DailyDays < 1 || a.DailyDays > 366 {
		return fmt.Errorf("ANALYTICS_DAILY_DAYS must be between 1 and 366")
	}
	if a.WeeklyWeeks < 1 || a.WeeklyWeeks > 104 {
		return fmt.Errorf("ANALYTICS_WEEKLY_WEEKS must be between 1 and 104")
	}
	if a.TopN < 1 {
		return fmt.Errorf("ANALYTICS_TOP_N must be at least 1")
	}
	_, err := a.Location()
	return err
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns indicate the operator forgot to set a real value.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"YOUR_PASSWORD",
	"PLACEHOLDER",
	"EXAMPLE",
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
