// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package config

import (
	"fmt"
	"sort"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file, and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Configuration Categories:
//
//  1. Data Sources:
//     - Sheets: Google Sheets credentials and named row sources
//     - Instagram: Graph API access for the insights sync job
//
//  2. Infrastructure:
//     - Sync: Periodic Instagram insights sync
//     - Cache: In-memory response cache
//     - Server: HTTP server configuration
//
//  3. Analytics:
//     - Window sizes and time zone for the time-bucketed series
//
//  4. API & Security:
//     - Security: Authentication, authorization, rate limiting, CORS
//
//  5. Observability:
//     - Logging: Log levels and output formats
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Sheets    SheetsConfig    `koanf:"sheets"`
	Instagram InstagramConfig `koanf:"instagram"`
	Sync      SyncConfig      `koanf:"sync"`
	Cache     CacheConfig     `koanf:"cache"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Audit     AuditConfig     `koanf:"audit"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production" (default: "development")
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds authentication and authorization settings.
//
// Environment Variables:
//   - AUTH_MODE: jwt or none (default: jwt)
//   - JWT_SECRET: HS256 signing secret, at least 32 characters
//   - SESSION_TIMEOUT: Token lifetime (default: 24h)
//   - ADMIN_USERNAME / ADMIN_PASSWORD / ADMIN_PASSWORD_HASH: bootstrap admin account
//   - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW / DISABLE_RATE_LIMIT
//   - LOGIN_RATE_LIMIT_REQUESTS: Login attempts per window per IP (default: 10)
//   - CORS_ORIGINS: Comma-separated allowed origins
//   - TRUSTED_PROXIES: Comma-separated proxy IPs whose X-Forwarded-For is honored
//   - COOKIE_SECURE: Mark the session cookie Secure (default: false)
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	AdminUsername     string        `koanf:"admin_username"`
	AdminPassword     string        `koanf:"admin_password"`
	AdminPasswordHash string        `koanf:"admin_password_hash"`
	Users             []UserConfig  `koanf:"users"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	LoginRateLimit    int           `koanf:"login_rate_limit_reqs"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
	CookieName        string        `koanf:"cookie_name"`
	CookieSecure      bool          `koanf:"cookie_secure"`
	Casbin            CasbinConfig  `koanf:"casbin"`
}

// UserConfig describes a dashboard account. Accounts are only configured
// through the YAML file; PasswordHash is a bcrypt hash.
type UserConfig struct {
	Username     string `koanf:"username"`
	PasswordHash string `koanf:"password_hash"`
	Role         string `koanf:"role"`
}

// CasbinConfig holds Casbin RBAC authorization settings.
//
// Environment Variables:
//   - CASBIN_MODEL_PATH: Path to Casbin model file (default: embedded)
//   - CASBIN_POLICY_PATH: Path to Casbin policy file (default: embedded)
//   - CASBIN_DEFAULT_ROLE: Role for accounts without one (default: viewer)
type CasbinConfig struct {
	ModelPath   string `koanf:"model_path"`
	PolicyPath  string `koanf:"policy_path"`
	DefaultRole string `koanf:"default_role"`
}

// SheetSource locates a tab of a spreadsheet. Range uses A1 notation and
// should cover the header row.
type SheetSource struct {
	SpreadsheetID string `koanf:"spreadsheet_id"`
	Range         string `koanf:"range"`
}

// Configured reports whether the source points at a spreadsheet.
func (s SheetSource) Configured() bool {
	return s.SpreadsheetID != ""
}

// SheetsConfig holds Google Sheets API settings.
//
// Environment Variables:
//   - GOOGLE_SHEETS_CREDENTIALS_FILE: Service account JSON key file
//   - GOOGLE_SHEETS_CREDENTIALS_JSON: Service account JSON key (inline)
//   - SHEETS_TIMEOUT: Per-request timeout (default: 20s)
//   - SHEETS_REQUESTS_ID / SHEETS_REQUESTS_RANGE
//   - SHEETS_INSTAGRAM_ID / SHEETS_INSTAGRAM_RANGE
//   - SHEETS_LINKEDIN_ID / SHEETS_LINKEDIN_RANGE
type SheetsConfig struct {
	CredentialsFile string                 `koanf:"credentials_file"`
	CredentialsJSON string                 `koanf:"credentials_json"`
	Timeout         time.Duration          `koanf:"timeout"`
	Sources         map[string]SheetSource `koanf:"sources"`
}

// HasCredentials reports whether service account credentials were supplied.
func (s SheetsConfig) HasCredentials() bool {
	return s.CredentialsFile != "" || s.CredentialsJSON != ""
}

// SourceNames returns the configured source names in sorted order.
func (s SheetsConfig) SourceNames() []string {
	names := make([]string, 0, len(s.Sources))
	for name := range s.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Well-known source names.
const (
	SourceRequests  = "requests"
	SourceInstagram = "instagram"
	SourceLinkedIn  = "linkedin"
)

// InstagramConfig holds Instagram Graph API settings.
//
// Environment Variables:
//   - INSTAGRAM_ENABLED: Enable the Graph API client (default: false)
//   - INSTAGRAM_ACCESS_TOKEN: Long-lived access token
//   - INSTAGRAM_USER_ID: Instagram business account id
//   - INSTAGRAM_BASE_URL: Graph API base URL (default: https://graph.facebook.com)
//   - INSTAGRAM_API_VERSION: Graph API version (default: v21.0)
//   - INSTAGRAM_RATE_LIMIT: Requests per second (default: 3)
//   - INSTAGRAM_TIMEOUT: HTTP timeout (default: 30s)
type InstagramConfig struct {
	Enabled     bool          `koanf:"enabled"`
	AccessToken string        `koanf:"access_token"`
	UserID      string        `koanf:"user_id"`
	BaseURL     string        `koanf:"base_url"`
	APIVersion  string        `koanf:"api_version"`
	RateLimit   float64       `koanf:"rate_limit"`
	RateBurst   int           `koanf:"rate_burst"`
	Timeout     time.Duration `koanf:"timeout"`
}

// SyncConfig holds the Instagram insights sync settings
type SyncConfig struct {
	Enabled       bool          `koanf:"enabled"`
	Interval      time.Duration `koanf:"interval"`
	RunOnStartup  bool          `koanf:"run_on_startup"`
	RetryAttempts int           `koanf:"retry_attempts"`
	RetryDelay    time.Duration `koanf:"retry_delay"`
	MediaLimit    int           `koanf:"media_limit"`
}

// CacheConfig holds response cache settings
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	TTL        time.Duration `koanf:"ttl"`
	MaxEntries int           `koanf:"max_entries"`
}

// AnalyticsConfig holds defaults for the aggregation endpoints.
type AnalyticsConfig struct {
	Year        int    `koanf:"year"` // 0 means the current year
	DailyDays   int    `koanf:"daily_days"`
	WeeklyWeeks int    `koanf:"weekly_weeks"`
	Timezone    string `koanf:"timezone"`
	TopN        int    `koanf:"top_n"`
}

// Location resolves Timezone. An empty zone is UTC.
func (a AnalyticsConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid ANALYTICS_TIMEZONE %q: %w", a.Timezone, err)
	}
	return loc, nil
}

// AuditConfig holds settings for the in-memory security audit trail.
type AuditConfig struct {
	Enabled     bool          `koanf:"enabled"`
	MaxEvents   int           `koanf:"max_events"`
	Retention   time.Duration `koanf:"retention"`
	BufferSize  int           `koanf:"buffer_size"`
	LogToStdout bool          `koanf:"log_to_stdout"` // mirror events into the application log
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration in priority order:
//  1. Built-in defaults
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH)
//  3. Environment variables
func Load() (*Config, error) {
	return LoadWithKoanf()
}
