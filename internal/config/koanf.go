// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/doorly/config.yaml",
	"/etc/doorly/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Security: SecurityConfig{
			AuthMode:        "jwt",
			SessionTimeout:  24 * time.Hour,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			LoginRateLimit:  10,
			CORSOrigins:     []string{"*"},
			TrustedProxies:  []string{},
			CookieName:      "doorly_session",
			Casbin: CasbinConfig{
				DefaultRole: "viewer",
			},
		},
		Sheets: SheetsConfig{
			Timeout: 20 * time.Second,
			Sources: map[string]SheetSource{
				SourceRequests:  {Range: "Requests!A:ZZ"},
				SourceInstagram: {Range: "Instagram!A:ZZ"},
				SourceLinkedIn:  {Range: "LinkedIn!A:ZZ"},
			},
		},
		Instagram: InstagramConfig{
			Enabled:    false,
			BaseURL:    "https://graph.facebook.com",
			APIVersion: "v21.0",
			RateLimit:  3,
			RateBurst:  5,
			Timeout:    30 * time.Second,
		},
		Sync: SyncConfig{
			Enabled:       false,
			Interval:      6 * time.Hour,
			RunOnStartup:  true,
			RetryAttempts: 3,
			RetryDelay:    2 * time.Second,
			MediaLimit:    25,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        time.Minute,
			MaxEntries: 1000,
		},
		Analytics: AnalyticsConfig{
			Year:        0,
			DailyDays:   30,
			WeeklyWeeks: 6,
			Timezone:    "UTC",
			TopN:        10,
		},
		Audit: AuditConfig{
			Enabled:     true,
			MaxEvents:   10000,
			Retention:   7 * 24 * time.Hour,
			BufferSize:  256,
			LogToStdout: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources.
// Priority (lowest to highest): defaults, config file, environment variables.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// SHEETS_REQUESTS_ID -> sheets.sources.requests.spreadsheet_id
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the path of the first config file found, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are keys that arrive from the environment as
// comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields converts comma-separated string values to slices
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	"auth_mode":                 "security.auth_mode",
	"jwt_secret":                "security.jwt_secret",
	"session_timeout":           "security.session_timeout",
	"admin_username":            "security.admin_username",
	"admin_password":            "security.admin_password",
	"admin_password_hash":       "security.admin_password_hash",
	"rate_limit_requests":       "security.rate_limit_reqs",
	"rate_limit_window":         "security.rate_limit_window",
	"disable_rate_limit":        "security.rate_limit_disabled",
	"login_rate_limit_requests": "security.login_rate_limit_reqs",
	"cors_origins":              "security.cors_origins",
	"trusted_proxies":           "security.trusted_proxies",
	"cookie_name":               "security.cookie_name",
	"cookie_secure":             "security.cookie_secure",
	"casbin_model_path":         "security.casbin.model_path",
	"casbin_policy_path":        "security.casbin.policy_path",
	"casbin_default_role":       "security.casbin.default_role",

	"google_sheets_credentials_file": "sheets.credentials_file",
	"google_sheets_credentials_json": "sheets.credentials_json",
	"sheets_timeout":                 "sheets.timeout",
	"sheets_requests_id":             "sheets.sources.requests.spreadsheet_id",
	"sheets_requests_range":          "sheets.sources.requests.range",
	"sheets_instagram_id":            "sheets.sources.instagram.spreadsheet_id",
	"sheets_instagram_range":         "sheets.sources.instagram.range",
	"sheets_linkedin_id":             "sheets.sources.linkedin.spreadsheet_id",
	"sheets_linkedin_range":          "sheets.sources.linkedin.range",

	"instagram_enabled":      "instagram.enabled",
	"instagram_access_token": "instagram.access_token",
	"instagram_user_id":      "instagram.user_id",
	"instagram_base_url":     "instagram.base_url",
	"instagram_api_version":  "instagram.api_version",
	"instagram_rate_limit":   "instagram.rate_limit",
	"instagram_rate_burst":   "instagram.rate_burst",
	"instagram_timeout":      "instagram.timeout",

	"sync_enabled":        "sync.enabled",
	"sync_interval":       "sync.interval",
	"sync_on_startup":     "sync.run_on_startup",
	"sync_retry_attempts": "sync.retry_attempts",
	"sync_retry_delay":    "sync.retry_delay",
	"sync_media_limit":    "sync.media_limit",

	"cache_enabled":     "cache.enabled",
	"cache_ttl":         "cache.ttl",
	"cache_max_entries": "cache.max_entries",

	"analytics_year":         "analytics.year",
	"analytics_daily_days":   "analytics.daily_days",
	"analytics_weekly_weeks": "analytics.weekly_weeks",
	"analytics_timezone":     "analytics.timezone",
	"analytics_top_n":        "analytics.top_n",

	"audit_enabled":       "audit.enabled",
	"audit_max_events":    "audit.max_events",
	"audit_retention":     "audit.retention",
	"audit_buffer_size":   "audit.buffer_size",
	"audit_log_to_stdout": "audit.log_to_stdout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf paths.
// Unmapped variables return "" so the provider skips them.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
