// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testBcryptHash is the OpenBSD bcrypt test vector for "U*U" at cost 5.
const testBcryptHash = "$2a$05$CCCCCCCCCCCCCCCCCCCCC.E5YPO9kmyuRGyh0XouQYb4YMJKvyOeW"

const testJWTSecret = "k3v9Qm2xT7pL0sW4yB8nR6dF1hJ5cZ0a"

// unsetConfigEnv removes every mapped variable for the duration of the test.
func unsetConfigEnv(t *testing.T) {
	t.Helper()
	names := []string{ConfigPathEnvVar}
	for key := range envMappings {
		names = append(names, strings.ToUpper(key))
	}
	for _, name := range names {
		if v, ok := os.LookupEnv(name); ok {
			os.Unsetenv(name)
			t.Cleanup(func() { os.Setenv(name, v) })
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Security.AuthMode != "jwt" {
		t.Errorf("Security.AuthMode = %q, want jwt", cfg.Security.AuthMode)
	}
	if cfg.Security.SessionTimeout != 24*time.Hour {
		t.Errorf("Security.SessionTimeout = %v, want 24h", cfg.Security.SessionTimeout)
	}
	if got := cfg.Sheets.Sources[SourceRequests].Range; got != "Requests!A:ZZ" {
		t.Errorf("requests range = %q, want Requests!A:ZZ", got)
	}
	if cfg.Sheets.Sources[SourceRequests].Configured() {
		t.Error("requests source should not be configured by default")
	}
	if cfg.Instagram.Enabled || cfg.Sync.Enabled {
		t.Error("Instagram and Sync should be disabled by default")
	}
	if cfg.Sync.RetryAttempts != 3 || cfg.Sync.RetryDelay != 2*time.Second {
		t.Errorf("Sync retry = %d/%v, want 3/2s", cfg.Sync.RetryAttempts, cfg.Sync.RetryDelay)
	}
	if cfg.Analytics.DailyDays != 30 || cfg.Analytics.WeeklyWeeks != 6 {
		t.Errorf("Analytics windows = %d/%d, want 30/6", cfg.Analytics.DailyDays, cfg.Analytics.WeeklyWeeks)
	}
	if cfg.Cache.TTL != time.Minute {
		t.Errorf("Cache.TTL = %v, want 1m", cfg.Cache.TTL)
	}
	if !cfg.Audit.Enabled || cfg.Audit.MaxEvents != 10000 || cfg.Audit.Retention != 7*24*time.Hour {
		t.Errorf("Audit = %+v, want enabled, 10000 events, 168h", cfg.Audit)
	}

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("defaults should require JWT_SECRET, got %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"ENVIRONMENT", "server.environment"},
		{"AUTH_MODE", "security.auth_mode"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"ADMIN_PASSWORD_HASH", "security.admin_password_hash"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"GOOGLE_SHEETS_CREDENTIALS_FILE", "sheets.credentials_file"},
		{"SHEETS_REQUESTS_ID", "sheets.sources.requests.spreadsheet_id"},
		{"SHEETS_LINKEDIN_RANGE", "sheets.sources.linkedin.range"},
		{"INSTAGRAM_ACCESS_TOKEN", "instagram.access_token"},
		{"SYNC_RETRY_DELAY", "sync.retry_delay"},
		{"CACHE_TTL", "cache.ttl"},
		{"ANALYTICS_TIMEZONE", "analytics.timezone"},
		{"AUDIT_RETENTION", "audit.retention"},
		{"LOG_LEVEL", "logging.level"},
		{"log_format", "logging.format"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.input); got != tt.expected {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFindConfigFile(t *testing.T) {
	unsetConfigEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9100\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() with missing CONFIG_PATH = %q, want empty", got)
	}
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	unsetConfigEnv(t)

	t.Setenv("AUTH_MODE", "none")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SHEETS_REQUESTS_ID", "1AbCdEf")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("SYNC_RETRY_DELAY", "5s")
	t.Setenv("ANALYTICS_TIMEZONE", "Asia/Riyadh")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	src := cfg.Sheets.Sources[SourceRequests]
	if src.SpreadsheetID != "1AbCdEf" || src.Range != "Requests!A:ZZ" {
		t.Errorf("requests source = %+v, want env id with default range", src)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Sync.RetryDelay != 5*time.Second {
		t.Errorf("Sync.RetryDelay = %v, want 5s", cfg.Sync.RetryDelay)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
	loc, err := cfg.Analytics.Location()
	if err != nil || loc.String() != "Asia/Riyadh" {
		t.Errorf("Location() = %v, %v", loc, err)
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	unsetConfigEnv(t)

	content := `
server:
  port: 8888
  host: "127.0.0.1"
security:
  auth_mode: jwt
  jwt_secret: "` + testJWTSecret + `"
  users:
    - username: sara
      password_hash: "` + testBcryptHash + `"
      role: analyst
    - username: omar
      password_hash: "` + testBcryptHash + `"
sheets:
  sources:
    instagram:
      spreadsheet_id: "insights-sheet"
logging:
  level: warn
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8888 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if len(cfg.Security.Users) != 2 {
		t.Fatalf("Users = %+v, want 2 accounts", cfg.Security.Users)
	}
	if cfg.Security.Users[0].Username != "sara" || cfg.Security.Users[0].Role != "analyst" {
		t.Errorf("Users[0] = %+v", cfg.Security.Users[0])
	}
	ig := cfg.Sheets.Sources[SourceInstagram]
	if ig.SpreadsheetID != "insights-sheet" || ig.Range != "Instagram!A:ZZ" {
		t.Errorf("instagram source = %+v", ig)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	unsetConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "security:\n  auth_mode: none\nserver:\n  port: 7000\ncache:\n  ttl: 30s\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7001")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("Server.Port = %d, want env override 7001", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Errorf("Cache.TTL = %v, want 30s from file", cfg.Cache.TTL)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		errMsg  string
	}{
		{
			name:    "jwt mode requires JWT_SECRET",
			envVars: map[string]string{"AUTH_MODE": "jwt"},
			errMsg:  "JWT_SECRET is required",
		},
		{
			name:    "short JWT secret",
			envVars: map[string]string{"AUTH_MODE": "jwt", "JWT_SECRET": "short"},
			errMsg:  "at least 32 characters",
		},
		{
			name:    "jwt mode requires an account",
			envVars: map[string]string{"AUTH_MODE": "jwt", "JWT_SECRET": testJWTSecret},
			errMsg:  "ADMIN_USERNAME or security.users",
		},
		{
			name: "weak admin password",
			envVars: map[string]string{
				"AUTH_MODE": "jwt", "JWT_SECRET": testJWTSecret,
				"ADMIN_USERNAME": "admin", "ADMIN_PASSWORD": "password",
			},
			errMsg: "ADMIN_PASSWORD",
		},
		{
			name:    "auth none in production",
			envVars: map[string]string{"AUTH_MODE": "none", "ENVIRONMENT": "production"},
			errMsg:  "AUTH_MODE=none is not allowed",
		},
		{
			name:    "sync without instagram",
			envVars: map[string]string{"AUTH_MODE": "none", "SYNC_ENABLED": "true"},
			errMsg:  "INSTAGRAM_ENABLED",
		},
		{
			name:    "bad timezone",
			envVars: map[string]string{"AUTH_MODE": "none", "ANALYTICS_TIMEZONE": "Mars/Olympus"},
			errMsg:  "ANALYTICS_TIMEZONE",
		},
		{
			name: "valid jwt configuration",
			envVars: map[string]string{
				"AUTH_MODE": "jwt", "JWT_SECRET": testJWTSecret,
				"ADMIN_USERNAME": "admin", "ADMIN_PASSWORD": "Dr3amH0me!2025x",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetConfigEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("LoadWithKoanf() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("LoadWithKoanf() error = %v, want containing %q", err, tt.errMsg)
			}
		})
	}
}
