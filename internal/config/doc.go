// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

/*
Package config provides centralized configuration management for Doorly.

Configuration is layered with Koanf v2: built-in defaults, then an optional
YAML file (CONFIG_PATH, ./config.yaml, /etc/doorly/config.yaml), then
environment variables. The merged result is validated before it is
returned, so a *Config obtained from Load is always usable.

# Environment Variables

HTTP Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8080)
  - HTTP_TIMEOUT: Read/write timeout (default: 30s)
  - ENVIRONMENT: development or production (default: development)

Authentication:
  - AUTH_MODE: jwt or none (default: jwt)
  - JWT_SECRET: HS256 signing secret (min 32 chars, required for jwt)
  - ADMIN_USERNAME, ADMIN_PASSWORD or ADMIN_PASSWORD_HASH

Google Sheets:
  - GOOGLE_SHEETS_CREDENTIALS_FILE or GOOGLE_SHEETS_CREDENTIALS_JSON
  - SHEETS_REQUESTS_ID, SHEETS_INSTAGRAM_ID, SHEETS_LINKEDIN_ID (and _RANGE)

Instagram and Sync:
  - INSTAGRAM_ENABLED, INSTAGRAM_ACCESS_TOKEN, INSTAGRAM_USER_ID
  - SYNC_ENABLED, SYNC_INTERVAL, SYNC_RETRY_ATTEMPTS, SYNC_RETRY_DELAY

Audit trail:
  - AUDIT_ENABLED (default: true), AUDIT_MAX_EVENTS (default: 10000)
  - AUDIT_RETENTION (default: 168h), AUDIT_LOG_TO_STDOUT

Accounts beyond the bootstrap admin are listed in the YAML file:

	security:
	  users:
	    - username: sara
	      password_hash: "$2a$12$..."
	      role: analyst

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
