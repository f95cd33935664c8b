// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

/*
Package main is the entry point for the Doorly server.

Doorly reads real estate request sheets and social media insight sheets
from Google Sheets, aggregates them into dashboard KPIs and time series,
and serves them over a JSON API. An optional job pulls Instagram post
insights from the Graph API into the Instagram sheet on a schedule.

# Application Architecture

	doorly (root supervisor)
	├── data-layer    response cache janitor, audit retention
	├── sync-layer    Instagram insights sync (SYNC_ENABLED=true)
	└── api-layer     HTTP server (chi)

Initialization order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Google Sheets client behind a circuit breaker
 4. Response cache and security audit trail
 5. Authentication (JWT) and authorization (Casbin roles)
 6. Instagram Graph API client and insights syncer, when enabled
 7. Supervisor tree and HTTP server

# Configuration

	# Server
	HTTP_PORT=8080
	ENVIRONMENT=production       # AUTH_MODE=none is refused here
	LOG_LEVEL=info
	LOG_FORMAT=json

	# Authentication
	AUTH_MODE=jwt                # jwt or none
	JWT_SECRET=<32+ chars>
	ADMIN_USERNAME=admin
	ADMIN_PASSWORD_HASH=<bcrypt>

	# Google Sheets
	GOOGLE_SHEETS_CREDENTIALS_FILE=/secrets/service-account.json
	SHEETS_REQUESTS_ID=<spreadsheet id>
	SHEETS_INSTAGRAM_ID=<spreadsheet id>
	SHEETS_LINKEDIN_ID=<spreadsheet id>

	# Instagram
	INSTAGRAM_ENABLED=true
	INSTAGRAM_ACCESS_TOKEN=<token>
	INSTAGRAM_USER_ID=<business account id>
	SYNC_ENABLED=true
	SYNC_INTERVAL=6h

	# Audit trail
	AUDIT_ENABLED=true
	AUDIT_MAX_EVENTS=10000
	AUDIT_RETENTION=168h

Missing Google credentials do not stop the server. Data endpoints answer
503 SOURCE_NOT_CONFIGURED and /api/v1/health/ready reports the problem.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for up
to 10 seconds and an in-flight sync run finishes before the process exits.
*/
package main
