// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

/*
Package auth provides login and session handling for the dashboard.

Accounts come from configuration: the bootstrap admin (ADMIN_USERNAME with
ADMIN_PASSWORD or ADMIN_PASSWORD_HASH) and any YAML users with bcrypt hashes.
A successful Login returns an HS256 JWT that clients send either as a
Bearer token or in the HttpOnly session cookie.

Usage:

	svc, err := auth.NewService(&cfg.Security)
	if err != nil {
	    return err
	}
	mw := auth.NewMiddleware(svc, nil)
	r.With(mw.Authenticate).Get("/api/v1/auth/me", handler)

With AUTH_MODE=none every request carries anonymous admin claims. The
configuration layer refuses that mode in production.

Authorization decisions are made by package authz from the role claim.
*/
package auth
