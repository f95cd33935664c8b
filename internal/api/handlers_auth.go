// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/doorly/internal/audit"
	"github.com/tomtom215/doorly/internal/auth"
	"github.com/tomtom215/doorly/internal/models"
)

// Login handles user authentication
//
// @Summary Log in
// @Description Checks credentials and returns a session token. The token is also set as an HttpOnly cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Username and password"
// @Success 200 {object} models.APIResponse{data=models.LoginResponse} "Logged in"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Failure 401 {object} models.APIResponse "Invalid credentials"
// @Failure 429 {object} models.APIResponse "Too many login attempts"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Request body must be JSON with username and password", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	session, err := h.auth.Login(req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrAuthDisabled):
		respondError(w, http.StatusBadRequest, "AUTH_DISABLED", "Authentication is disabled on this server", nil)
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.audit.LogAuthFailure(r, req.Username, "invalid_credentials")
		respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create session", err)
		return
	}

	h.audit.LogAuthSuccess(r, audit.Actor{Username: session.User.Username, Role: session.User.Role})
	h.auth.SetCookie(w, session)
	respondSuccess(w, models.LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      h.sessionUser(session.User.Username, session.User.Role),
	}, 0, false)
}

// Logout handles session termination
//
// @Summary Log out
// @Description Expires the session cookie. Tokens are stateless, so clients holding a bearer token should discard it.
// @Tags Auth
// @Produce json
// @Success 200 {object} models.APIResponse "Logged out"
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := h.auth.TokenFromRequest(r); token != "" {
		if claims, err := h.auth.Verify(token); err == nil {
			h.audit.LogLogout(r, actorFromClaims(claims))
		}
	}
	h.auth.ClearCookie(w)
	respondSuccess(w, map[string]bool{"logged_out": true}, 0, false)
}

// Me returns the current session
//
// @Summary Current session
// @Description Returns the authenticated user, their role, and every role it inherits.
// @Tags Auth
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.MeResponse} "Current session"
// @Failure 401 {object} models.APIResponse "Not authenticated"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}

	resp := models.MeResponse{
		User:     h.sessionUser(claims.Username, claims.Role),
		AuthMode: h.auth.Mode(),
	}
	if claims.ExpiresAt != nil {
		expires := claims.ExpiresAt.Time.UTC()
		resp.ExpiresAt = &expires
	}
	respondSuccess(w, resp, 0, false)
}

func (h *Handler) sessionUser(username, role string) models.SessionUser {
	u := models.SessionUser{Username: username, Role: role}
	if h.enforcer != nil {
		u.Roles = h.enforcer.RolesFor(role)
	}
	return u
}
