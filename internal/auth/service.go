// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/doorly/internal/config"
	"github.com/tomtom215/doorly/internal/logging"
	"github.com/tomtom215/doorly/internal/metrics"
)

// Authentication modes.
const (
	ModeJWT  = "jwt"
	ModeNone = "none"
)

// AnonymousUsername identifies requests when authentication is disabled.
const AnonymousUsername = "anonymous"

// ErrAuthDisabled is returned by Login when AUTH_MODE=none.
var ErrAuthDisabled = errors.New("authentication is disabled")

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// Service issues and checks dashboard sessions.
type Service struct {
	mode         string
	jwt          *JWTManager
	users        *UserStore
	cookieName   string
	cookieSecure bool
}

// NewService builds the authentication service for the configured mode. In
// none mode no accounts or secrets are required.
func NewService(cfg *config.SecurityConfig) (*Service, error) {
	s := &Service{
		mode:         cfg.AuthMode,
		cookieName:   cfg.CookieName,
		cookieSecure: cfg.CookieSecure,
	}
	if s.cookieName == "" {
		s.cookieName = "doorly_session"
	}

	switch cfg.AuthMode {
	case ModeNone:
		logging.Warn().Msg("Authentication disabled (AUTH_MODE=none); every request is treated as admin")
		return s, nil
	case ModeJWT:
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.AuthMode)
	}

	jwtManager, err := NewJWTManager(cfg)
	if err != nil {
		return nil, err
	}
	users, err := NewUserStore(cfg)
	if err != nil {
		return nil, err
	}
	if users.Len() == 0 {
		return nil, fmt.Errorf("AUTH_MODE=jwt requires at least one configured user")
	}

	s.jwt = jwtManager
	s.users = users
	return s, nil
}

// Mode returns the authentication mode.
func (s *Service) Mode() string {
	return s.mode
}

// Enabled reports whether requests must carry a session.
func (s *Service) Enabled() bool {
	return s.mode != ModeNone
}

// Login checks credentials and issues a session token.
func (s *Service) Login(username, password string) (*Session, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}

	user, err := s.users.Authenticate(username, password)
	if err != nil {
		metrics.RecordLogin(false)
		logging.Warn().Str("username", username).Msg("Login failed")
		return nil, err
	}

	token, expires, err := s.jwt.GenerateToken(user.Username, user.Role)
	if err != nil {
		metrics.RecordLogin(false)
		return nil, err
	}

	metrics.RecordLogin(true)
	logging.Info().Str("username", user.Username).Str("role", user.Role).Msg("Login succeeded")
	return &Session{Token: token, ExpiresAt: expires, User: *user}, nil
}

// Verify validates a session token.
func (s *Service) Verify(token string) (*Claims, error) {
	if !s.Enabled() {
		return anonymousClaims(), nil
	}
	return s.jwt.ValidateToken(token)
}

// TokenFromRequest returns the bearer token, falling back to the session
// cookie, or "".
func (s *Service) TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(s.cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// SetCookie stores the session token in an HttpOnly cookie.
func (s *Service) SetCookie(w http.ResponseWriter, session *Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (s *Service) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func anonymousClaims() *Claims {
	return &Claims{Username: AnonymousUsername, Role: RoleAdmin}
}
