// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/doorly/internal/config"
)

// RoleAdmin is granted to the bootstrap admin account.
const RoleAdmin = "admin"

// bcryptCost is used when hashing a plaintext bootstrap password.
const bcryptCost = 12

// ErrInvalidCredentials is returned for an unknown user or a wrong password.
// The two cases are indistinguishable to callers.
var ErrInvalidCredentials = errors.New("invalid username or password")

// User is an account that may log in.
type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	hash     []byte
}

// UserStore holds the configured accounts, keyed case-insensitively.
type UserStore struct {
	users map[string]*User
	// dummyHash is compared against when the user is unknown so both paths
	// cost one bcrypt comparison.
	dummyHash []byte
}

// NewUserStore builds the account list from security configuration. The
// admin account comes from ADMIN_USERNAME with either a bcrypt hash or a
// plaintext password that is hashed here. Users without a role get
// defaultRole.
func NewUserStore(cfg *config.SecurityConfig) (*UserStore, error) {
	defaultRole := cfg.Casbin.DefaultRole
	if defaultRole == "" {
		defaultRole = "viewer"
	}

	s := &UserStore{users: make(map[string]*User, len(cfg.Users)+1)}

	for _, u := range cfg.Users {
		role := u.Role
		if role == "" {
			role = defaultRole
		}
		if err := s.add(u.Username, role, []byte(u.PasswordHash)); err != nil {
			return nil, err
		}
	}

	if cfg.AdminUsername != "" {
		hash := []byte(cfg.AdminPasswordHash)
		if len(hash) == 0 {
			if cfg.AdminPassword == "" {
				return nil, fmt.Errorf("admin %q has no password or password hash", cfg.AdminUsername)
			}
			var err error
			hash, err = bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcryptCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash admin password: %w", err)
			}
		}
		if err := s.add(cfg.AdminUsername, RoleAdmin, hash); err != nil {
			return nil, err
		}
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("doorly-unknown-user"), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare user store: %w", err)
	}
	s.dummyHash = dummy

	return s, nil
}

func (s *UserStore) add(username, role string, hash []byte) error {
	key := strings.ToLower(strings.TrimSpace(username))
	if key == "" {
		return fmt.Errorf("user with empty username")
	}
	if _, dup := s.users[key]; dup {
		return fmt.Errorf("user %q is configured twice", username)
	}
	if _, err := bcrypt.Cost(hash); err != nil {
		return fmt.Errorf("user %q: invalid bcrypt hash: %w", username, err)
	}
	s.users[key] = &User{Username: strings.TrimSpace(username), Role: role, hash: hash}
	return nil
}

// Len returns the number of accounts.
func (s *UserStore) Len() int {
	return len(s.users)
}

// Authenticate checks a username and password.
func (s *UserStore) Authenticate(username, password string) (*User, error) {
	u, ok := s.users[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &User{Username: u.Username, Role: u.Role}, nil
}
