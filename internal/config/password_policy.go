// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// PasswordPolicy defines the rules a plaintext ADMIN_PASSWORD must satisfy.
// Accounts configured with a bcrypt hash are not checked.
type PasswordPolicy struct {
	MinLength             int
	RequireMixedCase      bool
	RequireDigit          bool
	RequireSpecial        bool
	MaxConsecutiveRepeats int
	ForbidCommon          bool
	ForbidUsername        bool
}

// DefaultPasswordPolicy returns the policy applied to the bootstrap admin.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:             12,
		RequireMixedCase:      true,
		RequireDigit:          true,
		RequireSpecial:        true,
		MaxConsecutiveRepeats: 3,
		ForbidCommon:          true,
		ForbidUsername:        true,
	}
}

type charClasses struct {
	upper, lower, uncased, digit, special bool
}

func analyzeCharClasses(password string) charClasses {
	var cc charClasses
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			cc.upper = true
		case unicode.IsLower(r):
			cc.lower = true
		case unicode.IsDigit(r):
			cc.digit = true
		case unicode.IsLetter(r):
			// Arabic and other scripts have no letter case.
			cc.uncased = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			cc.special = true
		}
	}
	return cc
}

func maxConsecutiveRepeats(password string) int {
	longest, run := 0, 0
	var last rune
	for i, r := range []rune(password) {
		if i > 0 && r == last {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		last = r
	}
	return longest
}

// Validate checks password against the policy and returns every violation
// joined into one error, or nil.
func (p PasswordPolicy) Validate(password, username string) error {
	var problems []string

	if n := len([]rune(password)); n < p.MinLength {
		problems = append(problems, fmt.Sprintf("password must be at least %d characters (got %d)", p.MinLength, n))
	}

	cc := analyzeCharClasses(password)
	if p.RequireMixedCase && !cc.uncased && !(cc.upper && cc.lower) {
		problems = append(problems, "password must contain upper and lower case letters")
	}
	if p.RequireDigit && !cc.digit {
		problems = append(problems, "password must contain at least one digit")
	}
	if p.RequireSpecial && !cc.special {
		problems = append(problems, "password must contain at least one special character")
	}
	if p.MaxConsecutiveRepeats > 0 && maxConsecutiveRepeats(password) > p.MaxConsecutiveRepeats {
		problems = append(problems,
			fmt.Sprintf("password cannot have more than %d consecutive repeated characters", p.MaxConsecutiveRepeats))
	}
	if p.ForbidCommon && commonPasswords[strings.ToLower(password)] {
		problems = append(problems, "password is too common and easily guessable")
	}
	if p.ForbidUsername && username != "" && isSimilarToUsername(password, username) {
		problems = append(problems, "password is too similar to username")
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New(strings.Join(problems, "; "))
}

var commonPasswords = map[string]bool{
	"123456": true, "12345678": true, "123456789": true, "1234567890": true,
	"password": true, "password1": true, "password123": true, "password1!": true,
	"p@ssw0rd": true, "p@ssword": true, "passw0rd!": true, "qwerty123": true,
	"admin": true, "admin123": true, "admin@123": true, "administrator": true,
	"welcome1": true, "welcome123": true, "welcome@123": true, "letmein123": true,
	"changeme": true, "changeme123!": true, "1qaz2wsx": true, "abcd1234": true,
	"doorly": true, "doorly123": true, "doorly@123": true, "dashboard": true,
	"realestate": true, "riyadh123": true, "instagram": true, "analytics": true,
}

func isSimilarToUsername(password, username string) bool {
	lowerPass := strings.ToLower(password)
	lowerUser := strings.ToLower(username)

	if strings.Contains(lowerPass, lowerUser) || strings.Contains(lowerUser, lowerPass) {
		return true
	}

	substitutions := map[rune]rune{'a': '@', 'e': '3', 'i': '1', 'o': '0', 's': '$', 't': '7'}
	leet := strings.Map(func(r rune) rune {
		if sub, ok := substitutions[r]; ok {
			return sub
		}
		return r
	}, lowerUser)
	return strings.Contains(lowerPass, leet)
}
