// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package analytics

import "strings"

// Status is a classified request status.
type Status int

const (
	StatusUnknown Status = iota
	StatusActive
	StatusCancelled
	StatusPending
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCancelled:
		return "cancelled"
	case StatusPending:
		return "pending"
	default:
		return "unknown"
	}
}

// Locale identifies the language a vocabulary term belongs to.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleArabic  Locale = "ar"
)

// Term maps one locale spelling to a status. A Prefix term also matches any
// value that starts with it, e.g. "ملغي" matches "ملغي من الادارة".
type Term struct {
	Status Status
	Locale Locale
	Text   string
	Prefix bool
}

// Vocabulary classifies free-text status cells. Exact matches are tried over
// all terms before any prefix match.
type Vocabulary struct {
	terms []Term
}

// NewVocabulary builds a vocabulary from terms. Text is compared
// case-insensitively after trimming.
func NewVocabulary(terms ...Term) *Vocabulary {
	v := &Vocabulary{terms: make([]Term, 0, len(terms))}
	for _, t := range terms {
		t.Text = strings.ToLower(strings.TrimSpace(t.Text))
		if t.Text == "" {
			continue
		}
		v.terms = append(v.terms, t)
	}
	return v
}

// Classify returns the status for value, or StatusUnknown.
func (v *Vocabulary) Classify(value string) Status {
	s := strings.ToLower(ToStr(value))
	if s == "" || v == nil {
		return StatusUnknown
	}
	for _, t := range v.terms {
		if s == t.Text {
			return t.Status
		}
	}
	for _, t := range v.terms {
		if t.Prefix && strings.HasPrefix(s, t.Text) {
			return t.Status
		}
	}
	return StatusUnknown
}

// Terms returns the terms for one locale.
func (v *Vocabulary) Terms(locale Locale) []Term {
	var out []Term
	for _, t := range v.terms {
		if t.Locale == locale {
			out = append(out, t)
		}
	}
	return out
}

// DefaultStatusVocabulary covers the English and Arabic spellings used in the
// requests sheets.
var DefaultStatusVocabulary = NewVocabulary(
	Term{Status: StatusActive, Locale: LocaleEnglish, Text: "active"},
	Term{Status: StatusActive, Locale: LocaleEnglish, Text: "open"},
	Term{Status: StatusActive, Locale: LocaleEnglish, Text: "in progress"},
	Term{Status: StatusCancelled, Locale: LocaleEnglish, Text: "cancelled", Prefix: true},
	Term{Status: StatusCancelled, Locale: LocaleEnglish, Text: "canceled", Prefix: true},
	Term{Status: StatusPending, Locale: LocaleEnglish, Text: "pending"},
	Term{Status: StatusPending, Locale: LocaleEnglish, Text: "new"},

	Term{Status: StatusActive, Locale: LocaleArabic, Text: "نشط"},
	Term{Status: StatusActive, Locale: LocaleArabic, Text: "نشطة"},
	Term{Status: StatusActive, Locale: LocaleArabic, Text: "فعال"},
	Term{Status: StatusCancelled, Locale: LocaleArabic, Text: "ملغي", Prefix: true},
	Term{Status: StatusCancelled, Locale: LocaleArabic, Text: "ملغى", Prefix: true},
	Term{Status: StatusCancelled, Locale: LocaleArabic, Text: "ملغية", Prefix: true},
	Term{Status: StatusPending, Locale: LocaleArabic, Text: "قيد الانتظار"},
	Term{Status: StatusPending, Locale: LocaleArabic, Text: "جديد"},
)

// TokenSet matches yes/no style flag cells.
type TokenSet struct {
	accept  []string
	negated []string
}

// NewTokenSet builds a matcher. A value matches when it equals an accepted
// token, or contains one of three or more characters, and does not start
// with a negation.
func NewTokenSet(accept, negated []string) TokenSet {
	lower := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, s := range in {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return TokenSet{accept: lower(accept), negated: lower(negated)}
}

// Match reports whether value is an accepted token. Empty values never match.
func (ts TokenSet) Match(value string) bool {
	s := strings.ToLower(ToStr(value))
	if s == "" {
		return false
	}
	for _, n := range ts.negated {
		if s == n || strings.HasPrefix(s, n+" ") || (len([]rune(n)) >= 2 && strings.HasPrefix(s, n)) {
			return false
		}
	}
	for _, tok := range ts.accept {
		if s == tok {
			return true
		}
	}
	for _, tok := range ts.accept {
		if len([]rune(tok)) >= 3 && strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

var negations = []string{"no", "not", "un", "in", "false", "غير", "لا"}

// VerifiedTokens matches verified-request flags.
var VerifiedTokens = NewTokenSet(
	[]string{"yes", "true", "1", "y", "verified", "✓", "✔", "نعم", "موثق", "موثقة"},
	negations,
)

// CompletedTokens matches completed-request flags.
var CompletedTokens = NewTokenSet(
	[]string{"yes", "true", "1", "y", "done", "complete", "completed", "✓", "✔", "نعم", "مكتمل", "مكتملة", "تم"},
	negations,
)
