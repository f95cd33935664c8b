// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package analytics

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// placeholders are cell values that mean "no value" in the source sheets.
var placeholders = map[string]struct{}{
	"":          {},
	"null":      {},
	"undefined": {},
	"N/A":       {},
	"n/a":       {},
	"-":         {},
	"—":         {},
}

// unitSuffixes are stripped from numeric cells before parsing. Longest first.
var unitSuffixes = []string{"m²", "sqm", "m2"}

// localeDigits folds Arabic-Indic and Persian digits and separators to ASCII.
var localeDigits = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٫", ".", "٬", ",",
)

// ToNumber extracts a finite number from a raw cell value. Empty and
// unparseable values yield 0; the caller decides whether 0 contributes.
func ToNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case uint:
		return float64(n)
	case uint64:
		return float64(n)
	case uint32:
		return float64(n)
	case string:
		return parseNumericString(n)
	case []byte:
		return parseNumericString(string(n))
	default:
		return 0
	}
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseNumericString(s string) float64 {
	s = strings.TrimSpace(localeDigits.Replace(s))
	if s == "" {
		return 0
	}
	lower := strings.ToLower(s)
	for _, unit := range unitSuffixes {
		lower = strings.ReplaceAll(lower, unit, "")
	}

	// Keep digits, dots, and minus signs, then parse the longest numeric
	// prefix. "5-10" reads as 5 and "1.2.3" as 1.2.
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return finite(parseNumericPrefix(b.String()))
}

func parseNumericPrefix(s string) float64 {
	end := 0
	if end < len(s) && s[end] == '-' {
		end++
	}
	digits := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return f
}

// ToStr returns the trimmed string form of a raw cell value, or "" when the
// value is empty or a placeholder.
func ToStr(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s = t
	case []byte:
		s = string(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return ""
		}
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return ""
	}
	s = strings.TrimSpace(s)
	if _, ok := placeholders[s]; ok {
		return ""
	}
	if strings.EqualFold(s, "null") || strings.EqualFold(s, "undefined") || strings.EqualFold(s, "n/a") {
		return ""
	}
	return s
}

// dateLayouts are tried in order. Month-first slash dates come before
// day-first ones; a first component above 12 can only be a day.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2/1/2006 15:04:05",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// Serial day numbers and epoch timestamps accepted for numeric cells.
const (
	minSheetsSerial = 20000 // 1954-10-03
	maxSheetsSerial = 80000 // 2119-01-10
	minUnixSeconds  = 1e9
	maxUnixSeconds  = 1e11
	maxUnixMillis   = 1e14
)

var sheetsEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate parses a raw cell value as a date in UTC.
func ParseDate(v any) (time.Time, bool) {
	return ParseDateIn(v, time.UTC)
}

// ParseDateIn parses a raw cell value as a date. Zone-less values are read in
// loc. Numeric cells are accepted as Google Sheets serial days or Unix
// seconds/milliseconds.
func ParseDateIn(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t.In(loc), true
	case string:
		return parseDateString(t, loc)
	default:
		return dateFromNumber(ToNumber(v), loc)
	}
}

func parseDateString(s string, loc *time.Location) (time.Time, bool) {
	s = ToStr(localeDigits.Replace(s))
	if s == "" {
		return time.Time{}, false
	}
	if isPlainNumber(s) {
		return dateFromNumber(ToNumber(s), loc)
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

func isPlainNumber(s string) bool {
	if s == "" {
		return false
	}
	dots := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return dots <= 1
}

func dateFromNumber(n float64, loc *time.Location) (time.Time, bool) {
	switch {
	case n >= minSheetsSerial && n <= maxSheetsSerial:
		days := math.Floor(n)
		secs := math.Round((n - days) * 86400)
		t := sheetsEpoch.AddDate(0, 0, int(days)).Add(time.Duration(secs) * time.Second)
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), true
	case n >= minUnixSeconds && n < maxUnixSeconds:
		return time.Unix(int64(n), 0).In(loc), true
	case n >= maxUnixSeconds && n < maxUnixMillis:
		return time.UnixMilli(int64(n)).In(loc), true
	default:
		return time.Time{}, false
	}
}
