// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package analytics

import (
	"sort"
	"strings"
	"unicode"
)

// Row is one spreadsheet record. Keys holds the header-derived column names in
// their original sheet order; Values maps each key to its raw cell value
// (string, float64, int, or nil).
type Row struct {
	Keys   []string
	Values map[string]any
}

// Rows is a dataset as returned by a row source.
type Rows []Row

// NewRow builds a Row from parallel key and value slices. Missing values are
// stored as nil. Duplicate keys keep their first position and last value.
func NewRow(keys []string, values []any) Row {
	r := Row{
		Keys:   make([]string, 0, len(keys)),
		Values: make(map[string]any, len(keys)),
	}
	for i, k := range keys {
		var v any
		if i < len(values) {
			v = values[i]
		}
		if _, seen := r.Values[k]; !seen {
			r.Keys = append(r.Keys, k)
		}
		r.Values[k] = v
	}
	return r
}

// RowFromMap builds a Row from a map using the given key order. Keys in m that
// are not listed in order are appended in sorted order so the result is
// deterministic.
func RowFromMap(order []string, m map[string]any) Row {
	keys := make([]string, 0, len(m))
	listed := make(map[string]bool, len(order))
	for _, k := range order {
		if _, ok := m[k]; ok && !listed[k] {
			keys = append(keys, k)
			listed[k] = true
		}
	}
	var rest []string
	for k := range m {
		if !listed[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = m[k]
	}
	return NewRow(keys, values)
}

// Get returns the raw value stored under key, or nil.
func (r Row) Get(key string) any {
	if r.Values == nil {
		return nil
	}
	return r.Values[key]
}

// Has reports whether the row carries the column key, even if empty.
func (r Row) Has(key string) bool {
	if r.Values == nil {
		return false
	}
	_, ok := r.Values[key]
	return ok
}

// Columns returns the column names of row 0 in sheet order. Column identity
// is always decided against the first row.
func (rows Rows) Columns() []string {
	if len(rows) == 0 {
		return nil
	}
	return rows[0].Keys
}

// NormalizeHeader converts a sheet header cell to a row key: trimmed,
// lower-cased, with runs of whitespace collapsed to a single underscore.
func NormalizeHeader(h string) string {
	h = strings.TrimSpace(strings.ToLower(h))
	var b strings.Builder
	b.Grow(len(h))
	inSpace := false
	for _, r := range h {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('_')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
