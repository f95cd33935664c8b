// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package analytics

import "strings"

// Kind is the value type a logical field is coerced to.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "string"
	}
}

// FieldSpec describes a logical field: the semantic name used by metrics,
// the candidate header names it may appear under, and how to coerce it.
//
// Min and Max bound plausible numeric values. Min doubles as the domain
// minimum for presence: a numeric value below Min is treated as absent. When
// Fallback is set and no header matches, the resolver scans column values
// and accepts one whose samples fall strictly inside (Min, Max).
type FieldSpec struct {
	Name       string
	Candidates []string
	Kind       Kind
	Fallback   bool
	Min        float64
	Max        float64
}

const (
	// fallbackSampleSize is how many non-empty values are inspected per column.
	fallbackSampleSize = 10

	// fallbackMinHits is how many sampled values must look plausible.
	fallbackMinHits = 3
)

// Resolve returns the row-0 column matching the first candidate by exact
// case-insensitive comparison, then by substring in either direction.
// Candidates are tried in the order given; columns in sheet order.
func Resolve(rows Rows, candidates []string) (string, bool) {
	return resolve(rows, FieldSpec{Candidates: candidates}, nil)
}

// ResolveField resolves a FieldSpec, including the statistical fallback when
// FieldSpec.Fallback is set.
func ResolveField(rows Rows, spec FieldSpec) (string, bool) {
	return resolve(rows, spec, nil)
}

// resolve runs the three matching passes for one field.
func resolve(rows Rows, spec FieldSpec, claimed map[string]bool) (string, bool) {
	h := newHeader(rows)
	if h == nil {
		return "", false
	}
	if col, ok := h.exact(spec, claimed); ok {
		return col, true
	}
	if col, ok := h.substring(spec, claimed); ok {
		return col, true
	}
	if spec.Fallback {
		return statisticalFallback(rows, spec, h.columns, claimed)
	}
	return "", false
}

// header is row 0's column list with lowercased names for matching.
type header struct {
	columns []string
	lowered []string
}

func newHeader(rows Rows) *header {
	columns := rows.Columns()
	if len(columns) == 0 {
		return nil
	}
	lowered := make([]string, len(columns))
	for i, c := range columns {
		lowered[i] = strings.ToLower(c)
	}
	return &header{columns: columns, lowered: lowered}
}

// exact matches candidates by case-insensitive equality. Columns in claimed
// are skipped.
func (h *header) exact(spec FieldSpec, claimed map[string]bool) (string, bool) {
	for _, cand := range spec.Candidates {
		lc := strings.ToLower(cand)
		for i, col := range h.lowered {
			if col == lc && !claimed[h.columns[i]] {
				return h.columns[i], true
			}
		}
	}
	return "", false
}

// substring matches candidates contained in a column name or containing it.
// Columns in claimed are skipped.
func (h *header) substring(spec FieldSpec, claimed map[string]bool) (string, bool) {
	for _, cand := range spec.Candidates {
		lc := strings.ToLower(cand)
		if lc == "" {
			continue
		}
		for i, col := range h.lowered {
			if col == "" || claimed[h.columns[i]] {
				continue
			}
			if strings.Contains(col, lc) || strings.Contains(lc, col) {
				return h.columns[i], true
			}
		}
	}
	return "", false
}

// statisticalFallback picks the first column whose early values look like
// the field. It can mis-detect an unrelated numeric column when data is
// sparse; callers opt in per field.
func statisticalFallback(rows Rows, spec FieldSpec, columns []string, claimed map[string]bool) (string, bool) {
	for _, col := range columns {
		if claimed[col] {
			continue
		}
		sampled, hits := 0, 0
		for _, row := range rows {
			if sampled >= fallbackSampleSize {
				break
			}
			raw := ToStr(row.Get(col))
			if raw == "" {
				continue
			}
			sampled++
			n := ToNumber(raw)
			if n > 0 && n > spec.Min && (spec.Max <= 0 || n < spec.Max) {
				hits++
			}
		}
		if hits >= fallbackMinHits {
			return col, true
		}
	}
	return "", false
}
