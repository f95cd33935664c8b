// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package analytics

import (
	"math"
	"time"
)

// Record is the typed view of one row for a set of logical fields. Only
// present values are stored; a missing map entry means "absent".
type Record struct {
	Numbers map[string]float64
	Strings map[string]string
	Dates   map[string]time.Time
}

// Number returns the numeric value of a logical field and whether it is present.
func (r Record) Number(name string) (float64, bool) {
	v, ok := r.Numbers[name]
	return v, ok
}

// String returns the string value of a logical field, "" when absent.
func (r Record) String(name string) string {
	return r.Strings[name]
}

// Date returns the date value of a logical field and whether it is present.
func (r Record) Date(name string) (time.Time, bool) {
	v, ok := r.Dates[name]
	return v, ok
}

// Normalizer binds logical fields to concrete columns once per dataset and
// coerces rows against that binding. The zero value is not usable; call
// NewNormalizer.
type Normalizer struct {
	specs    []FieldSpec
	columns  map[string]string
	location *time.Location
}

// NewNormalizer resolves every spec against row 0 of rows. Each column binds
// to at most one field. Exact header matches for all specs are taken first,
// then substring matches, then the statistical fallback, so a loose match for
// one field cannot take a column another field names exactly. Within a pass
// specs are resolved in order.
func NewNormalizer(rows Rows, specs ...FieldSpec) *Normalizer {
	n := &Normalizer{
		specs:    specs,
		columns:  make(map[string]string, len(specs)),
		location: time.UTC,
	}
	h := newHeader(rows)
	if h == nil {
		return n
	}
	claimed := make(map[string]bool, len(specs))

	passes := []func(FieldSpec) (string, bool){
		func(spec FieldSpec) (string, bool) { return h.exact(spec, claimed) },
		func(spec FieldSpec) (string, bool) { return h.substring(spec, claimed) },
		func(spec FieldSpec) (string, bool) {
			if !spec.Fallback {
				return "", false
			}
			return statisticalFallback(rows, spec, h.columns, claimed)
		},
	}
	for _, match := range passes {
		for _, spec := range specs {
			if _, done := n.columns[spec.Name]; done {
				continue
			}
			if col, ok := match(spec); ok {
				n.columns[spec.Name] = col
				claimed[col] = true
			}
		}
	}
	return n
}

// WithLocation sets the location zone-less dates are read in.
func (n *Normalizer) WithLocation(loc *time.Location) *Normalizer {
	if loc != nil {
		n.location = loc
	}
	return n
}

// Column returns the concrete column bound to a logical field.
func (n *Normalizer) Column(name string) (string, bool) {
	col, ok := n.columns[name]
	return col, ok
}

// Has reports whether a logical field resolved to a column.
func (n *Normalizer) Has(name string) bool {
	_, ok := n.columns[name]
	return ok
}

// Columns returns a copy of the logical field to column binding.
func (n *Normalizer) Columns() map[string]string {
	out := make(map[string]string, len(n.columns))
	for k, v := range n.columns {
		out[k] = v
	}
	return out
}

// Number coerces a numeric logical field. It reports false when the field is
// unresolved, the cell is empty, or the value is below the field's Min.
func (n *Normalizer) Number(row Row, name string) (float64, bool) {
	col, ok := n.columns[name]
	if !ok {
		return 0, false
	}
	raw := row.Get(col)
	if ToStr(raw) == "" {
		return 0, false
	}
	v := ToNumber(raw)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v < n.spec(name).Min {
		return 0, false
	}
	return v, true
}

// String coerces a string logical field. "" means absent.
func (n *Normalizer) String(row Row, name string) string {
	col, ok := n.columns[name]
	if !ok {
		return ""
	}
	return ToStr(row.Get(col))
}

// Date coerces a date logical field.
func (n *Normalizer) Date(row Row, name string) (time.Time, bool) {
	col, ok := n.columns[name]
	if !ok {
		return time.Time{}, false
	}
	return ParseDateIn(row.Get(col), n.location)
}

// Normalize produces a Record holding every present field of row.
func (n *Normalizer) Normalize(row Row) Record {
	rec := Record{
		Numbers: make(map[string]float64),
		Strings: make(map[string]string),
		Dates:   make(map[string]time.Time),
	}
	for _, spec := range n.specs {
		switch spec.Kind {
		case KindNumber:
			if v, ok := n.Number(row, spec.Name); ok {
				rec.Numbers[spec.Name] = v
			}
		case KindDate:
			if v, ok := n.Date(row, spec.Name); ok {
				rec.Dates[spec.Name] = v
			}
		default:
			if v := n.String(row, spec.Name); v != "" {
				rec.Strings[spec.Name] = v
			}
		}
	}
	return rec
}

func (n *Normalizer) spec(name string) FieldSpec {
	for _, s := range n.specs {
		if s.Name == name {
			return s
		}
	}
	return FieldSpec{Name: name}
}
