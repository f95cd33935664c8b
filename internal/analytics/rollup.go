// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package analytics

import (
	"sort"
	"strings"
	"time"
)

// CustomerAggregate is the per-customer rollup of request rows.
type CustomerAggregate struct {
	CustomerID       string         `json:"customerId"`
	CustomerName     string         `json:"customerName"`
	RequestCount     int            `json:"requestCount"`
	CategoricalTally map[string]int `json:"categoricalTally"`
	LastSeen         *time.Time     `json:"lastSeen"`
}

// RepeatedCategory reports whether any categorical value was seen more than once.
func (c CustomerAggregate) RepeatedCategory() bool {
	for _, n := range c.CategoricalTally {
		if n > 1 {
			return true
		}
	}
	return false
}

// RollupSort selects the result order of Rollup.
type RollupSort string

const (
	SortByCount    RollupSort = "count"
	SortByLastSeen RollupSort = "last_seen"
	SortByName     RollupSort = "name"
)

// RollupSpec configures Rollup. ID is required; Name, Category, and Date are
// optional and ignored when their Name is empty. Filter, when set, is applied
// to rows before they are folded in.
type RollupSpec struct {
	ID       FieldSpec
	Name     FieldSpec
	Category FieldSpec
	Date     FieldSpec
	Sort     RollupSort
	Filter   func(Row) bool
	Location *time.Location
}

// Rollup folds rows into one aggregate per distinct non-empty customer id.
// The default order is descending RequestCount with ties in first-seen order.
func Rollup(rows Rows, spec RollupSpec) []CustomerAggregate {
	specs := []FieldSpec{spec.ID}
	if spec.Name.Name != "" {
		specs = append(specs, spec.Name)
	}
	if spec.Category.Name != "" {
		specs = append(specs, spec.Category)
	}
	if spec.Date.Name != "" {
		specs = append(specs, spec.Date)
	}
	n := NewNormalizer(rows, specs...).WithLocation(spec.Location)

	byID := make(map[string]*CustomerAggregate)
	var order []string

	for _, row := range rows {
		if spec.Filter != nil && !spec.Filter(row) {
			continue
		}
		id := n.String(row, spec.ID.Name)
		if id == "" {
			continue
		}

		agg, ok := byID[id]
		if !ok {
			agg = &CustomerAggregate{
				CustomerID:       id,
				CustomerName:     id,
				CategoricalTally: make(map[string]int),
			}
			byID[id] = agg
			order = append(order, id)
		}
		agg.RequestCount++

		if spec.Name.Name != "" {
			if name := n.String(row, spec.Name.Name); name != "" {
				agg.CustomerName = name
			}
		}
		if spec.Category.Name != "" {
			if label := n.String(row, spec.Category.Name); label != "" {
				agg.CategoricalTally[label]++
			}
		}
		if spec.Date.Name != "" {
			if at, ok := n.Date(row, spec.Date.Name); ok {
				if agg.LastSeen == nil || at.After(*agg.LastSeen) {
					t := at
					agg.LastSeen = &t
				}
			}
		}
	}

	out := make([]CustomerAggregate, len(order))
	for i, id := range order {
		out[i] = *byID[id]
	}
	sortRollup(out, spec.Sort)
	return out
}

func sortRollup(aggs []CustomerAggregate, by RollupSort) {
	switch by {
	case SortByLastSeen:
		sort.SliceStable(aggs, func(i, j int) bool {
			a, b := aggs[i].LastSeen, aggs[j].LastSeen
			if a == nil || b == nil {
				return a != nil && b == nil
			}
			return a.After(*b)
		})
	case SortByName:
		sort.SliceStable(aggs, func(i, j int) bool {
			return strings.ToLower(aggs[i].CustomerName) < strings.ToLower(aggs[j].CustomerName)
		})
	default:
		sort.SliceStable(aggs, func(i, j int) bool {
			return aggs[i].RequestCount > aggs[j].RequestCount
		})
	}
}

// RepeatedCategory keeps customers with any categorical value seen more than
// once, e.g. customers who requested the same property type repeatedly.
func RepeatedCategory(aggs []CustomerAggregate) []CustomerAggregate {
	out := make([]CustomerAggregate, 0, len(aggs))
	for _, a := range aggs {
		if a.RepeatedCategory() {
			out = append(out, a)
		}
	}
	return out
}

// TopCustomers returns at most n aggregates. n <= 0 returns all of them.
func TopCustomers(aggs []CustomerAggregate, n int) []CustomerAggregate {
	if n <= 0 || n >= len(aggs) {
		return aggs
	}
	return aggs[:n]
}

// MatchField returns a row filter that keeps rows whose field equals value,
// case-insensitively. It resolves the field once against rows.
func MatchField(rows Rows, field FieldSpec, value string) func(Row) bool {
	n := NewNormalizer(rows, field)
	want := strings.ToLower(strings.TrimSpace(value))
	return func(r Row) bool {
		return strings.ToLower(n.String(r, field.Name)) == want
	}
}
