// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package analytics

import (
	"testing"
	"time"
)

// makeRows builds a dataset with a shared header.
func makeRows(keys []string, records ...[]any) Rows {
	rows := make(Rows, len(records))
	for i, rec := range records {
		rows[i] = NewRow(keys, rec)
	}
	return rows
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func pointValue(points []Point, name string) (float64, bool) {
	for _, p := range points {
		if p.Name == name {
			return p.Value, true
		}
	}
	return 0, false
}

func sumPoints(points []Point) float64 {
	var total float64
	for _, p := range points {
		total += p.Value
	}
	return total
}
