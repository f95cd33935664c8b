// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package analytics

import "sort"

// Distribution groups rows by the string value of field and returns
// (label, count) pairs by descending count. Ties keep first-seen order.
// Empty values are excluded. topN <= 0 returns every group.
func Distribution(rows Rows, field FieldSpec, topN int) []Point {
	field.Kind = KindString
	n := NewNormalizer(rows, field)

	counts := make(map[string]int)
	var order []string
	for _, row := range rows {
		label := n.String(row, field.Name)
		if label == "" {
			continue
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	points := make([]Point, len(order))
	for i, label := range order {
		points[i] = Point{Name: label, Value: float64(counts[label])}
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Value > points[j].Value
	})
	return TopPoints(points, topN)
}

// TopPoints returns at most n points. n <= 0 returns all of them.
func TopPoints(points []Point, n int) []Point {
	if n <= 0 || n >= len(points) {
		return points
	}
	return points[:n]
}

// Share converts counts to percentages of their total, keeping order. An
// all-zero series is returned unchanged.
func Share(points []Point) []Point {
	var total float64
	for _, p := range points {
		total += p.Value
	}
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = p
		if total > 0 {
			out[i].Value = p.Value * 100 / total
		}
	}
	return out
}
