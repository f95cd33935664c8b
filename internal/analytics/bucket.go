// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package analytics

import (
	"fmt"
	"strings"
	"time"
)

// Point is one chart value. Name is a category label or a bucket key
// (yyyy-MM-dd for days and weeks, yyyy-MM for months).
type Point struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Granularity selects the bucket width of a time series.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// ParseGranularity accepts daily, weekly, or monthly in any case.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case Daily, Weekly, Monthly:
		return g, nil
	default:
		return "", fmt.Errorf("unknown granularity %q (want daily, weekly, or monthly)", s)
	}
}

// Default window sizes.
const (
	DefaultDailyWindow  = 30
	DefaultWeeklyWindow = 6

	dayKeyLayout   = "2006-01-02"
	monthKeyLayout = "2006-01"
)

// WeekStart is the first day of a bucketing week.
const WeekStart = time.Saturday

// Anchor fixes the reference points of a time series. Zero fields take
// defaults: Now is time.Now(), Year is the year of Now, Location is UTC,
// Days is 30, and Weeks is 6.
//
// The daily window ends at the latest date found in the data, not at Now.
// The weekly window ends at Now. The monthly window covers Year.
type Anchor struct {
	Now      time.Time
	Year     int
	Location *time.Location
	Days     int
	Weeks    int
}

func (a Anchor) withDefaults() Anchor {
	if a.Location == nil {
		a.Location = time.UTC
	}
	if a.Now.IsZero() {
		a.Now = time.Now()
	}
	a.Now = a.Now.In(a.Location)
	if a.Year == 0 {
		a.Year = a.Now.Year()
	}
	if a.Days <= 0 {
		a.Days = DefaultDailyWindow
	}
	if a.Weeks <= 0 {
		a.Weeks = DefaultWeeklyWindow
	}
	return a
}

// Bucket counts rows per time bucket of dateField. Rows with an unparseable
// date are skipped. The result is zero-filled and ascending by key.
func Bucket(rows Rows, dateField FieldSpec, g Granularity, anchor Anchor) []Point {
	n := NewNormalizer(rows, dateField)
	return bucket(rows, n, dateField.Name, g, anchor, func(Row) float64 { return 1 })
}

// BucketSum sums valueField per time bucket of dateField. Rows missing either
// value are skipped.
func BucketSum(rows Rows, dateField, valueField FieldSpec, g Granularity, anchor Anchor) []Point {
	n := NewNormalizer(rows, dateField, valueField)
	return bucket(rows, n, dateField.Name, g, anchor, func(r Row) float64 {
		v, ok := n.Number(r, valueField.Name)
		if !ok {
			return 0
		}
		return v
	})
}

func bucket(rows Rows, n *Normalizer, dateName string, g Granularity, anchor Anchor, value func(Row) float64) []Point {
	a := anchor.withDefaults()
	n.WithLocation(a.Location)

	type dated struct {
		row Row
		at  time.Time
	}
	var items []dated
	for _, row := range rows {
		if at, ok := n.Date(row, dateName); ok {
			items = append(items, dated{row: row, at: at.In(a.Location)})
		}
	}

	var keys []string
	var keyOf func(time.Time) string

	switch g {
	case Daily:
		if len(items) == 0 {
			return []Point{}
		}
		latest := items[0].at
		for _, it := range items[1:] {
			if it.at.After(latest) {
				latest = it.at
			}
		}
		end := startOfDay(latest)
		for i := a.Days - 1; i >= 0; i-- {
			keys = append(keys, end.AddDate(0, 0, -i).Format(dayKeyLayout))
		}
		keyOf = func(t time.Time) string { return t.Format(dayKeyLayout) }

	case Weekly:
		current := startOfWeek(a.Now)
		for i := a.Weeks - 1; i >= 0; i-- {
			keys = append(keys, current.AddDate(0, 0, -7*i).Format(dayKeyLayout))
		}
		keyOf = func(t time.Time) string { return startOfWeek(t).Format(dayKeyLayout) }

	case Monthly:
		for m := time.January; m <= time.December; m++ {
			keys = append(keys, time.Date(a.Year, m, 1, 0, 0, 0, 0, a.Location).Format(monthKeyLayout))
		}
		keyOf = func(t time.Time) string { return t.Format(monthKeyLayout) }

	default:
		return []Point{}
	}

	index := make(map[string]int, len(keys))
	points := make([]Point, len(keys))
	for i, k := range keys {
		index[k] = i
		points[i] = Point{Name: k}
	}
	for _, it := range items {
		if i, ok := index[keyOf(it.at)]; ok {
			points[i].Value += value(it.row)
		}
	}
	return points
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns midnight of the WeekStart day on or before t.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) - int(WeekStart) + 7) % 7
	return startOfDay(t).AddDate(0, 0, -offset)
}
