// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

// Package analytics is the tabular aggregation engine behind every dashboard
// page. It turns loosely-typed spreadsheet rows into KPIs, time series,
// categorical distributions, and per-customer rollups.
//
// # Overview
//
// Spreadsheet headers are not stable across data sources, so nothing in this
// package addresses a column by a fixed key. Instead each metric describes a
// logical field (FieldSpec) with a list of candidate header names, and the
// column resolver picks the concrete column once per dataset:
//
//  1. exact case-insensitive match
//  2. substring match in either direction
//  3. statistical fallback (opt-in, numeric fields only)
//
// Cell values are coerced leniently. ToNumber strips area units, thousands
// separators, and Arabic-Indic digits. ToStr folds placeholders such as
// "N/A" and "-" to the empty string.
//
// # Usage
//
//	rows, err := source.Rows(ctx, "requests")
//	if err != nil {
//	    return err
//	}
//	kpis := analytics.Aggregate(rows)
//	daily := analytics.Bucket(rows, analytics.RequestFields.CreatedAt, analytics.Daily, analytics.Anchor{})
//	byType := analytics.Distribution(rows, analytics.RequestFields.PropertyType, 10)
//
// # Error Semantics
//
// Aggregation functions never return errors. A malformed row degrades to
// "does not contribute to this metric" and the rest of the pass continues.
// A column that cannot be resolved marks the metric unavailable rather than
// reporting a misleading zero.
//
// # Thread Safety
//
// All functions are pure. They hold no package-level mutable state and are
// safe to call concurrently with the same input.
package analytics
