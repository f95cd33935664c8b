// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

/*
Package models defines the JSON shapes of the Doorly HTTP API.

Every endpoint answers with APIResponse. Aggregation payloads reuse the
types of package analytics (KPIBundle, InsightsSummary, Point,
CustomerAggregate) directly; this package adds the envelope, the health and
session shapes, and the wrappers that echo request parameters next to
computed series.
*/
package models
