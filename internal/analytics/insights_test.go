// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package analytics

import (
	"math"
	"testing"
)

func TestSummarizeInsights(t *testing.T) {
	t.Parallel()

	rows := makeRows([]string{"media_id", "media_type", "timestamp", "reach", "impressions", "like_count", "comments_count", "shares", "saved"},
		[]any{"m1", "IMAGE", "2025-03-01T10:00:00Z", "1,000", "1500", "80", "10", "5", "5"},
		[]any{"m2", "VIDEO", "2025-03-02T10:00:00Z", "500", "", "20", "5", "", ""},
		[]any{"m3", "IMAGE", "bad", "", "", "1", "0", "", ""},
	)

	s := SummarizeInsights(rows, 2)

	if s.TotalPosts != 3 {
		t.Errorf("TotalPosts = %d, want 3", s.TotalPosts)
	}
	if !s.Reach.Available || s.Reach.Sum != 1500 || s.Reach.Count != 2 {
		t.Errorf("Reach = %+v, want sum 1500 over 2 posts", s.Reach)
	}
	if s.Impressions.Count != 1 || s.Impressions.Avg != 1500 {
		t.Errorf("Impressions = %+v", s.Impressions)
	}
	if s.Likes.Sum != 101 {
		t.Errorf("Likes.Sum = %v, want 101", s.Likes.Sum)
	}

	// m1: 100/1000 = 10%, m2: 25/500 = 5%, m3 has no reach.
	if !s.EngagementRateAvailable || math.Abs(s.EngagementRate-7.5) > 1e-9 {
		t.Errorf("EngagementRate = %v (%v), want 7.5", s.EngagementRate, s.EngagementRateAvailable)
	}

	if len(s.TopPosts) != 2 || s.TopPosts[0].PostID != "m1" || s.TopPosts[1].PostID != "m2" {
		t.Errorf("TopPosts = %+v, want m1, m2", s.TopPosts)
	}
	if s.TopPosts[0].PostedAt == nil {
		t.Error("m1 PostedAt should be parsed")
	}

	if v, _ := pointValue(s.MediaTypes, "IMAGE"); v != 2 {
		t.Errorf("MediaTypes = %v, want IMAGE=2", s.MediaTypes)
	}
}

func TestSummarizeInsightsDeniedMetricIsUnavailable(t *testing.T) {
	t.Parallel()

	rows := makeRows([]string{"media_id", "reach", "saved"},
		[]any{"m1", "100", nil},
		[]any{"m2", "200", nil},
	)

	s := SummarizeInsights(rows, 0)
	if !s.Saves.HasColumn {
		t.Error("Saves.HasColumn = false, want true")
	}
	if s.Saves.Available {
		t.Error("Saves.Available = true, want false when every cell is null")
	}
	if s.Clicks.HasColumn {
		t.Error("Clicks.HasColumn = true, want false")
	}
	if !s.EngagementRateAvailable || s.EngagementRate != 0 {
		t.Errorf("EngagementRate = %v, want 0 with reach but no engagement", s.EngagementRate)
	}
}

func TestSummarizeInsightsEmpty(t *testing.T) {
	t.Parallel()

	s := SummarizeInsights(nil, 0)
	if s.TotalPosts != 0 || s.EngagementRateAvailable {
		t.Errorf("summary of no rows = %+v", s)
	}
	if s.TopPosts == nil {
		t.Error("TopPosts should be an empty slice, not nil")
	}
}
