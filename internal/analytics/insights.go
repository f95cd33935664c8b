// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package analytics

import (
	"sort"
	"strconv"
	"time"
)

// PostEngagement is one post ranked by engagement.
type PostEngagement struct {
	PostID     string     `json:"postId"`
	Caption    string     `json:"caption,omitempty"`
	MediaType  string     `json:"mediaType,omitempty"`
	PostedAt   *time.Time `json:"postedAt,omitempty"`
	Reach      float64    `json:"reach"`
	Engagement float64    `json:"engagement"`
}

// InsightsSummary is the KPI set for a social insights sheet.
type InsightsSummary struct {
	TotalPosts int `json:"totalPosts"`

	Reach       NumericStats `json:"reach"`
	Impressions NumericStats `json:"impressions"`
	Likes       NumericStats `json:"likes"`
	Comments    NumericStats `json:"comments"`
	Shares      NumericStats `json:"shares"`
	Saves       NumericStats `json:"saves"`
	Clicks      NumericStats `json:"clicks"`
	Followers   NumericStats `json:"followers"`

	// EngagementRate is the mean of (likes+comments+shares+saves)/reach in
	// percent, over posts with positive reach.
	EngagementRate          float64 `json:"engagementRate"`
	EngagementRateAvailable bool    `json:"engagementRateAvailable"`

	MediaTypes []Point           `json:"mediaTypes"`
	TopPosts   []PostEngagement  `json:"topPosts"`
	Columns    map[string]string `json:"columns"`
}

// DefaultTopPosts is how many posts InsightsSummary ranks.
const DefaultTopPosts = 5

// SummarizeInsights aggregates per-post insight rows. Metric cells that are
// empty, for example when the upstream API denied access to a metric, do not
// contribute, so an all-empty metric reports Available false.
func SummarizeInsights(rows Rows, topPosts int) InsightsSummary {
	f := InsightFields
	n := NewNormalizer(rows, f.All()...)

	metrics := []FieldSpec{f.Reach, f.Impressions, f.Likes, f.Comments, f.Shares, f.Saves, f.Clicks, f.Followers}
	acc := make(map[string]*numericAccumulator, len(metrics))
	for _, m := range metrics {
		acc[m.Name] = &numericAccumulator{}
	}

	var rateSum float64
	var rateCount int
	var posts []PostEngagement

	for i, row := range rows {
		values := make(map[string]float64, len(metrics))
		for _, m := range metrics {
			if v, ok := n.Number(row, m.Name); ok {
				acc[m.Name].add(v)
				values[m.Name] = v
			}
		}

		engagement := values[f.Likes.Name] + values[f.Comments.Name] + values[f.Shares.Name] + values[f.Saves.Name]
		reach := values[f.Reach.Name]
		if reach > 0 {
			rateSum += engagement / reach * 100
			rateCount++
		}

		post := PostEngagement{
			PostID:     n.String(row, f.PostID.Name),
			Caption:    n.String(row, f.Caption.Name),
			MediaType:  n.String(row, f.MediaType.Name),
			Reach:      reach,
			Engagement: engagement,
		}
		if post.PostID == "" {
			post.PostID = rowLabel(i)
		}
		if at, ok := n.Date(row, f.PostedAt.Name); ok {
			post.PostedAt = &at
		}
		posts = append(posts, post)
	}

	s := InsightsSummary{
		TotalPosts:  len(rows),
		Reach:       acc[f.Reach.Name].stats(n.Has(f.Reach.Name)),
		Impressions: acc[f.Impressions.Name].stats(n.Has(f.Impressions.Name)),
		Likes:       acc[f.Likes.Name].stats(n.Has(f.Likes.Name)),
		Comments:    acc[f.Comments.Name].stats(n.Has(f.Comments.Name)),
		Shares:      acc[f.Shares.Name].stats(n.Has(f.Shares.Name)),
		Saves:       acc[f.Saves.Name].stats(n.Has(f.Saves.Name)),
		Clicks:      acc[f.Clicks.Name].stats(n.Has(f.Clicks.Name)),
		Followers:   acc[f.Followers.Name].stats(n.Has(f.Followers.Name)),
		MediaTypes:  Distribution(rows, f.MediaType, 0),
		Columns:     n.Columns(),
	}
	if rateCount > 0 {
		s.EngagementRate = rateSum / float64(rateCount)
		s.EngagementRateAvailable = true
	}

	if topPosts <= 0 {
		topPosts = DefaultTopPosts
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Engagement > posts[j].Engagement
	})
	if len(posts) > topPosts {
		posts = posts[:topPosts]
	}
	s.TopPosts = posts
	if s.TopPosts == nil {
		s.TopPosts = []PostEngagement{}
	}
	return s
}

// rowLabel names a post without an id by its sheet row (header is row 1).
func rowLabel(i int) string {
	return "row-" + strconv.Itoa(i+2)
}
