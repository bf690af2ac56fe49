// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package rank

import (
	"time"

	"github.com/tomtom215/kindred/internal/models"
)

// Relevance weights for feed ordering. Engagement counts double; age decays
// linearly at half a point per hour. Old unliked posts go negative, which is
// fine: the score only affects relative order, never inclusion.
const (
	likeWeight     = 2.0
	hourlyDecay    = 0.5
	hoursPerSecond = 1.0 / 3600.0
)

// Relevance scores a post for feed ordering relative to now.
func Relevance(post models.Post, now time.Time) float64 {
	age := now.Sub(post.CreatedAt).Seconds() * hoursPerSecond
	return float64(post.LikeCount())*likeWeight - age*hourlyDecay
}

// ScorePosts attaches a relevance score to every post. Input order is
// preserved so callers can stable-sort the result.
func ScorePosts(posts []models.Post, now time.Time) []models.ScoredPost {
	scored := make([]models.ScoredPost, len(posts))
	for i, post := range posts {
		scored[i] = models.ScoredPost{Post: post, RelevanceScore: Relevance(post, now)}
	}
	return scored
}
