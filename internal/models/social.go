// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package models

import "time"

// User is a social-graph member as stored by the upstream application.
type User struct {
	// ID is the user's document identifier.
	ID string `json:"id"`

	// Username is the unique handle.
	Username string `json:"username"`

	// Name is the display name.
	Name string `json:"name,omitempty"`

	// ImageURL is the avatar location, if any.
	ImageURL string `json:"image_url,omitempty"`

	// Following lists user IDs this user follows.
	Following []string `json:"following,omitempty"`

	// Followers lists user IDs following this user.
	Followers []string `json:"followers,omitempty"`

	// LikedPosts lists post IDs this user has liked.
	LikedPosts []string `json:"liked_posts,omitempty"`
}

// Follows reports whether the user follows the given user ID.
func (u *User) Follows(userID string) bool {
	for _, id := range u.Following {
		if id == userID {
			return true
		}
	}
	return false
}

// Post is an image post as stored by the upstream application.
type Post struct {
	// ID is the post's document identifier.
	ID string `json:"id"`

	// Creator is the authoring user's ID.
	Creator string `json:"creator"`

	// Caption is the post text.
	Caption string `json:"caption,omitempty"`

	// Tags is the ordered tag list attached at creation.
	Tags []string `json:"tags,omitempty"`

	// Likes lists user IDs that liked the post.
	Likes []string `json:"likes,omitempty"`

	// CreatedAt is the creation timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// LikeCount returns the number of likes on the post.
func (p *Post) LikeCount() int {
	return len(p.Likes)
}

// Comment is a post comment. The ranking core reads comments only to learn
// which posts a user engaged with; comment text is never inspected.
type Comment struct {
	// ID is the comment's document identifier.
	ID string `json:"id"`

	// User is the commenting user's ID.
	User string `json:"user"`

	// Post is the commented post's ID.
	Post string `json:"post"`

	// CreatedAt is the creation timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// ScoredPost pairs a post with its computed feed relevance score.
// The score is ephemeral: it exists only for ordering within one assembled
// feed and is recomputed from scratch on every cache miss.
type ScoredPost struct {
	Post Post `json:"post"`

	// RelevanceScore is likes*2 minus half a point per hour of age.
	// It can be negative for old, unliked posts; that only affects
	// relative ordering, never inclusion.
	RelevanceScore float64 `json:"relevance_score"`
}
