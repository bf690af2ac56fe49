// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package rank

import "sort"

// DefaultMutualWeight is the multiplier applied to mutual-connection counts
// when combining them with tag overlap. Mutual follows are a much stronger
// relevance signal than shared tags, hence the 10x default.
const DefaultMutualWeight = 10.0

// Weights tunes the user-affinity formula. The zero value is not useful;
// construct with DefaultWeights and override as needed.
type Weights struct {
	// Mutual multiplies the mutual-connection count.
	Mutual float64
}

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{Mutual: DefaultMutualWeight}
}

// Final combines a candidate's mutual-connection count and tag score into a
// single affinity score. Candidates scoring zero carry no signal at all and
// should not be surfaced; callers drop them rather than ranking them last.
func (w Weights) Final(mutual, tagScore int) float64 {
	return float64(mutual)*w.Mutual + float64(tagScore)
}

// TagAffinity maps a tag to the number of times it occurred across the posts
// a subject authored or liked. Duplicates are the point: a tag seen three
// times counts three per matching candidate post.
type TagAffinity map[string]int

// BuildTagAffinity counts tag occurrences across the given tag lists.
func BuildTagAffinity(tagLists ...[]string) TagAffinity {
	affinity := make(TagAffinity)
	for _, tags := range tagLists {
		for _, tag := range tags {
			affinity[tag]++
		}
	}
	return affinity
}

// Score sums the affinity counts for every tag on a candidate's posts. Tags
// repeated across a candidate's posts are counted each time they appear.
func (a TagAffinity) Score(candidateTags []string) int {
	total := 0
	for _, tag := range candidateTags {
		total += a[tag]
	}
	return total
}

// TagSet is plain set membership over tags, used to select related feed
// candidates. Unlike TagAffinity it collapses duplicates.
type TagSet map[string]struct{}

// BuildTagSet unions the given tag lists into a set.
func BuildTagSet(tagLists ...[]string) TagSet {
	set := make(TagSet)
	for _, tags := range tagLists {
		for _, tag := range tags {
			set[tag] = struct{}{}
		}
	}
	return set
}

// Contains reports whether tag is in the set.
func (s TagSet) Contains(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Slice returns the set's tags in sorted order, suitable for repository
// queries that need a deterministic tag list.
func (s TagSet) Slice() []string {
	tags := make([]string, 0, len(s))
	for tag := range s {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// MutualCounts computes, for every candidate outside excluded, how many of
// the subject's followed users also follow that candidate. followingOf maps
// each followed user's id to that user's own following list; followed users
// missing from the map contribute nothing.
//
// The count depends only on the graph. A candidate's posts, tags, or likes
// never influence it.
func MutualCounts(following []string, followingOf map[string][]string, excluded map[string]struct{}) map[string]int {
	counts := make(map[string]int)
	for _, followed := range following {
		for _, candidate := range followingOf[followed] {
			if _, skip := excluded[candidate]; skip {
				continue
			}
			counts[candidate]++
		}
	}
	return counts
}

// Excluded builds the exclusion set for a subject: the subject itself plus
// everyone already followed.
func Excluded(subjectID string, following []string) map[string]struct{} {
	excluded := make(map[string]struct{}, len(following)+1)
	excluded[subjectID] = struct{}{}
	for _, id := range following {
		excluded[id] = struct{}{}
	}
	return excluded
}
