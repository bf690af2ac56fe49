// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package rank

import (
	"math"
	"testing"
	"time"

	"github.com/tomtom215/kindred/internal/models"
)

func TestMutualCounts_GraphOnly(t *testing.T) {
	t.Parallel()

	// Subject follows alpha and beta; both follow carol.
	following := []string{"alpha", "beta"}
	graph := map[string][]string{
		"alpha": {"carol", "dave"},
		"beta":  {"carol"},
	}
	excluded := Excluded("subject", following)

	counts := MutualCounts(following, graph, excluded)
	if counts["carol"] != 2 {
		t.Errorf("counts[carol] = %d, want 2", counts["carol"])
	}
	if counts["dave"] != 1 {
		t.Errorf("counts[dave] = %d, want 1", counts["dave"])
	}

	// Candidate content never feeds into the mutual count: the same graph
	// must yield the same counts no matter what carol posts, so the function
	// takes no post data at all. Recomputing yields identical results.
	again := MutualCounts(following, graph, excluded)
	if again["carol"] != counts["carol"] || again["dave"] != counts["dave"] {
		t.Errorf("recompute changed counts: %v vs %v", again, counts)
	}
}

func TestMutualCounts_ExcludesSelfAndFollowed(t *testing.T) {
	t.Parallel()

	following := []string{"alpha", "beta"}
	graph := map[string][]string{
		"alpha": {"subject", "beta", "carol"},
		"beta":  {"alpha", "carol"},
	}
	counts := MutualCounts(following, graph, Excluded("subject", following))

	for _, id := range []string{"subject", "alpha", "beta"} {
		if _, ok := counts[id]; ok {
			t.Errorf("counts contains excluded id %q", id)
		}
	}
	if counts["carol"] != 2 {
		t.Errorf("counts[carol] = %d, want 2", counts["carol"])
	}
}

func TestWeights_MutualOnlyScenario(t *testing.T) {
	t.Parallel()

	// Two mutual connections, no shared tags: 2*10 + 0 = 20.
	w := DefaultWeights()
	if got := w.Final(2, 0); got != 20 {
		t.Errorf("Final(2, 0) = %v, want 20", got)
	}
}

func TestTagAffinity_TagOnlyScenario(t *testing.T) {
	t.Parallel()

	// Subject liked three posts all tagged "art".
	affinity := BuildTagAffinity([]string{"art"}, []string{"art"}, []string{"art"})
	if affinity["art"] != 3 {
		t.Fatalf("affinity[art] = %d, want 3", affinity["art"])
	}

	// Candidate has two posts tagged "art": 3 + 3 = 6, no mutual follows.
	candidateTags := []string{"art", "art"}
	tagScore := affinity.Score(candidateTags)
	if tagScore != 6 {
		t.Errorf("Score() = %d, want 6", tagScore)
	}
	if got := DefaultWeights().Final(0, tagScore); got != 6 {
		t.Errorf("Final(0, %d) = %v, want 6", tagScore, got)
	}
}

func TestTagAffinity_CountsDuplicates(t *testing.T) {
	t.Parallel()

	affinity := BuildTagAffinity([]string{"art", "food"}, []string{"art"})
	if affinity["art"] != 2 || affinity["food"] != 1 {
		t.Errorf("affinity = %v, want art:2 food:1", affinity)
	}
	if got := affinity.Score([]string{"art", "food", "travel"}); got != 3 {
		t.Errorf("Score() = %d, want 3", got)
	}
}

func TestTagSet_CollapsesDuplicates(t *testing.T) {
	t.Parallel()

	set := BuildTagSet([]string{"art", "art", "food"}, []string{"food", "hike"})
	if got, want := len(set), 3; got != want {
		t.Fatalf("len(set) = %d, want %d", got, want)
	}
	if !set.Contains("hike") {
		t.Error("set missing hike")
	}
	if set.Contains("travel") {
		t.Error("set contains travel")
	}
	if got := set.Slice(); len(got) != 3 || got[0] != "art" || got[1] != "food" || got[2] != "hike" {
		t.Errorf("Slice() = %v, want sorted [art food hike]", got)
	}
}

func TestRelevance_Decay(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	likes := []string{"u1", "u2", "u3"}
	newer := models.Post{ID: "new", Likes: likes, CreatedAt: now.Add(-1 * time.Hour)}
	older := models.Post{ID: "old", Likes: likes, CreatedAt: now.Add(-10 * time.Hour)}

	newScore := Relevance(newer, now)
	oldScore := Relevance(older, now)
	if newScore <= oldScore {
		t.Fatalf("newer post scored %v, older %v; want newer strictly higher", newScore, oldScore)
	}
	// Nine hours of age difference at half a point per hour.
	if diff := newScore - oldScore; math.Abs(diff-4.5) > 1e-9 {
		t.Errorf("score gap = %v, want 4.5", diff)
	}
}

func TestRelevance_CanGoNegative(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	stale := models.Post{ID: "stale", CreatedAt: now.Add(-48 * time.Hour)}
	if got := Relevance(stale, now); got >= 0 {
		t.Errorf("Relevance() = %v, want negative for old unliked post", got)
	}
}

func TestScorePosts_PreservesOrder(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	posts := []models.Post{
		{ID: "a", CreatedAt: now.Add(-time.Hour)},
		{ID: "b", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "c", CreatedAt: now.Add(-3 * time.Hour)},
	}
	scored := ScorePosts(posts, now)
	if len(scored) != 3 {
		t.Fatalf("len = %d, want 3", len(scored))
	}
	for i, sp := range scored {
		if sp.Post.ID != posts[i].ID {
			t.Errorf("scored[%d].ID = %s, want %s", i, sp.Post.ID, posts[i].ID)
		}
	}
}
