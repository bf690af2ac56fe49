// Kindred - Social Feed Ranking and Suggestion Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kindred

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCacheHitMiss(t *testing.T) {
	before := testutil.ToFloat64(CacheHits.WithLabelValues("feed"))
	RecordCacheHit("feed")
	RecordCacheHit("feed")
	if got := testutil.ToFloat64(CacheHits.WithLabelValues("feed")); got != before+2 {
		t.Errorf("feed cache hits = %v, want %v", got, before+2)
	}

	before = testutil.ToFloat64(CacheMisses.WithLabelValues("suggestion_page"))
	RecordCacheMiss("suggestion_page")
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("suggestion_page")); got != before+1 {
		t.Errorf("suggestion_page cache misses = %v, want %v", got, before+1)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/feed", "200"))
	RecordAPIRequest("GET", "/api/v1/feed", "200", 15*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/feed", "200")); got != before+1 {
		t.Errorf("api requests = %v, want %v", got, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}
}

func TestRecordRefreshRunSetsLastSuccess(t *testing.T) {
	RecordRefreshRun(2*time.Second, 10, nil)
	if got := testutil.ToFloat64(RefreshLastSuccess); got == 0 {
		t.Error("last success timestamp not set on successful run")
	}
}
