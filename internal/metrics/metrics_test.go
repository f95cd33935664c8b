// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

// Tests use label values unique to each test so they can run in parallel
// against the shared default registry.

func TestRecordAPIRequest(t *testing.T) {
	t.Parallel()

	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/test/api", "200"))
	RecordAPIRequest("GET", "/test/api", "200", 25*time.Millisecond)
	RecordAPIRequest("GET", "/test/api", "200", 30*time.Millisecond)

	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/test/api", "200")) - before; got != 2 {
		t.Errorf("api_requests_total delta = %v, want 2", got)
	}
}

func TestRecordSourceFetch(t *testing.T) {
	t.Parallel()

	rows := SourceRowsFetched.WithLabelValues("test-fetch")
	errs := SourceFetchErrors.WithLabelValues("sheets", "test-fetch", "timeout")
	rowsBefore := testutil.ToFloat64(rows)
	errsBefore := testutil.ToFloat64(errs)

	RecordSourceFetch("sheets", "test-fetch", time.Second, 120, "")
	RecordSourceFetch("sheets", "test-fetch", 20*time.Second, 0, "timeout")

	if got := testutil.ToFloat64(rows) - rowsBefore; got != 120 {
		t.Errorf("rows delta = %v, want 120", got)
	}
	if got := testutil.ToFloat64(errs) - errsBefore; got != 1 {
		t.Errorf("errors delta = %v, want 1", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	t.Parallel()

	hits := CacheHits.WithLabelValues("test.lookup")
	misses := CacheMisses.WithLabelValues("test.lookup")
	h0, m0 := testutil.ToFloat64(hits), testutil.ToFloat64(misses)

	RecordCacheLookup("test.lookup", true)
	RecordCacheLookup("test.lookup", false)
	RecordCacheLookup("test.lookup", false)

	if testutil.ToFloat64(hits)-h0 != 1 || testutil.ToFloat64(misses)-m0 != 2 {
		t.Errorf("hits/misses delta = %v/%v, want 1/2", testutil.ToFloat64(hits)-h0, testutil.ToFloat64(misses)-m0)
	}

	inv := CacheInvalidations.WithLabelValues("test.lookup")
	i0 := testutil.ToFloat64(inv)
	RecordCacheInvalidation("test.lookup", 3)
	if got := testutil.ToFloat64(inv) - i0; got != 3 {
		t.Errorf("invalidations delta = %v, want 3", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	t.Parallel()

	// The gauge is shared with parallel HTTP tests elsewhere, so only the
	// balanced inc/dec pair is checked.
	TrackActiveRequest(true)
	TrackActiveRequest(false)

	var m dto.Metric
	if err := APIActiveRequests.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.GetGauge() == nil {
		t.Error("api_active_requests should be a gauge")
	}
}

func TestRecordAggregation(t *testing.T) {
	t.Parallel()

	RecordAggregation("test-agg", 500, 2*time.Millisecond)
	if n := testutil.CollectAndCount(AggregationDuration); n == 0 {
		t.Error("aggregation_duration_seconds has no series")
	}
}

func TestRecordLoginAndAuthz(t *testing.T) {
	t.Parallel()

	denied := AuthzDenied.WithLabelValues("test-role")
	d0 := testutil.ToFloat64(denied)
	RecordAuthzDenied("test-role")
	if got := testutil.ToFloat64(denied) - d0; got != 1 {
		t.Errorf("authz_denied delta = %v, want 1", got)
	}

	RecordLogin(true)
	RecordLogin(false)
	if testutil.ToFloat64(AuthLogins.WithLabelValues("failure")) < 1 {
		t.Error("auth_logins_total{result=failure} not recorded")
	}
}
