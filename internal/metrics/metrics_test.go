// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/households", "200"))
	RecordAPIRequest("GET", "/api/v1/households", 200, 50*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/households", "200"))
	if after != before+1 {
		t.Errorf("counter = %v, want %v", after, before+1)
	}
}

func TestRecordMixGeneration(t *testing.T) {
	before := testutil.ToFloat64(MixGenerations.WithLabelValues("fresh"))
	RecordMixGeneration("fresh", 20, 10*time.Millisecond)
	after := testutil.ToFloat64(MixGenerations.WithLabelValues("fresh"))
	if after != before+1 {
		t.Errorf("fresh counter = %v, want %v", after, before+1)
	}

	cachedBefore := testutil.ToFloat64(MixGenerations.WithLabelValues("cached"))
	RecordMixGeneration("cached", 0, 0)
	cachedAfter := testutil.ToFloat64(MixGenerations.WithLabelValues("cached"))
	if cachedAfter != cachedBefore+1 {
		t.Errorf("cached counter = %v, want %v", cachedAfter, cachedBefore+1)
	}
}

func TestRecordLogin(t *testing.T) {
	before := testutil.ToFloat64(LoginAttempts.WithLabelValues("failure"))
	RecordLogin(false)
	after := testutil.ToFloat64(LoginAttempts.WithLabelValues("failure"))
	if after != before+1 {
		t.Errorf("failure counter = %v, want %v", after, before+1)
	}
}
