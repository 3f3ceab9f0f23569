// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

// Package metrics exposes Prometheus instrumentation for the Harmonia
// API, database, and mix generation pipeline. All collectors are
// registered on the default registry via promauto and served from
// /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harmonia_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "harmonia_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "harmonia_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "harmonia_db_query_duration_seconds",
			Help:    "Duration of SQLite queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harmonia_db_query_errors_total",
			Help: "Total number of SQLite query errors",
		},
		[]string{"operation"},
	)

	// Mix generation metrics
	MixGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harmonia_mix_generations_total",
			Help: "Total number of family mix generations",
		},
		[]string{"outcome"}, // "fresh", "cached", "error"
	)

	MixGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "harmonia_mix_generation_duration_seconds",
			Help:    "Duration of family mix generation in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	MixTrackCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "harmonia_mix_track_count",
			Help:    "Number of tracks in generated family mixes",
			Buckets: []float64{0, 5, 10, 20, 30, 50},
		},
	)

	// Device binding metrics
	VoiceSessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "harmonia_voice_sessions_started_total",
			Help: "Total number of voice sessions started on devices",
		},
	)

	DeviceBindings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harmonia_device_bindings_total",
			Help: "Total number of device binding operations",
		},
		[]string{"binding_type"},
	)

	// Auth metrics
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harmonia_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"outcome"}, // "success", "failure"
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDBQuery observes one database operation's latency, counting it
// as an error when err is non-nil.
func RecordDBQuery(operation string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordMixGeneration records one mix generation attempt.
func RecordMixGeneration(outcome string, trackCount int, duration time.Duration) {
	MixGenerations.WithLabelValues(outcome).Inc()
	if outcome == "fresh" {
		MixGenerationDuration.Observe(duration.Seconds())
		MixTrackCount.Observe(float64(trackCount))
	}
}

// RecordLogin records a login attempt outcome.
func RecordLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	LoginAttempts.WithLabelValues(outcome).Inc()
}
