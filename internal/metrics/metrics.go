// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package metrics defines the Prometheus instrumentation for the
// pipeline. Collectors are registered once via promauto on the
// default registry and exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nestscout"

var (
	// SessionsStarted counts pipeline sessions created.
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_started_total",
		Help:      "Pipeline sessions started.",
	})

	// SessionsFinished counts sessions reaching a terminal state.
	SessionsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_finished_total",
		Help:      "Pipeline sessions finished, by outcome.",
	}, []string{"outcome"})

	// StageDuration observes wall time per pipeline stage.
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Wall time of each pipeline stage.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"stage"})

	// ListingsAggregated observes working-set size after dedup.
	ListingsAggregated = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "listings_aggregated",
		Help:      "Deduplicated listings per session.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	// ProviderFailures counts external factor provider failures.
	ProviderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_failures_total",
		Help:      "External provider calls that returned unavailable.",
	}, []string{"provider"})

	// SourceFailures counts collector source failures.
	SourceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_failures_total",
		Help:      "Collector sources that failed or timed out.",
	}, []string{"source"})

	// FeedbackEvents counts accepted feedback by action.
	FeedbackEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_events_total",
		Help:      "Accepted feedback events, by action.",
	}, []string{"action"})

	// FeedbackRejected counts malformed feedback rejected at the
	// boundary.
	FeedbackRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_rejected_total",
		Help:      "Feedback events rejected as malformed.",
	})

	// RerankDuration observes the learn-and-rerank cycle.
	RerankDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rerank_duration_seconds",
		Help:      "Duration of one feedback apply and rerank cycle.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	})

	// HTTPRequests counts API requests by route and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "API requests, by route and status class.",
	}, []string{"route", "status"})
)
