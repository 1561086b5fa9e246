// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package models defines the shared domain types for the recommendation
// pipeline: preference profiles, candidate listings, sub-score sets,
// argument sets, final reports, feedback events, and session state.
//
// All types here are plain data. Listings and final reports are
// immutable once produced and may be shared across goroutines without
// synchronization; mutable per-session state (weight vectors, ranked
// queues) lives in the learn package behind a single-writer handle.
package models
