// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package pipeline orchestrates a session's stage graph: collector
// fan-out, aggregation, bounded-concurrency evaluation and
// argumentation, report compilation, and the feedback-driven rerank
// loop. Each session is an independent state machine
// (pending, collecting, evaluating, compiling, ready, exhausted, and
// a terminal error state); per-item failures degrade the session but
// only an empty working set kills it.
package pipeline
