// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package models

import (
	"errors"
	"fmt"
)

// Error taxonomy. Per-item failures are absorbed at the smallest
// possible scope and never abort sibling work; only ErrNoListings is
// session-fatal.
var (
	// ErrNoListings: aggregation produced an empty working set.
	// Terminal for the session.
	ErrNoListings = errors.New("no listings found after aggregation")

	// ErrMalformedFeedback: feedback event rejected at the boundary;
	// session state unchanged.
	ErrMalformedFeedback = errors.New("malformed feedback event")

	// ErrSessionNotFound: no session with the given identifier.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionNotReady: operation requires the ready state.
	ErrSessionNotReady = errors.New("session is not ready")

	// ErrQueueExhausted: every listing has been shown.
	ErrQueueExhausted = errors.New("ranked queue exhausted")
)

// SourceFailure records one unreachable collector. Recoverable: it
// degrades coverage but never fails aggregation.
type SourceFailure struct {
	Source string
	Reason string
}

func (e *SourceFailure) Error() string {
	return fmt.Sprintf("source %s failed: %s", e.Source, e.Reason)
}

// ListingEvaluationFailure records one excluded listing, caused by a
// malformed listing/profile pair. Recoverable: excludes one listing.
type ListingEvaluationFailure struct {
	ListingID string
	Err       error
}

func (e *ListingEvaluationFailure) Error() string {
	return fmt.Sprintf("evaluation failed for listing %s: %v", e.ListingID, e.Err)
}

func (e *ListingEvaluationFailure) Unwrap() error { return e.Err }

// ProviderUnavailable records one external factor provider failure or
// timeout. Recoverable: the sub-score is marked unavailable and its
// weight redistributed.
type ProviderUnavailable struct {
	Provider string
	Err      error
}

func (e *ProviderUnavailable) Error() string {
	return fmt.Sprintf("provider %s unavailable: %v", e.Provider, e.Err)
}

func (e *ProviderUnavailable) Unwrap() error { return e.Err }
