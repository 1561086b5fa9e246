// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package models

// SessionState is one phase of the per-session pipeline state machine.
type SessionState string

const (
	// StatePending: session created, pipeline not yet started.
	StatePending SessionState = "pending"
	// StateCollecting: collector fan-out in flight.
	StateCollecting SessionState = "collecting"
	// StateEvaluating: per-listing evaluation and argumentation.
	StateEvaluating SessionState = "evaluating"
	// StateCompiling: fusing final reports.
	StateCompiling SessionState = "compiling"
	// StateReady: ranked queue built; accepting feedback.
	StateReady SessionState = "ready"
	// StateExhausted: the ranked queue has emptied.
	StateExhausted SessionState = "exhausted"
	// StateError: terminal failure.
	StateError SessionState = "error"
)

// Terminal reports whether no further transitions can occur.
func (s SessionState) Terminal() bool {
	return s == StateExhausted || s == StateError
}

// CanTransition reports whether moving from s to next is a legal
// state-machine edge. Error is reachable from any non-terminal state.
func (s SessionState) CanTransition(next SessionState) bool {
	if s.Terminal() {
		return false
	}
	if next == StateError {
		return true
	}
	switch s {
	case StatePending:
		return next == StateCollecting
	case StateCollecting:
		return next == StateEvaluating
	case StateEvaluating:
		return next == StateCompiling
	case StateCompiling:
		return next == StateReady
	case StateReady:
		return next == StateExhausted
	default:
		return false
	}
}

// Stage progress weights: collecting 30%, evaluating 40%, compiling 30%.
const (
	ProgressCollectingWeight = 30
	ProgressEvaluatingWeight = 40
	ProgressCompilingWeight  = 30
)

// SessionStatus is the externally visible snapshot of a session.
type SessionStatus struct {
	// SessionID is the opaque pipeline session identifier.
	SessionID string `json:"session_id"`

	// State is the current state-machine phase.
	State SessionState `json:"state"`

	// Progress is a 0-100 estimate derived from stage weights.
	Progress int `json:"progress"`

	// Message is a human-readable progress description.
	Message string `json:"message"`

	// ListingsFound is the running count of aggregated listings.
	ListingsFound int `json:"listings_found"`

	// ListingsEvaluated is the count of listings with a completed
	// evaluation.
	ListingsEvaluated int `json:"listings_evaluated"`

	// Degraded is true when any recoverable sub-failure occurred.
	Degraded bool `json:"degraded"`

	// DegradedReasons lists the recoverable degradations, most
	// severe first.
	DegradedReasons []string `json:"degraded_reasons,omitempty"`

	// Error carries the terminal failure reason when State is error.
	Error string `json:"error,omitempty"`
}
