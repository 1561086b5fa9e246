// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package models

import (
	"fmt"
	"time"
)

// FeedbackAction is the user's binary verdict on a shown listing.
type FeedbackAction string

const (
	ActionLike    FeedbackAction = "like"
	ActionDislike FeedbackAction = "dislike"
)

// Valid reports whether the action is one of the known values.
func (a FeedbackAction) Valid() bool {
	return a == ActionLike || a == ActionDislike
}

// FeedbackEvent is one like/dislike signal on a shown listing.
// The idempotency key is (SessionID, ListingID): a second event for
// the same listing overrides, not duplicates, the prior signal.
type FeedbackEvent struct {
	SessionID string         `json:"session_id" validate:"required"`
	ListingID string         `json:"listing_id" validate:"required"`
	Action    FeedbackAction `json:"action" validate:"required,oneof=like dislike"`
	Timestamp time.Time      `json:"timestamp"`
}

// Validate runs the struct-tag checks. Any violation is reported as
// ErrMalformedFeedback so boundaries can match on it.
func (e FeedbackEvent) Validate() error {
	if err := structValidator.Struct(e); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedFeedback, err)
	}
	return nil
}

// Key returns the idempotency key for this event.
func (e FeedbackEvent) Key() string {
	return e.SessionID + "/" + e.ListingID
}
