// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package learn

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nestscout/nestscout/internal/models"
)

func newStore(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := NewBadgerStore("", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBadgerStore: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestStoreWeightsRoundTrip(t *testing.T) {
	s := newStore(t)

	w := models.WeightVector{PreferenceMatch: 0.5, ExternalMean: 0.3, ArgumentBalance: 0.15, SimilarityBoost: 0.05}
	if err := s.SaveWeights("sess-1", w); err != nil {
		t.Fatalf("SaveWeights: %v", err)
	}

	got, err := s.LoadWeights("sess-1")
	if err != nil {
		t.Fatalf("LoadWeights: %v", err)
	}
	if got != w {
		t.Errorf("LoadWeights = %+v, want %+v", got, w)
	}
}

func TestStoreWeightsMissing(t *testing.T) {
	s := newStore(t)
	if _, err := s.LoadWeights("nope"); !errors.Is(err, ErrWeightsNotFound) {
		t.Errorf("err = %v, want ErrWeightsNotFound", err)
	}
}

func TestStoreFeedbackLogOrder(t *testing.T) {
	s := newStore(t)
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"l1", "l2", "l3"} {
		ev := models.FeedbackEvent{
			SessionID: "sess-1",
			ListingID: id,
			Action:    models.ActionLike,
			Timestamp: t0.Add(time.Duration(i) * time.Second),
		}
		if err := s.AppendFeedback(ev); err != nil {
			t.Fatalf("AppendFeedback: %v", err)
		}
	}
	// A different session must not leak into the log.
	other := models.FeedbackEvent{SessionID: "sess-2", ListingID: "x", Action: models.ActionDislike, Timestamp: t0}
	if err := s.AppendFeedback(other); err != nil {
		t.Fatalf("AppendFeedback other: %v", err)
	}

	events, err := s.Feedback("sess-1")
	if err != nil {
		t.Fatalf("Feedback: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("Feedback returned %d events, want 3", len(events))
	}
	for i, id := range []string{"l1", "l2", "l3"} {
		if events[i].ListingID != id {
			t.Errorf("event %d = %s, want %s", i, events[i].ListingID, id)
		}
	}
}
