// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package pipeline

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nestscout/nestscout/internal/learn"
	"github.com/nestscout/nestscout/internal/metrics"
	"github.com/nestscout/nestscout/internal/models"
)

// Session is one pipeline run: the state machine, the compiled
// reports, the ranked queue, and the session's learning engine. All
// mutation is serialized through the session mutex; reports themselves
// are immutable once compiled.
type Session struct {
	mu sync.Mutex

	id        string
	profile   *models.PreferenceProfile
	createdAt time.Time

	state             models.SessionState
	progress          int
	message           string
	listingsFound     int
	listingsEvaluated int
	degraded          []string
	errReason         string

	// reports is keyed by listing ID; populated during compiling.
	reports map[string]*models.FinalReport

	// order is the frozen initial ranking by composite score, used
	// for the full results view.
	order []string

	// queue holds the not-yet-shown listing IDs in learned-rank
	// order. seen holds everything feedback has consumed.
	queue []string
	seen  map[string]struct{}

	engine *learn.Engine
	cancel func()

	finishedAt time.Time
}

func newSession(id string, profile *models.PreferenceProfile, engine *learn.Engine, cancel func()) *Session {
	return &Session{
		id:        id,
		profile:   profile,
		createdAt: time.Now().UTC(),
		state:     models.StatePending,
		message:   "session created",
		reports:   make(map[string]*models.FinalReport),
		seen:      make(map[string]struct{}),
		engine:    engine,
		cancel:    cancel,
	}
}

// ID returns the opaque session identifier.
func (s *Session) ID() string { return s.id }

// Profile returns the immutable preference profile.
func (s *Session) Profile() *models.PreferenceProfile { return s.profile }

// Status returns a consistent snapshot of the session.
func (s *Session) Status() models.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.SessionStatus{
		SessionID:         s.id,
		State:             s.state,
		Progress:          s.progress,
		Message:           s.message,
		ListingsFound:     s.listingsFound,
		ListingsEvaluated: s.listingsEvaluated,
		Degraded:          len(s.degraded) > 0,
		DegradedReasons:   append([]string(nil), s.degraded...),
		Error:             s.errReason,
	}
}

// transition moves the state machine and updates progress. Illegal
// transitions are programming errors and are ignored with the state
// left untouched.
func (s *Session) transition(next models.SessionState, progress int, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.CanTransition(next) {
		return false
	}
	s.state = next
	s.progress = progress
	s.message = message
	if next.Terminal() {
		s.finishedAt = time.Now().UTC()
	}
	return true
}

// fail moves the session to the terminal error state.
func (s *Session) fail(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return
	}
	s.state = models.StateError
	s.message = "session failed"
	s.errReason = reason
	s.finishedAt = time.Now().UTC()
}

func (s *Session) addDegraded(reasons ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.degraded = append(s.degraded, reasons...)
}

func (s *Session) setListingsFound(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listingsFound = n
}

func (s *Session) incEvaluated(total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listingsEvaluated++
	if total > 0 && s.state == models.StateEvaluating {
		s.progress = models.ProgressCollectingWeight +
			models.ProgressEvaluatingWeight*s.listingsEvaluated/total
	}
}

// install stores the compiled reports and builds the initial queue,
// ordered by frozen composite score with the same tie-breaks the
// learned rerank uses.
func (s *Session) install(reports []*models.FinalReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		a, b := reports[i], reports[j]
		if a.CompositeScore != b.CompositeScore {
			return a.CompositeScore > b.CompositeScore
		}
		if a.Listing.DaysOnMarket != b.Listing.DaysOnMarket {
			return a.Listing.DaysOnMarket < b.Listing.DaysOnMarket
		}
		return a.Listing.ID < b.Listing.ID
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	s.queue = s.queue[:0]
	for _, r := range reports {
		s.reports[r.Listing.ID] = r
		s.order = append(s.order, r.Listing.ID)
		s.queue = append(s.queue, r.Listing.ID)
	}
}

// Reports returns every compiled report in the frozen initial order.
func (s *Session) Reports() []*models.FinalReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.FinalReport, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.reports[id])
	}
	return out
}

// Ranked returns the not-yet-shown reports in current learned order.
func (s *Session) Ranked() ([]*models.FinalReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.readyLocked(); err != nil {
		return nil, err
	}
	out := make([]*models.FinalReport, 0, len(s.queue))
	for _, id := range s.queue {
		out = append(out, s.reports[id])
	}
	return out, nil
}

// Next returns the current head of the ranked queue without advancing
// it; only feedback advances the queue.
func (s *Session) Next() (*models.FinalReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.readyLocked(); err != nil {
		return nil, err
	}
	if len(s.queue) == 0 {
		return nil, models.ErrQueueExhausted
	}
	return s.reports[s.queue[0]], nil
}

// ApplyFeedback folds one feedback event into the session: the
// learning engine updates its weights, the listing leaves the queue,
// and the remainder is reranked under the new weights. Only one
// apply/rerank cycle runs at a time per session.
func (s *Session) ApplyFeedback(ev models.FeedbackEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.StateReady && s.state != models.StateExhausted {
		return models.ErrSessionNotReady
	}

	report, ok := s.reports[ev.ListingID]
	if !ok {
		return fmt.Errorf("%w: unknown listing %q", models.ErrMalformedFeedback, ev.ListingID)
	}

	start := time.Now()
	if _, err := s.engine.ApplyFeedback(ev, report.Features); err != nil {
		return err
	}

	if _, seen := s.seen[ev.ListingID]; !seen {
		s.seen[ev.ListingID] = struct{}{}
		s.queue = remove(s.queue, ev.ListingID)
	}

	remaining := make([]*models.FinalReport, 0, len(s.queue))
	for _, id := range s.queue {
		remaining = append(remaining, s.reports[id])
	}
	s.engine.Rerank(remaining)
	for i, r := range remaining {
		s.queue[i] = r.Listing.ID
	}

	if len(s.queue) == 0 && s.state == models.StateReady {
		s.state = models.StateExhausted
		s.message = "all listings reviewed"
		s.finishedAt = time.Now().UTC()
	}

	metrics.RerankDuration.Observe(time.Since(start).Seconds())
	metrics.FeedbackEvents.WithLabelValues(string(ev.Action)).Inc()
	return nil
}

// HasListing reports whether the session compiled a report for the
// listing. Used for boundary validation before feedback is queued.
func (s *Session) HasListing(listingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.reports[listingID]
	return ok
}

// Insights reports what the session has learned so far.
func (s *Session) Insights() (learn.Insights, error) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	if state != models.StateReady && state != models.StateExhausted {
		return learn.Insights{}, models.ErrSessionNotReady
	}
	return s.engine.Snapshot(), nil
}

// Weights exposes the current learned weights.
func (s *Session) Weights() models.WeightVector {
	return s.engine.Weights()
}

// Expired reports whether a terminal session has outlived the TTL.
func (s *Session) Expired(ttl time.Duration, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Terminal() && !s.finishedAt.IsZero() && now.Sub(s.finishedAt) > ttl
}

// Cancel aborts any in-flight pipeline work for the session.
func (s *Session) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Session) readyLocked() error {
	switch s.state {
	case models.StateReady, models.StateExhausted:
		return nil
	default:
		return models.ErrSessionNotReady
	}
}

func remove(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
