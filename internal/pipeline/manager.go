// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nestscout/nestscout/internal/aggregate"
	"github.com/nestscout/nestscout/internal/argue"
	"github.com/nestscout/nestscout/internal/collector"
	"github.com/nestscout/nestscout/internal/compile"
	"github.com/nestscout/nestscout/internal/config"
	"github.com/nestscout/nestscout/internal/evaluate"
	"github.com/nestscout/nestscout/internal/events"
	"github.com/nestscout/nestscout/internal/learn"
	"github.com/nestscout/nestscout/internal/metrics"
	"github.com/nestscout/nestscout/internal/models"
	"github.com/nestscout/nestscout/internal/similarity"
)

// Manager owns all pipeline sessions: it starts runs, drives each
// session's stage graph, consumes the feedback stream, and reaps
// expired sessions. It implements suture's Service interface via
// Serve.
type Manager struct {
	cfg *config.Config

	runner   *collector.Runner
	agg      *aggregate.Aggregator
	eval     *evaluate.Evaluator
	arguer   *argue.Arguer
	simStore similarity.Store
	store    learn.Store
	bus      *events.Bus

	mu       sync.RWMutex
	sessions map[string]*Session

	logger zerolog.Logger
}

// NewManager wires the pipeline stages together.
func NewManager(cfg *config.Config, runner *collector.Runner, agg *aggregate.Aggregator, eval *evaluate.Evaluator, arguer *argue.Arguer, simStore similarity.Store, store learn.Store, bus *events.Bus, logger zerolog.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		runner:   runner,
		agg:      agg,
		eval:     eval,
		arguer:   arguer,
		simStore: simStore,
		store:    store,
		bus:      bus,
		sessions: make(map[string]*Session),
		logger:   logger.With().Str("component", "pipeline").Logger(),
	}
}

// StartSession validates the profile, registers a new session, and
// launches its pipeline run in the background.
func (m *Manager) StartSession(ctx context.Context, profile *models.PreferenceProfile) (*Session, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	// Session IDs are freshly minted, so a new session always starts
	// from the configured base weights; persisted weights only matter
	// across restarts, which recreate no sessions.
	id := uuid.NewString()
	engine := learn.NewEngine(m.cfg.Scoring.BaseWeights, m.cfg.Learning.Rate, m.logger)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sess := newSession(id, profile, engine, cancel)

	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()

	metrics.SessionsStarted.Inc()
	go m.run(runCtx, sess)

	return sess, nil
}

// Session looks a session up by ID.
func (m *Manager) Session(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return sess, nil
}

// run drives one session through the stage graph.
func (m *Manager) run(ctx context.Context, sess *Session) {
	log := m.logger.With().Str("session_id", sess.ID()).Logger()

	listings, ok := m.collect(ctx, sess, log)
	if !ok {
		return
	}
	reports, ok := m.evaluateAll(ctx, sess, listings, log)
	if !ok {
		return
	}
	m.compileAll(ctx, sess, reports, log)
}

// collect runs the collector fan-out and aggregation.
func (m *Manager) collect(ctx context.Context, sess *Session, log zerolog.Logger) ([]models.Listing, bool) {
	sess.transition(models.StateCollecting, 5, "querying listing sources")
	start := time.Now()

	results := m.runner.Collect(ctx, sess.Profile())
	for _, r := range results {
		if r.Err != nil {
			metrics.SourceFailures.WithLabelValues(r.Source).Inc()
		}
	}

	agg, err := m.agg.Aggregate(results)
	metrics.StageDuration.WithLabelValues("collecting").Observe(time.Since(start).Seconds())
	if err != nil {
		// Zero listings cancels everything downstream immediately.
		sess.Cancel()
		sess.fail(err.Error())
		metrics.SessionsFinished.WithLabelValues("no_listings").Inc()
		log.Warn().Err(err).Msg("session failed during aggregation")
		return nil, false
	}

	sess.addDegraded(agg.DegradedSources...)
	sess.setListingsFound(len(agg.Listings))
	metrics.ListingsAggregated.Observe(float64(len(agg.Listings)))
	log.Info().
		Int("listings", len(agg.Listings)).
		Int("degraded_sources", len(agg.DegradedSources)).
		Msg("aggregation complete")
	return agg.Listings, true
}

// evaluated pairs one listing with its evaluation and argumentation
// output, ready for compilation.
type evaluated struct {
	listing models.Listing
	scores  models.SubScoreSet
	args    models.ArgumentSet
}

// evaluateAll runs evaluation and argumentation per listing on a
// bounded worker pool. Failed listings are excluded and recorded as
// degradations; they never block siblings.
func (m *Manager) evaluateAll(ctx context.Context, sess *Session, listings []models.Listing, log zerolog.Logger) ([]evaluated, bool) {
	sess.transition(models.StateEvaluating, models.ProgressCollectingWeight, "evaluating listings")
	start := time.Now()

	workers := m.cfg.Pipeline.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan models.Listing)
	out := make([]evaluated, len(listings))
	valid := make([]bool, len(listings))
	index := make(map[string]int, len(listings))
	for i, l := range listings {
		index[l.ID] = i
	}

	var failures sync.Map
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for l := range jobs {
				i := index[l.ID]
				ev, err := m.evaluateOne(ctx, sess.Profile(), l)
				if err != nil {
					failures.Store(l.ID, err)
					sess.incEvaluated(len(listings))
					continue
				}
				out[i] = ev
				valid[i] = true
				sess.incEvaluated(len(listings))
			}
		}()
	}

	for _, l := range listings {
		select {
		case jobs <- l:
		case <-ctx.Done():
		}
	}
	close(jobs)
	wg.Wait()
	metrics.StageDuration.WithLabelValues("evaluating").Observe(time.Since(start).Seconds())

	if ctx.Err() != nil {
		sess.fail("session cancelled")
		metrics.SessionsFinished.WithLabelValues("cancelled").Inc()
		return nil, false
	}

	var kept []evaluated
	for i, ev := range out {
		if valid[i] {
			kept = append(kept, ev)
		}
	}
	failures.Range(func(key, value any) bool {
		sess.addDegraded(fmt.Sprintf("listing %s excluded: %v", key, value))
		log.Warn().Str("listing_id", key.(string)).Err(value.(error)).Msg("listing excluded from evaluation")
		return true
	})

	if len(kept) == 0 {
		sess.fail(models.ErrNoListings.Error())
		metrics.SessionsFinished.WithLabelValues("no_listings").Inc()
		return nil, false
	}
	return kept, true
}

// evaluateOne runs one listing's evaluation and argumentation under
// the per-listing deadline.
func (m *Manager) evaluateOne(ctx context.Context, profile *models.PreferenceProfile, listing models.Listing) (evaluated, error) {
	evalCtx := ctx
	if m.cfg.Pipeline.EvaluateTimeout > 0 {
		var cancel context.CancelFunc
		evalCtx, cancel = context.WithTimeout(ctx, m.cfg.Pipeline.EvaluateTimeout)
		defer cancel()
	}

	scores, err := m.eval.Evaluate(evalCtx, profile, &listing)
	if err != nil {
		return evaluated{}, err
	}

	args := m.arguer.Argue(ctx, profile, &listing, &scores)
	return evaluated{listing: listing, scores: scores, args: args}, nil
}

// compileAll freezes the final reports, seeds the similarity index,
// and builds the initial ranking.
func (m *Manager) compileAll(ctx context.Context, sess *Session, evs []evaluated, log zerolog.Logger) {
	sess.transition(models.StateCompiling,
		models.ProgressCollectingWeight+models.ProgressEvaluatingWeight, "compiling reports")
	start := time.Now()

	limited := 0
	reports := make([]*models.FinalReport, 0, len(evs))
	for _, ev := range evs {
		r := compile.Compile(ev.listing, ev.scores, ev.args, m.cfg.Scoring.BaseWeights)
		reports = append(reports, &r)
		if r.LimitedAnalysis {
			limited++
		}

		if m.simStore != nil {
			rec := similarity.Record{
				ID:             sess.ID() + "/" + ev.listing.ID,
				Vector:         similarity.Vectorize(ev.listing),
				CompositeScore: r.CompositeScore,
			}
			if err := m.simStore.Add(ctx, rec); err != nil {
				log.Debug().Err(err).Str("listing_id", ev.listing.ID).Msg("similarity index add failed")
			}
		}
	}
	if limited > 0 {
		sess.addDegraded(fmt.Sprintf("%d listings compiled with limited analysis", limited))
	}

	sess.install(reports)
	metrics.StageDuration.WithLabelValues("compiling").Observe(time.Since(start).Seconds())

	if err := m.store.SaveWeights(sess.ID(), sess.Weights()); err != nil {
		log.Warn().Err(err).Msg("persisting initial weights failed")
	}

	sess.transition(models.StateReady, 100, "ranked results ready")
	metrics.SessionsFinished.WithLabelValues("ready").Inc()
	log.Info().Int("reports", len(reports)).Msg("session ready")
}

// HandleFeedback validates and applies one feedback event to its
// session, persisting the event and the updated weights.
func (m *Manager) HandleFeedback(ev models.FeedbackEvent) error {
	if err := ev.Validate(); err != nil {
		metrics.FeedbackRejected.Inc()
		return err
	}

	sess, err := m.Session(ev.SessionID)
	if err != nil {
		return err
	}
	if err := sess.ApplyFeedback(ev); err != nil {
		if errors.Is(err, models.ErrMalformedFeedback) {
			metrics.FeedbackRejected.Inc()
		}
		return err
	}

	if err := m.store.AppendFeedback(ev); err != nil {
		m.logger.Warn().Err(err).Str("session_id", ev.SessionID).Msg("feedback log append failed")
	}
	if err := m.store.SaveWeights(ev.SessionID, sess.Weights()); err != nil {
		m.logger.Warn().Err(err).Str("session_id", ev.SessionID).Msg("weights persist failed")
	}
	return nil
}

// FeedbackHistory returns the persisted feedback log for a session in
// append order.
func (m *Manager) FeedbackHistory(id string) ([]models.FeedbackEvent, error) {
	if _, err := m.Session(id); err != nil {
		return nil, err
	}
	return m.store.Feedback(id)
}

// Serve consumes the feedback stream and reaps expired sessions until
// the context ends. It satisfies the supervisor service contract.
func (m *Manager) Serve(ctx context.Context) error {
	stream, err := m.bus.SubscribeFeedback(ctx)
	if err != nil {
		return fmt.Errorf("subscribe feedback: %w", err)
	}

	reap := time.NewTicker(time.Minute)
	defer reap.Stop()

	m.logger.Info().Msg("pipeline manager started")
	for {
		select {
		case ev, ok := <-stream:
			if !ok {
				return ctx.Err()
			}
			if err := m.HandleFeedback(ev); err != nil {
				m.logger.Debug().Err(err).
					Str("session_id", ev.SessionID).
					Str("listing_id", ev.ListingID).
					Msg("feedback event dropped")
			}
		case <-reap.C:
			m.reapExpired()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// String names the service in supervisor logs.
func (m *Manager) String() string { return "pipeline-manager" }

func (m *Manager) reapExpired() {
	ttl := m.cfg.Pipeline.SessionTTL
	if ttl <= 0 {
		return
	}
	now := time.Now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sess := range m.sessions {
		if sess.Expired(ttl, now) {
			delete(m.sessions, id)
			m.logger.Debug().Str("session_id", id).Msg("expired session reaped")
		}
	}
}
