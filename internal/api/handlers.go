// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package api exposes the pipeline over HTTP: session lifecycle,
// status, ranked results, the next-listing accessor, feedback intake,
// and learning insights.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/nestscout/nestscout/internal/events"
	"github.com/nestscout/nestscout/internal/models"
	"github.com/nestscout/nestscout/internal/pipeline"
)

// Handler binds the HTTP surface to the pipeline manager and the
// feedback bus.
type Handler struct {
	manager *pipeline.Manager
	bus     *events.Bus
	logger  zerolog.Logger
}

// NewHandler builds the API handler set.
func NewHandler(manager *pipeline.Manager, bus *events.Bus, logger zerolog.Logger) *Handler {
	return &Handler{
		manager: manager,
		bus:     bus,
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

// CreateSession starts a pipeline run from a preference profile.
//
// POST /api/v1/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var profile models.PreferenceProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid profile body"})
		return
	}

	sess, err := h.manager.StartSession(r.Context(), &profile)
	if err != nil {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	respondJSON(w, http.StatusAccepted, sess.Status())
}

// Status reports the session state machine snapshot.
//
// GET /api/v1/sessions/{sessionID}/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(r)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.Status())
}

// Results returns every compiled report in frozen initial order.
//
// GET /api/v1/sessions/{sessionID}/results
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if st := sess.Status(); st.State != models.StateReady && st.State != models.StateExhausted {
		respondError(w, models.ErrSessionNotReady)
		return
	}
	respondJSON(w, http.StatusOK, sess.Reports())
}

// Ranked returns the not-yet-shown reports in learned order.
//
// GET /api/v1/sessions/{sessionID}/ranked
func (h *Handler) Ranked(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(r)
	if err != nil {
		respondError(w, err)
		return
	}
	reports, err := sess.Ranked()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reports)
}

// Next returns the current head of the ranked queue. Reading never
// advances the queue; only feedback does.
//
// GET /api/v1/sessions/{sessionID}/next
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(r)
	if err != nil {
		respondError(w, err)
		return
	}
	report, err := sess.Next()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// feedbackRequest is the feedback intake body.
type feedbackRequest struct {
	ListingID string `json:"listing_id"`
	Action    string `json:"action"`
}

// Feedback validates one feedback event at the boundary and queues it
// on the event bus. Processing is asynchronous; a 202 means the event
// was accepted, not yet applied.
//
// POST /api/v1/sessions/{sessionID}/feedback
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, fmt.Errorf("%w: invalid body", models.ErrMalformedFeedback))
		return
	}

	ev := models.FeedbackEvent{
		SessionID: sess.ID(),
		ListingID: req.ListingID,
		Action:    models.FeedbackAction(req.Action),
		Timestamp: time.Now().UTC(),
	}

	// Reject garbage before it reaches the stream; session state is
	// untouched by a rejected event.
	if err := ev.Validate(); err != nil {
		respondError(w, err)
		return
	}
	if !sess.HasListing(ev.ListingID) {
		respondError(w, fmt.Errorf("%w: unknown listing %q", models.ErrMalformedFeedback, ev.ListingID))
		return
	}
	if st := sess.Status(); st.State != models.StateReady && st.State != models.StateExhausted {
		respondError(w, models.ErrSessionNotReady)
		return
	}

	if err := h.bus.PublishFeedback(ev); err != nil {
		h.logger.Error().Err(err).Str("session_id", sess.ID()).Msg("feedback publish failed")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// FeedbackHistory returns the persisted feedback log for a session in
// append order. Empty until the first event is applied.
//
// GET /api/v1/sessions/{sessionID}/feedback
func (h *Handler) FeedbackHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if id == "" {
		respondError(w, models.ErrSessionNotFound)
		return
	}
	history, err := h.manager.FeedbackHistory(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if history == nil {
		history = []models.FeedbackEvent{}
	}
	respondJSON(w, http.StatusOK, history)
}

// Insights reports the session's learned weights and feedback tally.
//
// GET /api/v1/sessions/{sessionID}/insights
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(r)
	if err != nil {
		respondError(w, err)
		return
	}
	ins, err := sess.Insights()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ins)
}

// HealthLive is the liveness probe.
//
// GET /api/v1/health/live
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthReady is the readiness probe.
//
// GET /api/v1/health/ready
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) session(r *http.Request) (*pipeline.Session, error) {
	id := chi.URLParam(r, "sessionID")
	if id == "" {
		return nil, models.ErrSessionNotFound
	}
	return h.manager.Session(id)
}
