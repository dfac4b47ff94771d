// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

// Package api exposes the HTTP surface: mood profiles, recommendations,
// vibe overrides, compatibility, rating ingestion, and health.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/YldzBerkay/film-track-be-sub001/internal/database"
	"github.com/YldzBerkay/film-track-be-sub001/internal/events"
	"github.com/YldzBerkay/film-track-be-sub001/internal/mood"
	"github.com/YldzBerkay/film-track-be-sub001/internal/recommend"
)

// MoodService is the mood-engine surface the handlers need.
type MoodService interface {
	MoodProfile(ctx context.Context, userID string, force bool) (*mood.Profile, error)
	SetVibe(ctx context.Context, userID, template string, strength float64, durationHours int) (*mood.VibeOverride, error)
	ClearVibe(ctx context.Context, userID string) error
	GetCompatibility(ctx context.Context, userA, userB string) (mood.CompatibilityResult, error)
}

// RecommendService produces ranked recommendation lists.
type RecommendService interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

// ActivityStore persists incoming rating records and serves mood history.
type ActivityStore interface {
	RecordActivity(ctx context.Context, activity *database.Activity) error
	GetMoodSnapshots(ctx context.Context, userID string, limit int) ([]mood.Snapshot, error)
	Ping(ctx context.Context) error
}

// EventPublisher publishes rating events for background processing.
type EventPublisher interface {
	PublishRatingRecorded(event *events.RatingRecorded) error
}

// Handler bundles the services behind the HTTP endpoints.
type Handler struct {
	moods     MoodService
	recs      RecommendService
	store     ActivityStore
	publisher EventPublisher
	validate  *validator.Validate
	startedAt time.Time
}

// NewHandler creates the API handler set.
func NewHandler(moods MoodService, recs RecommendService, store ActivityStore, publisher EventPublisher) *Handler {
	return &Handler{
		moods:     moods,
		recs:      recs,
		store:     store,
		publisher: publisher,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		startedAt: time.Now(),
	}
}

// Health reports service liveness plus a database round trip.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "ok"
	code := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		status = "degraded"
		dbStatus = err.Error()
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, r, code, map[string]any{
		"status":         status,
		"database":       dbStatus,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	})
}

// HealthLive always succeeds while the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady succeeds once the database answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, "NOT_READY", "database not reachable", err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}
