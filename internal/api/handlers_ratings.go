// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/YldzBerkay/film-track-be-sub001/internal/database"
	"github.com/YldzBerkay/film-track-be-sub001/internal/events"
	"github.com/YldzBerkay/film-track-be-sub001/internal/logging"
)

// ratingRequest is the POST /ratings payload. The rating is optional so
// that unrated encounters (watched but never scored) can also be logged.
type ratingRequest struct {
	MediaID    string     `json:"media_id" validate:"required"`
	MediaKind  string     `json:"media_kind" validate:"required,oneof=movie series episode documentary short"`
	Title      string     `json:"title"`
	Rating     *int       `json:"rating" validate:"omitempty,gte=1,lte=10"`
	OccurredAt *time.Time `json:"occurred_at"`
}

// RecordRating persists a rating record and detaches the mood recompute
// onto the event bus. Responds 202: the rating is durable but the mood
// state catches up asynchronously.
//
// POST /api/v1/users/{userID}/ratings
func (h *Handler) RecordRating(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, r, http.StatusBadRequest, "MISSING_USER_ID", "user ID is required", nil)
		return
	}

	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON", err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	occurredAt := time.Now().UTC()
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}

	activity := &database.Activity{
		UserID:     userID,
		MediaID:    req.MediaID,
		MediaKind:  req.MediaKind,
		Title:      req.Title,
		Rating:     req.Rating,
		OccurredAt: occurredAt,
	}
	if err := h.store.RecordActivity(r.Context(), activity); err != nil {
		respondError(w, r, http.StatusInternalServerError, "RATING_WRITE_FAILED", "could not store rating", err)
		return
	}

	// Fire-and-forget: a lost event costs one background recompute, which
	// the next on-demand mood read performs anyway.
	if err := h.publisher.PublishRatingRecorded(&events.RatingRecorded{
		UserID:     userID,
		MediaID:    req.MediaID,
		MediaKind:  req.MediaKind,
		Rating:     req.Rating,
		OccurredAt: occurredAt,
	}); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).
			Str("user_id", sanitizeLogValue(userID)).
			Msg("rating event publish failed")
	}

	respondJSON(w, r, http.StatusAccepted, map[string]any{
		"activity_id": activity.ID,
		"status":      "accepted",
	})
}
