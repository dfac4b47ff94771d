// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Mood serves the user's current mood profile.
//
// GET /api/v1/users/{userID}/mood?refresh=true
func (h *Handler) Mood(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, r, http.StatusBadRequest, "MISSING_USER_ID", "user ID is required", nil)
		return
	}
	force := getBoolParam(r, "refresh", false)

	profile, err := h.moods.MoodProfile(r.Context(), userID, force)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "MOOD_COMPUTE_FAILED", "could not compute mood", err)
		return
	}

	respondJSON(w, r, http.StatusOK, profile)
}

// MoodHistory serves the user's daily mood snapshots, newest first.
//
// GET /api/v1/users/{userID}/mood/history?limit=30
func (h *Handler) MoodHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, r, http.StatusBadRequest, "MISSING_USER_ID", "user ID is required", nil)
		return
	}

	limit := getIntParam(r, "limit", 30)
	if limit <= 0 || limit > 365 {
		limit = 30
	}

	snapshots, err := h.store.GetMoodSnapshots(r.Context(), userID, limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "HISTORY_QUERY_FAILED", "could not load mood history", err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"user_id":   userID,
		"snapshots": snapshots,
	})
}

// Compatibility compares two users' stored mood vectors.
//
// GET /api/v1/users/{userID}/compatibility/{otherID}
func (h *Handler) Compatibility(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	otherID := chi.URLParam(r, "otherID")
	if userID == "" || otherID == "" {
		respondError(w, r, http.StatusBadRequest, "MISSING_USER_ID", "both user IDs are required", nil)
		return
	}
	if userID == otherID {
		respondError(w, r, http.StatusBadRequest, "SAME_USER", "cannot compare a user with themselves", nil)
		return
	}

	result, err := h.moods.GetCompatibility(r.Context(), userID, otherID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "COMPATIBILITY_FAILED", "could not compare users", err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"user_a": userID,
		"user_b": otherID,
		"result": result,
	})
}
