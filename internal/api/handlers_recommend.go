// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YldzBerkay/film-track-be-sub001/internal/recommend"
)

// Recommendations serves the ranked list for a user.
//
// GET /api/v1/users/{userID}/recommendations?mode=match|shift&limit=&include_watched=&refresh=
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, r, http.StatusBadRequest, "MISSING_USER_ID", "user ID is required", nil)
		return
	}

	mode, err := recommend.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_MODE", "mode must be match or shift", err)
		return
	}

	req := recommend.Request{
		UserID:         userID,
		Mode:           mode,
		Limit:          getIntParam(r, "limit", 0),
		IncludeWatched: getBoolParam(r, "include_watched", false),
		ForceRefresh:   getBoolParam(r, "refresh", false),
	}

	resp, err := h.recs.Recommend(r.Context(), req)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "RECOMMEND_FAILED", "could not build recommendations", err)
		return
	}

	respondJSON(w, r, http.StatusOK, resp)
}
