// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/YldzBerkay/film-track-be-sub001/internal/mood"
)

// vibeRequest is the PUT /vibe payload.
type vibeRequest struct {
	Template      string  `json:"template" validate:"required"`
	Strength      float64 `json:"strength" validate:"gte=0,lte=1"`
	DurationHours int     `json:"duration_hours" validate:"gte=1"`
}

// SetVibe stores a vibe override for the user.
//
// PUT /api/v1/users/{userID}/vibe
func (h *Handler) SetVibe(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, r, http.StatusBadRequest, "MISSING_USER_ID", "user ID is required", nil)
		return
	}

	var req vibeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON", err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	override, err := h.moods.SetVibe(r.Context(), userID, req.Template, req.Strength, req.DurationHours)
	if err != nil {
		switch {
		case errors.Is(err, mood.ErrUnknownVibeTemplate):
			respondError(w, r, http.StatusBadRequest, "UNKNOWN_TEMPLATE", "no such vibe template", err)
		case errors.Is(err, mood.ErrInvalidVibeDuration):
			respondError(w, r, http.StatusBadRequest, "INVALID_DURATION", "duration must be positive", err)
		default:
			respondError(w, r, http.StatusInternalServerError, "VIBE_SET_FAILED", "could not set vibe", err)
		}
		return
	}

	respondJSON(w, r, http.StatusOK, override)
}

// ClearVibe removes the user's vibe override.
//
// DELETE /api/v1/users/{userID}/vibe
func (h *Handler) ClearVibe(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, r, http.StatusBadRequest, "MISSING_USER_ID", "user ID is required", nil)
		return
	}

	if err := h.moods.ClearVibe(r.Context(), userID); err != nil {
		respondError(w, r, http.StatusInternalServerError, "VIBE_CLEAR_FAILED", "could not clear vibe", err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]string{"status": "cleared"})
}

// VibeTemplates lists the preset vibe templates.
//
// GET /api/v1/vibe/templates
func (h *Handler) VibeTemplates(w http.ResponseWriter, r *http.Request) {
	names := mood.VibeTemplateNames()
	templates := make([]map[string]any, 0, len(names))
	for _, name := range names {
		vector, _ := mood.VibeTemplate(name)
		templates = append(templates, map[string]any{
			"name":   name,
			"vector": vector,
		})
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"templates": templates})
}
