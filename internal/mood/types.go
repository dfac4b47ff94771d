// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package mood

import (
	"context"
	"time"
)

// Interaction is a single rated media encounter, already merged across the
// activity log and the default watch list (last write wins by media ID).
type Interaction struct {
	// MediaID identifies the media item.
	MediaID string `json:"media_id"`

	// MediaKind is the content type (movie, series, ...).
	MediaKind string `json:"media_kind"`

	// Rating is the 1-10 user rating. Nil when the encounter was never rated.
	Rating *int `json:"rating,omitempty"`

	// OccurredAt is when the encounter happened.
	OccurredAt time.Time `json:"occurred_at"`

	// Title is the media title, carried for logging and diagnostics.
	Title string `json:"title,omitempty"`
}

// VibeOverride is a short-lived user-chosen mood override blended on top
// of the historical vector. Never auto-renewed.
type VibeOverride struct {
	TemplateName string    `json:"template_name"`
	Vector       Vector    `json:"vector"`
	Strength     float64   `json:"strength"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ExpiredAt reports whether the override has lapsed at the given instant.
func (o *VibeOverride) ExpiredAt(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// UserMoodState is the persisted per-user mood record, replaced on every
// recomputation.
type UserMoodState struct {
	UserID        string        `json:"user_id"`
	CurrentMood   Vector        `json:"current_mood"`
	LastUpdated   time.Time     `json:"last_updated"`
	TemporaryVibe *VibeOverride `json:"temporary_vibe,omitempty"`
}

// Snapshot is one row per user per calendar day (service-local day, see
// moodDayLocation). The first recompute of a day creates it; later
// recomputes the same day overwrite it.
type Snapshot struct {
	UserID       string `json:"user_id"`
	Mood         Vector `json:"mood"`
	Day          string `json:"day"` // formatted as 2006-01-02
	TriggerLabel string `json:"trigger_label,omitempty"`
}

// DimensionRange is an inclusive bound on one dimension of a shift rule
// condition. Nil means unbounded on that side.
type DimensionRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// ShiftRule maps a region of mood space to target dimension values used
// to deliberately diversify recommendations. Conditions across dimensions
// combine with AND.
type ShiftRule struct {
	Name string `json:"name"`

	// Priority orders evaluation, highest first.
	Priority int `json:"priority"`

	// Sequence breaks priority ties deterministically (creation order).
	Sequence int64 `json:"sequence"`

	Conditions    map[string]DimensionRange `json:"conditions"`
	TargetEffects map[string]int            `json:"target_effects"`
	IsActive      bool                      `json:"is_active"`
}

// CompatibilityResult is the ephemeral outcome of comparing two users'
// mood vectors. Never persisted.
type CompatibilityResult struct {
	// Similarity is the cosine similarity scaled to 0-100.
	Similarity int `json:"similarity"`

	// Differences holds the per-dimension absolute difference.
	Differences map[string]int `json:"differences"`

	// SharedStrengths lists dimensions strong (>= StrengthThreshold) on both sides.
	SharedStrengths []string `json:"shared_strengths"`

	// UniqueStrengthsA and UniqueStrengthsB list dimensions strong on
	// exactly one side.
	UniqueStrengthsA []string `json:"unique_strengths_a"`
	UniqueStrengthsB []string `json:"unique_strengths_b"`
}

// InteractionSource supplies the merged, deduplicated rating history for a
// user, most recent first.
type InteractionSource interface {
	GetMergedInteractions(ctx context.Context, userID string) ([]Interaction, error)
}

// CatalogSource supplies precomputed mood vectors for a bulk set of media
// ids. Items without a vector are simply absent from the result.
type CatalogSource interface {
	GetCatalogVectors(ctx context.Context, mediaIDs []string) (map[string]Vector, error)
}

// StateStore persists per-user mood state and daily snapshots.
type StateStore interface {
	// GetUserMoodState returns the stored state, or nil when the user has none.
	GetUserMoodState(ctx context.Context, userID string) (*UserMoodState, error)

	UpsertUserMoodState(ctx context.Context, state *UserMoodState) error

	UpsertMoodSnapshot(ctx context.Context, snapshot *Snapshot) error
}

// RuleSource supplies the active shift rule set, ordered by descending
// priority with creation-order tie break.
type RuleSource interface {
	GetActiveShiftRules(ctx context.Context) ([]ShiftRule, error)
}
