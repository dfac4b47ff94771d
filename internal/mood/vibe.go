// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package mood

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// Errors returned by the vibe operations.
var (
	// ErrUnknownVibeTemplate indicates the requested template name is not
	// in the fixed template table.
	ErrUnknownVibeTemplate = errors.New("unknown vibe template")

	// ErrInvalidVibeDuration indicates a non-positive duration.
	ErrInvalidVibeDuration = errors.New("vibe duration must be positive")
)

// vibeTemplates is the fixed, immutable table of preset vibe vectors.
// Loaded once at process start; only read afterwards.
var vibeTemplates = map[string]Vector{
	"cozy": {
		Adrenaline: 15, Melancholy: 35, Joy: 70, Tension: 10, Intellect: 40,
		Romance: 60, Wonder: 45, Nostalgia: 75, Darkness: 10, Inspiration: 50,
	},
	"adrenaline_rush": {
		Adrenaline: 95, Melancholy: 10, Joy: 60, Tension: 85, Intellect: 30,
		Romance: 15, Wonder: 40, Nostalgia: 10, Darkness: 45, Inspiration: 40,
	},
	"tearjerker": {
		Adrenaline: 15, Melancholy: 90, Joy: 20, Tension: 40, Intellect: 50,
		Romance: 65, Wonder: 30, Nostalgia: 60, Darkness: 40, Inspiration: 55,
	},
	"brain_food": {
		Adrenaline: 25, Melancholy: 35, Joy: 35, Tension: 50, Intellect: 95,
		Romance: 15, Wonder: 70, Nostalgia: 25, Darkness: 35, Inspiration: 75,
	},
	"romantic": {
		Adrenaline: 20, Melancholy: 30, Joy: 70, Tension: 25, Intellect: 35,
		Romance: 95, Wonder: 50, Nostalgia: 45, Darkness: 10, Inspiration: 55,
	},
	"nostalgic": {
		Adrenaline: 25, Melancholy: 55, Joy: 55, Tension: 20, Intellect: 40,
		Romance: 45, Wonder: 55, Nostalgia: 95, Darkness: 15, Inspiration: 45,
	},
	"spooky": {
		Adrenaline: 70, Melancholy: 40, Joy: 15, Tension: 90, Intellect: 45,
		Romance: 10, Wonder: 50, Nostalgia: 20, Darkness: 95, Inspiration: 20,
	},
	"uplift": {
		Adrenaline: 45, Melancholy: 5, Joy: 95, Tension: 15, Intellect: 40,
		Romance: 50, Wonder: 70, Nostalgia: 35, Darkness: 5, Inspiration: 90,
	},
}

// VibeTemplate looks up a preset vector by name.
func VibeTemplate(name string) (Vector, bool) {
	v, ok := vibeTemplates[name]
	return v, ok
}

// VibeTemplateNames returns the template names in sorted order.
func VibeTemplateNames() []string {
	names := make([]string, 0, len(vibeTemplates))
	for name := range vibeTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profile bundles a user's base mood, the effective (vibe-blended) mood,
// and the active override for API consumers.
type Profile struct {
	UserID        string        `json:"user_id"`
	BaseMood      Vector        `json:"base_mood"`
	EffectiveMood Vector        `json:"effective_mood"`
	LastUpdated   time.Time     `json:"last_updated"`
	ActiveVibe    *VibeOverride `json:"active_vibe,omitempty"`
}

// SetVibe stores a vibe override for the user, replacing any prior one.
// Strength is clamped to [0,1]; the duration is capped by configuration.
// Unknown template names fail with ErrUnknownVibeTemplate.
func (e *Engine) SetVibe(ctx context.Context, userID, template string, strength float64, durationHours int) (*VibeOverride, error) {
	vector, ok := VibeTemplate(template)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVibeTemplate, template)
	}
	if durationHours <= 0 {
		return nil, ErrInvalidVibeDuration
	}

	duration := time.Duration(durationHours) * time.Hour
	if duration > e.cfg.VibeMaxDuration {
		duration = e.cfg.VibeMaxDuration
	}
	if strength < 0 {
		strength = 0
	}
	if strength > 1 {
		strength = 1
	}

	state, err := e.currentState(ctx, userID, false, TriggerVibeSet)
	if err != nil {
		return nil, err
	}

	override := &VibeOverride{
		TemplateName: template,
		Vector:       vector,
		Strength:     strength,
		ExpiresAt:    e.now().Add(duration),
	}
	state.TemporaryVibe = override

	if err := e.deps.State.UpsertUserMoodState(ctx, state); err != nil {
		return nil, fmt.Errorf("persist vibe override: %w", err)
	}

	e.logger.Info().
		Str("user_id", userID).
		Str("template", template).
		Float64("strength", strength).
		Time("expires_at", override.ExpiresAt).
		Msg("vibe override set")

	return override, nil
}

// ClearVibe removes the user's vibe override unconditionally. Clearing a
// user with no state or no override is a no-op.
func (e *Engine) ClearVibe(ctx context.Context, userID string) error {
	state, err := e.deps.State.GetUserMoodState(ctx, userID)
	if err != nil {
		return fmt.Errorf("get mood state: %w", err)
	}
	if state == nil || state.TemporaryVibe == nil {
		return nil
	}

	state.TemporaryVibe = nil
	if err := e.deps.State.UpsertUserMoodState(ctx, state); err != nil {
		return fmt.Errorf("clear vibe override: %w", err)
	}

	e.logger.Info().Str("user_id", userID).Msg("vibe override cleared")
	return nil
}

// EffectiveMood returns the user's historical mood blended with the
// active vibe override. Expired overrides are ignored and lazily cleared.
func (e *Engine) EffectiveMood(ctx context.Context, userID string, force bool) (Vector, error) {
	profile, err := e.MoodProfile(ctx, userID, force)
	if err != nil {
		return Neutral(), err
	}
	return profile.EffectiveMood, nil
}

// MoodProfile returns the base and effective mood plus the active vibe.
func (e *Engine) MoodProfile(ctx context.Context, userID string, force bool) (*Profile, error) {
	state, err := e.currentState(ctx, userID, force, TriggerOnDemand)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		UserID:        userID,
		BaseMood:      state.CurrentMood,
		EffectiveMood: state.CurrentMood,
		LastUpdated:   state.LastUpdated,
	}

	vibe := state.TemporaryVibe
	if vibe == nil {
		return profile, nil
	}

	if vibe.ExpiredAt(e.now()) {
		// Lazy cleanup; an expired override is dead weight either way.
		state.TemporaryVibe = nil
		if err := e.deps.State.UpsertUserMoodState(ctx, state); err != nil {
			e.logger.Warn().Err(err).Str("user_id", userID).Msg("expired vibe cleanup failed")
		}
		return profile, nil
	}

	profile.ActiveVibe = vibe
	profile.EffectiveMood = Blend(state.CurrentMood, vibe.Vector, vibe.Strength)
	return profile, nil
}
