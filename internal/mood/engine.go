// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package mood

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/YldzBerkay/film-track-be-sub001/internal/metrics"
)

// Rating-scale constants. Ratings run 1-10; 5 and 6 sit inside the noise
// band and carry no signal.
const (
	noiseRatingLow  = 5
	noiseRatingHigh = 6
	ratingMidpoint  = 5.5
	ratingHalfRange = 4.5
)

// Trigger labels recorded on daily mood snapshots.
const (
	TriggerOnDemand       = "on_demand"
	TriggerRatingRecorded = "rating_recorded"
	TriggerVibeSet        = "vibe_set"
)

// moodDayLocation fixes the calendar-day boundary for mood staleness and
// snapshot keys. All staleness comparisons use this offset, not the
// caller's timezone.
var moodDayLocation = time.FixedZone("UTC+3", 3*60*60)

// Config holds the mood-computation tuning parameters.
type Config struct {
	// RecentWindowDays is the age up to which interactions decay at 1.0.
	RecentWindowDays float64

	// DecayHorizonDays is where linear decay bottoms out at DecayFloor.
	DecayHorizonDays float64

	// DecayFloor is the decay value at and beyond the horizon.
	DecayFloor float64

	// DecayOverallFloor is the hard lower bound applied to the final
	// decay value used in weighting.
	DecayOverallFloor float64

	// SaturationWindowSize is how many recently processed catalog vectors
	// feed the fatigue check.
	SaturationWindowSize int

	// SaturationMinSamples is the window fill below which saturation
	// damping is skipped.
	SaturationMinSamples int

	// SaturationThreshold is the mean cosine similarity above which
	// damping kicks in.
	SaturationThreshold float64

	// SaturationFloor bounds how hard fatigue can dampen a contribution.
	SaturationFloor float64

	// BaselineFloor and BaselineScale control the neutral regularizer:
	// weight = max(BaselineFloor, BaselineScale/sqrt(n/BaselineShrink+1)).
	BaselineFloor  float64
	BaselineScale  float64
	BaselineShrink float64

	// ContrastFactor amplifies deviation from neutral after aggregation.
	ContrastFactor float64

	// HistoryLimit caps the interactions considered per computation.
	// 0 means unlimited.
	HistoryLimit int

	// VibeMaxDuration caps how long a vibe override may live.
	VibeMaxDuration time.Duration
}

// DefaultConfig returns the production mood-computation parameters.
func DefaultConfig() *Config {
	return &Config{
		RecentWindowDays:     7,
		DecayHorizonDays:     90,
		DecayFloor:           0.5,
		DecayOverallFloor:    0.2,
		SaturationWindowSize: 5,
		SaturationMinSamples: 3,
		SaturationThreshold:  0.8,
		SaturationFloor:      0.8,
		BaselineFloor:        0.5,
		BaselineScale:        5.0,
		BaselineShrink:       10.0,
		ContrastFactor:       1.5,
		HistoryLimit:         500,
		VibeMaxDuration:      72 * time.Hour,
	}
}

// Validate checks the configuration for impossible parameter combinations.
func (c *Config) Validate() error {
	if c.RecentWindowDays <= 0 || c.DecayHorizonDays <= c.RecentWindowDays {
		return fmt.Errorf("decay horizon (%v) must exceed recent window (%v)",
			c.DecayHorizonDays, c.RecentWindowDays)
	}
	if c.DecayFloor <= 0 || c.DecayFloor > 1 {
		return fmt.Errorf("decay floor must be in (0,1], got %v", c.DecayFloor)
	}
	if c.DecayOverallFloor <= 0 || c.DecayOverallFloor > 1 {
		return fmt.Errorf("overall decay floor must be in (0,1], got %v", c.DecayOverallFloor)
	}
	if c.SaturationWindowSize < c.SaturationMinSamples {
		return fmt.Errorf("saturation window (%d) smaller than min samples (%d)",
			c.SaturationWindowSize, c.SaturationMinSamples)
	}
	if c.SaturationThreshold <= 0 || c.SaturationThreshold >= 1 {
		return fmt.Errorf("saturation threshold must be in (0,1), got %v", c.SaturationThreshold)
	}
	if c.BaselineFloor <= 0 || c.BaselineScale <= 0 || c.BaselineShrink <= 0 {
		return fmt.Errorf("baseline parameters must be positive")
	}
	if c.ContrastFactor < 1 {
		return fmt.Errorf("contrast factor must be >= 1, got %v", c.ContrastFactor)
	}
	if c.VibeMaxDuration <= 0 {
		return fmt.Errorf("vibe max duration must be positive")
	}
	return nil
}

// Deps bundles the external collaborators of the mood engine.
type Deps struct {
	Interactions InteractionSource
	Catalog      CatalogSource
	State        StateStore
	Rules        RuleSource
}

// Engine turns a user's interaction history into a current mood vector and
// exposes the vibe, shift, and compatibility operations built on top of it.
// It is stateless apart from its fixed configuration and safe for
// concurrent use.
type Engine struct {
	cfg    *Config
	deps   Deps
	logger zerolog.Logger

	// now is replaceable for tests.
	now func() time.Time
}

// NewEngine creates a mood engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Deps, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Interactions == nil || deps.Catalog == nil || deps.State == nil || deps.Rules == nil {
		return nil, fmt.Errorf("all engine dependencies must be set")
	}

	return &Engine{
		cfg:    cfg,
		deps:   deps,
		logger: logger.With().Str("component", "mood").Logger(),
		now:    time.Now,
	}, nil
}

// ComputeOrGet returns the user's current historical mood vector. A stored
// state from the same service-local day is served as-is unless force is
// set; otherwise the vector is recomputed from the full merged history.
func (e *Engine) ComputeOrGet(ctx context.Context, userID string, force bool) (Vector, error) {
	state, err := e.currentState(ctx, userID, force, TriggerOnDemand)
	if err != nil {
		return Neutral(), err
	}
	return state.CurrentMood, nil
}

// Recompute unconditionally recomputes and persists the user's mood,
// recording the given trigger label on today's snapshot. Used by the
// background rating-recorded path.
func (e *Engine) Recompute(ctx context.Context, userID, trigger string) (Vector, error) {
	stored, err := e.deps.State.GetUserMoodState(ctx, userID)
	if err != nil {
		return Neutral(), fmt.Errorf("get mood state: %w", err)
	}
	state, err := e.recompute(ctx, userID, stored, trigger)
	if err != nil {
		return Neutral(), err
	}
	return state.CurrentMood, nil
}

// currentState serves the stored state when it is fresh, recomputing
// otherwise.
func (e *Engine) currentState(ctx context.Context, userID string, force bool, trigger string) (*UserMoodState, error) {
	stored, err := e.deps.State.GetUserMoodState(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get mood state: %w", err)
	}

	if !force && stored != nil && sameMoodDay(stored.LastUpdated, e.now()) {
		metrics.MoodStateServedStale.Inc()
		return stored, nil
	}

	return e.recompute(ctx, userID, stored, trigger)
}

// recompute rebuilds the mood vector from history, persists the state, and
// upserts today's snapshot. The prior state's vibe override survives.
func (e *Engine) recompute(ctx context.Context, userID string, prior *UserMoodState, trigger string) (*UserMoodState, error) {
	start := time.Now()

	history, err := e.deps.Interactions.GetMergedInteractions(ctx, userID)
	if err != nil {
		metrics.MoodRecomputesTotal.WithLabelValues(trigger, "error").Inc()
		return nil, fmt.Errorf("get interactions: %w", err)
	}
	if e.cfg.HistoryLimit > 0 && len(history) > e.cfg.HistoryLimit {
		history = history[:e.cfg.HistoryLimit]
	}

	vectors, err := e.fetchCatalogVectors(ctx, history)
	if err != nil {
		metrics.MoodRecomputesTotal.WithLabelValues(trigger, "error").Inc()
		return nil, fmt.Errorf("get catalog vectors: %w", err)
	}

	now := e.now()
	vector := e.computeFromHistory(history, vectors, now)

	state := &UserMoodState{
		UserID:      userID,
		CurrentMood: vector,
		LastUpdated: now,
	}
	if prior != nil {
		state.TemporaryVibe = prior.TemporaryVibe
	}

	if err := e.deps.State.UpsertUserMoodState(ctx, state); err != nil {
		metrics.MoodRecomputesTotal.WithLabelValues(trigger, "error").Inc()
		return nil, fmt.Errorf("persist mood state: %w", err)
	}

	snapshot := &Snapshot{
		UserID:       userID,
		Mood:         vector,
		Day:          moodDay(now),
		TriggerLabel: trigger,
	}
	if err := e.deps.State.UpsertMoodSnapshot(ctx, snapshot); err != nil {
		// Snapshots feed analytics only; a failed upsert must not fail
		// the recomputation.
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("mood snapshot upsert failed")
	}

	metrics.MoodRecomputesTotal.WithLabelValues(trigger, "ok").Inc()
	metrics.MoodRecomputeDuration.Observe(time.Since(start).Seconds())

	e.logger.Debug().
		Str("user_id", userID).
		Str("trigger", trigger).
		Int("interactions", len(history)).
		Int("vectors", len(vectors)).
		Msg("mood recomputed")

	return state, nil
}

// fetchCatalogVectors looks up vectors for every rated, non-noise
// interaction in one bulk call.
func (e *Engine) fetchCatalogVectors(ctx context.Context, history []Interaction) (map[string]Vector, error) {
	seen := make(map[string]struct{}, len(history))
	ids := make([]string, 0, len(history))
	for _, it := range history {
		if it.Rating == nil || isNoiseRating(*it.Rating) {
			continue
		}
		if _, dup := seen[it.MediaID]; dup {
			continue
		}
		seen[it.MediaID] = struct{}{}
		ids = append(ids, it.MediaID)
	}

	if len(ids) == 0 {
		return map[string]Vector{}, nil
	}
	return e.deps.Catalog.GetCatalogVectors(ctx, ids)
}

// computeFromHistory aggregates the merged history into a single vector.
// Interactions are processed most recent first so that the saturation
// window dampens repetition relative to what the user just consumed.
func (e *Engine) computeFromHistory(history []Interaction, vectors map[string]Vector, now time.Time) Vector {
	sorted := make([]Interaction, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.After(sorted[j].OccurredAt)
	})

	// Seed the running sums with the neutral regularizer so sparse
	// histories shrink toward the default vector.
	baseline := e.baselineWeight(len(sorted))
	var sums [NumDimensions]float64
	for i := range sums {
		sums[i] = DimensionNeutral * baseline
	}
	totalWeight := baseline

	window := make([][NumDimensions]float64, 0, e.cfg.SaturationWindowSize)

	for _, it := range sorted {
		if it.Rating == nil || isNoiseRating(*it.Rating) {
			continue
		}
		catalog, ok := vectors[it.MediaID]
		if !ok {
			// No precomputed vector: excluded from aggregation, never an error.
			continue
		}

		influence := (float64(*it.Rating) - ratingMidpoint) / ratingHalfRange

		days := now.Sub(it.OccurredAt).Hours() / 24
		decay := e.decayFor(days)
		if decay < e.cfg.DecayOverallFloor {
			decay = e.cfg.DecayOverallFloor
		}

		catalogF := catalog.floats()
		saturation := e.saturationFor(window, catalogF)
		window = append(window, catalogF)
		if len(window) > e.cfg.SaturationWindowSize {
			window = window[1:]
		}

		weight := math.Abs(influence) * decay * saturation
		if weight == 0 {
			continue
		}

		contribution := catalogF
		if influence < 0 {
			contribution = catalog.Anti().floats()
		}
		for d := 0; d < NumDimensions; d++ {
			sums[d] += contribution[d] * weight
		}
		totalWeight += weight
	}

	var values [NumDimensions]int
	for d := range values {
		values[d] = clampDimension(sums[d] / totalWeight)
	}
	return ContrastStretch(FromValues(values), e.cfg.ContrastFactor)
}

// baselineWeight returns the neutral regularizer weight for a history of
// n interactions. It fades as history grows but never below the floor.
func (e *Engine) baselineWeight(n int) float64 {
	return math.Max(e.cfg.BaselineFloor,
		e.cfg.BaselineScale/math.Sqrt(float64(n)/e.cfg.BaselineShrink+1))
}

// decayFor maps an interaction age in days to its time-decay factor:
// 1.0 inside the recent window, linear down to the floor at the horizon,
// flat beyond it.
func (e *Engine) decayFor(days float64) float64 {
	switch {
	case days <= e.cfg.RecentWindowDays:
		return 1.0
	case days <= e.cfg.DecayHorizonDays:
		span := e.cfg.DecayHorizonDays - e.cfg.RecentWindowDays
		return 1.0 - (1.0-e.cfg.DecayFloor)*(days-e.cfg.RecentWindowDays)/span
	default:
		return e.cfg.DecayFloor
	}
}

// saturationFor computes the fatigue damping for the current item given
// the window of recently processed catalog vectors.
func (e *Engine) saturationFor(window [][NumDimensions]float64, current [NumDimensions]float64) float64 {
	if len(window) < e.cfg.SaturationMinSamples {
		return 1.0
	}

	var total float64
	for _, prev := range window {
		total += cosineFloats(prev, current)
	}
	mean := total / float64(len(window))

	if mean <= e.cfg.SaturationThreshold {
		return 1.0
	}
	return math.Max(e.cfg.SaturationFloor, 1.0-(mean-e.cfg.SaturationThreshold))
}

// isNoiseRating reports whether a rating falls in the no-signal band.
func isNoiseRating(rating int) bool {
	return rating == noiseRatingLow || rating == noiseRatingHigh
}

// moodDay formats an instant as the service-local calendar day.
func moodDay(t time.Time) string {
	return t.In(moodDayLocation).Format("2006-01-02")
}

// sameMoodDay reports whether two instants fall on the same service-local
// calendar day.
func sameMoodDay(a, b time.Time) bool {
	return moodDay(a) == moodDay(b)
}
