// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

// Package recommend ranks catalog items against a target mood vector by
// cosine similarity and caches the ranked lists per user and mode.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/YldzBerkay/film-track-be-sub001/internal/cache"
	"github.com/YldzBerkay/film-track-be-sub001/internal/metrics"
	"github.com/YldzBerkay/film-track-be-sub001/internal/mood"
)

// DataProvider supplies rankable catalog candidates for a user. Items the
// user has blacklisted are never returned; already-watched items are
// excluded unless includeWatched is set.
type DataProvider interface {
	GetCandidates(ctx context.Context, userID string, includeWatched bool, limit int) ([]Candidate, error)
}

// MoodSource supplies the target vectors the engine ranks against.
type MoodSource interface {
	EffectiveMood(ctx context.Context, userID string, force bool) (mood.Vector, error)
	ResolveShiftTarget(ctx context.Context, current mood.Vector) (mood.Vector, *mood.ShiftRule, error)
}

// Engine produces ranked recommendation lists. Ranked lists are cached per
// (user, mode, include-watched) and replaced wholesale; a vibe change
// inside the TTL window is only picked up on force refresh or expiry.
type Engine struct {
	cfg    *Config
	data   DataProvider
	moods  MoodSource
	cache  *cache.Cache
	logger zerolog.Logger

	// now is replaceable for tests.
	now func() time.Time
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, data DataProvider, moods MoodSource, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if data == nil || moods == nil {
		return nil, fmt.Errorf("data provider and mood source must be set")
	}

	return &Engine{
		cfg:    cfg,
		data:   data,
		moods:  moods,
		cache:  cache.New(cfg.CacheTTL),
		logger: logger.With().Str("component", "recommend").Logger(),
		now:    time.Now,
	}, nil
}

// Close releases the engine's cache resources.
func (e *Engine) Close() {
	e.cache.Close()
}

// CacheStats exposes the underlying cache counters.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.GetStats()
}

// Recommend returns the ranked list for the request. Cached lists are
// served until they expire; ForceRefresh skips the cache read but the
// fresh list is still stored.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	limit := e.clampLimit(req.Limit)
	metrics.RecommendationRequestsTotal.WithLabelValues(string(req.Mode)).Inc()

	key := e.cacheKey(req.UserID, req.Mode, req.IncludeWatched)
	if !req.ForceRefresh {
		if cached, ok := e.cache.Get(key); ok {
			if resp, ok := cached.(*Response); ok {
				metrics.RecommendationCacheHits.Inc()
				return e.slice(resp, limit, true), nil
			}
		}
	}
	metrics.RecommendationCacheMisses.Inc()

	resp, err := e.build(ctx, req)
	if err != nil {
		return nil, err
	}

	e.cache.Set(key, resp)
	return e.slice(resp, limit, false), nil
}

// InvalidateUser drops every cached list for the user. Called when a new
// rating lands so the next request reflects it immediately.
func (e *Engine) InvalidateUser(userID string) {
	for _, mode := range []Mode{ModeMatch, ModeShift} {
		for _, includeWatched := range []bool{false, true} {
			e.cache.Delete(e.cacheKey(userID, mode, includeWatched))
		}
	}
}

// build computes a full ranked list, up to MaxLimit items, for caching.
func (e *Engine) build(ctx context.Context, req Request) (*Response, error) {
	current, err := e.moods.EffectiveMood(ctx, req.UserID, false)
	if err != nil {
		return nil, fmt.Errorf("effective mood: %w", err)
	}

	target := current
	matchedRule := ""
	if req.Mode == ModeShift {
		shifted, rule, err := e.moods.ResolveShiftTarget(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("resolve shift target: %w", err)
		}
		target = shifted
		if rule != nil {
			matchedRule = rule.Name
		}
	}

	candidates, err := e.data.GetCandidates(ctx, req.UserID, req.IncludeWatched, e.cfg.MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("get candidates: %w", err)
	}

	items := rank(candidates, target)
	if len(items) > e.cfg.MaxLimit {
		items = items[:e.cfg.MaxLimit]
	}

	e.logger.Debug().
		Str("user_id", req.UserID).
		Str("mode", string(req.Mode)).
		Int("candidates", len(candidates)).
		Int("ranked", len(items)).
		Msg("recommendations built")

	return &Response{
		UserID:      req.UserID,
		Mode:        req.Mode,
		Target:      target,
		Items:       items,
		MatchedRule: matchedRule,
		GeneratedAt: e.now(),
	}, nil
}

// rank scores candidates against the target and orders them by similarity
// descending; media ID ascending makes equal scores deterministic.
func rank(candidates []Candidate, target mood.Vector) []ScoredItem {
	items := make([]ScoredItem, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, ScoredItem{
			MediaID:    c.MediaID,
			MediaKind:  c.MediaKind,
			Title:      c.Title,
			Mood:       c.Mood,
			Similarity: mood.CosineSimilarity(c.Mood, target),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Similarity != items[j].Similarity {
			return items[i].Similarity > items[j].Similarity
		}
		return items[i].MediaID < items[j].MediaID
	})

	return items
}

// slice returns a copy of the response trimmed to the requested limit.
// The cached response itself is never mutated.
func (e *Engine) slice(resp *Response, limit int, fromCache bool) *Response {
	out := *resp
	out.FromCache = fromCache
	if len(out.Items) > limit {
		out.Items = out.Items[:limit]
	}
	return &out
}

// clampLimit applies the default and maximum limits.
func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		return e.cfg.DefaultLimit
	}
	if limit > e.cfg.MaxLimit {
		return e.cfg.MaxLimit
	}
	return limit
}

// cacheKey builds the cache key for one user's ranked list.
func (e *Engine) cacheKey(userID string, mode Mode, includeWatched bool) string {
	return cache.GenerateKey("recommend", userID, string(mode), includeWatched)
}
