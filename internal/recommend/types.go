// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package recommend

import (
	"fmt"
	"time"

	"github.com/YldzBerkay/film-track-be-sub001/internal/mood"
)

// Mode selects the ranking target for a recommendation request.
type Mode string

const (
	// ModeMatch ranks the catalog against the user's effective mood.
	ModeMatch Mode = "match"

	// ModeShift ranks against a shift-rule target vector instead, steering
	// the user out of their current region of mood space.
	ModeShift Mode = "shift"
)

// ParseMode validates a mode string. The empty string defaults to match.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", string(ModeMatch):
		return ModeMatch, nil
	case string(ModeShift):
		return ModeShift, nil
	default:
		return "", fmt.Errorf("unknown recommendation mode %q", s)
	}
}

// Request describes one recommendation query.
type Request struct {
	UserID string
	Mode   Mode

	// Limit caps the result list. Zero falls back to the configured default.
	Limit int

	// IncludeWatched keeps already-watched items in the candidate pool.
	IncludeWatched bool

	// ForceRefresh bypasses the cache read (the fresh result is still cached).
	ForceRefresh bool
}

// Candidate is a rankable catalog item supplied by the data layer.
type Candidate struct {
	MediaID   string      `json:"media_id"`
	MediaKind string      `json:"media_kind"`
	Title     string      `json:"title"`
	Mood      mood.Vector `json:"mood"`
}

// ScoredItem is one ranked recommendation.
type ScoredItem struct {
	MediaID   string      `json:"media_id"`
	MediaKind string      `json:"media_kind"`
	Title     string      `json:"title"`
	Mood      mood.Vector `json:"mood"`

	// Similarity is the cosine similarity against the target vector.
	Similarity float64 `json:"similarity"`
}

// Response is a ranked recommendation list plus how it was produced.
type Response struct {
	UserID      string       `json:"user_id"`
	Mode        Mode         `json:"mode"`
	Target      mood.Vector  `json:"target"`
	Items       []ScoredItem `json:"items"`
	MatchedRule string       `json:"matched_rule,omitempty"`
	FromCache   bool         `json:"from_cache"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// Config holds the recommendation engine tuning parameters.
type Config struct {
	// CacheTTL is how long a ranked list stays valid.
	CacheTTL time.Duration

	// DefaultLimit applies when a request carries no limit.
	DefaultLimit int

	// MaxLimit caps any requested limit.
	MaxLimit int

	// MaxCandidates bounds how many catalog rows are pulled for ranking.
	MaxCandidates int
}

// DefaultConfig returns the production recommendation parameters.
func DefaultConfig() *Config {
	return &Config{
		CacheTTL:      30 * time.Minute,
		DefaultLimit:  20,
		MaxLimit:      100,
		MaxCandidates: 2000,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got %v", c.CacheTTL)
	}
	if c.DefaultLimit <= 0 || c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("limits misconfigured: default %d, max %d", c.DefaultLimit, c.MaxLimit)
	}
	if c.MaxCandidates <= 0 {
		return fmt.Errorf("max candidates must be positive, got %d", c.MaxCandidates)
	}
	return nil
}
