// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/YldzBerkay/film-track-be-sub001/internal/mood"
)

type mockProvider struct {
	mu         sync.Mutex
	candidates []Candidate
	err        error
	calls      int

	lastIncludeWatched bool
	lastLimit          int
}

func (m *mockProvider) GetCandidates(_ context.Context, _ string, includeWatched bool, limit int) ([]Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastIncludeWatched = includeWatched
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

type mockMoods struct {
	effective   mood.Vector
	shiftTarget mood.Vector
	shiftRule   *mood.ShiftRule
	err         error
}

func (m *mockMoods) EffectiveMood(context.Context, string, bool) (mood.Vector, error) {
	if m.err != nil {
		return mood.Neutral(), m.err
	}
	return m.effective, nil
}

func (m *mockMoods) ResolveShiftTarget(context.Context, mood.Vector) (mood.Vector, *mood.ShiftRule, error) {
	if m.err != nil {
		return mood.Neutral(), nil, m.err
	}
	return m.shiftTarget, m.shiftRule, nil
}

func uniformVector(value int) mood.Vector {
	var values [mood.NumDimensions]int
	for i := range values {
		values[i] = value
	}
	return mood.FromValues(values)
}

func newTestRecommender(t *testing.T, provider *mockProvider, moods *mockMoods) *Engine {
	t.Helper()
	engine, err := NewEngine(nil, provider, moods, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(""); err != nil || m != ModeMatch {
		t.Errorf("empty mode should default to match, got (%v, %v)", m, err)
	}
	if m, err := ParseMode("shift"); err != nil || m != ModeShift {
		t.Errorf("ParseMode(shift) = (%v, %v)", m, err)
	}
	if _, err := ParseMode("surprise"); err == nil {
		t.Error("unknown mode must fail")
	}
}

func TestRecommendRanksBySimilarity(t *testing.T) {
	provider := &mockProvider{candidates: []Candidate{
		{MediaID: "far", Mood: mood.Vector{Melancholy: 100}},
		{MediaID: "close", Mood: mood.Vector{Adrenaline: 90, Tension: 40}},
		{MediaID: "exact", Mood: mood.Vector{Adrenaline: 80, Tension: 60}},
	}}
	moods := &mockMoods{effective: mood.Vector{Adrenaline: 80, Tension: 60}}
	engine := newTestRecommender(t, provider, moods)

	resp, err := engine.Recommend(context.Background(), Request{UserID: "u1", Mode: ModeMatch})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(resp.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(resp.Items))
	}
	if resp.Items[0].MediaID != "exact" {
		t.Errorf("best match first, got %s", resp.Items[0].MediaID)
	}
	if resp.Items[2].MediaID != "far" {
		t.Errorf("worst match last, got %s", resp.Items[2].MediaID)
	}
	if resp.Items[0].Similarity < resp.Items[1].Similarity {
		t.Error("similarities must be non-increasing")
	}
	if resp.FromCache {
		t.Error("first request must not come from cache")
	}
}

func TestRecommendTieBreaksOnMediaID(t *testing.T) {
	same := uniformVector(70)
	provider := &mockProvider{candidates: []Candidate{
		{MediaID: "zzz", Mood: same},
		{MediaID: "aaa", Mood: same},
		{MediaID: "mmm", Mood: same},
	}}
	engine := newTestRecommender(t, provider, &mockMoods{effective: same})

	resp, err := engine.Recommend(context.Background(), Request{UserID: "u1", Mode: ModeMatch})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	got := []string{resp.Items[0].MediaID, resp.Items[1].MediaID, resp.Items[2].MediaID}
	want := []string{"aaa", "mmm", "zzz"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRecommendCachesPerUserAndMode(t *testing.T) {
	provider := &mockProvider{candidates: []Candidate{
		{MediaID: "m1", Mood: uniformVector(60)},
	}}
	engine := newTestRecommender(t, provider, &mockMoods{effective: uniformVector(60)})

	first, err := engine.Recommend(context.Background(), Request{UserID: "u1", Mode: ModeMatch})
	if err != nil {
		t.Fatalf("first Recommend: %v", err)
	}
	second, err := engine.Recommend(context.Background(), Request{UserID: "u1", Mode: ModeMatch})
	if err != nil {
		t.Fatalf("second Recommend: %v", err)
	}

	if provider.calls != 1 {
		t.Errorf("second identical request must hit the cache, got %d provider calls", provider.calls)
	}
	if !second.FromCache || first.FromCache {
		t.Error("FromCache must reflect the serving path")
	}
	if len(first.Items) != len(second.Items) || first.Items[0].MediaID != second.Items[0].MediaID {
		t.Error("cached list must match the original")
	}

	// A different mode is a different cache entry.
	if _, err := engine.Recommend(context.Background(), Request{UserID: "u1", Mode: ModeShift}); err != nil {
		t.Fatalf("shift Recommend: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("shift mode must build its own list, got %d provider calls", provider.calls)
	}
}

func TestRecommendForceRefreshBypassesRead(t *testing.T) {
	provider := &mockProvider{candidates: []Candidate{
		{MediaID: "m1", Mood: uniformVector(60)},
	}}
	engine := newTestRecommender(t, provider, &mockMoods{effective: uniformVector(60)})

	ctx := context.Background()
	if _, err := engine.Recommend(ctx, Request{UserID: "u1", Mode: ModeMatch}); err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	refreshed, err := engine.Recommend(ctx, Request{UserID: "u1", Mode: ModeMatch, ForceRefresh: true})
	if err != nil {
		t.Fatalf("forced Recommend: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("force refresh must rebuild, got %d provider calls", provider.calls)
	}
	if refreshed.FromCache {
		t.Error("forced response is freshly built")
	}

	// The rebuilt list replaces the cached one.
	if _, err := engine.Recommend(ctx, Request{UserID: "u1", Mode: ModeMatch}); err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if provider.calls != 2 {
		t.Error("the refreshed list must be served from cache afterwards")
	}
}

func TestRecommendShiftModeUsesRuleTarget(t *testing.T) {
	target := mood.Vector{Joy: 90, Inspiration: 85}
	provider := &mockProvider{candidates: []Candidate{
		{MediaID: "bright", Mood: mood.Vector{Joy: 95, Inspiration: 80}},
		{MediaID: "gloomy", Mood: mood.Vector{Melancholy: 95, Darkness: 80}},
	}}
	moods := &mockMoods{
		effective:   mood.Vector{Melancholy: 90},
		shiftTarget: target,
		shiftRule:   &mood.ShiftRule{Name: "cheer_up"},
	}
	engine := newTestRecommender(t, provider, moods)

	resp, err := engine.Recommend(context.Background(), Request{UserID: "u1", Mode: ModeShift})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if resp.Target != target {
		t.Errorf("shift mode must rank against the rule target, got %+v", resp.Target)
	}
	if resp.MatchedRule != "cheer_up" {
		t.Errorf("matched rule should surface, got %q", resp.MatchedRule)
	}
	if resp.Items[0].MediaID != "bright" {
		t.Errorf("ranking must follow the shift target, got %s first", resp.Items[0].MediaID)
	}
}

func TestRecommendLimitHandling(t *testing.T) {
	candidates := make([]Candidate, 0, 30)
	for i := 0; i < 30; i++ {
		candidates = append(candidates, Candidate{
			MediaID: string(rune('a'+i/10)) + string(rune('a'+i%10)),
			Mood:    uniformVector(40 + i),
		})
	}
	provider := &mockProvider{candidates: candidates}
	engine := newTestRecommender(t, provider, &mockMoods{effective: uniformVector(70)})

	ctx := context.Background()

	// Zero limit falls back to the default.
	resp, err := engine.Recommend(ctx, Request{UserID: "u1", Mode: ModeMatch})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(resp.Items) != engine.cfg.DefaultLimit {
		t.Errorf("expected default limit %d, got %d", engine.cfg.DefaultLimit, len(resp.Items))
	}

	// A smaller limit trims the cached list without rebuilding.
	resp, err = engine.Recommend(ctx, Request{UserID: "u1", Mode: ModeMatch, Limit: 5})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(resp.Items) != 5 {
		t.Errorf("expected 5 items, got %d", len(resp.Items))
	}
	if provider.calls != 1 {
		t.Errorf("limit changes must not rebuild, got %d provider calls", provider.calls)
	}

	// An oversized limit clamps to the maximum.
	resp, err = engine.Recommend(ctx, Request{UserID: "u1", Mode: ModeMatch, Limit: 100000})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(resp.Items) != 30 {
		t.Errorf("clamped limit still covers the full list, got %d", len(resp.Items))
	}
}

func TestRecommendIncludeWatchedIsSeparateEntry(t *testing.T) {
	provider := &mockProvider{candidates: []Candidate{{MediaID: "m1", Mood: uniformVector(60)}}}
	engine := newTestRecommender(t, provider, &mockMoods{effective: uniformVector(60)})

	ctx := context.Background()
	if _, err := engine.Recommend(ctx, Request{UserID: "u1", Mode: ModeMatch}); err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if provider.lastIncludeWatched {
		t.Error("default request must exclude watched items")
	}

	if _, err := engine.Recommend(ctx, Request{UserID: "u1", Mode: ModeMatch, IncludeWatched: true}); err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if provider.calls != 2 {
		t.Error("include-watched toggles a separate cache entry")
	}
	if !provider.lastIncludeWatched {
		t.Error("include-watched flag must reach the provider")
	}
}

func TestInvalidateUser(t *testing.T) {
	provider := &mockProvider{candidates: []Candidate{{MediaID: "m1", Mood: uniformVector(60)}}}
	engine := newTestRecommender(t, provider, &mockMoods{effective: uniformVector(60)})

	ctx := context.Background()
	if _, err := engine.Recommend(ctx, Request{UserID: "u1", Mode: ModeMatch}); err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	engine.InvalidateUser("u1")

	if _, err := engine.Recommend(ctx, Request{UserID: "u1", Mode: ModeMatch}); err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("invalidation must force a rebuild, got %d provider calls", provider.calls)
	}
}

func TestRecommendZeroVectorCandidateScoresZero(t *testing.T) {
	provider := &mockProvider{candidates: []Candidate{
		{MediaID: "blank", Mood: mood.Vector{}},
		{MediaID: "scored", Mood: uniformVector(70)},
	}}
	engine := newTestRecommender(t, provider, &mockMoods{effective: uniformVector(70)})

	resp, err := engine.Recommend(context.Background(), Request{UserID: "u1", Mode: ModeMatch})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if resp.Items[0].MediaID != "scored" {
		t.Error("zero-vector candidates must sink to the bottom")
	}
	if resp.Items[1].Similarity != 0 {
		t.Errorf("zero vector must score 0, got %v", resp.Items[1].Similarity)
	}
}

func TestRecommendProviderErrorPropagates(t *testing.T) {
	provider := &mockProvider{err: errors.New("db down")}
	engine := newTestRecommender(t, provider, &mockMoods{effective: uniformVector(60)})

	if _, err := engine.Recommend(context.Background(), Request{UserID: "u1", Mode: ModeMatch}); err == nil {
		t.Error("provider failure must surface")
	}
}

func TestRecommendEmptyCatalog(t *testing.T) {
	provider := &mockProvider{}
	engine := newTestRecommender(t, provider, &mockMoods{effective: uniformVector(60)})

	resp, err := engine.Recommend(context.Background(), Request{UserID: "u1", Mode: ModeMatch})
	if err != nil {
		t.Fatalf("empty catalog is not an error: %v", err)
	}
	if len(resp.Items) != 0 {
		t.Errorf("expected empty list, got %d items", len(resp.Items))
	}
	if resp.GeneratedAt.IsZero() {
		t.Error("generated-at must be stamped")
	}
}

func TestConfigValidate(t *testing.T) {
	bad := []*Config{
		{CacheTTL: 0, DefaultLimit: 20, MaxLimit: 100, MaxCandidates: 2000},
		{CacheTTL: time.Minute, DefaultLimit: 0, MaxLimit: 100, MaxCandidates: 2000},
		{CacheTTL: time.Minute, DefaultLimit: 20, MaxLimit: 10, MaxCandidates: 2000},
		{CacheTTL: time.Minute, DefaultLimit: 20, MaxLimit: 100, MaxCandidates: 0},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("config %d should fail validation", i)
		}
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}
