// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package mood

import (
	"context"
	"testing"
)

func rangeAtLeast(min int) DimensionRange { return DimensionRange{Min: &min} }
func rangeAtMost(max int) DimensionRange  { return DimensionRange{Max: &max} }

func TestShiftRuleMatches(t *testing.T) {
	rule := ShiftRule{
		Name: "gloomy",
		Conditions: map[string]DimensionRange{
			"melancholy": rangeAtLeast(70),
			"joy":        rangeAtMost(30),
		},
	}

	gloomy := Vector{Melancholy: 85, Joy: 20}
	if !rule.Matches(gloomy) {
		t.Error("both conditions hold, rule should match")
	}

	// One condition failing fails the rule (AND semantics).
	cheerful := Vector{Melancholy: 85, Joy: 60}
	if rule.Matches(cheerful) {
		t.Error("joy above max, rule must not match")
	}

	// Inclusive bounds.
	boundary := Vector{Melancholy: 70, Joy: 30}
	if !rule.Matches(boundary) {
		t.Error("bounds are inclusive")
	}
}

func TestShiftRuleUnknownDimensionNeverMatches(t *testing.T) {
	rule := ShiftRule{
		Name:       "typo",
		Conditions: map[string]DimensionRange{"serenity": rangeAtLeast(10)},
	}
	if rule.Matches(Neutral()) {
		t.Error("unknown dimension condition can never pass")
	}
}

func TestShiftRuleEmptyConditionsMatchEverything(t *testing.T) {
	rule := ShiftRule{Name: "catchall"}
	if !rule.Matches(Neutral()) || !rule.Matches(Vector{Adrenaline: 100}) {
		t.Error("a rule with no conditions matches any vector")
	}
}

func TestApplyTargetEffects(t *testing.T) {
	rule := ShiftRule{
		Name: "lift",
		TargetEffects: map[string]int{
			"joy":        85,
			"melancholy": 15,
			"darkness":   -20, // out of range, must clamp
		},
	}

	target := rule.ApplyTargetEffects()
	if target.Joy != 85 || target.Melancholy != 15 {
		t.Errorf("named dimensions must take target values: %+v", target)
	}
	if target.Darkness != 0 {
		t.Errorf("out-of-range target must clamp, got %d", target.Darkness)
	}
	if target.Adrenaline != DimensionNeutral || target.Romance != DimensionNeutral {
		t.Error("unnamed dimensions stay at the midpoint")
	}
}

func TestSortShiftRules(t *testing.T) {
	rules := []ShiftRule{
		{Name: "c", Priority: 5, Sequence: 3},
		{Name: "a", Priority: 10, Sequence: 2},
		{Name: "b", Priority: 10, Sequence: 1},
		{Name: "d", Priority: 1, Sequence: 4},
	}
	SortShiftRules(rules)

	got := []string{rules[0].Name, rules[1].Name, rules[2].Name, rules[3].Name}
	want := []string{"b", "a", "c", "d"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestResolveShiftTargetHighestPriorityWins(t *testing.T) {
	data := newMockData()
	// Inserted low priority first; evaluation order must not depend on it.
	data.rules = []ShiftRule{
		{
			Name:          "mild",
			Priority:      1,
			Sequence:      1,
			Conditions:    map[string]DimensionRange{"melancholy": rangeAtLeast(50)},
			TargetEffects: map[string]int{"joy": 60},
			IsActive:      true,
		},
		{
			Name:          "deep_gloom",
			Priority:      9,
			Sequence:      2,
			Conditions:    map[string]DimensionRange{"melancholy": rangeAtLeast(70)},
			TargetEffects: map[string]int{"joy": 85, "inspiration": 80},
			IsActive:      true,
		},
	}
	engine := newTestEngine(t, data)

	target, rule, err := engine.ResolveShiftTarget(context.Background(), Vector{Melancholy: 90})
	if err != nil {
		t.Fatalf("ResolveShiftTarget: %v", err)
	}
	if rule == nil || rule.Name != "deep_gloom" {
		t.Fatalf("expected deep_gloom to win, got %+v", rule)
	}
	if target.Joy != 85 || target.Inspiration != 80 {
		t.Errorf("target must reflect the winning rule: %+v", target)
	}
}

func TestResolveShiftTargetTieBreaksOnSequence(t *testing.T) {
	data := newMockData()
	data.rules = []ShiftRule{
		{Name: "later", Priority: 5, Sequence: 20, TargetEffects: map[string]int{"joy": 10}, IsActive: true},
		{Name: "earlier", Priority: 5, Sequence: 7, TargetEffects: map[string]int{"joy": 90}, IsActive: true},
	}
	engine := newTestEngine(t, data)

	_, rule, err := engine.ResolveShiftTarget(context.Background(), Neutral())
	if err != nil {
		t.Fatalf("ResolveShiftTarget: %v", err)
	}
	if rule == nil || rule.Name != "earlier" {
		t.Errorf("equal priority must fall back to creation order, got %+v", rule)
	}
}

func TestResolveShiftTargetSkipsInactive(t *testing.T) {
	data := newMockData()
	data.rules = []ShiftRule{
		{Name: "disabled", Priority: 9, Sequence: 1, TargetEffects: map[string]int{"joy": 5}, IsActive: false},
		{Name: "enabled", Priority: 1, Sequence: 2, TargetEffects: map[string]int{"joy": 95}, IsActive: true},
	}
	engine := newTestEngine(t, data)

	_, rule, err := engine.ResolveShiftTarget(context.Background(), Neutral())
	if err != nil {
		t.Fatalf("ResolveShiftTarget: %v", err)
	}
	if rule == nil || rule.Name != "enabled" {
		t.Errorf("inactive rules must be skipped, got %+v", rule)
	}
}

func TestResolveShiftTargetNoMatchReturnsNeutral(t *testing.T) {
	data := newMockData()
	data.rules = []ShiftRule{
		{
			Name:       "narrow",
			Priority:   5,
			Sequence:   1,
			Conditions: map[string]DimensionRange{"darkness": rangeAtLeast(95)},
			IsActive:   true,
		},
	}
	engine := newTestEngine(t, data)

	target, rule, err := engine.ResolveShiftTarget(context.Background(), Neutral())
	if err != nil {
		t.Fatalf("ResolveShiftTarget: %v", err)
	}
	if rule != nil {
		t.Errorf("no rule should match, got %+v", rule)
	}
	if target != Neutral() {
		t.Errorf("unmatched mood must steer to neutral, got %+v", target)
	}
}
