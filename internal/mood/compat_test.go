// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package mood

import (
	"context"
	"testing"
	"time"
)

func TestCompareIdenticalVectors(t *testing.T) {
	v := uniform(70)
	result := Compare(v, v)

	if result.Similarity != 100 {
		t.Errorf("identical vectors should score 100, got %d", result.Similarity)
	}
	for dim, diff := range result.Differences {
		if diff != 0 {
			t.Errorf("dimension %s should have zero difference, got %d", dim, diff)
		}
	}
	if len(result.SharedStrengths) != NumDimensions {
		t.Errorf("every dimension at 70 is a shared strength, got %v", result.SharedStrengths)
	}
	if len(result.UniqueStrengthsA) != 0 || len(result.UniqueStrengthsB) != 0 {
		t.Error("identical vectors have no unique strengths")
	}
}

func TestCompareStrengthClassification(t *testing.T) {
	a := Neutral()
	a.Adrenaline = 80 // unique to A
	a.Joy = 70        // shared

	b := Neutral()
	b.Joy = 90      // shared
	b.Darkness = 65 // unique to B, at the threshold

	result := Compare(a, b)

	if len(result.SharedStrengths) != 1 || result.SharedStrengths[0] != "joy" {
		t.Errorf("shared = %v, want [joy]", result.SharedStrengths)
	}
	if len(result.UniqueStrengthsA) != 1 || result.UniqueStrengthsA[0] != "adrenaline" {
		t.Errorf("uniqueA = %v, want [adrenaline]", result.UniqueStrengthsA)
	}
	if len(result.UniqueStrengthsB) != 1 || result.UniqueStrengthsB[0] != "darkness" {
		t.Errorf("uniqueB = %v, want [darkness]", result.UniqueStrengthsB)
	}
	if result.Differences["adrenaline"] != 30 || result.Differences["joy"] != 20 {
		t.Errorf("unexpected differences: %v", result.Differences)
	}
}

func TestCompareSymmetric(t *testing.T) {
	a := Vector{Adrenaline: 90, Joy: 20, Darkness: 70, Wonder: 66}
	b := Vector{Adrenaline: 10, Joy: 80, Romance: 75, Wonder: 66}

	ab := Compare(a, b)
	ba := Compare(b, a)

	if ab.Similarity != ba.Similarity {
		t.Error("similarity must be symmetric")
	}
	for dim := range ab.Differences {
		if ab.Differences[dim] != ba.Differences[dim] {
			t.Errorf("difference for %s not symmetric", dim)
		}
	}
	if len(ab.UniqueStrengthsA) != len(ba.UniqueStrengthsB) ||
		len(ab.UniqueStrengthsB) != len(ba.UniqueStrengthsA) {
		t.Error("unique strengths must swap sides when inputs swap")
	}
}

func TestCompareEmptySlicesNotNil(t *testing.T) {
	result := Compare(Neutral(), Neutral())
	if result.SharedStrengths == nil || result.UniqueStrengthsA == nil || result.UniqueStrengthsB == nil {
		t.Error("strength slices must be initialized for JSON encoding")
	}
}

func TestGetCompatibilityUsesStoredStates(t *testing.T) {
	data := newMockData()
	data.states["alice"] = &UserMoodState{
		UserID:      "alice",
		CurrentMood: uniform(70),
		LastUpdated: testNow.Add(-time.Hour),
	}
	data.states["bob"] = &UserMoodState{
		UserID:      "bob",
		CurrentMood: uniform(70),
		LastUpdated: testNow.Add(-time.Hour),
	}
	engine := newTestEngine(t, data)

	result, err := engine.GetCompatibility(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("GetCompatibility: %v", err)
	}
	if result.Similarity != 100 {
		t.Errorf("expected 100, got %d", result.Similarity)
	}
	if data.interactionCalls != 0 {
		t.Error("compatibility must never trigger a recomputation")
	}
}

func TestGetCompatibilityMissingUserComparesAsNeutral(t *testing.T) {
	data := newMockData()
	data.states["alice"] = &UserMoodState{
		UserID:      "alice",
		CurrentMood: Neutral(),
		LastUpdated: testNow.Add(-time.Hour),
	}
	engine := newTestEngine(t, data)

	result, err := engine.GetCompatibility(context.Background(), "alice", "nobody")
	if err != nil {
		t.Fatalf("GetCompatibility: %v", err)
	}
	if result.Similarity != 100 {
		t.Errorf("absent user compares as neutral, expected 100, got %d", result.Similarity)
	}
}
