package scene

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mlanghor/stacmap/internal/stac"
)

func candidate(id string, captured time.Time, cloudCover *float64) stac.Item {
	return stac.Item{
		ID: id,
		Properties: stac.ItemProperties{
			Datetime:   captured,
			CloudCover: cloudCover,
		},
	}
}

func pct(v float64) *float64 { return &v }

func TestSelectMostRecentWithinThreshold(t *testing.T) {
	s := Selector{MaxCloudCover: 20, Log: zerolog.Nop()}

	// Most-recent-first, as the catalog client requests them.
	candidates := []stac.Item{
		candidate("recent-cloudy", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), pct(80)),
		candidate("older-clear", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), pct(10)),
	}

	got, err := s.Select(candidates)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "older-clear" {
		t.Fatalf("expected older-clear, got %s", got.ID)
	}
}

func TestSelectFirstWhenItPasses(t *testing.T) {
	s := Selector{MaxCloudCover: 20, Log: zerolog.Nop()}

	candidates := []stac.Item{
		candidate("b", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), pct(10)),
		candidate("a", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), pct(80)),
	}

	got, err := s.Select(candidates)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "b" {
		t.Fatalf("expected b, got %s", got.ID)
	}
}

func TestSelectAbsentCloudCoverPasses(t *testing.T) {
	s := Selector{MaxCloudCover: 20, Log: zerolog.Nop()}

	candidates := []stac.Item{
		candidate("no-cover", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), nil),
		candidate("clear", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), pct(1)),
	}

	got, err := s.Select(candidates)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "no-cover" {
		t.Fatalf("expected no-cover, got %s", got.ID)
	}
}

// All candidates exceeding the threshold must not fail the request: the
// selector relaxes the constraint and returns the most recent overall.
func TestSelectFallsBackWhenAllExceedThreshold(t *testing.T) {
	s := Selector{MaxCloudCover: 20, Log: zerolog.Nop()}

	candidates := []stac.Item{
		candidate("b", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), pct(90)),
		candidate("a", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), pct(80)),
	}

	got, err := s.Select(candidates)
	if err != nil {
		t.Fatalf("fallback must not fail, got %v", err)
	}
	if got.ID != "b" {
		t.Fatalf("expected most recent b, got %s", got.ID)
	}
}

func TestSelectStableTieBreak(t *testing.T) {
	s := Selector{MaxCloudCover: 20, Log: zerolog.Nop()}

	captured := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	candidates := []stac.Item{
		candidate("first", captured, pct(5)),
		candidate("second", captured, pct(5)),
	}

	got, err := s.Select(candidates)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "first" {
		t.Fatalf("tie must keep received order, got %s", got.ID)
	}
}

func TestSelectEmpty(t *testing.T) {
	s := Selector{MaxCloudCover: 20, Log: zerolog.Nop()}

	_, err := s.Select(nil)
	if !errors.Is(err, ErrNoScenesFound) {
		t.Fatalf("expected ErrNoScenesFound, got %v", err)
	}
	_, err = s.Select([]stac.Item{})
	if !errors.Is(err, ErrNoScenesFound) {
		t.Fatalf("expected ErrNoScenesFound, got %v", err)
	}
}
