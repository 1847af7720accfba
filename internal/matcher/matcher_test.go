package matcher

import (
	"log/slog"
	"os"
	"testing"

	"github.com/pricestalk/pricestalk/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// stubScorer returns fixed scores keyed by candidate name.
type stubScorer struct {
	scores map[string]int
}

func (s stubScorer) Score(query, candidate string) int {
	return s.scores[candidate]
}

type panicScorer struct{}

func (panicScorer) Score(query, candidate string) int {
	panic("scorer blew up")
}

func TestSelectBestEmptyCandidates(t *testing.T) {
	m := New(WRatioScorer{}, 70, testLogger)

	if got := m.SelectBest("anything", nil); got != nil {
		t.Errorf("expected nil for empty candidate list, got %+v", got)
	}
	if got := m.SelectBest("anything", []types.Candidate{}); got != nil {
		t.Errorf("expected nil for empty candidate slice, got %+v", got)
	}
}

func TestSelectBestExactMatchAtAnyThreshold(t *testing.T) {
	candidates := []types.Candidate{
		{Name: "Whiskas Jellymeat 400g", Price: "$2.80", URL: "https://example.com/a"},
		{Name: "Palmolive Naturals Shampoo 350ml", Price: "$4.00", URL: "https://example.com/b"},
		{Name: "Quilton Aloe Vera Tissue", Price: "$3.00", URL: "https://example.com/c"},
	}

	for _, threshold := range []int{0, 50, 70, 100} {
		m := New(WRatioScorer{}, threshold, testLogger)
		got := m.SelectBest("Palmolive Naturals Shampoo 350ml", candidates)
		if got == nil {
			t.Fatalf("threshold %d: expected exact match, got nil", threshold)
		}
		if got.Name != "Palmolive Naturals Shampoo 350ml" {
			t.Errorf("threshold %d: selected %q", threshold, got.Name)
		}
	}
}

func TestSelectBestNearMatch(t *testing.T) {
	m := New(WRatioScorer{}, 70, testLogger)
	candidates := []types.Candidate{
		{Name: "Dog Food Chunky Beef 1.2kg", Price: "$9.00"},
		{Name: "Palmolive Naturals Shampoo 350mL", Price: "$4.00"},
	}

	got := m.SelectBest("Palmolive Naturals Shampoo 350ml", candidates)
	if got == nil {
		t.Fatal("expected near match to clear threshold 70")
	}
	if got.Price != "$4.00" {
		t.Errorf("selected wrong candidate: %+v", got)
	}
}

func TestSelectBestBelowThreshold(t *testing.T) {
	m := New(stubScorer{scores: map[string]int{"a": 40, "b": 69}}, 70, testLogger)
	candidates := []types.Candidate{{Name: "a"}, {Name: "b"}}

	if got := m.SelectBest("query", candidates); got != nil {
		t.Errorf("expected nil below threshold, got %+v", got)
	}
}

func TestSelectBestScoreEqualToThresholdAccepted(t *testing.T) {
	m := New(stubScorer{scores: map[string]int{"a": 70}}, 70, testLogger)

	got := m.SelectBest("query", []types.Candidate{{Name: "a"}})
	if got == nil {
		t.Fatal("score equal to threshold should be accepted")
	}
}

func TestSelectBestTieKeepsFirstSeen(t *testing.T) {
	m := New(stubScorer{scores: map[string]int{"first": 90, "second": 90}}, 70, testLogger)
	candidates := []types.Candidate{
		{Name: "first", Price: "$1.00"},
		{Name: "second", Price: "$2.00"},
	}

	got := m.SelectBest("query", candidates)
	if got == nil || got.Name != "first" {
		t.Errorf("tie should keep first-seen candidate, got %+v", got)
	}
}

func TestSelectBestRecoversFromScorerPanic(t *testing.T) {
	m := New(panicScorer{}, 70, testLogger)

	got := m.SelectBest("query", []types.Candidate{{Name: "a"}})
	if got != nil {
		t.Errorf("expected nil after scorer panic, got %+v", got)
	}
}

func TestWRatioScorerBounds(t *testing.T) {
	s := WRatioScorer{}

	tests := []struct {
		a, b string
	}{
		{"Palmolive Naturals Shampoo 350ml", "Palmolive Naturals Shampoo 350mL"},
		{"Twisties Party Bag Cheese 270g", "completely different product"},
		{"", "something"},
		{"same", "same"},
	}

	for _, tt := range tests {
		score := s.Score(tt.a, tt.b)
		if score < 0 || score > 100 {
			t.Errorf("Score(%q, %q) = %d, out of [0, 100]", tt.a, tt.b, score)
		}
	}

	if got := s.Score("identical string", "identical string"); got != 100 {
		t.Errorf("identical strings scored %d, want 100", got)
	}
}
