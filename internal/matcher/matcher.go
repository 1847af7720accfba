// Package matcher selects the best search-result candidate for a product
// name using approximate string similarity. Candidate names on the target
// site rarely match the source site character for character ("350ml" vs
// "350mL", word order shuffles, extra descriptors), so a composite score
// that tolerates token order and partial overlap is required.
package matcher

import (
	"log/slog"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/pricestalk/pricestalk/internal/types"
)

// Scorer computes a similarity score in [0, 100] between a query and a
// candidate name. Implementations must score identical strings as 100.
type Scorer interface {
	Score(query, candidate string) int
}

// WRatioScorer is a composite scorer combining whole-string, partial, and
// token-based (order-insensitive) ratios, weighted the way fuzzywuzzy's
// WRatio weights them.
type WRatioScorer struct{}

// Score implements Scorer.
func (WRatioScorer) Score(query, candidate string) int {
	best := fuzzy.Ratio(query, candidate)
	if v := scale(fuzzy.PartialRatio(query, candidate), 0.90); v > best {
		best = v
	}
	if v := scale(fuzzy.TokenSortRatio(query, candidate), 0.95); v > best {
		best = v
	}
	if v := scale(fuzzy.TokenSetRatio(query, candidate), 0.95); v > best {
		best = v
	}
	if best > 100 {
		best = 100
	}
	if best < 0 {
		best = 0
	}
	return best
}

func scale(score int, factor float64) int {
	return int(float64(score) * factor)
}

// Matcher ranks candidates against a query name and accepts the best one
// only when it clears the configured threshold.
type Matcher struct {
	scorer    Scorer
	threshold int
	logger    *slog.Logger
}

// New creates a matcher. Threshold is the minimum acceptable score; a
// maximum-scoring candidate below it is reported as no match rather than
// a weak guess.
func New(scorer Scorer, threshold int, logger *slog.Logger) *Matcher {
	return &Matcher{
		scorer:    scorer,
		threshold: threshold,
		logger:    logger.With("component", "matcher"),
	}
}

// SelectBest returns the highest-scoring candidate at or above the
// threshold, or nil when the list is empty or nothing clears it. Ties
// keep the first-seen candidate. A panic inside the scorer is recovered
// and reported as no match; matching must never take down the batch.
func (m *Matcher) SelectBest(query string, candidates []types.Candidate) (best *types.Candidate) {
	if len(candidates) == 0 {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("similarity scoring failed", "query", query, "cause", r)
			best = nil
		}
	}()

	bestScore := -1
	bestIdx := -1
	for i := range candidates {
		score := m.scorer.Score(query, candidates[i].Name)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestScore < m.threshold {
		m.logger.Warn("no candidate cleared the similarity threshold",
			"query", query,
			"best_score", bestScore,
			"threshold", m.threshold,
			"candidates", len(candidates),
		)
		return nil
	}

	m.logger.Info("best match selected",
		"query", query,
		"match", candidates[bestIdx].Name,
		"score", bestScore,
	)
	return &candidates[bestIdx]
}
