package pipeline

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/shoebox-labs/cardscout-cli/internal/model"
)

const (
	// minAcceptScore discards weak candidates before ranking.
	defaultMinAcceptScore = 0.3

	// defaultCandidateCap bounds the scoring cost per invocation. It is a
	// resource-protection measure, not a correctness requirement.
	defaultCandidateCap = 50

	maxAlternatives = 3
)

// CatalogQuerier is the catalog collaborator as seen by the matcher: a
// bounded candidate fetch keyed on an optional issue-year range.
// yearMin/yearMax of 0 means no year filter.
type CatalogQuerier interface {
	FindCandidates(ctx context.Context, yearMin, yearMax, limit int) ([]model.CandidateCard, error)
}

// MatcherOptions tune candidate acceptance and ranking.
type MatcherOptions struct {
	Weights      Weights
	MinScore     float64
	CandidateCap int
}

// Matcher ranks catalog candidates against one extraction.
type Matcher struct {
	catalog CatalogQuerier
	opts    MatcherOptions
}

// NewMatcher wires a Matcher to the catalog collaborator.
func NewMatcher(catalog CatalogQuerier, opts MatcherOptions) *Matcher {
	if opts.Weights == (Weights{}) {
		opts.Weights = DefaultWeights()
	}
	if opts.MinScore <= 0 {
		opts.MinScore = defaultMinAcceptScore
	}
	if opts.CandidateCap <= 0 {
		opts.CandidateCap = defaultCandidateCap
	}
	return &Matcher{catalog: catalog, opts: opts}
}

// Match queries the catalog once and scores every candidate.
//
// With neither a year nor a player name there is nothing to anchor a query
// on, so the outcome is empty without touching the catalog. A catalog
// failure is logged and degraded to "no candidates": a broken catalog must
// never silently auto-add a wrong card.
func (m *Matcher) Match(ctx context.Context, data model.ExtractedCardData) model.MatchOutcome {
	if data.Year == nil && data.PlayerName == "" {
		return model.MatchOutcome{}
	}

	var yearMin, yearMax int
	if data.Year != nil {
		yearMin, yearMax = *data.Year-1, *data.Year+1
	}

	candidates, err := m.catalog.FindCandidates(ctx, yearMin, yearMax, m.opts.CandidateCap)
	if err != nil {
		zap.L().Warn("matcher: catalog query failed, degrading to no match",
			zap.Error(err),
		)
		return model.MatchOutcome{}
	}

	var scored []model.ScoredCandidate
	for _, cand := range candidates {
		score := scoreCandidate(data, cand, m.opts.Weights)
		if score >= m.opts.MinScore {
			scored = append(scored, model.ScoredCandidate{Card: cand, Score: score})
		}
	}
	if len(scored) == 0 {
		return model.MatchOutcome{}
	}

	// Rank descending; tie-break on card ID so ranking is deterministic.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Card.CardID < scored[j].Card.CardID
	})

	best := scored[0]
	alternatives := scored[1:]
	if len(alternatives) > maxAlternatives {
		alternatives = alternatives[:maxAlternatives]
	}

	return model.MatchOutcome{
		BestMatch:    &best.Card,
		Confidence:   best.Score,
		Alternatives: alternatives,
	}
}
