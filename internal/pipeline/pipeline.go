package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/shoebox-labs/cardscout-cli/internal/model"
	"github.com/shoebox-labs/cardscout-cli/internal/vocab"
)

// Options bundle the tunables for one Pipeline.
type Options struct {
	DetectionThreshold float64
	Matcher            MatcherOptions
}

// Pipeline runs detect → extract → match → decide for one listing title.
// It holds no mutable state; every invocation is independent.
type Pipeline struct {
	detector  *Detector
	extractor *Extractor
	matcher   *Matcher
}

// New builds a Pipeline from a vocabulary and the catalog collaborator.
func New(v vocab.Vocabulary, catalog CatalogQuerier, opts Options) *Pipeline {
	return &Pipeline{
		detector:  NewDetector(v, opts.DetectionThreshold),
		extractor: NewExtractor(v),
		matcher:   NewMatcher(catalog, opts.Matcher),
	}
}

// DetectAndMatch classifies a listing title, extracts structured card data,
// matches it against the catalog and returns the decision. It is total:
// every failure mode is absorbed into the result's status, and the caller
// never sees an error. Price is carried through for the caller but does not
// influence scoring.
func (p *Pipeline) DetectAndMatch(ctx context.Context, title string, price float64) model.PipelineResult {
	_ = price // informational only; reserved for future scoring extensions

	title = strings.TrimSpace(title)
	if title == "" {
		return model.PipelineResult{
			Status: model.StatusNotACard,
			Reason: "empty title",
		}
	}

	det := p.detector.Detect(title)
	if !det.IsCard {
		status, confidence, reason := decide(det, model.ExtractedCardData{}, model.MatchOutcome{})
		return model.PipelineResult{
			IsCard:     false,
			Confidence: confidence,
			Status:     status,
			Reason:     reason,
		}
	}

	data := p.extractor.Extract(title)
	outcome := p.matcher.Match(ctx, data)
	status, confidence, reason := decide(det, data, outcome)

	zap.L().Debug("pipeline decision",
		zap.String("title", title),
		zap.String("status", string(status)),
		zap.Float64("confidence", confidence),
	)

	result := model.PipelineResult{
		IsCard:        true,
		Confidence:    confidence,
		ExtractedData: data,
		Status:        status,
		Reason:        reason,
	}
	// The match is only surfaced when the decision actually acted on it.
	if status == model.StatusAutoAdd || status == model.StatusSuggestMatch {
		result.MatchedCard = outcome.BestMatch
		result.Alternatives = outcome.Alternatives
	}
	return result
}
