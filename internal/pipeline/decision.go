package pipeline

import (
	"fmt"

	"github.com/shoebox-labs/cardscout-cli/internal/model"
)

// Decision thresholds on the combined detection+match confidence.
const (
	autoAddThreshold = 0.85
	suggestThreshold = 0.60
)

// decide maps detection, extraction and match results onto one of the four
// post-detection terminal states. It is a pure classification: no retries,
// no side effects, nothing mutated.
func decide(det model.DetectionResult, data model.ExtractedCardData, outcome model.MatchOutcome) (model.PipelineStatus, float64, string) {
	if !det.IsCard {
		return model.StatusNotACard, det.Confidence, "title did not look like a sports card"
	}

	if data.Year == nil || data.PlayerName == "" {
		return model.StatusIncompleteData, det.Confidence, "missing year or player name"
	}

	if outcome.BestMatch == nil {
		return model.StatusNoMatch, det.Confidence, "no catalog candidate cleared the acceptance threshold"
	}

	combined := det.Confidence + outcome.Confidence
	if combined > 1.0 {
		combined = 1.0
	}

	switch {
	case combined >= autoAddThreshold:
		return model.StatusAutoAdd, combined, fmt.Sprintf("combined confidence %.2f", combined)
	case combined >= suggestThreshold:
		return model.StatusSuggestMatch, combined, fmt.Sprintf("combined confidence %.2f", combined)
	default:
		return model.StatusNoMatch, combined, fmt.Sprintf("combined confidence %.2f below suggestion threshold", combined)
	}
}
