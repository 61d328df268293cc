package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shoebox-labs/cardscout-cli/internal/model"
)

func TestDecide_NotACard(t *testing.T) {
	status, confidence, _ := decide(
		model.DetectionResult{IsCard: false, Confidence: 0.1},
		model.ExtractedCardData{},
		model.MatchOutcome{},
	)
	assert.Equal(t, model.StatusNotACard, status)
	assert.Equal(t, 0.1, confidence)
}

func TestDecide_IncompleteData(t *testing.T) {
	det := model.DetectionResult{IsCard: true, Confidence: 0.9}
	match := model.MatchOutcome{
		BestMatch:  &model.CandidateCard{CardID: 1},
		Confidence: 0.95,
	}

	// Missing year: incomplete regardless of match quality.
	status, _, _ := decide(det, model.ExtractedCardData{PlayerName: "Mike Trout"}, match)
	assert.Equal(t, model.StatusIncompleteData, status)

	// Missing player: same.
	status, _, _ = decide(det, model.ExtractedCardData{Year: intPtr(2024)}, match)
	assert.Equal(t, model.StatusIncompleteData, status)
}

func TestDecide_NoMatchFound(t *testing.T) {
	status, _, _ := decide(
		model.DetectionResult{IsCard: true, Confidence: 0.9},
		model.ExtractedCardData{Year: intPtr(2024), PlayerName: "Mike Trout"},
		model.MatchOutcome{},
	)
	assert.Equal(t, model.StatusNoMatch, status)
}

func TestDecide_Boundaries(t *testing.T) {
	data := model.ExtractedCardData{Year: intPtr(2024), PlayerName: "Mike Trout"}
	match := func(c float64) model.MatchOutcome {
		return model.MatchOutcome{BestMatch: &model.CandidateCard{CardID: 1}, Confidence: c}
	}

	tests := []struct {
		name       string
		detection  float64
		match      float64
		wantStatus model.PipelineStatus
	}{
		{"exactly auto-add threshold", 0.45, 0.40, model.StatusAutoAdd},
		{"just below auto-add", 0.4499, 0.40, model.StatusSuggestMatch},
		{"exactly suggest threshold", 0.20, 0.40, model.StatusSuggestMatch},
		{"just below suggest", 0.1999, 0.40, model.StatusNoMatch},
		{"combined clamped to one", 0.9, 0.9, model.StatusAutoAdd},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			det := model.DetectionResult{IsCard: true, Confidence: tc.detection}
			status, confidence, _ := decide(det, data, match(tc.match))
			assert.Equal(t, tc.wantStatus, status)
			assert.LessOrEqual(t, confidence, 1.0)
		})
	}
}
