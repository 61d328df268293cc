package pipeline

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/shoebox-labs/cardscout-cli/internal/model"
)

// Weights holds the five scoring factors. They must sum to exactly 1.0.
type Weights struct {
	Player      float64 `mapstructure:"player"`
	Year        float64 `mapstructure:"year"`
	CardNumber  float64 `mapstructure:"card_number"`
	BrandSeries float64 `mapstructure:"brand_series"`
	Rookie      float64 `mapstructure:"rookie"`
}

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Player:      0.40,
		Year:        0.30,
		CardNumber:  0.15,
		BrandSeries: 0.10,
		Rookie:      0.05,
	}
}

// Sum returns the total of all five weights.
func (w Weights) Sum() float64 {
	return w.Player + w.Year + w.CardNumber + w.BrandSeries + w.Rookie
}

// Validate rejects negative weights and sums that drift from 1.0.
func (w Weights) Validate() error {
	for _, f := range []float64{w.Player, w.Year, w.CardNumber, w.BrandSeries, w.Rookie} {
		if f < 0 {
			return eris.New("scorer: weights must be >= 0")
		}
	}
	if math.Abs(w.Sum()-1.0) > 1e-9 {
		return eris.Errorf("scorer: weights must sum to 1.0, got %v", w.Sum())
	}
	return nil
}

// scoreCandidate computes the weighted similarity between one extraction and
// one catalog candidate.
//
// A factor the candidate cannot be assessed on at all (no player listed, no
// card number, unknown series year or name) drops out of both numerator and
// denominator instead of penalizing the score to zero. Factors the extraction
// is merely missing still count against the candidate with a zero
// contribution.
func scoreCandidate(data model.ExtractedCardData, cand model.CandidateCard, w Weights) float64 {
	var num, den float64

	// Player-name similarity against the candidate's first listed player.
	if len(cand.Players) > 0 {
		den += w.Player
		num += nameSimilarity(normalizeName(data.PlayerName), normalizeName(cand.Players[0].FullName())) * w.Player
	}

	// Year proximity: exact full credit, off-by-one half credit.
	if cand.Series.Year != 0 {
		den += w.Year
		if data.Year != nil {
			switch diff := abs(*data.Year - cand.Series.Year); diff {
			case 0:
				num += w.Year
			case 1:
				num += w.Year / 2
			}
		}
	}

	// Card number: exact post-normalization equality.
	if cand.CardNumber != "" {
		den += w.CardNumber
		if data.CardNumber != "" && normalizeCardNumber(data.CardNumber) == normalizeCardNumber(cand.CardNumber) {
			num += w.CardNumber
		}
	}

	// Brand/series: extracted brand as substring of the candidate's set name.
	if cand.Series.Name != "" {
		den += w.BrandSeries
		if data.Brand != "" && strings.Contains(strings.ToLower(cand.Series.Name), strings.ToLower(data.Brand)) {
			num += w.BrandSeries
		}
	}

	// Rookie-flag agreement in either direction, including both-false.
	den += w.Rookie
	if data.IsRookie == cand.IsRookie {
		num += w.Rookie
	}

	if den == 0 {
		return 0
	}
	return num / den
}

// normalizeCardNumber strips the leading '#', surrounding space, case and
// leading zeros so "#027" equals "27".
func normalizeCardNumber(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "#")
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" && s != "" {
		return "0"
	}
	return trimmed
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
