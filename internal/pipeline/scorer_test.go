package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoebox-labs/cardscout-cli/internal/model"
)

func TestWeights_SumToOne(t *testing.T) {
	w := DefaultWeights()
	assert.Equal(t, 1.0, w.Sum())
	require.NoError(t, w.Validate())
}

func TestWeights_Validate(t *testing.T) {
	w := DefaultWeights()
	w.Player = 0.5
	assert.Error(t, w.Validate())

	w = DefaultWeights()
	w.Rookie = -0.05
	assert.Error(t, w.Validate())
}

func TestScoreCandidate_ExactMatch(t *testing.T) {
	data := model.ExtractedCardData{
		Year:       intPtr(2024),
		PlayerName: "Mike Trout",
		Brand:      "topps",
		CardNumber: "27",
	}
	cand := model.CandidateCard{
		CardID:     1,
		CardNumber: "27",
		Series:     model.CardSeries{Name: "Topps Series One", Year: 2024},
		Players:    []model.CardPlayer{{FirstName: "Mike", LastName: "Trout"}},
	}

	score := scoreCandidate(data, cand, DefaultWeights())
	assert.Equal(t, 1.0, score)
}

func TestScoreCandidate_UnassessableWeightsExcluded(t *testing.T) {
	// Candidate has no card number: 0.40 (name) + 0.30 (year exact) + 0
	// (brand) + 0.05 (rookie both false), normalized by 0.85.
	data := model.ExtractedCardData{
		Year:       intPtr(2024),
		PlayerName: "Mike Trout",
	}
	cand := model.CandidateCard{
		CardID:  2,
		Series:  model.CardSeries{Name: "Series One", Year: 2024},
		Players: []model.CardPlayer{{FirstName: "Mike", LastName: "Trout"}},
	}

	score := scoreCandidate(data, cand, DefaultWeights())
	assert.InDelta(t, 0.75/0.85, score, 1e-9)
}

func TestScoreCandidate_YearProximity(t *testing.T) {
	data := model.ExtractedCardData{Year: intPtr(2024), PlayerName: "Mike Trout"}
	base := model.CandidateCard{
		Players: []model.CardPlayer{{FirstName: "Mike", LastName: "Trout"}},
	}

	exact := base
	exact.Series = model.CardSeries{Name: "S", Year: 2024}
	offByOne := base
	offByOne.Series = model.CardSeries{Name: "S", Year: 2023}
	offByTwo := base
	offByTwo.Series = model.CardSeries{Name: "S", Year: 2022}

	w := DefaultWeights()
	sExact := scoreCandidate(data, exact, w)
	sOne := scoreCandidate(data, offByOne, w)
	sTwo := scoreCandidate(data, offByTwo, w)

	assert.Greater(t, sExact, sOne)
	assert.Greater(t, sOne, sTwo)

	// Off-by-one earns exactly half the year weight.
	den := w.Player + w.Year + w.BrandSeries + w.Rookie
	assert.InDelta(t, (w.Player+w.Year/2+w.Rookie)/den, sOne, 1e-9)
}

func TestScoreCandidate_RookieAgreement(t *testing.T) {
	data := model.ExtractedCardData{PlayerName: "Mike Trout", IsRookie: false}
	agree := model.CandidateCard{
		IsRookie: false,
		Series:   model.CardSeries{Name: "S", Year: 2011},
		Players:  []model.CardPlayer{{FirstName: "Mike", LastName: "Trout"}},
	}
	disagree := agree
	disagree.IsRookie = true

	w := DefaultWeights()
	assert.Greater(t, scoreCandidate(data, agree, w), scoreCandidate(data, disagree, w))
}

func TestScoreCandidate_CardNumberNormalization(t *testing.T) {
	data := model.ExtractedCardData{PlayerName: "Mike Trout", CardNumber: "#027"}
	cand := model.CandidateCard{
		CardNumber: "27",
		Series:     model.CardSeries{Name: "S", Year: 2011},
		Players:    []model.CardPlayer{{FirstName: "Mike", LastName: "Trout"}},
	}
	noMatch := cand
	noMatch.CardNumber = "28"

	w := DefaultWeights()
	assert.Greater(t, scoreCandidate(data, cand, w), scoreCandidate(data, noMatch, w))
}

func TestScoreCandidate_Bounds(t *testing.T) {
	data := model.ExtractedCardData{
		Year:       intPtr(2020),
		PlayerName: "LeBron James",
		Brand:      "panini",
		CardNumber: "23",
		IsRookie:   true,
	}
	candidates := []model.CandidateCard{
		{},
		{Series: model.CardSeries{Name: "Prizm", Year: 2020}},
		{
			CardNumber: "23",
			IsRookie:   true,
			Series:     model.CardSeries{Name: "Panini Prizm", Year: 2020},
			Players:    []model.CardPlayer{{FirstName: "LeBron", LastName: "James"}},
		},
	}

	for _, cand := range candidates {
		score := scoreCandidate(data, cand, DefaultWeights())
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestNormalizeCardNumber(t *testing.T) {
	tests := []struct{ in, want string }{
		{"#27", "27"},
		{" 027 ", "27"},
		{"BCP-12", "bcp-12"},
		{"0", "0"},
		{"000", "0"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, normalizeCardNumber(tc.in))
	}
}
