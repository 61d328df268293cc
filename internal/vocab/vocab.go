// Package vocab holds the keyword vocabularies used for card detection and
// field extraction. Vocabularies are immutable configuration injected at
// construction time, so tests can run against alternate term tables.
package vocab

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// SportTerms maps one sport to its detection keywords. A sport is credited
// at most once per title; the first listed sport that matches wins, so the
// slice order is a documented invariant.
type SportTerms struct {
	Sport  string   `yaml:"sport"`
	Terms  []string `yaml:"terms"`
	Weight float64  `yaml:"weight"`
}

// Indicator is one weighted card-indicator term. Indicators are not
// mutually exclusive; every matching indicator adds its weight.
type Indicator struct {
	Term   string  `yaml:"term"`
	Weight float64 `yaml:"weight"`
}

// Vocabulary bundles every term table the pipeline consumes.
type Vocabulary struct {
	Sports     []SportTerms `yaml:"sports"`
	Indicators []Indicator  `yaml:"indicators"`

	// Brands and Series are priority-ordered: the first literal found in the
	// title wins. Reordering changes extraction results.
	Brands []string `yaml:"brands"`
	Series []string `yaml:"series"`

	// PlayerExclusions are phrases that disqualify a captured player-name
	// candidate (e.g. "Upper Deck" looks like a two-word name).
	PlayerExclusions []string `yaml:"player_exclusions"`

	// Additive detection bonuses.
	YearBonus    float64 `yaml:"year_bonus"`
	NumberBonus  float64 `yaml:"number_bonus"`
	GradingBonus float64 `yaml:"grading_bonus"`
}

// Default returns the built-in vocabulary.
//
// The generic "card" indicator carries enough weight to clear the detection
// threshold on its own. That over-classifies listings like "birthday card"
// but matches long-standing behavior; do not tighten it without product
// sign-off.
func Default() Vocabulary {
	return Vocabulary{
		Sports: []SportTerms{
			{Sport: "baseball", Terms: []string{"baseball", "mlb"}, Weight: 0.3},
			{Sport: "basketball", Terms: []string{"basketball", "nba"}, Weight: 0.3},
			{Sport: "football", Terms: []string{"football", "nfl"}, Weight: 0.3},
			{Sport: "hockey", Terms: []string{"hockey", "nhl"}, Weight: 0.3},
			{Sport: "soccer", Terms: []string{"soccer", "fifa"}, Weight: 0.3},
		},
		Indicators: []Indicator{
			{Term: "rookie", Weight: 0.25},
			{Term: "rc", Weight: 0.25},
			{Term: "autograph", Weight: 0.25},
			{Term: "auto", Weight: 0.25},
			{Term: "signed", Weight: 0.25},
			{Term: "patch", Weight: 0.2},
			{Term: "jersey", Weight: 0.2},
			{Term: "relic", Weight: 0.2},
			{Term: "refractor", Weight: 0.15},
			{Term: "parallel", Weight: 0.15},
			{Term: "chrome", Weight: 0.15},
			{Term: "prizm", Weight: 0.15},
			{Term: "optic", Weight: 0.15},
			{Term: "select", Weight: 0.15},
			{Term: "topps", Weight: 0.2},
			{Term: "panini", Weight: 0.2},
			{Term: "upper deck", Weight: 0.2},
			{Term: "bowman", Weight: 0.2},
			{Term: "donruss", Weight: 0.2},
			{Term: "fleer", Weight: 0.2},
			{Term: "leaf", Weight: 0.2},
			{Term: "card", Weight: 0.4},
		},
		Brands: []string{
			"topps", "panini", "upper deck", "bowman", "donruss", "fleer",
			"score", "leaf", "prizm", "optic", "select", "contenders",
			"chronicles",
		},
		Series: []string{
			"chrome", "heritage", "stadium club", "fire", "mosaic",
			"immaculate", "national treasures", "flawless", "noir",
			"the cup", "genesis",
		},
		PlayerExclusions: []string{
			"upper deck", "stadium club", "national treasures", "the cup",
			"topps", "panini", "bowman", "donruss", "fleer", "leaf",
			"prizm", "optic", "select", "mosaic", "chrome", "contenders",
			"chronicles", "heritage", "flawless", "immaculate",
			"rookie", "card", "auto", "patch", "jersey", "relic",
			"refractor", "parallel", "base set", "box break", "game used",
			"free shipping", "near mint", "gem mint", "update", "graded",
			"club",
		},
		YearBonus:    0.15,
		NumberBonus:  0.1,
		GradingBonus: 0.15,
	}
}

// Validate checks a vocabulary for internal consistency.
func (v Vocabulary) Validate() error {
	var errs []string

	if len(v.Sports) == 0 {
		errs = append(errs, "sports must not be empty")
	}
	for _, s := range v.Sports {
		if s.Sport == "" || len(s.Terms) == 0 {
			errs = append(errs, "sport entries need a name and terms")
		}
		if s.Weight <= 0 {
			errs = append(errs, fmt.Sprintf("sport %q weight must be > 0", s.Sport))
		}
	}

	if len(v.Indicators) == 0 {
		errs = append(errs, "indicators must not be empty")
	}
	for _, ind := range v.Indicators {
		if ind.Term == "" {
			errs = append(errs, "indicator terms must not be empty")
		}
		if ind.Weight <= 0 {
			errs = append(errs, fmt.Sprintf("indicator %q weight must be > 0", ind.Term))
		}
	}

	if len(v.Brands) == 0 {
		errs = append(errs, "brands must not be empty")
	}
	if v.YearBonus < 0 || v.NumberBonus < 0 || v.GradingBonus < 0 {
		errs = append(errs, "bonuses must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("vocab: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
