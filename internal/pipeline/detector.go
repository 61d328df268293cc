// Package pipeline implements the listing detection, extraction, matching
// and decision pipeline for marketplace card titles.
package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shoebox-labs/cardscout-cli/internal/model"
	"github.com/shoebox-labs/cardscout-cli/internal/vocab"
)

// detectionThreshold is the confidence at which a title counts as a card
// even without an explicit sport keyword.
const defaultDetectionThreshold = 0.4

var (
	detectYearRe   = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	detectNumberRe = regexp.MustCompile(`#\d+|\bcard\s+\d+\b|\b\d+/\d+\b`)
	detectGradeRe  = regexp.MustCompile(`\b(psa|bgs|sgc)\s*\d+\b|\bgraded\b|\bmint\b`)
)

// sportMatcher holds the compiled term patterns for one sport.
type sportMatcher struct {
	sport  string
	res    []*regexp.Regexp
	weight float64
}

// indicatorMatcher holds one compiled card-indicator pattern.
type indicatorMatcher struct {
	term   string
	re     *regexp.Regexp
	weight float64
}

// Detector classifies titles as sports-card listings via weighted keyword
// hits. It is pure: the same title always yields the same result.
type Detector struct {
	sports     []sportMatcher
	indicators []indicatorMatcher
	threshold  float64
	v          vocab.Vocabulary
}

// NewDetector compiles the vocabulary into a Detector.
func NewDetector(v vocab.Vocabulary, threshold float64) *Detector {
	if threshold <= 0 {
		threshold = defaultDetectionThreshold
	}

	d := &Detector{threshold: threshold, v: v}
	for _, s := range v.Sports {
		m := sportMatcher{sport: s.Sport, weight: s.Weight}
		for _, term := range s.Terms {
			m.res = append(m.res, termPattern(term))
		}
		d.sports = append(d.sports, m)
	}
	for _, ind := range v.Indicators {
		d.indicators = append(d.indicators, indicatorMatcher{
			term:   ind.Term,
			re:     termPattern(ind.Term),
			weight: ind.Weight,
		})
	}
	return d
}

// termPattern compiles a whole-word, case-already-lowered term matcher.
func termPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(term)) + `\b`)
}

// Detect scores one title for card-ness.
//
// Each sport is credited at most once (first listed sport wins, so
// multi-sport titles are not double-credited); card indicators are additive.
// A plausible year, a card-number pattern, and a grading mention each add a
// fixed bonus. isCard is true when a sport and a card keyword both fired, or
// when the clamped confidence clears the threshold — the OR clause keeps
// strongly card-indicative titles without an explicit sport keyword.
func (d *Detector) Detect(title string) model.DetectionResult {
	lower := strings.ToLower(title)
	if strings.TrimSpace(lower) == "" {
		return model.DetectionResult{}
	}

	var (
		confidence   float64
		reasons      []string
		sportFound   bool
		keywordFound bool
	)

	for _, s := range d.sports {
		for _, re := range s.res {
			if re.MatchString(lower) {
				confidence += s.weight
				reasons = append(reasons, "sport:"+s.sport)
				sportFound = true
				break
			}
		}
		if sportFound {
			break
		}
	}

	for _, ind := range d.indicators {
		if ind.re.MatchString(lower) {
			confidence += ind.weight
			reasons = append(reasons, "keyword:"+ind.term)
			keywordFound = true
		}
	}

	if y := detectYearRe.FindString(lower); y != "" {
		if n, err := strconv.Atoi(y); err == nil && n >= 1900 && n <= 2099 {
			confidence += d.v.YearBonus
			reasons = append(reasons, fmt.Sprintf("year:%d", n))
		}
	}
	if detectNumberRe.MatchString(lower) {
		confidence += d.v.NumberBonus
		reasons = append(reasons, "card-number")
	}
	if detectGradeRe.MatchString(lower) {
		confidence += d.v.GradingBonus
		reasons = append(reasons, "grading")
	}

	if confidence > 1.0 {
		confidence = 1.0
	}

	return model.DetectionResult{
		IsCard:     (sportFound && keywordFound) || confidence >= d.threshold,
		Confidence: confidence,
		Reasons:    reasons,
	}
}
