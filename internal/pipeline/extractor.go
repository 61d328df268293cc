package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shoebox-labs/cardscout-cli/internal/model"
	"github.com/shoebox-labs/cardscout-cli/internal/vocab"
)

// Card-issue years are constrained tighter than the detector's year check.
var extractYearRe = regexp.MustCompile(`\b(19[5-9]\d|20[0-3]\d)\b`)

// cardNumberPatterns is an ordered cascade; the first pattern that matches
// wins and the rest are skipped. Reordering changes extraction results.
var cardNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`#(\d+)`),
	regexp.MustCompile(`(?i)\bcard\s+(\d+)\b`),
	regexp.MustCompile(`(?i)\bno\.?\s*(\d+)\b`),
	regexp.MustCompile(`\b(\d+)/\d+\b`),
}

var gradingRe = regexp.MustCompile(`(?i)\b(psa|bgs|sgc)\s+(\d+(?:\.\d+)?)\b`)

var (
	rookieRe = regexp.MustCompile(`(?i)\b(rookie|rc)\b`)
	autoRe   = regexp.MustCompile(`(?i)\b(auto|autograph|signed)\b`)
	relicRe  = regexp.MustCompile(`(?i)\b(relic|patch|jersey|game.?used)\b`)
)

// capitalized word pair, e.g. "Mike Trout" or "LeBron James".
const namePair = `([A-Z][a-zA-Z]+\s[A-Z][a-zA-Z]+)`

// Extractor parses structured card attributes out of a listing title.
// Extraction is pure and order-independent across fields; within a field the
// pattern cascade order is the contract.
type Extractor struct {
	v vocab.Vocabulary

	brandRes  []*regexp.Regexp
	seriesRes []*regexp.Regexp
	sports    []sportMatcher

	// playerPatterns are tried in priority order: year-brand-name,
	// name-year, year-word-word-name, then any capitalized pair.
	playerPatterns []*regexp.Regexp
	exclusions     []string
}

// NewExtractor compiles the vocabulary into an Extractor.
func NewExtractor(v vocab.Vocabulary) *Extractor {
	e := &Extractor{v: v}

	for _, b := range v.Brands {
		e.brandRes = append(e.brandRes, termPattern(b))
	}
	for _, s := range v.Series {
		e.seriesRes = append(e.seriesRes, termPattern(s))
	}
	for _, s := range v.Sports {
		m := sportMatcher{sport: s.Sport}
		for _, term := range s.Terms {
			m.res = append(m.res, termPattern(term))
		}
		e.sports = append(e.sports, m)
	}
	for _, phrase := range v.PlayerExclusions {
		e.exclusions = append(e.exclusions, strings.ToLower(phrase))
	}

	year := `(?:19[5-9]\d|20[0-3]\d)`
	brandAlt := make([]string, 0, len(v.Brands))
	for _, b := range v.Brands {
		brandAlt = append(brandAlt, regexp.QuoteMeta(b))
	}
	e.playerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b` + year + `\s+(?i:` + strings.Join(brandAlt, "|") + `)\s+` + namePair),
		regexp.MustCompile(`\b` + namePair + `\s+` + year + `\b`),
		regexp.MustCompile(`\b` + year + `\s+\S+\s+\S+\s+` + namePair),
		regexp.MustCompile(`\b` + namePair + `\b`),
	}

	return e
}

// Extract pulls every structured field the title yields. Absent fields stay
// zero-valued; no error paths exist.
func (e *Extractor) Extract(title string) model.ExtractedCardData {
	var data model.ExtractedCardData
	lower := strings.ToLower(title)

	if y := extractYearRe.FindString(title); y != "" {
		if n, err := strconv.Atoi(y); err == nil {
			data.Year = &n
		}
	}

	for i, re := range e.brandRes {
		if re.MatchString(lower) {
			data.Brand = e.v.Brands[i]
			break
		}
	}
	for i, re := range e.seriesRes {
		if re.MatchString(lower) {
			data.Series = e.v.Series[i]
			break
		}
	}

	for _, re := range cardNumberPatterns {
		if m := re.FindStringSubmatch(title); m != nil {
			data.CardNumber = m[1]
			break
		}
	}

	data.PlayerName = e.extractPlayer(title)

	data.IsRookie = rookieRe.MatchString(title)
	data.IsAutograph = autoRe.MatchString(title)
	data.IsRelic = relicRe.MatchString(title)

	for _, s := range e.sports {
		for _, re := range s.res {
			if re.MatchString(lower) {
				data.Sport = s.sport
				break
			}
		}
		if data.Sport != "" {
			break
		}
	}

	if m := gradingRe.FindStringSubmatch(title); m != nil {
		data.GradingCompany = strings.ToUpper(m[1])
		if g, err := strconv.ParseFloat(m[2], 64); err == nil {
			data.Grade = &g
		}
	}

	return data
}

// extractPlayer runs the heuristic cascade. Within a pattern, all matches
// are tried in order and the first capture free of excluded phrases is
// accepted; otherwise the next pattern is tried.
func (e *Extractor) extractPlayer(title string) string {
	for _, re := range e.playerPatterns {
		for _, m := range re.FindAllStringSubmatch(title, -1) {
			name := strings.TrimSpace(m[1])
			if name != "" && !e.excluded(name) {
				return name
			}
		}
	}
	return ""
}

func (e *Extractor) excluded(name string) bool {
	lower := strings.ToLower(name)
	for _, phrase := range e.exclusions {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
