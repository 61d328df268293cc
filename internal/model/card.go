package model

// CardPlayer is one player credited on a catalog card.
type CardPlayer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName returns "First Last" with single-name players handled.
func (p CardPlayer) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// CardSeries is the series/set a catalog card belongs to.
type CardSeries struct {
	Name string `json:"name"`
	Year int    `json:"year"`
}

// CandidateCard is a canonical catalog record considered for matching.
// Supplied by the catalog collaborator and read-only to the pipeline.
type CandidateCard struct {
	CardID     int64        `json:"card_id"`
	CardNumber string       `json:"card_number,omitempty"`
	PrintRun   *int         `json:"print_run,omitempty"`
	IsRookie   bool         `json:"is_rookie"`
	Series     CardSeries   `json:"series"`
	Players    []CardPlayer `json:"players,omitempty"`
}

// ScoredCandidate pairs a candidate with its similarity score.
// Created per match attempt and discarded after ranking.
type ScoredCandidate struct {
	Card  CandidateCard `json:"card"`
	Score float64       `json:"score"`
}

// MatchOutcome holds the ranked result of matching one extraction against
// the catalog.
type MatchOutcome struct {
	BestMatch    *CandidateCard    `json:"best_match,omitempty"`
	Confidence   float64           `json:"confidence"`
	Alternatives []ScoredCandidate `json:"alternatives,omitempty"`
}
