package model

// PipelineStatus is the terminal decision for one listing.
type PipelineStatus string

const (
	StatusNotACard       PipelineStatus = "not_a_card"
	StatusAutoAdd        PipelineStatus = "auto_add"
	StatusSuggestMatch   PipelineStatus = "suggest_match"
	StatusNoMatch        PipelineStatus = "no_match"
	StatusIncompleteData PipelineStatus = "incomplete_data"
)

// PipelineResult is the sole externally observable artifact of one pipeline
// invocation. It is stateless and carries no identity beyond the invocation.
type PipelineResult struct {
	IsCard        bool              `json:"is_card"`
	Confidence    float64           `json:"confidence"`
	ExtractedData ExtractedCardData `json:"extracted_data"`
	MatchedCard   *CandidateCard    `json:"matched_card,omitempty"`
	Alternatives  []ScoredCandidate `json:"alternatives,omitempty"`
	Status        PipelineStatus    `json:"status"`
	Reason        string            `json:"reason,omitempty"`
}
