package model

import "time"

// Purchase is a processed marketplace listing together with the pipeline's
// decision, as recorded by the purchase-processing collaborator.
type Purchase struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Price       float64        `json:"price"`
	Status      PipelineStatus `json:"status"`
	Confidence  float64        `json:"confidence"`
	MatchedCard *CandidateCard `json:"matched_card,omitempty"`
	Result      *PipelineResult `json:"result,omitempty"`
	ProcessedAt time.Time      `json:"processed_at"`
}

// CollectionEntry is a card added to the user's collection from an
// auto_add decision.
type CollectionEntry struct {
	ID         string    `json:"id"`
	PurchaseID string    `json:"purchase_id"`
	CardID     int64     `json:"card_id"`
	Price      float64   `json:"price"`
	AddedAt    time.Time `json:"added_at"`
}

// ReviewItem is a suggest_match decision queued for human review, together
// with the ranked alternatives.
type ReviewItem struct {
	ID           string            `json:"id"`
	PurchaseID   string            `json:"purchase_id"`
	BestCardID   int64             `json:"best_card_id"`
	Confidence   float64           `json:"confidence"`
	Alternatives []ScoredCandidate `json:"alternatives,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}
