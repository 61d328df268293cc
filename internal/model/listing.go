package model

// RawListing is a marketplace listing title/price pair handed to the pipeline.
// It is ephemeral input and never persisted by the pipeline itself.
type RawListing struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// DetectionResult holds the card-ness classification for one listing.
type DetectionResult struct {
	IsCard     bool     `json:"is_card"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons,omitempty"`
}

// ExtractedCardData holds the structured fields parsed out of a listing title.
// Every field is best-effort; pointer fields are nil when no pattern matched.
// Extraction is a pure function of the title and the configured vocabularies.
type ExtractedCardData struct {
	Year           *int     `json:"year,omitempty"`
	PlayerName     string   `json:"player_name,omitempty"`
	Brand          string   `json:"brand,omitempty"`
	Series         string   `json:"series,omitempty"`
	CardNumber     string   `json:"card_number,omitempty"`
	IsRookie       bool     `json:"is_rookie"`
	IsAutograph    bool     `json:"is_autograph"`
	IsRelic        bool     `json:"is_relic"`
	Sport          string   `json:"sport,omitempty"`
	Grade          *float64 `json:"grade,omitempty"`
	GradingCompany string   `json:"grading_company,omitempty"`
}
