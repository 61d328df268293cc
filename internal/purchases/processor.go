package purchases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shoebox-labs/cardscout-cli/internal/model"
)

// defaultBatchInterval paces batch processing at roughly ten listings per
// second so catalog lookups don't starve interactive use.
const defaultBatchInterval = 100 * time.Millisecond

// Decider produces a pipeline decision for one listing title.
// pipeline.Pipeline is the production implementation.
type Decider interface {
	DetectAndMatch(ctx context.Context, title string, price float64) model.PipelineResult
}

// Processor runs the pipeline for purchased listings and persists the
// outcome according to the decision.
type Processor struct {
	pipeline Decider
	store    Store
	limiter  *rate.Limiter
}

// BatchSummary reports the outcome of one batch run.
type BatchSummary struct {
	Processed int                          `json:"processed"`
	Failed    int                          `json:"failed"`
	ByStatus  map[model.PipelineStatus]int `json:"by_status"`
}

// NewProcessor wires a pipeline to the purchase store. interval <= 0 uses
// the default batch pacing.
func NewProcessor(p Decider, store Store, interval time.Duration) *Processor {
	if interval <= 0 {
		interval = defaultBatchInterval
	}
	return &Processor{
		pipeline: p,
		store:    store,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Process runs one listing through the pipeline and records the decision.
// The pipeline result is returned even when persistence fails so callers can
// still report it.
func (p *Processor) Process(ctx context.Context, listing model.RawListing) (model.PipelineResult, error) {
	result := p.pipeline.DetectAndMatch(ctx, listing.Title, listing.Price)

	now := time.Now().UTC()
	purchase := model.Purchase{
		ID:          uuid.New().String(),
		Title:       listing.Title,
		Price:       listing.Price,
		Status:      result.Status,
		Confidence:  result.Confidence,
		MatchedCard: result.MatchedCard,
		Result:      &result,
		ProcessedAt: now,
	}
	if err := p.store.RecordPurchase(ctx, purchase); err != nil {
		return result, eris.Wrap(err, "purchases: record")
	}

	switch result.Status {
	case model.StatusAutoAdd:
		entry := model.CollectionEntry{
			ID:         uuid.New().String(),
			PurchaseID: purchase.ID,
			CardID:     result.MatchedCard.CardID,
			Price:      listing.Price,
			AddedAt:    now,
		}
		if err := p.store.AddToCollection(ctx, entry); err != nil {
			return result, eris.Wrap(err, "purchases: add to collection")
		}
		zap.L().Info("card added to collection",
			zap.String("purchase_id", purchase.ID),
			zap.Int64("card_id", entry.CardID),
			zap.Float64("confidence", result.Confidence))

	case model.StatusSuggestMatch:
		item := model.ReviewItem{
			ID:           uuid.New().String(),
			PurchaseID:   purchase.ID,
			BestCardID:   result.MatchedCard.CardID,
			Confidence:   result.Confidence,
			Alternatives: result.Alternatives,
			CreatedAt:    now,
		}
		if err := p.store.EnqueueReview(ctx, item); err != nil {
			return result, eris.Wrap(err, "purchases: enqueue review")
		}
		zap.L().Info("match queued for review",
			zap.String("purchase_id", purchase.ID),
			zap.Int64("card_id", item.BestCardID),
			zap.Float64("confidence", result.Confidence))
	}

	return result, nil
}

// ProcessBatch runs listings through Process under the rate limiter.
// Per-listing failures are logged and counted, never fatal; only context
// cancellation aborts the batch.
func (p *Processor) ProcessBatch(ctx context.Context, listings []model.RawListing) (BatchSummary, error) {
	summary := BatchSummary{ByStatus: map[model.PipelineStatus]int{}}

	for i, listing := range listings {
		if err := p.limiter.Wait(ctx); err != nil {
			return summary, eris.Wrap(err, "purchases: batch cancelled")
		}

		result, err := p.Process(ctx, listing)
		if err != nil {
			summary.Failed++
			zap.L().Warn("listing failed",
				zap.Int("index", i),
				zap.String("title", listing.Title),
				zap.Error(err))
			continue
		}
		summary.Processed++
		summary.ByStatus[result.Status]++
	}
	return summary, nil
}
