package purchases

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoebox-labs/cardscout-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "purchases.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testPurchase(id string, status model.PipelineStatus) model.Purchase {
	return model.Purchase{
		ID:         id,
		Title:      "2024 Topps Mike Trout Baseball Card #27",
		Price:      12.50,
		Status:     status,
		Confidence: 0.9,
		Result: &model.PipelineResult{
			IsCard:      true,
			Confidence:  0.9,
			Status:      status,
			MatchedCard: &model.CandidateCard{CardID: 42},
		},
		ProcessedAt: time.Now().UTC(),
	}
}

func TestSQLiteStore_RecordAndListPurchases(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordPurchase(ctx, testPurchase("p1", model.StatusAutoAdd)))
	require.NoError(t, s.RecordPurchase(ctx, testPurchase("p2", model.StatusNoMatch)))

	all, err := s.ListPurchases(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	got := all[0]
	if got.ID != "p1" {
		got = all[1]
	}
	assert.Equal(t, model.StatusAutoAdd, got.Status)
	require.NotNil(t, got.Result)
	require.NotNil(t, got.MatchedCard)
	assert.Equal(t, int64(42), got.MatchedCard.CardID)
}

func TestSQLiteStore_ListPurchases_StatusFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordPurchase(ctx, testPurchase("p1", model.StatusAutoAdd)))
	require.NoError(t, s.RecordPurchase(ctx, testPurchase("p2", model.StatusNoMatch)))
	require.NoError(t, s.RecordPurchase(ctx, testPurchase("p3", model.StatusNoMatch)))

	noMatch, err := s.ListPurchases(ctx, Filter{Status: model.StatusNoMatch})
	require.NoError(t, err)
	assert.Len(t, noMatch, 2)

	none, err := s.ListPurchases(ctx, Filter{Status: model.StatusNotACard})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteStore_ListPurchases_Limit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", "p3"} {
		require.NoError(t, s.RecordPurchase(ctx, testPurchase(id, model.StatusNoMatch)))
	}

	got, err := s.ListPurchases(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSQLiteStore_AddToCollection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordPurchase(ctx, testPurchase("p1", model.StatusAutoAdd)))
	require.NoError(t, s.AddToCollection(ctx, model.CollectionEntry{
		ID:         "c1",
		PurchaseID: "p1",
		CardID:     42,
		Price:      12.50,
		AddedAt:    time.Now().UTC(),
	}))

	// Duplicate primary key must be rejected.
	err := s.AddToCollection(ctx, model.CollectionEntry{
		ID:         "c1",
		PurchaseID: "p1",
		CardID:     42,
		AddedAt:    time.Now().UTC(),
	})
	require.Error(t, err)
}

func TestSQLiteStore_EnqueueAndListReviews(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordPurchase(ctx, testPurchase("p1", model.StatusSuggestMatch)))
	require.NoError(t, s.EnqueueReview(ctx, model.ReviewItem{
		ID:         "r1",
		PurchaseID: "p1",
		BestCardID: 42,
		Confidence: 0.7,
		Alternatives: []model.ScoredCandidate{
			{Card: model.CandidateCard{CardID: 43}, Score: 0.65},
		},
		CreatedAt: time.Now().UTC(),
	}))

	items, err := s.PendingReviews(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(42), items[0].BestCardID)
	require.Len(t, items[0].Alternatives, 1)
	assert.Equal(t, int64(43), items[0].Alternatives[0].Card.CardID)
}
