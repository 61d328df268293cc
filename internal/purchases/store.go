// Package purchases consumes pipeline decisions for purchased listings:
// auto_add goes straight to the collection, suggest_match lands in a review
// queue, everything else is recorded for bookkeeping.
package purchases

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/shoebox-labs/cardscout-cli/internal/model"
)

// Filter specifies criteria for listing purchases.
type Filter struct {
	Status model.PipelineStatus `json:"status,omitempty"`
	Limit  int                  `json:"limit,omitempty"`
}

// Store defines persistence for processed purchases.
type Store interface {
	RecordPurchase(ctx context.Context, p model.Purchase) error
	AddToCollection(ctx context.Context, entry model.CollectionEntry) error
	EnqueueReview(ctx context.Context, item model.ReviewItem) error
	ListPurchases(ctx context.Context, filter Filter) ([]model.Purchase, error)
	PendingReviews(ctx context.Context, limit int) ([]model.ReviewItem, error)

	Migrate(ctx context.Context) error
	Close() error
}

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "purchases: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "purchases: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS purchases (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	price        REAL NOT NULL,
	status       TEXT NOT NULL,
	confidence   REAL NOT NULL,
	result       TEXT,
	processed_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS collection (
	id          TEXT PRIMARY KEY,
	purchase_id TEXT NOT NULL REFERENCES purchases(id),
	card_id     INTEGER NOT NULL,
	price       REAL NOT NULL,
	added_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS review_queue (
	id           TEXT PRIMARY KEY,
	purchase_id  TEXT NOT NULL REFERENCES purchases(id),
	best_card_id INTEGER NOT NULL,
	confidence   REAL NOT NULL,
	alternatives TEXT,
	created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_purchases_status ON purchases(status);
CREATE INDEX IF NOT EXISTS idx_collection_card_id ON collection(card_id);
CREATE INDEX IF NOT EXISTS idx_review_queue_purchase_id ON review_queue(purchase_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "purchases: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) RecordPurchase(ctx context.Context, p model.Purchase) error {
	var resultJSON []byte
	if p.Result != nil {
		var err error
		resultJSON, err = json.Marshal(p.Result)
		if err != nil {
			return eris.Wrap(err, "purchases: marshal result")
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO purchases (id, title, price, status, confidence, result, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Price, string(p.Status), p.Confidence, nullableText(resultJSON), p.ProcessedAt,
	)
	return eris.Wrapf(err, "purchases: insert purchase %s", p.ID)
}

func (s *SQLiteStore) AddToCollection(ctx context.Context, entry model.CollectionEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO collection (id, purchase_id, card_id, price, added_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.PurchaseID, entry.CardID, entry.Price, entry.AddedAt,
	)
	return eris.Wrapf(err, "purchases: insert collection entry %s", entry.ID)
}

func (s *SQLiteStore) EnqueueReview(ctx context.Context, item model.ReviewItem) error {
	altJSON, err := json.Marshal(item.Alternatives)
	if err != nil {
		return eris.Wrap(err, "purchases: marshal alternatives")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO review_queue (id, purchase_id, best_card_id, confidence, alternatives, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.PurchaseID, item.BestCardID, item.Confidence, string(altJSON), item.CreatedAt,
	)
	return eris.Wrapf(err, "purchases: enqueue review %s", item.ID)
}

func (s *SQLiteStore) ListPurchases(ctx context.Context, filter Filter) ([]model.Purchase, error) {
	query := `SELECT id, title, price, status, confidence, result, processed_at FROM purchases WHERE true`
	args := []any{}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY processed_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "purchases: list")
	}
	defer rows.Close()

	var purchases []model.Purchase
	for rows.Next() {
		var p model.Purchase
		var status string
		var resultJSON sql.NullString

		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &status, &p.Confidence, &resultJSON, &p.ProcessedAt); err != nil {
			return nil, eris.Wrap(err, "purchases: scan purchase")
		}
		p.Status = model.PipelineStatus(status)
		if resultJSON.Valid {
			p.Result = &model.PipelineResult{}
			if err := json.Unmarshal([]byte(resultJSON.String), p.Result); err != nil {
				return nil, eris.Wrap(err, "purchases: unmarshal result")
			}
			p.MatchedCard = p.Result.MatchedCard
		}
		purchases = append(purchases, p)
	}
	return purchases, eris.Wrap(rows.Err(), "purchases: list iterate")
}

func (s *SQLiteStore) PendingReviews(ctx context.Context, limit int) ([]model.ReviewItem, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, purchase_id, best_card_id, confidence, alternatives, created_at
		 FROM review_queue ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "purchases: pending reviews")
	}
	defer rows.Close()

	var items []model.ReviewItem
	for rows.Next() {
		var item model.ReviewItem
		var altJSON sql.NullString

		if err := rows.Scan(&item.ID, &item.PurchaseID, &item.BestCardID, &item.Confidence, &altJSON, &item.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "purchases: scan review item")
		}
		if altJSON.Valid && altJSON.String != "null" {
			if err := json.Unmarshal([]byte(altJSON.String), &item.Alternatives); err != nil {
				return nil, eris.Wrap(err, "purchases: unmarshal alternatives")
			}
		}
		items = append(items, item)
	}
	return items, eris.Wrap(rows.Err(), "purchases: pending reviews iterate")
}

func nullableText(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
