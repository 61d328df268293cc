// Package catalog persists the card catalog and serves candidate lookups for
// the matching pipeline. Two backends are provided: PostgreSQL for shared
// deployments and SQLite for local use.
package catalog

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/shoebox-labs/cardscout-cli/internal/model"
)

// ChecklistRow is one line of a set checklist as published by the
// manufacturers (card number, player, team, series, year, flags).
type ChecklistRow struct {
	CardNumber string `json:"card_number"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Team       string `json:"team,omitempty"`
	Series     string `json:"series"`
	Year       int    `json:"year"`
	IsRookie   bool   `json:"is_rookie"`
	PrintRun   *int   `json:"print_run,omitempty"`
}

// ImportResult summarizes one checklist import.
type ImportResult struct {
	Cards   int `json:"cards"`
	Series  int `json:"series"`
	Players int `json:"players"`
}

// SeriesStat is the per-series card count reported by Stats.
type SeriesStat struct {
	Name  string `json:"name"`
	Year  int    `json:"year"`
	Cards int    `json:"cards"`
}

// Stats describes the current catalog contents.
type Stats struct {
	TotalCards   int          `json:"total_cards"`
	TotalPlayers int          `json:"total_players"`
	Series       []SeriesStat `json:"series"`
}

// Store defines the catalog persistence interface. FindCandidates is the
// pipeline-facing half; the rest supports catalog management commands.
type Store interface {
	// FindCandidates returns up to limit cards whose series year falls in
	// [yearMin, yearMax]. A yearMin of 0 disables the year filter.
	FindCandidates(ctx context.Context, yearMin, yearMax, limit int) ([]model.CandidateCard, error)

	ImportChecklist(ctx context.Context, rows []ChecklistRow) (ImportResult, error)
	Stats(ctx context.Context) (*Stats, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, driver, dsn string, poolCfg *PoolConfig) (Store, error) {
	switch driver {
	case "postgres":
		return NewPostgres(ctx, dsn, poolCfg)
	case "sqlite", "":
		return NewSQLite(dsn)
	default:
		return nil, eris.Errorf("catalog: unknown driver %q", driver)
	}
}
