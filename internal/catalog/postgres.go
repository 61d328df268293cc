package catalog

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/shoebox-labs/cardscout-cli/internal/db"
	"github.com/shoebox-labs/cardscout-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// candidateQuery fetches a capped set of cards with their series and players.
// The subquery applies the year window and the cap before the player join
// fans rows out.
const candidateQuery = `
SELECT c.id, c.card_number, c.print_run, c.is_rookie, s.name, s.year, p.first_name, p.last_name
FROM cards c
JOIN series s ON s.id = c.series_id
LEFT JOIN card_players cp ON cp.card_id = c.id
LEFT JOIN players p ON p.id = cp.player_id
WHERE c.id IN (
	SELECT c2.id FROM cards c2
	JOIN series s2 ON s2.id = c2.series_id
	WHERE ($1 = 0 OR s2.year BETWEEN $1 AND $2)
	ORDER BY c2.id
	LIMIT $3
)
ORDER BY c.id`

// preparedStatements lists queries to prepare on each new connection. The
// candidate lookup runs once per matched listing, so it dominates traffic.
var preparedStatements = map[string]string{
	"find_candidates": candidateQuery,
	"upsert_series":   upsertSeriesSQL,
	"upsert_player":   upsertPlayerSQL,
	"upsert_card":     upsertCardSQL,
}

const upsertSeriesSQL = `INSERT INTO series (name, year) VALUES ($1, $2)
	ON CONFLICT (name, year) DO UPDATE SET name = EXCLUDED.name RETURNING id`

const upsertPlayerSQL = `INSERT INTO players (first_name, last_name, team) VALUES ($1, $2, $3)
	ON CONFLICT (first_name, last_name) DO UPDATE SET team = EXCLUDED.team RETURNING id`

const upsertCardSQL = `INSERT INTO cards (series_id, card_number, print_run, is_rookie) VALUES ($1, $2, $3, $4)
	ON CONFLICT (series_id, card_number) DO UPDATE SET print_run = EXCLUDED.print_run, is_rookie = EXCLUDED.is_rookie RETURNING id`

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: parse postgres config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "catalog: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "catalog: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS series (
	id   BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	year INTEGER NOT NULL,
	UNIQUE (name, year)
);

CREATE TABLE IF NOT EXISTS players (
	id         BIGSERIAL PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL,
	team       TEXT NOT NULL DEFAULT '',
	UNIQUE (first_name, last_name)
);

CREATE TABLE IF NOT EXISTS cards (
	id          BIGSERIAL PRIMARY KEY,
	series_id   BIGINT NOT NULL REFERENCES series(id),
	card_number TEXT NOT NULL,
	print_run   INTEGER,
	is_rookie   BOOLEAN NOT NULL DEFAULT false,
	UNIQUE (series_id, card_number)
);

CREATE TABLE IF NOT EXISTS card_players (
	card_id   BIGINT NOT NULL REFERENCES cards(id),
	player_id BIGINT NOT NULL REFERENCES players(id),
	PRIMARY KEY (card_id, player_id)
);

CREATE INDEX IF NOT EXISTS idx_series_year ON series(year);
CREATE INDEX IF NOT EXISTS idx_cards_series_id ON cards(series_id);
CREATE INDEX IF NOT EXISTS idx_card_players_player_id ON card_players(player_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "catalog: migrate")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "catalog: ping")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) FindCandidates(ctx context.Context, yearMin, yearMax, limit int) ([]model.CandidateCard, error) {
	rows, err := s.pool.Query(ctx, candidateQuery, yearMin, yearMax, limit)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: find candidates")
	}
	defer rows.Close()

	var cards []model.CandidateCard
	idx := map[int64]int{}
	for rows.Next() {
		var (
			id          int64
			cardNumber  string
			printRun    *int
			isRookie    bool
			seriesName  string
			seriesYear  int
			first, last *string
		)
		if err := rows.Scan(&id, &cardNumber, &printRun, &isRookie, &seriesName, &seriesYear, &first, &last); err != nil {
			return nil, eris.Wrap(err, "catalog: scan candidate")
		}

		i, ok := idx[id]
		if !ok {
			cards = append(cards, model.CandidateCard{
				CardID:     id,
				CardNumber: cardNumber,
				PrintRun:   printRun,
				IsRookie:   isRookie,
				Series:     model.CardSeries{Name: seriesName, Year: seriesYear},
			})
			i = len(cards) - 1
			idx[id] = i
		}
		if first != nil && last != nil {
			cards[i].Players = append(cards[i].Players, model.CardPlayer{FirstName: *first, LastName: *last})
		}
	}
	return cards, eris.Wrap(rows.Err(), "catalog: find candidates iterate")
}

func (s *PostgresStore) ImportChecklist(ctx context.Context, rows []ChecklistRow) (ImportResult, error) {
	var res ImportResult

	type seriesKey struct {
		name string
		year int
	}
	type playerKey struct {
		first, last string
	}
	seriesIDs := map[seriesKey]int64{}
	playerIDs := map[playerKey]int64{}
	var links [][]any

	for _, row := range rows {
		if row.Series == "" || row.CardNumber == "" {
			return res, eris.Errorf("catalog: checklist row missing series or card number: %+v", row)
		}

		sk := seriesKey{row.Series, row.Year}
		seriesID, ok := seriesIDs[sk]
		if !ok {
			if err := s.pool.QueryRow(ctx, upsertSeriesSQL, row.Series, row.Year).Scan(&seriesID); err != nil {
				return res, eris.Wrapf(err, "catalog: upsert series %s %d", row.Series, row.Year)
			}
			seriesIDs[sk] = seriesID
		}

		var cardID int64
		if err := s.pool.QueryRow(ctx, upsertCardSQL, seriesID, row.CardNumber, row.PrintRun, row.IsRookie).Scan(&cardID); err != nil {
			return res, eris.Wrapf(err, "catalog: upsert card %s #%s", row.Series, row.CardNumber)
		}
		res.Cards++

		if row.FirstName == "" && row.LastName == "" {
			continue
		}
		pk := playerKey{row.FirstName, row.LastName}
		playerID, ok := playerIDs[pk]
		if !ok {
			if err := s.pool.QueryRow(ctx, upsertPlayerSQL, row.FirstName, row.LastName, row.Team).Scan(&playerID); err != nil {
				return res, eris.Wrapf(err, "catalog: upsert player %s %s", row.FirstName, row.LastName)
			}
			playerIDs[pk] = playerID
		}
		links = append(links, []any{cardID, playerID})
	}

	if _, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "card_players",
		Columns:      []string{"card_id", "player_id"},
		ConflictKeys: []string{"card_id", "player_id"},
	}, links); err != nil {
		return res, eris.Wrap(err, "catalog: link card players")
	}

	res.Series = len(seriesIDs)
	res.Players = len(playerIDs)
	return res, nil
}

func (s *PostgresStore) Stats(ctx context.Context) (*Stats, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT s.name, s.year, COUNT(c.id)
		 FROM series s
		 LEFT JOIN cards c ON c.series_id = s.id
		 GROUP BY s.id, s.name, s.year
		 ORDER BY s.year, s.name`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: stats")
	}
	defer rows.Close()

	st := &Stats{}
	for rows.Next() {
		var ss SeriesStat
		if err := rows.Scan(&ss.Name, &ss.Year, &ss.Cards); err != nil {
			return nil, eris.Wrap(err, "catalog: scan series stat")
		}
		st.TotalCards += ss.Cards
		st.Series = append(st.Series, ss)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "catalog: stats iterate")
	}

	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM players`).Scan(&st.TotalPlayers); err != nil {
		return nil, eris.Wrap(err, "catalog: count players")
	}
	return st, nil
}
