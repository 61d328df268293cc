package catalog

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/shoebox-labs/cardscout-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, eris.Wrapf(err, "catalog: sqlite exec %s", pragma)
		}
	}
	return &SQLiteStore{db: sqlDB}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS series (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	year INTEGER NOT NULL,
	UNIQUE (name, year)
);

CREATE TABLE IF NOT EXISTS players (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL,
	team       TEXT NOT NULL DEFAULT '',
	UNIQUE (first_name, last_name)
);

CREATE TABLE IF NOT EXISTS cards (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	series_id   INTEGER NOT NULL REFERENCES series(id),
	card_number TEXT NOT NULL,
	print_run   INTEGER,
	is_rookie   INTEGER NOT NULL DEFAULT 0,
	UNIQUE (series_id, card_number)
);

CREATE TABLE IF NOT EXISTS card_players (
	card_id   INTEGER NOT NULL REFERENCES cards(id),
	player_id INTEGER NOT NULL REFERENCES players(id),
	PRIMARY KEY (card_id, player_id)
);

CREATE INDEX IF NOT EXISTS idx_series_year ON series(year);
CREATE INDEX IF NOT EXISTS idx_cards_series_id ON cards(series_id);
CREATE INDEX IF NOT EXISTS idx_card_players_player_id ON card_players(player_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "catalog: sqlite migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "catalog: sqlite ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) FindCandidates(ctx context.Context, yearMin, yearMax, limit int) ([]model.CandidateCard, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.card_number, c.print_run, c.is_rookie, s.name, s.year, p.first_name, p.last_name
		FROM cards c
		JOIN series s ON s.id = c.series_id
		LEFT JOIN card_players cp ON cp.card_id = c.id
		LEFT JOIN players p ON p.id = cp.player_id
		WHERE c.id IN (
			SELECT c2.id FROM cards c2
			JOIN series s2 ON s2.id = c2.series_id
			WHERE (? = 0 OR s2.year BETWEEN ? AND ?)
			ORDER BY c2.id
			LIMIT ?
		)
		ORDER BY c.id`,
		yearMin, yearMin, yearMax, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: sqlite find candidates")
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
			return nil, eris.Wrap(err, "catalog: sqlite scan candidate")
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
	return cards, eris.Wrap(rows.Err(), "catalog: sqlite find candidates iterate")
}

func (s *SQLiteStore) ImportChecklist(ctx context.Context, rows []ChecklistRow) (ImportResult, error) {
	var res ImportResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, eris.Wrap(err, "catalog: sqlite begin import")
	}
	defer tx.Rollback()

	type seriesKey struct {
		name string
		year int
	}
	type playerKey struct {
		first, last string
	}
	seriesIDs := map[seriesKey]int64{}
	playerIDs := map[playerKey]int64{}

	for _, row := range rows {
		if row.Series == "" || row.CardNumber == "" {
			return res, eris.Errorf("catalog: checklist row missing series or card number: %+v", row)
		}

		sk := seriesKey{row.Series, row.Year}
		seriesID, ok := seriesIDs[sk]
		if !ok {
			err := tx.QueryRowContext(ctx,
				`INSERT INTO series (name, year) VALUES (?, ?)
				 ON CONFLICT (name, year) DO UPDATE SET name = excluded.name RETURNING id`,
				row.Series, row.Year,
			).Scan(&seriesID)
			if err != nil {
				return res, eris.Wrapf(err, "catalog: sqlite upsert series %s %d", row.Series, row.Year)
			}
			seriesIDs[sk] = seriesID
		}

		var cardID int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO cards (series_id, card_number, print_run, is_rookie) VALUES (?, ?, ?, ?)
			 ON CONFLICT (series_id, card_number) DO UPDATE SET print_run = excluded.print_run, is_rookie = excluded.is_rookie RETURNING id`,
			seriesID, row.CardNumber, row.PrintRun, row.IsRookie,
		).Scan(&cardID)
		if err != nil {
			return res, eris.Wrapf(err, "catalog: sqlite upsert card %s #%s", row.Series, row.CardNumber)
		}
		res.Cards++

		if row.FirstName == "" && row.LastName == "" {
			continue
		}
		pk := playerKey{row.FirstName, row.LastName}
		playerID, ok := playerIDs[pk]
		if !ok {
			err := tx.QueryRowContext(ctx,
				`INSERT INTO players (first_name, last_name, team) VALUES (?, ?, ?)
				 ON CONFLICT (first_name, last_name) DO UPDATE SET team = excluded.team RETURNING id`,
				row.FirstName, row.LastName, row.Team,
			).Scan(&playerID)
			if err != nil {
				return res, eris.Wrapf(err, "catalog: sqlite upsert player %s %s", row.FirstName, row.LastName)
			}
			playerIDs[pk] = playerID
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO card_players (card_id, player_id) VALUES (?, ?)`,
			cardID, playerID,
		); err != nil {
			return res, eris.Wrapf(err, "catalog: sqlite link card %d player %d", cardID, playerID)
		}
	}

	if err := tx.Commit(); err != nil {
		return res, eris.Wrap(err, "catalog: sqlite commit import")
	}
	res.Series = len(seriesIDs)
	res.Players = len(playerIDs)
	return res, nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.name, s.year, COUNT(c.id)
		 FROM series s
		 LEFT JOIN cards c ON c.series_id = s.id
		 GROUP BY s.id, s.name, s.year
		 ORDER BY s.year, s.name`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: sqlite stats")
	}
	defer rows.Close()

	st := &Stats{}
	for rows.Next() {
		var ss SeriesStat
		if err := rows.Scan(&ss.Name, &ss.Year, &ss.Cards); err != nil {
			return nil, eris.Wrap(err, "catalog: sqlite scan series stat")
		}
		st.TotalCards += ss.Cards
		st.Series = append(st.Series, ss)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "catalog: sqlite stats iterate")
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&st.TotalPlayers); err != nil {
		return nil, eris.Wrap(err, "catalog: sqlite count players")
	}
	return st, nil
}
