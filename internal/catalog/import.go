package catalog

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shoebox-labs/cardscout-cli/internal/resilience"
)

// importConcurrency caps the number of checklist files read and imported in
// parallel.
const importConcurrency = 4

// Checklist files carry eight columns:
// card_number, first_name, last_name, team, series, year, rookie, print_run.
const checklistColumns = 8

// ReadChecklistFile parses a checklist file, dispatching on extension.
// Files ending in .xlsx are read as spreadsheets; everything else as CSV.
func ReadChecklistFile(path string) ([]ChecklistRow, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadChecklistXLSX(path)
	}
	return ReadChecklistCSV(path)
}

// ReadChecklistCSV parses a CSV checklist. A header row is detected by a
// non-numeric year column and skipped.
func ReadChecklistCSV(path string) ([]ChecklistRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: open checklist %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read checklist %s", path)
	}
	return parseChecklistRecords(path, records)
}

// ReadChecklistXLSX parses the first sheet of an XLSX checklist.
func ReadChecklistXLSX(path string) ([]ChecklistRow, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: open checklist %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("catalog: checklist %s has no sheets", path)
	}

	var records [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		records = append(records, cells)
	}
	return parseChecklistRecords(path, records)
}

func parseChecklistRecords(path string, records [][]string) ([]ChecklistRow, error) {
	var rows []ChecklistRow
	for i, rec := range records {
		if isBlank(rec) {
			continue
		}
		if len(rec) < checklistColumns-1 {
			return nil, eris.Errorf("catalog: %s row %d: expected %d columns, got %d", path, i+1, checklistColumns, len(rec))
		}

		year, err := strconv.Atoi(strings.TrimSpace(rec[5]))
		if err != nil {
			if i == 0 {
				// Header row.
				continue
			}
			return nil, eris.Wrapf(err, "catalog: %s row %d: bad year %q", path, i+1, rec[5])
		}

		row := ChecklistRow{
			CardNumber: strings.TrimSpace(rec[0]),
			FirstName:  strings.TrimSpace(rec[1]),
			LastName:   strings.TrimSpace(rec[2]),
			Team:       strings.TrimSpace(rec[3]),
			Series:     strings.TrimSpace(rec[4]),
			Year:       year,
			IsRookie:   parseRookie(rec[6]),
		}
		if len(rec) >= checklistColumns {
			if pr := strings.TrimSpace(rec[7]); pr != "" {
				n, err := strconv.Atoi(pr)
				if err != nil {
					return nil, eris.Wrapf(err, "catalog: %s row %d: bad print run %q", path, i+1, pr)
				}
				row.PrintRun = &n
			}
		}
		if row.CardNumber == "" || row.Series == "" {
			return nil, eris.Errorf("catalog: %s row %d: missing card number or series", path, i+1)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRookie(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "rc", "rookie":
		return true
	}
	return false
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// ImportFiles reads and imports each checklist file, a few in parallel.
// The first failure cancels the remaining files.
func ImportFiles(ctx context.Context, store Store, paths []string) (ImportResult, error) {
	var (
		mu    sync.Mutex
		total ImportResult
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(importConcurrency)
	for _, path := range paths {
		g.Go(func() error {
			rows, err := ReadChecklistFile(path)
			if err != nil {
				return err
			}

			// Concurrent files contend for the SQLite writer; retry on
			// transient lock errors instead of failing the whole import.
			var res ImportResult
			err = resilience.Do(ctx, resilience.DefaultRetryConfig(), func(ctx context.Context) error {
				var ierr error
				res, ierr = store.ImportChecklist(ctx, rows)
				return ierr
			})
			if err != nil {
				return eris.Wrapf(err, "catalog: import %s", path)
			}
			zap.L().Info("imported checklist",
				zap.String("file", path),
				zap.Int("cards", res.Cards),
				zap.Int("series", res.Series),
				zap.Int("players", res.Players))

			mu.Lock()
			total.Cards += res.Cards
			total.Series += res.Series
			total.Players += res.Players
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return total, err
	}
	return total, nil
}
