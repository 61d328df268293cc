package main

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shoebox-labs/cardscout-cli/internal/model"
)

var (
	batchCSV   string
	batchLimit int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process a CSV of purchased listings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if batchCSV == "" {
			return eris.New("--csv is required")
		}

		env, err := initEnv(ctx, "match")
		if err != nil {
			return err
		}
		defer env.Close()

		listings, err := readListingsCSV(batchCSV)
		if err != nil {
			return err
		}
		if batchLimit > 0 && len(listings) > batchLimit {
			listings = listings[:batchLimit]
		}
		zap.L().Info("starting batch", zap.Int("listings", len(listings)))

		summary, err := env.Processor.ProcessBatch(ctx, listings)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(summary), "encode summary")
	},
}

// readListingsCSV parses a two-column title,price CSV. A header row is
// detected by a non-numeric price column and skipped.
func readListingsCSV(path string) ([]model.RawListing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open listings %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "read listings %s", path)
	}

	var listings []model.RawListing
	for i, rec := range records {
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		listing := model.RawListing{Title: strings.TrimSpace(rec[0])}
		if len(rec) > 1 && strings.TrimSpace(rec[1]) != "" {
			price, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
			if err != nil {
				if i == 0 {
					// Header row.
					continue
				}
				return nil, eris.Wrapf(err, "listings %s row %d: bad price %q", path, i+1, rec[1])
			}
			listing.Price = price
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

func init() {
	batchCmd.Flags().StringVar(&batchCSV, "csv", "", "CSV file of title,price listings")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of listings to process (0 = all)")
	rootCmd.AddCommand(batchCmd)
}
