package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shoebox-labs/cardscout-cli/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the card catalog",
}

var catalogMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the catalog schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("catalog"); err != nil {
			return err
		}

		cat, err := initCatalog(ctx)
		if err != nil {
			return err
		}
		defer cat.Close()

		zap.L().Info("catalog schema up to date",
			zap.String("driver", cfg.Catalog.Driver))
		return nil
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <files...>",
	Short: "Import set checklists (CSV or XLSX) into the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("catalog"); err != nil {
			return err
		}

		cat, err := initCatalog(ctx)
		if err != nil {
			return err
		}
		defer cat.Close()

		total, err := catalog.ImportFiles(ctx, cat, args)
		if err != nil {
			return eris.Wrap(err, "import checklists")
		}

		zap.L().Info("import complete",
			zap.Int("files", len(args)),
			zap.Int("cards", total.Cards),
			zap.Int("series", total.Series),
			zap.Int("players", total.Players))
		return nil
	},
}

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print catalog contents by series",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("catalog"); err != nil {
			return err
		}

		cat, err := initCatalog(ctx)
		if err != nil {
			return err
		}
		defer cat.Close()

		stats, err := cat.Stats(ctx)
		if err != nil {
			return eris.Wrap(err, "catalog stats")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(stats), "encode stats")
	},
}

func init() {
	catalogCmd.AddCommand(catalogMigrateCmd)
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogStatsCmd)
	rootCmd.AddCommand(catalogCmd)
}
