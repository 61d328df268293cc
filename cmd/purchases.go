package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/shoebox-labs/cardscout-cli/internal/model"
	"github.com/shoebox-labs/cardscout-cli/internal/purchases"
)

var (
	purchasesStatus string
	purchasesLimit  int
)

var purchasesCmd = &cobra.Command{
	Use:   "purchases",
	Short: "Inspect processed purchases",
}

var purchasesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List processed purchases",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := openPurchaseStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		list, err := store.ListPurchases(ctx, purchases.Filter{
			Status: model.PipelineStatus(purchasesStatus),
			Limit:  purchasesLimit,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(list), "encode purchases")
	},
}

var purchasesReviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "List match suggestions pending review",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := openPurchaseStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		items, err := store.PendingReviews(ctx, purchasesLimit)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(items), "encode reviews")
	},
}

func openPurchaseStore(ctx context.Context) (purchases.Store, error) {
	store, err := purchases.NewSQLite(cfg.Purchases.DatabasePath)
	if err != nil {
		return nil, eris.Wrap(err, "open purchase store")
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, eris.Wrap(err, "migrate purchase store")
	}
	return store, nil
}

func init() {
	purchasesCmd.PersistentFlags().StringVar(&purchasesStatus, "status", "", "filter by pipeline status")
	purchasesCmd.PersistentFlags().IntVar(&purchasesLimit, "limit", 50, "max rows to return")
	purchasesCmd.AddCommand(purchasesListCmd)
	purchasesCmd.AddCommand(purchasesReviewsCmd)
	rootCmd.AddCommand(purchasesCmd)
}
