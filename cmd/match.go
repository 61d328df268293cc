package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/shoebox-labs/cardscout-cli/internal/pipeline"
)

var (
	matchTitle string
	matchPrice float64
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Classify and match a single listing title",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if matchTitle == "" {
			return eris.New("--title is required")
		}
		if err := cfg.Validate("match"); err != nil {
			return err
		}

		v, err := loadVocabulary()
		if err != nil {
			return err
		}
		cat, err := initCatalog(ctx)
		if err != nil {
			return err
		}
		defer cat.Close()

		p := pipeline.New(v, cat, cfg.PipelineOptions())
		result := p.DetectAndMatch(ctx, matchTitle, matchPrice)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(result), "encode result")
	},
}

// detectCmd runs only the detection stage, without touching the catalog.
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Score a title for card-ness without matching",
	RunE: func(cmd *cobra.Command, args []string) error {
		if matchTitle == "" {
			return eris.New("--title is required")
		}

		v, err := loadVocabulary()
		if err != nil {
			return err
		}

		det := pipeline.NewDetector(v, cfg.Pipeline.DetectionThreshold).Detect(matchTitle)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(det), "encode result")
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchTitle, "title", "", "listing title to process")
	matchCmd.Flags().Float64Var(&matchPrice, "price", 0, "listing price (informational)")
	detectCmd.Flags().StringVar(&matchTitle, "title", "", "listing title to score")
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(detectCmd)
}
