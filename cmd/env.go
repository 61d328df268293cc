package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/shoebox-labs/cardscout-cli/internal/catalog"
	"github.com/shoebox-labs/cardscout-cli/internal/pipeline"
	"github.com/shoebox-labs/cardscout-cli/internal/purchases"
	"github.com/shoebox-labs/cardscout-cli/internal/vocab"
)

// appEnv holds the initialized stores and pipeline shared by the match,
// batch and serve commands.
type appEnv struct {
	Catalog   catalog.Store
	Purchases purchases.Store
	Pipeline  *pipeline.Pipeline
	Processor *purchases.Processor
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Purchases != nil {
		_ = e.Purchases.Close()
	}
	if e.Catalog != nil {
		_ = e.Catalog.Close()
	}
}

// loadVocabulary returns the configured vocabulary, falling back to the
// built-in defaults when no override file is set.
func loadVocabulary() (vocab.Vocabulary, error) {
	if cfg.Vocab.Path == "" {
		return vocab.Default(), nil
	}
	v, err := vocab.LoadFile(cfg.Vocab.Path)
	if err != nil {
		return vocab.Vocabulary{}, eris.Wrapf(err, "load vocabulary %s", cfg.Vocab.Path)
	}
	zap.L().Info("vocabulary override loaded", zap.String("path", cfg.Vocab.Path))
	return v, nil
}

// initCatalog opens and migrates the catalog store.
func initCatalog(ctx context.Context) (catalog.Store, error) {
	cat, err := catalog.Open(ctx, cfg.Catalog.Driver, cfg.Catalog.DatabaseURL, &cfg.Catalog.Pool)
	if err != nil {
		return nil, eris.Wrap(err, "open catalog")
	}
	if err := cat.Migrate(ctx); err != nil {
		_ = cat.Close()
		return nil, eris.Wrap(err, "migrate catalog")
	}
	return cat, nil
}

// initEnv wires the catalog, the purchase store, the pipeline and the
// purchase processor. Callers should defer env.Close().
func initEnv(ctx context.Context, mode string) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	v, err := loadVocabulary()
	if err != nil {
		return nil, err
	}

	cat, err := initCatalog(ctx)
	if err != nil {
		return nil, err
	}

	pur, err := purchases.NewSQLite(cfg.Purchases.DatabasePath)
	if err != nil {
		_ = cat.Close()
		return nil, eris.Wrap(err, "open purchase store")
	}
	if err := pur.Migrate(ctx); err != nil {
		_ = pur.Close()
		_ = cat.Close()
		return nil, eris.Wrap(err, "migrate purchase store")
	}

	p := pipeline.New(v, cat, cfg.PipelineOptions())
	proc := purchases.NewProcessor(p, pur, time.Duration(cfg.Batch.IntervalMS)*time.Millisecond)

	return &appEnv{
		Catalog:   cat,
		Purchases: pur,
		Pipeline:  p,
		Processor: proc,
	}, nil
}
