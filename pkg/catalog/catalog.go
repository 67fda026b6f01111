// Package catalog is the public entry point for building an elestrals card
// catalog from a data directory. It keeps the store and importer internal.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/elestrals/internal/importer"
	"github.com/mesh-intelligence/elestrals/internal/sqlite"
	"github.com/mesh-intelligence/elestrals/pkg/types"
)

// Summary reports the outcome of an import run.
type Summary = importer.Summary

// Options tunes an import. Zero values take the importer defaults.
type Options struct {
	Logger    *slog.Logger
	CacheSize int
	DryRun    bool
}

// Import opens the catalog described by cfg, loads every card under
// cfg.DataDir into it, and closes it.
//
// Example:
//
//	sum, err := catalog.Import(ctx, types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: "data",
//	    DBPath:  "sqlite/elestrals_api.sqlite",
//	}, catalog.Options{})
func Import(ctx context.Context, cfg types.Config, opts Options) (sum Summary, err error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}
	if cfg.DataDir == "" {
		return Summary{}, fmt.Errorf("import: %w", types.ErrDataDirMissing)
	}

	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	im, err := importer.New(store, importer.Options{
		Logger:    opts.Logger,
		CacheSize: opts.CacheSize,
		DryRun:    opts.DryRun,
	})
	if err != nil {
		return Summary{}, err
	}
	return im.Run(ctx, cfg.DataDir)
}

// ImportCardsFromJSON imports <dataPath>/cards into the SQLite database at
// dbPath with default options.
func ImportCardsFromJSON(ctx context.Context, dataPath, dbPath string) (Summary, error) {
	return Import(ctx, types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataPath,
		DBPath:  dbPath,
	}, Options{})
}
