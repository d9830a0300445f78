package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/article-fts/internal/apperr"
	"github.com/DjordjeVuckovic/article-fts/internal/ingest"
	"github.com/DjordjeVuckovic/article-fts/internal/ingest/mapping"
)

// bootstrap prepares the schema on every start, then optionally seeds the
// store. A failed migration is returned; a failed import is only logged and
// the API keeps serving whatever the store holds.
func bootstrap(ctx context.Context, store ingest.SeedStore, cfg SeedConfig) error {
	if err := store.Migrate(ctx, cfg.ResetSchema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	if !cfg.Enabled {
		slog.Info("Seeding on startup disabled")
		return nil
	}

	seeder := ingest.NewSeeder(store, ingest.SeederConfig{
		DatasetPath: cfg.DatasetPath,
		Mapping:     loadMapping(cfg.MappingPath),
		SkipMigrate: true,
	})

	if _, err := seeder.Run(ctx); err != nil {
		var ie *apperr.ImportError
		if errors.As(err, &ie) {
			slog.Error("Dataset import failed, starting with an empty store", "source", ie.Source, "error", ie.Err)
			return nil
		}
		slog.Error("Seeding failed", "error", err)
	}
	return nil
}

// loadMapping falls back to the built-in dataset mapping when path is empty
// or unusable.
func loadMapping(path string) *mapping.DataMapping {
	if path == "" {
		return mapping.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		slog.Error("Failed to open mapping config, using default mapping", "path", path, "error", err)
		return mapping.Default()
	}
	defer f.Close()

	dm, err := mapping.Load(f, true)
	if err != nil {
		slog.Error("Invalid mapping config, using default mapping", "path", path, "error", err)
		return mapping.Default()
	}
	return dm
}
