package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/article-fts/internal/ingest"
	"github.com/DjordjeVuckovic/article-fts/internal/ingest/mapping"
	"github.com/DjordjeVuckovic/article-fts/internal/storage/factory"
	"github.com/spf13/cobra"
)

const (
	flagDataset = "dataset"
	flagMapping = "mapping"
	flagForce   = "force"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("Import failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "data_import",
		Short: "Import a CSV dataset of articles",
		Long: `Import a CSV dataset into the configured article store.

The import is skipped when the store already holds articles, unless --force
is given, in which case existing articles are dropped first. Rows are mapped
to articles with a YAML mapping config; the built-in news dataset mapping is
used when none is given.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runImport,
	}
	c.Flags().StringP(flagDataset, "d", "", "Path to the CSV dataset (env DATASET_PATH)")
	c.Flags().StringP(flagMapping, "m", "", "Path to the YAML column mapping (env MAPPING_CONFIG_PATH)")
	c.Flags().BoolP(flagForce, "f", false, "Drop existing articles before importing (env RESET_SCHEMA)")
	return c
}

func runImport(c *cobra.Command, _ []string) error {
	cfg, err := NewAppConfig().Load()
	if err != nil {
		return err
	}
	applyFlags(c, cfg)
	if err := cfg.validate(); err != nil {
		return err
	}

	dm, err := loadMapping(cfg.DataMappingPath)
	if err != nil {
		return err
	}

	ctx := c.Context()
	slog.Info("Starting import", "storageType", cfg.Type, "dataset", cfg.DatasetPath, "force", cfg.Force)

	store, err := factory.NewStore(ctx, &cfg.StorageConfig)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer store.Close()

	seeder := ingest.NewSeeder(store, ingest.SeederConfig{
		DatasetPath: cfg.DatasetPath,
		Mapping:     dm,
		ResetSchema: cfg.Force,
	})

	inserted, err := seeder.Run(ctx)
	if err != nil {
		return err
	}

	total, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count articles: %w", err)
	}
	slog.Info("Import finished", "inserted", inserted, "total", total)
	return nil
}

// applyFlags overrides environment settings with flags the user set.
func applyFlags(c *cobra.Command, cfg *DataImportConfig) {
	if c.Flags().Changed(flagDataset) {
		cfg.DatasetPath, _ = c.Flags().GetString(flagDataset)
	}
	if c.Flags().Changed(flagMapping) {
		cfg.DataMappingPath, _ = c.Flags().GetString(flagMapping)
	}
	if c.Flags().Changed(flagForce) {
		cfg.Force, _ = c.Flags().GetBool(flagForce)
	}
}

func loadMapping(path string) (*mapping.DataMapping, error) {
	if path == "" {
		return mapping.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping config: %w", err)
	}
	defer f.Close()

	return mapping.Load(f, true)
}
