package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/article-fts/internal/storage/factory"
	"github.com/DjordjeVuckovic/article-fts/pkg/config/env"
)

const defaultDatasetPath = "dataset/Articles.csv"

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type AppConfig struct {
	ENV string
}

type DataImportConfig struct {
	DatasetPath     string
	DataMappingPath string
	// Force drops existing articles before the import.
	Force bool
	factory.StorageConfig
}

// Load reads .env files and the environment. Flags set on the command line
// are applied afterwards by applyFlags.
func (as *AppConfig) Load() (*DataImportConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/data_import/.env", "cmd/data_import/pg.env")
	if err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	dsPath := os.Getenv("DATASET_PATH")
	if dsPath == "" {
		dsPath = defaultDatasetPath
	}

	return &DataImportConfig{
		DatasetPath:     dsPath,
		DataMappingPath: os.Getenv("MAPPING_CONFIG_PATH"),
		Force:           os.Getenv("RESET_SCHEMA") == "true",
		StorageConfig:   *storageCfg,
	}, nil
}

func (c *DataImportConfig) validate() error {
	if c.DatasetPath == "" {
		return fmt.Errorf("dataset path is required")
	}
	if _, err := os.Stat(c.DatasetPath); err != nil {
		return fmt.Errorf("dataset %q is not readable: %w", c.DatasetPath, err)
	}
	if c.DataMappingPath != "" {
		if _, err := os.Stat(c.DataMappingPath); err != nil {
			return fmt.Errorf("mapping config %q is not readable: %w", c.DataMappingPath, err)
		}
	}
	return nil
}
