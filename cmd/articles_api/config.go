package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/article-fts/internal/domain"
	"github.com/DjordjeVuckovic/article-fts/internal/storage/factory"
	"github.com/DjordjeVuckovic/article-fts/internal/types/query"
	"github.com/DjordjeVuckovic/article-fts/pkg/config/env"
)

const (
	defaultDatasetPath = "dataset/Articles.csv"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type SeedConfig struct {
	Enabled     bool
	ResetSchema bool
	DatasetPath string
	// MappingPath is optional; the built-in dataset mapping is used when empty.
	MappingPath string
}

type ApiConfig struct {
	LogLevel  slog.Level
	TopK      int
	Highlight query.Highlight
	Seed      SeedConfig
	factory.StorageConfig
}

func (as *AppConfig) Load() (*ApiConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/articles_api/.env")
	if err != nil {
		slog.Info("Failed to load .env, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	return loadApiConfig(storageCfg)
}

func loadApiConfig(storageCfg *factory.StorageConfig) (*ApiConfig, error) {
	level, err := parseLogLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	topK := domain.TopK
	if raw := os.Getenv("SEARCH_TOP_K"); raw != "" {
		topK, err = strconv.Atoi(raw)
		if err != nil || topK <= 0 {
			return nil, fmt.Errorf("invalid SEARCH_TOP_K value: %q", raw)
		}
	}

	hl := query.Highlight{
		StartSel: os.Getenv("HIGHLIGHT_START_SEL"),
		StopSel:  os.Getenv("HIGHLIGHT_STOP_SEL"),
	}.WithDefaults()
	if err := hl.Validate(); err != nil {
		return nil, fmt.Errorf("invalid highlight configuration: %w", err)
	}

	seedEnabled, err := parseBool("SEED_ON_STARTUP", true)
	if err != nil {
		return nil, err
	}
	resetSchema, err := parseBool("RESET_SCHEMA", false)
	if err != nil {
		return nil, err
	}

	datasetPath := os.Getenv("DATASET_PATH")
	if datasetPath == "" {
		datasetPath = defaultDatasetPath
	}

	return &ApiConfig{
		LogLevel:  level,
		TopK:      topK,
		Highlight: hl,
		Seed: SeedConfig{
			Enabled:     seedEnabled,
			ResetSchema: resetSchema,
			DatasetPath: datasetPath,
			MappingPath: os.Getenv("MAPPING_CONFIG_PATH"),
		},
		StorageConfig: *storageCfg,
	}, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	if raw == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL value: %q", raw)
	}
	return level, nil
}

func parseBool(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value: %q", key, raw)
	}
	return v, nil
}
