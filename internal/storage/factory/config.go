package factory

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/article-fts/internal/storage"
	"github.com/DjordjeVuckovic/article-fts/internal/storage/es"
	"github.com/DjordjeVuckovic/article-fts/internal/storage/pg"
	"github.com/DjordjeVuckovic/article-fts/internal/types/query"
	"github.com/DjordjeVuckovic/article-fts/pkg/utils"
)

type StorageConfig struct {
	storage.Type
	Pg       *pg.PoolConfig
	Es       *es.ClientConfig
	Language query.Language
}

func LoadEnv() (*StorageConfig, error) {
	storageType := (storage.Type)(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		slog.Info("STORAGE_TYPE is not set, using default", "default", storage.PG)
		storageType = storage.PG
	}
	if storageType != storage.ES && storageType != storage.PG && storageType != storage.InMem {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			[]storage.Type{storage.ES, storage.PG, storage.InMem})
	}

	lang, err := query.Language(os.Getenv("SEARCH_LANGUAGE")).Parse()
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_LANGUAGE: %w", err)
	}

	var esCfg *es.ClientConfig
	if storageType == storage.ES {
		esCfg = &es.ClientConfig{
			Addresses: utils.SplitNonEmpty(os.Getenv("ES_ADDRESSES"), ","),
			IndexName: os.Getenv("ES_INDEX_NAME"),
			Username:  os.Getenv("ES_USERNAME"),
			Password:  os.Getenv("ES_PASSWORD"),
		}
		if len(esCfg.Addresses) == 0 {
			slog.Error("Elasticsearch configuration is incomplete", "addresses", esCfg.Addresses)
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: ES_ADDRESSES is missing")
		}
		if raw := os.Getenv("ES_DYNAMIC_CANDIDATES"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid ES_DYNAMIC_CANDIDATES value: %q", raw)
			}
			esCfg.DynamicCandidates = n
		}
	}

	var pgCfg *pg.PoolConfig
	if storageType == storage.PG {
		pgCfg = &pg.PoolConfig{
			ConnStr: os.Getenv("PG_CONNECTION_STRING"),
		}
		if pgCfg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
	}

	return &StorageConfig{
		Type:     storageType,
		Pg:       pgCfg,
		Es:       esCfg,
		Language: lang,
	}, nil
}
