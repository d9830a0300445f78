package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/article-fts/internal/storage"
	"github.com/DjordjeVuckovic/article-fts/internal/storage/es"
	"github.com/DjordjeVuckovic/article-fts/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/article-fts/internal/storage/pg"
)

// Backend is a store that also manages its own schema.
type Backend interface {
	storage.Store
	storage.SchemaManager
}

// NewStore creates the backend selected by cfg.Type.
func NewStore(ctx context.Context, cfg *StorageConfig) (Backend, error) {
	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("missing PostgreSQL configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		store, err := pg.NewStore(pool, cfg.Language)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil

	case storage.ES:
		if cfg.Es == nil {
			return nil, fmt.Errorf("missing Elasticsearch configuration")
		}
		store, err := es.NewStore(ctx, *cfg.Es, cfg.Language)
		if err != nil {
			return nil, err
		}
		return store, nil

	case storage.InMem:
		store, err := in_mem.NewInMemStore(cfg.Language)
		if err != nil {
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}
