package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/DjordjeVuckovic/article-fts/internal/apperr"
	"github.com/DjordjeVuckovic/article-fts/internal/domain"
	"github.com/DjordjeVuckovic/article-fts/internal/ingest/mapping"
	"github.com/DjordjeVuckovic/article-fts/internal/ingest/reader"
	"github.com/DjordjeVuckovic/article-fts/internal/storage"
)

// SeedStore is what the seeder needs from a backend.
type SeedStore interface {
	storage.SchemaManager
	InsertBulk(ctx context.Context, articles []domain.NewArticle) (int, error)
	Count(ctx context.Context) (int64, error)
}

type SeederConfig struct {
	DatasetPath string
	Mapping     *mapping.DataMapping
	// ResetSchema drops every article before import.
	ResetSchema bool
	// SkipMigrate leaves the schema alone when the caller already prepared it.
	// ResetSchema is ignored then.
	SkipMigrate bool
}

// Seeder loads a dataset into an empty store exactly once. Running it again
// against a populated store is a no-op.
type Seeder struct {
	store SeedStore
	cfg   SeederConfig
	open  func(path string) (io.ReadCloser, error)
}

func NewSeeder(store SeedStore, cfg SeederConfig) *Seeder {
	if cfg.Mapping == nil {
		cfg.Mapping = mapping.Default()
	}
	return &Seeder{
		store: store,
		cfg:   cfg,
		open: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// Run prepares the schema unless SkipMigrate is set, then imports the dataset when the store is empty.
// It returns how many articles were inserted. Dataset problems are reported
// as apperr.ImportError and leave the store empty.
func (s *Seeder) Run(ctx context.Context) (int, error) {
	start := time.Now()

	if !s.cfg.SkipMigrate {
		if err := s.store.Migrate(ctx, s.cfg.ResetSchema); err != nil {
			return 0, fmt.Errorf("failed to prepare schema: %w", err)
		}
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	if count > 0 {
		slog.Info("Articles already present, skipping import", "count", count)
		return 0, nil
	}

	articles, err := s.load()
	if err != nil {
		return 0, apperr.NewImport(s.cfg.DatasetPath, err)
	}
	if len(articles) == 0 {
		slog.Warn("Dataset has no rows", "path", s.cfg.DatasetPath)
		return 0, nil
	}

	inserted, err := s.store.InsertBulk(ctx, articles)
	if err != nil {
		return 0, apperr.NewImport(s.cfg.DatasetPath, err)
	}

	slog.Info("Articles imported", "count", inserted, "path", s.cfg.DatasetPath, "duration", time.Since(start))
	return inserted, nil
}

func (s *Seeder) load() ([]domain.NewArticle, error) {
	mapper, err := NewArticleMapper(s.cfg.Mapping)
	if err != nil {
		return nil, err
	}

	file, err := s.open(s.cfg.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	records, err := reader.NewCSVReader(file).Read()
	if err != nil {
		return nil, err
	}

	articles := make([]domain.NewArticle, 0, len(records))
	for i, record := range records {
		article, err := mapper.Map(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		articles = append(articles, article)
	}
	return articles, nil
}
