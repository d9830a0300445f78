package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/article-fts/internal/apperr"
	"github.com/DjordjeVuckovic/article-fts/internal/domain"
	"github.com/DjordjeVuckovic/article-fts/internal/storage"
	"github.com/DjordjeVuckovic/article-fts/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/article-fts/internal/types/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Article,Date,Heading,NewsType
"Dogs are loyal.",1/1/2015,Cats and Dogs,pets
"Stocks rallied on Monday.",1/2/2015,,business

"Rain all week.",,Weather,local
`

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Articles.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newMemStore(t *testing.T) *in_mem.InMemStore {
	t.Helper()
	s, err := in_mem.NewInMemStore(query.LanguageEnglish)
	require.NoError(t, err)
	return s
}

func TestSeeder_ImportsIntoEmptyStore(t *testing.T) {
	store := newMemStore(t)
	seeder := NewSeeder(store, SeederConfig{DatasetPath: writeDataset(t, sampleCSV)})

	n, err := seeder.Run(t.Context())

	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all, err := store.List(t.Context(), storage.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []domain.ArticleSummary{
		{ID: 1, Title: "Cats and Dogs"},
		{ID: 2, Title: "Untitled"},
		{ID: 3, Title: "Weather"},
	}, all)

	hits, err := store.SearchIndexed(t.Context(), query.NewText("dogs"), domain.TopK)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 2015, hits[0].CreatedAt.Year())
}

func TestSeeder_IsIdempotent(t *testing.T) {
	store := newMemStore(t)
	seeder := NewSeeder(store, SeederConfig{DatasetPath: writeDataset(t, sampleCSV)})

	_, err := seeder.Run(t.Context())
	require.NoError(t, err)
	n, err := seeder.Run(t.Context())
	require.NoError(t, err)

	assert.Zero(t, n)
	count, err := store.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestSeeder_ResetReimports(t *testing.T) {
	store := newMemStore(t)
	path := writeDataset(t, sampleCSV)

	_, err := NewSeeder(store, SeederConfig{DatasetPath: path}).Run(t.Context())
	require.NoError(t, err)
	n, err := NewSeeder(store, SeederConfig{DatasetPath: path, ResetSchema: true}).Run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	count, err := store.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestSeeder_MissingDatasetIsImportError(t *testing.T) {
	store := newMemStore(t)
	seeder := NewSeeder(store, SeederConfig{DatasetPath: filepath.Join(t.TempDir(), "missing.csv")})

	_, err := seeder.Run(t.Context())

	var importErr *apperr.ImportError
	require.True(t, errors.As(err, &importErr))
	count, err := store.Count(t.Context())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSeeder_BadRowLeavesStoreEmpty(t *testing.T) {
	store := newMemStore(t)
	csv := "Article,Date,Heading\nok,1/1/2015,Fine\nbad,not a date,Broken\n"
	seeder := NewSeeder(store, SeederConfig{DatasetPath: writeDataset(t, csv)})

	_, err := seeder.Run(t.Context())

	var importErr *apperr.ImportError
	require.True(t, errors.As(err, &importErr))
	assert.ErrorContains(t, err, "record 2")
	count, err := store.Count(t.Context())
	require.NoError(t, err)
	assert.Zero(t, count)
}

type failingBulkStore struct {
	*in_mem.InMemStore
}

func (f failingBulkStore) InsertBulk(context.Context, []domain.NewArticle) (int, error) {
	return 0, errors.New("disk full")
}

func TestSeeder_InsertFailureIsImportError(t *testing.T) {
	store := failingBulkStore{InMemStore: newMemStore(t)}
	seeder := NewSeeder(store, SeederConfig{DatasetPath: writeDataset(t, sampleCSV)})

	_, err := seeder.Run(t.Context())

	var importErr *apperr.ImportError
	require.True(t, errors.As(err, &importErr))
	assert.ErrorContains(t, err, "disk full")
}

type migrationCountingStore struct {
	*in_mem.InMemStore
	migrations int
}

func (m *migrationCountingStore) Migrate(ctx context.Context, reset bool) error {
	m.migrations++
	return m.InMemStore.Migrate(ctx, reset)
}

func TestSeeder_SkipMigrateLeavesSchemaAlone(t *testing.T) {
	store := &migrationCountingStore{InMemStore: newMemStore(t)}
	seeder := NewSeeder(store, SeederConfig{
		DatasetPath: writeDataset(t, sampleCSV),
		ResetSchema: true,
		SkipMigrate: true,
	})

	n, err := seeder.Run(t.Context())

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Zero(t, store.migrations)
}

func TestSeeder_MigratesByDefault(t *testing.T) {
	store := &migrationCountingStore{InMemStore: newMemStore(t)}
	seeder := NewSeeder(store, SeederConfig{DatasetPath: writeDataset(t, sampleCSV)})

	_, err := seeder.Run(t.Context())

	require.NoError(t, err)
	assert.Equal(t, 1, store.migrations)
}
