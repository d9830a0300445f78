package es

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"testing"

	"github.com/DjordjeVuckovic/article-fts/internal/apperr"
	"github.com/DjordjeVuckovic/article-fts/internal/domain"
	"github.com/DjordjeVuckovic/article-fts/internal/fts"
	"github.com/DjordjeVuckovic/article-fts/internal/storage"
	"github.com/DjordjeVuckovic/article-fts/internal/types/query"
	pkgtesting "github.com/DjordjeVuckovic/article-fts/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

var (
	testCtx   context.Context
	testStore *Store
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	testCtx = context.Background()

	container, err := pkgtesting.StartESContainer(testCtx)
	if err != nil {
		panic(err)
	}

	testStore, err = NewStore(testCtx, ClientConfig{
		Addresses: []string{container.Address},
		IndexName: "articles_test",
	}, query.LanguageEnglish)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	_ = testcontainers.TerminateContainer(container.Container)
	os.Exit(code)
}

func requireES(t *testing.T) {
	t.Helper()
	if testStore == nil {
		t.Skip("elasticsearch container not started in -short mode")
	}
}

func resetIndex(t *testing.T) {
	t.Helper()
	require.NoError(t, testStore.Migrate(testCtx, true))
}

func seed(t *testing.T, articles ...domain.NewArticle) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(articles))
	for _, a := range articles {
		saved, err := testStore.Insert(testCtx, a)
		require.NoError(t, err)
		ids = append(ids, saved.ID)
	}
	return ids
}

func TestStore_InsertGetUpdate(t *testing.T) {
	requireES(t)
	resetIndex(t)

	ids := seed(t, domain.NewArticle{Title: "Cats", Content: "Cats sleep."})
	assert.Equal(t, []int64{1}, ids)

	got, err := testStore.Get(testCtx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Cats", got.Title)

	updated, err := testStore.Update(testCtx, ids[0], "Dogs", "Dogs run.")
	require.NoError(t, err)
	assert.Equal(t, got.CreatedAt.UTC(), updated.CreatedAt.UTC())
	assert.NotContains(t, updated.SearchVector, "'cat'")

	_, err = testStore.Get(testCtx, 999)
	var nf *apperr.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestStore_InsertBulkListCount(t *testing.T) {
	requireES(t)
	resetIndex(t)

	articles := make([]domain.NewArticle, 0, 12)
	for i := 0; i < 12; i++ {
		articles = append(articles, domain.NewArticle{Title: fmt.Sprintf("Report %d", i), Content: "Markets rallied."})
	}
	n, err := testStore.InsertBulk(testCtx, articles)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	all, err := testStore.List(testCtx, storage.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 12)
	assert.Equal(t, domain.ArticleSummary{ID: 1, Title: "Report 0"}, all[0])

	capped, err := testStore.List(testCtx, storage.ListOptions{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, capped, 3)

	count, err := testStore.Count(testCtx)
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
}

func TestSearch_CatsAndDogsScenario(t *testing.T) {
	requireES(t)
	resetIndex(t)

	ids := seed(t, domain.NewArticle{Title: "Cats and Dogs", Content: "Dogs are loyal."})
	q := query.NewText("dogs")

	basic, err := testStore.SearchIndexed(testCtx, q, domain.TopK)
	require.NoError(t, err)
	require.Len(t, basic, 1)
	assert.Equal(t, ids[0], basic[0].ID)

	highlighted, err := testStore.SearchHighlighted(testCtx, q, query.DefaultHighlight(), domain.TopK)
	require.NoError(t, err)
	require.Len(t, highlighted, 1)
	assert.Equal(t, "Cats and <b>Dogs</b>", highlighted[0].HighlightedTitle)

	dynamic, err := testStore.SearchDynamic(testCtx, q, domain.TopK)
	require.NoError(t, err)
	require.Len(t, dynamic, 1)
	assert.Greater(t, dynamic[0].Rank, 0.0)

	none, err := testStore.SearchIndexed(testCtx, query.NewText("zzzzznotaword"), domain.TopK)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearch_TopKAndTieBreak(t *testing.T) {
	requireES(t)
	resetIndex(t)

	for i := 0; i < 10; i++ {
		seed(t, domain.NewArticle{Title: "Dog", Content: "same"})
	}

	hits, err := testStore.SearchIndexed(testCtx, query.NewText("dog"), domain.TopK)
	require.NoError(t, err)
	require.Len(t, hits, domain.TopK)

	dynamic, err := testStore.SearchDynamic(testCtx, query.NewText("dog"), domain.TopK)
	require.NoError(t, err)
	require.Len(t, dynamic, domain.TopK)
	assert.Equal(t, []int64{10, 9, 8, 7, 6}, []int64{dynamic[0].ID, dynamic[1].ID, dynamic[2].ID, dynamic[3].ID, dynamic[4].ID})
}

func TestSearch_IndexedScoresAreBM25AndDynamicAreTsRank(t *testing.T) {
	requireES(t)
	resetIndex(t)

	article := domain.NewArticle{Title: "Cats and Dogs", Content: "Dogs are loyal."}
	seed(t, article)
	q := query.NewText("dogs")

	analyzer, err := fts.NewAnalyzer(query.LanguageEnglish)
	require.NoError(t, err)
	want := fts.Rank(analyzer.Vectorize(article.Title, article.Content), analyzer.ParseQuery("dogs"))

	dynamic, err := testStore.SearchDynamic(testCtx, q, domain.TopK)
	require.NoError(t, err)
	require.Len(t, dynamic, 1)
	assert.InDelta(t, want, dynamic[0].Rank, 1e-9)

	indexed, err := testStore.SearchIndexed(testCtx, q, domain.TopK)
	require.NoError(t, err)
	require.Len(t, indexed, 1)
	assert.Greater(t, indexed[0].Rank, 0.0)
	assert.NotEqual(t, want, indexed[0].Rank)
}
