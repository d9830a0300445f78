package in_mem

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/article-fts/internal/apperr"
	"github.com/DjordjeVuckovic/article-fts/internal/domain"
	"github.com/DjordjeVuckovic/article-fts/internal/storage"
	"github.com/DjordjeVuckovic/article-fts/internal/types/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *InMemStore {
	t.Helper()
	s, err := NewInMemStore(query.LanguageEnglish)
	require.NoError(t, err)
	return s
}

func seed(t *testing.T, s *InMemStore, articles ...domain.NewArticle) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(articles))
	for _, a := range articles {
		saved, err := s.Insert(t.Context(), a)
		require.NoError(t, err)
		ids = append(ids, saved.ID)
	}
	return ids
}

func TestInsert_AssignsIdsAndTimestamps(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s, err := NewInMemStore(query.LanguageEnglish, WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	first, err := s.Insert(t.Context(), domain.NewArticle{Title: "First", Content: "one"})
	require.NoError(t, err)
	created := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	second, err := s.Insert(t.Context(), domain.NewArticle{Title: "Second", Content: "two", CreatedAt: &created})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, fixed, first.CreatedAt)
	assert.Equal(t, fixed, first.UpdatedAt)
	assert.Equal(t, created, second.CreatedAt)
}

func TestInsertThenGet_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ids := seed(t, s, domain.NewArticle{Title: "Cats and Dogs", Content: "Dogs are loyal."})

	got, err := s.Get(t.Context(), ids[0])
	require.NoError(t, err)

	assert.Equal(t, "Cats and Dogs", got.Title)
	assert.Equal(t, "Dogs are loyal.", got.Content)
	assert.NotEmpty(t, got.SearchVector)
	assert.Contains(t, got.SearchVector, "'dog':")
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(t.Context(), 99)

	var nf *apperr.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, int64(99), nf.ID)
}

func TestUpdate_RecomputesVectorAndTimestamp(t *testing.T) {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := NewInMemStore(query.LanguageEnglish, WithClock(func() time.Time { return clock }))
	require.NoError(t, err)
	ids := seed(t, s, domain.NewArticle{Title: "Cats", Content: "Cats sleep."})

	clock = clock.Add(time.Hour)
	updated, err := s.Update(t.Context(), ids[0], "Dogs", "Dogs run.")
	require.NoError(t, err)

	assert.Equal(t, clock, updated.UpdatedAt)
	assert.Equal(t, clock.Add(-time.Hour), updated.CreatedAt)
	assert.NotContains(t, updated.SearchVector, "'cat'")

	hits, err := s.SearchIndexed(t.Context(), query.NewText("dogs"), domain.TopK)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, ids[0], hits[0].ID)

	hits, err = s.SearchIndexed(t.Context(), query.NewText("cats"), domain.TopK)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestUpdate_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Update(t.Context(), 5, "x", "y")

	var nf *apperr.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestList_ProjectionOrderedByID(t *testing.T) {
	s := newTestStore(t)
	seed(t, s,
		domain.NewArticle{Title: "A", Content: "a"},
		domain.NewArticle{Title: "B", Content: "b"},
		domain.NewArticle{Title: "C", Content: "c"},
	)

	all, err := s.List(t.Context(), storage.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []domain.ArticleSummary{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}, {ID: 3, Title: "C"}}, all)

	capped, err := s.List(t.Context(), storage.ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, capped, 2)
}

func TestCount_EqualsUnboundedList(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 7; i++ {
		seed(t, s, domain.NewArticle{Title: fmt.Sprintf("Article %d", i), Content: "body"})
	}

	count, err := s.Count(t.Context())
	require.NoError(t, err)
	all, err := s.List(t.Context(), storage.ListOptions{})
	require.NoError(t, err)

	assert.Equal(t, count, int64(len(all)))
}

func TestInsertBulk_AssignsSequentialIds(t *testing.T) {
	s := newTestStore(t)

	n, err := s.InsertBulk(t.Context(), []domain.NewArticle{
		{Title: "One", Content: "1"},
		{Title: "Two", Content: "2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := s.List(t.Context(), storage.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []domain.ArticleSummary{{ID: 1, Title: "One"}, {ID: 2, Title: "Two"}}, all)
}

func TestInsertBulk_CancelledContextWritesNothing(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := s.InsertBulk(ctx, []domain.NewArticle{{Title: "One", Content: "1"}})
	require.Error(t, err)

	count, err := s.Count(t.Context())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSearch_CatsAndDogsScenario(t *testing.T) {
	s := newTestStore(t)
	ids := seed(t, s, domain.NewArticle{Title: "Cats and Dogs", Content: "Dogs are loyal."})
	q := query.NewText("dogs")

	basic, err := s.SearchIndexed(t.Context(), q, domain.TopK)
	require.NoError(t, err)
	require.Len(t, basic, 1)
	assert.Equal(t, ids[0], basic[0].ID)

	highlighted, err := s.SearchHighlighted(t.Context(), q, query.DefaultHighlight(), domain.TopK)
	require.NoError(t, err)
	require.Len(t, highlighted, 1)
	assert.Contains(t, highlighted[0].HighlightedContent, "<b>Dogs</b>")
	assert.Equal(t, "Cats and <b>Dogs</b>", highlighted[0].HighlightedTitle)
	assert.Equal(t, "Dogs are loyal.", highlighted[0].Content)

	dynamic, err := s.SearchDynamic(t.Context(), q, domain.TopK)
	require.NoError(t, err)
	require.Len(t, dynamic, 1)
	assert.Equal(t, ids[0], dynamic[0].ID)
	assert.Greater(t, dynamic[0].Rank, 0.0)
}

func TestSearch_UnknownWordReturnsEmpty(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, domain.NewArticle{Title: "Cats and Dogs", Content: "Dogs are loyal."})
	q := query.NewText("zzzzznotaword")

	basic, err := s.SearchIndexed(t.Context(), q, domain.TopK)
	require.NoError(t, err)
	assert.Empty(t, basic)

	highlighted, err := s.SearchHighlighted(t.Context(), q, query.DefaultHighlight(), domain.TopK)
	require.NoError(t, err)
	assert.Empty(t, highlighted)

	dynamic, err := s.SearchDynamic(t.Context(), q, domain.TopK)
	require.NoError(t, err)
	assert.Empty(t, dynamic)
}

func TestSearch_TopKEnforced(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 10; i++ {
		seed(t, s, domain.NewArticle{Title: fmt.Sprintf("Dog story %d", i), Content: "A tale about a dog."})
	}
	q := query.NewText("dog")

	basic, err := s.SearchIndexed(t.Context(), q, domain.TopK)
	require.NoError(t, err)
	assert.Len(t, basic, 5)

	highlighted, err := s.SearchHighlighted(t.Context(), q, query.DefaultHighlight(), domain.TopK)
	require.NoError(t, err)
	assert.Len(t, highlighted, 5)

	dynamic, err := s.SearchDynamic(t.Context(), q, domain.TopK)
	require.NoError(t, err)
	assert.Len(t, dynamic, 5)
}

func TestSearch_TiesBrokenByIdDescending(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 3; i++ {
		seed(t, s, domain.NewArticle{Title: "Dog", Content: "same"})
	}

	hits, err := s.SearchIndexed(t.Context(), query.NewText("dog"), domain.TopK)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, []int64{3, 2, 1}, []int64{hits[0].ID, hits[1].ID, hits[2].ID})
}

func TestSearch_TitleMatchOutranksContentMatch(t *testing.T) {
	s := newTestStore(t)
	ids := seed(t, s,
		domain.NewArticle{Title: "Weather report", Content: "Dogs enjoy rain."},
		domain.NewArticle{Title: "Dogs enjoy rain", Content: "Weather report."},
	)

	hits, err := s.SearchIndexed(t.Context(), query.NewText("dogs"), domain.TopK)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, ids[1], hits[0].ID)
	assert.GreaterOrEqual(t, hits[0].Rank, hits[1].Rank)
}

func TestSearch_DynamicMatchesIndexedOrdering(t *testing.T) {
	s := newTestStore(t)
	seed(t, s,
		domain.NewArticle{Title: "Climate change", Content: "Oceans are warming."},
		domain.NewArticle{Title: "Ocean life", Content: "Climate shifts affect fish. Climate matters."},
		domain.NewArticle{Title: "Sports", Content: "Climate of the league."},
		domain.NewArticle{Title: "Climate", Content: "Climate climate."},
		domain.NewArticle{Title: "Cooking", Content: "No match here."},
	)
	q := query.NewText("climate")

	indexed, err := s.SearchIndexed(t.Context(), q, domain.TopK)
	require.NoError(t, err)
	dynamic, err := s.SearchDynamic(t.Context(), q, domain.TopK)
	require.NoError(t, err)

	require.Len(t, dynamic, len(indexed))
	for i := range indexed {
		assert.Equal(t, indexed[i].ID, dynamic[i].ID)
		assert.InDelta(t, indexed[i].Rank, dynamic[i].Rank, 1e-9)
	}
}

func TestSearch_CustomHighlightMarkers(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, domain.NewArticle{Title: "Cats and Dogs", Content: "Dogs are loyal."})

	hits, err := s.SearchHighlighted(t.Context(), query.NewText("cats"), query.Highlight{StartSel: "<mark>", StopSel: "</mark>"}, domain.TopK)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	assert.Equal(t, "<mark>Cats</mark> and Dogs", hits[0].HighlightedTitle)
	assert.Equal(t, "Dogs are loyal.", hits[0].HighlightedContent)
}

func TestMigrate_ResetDropsArticles(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, domain.NewArticle{Title: "A", Content: "a"})

	require.NoError(t, s.Migrate(t.Context(), false))
	count, err := s.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, s.Migrate(t.Context(), true))
	count, err = s.Count(t.Context())
	require.NoError(t, err)
	assert.Zero(t, count)

	ids := seed(t, s, domain.NewArticle{Title: "B", Content: "b"})
	assert.Equal(t, []int64{1}, ids)
}
