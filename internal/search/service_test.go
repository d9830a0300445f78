package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/article-fts/internal/apperr"
	"github.com/DjordjeVuckovic/article-fts/internal/domain"
	"github.com/DjordjeVuckovic/article-fts/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/article-fts/internal/types/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSearcher counts calls and returns canned results or an error.
type recordingSearcher struct {
	calls   int
	lastQ   query.Text
	lastHL  query.Highlight
	limit   int
	err     error
	indexed []domain.ArticleHit
}

func (r *recordingSearcher) SearchIndexed(_ context.Context, q query.Text, limit int) ([]domain.ArticleHit, error) {
	r.calls++
	r.lastQ, r.limit = q, limit
	return r.indexed, r.err
}

func (r *recordingSearcher) SearchHighlighted(_ context.Context, q query.Text, hl query.Highlight, limit int) ([]domain.HighlightedHit, error) {
	r.calls++
	r.lastQ, r.lastHL, r.limit = q, hl, limit
	return nil, r.err
}

func (r *recordingSearcher) SearchDynamic(_ context.Context, q query.Text, limit int) ([]domain.RankedHit, error) {
	r.calls++
	r.lastQ, r.limit = q, limit
	return nil, r.err
}

func newSeededService(t *testing.T, articles ...domain.NewArticle) *Service {
	t.Helper()
	store, err := in_mem.NewInMemStore(query.LanguageEnglish)
	require.NoError(t, err)
	_, err = store.InsertBulk(t.Context(), articles)
	require.NoError(t, err)

	svc, err := NewService(store)
	require.NoError(t, err)
	return svc
}

func TestService_BlankQuerySkipsStore(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n"} {
		rec := &recordingSearcher{}
		svc, err := NewService(rec)
		require.NoError(t, err)

		basic, err := svc.Basic(t.Context(), raw)
		require.NoError(t, err)
		assert.NotNil(t, basic)
		assert.Empty(t, basic)

		highlighted, err := svc.Highlights(t.Context(), raw)
		require.NoError(t, err)
		assert.NotNil(t, highlighted)
		assert.Empty(t, highlighted)

		dynamic, err := svc.Dynamic(t.Context(), raw)
		require.NoError(t, err)
		assert.NotNil(t, dynamic)
		assert.Empty(t, dynamic)

		assert.Zero(t, rec.calls, "raw=%q", raw)
	}
}

func TestService_NormalizesAndCaps(t *testing.T) {
	rec := &recordingSearcher{}
	svc, err := NewService(rec)
	require.NoError(t, err)

	_, err = svc.Basic(t.Context(), "  climate\t\tchange  ")
	require.NoError(t, err)

	assert.Equal(t, "climate change", rec.lastQ.Value())
	assert.Equal(t, domain.TopK, rec.limit)
}

func TestService_LongQueryTruncated(t *testing.T) {
	rec := &recordingSearcher{}
	svc, err := NewService(rec)
	require.NoError(t, err)

	_, err = svc.Dynamic(t.Context(), strings.Repeat("a", query.MaxLength+50))
	require.NoError(t, err)

	assert.True(t, rec.lastQ.Truncated())
	assert.Len(t, rec.lastQ.Value(), query.MaxLength)
}

func TestService_Options(t *testing.T) {
	rec := &recordingSearcher{}
	svc, err := NewService(rec, WithTopK(3), WithHighlight(query.Highlight{StartSel: "<em>"}))
	require.NoError(t, err)

	_, err = svc.Highlights(t.Context(), "dogs")
	require.NoError(t, err)

	assert.Equal(t, 3, rec.limit)
	assert.Equal(t, "<em>", rec.lastHL.StartSel)
	assert.Equal(t, query.DefaultStopSel, rec.lastHL.StopSel)
}

func TestService_InvalidHighlight(t *testing.T) {
	_, err := NewService(&recordingSearcher{}, WithHighlight(query.Highlight{MaxWords: 5, MinWords: 10}))

	assert.Error(t, err)
}

func TestService_PropagatesStoreErrors(t *testing.T) {
	rec := &recordingSearcher{err: apperr.NewStoreUnavailable("pg", errors.New("connection refused"))}
	svc, err := NewService(rec)
	require.NoError(t, err)

	_, err = svc.Basic(t.Context(), "dogs")

	var unavailable *apperr.StoreUnavailableError
	assert.True(t, errors.As(err, &unavailable))
}

func TestService_CatsAndDogs(t *testing.T) {
	svc := newSeededService(t, domain.NewArticle{Title: "Cats and Dogs", Content: "Dogs are loyal."})

	basic, err := svc.Basic(t.Context(), "dogs")
	require.NoError(t, err)
	require.Len(t, basic, 1)
	assert.Equal(t, "Cats and Dogs", basic[0].Title)

	highlighted, err := svc.Highlights(t.Context(), "dogs")
	require.NoError(t, err)
	require.Len(t, highlighted, 1)
	assert.Contains(t, highlighted[0].HighlightedContent, "<b>Dogs</b>")

	dynamic, err := svc.Dynamic(t.Context(), "dogs")
	require.NoError(t, err)
	require.Len(t, dynamic, 1)
	assert.Greater(t, dynamic[0].Rank, 0.0)
}

func TestService_UnknownWord(t *testing.T) {
	svc := newSeededService(t, domain.NewArticle{Title: "Cats and Dogs", Content: "Dogs are loyal."})

	basic, err := svc.Basic(t.Context(), "zzzzznotaword")
	require.NoError(t, err)
	assert.Empty(t, basic)

	highlighted, err := svc.Highlights(t.Context(), "zzzzznotaword")
	require.NoError(t, err)
	assert.Empty(t, highlighted)

	dynamic, err := svc.Dynamic(t.Context(), "zzzzznotaword")
	require.NoError(t, err)
	assert.Empty(t, dynamic)
}

func TestService_TopKWithTenMatches(t *testing.T) {
	articles := make([]domain.NewArticle, 0, 10)
	for i := 0; i < 10; i++ {
		articles = append(articles, domain.NewArticle{Title: fmt.Sprintf("Election night %d", i), Content: "Election results."})
	}
	svc := newSeededService(t, articles...)

	basic, err := svc.Basic(t.Context(), "election")
	require.NoError(t, err)
	assert.Len(t, basic, domain.TopK)

	highlighted, err := svc.Highlights(t.Context(), "election")
	require.NoError(t, err)
	assert.Len(t, highlighted, domain.TopK)

	dynamic, err := svc.Dynamic(t.Context(), "election")
	require.NoError(t, err)
	assert.Len(t, dynamic, domain.TopK)
}
