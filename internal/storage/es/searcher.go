package es

import (
	"context"
	"log/slog"
	"sort"

	"github.com/DjordjeVuckovic/article-fts/internal/domain"
	"github.com/DjordjeVuckovic/article-fts/internal/fts"
	"github.com/DjordjeVuckovic/article-fts/internal/types/query"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/operator"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/textquerytype"
)

// Boosts mirror the A/B weight tiers: title counts 2.5x content.
var fieldsWithBoost = []string{"title^2.5", "content"}

// buildMatchQuery requires every analyzed term to appear in title or content.
func buildMatchQuery(text string) *types.Query {
	and := operator.And
	crossFields := textquerytype.Crossfields
	return &types.Query{
		MultiMatch: &types.MultiMatchQuery{
			Query:    text,
			Fields:   fieldsWithBoost,
			Type:     &crossFields,
			Operator: &and,
		},
	}
}

func (s *Store) rankedSearch(ctx context.Context, text string, size int, byScore bool) ([]ArticleDocument, []float64, error) {
	sortOrderDesc := sortorder.Desc
	byID := &types.SortOptions{
		SortOptions: map[string]types.FieldSort{
			"id": {Order: &sortOrderDesc},
		},
	}

	req := s.client.Search().
		Index(s.indexName).
		Query(buildMatchQuery(text)).
		Size(size).
		TrackScores(true)
	if byScore {
		req = req.Sort(
			&types.SortOptions{
				SortOptions: map[string]types.FieldSort{
					"_score": {Order: &sortOrderDesc},
				},
			},
			byID,
		)
	} else {
		req = req.Sort(byID)
	}

	res, err := req.Do(ctx)
	if err != nil {
		slog.Error("Elasticsearch query failed", "error", err, "query", text)
		return nil, nil, wrapErr("failed to execute search", err)
	}

	docs, err := decodeHits(res.Hits.Hits)
	if err != nil {
		return nil, nil, err
	}
	scores := make([]float64, len(res.Hits.Hits))
	for i, hit := range res.Hits.Hits {
		if hit.Score_ != nil {
			scores[i] = float64(*hit.Score_)
		}
	}
	return docs, scores, nil
}

// SearchIndexed ranks with the index's BM25 scores over boosted fields.
func (s *Store) SearchIndexed(ctx context.Context, q query.Text, limit int) ([]domain.ArticleHit, error) {
	slog.Debug("Executing es indexed search", "query", q.Value(), "limit", limit)

	docs, scores, err := s.rankedSearch(ctx, q.Value(), limit, true)
	if err != nil {
		return nil, err
	}

	hits := make([]domain.ArticleHit, 0, len(docs))
	for i, d := range docs {
		hits = append(hits, domain.ArticleHit{Article: d.toArticle(), Rank: scores[i]})
	}
	return hits, nil
}

// SearchHighlighted ranks like SearchIndexed and marks matched terms with the
// shared analyzer, so markers land on the same tokens as on other backends.
func (s *Store) SearchHighlighted(ctx context.Context, q query.Text, hl query.Highlight, limit int) ([]domain.HighlightedHit, error) {
	if err := hl.Validate(); err != nil {
		return nil, err
	}
	hl = hl.WithDefaults()
	slog.Debug("Executing es highlighted search", "query", q.Value(), "limit", limit)

	docs, scores, err := s.rankedSearch(ctx, q.Value(), limit, true)
	if err != nil {
		return nil, err
	}

	parsed := s.analyzer.ParseQuery(q.Value())
	hits := make([]domain.HighlightedHit, 0, len(docs))
	for i, d := range docs {
		hits = append(hits, domain.HighlightedHit{
			ID:                 d.ID,
			Title:              d.Title,
			Content:            d.Content,
			HighlightedTitle:   s.analyzer.Highlight(d.Title, parsed, hl.StartSel, hl.StopSel),
			HighlightedContent: s.analyzer.Highlight(d.Content, parsed, hl.StartSel, hl.StopSel),
			Rank:               scores[i],
		})
	}
	return hits, nil
}

// SearchDynamic pulls up to the configured number of candidates and ranks them
// on a vector re-derived from title and content, ignoring both the stored
// search_vector and BM25 scores.
func (s *Store) SearchDynamic(ctx context.Context, q query.Text, limit int) ([]domain.RankedHit, error) {
	slog.Debug("Executing es dynamic search", "query", q.Value(), "limit", limit, "candidates", s.candidates)

	docs, _, err := s.rankedSearch(ctx, q.Value(), s.candidates, false)
	if err != nil {
		return nil, err
	}
	if len(docs) == s.candidates {
		slog.Warn("Dynamic search candidate cap reached", "cap", s.candidates)
	}

	return rankDynamic(s.analyzer, s.analyzer.ParseQuery(q.Value()), docs, limit), nil
}

func rankDynamic(analyzer *fts.Analyzer, q fts.Query, docs []ArticleDocument, limit int) []domain.RankedHit {
	hits := make([]domain.RankedHit, 0, len(docs))
	if q.IsEmpty() {
		return hits
	}
	for _, d := range docs {
		v := analyzer.Vectorize(d.Title, d.Content)
		if !v.Matches(q) {
			continue
		}
		hits = append(hits, domain.RankedHit{ID: d.ID, Title: d.Title, Content: d.Content, Rank: fts.Rank(v, q)})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Rank != hits[j].Rank {
			return hits[i].Rank > hits[j].Rank
		}
		return hits[i].ID > hits[j].ID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}
