package in_mem

import (
	"context"
	"log/slog"
	"sort"

	"github.com/DjordjeVuckovic/article-fts/internal/domain"
	"github.com/DjordjeVuckovic/article-fts/internal/fts"
	"github.com/DjordjeVuckovic/article-fts/internal/types/query"
)

type match struct {
	article domain.Article
	rank    float64
}

// rankedMatches evaluates q against every record using vectorOf to pick the
// representation, then orders by rank desc, id desc and caps at limit.
func (s *InMemStore) rankedMatches(ctx context.Context, q fts.Query, limit int, vectorOf func(*record) fts.Vector) ([]match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.IsEmpty() {
		return nil, nil
	}

	s.storageLock.RLock()
	var matches []match
	for _, rec := range s.storage {
		v := vectorOf(rec)
		if !v.Matches(q) {
			continue
		}
		matches = append(matches, match{article: rec.article, rank: fts.Rank(v, q)})
	}
	s.storageLock.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank > matches[j].rank
		}
		return matches[i].article.ID > matches[j].article.ID
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func storedVector(rec *record) fts.Vector {
	return rec.vector
}

func (s *InMemStore) SearchIndexed(ctx context.Context, q query.Text, limit int) ([]domain.ArticleHit, error) {
	parsed := s.analyzer.ParseQuery(q.Value())
	slog.Debug("Executing in-memory indexed search", "query", q.Value(), "lexemes", parsed.Lexemes(), "limit", limit)

	matches, err := s.rankedMatches(ctx, parsed, limit, storedVector)
	if err != nil {
		return nil, err
	}

	hits := make([]domain.ArticleHit, 0, len(matches))
	for _, m := range matches {
		hits = append(hits, domain.ArticleHit{Article: m.article, Rank: m.rank})
	}
	return hits, nil
}

func (s *InMemStore) SearchHighlighted(ctx context.Context, q query.Text, hl query.Highlight, limit int) ([]domain.HighlightedHit, error) {
	hl = hl.WithDefaults()
	parsed := s.analyzer.ParseQuery(q.Value())
	slog.Debug("Executing in-memory highlighted search", "query", q.Value(), "lexemes", parsed.Lexemes(), "limit", limit)

	matches, err := s.rankedMatches(ctx, parsed, limit, storedVector)
	if err != nil {
		return nil, err
	}

	hits := make([]domain.HighlightedHit, 0, len(matches))
	for _, m := range matches {
		hits = append(hits, domain.HighlightedHit{
			ID:                 m.article.ID,
			Title:              m.article.Title,
			Content:            m.article.Content,
			HighlightedTitle:   s.analyzer.Highlight(m.article.Title, parsed, hl.StartSel, hl.StopSel),
			HighlightedContent: s.analyzer.Highlight(m.article.Content, parsed, hl.StartSel, hl.StopSel),
			Rank:               m.rank,
		})
	}
	return hits, nil
}

func (s *InMemStore) SearchDynamic(ctx context.Context, q query.Text, limit int) ([]domain.RankedHit, error) {
	parsed := s.analyzer.ParseQuery(q.Value())
	slog.Debug("Executing in-memory dynamic search", "query", q.Value(), "lexemes", parsed.Lexemes(), "limit", limit)

	matches, err := s.rankedMatches(ctx, parsed, limit, func(rec *record) fts.Vector {
		return s.analyzer.Vectorize(rec.article.Title, rec.article.Content)
	})
	if err != nil {
		return nil, err
	}

	hits := make([]domain.RankedHit, 0, len(matches))
	for _, m := range matches {
		hits = append(hits, domain.RankedHit{
			ID:      m.article.ID,
			Title:   m.article.Title,
			Content: m.article.Content,
			Rank:    m.rank,
		})
	}
	return hits, nil
}
