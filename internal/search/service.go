// Package search turns raw query strings into capped, ordered results using
// one of three strategies over a storage.Searcher.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/article-fts/internal/domain"
	"github.com/DjordjeVuckovic/article-fts/internal/storage"
	"github.com/DjordjeVuckovic/article-fts/internal/types/query"
)

type Service struct {
	searcher  storage.Searcher
	topK      int
	highlight query.Highlight
}

type Option func(*Service)

// WithTopK overrides domain.TopK. Non-positive values are ignored.
func WithTopK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.topK = k
		}
	}
}

func WithHighlight(hl query.Highlight) Option {
	return func(s *Service) {
		s.highlight = hl.WithDefaults()
	}
}

func NewService(searcher storage.Searcher, opts ...Option) (*Service, error) {
	s := &Service{
		searcher:  searcher,
		topK:      domain.TopK,
		highlight: query.DefaultHighlight(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.highlight.Validate(); err != nil {
		return nil, fmt.Errorf("invalid highlight options: %w", err)
	}
	return s, nil
}

func (s *Service) TopK() int {
	return s.topK
}

// normalize returns false when the query is blank and no store call is needed.
func (s *Service) normalize(strategy, raw string) (query.Text, bool) {
	q := query.NewText(raw)
	if q.Truncated() {
		slog.Debug("Query truncated", "strategy", strategy, "max_runes", query.MaxLength)
	}
	if q.IsBlank() {
		slog.Debug("Blank query, skipping search", "strategy", strategy)
		return q, false
	}
	return q, true
}

// Basic matches the stored search representation and returns full articles.
func (s *Service) Basic(ctx context.Context, raw string) ([]domain.Article, error) {
	q, ok := s.normalize("basic", raw)
	if !ok {
		return []domain.Article{}, nil
	}

	hits, err := s.searcher.SearchIndexed(ctx, q, s.topK)
	if err != nil {
		return nil, fmt.Errorf("basic search failed: %w", err)
	}

	articles := make([]domain.Article, 0, len(hits))
	for _, h := range hits {
		articles = append(articles, h.Article)
	}
	slog.Info("Search completed", "strategy", "basic", "query", q.Value(), "hits", len(articles))
	return articles, nil
}

// Highlights ranks like Basic and returns title and content with matched
// terms wrapped in the configured markers.
func (s *Service) Highlights(ctx context.Context, raw string) ([]domain.HighlightedHit, error) {
	q, ok := s.normalize("highlights", raw)
	if !ok {
		return []domain.HighlightedHit{}, nil
	}

	hits, err := s.searcher.SearchHighlighted(ctx, q, s.highlight, s.topK)
	if err != nil {
		return nil, fmt.Errorf("highlights search failed: %w", err)
	}
	if hits == nil {
		hits = []domain.HighlightedHit{}
	}
	slog.Info("Search completed", "strategy", "highlights", "query", q.Value(), "hits", len(hits))
	return hits, nil
}

// Dynamic ranks over a representation derived from title and content at
// query time, bypassing the stored one.
func (s *Service) Dynamic(ctx context.Context, raw string) ([]domain.RankedHit, error) {
	q, ok := s.normalize("dynamic", raw)
	if !ok {
		return []domain.RankedHit{}, nil
	}

	hits, err := s.searcher.SearchDynamic(ctx, q, s.topK)
	if err != nil {
		return nil, fmt.Errorf("dynamic search failed: %w", err)
	}
	if hits == nil {
		hits = []domain.RankedHit{}
	}
	slog.Info("Search completed", "strategy", "dynamic", "query", q.Value(), "hits", len(hits))
	return hits, nil
}
