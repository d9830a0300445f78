package storage

import (
	"context"

	"github.com/DjordjeVuckovic/article-fts/internal/domain"
	"github.com/DjordjeVuckovic/article-fts/internal/types/query"
)

// Searcher is the full-text capability a store exposes. Every method is
// read-only, returns at most limit hits and orders them by rank descending,
// breaking ties by id descending. Callers pass non-blank queries.
type Searcher interface {
	// SearchIndexed matches the stored search representation and ranks over it.
	SearchIndexed(ctx context.Context, q query.Text, limit int) ([]domain.ArticleHit, error)
	// SearchHighlighted uses the same predicate and rank as SearchIndexed and
	// additionally returns title and content with matched terms marked.
	SearchHighlighted(ctx context.Context, q query.Text, hl query.Highlight, limit int) ([]domain.HighlightedHit, error)
	// SearchDynamic re-derives the weighted representation from title and
	// content at query time, ignoring any stored representation.
	SearchDynamic(ctx context.Context, q query.Text, limit int) ([]domain.RankedHit, error)
}

// Store is a backend that persists articles and searches them.
type Store interface {
	ArticleStore
	Searcher
	Ping(ctx context.Context) error
	Close()
}
