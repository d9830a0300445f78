package storage

import (
	"context"

	"github.com/DjordjeVuckovic/article-fts/internal/domain"
)

// ListOptions caps a listing. Limit <= 0 means unbounded.
type ListOptions struct {
	Limit int
}

// ArticleStore owns article persistence and keeps each row's weighted search
// representation consistent with its title and content. Callers never write
// the representation directly.
type ArticleStore interface {
	// Insert assigns an id, sets timestamps and derives the search representation.
	Insert(ctx context.Context, article domain.NewArticle) (*domain.Article, error)
	// InsertBulk inserts all articles or none of them and returns the number inserted.
	InsertBulk(ctx context.Context, articles []domain.NewArticle) (int, error)
	// Update replaces title and content, refreshes updated_at and re-derives
	// the search representation before persisting.
	Update(ctx context.Context, id int64, title, content string) (*domain.Article, error)
	// Get returns apperr.NotFoundError when no article has the id.
	Get(ctx context.Context, id int64) (*domain.Article, error)
	// List returns the id+title projection ordered by id ascending.
	List(ctx context.Context, opts ListOptions) ([]domain.ArticleSummary, error)
	Count(ctx context.Context) (int64, error)
}

// SchemaManager prepares backend structures (tables, indexes) before use.
// With reset every stored article is dropped first.
type SchemaManager interface {
	Migrate(ctx context.Context, reset bool) error
}

type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
)

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}
