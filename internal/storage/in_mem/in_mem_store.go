package in_mem

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/article-fts/internal/apperr"
	"github.com/DjordjeVuckovic/article-fts/internal/domain"
	"github.com/DjordjeVuckovic/article-fts/internal/fts"
	"github.com/DjordjeVuckovic/article-fts/internal/storage"
	"github.com/DjordjeVuckovic/article-fts/internal/types/query"
)

type record struct {
	article domain.Article
	vector  fts.Vector
}

// InMemStore keeps articles and their derived vectors in process memory.
// Reads run concurrently; writes take the lock exclusively.
type InMemStore struct {
	analyzer *fts.Analyzer
	now      func() time.Time

	storageLock sync.RWMutex
	storage     map[int64]*record
	lastID      int64
}

type Option func(*InMemStore)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *InMemStore) {
		s.now = now
	}
}

func NewInMemStore(lang query.Language, opts ...Option) (*InMemStore, error) {
	analyzer, err := fts.NewAnalyzer(lang)
	if err != nil {
		return nil, err
	}

	s := &InMemStore{
		analyzer: analyzer,
		now:      time.Now,
		storage:  make(map[int64]*record),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// newRecord is the write path: it stamps timestamps and derives the vector.
func (s *InMemStore) newRecord(id int64, a domain.NewArticle, now time.Time) *record {
	createdAt := now
	if a.CreatedAt != nil {
		createdAt = *a.CreatedAt
	}
	vector := s.analyzer.Vectorize(a.Title, a.Content)
	return &record{
		article: domain.Article{
			ID:           id,
			Title:        a.Title,
			Content:      a.Content,
			CreatedAt:    createdAt,
			UpdatedAt:    now,
			SearchVector: vector.String(),
		},
		vector: vector,
	}
}

func (s *InMemStore) Insert(ctx context.Context, a domain.NewArticle) (*domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	s.lastID++
	rec := s.newRecord(s.lastID, a, s.now())
	s.storage[rec.article.ID] = rec

	slog.Debug("Saved article to in-memory storage", "id", rec.article.ID, "title", rec.article.Title)
	out := rec.article
	return &out, nil
}

func (s *InMemStore) InsertBulk(ctx context.Context, articles []domain.NewArticle) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	// Derive everything before taking the lock so a cancelled context or a
	// partial batch never becomes visible.
	now := s.now()
	records := make([]*record, len(articles))
	for i, a := range articles {
		records[i] = s.newRecord(0, a, now)
	}

	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	for _, rec := range records {
		s.lastID++
		rec.article.ID = s.lastID
		s.storage[rec.article.ID] = rec
	}

	slog.Info("Saved articles to in-memory storage", "count", len(records))
	return len(records), nil
}

func (s *InMemStore) Update(ctx context.Context, id int64, title, content string) (*domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	existing, ok := s.storage[id]
	if !ok {
		return nil, apperr.NewNotFound("article", id)
	}

	createdAt := existing.article.CreatedAt
	rec := s.newRecord(id, domain.NewArticle{Title: title, Content: content, CreatedAt: &createdAt}, s.now())
	s.storage[id] = rec

	out := rec.article
	return &out, nil
}

func (s *InMemStore) Get(ctx context.Context, id int64) (*domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	rec, ok := s.storage[id]
	if !ok {
		return nil, apperr.NewNotFound("article", id)
	}
	out := rec.article
	return &out, nil
}

func (s *InMemStore) List(ctx context.Context, opts storage.ListOptions) ([]domain.ArticleSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	summaries := make([]domain.ArticleSummary, 0, len(s.storage))
	for _, rec := range s.storage {
		summaries = append(summaries, domain.ArticleSummary{ID: rec.article.ID, Title: rec.article.Title})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })

	if opts.Limit > 0 && len(summaries) > opts.Limit {
		summaries = summaries[:opts.Limit]
	}
	return summaries, nil
}

func (s *InMemStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	return int64(len(s.storage)), nil
}

// Migrate has no schema to prepare; reset drops every article and restarts ids.
func (s *InMemStore) Migrate(ctx context.Context, reset bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !reset {
		return nil
	}

	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	s.storage = make(map[int64]*record)
	s.lastID = 0
	return nil
}

func (s *InMemStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *InMemStore) Close() {}

var (
	_ storage.Store         = (*InMemStore)(nil)
	_ storage.SchemaManager = (*InMemStore)(nil)
)
