package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/article-fts/internal/apperr"
	"github.com/DjordjeVuckovic/article-fts/internal/domain"
	"github.com/DjordjeVuckovic/article-fts/internal/fts"
	"github.com/DjordjeVuckovic/article-fts/internal/storage"
	"github.com/DjordjeVuckovic/article-fts/internal/types/query"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/refresh"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
)

const listPageSize = 1000

// Store keeps articles in an Elasticsearch index. Elasticsearch has no
// sequences, so ids come from an in-process counter seeded with the highest
// indexed id. A single writer per index is assumed.
type Store struct {
	client       *elasticsearch.TypedClient
	indexName    string
	candidates   int
	analyzer     *fts.Analyzer
	indexBuilder *IndexBuilder
	lastID       atomic.Int64
	now          func() time.Time
}

func NewStore(ctx context.Context, config ClientConfig, lang query.Language) (*Store, error) {
	config = config.withDefaults()
	lang, err := lang.Parse()
	if err != nil {
		return nil, err
	}
	analyzer, err := fts.NewAnalyzer(lang)
	if err != nil {
		return nil, err
	}

	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	s := &Store{
		client:       client,
		indexName:    config.IndexName,
		candidates:   config.DynamicCandidates,
		analyzer:     analyzer,
		indexBuilder: NewIndexBuilder(lang, analyzer),
		now:          time.Now,
	}

	if err := s.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}
	if err := s.syncLastID(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) EnsureIndex(ctx context.Context) error {
	existsRes, err := s.client.Indices.Exists(s.indexName).Do(ctx)
	if err != nil {
		return wrapErr("failed to check if index exists", err)
	}

	if existsRes {
		slog.Info("Index already exists", "index", s.indexName)
		return nil
	}

	settings := s.indexBuilder.buildSettings()
	mappings := s.indexBuilder.buildMapping()

	createRes, err := s.client.Indices.Create(s.indexName).
		Settings(&settings).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return wrapErr("failed to create index", err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", s.indexName)
	return nil
}

// Migrate ensures the index exists. With reset the index is dropped first.
func (s *Store) Migrate(ctx context.Context, reset bool) error {
	if reset {
		exists, err := s.client.Indices.Exists(s.indexName).Do(ctx)
		if err != nil {
			return wrapErr("failed to check if index exists", err)
		}
		if exists {
			if _, err := s.client.Indices.Delete(s.indexName).Do(ctx); err != nil {
				return wrapErr("failed to delete index", err)
			}
			slog.Info("Index deleted", "index", s.indexName)
		}
		s.lastID.Store(0)
	}
	return s.EnsureIndex(ctx)
}

// syncLastID seeds the id counter from the highest indexed id.
func (s *Store) syncLastID(ctx context.Context) error {
	sortOrderDesc := sortorder.Desc
	res, err := s.client.Search().
		Index(s.indexName).
		Query(&types.Query{MatchAll: &types.MatchAllQuery{}}).
		Sort(&types.SortOptions{
			SortOptions: map[string]types.FieldSort{
				"id": {Order: &sortOrderDesc},
			},
		}).
		Size(1).
		Do(ctx)
	if err != nil {
		return wrapErr("failed to read highest article id", err)
	}

	docs, err := decodeHits(res.Hits.Hits)
	if err != nil {
		return err
	}
	if len(docs) > 0 {
		s.lastID.Store(docs[0].ID)
	}
	slog.Debug("Synced article id sequence", "index", s.indexName, "last_id", s.lastID.Load())
	return nil
}

func (s *Store) Insert(ctx context.Context, article domain.NewArticle) (*domain.Article, error) {
	doc := s.indexBuilder.toDocument(s.lastID.Add(1), article, s.now())

	res, err := s.client.Index(s.indexName).
		Id(doc.docID()).
		Document(doc).
		Refresh(refresh.Waitfor).
		Do(ctx)
	if err != nil {
		return nil, wrapErr("failed to index document", err)
	}

	slog.Debug("Document indexed successfully", "id", doc.ID, "index", s.indexName, "result", res.Result)
	out := doc.toArticle()
	return &out, nil
}

// InsertBulk indexes the batch with the bulk API. If any item fails, the
// items that did succeed are deleted again so the batch is all or nothing.
func (s *Store) InsertBulk(ctx context.Context, articles []domain.NewArticle) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         s.indexName,
		Client:        s.client,
		NumWorkers:    4,
		FlushBytes:    5e+6, // 5MB
		FlushInterval: 30 * time.Second,
		Refresh:       "wait_for",
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	first := s.lastID.Add(int64(len(articles))) - int64(len(articles)) + 1
	now := s.now()

	var (
		failed    atomic.Int64
		mu        sync.Mutex
		succeeded []string
	)

	for i, article := range articles {
		doc := s.indexBuilder.toDocument(first+int64(i), article, now)

		docBytes, err := json.Marshal(doc)
		if err != nil {
			failed.Add(1)
			slog.Error("Failed to marshal document", "error", err, "id", doc.ID)
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.docID(),
			Body:       bytes.NewReader(docBytes),
			OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
				mu.Lock()
				succeeded = append(succeeded, item.DocumentID)
				mu.Unlock()
			},
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("Bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("Bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			failed.Add(1)
			slog.Error("Failed to add document to bulk indexer", "error", err, "id", doc.ID)
			break
		}
	}

	closeErr := bi.Close(ctx)
	if closeErr == nil && failed.Load() == 0 && len(succeeded) == len(articles) {
		slog.Info("Bulk indexing completed", "count", len(articles), "index", s.indexName)
		return len(articles), nil
	}

	s.rollback(succeeded)
	if closeErr != nil {
		return 0, wrapErr("failed to close bulk indexer", closeErr)
	}
	return 0, fmt.Errorf("failed to index %d out of %d articles", len(articles)-len(succeeded), len(articles))
}

// rollback removes partially indexed documents. It runs on a fresh context
// because the caller's may already be cancelled.
func (s *Store) rollback(ids []string) {
	if len(ids) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := s.client.DeleteByQuery(s.indexName).
		Query(&types.Query{Ids: &types.IdsQuery{Values: ids}}).
		Refresh(true).
		Do(ctx)
	if err != nil {
		slog.Error("Failed to roll back partial bulk insert", "error", err, "count", len(ids))
		return
	}
	slog.Warn("Rolled back partial bulk insert", "count", len(ids))
}

func (s *Store) getDocument(ctx context.Context, id int64) (*ArticleDocument, error) {
	res, err := s.client.Get(s.indexName, fmt.Sprint(id)).Do(ctx)
	if isNotFound(err) || (err == nil && !res.Found) {
		return nil, apperr.NewNotFound("article", id)
	}
	if err != nil {
		return nil, wrapErr("failed to get document", err)
	}

	var doc ArticleDocument
	if err := json.Unmarshal(res.Source_, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &doc, nil
}

func (s *Store) Update(ctx context.Context, id int64, title, content string) (*domain.Article, error) {
	existing, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := s.indexBuilder.toDocument(id, domain.NewArticle{
		Title:     title,
		Content:   content,
		CreatedAt: &existing.CreatedAt,
	}, s.now())

	if _, err := s.client.Index(s.indexName).
		Id(doc.docID()).
		Document(doc).
		Refresh(refresh.Waitfor).
		Do(ctx); err != nil {
		return nil, wrapErr("failed to reindex document", err)
	}

	out := doc.toArticle()
	return &out, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*domain.Article, error) {
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	out := doc.toArticle()
	return &out, nil
}

// List pages through the index with search_after on id, so it is not bound
// by the index result window.
func (s *Store) List(ctx context.Context, opts storage.ListOptions) ([]domain.ArticleSummary, error) {
	sortOrderAsc := sortorder.Asc
	summaries := make([]domain.ArticleSummary, 0)

	var after *int64
	for {
		size := listPageSize
		if opts.Limit > 0 && opts.Limit-len(summaries) < size {
			size = opts.Limit - len(summaries)
		}
		if size <= 0 {
			break
		}

		req := s.client.Search().
			Index(s.indexName).
			Query(&types.Query{MatchAll: &types.MatchAllQuery{}}).
			Sort(&types.SortOptions{
				SortOptions: map[string]types.FieldSort{
					"id": {Order: &sortOrderAsc},
				},
			}).
			Size(size)
		if after != nil {
			req = req.SearchAfter(types.FieldValue(*after))
		}

		res, err := req.Do(ctx)
		if err != nil {
			return nil, wrapErr("failed to list documents", err)
		}
		docs, err := decodeHits(res.Hits.Hits)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			summaries = append(summaries, domain.ArticleSummary{ID: d.ID, Title: d.Title})
		}
		if len(docs) < size {
			break
		}
		last := docs[len(docs)-1].ID
		after = &last
	}

	return summaries, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	res, err := s.client.Count().Index(s.indexName).Do(ctx)
	if err != nil {
		return 0, wrapErr("failed to count documents", err)
	}
	return res.Count, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ok, err := s.client.Ping().Do(ctx)
	if err != nil {
		return apperr.NewStoreUnavailable(backendName, err)
	}
	if !ok {
		return apperr.NewStoreUnavailable(backendName, fmt.Errorf("ping returned non-success status"))
	}
	return nil
}

func (s *Store) Close() {}

func decodeHits(hits []types.Hit) ([]ArticleDocument, error) {
	docs := make([]ArticleDocument, 0, len(hits))
	for _, hit := range hits {
		var doc ArticleDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

var (
	_ storage.Store         = (*Store)(nil)
	_ storage.SchemaManager = (*Store)(nil)
)
