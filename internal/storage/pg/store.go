package pg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/article-fts/internal/apperr"
	"github.com/DjordjeVuckovic/article-fts/internal/domain"
	"github.com/DjordjeVuckovic/article-fts/internal/storage"
	"github.com/DjordjeVuckovic/article-fts/internal/types/query"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const articleColumns = "id, title, content, created_at, updated_at, search_vector::text"

// Store persists articles in PostgreSQL. The search_vector column is written
// only by the statements below, always from the same weighted expression used
// by SearchDynamic.
type Store struct {
	pool *ConnectionPool
	db   *pgxpool.Pool
	lang query.Language
}

func NewStore(pool *ConnectionPool, lang query.Language) (*Store, error) {
	lang, err := lang.Parse()
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool, db: pool.conn, lang: lang}, nil
}

func scanArticle(row pgx.CollectableRow) (domain.Article, error) {
	var a domain.Article
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.CreatedAt, &a.UpdatedAt, &a.SearchVector)
	return a, err
}

func (s *Store) Insert(ctx context.Context, article domain.NewArticle) (*domain.Article, error) {
	cmd := fmt.Sprintf(`
		INSERT INTO articles (title, content, created_at, updated_at, search_vector)
		VALUES ($1, $2, COALESCE($3::timestamptz, CURRENT_TIMESTAMP), CURRENT_TIMESTAMP, %s)
		RETURNING %s
	`, paramVector(s.lang, 1, 2), articleColumns)

	rows, err := s.db.Query(ctx, cmd, article.Title, article.Content, article.CreatedAt)
	if err != nil {
		return nil, wrapErr("failed to insert article", err)
	}
	inserted, err := pgx.CollectExactlyOneRow(rows, scanArticle)
	if err != nil {
		return nil, wrapErr("failed to insert article", err)
	}

	slog.Debug("Inserted article", "id", inserted.ID, "title", inserted.Title)
	return &inserted, nil
}

// InsertBulk streams the batch into a transaction-scoped staging table with
// COPY and derives every search vector in one INSERT ... SELECT. Ids follow
// input order. Any failure rolls the whole batch back.
func (s *Store) InsertBulk(ctx context.Context, articles []domain.NewArticle) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	now := time.Now()
	rows := make([][]interface{}, len(articles))
	for i, a := range articles {
		createdAt := now
		if a.CreatedAt != nil {
			createdAt = *a.CreatedAt
		}
		rows[i] = []interface{}{int64(i), a.Title, a.Content, createdAt}
	}

	var inserted int64
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			CREATE TEMP TABLE articles_import (
				ord        BIGINT,
				title      TEXT,
				content    TEXT,
				created_at TIMESTAMPTZ
			) ON COMMIT DROP
		`); err != nil {
			return fmt.Errorf("failed to create staging table: %w", err)
		}

		if _, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{"articles_import"},
			[]string{"ord", "title", "content", "created_at"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("failed to copy articles: %w", err)
		}

		tag, err := tx.Exec(ctx, fmt.Sprintf(`
			INSERT INTO articles (title, content, created_at, updated_at, search_vector)
			SELECT s.title, s.content, s.created_at, CURRENT_TIMESTAMP, %s
			FROM articles_import s
			ORDER BY s.ord
		`, columnVector(s.lang, "s")))
		if err != nil {
			return fmt.Errorf("failed to insert staged articles: %w", err)
		}
		inserted = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, wrapErr("failed to bulk insert articles", err)
	}

	slog.Info("Bulk inserted articles", "count", inserted)
	return int(inserted), nil
}

func (s *Store) Update(ctx context.Context, id int64, title, content string) (*domain.Article, error) {
	cmd := fmt.Sprintf(`
		UPDATE articles
		SET title = $2, content = $3, updated_at = CURRENT_TIMESTAMP, search_vector = %s
		WHERE id = $1
		RETURNING %s
	`, paramVector(s.lang, 2, 3), articleColumns)

	rows, err := s.db.Query(ctx, cmd, id, title, content)
	if err != nil {
		return nil, wrapErr("failed to update article", err)
	}
	updated, err := pgx.CollectExactlyOneRow(rows, scanArticle)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("article", id)
	}
	if err != nil {
		return nil, wrapErr("failed to update article", err)
	}
	return &updated, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*domain.Article, error) {
	rows, err := s.db.Query(ctx, "SELECT "+articleColumns+" FROM articles WHERE id = $1", id)
	if err != nil {
		return nil, wrapErr("failed to get article", err)
	}
	article, err := pgx.CollectExactlyOneRow(rows, scanArticle)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("article", id)
	}
	if err != nil {
		return nil, wrapErr("failed to get article", err)
	}
	return &article, nil
}

func (s *Store) List(ctx context.Context, opts storage.ListOptions) ([]domain.ArticleSummary, error) {
	// LIMIT NULL is unbounded.
	var limit any
	if opts.Limit > 0 {
		limit = opts.Limit
	}

	rows, err := s.db.Query(ctx, "SELECT id, title FROM articles ORDER BY id ASC LIMIT $1", limit)
	if err != nil {
		return nil, wrapErr("failed to list articles", err)
	}
	summaries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.ArticleSummary])
	if err != nil {
		return nil, wrapErr("failed to list articles", err)
	}
	if summaries == nil {
		summaries = []domain.ArticleSummary{}
	}
	return summaries, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRow(ctx, "SELECT count(*) FROM articles").Scan(&count); err != nil {
		return 0, wrapErr("failed to count articles", err)
	}
	return count, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

// Migrate applies the schema through the underlying pool.
func (s *Store) Migrate(ctx context.Context, reset bool) error {
	return s.pool.Migrate(ctx, reset)
}

var (
	_ storage.Store         = (*Store)(nil)
	_ storage.SchemaManager = (*Store)(nil)
)
