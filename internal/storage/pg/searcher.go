package pg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/article-fts/internal/domain"
	"github.com/DjordjeVuckovic/article-fts/internal/types/query"
	"github.com/jackc/pgx/v5"
)

// SearchIndexed performs plain-text search over the stored search_vector,
// served by the GIN index.
func (s *Store) SearchIndexed(ctx context.Context, q query.Text, limit int) ([]domain.ArticleHit, error) {
	slog.Debug("Executing pg indexed search", "query", q.Value(), "limit", limit)

	searchSQL := fmt.Sprintf(`
		SELECT
			a.id, a.title, a.content, a.created_at, a.updated_at, a.search_vector::text,
			ts_rank(a.search_vector, q.query)::float8 AS rank
		FROM articles a, %s AS q(query)
		WHERE a.search_vector @@ q.query
		ORDER BY rank DESC, a.id DESC
		LIMIT $2
	`, buildTsQuery(s.lang, 1))

	rows, err := s.db.Query(ctx, searchSQL, q.Value(), limit)
	if err != nil {
		return nil, wrapErr("failed to execute indexed search", err)
	}
	hits, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ArticleHit, error) {
		var h domain.ArticleHit
		err := row.Scan(&h.ID, &h.Title, &h.Content, &h.CreatedAt, &h.UpdatedAt, &h.SearchVector, &h.Rank)
		return h, err
	})
	if err != nil {
		return nil, wrapErr("failed to scan indexed search", err)
	}

	slog.Debug("PG indexed search results fetched", "hits", len(hits))
	return hits, nil
}

// SearchHighlighted ranks like SearchIndexed and runs ts_headline only over
// the top hits.
func (s *Store) SearchHighlighted(ctx context.Context, q query.Text, hl query.Highlight, limit int) ([]domain.HighlightedHit, error) {
	if err := hl.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("Executing pg highlighted search", "query", q.Value(), "limit", limit)

	searchSQL := fmt.Sprintf(`
		SELECT
			t.id, t.title, t.content,
			%s AS highlighted_title,
			%s AS highlighted_content,
			t.rank
		FROM (
			SELECT a.id, a.title, a.content, q.query, ts_rank(a.search_vector, q.query)::float8 AS rank
			FROM articles a, %s AS q(query)
			WHERE a.search_vector @@ q.query
			ORDER BY rank DESC, a.id DESC
			LIMIT $3
		) t
		ORDER BY t.rank DESC, t.id DESC
	`,
		buildHeadline(s.lang, "t.title", "t.query", 2),
		buildHeadline(s.lang, "t.content", "t.query", 2),
		buildTsQuery(s.lang, 1),
	)

	rows, err := s.db.Query(ctx, searchSQL, q.Value(), hl.HeadlineOptions(), limit)
	if err != nil {
		return nil, wrapErr("failed to execute highlighted search", err)
	}
	hits, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.HighlightedHit])
	if err != nil {
		return nil, wrapErr("failed to scan highlighted search", err)
	}
	return hits, nil
}

// SearchDynamic rebuilds the weighted vector from title and content for every
// row at query time. It never reads search_vector and cannot use the index.
func (s *Store) SearchDynamic(ctx context.Context, q query.Text, limit int) ([]domain.RankedHit, error) {
	slog.Debug("Executing pg dynamic search", "query", q.Value(), "limit", limit)

	searchSQL := fmt.Sprintf(`
		SELECT a.id, a.title, a.content, ts_rank(d.vector, q.query)::float8 AS rank
		FROM articles a
		CROSS JOIN %s AS q(query)
		CROSS JOIN LATERAL (SELECT %s) AS d(vector)
		WHERE d.vector @@ q.query
		ORDER BY rank DESC, a.id DESC
		LIMIT $2
	`, buildTsQuery(s.lang, 1), columnVector(s.lang, "a"))

	rows, err := s.db.Query(ctx, searchSQL, q.Value(), limit)
	if err != nil {
		return nil, wrapErr("failed to execute dynamic search", err)
	}
	hits, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.RankedHit])
	if err != nil {
		return nil, wrapErr("failed to scan dynamic search", err)
	}
	return hits, nil
}
