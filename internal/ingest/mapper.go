package ingest

import (
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/article-fts/internal/domain"
	"github.com/DjordjeVuckovic/article-fts/internal/ingest/mapping"
)

type ArticleMapper struct {
	cfg *mapping.DataMapping
}

func NewArticleMapper(cfg *mapping.DataMapping) (*ArticleMapper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ArticleMapper{cfg: cfg}, nil
}

// Map converts one record. Empty values take the mapping default; an empty
// required value or an unparsable date is an error.
func (m *ArticleMapper) Map(record map[string]string) (domain.NewArticle, error) {
	var article domain.NewArticle

	for _, fm := range m.cfg.FieldMappings {
		value := record[fm.Source]
		if value == "" {
			value = fm.Default
		}
		if value == "" && fm.Required {
			return domain.NewArticle{}, fmt.Errorf("missing required column %q", fm.Source)
		}

		switch fm.Target {
		case mapping.TargetTitle:
			article.Title = value
		case mapping.TargetContent:
			article.Content = value
		case mapping.TargetCreatedAt:
			if value == "" {
				continue
			}
			t, err := parseDate(value, m.cfg.DateFormats())
			if err != nil {
				return domain.NewArticle{}, fmt.Errorf("column %q: %w", fm.Source, err)
			}
			article.CreatedAt = &t
		}
	}

	return article, nil
}

func parseDate(value string, layouts []string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date value '%s'", value)
}
