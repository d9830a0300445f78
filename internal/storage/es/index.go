package es

import (
	"strconv"
	"time"

	"github.com/DjordjeVuckovic/article-fts/internal/domain"
	"github.com/DjordjeVuckovic/article-fts/internal/fts"
	"github.com/DjordjeVuckovic/article-fts/internal/types/query"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// ArticleDocument is the indexed form of an article. SearchVector mirrors the
// weighted representation the other backends persist; it is stored but not
// indexed.
type ArticleDocument struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	SearchVector string    `json:"search_vector"`
}

func (d ArticleDocument) docID() string {
	return strconv.FormatInt(d.ID, 10)
}

func (d ArticleDocument) toArticle() domain.Article {
	return domain.Article{
		ID:           d.ID,
		Title:        d.Title,
		Content:      d.Content,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		SearchVector: d.SearchVector,
	}
}

// IndexBuilder derives documents and index definitions for one language.
type IndexBuilder struct {
	lang     query.Language
	analyzer *fts.Analyzer
}

func NewIndexBuilder(lang query.Language, analyzer *fts.Analyzer) *IndexBuilder {
	return &IndexBuilder{lang: lang, analyzer: analyzer}
}

func (b *IndexBuilder) toDocument(id int64, a domain.NewArticle, now time.Time) ArticleDocument {
	createdAt := now
	if a.CreatedAt != nil {
		createdAt = *a.CreatedAt
	}
	return ArticleDocument{
		ID:           id,
		Title:        a.Title,
		Content:      a.Content,
		CreatedAt:    createdAt,
		UpdatedAt:    now,
		SearchVector: b.analyzer.Vectorize(a.Title, a.Content).String(),
	}
}

func (b *IndexBuilder) buildSettings() types.IndexSettings {
	shards := "1"
	return types.IndexSettings{
		NumberOfShards: &shards,
	}
}

// buildMapping analyzes title and content with the built-in analyzer named
// after the language, which stems and drops stopwords like the other backends.
func (b *IndexBuilder) buildMapping() types.TypeMapping {
	notIndexed := false
	vector := types.NewKeywordProperty()
	vector.Index = &notIndexed

	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":            types.NewLongNumberProperty(),
			"title":         b.createTextProperty(b.lang.String()),
			"content":       b.createTextProperty(b.lang.String()),
			"created_at":    types.NewDateProperty(),
			"updated_at":    types.NewDateProperty(),
			"search_vector": vector,
		},
	}
}

func (b *IndexBuilder) createTextProperty(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	return textProp
}
