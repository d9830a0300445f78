package pg

import (
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/article-fts/internal/types/query"
)

// Weight labels of the stored search_vector. Title ranks above content.
var fieldToLabel = map[string]string{
	"title":   "A",
	"content": "B",
}

// weightedFields lists the vector sources in label order.
var weightedFields = []string{"title", "content"}

// regconfig renders a validated language as a regconfig literal. Only names
// from query.SupportedLanguages reach this point, so interpolation is safe.
func regconfig(lang query.Language) string {
	return fmt.Sprintf("'%s'::regconfig", lang)
}

// buildTsQuery parses natural-language input with plain-text semantics: every
// non-stopword term must match, no operator syntax is interpreted.
// Returns: "plainto_tsquery('english'::regconfig, $1)"
func buildTsQuery(lang query.Language, paramNum int) string {
	return fmt.Sprintf("plainto_tsquery(%s, $%d)", regconfig(lang), paramNum)
}

// buildWeightedVector is the single derivation of an article's search
// representation. exprs maps each field in weightedFields to the SQL
// expression producing its text (a column or a bound parameter).
// Example:
//
//	setweight(to_tsvector('english'::regconfig, coalesce(title, '')), 'A') ||
//	setweight(to_tsvector('english'::regconfig, coalesce(content, '')), 'B')
func buildWeightedVector(lang query.Language, exprs map[string]string) string {
	parts := make([]string, 0, len(weightedFields))
	for _, field := range weightedFields {
		parts = append(parts, fmt.Sprintf("setweight(to_tsvector(%s, coalesce(%s, '')), '%s')",
			regconfig(lang), exprs[field], fieldToLabel[field]))
	}
	return strings.Join(parts, " || ")
}

// columnVector derives the representation from the stored columns of alias.
func columnVector(lang query.Language, alias string) string {
	return buildWeightedVector(lang, map[string]string{
		"title":   alias + ".title",
		"content": alias + ".content",
	})
}

// paramVector derives the representation from bound text parameters.
func paramVector(lang query.Language, titleParam, contentParam int) string {
	return buildWeightedVector(lang, map[string]string{
		"title":   fmt.Sprintf("$%d::text", titleParam),
		"content": fmt.Sprintf("$%d::text", contentParam),
	})
}

func buildHeadline(lang query.Language, column, queryExpr string, optsParam int) string {
	return fmt.Sprintf("ts_headline(%s, %s, %s, $%d)", regconfig(lang), column, queryExpr, optsParam)
}
