// Package fts derives weighted full-text representations in Go, following the
// semantics of PostgreSQL's to_tsvector/setweight/plainto_tsquery/ts_rank and
// ts_headline. Tokenization, stopwords and stemming come from bleve analyzers.
package fts

import (
	"fmt"

	"github.com/DjordjeVuckovic/article-fts/internal/types/query"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/de"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/lang/es"
	"github.com/blevesearch/bleve/v2/analysis/lang/fr"
	"github.com/blevesearch/bleve/v2/analysis/lang/it"
	"github.com/blevesearch/bleve/v2/registry"
)

var languageAnalyzers = map[query.Language]string{
	query.LanguageEnglish: en.AnalyzerName,
	query.LanguageFrench:  fr.AnalyzerName,
	query.LanguageGerman:  de.AnalyzerName,
	query.LanguageSpanish: es.AnalyzerName,
	query.LanguageItalian: it.AnalyzerName,
	query.LanguageSimple:  simple.Name,
}

type textAnalyzer interface {
	Analyze([]byte) analysis.TokenStream
}

// Analyzer turns text into lexemes for one language profile. It is safe for
// concurrent use.
type Analyzer struct {
	lang     query.Language
	analyzer textAnalyzer
}

func NewAnalyzer(lang query.Language) (*Analyzer, error) {
	lang, err := lang.Parse()
	if err != nil {
		return nil, err
	}

	name, ok := languageAnalyzers[lang]
	if !ok {
		return nil, fmt.Errorf("no analyzer registered for language %s", lang)
	}

	a, err := registry.NewCache().AnalyzerNamed(name)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s analyzer: %w", name, err)
	}

	return &Analyzer{lang: lang, analyzer: a}, nil
}

func (a *Analyzer) Language() query.Language {
	return a.lang
}

func (a *Analyzer) tokens(text string) analysis.TokenStream {
	if text == "" {
		return nil
	}
	return a.analyzer.Analyze([]byte(text))
}

// ParseQuery analyzes natural-language text into the distinct lexemes that
// must all be present for a document to match. Stopword-only or
// unrecognizable input yields an empty Query that matches nothing.
func (a *Analyzer) ParseQuery(text string) Query {
	seen := make(map[string]struct{})
	var lexemes []string
	for _, tok := range a.tokens(text) {
		term := string(tok.Term)
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		lexemes = append(lexemes, term)
	}
	return Query{lexemes: lexemes}
}

// Query is a parsed plain-text query: a conjunction of lexemes.
type Query struct {
	lexemes []string
}

func (q Query) Lexemes() []string {
	return q.lexemes
}

func (q Query) IsEmpty() bool {
	return len(q.lexemes) == 0
}

func (q Query) contains(term string) bool {
	for _, l := range q.lexemes {
		if l == term {
			return true
		}
	}
	return false
}
