package query

import (
	"fmt"
	"strings"
)

// Language is the text search configuration used to tokenize, stem and drop
// stopwords. Values match PostgreSQL regconfig names.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageFrench  Language = "french"
	LanguageGerman  Language = "german"
	LanguageSpanish Language = "spanish"
	LanguageItalian Language = "italian"
	// LanguageSimple lowercases tokens without stemming or stopwords.
	LanguageSimple Language = "simple"
)

var DefaultLanguage = LanguageEnglish

var SupportedLanguages = map[Language]bool{
	LanguageEnglish: true,
	LanguageFrench:  true,
	LanguageGerman:  true,
	LanguageSpanish: true,
	LanguageItalian: true,
	LanguageSimple:  true,
}

func (l Language) Parse() (Language, error) {
	if l == "" {
		return DefaultLanguage, nil
	}
	normalized := Language(strings.ToLower(strings.TrimSpace(string(l))))
	if _, ok := SupportedLanguages[normalized]; !ok {
		return "", fmt.Errorf("unsupported language: %s", l)
	}
	return normalized, nil
}

func (l Language) String() string {
	return string(l)
}
