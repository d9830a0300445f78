package domain

import "time"

// TopK is the number of hits every search strategy returns at most.
const TopK = 5

// UntitledArticle replaces an empty title during bulk import.
const UntitledArticle = "Untitled"

// Article is a persisted record. SearchVector is the textual form of the
// weighted full-text representation derived from Title (tier A) and
// Content (tier B); it is owned by the store and never serialized to clients.
type Article struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	SearchVector string    `json:"-"`
}

// NewArticle is the insert input. A nil CreatedAt means "now".
type NewArticle struct {
	Title     string
	Content   string
	CreatedAt *time.Time
}

// ArticleSummary is the id+title projection returned by listings.
type ArticleSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// ArticleHit is a full article matched by the indexed strategy.
type ArticleHit struct {
	Article
	Rank float64 `json:"-"`
}

// HighlightedHit is a match with matched terms wrapped in highlight markers.
type HighlightedHit struct {
	ID                 int64   `json:"id"`
	Title              string  `json:"title"`
	Content            string  `json:"content"`
	HighlightedTitle   string  `json:"highlighted_title"`
	HighlightedContent string  `json:"highlighted_content"`
	Rank               float64 `json:"rank"`
}

// RankedHit is a match ranked over a representation computed at query time.
type RankedHit struct {
	ID      int64   `json:"id"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Rank    float64 `json:"rank"`
}
