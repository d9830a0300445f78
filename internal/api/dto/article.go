package dto

import (
	"time"

	"github.com/DjordjeVuckovic/article-fts/internal/domain"
	"github.com/DjordjeVuckovic/article-fts/pkg/utils"
)

// RankDecimalPlaces is the precision ranks are reported with.
const RankDecimalPlaces = 6

type Article struct {
	ID        int64     `json:"id" example:"1"`
	Title     string    `json:"title" example:"Cats and Dogs"`
	Content   string    `json:"content" example:"Dogs are loyal."`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ArticleSummary struct {
	ID    int64  `json:"id" example:"1"`
	Title string `json:"title" example:"Cats and Dogs"`
}

type HighlightedArticle struct {
	ID                 int64   `json:"id" example:"1"`
	Title              string  `json:"title" example:"Cats and Dogs"`
	Content            string  `json:"content" example:"Dogs are loyal."`
	HighlightedTitle   string  `json:"highlighted_title" example:"Cats and <b>Dogs</b>"`
	HighlightedContent string  `json:"highlighted_content" example:"<b>Dogs</b> are loyal."`
	Rank               float64 `json:"rank" example:"0.075991"`
}

type RankedArticle struct {
	ID      int64   `json:"id" example:"1"`
	Title   string  `json:"title" example:"Cats and Dogs"`
	Content string  `json:"content" example:"Dogs are loyal."`
	Rank    float64 `json:"rank" example:"0.075991"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"query parameter is required"`
	Title string `json:"title,omitempty" example:"validation error"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

func FromArticle(a domain.Article) Article {
	return Article{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func FromArticles(articles []domain.Article) []Article {
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		out = append(out, FromArticle(a))
	}
	return out
}

func FromSummaries(summaries []domain.ArticleSummary) []ArticleSummary {
	out := make([]ArticleSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, ArticleSummary{ID: s.ID, Title: s.Title})
	}
	return out
}

func FromHighlightedHits(hits []domain.HighlightedHit) []HighlightedArticle {
	out := make([]HighlightedArticle, 0, len(hits))
	for _, h := range hits {
		out = append(out, HighlightedArticle{
			ID:                 h.ID,
			Title:              h.Title,
			Content:            h.Content,
			HighlightedTitle:   h.HighlightedTitle,
			HighlightedContent: h.HighlightedContent,
			Rank:               utils.RoundDecimal(h.Rank, RankDecimalPlaces),
		})
	}
	return out
}

func FromRankedHits(hits []domain.RankedHit) []RankedArticle {
	out := make([]RankedArticle, 0, len(hits))
	for _, h := range hits {
		out = append(out, RankedArticle{
			ID:      h.ID,
			Title:   h.Title,
			Content: h.Content,
			Rank:    utils.RoundDecimal(h.Rank, RankDecimalPlaces),
		})
	}
	return out
}
