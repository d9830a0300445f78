package router

import (
	"net/http"
	"strconv"

	"github.com/DjordjeVuckovic/article-fts/internal/api/dto"
	"github.com/DjordjeVuckovic/article-fts/internal/apperr"
	"github.com/DjordjeVuckovic/article-fts/internal/search"
	"github.com/DjordjeVuckovic/article-fts/internal/storage"
	"github.com/labstack/echo/v4"
)

const queryParam = "query"

type ArticleRouter struct {
	e        *echo.Echo
	store    storage.ArticleStore
	searcher *search.Service
}

func NewArticleRouter(e *echo.Echo, store storage.ArticleStore, searcher *search.Service) *ArticleRouter {
	return &ArticleRouter{
		e:        e,
		store:    store,
		searcher: searcher,
	}
}

func (r *ArticleRouter) Bind() {
	g := r.e.Group("/articles")
	g.GET("", r.listHandler)
	g.GET("/count", r.countHandler)
	g.GET("/search/basic", r.basicSearchHandler)
	g.GET("/search/highlights", r.highlightsSearchHandler)
	g.GET("/search/dynamic", r.dynamicSearchHandler)
	g.GET("/:id", r.getHandler)
}

// listHandler godoc
// @Summary List articles
// @Description Returns the id and title of every article ordered by id
// @Tags articles
// @Produce json
// @Success 200 {array} dto.ArticleSummary
// @Failure 503 {object} dto.ErrorResponse
// @Router /articles [get]
func (r *ArticleRouter) listHandler(c echo.Context) error {
	summaries, err := r.store.List(c.Request().Context(), storage.ListOptions{})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromSummaries(summaries))
}

// countHandler godoc
// @Summary Count articles
// @Tags articles
// @Produce json
// @Success 200 {integer} int64
// @Failure 503 {object} dto.ErrorResponse
// @Router /articles/count [get]
func (r *ArticleRouter) countHandler(c echo.Context) error {
	count, err := r.store.Count(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, count)
}

// getHandler godoc
// @Summary Get an article
// @Tags articles
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} dto.Article
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /articles/{id} [get]
func (r *ArticleRouter) getHandler(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperr.NewValidationWrap("id must be an integer", err)
	}

	article, err := r.store.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromArticle(*article))
}

// basicSearchHandler godoc
// @Summary Full-text search over the stored index
// @Description Matches every term of the query against title and content and returns the top 5 articles by rank
// @Tags search
// @Produce json
// @Param query query string true "Natural-language query"
// @Success 200 {array} dto.Article
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /articles/search/basic [get]
func (r *ArticleRouter) basicSearchHandler(c echo.Context) error {
	q, err := requireQuery(c)
	if err != nil {
		return err
	}

	articles, err := r.searcher.Basic(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromArticles(articles))
}

// highlightsSearchHandler godoc
// @Summary Ranked search with highlighted matches
// @Description Same match and rank as basic search, with matched terms wrapped in highlight markers
// @Tags search
// @Produce json
// @Param query query string true "Natural-language query"
// @Success 200 {array} dto.HighlightedArticle
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /articles/search/highlights [get]
func (r *ArticleRouter) highlightsSearchHandler(c echo.Context) error {
	q, err := requireQuery(c)
	if err != nil {
		return err
	}

	hits, err := r.searcher.Highlights(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromHighlightedHits(hits))
}

// dynamicSearchHandler godoc
// @Summary Search with ranking computed at query time
// @Description Derives the weighted representation from title and content for every article instead of using the stored index
// @Tags search
// @Produce json
// @Param query query string true "Natural-language query"
// @Success 200 {array} dto.RankedArticle
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /articles/search/dynamic [get]
func (r *ArticleRouter) dynamicSearchHandler(c echo.Context) error {
	q, err := requireQuery(c)
	if err != nil {
		return err
	}

	hits, err := r.searcher.Dynamic(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromRankedHits(hits))
}

// requireQuery distinguishes a missing parameter, which is rejected, from a
// blank one, which yields an empty result.
func requireQuery(c echo.Context) (string, error) {
	if !c.QueryParams().Has(queryParam) {
		return "", apperr.NewValidation("query parameter is required")
	}
	return c.QueryParam(queryParam), nil
}
