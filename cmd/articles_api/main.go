// Package main Article FTS API
// @title Article FTS API
// @version 1.0
// @description REST API over PostgreSQL full-text search for news articles
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/DjordjeVuckovic/article-fts/internal/api/router"
	"github.com/DjordjeVuckovic/article-fts/internal/api/server"
	"github.com/DjordjeVuckovic/article-fts/internal/search"
	"github.com/DjordjeVuckovic/article-fts/internal/storage/factory"
	pkgserver "github.com/DjordjeVuckovic/article-fts/pkg/server"
	"github.com/labstack/echo/v4"
)

const storeInitTimeout = 30 * time.Second

func main() {
	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(cfg.LogLevel)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	initCtx, cancelInit := context.WithTimeout(context.Background(), storeInitTimeout)
	store, err := factory.NewStore(initCtx, &cfg.StorageConfig)
	cancelInit()
	if err != nil {
		slog.Error("Failed to create article store", "error", err, "storageType", cfg.Type)
		os.Exit(1)
	}
	defer store.Close()

	s := server.New(sCfg, pkgserver.NewPingHealthChecker(store)).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Article FTS API is running")
	})

	if err := bootstrap(s.Context(), store, cfg.Seed); err != nil {
		slog.Error("Failed to prepare article schema", "error", err)
		store.Close()
		os.Exit(1)
	}

	searcher, err := search.NewService(store,
		search.WithTopK(cfg.TopK),
		search.WithHighlight(cfg.Highlight),
	)
	if err != nil {
		slog.Error("Failed to create search service", "error", err)
		os.Exit(1)
	}

	router.NewArticleRouter(s.Echo, store, searcher).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	if err := s.Start(); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
