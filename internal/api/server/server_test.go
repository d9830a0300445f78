package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgserver "github.com/DjordjeVuckovic/article-fts/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newTestServer(healthy bool) *Server {
	return New(&Config{Port: "0", CorsOrigins: []string{"*"}}, pkgserver.HealthCheckerFunc(func(context.Context) bool { return healthy })).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*")
}

func serve(s *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	ok := serve(newTestServer(true), "/health")
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.JSONEq(t, `{"status":"ok"}`, ok.Body.String())

	down := serve(newTestServer(false), "/health")
	assert.Equal(t, http.StatusServiceUnavailable, down.Code)
}

func TestRequestIDHeader(t *testing.T) {
	rec := serve(newTestServer(true), "/health")

	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)
}

func TestUnknownRouteUsesErrorHandler(t *testing.T) {
	rec := serve(newTestServer(true), "/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestSwaggerDocServed(t *testing.T) {
	rec := serve(newTestServer(true), "/swagger/doc.json")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/articles/search/highlights")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("USE_HTTP2", "true")
	t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")

	cfg, err := LoadConfig()

	assert.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.UseHttp2)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CorsOrigins)
}

func TestLoadConfig_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "99999")

	_, err := LoadConfig()

	assert.Error(t, err)
}
