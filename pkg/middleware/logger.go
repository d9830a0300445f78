package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type LoggerOpts func(*middleware.RequestLoggerConfig)

// WithSkipper excludes matching requests from the access log.
func WithSkipper(skipper middleware.Skipper) LoggerOpts {
	return func(cfg *middleware.RequestLoggerConfig) {
		cfg.Skipper = skipper
	}
}

// Logger writes one slog record per request. Server errors log at error
// level, client errors at warn.
func Logger(opts ...LoggerOpts) echo.MiddlewareFunc {
	cfg := middleware.RequestLoggerConfig{
		LogStatus:     true,
		LogLatency:    true,
		LogURI:        true,
		LogMethod:     true,
		LogRequestID:  true,
		LogRemoteIP:   true,
		LogError:      true,
		HandleError:   true,
		LogValuesFunc: logValues,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return middleware.RequestLoggerWithConfig(cfg)
}

func logValues(c echo.Context, v middleware.RequestLoggerValues) error {
	attrs := []slog.Attr{
		slog.String("method", v.Method),
		slog.String("uri", v.URI),
		slog.Int("status", v.Status),
		slog.Duration("latency", v.Latency),
		slog.String("request_id", v.RequestID),
		slog.String("remote_ip", v.RemoteIP),
	}

	msg, level := "REQUEST", slog.LevelInfo
	switch {
	case v.Status >= http.StatusInternalServerError:
		level = slog.LevelError
	case v.Status >= http.StatusBadRequest:
		level = slog.LevelWarn
	}
	if v.Error != nil {
		msg = "REQUEST_ERROR"
		attrs = append(attrs, slog.String("err", v.Error.Error()))
	}

	slog.LogAttrs(c.Request().Context(), level, msg, attrs...)
	return nil
}
