package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Title string `json:"title,omitempty"`
}

// GlobalErrorHandler maps the error kinds of this package to HTTP statuses.
// Anything unrecognised becomes a 500 without exposing the cause.
func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := classify(err)
		if status >= http.StatusInternalServerError {
			slog.Error("Request failed",
				"status", status,
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			slog.Error("Failed to write error response", "error", err)
		}
	}
}

func classify(err error) (int, ErrorBody) {
	var (
		ve *ValidationError
		nf *NotFoundError
		su *StoreUnavailableError
		he *echo.HTTPError
	)

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ErrorBody{Error: ve.Message, Title: "validation error"}
	case errors.As(err, &nf):
		return http.StatusNotFound, ErrorBody{Error: nf.Error(), Title: "not found"}
	case errors.As(err, &su):
		return http.StatusServiceUnavailable, ErrorBody{Error: "storage is unavailable", Title: "service unavailable"}
	case errors.As(err, &he):
		return he.Code, ErrorBody{Error: fmt.Sprint(he.Message)}
	default:
		return http.StatusInternalServerError, ErrorBody{Error: "internal server error"}
	}
}
