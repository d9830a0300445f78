package pg

import (
	"errors"
	"fmt"
	"net"

	"github.com/DjordjeVuckovic/article-fts/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
)

const backendName = "pg"

// wrapErr annotates err with op and marks connection-level failures as
// apperr.StoreUnavailableError.
func wrapErr(op string, err error) error {
	wrapped := fmt.Errorf("%s: %w", op, err)
	if isUnavailable(err) {
		return apperr.NewStoreUnavailable(backendName, wrapped)
	}
	return wrapped
}

func isUnavailable(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
