package pg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/article-fts/db"
	"github.com/jackc/pgx/v5"
)

// Migrate applies the embedded schema in a single transaction. With reset the
// down migrations run first, dropping all articles.
func (p *ConnectionPool) Migrate(ctx context.Context, reset bool) error {
	var steps []db.Migration
	if reset {
		down, err := db.Down()
		if err != nil {
			return fmt.Errorf("failed to load down migrations: %w", err)
		}
		steps = append(steps, down...)
	}
	up, err := db.Up()
	if err != nil {
		return fmt.Errorf("failed to load up migrations: %w", err)
	}
	steps = append(steps, up...)

	return pgx.BeginFunc(ctx, p.conn, func(tx pgx.Tx) error {
		for _, m := range steps {
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return wrapErr(fmt.Sprintf("failed to apply migration %s", m.Name), err)
			}
			slog.Debug("Applied migration", "name", m.Name)
		}
		slog.Info("Schema migrated", "reset", reset, "steps", len(steps))
		return nil
	})
}
