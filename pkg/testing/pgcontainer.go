package testing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const pgImage = "postgres:17.5"

// PGContainer is a throwaway Postgres instance with an empty database. Callers
// apply the schema through the store's migrator.
type PGContainer struct {
	Container  testcontainers.Container
	ConnString string
}

type PGConfig struct {
	Database string
	Username string
	Password string
}

func DefaultPGConfig() PGConfig {
	return PGConfig{
		Database: "articles_test_db",
		Username: "test",
		Password: "test",
	}
}

// StartPGContainer starts Postgres; the caller terminates it.
func StartPGContainer(ctx context.Context, cfg PGConfig) (*PGContainer, error) {
	c, err := postgres.Run(ctx, pgImage,
		postgres.WithDatabase(cfg.Database),
		postgres.WithUsername(cfg.Username),
		postgres.WithPassword(cfg.Password),
		testcontainers.WithWaitStrategy(
			// The server restarts once after initdb, hence two occurrences.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(c)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &PGContainer{Container: c, ConnString: connStr}, nil
}

// NewPGContainer starts Postgres for a single test and terminates it on cleanup.
func NewPGContainer(ctx context.Context, tb testing.TB) *PGContainer {
	tb.Helper()

	c, err := StartPGContainer(ctx, DefaultPGConfig())
	if err != nil {
		tb.Fatalf("%v", err)
	}
	tb.Cleanup(func() { terminate(tb, c.Container) })
	return c
}

func terminate(tb testing.TB, c testcontainers.Container) {
	if err := testcontainers.TerminateContainer(c); err != nil {
		tb.Logf("failed to terminate container: %v", err)
	}
}
