package pg

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/article-fts/internal/apperr"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PoolConfig struct {
	ConnStr string
	// MaxConns overrides pool_max_conns from the connection string when set.
	MaxConns int32
}

// ConnectionPool owns the pgx pool shared by the store and the migrator.
type ConnectionPool struct {
	conn *pgxpool.Pool
}

// NewConnectionPool connects and pings once, so a wrong address fails at
// startup with a StoreUnavailableError instead of on the first request.
func NewConnectionPool(ctx context.Context, cfg PoolConfig) (*ConnectionPool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PostgreSQL connection string: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	start := time.Now()
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, wrapErr("failed to create connection pool", err)
	}

	p := &ConnectionPool{conn: pool}
	if err := p.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	slog.Info("Connected to PostgreSQL",
		"host", poolCfg.ConnConfig.Host,
		"database", poolCfg.ConnConfig.Database,
		"max_conns", poolCfg.MaxConns,
		"duration", time.Since(start),
	)
	return p, nil
}

func (p *ConnectionPool) Pool() *pgxpool.Pool {
	return p.conn
}

func (p *ConnectionPool) Close() {
	p.conn.Close()
}

func (p *ConnectionPool) Ping(ctx context.Context) error {
	if err := p.conn.Ping(ctx); err != nil {
		return apperr.NewStoreUnavailable(backendName, fmt.Errorf("failed to ping database: %w", err))
	}
	return nil
}
