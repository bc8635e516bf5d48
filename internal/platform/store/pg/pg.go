// Package pg opens pgxpool connections with an optional zerolog query tracer
package pg

import (
	"context"
	"time"

	perr "eidclient/internal/platform/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	MaxConns int32
	AppName  string
	// Slow marks queries at or above this latency; 0 disables the tracer
	Slow time.Duration
}

// PG wraps a pgx pool
type PG struct {
	Pool *pgxpool.Pool
}

var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL, applies cfg and the optional mutator, and builds the pool
// The pool connects lazily, so Open succeeds without a reachable server
func Open(ctx context.Context, cfg Config, poolCfgMut func(*pgxpool.Config)) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfiguration, "parse postgres url")
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if cfg.Slow > 0 {
		pcfg.ConnConfig.Tracer = NewTracer(cfg.Slow)
	}
	if poolCfgMut != nil {
		poolCfgMut(pcfg)
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, perr.FromPostgresf(err, "open pool")
	}
	return &PG{Pool: pool}, nil
}

// Ping checks the server is reachable
func (p *PG) Ping(ctx context.Context) error {
	if err := p.Pool.Ping(ctx); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "postgres ping")
	}
	return nil
}

// Close closes the pool; nil-safe
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
