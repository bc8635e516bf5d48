// Package store provides the SQL seam repos are written against
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	perr "eidclient/internal/platform/errors"
	"eidclient/internal/platform/logger"
	"eidclient/internal/platform/store/pg"

	"github.com/cenkalti/backoff/v4"
)

// Store is the facade for optional backends
// zero value is safe but does nothing
type Store struct {
	// PG is the postgres sql seam, nil when disabled
	PG TxRunner
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// CommandTag is a tiny interface to inspect command results
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Config configures the backends; an empty PG.URL leaves postgres disabled
type Config struct {
	AppName string
	PG      PGConfig
}

// PGConfig configures postgres connectivity
type PGConfig struct {
	URL      string
	MaxConns int32
	Slow     time.Duration

	// ConnectFor bounds the startup ping retries; 0 means 30s
	ConnectFor  time.Duration
	PingTimeout time.Duration
}

var openPool = pg.Open

// Open constructs a Store with the requested backends
// backends not configured remain nil on the Store
func Open(ctx context.Context, cfg Config) (*Store, error) {
	s := &Store{}
	if cfg.PG.URL == "" {
		return s, nil
	}
	p, err := openPool(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		AppName:  cfg.AppName,
		Slow:     cfg.PG.Slow,
	}, nil)
	if err != nil {
		return nil, err
	}
	if err := waitReady(ctx, p, cfg.PG); err != nil {
		p.Close()
		return nil, err
	}
	s.PG = newPGAdapter(p)
	return s, nil
}

// waitReady pings with exponential backoff until the server answers or the budget runs out
func waitReady(ctx context.Context, p Pinger, cfg PGConfig) error {
	budget, pingTimeout := cfg.ConnectFor, cfg.PingTimeout
	if budget <= 0 {
		budget = 30 * time.Second
	}
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 150 * time.Millisecond
	eb.MaxInterval = 2 * time.Second
	eb.MaxElapsedTime = budget

	log := logger.Named("store")
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		err := p.Ping(pctx)
		if err != nil {
			log.Debug().Err(err).Int("attempt", attempt).Msg("postgres not ready")
		}
		return err
	}, backoff.WithContext(eb, ctx))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "postgres not ready after %d attempts", attempt)
	}
	return nil
}

// Guard verifies all configured seams the Store knows about
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	if p, ok := s.PG.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("pg: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close closes all initialized backends
// nil backends are ignored
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
