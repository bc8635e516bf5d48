// Package poll drives an order to a terminal state from the caller's side
//
// The order client never schedules anything itself. Poller collects at a fixed
// interval, stops on complete or failed, and gives up after MaxAttempts collects
package poll

import (
	"context"
	"errors"
	"time"

	"eidclient/internal/core/order"
	perr "eidclient/internal/platform/errors"
	"eidclient/internal/platform/logger"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

// Defaults keep well inside the remote service's tolerance of one collect per second
const (
	DefaultInterval    = 2 * time.Second
	DefaultMaxAttempts = 90
)

// Collector is the one call a poller needs
type Collector interface {
	Collect(ctx context.Context, orderRef string) (order.Outcome, error)
}

// Poller holds the polling policy; the zero value uses the defaults
type Poller struct {
	Interval    time.Duration
	MaxAttempts int

	// Limiter, when set, is shared by every order polled through this Poller
	Limiter *rate.Limiter

	// RetryTransient keeps polling through retryable errors, counting them as attempts
	RetryTransient bool

	// OnPending sees every non-terminal outcome in order
	OnPending func(order.Outcome)
}

// Config is the env-facing form of the policy
type Config struct {
	Interval    time.Duration
	MaxAttempts int
	// RPS caps collects per second across all orders; 0 disables the cap
	RPS float64
}

// New builds a Poller from cfg
func New(cfg Config) *Poller {
	p := &Poller{Interval: cfg.Interval, MaxAttempts: cfg.MaxAttempts}
	if cfg.RPS > 0 {
		p.Limiter = rate.NewLimiter(rate.Limit(cfg.RPS), 1)
	}
	return p
}

var errPending = errors.New("order still pending")

func (p *Poller) policy(ctx context.Context) backoff.BackOffContext {
	interval, attempts := p.Interval, p.MaxAttempts
	if interval <= 0 {
		interval = DefaultInterval
	}
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	return backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(attempts-1)),
		ctx,
	)
}

// Await collects orderRef until it is complete or failed
// A failed order is returned as an outcome, not an error. Running out of attempts is a
// timeout error carrying the last pending outcome; a cancelled ctx returns ctx.Err()
func (p *Poller) Await(ctx context.Context, c Collector, orderRef string) (order.Outcome, error) {
	log := logger.C(logger.WithRequest(ctx, "", orderRef))
	var (
		last     order.Outcome
		attempts int
	)

	op := func() error {
		if p.Limiter != nil {
			if err := p.Limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}
		attempts++
		out, err := c.Collect(ctx, orderRef)
		if err != nil {
			if p.RetryTransient && perr.Retryable(err) {
				log.Warn().Err(err).Int("attempt", attempts).Msg("collect failed, will retry")
				return err
			}
			return backoff.Permanent(err)
		}
		last = out
		if out.Terminal() {
			return nil
		}
		if p.OnPending != nil {
			p.OnPending(out)
		}
		return errPending
	}

	err := backoff.Retry(op, p.policy(ctx))
	switch {
	case err == nil:
		log.Debug().Str("status", string(last.Status)).Int("attempts", attempts).Msg("order settled")
		return last, nil
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return last, err
	case errors.Is(err, errPending):
		return last, perr.WithOp(perr.Timeoutf("order %s still pending after %d collects", orderRef, attempts), "Await")
	case perr.Retryable(err) && p.RetryTransient:
		return last, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeTimeout, "order %s gave up after %d collects", orderRef, attempts), "Await")
	default:
		return last, err
	}
}
