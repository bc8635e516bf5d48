// Command eid-cli starts one sign or auth order, polls it to a terminal state and prints the outcome
//
// Interrupting while the order is pending cancels it on endpoints that support cancel
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eidclient/internal/core/order"
	"eidclient/internal/platform/config"
	perr "eidclient/internal/platform/errors"
	"eidclient/internal/platform/logger"
	orders "eidclient/internal/services/orders/domain"
	"eidclient/internal/services/orders/poll"
	orderssvc "eidclient/internal/services/orders/service"

	"github.com/google/uuid"
)

// exit codes
const (
	exitComplete    = 0
	exitFailed      = 1
	exitUsage       = 2
	exitError       = 3
	exitInterrupted = 130
)

func main() {
	opt := logger.FromEnv()
	opt.Service = "eid-cli"
	opt.Writer = os.Stderr
	logger.Init(opt)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type flags struct {
	auth     bool
	endpoint string
	pnr      string
	ip       string
	text     string
	hidden   string
}

func parse(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("eid-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&f.auth, "auth", false, "start an authentication order instead of a signing order")
	fs.StringVar(&f.endpoint, "endpoint", "", "endpoint URL (overrides EID_ENDPOINT)")
	fs.StringVar(&f.pnr, "pnr", "", "12-digit personal number; empty lets any user answer")
	fs.StringVar(&f.ip, "ip", "", "end user IP (overrides EID_END_USER_IP)")
	fs.StringVar(&f.text, "text", "", "text shown to the user when signing")
	fs.StringVar(&f.hidden, "hidden", "", "data signed but not shown")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if !f.auth && f.text == "" {
		return f, errors.New("-text is required when signing")
	}
	return f, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	f, err := parse(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintln(stderr, err)
		}
		return exitUsage
	}

	root := config.New().Prefix("EID_")
	cfg := orderssvc.FromConfig(root)
	if f.endpoint != "" {
		cfg.Endpoint = f.endpoint
	}
	if f.ip != "" {
		cfg.EndUserIP = f.ip
	}

	ctx = logger.WithRequest(ctx, uuid.NewString(), "")
	log := logger.C(ctx)

	client, err := orderssvc.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("order client")
		return exitError
	}

	var o order.Order
	if f.auth {
		o, err = client.StartAuth(ctx, orders.AuthInput{PersonalNumber: f.pnr})
	} else {
		o, err = client.StartSign(ctx, orders.SignInput{
			PersonalNumber:  f.pnr,
			UserVisibleData: f.text,
			UserHiddenData:  f.hidden,
		})
	}
	if err != nil {
		log.Error().Err(err).Str("code", perr.CodeOf(err).String()).Msg("start order")
		return exitError
	}
	ctx = logger.WithRequest(ctx, "", o.OrderRef)
	log = logger.C(ctx)
	log.Info().Str("auto_start_token", o.AutoStartToken).Msg("order started")

	p := poll.New(poll.FromConfig(root))
	p.RetryTransient = true
	p.OnPending = func(out order.Outcome) {
		log.Info().Str("hint", string(out.Hint)).Msg("pending")
	}

	out, err := p.Await(ctx, client, o.OrderRef)
	if err != nil {
		if ctx.Err() != nil {
			cancelOrder(client, o.OrderRef, log)
			return exitInterrupted
		}
		log.Error().Err(err).Str("code", perr.CodeOf(err).String()).Msg("poll order")
		return exitError
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Error().Err(err).Msg("write outcome")
		return exitError
	}
	if out.Status == order.StatusFailed {
		return exitFailed
	}
	return exitComplete
}

// cancelOrder runs on a fresh context; the caller's is already done
func cancelOrder(client orders.OrderPort, orderRef string, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := client.Cancel(ctx, orderRef)
	switch {
	case err == nil:
		log.Info().Msg("order cancelled")
	case perr.IsCode(err, perr.ErrorCodeUnsupported):
		log.Warn().Msg("endpoint cannot cancel; the order expires on its own")
	default:
		log.Error().Err(err).Msg("cancel order")
	}
}
