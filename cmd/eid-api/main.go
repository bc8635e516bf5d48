// Command eid-api serves the order client over HTTP
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eidclient/internal/platform/config"
	"eidclient/internal/platform/logger"
	phttp "eidclient/internal/platform/net/http"
	"eidclient/internal/platform/store"

	"eidclient/internal/services/api"
	journal "eidclient/internal/services/journal/domain"
	journalrepo "eidclient/internal/services/journal/repo"
	journalsvc "eidclient/internal/services/journal/service"
	orderssvc "eidclient/internal/services/orders/service"
)

func main() {
	opt := logger.FromEnv()
	opt.Service = "eid-api"
	logger.Init(opt)
	l := logger.Get()

	root := config.New().Prefix("EID_")
	started := time.Now()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := orderssvc.New(orderssvc.FromConfig(root))
	if err != nil {
		l.Panic().Err(err).Msg("order client")
	}

	// journal is optional; an empty URL leaves the store disabled
	st, err := store.Open(ctx, store.Config{
		AppName: "eid-api",
		PG: store.PGConfig{
			URL:      root.MayString("JOURNAL_DBURL", ""),
			MaxConns: int32(root.MayInt("JOURNAL_MAX_CONNS", 4)),
			Slow:     root.MayDuration("JOURNAL_SLOW", 500*time.Millisecond),
		},
	})
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	var rec journal.Recorder = journalsvc.Noop{}
	if st.PG != nil {
		repo := journalrepo.NewPG(st.PG)
		if err := repo.EnsureSchema(ctx); err != nil {
			l.Panic().Err(err).Msg("journal schema")
		}
		rec = journalsvc.New(repo)
	}

	srv := phttp.NewServer(root.MayString("API_PORT", ":4000"))
	api.Mount(srv.Router(), api.Options{
		Config:      root,
		Store:       st,
		Orders:      client,
		Endpoint:    client.Endpoint(),
		Journal:     rec,
		Timeout:     root.MayDuration("API_TIMEOUT", 30*time.Second),
		CORSOrigins: root.MayCSV("API_CORS_ORIGINS", nil),
		StartedAt:   started,
		Docs:        root.MayBool("API_DOCS", false),
	})

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
