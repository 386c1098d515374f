// Command matchd runs the matching engine behind the newline-delimited
// gateway, recovering any prior state from its write-ahead log on start.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"matchd/internal/config"
	"matchd/internal/engine"
	"matchd/internal/gateway"
	"matchd/internal/wal"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal().Err(err).Msg("matchd: exiting")
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()

	w, err := wal.Open(cfg.WALDir)
	if err != nil {
		return err
	}
	defer w.Close()

	eng := engine.New(w)

	t, ctx := tomb.WithContext(ctx)

	t.Go(func() error {
		return eng.Run(t)
	})

	gw, err := gateway.New(cfg.GatewayAddr, eng)
	if err != nil {
		return err
	}
	t.Go(func() error {
		return gw.Run(t)
	})

	log.Info().Str("walDir", cfg.WALDir).Str("gatewayAddr", cfg.GatewayAddr).Msg("matchd: ready")

	<-ctx.Done()
	t.Kill(nil)
	return t.Wait()
}
