package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/avanderw/highsociety/server"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	configPath := flag.String("config", "highsociety.toml", "config file")
	flag.Parse()

	// .env is optional, real env always wins
	_ = godotenv.Load()

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := server.NewServer(cfg)

	grp, gctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		return srv.Run(gctx)
	})

	log.Info().Str("addr", cfg.Addr).Msg("serving")

	if err := grp.Wait(); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
