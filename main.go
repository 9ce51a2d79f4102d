package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zerosum/config"
	"zerosum/experiments"
	"zerosum/server"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	path := flag.String("config", "", "YAML config file (defaults are used without one)")
	mode := flag.String("mode", "", "Override the mode: selfplay, match, train or serve")
	gameName := flag.String("game", "", "Override the game: tictactoe, connect4 or othello")
	flag.Parse()

	cfg, err := config.Resolve(*path, *mode, *gameName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Str("mode", cfg.Mode).Msg("run failed")
	}
}

func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		log.Warn().Str("level", cfg.Level).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func run(ctx context.Context, cfg config.Config) error {
	switch cfg.Mode {
	case "serve":
		err := server.New(cfg.Search.Options()...).ListenAndServe(ctx, cfg.Server.Addr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case "train":
		_, err := experiments.CreateDataset(ctx, cfg, cfg.Training.Output)
		return err
	default:
		exp := experiments.NewMatchExperiment(cfg)
		if cfg.Mode == "selfplay" {
			// Same config for both players for the same playing strength
			exp = experiments.NewSelfPlayExperiment(cfg)
		}
		start := time.Now()
		result, err := experiments.Run(ctx, exp)
		if err != nil {
			return err
		}
		_, err = experiments.Save(cfg.Match.Output, exp, result, start, time.Now())
		return err
	}
}
