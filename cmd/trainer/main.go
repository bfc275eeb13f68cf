package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pavelsemak/aitrader/internal/config"
	"github.com/pavelsemak/aitrader/internal/market"
	"github.com/pavelsemak/aitrader/internal/signal"
	"github.com/pavelsemak/aitrader/internal/storage"
	"github.com/pavelsemak/aitrader/models"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	ctx := context.Background()

	var store models.Storage
	if cfg.UsePostgres() {
		pg, err := storage.NewPostgres(storage.ConnectionParams{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		defer pg.Close()
		store = pg
	} else {
		log.Warn().Msg("no database configured, trained models will not survive this process")
		store = storage.NewMemory()
	}

	client := market.NewClient(cfg.TwelveAPIKey, cfg.Interval, time.Duration(cfg.RequestTimeout)*time.Second)

	engine, err := signal.NewEngine(signal.Config{
		Provider:    client,
		Storage:     store,
		Symbols:     cfg.Symbols,
		Network:     cfg.Network,
		Risk:        cfg.Risk,
		HistoryBars: cfg.HistoryBars,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("engine setup failed")
	}

	started := time.Now()
	log.Info().Strs("symbols", engine.SupportedSymbols()).Msg("starting training run")

	if err := engine.TrainModels(ctx); err != nil {
		log.Fatal().Err(err).Msg("training run finished with errors")
	}

	log.Info().Dur("elapsed", time.Since(started)).Msg("training run complete")
}
