package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pavelsemak/aitrader/internal/config"
	"github.com/pavelsemak/aitrader/internal/market"
	"github.com/pavelsemak/aitrader/internal/notify"
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
		log.Warn().Msg("no database configured, models and prediction logs will not survive restarts")
		store = storage.NewMemory()
	}

	var notifier models.Notifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatal().Err(err).Msg("telegram setup failed")
		}
		notifier = tg
	}

	client := market.NewClient(cfg.TwelveAPIKey, cfg.Interval, time.Duration(cfg.RequestTimeout)*time.Second)

	engine, err := signal.NewEngine(signal.Config{
		Provider:        client,
		Storage:         store,
		Notifier:        notifier,
		Symbols:         cfg.Symbols,
		Network:         cfg.Network,
		Risk:            cfg.Risk,
		HistoryBars:     cfg.HistoryBars,
		EnableSentiment: cfg.EnableSentiment,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("engine setup failed")
	}

	for _, symbol := range engine.SupportedSymbols() {
		generated, err := engine.GenerateSignal(ctx, symbol, cfg.SignalDuration)
		if err != nil {
			log.Error().Err(err).Str("symbol", symbol).Msg("signal generation failed")
			continue
		}
		if generated == nil {
			log.Info().Str("symbol", symbol).Msg("no actionable signal")
			continue
		}

		log.Info().
			Str("symbol", generated.Symbol).
			Str("direction", generated.Direction).
			Float64("confidence", generated.Confidence).
			Float64("entry", generated.EntryPrice).
			Float64("stop_loss", generated.StopLoss).
			Float64("take_profit", generated.TakeProfit).
			Strs("reasoning", generated.Reasoning).
			Msg("signal")

		metrics, err := engine.EvaluateModel(ctx, symbol)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Warn().Err(err).Str("symbol", symbol).Msg("evaluation unavailable")
			}
			continue
		}
		if metrics.TotalTrades > 0 {
			log.Info().
				Str("symbol", symbol).
				Float64("accuracy", metrics.Accuracy).
				Float64("win_rate", metrics.WinRate).
				Int("trades", metrics.TotalTrades).
				Msg("model performance")
		}
	}
}
