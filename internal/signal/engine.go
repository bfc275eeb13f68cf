package signal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pavelsemak/aitrader/internal/calculate"
	"github.com/pavelsemak/aitrader/internal/neural"
	"github.com/pavelsemak/aitrader/models"
)

// ErrTrainingInProgress is returned when a training run is requested while
// another one is still active. Concurrent requests fail fast instead of
// queueing.
var ErrTrainingInProgress = errors.New("model training already in progress")

// defaultSymbols is the built-in watch list.
var defaultSymbols = []string{
	"EUR/USD", "GBP/USD", "USD/JPY", "AUD/USD",
	"USD/CAD", "USD/CHF", "NZD/USD", "EUR/GBP",
}

const defaultHistoryBars = 200

// Config wires an Engine to its collaborators.
type Config struct {
	Provider models.MarketDataProvider
	Storage  models.Storage
	Notifier models.Notifier // optional
	Symbols  []string
	Network  models.NetworkConfig
	Risk     models.RiskConfig
	// HistoryBars is the window length requested from the provider.
	HistoryBars int
	// EnableSentiment folds the mocked sentiment term into the combined
	// score, shifting 10% of the model weight onto it.
	EnableSentiment bool
}

// Engine generates trading signals per symbol. It owns an explicit
// symbol-to-model registry, the exclusive training guard and the per-symbol
// prediction logs. Signal generation for different symbols may run
// concurrently; training is exclusive across the engine.
type Engine struct {
	provider models.MarketDataProvider
	store    models.Storage
	notifier models.Notifier

	symbols     []string
	netCfg      models.NetworkConfig
	risk        models.RiskConfig
	historyBars int
	sentiment   bool

	trainMu    sync.Mutex
	isTraining bool

	modelsMu sync.RWMutex
	models   map[string]*neural.Network

	logger zerolog.Logger
}

// NewEngine validates the configuration and constructs an engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Provider == nil {
		return nil, errors.New("market data provider is required")
	}
	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}

	if len(cfg.Symbols) == 0 {
		cfg.Symbols = defaultSymbols
	}
	if cfg.Network.InputSize == 0 {
		cfg.Network = models.DefaultNetworkConfig()
	}
	if cfg.Risk == (models.RiskConfig{}) {
		cfg.Risk = models.DefaultRiskConfig()
	}
	if err := cfg.Risk.Validate(); err != nil {
		return nil, fmt.Errorf("invalid risk config: %w", err)
	}
	if cfg.HistoryBars <= 0 {
		cfg.HistoryBars = defaultHistoryBars
	}

	return &Engine{
		provider:    cfg.Provider,
		store:       cfg.Storage,
		notifier:    cfg.Notifier,
		symbols:     cfg.Symbols,
		netCfg:      cfg.Network,
		risk:        cfg.Risk,
		historyBars: cfg.HistoryBars,
		sentiment:   cfg.EnableSentiment,
		models:      make(map[string]*neural.Network),
		logger:      log.With().Str("component", "signal_engine").Logger(),
	}, nil
}

// SupportedSymbols returns the watch list.
func (e *Engine) SupportedSymbols() []string {
	out := make([]string, len(e.symbols))
	copy(out, e.symbols)
	return out
}

// MarketData fetches the historical window for a symbol.
func (e *Engine) MarketData(ctx context.Context, symbol string) ([]models.Bar, error) {
	return e.provider.FetchHistoricalData(ctx, symbol, e.historyBars)
}

// CalculateIndicators computes the indicator snapshot over a bar sequence.
func (e *Engine) CalculateIndicators(bars []models.Bar) *models.TechnicalIndicators {
	return calculate.All(bars)
}

// IsTraining reports whether a training run is active.
func (e *Engine) IsTraining() bool {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()
	return e.isTraining
}

// modelFor returns the registered model for a symbol, restoring it from
// storage or initializing fresh weights on first use. A load failure
// degrades to fresh weights rather than failing the caller.
func (e *Engine) modelFor(ctx context.Context, symbol string) *neural.Network {
	e.modelsMu.RLock()
	model, ok := e.models[symbol]
	e.modelsMu.RUnlock()
	if ok {
		return model
	}

	e.modelsMu.Lock()
	defer e.modelsMu.Unlock()
	if model, ok = e.models[symbol]; ok {
		return model
	}

	if restored, ok := neural.Load(ctx, e.store, symbol); ok {
		e.logger.Debug().Str("symbol", symbol).Msg("restored persisted model")
		e.models[symbol] = restored
		return restored
	}

	model = neural.New(e.netCfg)
	e.models[symbol] = model
	return model
}
