package signal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pavelsemak/aitrader/internal/calculate"
	"github.com/pavelsemak/aitrader/internal/features"
	"github.com/pavelsemak/aitrader/models"
)

const (
	// minTrainingSamples is the floor below which a symbol is skipped.
	minTrainingSamples = 50
	// sampleWarmup is how many bars an indicator window needs before the
	// first sample is taken.
	sampleWarmup = 30
)

// TrainingDataKey returns the storage key for a symbol's cached samples.
func TrainingDataKey(symbol string) string {
	return "training_data_" + symbol
}

// TrainModels trains and persists a model for each given symbol (the whole
// watch list when none are given). At most one training run may be active
// per engine; a concurrent call fails fast with ErrTrainingInProgress.
func (e *Engine) TrainModels(ctx context.Context, symbols ...string) error {
	e.trainMu.Lock()
	if e.isTraining {
		e.trainMu.Unlock()
		return ErrTrainingInProgress
	}
	e.isTraining = true
	e.trainMu.Unlock()

	defer func() {
		e.trainMu.Lock()
		e.isTraining = false
		e.trainMu.Unlock()
	}()

	if len(symbols) == 0 {
		symbols = e.symbols
	}

	var errs []error
	for _, symbol := range symbols {
		if err := e.trainSymbol(ctx, symbol); err != nil {
			e.logger.Error().Err(err).Str("symbol", symbol).Msg("training failed")
			errs = append(errs, fmt.Errorf("%s: %w", symbol, err))
		}
	}
	return errors.Join(errs...)
}

func (e *Engine) trainSymbol(ctx context.Context, symbol string) error {
	history, err := e.provider.FetchHistoricalData(ctx, symbol, e.historyBars)
	if err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}

	samples := buildSamples(history)
	e.cacheTrainingData(ctx, symbol, samples)

	if len(samples) < minTrainingSamples {
		e.logger.Warn().
			Str("symbol", symbol).
			Int("samples", len(samples)).
			Int("required", minTrainingSamples).
			Msg("insufficient training data, skipping")
		return nil
	}

	model := e.modelFor(ctx, symbol)
	if err := model.Train(samples); err != nil {
		return fmt.Errorf("training: %w", err)
	}

	if err := model.Save(ctx, e.store, symbol); err != nil {
		// The trained model stays usable in memory.
		e.logger.Error().Err(err).Str("symbol", symbol).Msg("failed to persist trained model")
	}
	return nil
}

// buildSamples converts an ascending bar sequence into labeled samples.
// Each sample pairs the feature vector at bar i with a look-ahead label
// (1 when close[i+1] > close[i]), so the final bar never yields a sample.
func buildSamples(bars []models.Bar) []models.TrainingSample {
	if len(bars) <= sampleWarmup+1 {
		return nil
	}

	samples := make([]models.TrainingSample, 0, len(bars)-sampleWarmup-1)
	for i := sampleWarmup; i < len(bars)-1; i++ {
		window := bars[:i+1]
		ind := calculate.All(window)

		label := 0.0
		if bars[i+1].Close > bars[i].Close {
			label = 1.0
		}

		samples = append(samples, models.TrainingSample{
			Features:  features.Extract(bars[i], ind),
			Label:     label,
			Timestamp: bars[i].Timestamp,
		})
	}
	return samples
}

// cacheTrainingData persists the sample set for inspection and reuse.
// Failures are logged only.
func (e *Engine) cacheTrainingData(ctx context.Context, symbol string, samples []models.TrainingSample) {
	if len(samples) == 0 {
		return
	}
	blob, err := json.Marshal(samples)
	if err != nil {
		e.logger.Warn().Err(err).Str("symbol", symbol).Msg("failed to marshal training data cache")
		return
	}
	if err := e.store.Set(ctx, TrainingDataKey(symbol), string(blob)); err != nil {
		e.logger.Warn().Err(err).Str("symbol", symbol).Msg("failed to cache training data")
	}
}
