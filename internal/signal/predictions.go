package signal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pavelsemak/aitrader/internal/evaluate"
	"github.com/pavelsemak/aitrader/models"
)

// PredictionLogKey returns the storage key for a symbol's prediction log.
func PredictionLogKey(symbol string) string {
	return "predictions_" + symbol
}

// EvaluateModel computes aggregate metrics over the symbol's resolved
// prediction log. A symbol with no logged or no resolved predictions yields
// all-zero metrics.
func (e *Engine) EvaluateModel(ctx context.Context, symbol string) (models.ModelMetrics, error) {
	records, err := e.predictionLog(ctx, symbol)
	if err != nil {
		return models.ModelMetrics{}, err
	}
	return evaluate.Metrics(records), nil
}

// ResolveOutcome backfills the realized direction onto the log entry with
// the matching timestamp. It is the collaborator-facing trigger for outcome
// resolution; the engine schedules nothing itself.
func (e *Engine) ResolveOutcome(ctx context.Context, symbol string, timestamp int64, direction string) error {
	if direction != models.DirectionCall && direction != models.DirectionPut {
		return fmt.Errorf("unknown direction %q", direction)
	}

	records, err := e.predictionLog(ctx, symbol)
	if err != nil {
		return err
	}

	found := false
	for i := range records {
		if records[i].Timestamp == timestamp {
			records[i].ActualOutcome = direction
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("no prediction for %s at timestamp %d", symbol, timestamp)
	}

	return e.savePredictionLog(ctx, symbol, records)
}

// appendPrediction adds an immutable record to the symbol's log.
func (e *Engine) appendPrediction(ctx context.Context, symbol string, record models.PredictionRecord) error {
	records, err := e.predictionLog(ctx, symbol)
	if err != nil {
		return err
	}
	return e.savePredictionLog(ctx, symbol, append(records, record))
}

func (e *Engine) predictionLog(ctx context.Context, symbol string) ([]models.PredictionRecord, error) {
	raw, ok, err := e.store.Get(ctx, PredictionLogKey(symbol))
	if err != nil {
		return nil, fmt.Errorf("reading prediction log for %s: %w", symbol, err)
	}
	if !ok {
		return nil, nil
	}

	var records []models.PredictionRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decoding prediction log for %s: %w", symbol, err)
	}
	return records, nil
}

func (e *Engine) savePredictionLog(ctx context.Context, symbol string, records []models.PredictionRecord) error {
	blob, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding prediction log for %s: %w", symbol, err)
	}
	if err := e.store.Set(ctx, PredictionLogKey(symbol), string(blob)); err != nil {
		return fmt.Errorf("writing prediction log for %s: %w", symbol, err)
	}
	return nil
}
