package signal

import (
	"context"
	"fmt"
	"math"

	"github.com/pavelsemak/aitrader/internal/calculate"
	"github.com/pavelsemak/aitrader/internal/features"
	"github.com/pavelsemak/aitrader/internal/rules"
	"github.com/pavelsemak/aitrader/models"
)

// Combination policy. With sentiment enabled 10% of the model weight moves
// onto the sentiment term.
const (
	modelWeight          = 0.6
	ruleWeight           = 0.4
	sentimentModelWeight = 0.5
	sentimentWeight      = 0.1

	callThreshold = 0.6
	putThreshold  = 0.4

	// volatilityRiskFactor scales annualized volatility into a per-trade
	// price adjustment. Tunable risk parameter.
	volatilityRiskFactor = 0.01
)

// GenerateSignal produces a directional recommendation for the symbol, or
// (nil, nil) when the market offers no actionable signal: missing data, the
// combined score landing in the [0.4, 0.6] dead zone, or confidence below
// the configured floor. Infrastructure failures are returned as errors,
// distinct from "market unclear".
func (e *Engine) GenerateSignal(ctx context.Context, symbol, duration string) (*models.Signal, error) {
	history, err := e.provider.FetchHistoricalData(ctx, symbol, e.historyBars)
	if err != nil {
		return nil, fmt.Errorf("fetching history for %s: %w", symbol, err)
	}
	if len(history) == 0 {
		e.logger.Warn().Str("symbol", symbol).Msg("no historical data, no signal")
		return nil, nil
	}

	current, err := e.provider.FetchRealTimeData(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetching current bar for %s: %w", symbol, err)
	}
	if current == nil {
		e.logger.Warn().Str("symbol", symbol).Msg("no current bar, no signal")
		return nil, nil
	}

	bars := make([]models.Bar, 0, len(history)+1)
	bars = append(bars, history...)
	if current.Timestamp != history[len(history)-1].Timestamp {
		bars = append(bars, *current)
	}

	ind := calculate.All(bars)
	vector := features.Extract(*current, ind)

	model := e.modelFor(ctx, symbol)
	modelProb, err := model.Predict(vector)
	if err != nil {
		return nil, fmt.Errorf("model prediction for %s: %w", symbol, err)
	}

	score := rules.Score(*current, ind)

	combined := modelWeight*modelProb + ruleWeight*score.Confidence
	if e.sentiment {
		combined = sentimentModelWeight*modelProb + ruleWeight*score.Confidence +
			sentimentWeight*sentimentTerm(bars)
	}

	if combined >= putThreshold && combined <= callThreshold {
		e.logger.Debug().Str("symbol", symbol).Float64("combined", combined).
			Msg("combined score in dead zone, no signal")
		return nil, nil
	}
	direction := models.DirectionCall
	if combined < putThreshold {
		direction = models.DirectionPut
	}

	// Rescale the dead-zone-excluded score onto a confidence: |c−0.5|×2
	// maps (0.6,1.0] and [0,0.4) onto (0.2,1.0].
	confidence := math.Abs(combined-0.5) * 2
	if confidence < e.risk.MinConfidence {
		e.logger.Debug().Str("symbol", symbol).Float64("confidence", confidence).
			Msg("confidence below configured floor, no signal")
		return nil, nil
	}

	entry := current.Close
	volatilityAdjustment := ind.Volatility * entry * volatilityRiskFactor
	if volatilityAdjustment <= 0 {
		volatilityAdjustment = entry * e.risk.DefaultStopLossPct
	}

	// Stop against the direction, target 2× with it: fixed 1:2 risk/reward.
	stopLoss := entry - volatilityAdjustment
	takeProfit := entry + 2*volatilityAdjustment
	if direction == models.DirectionPut {
		stopLoss = entry + volatilityAdjustment
		takeProfit = entry - 2*volatilityAdjustment
	}

	reasoning := make([]string, 0, len(score.Reasons)+1)
	reasoning = append(reasoning, score.Reasons...)
	reasoning = append(reasoning, fmt.Sprintf("Model probability of rise %.2f", modelProb))

	generated := &models.Signal{
		Symbol:     symbol,
		Direction:  direction,
		Confidence: confidence,
		Duration:   duration,
		EntryPrice: entry,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Timestamp:  current.Timestamp,
		Reasoning:  reasoning,
		Indicators: *ind,
	}

	record := models.PredictionRecord{
		Timestamp:  generated.Timestamp,
		Direction:  direction,
		Confidence: confidence,
		Features:   vector,
	}
	if err := e.appendPrediction(ctx, symbol, record); err != nil {
		// Persistence failure degrades the log, not the signal.
		e.logger.Error().Err(err).Str("symbol", symbol).Msg("failed to persist prediction record")
	}

	if e.notifier != nil {
		if err := e.notifier.Notify(ctx, generated); err != nil {
			e.logger.Warn().Err(err).Str("symbol", symbol).Msg("notification delivery failed")
		}
	}

	e.logger.Info().
		Str("symbol", symbol).
		Str("direction", direction).
		Float64("confidence", confidence).
		Float64("entry", entry).
		Msg("signal generated")
	return generated, nil
}

// sentimentTerm is the mocked market-sentiment score in [0,1] (0.5 =
// neutral), derived from short-horizon momentum.
func sentimentTerm(bars []models.Bar) float64 {
	const lookback = 5
	if len(bars) < lookback+1 {
		return 0.5
	}

	first := bars[len(bars)-lookback-1].Close
	last := bars[len(bars)-1].Close
	if first == 0 {
		return 0.5
	}

	shift := (last - first) / first * 10
	if shift > 0.5 {
		shift = 0.5
	}
	if shift < -0.5 {
		shift = -0.5
	}
	return 0.5 + shift
}
