package evaluate

import (
	"math"
	"testing"

	"github.com/pavelsemak/aitrader/models"
)

func TestMetricsEmpty(t *testing.T) {
	if got := Metrics(nil); got != (models.ModelMetrics{}) {
		t.Errorf("Metrics(nil) = %+v, want zero value", got)
	}

	unresolved := []models.PredictionRecord{
		{Timestamp: 1000, Direction: models.DirectionCall, Confidence: 0.7},
	}
	if got := Metrics(unresolved); got != (models.ModelMetrics{}) {
		t.Errorf("Metrics(unresolved only) = %+v, want zero value", got)
	}
}

func TestMetricsKnownConfusion(t *testing.T) {
	records := []models.PredictionRecord{
		{Timestamp: 1, Direction: models.DirectionCall, ActualOutcome: models.DirectionCall},
		{Timestamp: 2, Direction: models.DirectionCall, ActualOutcome: models.DirectionPut},
		{Timestamp: 3, Direction: models.DirectionPut, ActualOutcome: models.DirectionCall},
		{Timestamp: 4, Direction: models.DirectionPut, ActualOutcome: models.DirectionPut},
		{Timestamp: 5, Direction: models.DirectionCall}, // unresolved, ignored
	}

	got := Metrics(records)

	if got.TotalTrades != 4 {
		t.Errorf("TotalTrades = %d, want 4", got.TotalTrades)
	}
	if got.ProfitableTrades != 2 {
		t.Errorf("ProfitableTrades = %d, want 2", got.ProfitableTrades)
	}
	if got.Accuracy != 0.5 {
		t.Errorf("Accuracy = %v, want 0.5", got.Accuracy)
	}
	if got.WinRate != got.Accuracy {
		t.Errorf("WinRate = %v, want equal to accuracy %v", got.WinRate, got.Accuracy)
	}
	if got.Precision != 0.5 {
		t.Errorf("Precision = %v, want 0.5", got.Precision)
	}
	if got.Recall != 0.5 {
		t.Errorf("Recall = %v, want 0.5", got.Recall)
	}
	if got.F1 != 0.5 {
		t.Errorf("F1 = %v, want 0.5", got.F1)
	}

	// Returns are [0.8, -1, -1, 0.8]: mean -0.1, stdev 0.9.
	wantSharpe := -0.1 / 0.9
	if math.Abs(got.SharpeRatio-wantSharpe) > 1e-12 {
		t.Errorf("SharpeRatio = %v, want %v", got.SharpeRatio, wantSharpe)
	}
}

func TestMetricsZeroVarianceSharpe(t *testing.T) {
	records := []models.PredictionRecord{
		{Timestamp: 1, Direction: models.DirectionCall, ActualOutcome: models.DirectionCall},
		{Timestamp: 2, Direction: models.DirectionPut, ActualOutcome: models.DirectionPut},
	}

	got := Metrics(records)
	if got.SharpeRatio != 0 {
		t.Errorf("SharpeRatio = %v, want 0 on zero variance", got.SharpeRatio)
	}
	if got.Accuracy != 1 {
		t.Errorf("Accuracy = %v, want 1", got.Accuracy)
	}
}
