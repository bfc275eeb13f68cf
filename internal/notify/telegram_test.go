package notify

import (
	"strings"
	"testing"

	"github.com/pavelsemak/aitrader/models"
)

func TestFormatSignal(t *testing.T) {
	s := &models.Signal{
		Symbol:     "EUR/USD",
		Direction:  models.DirectionCall,
		Confidence: 0.6,
		Duration:   "5min",
		EntryPrice: 1.1,
		StopLoss:   1.089,
		TakeProfit: 1.122,
		Timestamp:  1_700_000_000_000,
		Reasoning:  []string{"RSI oversold at 25.0", "Model probability of rise 0.82"},
	}

	text := FormatSignal(s)

	for _, want := range []string{
		"EUR/USD",
		"CALL",
		"Confidence: 60%",
		"Entry: 1.10000",
		"Stop loss: 1.08900",
		"Take profit: 1.12200",
		"• RSI oversold at 25.0",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("FormatSignal() missing %q in:\n%s", want, text)
		}
	}
}

func TestFormatSignalPutArrow(t *testing.T) {
	text := FormatSignal(&models.Signal{Symbol: "GBP/USD", Direction: models.DirectionPut})
	if !strings.Contains(text, "📉") {
		t.Errorf("FormatSignal() for PUT missing bearish arrow:\n%s", text)
	}
}
