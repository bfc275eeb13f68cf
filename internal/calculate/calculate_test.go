package calculate

import (
	"math"
	"testing"

	"github.com/pavelsemak/aitrader/models"
)

func generateBars(n int, generator func(i int) models.Bar) []models.Bar {
	bars := make([]models.Bar, n)
	for i := 0; i < n; i++ {
		bars[i] = generator(i)
	}
	return bars
}

func flatBars(n int, price float64) []models.Bar {
	return generateBars(n, func(i int) models.Bar {
		return models.Bar{
			Open: price, High: price, Low: price, Close: price,
			Timestamp: int64(i) * 60_000,
		}
	})
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name     string
		prices   []float64
		period   int
		expected float64
	}{
		{
			name:     "insufficient data returns neutral",
			prices:   []float64{1.1, 1.2, 1.3},
			period:   14,
			expected: 50.0,
		},
		{
			name:     "flat series returns neutral",
			prices:   repeat(1.1, 30),
			period:   14,
			expected: 50.0,
		},
		{
			name:     "monotonic rise returns 100",
			prices:   ramp(1.0, 0.01, 15),
			period:   14,
			expected: 100.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RSI(tt.prices, tt.period)
			if got != tt.expected {
				t.Errorf("RSI() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRSIWithinBounds(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 1.1 + 0.01*math.Sin(float64(i)*0.7) + 0.002*float64(i%5)
	}

	got := RSI(prices, 14)
	if got < 0 || got > 100 {
		t.Errorf("RSI() = %v, want value in [0,100]", got)
	}
}

func TestBollingerOrdering(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 1.1 + 0.02*math.Sin(float64(i)*0.5)
	}

	bands := Bollinger(prices, 20, 2.0)
	if bands.Upper < bands.Middle || bands.Middle < bands.Lower {
		t.Errorf("Bollinger() ordering violated: upper=%v middle=%v lower=%v",
			bands.Upper, bands.Middle, bands.Lower)
	}
}

func TestBollingerShortInput(t *testing.T) {
	bands := Bollinger([]float64{1.1, 1.2}, 20, 2.0)
	if bands.Upper != 1.2 || bands.Middle != 1.2 || bands.Lower != 1.2 {
		t.Errorf("Bollinger() on short input = %+v, want all bands at last price", bands)
	}
}

func TestEMADeterministic(t *testing.T) {
	prices := ramp(1.0, 0.005, 30)
	first := EMA(prices, 12)
	second := EMA(prices, 12)
	if first != second {
		t.Errorf("EMA() not deterministic: %v vs %v", first, second)
	}
}

func TestSMADefaults(t *testing.T) {
	if got := SMA(nil, 20); got != 0 {
		t.Errorf("SMA(empty) = %v, want 0", got)
	}
	if got := SMA([]float64{1.1, 1.3}, 20); got != 1.3 {
		t.Errorf("SMA(short) = %v, want last price 1.3", got)
	}
}

func TestStochasticDefaults(t *testing.T) {
	short := StochasticOsc([]float64{1.2}, []float64{1.0}, []float64{1.1}, 14)
	if short.K != 50 || short.D != 50 {
		t.Errorf("StochasticOsc(short) = %+v, want neutral {50 50}", short)
	}

	flat := StochasticOsc(repeat(1.1, 20), repeat(1.1, 20), repeat(1.1, 20), 14)
	if flat.K != 50 || flat.D != 50 {
		t.Errorf("StochasticOsc(flat) = %+v, want neutral {50 50}", flat)
	}
}

func TestVolatilityFlat(t *testing.T) {
	if got := Volatility(repeat(1.1, 30), 20); got != 0 {
		t.Errorf("Volatility(flat) = %v, want 0", got)
	}
}

func TestSupportResistance(t *testing.T) {
	highs := []float64{1.2, 1.4, 1.3}
	lows := []float64{1.0, 1.1, 0.9}

	support, resistance := SupportResistance(highs, lows, 20)
	if support != 0.9 {
		t.Errorf("support = %v, want 0.9", support)
	}
	if resistance != 1.4 {
		t.Errorf("resistance = %v, want 1.4", resistance)
	}
}

func TestAllFlatSeries(t *testing.T) {
	ind := All(flatBars(30, 1.1))
	if ind == nil {
		t.Fatal("All() returned nil for non-empty input")
	}

	if ind.RSI != 50 {
		t.Errorf("RSI = %v, want 50", ind.RSI)
	}
	if ind.Volatility != 0 {
		t.Errorf("Volatility = %v, want 0", ind.Volatility)
	}
	if ind.BollingerBands.Upper != 1.1 || ind.BollingerBands.Middle != 1.1 || ind.BollingerBands.Lower != 1.1 {
		t.Errorf("BollingerBands = %+v, want all bands at 1.1", ind.BollingerBands)
	}
	if ind.Support != 1.1 || ind.Resistance != 1.1 {
		t.Errorf("support/resistance = %v/%v, want 1.1/1.1", ind.Support, ind.Resistance)
	}
}

func TestAllEmpty(t *testing.T) {
	if got := All(nil); got != nil {
		t.Errorf("All(empty) = %+v, want nil", got)
	}
}

func repeat(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

func ramp(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}
