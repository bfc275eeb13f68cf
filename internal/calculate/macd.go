package calculate

import "github.com/pavelsemak/aitrader/models"

// MACDLine computes the MACD line (EMA12 − EMA26), its signal line and the
// histogram. The signal line is a true 9-period EMA over the MACD values
// maintained across the historical window, not a degenerate single-value
// series. Empty input returns the zero value.
func MACDLine(prices []float64) models.MACD {
	if len(prices) == 0 {
		return models.MACD{}
	}

	macdLine := EMA(prices, 12) - EMA(prices, 26)

	// MACD value at every point of the window, so the signal EMA has a
	// real series to smooth.
	history := make([]float64, 0, len(prices))
	for i := range prices {
		window := prices[:i+1]
		history = append(history, EMA(window, 12)-EMA(window, 26))
	}
	signal := EMA(history, 9)

	return models.MACD{
		MACD:      macdLine,
		Signal:    signal,
		Histogram: macdLine - signal,
	}
}
