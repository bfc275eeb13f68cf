package features

import "github.com/pavelsemak/aitrader/models"

// VectorSize is the fixed length of an extracted feature vector and must
// equal the network's configured input size.
const VectorSize = 15

// Extract builds the ordered 15-element feature vector from the latest bar
// and its indicator snapshot, then min-max normalizes it. Normalization is
// per call: each feature is scaled against the other 14 values of the same
// vector, not against historical statistics.
func Extract(bar models.Bar, ind *models.TechnicalIndicators) []float64 {
	supportDist := 0.0
	if ind.Support > 0 {
		supportDist = (bar.Close - ind.Support) / ind.Support
	}
	resistanceDist := 0.0
	if bar.Close > 0 {
		resistanceDist = (ind.Resistance - bar.Close) / bar.Close
	}

	raw := []float64{
		ind.RSI,
		ind.MACD.MACD * 1000, // scaled so the tiny forex MACD survives normalization
		ind.BollingerBands.Upper,
		ind.BollingerBands.Middle,
		ind.BollingerBands.Lower,
		ind.SMA20,
		ind.SMA50,
		ind.EMA12,
		ind.EMA26,
		ind.Stochastic.K,
		ind.Stochastic.D,
		ind.Volatility * 100,
		bar.ChangePercent,
		supportDist,
		resistanceDist,
	}

	return Normalize(raw)
}

// Normalize applies min-max normalization across the vector. The maximum
// element maps to 1, the minimum to 0; when every element is equal, all map
// to 0.5.
func Normalize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	normalized := make([]float64, len(values))
	if max == min {
		for i := range normalized {
			normalized[i] = 0.5
		}
		return normalized
	}

	for i, v := range values {
		normalized[i] = (v - min) / (max - min)
	}
	return normalized
}
