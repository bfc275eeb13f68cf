package calculate

import "github.com/pavelsemak/aitrader/models"

// StochasticOsc computes the stochastic oscillator over the trailing window.
// %K = (close − lowestLow) / (highestHigh − lowestLow) × 100; %D is a
// 3-period SMA of %K, falling back to %K itself when fewer than 3 values
// exist. Fewer than period closes returns the neutral {50, 50}; a window
// with no range also yields 50.
func StochasticOsc(highs, lows, closes []float64, period int) models.Stochastic {
	if len(closes) < period || len(highs) < period || len(lows) < period {
		return models.Stochastic{K: 50.0, D: 50.0}
	}

	k := stochasticKAt(highs, lows, closes, period, len(closes)-1)

	// %D: average %K over the last 3 positions with a full window each.
	const dPeriod = 3
	var kSum float64
	count := 0
	for i := len(closes) - dPeriod; i < len(closes); i++ {
		if i < period-1 {
			continue
		}
		kSum += stochasticKAt(highs, lows, closes, period, i)
		count++
	}
	d := k
	if count > 0 {
		d = kSum / float64(count)
	}

	return models.Stochastic{K: k, D: d}
}

// stochasticKAt computes %K for the window of length period ending at idx.
func stochasticKAt(highs, lows, closes []float64, period, idx int) float64 {
	highest := highs[idx-period+1]
	lowest := lows[idx-period+1]
	for i := idx - period + 2; i <= idx; i++ {
		if highs[i] > highest {
			highest = highs[i]
		}
		if lows[i] < lowest {
			lowest = lows[i]
		}
	}

	if highest-lowest <= 0 {
		return 50.0
	}
	return (closes[idx] - lowest) / (highest - lowest) * 100.0
}
