package calculate

import "math"

// tradingDaysPerYear annualizes per-bar volatility.
const tradingDaysPerYear = 252

// Volatility computes the standard deviation of log returns over the last
// min(len−1, period) samples, annualized by √252. Fewer than 2 prices
// returns 0.
func Volatility(prices []float64, period int) float64 {
	if len(prices) < 2 {
		return 0
	}

	n := len(prices) - 1
	if n > period {
		n = period
	}

	returns := make([]float64, 0, n)
	for i := len(prices) - n; i < len(prices); i++ {
		if prices[i-1] <= 0 || prices[i] <= 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, math.Log(prices[i]/prices[i-1]))
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
}
