package calculate

// SMA computes the simple moving average of the trailing period prices.
// Fewer than period prices returns the last price, 0 when empty.
func SMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}
	if len(prices) < period {
		return prices[len(prices)-1]
	}

	var sum float64
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period)
}

// EMA computes the exponential moving average with multiplier 2/(period+1),
// seeded with the first price. Returns 0 when empty.
func EMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}

	multiplier := 2.0 / float64(period+1)
	ema := prices[0]
	for _, price := range prices[1:] {
		ema = (price-ema)*multiplier + ema
	}
	return ema
}
