package calculate

import (
	"math"

	"github.com/pavelsemak/aitrader/models"
)

// Bollinger computes Bollinger Bands: middle = SMA(period), upper/lower =
// middle ± k·stdev. Fewer than period prices collapses all three bands to
// the last price; empty input returns the zero value.
func Bollinger(prices []float64, period int, k float64) models.BollingerBands {
	if len(prices) == 0 {
		return models.BollingerBands{}
	}
	if len(prices) < period {
		last := prices[len(prices)-1]
		return models.BollingerBands{Upper: last, Middle: last, Lower: last}
	}

	var sum float64
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	middle := sum / float64(period)

	var variance float64
	for i := len(prices) - period; i < len(prices); i++ {
		diff := prices[i] - middle
		variance += diff * diff
	}
	sd := math.Sqrt(variance / float64(period))

	return models.BollingerBands{
		Upper:  middle + k*sd,
		Middle: middle,
		Lower:  middle - k*sd,
	}
}
