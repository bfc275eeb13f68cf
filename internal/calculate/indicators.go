package calculate

import "github.com/pavelsemak/aitrader/models"

// Default indicator periods
const (
	RSIPeriod        = 14
	BollingerPeriod  = 20
	BollingerStdDev  = 2.0
	StochasticPeriod = 14
	VolatilityPeriod = 20
	SupportPeriod    = 20
)

// All computes the full indicator snapshot over an ascending bar sequence.
// Every indicator tolerates short input by returning its documented neutral
// default, so the snapshot is always usable. Returns nil only for an empty
// sequence.
func All(bars []models.Bar) *models.TechnicalIndicators {
	if len(bars) == 0 {
		return nil
	}

	closes := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
		highs[i] = bar.High
		lows[i] = bar.Low
	}

	support, resistance := SupportResistance(highs, lows, SupportPeriod)

	return &models.TechnicalIndicators{
		RSI:            RSI(closes, RSIPeriod),
		MACD:           MACDLine(closes),
		BollingerBands: Bollinger(closes, BollingerPeriod, BollingerStdDev),
		SMA20:          SMA(closes, 20),
		SMA50:          SMA(closes, 50),
		EMA12:          EMA(closes, 12),
		EMA26:          EMA(closes, 26),
		Stochastic:     StochasticOsc(highs, lows, closes, StochasticPeriod),
		Volatility:     Volatility(closes, VolatilityPeriod),
		Support:        support,
		Resistance:     resistance,
	}
}
