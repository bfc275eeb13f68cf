package rules

import (
	"fmt"

	"github.com/pavelsemak/aitrader/models"
)

// Thresholds for the six checks.
const (
	rsiOversold      = 30.0
	rsiOverbought    = 70.0
	stochOversold    = 20.0
	stochOverbought  = 80.0
	proximityPercent = 0.01 // support/resistance within 1% of price
)

// Result is the rule-based score over one indicator snapshot.
type Result struct {
	Confidence float64  // bullish / (bullish + bearish); 0.5 when no checks fire
	Bullish    int
	Bearish    int
	Reasons    []string // one human-readable reason per fired check
}

// Score runs six deterministic threshold checks against the snapshot and the
// current bar. Each fired check increments the bullish or bearish counter
// and appends one reason. The score is count-based, not magnitude-weighted,
// so ties resolve to 0.5.
func Score(bar models.Bar, ind *models.TechnicalIndicators) Result {
	var r Result

	// RSI extremes
	if ind.RSI < rsiOversold {
		r.bullish(fmt.Sprintf("RSI oversold at %.1f", ind.RSI))
	} else if ind.RSI > rsiOverbought {
		r.bearish(fmt.Sprintf("RSI overbought at %.1f", ind.RSI))
	}

	// MACD histogram crossover
	if ind.MACD.Histogram > 0 {
		r.bullish("MACD histogram positive, bullish crossover")
	} else if ind.MACD.Histogram < 0 {
		r.bearish("MACD histogram negative, bearish crossover")
	}

	// Bollinger Band touch
	if bar.Close < ind.BollingerBands.Lower {
		r.bullish(fmt.Sprintf("Price %.5f below lower Bollinger band %.5f", bar.Close, ind.BollingerBands.Lower))
	} else if bar.Close > ind.BollingerBands.Upper {
		r.bearish(fmt.Sprintf("Price %.5f above upper Bollinger band %.5f", bar.Close, ind.BollingerBands.Upper))
	}

	// Moving-average trend alignment
	if bar.Close > ind.SMA20 && ind.SMA20 > ind.SMA50 {
		r.bullish("Price above SMA20 above SMA50, uptrend alignment")
	} else if bar.Close < ind.SMA20 && ind.SMA20 < ind.SMA50 {
		r.bearish("Price below SMA20 below SMA50, downtrend alignment")
	}

	// Stochastic extremes
	if ind.Stochastic.K < stochOversold {
		r.bullish(fmt.Sprintf("Stochastic %%K oversold at %.1f", ind.Stochastic.K))
	} else if ind.Stochastic.K > stochOverbought {
		r.bearish(fmt.Sprintf("Stochastic %%K overbought at %.1f", ind.Stochastic.K))
	}

	// Support/resistance proximity. Strictly between the level and 1% away,
	// so a flat series sitting exactly on both levels fires neither.
	if bar.Close > 0 {
		if ind.Support > 0 && bar.Close > ind.Support && (bar.Close-ind.Support)/bar.Close < proximityPercent {
			r.bullish(fmt.Sprintf("Price near support %.5f", ind.Support))
		}
		if ind.Resistance > bar.Close && (ind.Resistance-bar.Close)/bar.Close < proximityPercent {
			r.bearish(fmt.Sprintf("Price near resistance %.5f", ind.Resistance))
		}
	}

	total := r.Bullish + r.Bearish
	if total == 0 {
		r.Confidence = 0.5
		return r
	}
	r.Confidence = float64(r.Bullish) / float64(total)
	return r
}

func (r *Result) bullish(reason string) {
	r.Bullish++
	r.Reasons = append(r.Reasons, reason)
}

func (r *Result) bearish(reason string) {
	r.Bearish++
	r.Reasons = append(r.Reasons, reason)
}
