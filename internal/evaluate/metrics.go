package evaluate

import (
	"math"

	"github.com/pavelsemak/aitrader/models"
)

// Binary-option-style payout assumption per trade.
const (
	winReturn  = 0.8
	lossReturn = -1.0
)

// Metrics computes aggregate model performance over the subset of the
// prediction log whose outcome has been resolved. An empty resolved subset
// returns all-zero metrics, not an error.
//
// Precision/recall/F1 treat CALL as the positive class; PUT-vs-PUT outcomes
// are not separately tracked, and winRate equals accuracy under this scheme.
func Metrics(records []models.PredictionRecord) models.ModelMetrics {
	var resolved []models.PredictionRecord
	for _, r := range records {
		if r.ActualOutcome != "" {
			resolved = append(resolved, r)
		}
	}
	if len(resolved) == 0 {
		return models.ModelMetrics{}
	}

	correct := 0
	truePositives, falsePositives, falseNegatives := 0, 0, 0
	returns := make([]float64, 0, len(resolved))

	for _, r := range resolved {
		if r.Direction == r.ActualOutcome {
			correct++
			returns = append(returns, winReturn)
		} else {
			returns = append(returns, lossReturn)
		}

		switch {
		case r.Direction == models.DirectionCall && r.ActualOutcome == models.DirectionCall:
			truePositives++
		case r.Direction == models.DirectionCall && r.ActualOutcome != models.DirectionCall:
			falsePositives++
		case r.Direction != models.DirectionCall && r.ActualOutcome == models.DirectionCall:
			falseNegatives++
		}
	}

	total := float64(len(resolved))
	accuracy := float64(correct) / total

	precision := 0.0
	if truePositives+falsePositives > 0 {
		precision = float64(truePositives) / float64(truePositives+falsePositives)
	}
	recall := 0.0
	if truePositives+falseNegatives > 0 {
		recall = float64(truePositives) / float64(truePositives+falseNegatives)
	}
	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return models.ModelMetrics{
		Accuracy:         accuracy,
		Precision:        precision,
		Recall:           recall,
		F1:               f1,
		WinRate:          accuracy,
		SharpeRatio:      sharpeRatio(returns),
		TotalTrades:      len(resolved),
		ProfitableTrades: correct,
	}
}

// sharpeRatio is mean(returns)/stdev(returns), 0 when variance is zero.
func sharpeRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
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

	if variance <= 0 {
		return 0
	}
	return mean / math.Sqrt(variance)
}
