package models

import "fmt"

// Signal directions
const (
	DirectionCall = "CALL"
	DirectionPut  = "PUT"
)

// Bar represents a single OHLCV price observation. A time-ordered slice of
// Bars (ascending by timestamp) is the unit the engine consumes.
type Bar struct {
	Symbol        string  `json:"symbol"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	Volume        float64 `json:"volume,omitempty"`
	Timestamp     int64   `json:"timestamp"` // epoch milliseconds
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// MACD holds the MACD line, its signal line and their difference.
type MACD struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// BollingerBands holds the three band levels.
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// Stochastic holds the %K and %D oscillator values.
type Stochastic struct {
	K float64 `json:"k"`
	D float64 `json:"d"`
}

// TechnicalIndicators is a snapshot derived from a Bar sequence. It has no
// independent lifecycle and is recomputed on demand.
type TechnicalIndicators struct {
	RSI            float64        `json:"rsi"`
	MACD           MACD           `json:"macd"`
	BollingerBands BollingerBands `json:"bollinger_bands"`
	SMA20          float64        `json:"sma20"`
	SMA50          float64        `json:"sma50"`
	EMA12          float64        `json:"ema12"`
	EMA26          float64        `json:"ema26"`
	Stochastic     Stochastic     `json:"stochastic"`
	Volatility     float64        `json:"volatility"` // annualized stdev of log returns
	Support        float64        `json:"support"`
	Resistance     float64        `json:"resistance"`
}

// TrainingSample is one labeled feature vector. Label is 1 when the next
// bar's close is strictly greater than the current close, so samples are
// never built from the final bar of a window.
type TrainingSample struct {
	Features  []float64 `json:"features"`
	Label     float64   `json:"label"`
	Timestamp int64     `json:"timestamp"`
}

// TrainingMetrics is one per-epoch record of a training run.
type TrainingMetrics struct {
	Epoch              int     `json:"epoch"`
	Loss               float64 `json:"loss"`
	Accuracy           float64 `json:"accuracy"`
	ValidationLoss     float64 `json:"validation_loss"`
	ValidationAccuracy float64 `json:"validation_accuracy"`
	LearningRate       float64 `json:"learning_rate"`
}

// Signal is a generated trading recommendation. Immutable once created.
type Signal struct {
	Symbol     string              `json:"symbol"`
	Direction  string              `json:"direction"` // CALL or PUT
	Confidence float64             `json:"confidence"`
	Duration   string              `json:"duration"`
	EntryPrice float64             `json:"entry_price"`
	StopLoss   float64             `json:"stop_loss"`
	TakeProfit float64             `json:"take_profit"`
	Timestamp  int64               `json:"timestamp"`
	Reasoning  []string            `json:"reasoning"`
	Indicators TechnicalIndicators `json:"technical_indicators"`
}

// PredictionRecord is one entry of a symbol's prediction log.
// ActualOutcome stays empty until backfilled with the realized direction.
type PredictionRecord struct {
	Timestamp     int64     `json:"timestamp"`
	Direction     string    `json:"direction"`
	Confidence    float64   `json:"confidence"`
	Features      []float64 `json:"features"`
	ActualOutcome string    `json:"actual_outcome,omitempty"`
}

// ModelMetrics aggregates performance over the resolved prediction log.
type ModelMetrics struct {
	Accuracy         float64 `json:"accuracy"`
	Precision        float64 `json:"precision"`
	Recall           float64 `json:"recall"`
	F1               float64 `json:"f1"`
	WinRate          float64 `json:"win_rate"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	TotalTrades      int     `json:"total_trades"`
	ProfitableTrades int     `json:"profitable_trades"`
}

// Supported hidden-layer activations. The output layer is always sigmoid.
const (
	ActivationReLU    = "relu"
	ActivationSigmoid = "sigmoid"
	ActivationTanh    = "tanh"
)

// NetworkConfig describes the feedforward network architecture.
type NetworkConfig struct {
	InputSize    int     `json:"input_size"`
	HiddenLayers []int   `json:"hidden_layers"`
	OutputSize   int     `json:"output_size"`
	Activation   string  `json:"activation"`
	LearningRate float64 `json:"learning_rate"`
	Epochs       int     `json:"epochs"`
	BatchSize    int     `json:"batch_size"`
}

// DefaultNetworkConfig returns the architecture used for the 15-feature
// binary classification head.
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		InputSize:    15,
		HiddenLayers: []int{20, 12},
		OutputSize:   1,
		Activation:   ActivationReLU,
		LearningRate: 0.01,
		Epochs:       100,
		BatchSize:    32,
	}
}

// RiskConfig is the typed replacement for the shell's loose settings object.
type RiskConfig struct {
	MaxPositionSize      float64 `json:"max_position_size"`
	MaxDailyTrades       int     `json:"max_daily_trades"`
	DefaultStopLossPct   float64 `json:"default_stop_loss_pct"`
	DefaultTakeProfitPct float64 `json:"default_take_profit_pct"`
	MinConfidence        float64 `json:"min_confidence"`
}

// DefaultRiskConfig returns conservative defaults.
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		MaxPositionSize:      100,
		MaxDailyTrades:       10,
		DefaultStopLossPct:   0.01,
		DefaultTakeProfitPct: 0.02,
		MinConfidence:        0.2,
	}
}

// Validate checks the risk parameters for sane ranges.
func (c RiskConfig) Validate() error {
	if c.MaxPositionSize <= 0 {
		return fmt.Errorf("max position size must be positive, got %v", c.MaxPositionSize)
	}
	if c.MaxDailyTrades <= 0 {
		return fmt.Errorf("max daily trades must be positive, got %d", c.MaxDailyTrades)
	}
	if c.DefaultStopLossPct <= 0 || c.DefaultStopLossPct >= 1 {
		return fmt.Errorf("default stop loss pct must be in (0,1), got %v", c.DefaultStopLossPct)
	}
	if c.DefaultTakeProfitPct <= 0 || c.DefaultTakeProfitPct >= 1 {
		return fmt.Errorf("default take profit pct must be in (0,1), got %v", c.DefaultTakeProfitPct)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min confidence must be in [0,1], got %v", c.MinConfidence)
	}
	return nil
}
