package neural

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/pavelsemak/aitrader/models"
)

// ModelKey returns the storage key for a symbol's parameter blob.
func ModelKey(symbol string) string {
	return "model_" + symbol
}

// Save serializes the architecture, parameters and training history to the
// persistence collaborator.
func (n *Network) Save(ctx context.Context, store models.Storage, symbol string) error {
	blob, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshaling network: %w", err)
	}
	if err := store.Set(ctx, ModelKey(symbol), string(blob)); err != nil {
		return fmt.Errorf("persisting network for %s: %w", symbol, err)
	}

	n.logger.Debug().Str("symbol", symbol).Msg("model saved")
	return nil
}

// Load restores a network from storage. It returns ok=false, never an
// error, when no record exists or the record is malformed or its shape does
// not match the stored architecture; the caller falls back to a fresh
// network in that case.
func Load(ctx context.Context, store models.Storage, symbol string) (*Network, bool) {
	raw, ok, err := store.Get(ctx, ModelKey(symbol))
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("model load failed, using fresh weights")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var restored Network
	if err := json.Unmarshal([]byte(raw), &restored); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("stored model is malformed, using fresh weights")
		return nil, false
	}
	restored.logger = log.With().Str("component", "neural").Logger()

	if !restored.shapeValid() {
		log.Warn().Str("symbol", symbol).Msg("stored model shape mismatch, using fresh weights")
		return nil, false
	}
	return &restored, true
}

// shapeValid checks the parameter dimensions against the architecture.
func (n *Network) shapeValid() bool {
	sizes := layerSizes(n.Config)
	if len(n.Weights) != len(sizes)-1 || len(n.Biases) != len(sizes)-1 {
		return false
	}
	for l := 0; l < len(sizes)-1; l++ {
		if len(n.Weights[l]) != sizes[l+1]*sizes[l] || len(n.Biases[l]) != sizes[l+1] {
			return false
		}
	}
	return true
}
