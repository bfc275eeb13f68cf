package neural

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pavelsemak/aitrader/models"
)

// Network is a feedforward binary classifier. Hidden layers use the
// configured activation; the output layer is always sigmoid. Parameter
// fields are exported for JSON persistence and are mutated only during
// training.
type Network struct {
	Config  models.NetworkConfig     `json:"architecture"`
	Weights [][]float64              `json:"weights"` // per layer, flattened [neuron][input]
	Biases  [][]float64              `json:"biases"`
	History []models.TrainingMetrics `json:"training_history"`

	logger zerolog.Logger
}

// New creates a network with Xavier-uniform weights and zero biases:
// limit = sqrt(6/(fanIn+fanOut)), weights ~ Uniform(−limit, limit).
func New(cfg models.NetworkConfig) *Network {
	sizes := layerSizes(cfg)
	weights := make([][]float64, len(sizes)-1)
	biases := make([][]float64, len(sizes)-1)

	for l := 0; l < len(sizes)-1; l++ {
		fanIn, fanOut := sizes[l], sizes[l+1]
		limit := math.Sqrt(6.0 / float64(fanIn+fanOut))

		weights[l] = make([]float64, fanOut*fanIn)
		for i := range weights[l] {
			weights[l][i] = (rand.Float64()*2 - 1) * limit
		}
		biases[l] = make([]float64, fanOut)
	}

	return &Network{
		Config:  cfg,
		Weights: weights,
		Biases:  biases,
		logger:  log.With().Str("component", "neural").Logger(),
	}
}

// Trained reports whether the network has completed at least one epoch.
func (n *Network) Trained() bool {
	return len(n.History) > 0
}

// Predict runs a single forward pass and returns the scalar output
// activation. A feature vector whose length differs from the configured
// input size is a caller contract violation and is rejected.
func (n *Network) Predict(features []float64) (float64, error) {
	if len(features) != n.Config.InputSize {
		return 0, fmt.Errorf("feature vector length %d does not match input size %d",
			len(features), n.Config.InputSize)
	}
	_, activations := n.forward(features)
	return activations[len(activations)-1][0], nil
}

// forward propagates the input through every layer, returning the
// pre-activation sums and post-activation values per layer (both are needed
// for backpropagation).
func (n *Network) forward(input []float64) (sums, activations [][]float64) {
	sizes := layerSizes(n.Config)
	sums = make([][]float64, len(sizes)-1)
	activations = make([][]float64, len(sizes)-1)

	prev := input
	for l := 0; l < len(sizes)-1; l++ {
		in, out := sizes[l], sizes[l+1]
		kind := n.Config.Activation
		if l == len(sizes)-2 {
			kind = models.ActivationSigmoid // classification head
		}

		sums[l] = make([]float64, out)
		activations[l] = make([]float64, out)
		for j := 0; j < out; j++ {
			sum := n.Biases[l][j]
			row := n.Weights[l][j*in : (j+1)*in]
			for i, w := range row {
				sum += w * prev[i]
			}
			sums[l][j] = sum
			activations[l][j] = activate(sum, kind)
		}
		prev = activations[l]
	}
	return sums, activations
}

// layerSizes returns widths including input and output layers.
func layerSizes(cfg models.NetworkConfig) []int {
	sizes := make([]int, 0, len(cfg.HiddenLayers)+2)
	sizes = append(sizes, cfg.InputSize)
	sizes = append(sizes, cfg.HiddenLayers...)
	return append(sizes, cfg.OutputSize)
}

func activate(x float64, kind string) float64 {
	switch kind {
	case models.ActivationReLU:
		if x > 0 {
			return x
		}
		return 0
	case models.ActivationTanh:
		return math.Tanh(x)
	default:
		return sigmoid(x)
	}
}

// activateDeriv is the activation derivative expressed in terms of the
// pre-activation sum.
func activateDeriv(sum float64, kind string) float64 {
	switch kind {
	case models.ActivationReLU:
		if sum > 0 {
			return 1
		}
		return 0
	case models.ActivationTanh:
		t := math.Tanh(sum)
		return 1 - t*t
	default:
		s := sigmoid(sum)
		return s * (1 - s)
	}
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
