package neural

import (
	"context"
	"math"
	"testing"

	"github.com/pavelsemak/aitrader/internal/storage"
	"github.com/pavelsemak/aitrader/models"
)

func testConfig() models.NetworkConfig {
	return models.NetworkConfig{
		InputSize:    4,
		HiddenLayers: []int{8},
		OutputSize:   1,
		Activation:   models.ActivationReLU,
		LearningRate: 0.1,
		Epochs:       10,
		BatchSize:    4,
	}
}

// separableSamples returns a deterministic dataset where the label depends
// only on the first feature.
func separableSamples(n int) []models.TrainingSample {
	samples := make([]models.TrainingSample, n)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n)
		label := 0.0
		if x > 0.5 {
			label = 1.0
		}
		samples[i] = models.TrainingSample{
			Features:  []float64{x, 1 - x, 0.5, x * 0.3},
			Label:     label,
			Timestamp: int64(i) * 60_000,
		}
	}
	return samples
}

func TestNewXavierBounds(t *testing.T) {
	cfg := testConfig()
	n := New(cfg)

	sizes := []int{cfg.InputSize, cfg.HiddenLayers[0], cfg.OutputSize}
	for l := 0; l < len(sizes)-1; l++ {
		limit := math.Sqrt(6.0 / float64(sizes[l]+sizes[l+1]))
		for i, w := range n.Weights[l] {
			if math.Abs(w) > limit {
				t.Errorf("layer %d weight %d = %v, want |w| <= %v", l, i, w, limit)
			}
		}
		for j, b := range n.Biases[l] {
			if b != 0 {
				t.Errorf("layer %d bias %d = %v, want 0", l, j, b)
			}
		}
	}

	if n.Trained() {
		t.Error("Trained() = true for a fresh network")
	}
}

func TestPredictRejectsWrongLength(t *testing.T) {
	n := New(testConfig())
	if _, err := n.Predict([]float64{0.1, 0.2}); err == nil {
		t.Error("Predict() accepted a feature vector of the wrong length")
	}
}

func TestPredictWithinUnitInterval(t *testing.T) {
	n := New(testConfig())
	got, err := n.Predict([]float64{0.1, 0.9, 0.5, 0.03})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if got < 0 || got > 1 {
		t.Errorf("Predict() = %v, want value in [0,1]", got)
	}
}

func TestTrainLossDecreases(t *testing.T) {
	n := New(testConfig())
	if err := n.Train(separableSamples(120)); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if len(n.History) != 10 {
		t.Fatalf("History length = %d, want 10", len(n.History))
	}
	for i, m := range n.History {
		if m.Epoch != i+1 {
			t.Errorf("History[%d].Epoch = %d, want %d", i, m.Epoch, i+1)
		}
	}

	early := (n.History[0].Loss + n.History[1].Loss + n.History[2].Loss) / 3
	late := (n.History[7].Loss + n.History[8].Loss + n.History[9].Loss) / 3
	if late >= early {
		t.Errorf("mean loss of last epochs = %v, want below first epochs %v", late, early)
	}

	if !n.Trained() {
		t.Error("Trained() = false after a completed run")
	}
}

func TestActivationDerivatives(t *testing.T) {
	tests := []struct {
		name  string
		kind  string
		sum   float64
		value float64
		deriv float64
	}{
		{name: "relu positive", kind: models.ActivationReLU, sum: 2, value: 2, deriv: 1},
		{name: "relu negative", kind: models.ActivationReLU, sum: -2, value: 0, deriv: 0},
		{name: "tanh at zero", kind: models.ActivationTanh, sum: 0, value: 0, deriv: 1},
		{name: "sigmoid at zero", kind: models.ActivationSigmoid, sum: 0, value: 0.5, deriv: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := activate(tt.sum, tt.kind); math.Abs(got-tt.value) > 1e-12 {
				t.Errorf("activate(%v, %s) = %v, want %v", tt.sum, tt.kind, got, tt.value)
			}
			if got := activateDeriv(tt.sum, tt.kind); math.Abs(got-tt.deriv) > 1e-12 {
				t.Errorf("activateDeriv(%v, %s) = %v, want %v", tt.sum, tt.kind, got, tt.deriv)
			}
		})
	}
}

func TestTrainRejectsTooFewSamples(t *testing.T) {
	n := New(testConfig())
	if err := n.Train(separableSamples(1)); err == nil {
		t.Error("Train() accepted a single sample")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()

	original := New(testConfig())
	if err := original.Train(separableSamples(80)); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if err := original.Save(ctx, store, "EUR/USD"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	restored, ok := Load(ctx, store, "EUR/USD")
	if !ok {
		t.Fatal("Load() did not find the saved model")
	}

	input := []float64{0.8, 0.2, 0.5, 0.24}
	want, err := original.Predict(input)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	got, err := restored.Predict(input)
	if err != nil {
		t.Fatalf("restored Predict() error = %v", err)
	}
	if got != want {
		t.Errorf("restored Predict() = %v, want %v", got, want)
	}

	if len(restored.History) != len(original.History) {
		t.Errorf("restored History length = %d, want %d", len(restored.History), len(original.History))
	}
}

func TestLoadMissingAndMalformed(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()

	if _, ok := Load(ctx, store, "EUR/USD"); ok {
		t.Error("Load() reported ok for a missing key")
	}

	if err := store.Set(ctx, ModelKey("EUR/USD"), "{not json"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok := Load(ctx, store, "EUR/USD"); ok {
		t.Error("Load() reported ok for a malformed record")
	}

	// Valid JSON whose parameter shape does not match its architecture.
	blob := `{"architecture":{"input_size":4,"hidden_layers":[8],"output_size":1},"weights":[[1,2]],"biases":[[0]]}`
	if err := store.Set(ctx, ModelKey("EUR/USD"), blob); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok := Load(ctx, store, "EUR/USD"); ok {
		t.Error("Load() reported ok for a shape mismatch")
	}
}
