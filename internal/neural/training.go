package neural

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pavelsemak/aitrader/models"
)

// lossEpsilon floors predictions inside the cross-entropy so log(0) can
// never occur.
const lossEpsilon = 1e-15

// earlyStopWarmup is the number of epochs that must complete before the
// validation-loss trend is consulted.
const earlyStopWarmup = 20

// Train runs batched gradient descent over the samples: shuffle, 80/20
// train/validation split, mini-batches with gradients averaged per batch and
// a single descent step each, one TrainingMetrics record appended per epoch.
// After the warmup period training stops early when the mean validation loss
// of the last 5 epochs exceeds the mean of the 5 before that.
func (n *Network) Train(samples []models.TrainingSample) error {
	if len(samples) < 2 {
		return fmt.Errorf("need at least 2 samples to split, got %d", len(samples))
	}

	shuffled := make([]models.TrainingSample, len(samples))
	copy(shuffled, samples)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	splitIdx := int(0.8 * float64(len(shuffled)))
	if splitIdx < 1 {
		splitIdx = 1
	}
	if splitIdx >= len(shuffled) {
		splitIdx = len(shuffled) - 1
	}
	trainSet := shuffled[:splitIdx]
	validationSet := shuffled[splitIdx:]

	n.logger.Info().
		Int("samples", len(samples)).
		Int("train", len(trainSet)).
		Int("validation", len(validationSet)).
		Msg("starting training run")

	batchSize := n.Config.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	for epoch := 0; epoch < n.Config.Epochs; epoch++ {
		rand.Shuffle(len(trainSet), func(i, j int) {
			trainSet[i], trainSet[j] = trainSet[j], trainSet[i]
		})

		var totalLoss float64
		correct := 0

		for start := 0; start < len(trainSet); start += batchSize {
			end := start + batchSize
			if end > len(trainSet) {
				end = len(trainSet)
			}
			batch := trainSet[start:end]

			wGrads, bGrads := n.zeroGradients()
			for _, sample := range batch {
				sums, activations := n.forward(sample.Features)
				prediction := activations[len(activations)-1][0]

				totalLoss += crossEntropy(prediction, sample.Label)
				if (prediction >= 0.5) == (sample.Label >= 0.5) {
					correct++
				}

				n.accumulate(sample.Features, sample.Label, sums, activations, wGrads, bGrads)
			}

			// One descent step per batch with batch-averaged gradients.
			step := n.Config.LearningRate / float64(len(batch))
			for l := range n.Weights {
				for i := range n.Weights[l] {
					n.Weights[l][i] -= step * wGrads[l][i]
				}
				for j := range n.Biases[l] {
					n.Biases[l][j] -= step * bGrads[l][j]
				}
			}
		}

		validationLoss, validationAccuracy := n.evaluateSet(validationSet)
		n.History = append(n.History, models.TrainingMetrics{
			Epoch:              epoch + 1,
			Loss:               totalLoss / float64(len(trainSet)),
			Accuracy:           float64(correct) / float64(len(trainSet)),
			ValidationLoss:     validationLoss,
			ValidationAccuracy: validationAccuracy,
			LearningRate:       n.Config.LearningRate,
		})

		last := n.History[len(n.History)-1]
		n.logger.Debug().
			Int("epoch", last.Epoch).
			Float64("loss", last.Loss).
			Float64("accuracy", last.Accuracy).
			Float64("val_loss", last.ValidationLoss).
			Float64("val_accuracy", last.ValidationAccuracy).
			Msg("epoch complete")

		if epoch >= earlyStopWarmup && n.validationTrendingUp() {
			n.logger.Info().Int("epoch", epoch+1).Msg("early stopping, validation loss trending up")
			break
		}
	}

	return nil
}

// accumulate backpropagates one sample and adds its gradients into the
// accumulators. The output error is prediction − target (the derivative of
// binary cross-entropy w.r.t. the sigmoid logit); hidden errors are scaled
// by the activation derivative at each layer.
func (n *Network) accumulate(input []float64, target float64, sums, activations, wGrads, bGrads [][]float64) {
	sizes := layerSizes(n.Config)
	last := len(sizes) - 2

	errs := make([]float64, sizes[last+1])
	for j := range errs {
		errs[j] = activations[last][j] - target
	}

	for l := last; l >= 0; l-- {
		in := sizes[l]
		source := input
		if l > 0 {
			source = activations[l-1]
		}

		// weight gradient = destination error × source activation
		for j, e := range errs {
			row := j * in
			for i := 0; i < in; i++ {
				wGrads[l][row+i] += e * source[i]
			}
			bGrads[l][j] += e
		}

		if l == 0 {
			break
		}

		prevErrs := make([]float64, in)
		for i := 0; i < in; i++ {
			var sum float64
			for j, e := range errs {
				sum += e * n.Weights[l][j*in+i]
			}
			prevErrs[i] = sum * activateDeriv(sums[l-1][i], n.Config.Activation)
		}
		errs = prevErrs
	}
}

// evaluateSet runs a full validation pass.
func (n *Network) evaluateSet(samples []models.TrainingSample) (loss, accuracy float64) {
	if len(samples) == 0 {
		return 0, 0
	}

	correct := 0
	for _, sample := range samples {
		_, activations := n.forward(sample.Features)
		prediction := activations[len(activations)-1][0]
		loss += crossEntropy(prediction, sample.Label)
		if (prediction >= 0.5) == (sample.Label >= 0.5) {
			correct++
		}
	}
	return loss / float64(len(samples)), float64(correct) / float64(len(samples))
}

// validationTrendingUp compares the mean validation loss of the last 5
// epochs against the mean of the 5 before that.
func (n *Network) validationTrendingUp() bool {
	if len(n.History) < 10 {
		return false
	}

	recent, previous := 0.0, 0.0
	for _, m := range n.History[len(n.History)-5:] {
		recent += m.ValidationLoss
	}
	for _, m := range n.History[len(n.History)-10 : len(n.History)-5] {
		previous += m.ValidationLoss
	}
	return recent/5 > previous/5
}

func (n *Network) zeroGradients() (wGrads, bGrads [][]float64) {
	wGrads = make([][]float64, len(n.Weights))
	bGrads = make([][]float64, len(n.Biases))
	for l := range n.Weights {
		wGrads[l] = make([]float64, len(n.Weights[l]))
		bGrads[l] = make([]float64, len(n.Biases[l]))
	}
	return wGrads, bGrads
}

// crossEntropy is binary cross-entropy with the prediction clamped away
// from 0 and 1.
func crossEntropy(prediction, label float64) float64 {
	p := math.Min(math.Max(prediction, lossEpsilon), 1-lossEpsilon)
	return -(label*math.Log(p) + (1-label)*math.Log(1-p))
}
