package ml

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/features"
)

// ModelVersion tags artifacts produced by this trainer generation.
const ModelVersion = "4.0.0-advanced"

// MinTrainingSamples is the practical floor below which training aborts.
// Meaningful models need 100+ samples; below 50 the fit is unstable
// enough that shipping it would be worse than serving nothing.
const MinTrainingSamples = 50

// Sample is one supervised training example: a synthesized feature
// vector and its optimal-interval label in days.
type Sample struct {
	Features features.Vector `json:"features"`
	Label    float64         `json:"label"`
}

// TrainerConfig configures the offline fitting procedure.
// Zero values are replaced with the defaults noted per field.
type TrainerConfig struct {
	Epochs          int     `json:"epochs"`           // default 100
	BatchSize       int     `json:"batch_size"`       // default 32
	LearningRate    float64 `json:"learning_rate"`    // default 0.001
	ValidationSplit float64 `json:"validation_split"` // default 0.2
	Patience        int     `json:"patience"`         // early-stopping patience, default 15
	MinSamples      int     `json:"min_samples"`      // default MinTrainingSamples
	Seed            int64   `json:"seed"`             // default 42
}

// Trainer fits the fixed-topology interval model from labeled samples.
// Training is an offline batch step: it never touches a serving artifact
// until the caller explicitly swaps the result in.
type Trainer struct {
	cfg TrainerConfig
}

// NewTrainer creates a Trainer, filling zero config fields with defaults.
func NewTrainer(cfg TrainerConfig) *Trainer {
	if cfg.Epochs == 0 {
		cfg.Epochs = 100
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 32
	}
	if cfg.LearningRate == 0 {
		cfg.LearningRate = 0.001
	}
	if cfg.ValidationSplit == 0 {
		cfg.ValidationSplit = 0.2
	}
	if cfg.Patience == 0 {
		cfg.Patience = 15
	}
	if cfg.MinSamples == 0 {
		cfg.MinSamples = MinTrainingSamples
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	return &Trainer{cfg: cfg}
}

// Train fits the model and returns the resulting artifact with its
// evaluation metrics. It returns ErrInsufficientData below the minimum
// sample count and aborts, rather than persisting anything, if the fit
// goes non-finite. The context cancels a long-running run between epochs.
func (t *Trainer) Train(ctx context.Context, samples []Sample) (*Artifact, Metrics, error) {
	if len(samples) < t.cfg.MinSamples {
		return nil, Metrics{}, fmt.Errorf("%w: have %d, need %d", ErrInsufficientData, len(samples), t.cfg.MinSamples)
	}

	rng := rand.New(rand.NewSource(t.cfg.Seed))

	shuffled := append([]Sample(nil), samples...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	nVal := int(float64(len(shuffled)) * t.cfg.ValidationSplit)
	if nVal < 1 {
		nVal = 1
	}
	train, val := shuffled[:len(shuffled)-nVal], shuffled[len(shuffled)-nVal:]

	mean, std := fitNormalization(train)
	trainX := normalizeSamples(train, mean, std)
	valX := normalizeSamples(val, mean, std)

	net := newNetwork(DefaultLayers, rng)
	opt := newAdam(net, t.cfg.LearningRate)

	best := net.clone()
	bestLoss := math.Inf(1)
	sinceBest := 0
	sincePlateau := 0
	lr := t.cfg.LearningRate

	idx := make([]int, len(train))
	for i := range idx {
		idx[i] = i
	}

	for epoch := 0; epoch < t.cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, Metrics{}, err
		}

		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		for start := 0; start < len(idx); start += t.cfg.BatchSize {
			end := start + t.cfg.BatchSize
			if end > len(idx) {
				end = len(idx)
			}
			g := newGradients(net)
			for _, i := range idx[start:end] {
				st := net.forwardTraining(trainX[i], DefaultDropout, rng)
				net.backward(st, train[i].Label, g)
			}
			opt.update(net, g, float64(end-start))
		}

		valLoss, _ := evaluate(net, valX, val)
		if math.IsNaN(valLoss) || math.IsInf(valLoss, 0) {
			return nil, Metrics{}, fmt.Errorf("%w at epoch %d", ErrNumericFault, epoch)
		}

		if valLoss < bestLoss {
			bestLoss = valLoss
			best = net.clone()
			sinceBest = 0
			sincePlateau = 0
		} else {
			sinceBest++
			sincePlateau++
		}

		// Halve the learning rate when validation loss plateaus.
		if sincePlateau >= 7 && lr > 1e-5 {
			lr = math.Max(lr*0.5, 1e-5)
			opt.setLR(lr)
			sincePlateau = 0
		}

		if sinceBest >= t.cfg.Patience {
			log.Printf("ml: early stop at epoch %d (best val loss %.4f)", epoch+1, bestLoss)
			break
		}
	}

	loss, mae := evaluate(best, valX, val)
	baselineMAE := baselineMAE(val)
	improvement := 0.0
	if baselineMAE > 0 {
		improvement = (baselineMAE - mae) / baselineMAE * 100
	}
	metrics := Metrics{Loss: loss, MAE: mae, BaselineMAE: baselineMAE, Improvement: improvement}

	artifact := toArtifact(best, mean, std, Metadata{
		ModelVersion:   ModelVersion,
		TrainedAt:      time.Now(),
		TrainingSize:   len(train),
		ValidationSize: len(val),
		Metrics:        metrics,
	})
	if err := artifact.Validate(); err != nil {
		return nil, Metrics{}, err
	}
	return artifact, metrics, nil
}

// fitNormalization computes per-feature mean and standard deviation over
// the training split. The stats are frozen into the artifact; validation
// and serving inputs are normalized against them, never refitted.
func fitNormalization(samples []Sample) (mean, std []float64) {
	mean = make([]float64, features.Width)
	std = make([]float64, features.Width)
	n := float64(len(samples))

	for _, s := range samples {
		for i, v := range s.Features {
			mean[i] += v
		}
	}
	for i := range mean {
		mean[i] /= n
	}
	for _, s := range samples {
		for i, v := range s.Features {
			d := v - mean[i]
			std[i] += d * d
		}
	}
	for i := range std {
		std[i] = math.Sqrt(std[i] / n)
	}
	return mean, std
}

func normalizeSamples(samples []Sample, mean, std []float64) [][]float64 {
	out := make([][]float64, len(samples))
	for i, s := range samples {
		out[i] = normalize(s.Features.Slice(), mean, std)
	}
	return out
}

// evaluate returns MSE loss and MAE of the serving-mode forward pass over
// a normalized evaluation set.
func evaluate(net *network, x [][]float64, samples []Sample) (loss, mae float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	for i := range samples {
		pred := net.forward(x[i])
		diff := pred - samples[i].Label
		loss += diff * diff
		mae += math.Abs(diff)
	}
	n := float64(len(samples))
	return loss / n, mae / n
}

// baselineMAE is the error of the trivial strategy: predict the current
// interval unchanged. Feature 0 is the raw current interval.
func baselineMAE(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += math.Abs(s.Features[0] - s.Label)
	}
	return sum / float64(len(samples))
}
