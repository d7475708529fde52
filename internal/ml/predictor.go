package ml

import (
	"fmt"
	"math"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/features"
)

// Predictor maps a synthesized feature vector to an interval in days.
// Its weights and normalization stats are read-only after construction,
// so a single Predictor may serve concurrent predictions.
type Predictor struct {
	net  *network
	mean []float64
	std  []float64
}

// NewPredictor builds a Predictor from a validated artifact. The
// artifact's input width must match the feature contract; a mismatch is
// a fatal error, never a silent truncation or pad.
func NewPredictor(a *Artifact) (*Predictor, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if a.InputWidth() != features.Width {
		return nil, fmt.Errorf("%w: artifact wants %d, contract is %d", ErrWidthMismatch, a.InputWidth(), features.Width)
	}
	return &Predictor{
		net:  a.toNetwork(),
		mean: a.Mean,
		std:  a.Std,
	}, nil
}

// Predict returns the predicted optimal interval, rounded to the nearest
// whole day and floored at 1.
func (p *Predictor) Predict(v features.Vector) (int, error) {
	raw, err := p.PredictRaw(v)
	if err != nil {
		return 0, err
	}
	days := int(math.Round(raw))
	if days < 1 {
		days = 1
	}
	return days, nil
}

// PredictRaw returns the unrounded model output in days.
func (p *Predictor) PredictRaw(v features.Vector) (float64, error) {
	x := normalize(v.Slice(), p.mean, p.std)
	out := p.net.forward(x)
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, ErrNumericFault
	}
	return out, nil
}

// stdFloor keeps z-scoring away from division by near-zero deviations
// for constant features.
const stdFloor = 1e-8

// normalize z-scores x against the frozen per-feature stats.
func normalize(x, mean, std []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		s := std[i]
		if s < stdFloor {
			s = stdFloor
		}
		out[i] = (x[i] - mean[i]) / s
	}
	return out
}
