package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FormatVersion is the artifact file format tag checked on every load.
const FormatVersion = 1

// LayerWeights is one dense layer's parameters in flat row-major form.
type LayerWeights struct {
	Shape [2]int    `json:"shape"` // [out, in]
	W     []float64 `json:"w"`
	B     []float64 `json:"b"`
}

// Metrics reports a training run's evaluation results.
type Metrics struct {
	Loss        float64 `json:"loss"`         // validation MSE
	MAE         float64 `json:"mae"`          // validation mean absolute error, days
	BaselineMAE float64 `json:"baseline_mae"` // MAE of predicting the current interval unchanged
	Improvement float64 `json:"improvement"`  // percent improvement over the trivial baseline
}

// Metadata describes the training run that produced an artifact.
type Metadata struct {
	ModelVersion   string    `json:"model_version"`
	TrainedAt      time.Time `json:"trained_at"`
	TrainingSize   int       `json:"training_size"`
	ValidationSize int       `json:"validation_size"`
	Metrics        Metrics   `json:"metrics"`
}

// Artifact is the persisted model bundle: architecture descriptor, flat
// weight arrays with shapes, per-feature normalization stats and a format
// tag. Artifacts are written whole and never mutated in place; a new
// training run replaces the file via an atomic rename.
type Artifact struct {
	FormatVersion    int            `json:"format_version"`
	Layers           []int          `json:"layers"` // widths, input first
	Activation       string         `json:"activation"`
	OutputActivation string         `json:"output_activation"`
	Weights          []LayerWeights `json:"weights"`
	Mean             []float64      `json:"mean"`
	Std              []float64      `json:"std"`
	Metadata         Metadata       `json:"metadata"`
}

// InputWidth returns the artifact's declared input width.
func (a *Artifact) InputWidth() int {
	if len(a.Layers) == 0 {
		return 0
	}
	return a.Layers[0]
}

// Validate checks the artifact's structural consistency.
func (a *Artifact) Validate() error {
	if a.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: format version %d, want %d", ErrInvalidArtifact, a.FormatVersion, FormatVersion)
	}
	if len(a.Layers) < 2 {
		return fmt.Errorf("%w: need at least input and output layers", ErrInvalidArtifact)
	}
	if len(a.Weights) != len(a.Layers)-1 {
		return fmt.Errorf("%w: %d weight layers for %d architecture layers", ErrInvalidArtifact, len(a.Weights), len(a.Layers))
	}
	for l, lw := range a.Weights {
		in, out := a.Layers[l], a.Layers[l+1]
		if lw.Shape[0] != out || lw.Shape[1] != in {
			return fmt.Errorf("%w: layer %d shape %v, want [%d %d]", ErrInvalidArtifact, l, lw.Shape, out, in)
		}
		if len(lw.W) != out*in {
			return fmt.Errorf("%w: layer %d has %d weights, want %d", ErrInvalidArtifact, l, len(lw.W), out*in)
		}
		if len(lw.B) != out {
			return fmt.Errorf("%w: layer %d has %d biases, want %d", ErrInvalidArtifact, l, len(lw.B), out)
		}
	}
	width := a.Layers[0]
	if len(a.Mean) != width || len(a.Std) != width {
		return fmt.Errorf("%w: normalization stats length %d/%d, want %d", ErrInvalidArtifact, len(a.Mean), len(a.Std), width)
	}
	return nil
}

// Save writes the artifact atomically: a temp file in the target
// directory followed by a rename, so a concurrent loader never observes
// a partially written bundle.
func (a *Artifact) Save(path string) error {
	if err := a.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".artifact-*.json")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads and validates an artifact file.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// toArtifact packages the network with its normalization stats.
func toArtifact(n *network, mean, std []float64, meta Metadata) *Artifact {
	sizes := n.sizes()
	a := &Artifact{
		FormatVersion:    FormatVersion,
		Layers:           sizes,
		Activation:       "relu",
		OutputActivation: "softplus",
		Weights:          make([]LayerWeights, len(n.layers)),
		Mean:             append([]float64(nil), mean...),
		Std:              append([]float64(nil), std...),
		Metadata:         meta,
	}
	for l, layer := range n.layers {
		out, in := len(layer.w), len(layer.w[0])
		lw := LayerWeights{
			Shape: [2]int{out, in},
			W:     make([]float64, 0, out*in),
			B:     append([]float64(nil), layer.b...),
		}
		for _, row := range layer.w {
			lw.W = append(lw.W, row...)
		}
		a.Weights[l] = lw
	}
	return a
}

// toNetwork rebuilds the dense network from the artifact's flat arrays.
// Validate must have passed.
func (a *Artifact) toNetwork() *network {
	n := &network{layers: make([]denseLayer, len(a.Weights))}
	for l, lw := range a.Weights {
		out, in := lw.Shape[0], lw.Shape[1]
		w := make([][]float64, out)
		for i := 0; i < out; i++ {
			w[i] = append([]float64(nil), lw.W[i*in:(i+1)*in]...)
		}
		n.layers[l] = denseLayer{w: w, b: append([]float64(nil), lw.B...)}
	}
	return n
}
