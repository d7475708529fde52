package ml

import (
	"math"
	"sort"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/features"
)

// FeatureImportance is the advisory gradient-magnitude score of one
// input feature.
type FeatureImportance struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

const importanceEps = 1e-4

// Importances estimates per-feature influence by averaging the magnitude
// of the output gradient (central differences in normalized input space)
// over the sample batch. Results are sorted by descending score.
//
// This is a diagnostic for inspecting trained models; it never runs on
// the serving path.
func (p *Predictor) Importances(batch []features.Vector) []FeatureImportance {
	scores := make([]float64, features.Width)

	for _, v := range batch {
		x := normalize(v.Slice(), p.mean, p.std)
		for i := range x {
			orig := x[i]
			x[i] = orig + importanceEps
			plus := p.net.forward(x)
			x[i] = orig - importanceEps
			minus := p.net.forward(x)
			x[i] = orig
			scores[i] += math.Abs((plus - minus) / (2 * importanceEps))
		}
	}

	out := make([]FeatureImportance, features.Width)
	n := math.Max(1, float64(len(batch)))
	for i := range scores {
		out[i] = FeatureImportance{Name: features.Names[i], Score: scores[i] / n}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
