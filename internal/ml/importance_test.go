package ml

import (
	"math"
	"testing"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/features"
)

func TestImportancesSortedAndComplete(t *testing.T) {
	p, err := NewPredictor(testArtifact(t, 9))
	if err != nil {
		t.Fatalf("NewPredictor: %v", err)
	}

	batch := []features.Vector{testVector(1), testVector(2), testVector(3)}
	imps := p.Importances(batch)

	if len(imps) != features.Width {
		t.Fatalf("got %d importances, want %d", len(imps), features.Width)
	}
	seen := make(map[string]bool, len(imps))
	for i, imp := range imps {
		if imp.Name == "" || seen[imp.Name] {
			t.Errorf("entry %d: bad or duplicate name %q", i, imp.Name)
		}
		seen[imp.Name] = true
		if math.IsNaN(imp.Score) || imp.Score < 0 {
			t.Errorf("entry %d (%s): invalid score %v", i, imp.Name, imp.Score)
		}
		if i > 0 && imps[i-1].Score < imp.Score {
			t.Errorf("entry %d: scores not sorted descending", i)
		}
	}
}

func TestImportancesZeroWeightFeature(t *testing.T) {
	// A constant-output model has zero gradient everywhere.
	p, err := NewPredictor(constArtifact(5))
	if err != nil {
		t.Fatalf("NewPredictor: %v", err)
	}
	for _, imp := range p.Importances([]features.Vector{testVector(1)}) {
		if imp.Score != 0 {
			t.Errorf("%s: score %v, want 0 for a constant model", imp.Name, imp.Score)
		}
	}
}
