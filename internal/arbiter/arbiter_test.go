package arbiter

import (
	"math"
	"testing"
	"time"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/features"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/ml"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/spaced_repetition"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/pkg/models"
)

// constService returns an ml.Service serving a degenerate model whose
// output is always the given number of days.
func constService(t *testing.T, days float64) *ml.Service {
	t.Helper()
	bias := math.Log(math.Expm1(days))
	a := &ml.Artifact{
		FormatVersion:    ml.FormatVersion,
		Layers:           []int{features.Width, 1},
		Activation:       "relu",
		OutputActivation: "softplus",
		Weights: []ml.LayerWeights{{
			Shape: [2]int{1, features.Width},
			W:     make([]float64, features.Width),
			B:     []float64{bias},
		}},
		Mean: make([]float64, features.Width),
		Std:  onesVector(),
	}
	p, err := ml.NewPredictor(a)
	if err != nil {
		t.Fatalf("NewPredictor: %v", err)
	}
	svc := ml.NewService()
	svc.Swap(p)
	return svc
}

func onesVector() []float64 {
	v := make([]float64, features.Width)
	for i := range v {
		v[i] = 1
	}
	return v
}

func reviewedCard() *models.Card {
	c := models.NewCard("prompt", "answer")
	c.Interval = 6
	c.Repetitions = 2
	c.Easiness = 2.5
	c.Correct = 4
	c.Incorrect = 1
	c.Streak = 2
	c.LastReviewed = time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	c.AppendHistory(models.ReviewEvent{Recalled: true, ResponseTimeMs: 2000})
	c.AppendHistory(models.ReviewEvent{Recalled: true, ResponseTimeMs: 3000})
	return c
}

func TestDecideBaselineMode(t *testing.T) {
	a := New(spaced_repetition.New(), ml.NewService())
	card := reviewedCard()
	outcome := models.ReviewOutcome{Recalled: true, ResponseTimeMs: 2500}
	now := card.LastReviewed.Add(6 * 24 * time.Hour)

	d := a.Decide(card, outcome, models.ModeBaseline, now)
	if d.Source != models.SourceBaseline {
		t.Errorf("Source = %v, want baseline", d.Source)
	}
	if d.Interval != d.Baseline.Interval {
		t.Errorf("Interval = %d, want the baseline candidate %d", d.Interval, d.Baseline.Interval)
	}
	if d.LearnedInterval != nil || d.LearnedRaw != nil {
		t.Error("learned candidate populated in baseline mode")
	}
	// repetitions 2 with success: round(6 * EF')
	if d.Baseline.Interval < 6 {
		t.Errorf("baseline interval %d, want growth past 6", d.Baseline.Interval)
	}
}

func TestDecideLearnedMode(t *testing.T) {
	a := New(spaced_repetition.New(), constService(t, 10))
	card := reviewedCard()
	outcome := models.ReviewOutcome{Recalled: true, ResponseTimeMs: 2500}

	d := a.Decide(card, outcome, models.ModeLearned, time.Now())
	if d.Source != models.SourceLearned {
		t.Fatalf("Source = %v, want learned", d.Source)
	}
	if d.Interval != 10 {
		t.Errorf("Interval = %d, want the model's 10", d.Interval)
	}
	if d.LearnedInterval == nil || *d.LearnedInterval != 10 {
		t.Errorf("LearnedInterval = %v, want 10", d.LearnedInterval)
	}
	if d.LearnedRaw == nil || math.Abs(*d.LearnedRaw-10) > 1e-6 {
		t.Errorf("LearnedRaw = %v, want ~10", d.LearnedRaw)
	}
	// The baseline candidate is still computed for comparison analytics.
	if d.Baseline.Interval == 0 {
		t.Error("baseline candidate missing in learned mode")
	}
}

func TestDecideLearnedRoundsRawOutput(t *testing.T) {
	tests := []struct {
		name string
		days float64
		want int
	}{
		{"sub-day output floored", 0.2, 1},
		{"rounds down", 4.4, 4},
		{"rounds up", 4.6, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(spaced_repetition.New(), constService(t, tt.days))
			card := reviewedCard()
			outcome := models.ReviewOutcome{Recalled: true, ResponseTimeMs: 2500}

			d := a.Decide(card, outcome, models.ModeLearned, time.Now())
			if d.Source != models.SourceLearned {
				t.Fatalf("Source = %v, want learned", d.Source)
			}
			if d.Interval != tt.want {
				t.Errorf("Interval = %d, want %d", d.Interval, tt.want)
			}
			if d.LearnedRaw == nil || math.Abs(*d.LearnedRaw-tt.days) > 1e-6 {
				t.Errorf("LearnedRaw = %v, want ~%v", d.LearnedRaw, tt.days)
			}
		})
	}
}

func TestDecideLearnedFallsBackWhenUnloaded(t *testing.T) {
	a := New(spaced_repetition.New(), ml.NewService())
	card := reviewedCard()
	outcome := models.ReviewOutcome{Recalled: false, ResponseTimeMs: 3000}

	d := a.Decide(card, outcome, models.ModeLearned, time.Now())
	if d.Source != models.SourceBaseline {
		t.Errorf("Source = %v, want baseline fallback", d.Source)
	}
	if d.LearnedInterval != nil {
		t.Error("LearnedInterval set on a failed learned path")
	}
	// A lapse resets the baseline to one day.
	if d.Interval != 1 {
		t.Errorf("Interval = %d, want 1 after a lapse", d.Interval)
	}
}

func TestDecideSplitTestRouting(t *testing.T) {
	a := New(spaced_repetition.New(), constService(t, 10))
	outcome := models.ReviewOutcome{Recalled: true, ResponseTimeMs: 2500}

	// "a" hashes even (baseline arm), "b" hashes odd (learned arm).
	baselineCard := reviewedCard()
	baselineCard.ID = "a"
	learnedCard := reviewedCard()
	learnedCard.ID = "b"

	if d := a.Decide(baselineCard, outcome, models.ModeSplitTest, time.Now()); d.Source != models.SourceBaseline {
		t.Errorf("card %q: Source = %v, want baseline arm", baselineCard.ID, d.Source)
	}
	if d := a.Decide(learnedCard, outcome, models.ModeSplitTest, time.Now()); d.Source != models.SourceLearned {
		t.Errorf("card %q: Source = %v, want learned arm", learnedCard.ID, d.Source)
	}
}

func TestSplitArmStable(t *testing.T) {
	ids := []string{"a", "b", "c", "0f8fad5b-d9cb-469f-a165-70867728950e"}
	for _, id := range ids {
		first := SplitArm(id)
		for i := 0; i < 10; i++ {
			if got := SplitArm(id); got != first {
				t.Fatalf("SplitArm(%q) flapped: %v then %v", id, first, got)
			}
		}
	}
	if SplitArm("a") == SplitArm("b") {
		t.Error(`"a" and "b" landed in the same arm; expected them split`)
	}
}

func TestDecideQualitySurfaced(t *testing.T) {
	a := New(spaced_repetition.New(), ml.NewService())
	card := reviewedCard() // average response 2500ms

	fast := models.ReviewOutcome{Recalled: true, ResponseTimeMs: 1000}
	if d := a.Decide(card, fast, models.ModeBaseline, time.Now()); d.Quality != spaced_repetition.QualityPerfect {
		t.Errorf("fast correct answer: Quality = %v, want perfect", d.Quality)
	}

	slowWrong := models.ReviewOutcome{Recalled: false, ResponseTimeMs: 8000}
	if d := a.Decide(card, slowWrong, models.ModeBaseline, time.Now()); d.Quality != spaced_repetition.QualityIncorrectSlow {
		t.Errorf("slow wrong answer: Quality = %v, want incorrect-slow", d.Quality)
	}
}
