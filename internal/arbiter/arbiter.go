// Package arbiter chooses between the SM-2 baseline and the learned
// model for each review.
//
// The baseline candidate is always computed: it is cheap, deterministic,
// serves as the fallback when the learned path fails, and keeps the
// baseline-vs-learned comparison analytics populated on every event.
package arbiter

import (
	"hash/fnv"
	"log"
	"math"
	"time"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/features"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/ml"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/spaced_repetition"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/pkg/models"
)

// Decision is the arbiter's output for one review: the chosen interval,
// its source, both candidates, and the baseline quality score surfaced
// as user feedback.
type Decision struct {
	Interval int           // chosen interval, days
	Source   models.Source // which algorithm produced it

	Baseline        spaced_repetition.Result // full baseline transition (interval, repetitions, easiness)
	LearnedInterval *int                     // nil when the learned path did not run or failed
	LearnedRaw      *float64                 // unrounded model output, for confidence display

	Quality spaced_repetition.Quality
}

// Arbiter decides baseline vs. learned per review.
type Arbiter struct {
	sm2       *spaced_repetition.SM2
	predictor *ml.Service
}

// New creates an Arbiter. The predictor service may be empty (nothing
// loaded); the learned path then degrades to baseline per review.
func New(sm2 *spaced_repetition.SM2, predictor *ml.Service) *Arbiter {
	return &Arbiter{sm2: sm2, predictor: predictor}
}

// Decide computes both candidates as the mode requires and picks the
// winner. A failing learned path (missing artifact, width mismatch,
// numeric fault) degrades to the baseline candidate for this one review;
// the degradation is logged, never surfaced as a failure.
func (a *Arbiter) Decide(card *models.Card, outcome models.ReviewOutcome, mode models.Mode, now time.Time) Decision {
	quality := a.sm2.DeriveQuality(outcome.Recalled, outcome.ResponseTimeMs, card.AverageResponseTime())
	baseline := a.sm2.Next(quality, card.Repetitions, card.Easiness, card.Interval)

	d := Decision{
		Interval: baseline.Interval,
		Source:   models.SourceBaseline,
		Baseline: baseline,
		Quality:  quality,
	}

	if !wantsLearned(mode, card.ID) {
		return d
	}

	p, err := a.predictor.Predictor()
	if err != nil {
		log.Printf("arbiter: card %s: learned path unavailable, using baseline: %v", card.ID, err)
		return d
	}

	vec := features.Synthesize(features.FromCard(card, now))
	raw, err := p.PredictRaw(vec)
	if err != nil {
		log.Printf("arbiter: card %s: prediction failed, using baseline: %v", card.ID, err)
		return d
	}
	learned := int(math.Round(raw))
	if learned < 1 {
		learned = 1
	}

	d.Interval = learned
	d.Source = models.SourceLearned
	d.LearnedInterval = &learned
	d.LearnedRaw = &raw
	return d
}

// wantsLearned reports whether the mode routes this card to the learned
// model. The switch is exhaustive over the closed Mode set; anything
// unrecognized schedules with the baseline.
func wantsLearned(mode models.Mode, cardID string) bool {
	switch mode {
	case models.ModeBaseline:
		return false
	case models.ModeLearned:
		return true
	case models.ModeSplitTest:
		return SplitArm(cardID) == models.SourceLearned
	default:
		log.Printf("arbiter: unknown mode %v, using baseline", mode)
		return false
	}
}

// SplitArm assigns a card to a split-test arm from a stable hash of its
// identifier. The same card always lands in the same arm; assignment is
// never re-randomized per review.
func SplitArm(cardID string) models.Source {
	h := fnv.New32a()
	h.Write([]byte(cardID))
	if h.Sum32()%2 == 0 {
		return models.SourceBaseline
	}
	return models.SourceLearned
}
