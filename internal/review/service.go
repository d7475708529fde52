// Package review exposes the in-process decision function the serving
// layer calls for each answered card: validate the outcome, run the
// baseline and (as the mode requires) the learned candidate through the
// arbiter, mutate the card, and assemble the learner-facing feedback.
package review

import (
	"errors"
	"fmt"
	"time"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/arbiter"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/schedule"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/pkg/models"
)

// ErrInvalidInput is returned for malformed review input. It is the only
// error the review path surfaces to the caller: predictor failures are
// absorbed by the arbiter's fallback.
var ErrInvalidInput = errors.New("review: invalid review input")

// maxResponseTimeMs rejects response times that can only be clock skew.
const maxResponseTimeMs = 10 * 60 * 1000

// Feedback is the per-review summary shown to the learner.
type Feedback struct {
	Quality        int     `json:"quality"` // 0-5 baseline quality score
	Recalled       bool    `json:"recalled"`
	Streak         int     `json:"streak"`
	SuccessRate    float64 `json:"success_rate"`
	MemoryStrength float64 `json:"memory_strength"` // displayed value, clamped to [1, 90]
	NextInterval   int     `json:"next_interval"`   // days until the card comes back
}

// Result bundles everything one processed review produces: the appended
// event, the arbiter's decision detail and the learner feedback. The
// card passed to Process carries the updated state fragment.
type Result struct {
	Event    models.ReviewEvent
	Decision arbiter.Decision
	Feedback Feedback
}

// Service processes reviews. Review processing is logically
// single-threaded per card: callers must not submit concurrent reviews
// for the same card.
type Service struct {
	arbiter *arbiter.Arbiter
}

// NewService creates a review Service on top of the given arbiter.
func NewService(a *arbiter.Arbiter) *Service {
	return &Service{arbiter: a}
}

// Process validates the outcome, decides the interval and applies the
// resulting state fragment to the card: scheduling state, counters,
// streak and the bounded history log. The learner profile's rolling
// totals are updated in the same step.
func (s *Service) Process(card *models.Card, profile *models.LearnerProfile, outcome models.ReviewOutcome) (*Result, error) {
	if err := validate(outcome); err != nil {
		return nil, err
	}

	at := outcome.AnsweredAt
	if at.IsZero() {
		at = time.Now()
	}

	decision := s.arbiter.Decide(card, outcome, profile.Mode, at)

	// Apply the state fragment. The SM-2 repetition/easiness machine
	// advances on every review regardless of which candidate won; the
	// applied interval is the arbiter's choice.
	card.Interval = decision.Interval
	card.Repetitions = decision.Baseline.Repetitions
	card.Easiness = decision.Baseline.Easiness
	card.LastReviewed = at
	card.UpdatedAt = at
	if outcome.Recalled {
		card.Correct++
		card.Streak++
	} else {
		card.Incorrect++
		card.Streak = 0
	}
	card.Difficulty = 1 - card.SuccessRate()
	card.LearnedInterval = decision.LearnedInterval
	card.LearnedConfidence = decision.LearnedRaw

	event := models.ReviewEvent{
		CardID:              card.ID,
		Timestamp:           at,
		Recalled:            outcome.Recalled,
		ResponseTimeMs:      outcome.ResponseTimeMs,
		IntervalUsed:        decision.Interval,
		Source:              decision.Source,
		BaselineInterval:    decision.Baseline.Interval,
		LearnedInterval:     decision.LearnedInterval,
		PerceivedDifficulty: outcome.PerceivedDifficulty,
	}
	card.AppendHistory(event)

	profile.RecordAnswer(outcome.Recalled)

	return &Result{
		Event:    event,
		Decision: decision,
		Feedback: Feedback{
			Quality:        int(decision.Quality),
			Recalled:       outcome.Recalled,
			Streak:         card.Streak,
			SuccessRate:    card.SuccessRate(),
			MemoryStrength: schedule.MemoryStrength(decision.Interval, card.SuccessRate(), card.TotalReviews()),
			NextInterval:   decision.Interval,
		},
	}, nil
}

// validate rejects malformed outcomes before they reach the scheduler.
func validate(outcome models.ReviewOutcome) error {
	if outcome.ResponseTimeMs < 0 {
		return fmt.Errorf("%w: negative response time %d", ErrInvalidInput, outcome.ResponseTimeMs)
	}
	if outcome.ResponseTimeMs > maxResponseTimeMs {
		return fmt.Errorf("%w: response time %dms exceeds %dms", ErrInvalidInput, outcome.ResponseTimeMs, maxResponseTimeMs)
	}
	if outcome.PerceivedDifficulty < 0 || outcome.PerceivedDifficulty > 1 {
		return fmt.Errorf("%w: perceived difficulty %f out of [0,1]", ErrInvalidInput, outcome.PerceivedDifficulty)
	}
	return nil
}
