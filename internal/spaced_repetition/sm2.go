// Package spaced_repetition implements the SM-2 baseline scheduler.
//
// The baseline is pure and deterministic: it is computed on every review
// regardless of the active algorithm mode, both as the fallback when the
// learned path fails and as the comparison candidate recorded on every
// review event.
package spaced_repetition

import "math"

// Quality is the 0-5 discretized recall-performance signal driving the
// SM-2 transition.
type Quality int

const (
	// QualityBlackout: incorrect and answered in under a second (guessed).
	QualityBlackout Quality = 0
	// QualityIncorrect: incorrect, answered in 1-5 seconds.
	QualityIncorrect Quality = 1
	// QualityIncorrectSlow: incorrect after more than 5 seconds of effort.
	QualityIncorrectSlow Quality = 2
	// QualityCorrectSlow: correct but slower than the card's average.
	QualityCorrectSlow Quality = 3
	// QualityCorrect: correct at or under the card's average time.
	QualityCorrect Quality = 4
	// QualityPerfect: correct in under half the card's average time.
	QualityPerfect Quality = 5
)

// IsCorrect reports whether the quality counts as a successful recall.
func (q Quality) IsCorrect() bool { return q >= QualityCorrectSlow }

// SM2 holds the SuperMemo-2 scheduling parameters.
type SM2 struct {
	// PassThreshold is the lowest quality treated as a successful recall.
	PassThreshold Quality
	// MaxInterval caps the scheduled interval in days.
	MaxInterval int
	// MinEasiness is the floor for the easiness factor.
	MinEasiness float64
}

// New creates an SM2 scheduler with the standard parameters: pass at
// quality 3, one-year interval cap, easiness floored at 1.3.
func New() *SM2 {
	return &SM2{
		PassThreshold: QualityCorrectSlow,
		MaxInterval:   365,
		MinEasiness:   1.3,
	}
}

// Result is the state produced by one SM-2 transition.
type Result struct {
	Interval    int     // Next interval in days, in [1, MaxInterval]
	Repetitions int     // Updated repetition count
	Easiness    float64 // Updated easiness factor, >= MinEasiness
}

// Next applies the SM-2 transition to the given state.
//
// The easiness factor is updated for every answer, including failures:
// EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02)), floored at MinEasiness.
// A failing quality resets repetitions to 0 and the interval to 1 day.
// A passing quality schedules 1 day on the first success, 6 on the
// second, and round(interval * EF') afterwards, capped at MaxInterval.
func (s *SM2) Next(quality Quality, repetitions int, easiness float64, currentInterval int) Result {
	if quality < QualityBlackout {
		quality = QualityBlackout
	}
	if quality > QualityPerfect {
		quality = QualityPerfect
	}

	q := float64(quality)
	newEF := easiness + (0.1 - (5.0-q)*(0.08+(5.0-q)*0.02))
	if newEF < s.MinEasiness {
		newEF = s.MinEasiness
	}

	if quality < s.PassThreshold {
		return Result{Interval: 1, Repetitions: 0, Easiness: newEF}
	}

	var interval int
	switch repetitions {
	case 0:
		interval = 1
	case 1:
		interval = 6
	default:
		interval = int(math.Round(float64(currentInterval) * newEF))
	}
	if interval < 1 {
		interval = 1
	}
	if interval > s.MaxInterval {
		interval = s.MaxInterval
	}

	return Result{Interval: interval, Repetitions: repetitions + 1, Easiness: newEF}
}

// DeriveQuality discretizes an answer into a 0-5 quality from correctness
// and response time relative to the card's historical average. avgMs <= 0
// (no history yet) treats a correct answer as a plain correct recall.
func (s *SM2) DeriveQuality(recalled bool, responseMs int, avgMs float64) Quality {
	rt := float64(responseMs)

	if recalled {
		if avgMs <= 0 {
			return QualityCorrect
		}
		switch {
		case rt < 0.5*avgMs:
			return QualityPerfect
		case rt <= avgMs:
			return QualityCorrect
		default:
			return QualityCorrectSlow
		}
	}

	switch {
	case rt > 5000:
		return QualityIncorrectSlow
	case rt >= 1000:
		return QualityIncorrect
	default:
		return QualityBlackout
	}
}
