// Package features expands raw card performance signals into the fixed
// 51-dimensional vector the interval model is trained against.
//
// The output order is a versioned contract shared by the trainer and the
// predictor. Both sides call the same Synthesize, so feature order and
// semantics cannot drift between training and serving.
package features

import (
	"math"
	"time"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/pkg/models"
)

// Width is the number of features produced per synthesis.
const Width = 51

// WindowSize bounds the recent-event window used for the moving-average
// and momentum families.
const WindowSize = 5

// Vector is one synthesized feature vector in contract order.
type Vector [Width]float64

// Slice returns the vector as a []float64 without copying semantics
// concerns (the array is copied by value).
func (v Vector) Slice() []float64 { return v[:] }

// Input carries the 8 base signals. All values are expected finite and
// non-negative; Synthesize clamps rather than faulting on stragglers.
type Input struct {
	Interval        float64 // Current interval in days ("memory strength")
	Difficulty      float64 // Difficulty score in [0,1]
	DaysSinceReview float64 // Days elapsed since the last review
	SuccessRate     float64 // Lifetime fraction of correct answers in [0,1]
	AvgResponseMs   float64 // Mean response time in milliseconds
	TotalReviews    float64 // Lifetime answer count
	Streak          float64 // Consecutive-correct streak
	TimeOfDay       float64 // Fraction of the day in [0,1)

	// Window holds up to WindowSize recent review events, oldest first.
	// May be nil; the window families are zero on empty history.
	Window []models.ReviewEvent
}

// FromCard builds an Input snapshot for a card as of now.
func FromCard(card *models.Card, now time.Time) Input {
	var days float64
	if !card.LastReviewed.IsZero() {
		days = now.Sub(card.LastReviewed).Hours() / 24.0
	}
	return Input{
		Interval:        float64(card.Interval),
		Difficulty:      card.Difficulty,
		DaysSinceReview: days,
		SuccessRate:     card.SuccessRate(),
		AvgResponseMs:   card.AverageResponseTime(),
		TotalReviews:    float64(card.TotalReviews()),
		Streak:          float64(card.Streak),
		TimeOfDay:       float64(now.Hour())/24.0 + float64(now.Minute())/1440.0,
		Window:          card.RecentHistory(WindowSize),
	}
}

// Synthesize expands the base signals into the 51-feature vector.
// It is deterministic and total: any finite non-negative input yields 51
// finite numbers, with zero-safe sentinels in place of division faults.
func Synthesize(in Input) Vector {
	// Clamp base signals into their contract ranges.
	ms := math.Max(in.Interval, 0)
	dr := clamp01(in.Difficulty)
	ts := math.Max(in.DaysSinceReview, 0)
	sr := clamp01(in.SuccessRate)
	art := math.Max(in.AvgResponseMs, 0) / 1000.0 // seconds
	tr := math.Max(in.TotalReviews, 0)
	cc := math.Max(in.Streak, 0)
	tod := in.TimeOfDay - math.Floor(in.TimeOfDay) // wrap into [0,1)

	window := in.Window
	if len(window) > WindowSize {
		window = window[len(window)-WindowSize:]
	}

	// Forgetting curve family. The interval acts as the stability S in
	// R = e^(-t/S), floored to keep the decay rate finite at interval 0.
	decayRate := ts / math.Max(ms, 0.1)
	forgettingCurve := math.Exp(-decayRate)
	learnerStrength := math.Max(0.1, sr*2)
	adjustedDecay := math.Exp(-decayRate / learnerStrength)
	logTimeDecay := math.Log1p(decayRate)
	logMemoryStrength := math.Log1p(ms)

	// Interaction family: pairwise products and ratios. Ratio denominators
	// keep the historical sentinels of the trained models.
	consecutiveDifficultyRatio := cc
	if dr > 0 {
		consecutiveDifficultyRatio = cc / dr
	}
	experienceDifficultyRatio := tr
	if dr > 0 {
		experienceDifficultyRatio = tr / (dr + 1)
	}

	// Polynomial family with zero-safe inverses.
	inverseMemory := 0.0
	if ms > 0 {
		inverseMemory = 1 / ms
	}
	inverseDifficulty := 100.0 // sentinel for near-zero difficulty
	if dr > 0.01 {
		inverseDifficulty = 1 / dr
	}

	// Cyclical time encoding: one sine/cosine pair plus day-part flags.
	radians := tod * 2 * math.Pi
	timeSin := math.Sin(radians)
	timeCos := math.Cos(radians)
	isMorning := boolFeature(tod >= 0.25 && tod < 0.5)
	isAfternoon := boolFeature(tod >= 0.5 && tod < 0.75)
	isEvening := boolFeature(tod >= 0.75 || tod < 0.25)

	// Moving-average family over the recent window; all zero when the
	// window is empty.
	var (
		recentSuccess     float64
		recentAvgResponse float64
		performanceTrend  float64
		intervalTrend     float64
		spacingVelocity   float64
	)
	if n := len(window); n > 0 {
		var correct, respSum float64
		for _, ev := range window {
			if ev.Recalled {
				correct++
			}
			respSum += float64(ev.ResponseTimeMs)
		}
		recentSuccess = correct / float64(n)
		recentAvgResponse = respSum / float64(n) / 1000.0

		if n >= 2 {
			first, second := window[:n/2], window[n/2:]
			performanceTrend = windowSuccess(second) - windowSuccess(first)
			intervalTrend = windowMeanInterval(second) - windowMeanInterval(first)

			span := window[n-1].Timestamp.Sub(window[0].Timestamp).Hours() / 24.0
			if span > 0 {
				spacingVelocity = float64(n-1) / span
			}
		}
	}

	// Momentum family. With no window the recent rate is taken as the
	// overall rate, so the delta terms are zero and mastery reduces to
	// the overall success rate.
	recentForMomentum := sr
	var acceleration float64
	if n := len(window); n > 0 {
		recentForMomentum = recentSuccess
		acceleration = boolFeature(window[n-1].Recalled) - recentSuccess
	}
	learningMomentum := recentForMomentum - sr
	streakStrength := cc / math.Sqrt(math.Max(1, tr))
	masteryLevel := sr * (1 - math.Abs(recentForMomentum-sr))

	// Retention family.
	stability := math.Log1p(cc) * math.Log1p(ms)
	retrievability := forgettingCurve * (1 - dr)
	learningEfficiency := 0.0
	if tr > 0 {
		learningEfficiency = sr / math.Log1p(tr)
	}
	retentionProbability := math.Min(1, retrievability*(1+stability*0.1))
	optimalIntervalEstimate := math.Max(1, ms*math.Abs(math.Log(0.9))*(1+stability*0.1))

	return Vector{
		// Base (8)
		ms, dr, ts, sr, art, tr, cc, tod,
		// Forgetting curve (5)
		forgettingCurve, adjustedDecay, logTimeDecay, logMemoryStrength, decayRate,
		// Interaction (10)
		dr * ts, dr * ms, sr * ms, sr * ts,
		art * dr, art * ms, cc * ms,
		consecutiveDifficultyRatio, tr * sr, experienceDifficultyRatio,
		// Polynomial (9)
		ms * ms, dr * dr, ts * ts, sr * sr,
		ms * ms * ms, math.Sqrt(ms), math.Sqrt(tr),
		inverseMemory, inverseDifficulty,
		// Cyclical time (5)
		timeSin, timeCos, isMorning, isAfternoon, isEvening,
		// Moving average (5)
		recentSuccess, recentAvgResponse, performanceTrend, intervalTrend, spacingVelocity,
		// Momentum (4)
		learningMomentum, streakStrength, acceleration, masteryLevel,
		// Retention (5)
		stability, retrievability, learningEfficiency, retentionProbability, optimalIntervalEstimate,
	}
}

func windowSuccess(events []models.ReviewEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	var correct float64
	for _, ev := range events {
		if ev.Recalled {
			correct++
		}
	}
	return correct / float64(len(events))
}

func windowMeanInterval(events []models.ReviewEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	var sum float64
	for _, ev := range events {
		sum += float64(ev.IntervalUsed)
	}
	return sum / float64(len(events))
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
