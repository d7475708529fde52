package ml

import (
	"sort"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/features"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/pkg/models"
)

// LabelConfig parameterizes the optimal-interval training label. The
// label scales the actually-observed gap to the next review: up when
// that review succeeded (the card could have waited longer), down when
// it failed (the card came back too late). The factors are a heuristic
// proxy, not ground truth, so they stay configurable.
type LabelConfig struct {
	RecallBoost  float64 `json:"recall_boost"`  // default 1.2
	LapsePenalty float64 `json:"lapse_penalty"` // default 0.7
}

// DefaultLabelConfig returns the standard label factors.
func DefaultLabelConfig() LabelConfig {
	return LabelConfig{RecallBoost: 1.2, LapsePenalty: 0.7}
}

// BuildSamples turns historical review events into supervised training
// pairs. Events are grouped by card and replayed oldest-first, rebuilding
// each card's running counters so the synthesized features describe the
// card as it looked at review time. Each cross-day consecutive pair
// (review, next review) yields one sample labeled from the observed gap.
func BuildSamples(events []models.ReviewEvent, cfg LabelConfig) []Sample {
	if cfg.RecallBoost == 0 {
		cfg.RecallBoost = 1.2
	}
	if cfg.LapsePenalty == 0 {
		cfg.LapsePenalty = 0.7
	}

	byCard := make(map[string][]models.ReviewEvent)
	for _, ev := range events {
		byCard[ev.CardID] = append(byCard[ev.CardID], ev)
	}

	// Sorted card IDs for deterministic output order.
	cardIDs := make([]string, 0, len(byCard))
	for id := range byCard {
		cardIDs = append(cardIDs, id)
	}
	sort.Strings(cardIDs)

	var samples []Sample
	for _, id := range cardIDs {
		evs := byCard[id]
		sort.Slice(evs, func(i, j int) bool { return evs[i].Timestamp.Before(evs[j].Timestamp) })
		samples = append(samples, cardSamples(evs, cfg)...)
	}
	return samples
}

// cardSamples replays one card's ordered events.
func cardSamples(evs []models.ReviewEvent, cfg LabelConfig) []Sample {
	var (
		samples  []Sample
		correct  int
		streak   int
		respSum  float64
	)

	for i, ev := range evs {
		if ev.Recalled {
			correct++
			streak++
		} else {
			streak = 0
		}
		respSum += float64(ev.ResponseTimeMs)

		if i+1 >= len(evs) {
			break
		}
		next := evs[i+1]
		gap := next.Timestamp.Sub(ev.Timestamp).Hours() / 24.0
		if gap < 1 {
			// Same-day repeats carry no interval signal.
			continue
		}

		reviewed := i + 1
		successRate := float64(correct) / float64(reviewed)

		var sinceLast float64
		if i > 0 {
			sinceLast = ev.Timestamp.Sub(evs[i-1].Timestamp).Hours() / 24.0
		}

		window := evs[:reviewed]
		if len(window) > features.WindowSize {
			window = window[len(window)-features.WindowSize:]
		}

		in := features.Input{
			Interval:        float64(ev.IntervalUsed),
			Difficulty:      1 - successRate,
			DaysSinceReview: sinceLast,
			SuccessRate:     successRate,
			AvgResponseMs:   respSum / float64(reviewed),
			TotalReviews:    float64(reviewed),
			Streak:          float64(streak),
			TimeOfDay:       float64(ev.Timestamp.Hour()) / 24.0,
			Window:          window,
		}

		label := gap * cfg.LapsePenalty
		if next.Recalled {
			label = gap * cfg.RecallBoost
		}

		samples = append(samples, Sample{Features: features.Synthesize(in), Label: label})
	}
	return samples
}
