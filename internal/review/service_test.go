package review

import (
	"errors"
	"testing"
	"time"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/arbiter"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/ml"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/spaced_repetition"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/pkg/models"
)

func testService() *Service {
	return NewService(arbiter.New(spaced_repetition.New(), ml.NewService()))
}

func testProfile(mode models.Mode) *models.LearnerProfile {
	return &models.LearnerProfile{Name: "learner", Mode: mode, DailyGoal: 20}
}

func TestProcessValidation(t *testing.T) {
	tests := []struct {
		name    string
		outcome models.ReviewOutcome
	}{
		{"negative response time", models.ReviewOutcome{ResponseTimeMs: -1}},
		{"absurd response time", models.ReviewOutcome{ResponseTimeMs: 11 * 60 * 1000}},
		{"difficulty below range", models.ReviewOutcome{ResponseTimeMs: 1000, PerceivedDifficulty: -0.1}},
		{"difficulty above range", models.ReviewOutcome{ResponseTimeMs: 1000, PerceivedDifficulty: 1.5}},
	}

	svc := testService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := models.NewCard("p", "a")
			_, err := svc.Process(card, testProfile(models.ModeBaseline), tt.outcome)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Process = %v, want ErrInvalidInput", err)
			}
			if card.TotalReviews() != 0 || len(card.History) != 0 {
				t.Error("card mutated by a rejected outcome")
			}
		})
	}
}

func TestProcessSuccessfulRecall(t *testing.T) {
	svc := testService()
	card := models.NewCard("p", "a")
	profile := testProfile(models.ModeBaseline)
	at := time.Date(2024, 4, 2, 14, 30, 0, 0, time.UTC)

	res, err := svc.Process(card, profile, models.ReviewOutcome{
		Recalled:       true,
		ResponseTimeMs: 2000,
		AnsweredAt:     at,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if card.Repetitions != 1 {
		t.Errorf("Repetitions = %d, want 1", card.Repetitions)
	}
	if card.Interval != 1 {
		t.Errorf("Interval = %d, want 1 on the first success", card.Interval)
	}
	if card.Correct != 1 || card.Incorrect != 0 || card.Streak != 1 {
		t.Errorf("counters = %d/%d/%d, want 1/0/1", card.Correct, card.Incorrect, card.Streak)
	}
	if card.Difficulty != 0 {
		t.Errorf("Difficulty = %v, want 0 at 100%% success", card.Difficulty)
	}
	if !card.LastReviewed.Equal(at) {
		t.Errorf("LastReviewed = %v, want %v", card.LastReviewed, at)
	}

	if len(card.History) != 1 {
		t.Fatalf("history length %d, want 1", len(card.History))
	}
	ev := card.History[0]
	if ev != res.Event {
		t.Error("history entry differs from the returned event")
	}
	if ev.CardID != card.ID || !ev.Recalled || ev.IntervalUsed != 1 {
		t.Errorf("event = %+v, want card %s recalled at interval 1", ev, card.ID)
	}
	if ev.Source != models.SourceBaseline || ev.BaselineInterval != 1 {
		t.Errorf("event source %v / baseline %d, want baseline / 1", ev.Source, ev.BaselineInterval)
	}

	if profile.TotalReviews != 1 || profile.TotalCorrect != 1 || profile.CurrentStreak != 1 {
		t.Errorf("profile totals = %d/%d/%d, want 1/1/1",
			profile.TotalReviews, profile.TotalCorrect, profile.CurrentStreak)
	}

	fb := res.Feedback
	if !fb.Recalled || fb.Streak != 1 || fb.NextInterval != 1 {
		t.Errorf("feedback = %+v, want recalled streak 1 interval 1", fb)
	}
	if fb.SuccessRate != 1 {
		t.Errorf("feedback success rate = %v, want 1", fb.SuccessRate)
	}
	if fb.MemoryStrength < 1 || fb.MemoryStrength > 90 {
		t.Errorf("memory strength %v outside [1, 90]", fb.MemoryStrength)
	}
}

func TestProcessLapseResets(t *testing.T) {
	svc := testService()
	card := models.NewCard("p", "a")
	card.Interval = 15
	card.Repetitions = 3
	card.Easiness = 2.5
	card.Correct = 5
	card.Streak = 5
	profile := testProfile(models.ModeBaseline)
	profile.CurrentStreak = 5

	res, err := svc.Process(card, profile, models.ReviewOutcome{
		Recalled:       false,
		ResponseTimeMs: 3000,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if card.Interval != 1 || card.Repetitions != 0 {
		t.Errorf("interval/repetitions = %d/%d, want 1/0 after a lapse", card.Interval, card.Repetitions)
	}
	if card.Easiness >= 2.5 {
		t.Errorf("Easiness = %v, want decreased from 2.5", card.Easiness)
	}
	if card.Streak != 0 || card.Incorrect != 1 {
		t.Errorf("streak/incorrect = %d/%d, want 0/1", card.Streak, card.Incorrect)
	}
	if profile.CurrentStreak != 0 {
		t.Errorf("profile streak = %d, want 0", profile.CurrentStreak)
	}
	if res.Feedback.Quality != int(spaced_repetition.QualityIncorrect) {
		t.Errorf("feedback quality = %d, want %d", res.Feedback.Quality, spaced_repetition.QualityIncorrect)
	}
}

func TestProcessDefaultsAnsweredAt(t *testing.T) {
	svc := testService()
	card := models.NewCard("p", "a")
	before := time.Now()

	_, err := svc.Process(card, testProfile(models.ModeBaseline), models.ReviewOutcome{
		Recalled:       true,
		ResponseTimeMs: 1500,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if card.LastReviewed.Before(before) || card.LastReviewed.After(time.Now()) {
		t.Errorf("LastReviewed = %v, want within the call window", card.LastReviewed)
	}
}

func TestProcessLearnedModeFallsBack(t *testing.T) {
	// Nothing loaded into the predictor service: the learned mode must
	// still complete every review via the baseline.
	svc := testService()
	card := models.NewCard("p", "a")

	res, err := svc.Process(card, testProfile(models.ModeLearned), models.ReviewOutcome{
		Recalled:       true,
		ResponseTimeMs: 2000,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Event.Source != models.SourceBaseline {
		t.Errorf("Source = %v, want baseline fallback", res.Event.Source)
	}
	if card.LearnedInterval != nil || card.LearnedConfidence != nil {
		t.Error("learned fields set without a serving model")
	}
}

func TestProcessHistoryBounded(t *testing.T) {
	svc := testService()
	card := models.NewCard("p", "a")
	profile := testProfile(models.ModeBaseline)

	for i := 0; i < models.MaxHistory+20; i++ {
		if _, err := svc.Process(card, profile, models.ReviewOutcome{
			Recalled:       i%2 == 0,
			ResponseTimeMs: 1000 + i,
		}); err != nil {
			t.Fatalf("Process #%d: %v", i, err)
		}
	}
	if len(card.History) != models.MaxHistory {
		t.Errorf("history length %d, want bounded at %d", len(card.History), models.MaxHistory)
	}
	if card.TotalReviews() != models.MaxHistory+20 {
		t.Errorf("TotalReviews = %d, want %d", card.TotalReviews(), models.MaxHistory+20)
	}
}
