package models

import (
	"testing"
	"time"
)

func TestNewCardDefaults(t *testing.T) {
	c := NewCard("capital of France", "Paris")
	if c.ID == "" {
		t.Error("NewCard left ID empty")
	}
	if c.Interval != DefaultInterval {
		t.Errorf("Interval = %d, want %d", c.Interval, DefaultInterval)
	}
	if c.Easiness != DefaultEasiness {
		t.Errorf("Easiness = %v, want %v", c.Easiness, DefaultEasiness)
	}
	if c.Difficulty != DefaultDifficulty {
		t.Errorf("Difficulty = %v, want %v", c.Difficulty, DefaultDifficulty)
	}
	if c.Repetitions != 0 || c.Streak != 0 || len(c.History) != 0 {
		t.Error("NewCard produced non-zero review state")
	}

	other := NewCard("capital of France", "Paris")
	if other.ID == c.ID {
		t.Error("two cards share an ID")
	}
}

func TestCardSuccessRate(t *testing.T) {
	c := NewCard("p", "a")
	if c.SuccessRate() != 0 {
		t.Errorf("unreviewed SuccessRate = %v, want 0", c.SuccessRate())
	}
	c.Correct, c.Incorrect = 3, 1
	if got := c.SuccessRate(); got != 0.75 {
		t.Errorf("SuccessRate = %v, want 0.75", got)
	}
	if got := c.TotalReviews(); got != 4 {
		t.Errorf("TotalReviews = %d, want 4", got)
	}
}

func TestCardAverageResponseTime(t *testing.T) {
	c := NewCard("p", "a")
	if c.AverageResponseTime() != 0 {
		t.Errorf("empty-history average = %v, want 0", c.AverageResponseTime())
	}
	c.AppendHistory(ReviewEvent{ResponseTimeMs: 1000})
	c.AppendHistory(ReviewEvent{ResponseTimeMs: 3000})
	if got := c.AverageResponseTime(); got != 2000 {
		t.Errorf("AverageResponseTime = %v, want 2000", got)
	}
}

func TestAppendHistoryEvictsOldest(t *testing.T) {
	c := NewCard("p", "a")
	for i := 0; i < MaxHistory+5; i++ {
		c.AppendHistory(ReviewEvent{ResponseTimeMs: i})
	}
	if len(c.History) != MaxHistory {
		t.Fatalf("history length %d, want %d", len(c.History), MaxHistory)
	}
	if got := c.History[0].ResponseTimeMs; got != 5 {
		t.Errorf("oldest retained event = %d, want 5 after evictions", got)
	}
	if got := c.History[MaxHistory-1].ResponseTimeMs; got != MaxHistory+4 {
		t.Errorf("newest event = %d, want %d", got, MaxHistory+4)
	}
}

func TestRecentHistory(t *testing.T) {
	c := NewCard("p", "a")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		c.AppendHistory(ReviewEvent{Timestamp: base.AddDate(0, 0, i), ResponseTimeMs: i})
	}

	recent := c.RecentHistory(5)
	if len(recent) != 5 {
		t.Fatalf("RecentHistory(5) length %d, want 5", len(recent))
	}
	if recent[0].ResponseTimeMs != 3 || recent[4].ResponseTimeMs != 7 {
		t.Errorf("RecentHistory window [%d..%d], want [3..7]",
			recent[0].ResponseTimeMs, recent[4].ResponseTimeMs)
	}

	if got := c.RecentHistory(20); len(got) != 8 {
		t.Errorf("RecentHistory(20) length %d, want the full 8", len(got))
	}
	if got := c.RecentHistory(0); got != nil {
		t.Errorf("RecentHistory(0) = %v, want nil", got)
	}
}

func TestLearnerProfileRecordAnswer(t *testing.T) {
	p := &LearnerProfile{Name: "learner", Mode: ModeBaseline}

	for _, recalled := range []bool{true, true, false, true} {
		p.RecordAnswer(recalled)
	}
	if p.TotalReviews != 4 || p.TotalCorrect != 3 {
		t.Errorf("totals = %d/%d, want 4/3", p.TotalReviews, p.TotalCorrect)
	}
	if p.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", p.CurrentStreak)
	}
	if p.BestStreak != 2 {
		t.Errorf("BestStreak = %d, want 2", p.BestStreak)
	}
	if p.SuccessRate() != 0.75 {
		t.Errorf("SuccessRate = %v, want 0.75", p.SuccessRate())
	}
}
