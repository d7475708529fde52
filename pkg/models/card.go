package models

import (
	"time"

	"github.com/google/uuid"
)

// Default scheduling state for a freshly created card.
const (
	DefaultEasiness   = 2.5
	DefaultInterval   = 1
	DefaultDifficulty = 0.3
)

// MaxHistory bounds the per-card review log. Once the log is full the
// oldest event is evicted on append.
const MaxHistory = 100

// Card is one prompt/answer flashcard together with its scheduling state.
// Cards are created at deck initialization, mutated on every review and
// never deleted.
type Card struct {
	ID           string    `json:"id" db:"id"`
	Prompt       string    `json:"prompt" db:"prompt"`
	Answer       string    `json:"answer" db:"answer"`
	Interval     int       `json:"interval" db:"interval"`           // Current interval in days ("memory strength" input)
	Repetitions  int       `json:"repetitions" db:"repetitions"`     // SM-2 repetition count
	Easiness     float64   `json:"easiness" db:"easiness"`           // SM-2 EF parameter, never below 1.3
	Difficulty   float64   `json:"difficulty" db:"difficulty"`       // Difficulty score in [0,1]
	Next         int       `json:"next" db:"next"`                   // Successor index in the circular order
	LastReviewed time.Time `json:"last_reviewed" db:"last_reviewed"`
	Correct      int       `json:"correct" db:"correct"`
	Incorrect    int       `json:"incorrect" db:"incorrect"`
	Streak       int       `json:"streak" db:"streak"` // Consecutive correct recalls

	// Latest learned-model recommendation, if one was produced.
	LearnedInterval   *int     `json:"learned_interval,omitempty" db:"learned_interval"`
	LearnedConfidence *float64 `json:"learned_confidence,omitempty" db:"learned_confidence"`

	// Bounded review log, oldest first. Persisted separately from the
	// card row; see database.ReviewEventRepository.
	History []ReviewEvent `json:"history,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewCard creates a card with default scheduling state.
func NewCard(prompt, answer string) *Card {
	now := time.Now()
	return &Card{
		ID:         uuid.NewString(),
		Prompt:     prompt,
		Answer:     answer,
		Interval:   DefaultInterval,
		Easiness:   DefaultEasiness,
		Difficulty: DefaultDifficulty,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// TotalReviews returns the number of answers recorded for the card.
func (c *Card) TotalReviews() int {
	return c.Correct + c.Incorrect
}

// SuccessRate returns the fraction of correct answers, or 0 for an
// unreviewed card.
func (c *Card) SuccessRate() float64 {
	total := c.TotalReviews()
	if total == 0 {
		return 0
	}
	return float64(c.Correct) / float64(total)
}

// AverageResponseTime returns the mean response time in milliseconds over
// the retained history, or 0 when no history exists.
func (c *Card) AverageResponseTime() float64 {
	if len(c.History) == 0 {
		return 0
	}
	var sum float64
	for _, ev := range c.History {
		sum += float64(ev.ResponseTimeMs)
	}
	return sum / float64(len(c.History))
}

// AppendHistory appends one review event, evicting the oldest entry once
// the log exceeds MaxHistory.
func (c *Card) AppendHistory(ev ReviewEvent) {
	c.History = append(c.History, ev)
	if len(c.History) > MaxHistory {
		c.History = c.History[len(c.History)-MaxHistory:]
	}
}

// RecentHistory returns up to n of the most recent events, oldest first.
func (c *Card) RecentHistory(n int) []ReviewEvent {
	if n <= 0 || len(c.History) == 0 {
		return nil
	}
	if len(c.History) <= n {
		return c.History
	}
	return c.History[len(c.History)-n:]
}
