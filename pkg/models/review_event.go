package models

import "time"

// Source identifies which algorithm produced the interval actually applied
// to a review.
type Source string

const (
	// SourceBaseline marks an interval chosen by the SM-2 baseline.
	SourceBaseline Source = "baseline"
	// SourceLearned marks an interval chosen by the learned model.
	SourceLearned Source = "learned"
)

// ReviewEvent is the immutable, append-only record of one answer. It is
// created atomically with the card mutation it resulted from and always
// carries both candidate intervals so baseline-vs-learned analytics stay
// populated regardless of the active mode.
type ReviewEvent struct {
	ID             int64     `json:"id" db:"id"`
	CardID         string    `json:"card_id" db:"card_id"`
	Timestamp      time.Time `json:"timestamp" db:"timestamp"`
	Recalled       bool      `json:"recalled" db:"recalled"`
	ResponseTimeMs int       `json:"response_time_ms" db:"response_time_ms"`
	IntervalUsed   int       `json:"interval_used" db:"interval_used"` // Days actually applied
	Source         Source    `json:"source" db:"source"`

	BaselineInterval int  `json:"baseline_interval" db:"baseline_interval"`
	LearnedInterval  *int `json:"learned_interval,omitempty" db:"learned_interval"` // nil when the learned path did not run

	// PerceivedDifficulty is the learner's own difficulty estimate in
	// [0,1], if one was reported with the answer.
	PerceivedDifficulty float64 `json:"perceived_difficulty" db:"perceived_difficulty"`
}

// ReviewOutcome is the raw per-answer input delivered by the serving layer.
type ReviewOutcome struct {
	Recalled            bool      `json:"recalled"`
	ResponseTimeMs      int       `json:"response_time_ms"`
	PerceivedDifficulty float64   `json:"perceived_difficulty"`
	AnsweredAt          time.Time `json:"answered_at"` // zero → time.Now()
}
