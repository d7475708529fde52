package models

import "time"

// LearnerProfile holds a learner's scheduling settings and rolling stats.
type LearnerProfile struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Mode          Mode      `json:"mode" db:"mode"`
	DailyGoal     int       `json:"daily_goal" db:"daily_goal"`
	TotalReviews  int       `json:"total_reviews" db:"total_reviews"`
	TotalCorrect  int       `json:"total_correct" db:"total_correct"`
	CurrentStreak int       `json:"current_streak" db:"current_streak"`
	BestStreak    int       `json:"best_streak" db:"best_streak"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// RecordAnswer folds one answer into the rolling totals.
func (p *LearnerProfile) RecordAnswer(recalled bool) {
	p.TotalReviews++
	if recalled {
		p.TotalCorrect++
		p.CurrentStreak++
		if p.CurrentStreak > p.BestStreak {
			p.BestStreak = p.CurrentStreak
		}
	} else {
		p.CurrentStreak = 0
	}
}

// SuccessRate returns the learner's overall fraction of correct answers.
func (p *LearnerProfile) SuccessRate() float64 {
	if p.TotalReviews == 0 {
		return 0
	}
	return float64(p.TotalCorrect) / float64(p.TotalReviews)
}
