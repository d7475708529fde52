package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/pkg/models"
)

// LearnerProfileRepository handles database operations for learner profiles
type LearnerProfileRepository struct{}

// NewLearnerProfileRepository creates a new repository instance
func NewLearnerProfileRepository() *LearnerProfileRepository {
	return &LearnerProfileRepository{}
}

// GetOrCreate returns the named profile, creating it with defaults on
// first use
func (r *LearnerProfileRepository) GetOrCreate(ctx context.Context, name string) (*models.LearnerProfile, error) {
	var profile models.LearnerProfile
	query := DB.Rebind(`SELECT * FROM learner_profiles WHERE name = ?`)
	err := DB.GetContext(ctx, &profile, query, name)
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get profile %s: %w", name, err)
	}

	insert := DB.Rebind(`
		INSERT INTO learner_profiles (name, mode, daily_goal)
		VALUES (?, ?, ?)
	`)
	result, err := DB.ExecContext(ctx, insert, name, models.ModeBaseline.String(), 20)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile %s: %w", name, err)
	}

	profile = models.LearnerProfile{Name: name, Mode: models.ModeBaseline, DailyGoal: 20}
	if id, err := result.LastInsertId(); err == nil {
		profile.ID = id
	}
	return &profile, nil
}

// Update persists a profile's mode, goal and rolling totals
func (r *LearnerProfileRepository) Update(ctx context.Context, profile *models.LearnerProfile) error {
	query := DB.Rebind(`
		UPDATE learner_profiles SET
			mode = ?,
			daily_goal = ?,
			total_reviews = ?,
			total_correct = ?,
			current_streak = ?,
			best_streak = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`)
	result, err := DB.ExecContext(ctx, query,
		profile.Mode.String(),
		profile.DailyGoal,
		profile.TotalReviews,
		profile.TotalCorrect,
		profile.CurrentStreak,
		profile.BestStreak,
		profile.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("profile %d not found", profile.ID)
	}
	return nil
}
