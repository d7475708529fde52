package database

import (
	"context"
	"fmt"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/pkg/models"
)

// ReviewEventRepository handles database operations for review events.
// Events are append-only; nothing updates or deletes them.
type ReviewEventRepository struct{}

// NewReviewEventRepository creates a new repository instance
func NewReviewEventRepository() *ReviewEventRepository {
	return &ReviewEventRepository{}
}

// Create appends one review event
func (r *ReviewEventRepository) Create(ctx context.Context, ev *models.ReviewEvent) error {
	query := DB.Rebind(`
		INSERT INTO review_events (
			card_id, timestamp, recalled, response_time_ms, interval_used,
			source, baseline_interval, learned_interval, perceived_difficulty
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	result, err := DB.ExecContext(ctx, query,
		ev.CardID,
		ev.Timestamp,
		ev.Recalled,
		ev.ResponseTimeMs,
		ev.IntervalUsed,
		ev.Source,
		ev.BaselineInterval,
		ev.LearnedInterval,
		ev.PerceivedDifficulty,
	)
	if err != nil {
		return fmt.Errorf("failed to create review event: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		ev.ID = id
	}
	return nil
}

// GetByCard returns a card's events, oldest first, at most limit rows
// (limit <= 0 means all)
func (r *ReviewEventRepository) GetByCard(ctx context.Context, cardID string, limit int) ([]models.ReviewEvent, error) {
	var events []models.ReviewEvent
	query := `SELECT * FROM review_events WHERE card_id = ? ORDER BY timestamp DESC`
	args := []interface{}{cardID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	if err := DB.SelectContext(ctx, &events, DB.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get events for card %s: %w", cardID, err)
	}
	// Reverse into oldest-first order.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

// GetAll returns every review event ordered by card then time, the shape
// the training dataset builder expects
func (r *ReviewEventRepository) GetAll(ctx context.Context) ([]models.ReviewEvent, error) {
	var events []models.ReviewEvent
	query := `SELECT * FROM review_events ORDER BY card_id, timestamp`
	if err := DB.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("failed to list review events: %w", err)
	}
	return events, nil
}

// Count returns the number of stored events
func (r *ReviewEventRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM review_events`); err != nil {
		return 0, fmt.Errorf("failed to count review events: %w", err)
	}
	return count, nil
}
