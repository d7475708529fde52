package database

import (
	"context"
	"fmt"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/pkg/models"
)

// CardRepository handles database operations for cards
type CardRepository struct{}

// NewCardRepository creates a new repository instance
func NewCardRepository() *CardRepository {
	return &CardRepository{}
}

// Create inserts a new card
func (r *CardRepository) Create(ctx context.Context, card *models.Card) error {
	query := DB.Rebind(`
		INSERT INTO cards (
			id, prompt, answer, interval, repetitions, easiness,
			difficulty, next, last_reviewed, correct, incorrect, streak,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := DB.ExecContext(ctx, query,
		card.ID,
		card.Prompt,
		card.Answer,
		card.Interval,
		card.Repetitions,
		card.Easiness,
		card.Difficulty,
		card.Next,
		card.LastReviewed,
		card.Correct,
		card.Incorrect,
		card.Streak,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// Update persists a card's mutable scheduling state
func (r *CardRepository) Update(ctx context.Context, card *models.Card) error {
	query := DB.Rebind(`
		UPDATE cards SET
			interval = ?,
			repetitions = ?,
			easiness = ?,
			difficulty = ?,
			next = ?,
			last_reviewed = ?,
			correct = ?,
			incorrect = ?,
			streak = ?,
			learned_interval = ?,
			learned_confidence = ?,
			updated_at = ?
		WHERE id = ?
	`)
	result, err := DB.ExecContext(ctx, query,
		card.Interval,
		card.Repetitions,
		card.Easiness,
		card.Difficulty,
		card.Next,
		card.LastReviewed,
		card.Correct,
		card.Incorrect,
		card.Streak,
		card.LearnedInterval,
		card.LearnedConfidence,
		card.UpdatedAt,
		card.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("card %s not found", card.ID)
	}
	return nil
}

// GetByID returns one card by its identifier
func (r *CardRepository) GetByID(ctx context.Context, id string) (*models.Card, error) {
	var card models.Card
	query := DB.Rebind(`SELECT * FROM cards WHERE id = ?`)
	if err := DB.GetContext(ctx, &card, query, id); err != nil {
		return nil, fmt.Errorf("failed to get card %s: %w", id, err)
	}
	return &card, nil
}

// GetAll returns every card in deck order
func (r *CardRepository) GetAll(ctx context.Context) ([]*models.Card, error) {
	var cards []*models.Card
	query := `SELECT * FROM cards ORDER BY created_at, id`
	if err := DB.SelectContext(ctx, &cards, query); err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

// Count returns the number of cards in the deck
func (r *CardRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM cards`); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}
