// Package schedule maintains the circular ordering of a deck and the
// derived memory-strength display value.
package schedule

import (
	"errors"
	"math"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/pkg/models"
)

// ErrEmptyDeck is returned when a Store is created without cards.
var ErrEmptyDeck = errors.New("schedule: deck has no cards")

// Store holds the deck in a fixed-size circular order. A single head
// index names the next-due card; completing a review repositions the
// reviewed card's successor pointer by the chosen interval and advances
// the head.
type Store struct {
	cards []*models.Card
	head  int
}

// New creates a Store over the given cards in deck order.
func New(cards []*models.Card) (*Store, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyDeck
	}
	return &Store{cards: cards}, nil
}

// Len returns the deck size.
func (s *Store) Len() int { return len(s.cards) }

// Head returns the next-due card.
func (s *Store) Head() *models.Card { return s.cards[s.head] }

// HeadIndex returns the index of the next-due card.
func (s *Store) HeadIndex() int { return s.head }

// Cards returns the deck in circular order.
func (s *Store) Cards() []*models.Card { return s.cards }

// Advance repositions the just-reviewed head card by the chosen interval
// and moves the head to its successor. The successor index is
// (head + interval) mod N; if that lands on or before the current index
// it is bumped to the immediate successor, so the head always moves
// strictly forward in circular order for any interval >= 1.
func (s *Store) Advance(interval int) *models.Card {
	if interval < 1 {
		interval = 1
	}
	n := len(s.cards)
	cur := s.head
	next := (cur + interval) % n
	if next <= cur {
		next = (cur + 1) % n
	}
	s.cards[cur].Next = next
	s.head = next
	return s.cards[next]
}

// MemoryStrength derives the displayed scheduling weight from the chosen
// interval, blended with the card's success rate and an experience
// multiplier, clamped to [1, 90] days.
func MemoryStrength(chosenInterval int, successRate float64, totalReviews int) float64 {
	experience := math.Min(2, 1+0.1*math.Log(float64(totalReviews)+1))
	strength := float64(chosenInterval) * (1 + 0.5*successRate) * experience
	return math.Min(math.Max(strength, 1), 90)
}
