package models

import "time"

// Scheduling defaults for newly created cards.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

type Card struct {
	ID           int64      `json:"id"`
	DeckID       int64      `json:"deck_id"`
	FrontContent string     `json:"front_content"`
	BackContent  string     `json:"back_content"`
	IntervalDays int        `json:"interval_days"`
	EaseFactor   float64    `json:"ease_factor"`
	Repetitions  int        `json:"repetitions"`
	Mastered     bool       `json:"mastered"`
	LastReviewed *time.Time `json:"last_reviewed,omitempty"`
	NextReview   *time.Time `json:"next_review,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Due reports whether the card is eligible for review at the given time.
// Mastered cards are never due, even if they retain stale scheduling fields.
func (c Card) Due(now time.Time) bool {
	if c.Mastered {
		return false
	}
	return c.NextReview == nil || !c.NextReview.After(now)
}

// CardFilter narrows card listings.
type CardFilter struct {
	DeckID   int64
	Mastered *bool
	DueOnly  bool
	Limit    int
	Offset   int
}
