package models

import "time"

// ReviewUpdate carries the outcome of grading one card, ready to persist.
// Prior values are kept alongside the new ones so the review history row can
// record the full transition.
type ReviewUpdate struct {
	CardID         int64
	Quality        int
	IntervalBefore int
	IntervalAfter  int
	EaseBefore     float64
	EaseAfter      float64
	Repetitions    int
	Mastered       bool
	ReviewedAt     time.Time
	NextReview     *time.Time // nil when the card is mastered
}

// ReviewRecord is one row of a card's review history.
type ReviewRecord struct {
	ID             int64     `json:"id"`
	CardID         int64     `json:"card_id"`
	Quality        int       `json:"quality"`
	IntervalBefore int       `json:"interval_before"`
	IntervalAfter  int       `json:"interval_after"`
	EaseBefore     float64   `json:"ease_before"`
	EaseAfter      float64   `json:"ease_after"`
	Mastered       bool      `json:"mastered"`
	TimeSeconds    float64   `json:"time_seconds"`
	ReviewedAt     time.Time `json:"reviewed_at"`
}

// SessionStats counts progress within one study session. Reviewed and
// Mastered only ever grow; Total tracks the cards the session can still
// reach, so it grows when a reload surfaces new due cards and shrinks when a
// card is dropped after being deleted outside the session.
type SessionStats struct {
	Reviewed int `json:"reviewed"`
	Mastered int `json:"mastered"`
	Total    int `json:"total"`
}
