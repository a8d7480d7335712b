package models

import "time"

type Deck struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReviewStatus buckets a deck for list display.
type ReviewStatus string

const (
	ReviewStatusNotStarted ReviewStatus = "not-started"
	ReviewStatusUpToDate   ReviewStatus = "up-to-date"
	ReviewStatusDueSoon    ReviewStatus = "due-soon"
	ReviewStatusOverdue    ReviewStatus = "overdue"
)

// DeckSummary is derived from card-level review state. It is recomputed on
// demand and never persisted.
type DeckSummary struct {
	Total        int          `json:"total"`
	DueToday     int          `json:"due_today"`
	ReviewStatus ReviewStatus `json:"review_status"`
	LastStudied  *time.Time   `json:"last_studied,omitempty"`
	NextDue      *time.Time   `json:"next_due,omitempty"`
}

// DeckWithSummary pairs a deck with its derived summary for list endpoints.
type DeckWithSummary struct {
	Deck
	Summary DeckSummary `json:"summary"`
}
