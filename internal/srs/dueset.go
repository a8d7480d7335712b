package srs

import (
	"sort"
	"time"

	"github.com/avendano/learntrack/internal/models"
)

// SelectDue returns the cards eligible for review at the given time, ordered
// ascending by next-review time with never-scheduled cards first. The input
// slice is not modified.
func SelectDue(cards []models.Card, now time.Time) []models.Card {
	due := make([]models.Card, 0, len(cards))
	for _, c := range cards {
		if c.Due(now) {
			due = append(due, c)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i].NextReview, due[j].NextReview
		if a == nil {
			return b != nil
		}
		if b == nil {
			return false
		}
		return a.Before(*b)
	})
	return due
}
