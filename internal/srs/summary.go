package srs

import (
	"time"

	"github.com/samber/lo"

	"github.com/avendano/learntrack/internal/models"
)

// dueSoonWindow is how far ahead a deck's next review can be and still count
// as "due-soon" rather than "up-to-date".
const dueSoonWindow = 24 * time.Hour

// Summarize derives a deck's display summary from its card-level review
// state. It shares SelectDue's due predicate, so the counts here always agree
// with what a study session would actually load. Safe on empty decks.
func Summarize(cards []models.Card, now time.Time) models.DeckSummary {
	s := models.DeckSummary{
		Total: lo.CountBy(cards, func(c models.Card) bool { return !c.Mastered }),
		DueToday: lo.CountBy(cards, func(c models.Card) bool {
			return c.Due(now)
		}),
	}

	for _, c := range cards {
		if c.LastReviewed != nil && (s.LastStudied == nil || c.LastReviewed.After(*s.LastStudied)) {
			t := *c.LastReviewed
			s.LastStudied = &t
		}
		if !c.Mastered && c.NextReview != nil && c.NextReview.After(now) {
			if s.NextDue == nil || c.NextReview.Before(*s.NextDue) {
				t := *c.NextReview
				s.NextDue = &t
			}
		}
	}

	s.ReviewStatus = bucketStatus(s, now)
	return s
}

func bucketStatus(s models.DeckSummary, now time.Time) models.ReviewStatus {
	switch {
	case s.LastStudied == nil:
		return models.ReviewStatusNotStarted
	case s.DueToday > 0:
		return models.ReviewStatusOverdue
	case s.NextDue != nil && s.NextDue.Sub(now) <= dueSoonWindow:
		return models.ReviewStatusDueSoon
	default:
		return models.ReviewStatusUpToDate
	}
}
