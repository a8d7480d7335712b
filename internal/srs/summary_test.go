package srs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avendano/learntrack/internal/models"
	"github.com/avendano/learntrack/internal/srs"
)

func TestSummarize_EmptyDeck(t *testing.T) {
	s := srs.Summarize(nil, time.Now())

	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0, s.DueToday)
	assert.Equal(t, models.ReviewStatusNotStarted, s.ReviewStatus)
	assert.Nil(t, s.LastStudied)
	assert.Nil(t, s.NextDue)
}

func TestSummarize_Counts(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	cards := []models.Card{
		{ID: 1, Mastered: true, LastReviewed: tp(yesterday)},
		{ID: 2, NextReview: tp(yesterday), LastReviewed: tp(yesterday.AddDate(0, 0, -3))},
		{ID: 3, NextReview: tp(tomorrow), LastReviewed: tp(yesterday.Add(time.Hour))},
		{ID: 4},
	}

	s := srs.Summarize(cards, now)

	assert.Equal(t, 3, s.Total, "mastered cards do not count toward total")
	assert.Equal(t, 2, s.DueToday, "overdue card plus never-scheduled card")
	require.NotNil(t, s.LastStudied)
	assert.Equal(t, yesterday, *s.LastStudied, "most recent review across all cards, mastered included")
	require.NotNil(t, s.NextDue)
	assert.Equal(t, tomorrow, *s.NextDue)
	assert.Equal(t, models.ReviewStatusOverdue, s.ReviewStatus)
}

func TestSummarize_NeverStudiedDeck(t *testing.T) {
	cards := []models.Card{{ID: 1}, {ID: 2}}

	s := srs.Summarize(cards, time.Now())

	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 2, s.DueToday)
	assert.Equal(t, models.ReviewStatusNotStarted, s.ReviewStatus)
}

func TestSummarize_UpToDateAndDueSoon(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	studied := now.Add(-time.Hour)

	soon := now.Add(12 * time.Hour)
	s := srs.Summarize([]models.Card{
		{ID: 1, NextReview: tp(soon), LastReviewed: tp(studied)},
	}, now)
	assert.Equal(t, models.ReviewStatusDueSoon, s.ReviewStatus)

	far := now.AddDate(0, 0, 5)
	s = srs.Summarize([]models.Card{
		{ID: 1, NextReview: tp(far), LastReviewed: tp(studied)},
	}, now)
	assert.Equal(t, models.ReviewStatusUpToDate, s.ReviewStatus)
	assert.Equal(t, 0, s.DueToday)
}

func TestSummarize_MasteredNextReviewIgnored(t *testing.T) {
	now := time.Now()
	// A mastered card with a stale future next_review must not drive NextDue.
	s := srs.Summarize([]models.Card{
		{ID: 1, Mastered: true, NextReview: tp(now.Add(time.Hour)), LastReviewed: tp(now.Add(-time.Hour))},
	}, now)

	assert.Nil(t, s.NextDue)
	assert.Equal(t, 0, s.Total)
}
