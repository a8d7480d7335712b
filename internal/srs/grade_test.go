package srs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avendano/learntrack/internal/models"
	"github.com/avendano/learntrack/internal/srs"
)

func TestGrade_FirstReviewGood(t *testing.T) {
	res, err := srs.Grade(srs.QualityGood, srs.Scheduling{
		IntervalDays: 0,
		EaseFactor:   2.5,
		Repetitions:  0,
	})

	require.NoError(t, err)
	assert.False(t, res.Mastered)
	assert.Equal(t, 1, res.IntervalDays, "first review should set the fixed short interval")
	assert.Equal(t, 2.5, res.EaseFactor, "good keeps the ease factor unchanged")
	assert.Equal(t, 1, res.Repetitions)
}

func TestGrade_FirstReviewHard(t *testing.T) {
	res, err := srs.Grade(srs.QualityHard, srs.Scheduling{
		IntervalDays: 0,
		EaseFactor:   2.5,
		Repetitions:  0,
	})

	require.NoError(t, err)
	assert.False(t, res.Mastered)
	assert.Equal(t, 1, res.IntervalDays, "hard on the first review stays at the minimum interval")
	assert.Less(t, res.EaseFactor, 2.5, "ease factor should decrease")
	assert.Equal(t, 0, res.Repetitions, "hard resets the consecutive counter")
}

func TestGrade_Master(t *testing.T) {
	res, err := srs.Grade(srs.QualityMaster, srs.Scheduling{
		IntervalDays: 0,
		EaseFactor:   2.5,
		Repetitions:  0,
	})

	require.NoError(t, err)
	assert.True(t, res.Mastered, "quality 4 masters the card immediately")
}

func TestGrade_HardShrinksInterval(t *testing.T) {
	res, err := srs.Grade(srs.QualityHard, srs.Scheduling{
		IntervalDays: 10,
		EaseFactor:   2.5,
		Repetitions:  3,
	})

	require.NoError(t, err)
	assert.Equal(t, 5, res.IntervalDays, "hard should shrink the interval, not grow it")
	assert.Less(t, res.EaseFactor, 2.5)
}

func TestGrade_IntervalCalculation(t *testing.T) {
	tests := []struct {
		name     string
		quality  int
		prior    srs.Scheduling
		expected int
	}{
		{
			name:     "good review multiplies by ease factor",
			quality:  srs.QualityGood,
			prior:    srs.Scheduling{IntervalDays: 6, EaseFactor: 2.5, Repetitions: 2},
			expected: 15, // 6 * 2.5
		},
		{
			name:     "easy review multiplies by raised ease factor",
			quality:  srs.QualityEasy,
			prior:    srs.Scheduling{IntervalDays: 10, EaseFactor: 2.5, Repetitions: 2},
			expected: 26, // 10 * 2.6
		},
		{
			name:     "hard at minimum interval holds at one day",
			quality:  srs.QualityHard,
			prior:    srs.Scheduling{IntervalDays: 1, EaseFactor: 1.3, Repetitions: 1},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := srs.Grade(tt.quality, tt.prior)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.IntervalDays)
		})
	}
}

func TestGrade_EaseFloor(t *testing.T) {
	prior := srs.Scheduling{IntervalDays: 10, EaseFactor: 1.35, Repetitions: 5}

	// Repeated "hard" ratings must never push the ease factor below 1.3.
	for i := 0; i < 10; i++ {
		res, err := srs.Grade(srs.QualityHard, prior)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.EaseFactor, 1.3, "ease factor should not drop below 1.3")
		prior = srs.Scheduling{IntervalDays: res.IntervalDays, EaseFactor: res.EaseFactor, Repetitions: res.Repetitions}
	}
}

func TestGrade_IntervalPositivity(t *testing.T) {
	for quality := srs.QualityHard; quality <= srs.QualityEasy; quality++ {
		for _, interval := range []int{0, 1, 2, 10, 365} {
			res, err := srs.Grade(quality, srs.Scheduling{IntervalDays: interval, EaseFactor: 1.3, Repetitions: 1})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.IntervalDays, 1, "quality=%d interval=%d", quality, interval)
		}
	}
}

func TestGrade_InvalidQuality(t *testing.T) {
	for _, quality := range []int{-1, 0, 5, 100} {
		_, err := srs.Grade(quality, srs.Scheduling{EaseFactor: 2.5})
		assert.ErrorIs(t, err, srs.ErrInvalidQuality, "quality=%d", quality)
	}
}

func TestGrade_Deterministic(t *testing.T) {
	prior := srs.Scheduling{IntervalDays: 7, EaseFactor: 2.1, Repetitions: 3}

	first, err := srs.Grade(srs.QualityEasy, prior)
	require.NoError(t, err)
	second, err := srs.Grade(srs.QualityEasy, prior)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must produce identical results")
}

func TestApply_SchedulesNextReview(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	card := models.Card{ID: 1, EaseFactor: 2.5}

	res, err := srs.Grade(srs.QualityGood, srs.Scheduling{EaseFactor: 2.5})
	require.NoError(t, err)
	updated := srs.Apply(card, res, now)

	require.NotNil(t, updated.LastReviewed)
	assert.Equal(t, now, *updated.LastReviewed)
	require.NotNil(t, updated.NextReview)
	assert.Equal(t, now.AddDate(0, 0, 1), *updated.NextReview)
}

func TestApply_MasteryClearsNextReview(t *testing.T) {
	now := time.Now()
	next := now.AddDate(0, 0, 3)
	card := models.Card{ID: 1, EaseFactor: 2.5, NextReview: &next}

	res, err := srs.Grade(srs.QualityMaster, srs.Scheduling{EaseFactor: 2.5})
	require.NoError(t, err)
	updated := srs.Apply(card, res, now)

	assert.True(t, updated.Mastered)
	assert.Nil(t, updated.NextReview, "a mastered card must never be scheduled again")
}
