package srs

import (
	"errors"
	"math"
	"time"

	"github.com/avendano/learntrack/internal/models"
)

// Quality bands for a review rating.
const (
	QualityHard   = 1
	QualityGood   = 2
	QualityEasy   = 3
	QualityMaster = 4
)

// ErrInvalidQuality is returned when a rating is outside the 1-4 range.
// This is a caller contract violation, never persisted.
var ErrInvalidQuality = errors.New("srs: quality must be between 1 and 4")

// Scheduling holds the card fields the grader reads.
type Scheduling struct {
	IntervalDays int
	EaseFactor   float64
	Repetitions  int
}

// Result holds the updated scheduling fields after one grading.
type Result struct {
	IntervalDays int
	EaseFactor   float64
	Repetitions  int
	Mastered     bool
}

// Policy carries the tunable grading constants: the per-band ease deltas,
// the ease floor, and the interval rules for first and repeated reviews.
type Policy struct {
	MinEase            float64
	HardEaseDelta      float64
	EasyEaseDelta      float64
	FirstInterval      int
	HardIntervalFactor float64
}

// DefaultPolicy is the grading policy used by the service layer.
var DefaultPolicy = Policy{
	MinEase:            models.MinEaseFactor,
	HardEaseDelta:      -0.15,
	EasyEaseDelta:      0.10,
	FirstInterval:      1,
	HardIntervalFactor: 0.5,
}

// Grade maps a quality rating and the card's prior scheduling fields to the
// next ones. Deterministic and side-effect free.
//
// Quality 4 masters the card immediately: it leaves rotation for good and its
// interval and ease are carried through untouched. For 1-3 the ease factor is
// nudged by a per-band delta and clamped to the floor, then the interval is
// derived: the first repetition always gets the fixed short interval, later
// repetitions grow by the new ease, except "Hard" which shrinks instead.
func Grade(quality int, prior Scheduling) (Result, error) {
	return DefaultPolicy.Grade(quality, prior)
}

func (p Policy) Grade(quality int, prior Scheduling) (Result, error) {
	if quality < QualityHard || quality > QualityMaster {
		return Result{}, ErrInvalidQuality
	}

	if quality == QualityMaster {
		return Result{
			IntervalDays: prior.IntervalDays,
			EaseFactor:   prior.EaseFactor,
			Repetitions:  prior.Repetitions + 1,
			Mastered:     true,
		}, nil
	}

	ease := prior.EaseFactor
	switch quality {
	case QualityHard:
		ease += p.HardEaseDelta
	case QualityEasy:
		ease += p.EasyEaseDelta
	}
	if ease < p.MinEase {
		ease = p.MinEase
	}

	var interval int
	switch {
	case prior.IntervalDays == 0 || prior.Repetitions == 0:
		interval = p.FirstInterval
	case quality == QualityHard:
		interval = int(math.Round(float64(prior.IntervalDays) * p.HardIntervalFactor))
	default:
		interval = int(math.Round(float64(prior.IntervalDays) * ease))
	}
	if interval < 1 {
		interval = 1
	}

	reps := 0
	if quality >= QualityGood {
		reps = prior.Repetitions + 1
	}

	return Result{
		IntervalDays: interval,
		EaseFactor:   ease,
		Repetitions:  reps,
	}, nil
}

// Apply copies a grading result onto a card snapshot, stamping the review
// time. A mastered card's next review is cleared so it can never come due.
func Apply(card models.Card, res Result, now time.Time) models.Card {
	card.IntervalDays = res.IntervalDays
	card.EaseFactor = res.EaseFactor
	card.Repetitions = res.Repetitions
	card.Mastered = res.Mastered
	reviewed := now
	card.LastReviewed = &reviewed
	if res.Mastered {
		card.NextReview = nil
	} else {
		next := now.AddDate(0, 0, res.IntervalDays)
		card.NextReview = &next
	}
	return card
}
