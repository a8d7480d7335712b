package study

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	apperrors "github.com/avendano/learntrack/internal/errors"
	"github.com/avendano/learntrack/internal/logger"
	"github.com/avendano/learntrack/internal/models"
	"github.com/avendano/learntrack/internal/repository"
	"github.com/avendano/learntrack/internal/srs"
)

// State identifies where a study session is in its lifecycle.
type State string

const (
	// StateLoading: due set not loaded yet, or the last load failed and can
	// be retried.
	StateLoading State = "loading"
	// StateFront: a card is presented face up. Rating is rejected here.
	StateFront State = "front"
	// StateBack: the card is flipped and may be rated.
	StateBack State = "back"
	// StateNoCardsDue: terminal, nothing left to review right now.
	StateNoCardsDue State = "no-cards-due"
	// StateClosed: the session was ended; all operations are rejected and
	// late I/O completions are discarded.
	StateClosed State = "closed"
)

// RateOutcome reports what a successful (or card-dropped) rating did.
type RateOutcome struct {
	Update models.ReviewUpdate
	Card   models.Card
	State  State
	Stats  models.SessionStats
}

// Controller drives one study session over a deck's due cards. The due set
// is snapshotted at load time; cards that become due mid-session only appear
// after the end-of-set reload. All methods are safe for concurrent use, but
// at most one rating is ever in flight.
type Controller struct {
	deckID int64
	repo   repository.CardRepository
	policy srs.Policy
	now    func() time.Time

	mu       sync.Mutex
	state    State
	dueCards []models.Card
	index    int
	grading  bool
	gen      uint64
	stats    models.SessionStats
	lastUsed time.Time
}

// NewController creates a session controller for one deck. Call Load before
// anything else.
func NewController(deckID int64, repo repository.CardRepository) *Controller {
	return &Controller{
		deckID: deckID,
		repo:   repo,
		policy: srs.DefaultPolicy,
		now:    time.Now,
		state:  StateLoading,
	}
}

// Load fetches the deck's cards and snapshots the due set. On an empty due
// set the session lands in StateNoCardsDue with zero stats. On a fetch
// failure the controller stays in StateLoading and Load may be called again.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return apperrors.NewInvalidStateError("session is closed")
	}
	if c.state != StateLoading {
		c.mu.Unlock()
		return apperrors.NewInvalidStateError("session already loaded")
	}
	gen := c.gen
	c.mu.Unlock()

	return c.reload(ctx, gen)
}

// Resume retries the due-set fetch after a failed load or reload left the
// session parked in StateLoading. A no-op in any other state, so callers can
// invoke it unconditionally before operating on a session.
func (c *Controller) Resume(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateLoading {
		c.mu.Unlock()
		return nil
	}
	gen := c.gen
	c.mu.Unlock()

	return c.reload(ctx, gen)
}

// reload fetches a fresh due set. Runs without the lock held during I/O and
// discards the result if the controller was closed meanwhile.
func (c *Controller) reload(ctx context.Context, gen uint64) error {
	log := logger.FromContext(ctx).WithPrefix("study")

	cards, err := c.repo.ListByDeck(ctx, c.deckID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || c.state == StateClosed {
		log.Debug("discarding load result for closed session: deck_id=%d", c.deckID)
		return nil
	}
	if err != nil {
		log.Error("failed to load cards: deck_id=%d: %v", c.deckID, err)
		c.state = StateLoading
		return apperrors.NewStorageError(err)
	}

	due := srs.SelectDue(cards, c.now())
	c.dueCards = due
	c.index = 0
	c.touch()
	if len(due) == 0 {
		log.Debug("no cards due: deck_id=%d", c.deckID)
		c.state = StateNoCardsDue
		return nil
	}
	c.stats.Total = c.stats.Reviewed + len(due)
	c.state = StateFront
	log.Debug("due set loaded: deck_id=%d, cards=%d", c.deckID, len(due))
	return nil
}

// Flip reveals the back of the current card. Legal only in StateFront.
func (c *Controller) Flip() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	if c.state != StateFront {
		return apperrors.NewInvalidStateError("no card to flip")
	}
	c.state = StateBack
	return nil
}

// Rate grades the current card and persists the outcome. Legal only in
// StateBack; a rating while an earlier submit is still in flight is rejected.
// On a transient storage failure nothing changes: same card, same stats,
// still flipped, so the caller can retry the exact same rating.
func (c *Controller) Rate(ctx context.Context, quality int) (*RateOutcome, error) {
	log := logger.FromContext(ctx).WithPrefix("study")

	c.mu.Lock()
	c.touch()
	if c.state == StateClosed {
		c.mu.Unlock()
		return nil, apperrors.NewInvalidStateError("session is closed")
	}
	if c.state == StateFront {
		c.mu.Unlock()
		return nil, apperrors.NewInvalidStateError("card must be flipped before rating")
	}
	if c.state != StateBack {
		c.mu.Unlock()
		return nil, apperrors.NewInvalidStateError("no card to rate")
	}
	if c.grading {
		c.mu.Unlock()
		return nil, apperrors.NewInvalidStateError("a review is already being submitted")
	}

	card := c.dueCards[c.index]
	res, err := c.policy.Grade(quality, srs.Scheduling{
		IntervalDays: card.IntervalDays,
		EaseFactor:   card.EaseFactor,
		Repetitions:  card.Repetitions,
	})
	if err != nil {
		c.mu.Unlock()
		// Programmer/caller error, nothing was persisted.
		return nil, apperrors.NewValidationError("quality", err.Error())
	}

	now := c.now()
	updated := srs.Apply(card, res, now)
	upd := models.ReviewUpdate{
		CardID:         card.ID,
		Quality:        quality,
		IntervalBefore: card.IntervalDays,
		IntervalAfter:  res.IntervalDays,
		EaseBefore:     card.EaseFactor,
		EaseAfter:      res.EaseFactor,
		Repetitions:    res.Repetitions,
		Mastered:       res.Mastered,
		ReviewedAt:     now,
		NextReview:     updated.NextReview,
	}

	c.grading = true
	gen := c.gen
	c.mu.Unlock()

	submitErr := c.repo.ApplyReview(ctx, upd)

	c.mu.Lock()
	if c.gen != gen || c.state == StateClosed {
		c.mu.Unlock()
		log.Debug("discarding review result for closed session: card_id=%d", card.ID)
		return nil, nil
	}
	c.grading = false

	if submitErr != nil {
		if errors.Is(submitErr, sql.ErrNoRows) {
			// Card deleted concurrently: drop it from the due set without
			// counting it, then move on.
			log.Warn("card deleted mid-session, dropping: card_id=%d", card.ID)
			c.dueCards = append(c.dueCards[:c.index], c.dueCards[c.index+1:]...)
			if c.stats.Total > 0 {
				c.stats.Total--
			}
			outcome := &RateOutcome{Stats: c.stats}
			err := c.advanceLocked(ctx, log, outcome)
			if err != nil {
				return outcome, err
			}
			return outcome, apperrors.NewNotFoundError("card", card.ID)
		}
		c.mu.Unlock()
		log.Error("failed to submit review: card_id=%d: %v", card.ID, submitErr)
		return nil, apperrors.NewStorageError(submitErr)
	}

	c.stats.Reviewed++
	if res.Mastered {
		c.stats.Mastered++
	}
	// Keep the snapshot current for mid-session re-renders; the card is not
	// re-evaluated for due-ness until the next reload.
	c.dueCards[c.index] = updated
	c.index++

	outcome := &RateOutcome{
		Update: upd,
		Card:   updated,
		Stats:  c.stats,
	}
	if err := c.advanceLocked(ctx, log, outcome); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// advanceLocked moves to the next card, or reloads the due set when the
// current snapshot is exhausted. Grading may have changed what is due today,
// and cards can have become due during the session, so the end of the
// snapshot triggers a fresh fetch rather than a hard stop. Called with c.mu
// held; releases it.
func (c *Controller) advanceLocked(ctx context.Context, log *logger.Logger, outcome *RateOutcome) error {
	if c.index < len(c.dueCards) {
		c.state = StateFront
		outcome.State = c.state
		c.mu.Unlock()
		return nil
	}

	gen := c.gen
	c.state = StateLoading
	c.mu.Unlock()
	log.Debug("due set exhausted, reloading: deck_id=%d", c.deckID)

	if err := c.reload(ctx, gen); err != nil {
		outcome.State = StateLoading
		return err
	}
	outcome.State = c.State()
	outcome.Stats = c.Stats()
	return nil
}

// CurrentCard returns a copy of the card being presented, or nil outside the
// presenting states.
func (c *Controller) CurrentCard() *models.Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateFront && c.state != StateBack {
		return nil
	}
	card := c.dueCards[c.index]
	return &card
}

// Flipped reports whether the current card's back is revealed.
func (c *Controller) Flipped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateBack
}

// Stats returns the session counters.
func (c *Controller) Stats() models.SessionStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// DeckID returns the deck this session studies.
func (c *Controller) DeckID() int64 {
	return c.deckID
}

// Close tears the session down. Any I/O still in flight completes as a no-op.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.state = StateClosed
	c.dueCards = nil
}

// LastUsed returns when the session last saw activity. Used by the manager's
// idle sweep.
func (c *Controller) LastUsed() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

func (c *Controller) touch() {
	c.lastUsed = c.now()
}
