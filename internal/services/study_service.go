package services

import (
	"context"

	apperrors "github.com/avendano/learntrack/internal/errors"
	"github.com/avendano/learntrack/internal/logger"
	"github.com/avendano/learntrack/internal/models"
	"github.com/avendano/learntrack/internal/repository"
	"github.com/avendano/learntrack/internal/srs"
	"github.com/avendano/learntrack/internal/study"
	"github.com/avendano/learntrack/internal/worker"
)

// StudyView is the session state handed back after every study operation,
// including the freshly recomputed deck summary so displayed due-counts stay
// consistent with what was just graded.
type StudyView struct {
	SessionID string              `json:"session_id"`
	DeckID    int64               `json:"deck_id"`
	State     study.State         `json:"state"`
	Card      *models.Card        `json:"card,omitempty"`
	Flipped   bool                `json:"flipped"`
	Stats     models.SessionStats `json:"stats"`
	Summary   models.DeckSummary  `json:"summary"`
	Notice    string              `json:"notice,omitempty"`
}

// StudyService orchestrates study sessions over the session manager.
type StudyService interface {
	Start(ctx context.Context, deckID int64) (*StudyView, error)
	Get(ctx context.Context, sessionID string) (*StudyView, error)
	Flip(ctx context.Context, sessionID string) (*StudyView, error)
	Rate(ctx context.Context, sessionID string, quality int, timeSeconds float64) (*StudyView, error)
	End(ctx context.Context, sessionID string) error
}

type studyService struct {
	manager     *study.Manager
	deckSvc     DeckService
	historyRepo repository.ReviewHistoryRepository
	pool        *worker.Pool
}

// NewStudyService creates a new StudyService
func NewStudyService(manager *study.Manager, deckSvc DeckService, historyRepo repository.ReviewHistoryRepository, pool *worker.Pool) StudyService {
	return &studyService{
		manager:     manager,
		deckSvc:     deckSvc,
		historyRepo: historyRepo,
		pool:        pool,
	}
}

func (s *studyService) Start(ctx context.Context, deckID int64) (*StudyView, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting study session: deck_id=%d", deckID)

	// Reject unknown decks up front so an empty due set and a missing deck
	// are distinguishable.
	if _, err := s.deckSvc.GetDeck(ctx, deckID); err != nil {
		return nil, err
	}

	session, err := s.manager.Start(ctx, deckID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, session, "")
}

func (s *studyService) Get(ctx context.Context, sessionID string) (*StudyView, error) {
	session, err := s.manager.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Controller.Resume(ctx); err != nil {
		return nil, err
	}
	return s.view(ctx, session, "")
}

func (s *studyService) Flip(ctx context.Context, sessionID string) (*StudyView, error) {
	session, err := s.manager.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Controller.Resume(ctx); err != nil {
		return nil, err
	}
	if err := session.Controller.Flip(); err != nil {
		return nil, err
	}
	return s.view(ctx, session, "")
}

func (s *studyService) Rate(ctx context.Context, sessionID string, quality int, timeSeconds float64) (*StudyView, error) {
	log := logger.FromContext(ctx)

	if quality < srs.QualityHard || quality > srs.QualityMaster {
		return nil, apperrors.NewValidationError("quality", "must be between 1 and 4")
	}
	if timeSeconds < 0 {
		timeSeconds = 0
	}

	session, err := s.manager.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Controller.Resume(ctx); err != nil {
		return nil, err
	}

	outcome, err := session.Controller.Rate(ctx, quality)

	// A persisted review gets its history row even when the follow-up
	// reload failed and the call is about to return an error.
	if outcome != nil && outcome.Update.CardID != 0 {
		s.recordHistory(outcome.Update, timeSeconds)
	}

	notice := ""
	if err != nil {
		appErr, ok := err.(*apperrors.AppError)
		if !ok || appErr.Code != apperrors.ErrCodeNotFound {
			return nil, err
		}
		// The card vanished mid-session and was dropped; the session itself
		// is still usable.
		log.Warn("current card deleted mid-session: session_id=%s", sessionID)
		notice = "current card was deleted and removed from this session"
	}

	return s.view(ctx, session, notice)
}

func (s *studyService) End(ctx context.Context, sessionID string) error {
	log := logger.FromContext(ctx)
	log.Debug("ending study session: session_id=%s", sessionID)
	return s.manager.End(sessionID)
}

// recordHistory appends a review record in the background. History is a
// best-effort log: a full queue or failed insert never fails the review.
func (s *studyService) recordHistory(upd models.ReviewUpdate, timeSeconds float64) {
	s.pool.Enqueue(&reviewHistoryJob{
		repo: s.historyRepo,
		rec: models.ReviewRecord{
			CardID:         upd.CardID,
			Quality:        upd.Quality,
			IntervalBefore: upd.IntervalBefore,
			IntervalAfter:  upd.IntervalAfter,
			EaseBefore:     upd.EaseBefore,
			EaseAfter:      upd.EaseAfter,
			Mastered:       upd.Mastered,
			TimeSeconds:    timeSeconds,
			ReviewedAt:     upd.ReviewedAt,
		},
	})
}

func (s *studyService) view(ctx context.Context, session *study.Session, notice string) (*StudyView, error) {
	ctrl := session.Controller

	summary, err := s.deckSvc.Summary(ctx, ctrl.DeckID())
	if err != nil {
		// The session state is still valid; report the summary as empty
		// rather than failing the whole operation.
		logger.FromContext(ctx).Warn("failed to recompute deck summary: %v", err)
		summary = &models.DeckSummary{ReviewStatus: models.ReviewStatusNotStarted}
	}

	return &StudyView{
		SessionID: session.ID,
		DeckID:    ctrl.DeckID(),
		State:     ctrl.State(),
		Card:      ctrl.CurrentCard(),
		Flipped:   ctrl.Flipped(),
		Stats:     ctrl.Stats(),
		Summary:   *summary,
		Notice:    notice,
	}, nil
}

type reviewHistoryJob struct {
	repo repository.ReviewHistoryRepository
	rec  models.ReviewRecord
}

func (j *reviewHistoryJob) Name() string { return "review-history" }

func (j *reviewHistoryJob) Run(ctx context.Context) error {
	_, err := j.repo.Insert(ctx, j.rec)
	return err
}

var _ worker.Job = (*reviewHistoryJob)(nil)
