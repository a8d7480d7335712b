package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	apperrors "github.com/avendano/learntrack/internal/errors"
	"github.com/avendano/learntrack/internal/logger"
	"github.com/avendano/learntrack/internal/models"
	"github.com/avendano/learntrack/internal/repository"
	"github.com/avendano/learntrack/internal/srs"
)

// CardService handles card-related business logic
type CardService interface {
	CreateCard(ctx context.Context, deckID int64, front, back string) (*models.Card, error)
	GetCard(ctx context.Context, id int64) (*models.Card, error)
	ListCards(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
	DeleteCard(ctx context.Context, id int64) error
	DueCards(ctx context.Context, deckID int64) ([]models.Card, error)
	History(ctx context.Context, cardID int64, limit, offset int) ([]models.ReviewRecord, error)
}

type cardService struct {
	cardRepo    repository.CardRepository
	deckRepo    repository.DeckRepository
	historyRepo repository.ReviewHistoryRepository
}

// NewCardService creates a new CardService
func NewCardService(cardRepo repository.CardRepository, deckRepo repository.DeckRepository, historyRepo repository.ReviewHistoryRepository) CardService {
	return &cardService{cardRepo: cardRepo, deckRepo: deckRepo, historyRepo: historyRepo}
}

func (s *cardService) CreateCard(ctx context.Context, deckID int64, front, back string) (*models.Card, error) {
	log := logger.FromContext(ctx)

	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)
	if front == "" {
		return nil, apperrors.NewValidationError("front_content", "must not be empty")
	}
	if back == "" {
		return nil, apperrors.NewValidationError("back_content", "must not be empty")
	}

	if _, err := s.deckRepo.Get(ctx, deckID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("deck", deckID)
		}
		log.Error("failed to check deck: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	// New cards start unscheduled: they are due immediately and get their
	// first interval from the first grading.
	card := models.Card{
		DeckID:       deckID,
		FrontContent: front,
		BackContent:  back,
		IntervalDays: 0,
		EaseFactor:   models.DefaultEaseFactor,
		Repetitions:  0,
		Mastered:     false,
		CreatedAt:    time.Now(),
	}
	id, err := s.cardRepo.Insert(ctx, card)
	if err != nil {
		log.Error("failed to create card: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	card.ID = id

	log.Info("card created: id=%d, deck_id=%d", id, deckID)
	return &card, nil
}

func (s *cardService) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	log := logger.FromContext(ctx)

	card, err := s.cardRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("card", id)
		}
		log.Error("failed to get card: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return card, nil
}

func (s *cardService) ListCards(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx)

	cards, err := s.cardRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return cards, nil
}

func (s *cardService) DeleteCard(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	if err := s.cardRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFoundError("card", id)
		}
		log.Error("failed to delete card: %v", err)
		return apperrors.NewInternalError(err)
	}
	log.Info("card deleted: id=%d", id)
	return nil
}

func (s *cardService) DueCards(ctx context.Context, deckID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("selecting due cards: deck_id=%d", deckID)

	cards, err := s.cardRepo.ListByDeck(ctx, deckID)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return srs.SelectDue(cards, time.Now()), nil
}

func (s *cardService) History(ctx context.Context, cardID int64, limit, offset int) ([]models.ReviewRecord, error) {
	log := logger.FromContext(ctx)

	if _, err := s.GetCard(ctx, cardID); err != nil {
		return nil, err
	}

	records, err := s.historyRepo.ListByCard(ctx, cardID, limit, offset)
	if err != nil {
		log.Error("failed to list review history: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return records, nil
}
