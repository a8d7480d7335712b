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

// DeckService handles deck-related business logic
type DeckService interface {
	CreateDeck(ctx context.Context, name, description string) (*models.Deck, error)
	GetDeck(ctx context.Context, id int64) (*models.Deck, error)
	ListDecks(ctx context.Context) ([]models.DeckWithSummary, error)
	DeleteDeck(ctx context.Context, id int64) error
	Summary(ctx context.Context, deckID int64) (*models.DeckSummary, error)
}

type deckService struct {
	deckRepo repository.DeckRepository
	cardRepo repository.CardRepository
}

// NewDeckService creates a new DeckService
func NewDeckService(deckRepo repository.DeckRepository, cardRepo repository.CardRepository) DeckService {
	return &deckService{deckRepo: deckRepo, cardRepo: cardRepo}
}

func (s *deckService) CreateDeck(ctx context.Context, name, description string) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "must not be empty")
	}

	deck := models.Deck{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now(),
	}
	id, err := s.deckRepo.Insert(ctx, deck)
	if err != nil {
		log.Error("failed to create deck: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	deck.ID = id

	log.Info("deck created: id=%d, name=%s", id, name)
	return &deck, nil
}

func (s *deckService) GetDeck(ctx context.Context, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	deck, err := s.deckRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("deck", id)
		}
		log.Error("failed to get deck: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return deck, nil
}

func (s *deckService) ListDecks(ctx context.Context) ([]models.DeckWithSummary, error) {
	log := logger.FromContext(ctx)

	decks, err := s.deckRepo.List(ctx)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	now := time.Now()
	out := make([]models.DeckWithSummary, 0, len(decks))
	for _, d := range decks {
		cards, err := s.cardRepo.ListByDeck(ctx, d.ID)
		if err != nil {
			log.Error("failed to list cards for deck %d: %v", d.ID, err)
			return nil, apperrors.NewInternalError(err)
		}
		out = append(out, models.DeckWithSummary{
			Deck:    d,
			Summary: srs.Summarize(cards, now),
		})
	}
	return out, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	if err := s.deckRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFoundError("deck", id)
		}
		log.Error("failed to delete deck: %v", err)
		return apperrors.NewInternalError(err)
	}
	log.Info("deck deleted: id=%d", id)
	return nil
}

func (s *deckService) Summary(ctx context.Context, deckID int64) (*models.DeckSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing deck summary: deck_id=%d", deckID)

	if _, err := s.GetDeck(ctx, deckID); err != nil {
		return nil, err
	}

	cards, err := s.cardRepo.ListByDeck(ctx, deckID)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	summary := srs.Summarize(cards, time.Now())
	return &summary, nil
}
