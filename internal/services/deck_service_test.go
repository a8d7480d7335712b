package services_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/avendano/learntrack/internal/errors"
	"github.com/avendano/learntrack/internal/models"
	"github.com/avendano/learntrack/internal/services"
	"github.com/avendano/learntrack/internal/testutil/mocks"
)

func TestDeckService_CreateDeck(t *testing.T) {
	deckRepo := new(mocks.MockDeckRepository)
	cardRepo := new(mocks.MockCardRepository)
	svc := services.NewDeckService(deckRepo, cardRepo)

	deckRepo.On("Insert", mock.Anything, mock.MatchedBy(func(d models.Deck) bool {
		return d.Name == "geography" && d.Description == "capitals"
	})).Return(int64(7), nil)

	deck, err := svc.CreateDeck(context.Background(), "  geography  ", " capitals ")
	require.NoError(t, err)
	assert.Equal(t, int64(7), deck.ID)
	assert.Equal(t, "geography", deck.Name, "name is trimmed")
	deckRepo.AssertExpectations(t)
}

func TestDeckService_CreateDeckEmptyName(t *testing.T) {
	svc := services.NewDeckService(new(mocks.MockDeckRepository), new(mocks.MockCardRepository))

	_, err := svc.CreateDeck(context.Background(), "   ", "")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestDeckService_GetDeckNotFound(t *testing.T) {
	deckRepo := new(mocks.MockDeckRepository)
	svc := services.NewDeckService(deckRepo, new(mocks.MockCardRepository))

	deckRepo.On("Get", mock.Anything, int64(42)).Return(nil, sql.ErrNoRows)

	_, err := svc.GetDeck(context.Background(), 42)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestDeckService_ListDecksWithSummaries(t *testing.T) {
	deckRepo := new(mocks.MockDeckRepository)
	cardRepo := new(mocks.MockCardRepository)
	svc := services.NewDeckService(deckRepo, cardRepo)

	deckRepo.On("List", mock.Anything).Return([]models.Deck{{ID: 1, Name: "a"}}, nil)
	cardRepo.On("ListByDeck", mock.Anything, int64(1)).Return([]models.Card{
		{ID: 10, DeckID: 1},
		{ID: 11, DeckID: 1, Mastered: true},
	}, nil)

	decks, err := svc.ListDecks(context.Background())
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, 1, decks[0].Summary.Total, "mastered cards do not count toward the total")
	assert.Equal(t, 1, decks[0].Summary.DueToday)
}

func TestDeckService_Summary(t *testing.T) {
	deckRepo := new(mocks.MockDeckRepository)
	cardRepo := new(mocks.MockCardRepository)
	svc := services.NewDeckService(deckRepo, cardRepo)

	future := time.Now().Add(72 * time.Hour)
	deckRepo.On("Get", mock.Anything, int64(1)).Return(&models.Deck{ID: 1, Name: "a"}, nil)
	cardRepo.On("ListByDeck", mock.Anything, int64(1)).Return([]models.Card{
		{ID: 10, DeckID: 1, NextReview: &future},
	}, nil)

	summary, err := svc.Summary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 0, summary.DueToday)
}

func TestDeckService_SummaryUnknownDeck(t *testing.T) {
	deckRepo := new(mocks.MockDeckRepository)
	svc := services.NewDeckService(deckRepo, new(mocks.MockCardRepository))

	deckRepo.On("Get", mock.Anything, int64(9)).Return(nil, sql.ErrNoRows)

	_, err := svc.Summary(context.Background(), 9)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestDeckService_DeleteDeck(t *testing.T) {
	deckRepo := new(mocks.MockDeckRepository)
	svc := services.NewDeckService(deckRepo, new(mocks.MockCardRepository))

	deckRepo.On("Delete", mock.Anything, int64(3)).Return(nil)
	require.NoError(t, svc.DeleteDeck(context.Background(), 3))

	deckRepo.On("Delete", mock.Anything, int64(4)).Return(sql.ErrNoRows)
	err := svc.DeleteDeck(context.Background(), 4)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestDeckService_ListDecksRepoError(t *testing.T) {
	deckRepo := new(mocks.MockDeckRepository)
	svc := services.NewDeckService(deckRepo, new(mocks.MockCardRepository))

	deckRepo.On("List", mock.Anything).Return(nil, errors.New("disk on fire"))

	_, err := svc.ListDecks(context.Background())
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeInternal, appErr.Code)
}
