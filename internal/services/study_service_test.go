package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/avendano/learntrack/internal/errors"
	"github.com/avendano/learntrack/internal/models"
	"github.com/avendano/learntrack/internal/services"
	"github.com/avendano/learntrack/internal/study"
	"github.com/avendano/learntrack/internal/testutil/mocks"
	"github.com/avendano/learntrack/internal/worker"
)

func newStudyService(cardRepo *mocks.MockCardRepository, deckRepo *mocks.MockDeckRepository) services.StudyService {
	manager := study.NewManager(cardRepo, time.Hour)
	deckSvc := services.NewDeckService(deckRepo, cardRepo)
	pool := worker.NewPool(1, 8)
	return services.NewStudyService(manager, deckSvc, new(mocks.MockReviewHistoryRepository), pool)
}

func TestStudyService_StartUnknownDeck(t *testing.T) {
	cardRepo := new(mocks.MockCardRepository)
	deckRepo := new(mocks.MockDeckRepository)
	svc := newStudyService(cardRepo, deckRepo)

	deckRepo.On("Get", mock.Anything, int64(9)).Return(nil, errors.New("no rows"))

	_, err := svc.Start(context.Background(), 9)
	require.Error(t, err)
	cardRepo.AssertNotCalled(t, "ListByDeck", mock.Anything, mock.Anything)
}

func TestStudyService_SessionRecoversAfterFailedReload(t *testing.T) {
	cardRepo := new(mocks.MockCardRepository)
	deckRepo := new(mocks.MockDeckRepository)
	svc := newStudyService(cardRepo, deckRepo)

	deckRepo.On("Get", mock.Anything, int64(1)).Return(&models.Deck{ID: 1, Name: "a"}, nil)

	due := []models.Card{{ID: 10, DeckID: 1, EaseFactor: models.DefaultEaseFactor}}
	// Start loads once and summaries re-list on every returned view.
	cardRepo.On("ListByDeck", mock.Anything, int64(1)).Return(due, nil).Times(3)
	cardRepo.On("ApplyReview", mock.Anything, mock.Anything).Return(nil).Once()
	// The end-of-set reload fails once, then the retry finds nothing due.
	cardRepo.On("ListByDeck", mock.Anything, int64(1)).Return(nil, errors.New("db locked")).Once()
	cardRepo.On("ListByDeck", mock.Anything, int64(1)).Return([]models.Card{}, nil).Times(2)

	view, err := svc.Start(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, study.StateFront, view.State)

	_, err = svc.Flip(context.Background(), view.SessionID)
	require.NoError(t, err)

	_, err = svc.Rate(context.Background(), view.SessionID, 2, 3)
	require.Error(t, err)
	assert.True(t, apperrors.IsRetryable(err), "a failed reload surfaces as retryable")

	// The next request retries the load instead of leaving the session wedged.
	view, err = svc.Get(context.Background(), view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, study.StateNoCardsDue, view.State)
	assert.Equal(t, 1, view.Stats.Reviewed, "the persisted grade survives the recovery")
	cardRepo.AssertExpectations(t)
}
