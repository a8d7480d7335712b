package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/avendano/learntrack/internal/models"
	"github.com/avendano/learntrack/internal/repository"
	"github.com/avendano/learntrack/internal/repository/sqlite"
	"github.com/avendano/learntrack/internal/testutil"
)

type DeckRepositorySuite struct {
	suite.Suite
	db    *sql.DB
	repo  repository.DeckRepository
	cards repository.CardRepository
}

func (s *DeckRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewDeckRepository(s.db)
	s.cards = sqlite.NewCardRepository(s.db)
}

func (s *DeckRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *DeckRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()

	id, err := s.repo.Insert(ctx, models.Deck{Name: "biology", Description: "cell structure"})
	s.Require().NoError(err)
	s.Require().NotZero(id)

	deck, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal("biology", deck.Name)
	s.Equal("cell structure", deck.Description)
	s.False(deck.CreatedAt.IsZero())
}

func (s *DeckRepositorySuite) TestGetMissing() {
	_, err := s.repo.Get(context.Background(), 404)
	s.ErrorIs(err, sql.ErrNoRows)
}

func (s *DeckRepositorySuite) TestList() {
	ctx := context.Background()

	decks, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Empty(decks)

	_, err = s.repo.Insert(ctx, models.Deck{Name: "one"})
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, models.Deck{Name: "two"})
	s.Require().NoError(err)

	decks, err = s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(decks, 2)
	s.Equal("two", decks[0].Name, "newest deck first")
}

func (s *DeckRepositorySuite) TestDeleteCascadesToCards() {
	ctx := context.Background()

	deckID, err := s.repo.Insert(ctx, models.Deck{Name: "doomed"})
	s.Require().NoError(err)
	cardID, err := s.cards.Insert(ctx, models.Card{DeckID: deckID, FrontContent: "q", BackContent: "a"})
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Delete(ctx, deckID))

	_, err = s.repo.Get(ctx, deckID)
	s.ErrorIs(err, sql.ErrNoRows)
	_, err = s.cards.Get(ctx, cardID)
	s.ErrorIs(err, sql.ErrNoRows, "deck deletion takes its cards with it")
}

func (s *DeckRepositorySuite) TestDeleteMissing() {
	s.ErrorIs(s.repo.Delete(context.Background(), 77), sql.ErrNoRows)
}

func TestDeckRepositorySuite(t *testing.T) {
	suite.Run(t, new(DeckRepositorySuite))
}
