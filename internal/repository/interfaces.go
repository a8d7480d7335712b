package repository

import (
	"context"

	"github.com/avendano/learntrack/internal/models"
)

// CardRepository handles card data access. ApplyReview is the only write the
// scheduler performs: it persists one grading outcome atomically.
type CardRepository interface {
	Insert(ctx context.Context, card models.Card) (int64, error)
	Get(ctx context.Context, id int64) (*models.Card, error)
	ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error)
	List(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
	ApplyReview(ctx context.Context, upd models.ReviewUpdate) error
	Delete(ctx context.Context, id int64) error
}

// DeckRepository handles deck data access. Deleting a deck cascades to its
// cards in the schema.
type DeckRepository interface {
	Insert(ctx context.Context, deck models.Deck) (int64, error)
	Get(ctx context.Context, id int64) (*models.Deck, error)
	List(ctx context.Context) ([]models.Deck, error)
	Delete(ctx context.Context, id int64) error
}

// ReviewHistoryRepository appends and reads the per-card review log.
type ReviewHistoryRepository interface {
	Insert(ctx context.Context, rec models.ReviewRecord) (int64, error)
	ListByCard(ctx context.Context, cardID int64, limit, offset int) ([]models.ReviewRecord, error)
}
