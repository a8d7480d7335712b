package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/avendano/learntrack/internal/logger"
	"github.com/avendano/learntrack/internal/models"
	"github.com/avendano/learntrack/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const cardColumns = "id, deck_id, front_content, back_content, interval_days, ease_factor, repetitions, mastered, last_reviewed, next_review, created_at"

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: deck_id=%d", c.DeckID)

	ease := c.EaseFactor
	if ease == 0 {
		ease = models.DefaultEaseFactor
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO cards (deck_id, front_content, back_content, interval_days, ease_factor, repetitions, mastered, last_reviewed, next_review)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.DeckID, c.FrontContent, c.BackContent, c.IntervalDays, ease, c.Repetitions, c.Mastered, nullTime(c.LastReviewed), nullTime(c.NextReview))
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get card id: %v", err)
		return 0, err
	}
	log.Debug("card inserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%d", id)

	row := r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%d", id)
		return nil, err
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return c, nil
}

func (r *cardRepository) ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: deck_id=%d", deckID)

	rows, err := r.db.QueryContext(ctx, `
SELECT `+cardColumns+`
FROM cards
WHERE deck_id = ?
ORDER BY next_review IS NOT NULL, next_review ASC, id ASC
`, deckID)
	if err != nil {
		log.Error("failed to query cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards, err := collectCards(rows)
	if err != nil {
		log.Error("failed to scan card row: %v", err)
		return nil, err
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards with filter: deck_id=%d, due_only=%v", filter.DeckID, filter.DueOnly)

	query := sqlBuilder.Select(
		"id", "deck_id", "front_content", "back_content", "interval_days",
		"ease_factor", "repetitions", "mastered", "last_reviewed", "next_review", "created_at",
	).From("cards")

	// Dynamic WHERE clauses
	if filter.DeckID != 0 {
		query = query.Where(squirrel.Eq{"deck_id": filter.DeckID})
	}
	if filter.Mastered != nil {
		query = query.Where(squirrel.Eq{"mastered": *filter.Mastered})
	}
	if filter.DueOnly {
		query = query.Where(squirrel.Eq{"mastered": false})
		query = query.Where(squirrel.Or{
			squirrel.Eq{"next_review": nil},
			squirrel.Expr("next_review <= CURRENT_TIMESTAMP"),
		})
	}

	query = query.OrderBy("next_review IS NOT NULL", "next_review ASC", "id ASC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards, err := collectCards(rows)
	if err != nil {
		log.Error("failed to scan card row: %v", err)
		return nil, err
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) ApplyReview(ctx context.Context, upd models.ReviewUpdate) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("applying review: card_id=%d, quality=%d, interval=%d, ease=%.2f, mastered=%v",
		upd.CardID, upd.Quality, upd.IntervalAfter, upd.EaseAfter, upd.Mastered)

	res, err := r.db.ExecContext(ctx, `
UPDATE cards
SET interval_days = ?, ease_factor = ?, repetitions = ?, mastered = ?, last_reviewed = ?, next_review = ?
WHERE id = ?
`, upd.IntervalAfter, upd.EaseAfter, upd.Repetitions, upd.Mastered, upd.ReviewedAt, nullTime(upd.NextReview), upd.CardID)
	if err != nil {
		log.Error("failed to apply review: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Card deleted out from under the session.
		log.Debug("review target missing: card_id=%d", upd.CardID)
		return sql.ErrNoRows
	}
	return nil
}

func (r *cardRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: id=%d", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete card: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*models.Card, error) {
	var c models.Card
	var lastReviewed, nextReview sql.NullTime
	err := row.Scan(&c.ID, &c.DeckID, &c.FrontContent, &c.BackContent, &c.IntervalDays,
		&c.EaseFactor, &c.Repetitions, &c.Mastered, &lastReviewed, &nextReview, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.LastReviewed = timePtr(lastReviewed)
	c.NextReview = timePtr(nextReview)
	return &c, nil
}

func collectCards(rows *sql.Rows) ([]models.Card, error) {
	var cards []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *c)
	}
	return cards, nil
}
