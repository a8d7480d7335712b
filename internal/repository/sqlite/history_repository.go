package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/avendano/learntrack/internal/logger"
	"github.com/avendano/learntrack/internal/models"
	"github.com/avendano/learntrack/internal/repository"
)

type historyRepository struct {
	db *sql.DB
}

// NewReviewHistoryRepository creates a new ReviewHistoryRepository implementation
func NewReviewHistoryRepository(db *sql.DB) repository.ReviewHistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Insert(ctx context.Context, rec models.ReviewRecord) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("inserting review record: card_id=%d, quality=%d", rec.CardID, rec.Quality)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO review_history (card_id, quality, interval_before, interval_after, ease_before, ease_after, mastered, time_seconds, reviewed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, rec.CardID, rec.Quality, rec.IntervalBefore, rec.IntervalAfter, rec.EaseBefore, rec.EaseAfter, rec.Mastered, rec.TimeSeconds, rec.ReviewedAt)
	if err != nil {
		log.Error("failed to insert review record: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *historyRepository) ListByCard(ctx context.Context, cardID int64, limit, offset int) ([]models.ReviewRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("listing review history: card_id=%d, limit=%d, offset=%d", cardID, limit, offset)

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := sqlBuilder.Select(
		"id", "card_id", "quality", "interval_before", "interval_after",
		"ease_before", "ease_after", "mastered", "time_seconds", "reviewed_at",
	).From("review_history").
		Where(squirrel.Eq{"card_id": cardID}).
		OrderBy("reviewed_at DESC", "id DESC").
		Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list review history: %v", err)
		return nil, err
	}
	defer rows.Close()

	var records []models.ReviewRecord
	for rows.Next() {
		var rec models.ReviewRecord
		if err := rows.Scan(&rec.ID, &rec.CardID, &rec.Quality, &rec.IntervalBefore, &rec.IntervalAfter,
			&rec.EaseBefore, &rec.EaseAfter, &rec.Mastered, &rec.TimeSeconds, &rec.ReviewedAt); err != nil {
			log.Error("failed to scan review record: %v", err)
			return nil, err
		}
		records = append(records, rec)
	}
	log.Debug("found %d review records", len(records))
	return records, rows.Err()
}
