package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rgoyard/prepanote/internal/domain"
	"github.com/rgoyard/prepanote/internal/srs"
)

// ApplyReview persists the outcome of one review in a single
// transaction: the four scheduling fields are written back, the review
// count is incremented and a history entry stamped with reviewedAt is
// appended. Either all three writes land or none of them do. Returns
// ErrNotFound when the flashcard disappeared since it was selected.
func (db *DB) ApplyReview(ctx context.Context, flashcardID int64, result srs.Result, rating string, success bool, reviewedAt time.Time) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin review transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE flashcards
		SET easiness_factor = ?, interval = ?, repetitions = ?,
		    next_review_date = ?, review_count = review_count + 1
		WHERE id = ?
	`, result.EasinessFactor, result.Interval, result.Repetitions,
		result.NextReviewDate, flashcardID)
	if err != nil {
		return fmt.Errorf("failed to update scheduling state for flashcard %d: %w", flashcardID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check review update for flashcard %d: %w", flashcardID, err)
	} else if n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO review_history (flashcard_id, reviewed_at, difficulty_rating, success)
		VALUES (?, ?, ?, ?)
	`, flashcardID, reviewedAt, rating, success); err != nil {
		return fmt.Errorf("failed to append review history for flashcard %d: %w", flashcardID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review for flashcard %d: %w", flashcardID, err)
	}
	return nil
}

// ReviewHistory returns a flashcard's reviews, newest first.
func (db *DB) ReviewHistory(flashcardID int64) ([]domain.ReviewHistoryEntry, error) {
	rows, err := db.conn.Query(`
		SELECT id, flashcard_id, reviewed_at, difficulty_rating, success
		FROM review_history WHERE flashcard_id = ? ORDER BY reviewed_at DESC
	`, flashcardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list review history for flashcard %d: %w", flashcardID, err)
	}
	defer rows.Close()

	var entries []domain.ReviewHistoryEntry
	for rows.Next() {
		var e domain.ReviewHistoryEntry
		if err := rows.Scan(&e.ID, &e.FlashcardID, &e.ReviewedAt, &e.Rating, &e.Success); err != nil {
			return nil, fmt.Errorf("failed to scan review history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
