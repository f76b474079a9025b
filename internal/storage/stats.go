package storage

import (
	"database/sql"
	"fmt"

	"github.com/rgoyard/prepanote/internal/domain"
)

// Statistics aggregates study activity: totals, the overall success
// rate, a per-subject rollup and the review counts of the last 30 days.
func (db *DB) Statistics() (*domain.Statistics, error) {
	var stats domain.Statistics

	err := db.conn.QueryRow(`SELECT COUNT(*) FROM flashcards`).Scan(&stats.TotalFlashcards)
	if err != nil {
		return nil, fmt.Errorf("failed to count flashcards: %w", err)
	}

	err = db.conn.QueryRow(`SELECT COUNT(*) FROM review_history`).Scan(&stats.TotalReviews)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	var rate sql.NullFloat64
	err = db.conn.QueryRow(`SELECT AVG(success) * 100 FROM review_history`).Scan(&rate)
	if err != nil {
		return nil, fmt.Errorf("failed to compute success rate: %w", err)
	}
	stats.SuccessRate = rate.Float64

	rows, err := db.conn.Query(`
		SELECT s.id, s.name, COUNT(rh.id), COALESCE(AVG(rh.success) * 100, 0)
		FROM subjects s
		JOIN chapters c ON s.id = c.subject_id
		JOIN flashcards f ON c.id = f.chapter_id
		LEFT JOIN review_history rh ON f.id = rh.flashcard_id
		GROUP BY s.id, s.name
		ORDER BY COUNT(rh.id) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query per-subject stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.SubjectReviewStats
		if err := rows.Scan(&s.SubjectID, &s.SubjectName, &s.Count, &s.SuccessRate); err != nil {
			return nil, fmt.Errorf("failed to scan subject stats row: %w", err)
		}
		stats.ReviewsBySubject = append(stats.ReviewsBySubject, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	dayRows, err := db.conn.Query(`
		SELECT DATE(reviewed_at), COUNT(*)
		FROM review_history
		WHERE reviewed_at >= date('now', '-30 days')
		GROUP BY DATE(reviewed_at)
		ORDER BY DATE(reviewed_at) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews by day: %w", err)
	}
	defer dayRows.Close()

	for dayRows.Next() {
		var d domain.DayCount
		if err := dayRows.Scan(&d.Date, &d.Count); err != nil {
			return nil, fmt.Errorf("failed to scan day count row: %w", err)
		}
		stats.ReviewsByDay = append(stats.ReviewsByDay, d)
	}
	return &stats, dayRows.Err()
}
