package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rgoyard/prepanote/internal/domain"
	"github.com/rgoyard/prepanote/internal/srs"
)

const flashcardColumns = "id, chapter_id, question, answer, difficulty, easiness_factor, interval, repetitions, next_review_date, review_count, source_hash, created_at"

var joinedFlashcardColumns = "f." + strings.ReplaceAll(flashcardColumns, ", ", ", f.")

func scanFlashcard(row interface{ Scan(...any) error }) (domain.Flashcard, error) {
	var f domain.Flashcard
	var sourceHash sql.NullString
	err := row.Scan(
		&f.ID, &f.ChapterID, &f.Question, &f.Answer, &f.Difficulty,
		&f.EasinessFactor, &f.Interval, &f.Repetitions, &f.NextReviewDate,
		&f.ReviewCount, &sourceHash, &f.CreatedAt,
	)
	if err != nil {
		return domain.Flashcard{}, err
	}
	f.SourceHash = sourceHash.String
	return f, nil
}

// FlashcardsByChapter returns a chapter's flashcards, newest first.
func (db *DB) FlashcardsByChapter(chapterID int64) ([]domain.Flashcard, error) {
	rows, err := db.conn.Query(`
		SELECT `+flashcardColumns+`
		FROM flashcards WHERE chapter_id = ? ORDER BY created_at DESC
	`, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list flashcards for chapter %d: %w", chapterID, err)
	}
	defer rows.Close()

	var cards []domain.Flashcard
	for rows.Next() {
		f, err := scanFlashcard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flashcard row: %w", err)
		}
		cards = append(cards, f)
	}
	return cards, rows.Err()
}

// FlashcardByID retrieves a single flashcard.
func (db *DB) FlashcardByID(id int64) (*domain.Flashcard, error) {
	f, err := scanFlashcard(db.conn.QueryRow(`
		SELECT `+flashcardColumns+`
		FROM flashcards WHERE id = ?
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find flashcard %d: %w", id, err)
	}
	return &f, nil
}

// CreateFlashcard inserts a flashcard with default scheduling state,
// immediately due. sourceHash may be empty for hand-written or generated
// cards; imported cards carry their notes-file content hash.
func (db *DB) CreateFlashcard(chapterID int64, question, answer, difficulty, sourceHash string) (*domain.Flashcard, error) {
	res, err := db.conn.Exec(`
		INSERT INTO flashcards
			(chapter_id, question, answer, difficulty, easiness_factor,
			 interval, repetitions, next_review_date, source_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, chapterID, question, answer, difficulty,
		srs.InitialEasiness, srs.InitialInterval, srs.InitialRepetitions,
		time.Now(), nullString(sourceHash))
	if err != nil {
		return nil, fmt.Errorf("failed to insert flashcard: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get flashcard insert id: %w", err)
	}
	return db.FlashcardByID(id)
}

// DeleteFlashcard removes a flashcard and its review history.
func (db *DB) DeleteFlashcard(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM flashcards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete flashcard %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// FlashcardBySourceHash finds the imported card with the given content
// hash inside a chapter, or ErrNotFound.
func (db *DB) FlashcardBySourceHash(chapterID int64, hash string) (*domain.Flashcard, error) {
	f, err := scanFlashcard(db.conn.QueryRow(`
		SELECT `+flashcardColumns+`
		FROM flashcards WHERE chapter_id = ? AND source_hash = ?
	`, chapterID, hash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find flashcard by hash %s: %w", hash, err)
	}
	return &f, nil
}

// ImportedFlashcards returns all flashcards of a chapter that carry a
// source hash, i.e. that came from a notes file.
func (db *DB) ImportedFlashcards(chapterID int64) ([]domain.Flashcard, error) {
	rows, err := db.conn.Query(`
		SELECT `+flashcardColumns+`
		FROM flashcards WHERE chapter_id = ? AND source_hash IS NOT NULL
	`, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list imported flashcards for chapter %d: %w", chapterID, err)
	}
	defer rows.Close()

	var cards []domain.Flashcard
	for rows.Next() {
		f, err := scanFlashcard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flashcard row: %w", err)
		}
		cards = append(cards, f)
	}
	return cards, rows.Err()
}

// DueFlashcards returns every flashcard due at the given instant,
// oldest due date first, with chapter and subject names attached.
func (db *DB) DueFlashcards(now time.Time) ([]domain.DueFlashcard, error) {
	rows, err := db.conn.Query(`
		SELECT `+joinedFlashcardColumns+`, s.id, c.name, s.name
		FROM flashcards f
		JOIN chapters c ON f.chapter_id = c.id
		JOIN subjects s ON c.subject_id = s.id
		WHERE f.next_review_date <= ?
		ORDER BY f.next_review_date ASC
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due flashcards: %w", err)
	}
	defer rows.Close()
	return collectDueFlashcards(rows)
}

// PullForwardFlashcards returns, per listed subject, up to limit
// flashcards that are not yet due but fall due within the window.
// Least-reviewed cards come first so under-practiced material gets the
// extra exposure, tie-broken by soonest natural due date.
func (db *DB) PullForwardFlashcards(subjectIDs []int64, now time.Time, withinDays, limit int) ([]domain.DueFlashcard, error) {
	horizon := now.AddDate(0, 0, withinDays)

	var cards []domain.DueFlashcard
	for _, subjectID := range subjectIDs {
		rows, err := db.conn.Query(`
			SELECT `+joinedFlashcardColumns+`, s.id, c.name, s.name
			FROM flashcards f
			JOIN chapters c ON f.chapter_id = c.id
			JOIN subjects s ON c.subject_id = s.id
			WHERE s.id = ? AND f.next_review_date > ? AND f.next_review_date <= ?
			ORDER BY f.review_count ASC, f.next_review_date ASC
			LIMIT ?
		`, subjectID, now, horizon, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to query pull-forward flashcards for subject %d: %w", subjectID, err)
		}
		subjectCards, err := collectDueFlashcards(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		cards = append(cards, subjectCards...)
	}
	return cards, nil
}

func collectDueFlashcards(rows *sql.Rows) ([]domain.DueFlashcard, error) {
	var cards []domain.DueFlashcard
	for rows.Next() {
		var d domain.DueFlashcard
		var sourceHash sql.NullString
		err := rows.Scan(
			&d.ID, &d.ChapterID, &d.Question, &d.Answer, &d.Difficulty,
			&d.EasinessFactor, &d.Interval, &d.Repetitions, &d.NextReviewDate,
			&d.ReviewCount, &sourceHash, &d.CreatedAt,
			&d.SubjectID, &d.ChapterName, &d.SubjectName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due flashcard row: %w", err)
		}
		d.SourceHash = sourceHash.String
		cards = append(cards, d)
	}
	return cards, rows.Err()
}
