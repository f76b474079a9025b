package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rgoyard/prepanote/internal/domain"
)

const quizColumns = "id, chapter_id, question, option_a, option_b, option_c, option_d, correct_option, explanation, created_at"

func scanQuiz(row interface{ Scan(...any) error }) (domain.Quiz, error) {
	var q domain.Quiz
	err := row.Scan(
		&q.ID, &q.ChapterID, &q.Question, &q.OptionA, &q.OptionB,
		&q.OptionC, &q.OptionD, &q.CorrectOption, &q.Explanation, &q.CreatedAt,
	)
	return q, err
}

// QuizzesByChapter returns a chapter's quizzes, newest first.
func (db *DB) QuizzesByChapter(chapterID int64) ([]domain.Quiz, error) {
	rows, err := db.conn.Query(`
		SELECT `+quizColumns+`
		FROM quizzes WHERE chapter_id = ? ORDER BY created_at DESC
	`, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes for chapter %d: %w", chapterID, err)
	}
	defer rows.Close()

	var quizzes []domain.Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz row: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// QuizByID retrieves a single quiz.
func (db *DB) QuizByID(id int64) (*domain.Quiz, error) {
	q, err := scanQuiz(db.conn.QueryRow(`
		SELECT `+quizColumns+` FROM quizzes WHERE id = ?
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find quiz %d: %w", id, err)
	}
	return &q, nil
}

// CreateQuiz inserts a four-option quiz and returns it with its id.
func (db *DB) CreateQuiz(q domain.Quiz) (*domain.Quiz, error) {
	res, err := db.conn.Exec(`
		INSERT INTO quizzes
			(chapter_id, question, option_a, option_b, option_c, option_d,
			 correct_option, explanation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, q.ChapterID, q.Question, q.OptionA, q.OptionB, q.OptionC, q.OptionD,
		q.CorrectOption, q.Explanation)
	if err != nil {
		return nil, fmt.Errorf("failed to insert quiz: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz insert id: %w", err)
	}
	return db.QuizByID(id)
}

// DeleteQuiz removes a quiz.
func (db *DB) DeleteQuiz(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM quizzes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
