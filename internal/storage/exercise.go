package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rgoyard/prepanote/internal/domain"
)

const exerciseColumns = "id, chapter_id, title, statement, solution, difficulty, status, created_at"

func scanExercise(row interface{ Scan(...any) error }) (domain.Exercise, error) {
	var e domain.Exercise
	err := row.Scan(&e.ID, &e.ChapterID, &e.Title, &e.Statement, &e.Solution,
		&e.Difficulty, &e.Status, &e.CreatedAt)
	return e, err
}

// ExercisesByChapter returns a chapter's exercises, newest first.
func (db *DB) ExercisesByChapter(chapterID int64) ([]domain.Exercise, error) {
	return db.queryExercises(`
		SELECT `+exerciseColumns+`
		FROM exercises WHERE chapter_id = ? ORDER BY created_at DESC
	`, chapterID)
}

// Exercises returns all exercises, newest first.
func (db *DB) Exercises() ([]domain.Exercise, error) {
	return db.queryExercises(`
		SELECT ` + exerciseColumns + ` FROM exercises ORDER BY created_at DESC
	`)
}

// ExercisesByStatus filters exercises by their working status.
func (db *DB) ExercisesByStatus(status string) ([]domain.Exercise, error) {
	return db.queryExercises(`
		SELECT `+exerciseColumns+`
		FROM exercises WHERE status = ? ORDER BY created_at DESC
	`, status)
}

// ExerciseByID retrieves a single exercise.
func (db *DB) ExerciseByID(id int64) (*domain.Exercise, error) {
	e, err := scanExercise(db.conn.QueryRow(`
		SELECT `+exerciseColumns+` FROM exercises WHERE id = ?
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exercise %d: %w", id, err)
	}
	return &e, nil
}

// CreateExercise inserts an exercise in the todo state.
func (db *DB) CreateExercise(chapterID int64, title, statement, solution, difficulty string) (*domain.Exercise, error) {
	res, err := db.conn.Exec(`
		INSERT INTO exercises (chapter_id, title, statement, solution, difficulty)
		VALUES (?, ?, ?, ?, ?)
	`, chapterID, title, statement, solution, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to insert exercise %s: %w", title, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get exercise insert id: %w", err)
	}
	return db.ExerciseByID(id)
}

// UpdateExerciseStatus moves an exercise between todo, in_progress and
// done.
func (db *DB) UpdateExerciseStatus(id int64, status string) error {
	res, err := db.conn.Exec(`
		UPDATE exercises SET status = ? WHERE id = ?
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update exercise %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExercise removes an exercise.
func (db *DB) DeleteExercise(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM exercises WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete exercise %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) queryExercises(query string, args ...any) ([]domain.Exercise, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exercises: %w", err)
	}
	defer rows.Close()

	var exercises []domain.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exercise row: %w", err)
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}
