package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rgoyard/prepanote/internal/domain"
)

// Subjects returns all subjects ordered by name.
func (db *DB) Subjects() ([]domain.Subject, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, color, created_at
		FROM subjects ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []domain.Subject
	for rows.Next() {
		var s domain.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Color, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subject row: %w", err)
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// SubjectByID retrieves a single subject.
func (db *DB) SubjectByID(id int64) (*domain.Subject, error) {
	var s domain.Subject
	err := db.conn.QueryRow(`
		SELECT id, name, color, created_at
		FROM subjects WHERE id = ?
	`, id).Scan(&s.ID, &s.Name, &s.Color, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find subject %d: %w", id, err)
	}
	return &s, nil
}

// CreateSubject inserts a subject and returns it with its assigned id.
func (db *DB) CreateSubject(name, color string) (*domain.Subject, error) {
	res, err := db.conn.Exec(`
		INSERT INTO subjects (name, color) VALUES (?, ?)
	`, name, color)
	if err != nil {
		return nil, fmt.Errorf("failed to insert subject %s: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get subject insert id: %w", err)
	}
	return db.SubjectByID(id)
}

// DeleteSubject removes a subject; chapters, flashcards, quizzes, events
// and formulas underneath it go with it via the cascade.
func (db *DB) DeleteSubject(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM subjects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subject %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
