package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rgoyard/prepanote/internal/domain"
)

func scanChapter(row interface{ Scan(...any) error }) (domain.Chapter, error) {
	var c domain.Chapter
	var filePath sql.NullString
	err := row.Scan(&c.ID, &c.SubjectID, &c.Name, &c.Content, &filePath, &c.CreatedAt)
	if err != nil {
		return domain.Chapter{}, err
	}
	c.FilePath = filePath.String
	return c, nil
}

// ChaptersBySubject returns a subject's chapters, newest first.
func (db *DB) ChaptersBySubject(subjectID int64) ([]domain.Chapter, error) {
	rows, err := db.conn.Query(`
		SELECT id, subject_id, name, content, file_path, created_at
		FROM chapters WHERE subject_id = ? ORDER BY created_at DESC
	`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters for subject %d: %w", subjectID, err)
	}
	defer rows.Close()

	var chapters []domain.Chapter
	for rows.Next() {
		c, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chapter row: %w", err)
		}
		chapters = append(chapters, c)
	}
	return chapters, rows.Err()
}

// ChapterByID retrieves a single chapter.
func (db *DB) ChapterByID(id int64) (*domain.Chapter, error) {
	c, err := scanChapter(db.conn.QueryRow(`
		SELECT id, subject_id, name, content, file_path, created_at
		FROM chapters WHERE id = ?
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find chapter %d: %w", id, err)
	}
	return &c, nil
}

// CreateChapter inserts a chapter and returns it with its assigned id.
// filePath may be empty when the content was typed in directly.
func (db *DB) CreateChapter(subjectID int64, name, content, filePath string) (*domain.Chapter, error) {
	res, err := db.conn.Exec(`
		INSERT INTO chapters (subject_id, name, content, file_path)
		VALUES (?, ?, ?, ?)
	`, subjectID, name, content, nullString(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to insert chapter %s: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get chapter insert id: %w", err)
	}
	return db.ChapterByID(id)
}

// UpdateChapter replaces a chapter's name and content.
func (db *DB) UpdateChapter(id int64, name, content string) error {
	res, err := db.conn.Exec(`
		UPDATE chapters SET name = ?, content = ? WHERE id = ?
	`, name, content, id)
	if err != nil {
		return fmt.Errorf("failed to update chapter %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteChapter removes a chapter and, via cascade, its flashcards,
// quizzes and exercises.
func (db *DB) DeleteChapter(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM chapters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete chapter %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
