package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rgoyard/prepanote/internal/domain"
)

const formulaColumns = "id, subject_id, chapter_id, theme, title, formula, description, variables, created_at"

func scanFormula(row interface{ Scan(...any) error }) (domain.Formula, error) {
	var f domain.Formula
	var chapterID sql.NullInt64
	var description, variables sql.NullString
	err := row.Scan(&f.ID, &f.SubjectID, &chapterID, &f.Theme, &f.Title,
		&f.Expression, &description, &variables, &f.CreatedAt)
	if err != nil {
		return domain.Formula{}, err
	}
	f.ChapterID = chapterID.Int64
	f.Description = description.String
	f.Variables = variables.String
	return f, nil
}

// Formulas returns every formula, grouped by theme then title.
func (db *DB) Formulas() ([]domain.Formula, error) {
	return db.queryFormulas(`
		SELECT `+formulaColumns+` FROM formulas ORDER BY theme, title
	`)
}

// FormulasBySubject returns a subject's formulas grouped by theme.
func (db *DB) FormulasBySubject(subjectID int64) ([]domain.Formula, error) {
	return db.queryFormulas(`
		SELECT `+formulaColumns+`
		FROM formulas WHERE subject_id = ? ORDER BY theme, title
	`, subjectID)
}

// FormulasByTheme returns the formulas filed under a theme.
func (db *DB) FormulasByTheme(theme string) ([]domain.Formula, error) {
	return db.queryFormulas(`
		SELECT `+formulaColumns+`
		FROM formulas WHERE theme = ? ORDER BY title
	`, theme)
}

// SearchFormulas matches the query against title, theme and expression.
func (db *DB) SearchFormulas(query string) ([]domain.Formula, error) {
	like := "%" + query + "%"
	return db.queryFormulas(`
		SELECT `+formulaColumns+`
		FROM formulas
		WHERE title LIKE ? OR theme LIKE ? OR formula LIKE ?
		ORDER BY theme, title
	`, like, like, like)
}

// ThemesBySubject returns the distinct formula themes of a subject.
func (db *DB) ThemesBySubject(subjectID int64) ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT DISTINCT theme FROM formulas WHERE subject_id = ? ORDER BY theme
	`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list themes for subject %d: %w", subjectID, err)
	}
	defer rows.Close()

	var themes []string
	for rows.Next() {
		var theme string
		if err := rows.Scan(&theme); err != nil {
			return nil, fmt.Errorf("failed to scan theme row: %w", err)
		}
		themes = append(themes, theme)
	}
	return themes, rows.Err()
}

// FormulaByID retrieves a single formula.
func (db *DB) FormulaByID(id int64) (*domain.Formula, error) {
	f, err := scanFormula(db.conn.QueryRow(`
		SELECT `+formulaColumns+` FROM formulas WHERE id = ?
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find formula %d: %w", id, err)
	}
	return &f, nil
}

// CreateFormula inserts a formula and returns it with its id. A zero
// chapter id stores NULL, meaning the formula is subject-wide.
func (db *DB) CreateFormula(f domain.Formula) (*domain.Formula, error) {
	res, err := db.conn.Exec(`
		INSERT INTO formulas
			(subject_id, chapter_id, theme, title, formula, description, variables)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, f.SubjectID, nullInt64(f.ChapterID), f.Theme, f.Title, f.Expression,
		nullString(f.Description), nullString(f.Variables))
	if err != nil {
		return nil, fmt.Errorf("failed to insert formula %s: %w", f.Title, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get formula insert id: %w", err)
	}
	return db.FormulaByID(id)
}

// UpdateFormula replaces a formula's content fields.
func (db *DB) UpdateFormula(id int64, theme, title, expression, description, variables string) error {
	res, err := db.conn.Exec(`
		UPDATE formulas
		SET theme = ?, title = ?, formula = ?, description = ?, variables = ?
		WHERE id = ?
	`, theme, title, expression, nullString(description), nullString(variables), id)
	if err != nil {
		return fmt.Errorf("failed to update formula %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteFormula removes a formula.
func (db *DB) DeleteFormula(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM formulas WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete formula %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) queryFormulas(query string, args ...any) ([]domain.Formula, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query formulas: %w", err)
	}
	defer rows.Close()

	var formulas []domain.Formula
	for rows.Next() {
		f, err := scanFormula(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan formula row: %w", err)
		}
		formulas = append(formulas, f)
	}
	return formulas, rows.Err()
}

func nullInt64(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: n != 0}
}
