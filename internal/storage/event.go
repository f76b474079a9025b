package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rgoyard/prepanote/internal/domain"
)

func scanEvent(row interface{ Scan(...any) error }) (domain.EventWithSubject, error) {
	var e domain.EventWithSubject
	var description sql.NullString
	err := row.Scan(&e.ID, &e.SubjectID, &e.Title, &e.Type, &e.Date,
		&description, &e.CreatedAt, &e.SubjectName)
	if err != nil {
		return domain.EventWithSubject{}, err
	}
	e.Description = description.String
	return e, nil
}

const eventQuery = `
	SELECT e.id, e.subject_id, e.title, e.event_type, e.event_date,
	       e.description, e.created_at, s.name
	FROM events e
	JOIN subjects s ON e.subject_id = s.id
`

// Events returns all calendar events ordered by date.
func (db *DB) Events() ([]domain.EventWithSubject, error) {
	rows, err := db.conn.Query(eventQuery + ` ORDER BY e.event_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// UpcomingEvents returns events falling between now and now plus
// withinDays, soonest first. This is the deadline feed the due-set
// selector consumes.
func (db *DB) UpcomingEvents(now time.Time, withinDays int) ([]domain.EventWithSubject, error) {
	rows, err := db.conn.Query(eventQuery+`
		WHERE e.event_date >= ? AND e.event_date <= ?
		ORDER BY e.event_date ASC
	`, now, now.AddDate(0, 0, withinDays))
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// EventsBySubject returns a subject's events ordered by date.
func (db *DB) EventsBySubject(subjectID int64) ([]domain.EventWithSubject, error) {
	rows, err := db.conn.Query(eventQuery+`
		WHERE e.subject_id = ? ORDER BY e.event_date ASC
	`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for subject %d: %w", subjectID, err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// EventByID retrieves a single event.
func (db *DB) EventByID(id int64) (*domain.EventWithSubject, error) {
	e, err := scanEvent(db.conn.QueryRow(eventQuery+` WHERE e.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find event %d: %w", id, err)
	}
	return &e, nil
}

// CreateEvent inserts a calendar event and returns it with its id.
func (db *DB) CreateEvent(subjectID int64, title, eventType string, date time.Time, description string) (*domain.EventWithSubject, error) {
	res, err := db.conn.Exec(`
		INSERT INTO events (subject_id, title, event_type, event_date, description)
		VALUES (?, ?, ?, ?, ?)
	`, subjectID, title, eventType, date, nullString(description))
	if err != nil {
		return nil, fmt.Errorf("failed to insert event %s: %w", title, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get event insert id: %w", err)
	}
	return db.EventByID(id)
}

// UpdateEvent replaces an event's fields.
func (db *DB) UpdateEvent(id int64, title, eventType string, date time.Time, description string) error {
	res, err := db.conn.Exec(`
		UPDATE events
		SET title = ?, event_type = ?, event_date = ?, description = ?
		WHERE id = ?
	`, title, eventType, date, nullString(description), id)
	if err != nil {
		return fmt.Errorf("failed to update event %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEvent removes an event.
func (db *DB) DeleteEvent(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func collectEvents(rows *sql.Rows) ([]domain.EventWithSubject, error) {
	var events []domain.EventWithSubject
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
