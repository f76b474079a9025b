package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgoyard/prepanote/internal/ai"
	"github.com/rgoyard/prepanote/internal/domain"
	"github.com/rgoyard/prepanote/internal/review"
	"github.com/rgoyard/prepanote/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	server := NewServer(db, ai.NewClient(ai.Config{}), review.DefaultPolicy(), t.TempDir())
	return server, db
}

func doJSON(t *testing.T, server *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestSubjectLifecycle(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/subjects", map[string]string{
		"name": "Physics", "color": "#ff0000",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	subject := decodeBody[domain.Subject](t, rec)
	assert.Equal(t, "Physics", subject.Name)

	rec = doJSON(t, server, http.MethodGet, "/api/subjects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	subjects := decodeBody[[]domain.Subject](t, rec)
	assert.Len(t, subjects, 1)

	rec = doJSON(t, server, http.MethodDelete, "/api/subjects/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/subjects/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubjectValidation(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/subjects", map[string]string{"color": "#fff"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, server, http.MethodPut, "/api/subjects", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/subjects/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func seedChapter(t *testing.T, db *storage.DB) *domain.Chapter {
	t.Helper()
	subject, err := db.CreateSubject("Maths", "#00ff00")
	require.NoError(t, err)
	chapter, err := db.CreateChapter(subject.ID, "Calculus", "Derivatives and integrals.", "")
	require.NoError(t, err)
	return chapter
}

func TestFlashcardAndReviewFlow(t *testing.T) {
	server, db := newTestServer(t)
	chapter := seedChapter(t, db)

	rec := doJSON(t, server, http.MethodPost, "/api/flashcards", map[string]any{
		"chapter_id": chapter.ID,
		"question":   "What is the derivative of x^2?",
		"answer":     "2x",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	card := decodeBody[domain.Flashcard](t, rec)
	assert.Equal(t, "medium", card.Difficulty)

	// A fresh card is immediately due.
	rec = doJSON(t, server, http.MethodGet, "/api/review/due", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	due := decodeBody[[]domain.DueFlashcard](t, rec)
	require.Len(t, due, 1)
	assert.Equal(t, "Calculus", due[0].ChapterName)
	assert.Equal(t, "Maths", due[0].SubjectName)

	rec = doJSON(t, server, http.MethodPost, "/api/review/1", map[string]string{"rating": "easy"})
	require.Equal(t, http.StatusOK, rec.Code)
	reviewed := decodeBody[domain.Flashcard](t, rec)
	assert.Equal(t, 1, reviewed.Repetitions)
	assert.Equal(t, 1, reviewed.ReviewCount)

	rec = doJSON(t, server, http.MethodGet, "/api/review/due", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]domain.DueFlashcard](t, rec))

	rec = doJSON(t, server, http.MethodGet, "/api/flashcards/1/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decodeBody[[]domain.ReviewHistoryEntry](t, rec)
	require.Len(t, history, 1)
	assert.Equal(t, "easy", history[0].Rating)
	assert.True(t, history[0].Success)
}

func TestReviewErrors(t *testing.T) {
	server, db := newTestServer(t)
	chapter := seedChapter(t, db)
	card, err := db.CreateFlashcard(chapter.ID, "Q", "A", "medium", "")
	require.NoError(t, err)

	rec := doJSON(t, server, http.MethodPost, "/api/review/999", map[string]string{"rating": "easy"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/review/1", map[string]string{"rating": "impossible"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A rejected rating must not touch the card.
	unchanged, err := db.FlashcardByID(card.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, unchanged.ReviewCount)
}

func TestChapterImport(t *testing.T) {
	server, db := newTestServer(t)
	chapter := seedChapter(t, db)

	notes := t.TempDir()
	content := "Q: What is a limit?\nA: The value a function approaches.\n"
	require.NoError(t, os.WriteFile(filepath.Join(notes, "limits.md"), []byte(content), 0o644))

	rec := doJSON(t, server, http.MethodPost, "/api/chapters/1/import", map[string]string{"source": notes})
	require.Equal(t, http.StatusOK, rec.Code)

	cards, err := db.FlashcardsByChapter(chapter.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	server, db := newTestServer(t)
	seedChapter(t, db)

	rec := doJSON(t, server, http.MethodPost, "/api/chapters/1/generate/flashcards", map[string]int{"count": 3})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGenerateUnknownKind(t *testing.T) {
	server, db := newTestServer(t)
	seedChapter(t, db)

	rec := doJSON(t, server, http.MethodPost, "/api/chapters/1/generate/poems", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventLifecycle(t *testing.T) {
	server, db := newTestServer(t)
	chapter := seedChapter(t, db)

	rec := doJSON(t, server, http.MethodPost, "/api/events", map[string]any{
		"subject_id":  chapter.SubjectID,
		"title":       "Midterm",
		"type":        "exam",
		"date":        time.Now().AddDate(0, 0, 5).Format(time.RFC3339),
		"description": "Chapters 1-3",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	event := decodeBody[domain.EventWithSubject](t, rec)
	assert.Equal(t, "Maths", event.SubjectName)

	rec = doJSON(t, server, http.MethodGet, "/api/events?within=7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.EventWithSubject](t, rec), 1)

	rec = doJSON(t, server, http.MethodGet, "/api/events?within=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]domain.EventWithSubject](t, rec))

	rec = doJSON(t, server, http.MethodDelete, "/api/events/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeadlineBoostOverHTTP(t *testing.T) {
	server, db := newTestServer(t)
	chapter := seedChapter(t, db)
	_, err := db.CreateFlashcard(chapter.ID, "Q", "A", "medium", "")
	require.NoError(t, err)
	_, err = db.CreateEvent(chapter.SubjectID, "Oral exam", "kholle", time.Now().AddDate(0, 0, 2), "")
	require.NoError(t, err)

	rec := doJSON(t, server, http.MethodGet, "/api/review/due", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	due := decodeBody[[]domain.DueFlashcard](t, rec)
	require.Len(t, due, 1)
	assert.Equal(t, 3.0, due[0].PriorityBoost)
}

func TestExerciseStatusUpdate(t *testing.T) {
	server, db := newTestServer(t)
	chapter := seedChapter(t, db)
	exercise, err := db.CreateExercise(chapter.ID, "Integrate x", "Compute the integral of x dx", "x^2/2 + C", "easy")
	require.NoError(t, err)

	rec := doJSON(t, server, http.MethodPut, "/api/exercises/1/status", map[string]string{"status": "done"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	updated, err := db.ExerciseByID(exercise.ID)
	require.NoError(t, err)
	assert.Equal(t, "done", updated.Status)
}

func TestFormulaSearch(t *testing.T) {
	server, db := newTestServer(t)
	chapter := seedChapter(t, db)

	_, err := db.CreateFormula(domain.Formula{
		SubjectID:  chapter.SubjectID,
		Theme:      "Derivatives",
		Title:      "Power rule",
		Expression: "d/dx x^n = n x^(n-1)",
	})
	require.NoError(t, err)

	rec := doJSON(t, server, http.MethodGet, "/api/formulas?q=power", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.Formula](t, rec), 1)

	rec = doJSON(t, server, http.MethodGet, "/api/formulas?theme=Derivatives", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.Formula](t, rec), 1)

	rec = doJSON(t, server, http.MethodGet, "/api/formulas?q=nonexistent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]domain.Formula](t, rec))
}

func TestStatistics(t *testing.T) {
	server, db := newTestServer(t)
	chapter := seedChapter(t, db)
	_, err := db.CreateFlashcard(chapter.ID, "Q", "A", "medium", "")
	require.NoError(t, err)

	rec := doJSON(t, server, http.MethodPost, "/api/review/1", map[string]string{"rating": "medium"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/statistics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody[domain.Statistics](t, rec)
	assert.Equal(t, 1, stats.TotalFlashcards)
	assert.Equal(t, 1, stats.TotalReviews)
	assert.Equal(t, 100.0, stats.SuccessRate)
}
