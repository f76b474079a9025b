// Package web exposes the application over a JSON HTTP API.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rgoyard/prepanote/internal/ai"
	"github.com/rgoyard/prepanote/internal/domain"
	"github.com/rgoyard/prepanote/internal/extract"
	"github.com/rgoyard/prepanote/internal/importer"
	"github.com/rgoyard/prepanote/internal/review"
	"github.com/rgoyard/prepanote/internal/srs"
	"github.com/rgoyard/prepanote/internal/storage"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	db       *storage.DB
	router   *http.ServeMux
	selector *review.Selector
	reviews  *review.Service
	ai       *ai.Client
	importer *importer.Importer
}

// NewServer creates and configures a new server.
func NewServer(db *storage.DB, aiClient *ai.Client, policy review.Policy, reposDir string) *Server {
	s := &Server{
		db:       db,
		router:   http.NewServeMux(),
		selector: review.NewSelector(db, policy),
		reviews:  review.NewService(db, nil),
		ai:       aiClient,
		importer: importer.New(db, reposDir),
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	s.router.HandleFunc("/api/subjects", s.handleSubjects())
	s.router.HandleFunc("/api/subjects/", s.handleSubject())
	s.router.HandleFunc("/api/chapters", s.handleChapters())
	s.router.HandleFunc("/api/chapters/", s.handleChapter())
	s.router.HandleFunc("/api/flashcards", s.handleFlashcards())
	s.router.HandleFunc("/api/flashcards/", s.handleFlashcard())
	s.router.HandleFunc("/api/quizzes", s.handleQuizzes())
	s.router.HandleFunc("/api/quizzes/", s.handleQuiz())
	s.router.HandleFunc("/api/events", s.handleEvents())
	s.router.HandleFunc("/api/events/", s.handleEvent())
	s.router.HandleFunc("/api/formulas", s.handleFormulas())
	s.router.HandleFunc("/api/formulas/", s.handleFormula())
	s.router.HandleFunc("/api/exercises", s.handleExercises())
	s.router.HandleFunc("/api/exercises/", s.handleExercise())
	s.router.HandleFunc("/api/review/due", s.handleDueReview())
	s.router.HandleFunc("/api/review/", s.handlePostReview())
	s.router.HandleFunc("/api/statistics", s.handleStatistics())
}

// respond writes v as JSON. A nil slice-typed v still renders as [] on
// the client side of most frameworks, so no special casing here.
func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

func respondError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, srs.ErrInvalidRating),
		errors.Is(err, extract.ErrUnsupportedType):
		status = http.StatusBadRequest
	case errors.Is(err, ai.ErrNotConfigured):
		status = http.StatusServiceUnavailable
	case errors.Is(err, ai.ErrInvalidOutput):
		status = http.StatusBadGateway
	default:
		slog.Error("request failed", "error", err)
		status = http.StatusInternalServerError
	}
	respond(w, status, map[string]string{"error": err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

// pathID parses "{id}" or "{id}/{rest...}" out of the path after prefix.
func pathID(path, prefix string) (int64, string, error) {
	rest := strings.TrimPrefix(path, prefix)
	idStr, tail, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	return id, tail, err
}

func (s *Server) handleSubjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			subjects, err := s.db.Subjects()
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, subjects)
		case http.MethodPost:
			var req struct {
				Name  string `json:"name"`
				Color string `json:"color"`
			}
			if !decode(w, r, &req) {
				return
			}
			if req.Name == "" {
				http.Error(w, "Name cannot be empty", http.StatusBadRequest)
				return
			}
			subject, err := s.db.CreateSubject(req.Name, req.Color)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusCreated, subject)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleSubject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, tail, err := pathID(r.URL.Path, "/api/subjects/")
		if err != nil {
			http.Error(w, "Invalid subject ID", http.StatusBadRequest)
			return
		}

		switch {
		case tail == "" && r.Method == http.MethodGet:
			subject, err := s.db.SubjectByID(id)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, subject)
		case tail == "" && r.Method == http.MethodDelete:
			if err := s.db.DeleteSubject(id); err != nil {
				respondError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case tail == "chapters" && r.Method == http.MethodGet:
			chapters, err := s.db.ChaptersBySubject(id)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, chapters)
		case tail == "events" && r.Method == http.MethodGet:
			events, err := s.db.EventsBySubject(id)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, events)
		case tail == "formulas" && r.Method == http.MethodGet:
			formulas, err := s.db.FormulasBySubject(id)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, formulas)
		case tail == "themes" && r.Method == http.MethodGet:
			themes, err := s.db.ThemesBySubject(id)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, themes)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleChapters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			SubjectID int64  `json:"subject_id"`
			Name      string `json:"name"`
			Content   string `json:"content"`
			FilePath  string `json:"file_path"`
		}
		if !decode(w, r, &req) {
			return
		}
		if req.Name == "" {
			http.Error(w, "Name cannot be empty", http.StatusBadRequest)
			return
		}
		// A file path without explicit content means "extract it for me".
		if req.Content == "" && req.FilePath != "" {
			content, err := extract.Content(req.FilePath)
			if err != nil {
				respondError(w, err)
				return
			}
			req.Content = content
		}
		chapter, err := s.db.CreateChapter(req.SubjectID, req.Name, req.Content, req.FilePath)
		if err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusCreated, chapter)
	}
}

func (s *Server) handleChapter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, tail, err := pathID(r.URL.Path, "/api/chapters/")
		if err != nil {
			http.Error(w, "Invalid chapter ID", http.StatusBadRequest)
			return
		}

		switch {
		case tail == "" && r.Method == http.MethodGet:
			chapter, err := s.db.ChapterByID(id)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, chapter)
		case tail == "" && r.Method == http.MethodPut:
			var req struct {
				Name    string `json:"name"`
				Content string `json:"content"`
			}
			if !decode(w, r, &req) {
				return
			}
			if err := s.db.UpdateChapter(id, req.Name, req.Content); err != nil {
				respondError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case tail == "" && r.Method == http.MethodDelete:
			if err := s.db.DeleteChapter(id); err != nil {
				respondError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case tail == "flashcards" && r.Method == http.MethodGet:
			cards, err := s.db.FlashcardsByChapter(id)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, cards)
		case tail == "quizzes" && r.Method == http.MethodGet:
			quizzes, err := s.db.QuizzesByChapter(id)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, quizzes)
		case tail == "exercises" && r.Method == http.MethodGet:
			exercises, err := s.db.ExercisesByChapter(id)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, exercises)
		case tail == "import" && r.Method == http.MethodPost:
			s.handleImport(w, r, id)
		case strings.HasPrefix(tail, "generate/") && r.Method == http.MethodPost:
			s.handleGenerate(w, r, id, strings.TrimPrefix(tail, "generate/"))
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// handleImport reconciles a chapter's flashcards with a notes source.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request, chapterID int64) {
	var req struct {
		Source string `json:"source"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Source == "" {
		http.Error(w, "Source cannot be empty", http.StatusBadRequest)
		return
	}
	report, err := s.importer.Run(r.Context(), chapterID, req.Source)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, report)
}

// handleGenerate asks the AI collaborator for new study material from
// the chapter's content and persists whatever comes back.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request, chapterID int64, kind string) {
	chapter, err := s.db.ChapterByID(chapterID)
	if err != nil {
		respondError(w, err)
		return
	}
	if chapter.Content == "" {
		http.Error(w, "Chapter has no content to generate from", http.StatusBadRequest)
		return
	}

	var req struct {
		Count int `json:"count"`
	}
	if r.ContentLength > 0 && !decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	switch kind {
	case "flashcards":
		if req.Count <= 0 {
			req.Count = 10
		}
		drafts, err := s.ai.GenerateFlashcards(ctx, chapter.Name, chapter.Content, req.Count)
		if err != nil {
			respondError(w, err)
			return
		}
		var cards []domain.Flashcard
		for _, d := range drafts {
			card, err := s.db.CreateFlashcard(chapter.ID, d.Question, d.Answer, d.Difficulty, "")
			if err != nil {
				respondError(w, err)
				return
			}
			cards = append(cards, *card)
		}
		respond(w, http.StatusCreated, cards)
	case "quizzes":
		if req.Count <= 0 {
			req.Count = 5
		}
		drafts, err := s.ai.GenerateQuizzes(ctx, chapter.Name, chapter.Content, req.Count)
		if err != nil {
			respondError(w, err)
			return
		}
		var quizzes []domain.Quiz
		for _, d := range drafts {
			quiz, err := s.db.CreateQuiz(domain.Quiz{
				ChapterID:     chapter.ID,
				Question:      d.Question,
				OptionA:       d.Options[0],
				OptionB:       d.Options[1],
				OptionC:       d.Options[2],
				OptionD:       d.Options[3],
				CorrectOption: string("abcd"[d.Correct]),
				Explanation:   d.Explanation,
			})
			if err != nil {
				respondError(w, err)
				return
			}
			quizzes = append(quizzes, *quiz)
		}
		respond(w, http.StatusCreated, quizzes)
	case "formulas":
		drafts, err := s.ai.GenerateFormulas(ctx, chapter.Name, chapter.Content)
		if err != nil {
			respondError(w, err)
			return
		}
		var formulas []domain.Formula
		for _, d := range drafts {
			variables, err := json.Marshal(d.Variables)
			if err != nil {
				respondError(w, err)
				return
			}
			formula, err := s.db.CreateFormula(domain.Formula{
				SubjectID:   chapter.SubjectID,
				ChapterID:   chapter.ID,
				Theme:       d.Theme,
				Title:       d.Title,
				Expression:  d.Formula,
				Description: d.Description,
				Variables:   string(variables),
			})
			if err != nil {
				respondError(w, err)
				return
			}
			formulas = append(formulas, *formula)
		}
		respond(w, http.StatusCreated, formulas)
	case "exercises":
		if req.Count <= 0 {
			req.Count = 5
		}
		drafts, err := s.ai.GenerateExercises(ctx, chapter.Name, chapter.Content, req.Count)
		if err != nil {
			respondError(w, err)
			return
		}
		var exercises []domain.Exercise
		for _, d := range drafts {
			exercise, err := s.db.CreateExercise(chapter.ID, d.Title, d.Statement, d.Solution, d.Difficulty)
			if err != nil {
				respondError(w, err)
				return
			}
			exercises = append(exercises, *exercise)
		}
		respond(w, http.StatusCreated, exercises)
	default:
		http.Error(w, "Unknown generation kind", http.StatusNotFound)
	}
}

func (s *Server) handleFlashcards() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			ChapterID  int64  `json:"chapter_id"`
			Question   string `json:"question"`
			Answer     string `json:"answer"`
			Difficulty string `json:"difficulty"`
		}
		if !decode(w, r, &req) {
			return
		}
		if req.Question == "" || req.Answer == "" {
			http.Error(w, "Question and answer cannot be empty", http.StatusBadRequest)
			return
		}
		if req.Difficulty == "" {
			req.Difficulty = "medium"
		}
		card, err := s.db.CreateFlashcard(req.ChapterID, req.Question, req.Answer, req.Difficulty, "")
		if err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusCreated, card)
	}
}

func (s *Server) handleFlashcard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, tail, err := pathID(r.URL.Path, "/api/flashcards/")
		if err != nil {
			http.Error(w, "Invalid flashcard ID", http.StatusBadRequest)
			return
		}

		switch {
		case tail == "" && r.Method == http.MethodGet:
			card, err := s.db.FlashcardByID(id)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, card)
		case tail == "" && r.Method == http.MethodDelete:
			if err := s.db.DeleteFlashcard(id); err != nil {
				respondError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case tail == "history" && r.Method == http.MethodGet:
			history, err := s.db.ReviewHistory(id)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, history)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleQuizzes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var quiz domain.Quiz
		if !decode(w, r, &quiz) {
			return
		}
		if quiz.Question == "" || quiz.CorrectOption == "" {
			http.Error(w, "Question and correct option cannot be empty", http.StatusBadRequest)
			return
		}
		created, err := s.db.CreateQuiz(quiz)
		if err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusCreated, created)
	}
}

func (s *Server) handleQuiz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, tail, err := pathID(r.URL.Path, "/api/quizzes/")
		if err != nil || tail != "" {
			http.Error(w, "Invalid quiz ID", http.StatusBadRequest)
			return
		}

		switch r.Method {
		case http.MethodGet:
			quiz, err := s.db.QuizByID(id)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, quiz)
		case http.MethodDelete:
			if err := s.db.DeleteQuiz(id); err != nil {
				respondError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if withinStr := r.URL.Query().Get("within"); withinStr != "" {
				within, err := strconv.Atoi(withinStr)
				if err != nil || within < 0 {
					http.Error(w, "Invalid within parameter", http.StatusBadRequest)
					return
				}
				events, err := s.db.UpcomingEvents(time.Now(), within)
				if err != nil {
					respondError(w, err)
					return
				}
				respond(w, http.StatusOK, events)
				return
			}
			events, err := s.db.Events()
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, events)
		case http.MethodPost:
			var req struct {
				SubjectID   int64     `json:"subject_id"`
				Title       string    `json:"title"`
				Type        string    `json:"type"`
				Date        time.Time `json:"date"`
				Description string    `json:"description"`
			}
			if !decode(w, r, &req) {
				return
			}
			if req.Title == "" || req.Date.IsZero() {
				http.Error(w, "Title and date cannot be empty", http.StatusBadRequest)
				return
			}
			event, err := s.db.CreateEvent(req.SubjectID, req.Title, req.Type, req.Date, req.Description)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusCreated, event)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, tail, err := pathID(r.URL.Path, "/api/events/")
		if err != nil || tail != "" {
			http.Error(w, "Invalid event ID", http.StatusBadRequest)
			return
		}

		switch r.Method {
		case http.MethodGet:
			event, err := s.db.EventByID(id)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, event)
		case http.MethodPut:
			var req struct {
				Title       string    `json:"title"`
				Type        string    `json:"type"`
				Date        time.Time `json:"date"`
				Description string    `json:"description"`
			}
			if !decode(w, r, &req) {
				return
			}
			if err := s.db.UpdateEvent(id, req.Title, req.Type, req.Date, req.Description); err != nil {
				respondError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case http.MethodDelete:
			if err := s.db.DeleteEvent(id); err != nil {
				respondError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleFormulas() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			query := r.URL.Query()
			var (
				formulas []domain.Formula
				err      error
			)
			switch {
			case query.Get("q") != "":
				formulas, err = s.db.SearchFormulas(query.Get("q"))
			case query.Get("theme") != "":
				formulas, err = s.db.FormulasByTheme(query.Get("theme"))
			default:
				formulas, err = s.db.Formulas()
			}
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, formulas)
		case http.MethodPost:
			var formula domain.Formula
			if !decode(w, r, &formula) {
				return
			}
			if formula.Title == "" || formula.Expression == "" {
				http.Error(w, "Title and expression cannot be empty", http.StatusBadRequest)
				return
			}
			created, err := s.db.CreateFormula(formula)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusCreated, created)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleFormula() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, tail, err := pathID(r.URL.Path, "/api/formulas/")
		if err != nil || tail != "" {
			http.Error(w, "Invalid formula ID", http.StatusBadRequest)
			return
		}

		switch r.Method {
		case http.MethodGet:
			formula, err := s.db.FormulaByID(id)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, formula)
		case http.MethodPut:
			var req struct {
				Theme       string `json:"theme"`
				Title       string `json:"title"`
				Expression  string `json:"expression"`
				Description string `json:"description"`
				Variables   string `json:"variables"`
			}
			if !decode(w, r, &req) {
				return
			}
			if err := s.db.UpdateFormula(id, req.Theme, req.Title, req.Expression, req.Description, req.Variables); err != nil {
				respondError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case http.MethodDelete:
			if err := s.db.DeleteFormula(id); err != nil {
				respondError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleExercises() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			var (
				exercises []domain.Exercise
				err       error
			)
			if status := r.URL.Query().Get("status"); status != "" {
				exercises, err = s.db.ExercisesByStatus(status)
			} else {
				exercises, err = s.db.Exercises()
			}
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, exercises)
		case http.MethodPost:
			var req struct {
				ChapterID  int64  `json:"chapter_id"`
				Title      string `json:"title"`
				Statement  string `json:"statement"`
				Solution   string `json:"solution"`
				Difficulty string `json:"difficulty"`
			}
			if !decode(w, r, &req) {
				return
			}
			if req.Title == "" || req.Statement == "" {
				http.Error(w, "Title and statement cannot be empty", http.StatusBadRequest)
				return
			}
			exercise, err := s.db.CreateExercise(req.ChapterID, req.Title, req.Statement, req.Solution, req.Difficulty)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusCreated, exercise)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleExercise() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, tail, err := pathID(r.URL.Path, "/api/exercises/")
		if err != nil {
			http.Error(w, "Invalid exercise ID", http.StatusBadRequest)
			return
		}

		switch {
		case tail == "" && r.Method == http.MethodGet:
			exercise, err := s.db.ExerciseByID(id)
			if err != nil {
				respondError(w, err)
				return
			}
			respond(w, http.StatusOK, exercise)
		case tail == "status" && r.Method == http.MethodPut:
			var req struct {
				Status string `json:"status"`
			}
			if !decode(w, r, &req) {
				return
			}
			if err := s.db.UpdateExerciseStatus(id, req.Status); err != nil {
				respondError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case tail == "" && r.Method == http.MethodDelete:
			if err := s.db.DeleteExercise(id); err != nil {
				respondError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// handleDueReview returns today's review session: every due card, plus
// cards pulled forward for subjects with an upcoming deadline, ordered
// by priority.
func (s *Server) handleDueReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		cards, err := s.selector.SelectDue(time.Now())
		if err != nil {
			respondError(w, err)
			return
		}
		if cards == nil {
			cards = []domain.DueFlashcard{}
		}
		respond(w, http.StatusOK, cards)
	}
}

// handlePostReview grades a flashcard and returns its new scheduling
// state.
func (s *Server) handlePostReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id, tail, err := pathID(r.URL.Path, "/api/review/")
		if err != nil || tail != "" {
			http.Error(w, "Invalid flashcard ID", http.StatusBadRequest)
			return
		}
		var req struct {
			Rating string `json:"rating"`
		}
		if !decode(w, r, &req) {
			return
		}
		card, err := s.reviews.RecordReview(r.Context(), id, req.Rating)
		if err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusOK, card)
	}
}

func (s *Server) handleStatistics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		stats, err := s.db.Statistics()
		if err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusOK, stats)
	}
}
