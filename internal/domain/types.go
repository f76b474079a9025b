package domain

import "time"

// Subject is a top-level course of study. Deleting a subject cascades to
// its chapters, flashcards, quizzes, events and formulas.
type Subject struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// Chapter is a unit of course material belonging to exactly one subject.
type Chapter struct {
	ID        int64     `json:"id"`
	SubjectID int64     `json:"subject_id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	FilePath  string    `json:"file_path"` // original file the content was extracted from, if any
	CreatedAt time.Time `json:"created_at"`
}

// Flashcard is a reviewable study item. The scheduling fields are owned
// by the review scheduler and must not be mutated elsewhere.
type Flashcard struct {
	ID         int64  `json:"id"`
	ChapterID  int64  `json:"chapter_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty string `json:"difficulty"` // easy, medium or hard, as authored or generated

	EasinessFactor float64   `json:"easiness_factor"`
	Interval       int       `json:"interval"` // days until the next review
	Repetitions    int       `json:"repetitions"` // consecutive non-hard reviews since the last reset
	NextReviewDate time.Time `json:"next_review_date"`
	ReviewCount    int       `json:"review_count"` // total reviews ever recorded, never reset

	SourceHash string    `json:"source_hash,omitempty"` // content hash when imported from a notes file
	CreatedAt  time.Time `json:"created_at"`
}

// DueFlashcard is a flashcard selected for a review session, with the
// chapter and subject names denormalized for display and the priority
// boost assigned by the due-set selector.
type DueFlashcard struct {
	Flashcard
	SubjectID     int64   `json:"subject_id"`
	ChapterName   string  `json:"chapter_name"`
	SubjectName   string  `json:"subject_name"`
	PriorityBoost float64 `json:"priority_boost"`
}

// ReviewHistoryEntry is an append-only record of a single review.
// Success is true iff the rating was not "hard".
type ReviewHistoryEntry struct {
	ID          int64     `json:"id"`
	FlashcardID int64     `json:"flashcard_id"`
	ReviewedAt  time.Time `json:"reviewed_at"`
	Rating      string    `json:"rating"`
	Success     bool      `json:"success"`
}

// Quiz is a four-option multiple-choice question.
type Quiz struct {
	ID            int64     `json:"id"`
	ChapterID     int64     `json:"chapter_id"`
	Question      string    `json:"question"`
	OptionA       string    `json:"option_a"`
	OptionB       string    `json:"option_b"`
	OptionC       string    `json:"option_c"`
	OptionD       string    `json:"option_d"`
	CorrectOption string    `json:"correct_option"` // a, b, c or d
	Explanation   string    `json:"explanation"`
	CreatedAt     time.Time `json:"created_at"`
}

// Event is a calendar deadline for a subject, e.g. a test or an exam.
type Event struct {
	ID          int64     `json:"id"`
	SubjectID   int64     `json:"subject_id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"` // test, kholle, exam or other
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventWithSubject carries the subject name for display.
type EventWithSubject struct {
	Event
	SubjectName string `json:"subject_name"`
}

// Formula is a reference formula attached to a subject, optionally
// scoped to a chapter, grouped by theme.
type Formula struct {
	ID          int64     `json:"id"`
	SubjectID   int64     `json:"subject_id"`
	ChapterID   int64     `json:"chapter_id,omitempty"` // zero when the formula is subject-wide
	Theme       string    `json:"theme"`
	Title       string    `json:"title"`
	Expression  string    `json:"expression"`
	Description string    `json:"description"`
	Variables   string    `json:"variables"` // JSON object describing each variable
	CreatedAt   time.Time `json:"created_at"`
}

// Exercise is a practice problem with a worked solution.
type Exercise struct {
	ID         int64     `json:"id"`
	ChapterID  int64     `json:"chapter_id"`
	Title      string    `json:"title"`
	Statement  string    `json:"statement"`
	Solution   string    `json:"solution"`
	Difficulty string    `json:"difficulty"`
	Status     string    `json:"status"` // todo, in_progress or done
	CreatedAt  time.Time `json:"created_at"`
}

// SubjectReviewStats aggregates review outcomes for one subject.
type SubjectReviewStats struct {
	SubjectID   int64   `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	Count       int     `json:"count"`
	SuccessRate float64 `json:"success_rate"`
}

// DayCount is the number of reviews recorded on a calendar day.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Statistics summarizes study activity across the whole database.
type Statistics struct {
	TotalFlashcards  int                  `json:"total_flashcards"`
	TotalReviews     int                  `json:"total_reviews"`
	SuccessRate      float64              `json:"success_rate"`
	ReviewsBySubject []SubjectReviewStats `json:"reviews_by_subject"`
	ReviewsByDay     []DayCount           `json:"reviews_by_day"`
}
