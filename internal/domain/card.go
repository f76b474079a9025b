package domain

// Card is a question-answer entry parsed from a notes file, before it is
// attached to a chapter as a flashcard.
type Card struct {
	Question   string
	Answer     string
	Context    string
	Difficulty string // optional D: tag in the notes file
	Hash       string
}
