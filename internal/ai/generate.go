package ai

import (
	"context"
	"fmt"
)

// FlashcardDraft is a generated flashcard before persistence.
type FlashcardDraft struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty string `json:"difficulty"`
}

// QuizDraft is a generated multiple-choice question. Correct is the
// index (0-3) of the right option.
type QuizDraft struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

// FormulaDraft is a generated reference formula.
type FormulaDraft struct {
	Theme       string            `json:"theme"`
	Title       string            `json:"title"`
	Formula     string            `json:"formula"`
	Description string            `json:"description"`
	Variables   map[string]string `json:"variables"`
}

// ExerciseDraft is a generated practice problem.
type ExerciseDraft struct {
	Title      string `json:"title"`
	Statement  string `json:"statement"`
	Solution   string `json:"solution"`
	Difficulty string `json:"difficulty"`
}

const jsonRules = `Rules:
- Reply with strict, valid JSON only: no text before or after the array.
- Do not put literal newlines inside JSON strings; write "\n" instead.`

// GenerateFlashcards produces count flashcards from chapter content.
func (c *Client) GenerateFlashcards(ctx context.Context, chapterTitle, content string, count int) ([]FlashcardDraft, error) {
	prompt := fmt.Sprintf(`From the following course material on %q, generate %d flashcards as JSON.

Course material:
%s

%s

Expected JSON format:
[
  {
    "question": "Question...",
    "answer": "Answer...",
    "difficulty": "easy|medium|hard"
  }
]`, chapterTitle, count, content, jsonRules)

	reply, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var drafts []FlashcardDraft
	if err := parseArray(reply, &drafts); err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: no flashcards generated", ErrInvalidOutput)
	}
	for i := range drafts {
		if drafts[i].Question == "" || drafts[i].Answer == "" {
			return nil, fmt.Errorf("%w: flashcard %d missing question or answer", ErrInvalidOutput, i)
		}
		drafts[i].Difficulty = normalizeDifficulty(drafts[i].Difficulty)
	}
	return drafts, nil
}

// GenerateQuizzes produces count four-option multiple-choice questions.
func (c *Client) GenerateQuizzes(ctx context.Context, chapterTitle, content string, count int) ([]QuizDraft, error) {
	prompt := fmt.Sprintf(`From the following course material on %q, generate %d multiple-choice questions as JSON.

Course material:
%s

Each question has 4 options with exactly 1 correct; "correct" is the index (0-3) of the right option.
%s

Expected JSON format:
[
  {
    "question": "...",
    "options": ["A", "B", "C", "D"],
    "correct": 0,
    "explanation": "..."
  }
]`, chapterTitle, count, content, jsonRules)

	reply, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var drafts []QuizDraft
	if err := parseArray(reply, &drafts); err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: no quizzes generated", ErrInvalidOutput)
	}
	for i, d := range drafts {
		if d.Question == "" || len(d.Options) != 4 {
			return nil, fmt.Errorf("%w: quiz %d needs a question and 4 options", ErrInvalidOutput, i)
		}
		if d.Correct < 0 || d.Correct > 3 {
			return nil, fmt.Errorf("%w: quiz %d correct index %d out of range", ErrInvalidOutput, i, d.Correct)
		}
	}
	return drafts, nil
}

// GenerateFormulas extracts the key formulas from chapter content.
func (c *Client) GenerateFormulas(ctx context.Context, chapterTitle, content string) ([]FormulaDraft, error) {
	prompt := fmt.Sprintf(`From the following course material on %q, extract the key formulas as JSON, grouped by theme.

Course material:
%s

%s

Expected JSON format:
[
  {
    "theme": "...",
    "title": "...",
    "formula": "...",
    "description": "...",
    "variables": {"x": "meaning of x"}
  }
]`, chapterTitle, content, jsonRules)

	reply, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var drafts []FormulaDraft
	if err := parseArray(reply, &drafts); err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: no formulas generated", ErrInvalidOutput)
	}
	for i, d := range drafts {
		if d.Title == "" || d.Formula == "" {
			return nil, fmt.Errorf("%w: formula %d missing title or expression", ErrInvalidOutput, i)
		}
	}
	return drafts, nil
}

// GenerateExercises produces count practice problems with solutions.
func (c *Client) GenerateExercises(ctx context.Context, chapterTitle, content string, count int) ([]ExerciseDraft, error) {
	prompt := fmt.Sprintf(`From the following course material on %q, generate %d practice exercises with full worked solutions as JSON.

Course material:
%s

%s

Expected JSON format:
[
  {
    "title": "...",
    "statement": "...",
    "solution": "...",
    "difficulty": "easy|medium|hard"
  }
]`, chapterTitle, count, content, jsonRules)

	reply, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var drafts []ExerciseDraft
	if err := parseArray(reply, &drafts); err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: no exercises generated", ErrInvalidOutput)
	}
	for i := range drafts {
		if drafts[i].Title == "" || drafts[i].Statement == "" || drafts[i].Solution == "" {
			return nil, fmt.Errorf("%w: exercise %d incomplete", ErrInvalidOutput, i)
		}
		drafts[i].Difficulty = normalizeDifficulty(drafts[i].Difficulty)
	}
	return drafts, nil
}

// normalizeDifficulty coerces whatever the model produced onto the three
// difficulty tiers, defaulting to medium.
func normalizeDifficulty(difficulty string) string {
	switch difficulty {
	case "easy", "medium", "hard":
		return difficulty
	default:
		return "medium"
	}
}
