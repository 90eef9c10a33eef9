package byte

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no byte matches the requested id,
// category or date window.
var ErrNotFound = errors.New("byte not found")

type Quiz struct {
	Question      string   `json:"question" db:"quiz_question"`
	Options       []string `json:"options" db:"quiz_options"`
	CorrectAnswer string   `json:"correctAnswer" db:"quiz_correct_answer"`
}

type Byte struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Summary       string    `json:"summary" db:"summary"`
	Example       string    `json:"example" db:"example"`
	Category      string    `json:"category" db:"category"`
	Tags          []string  `json:"tags" db:"tags"`
	DatePublished time.Time `json:"datePublished" db:"date_published"`
	Quiz          Quiz      `json:"quiz"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type CreateByteRequest struct {
	Title         string    `json:"title"`
	Summary       string    `json:"summary"`
	Example       string    `json:"example"`
	Category      string    `json:"category"`
	Tags          []string  `json:"tags"`
	DatePublished time.Time `json:"datePublished"`
	Quiz          Quiz      `json:"quiz"`
}

// ValidationError marks a malformed byte payload. Handlers translate it
// to a 400 rather than a generic server error.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

const (
	summaryMinLen = 100
	summaryMaxLen = 200
	quizMinOpts   = 2
	quizMaxOpts   = 4
)

// Validate checks a creation payload against the content rules: all
// fields present, summary/example within [100,200] characters, 2-4 quiz
// options and a correct answer that is one of them.
func (r *CreateByteRequest) Validate() error {
	if r.Title == "" || r.Summary == "" || r.Example == "" || r.Category == "" {
		return invalid("please provide title, summary, example and category")
	}
	if len(r.Summary) < summaryMinLen || len(r.Summary) > summaryMaxLen {
		return invalid("summary must be between %d and %d characters", summaryMinLen, summaryMaxLen)
	}
	if len(r.Example) < summaryMinLen || len(r.Example) > summaryMaxLen {
		return invalid("example must be between %d and %d characters", summaryMinLen, summaryMaxLen)
	}
	if r.Quiz.Question == "" || len(r.Quiz.Options) == 0 || r.Quiz.CorrectAnswer == "" {
		return invalid("quiz must include question, options and correctAnswer")
	}
	if len(r.Quiz.Options) < quizMinOpts || len(r.Quiz.Options) > quizMaxOpts {
		return invalid("quiz must have between %d and %d options", quizMinOpts, quizMaxOpts)
	}
	for _, opt := range r.Quiz.Options {
		if opt == r.Quiz.CorrectAnswer {
			return nil
		}
	}
	return invalid("correct answer must be one of the options")
}
