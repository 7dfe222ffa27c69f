package domain

import (
	"strings"
	"time"
)

// OptionsPerQuestion is the fixed number of answer options every
// question carries.
const OptionsPerQuestion = 4

// Quiz represents a quiz generated from a video, owned by one user.
type Quiz struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	VideoURL    string
	Questions   []*Question
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Question is a single multiple-choice question belonging to one quiz.
type Question struct {
	ID        string
	QuizID    string
	Position  int
	Title     string
	Options   []string
	Answer    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the question invariants. The option count is a
// validation failure, never a crash.
func (q *Question) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(q.Title) == "" {
		errs = append(errs, NewValidationError("question_title", "question title is required"))
	}
	if len(q.Options) != OptionsPerQuestion {
		errs = append(errs, NewValidationError("question_options", "Each question must have exactly 4 answer options."))
	}
	if strings.TrimSpace(q.Answer) == "" {
		errs = append(errs, NewValidationError("answer", "answer is required"))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate checks the quiz aggregate, including every question.
func (z *Quiz) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(z.Title) == "" {
		errs = append(errs, NewValidationError("title", "title is required"))
	}
	if z.OwnerID == "" {
		errs = append(errs, NewValidationError("owner", "owner is required"))
	}
	for _, q := range z.Questions {
		if err := q.Validate(); err != nil {
			if vErrs, ok := err.(ValidationErrors); ok {
				errs = append(errs, vErrs...)
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// GeneratedQuiz is the structured output the language model is asked to
// produce. Field names mirror the JSON schema in the generation prompt.
type GeneratedQuiz struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Questions   []GeneratedQuestion `json:"questions"`
}

type GeneratedQuestion struct {
	Title   string   `json:"question_title"`
	Options []string `json:"question_options"`
	Answer  string   `json:"answer"`
}

// ToQuiz converts the raw generation output into a quiz aggregate for
// the given owner and source URL. IDs and timestamps are assigned by
// the persistence layer.
func (g *GeneratedQuiz) ToQuiz(ownerID, videoURL string) *Quiz {
	quiz := &Quiz{
		OwnerID:     ownerID,
		Title:       g.Title,
		Description: g.Description,
		VideoURL:    videoURL,
	}
	for i, gq := range g.Questions {
		quiz.Questions = append(quiz.Questions, &Question{
			Position: i + 1,
			Title:    gq.Title,
			Options:  gq.Options,
			Answer:   gq.Answer,
		})
	}
	return quiz
}
