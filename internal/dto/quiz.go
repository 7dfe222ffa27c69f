package dto

import "time"

// CreateQuizRequest is the body of POST /quizzes.
type CreateQuizRequest struct {
	URL string `json:"url"`
}

// PatchQuizRequest carries a partial quiz update. Only title and
// description are editable; handlers reject any other key.
type PatchQuizRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// QuestionResponse represents a question in API responses.
type QuestionResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"question_title"`
	Options   []string  `json:"question_options"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuizResponse represents a quiz aggregate in API responses.
type QuizResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	VideoURL    string             `json:"video_url"`
	Questions   []QuestionResponse `json:"questions"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
