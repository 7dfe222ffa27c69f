package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuestion() *Question {
	return &Question{
		Title:   "Where do gophers live?",
		Options: []string{"Underground", "In trees", "In rivers", "On cliffs"},
		Answer:  "Underground",
	}
}

func TestQuestion_Validate_OptionCount(t *testing.T) {
	testCases := []struct {
		name    string
		options []string
		wantErr bool
	}{
		{"exactly four", []string{"a", "b", "c", "d"}, false},
		{"three", []string{"a", "b", "c"}, true},
		{"five", []string{"a", "b", "c", "d", "e"}, true},
		{"none", nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := validQuestion()
			q.Options = tc.options

			err := q.Validate()
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}

			var validationErrs ValidationErrors
			require.True(t, errors.As(err, &validationErrs))
			require.Len(t, validationErrs, 1)
			assert.Equal(t, "question_options", validationErrs[0].Field)
			assert.Equal(t, "Each question must have exactly 4 answer options.", validationErrs[0].Message)
		})
	}
}

func TestQuiz_Validate_CollectsQuestionErrors(t *testing.T) {
	bad := validQuestion()
	bad.Options = []string{"only", "three", "options"}

	quiz := &Quiz{
		OwnerID:   "01HOWNER",
		Title:     "Gopher Habits",
		Questions: []*Question{validQuestion(), bad},
	}

	err := quiz.Validate()
	var validationErrs ValidationErrors
	require.True(t, errors.As(err, &validationErrs))
	assert.Equal(t, "question_options", validationErrs[0].Field)
}

func TestQuiz_Validate_RequiresTitleAndOwner(t *testing.T) {
	quiz := &Quiz{}

	err := quiz.Validate()
	var validationErrs ValidationErrors
	require.True(t, errors.As(err, &validationErrs))

	fields := make([]string, 0, len(validationErrs))
	for _, ve := range validationErrs {
		fields = append(fields, ve.Field)
	}
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "owner")
}

func TestGeneratedQuiz_ToQuiz_AssignsPositions(t *testing.T) {
	generated := &GeneratedQuiz{
		Title:       "Gopher Habits",
		Description: "A quiz about gopher behavior.",
		Questions: []GeneratedQuestion{
			{Title: "Q1", Options: []string{"a", "b", "c", "d"}, Answer: "a"},
			{Title: "Q2", Options: []string{"a", "b", "c", "d"}, Answer: "b"},
		},
	}

	quiz := generated.ToQuiz("01HOWNER", "https://www.youtube.com/watch?v=dQw4w9WgXcQ")

	assert.Equal(t, "01HOWNER", quiz.OwnerID)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", quiz.VideoURL)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, 1, quiz.Questions[0].Position)
	assert.Equal(t, 2, quiz.Questions[1].Position)
	assert.Equal(t, "Q2", quiz.Questions[1].Title)
}
