package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiztube/internal/domain"
	"quiztube/internal/repository/models"
	"quiztube/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

func toDomainQuiz(m *models.Quiz, questions []*models.Question) *domain.Quiz {
	if m == nil {
		return nil
	}
	quiz := &domain.Quiz{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Description: m.Description,
		VideoURL:    m.VideoURL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for _, q := range questions {
		quiz.Questions = append(quiz.Questions, toDomainQuestion(q))
	}
	return quiz
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:        m.ID,
		QuizID:    m.QuizID,
		Position:  m.Position,
		Title:     m.Title,
		Options:   []string(m.Options),
		Answer:    m.Answer,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// CreateQuiz inserts the quiz row only; questions are inserted
// separately so the service can wrap both in one transaction.
func (a *QuizDatabaseAdapter) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	now := time.Now()
	model := &models.Quiz{
		ID:          util.NewULID(),
		OwnerID:     quiz.OwnerID,
		Title:       quiz.Title,
		Description: quiz.Description,
		VideoURL:    quiz.VideoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query := `INSERT INTO quizzes (id, owner_id, title, description, video_url, created_at, updated_at)
	          VALUES (:id, :owner_id, :title, :description, :video_url, :created_at, :updated_at)`

	_, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, model)
	if err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	quiz.ID = model.ID
	quiz.CreatedAt = model.CreatedAt
	quiz.UpdatedAt = model.UpdatedAt
	return nil
}

// CreateQuestion inserts one question row.
func (a *QuizDatabaseAdapter) CreateQuestion(ctx context.Context, question *domain.Question) error {
	now := time.Now()
	model := &models.Question{
		ID:        util.NewULID(),
		QuizID:    question.QuizID,
		Position:  question.Position,
		Title:     question.Title,
		Options:   models.StringSlice(question.Options),
		Answer:    question.Answer,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `INSERT INTO questions (id, quiz_id, position, question_title, question_options, answer, created_at, updated_at)
	          VALUES (:id, :quiz_id, :position, :question_title, :question_options, :answer, :created_at, :updated_at)`

	_, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, model)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	question.ID = model.ID
	question.CreatedAt = model.CreatedAt
	question.UpdatedAt = model.UpdatedAt
	return nil
}

// GetQuizByID retrieves a quiz with its questions ordered by position.
// Returns (nil, nil) when no row matches.
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	exec := GetExecutor(ctx, a.db)

	var quiz models.Quiz
	query := `SELECT id, owner_id, title, description, video_url, created_at, updated_at
	          FROM quizzes WHERE id = $1`
	err := exec.GetContext(ctx, &quiz, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by ID %s: %w", id, err)
	}

	questions, err := a.getQuestions(ctx, exec, id)
	if err != nil {
		return nil, err
	}
	return toDomainQuiz(&quiz, questions), nil
}

func (a *QuizDatabaseAdapter) getQuestions(ctx context.Context, exec DBTX, quizID string) ([]*models.Question, error) {
	var questions []*models.Question
	query := `SELECT id, quiz_id, position, question_title, question_options, answer, created_at, updated_at
	          FROM questions WHERE quiz_id = $1 ORDER BY position ASC`
	if err := exec.SelectContext(ctx, &questions, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to get questions for quiz %s: %w", quizID, err)
	}
	return questions, nil
}

// GetQuizzesByOwner lists a user's quizzes, newest first, each with its
// questions.
func (a *QuizDatabaseAdapter) GetQuizzesByOwner(ctx context.Context, ownerID string) ([]*domain.Quiz, error) {
	exec := GetExecutor(ctx, a.db)

	var quizModels []*models.Quiz
	query := `SELECT id, owner_id, title, description, video_url, created_at, updated_at
	          FROM quizzes WHERE owner_id = $1 ORDER BY created_at DESC`
	if err := exec.SelectContext(ctx, &quizModels, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list quizzes for owner %s: %w", ownerID, err)
	}

	quizzes := make([]*domain.Quiz, 0, len(quizModels))
	for _, m := range quizModels {
		questions, err := a.getQuestions(ctx, exec, m.ID)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, toDomainQuiz(m, questions))
	}
	return quizzes, nil
}

// UpdateQuiz persists title and description changes. All other quiz
// fields are immutable after creation.
func (a *QuizDatabaseAdapter) UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	quiz.UpdatedAt = time.Now()

	query := `UPDATE quizzes SET title = $1, description = $2, updated_at = $3 WHERE id = $4`
	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, quiz.Title, quiz.Description, quiz.UpdatedAt, quiz.ID)
	if err != nil {
		return fmt.Errorf("failed to update quiz %s: %w", quiz.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteQuestionsByQuizID removes all questions of a quiz.
func (a *QuizDatabaseAdapter) DeleteQuestionsByQuizID(ctx context.Context, quizID string) error {
	query := `DELETE FROM questions WHERE quiz_id = $1`
	if _, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, quizID); err != nil {
		return fmt.Errorf("failed to delete questions for quiz %s: %w", quizID, err)
	}
	return nil
}

// DeleteQuiz removes the quiz row.
func (a *QuizDatabaseAdapter) DeleteQuiz(ctx context.Context, id string) error {
	query := `DELETE FROM quizzes WHERE id = $1`
	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
