package service

import (
	"context"
	"strings"

	"quiztube/internal/domain"
	"quiztube/internal/dto"
	"quiztube/internal/logger"
	"quiztube/internal/pipeline"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const untitledQuizTitle = "Untitled Quiz"

// QuizPipeline is the slice of the generation pipeline the service
// depends on.
type QuizPipeline interface {
	Run(ctx context.Context, rawURL string) (*pipeline.Result, error)
}

// QuizService defines quiz creation and CRUD operations. Every
// operation is scoped to the calling owner.
type QuizService interface {
	CreateQuizFromURL(ctx context.Context, ownerID, rawURL string) (*dto.QuizResponse, error)
	GetQuizzes(ctx context.Context, ownerID string) ([]dto.QuizResponse, error)
	GetQuiz(ctx context.Context, ownerID, quizID string) (*dto.QuizResponse, error)
	UpdateQuiz(ctx context.Context, ownerID, quizID string, patch dto.PatchQuizRequest) (*dto.QuizResponse, error)
	DeleteQuiz(ctx context.Context, ownerID, quizID string) error
}

type quizServiceImpl struct {
	quizRepo  domain.QuizRepository
	txManager domain.TransactionManager
	pipeline  QuizPipeline
	// sem bounds concurrent pipeline runs; yt-dlp and whisper are too
	// heavy to run once per in-flight request without a limit.
	sem *semaphore.Weighted
}

func NewQuizService(quizRepo domain.QuizRepository, txManager domain.TransactionManager, pipe QuizPipeline, maxConcurrency int64) QuizService {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &quizServiceImpl{
		quizRepo:  quizRepo,
		txManager: txManager,
		pipeline:  pipe,
		sem:       semaphore.NewWeighted(maxConcurrency),
	}
}

// CreateQuizFromURL runs the generation pipeline and persists the
// resulting quiz aggregate atomically: the quiz and all its questions
// are created in one transaction or not at all.
func (s *quizServiceImpl) CreateQuizFromURL(ctx context.Context, ownerID, rawURL string) (*dto.QuizResponse, error) {
	appLogger := logger.Get()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, domain.NewInternalError("failed to acquire pipeline slot", err)
	}
	defer s.sem.Release(1)

	result, err := s.pipeline.Run(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	quiz := result.Quiz.ToQuiz(ownerID, result.CanonicalURL)
	if strings.TrimSpace(quiz.Title) == "" {
		quiz.Title = untitledQuizTitle
	}
	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.quizRepo.CreateQuiz(txCtx, quiz); err != nil {
			return domain.NewPersistenceError("failed to save quiz", err)
		}
		for _, question := range quiz.Questions {
			question.QuizID = quiz.ID
			if err := s.quizRepo.CreateQuestion(txCtx, question); err != nil {
				return domain.NewPersistenceError("failed to save question", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	appLogger.Info("quiz created",
		zap.String("quizID", quiz.ID),
		zap.String("ownerID", ownerID),
		zap.Int("questions", len(quiz.Questions)))

	response := toQuizResponse(quiz)
	return &response, nil
}

// GetQuizzes lists the caller's quizzes.
func (s *quizServiceImpl) GetQuizzes(ctx context.Context, ownerID string) ([]dto.QuizResponse, error) {
	quizzes, err := s.quizRepo.GetQuizzesByOwner(ctx, ownerID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list quizzes", err)
	}

	responses := make([]dto.QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, toQuizResponse(quiz))
	}
	return responses, nil
}

// GetQuiz fetches one quiz with an ownership check.
func (s *quizServiceImpl) GetQuiz(ctx context.Context, ownerID, quizID string) (*dto.QuizResponse, error) {
	quiz, err := s.getOwnedQuiz(ctx, ownerID, quizID)
	if err != nil {
		return nil, err
	}
	response := toQuizResponse(quiz)
	return &response, nil
}

// UpdateQuiz applies a partial update. Only title and description are
// editable; everything else is immutable after creation.
func (s *quizServiceImpl) UpdateQuiz(ctx context.Context, ownerID, quizID string, patch dto.PatchQuizRequest) (*dto.QuizResponse, error) {
	quiz, err := s.getOwnedQuiz(ctx, ownerID, quizID)
	if err != nil {
		return nil, err
	}

	if patch.Title == nil && patch.Description == nil {
		return nil, domain.ValidationErrors{domain.NewValidationError("title", "nothing to update")}
	}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, domain.ValidationErrors{domain.NewValidationError("title", "title cannot be empty")}
		}
		quiz.Title = *patch.Title
	}
	if patch.Description != nil {
		quiz.Description = *patch.Description
	}

	if err := s.quizRepo.UpdateQuiz(ctx, quiz); err != nil {
		return nil, domain.NewPersistenceError("failed to update quiz", err)
	}

	response := toQuizResponse(quiz)
	return &response, nil
}

// DeleteQuiz removes a quiz and its questions in one transaction.
func (s *quizServiceImpl) DeleteQuiz(ctx context.Context, ownerID, quizID string) error {
	quiz, err := s.getOwnedQuiz(ctx, ownerID, quizID)
	if err != nil {
		return err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.quizRepo.DeleteQuestionsByQuizID(txCtx, quiz.ID); err != nil {
			return domain.NewPersistenceError("failed to delete questions", err)
		}
		if err := s.quizRepo.DeleteQuiz(txCtx, quiz.ID); err != nil {
			return domain.NewPersistenceError("failed to delete quiz", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Get().Info("quiz deleted", zap.String("quizID", quizID), zap.String("ownerID", ownerID))
	return nil
}

func (s *quizServiceImpl) getOwnedQuiz(ctx context.Context, ownerID, quizID string) (*domain.Quiz, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("Quiz not found")
	}
	if quiz.OwnerID != ownerID {
		return nil, domain.NewForbiddenError("You do not have permission to access this quiz.")
	}
	return quiz, nil
}

func toQuizResponse(quiz *domain.Quiz) dto.QuizResponse {
	response := dto.QuizResponse{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		VideoURL:    quiz.VideoURL,
		CreatedAt:   quiz.CreatedAt,
		UpdatedAt:   quiz.UpdatedAt,
		Questions:   make([]dto.QuestionResponse, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		response.Questions = append(response.Questions, dto.QuestionResponse{
			ID:        q.ID,
			Title:     q.Title,
			Options:   q.Options,
			Answer:    q.Answer,
			CreatedAt: q.CreatedAt,
			UpdatedAt: q.UpdatedAt,
		})
	}
	return response
}
