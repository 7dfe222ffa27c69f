package handler

import (
	"encoding/json"

	"quiztube/internal/domain"
	"quiztube/internal/dto"
	"quiztube/internal/logger"
	"quiztube/internal/middleware"
	"quiztube/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type QuizHandler struct {
	quizService service.QuizService
}

func NewQuizHandler(quizService service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

func callerID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return "", domain.NewUnauthorizedError("User ID not found in context", nil)
	}
	return userID, nil
}

// CreateQuiz generates a quiz from a video URL.
// @Summary Create a quiz from a YouTube URL
// @Tags quizzes
// @Accept json
// @Produce json
// @Param body body dto.CreateQuizRequest true "Video URL"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse "Pipeline failure with step-tagged message"
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "INVALID_REQUEST_BODY", Message: "Invalid request body", Status: fiber.StatusBadRequest,
		})
	}

	logger.Get().Info("quiz generation requested", zap.String("userID", userID), zap.String("url", req.URL))

	quiz, err := h.quizService.CreateQuizFromURL(c.Context(), userID, req.URL)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(quiz)
}

// GetQuizzes lists the caller's quizzes.
// @Summary List my quizzes
// @Tags quizzes
// @Produce json
// @Success 200 {array} dto.QuizResponse
// @Router /quizzes [get]
func (h *QuizHandler) GetQuizzes(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	quizzes, err := h.quizService.GetQuizzes(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(quizzes)
}

// GetQuiz fetches one quiz owned by the caller.
// @Summary Get a quiz
// @Tags quizzes
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	quiz, err := h.quizService.GetQuiz(c.Context(), userID, c.Params("id"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(quiz)
}

// PatchQuiz partially updates a quiz. Only title and description are
// editable; any other key in the body is rejected.
// @Summary Update quiz title or description
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param body body dto.PatchQuizRequest true "Fields to update"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /quizzes/{id} [patch]
func (h *QuizHandler) PatchQuiz(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "INVALID_REQUEST_BODY", Message: "Invalid request body", Status: fiber.StatusBadRequest,
		})
	}

	for key := range raw {
		if key != "title" && key != "description" {
			return domain.ValidationErrors{domain.NewValidationError(key, "Only title and description are editable!")}
		}
	}

	var patch dto.PatchQuizRequest
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "INVALID_REQUEST_BODY", Message: "Invalid request body", Status: fiber.StatusBadRequest,
		})
	}

	quiz, err := h.quizService.UpdateQuiz(c.Context(), userID, c.Params("id"), patch)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(quiz)
}

// DeleteQuiz removes a quiz and all its questions.
// @Summary Delete a quiz
// @Tags quizzes
// @Param id path string true "Quiz ID"
// @Success 204
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	if err := h.quizService.DeleteQuiz(c.Context(), userID, c.Params("id")); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
