package handler

import (
	"time"

	"quiztube/internal/config"
	"quiztube/internal/dto"
	"quiztube/internal/logger"
	"quiztube/internal/middleware"
	"quiztube/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService service.AuthService
	appConfig   *config.Config
}

func NewAuthHandler(authService service.AuthService, appConfig *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		appConfig:   appConfig,
	}
}

func (h *AuthHandler) setTokenCookie(c *fiber.Ctx, name, value string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   h.appConfig.Auth.CookieSecure,
		SameSite: "Lax",
		Path:     "/",
	})
}

func (h *AuthHandler) expireTokenCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.appConfig.Auth.CookieSecure,
		SameSite: "Lax",
		Path:     "/",
	})
}

// Register creates a new account.
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegistrationRequest true "Registration data"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /auth/registration [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "INVALID_REQUEST_BODY", Message: "Invalid request body", Status: fiber.StatusBadRequest,
		})
	}

	if _, err := h.authService.Register(c.Context(), req); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Detail: "User created successfully!"})
}

// Login authenticates a user and stores the JWT pair in HttpOnly
// cookies.
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "INVALID_REQUEST_BODY", Message: "Invalid request body", Status: fiber.StatusBadRequest,
		})
	}

	accessToken, refreshToken, user, err := h.authService.Login(c.Context(), req)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, middleware.AccessTokenCookie, accessToken, h.authService.AccessTokenTTL())
	h.setTokenCookie(c, middleware.RefreshTokenCookie, refreshToken, h.authService.RefreshTokenTTL())

	return c.Status(fiber.StatusOK).JSON(dto.LoginResponse{
		Detail: "Login successfully!",
		User:   *user,
	})
}

// RefreshToken issues a new access token from the refresh cookie.
// @Summary Refresh the access token
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.MessageResponse "Refresh token not found"
// @Failure 401 {object} dto.MessageResponse "Refresh token invalid"
// @Router /auth/token/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies(middleware.RefreshTokenCookie)
	if refreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.MessageResponse{Detail: "Refresh token not found!"})
	}

	newAccessToken, err := h.authService.RefreshToken(c.Context(), refreshToken)
	if err != nil {
		logger.Get().Warn("failed to refresh token", zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(dto.MessageResponse{Detail: "Refresh token invalid!"})
	}

	h.setTokenCookie(c, middleware.AccessTokenCookie, newAccessToken, h.authService.AccessTokenTTL())

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"detail": "Token refreshed",
		"access": newAccessToken,
	})
}

// Logout revokes the refresh token and expires both auth cookies.
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies(middleware.RefreshTokenCookie)
	if err := h.authService.Logout(c.Context(), refreshToken); err != nil {
		// Revocation problems are logged in the service; the user is
		// logged out regardless.
		logger.Get().Warn("logout revocation failed", zap.Error(err))
	}

	h.expireTokenCookie(c, middleware.AccessTokenCookie)
	h.expireTokenCookie(c, middleware.RefreshTokenCookie)

	return c.Status(fiber.StatusOK).JSON(dto.MessageResponse{
		Detail: "Log-Out successfully! All Tokens will be deleted. Refresh token is now invalid.",
	})
}
