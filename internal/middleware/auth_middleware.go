package middleware

import (
	"strings"

	"quiztube/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	// AccessTokenCookie is the cookie carrying the access token.
	AccessTokenCookie = "access_token"
	// RefreshTokenCookie is the cookie carrying the refresh token.
	RefreshTokenCookie = "refresh_token"

	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // key for the UserID in fiber.Ctx locals
)

// resolveToken extracts the access token from the auth cookie, falling
// back to a Bearer Authorization header for non-browser clients.
func resolveToken(c *fiber.Ctx) string {
	if token := c.Cookies(AccessTokenCookie); token != "" {
		return token
	}
	authHeader := c.Get(AuthorizationHeader)
	if strings.HasPrefix(authHeader, BearerSchema) {
		return strings.TrimPrefix(authHeader, BearerSchema)
	}
	return ""
}

// Protected requires a valid access token and stores the caller's
// userID in the request locals.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := resolveToken(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_TOKEN",
				Message: "Authentication credentials were not provided",
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := authService.ValidateJWT(c.Context(), tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: "Invalid or expired token",
				Status:  fiber.StatusUnauthorized,
			})
		}

		if claims.TokenType != "access" {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN_TYPE",
				Message: "Invalid token type: expected access token",
				Status:  fiber.StatusForbidden,
			})
		}

		c.Locals(UserIDKey, claims.UserID)
		return c.Next()
	}
}
