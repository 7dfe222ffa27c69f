package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quiztube/internal/config"
	"quiztube/internal/domain"
	"quiztube/internal/dto"
	"quiztube/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthService is a mock type for service.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegistrationRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (string, string, *dto.UserResponse, error) {
	args := m.Called(ctx, req)
	var user *dto.UserResponse
	if args.Get(2) != nil {
		user = args.Get(2).(*dto.UserResponse)
	}
	return args.String(0), args.String(1), user, args.Error(3)
}

func (m *MockAuthService) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	args := m.Called(ctx, user, ttl, tokenType)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthClaims), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshTokenString string) (string, error) {
	args := m.Called(ctx, refreshTokenString)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshTokenString string) error {
	args := m.Called(ctx, refreshTokenString)
	return args.Error(0)
}

func (m *MockAuthService) AccessTokenTTL() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

func (m *MockAuthService) RefreshTokenTTL() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

func authTestApp(authService *MockAuthService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	h := NewAuthHandler(authService, &config.Config{})
	app.Post("/auth/registration", h.Register)
	app.Post("/auth/login", h.Login)
	app.Post("/auth/token/refresh", h.RefreshToken)
	app.Post("/auth/logout", h.Logout)
	return app
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("Register", mock.Anything, dto.RegistrationRequest{
		Username:          "gopher",
		Email:             "gopher@example.com",
		Password:          "s3cret-password",
		ConfirmedPassword: "s3cret-password",
	}).Return(&dto.UserResponse{ID: "user123", Username: "gopher", Email: "gopher@example.com"}, nil)

	app := authTestApp(mockAuth)
	resp, err := app.Test(jsonRequest(http.MethodPost, "/auth/registration",
		`{"username":"gopher","email":"gopher@example.com","password":"s3cret-password","confirmed_password":"s3cret-password"}`), -1)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body dto.MessageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "User created successfully!", body.Detail)
}

func TestRegister_ValidationFailure(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("Register", mock.Anything, mock.Anything).
		Return(nil, domain.ValidationErrors{domain.NewValidationError("confirmed_password", "Passwords do not match")})

	app := authTestApp(mockAuth)
	resp, err := app.Test(jsonRequest(http.MethodPost, "/auth/registration",
		`{"username":"gopher","email":"gopher@example.com","password":"a","confirmed_password":"b"}`), -1)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_SetsBothCookies(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("Login", mock.Anything, dto.LoginRequest{Username: "gopher", Password: "s3cret-password"}).
		Return("access-token", "refresh-token", &dto.UserResponse{ID: "user123", Username: "gopher"}, nil)
	mockAuth.On("AccessTokenTTL").Return(15 * time.Minute)
	mockAuth.On("RefreshTokenTTL").Return(7 * 24 * time.Hour)

	app := authTestApp(mockAuth)
	resp, err := app.Test(jsonRequest(http.MethodPost, "/auth/login",
		`{"username":"gopher","password":"s3cret-password"}`), -1)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	accessCookie := cookieByName(resp, middleware.AccessTokenCookie)
	require.NotNil(t, accessCookie)
	assert.Equal(t, "access-token", accessCookie.Value)
	assert.True(t, accessCookie.HttpOnly)

	refreshCookie := cookieByName(resp, middleware.RefreshTokenCookie)
	require.NotNil(t, refreshCookie)
	assert.Equal(t, "refresh-token", refreshCookie.Value)
	assert.True(t, refreshCookie.HttpOnly)

	var body dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Login successfully!", body.Detail)
	assert.Equal(t, "user123", body.User.ID)
}

func TestLogin_BadCredentials(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("Login", mock.Anything, mock.Anything).
		Return("", "", nil, domain.NewUnauthorizedError("Username or password is not correct", nil))

	app := authTestApp(mockAuth)
	resp, err := app.Test(jsonRequest(http.MethodPost, "/auth/login",
		`{"username":"gopher","password":"wrong"}`), -1)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies(), "no cookies may be set on a failed login")
}

func TestRefreshToken_MissingCookie(t *testing.T) {
	app := authTestApp(new(MockAuthService))
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/auth/token/refresh", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body dto.MessageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Refresh token not found!", body.Detail)
}

func TestRefreshToken_InvalidToken(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("RefreshToken", mock.Anything, "stale-token").
		Return("", domain.NewUnauthorizedError("refresh token has been revoked", nil))

	app := authTestApp(mockAuth)
	req := httptest.NewRequest(http.MethodPost, "/auth/token/refresh", nil)
	req.AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: "stale-token"})

	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body dto.MessageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Refresh token invalid!", body.Detail)
}

func TestRefreshToken_SetsNewAccessCookie(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("RefreshToken", mock.Anything, "refresh-token").Return("new-access-token", nil)
	mockAuth.On("AccessTokenTTL").Return(15 * time.Minute)

	app := authTestApp(mockAuth)
	req := httptest.NewRequest(http.MethodPost, "/auth/token/refresh", nil)
	req.AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: "refresh-token"})

	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	accessCookie := cookieByName(resp, middleware.AccessTokenCookie)
	require.NotNil(t, accessCookie)
	assert.Equal(t, "new-access-token", accessCookie.Value)
}

func TestLogout_ExpiresCookies(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("Logout", mock.Anything, "refresh-token").Return(nil)

	app := authTestApp(mockAuth)
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: "refresh-token"})

	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	for _, name := range []string{middleware.AccessTokenCookie, middleware.RefreshTokenCookie} {
		cookie := cookieByName(resp, name)
		require.NotNil(t, cookie, "cookie %s must be expired explicitly", name)
		assert.Empty(t, cookie.Value)
		assert.True(t, cookie.Expires.Before(time.Now()))
	}

	var body dto.MessageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Log-Out successfully! All Tokens will be deleted. Refresh token is now invalid.", body.Detail)
	mockAuth.AssertExpectations(t)
}
