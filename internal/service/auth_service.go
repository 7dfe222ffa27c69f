package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiztube/internal/config"
	"quiztube/internal/domain"
	"quiztube/internal/dto"
	"quiztube/internal/logger"
	"quiztube/internal/util"
	"quiztube/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	ErrInvalidJWTToken    = errors.New("invalid jwt token")
	ErrInvalidCredentials = errors.New("Username or password is not correct")
)

// AuthService defines the interface for authentication operations.
type AuthService interface {
	Register(ctx context.Context, req dto.RegistrationRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (accessToken string, refreshToken string, user *dto.UserResponse, err error)
	CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	RefreshToken(ctx context.Context, refreshTokenString string) (newAccessToken string, err error)
	Logout(ctx context.Context, refreshTokenString string) error
	AccessTokenTTL() time.Duration
	RefreshTokenTTL() time.Duration
}

type authServiceImpl struct {
	userRepo  domain.UserRepository
	blacklist domain.TokenBlacklist
	validator *validation.Validator
	authCfg   config.AuthConfig
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo domain.UserRepository, blacklist domain.TokenBlacklist, authCfg config.AuthConfig) (AuthService, error) {
	if len(authCfg.JWT.SecretKey) < 32 {
		return nil, errors.New("jwt secret key must be at least 32 bytes long")
	}
	return &authServiceImpl{
		userRepo:  userRepo,
		blacklist: blacklist,
		validator: validation.NewValidator(),
		authCfg:   authCfg,
	}, nil
}

func (s *authServiceImpl) AccessTokenTTL() time.Duration {
	return s.authCfg.JWT.AccessTokenTTL
}

func (s *authServiceImpl) RefreshTokenTTL() time.Duration {
	return s.authCfg.JWT.RefreshTokenTTL
}

// Register validates the request, checks uniqueness and creates the
// account with a bcrypt password hash. Taken usernames and emails are
// reported with a deliberately vague message.
func (s *authServiceImpl) Register(ctx context.Context, req dto.RegistrationRequest) (*dto.UserResponse, error) {
	appLogger := logger.Get()

	if errs := s.validator.ValidateRegistration(req); len(errs) > 0 {
		return nil, errs
	}

	existing, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, domain.NewInternalError("failed to check username", err)
	}
	if existing != nil {
		return nil, domain.ValidationErrors{domain.NewValidationError("username", "Invalid credentials.")}
	}

	existing, err = s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, domain.NewInternalError("failed to check email", err)
	}
	if existing != nil {
		return nil, domain.ValidationErrors{domain.NewValidationError("email", "Invalid credentials.")}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	user := &domain.User{
		ID:           util.NewULID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, domain.NewInternalError("failed to create user", err)
	}

	appLogger.Info("user registered", zap.String("userID", user.ID), zap.String("username", user.Username))
	return &dto.UserResponse{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

// Login verifies the credentials and issues an access/refresh token
// pair. Unknown usernames and wrong passwords are indistinguishable to
// the caller.
func (s *authServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (string, string, *dto.UserResponse, error) {
	appLogger := logger.Get()

	if errs := s.validator.ValidateLogin(req); len(errs) > 0 {
		return "", "", nil, errs
	}

	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return "", "", nil, domain.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return "", "", nil, domain.NewUnauthorizedError(ErrInvalidCredentials.Error(), nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", "", nil, domain.NewUnauthorizedError(ErrInvalidCredentials.Error(), nil)
	}

	accessToken, err := s.CreateJWT(ctx, user, s.authCfg.JWT.AccessTokenTTL, tokenTypeAccess)
	if err != nil {
		return "", "", nil, domain.NewInternalError("failed to create access token", err)
	}
	refreshToken, err := s.CreateJWT(ctx, user, s.authCfg.JWT.RefreshTokenTTL, tokenTypeRefresh)
	if err != nil {
		return "", "", nil, domain.NewInternalError("failed to create refresh token", err)
	}

	appLogger.Info("user logged in", zap.String("userID", user.ID))
	return accessToken, refreshToken, &dto.UserResponse{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

// CreateJWT signs a token of the given type for the user. Every token
// carries a ULID jti so refresh tokens can be revoked individually.
func (s *authServiceImpl) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	now := time.Now()
	claims := dto.AuthClaims{
		UserID:    user.ID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        util.NewULID(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.authCfg.JWT.SecretKey))
}

// ValidateJWT parses and verifies a token and returns its claims.
func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.authCfg.JWT.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			appLogger.Warn("JWT token expired", zap.Error(err))
		} else {
			appLogger.Warn("JWT validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	if claims, ok := token.Claims.(*dto.AuthClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}

// RefreshToken validates the refresh token, rejects revoked ones, and
// issues a new access token.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshTokenString string) (string, error) {
	appLogger := logger.Get()

	claims, err := s.ValidateJWT(ctx, refreshTokenString)
	if err != nil {
		return "", domain.NewUnauthorizedError("invalid refresh token", err)
	}
	if claims.TokenType != tokenTypeRefresh {
		return "", domain.NewUnauthorizedError("not a refresh token", nil)
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", domain.NewInternalError("failed to check token revocation", err)
	}
	if revoked {
		appLogger.Warn("revoked refresh token presented", zap.String("userID", claims.UserID))
		return "", domain.NewUnauthorizedError("refresh token has been revoked", nil)
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", domain.NewInternalError("failed to look up user for refresh", err)
	}
	if user == nil {
		return "", domain.NewNotFoundError(fmt.Sprintf("User %s not found for refresh token", claims.UserID))
	}

	newAccessToken, err := s.CreateJWT(ctx, user, s.authCfg.JWT.AccessTokenTTL, tokenTypeAccess)
	if err != nil {
		return "", domain.NewInternalError("failed to create new access token", err)
	}

	appLogger.Info("JWT token refreshed", zap.String("userID", user.ID))
	return newAccessToken, nil
}

// Logout revokes the refresh token server-side. Revocation is best
// effort: a missing or invalid token still logs the caller out, only
// the blacklist entry is skipped.
func (s *authServiceImpl) Logout(ctx context.Context, refreshTokenString string) error {
	appLogger := logger.Get()
	if refreshTokenString == "" {
		return nil
	}

	claims, err := s.ValidateJWT(ctx, refreshTokenString)
	if err != nil || claims.TokenType != tokenTypeRefresh {
		appLogger.Warn("logout with unusable refresh token", zap.Error(err))
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.blacklist.Revoke(ctx, claims.ID, ttl); err != nil {
		appLogger.Error("failed to blacklist refresh token", zap.String("userID", claims.UserID), zap.Error(err))
		return nil
	}

	appLogger.Info("refresh token revoked", zap.String("userID", claims.UserID))
	return nil
}
