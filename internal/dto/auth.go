package dto

import (
	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims defines the custom claims carried by issued JWTs.
type AuthClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// RegistrationRequest is the body of POST /auth/registration.
type RegistrationRequest struct {
	Username          string `json:"username"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	ConfirmedPassword string `json:"confirmed_password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResponse is returned on successful login; tokens travel in
// HttpOnly cookies, not in the body.
type LoginResponse struct {
	Detail string       `json:"detail"`
	User   UserResponse `json:"user"`
}

// MessageResponse is a generic detail message.
type MessageResponse struct {
	Detail string `json:"detail"`
}
