package domain

import (
	"context"
	"time"
)

// UserRepository defines the persistence operations for users.
// Not-found is reported as (nil, nil); callers decide how to surface it.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// QuizRepository defines the persistence operations for quizzes and
// their questions.
type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz *Quiz) error
	CreateQuestion(ctx context.Context, question *Question) error
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
	GetQuizzesByOwner(ctx context.Context, ownerID string) ([]*Quiz, error)
	UpdateQuiz(ctx context.Context, quiz *Quiz) error
	DeleteQuestionsByQuizID(ctx context.Context, quizID string) error
	DeleteQuiz(ctx context.Context, id string) error
}

// TransactionManager runs a function inside a database transaction.
// The transactional handle travels in the context passed to fn.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TokenBlacklist records revoked refresh tokens until they expire on
// their own.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
