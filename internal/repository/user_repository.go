package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiztube/internal/domain"
	"quiztube/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
}

func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// CreateUser inserts a new user.
func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	model := fromDomainUser(user)
	now := time.Now()
	model.CreatedAt = now
	model.UpdatedAt = now

	query := `INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
	          VALUES (:id, :username, :email, :password_hash, :created_at, :updated_at)`

	_, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, model)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.CreatedAt = model.CreatedAt
	user.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *sqlxUserRepository) getUserBy(ctx context.Context, column, value string) (*domain.User, error) {
	var user models.User
	query := fmt.Sprintf(`SELECT id, username, email, password_hash, created_at, updated_at
	          FROM users WHERE %s = $1`, column)

	err := GetExecutor(ctx, r.db).GetContext(ctx, &user, query, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return toDomainUser(&user), nil
}

// GetUserByID retrieves a user by internal ID. Returns (nil, nil) when
// no row matches.
func (r *sqlxUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getUserBy(ctx, "id", id)
}

func (r *sqlxUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUserBy(ctx, "username", username)
}

func (r *sqlxUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUserBy(ctx, "email", email)
}
