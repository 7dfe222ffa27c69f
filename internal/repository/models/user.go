package models

import (
	"time"
)

// User is the database representation of an account.
type User struct {
	ID           string    `db:"id"` // ULID
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
