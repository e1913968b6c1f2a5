package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database.
// The password hash never leaves the server: handlers build their own
// response types from this struct and omit the hash entirely.
type UserDB struct {
	UserID       uuid.UUID `db:"user_id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
