package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/akazachkov/blog-platform/internal/logger"
	"github.com/akazachkov/blog-platform/internal/models"
)

// UserReadRepository handles user read operations.
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByUsernameOrEmail returns the first user matching the given username
// and/or email. Email comparison is case-insensitive. Returns nil without
// error when no user matches.
func (r *UserReadRepository) GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserDB, error) {
	const query = `
		SELECT user_id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE ($1::VARCHAR IS NULL OR username = $1)
		  AND ($2::VARCHAR IS NULL OR LOWER(email) = LOWER($2))
		LIMIT 1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username, email)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByID returns the user with the given id, or nil if none exists.
func (r *UserReadRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	const query = `
		SELECT user_id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UserWriteRepository handles user write operations.
type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user and returns the persisted record.
// A unique-constraint violation surfaces as a pg error; the service layer
// maps it to a duplicate error.
func (r *UserWriteRepository) Save(ctx context.Context, username, email, passwordHash string) (*models.UserDB, error) {
	const query = `
		INSERT INTO users (user_id, username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING user_id, username, email, password_hash, created_at, updated_at
	`
	args := []any{uuid.New(), username, email, passwordHash}

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &user, nil
}
