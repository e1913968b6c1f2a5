package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/akazachkov/blog-platform/internal/logger"
	"github.com/akazachkov/blog-platform/internal/models"
)

// Error variables
var (
	ErrEmailAlreadyExists    = errors.New("user with this email already exists")
	ErrUsernameAlreadyExists = errors.New("user with this username already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsernameOrEmail(ctx context.Context, username *string, email *string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, email, passwordHash string) (*models.UserDB, error)
}

// TokenGenerator defines an interface for issuing bearer tokens.
type TokenGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID, email string) (string, error)
}

// AuthService handles registration and login.
type AuthService struct {
	reader UserReader
	writer UserWriter
	tokens TokenGenerator
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, tokens TokenGenerator) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		tokens: tokens,
	}
}

// Register creates a new user and returns a token for it.
// The duplicate pre-checks give friendly errors; the unique constraints in
// the database remain authoritative, so a race between two registrations
// with the same email or username still ends in the same duplicate error.
func (svc *AuthService) Register(ctx context.Context, username, email, password string) (string, *models.UserDB, error) {
	existing, err := svc.reader.GetByUsernameOrEmail(ctx, nil, &email)
	if err != nil {
		logger.Log.Errorw("failed to check email exists", "err", err)
		return "", nil, err
	}
	if existing != nil {
		return "", nil, ErrEmailAlreadyExists
	}

	existing, err = svc.reader.GetByUsernameOrEmail(ctx, &username, nil)
	if err != nil {
		logger.Log.Errorw("failed to check username exists", "err", err)
		return "", nil, err
	}
	if existing != nil {
		return "", nil, ErrUsernameAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return "", nil, err
	}

	user, err := svc.writer.Save(ctx, username, email, string(hashedPassword))
	if err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return "", nil, mapUniqueViolation(err)
	}

	token, err := svc.tokens.Generate(ctx, user.UserID, user.Email)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return "", nil, err
	}

	return token, user, nil
}

// Login authenticates a user by email and returns a token for it.
// An unknown email and a wrong password are indistinguishable to the caller.
func (svc *AuthService) Login(ctx context.Context, email, password string) (string, *models.UserDB, error) {
	user, err := svc.reader.GetByUsernameOrEmail(ctx, nil, &email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := svc.tokens.Generate(ctx, user.UserID, user.Email)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return "", nil, err
	}

	return token, user, nil
}

// mapUniqueViolation converts a postgres unique-constraint violation into
// the matching duplicate error, so a pre-check race does not surface as a 500.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch {
	case pgErr.ConstraintName == "users_email_key":
		return ErrEmailAlreadyExists
	case pgErr.ConstraintName == "users_username_key":
		return ErrUsernameAlreadyExists
	}
	return err
}
