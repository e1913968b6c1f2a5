package services

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/akazachkov/blog-platform/internal/models"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	username := "alice"
	email := "alice@example.com"
	password := "password123"

	savedUser := &models.UserDB{
		UserID:   userID,
		Username: username,
		Email:    email,
	}

	tests := []struct {
		name       string
		setupMocks func(reader *MockUserReader, writer *MockUserWriter, tokens *MockTokenGenerator)
		wantToken  string
		wantUser   *models.UserDB
		wantErr    error
	}{
		{
			name: "success",
			setupMocks: func(reader *MockUserReader, writer *MockUserWriter, tokens *MockTokenGenerator) {
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), gomock.Nil(), &email).
					Return(nil, nil)
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), &username, gomock.Nil()).
					Return(nil, nil)
				writer.EXPECT().
					Save(gomock.Any(), username, email, gomock.Any()).
					DoAndReturn(func(_ context.Context, _, _, passwordHash string) (*models.UserDB, error) {
						// The stored hash must not be the plaintext password
						// and must verify against it.
						assert.NotEqual(t, password, passwordHash)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)))
						return savedUser, nil
					})
				tokens.EXPECT().
					Generate(gomock.Any(), userID, email).
					Return("token-123", nil)
			},
			wantToken: "token-123",
			wantUser:  savedUser,
		},
		{
			name: "email already exists",
			setupMocks: func(reader *MockUserReader, writer *MockUserWriter, tokens *MockTokenGenerator) {
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), gomock.Nil(), &email).
					Return(savedUser, nil)
			},
			wantErr: ErrEmailAlreadyExists,
		},
		{
			name: "username already exists",
			setupMocks: func(reader *MockUserReader, writer *MockUserWriter, tokens *MockTokenGenerator) {
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), gomock.Nil(), &email).
					Return(nil, nil)
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), &username, gomock.Nil()).
					Return(savedUser, nil)
			},
			wantErr: ErrUsernameAlreadyExists,
		},
		{
			name: "reader error",
			setupMocks: func(reader *MockUserReader, writer *MockUserWriter, tokens *MockTokenGenerator) {
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), gomock.Nil(), &email).
					Return(nil, assert.AnError)
			},
			wantErr: assert.AnError,
		},
		{
			name: "writer error",
			setupMocks: func(reader *MockUserReader, writer *MockUserWriter, tokens *MockTokenGenerator) {
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), gomock.Nil(), &email).
					Return(nil, nil)
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), &username, gomock.Nil()).
					Return(nil, nil)
				writer.EXPECT().
					Save(gomock.Any(), username, email, gomock.Any()).
					Return(nil, assert.AnError)
			},
			wantErr: assert.AnError,
		},
		{
			name: "duplicate email race surfaces as duplicate error",
			setupMocks: func(reader *MockUserReader, writer *MockUserWriter, tokens *MockTokenGenerator) {
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), gomock.Nil(), &email).
					Return(nil, nil)
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), &username, gomock.Nil()).
					Return(nil, nil)
				writer.EXPECT().
					Save(gomock.Any(), username, email, gomock.Any()).
					Return(nil, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
			},
			wantErr: ErrEmailAlreadyExists,
		},
		{
			name: "duplicate username race surfaces as duplicate error",
			setupMocks: func(reader *MockUserReader, writer *MockUserWriter, tokens *MockTokenGenerator) {
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), gomock.Nil(), &email).
					Return(nil, nil)
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), &username, gomock.Nil()).
					Return(nil, nil)
				writer.EXPECT().
					Save(gomock.Any(), username, email, gomock.Any()).
					Return(nil, &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})
			},
			wantErr: ErrUsernameAlreadyExists,
		},
		{
			name: "token generation error",
			setupMocks: func(reader *MockUserReader, writer *MockUserWriter, tokens *MockTokenGenerator) {
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), gomock.Nil(), &email).
					Return(nil, nil)
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), &username, gomock.Nil()).
					Return(nil, nil)
				writer.EXPECT().
					Save(gomock.Any(), username, email, gomock.Any()).
					Return(savedUser, nil)
				tokens.EXPECT().
					Generate(gomock.Any(), userID, email).
					Return("", assert.AnError)
			},
			wantErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewMockUserReader(ctrl)
			writer := NewMockUserWriter(ctrl)
			tokens := NewMockTokenGenerator(ctrl)
			tt.setupMocks(reader, writer, tokens)

			svc := NewAuthService(reader, writer, tokens)
			token, user, err := svc.Register(context.Background(), username, email, password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				assert.Nil(t, user)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
			assert.Equal(t, tt.wantUser, user)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	email := "alice@example.com"
	password := "password123"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)

	user := &models.UserDB{
		UserID:       userID,
		Username:     "alice",
		Email:        email,
		PasswordHash: string(hash),
	}

	tests := []struct {
		name       string
		password   string
		setupMocks func(reader *MockUserReader, tokens *MockTokenGenerator)
		wantToken  string
		wantErr    error
	}{
		{
			name:     "success",
			password: password,
			setupMocks: func(reader *MockUserReader, tokens *MockTokenGenerator) {
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), gomock.Nil(), &email).
					Return(user, nil)
				tokens.EXPECT().
					Generate(gomock.Any(), userID, email).
					Return("token-123", nil)
			},
			wantToken: "token-123",
		},
		{
			name:     "unknown email",
			password: password,
			setupMocks: func(reader *MockUserReader, tokens *MockTokenGenerator) {
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), gomock.Nil(), &email).
					Return(nil, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			password: "wrong-password",
			setupMocks: func(reader *MockUserReader, tokens *MockTokenGenerator) {
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), gomock.Nil(), &email).
					Return(user, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "reader error",
			password: password,
			setupMocks: func(reader *MockUserReader, tokens *MockTokenGenerator) {
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), gomock.Nil(), &email).
					Return(nil, errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
		{
			name:     "token generation error",
			password: password,
			setupMocks: func(reader *MockUserReader, tokens *MockTokenGenerator) {
				reader.EXPECT().
					GetByUsernameOrEmail(gomock.Any(), gomock.Nil(), &email).
					Return(user, nil)
				tokens.EXPECT().
					Generate(gomock.Any(), userID, email).
					Return("", assert.AnError)
			},
			wantErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewMockUserReader(ctrl)
			tokens := NewMockTokenGenerator(ctrl)
			tt.setupMocks(reader, tokens)

			svc := NewAuthService(reader, NewMockUserWriter(ctrl), tokens)
			token, got, err := svc.Login(context.Background(), email, tt.password)

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Empty(t, token)
				assert.Nil(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
			assert.Equal(t, user, got)
		})
	}
}
