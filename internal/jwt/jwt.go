package jwt

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, wrong algorithm, malformed payload, or expiry.
// Callers cannot distinguish the reasons.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity payload embedded in every token.
type Claims struct {
	UserID uuid.UUID
	Email  string
}

// JWT issues and verifies HS256 bearer tokens.
type JWT struct {
	secretKey string
	exp       time.Duration
}

// Option configures a JWT instance.
type Option func(*JWT)

// WithSecretKey sets the signing secret.
func WithSecretKey(secret string) Option {
	return func(j *JWT) { j.secretKey = secret }
}

// WithExpiration sets the token lifetime.
func WithExpiration(exp time.Duration) Option {
	return func(j *JWT) { j.exp = exp }
}

// New creates a new JWT instance. Default expiration is 24 hours.
func New(opts ...Option) *JWT {
	j := &JWT{exp: 24 * time.Hour}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Generate creates a signed token embedding the user's id and email.
func (j *JWT) Generate(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"email":   email,
		"iat":     now.Unix(),
		"exp":     now.Add(j.exp).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// GetClaims parses the token string and returns the embedded identity.
func (j *JWT) GetClaims(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(j.secretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := claims["email"].(string)

	return &Claims{UserID: userID, Email: email}, nil
}

// Validate checks the token signature and expiry.
func (j *JWT) Validate(ctx context.Context, tokenString string) error {
	_, err := j.GetClaims(ctx, tokenString)
	return err
}

// GetTokenFromRequest extracts the token string from the Authorization header.
func (j *JWT) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}
