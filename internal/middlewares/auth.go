package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/akazachkov/blog-platform/internal/jwt"
	"github.com/akazachkov/blog-platform/internal/logger"
	"github.com/akazachkov/blog-platform/internal/models"
)

// Tokener defines the token operations needed by the middleware.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// UserGetter resolves a token's user id to a stored user.
type UserGetter interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// authErrorResponse is the JSON body for authentication failures.
type authErrorResponse struct {
	Error string `json:"error"`
}

// AuthMiddleware resolves the request's bearer token into a verified user
// and attaches it to the request context. Terminal outcomes only:
// a missing header is reported distinctly, but an unverifiable token and a
// vanished user produce the same message so callers cannot tell them apart.
func AuthMiddleware(tokener Tokener, users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Infow("authentication failed: no token", "err", err)
				writeAuthError(w, "Access denied. No token provided.")
				return
			}

			claims, err := tokener.GetClaims(ctx, tokenString)
			if err != nil {
				logger.Log.Infow("authentication failed: invalid token", "err", err)
				writeAuthError(w, "Token is not valid")
				return
			}

			user, err := users.GetByID(ctx, claims.UserID)
			if err != nil {
				logger.Log.Errorw("authentication failed: user lookup error", "user_id", claims.UserID, "err", err)
				writeAuthError(w, "Token is not valid")
				return
			}
			if user == nil {
				// User deleted after token issuance. Same message as an
				// invalid token on purpose.
				logger.Log.Infow("authentication failed: user not found", "user_id", claims.UserID)
				writeAuthError(w, "Token is not valid")
				return
			}

			next.ServeHTTP(w, r.WithContext(SetUserToContext(ctx, user)))
		})
	}
}

func writeAuthError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(authErrorResponse{Error: msg})
}

// userContextKey is an unexported type for the identity context key.
type userContextKey struct{}

var userKey = userContextKey{}

// SetUserToContext stores the authenticated user in the context.
func SetUserToContext(ctx context.Context, user *models.UserDB) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext retrieves the authenticated user from the context.
// Returns nil if the request did not pass AuthMiddleware.
func GetUserFromContext(ctx context.Context) *models.UserDB {
	user, _ := ctx.Value(userKey).(*models.UserDB)
	return user
}
