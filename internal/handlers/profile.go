package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/akazachkov/blog-platform/internal/middlewares"
)

// ProfileResponse represents a successful profile response
// swagger:model ProfileResponse
type ProfileResponse struct {
	// Authenticated user
	User User `json:"user"`
}

// ProfileErrorResponse represents an error response for the profile endpoint
// swagger:model ProfileErrorResponse
type ProfileErrorResponse struct {
	// Error message
	// example: Unauthorized
	Error string `json:"error"`
}

// NewProfileHandler returns an HTTP handler for the authenticated user's profile.
// The identity is resolved by the auth middleware; this handler only reads it
// back from the request context.
// @Summary Get current user profile
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.ProfileResponse "Authenticated user"
// @Failure 401 {object} handlers.ProfileErrorResponse "Unauthorized"
// @Router /api/auth/profile [get]
// @Security BearerAuth
func NewProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ProfileErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ProfileResponse{
			User: toUserResponse(user),
		})
	}
}
