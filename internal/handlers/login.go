package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akazachkov/blog-platform/internal/logger"
	"github.com/akazachkov/blog-platform/internal/models"
	"github.com/akazachkov/blog-platform/internal/services"
	"github.com/akazachkov/blog-platform/internal/validation"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, email, password string) (string, *models.UserDB, error)
}

// LoginRequest represents the JSON body for user login
// swagger:model LoginRequest
type LoginRequest struct {
	// Email
	// required: true
	// example: john@example.com
	Email string `json:"email" validate:"required,email"`

	// Password
	// required: true
	// example: secret123
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login response
// swagger:model LoginResponse
type LoginResponse struct {
	// JWT token
	Token string `json:"token"`

	// Authenticated user
	User User `json:"user"`
}

// LoginErrorResponse represents an error response for login
// swagger:model LoginErrorResponse
type LoginErrorResponse struct {
	// Error message
	// example: Invalid credentials
	Error string `json:"error"`
}

// LoginValidationErrorResponse represents field-level validation failures
// swagger:model LoginValidationErrorResponse
type LoginValidationErrorResponse struct {
	Errors []validation.FieldError `json:"errors"`
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Authenticate user by email and password, returns a token and the user
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "Login request"
// @Success 200 {object} handlers.LoginResponse "Token and user returned"
// @Failure 400 {object} handlers.LoginValidationErrorResponse "Invalid request body"
// @Failure 401 {object} handlers.LoginErrorResponse "Invalid credentials"
// @Router /api/auth/login [post]
func NewLoginHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(LoginErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		if fieldErrs := validation.Validate(req); len(fieldErrs) > 0 {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(LoginValidationErrorResponse{
				Errors: fieldErrs,
			})
			return
		}

		token, user, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCredentials):
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(LoginErrorResponse{
					Error: "Invalid credentials",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(LoginErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(LoginResponse{
			Token: token,
			User:  toUserResponse(user),
		})
	}
}
