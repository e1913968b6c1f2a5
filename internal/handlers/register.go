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

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, username, email, password string) (string, *models.UserDB, error)
}

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Username
	// required: true
	// example: john_doe
	Username string `json:"username" validate:"required,min=3,max=30"`

	// Email
	// required: true
	// example: john@example.com
	Email string `json:"email" validate:"required,email"`

	// Password
	// required: true
	// example: secret123
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterResponse represents a successful registration response
// swagger:model RegisterResponse
type RegisterResponse struct {
	// JWT token
	Token string `json:"token"`

	// Registered user
	User User `json:"user"`
}

// RegisterErrorResponse represents an error response for registration
// swagger:model RegisterErrorResponse
type RegisterErrorResponse struct {
	// Error message
	// example: User with this email already exists
	Error string `json:"error"`
}

// RegisterValidationErrorResponse represents field-level validation failures
// swagger:model RegisterValidationErrorResponse
type RegisterValidationErrorResponse struct {
	Errors []validation.FieldError `json:"errors"`
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account with unique username and email. Password is hashed before storing. Returns a token and the user.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "User registration request"
// @Success 201 {object} handlers.RegisterResponse "User successfully registered"
// @Failure 400 {object} handlers.RegisterErrorResponse "Duplicate username or email / invalid request"
// @Router /api/auth/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(RegisterErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		if fieldErrs := validation.Validate(req); len(fieldErrs) > 0 {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(RegisterValidationErrorResponse{
				Errors: fieldErrs,
			})
			return
		}

		token, user, err := svc.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEmailAlreadyExists):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(RegisterErrorResponse{
					Error: "User with this email already exists",
				})
			case errors.Is(err, services.ErrUsernameAlreadyExists):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(RegisterErrorResponse{
					Error: "User with this username already exists",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(RegisterErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(RegisterResponse{
			Token: token,
			User:  toUserResponse(user),
		})
	}
}
