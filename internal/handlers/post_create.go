package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/akazachkov/blog-platform/internal/logger"
	"github.com/akazachkov/blog-platform/internal/middlewares"
	"github.com/akazachkov/blog-platform/internal/models"
	"github.com/akazachkov/blog-platform/internal/services"
	"github.com/akazachkov/blog-platform/internal/validation"
)

// PostCreator defines the interface that the post creation service must implement.
type PostCreator interface {
	Create(ctx context.Context, authorID uuid.UUID, in services.CreatePostInput) (*models.PostWithRefs, error)
}

// CreatePostRequest represents the JSON body for post creation
// swagger:model CreatePostRequest
type CreatePostRequest struct {
	// Title
	// required: true
	// example: My First Post
	Title string `json:"title" validate:"required,max=200"`

	// Content
	// required: true
	Content string `json:"content" validate:"required"`

	// Category id
	// required: true
	Category string `json:"category" validate:"required,uuid"`

	// Tags
	Tags []string `json:"tags"`
}

// CreatePostErrorResponse represents an error response for post creation
// swagger:model CreatePostErrorResponse
type CreatePostErrorResponse struct {
	// Error message
	// example: Invalid category
	Error string `json:"error"`
}

// CreatePostValidationErrorResponse represents field-level validation failures
// swagger:model CreatePostValidationErrorResponse
type CreatePostValidationErrorResponse struct {
	Errors []validation.FieldError `json:"errors"`
}

// NewCreatePostHandler returns an HTTP handler for creating a post.
// @Summary Create a post
// @Description Creates a post owned by the authenticated user. The slug is derived from the title and made unique.
// @Tags posts
// @Accept json
// @Produce json
// @Param createPostRequest body handlers.CreatePostRequest true "Post creation request"
// @Success 201 {object} handlers.Post "Created post"
// @Failure 400 {object} handlers.CreatePostValidationErrorResponse "Validation failure"
// @Failure 401 {object} handlers.CreatePostErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.CreatePostErrorResponse "Internal server error"
// @Router /api/posts [post]
// @Security BearerAuth
func NewCreatePostHandler(svc PostCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(CreatePostErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		var req CreatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CreatePostErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		if fieldErrs := validation.Validate(req); len(fieldErrs) > 0 {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CreatePostValidationErrorResponse{
				Errors: fieldErrs,
			})
			return
		}

		categoryID, err := uuid.Parse(req.Category)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CreatePostErrorResponse{
				Error: "Invalid category",
			})
			return
		}

		post, err := svc.Create(r.Context(), user.UserID, services.CreatePostInput{
			Title:      req.Title,
			Content:    req.Content,
			CategoryID: categoryID,
			Tags:       req.Tags,
		})
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCategory):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(CreatePostErrorResponse{
					Error: "Invalid category",
				})
			default:
				logger.Log.Errorw("failed to create post", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(CreatePostErrorResponse{
					Error: "Server error creating post",
				})
			}
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(toPostResponse(post))
	}
}
