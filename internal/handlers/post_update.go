package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/akazachkov/blog-platform/internal/logger"
	"github.com/akazachkov/blog-platform/internal/middlewares"
	"github.com/akazachkov/blog-platform/internal/models"
	"github.com/akazachkov/blog-platform/internal/services"
	"github.com/akazachkov/blog-platform/internal/validation"
)

// PostUpdater defines the interface that the post update service must implement.
type PostUpdater interface {
	Update(ctx context.Context, postID, userID uuid.UUID, in services.UpdatePostInput) (*models.PostWithRefs, error)
}

// UpdatePostRequest represents the JSON body for a post update
// swagger:model UpdatePostRequest
type UpdatePostRequest struct {
	// Title
	// required: true
	Title string `json:"title" validate:"required,max=200"`

	// Content
	// required: true
	Content string `json:"content" validate:"required"`

	// Category id
	// required: true
	Category string `json:"category" validate:"required,uuid"`

	// Tags; omitted tags keep their stored value
	Tags *[]string `json:"tags"`

	// Published; omitted keeps the stored value
	Published *bool `json:"published"`
}

// UpdatePostErrorResponse represents an error response for a post update
// swagger:model UpdatePostErrorResponse
type UpdatePostErrorResponse struct {
	// Error message
	// example: Not authorized to update this post
	Error string `json:"error"`
}

// UpdatePostValidationErrorResponse represents field-level validation failures
// swagger:model UpdatePostValidationErrorResponse
type UpdatePostValidationErrorResponse struct {
	Errors []validation.FieldError `json:"errors"`
}

// NewUpdatePostHandler returns an HTTP handler for updating a post.
// Only the post's author may update it.
// @Summary Update a post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post id"
// @Param updatePostRequest body handlers.UpdatePostRequest true "Post update request"
// @Success 200 {object} handlers.Post "Updated post"
// @Failure 400 {object} handlers.UpdatePostValidationErrorResponse "Validation failure"
// @Failure 401 {object} handlers.UpdatePostErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.UpdatePostErrorResponse "Not the author"
// @Failure 404 {object} handlers.UpdatePostErrorResponse "Post not found"
// @Failure 500 {object} handlers.UpdatePostErrorResponse "Internal server error"
// @Router /api/posts/{id} [put]
// @Security BearerAuth
func NewUpdatePostHandler(svc PostUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(UpdatePostErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		postID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(UpdatePostErrorResponse{
				Error: "Invalid post ID",
			})
			return
		}

		var req UpdatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(UpdatePostErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		if fieldErrs := validation.Validate(req); len(fieldErrs) > 0 {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(UpdatePostValidationErrorResponse{
				Errors: fieldErrs,
			})
			return
		}

		categoryID, err := uuid.Parse(req.Category)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(UpdatePostErrorResponse{
				Error: "Invalid category",
			})
			return
		}

		post, err := svc.Update(r.Context(), postID, user.UserID, services.UpdatePostInput{
			Title:      req.Title,
			Content:    req.Content,
			CategoryID: categoryID,
			Tags:       req.Tags,
			Published:  req.Published,
		})
		if err != nil {
			switch {
			case errors.Is(err, services.ErrPostNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(UpdatePostErrorResponse{
					Error: "Post not found",
				})
			case errors.Is(err, services.ErrNotPostAuthor):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(UpdatePostErrorResponse{
					Error: "Not authorized to update this post",
				})
			case errors.Is(err, services.ErrInvalidCategory):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(UpdatePostErrorResponse{
					Error: "Invalid category",
				})
			default:
				logger.Log.Errorw("failed to update post", "post_id", postID, "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(UpdatePostErrorResponse{
					Error: "Server error updating post",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(toPostResponse(post))
	}
}
