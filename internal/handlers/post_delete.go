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
	"github.com/akazachkov/blog-platform/internal/services"
)

// PostDeleter defines the interface that the post deletion service must implement.
type PostDeleter interface {
	Delete(ctx context.Context, postID, userID uuid.UUID) error
}

// DeletePostResponse represents a successful deletion response
// swagger:model DeletePostResponse
type DeletePostResponse struct {
	// Success message
	// example: Post deleted successfully
	Message string `json:"message"`
}

// DeletePostErrorResponse represents an error response for a post deletion
// swagger:model DeletePostErrorResponse
type DeletePostErrorResponse struct {
	// Error message
	// example: Not authorized to delete this post
	Error string `json:"error"`
}

// NewDeletePostHandler returns an HTTP handler for deleting a post.
// Only the post's author may delete it.
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Param id path string true "Post id"
// @Success 200 {object} handlers.DeletePostResponse "Post deleted"
// @Failure 400 {object} handlers.DeletePostErrorResponse "Malformed post id"
// @Failure 401 {object} handlers.DeletePostErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.DeletePostErrorResponse "Not the author"
// @Failure 404 {object} handlers.DeletePostErrorResponse "Post not found"
// @Failure 500 {object} handlers.DeletePostErrorResponse "Internal server error"
// @Router /api/posts/{id} [delete]
// @Security BearerAuth
func NewDeletePostHandler(svc PostDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(DeletePostErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		postID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(DeletePostErrorResponse{
				Error: "Invalid post ID",
			})
			return
		}

		if err := svc.Delete(r.Context(), postID, user.UserID); err != nil {
			switch {
			case errors.Is(err, services.ErrPostNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(DeletePostErrorResponse{
					Error: "Post not found",
				})
			case errors.Is(err, services.ErrNotPostAuthor):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(DeletePostErrorResponse{
					Error: "Not authorized to delete this post",
				})
			default:
				logger.Log.Errorw("failed to delete post", "post_id", postID, "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(DeletePostErrorResponse{
					Error: "Server error deleting post",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(DeletePostResponse{
			Message: "Post deleted successfully",
		})
	}
}
