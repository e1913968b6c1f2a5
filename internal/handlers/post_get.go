package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/akazachkov/blog-platform/internal/logger"
	"github.com/akazachkov/blog-platform/internal/models"
	"github.com/akazachkov/blog-platform/internal/services"
)

// PostGetter defines the interface that the single-post service must implement.
type PostGetter interface {
	Get(ctx context.Context, postID uuid.UUID) (*models.PostWithRefs, error)
}

// GetPostErrorResponse represents an error response for fetching a post
// swagger:model GetPostErrorResponse
type GetPostErrorResponse struct {
	// Error message
	// example: Post not found
	Error string `json:"error"`
}

// NewGetPostHandler returns an HTTP handler for fetching a single post by id.
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path string true "Post id"
// @Success 200 {object} handlers.Post "The post"
// @Failure 400 {object} handlers.GetPostErrorResponse "Malformed post id"
// @Failure 404 {object} handlers.GetPostErrorResponse "Post not found"
// @Failure 500 {object} handlers.GetPostErrorResponse "Internal server error"
// @Router /api/posts/{id} [get]
func NewGetPostHandler(svc PostGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		postID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(GetPostErrorResponse{
				Error: "Invalid post ID",
			})
			return
		}

		post, err := svc.Get(r.Context(), postID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrPostNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(GetPostErrorResponse{
					Error: "Post not found",
				})
			default:
				logger.Log.Errorw("failed to fetch post", "post_id", postID, "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(GetPostErrorResponse{
					Error: "Server error fetching post",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(toPostResponse(post))
	}
}
