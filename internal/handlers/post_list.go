package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/akazachkov/blog-platform/internal/logger"
	"github.com/akazachkov/blog-platform/internal/models"
)

// PostLister defines the interface that the listing service must implement.
type PostLister interface {
	List(ctx context.Context, filter models.PostFilter, page, limit int) ([]models.PostWithRefs, models.Pagination, error)
}

// ListPostsResponse represents one page of posts
// swagger:model ListPostsResponse
type ListPostsResponse struct {
	Posts      []Post            `json:"posts"`
	Pagination models.Pagination `json:"pagination"`
}

// ListPostsErrorResponse represents an error response for the post listing
// swagger:model ListPostsErrorResponse
type ListPostsErrorResponse struct {
	// Error message
	// example: Server error fetching posts
	Error string `json:"error"`
}

// NewListPostsHandler returns an HTTP handler for listing published posts.
// @Summary List published posts
// @Description Returns published posts filtered by category, author, and a case-insensitive title/content search, with offset pagination.
// @Tags posts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param category query string false "Category id filter"
// @Param author query string false "Author id filter"
// @Param search query string false "Title/content substring search"
// @Success 200 {object} handlers.ListPostsResponse "One page of posts"
// @Failure 400 {object} handlers.ListPostsErrorResponse "Malformed filter id"
// @Failure 500 {object} handlers.ListPostsErrorResponse "Internal server error"
// @Router /api/posts [get]
func NewListPostsHandler(svc PostLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		q := r.URL.Query()

		page := 1
		if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
			page = v
		}
		limit := 10
		if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
			limit = v
		}

		var filter models.PostFilter

		if raw := q.Get("category"); raw != "" {
			categoryID, err := uuid.Parse(raw)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ListPostsErrorResponse{
					Error: "Invalid category ID",
				})
				return
			}
			filter.CategoryID = &categoryID
		}

		if raw := q.Get("author"); raw != "" {
			authorID, err := uuid.Parse(raw)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ListPostsErrorResponse{
					Error: "Invalid author ID",
				})
				return
			}
			filter.AuthorID = &authorID
		}

		if search := q.Get("search"); search != "" {
			filter.Search = &search
		}

		posts, pagination, err := svc.List(r.Context(), filter, page, limit)
		if err != nil {
			logger.Log.Errorw("failed to list posts", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ListPostsErrorResponse{
				Error: "Server error fetching posts",
			})
			return
		}

		respPosts := make([]Post, 0, len(posts))
		for i := range posts {
			respPosts = append(respPosts, toPostResponse(&posts[i]))
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ListPostsResponse{
			Posts:      respPosts,
			Pagination: pagination,
		})
	}
}
