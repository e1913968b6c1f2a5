package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/akazachkov/blog-platform/internal/middlewares"
	"github.com/akazachkov/blog-platform/internal/models"
	"github.com/akazachkov/blog-platform/internal/services"
)

func TestUpdatePostHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	categoryID := uuid.New()
	postID := uuid.New()
	user := &models.UserDB{UserID: userID, Username: "alice", Email: "alice@example.com"}

	updated := &models.PostWithRefs{
		PostDB: models.PostDB{
			PostID:     postID,
			Title:      "New Title",
			Content:    "New content",
			AuthorID:   userID,
			CategoryID: categoryID,
			Slug:       "new-title",
			Published:  true,
		},
		AuthorUsername: "alice",
		CategoryName:   "Tech",
	}

	validBody := `{"title":"New Title","content":"New content","category":"` + categoryID.String() + `"}`

	newRequest := func(id, body string, authed bool) *http.Request {
		req := httptest.NewRequest(http.MethodPut, "/api/posts/"+id, bytes.NewBufferString(body))
		if authed {
			req = req.WithContext(middlewares.SetUserToContext(req.Context(), user))
		}
		return withURLParam(req, "id", id)
	}

	t.Run("success", func(t *testing.T) {
		svc := NewMockPostUpdater(ctrl)
		svc.EXPECT().
			Update(gomock.Any(), postID, userID, services.UpdatePostInput{
				Title:      "New Title",
				Content:    "New content",
				CategoryID: categoryID,
			}).
			Return(updated, nil)

		rec := httptest.NewRecorder()
		NewUpdatePostHandler(svc)(rec, newRequest(postID.String(), validBody, true))

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp Post
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "New Title", resp.Title)
		assert.Equal(t, "new-title", resp.Slug)
	})

	t.Run("partial fields pass through as pointers", func(t *testing.T) {
		published := false
		tags := []string{"go", "web"}
		body := `{"title":"New Title","content":"New content","category":"` + categoryID.String() +
			`","tags":["go","web"],"published":false}`

		svc := NewMockPostUpdater(ctrl)
		svc.EXPECT().
			Update(gomock.Any(), postID, userID, services.UpdatePostInput{
				Title:      "New Title",
				Content:    "New content",
				CategoryID: categoryID,
				Tags:       &tags,
				Published:  &published,
			}).
			Return(updated, nil)

		rec := httptest.NewRecorder()
		NewUpdatePostHandler(svc)(rec, newRequest(postID.String(), body, true))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc := NewMockPostUpdater(ctrl)

		rec := httptest.NewRecorder()
		NewUpdatePostHandler(svc)(rec, newRequest(postID.String(), validBody, false))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		svc := NewMockPostUpdater(ctrl)

		rec := httptest.NewRecorder()
		NewUpdatePostHandler(svc)(rec, newRequest("not-a-uuid", validBody, true))

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp UpdatePostErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Invalid post ID", resp.Error)
	})

	t.Run("validation failure", func(t *testing.T) {
		svc := NewMockPostUpdater(ctrl)

		rec := httptest.NewRecorder()
		NewUpdatePostHandler(svc)(rec, newRequest(postID.String(), `{}`, true))

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp UpdatePostValidationErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Errors)
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewMockPostUpdater(ctrl)
		svc.EXPECT().
			Update(gomock.Any(), postID, userID, gomock.Any()).
			Return(nil, services.ErrPostNotFound)

		rec := httptest.NewRecorder()
		NewUpdatePostHandler(svc)(rec, newRequest(postID.String(), validBody, true))

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var resp UpdatePostErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Post not found", resp.Error)
	})

	t.Run("not the author", func(t *testing.T) {
		svc := NewMockPostUpdater(ctrl)
		svc.EXPECT().
			Update(gomock.Any(), postID, userID, gomock.Any()).
			Return(nil, services.ErrNotPostAuthor)

		rec := httptest.NewRecorder()
		NewUpdatePostHandler(svc)(rec, newRequest(postID.String(), validBody, true))

		assert.Equal(t, http.StatusForbidden, rec.Code)

		var resp UpdatePostErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Not authorized to update this post", resp.Error)
	})

	t.Run("unknown category", func(t *testing.T) {
		svc := NewMockPostUpdater(ctrl)
		svc.EXPECT().
			Update(gomock.Any(), postID, userID, gomock.Any()).
			Return(nil, services.ErrInvalidCategory)

		rec := httptest.NewRecorder()
		NewUpdatePostHandler(svc)(rec, newRequest(postID.String(), validBody, true))

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp UpdatePostErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Invalid category", resp.Error)
	})

	t.Run("service error", func(t *testing.T) {
		svc := NewMockPostUpdater(ctrl)
		svc.EXPECT().
			Update(gomock.Any(), postID, userID, gomock.Any()).
			Return(nil, assert.AnError)

		rec := httptest.NewRecorder()
		NewUpdatePostHandler(svc)(rec, newRequest(postID.String(), validBody, true))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp UpdatePostErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Server error updating post", resp.Error)
	})
}
