package handlers

import (
	"time"

	"github.com/akazachkov/blog-platform/internal/models"
)

// User is the external representation of a user.
// It never carries the password hash.
// swagger:model User
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(user *models.UserDB) User {
	return User{
		ID:        user.UserID.String(),
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// PostAuthor is the resolved author reference on a post.
type PostAuthor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// PostCategory is the resolved category reference on a post.
type PostCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Post is the external representation of a post.
// swagger:model Post
type Post struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Author    PostAuthor   `json:"author"`
	Category  PostCategory `json:"category"`
	Slug      string       `json:"slug"`
	Tags      []string     `json:"tags"`
	Published bool         `json:"published"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func toPostResponse(post *models.PostWithRefs) Post {
	tags := []string(post.Tags)
	if tags == nil {
		tags = []string{}
	}
	return Post{
		ID:      post.PostID.String(),
		Title:   post.Title,
		Content: post.Content,
		Author: PostAuthor{
			ID:       post.AuthorID.String(),
			Username: post.AuthorUsername,
		},
		Category: PostCategory{
			ID:   post.CategoryID.String(),
			Name: post.CategoryName,
		},
		Slug:      post.Slug,
		Tags:      tags,
		Published: post.Published,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}
