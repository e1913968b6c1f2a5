package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/akazachkov/blog-platform/internal/logger"
	"github.com/akazachkov/blog-platform/internal/models"
)

const postColumns = `
	p.post_id, p.title, p.content, p.author_id, p.category_id,
	p.slug, p.tags, p.published, p.created_at, p.updated_at,
	u.username AS author_username, c.name AS category_name
`

// PostReadRepository handles post read operations.
type PostReadRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewPostReadRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *PostReadRepository {
	return &PostReadRepository{db: db, txGetter: txGetter}
}

func (r *PostReadRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// List returns published posts matching the filter, newest first, together
// with the total match count for pagination.
func (r *PostReadRepository) List(ctx context.Context, filter models.PostFilter) ([]models.PostWithRefs, int, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.user_id = p.author_id
		JOIN categories c ON c.category_id = p.category_id
		WHERE p.published = TRUE
		  AND ($1::UUID IS NULL OR p.category_id = $1)
		  AND ($2::UUID IS NULL OR p.author_id = $2)
		  AND ($3::VARCHAR IS NULL OR p.title ILIKE '%' || $3 || '%' OR p.content ILIKE '%' || $3 || '%')
		ORDER BY p.created_at DESC
		LIMIT $4 OFFSET $5
	`
	const countQuery = `
		SELECT COUNT(*)
		FROM posts p
		WHERE p.published = TRUE
		  AND ($1::UUID IS NULL OR p.category_id = $1)
		  AND ($2::UUID IS NULL OR p.author_id = $2)
		  AND ($3::VARCHAR IS NULL OR p.title ILIKE '%' || $3 || '%' OR p.content ILIKE '%' || $3 || '%')
	`

	ex := r.executor(ctx)

	posts := []models.PostWithRefs{}
	err := sqlx.SelectContext(ctx, ex, &posts, query,
		filter.CategoryID, filter.AuthorID, filter.Search, filter.Limit, filter.Offset)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{filter.CategoryID, filter.AuthorID, filter.Search, filter.Limit, filter.Offset},
		"result", len(posts),
		"error", err,
	)

	if err != nil {
		return nil, 0, err
	}

	var total int
	err = sqlx.GetContext(ctx, ex, &total, countQuery,
		filter.CategoryID, filter.AuthorID, filter.Search)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(countQuery), " "),
		"args", []any{filter.CategoryID, filter.AuthorID, filter.Search},
		"result", total,
		"error", err,
	)

	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// GetByID returns the post with the given id joined with its references,
// or nil if none exists.
func (r *PostReadRepository) GetByID(ctx context.Context, postID uuid.UUID) (*models.PostWithRefs, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.user_id = p.author_id
		JOIN categories c ON c.category_id = p.category_id
		WHERE p.post_id = $1
	`

	var post models.PostWithRefs
	err := sqlx.GetContext(ctx, r.executor(ctx), &post, query, postID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{postID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &post, nil
}

// SlugExists reports whether a slug is already taken by a post other than
// excludeID. The unique index on posts.slug remains the authoritative guard;
// this probe exists to pick the next free suffix.
func (r *PostReadRepository) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM posts
			WHERE slug = $1 AND ($2::UUID IS NULL OR post_id <> $2)
		)
	`

	var exists bool
	err := sqlx.GetContext(ctx, r.executor(ctx), &exists, query, slug, excludeID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{slug, excludeID},
		"result", exists,
		"error", err,
	)

	if err != nil {
		return false, err
	}

	return exists, nil
}

// PostWriteRepository handles post write operations.
type PostWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewPostWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *PostWriteRepository {
	return &PostWriteRepository{db: db, txGetter: txGetter}
}

func (r *PostWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a new post and returns the persisted record.
func (r *PostWriteRepository) Save(ctx context.Context, post models.PostDB) (*models.PostDB, error) {
	const query = `
		INSERT INTO posts (post_id, title, content, author_id, category_id, slug, tags, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING post_id, title, content, author_id, category_id, slug, tags, published, created_at, updated_at
	`
	args := []any{
		uuid.New(), post.Title, post.Content, post.AuthorID,
		post.CategoryID, post.Slug, post.Tags, post.Published,
	}

	var saved models.PostDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &saved, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{post.Title, post.Slug, post.AuthorID},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &saved, nil
}

// Update rewrites the mutable fields of a post and bumps updated_at.
// The author reference is immutable and never touched here.
func (r *PostWriteRepository) Update(ctx context.Context, post models.PostDB) (*models.PostDB, error) {
	const query = `
		UPDATE posts
		SET title = $2, content = $3, category_id = $4, slug = $5, tags = $6, published = $7, updated_at = NOW()
		WHERE post_id = $1
		RETURNING post_id, title, content, author_id, category_id, slug, tags, published, created_at, updated_at
	`
	args := []any{
		post.PostID, post.Title, post.Content, post.CategoryID,
		post.Slug, post.Tags, post.Published,
	}

	var updated models.PostDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &updated, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{post.PostID, post.Title, post.Slug},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// Delete removes the post with the given id. Returns false if no row matched.
func (r *PostWriteRepository) Delete(ctx context.Context, postID uuid.UUID) (bool, error) {
	const query = `DELETE FROM posts WHERE post_id = $1`

	res, err := r.executor(ctx).ExecContext(ctx, query, postID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", query,
		"args", []any{postID},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
