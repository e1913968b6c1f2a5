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

// CategoryReadRepository handles category read operations.
type CategoryReadRepository struct {
	db *sqlx.DB
}

func NewCategoryReadRepository(db *sqlx.DB) *CategoryReadRepository {
	return &CategoryReadRepository{db: db}
}

// GetByID returns the category with the given id, or nil if none exists.
func (r *CategoryReadRepository) GetByID(ctx context.Context, categoryID uuid.UUID) (*models.CategoryDB, error) {
	const query = `
		SELECT category_id, name, slug, created_at
		FROM categories
		WHERE category_id = $1
	`

	var category models.CategoryDB
	err := r.db.GetContext(ctx, &category, query, categoryID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{categoryID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &category, nil
}
