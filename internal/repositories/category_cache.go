package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/akazachkov/blog-platform/internal/logger"
	"github.com/akazachkov/blog-platform/internal/models"
)

// CategoryCacheRepository caches category lookups in Redis.
// Categories are read-only taxonomy, so a TTL-bounded cache in front of
// the database read is safe.
type CategoryCacheRepository struct {
	client *redis.Client
	exp    time.Duration
}

// NewCategoryCacheRepository creates a new cache repository with the given TTL.
func NewCategoryCacheRepository(client *redis.Client, expiration time.Duration) *CategoryCacheRepository {
	return &CategoryCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func categoryCacheKey(categoryID uuid.UUID) string {
	return fmt.Sprintf("category:%s", categoryID)
}

// GetByID fetches a cached category. Returns an error on a cache miss.
func (r *CategoryCacheRepository) GetByID(ctx context.Context, categoryID uuid.UUID) (*models.CategoryDB, error) {
	key := categoryCacheKey(categoryID)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		logger.Log.Infow(
			"key", key,
			"error", err,
		)
		if err == redis.Nil {
			return nil, fmt.Errorf("category %s not found in cache", categoryID)
		}
		return nil, err
	}

	var category models.CategoryDB
	if err := json.Unmarshal([]byte(val), &category); err != nil {
		logger.Log.Infow(
			"key", key,
			"value", val,
			"error", err,
		)
		return nil, err
	}

	logger.Log.Infow(
		"key", key,
		"result", category.Name,
		"error", nil,
	)

	return &category, nil
}

// SetByID caches a category with the repository TTL.
func (r *CategoryCacheRepository) SetByID(ctx context.Context, category *models.CategoryDB) error {
	key := categoryCacheKey(category.CategoryID)

	data, err := json.Marshal(category)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, r.exp).Err()

	logger.Log.Infow(
		"key", key,
		"result", category.Name,
		"error", err,
	)

	return err
}
