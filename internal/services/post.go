package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/akazachkov/blog-platform/internal/logger"
	"github.com/akazachkov/blog-platform/internal/models"
)

// Error variables
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrInvalidCategory = errors.New("invalid category")
	ErrNotPostAuthor   = errors.New("not the post author")
)

// PostReader defines read operations for posts.
type PostReader interface {
	List(ctx context.Context, filter models.PostFilter) ([]models.PostWithRefs, int, error)
	GetByID(ctx context.Context, postID uuid.UUID) (*models.PostWithRefs, error)
	SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
}

// PostWriter defines write operations for posts.
type PostWriter interface {
	Save(ctx context.Context, post models.PostDB) (*models.PostDB, error)
	Update(ctx context.Context, post models.PostDB) (*models.PostDB, error)
	Delete(ctx context.Context, postID uuid.UUID) (bool, error)
}

// CategoryReader defines category lookup operations.
type CategoryReader interface {
	GetByID(ctx context.Context, categoryID uuid.UUID) (*models.CategoryDB, error)
}

// CategoryCacheReader caches category lookups.
type CategoryCacheReader interface {
	GetByID(ctx context.Context, categoryID uuid.UUID) (*models.CategoryDB, error)
	SetByID(ctx context.Context, category *models.CategoryDB) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// CreatePostInput carries the validated fields for a new post.
type CreatePostInput struct {
	Title      string
	Content    string
	CategoryID uuid.UUID
	Tags       []string
}

// UpdatePostInput carries the validated fields for a post update.
// Tags and Published keep their stored values when nil.
type UpdatePostInput struct {
	Title      string
	Content    string
	CategoryID uuid.UUID
	Tags       *[]string
	Published  *bool
}

// PostService handles post CRUD, slug generation, ownership enforcement,
// and post event publishing.
type PostService struct {
	readRepo    PostReader
	writeRepo   PostWriter
	categories  CategoryReader
	cacheRepo   CategoryCacheReader
	kafkaWriter KafkaWriter
}

// NewPostService creates a new PostService.
func NewPostService(
	readRepo PostReader,
	writeRepo PostWriter,
	categories CategoryReader,
	cacheRepo CategoryCacheReader,
	kafkaWriter KafkaWriter,
) *PostService {
	return &PostService{
		readRepo:    readRepo,
		writeRepo:   writeRepo,
		categories:  categories,
		cacheRepo:   cacheRepo,
		kafkaWriter: kafkaWriter,
	}
}

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapseRe = regexp.MustCompile(`[\s_-]+`)
)

// makeSlug derives a URL-safe slug from a title: lowercase, strip anything
// that is not a word character, space, or hyphen, collapse whitespace,
// underscore, and hyphen runs into a single hyphen, trim edge hyphens.
func makeSlug(title string) string {
	slug := strings.ToLower(title)
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugCollapseRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// uniqueSlug probes the store for the first free slug derived from title,
// suffixing -1, -2, ... on collision. excludeID skips the post's own row
// during updates. The unique index on posts.slug stays authoritative for
// races between concurrent writers.
func (s *PostService) uniqueSlug(ctx context.Context, title string, excludeID *uuid.UUID) (string, error) {
	base := makeSlug(title)
	slug := base
	for counter := 1; ; counter++ {
		exists, err := s.readRepo.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

// validateCategory checks that the referenced category exists, going through
// the cache first.
func (s *PostService) validateCategory(ctx context.Context, categoryID uuid.UUID) error {
	if s.cacheRepo != nil {
		if category, err := s.cacheRepo.GetByID(ctx, categoryID); err == nil && category != nil {
			return nil
		}
	}

	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		logger.Log.Errorw("failed to look up category", "category_id", categoryID, "error", err)
		return err
	}
	if category == nil {
		return ErrInvalidCategory
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetByID(ctx, category); err != nil {
			logger.Log.Errorw("failed to cache category", "category_id", categoryID, "error", err)
		}
	}

	return nil
}

// publishPostEvent publishes a post event to Kafka. Best effort: a missing
// writer or a publish failure never fails the request.
func (s *PostService) publishPostEvent(ctx context.Context, eventType string, post *models.PostDB) {
	if s.kafkaWriter == nil {
		return
	}

	event := models.PostEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		PostID:    post.PostID.String(),
		AuthorID:  post.AuthorID.String(),
		Slug:      post.Slug,
		Timestamp: time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal post event", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.PostID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish post event", "event_id", event.EventID, "error", err)
	} else {
		logger.Log.Infow("post event published", "event_id", event.EventID, "type", event.Type)
	}
}

// List returns one page of published posts matching the filter.
func (s *PostService) List(ctx context.Context, filter models.PostFilter, page, limit int) ([]models.PostWithRefs, models.Pagination, error) {
	filter.Offset = (page - 1) * limit
	filter.Limit = limit

	posts, total, err := s.readRepo.List(ctx, filter)
	if err != nil {
		logger.Log.Errorw("failed to list posts", "error", err)
		return nil, models.Pagination{}, err
	}

	totalPages := (total + limit - 1) / limit

	pagination := models.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalPosts:  total,
		HasNext:     page*limit < total,
		HasPrev:     page > 1,
	}

	return posts, pagination, nil
}

// Get returns a single post by id.
func (s *PostService) Get(ctx context.Context, postID uuid.UUID) (*models.PostWithRefs, error) {
	post, err := s.readRepo.GetByID(ctx, postID)
	if err != nil {
		logger.Log.Errorw("failed to get post", "post_id", postID, "error", err)
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// Create persists a new post owned by authorID and publishes a created event.
func (s *PostService) Create(ctx context.Context, authorID uuid.UUID, in CreatePostInput) (*models.PostWithRefs, error) {
	if err := s.validateCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, in.Title, nil)
	if err != nil {
		logger.Log.Errorw("failed to generate slug", "title", in.Title, "error", err)
		return nil, err
	}

	saved, err := s.writeRepo.Save(ctx, models.PostDB{
		Title:      in.Title,
		Content:    in.Content,
		AuthorID:   authorID,
		CategoryID: in.CategoryID,
		Slug:       slug,
		Tags:       models.Tags(in.Tags),
		Published:  true,
	})
	if err != nil {
		logger.Log.Errorw("failed to save post", "title", in.Title, "error", err)
		return nil, err
	}

	post, err := s.readRepo.GetByID(ctx, saved.PostID)
	if err != nil {
		logger.Log.Errorw("failed to reload post", "post_id", saved.PostID, "error", err)
		return nil, err
	}

	s.publishPostEvent(ctx, "post.created", saved)

	return post, nil
}

// Update mutates a post after enforcing that the requesting user owns it.
// The slug is regenerated only when the title changed.
func (s *PostService) Update(ctx context.Context, postID, userID uuid.UUID, in UpdatePostInput) (*models.PostWithRefs, error) {
	existing, err := s.readRepo.GetByID(ctx, postID)
	if err != nil {
		logger.Log.Errorw("failed to get post", "post_id", postID, "error", err)
		return nil, err
	}
	if existing == nil {
		return nil, ErrPostNotFound
	}

	if existing.AuthorID != userID {
		return nil, ErrNotPostAuthor
	}

	if err := s.validateCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	slug := existing.Slug
	if in.Title != existing.Title {
		slug, err = s.uniqueSlug(ctx, in.Title, &postID)
		if err != nil {
			logger.Log.Errorw("failed to generate slug", "title", in.Title, "error", err)
			return nil, err
		}
	}

	tags := existing.Tags
	if in.Tags != nil {
		tags = models.Tags(*in.Tags)
	}
	published := existing.Published
	if in.Published != nil {
		published = *in.Published
	}

	updated, err := s.writeRepo.Update(ctx, models.PostDB{
		PostID:     postID,
		Title:      in.Title,
		Content:    in.Content,
		AuthorID:   existing.AuthorID,
		CategoryID: in.CategoryID,
		Slug:       slug,
		Tags:       tags,
		Published:  published,
	})
	if err != nil {
		logger.Log.Errorw("failed to update post", "post_id", postID, "error", err)
		return nil, err
	}
	if updated == nil {
		return nil, ErrPostNotFound
	}

	post, err := s.readRepo.GetByID(ctx, postID)
	if err != nil {
		logger.Log.Errorw("failed to reload post", "post_id", postID, "error", err)
		return nil, err
	}

	s.publishPostEvent(ctx, "post.updated", updated)

	return post, nil
}

// Delete removes a post after enforcing that the requesting user owns it.
func (s *PostService) Delete(ctx context.Context, postID, userID uuid.UUID) error {
	existing, err := s.readRepo.GetByID(ctx, postID)
	if err != nil {
		logger.Log.Errorw("failed to get post", "post_id", postID, "error", err)
		return err
	}
	if existing == nil {
		return ErrPostNotFound
	}

	if existing.AuthorID != userID {
		return ErrNotPostAuthor
	}

	deleted, err := s.writeRepo.Delete(ctx, postID)
	if err != nil {
		logger.Log.Errorw("failed to delete post", "post_id", postID, "error", err)
		return err
	}
	if !deleted {
		return ErrPostNotFound
	}

	s.publishPostEvent(ctx, "post.deleted", &existing.PostDB)

	return nil
}
