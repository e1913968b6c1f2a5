package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Tags is an ordered list of post tags stored as a JSONB column.
type Tags []string

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return json.Marshal(Tags{})
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner.
func (t *Tags) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return errors.New("unsupported source type for tags")
	}
}

// PostDB represents a post record in the database.
type PostDB struct {
	PostID     uuid.UUID `db:"post_id"`
	Title      string    `db:"title"`
	Content    string    `db:"content"`
	AuthorID   uuid.UUID `db:"author_id"`
	CategoryID uuid.UUID `db:"category_id"`
	Slug       string    `db:"slug"`
	Tags       Tags      `db:"tags"`
	Published  bool      `db:"published"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// PostWithRefs is a post joined with the display fields of its
// author and category references.
type PostWithRefs struct {
	PostDB
	AuthorUsername string `db:"author_username"`
	CategoryName   string `db:"category_name"`
}

// PostFilter restricts a post listing.
type PostFilter struct {
	CategoryID *uuid.UUID
	AuthorID   *uuid.UUID
	Search     *string
	Offset     int
	Limit      int
}

// Pagination describes one page of a post listing.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalPosts  int  `json:"totalPosts"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}
