package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryDB represents a category record in the database.
// Categories are a read-only taxonomy from the post-authoring flow's
// perspective: existence is validated, never created here.
type CategoryDB struct {
	CategoryID uuid.UUID `db:"category_id"`
	Name       string    `db:"name"`
	Slug       string    `db:"slug"`
	CreatedAt  time.Time `db:"created_at"`
}
