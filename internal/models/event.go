package models

// PostEvent is published to Kafka after a post mutation.
type PostEvent struct {
	EventID   string `json:"event_id"`
	Type      string `json:"type"` // post.created, post.updated, post.deleted
	PostID    string `json:"post_id"`
	AuthorID  string `json:"author_id"`
	Slug      string `json:"slug"`
	Timestamp int64  `json:"timestamp"`
}
