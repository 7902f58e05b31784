package model

import "time"

// CreationType tags the kind of artifact a generation produced.
type CreationType string

const (
	CreationTypeArticle      CreationType = "article"
	CreationTypeBlogTitle    CreationType = "blog-title"
	CreationTypeImage        CreationType = "image"
	CreationTypeResumeReview CreationType = "resume-review"
)

// Creation is one persisted generated artifact. Rows are written once and never
// updated, except for the publish flag on images.
type Creation struct {
	ID        string       `db:"id" json:"id"`
	UserID    string       `db:"user_id" json:"user_id"`
	Prompt    string       `db:"prompt" json:"prompt"`
	Content   string       `db:"content" json:"content"`
	Type      CreationType `db:"type" json:"type"`
	Publish   bool         `db:"publish" json:"publish"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}
