package posts

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrPostNotFound         = errors.New("post not found")
	ErrPostFieldsMissing    = errors.New("post author, title or content missing")
	ErrTitleAndContentEmpty = errors.New("post title and content empty")
)

type Author struct {
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName" bson:"lastName"`
}

type Post struct {
	ID      primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Author  Author             `json:"author" bson:"author"`
	Title   string             `json:"title" bson:"title"`
	Content string             `json:"content" bson:"content"`
	Created time.Time          `json:"created" bson:"created"`
}

// Validate checks the fields required on creation; Created
// is optional and defaulted by the repo
func (p *Post) Validate() error {
	if p.Author.FirstName == "" || p.Author.LastName == "" {
		return ErrPostFieldsMissing
	}
	if p.Title == "" || p.Content == "" {
		return ErrPostFieldsMissing
	}
	return nil
}
