package posts

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// NewFixturePost returns a randomized post value; it is not persisted,
// insertion is a separate step
func NewFixturePost() Post {
	now := time.Now().UTC()
	return Post{
		Author: Author{
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
		},
		Title:   gofakeit.Sentence(5),
		Content: gofakeit.Paragraph(1, 4, 10, " "),
		// mongo stores timestamps with millisecond precision
		Created: gofakeit.DateRange(now.AddDate(0, 0, -30), now).Truncate(time.Millisecond),
	}
}

func NewFixturePosts(count int) []Post {
	fixturePosts := make([]Post, 0, count)
	for i := 0; i < count; i++ {
		fixturePosts = append(fixturePosts, NewFixturePost())
	}
	return fixturePosts
}
