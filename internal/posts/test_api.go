package posts

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ postsRepo = (*TestApi)(nil)

// TestApi is an in-memory posts repo used in handler unit tests
type TestApi struct {
	posts map[primitive.ObjectID]*Post
}

func NewTestApi() *TestApi {
	return &TestApi{
		posts: make(map[primitive.ObjectID]*Post),
	}
}

func (api *TestApi) Add(_ context.Context, post *Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	api.posts[post.ID] = post
	return nil
}

func (api *TestApi) AddAll(ctx context.Context, newPosts []Post) error {
	for i := range newPosts {
		post := newPosts[i]
		if err := api.Add(ctx, &post); err != nil {
			return err
		}
	}
	return nil
}

func (api *TestApi) Get(_ context.Context, id primitive.ObjectID) (*Post, error) {
	post, ok := api.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (api *TestApi) All(context.Context) ([]Post, error) {
	var allPosts []Post
	for _, p := range api.posts {
		allPosts = append(allPosts, *p)
	}
	sort.Slice(allPosts, func(i, j int) bool {
		return allPosts[i].Created.After(allPosts[j].Created)
	})
	return allPosts, nil
}

func (api *TestApi) Count(context.Context) (int64, error) {
	return int64(len(api.posts)), nil
}

func (api *TestApi) Update(_ context.Context, id primitive.ObjectID, title, content string) error {
	if title == "" && content == "" {
		return ErrTitleAndContentEmpty
	}
	post, ok := api.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	if title != "" {
		post.Title = title
	}
	if content != "" {
		post.Content = content
	}
	return nil
}

func (api *TestApi) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := api.posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(api.posts, id)
	return nil
}
