package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "posts"

var _ postsRepo = (*Repo)(nil)

type Repo struct {
	posts *mongo.Collection
}

func NewRepo(database *mongo.Database) *Repo {
	return &Repo{
		posts: database.Collection(CollectionName),
	}
}

func (r *Repo) Add(ctx context.Context, post *Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	if post.Created.IsZero() {
		post.Created = time.Now().UTC().Truncate(time.Millisecond)
	}

	res, err := r.posts.InsertOne(ctx, post)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return errors.New("unexpected inserted id type")
	}
	post.ID = id

	return nil
}

// AddAll bulk-inserts the given posts, used for fixture seeding
func (r *Repo) AddAll(ctx context.Context, newPosts []Post) error {
	if len(newPosts) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(newPosts))
	for i := range newPosts {
		docs = append(docs, newPosts[i])
	}

	if _, err := r.posts.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert posts: %w", err)
	}

	return nil
}

func (r *Repo) Get(ctx context.Context, id primitive.ObjectID) (*Post, error) {
	log.Tracef("getting post %s", id.Hex())

	var post Post
	err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}

	return &post, nil
}

func (r *Repo) All(ctx context.Context) ([]Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created", Value: -1}})

	cursor, err := r.posts.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}

	var allPosts []Post
	if err := cursor.All(ctx, &allPosts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	return allPosts, nil
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	count, err := r.posts.CountDocuments(ctx, bson.M{})
	if err != nil {
		return -1, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// Update replaces the title and/or content of the post; fields given
// as empty strings are left untouched
func (r *Repo) Update(ctx context.Context, id primitive.ObjectID, title, content string) error {
	if title == "" && content == "" {
		return ErrTitleAndContentEmpty
	}

	setFields := bson.M{}
	if title != "" {
		setFields["title"] = title
	}
	if content != "" {
		setFields["content"] = content
	}

	res, err := r.posts.UpdateByID(ctx, id, bson.M{"$set": setFields})
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}

	return nil
}
