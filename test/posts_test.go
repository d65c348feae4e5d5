package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dstevanovic/blogposts/internal/posts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func (s *IntegrationTestSuite) getPosts(ctx context.Context) posts.PostsResponse {
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/posts", serverEndpoint),
		nil,
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var postsResponse posts.PostsResponse
	require.NoError(s.T(),
		json.NewDecoder(resp.Body).Decode(&postsResponse),
	)

	return postsResponse
}

func (s *IntegrationTestSuite) createPostRequest(
	ctx context.Context,
	body []byte,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/posts", serverEndpoint),
		bytes.NewReader(body),
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	return s.httpClient.Do(req)
}

func (s *IntegrationTestSuite) updatePostRequest(
	ctx context.Context,
	postID string,
	title, content string,
) (*http.Response, error) {
	updateJson, err := json.Marshal(map[string]string{
		"title":   title,
		"content": content,
	})
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"PUT", fmt.Sprintf("%s/posts/%s", serverEndpoint, postID),
		bytes.NewReader(updateJson),
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	return s.httpClient.Do(req)
}

func (s *IntegrationTestSuite) deletePostRequest(
	ctx context.Context,
	postID string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		"DELETE", fmt.Sprintf("%s/posts/%s", serverEndpoint, postID),
		nil,
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")

	return s.httpClient.Do(req)
}

// findPostByID reads the post directly from the collection,
// bypassing the HTTP surface
func (s *IntegrationTestSuite) findPostByID(ctx context.Context, id primitive.ObjectID) (*posts.Post, error) {
	var post posts.Post
	if err := s.postsColl.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *IntegrationTestSuite) postsCount(ctx context.Context) int64 {
	count, err := s.postsColl.CountDocuments(ctx, bson.M{})
	require.NoError(s.T(), err)
	return count
}

func (s *IntegrationTestSuite) TestGetPosts() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbCount := s.postsCount(ctx)
	require.Equal(s.T(), int64(seedCount), dbCount)

	postsResp := s.getPosts(ctx)
	require.Len(s.T(), postsResp.Posts, int(dbCount))
	require.Equal(s.T(), int(dbCount), postsResp.Total)

	for _, post := range postsResp.Posts {
		assert.False(s.T(), post.ID.IsZero())
		assert.NotEmpty(s.T(), post.Title)
		assert.NotEmpty(s.T(), post.Content)
		assert.NotEmpty(s.T(), post.Author.FirstName)
		assert.NotEmpty(s.T(), post.Author.LastName)
		assert.False(s.T(), post.Created.IsZero())
	}

	// spot-check one returned post against a direct database lookup
	returnedPost := postsResp.Posts[0]
	storedPost, err := s.findPostByID(ctx, returnedPost.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), storedPost.Title, returnedPost.Title)
	assert.Equal(s.T(), storedPost.Content, returnedPost.Content)
	assert.Equal(s.T(), storedPost.Author, returnedPost.Author)
	assert.WithinDuration(s.T(), storedPost.Created, returnedPost.Created, time.Millisecond)
}

func (s *IntegrationTestSuite) TestCreatePost() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.T().Run("valid post", func(t *testing.T) {
		newPost := posts.NewFixturePost()
		postJson, err := json.Marshal(newPost)
		require.NoError(t, err)

		resp, err := s.createPostRequest(ctx, postJson)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var createdPost posts.Post
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&createdPost))

		// response echoes submitted fields plus a non-null id
		require.False(t, createdPost.ID.IsZero())
		assert.Equal(t, newPost.Author, createdPost.Author)
		assert.Equal(t, newPost.Title, createdPost.Title)
		assert.Equal(t, newPost.Content, createdPost.Content)
		assert.WithinDuration(t, newPost.Created, createdPost.Created, time.Millisecond)

		// follow-up direct lookup must match the submitted fields
		storedPost, err := s.findPostByID(ctx, createdPost.ID)
		require.NoError(t, err)
		assert.Equal(t, newPost.Author, storedPost.Author)
		assert.Equal(t, newPost.Title, storedPost.Title)
		assert.Equal(t, newPost.Content, storedPost.Content)
		assert.WithinDuration(t, newPost.Created, storedPost.Created, time.Millisecond)

		assert.Equal(t, int64(seedCount+1), s.postsCount(ctx))
	})

	s.T().Run("missing fields", func(t *testing.T) {
		resp, err := s.createPostRequest(ctx, []byte(`{"title":"only a title"}`))
		require.NoError(t, err)
		assert.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		assert.Equal(t, int64(seedCount+1), s.postsCount(ctx))
	})
}

func (s *IntegrationTestSuite) TestUpdatePost() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	targetPost := s.seeded[0]

	s.T().Run("existing post", func(t *testing.T) {
		resp, err := s.updatePostRequest(ctx, targetPost.ID.Hex(), "updated title", "updated content")
		require.NoError(t, err)
		assert.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		// follow-up direct lookup must reflect the new values,
		// other fields stay untouched
		storedPost, err := s.findPostByID(ctx, targetPost.ID)
		require.NoError(t, err)
		assert.Equal(t, "updated title", storedPost.Title)
		assert.Equal(t, "updated content", storedPost.Content)
		assert.Equal(t, targetPost.Author, storedPost.Author)
		assert.WithinDuration(t, targetPost.Created, storedPost.Created, time.Millisecond)
	})

	s.T().Run("unknown post id", func(t *testing.T) {
		resp, err := s.updatePostRequest(ctx, primitive.NewObjectID().Hex(), "updated title", "updated content")
		require.NoError(t, err)
		assert.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	s.T().Run("malformed post id", func(t *testing.T) {
		resp, err := s.updatePostRequest(ctx, "not-an-object-id", "updated title", "updated content")
		require.NoError(t, err)
		assert.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func (s *IntegrationTestSuite) TestDeletePost() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	targetPost := s.seeded[1]

	s.T().Run("existing post", func(t *testing.T) {
		resp, err := s.deletePostRequest(ctx, targetPost.ID.Hex())
		require.NoError(t, err)
		assert.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		// follow-up direct lookup must come back empty
		_, err = s.findPostByID(ctx, targetPost.ID)
		require.ErrorIs(t, err, mongo.ErrNoDocuments)

		assert.Equal(t, int64(seedCount-1), s.postsCount(ctx))
	})

	s.T().Run("unknown post id", func(t *testing.T) {
		resp, err := s.deletePostRequest(ctx, primitive.NewObjectID().Hex())
		require.NoError(t, err)
		assert.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
