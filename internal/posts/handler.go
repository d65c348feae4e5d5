package posts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dstevanovic/blogposts/internal/instrumentation"
	"github.com/dstevanovic/blogposts/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostsResponse struct {
	Posts []Post `json:"posts"`
	Total int    `json:"total"`
}

type updatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type postsRepo interface {
	Add(ctx context.Context, post *Post) error
	AddAll(ctx context.Context, newPosts []Post) error
	Get(ctx context.Context, id primitive.ObjectID) (*Post, error)
	All(ctx context.Context) ([]Post, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, title, content string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Handler struct {
	repo  postsRepo
	instr *instrumentation.Instrumentation
}

func NewHandler(repo postsRepo, instr *instrumentation.Instrumentation) *Handler {
	return &Handler{
		repo:  repo,
		instr: instr,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/posts", handler.handleList).Methods("GET", "OPTIONS").Name("list-posts")
	router.HandleFunc("/posts", handler.handleAdd).Methods("POST", "OPTIONS").Name("new-post")
	router.HandleFunc("/posts/{id}", handler.handleGet).Methods("GET", "OPTIONS").Name("get-post")
	router.HandleFunc("/posts/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("update-post")
	router.HandleFunc("/posts/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-post")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	allPosts, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all posts: %s", err)
		http.Error(w, "get posts failed", http.StatusInternalServerError)
		return
	}
	if allPosts == nil {
		allPosts = []Post{}
	}

	postsRespJson, err := json.Marshal(PostsResponse{
		Posts: allPosts,
		Total: len(allPosts),
	})
	if err != nil {
		log.Errorf("marshal posts response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, postsRespJson)
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var newPost Post
	if err := json.NewDecoder(r.Body).Decode(&newPost); err != nil {
		log.Errorf("new post, unmarshal json params: %s", err)
		http.Error(w, "add post failed", http.StatusBadRequest)
		return
	}

	// id is assigned by the storage layer
	newPost.ID = primitive.NilObjectID

	if err := newPost.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Add(r.Context(), &newPost); err != nil {
		log.Errorf("add new post: %s", err)
		http.Error(w, "add post failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new post %s: [%s] added", newPost.ID.Hex(), newPost.Title)
	if handler.instr != nil {
		handler.instr.CounterPostsAdded.Inc()
	}

	newPostJson, err := json.Marshal(newPost)
	if err != nil {
		log.Errorf("marshal new post: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, newPostJson, http.StatusCreated)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDFromRequest(w, r)
	if !ok {
		return
	}

	post, err := handler.repo.Get(r.Context(), id)
	if errors.Is(err, ErrPostNotFound) {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("get post %s: %s", id.Hex(), err)
		http.Error(w, "get post failed", http.StatusInternalServerError)
		return
	}

	postJson, err := json.Marshal(post)
	if err != nil {
		log.Errorf("marshal post: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, postJson)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDFromRequest(w, r)
	if !ok {
		return
	}

	var updateReq updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		log.Errorf("update post, unmarshal json params: %s", err)
		http.Error(w, "update post failed", http.StatusBadRequest)
		return
	}

	err := handler.repo.Update(r.Context(), id, updateReq.Title, updateReq.Content)
	switch {
	case errors.Is(err, ErrPostNotFound):
		http.Error(w, "post not found", http.StatusNotFound)
		return
	case errors.Is(err, ErrTitleAndContentEmpty):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.Errorf("update post %s: %s", id.Hex(), err)
		http.Error(w, "update post failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("post %s updated", id.Hex())
	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDFromRequest(w, r)
	if !ok {
		return
	}

	err := handler.repo.Delete(r.Context(), id)
	switch {
	case errors.Is(err, ErrPostNotFound):
		http.Error(w, "post not found", http.StatusNotFound)
		return
	case err != nil:
		log.Errorf("delete post %s: %s", id.Hex(), err)
		http.Error(w, "delete post failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("post %s deleted", id.Hex())
	w.WriteHeader(http.StatusNoContent)
}

func postIDFromRequest(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	vars := mux.Vars(r)

	idStr := vars["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}

	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		http.Error(w, "error, invalid id", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}

	return id, true
}
