package rpc

import (
	"context"
	"errors"

	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/posts-crud/internal/db"
	"github.com/daniilsolovey/posts-crud/internal/posts"
)

//go:generate zenrpc

// PostService provides RPC methods for posts.
type PostService struct {
	zenrpc.Service
	manager *posts.Manager
}

func NewPostService(manager *posts.Manager) *PostService {
	return &PostService{manager: manager}
}

// newError turns storage errors into RPC errors with HTTP-like codes.
func newError(err error) error {
	var rpcErr *zenrpc.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &rpcErr):
		return err
	case errors.Is(err, posts.ErrUnfiltered):
		return zenrpc.NewStringError(400, "at least one filter is required")
	case errors.Is(err, db.ErrDecode), errors.Is(err, db.ErrQuery):
		return zenrpc.NewStringError(400, err.Error())
	case errors.Is(err, db.ErrConstraint):
		return zenrpc.NewStringError(409, err.Error())
	}
	return err
}

// Get returns a post by id.
//
//zenrpc:id post id
//zenrpc:return post
//zenrpc:400 id must be positive
//zenrpc:404 post not found
//zenrpc:500 internal server error
func (s *PostService) Get(ctx context.Context, id int) (*Post, error) {
	if id <= 0 {
		return nil, zenrpc.NewStringError(400, "id must be positive")
	}

	post, err := s.manager.ByID(ctx, id)
	if err != nil {
		return nil, newError(err)
	} else if post == nil {
		return nil, zenrpc.NewStringError(404, "post not found")
	}

	result := NewPost(*post)
	return &result, nil
}

// List returns posts matching the filter, ordered by id unless sortBy is set.
//
//zenrpc:filter optional filter
//zenrpc:return list of posts
//zenrpc:400 invalid filter
//zenrpc:500 internal server error
func (s *PostService) List(ctx context.Context, filter *PostFilter) ([]Post, error) {
	var f posts.Filter
	if filter != nil {
		f = filter.ToModel()
	}

	list, err := s.manager.List(ctx, f)
	if err != nil {
		return nil, newError(err)
	}

	return NewPosts(list), nil
}

// Create inserts a post. Omitted optional fields take their defaults.
//
//zenrpc:post post to create
//zenrpc:return created post
//zenrpc:400 title and body are required
//zenrpc:409 constraint violation
//zenrpc:500 internal server error
func (s *PostService) Create(ctx context.Context, post PostInput) (*Post, error) {
	if post.Title == "" || post.Body == "" {
		return nil, zenrpc.NewStringError(400, "title and body are required")
	}

	created, err := s.manager.Create(ctx, post.ToModel())
	if err != nil {
		return nil, newError(err)
	}

	result := NewPost(*created)
	return &result, nil
}

// InsertValues inserts one row from column/value pairs, e.g. {"title": "t", "body": "b", "author": null}.
//
//zenrpc:table=posts table name
//zenrpc:values column values keyed by column name
//zenrpc:return number of inserted rows
//zenrpc:400 unknown column or invalid value
//zenrpc:409 constraint violation
//zenrpc:500 internal server error
func (s *PostService) InsertValues(ctx context.Context, table *string, values map[string]interface{}) (int, error) {
	name := db.Tables.Post.Name
	if table != nil {
		name = *table
	}

	n, err := s.manager.InsertValues(ctx, name, values)
	return n, newError(err)
}

// Patch changes only the fields present in patch; null clears author or categoryId.
//
//zenrpc:id post id
//zenrpc:patch fields to change
//zenrpc:return patched post
//zenrpc:400 invalid patch
//zenrpc:404 post not found
//zenrpc:409 null for a required field
//zenrpc:500 internal server error
func (s *PostService) Patch(ctx context.Context, id int, patch db.PostPatch) (*Post, error) {
	if id <= 0 {
		return nil, zenrpc.NewStringError(400, "id must be positive")
	}
	if err := patch.Validate(); err != nil {
		return nil, newError(err)
	}

	post, err := s.manager.Patch(ctx, id, patch)
	if err != nil {
		return nil, newError(err)
	} else if post == nil {
		return nil, zenrpc.NewStringError(404, "post not found")
	}

	result := NewPost(*post)
	return &result, nil
}

// Delete removes posts matching the filter. At least one condition is required.
//
//zenrpc:filter posts to delete
//zenrpc:return number of deleted posts
//zenrpc:400 empty filter
//zenrpc:500 internal server error
func (s *PostService) Delete(ctx context.Context, filter PostFilter) (int, error) {
	n, err := s.manager.Delete(ctx, filter.ToModel())
	return n, newError(err)
}

// AuthorStats returns published posts count and good count per author.
//
//zenrpc:return stats ordered by good count
//zenrpc:500 internal server error
func (s *PostService) AuthorStats(ctx context.Context) ([]AuthorStat, error) {
	stats, err := s.manager.AuthorStats(ctx)
	if err != nil {
		return nil, newError(err)
	}

	return NewAuthorStats(stats), nil
}
