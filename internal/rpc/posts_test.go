package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/posts-crud/internal/db"
	"github.com/daniilsolovey/posts-crud/internal/posts"
)

func noOpLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func errorCode(t *testing.T, resp zenrpc.Response) int {
	t.Helper()
	require.NotNil(t, resp.Error, "expected an error response")
	return resp.Error.Code
}

func TestInvoke_RejectsBeforeStorage(t *testing.T) {
	svc := NewPostService(nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		method string
		params string
		want   int
	}{
		{"unknown method", "drop", `{}`, zenrpc.MethodNotFound},
		{"bad params", RPC.PostService.Get, `{"id":"one"}`, zenrpc.InvalidParams},
		{"non positive id", RPC.PostService.Get, `{"id":0}`, 400},
		{"positional non positive id", RPC.PostService.Get, `[-3]`, 400},
		{"create without title", RPC.PostService.Create, `{"post":{"body":"b"}}`, 400},
		{"empty patch", RPC.PostService.Patch, `{"id":1,"patch":{}}`, 400},
		{"bad patch value", RPC.PostService.Patch, `{"id":1,"patch":{"goodCount":"many"}}`, zenrpc.InvalidParams},
		{"patch with empty title", RPC.PostService.Patch, `{"id":1,"patch":{"title":""}}`, 400},
		{"patch with negative good count", RPC.PostService.Patch, `{"id":1,"patch":{"goodCount":-1}}`, 400},
		{"patch with non positive id", RPC.PostService.Patch, `{"id":0,"patch":{"author":"Bob"}}`, 400},
		{"patch with null title", RPC.PostService.Patch, `{"id":1,"patch":{"title":null}}`, 409},
		{"patch with null published", RPC.PostService.Patch, `{"id":1,"patch":{"published":null}}`, 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := svc.Invoke(ctx, tt.method, json.RawMessage(tt.params))
			assert.Equal(t, tt.want, errorCode(t, resp))
		})
	}
}

func TestNewError(t *testing.T) {
	assert.NoError(t, newError(nil))

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"query", fmt.Errorf("op: %w", db.ErrQuery), 400},
		{"decode", fmt.Errorf("op: %w", db.ErrDecode), 400},
		{"unfiltered", posts.ErrUnfiltered, 400},
		{"constraint", fmt.Errorf("op: %w", db.ErrConstraint), 409},
		{"rpc error", zenrpc.NewStringError(404, "post not found"), 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rpcErr *zenrpc.Error
			require.True(t, errors.As(newError(tt.err), &rpcErr))
			assert.Equal(t, tt.code, rpcErr.Code)
		})
	}

	plain := errors.New("connection reset")
	assert.Equal(t, plain, newError(plain))
}

func TestSMD(t *testing.T) {
	info := PostService{}.SMD()

	for _, name := range []string{"Get", "List", "Create", "InsertValues", "Patch", "Delete", "AuthorStats"} {
		_, ok := info.Methods[name]
		assert.True(t, ok, name)
	}
	assert.Len(t, info.Methods, 7)
}

func TestPostFilter_ToModel(t *testing.T) {
	var filter PostFilter
	require.NoError(t, json.Unmarshal([]byte(`{"categoryIds":[1,3],"sortBy":"good_count","desc":true,"limit":5}`), &filter))

	f := filter.ToModel()
	assert.Equal(t, []int{1, 3}, f.CategoryIDs)
	assert.Equal(t, posts.SortByGoodCount, f.SortBy)
	assert.True(t, f.Desc)
	assert.Equal(t, 5, f.Limit)
	assert.Nil(t, f.Published)
}
