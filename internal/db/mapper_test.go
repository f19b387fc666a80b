package db

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRow(t *testing.T) {
	post := Post{Title: "t", Body: "b", Author: ptr("Bob")}

	full := NewRow(post, false)
	assert.Equal(t, map[string]interface{}{
		"title": "t", "body": "b", "category_id": nil,
		"author": "Bob", "published": false, "good_count": 0,
	}, full.Map())
	assert.Equal(t, Columns.Post.Title, full[0].Column)

	partial := NewRow(post, true)
	assert.Equal(t, map[string]interface{}{"title": "t", "body": "b", "author": "Bob"}, partial.Map())

	post.Published = true
	post.GoodCount = 4
	post.CategoryID = ptr(2)
	assert.Len(t, NewRow(post, true), 6)
}

func TestPostFromRow(t *testing.T) {
	created := time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC)
	row := Row{
		{Columns.Post.ID, int64(7)},
		{Columns.Post.Title, "t"},
		{Columns.Post.Body, "b"},
		{Columns.Post.CategoryID, nil},
		{Columns.Post.Author, "Alice"},
		{Columns.Post.Published, true},
		{Columns.Post.GoodCount, 200},
		{Columns.Post.CreatedAt, created},
		{Columns.Post.UpdatedAt, created.Format(time.RFC3339Nano)},
	}

	post, err := PostFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, 7, post.ID)
	assert.Equal(t, "t", post.Title)
	assert.Nil(t, post.CategoryID)
	require.NotNil(t, post.Author)
	assert.Equal(t, "Alice", *post.Author)
	assert.True(t, post.Published)
	assert.Equal(t, 200, post.GoodCount)
	assert.True(t, post.CreatedAt.Equal(created))
	assert.True(t, post.UpdatedAt.Equal(created))
}

func TestPostFromRow_RoundTrip(t *testing.T) {
	post := Post{Title: "t", Body: "b", CategoryID: ptr(1), Author: ptr("John"), Published: true, GoodCount: 20}

	got, err := PostFromRow(NewRow(post, false))
	require.NoError(t, err)
	assert.Equal(t, post, got)
}

func TestPostFromRow_Errors(t *testing.T) {
	tests := []struct {
		name string
		row  Row
	}{
		{"missing title", Row{{Columns.Post.Body, "b"}}},
		{"null body", Row{{Columns.Post.Title, "t"}, {Columns.Post.Body, nil}}},
		{"wrong type", Row{{Columns.Post.Title, "t"}, {Columns.Post.Body, "b"}, {Columns.Post.GoodCount, "ten"}}},
		{"foreign column", Row{{Columns.Category.Name, "n"}}},
		{"unknown column", Row{{Column{Table: "posts", Name: "rating"}, 1}}},
		{"fractional integer", Row{{Columns.Post.Title, "t"}, {Columns.Post.Body, "b"}, {Columns.Post.GoodCount, 1.5}}},
		{"bad timestamp", Row{{Columns.Post.Title, "t"}, {Columns.Post.Body, "b"}, {Columns.Post.CreatedAt, "yesterday"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PostFromRow(tt.row)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestParseRow(t *testing.T) {
	var values map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"good_count": 12,
		"author": null,
		"title": "t",
		"body": "b",
		"published": true
	}`), &values))

	row, err := ParseRow(Tables.Post.Name, values)
	require.NoError(t, err)

	names := make([]string, 0, len(row))
	for _, cv := range row {
		names = append(names, cv.Column.Name)
	}
	assert.Equal(t, []string{"title", "body", "author", "published", "good_count"}, names)
	assert.Equal(t, map[string]interface{}{
		"title": "t", "body": "b", "author": nil, "published": true, "good_count": 12,
	}, row.Map())
}

func TestParseRow_Errors(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		values  map[string]interface{}
		wantErr error
	}{
		{"unknown table", "comments", map[string]interface{}{}, ErrQuery},
		{"unknown column", "posts", map[string]interface{}{"rating": 1}, ErrQuery},
		{"primary key", "posts", map[string]interface{}{"id": 1}, ErrQuery},
		{"managed column", "posts", map[string]interface{}{"created_at": "2024-01-14T12:00:00Z"}, ErrQuery},
		{"null title", "posts", map[string]interface{}{"title": nil}, ErrDecode},
		{"string count", "posts", map[string]interface{}{"good_count": "12"}, ErrDecode},
		{"number published", "posts", map[string]interface{}{"published": 1.0}, ErrDecode},
		{"integer overflow", "posts", map[string]interface{}{"good_count": 1e12}, ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRow(tt.table, tt.values)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCoerce(t *testing.T) {
	integer := ColumnDef{Name: "n", Type: TypeInteger}

	tests := []struct {
		name  string
		value interface{}
		want  interface{}
	}{
		{"int", 5, 5},
		{"int32", int32(5), 5},
		{"int64", int64(5), 5},
		{"float", 5.0, 5},
		{"json number", json.Number("5"), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerce(integer, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
