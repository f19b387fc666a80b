package db

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostChangeset_Row(t *testing.T) {
	tests := []struct {
		name string
		cs   PostChangeset
		want map[string]interface{}
	}{
		{
			name: "empty",
			cs:   PostChangeset{},
			want: map[string]interface{}{},
		},
		{
			name: "only category",
			cs:   PostChangeset{CategoryID: ptr(3)},
			want: map[string]interface{}{"category_id": 3},
		},
		{
			name: "every field",
			cs: PostChangeset{
				Title:      ptr("t"),
				Body:       ptr("b"),
				CategoryID: ptr(1),
				Author:     ptr("John"),
				Published:  ptr(false),
				GoodCount:  ptr(0),
			},
			want: map[string]interface{}{
				"title": "t", "body": "b", "category_id": 1,
				"author": "John", "published": false, "good_count": 0,
			},
		},
		{
			name: "nil as null",
			cs:   PostChangeset{GoodCount: ptr(7), NilAsNull: true},
			want: map[string]interface{}{"category_id": nil, "author": nil, "good_count": 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cs.Row().Map())
		})
	}
}

func TestPostPatch_Row(t *testing.T) {
	patch := PostPatch{
		Author:     Null[string](),
		CategoryID: Value(2),
		Published:  Set(true),
	}

	row := patch.Row()
	assert.Equal(t, map[string]interface{}{"category_id": 2, "author": nil, "published": true}, row.Map())

	author, ok := row.Get("author")
	assert.True(t, ok)
	assert.Nil(t, author)

	_, ok = row.Get("title")
	assert.False(t, ok)
}

func TestPostPatch_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]interface{}
	}{
		{
			name: "absent keys are skipped",
			body: `{}`,
			want: map[string]interface{}{},
		},
		{
			name: "null clears a nullable column",
			body: `{"author": null}`,
			want: map[string]interface{}{"author": nil},
		},
		{
			name: "values are set",
			body: `{"author": "Bob", "categoryId": 3, "goodCount": 12, "title": "new"}`,
			want: map[string]interface{}{"title": "new", "category_id": 3, "author": "Bob", "good_count": 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var patch PostPatch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &patch))
			assert.Equal(t, tt.want, patch.Row().Map())
		})
	}
}

func TestPostPatch_UnmarshalJSON_NullOnRequiredColumn(t *testing.T) {
	var patch PostPatch
	require.NoError(t, json.Unmarshal([]byte(`{"title":null,"published":null,"goodCount":null}`), &patch))

	assert.True(t, patch.Published.Valid)
	assert.True(t, patch.Published.Null)
	assert.Equal(t, map[string]interface{}{"title": nil, "published": nil, "good_count": nil}, patch.Row().Map())

	err := patch.Validate()
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestPostPatch_Validate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"empty", `{}`, ErrQuery},
		{"null published", `{"published":null}`, ErrConstraint},
		{"null good count", `{"goodCount":null}`, ErrConstraint},
		{"null body", `{"body":null}`, ErrConstraint},
		{"empty title", `{"title":""}`, ErrQuery},
		{"negative good count", `{"goodCount":-1}`, ErrQuery},
		{"non positive category", `{"categoryId":0}`, ErrQuery},
		{"null category", `{"categoryId":null}`, nil},
		{"null author with values", `{"author":null,"published":false,"goodCount":0}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var patch PostPatch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &patch))

			err := patch.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOption_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(PostPatch{Author: Value("Bob"), GoodCount: Set(3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":null,"body":null,"categoryId":null,"author":"Bob","published":null,"goodCount":3}`, string(data))

	data, err = json.Marshal(PostPatch{Author: Null[string]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":null,"body":null,"categoryId":null,"author":null,"published":null,"goodCount":null}`, string(data))
}
