package rest

import (
	"time"

	"github.com/daniilsolovey/posts-crud/internal/db"
	"github.com/daniilsolovey/posts-crud/internal/posts"
)

type Category struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type Post struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	CategoryID *int      `json:"categoryId"`
	Author     *string   `json:"author"`
	Published  bool      `json:"published"`
	GoodCount  int       `json:"goodCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type AuthorStat struct {
	Author    string `json:"author"`
	Posts     int    `json:"posts"`
	GoodCount int64  `json:"goodCount"`
}

// PostInput is the body of create and replace requests.
type PostInput struct {
	Title      string  `json:"title" validate:"required"`
	Body       string  `json:"body" validate:"required"`
	CategoryID *int    `json:"categoryId" validate:"omitempty,gt=0"`
	Author     *string `json:"author" validate:"omitempty,min=1"`
	Published  bool    `json:"published"`
	GoodCount  int     `json:"goodCount" validate:"gte=0"`
}

func (in PostInput) ToModel(id int) posts.Post {
	return posts.Post{Post: db.Post{
		ID:         id,
		Title:      in.Title,
		Body:       in.Body,
		CategoryID: in.CategoryID,
		Author:     in.Author,
		Published:  in.Published,
		GoodCount:  in.GoodCount,
	}}
}

type CategoryInput struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// PostsFilter is decoded from the query string by urlstruct, e.g.
// ?published=true&category_id=1&category_id=2&sort_by=good_count&desc=true&limit=10
type PostsFilter struct {
	Published    *bool
	Author       *string
	HasAuthor    *bool
	CategoryID   []int
	CategoryName []string
	MinGoodCount *int

	SortBy string `validate:"omitempty,oneof=id good_count created_at updated_at title"`
	Desc   bool
	Limit  int `validate:"gte=0,lte=1000"`
	Offset int `validate:"gte=0"`
}

func (f PostsFilter) ToModel() posts.Filter {
	return posts.Filter{
		Published:     f.Published,
		Author:        f.Author,
		HasAuthor:     f.HasAuthor,
		CategoryIDs:   f.CategoryID,
		CategoryNames: f.CategoryName,
		MinGoodCount:  f.MinGoodCount,
		SortBy:        posts.SortField(f.SortBy),
		Desc:          f.Desc,
		Limit:         f.Limit,
		Offset:        f.Offset,
	}
}
