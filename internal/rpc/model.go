package rpc

import (
	"time"

	"github.com/daniilsolovey/posts-crud/internal/db"
	"github.com/daniilsolovey/posts-crud/internal/posts"
)

type PostFilter struct {
	//published optional published flag filter
	Published *bool `json:"published,omitempty"`
	//author optional author filter
	Author *string `json:"author,omitempty"`
	//hasAuthor only posts with (true) or without (false) an author
	HasAuthor *bool `json:"hasAuthor,omitempty"`
	//categoryIds optional category ids filter
	CategoryIDs []int `json:"categoryIds,omitempty"`
	//categoryNames optional category names filter
	CategoryNames []string `json:"categoryNames,omitempty"`
	//minGoodCount only posts with goodCount greater than the value
	MinGoodCount *int `json:"minGoodCount,omitempty"`
	//sortBy=id sort column
	SortBy string `json:"sortBy,omitempty"`
	//desc sort descending
	Desc bool `json:"desc,omitempty"`
	//limit page size, 0 for no limit
	Limit int `json:"limit,omitempty"`
	//offset rows to skip
	Offset int `json:"offset,omitempty"`
}

func (f PostFilter) ToModel() posts.Filter {
	return posts.Filter{
		Published:     f.Published,
		Author:        f.Author,
		HasAuthor:     f.HasAuthor,
		CategoryIDs:   f.CategoryIDs,
		CategoryNames: f.CategoryNames,
		MinGoodCount:  f.MinGoodCount,
		SortBy:        posts.SortField(f.SortBy),
		Desc:          f.Desc,
		Limit:         f.Limit,
		Offset:        f.Offset,
	}
}

type PostInput struct {
	Title      string  `json:"title"`
	Body       string  `json:"body"`
	CategoryID *int    `json:"categoryId,omitempty"`
	Author     *string `json:"author,omitempty"`
	Published  bool    `json:"published"`
	GoodCount  int     `json:"goodCount"`
}

func (in PostInput) ToModel() posts.Post {
	return posts.Post{Post: db.Post{
		Title:      in.Title,
		Body:       in.Body,
		CategoryID: in.CategoryID,
		Author:     in.Author,
		Published:  in.Published,
		GoodCount:  in.GoodCount,
	}}
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
