package posts

import (
	"errors"

	"github.com/daniilsolovey/posts-crud/internal/db"
)

// ErrUnfiltered is returned by bulk operations that would otherwise touch every post.
var ErrUnfiltered = errors.New("filter has no conditions")

type Category struct {
	db.Category
}

type Post struct {
	db.Post
}

// AuthorStat is the published activity of one author.
type AuthorStat struct {
	Author    string
	Posts     int
	GoodCount int64
}

// SortField is the name of the posts column a list is ordered by.
type SortField string

const (
	SortByID        SortField = "id"
	SortByGoodCount SortField = "good_count"
	SortByCreatedAt SortField = "created_at"
)

// Filter selects posts. All set conditions must hold.
type Filter struct {
	Published     *bool
	Author        *string
	HasAuthor     *bool
	CategoryIDs   []int
	CategoryNames []string
	// MinGoodCount keeps posts with good_count strictly greater than the value.
	MinGoodCount *int

	SortBy SortField
	Desc   bool
	Limit  int
	Offset int
}
