package posts

import (
	"github.com/daniilsolovey/posts-crud/internal/db"
)

func NewPost(p *db.Post) Post {
	return Post{Post: *p}
}

func NewPostList(in []db.Post) []Post {
	out := make([]Post, len(in))
	for i := range in {
		out[i] = NewPost(&in[i])
	}
	return out
}

func NewCategory(c *db.Category) Category {
	return Category{Category: *c}
}

func NewCategories(in []db.Category) []Category {
	out := make([]Category, len(in))
	for i := range in {
		out[i] = NewCategory(&in[i])
	}
	return out
}

type authorStatRow struct {
	Author    *string
	Posts     int
	GoodCount *int64
}

func newAuthorStat(r authorStatRow) AuthorStat {
	stat := AuthorStat{Posts: r.Posts}
	if r.Author != nil {
		stat.Author = *r.Author
	}
	if r.GoodCount != nil {
		stat.GoodCount = *r.GoodCount
	}
	return stat
}

// Empty reports whether the filter has no conditions.
func (f Filter) Empty() bool {
	return f.Published == nil && f.Author == nil && f.HasAuthor == nil &&
		f.CategoryIDs == nil && f.CategoryNames == nil && f.MinGoodCount == nil
}

// Query converts the filter into a posts query.
func (f Filter) Query() *db.Query {
	q := db.PostsQuery()

	if f.Published != nil {
		q.Filter(db.Eq(db.Columns.Post.Published, *f.Published))
	}
	if f.Author != nil {
		q.Filter(db.Eq(db.Columns.Post.Author, *f.Author))
	}
	if f.HasAuthor != nil {
		if *f.HasAuthor {
			q.Filter(db.IsNotNull(db.Columns.Post.Author))
		} else {
			q.Filter(db.IsNull(db.Columns.Post.Author))
		}
	}
	if f.CategoryIDs != nil {
		q.Filter(db.In(db.Columns.Post.CategoryID, f.CategoryIDs...))
	}
	if f.CategoryNames != nil {
		sub := db.CategoriesQuery().
			Columns(db.Columns.Category.ID).
			Filter(db.In(db.Columns.Category.Name, f.CategoryNames...))
		q.Filter(db.InSelect(db.Columns.Post.CategoryID, sub))
	}
	if f.MinGoodCount != nil {
		q.Filter(db.Gt(db.Columns.Post.GoodCount, *f.MinGoodCount))
	}

	return q
}

// ListQuery is Query plus ordering and paging.
func (f Filter) ListQuery() *db.Query {
	q := f.Query()

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = SortByID
	}
	// unknown columns fail the query with db.ErrQuery
	col := db.Column{Table: db.Tables.Post.Name, Name: string(sortBy)}

	if f.Desc {
		q.OrderBy(db.Desc(col))
	} else {
		q.OrderBy(db.Asc(col))
	}
	// ties keep insertion order
	if sortBy != SortByID {
		q.OrderBy(db.Asc(db.Columns.Post.ID))
	}

	return q.Limit(f.Limit).Offset(f.Offset)
}
