package rest

import "github.com/daniilsolovey/posts-crud/internal/posts"

func Map[From, To any](list []From, converter func(From) To) []To {
	result := make([]To, len(list))
	for i := range list {
		result[i] = converter(list[i])
	}
	return result
}

func NewPost(p posts.Post) Post {
	return Post{
		ID:         p.ID,
		Title:      p.Title,
		Body:       p.Body,
		CategoryID: p.CategoryID,
		Author:     p.Author,
		Published:  p.Published,
		GoodCount:  p.GoodCount,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func NewCategory(c posts.Category) Category {
	return Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}

func NewAuthorStat(s posts.AuthorStat) AuthorStat {
	return AuthorStat{
		Author:    s.Author,
		Posts:     s.Posts,
		GoodCount: s.GoodCount,
	}
}
