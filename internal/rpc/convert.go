package rpc

import "github.com/daniilsolovey/posts-crud/internal/posts"

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

func NewPosts(list []posts.Post) []Post {
	result := make([]Post, len(list))
	for i := range list {
		result[i] = NewPost(list[i])
	}
	return result
}

func NewAuthorStats(list []posts.AuthorStat) []AuthorStat {
	result := make([]AuthorStat, len(list))
	for i, s := range list {
		result[i] = AuthorStat{Author: s.Author, Posts: s.Posts, GoodCount: s.GoodCount}
	}
	return result
}
