package posts

import (
	"context"
	"fmt"

	"github.com/daniilsolovey/posts-crud/internal/db"
)

type Manager struct {
	db *db.Repository
}

func NewManager(repo *db.Repository) *Manager {
	return &Manager{
		db: repo,
	}
}

// Create inserts a full post and returns it as stored.
func (m *Manager) Create(ctx context.Context, p Post) (*Post, error) {
	p.ID = 0
	if _, err := m.db.InsertPost(ctx, &p.Post); err != nil {
		return nil, fmt.Errorf("db insert post: %w", err)
	}

	return &p, nil
}

// CreateDraft inserts only the fields that hold a value; the rest take storage defaults.
func (m *Manager) CreateDraft(ctx context.Context, p Post) (int, error) {
	n, err := m.db.InsertValues(ctx, db.Tables.Post.Name, db.NewRow(p.Post, true))
	if err != nil {
		return 0, fmt.Errorf("db insert draft: %w", err)
	}

	return n, nil
}

// InsertValues inserts one row built from loosely typed column values, e.g. a decoded JSON object.
func (m *Manager) InsertValues(ctx context.Context, table string, values map[string]interface{}) (int, error) {
	row, err := db.ParseRow(table, values)
	if err != nil {
		return 0, fmt.Errorf("parse row: %w", err)
	}

	n, err := m.db.InsertValues(ctx, table, row)
	if err != nil {
		return 0, fmt.Errorf("db insert values: %w", err)
	}

	return n, nil
}

// ByID returns nil without error when the post does not exist.
func (m *Manager) ByID(ctx context.Context, id int) (*Post, error) {
	dbPost, err := m.db.PostByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("db get post by id: %w", err)
	} else if dbPost == nil {
		return nil, nil
	}

	post := NewPost(dbPost)
	return &post, nil
}

func (m *Manager) List(ctx context.Context, f Filter) ([]Post, error) {
	list, err := m.db.Posts(ctx, f.ListQuery())
	if err != nil {
		return nil, fmt.Errorf("db get posts: %w", err)
	}

	return NewPostList(list), nil
}

func (m *Manager) Count(ctx context.Context, f Filter) (int, error) {
	count, err := m.db.Count(ctx, f.Query())
	if err != nil {
		return 0, fmt.Errorf("db get posts count: %w", err)
	}

	return count, nil
}

// Replace overwrites every writable column of the post. It returns nil when the post does not exist.
func (m *Manager) Replace(ctx context.Context, p Post) (*Post, error) {
	n, err := m.db.UpdatePost(ctx, &p.Post)
	if err != nil {
		return nil, fmt.Errorf("db replace post: %w", err)
	} else if n == 0 {
		return nil, nil
	}

	return m.ByID(ctx, p.ID)
}

// Patch applies a double-optional patch to one post. It returns nil when the post does not exist.
func (m *Manager) Patch(ctx context.Context, id int, patch db.PostPatch) (*Post, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	q := db.PostsQuery().Filter(db.Eq(db.Columns.Post.ID, id))

	n, err := m.db.PatchPosts(ctx, q, patch)
	if err != nil {
		return nil, fmt.Errorf("db patch post: %w", err)
	} else if n == 0 {
		return nil, nil
	}

	return m.ByID(ctx, id)
}

// SetCategory moves the posts to the category; every other column is left untouched.
func (m *Manager) SetCategory(ctx context.Context, postIDs []int, categoryID int) (int, error) {
	q := db.PostsQuery().Filter(db.In(db.Columns.Post.ID, postIDs...))

	n, err := m.db.UpdatePosts(ctx, q, db.PostChangeset{CategoryID: &categoryID})
	if err != nil {
		return 0, fmt.Errorf("db set category: %w", err)
	}

	return n, nil
}

// Delete removes the posts matching f. An empty filter is rejected with ErrUnfiltered.
func (m *Manager) Delete(ctx context.Context, f Filter) (int, error) {
	if f.Empty() {
		return 0, ErrUnfiltered
	}

	n, err := m.db.DeletePosts(ctx, f.Query())
	if err != nil {
		return 0, fmt.Errorf("db delete posts: %w", err)
	}

	return n, nil
}

// DeleteByID reports whether the post existed.
func (m *Manager) DeleteByID(ctx context.Context, id int) (bool, error) {
	n, err := m.db.DeletePosts(ctx, db.PostsQuery().Filter(db.Eq(db.Columns.Post.ID, id)))
	if err != nil {
		return false, fmt.Errorf("db delete post: %w", err)
	}

	return n > 0, nil
}

// AuthorStats counts published posts and their good_count per author, best authors first.
// Posts without an author are not counted.
func (m *Manager) AuthorStats(ctx context.Context) ([]AuthorStat, error) {
	goodCount := db.Sum(db.Columns.Post.GoodCount).As("good_count")
	q := db.PostsQuery().
		Filter(db.Eq(db.Columns.Post.Published, true)).
		Filter(db.IsNotNull(db.Columns.Post.Author)).
		Columns(db.Columns.Post.Author).
		Aggregate(db.CountStar().As("posts"), goodCount).
		GroupBy(db.Columns.Post.Author).
		OrderBy(db.Desc(goodCount), db.Asc(db.Columns.Post.Author))

	var rows []authorStatRow
	if err := m.db.Select(ctx, q, &rows); err != nil {
		return nil, fmt.Errorf("db get author stats: %w", err)
	}

	stats := make([]AuthorStat, len(rows))
	for i := range rows {
		stats[i] = newAuthorStat(rows[i])
	}

	return stats, nil
}

func (m *Manager) CreateCategory(ctx context.Context, name string, description *string) (*Category, error) {
	category := db.Category{Name: name, Description: description}
	if _, err := m.db.InsertCategory(ctx, &category); err != nil {
		return nil, fmt.Errorf("db insert category: %w", err)
	}

	c := NewCategory(&category)
	return &c, nil
}

func (m *Manager) Categories(ctx context.Context) ([]Category, error) {
	list, err := m.db.Categories(ctx, db.CategoriesQuery().OrderBy(db.Asc(db.Columns.Category.ID)))

	return NewCategories(list), err
}
