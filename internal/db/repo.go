package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
)

type Repository struct {
	db  pg.DBI
	log *slog.Logger
}

func New(db pg.DBI, logger *slog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: logger,
	}
}

func (r *Repository) Ping(ctx context.Context) error {
	if db, ok := r.db.(*pg.DB); ok {
		if err := db.Ping(ctx); err != nil {
			return wrapErr("ping", err)
		}
		return nil
	}

	return nil
}

func (r *Repository) Close() error {
	if db, ok := r.db.(*pg.DB); ok {
		if err := db.Close(); err != nil {
			return err
		}
		return nil
	}

	return nil
}

// model returns an empty go-pg model of the table so that queries get the right FROM clause.
func model(table string) (interface{}, error) {
	switch table {
	case Tables.Post.Name:
		return (*Post)(nil), nil
	case Tables.Category.Name:
		return (*Category)(nil), nil
	}
	return nil, fmt.Errorf("%w: no model for table %q", ErrQuery, table)
}

// applyFilter adds only the WHERE part of q; an unfiltered query matches every row.
func applyFilter(db pg.DBI, q *Query, oq *orm.Query) (*orm.Query, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.where == nil {
		return oq.Where("TRUE"), nil
	}

	sql, args, err := q.where.compile(db)
	if err != nil {
		return nil, err
	}

	return oq.Where(sql, args...), nil
}

// InsertValues inserts one row built from explicit column/value pairs.
// Columns that are not listed take their storage defaults.
func (r *Repository) InsertValues(ctx context.Context, table string, row Row) (int, error) {
	if _, ok := TableByName(table); !ok {
		return 0, fmt.Errorf("insert values: %w: unknown table %q", ErrQuery, table)
	}
	if len(row) == 0 {
		return 0, fmt.Errorf("insert values: %w: no columns to insert", ErrQuery)
	}

	columns := make([]pg.Ident, 0, len(row))
	values := make([]interface{}, 0, len(row))
	for _, cv := range row {
		if cv.Column.Table != table {
			return 0, fmt.Errorf("insert values: %w: column %s does not belong to table %q", ErrQuery, cv.Column, table)
		}
		def, err := lookupColumn(cv.Column)
		if err != nil {
			return 0, fmt.Errorf("insert values: %w", err)
		}
		if !def.Writable() {
			return 0, fmt.Errorf("insert values: %w: column %q is assigned by storage", ErrQuery, def.Name)
		}
		columns = append(columns, pg.Ident(cv.Column.Name))
		values = append(values, cv.Value)
	}

	res, err := r.db.ExecContext(ctx, `INSERT INTO ? (?) VALUES (?)`,
		pg.Ident(table), pg.In(columns), pg.In(values))
	if err != nil {
		return 0, wrapErr("insert values", err)
	}

	r.log.Debug("row inserted", "table", table, "columns", len(row))

	return res.RowsAffected(), nil
}

// InsertPost inserts p. Zero optional fields take their defaults: published=false,
// good_count=0, category_id and author NULL. The storage generated id and
// timestamps are written back into p.
func (r *Repository) InsertPost(ctx context.Context, p *Post) (int, error) {
	if p.ID != 0 {
		return 0, fmt.Errorf("insert post: %w: id is assigned by storage", ErrQuery)
	}

	res, err := r.db.ModelContext(ctx, p).Insert()
	if err != nil {
		return 0, wrapErr("insert post", err)
	}

	r.log.Debug("post inserted", "id", p.ID)

	return res.RowsAffected(), nil
}

func (r *Repository) InsertCategory(ctx context.Context, c *Category) (int, error) {
	if c.ID != 0 {
		return 0, fmt.Errorf("insert category: %w: id is assigned by storage", ErrQuery)
	}

	res, err := r.db.ModelContext(ctx, c).Insert()
	if err != nil {
		return 0, wrapErr("insert category", err)
	}

	r.log.Debug("category inserted", "id", c.ID)

	return res.RowsAffected(), nil
}

// Posts loads full posts rows matching q. An empty result is not an error.
func (r *Repository) Posts(ctx context.Context, q *Query) ([]Post, error) {
	if q.table != Tables.Post.Name {
		return nil, fmt.Errorf("query posts: %w: query is over %q", ErrQuery, q.table)
	}

	posts := []Post{}
	oq, err := q.apply(r.db, r.db.ModelContext(ctx, &posts))
	if err != nil {
		return nil, wrapErr("query posts", err)
	}

	if err := oq.Select(); err != nil {
		return nil, wrapErr("query posts", err)
	}

	r.log.Debug("posts loaded", "count", len(posts))

	return posts, nil
}

// PostByID returns nil without error when the post does not exist.
func (r *Repository) PostByID(ctx context.Context, id int) (*Post, error) {
	post := &Post{ID: id}
	err := r.db.ModelContext(ctx, post).WherePK().Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, wrapErr("get post by id", err)
	}

	return post, nil
}

func (r *Repository) Categories(ctx context.Context, q *Query) ([]Category, error) {
	if q.table != Tables.Category.Name {
		return nil, fmt.Errorf("query categories: %w: query is over %q", ErrQuery, q.table)
	}

	categories := []Category{}
	oq, err := q.apply(r.db, r.db.ModelContext(ctx, &categories))
	if err != nil {
		return nil, wrapErr("query categories", err)
	}

	if err := oq.Select(); err != nil {
		return nil, wrapErr("query categories", err)
	}

	return categories, nil
}

// Select runs q and scans the projected columns into dst, a pointer to a slice of
// structs whose pg tags (or snake_cased field names) match the selected column names
// and aggregate aliases.
func (r *Repository) Select(ctx context.Context, q *Query, dst interface{}) error {
	m, err := model(q.table)
	if err != nil {
		return wrapErr("select", err)
	}

	oq, err := q.apply(r.db, r.db.ModelContext(ctx, m))
	if err != nil {
		return wrapErr("select", err)
	}

	if err := oq.Select(dst); err != nil {
		return wrapErr("select", err)
	}

	return nil
}

func (r *Repository) Count(ctx context.Context, q *Query) (int, error) {
	m, err := model(q.table)
	if err != nil {
		return 0, wrapErr("count", err)
	}

	oq, err := q.apply(r.db, r.db.ModelContext(ctx, m))
	if err != nil {
		return 0, wrapErr("count", err)
	}

	count, err := oq.Count()
	if err != nil {
		return 0, wrapErr("count", err)
	}

	return count, nil
}

// UpdatePost replaces every caller-writable column of the post with the same id.
func (r *Repository) UpdatePost(ctx context.Context, p *Post) (int, error) {
	if p.ID == 0 {
		return 0, fmt.Errorf("update post: %w: post has no id", ErrQuery)
	}

	row := NewRow(*p, false)
	columns := make([]string, 0, len(row))
	for _, cv := range row {
		columns = append(columns, cv.Column.Name)
	}

	res, err := r.db.ModelContext(ctx, p).
		Column(columns...).
		WherePK().
		Returning("?", pg.Ident(Columns.Post.UpdatedAt.Name)).
		Update()
	if err != nil {
		return 0, wrapErr("update post", err)
	}

	r.log.Debug("post replaced", "id", p.ID, "rows", res.RowsAffected())

	return res.RowsAffected(), nil
}

// UpdatePosts applies a skip-unset changeset to every post matching q.
func (r *Repository) UpdatePosts(ctx context.Context, q *Query, c PostChangeset) (int, error) {
	return r.update(ctx, q, c.Row())
}

// PatchPosts applies a double-optional patch to every post matching q.
func (r *Repository) PatchPosts(ctx context.Context, q *Query, p PostPatch) (int, error) {
	return r.update(ctx, q, p.Row())
}

func (r *Repository) update(ctx context.Context, q *Query, row Row) (int, error) {
	if q.table != Tables.Post.Name {
		return 0, fmt.Errorf("update posts: %w: query is over %q", ErrQuery, q.table)
	}
	if len(row) == 0 {
		return 0, fmt.Errorf("update posts: %w: empty changeset", ErrQuery)
	}

	oq := r.db.ModelContext(ctx, (*Post)(nil))
	for _, cv := range row {
		oq = oq.Set("? = ?", pg.Ident(cv.Column.Name), cv.Value)
	}

	oq, err := applyFilter(r.db, q, oq)
	if err != nil {
		return 0, wrapErr("update posts", err)
	}

	res, err := oq.Update()
	if err != nil {
		return 0, wrapErr("update posts", err)
	}

	r.log.Debug("posts updated", "columns", len(row), "rows", res.RowsAffected())

	return res.RowsAffected(), nil
}

// DeletePosts removes every post matching q and returns how many were removed.
func (r *Repository) DeletePosts(ctx context.Context, q *Query) (int, error) {
	if q.table != Tables.Post.Name {
		return 0, fmt.Errorf("delete posts: %w: query is over %q", ErrQuery, q.table)
	}

	oq, err := applyFilter(r.db, q, r.db.ModelContext(ctx, (*Post)(nil)))
	if err != nil {
		return 0, wrapErr("delete posts", err)
	}

	res, err := oq.Delete()
	if err != nil {
		return 0, wrapErr("delete posts", err)
	}

	r.log.Debug("posts deleted", "rows", res.RowsAffected())

	return res.RowsAffected(), nil
}
