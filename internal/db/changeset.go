package db

import (
	"errors"
	"fmt"
)

// PostChangeset is a skip-unset update: nil fields leave their columns untouched.
type PostChangeset struct {
	Title      *string
	Body       *string
	CategoryID *int
	Author     *string
	Published  *bool
	GoodCount  *int

	// NilAsNull writes NULL for nil nullable fields (category_id, author)
	// instead of skipping them. Required columns are always skipped when nil.
	NilAsNull bool
}

func (c PostChangeset) Row() Row {
	var row Row
	if c.Title != nil {
		row = append(row, ColumnValue{Columns.Post.Title, *c.Title})
	}
	if c.Body != nil {
		row = append(row, ColumnValue{Columns.Post.Body, *c.Body})
	}
	switch {
	case c.CategoryID != nil:
		row = append(row, ColumnValue{Columns.Post.CategoryID, *c.CategoryID})
	case c.NilAsNull:
		row = append(row, ColumnValue{Columns.Post.CategoryID, nil})
	}
	switch {
	case c.Author != nil:
		row = append(row, ColumnValue{Columns.Post.Author, *c.Author})
	case c.NilAsNull:
		row = append(row, ColumnValue{Columns.Post.Author, nil})
	}
	if c.Published != nil {
		row = append(row, ColumnValue{Columns.Post.Published, *c.Published})
	}
	if c.GoodCount != nil {
		row = append(row, ColumnValue{Columns.Post.GoodCount, *c.GoodCount})
	}
	return row
}

// PostPatch distinguishes "not provided" from "provided as NULL" per field.
// Decoded from JSON, an absent key is not provided and null is an explicit NULL.
// A NULL on a NOT NULL column is written as is and rejected by storage as ErrConstraint.
type PostPatch struct {
	Title      Option[string]  `json:"title"`
	Body       Option[string]  `json:"body"`
	CategoryID Option[*int]    `json:"categoryId"`
	Author     Option[*string] `json:"author"`
	Published  Option[bool]    `json:"published"`
	GoodCount  Option[int]     `json:"goodCount"`
}

func (p PostPatch) Row() Row {
	var row Row
	if p.Title.Valid {
		row = append(row, ColumnValue{Columns.Post.Title, sqlValue(p.Title)})
	}
	if p.Body.Valid {
		row = append(row, ColumnValue{Columns.Post.Body, sqlValue(p.Body)})
	}
	if p.CategoryID.Valid {
		row = append(row, ColumnValue{Columns.Post.CategoryID, derefOrNil(p.CategoryID.Value)})
	}
	if p.Author.Valid {
		row = append(row, ColumnValue{Columns.Post.Author, derefOrNil(p.Author.Value)})
	}
	if p.Published.Valid {
		row = append(row, ColumnValue{Columns.Post.Published, sqlValue(p.Published)})
	}
	if p.GoodCount.Valid {
		row = append(row, ColumnValue{Columns.Post.GoodCount, sqlValue(p.GoodCount)})
	}
	return row
}

// Validate rejects patches that cannot be applied before they reach storage.
// A null on a NOT NULL column is reported as ErrConstraint, everything else as ErrQuery.
func (p PostPatch) Validate() error {
	if len(p.Row()) == 0 {
		return fmt.Errorf("%w: patch has no fields", ErrQuery)
	}

	required := []struct {
		col  Column
		null bool
	}{
		{Columns.Post.Title, p.Title.Null},
		{Columns.Post.Body, p.Body.Null},
		{Columns.Post.Published, p.Published.Null},
		{Columns.Post.GoodCount, p.GoodCount.Null},
	}
	for _, r := range required {
		if r.null {
			return fmt.Errorf("%w: %s must not be null", ErrConstraint, r.col.Name)
		}
	}

	var errs []error
	if p.Title.Valid && p.Title.Value == "" {
		errs = append(errs, errors.New("title must not be empty"))
	}
	if p.Body.Valid && p.Body.Value == "" {
		errs = append(errs, errors.New("body must not be empty"))
	}
	if p.GoodCount.Valid && p.GoodCount.Value < 0 {
		errs = append(errs, errors.New("goodCount must not be negative"))
	}
	if p.CategoryID.Valid && p.CategoryID.Value != nil && *p.CategoryID.Value <= 0 {
		errs = append(errs, errors.New("categoryId must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrQuery, errors.Join(errs...))
	}

	return nil
}

// sqlValue is the value written for a provided option, NULL for an explicit null.
func sqlValue[T any](o Option[T]) interface{} {
	if o.Null {
		return nil
	}
	return o.Value
}

// derefOrNil turns a typed nil pointer into an untyped nil so it is written as NULL.
func derefOrNil[T any](v *T) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
