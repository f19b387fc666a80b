package db

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

type ColumnValue struct {
	Column Column
	Value  interface{}
}

// Row is an ordered list of column/value pairs of one table.
type Row []ColumnValue

func (r Row) Get(name string) (interface{}, bool) {
	for _, cv := range r {
		if cv.Column.Name == name {
			return cv.Value, true
		}
	}
	return nil, false
}

func (r Row) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r))
	for _, cv := range r {
		m[cv.Column.Name] = cv.Value
	}
	return m
}

// NewRow maps a post to the columns a caller may write. With partial set only
// columns holding a present value are emitted, the rest take storage defaults.
func NewRow(p Post, partial bool) Row {
	row := Row{
		{Columns.Post.Title, p.Title},
		{Columns.Post.Body, p.Body},
	}

	if !partial || p.CategoryID != nil {
		row = append(row, ColumnValue{Columns.Post.CategoryID, derefOrNil(p.CategoryID)})
	}
	if !partial || p.Author != nil {
		row = append(row, ColumnValue{Columns.Post.Author, derefOrNil(p.Author)})
	}
	if !partial || p.Published {
		row = append(row, ColumnValue{Columns.Post.Published, p.Published})
	}
	if !partial || p.GoodCount != 0 {
		row = append(row, ColumnValue{Columns.Post.GoodCount, p.GoodCount})
	}

	return row
}

// PostFromRow builds a post from posts columns. Missing optional columns keep
// their zero values; missing required columns and uncoercible values are ErrDecode.
func PostFromRow(row Row) (Post, error) {
	table, _ := TableByName(Tables.Post.Name)

	values := make(map[string]interface{}, len(row))
	for _, cv := range row {
		if cv.Column.Table != table.Name {
			return Post{}, fmt.Errorf("%w: column %s does not belong to table %q", ErrDecode, cv.Column, table.Name)
		}
		def, ok := table.Column(cv.Column.Name)
		if !ok {
			return Post{}, fmt.Errorf("%w: unknown column %q", ErrDecode, cv.Column.Name)
		}
		v, err := coerce(def, cv.Value)
		if err != nil {
			return Post{}, err
		}
		values[def.Name] = v
	}

	for _, def := range table.Columns {
		if _, ok := values[def.Name]; !ok && def.Required() {
			return Post{}, fmt.Errorf("%w: required column %q is missing", ErrDecode, def.Name)
		}
	}

	var p Post
	if v, ok := values["id"].(int); ok {
		p.ID = v
	}
	p.Title, _ = values["title"].(string)
	p.Body, _ = values["body"].(string)
	if v, ok := values["category_id"].(int); ok {
		p.CategoryID = &v
	}
	if v, ok := values["author"].(string); ok {
		p.Author = &v
	}
	p.Published, _ = values["published"].(bool)
	p.GoodCount, _ = values["good_count"].(int)
	p.CreatedAt, _ = values["created_at"].(time.Time)
	p.UpdatedAt, _ = values["updated_at"].(time.Time)

	return p, nil
}

// ParseRow converts loosely typed input, such as a decoded JSON object, into a Row of
// writable columns ordered as in the schema.
func ParseRow(tableName string, values map[string]interface{}) (Row, error) {
	table, ok := TableByName(tableName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown table %q", ErrQuery, tableName)
	}

	names := make([]string, 0, len(values))
	for name := range values {
		def, ok := table.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown column %q in table %q", ErrQuery, name, tableName)
		}
		if !def.Writable() {
			return nil, fmt.Errorf("%w: column %q is assigned by storage", ErrQuery, name)
		}
		names = append(names, name)
	}

	order := make(map[string]int, len(table.Columns))
	for i, c := range table.Columns {
		order[c.Name] = i
	}
	sort.Slice(names, func(i, j int) bool { return order[names[i]] < order[names[j]] })

	row := make(Row, 0, len(names))
	for _, name := range names {
		def, _ := table.Column(name)
		v, err := coerce(def, values[name])
		if err != nil {
			return nil, err
		}
		row = append(row, ColumnValue{Column{Table: tableName, Name: name}, v})
	}

	return row, nil
}

// coerce converts v to the Go type of the column: int, string, bool or time.Time.
// nil is accepted for nullable columns only.
func coerce(def ColumnDef, v interface{}) (interface{}, error) {
	if v == nil {
		if def.Nullable {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: column %q is not nullable", ErrDecode, def.Name)
	}

	switch def.Type {
	case TypeInteger:
		switch n := v.(type) {
		case int:
			return n, nil
		case int32:
			return int(n), nil
		case int64:
			return int(n), nil
		case float64:
			if n == math.Trunc(n) && n >= math.MinInt32 && n <= math.MaxInt32 {
				return int(n), nil
			}
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return int(i), nil
			}
		}
	case TypeText:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case TypeBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case TypeTimestamp:
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case string:
			if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
				return parsed, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: column %q expects %s, got %T", ErrDecode, def.Name, def.Type, v)
}
