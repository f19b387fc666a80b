package db

import (
	"fmt"
	"strings"

	"github.com/go-pg/pg/v10"
)

// Predicate is a boolean condition over columns. It is compiled into a go-pg
// WHERE fragment with "?" placeholders when the query runs.
type Predicate interface {
	// columns returns every column the predicate reads from its own table.
	columns() []Column
	compile(db pg.DBI) (string, []interface{}, error)
}

type comparison struct {
	col   Column
	op    string
	value interface{}
}

func (c comparison) columns() []Column { return []Column{c.col} }

func (c comparison) compile(pg.DBI) (string, []interface{}, error) {
	return "? " + c.op + " ?", []interface{}{pg.Ident(c.col.Name), c.value}, nil
}

// Eq matches rows where col equals value.
func Eq(col Column, value interface{}) Predicate {
	return comparison{col: col, op: "=", value: value}
}

// Gt matches rows where col is greater than value.
func Gt(col Column, value interface{}) Predicate {
	return comparison{col: col, op: ">", value: value}
}

type nullCheck struct {
	col Column
	not bool
}

func (n nullCheck) columns() []Column { return []Column{n.col} }

func (n nullCheck) compile(pg.DBI) (string, []interface{}, error) {
	if n.not {
		return "? IS NOT NULL", []interface{}{pg.Ident(n.col.Name)}, nil
	}
	return "? IS NULL", []interface{}{pg.Ident(n.col.Name)}, nil
}

func IsNull(col Column) Predicate { return nullCheck{col: col} }

func IsNotNull(col Column) Predicate { return nullCheck{col: col, not: true} }

type inSet struct {
	col    Column
	values []interface{}
}

func (i inSet) columns() []Column { return []Column{i.col} }

func (i inSet) compile(pg.DBI) (string, []interface{}, error) {
	// IN () is not valid SQL, and nothing is a member of an empty set.
	if len(i.values) == 0 {
		return "FALSE", nil, nil
	}
	return "? IN (?)", []interface{}{pg.Ident(i.col.Name), pg.In(i.values)}, nil
}

// In matches rows where col is one of values.
func In[T any](col Column, values ...T) Predicate {
	list := make([]interface{}, len(values))
	for i := range values {
		list[i] = values[i]
	}
	return inSet{col: col, values: list}
}

type inSelect struct {
	col Column
	sub *Query
}

func (i inSelect) columns() []Column { return []Column{i.col} }

func (i inSelect) compile(db pg.DBI) (string, []interface{}, error) {
	if db == nil {
		return "", nil, fmt.Errorf("%w: subquery on %s needs a database handle", ErrQuery, i.sub.table)
	}
	if !Joinable(i.col.Table, i.sub.table) {
		return "", nil, fmt.Errorf("%w: tables %q and %q cannot appear in the same query", ErrQuery, i.col.Table, i.sub.table)
	}
	if len(i.sub.columns) != 1 || len(i.sub.aggregates) != 0 {
		return "", nil, fmt.Errorf("%w: subquery on %s must select exactly one column", ErrQuery, i.sub.table)
	}

	subq, err := i.sub.apply(db, db.Model().Table(i.sub.table))
	if err != nil {
		return "", nil, err
	}

	return "? IN (?)", []interface{}{pg.Ident(i.col.Name), subq}, nil
}

// InSelect matches rows where col is in the single-column result of sub.
// The subquery is evaluated by storage.
func InSelect(col Column, sub *Query) Predicate {
	return inSelect{col: col, sub: sub}
}

type junction struct {
	op    string
	parts []Predicate
}

func (j junction) columns() []Column {
	var cols []Column
	for _, p := range j.parts {
		cols = append(cols, p.columns()...)
	}
	return cols
}

func (j junction) compile(db pg.DBI) (string, []interface{}, error) {
	if len(j.parts) == 0 {
		if j.op == "AND" {
			return "TRUE", nil, nil
		}
		return "FALSE", nil, nil
	}

	var (
		sb   strings.Builder
		args []interface{}
	)
	for i, p := range j.parts {
		sql, pArgs, err := p.compile(db)
		if err != nil {
			return "", nil, err
		}
		if i > 0 {
			sb.WriteString(" " + j.op + " ")
		}
		sb.WriteString("(" + sql + ")")
		args = append(args, pArgs...)
	}

	return sb.String(), args, nil
}

func newJunction(op string, parts []Predicate) Predicate {
	list := make([]Predicate, 0, len(parts))
	for _, p := range parts {
		if p != nil {
			list = append(list, p)
		}
	}
	if len(list) == 1 {
		return list[0]
	}
	return junction{op: op, parts: list}
}

// And matches rows satisfying every predicate. Nil predicates are ignored.
func And(parts ...Predicate) Predicate { return newJunction("AND", parts) }

// Or matches rows satisfying at least one predicate. Nil predicates are ignored.
func Or(parts ...Predicate) Predicate { return newJunction("OR", parts) }
