package db

import (
	"fmt"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
)

// Expr is anything a query can order by: a Column or an Aggregate.
type Expr interface {
	expr() (string, []interface{})
}

// Aggregate is an aggregate projection such as COUNT(*) or SUM(column).
type Aggregate struct {
	fn    string
	col   *Column
	alias string
}

// CountStar is COUNT(*), selected as "count" unless renamed with As.
func CountStar() Aggregate {
	return Aggregate{fn: "count"}
}

// Sum is SUM(col), selected as "sum" unless renamed with As.
// SUM over no rows is NULL, so scan it into a pointer.
func Sum(col Column) Aggregate {
	return Aggregate{fn: "sum", col: &col}
}

func (a Aggregate) As(alias string) Aggregate {
	a.alias = alias
	return a
}

func (a Aggregate) Alias() string {
	if a.alias != "" {
		return a.alias
	}
	return a.fn
}

func (a Aggregate) expr() (string, []interface{}) {
	if a.col == nil {
		return a.fn + "(*)", nil
	}
	return a.fn + "(?)", []interface{}{pg.Ident(a.col.Name)}
}

type Order struct {
	by   Expr
	desc bool
}

func Asc(by Expr) Order { return Order{by: by} }

func Desc(by Expr) Order { return Order{by: by, desc: true} }

// Query is a read query over one table. Builder methods modify the query in place
// and return it; the first composition error is kept and returned on execution.
type Query struct {
	table      string
	where      Predicate
	columns    []Column
	aggregates []Aggregate
	group      []Column
	orders     []Order
	limit      int
	offset     int
	err        error
}

func NewQuery(table string) *Query {
	q := &Query{table: table}
	if _, ok := TableByName(table); !ok {
		q.err = fmt.Errorf("%w: unknown table %q", ErrQuery, table)
	}
	return q
}

// PostsQuery starts a query over the posts table.
func PostsQuery() *Query { return NewQuery(Tables.Post.Name) }

// CategoriesQuery starts a query over the category table.
func CategoriesQuery() *Query { return NewQuery(Tables.Category.Name) }

func (q *Query) Table() string { return q.table }

func (q *Query) Err() error { return q.err }

func (q *Query) setErr(err error) {
	if q.err == nil {
		q.err = err
	}
}

func (q *Query) checkColumns(cols ...Column) bool {
	for _, c := range cols {
		if c.Table != q.table {
			q.setErr(fmt.Errorf("%w: column %s does not belong to table %q", ErrQuery, c, q.table))
			return false
		}
		if _, err := lookupColumn(c); err != nil {
			q.setErr(err)
			return false
		}
	}
	return true
}

// Filter narrows the query: the accumulated predicate becomes (accumulated AND p).
func (q *Query) Filter(p Predicate) *Query {
	if p == nil || !q.checkColumns(p.columns()...) {
		return q
	}
	q.where = And(q.where, p)
	return q
}

// OrFilter widens the query at the top level: the accumulated predicate becomes
// (accumulated OR p). Filter(A).Filter(B).OrFilter(C) is (A AND B) OR C.
func (q *Query) OrFilter(p Predicate) *Query {
	if p == nil || !q.checkColumns(p.columns()...) {
		return q
	}
	q.where = Or(q.where, p)
	return q
}

// Columns restricts the selected columns. Without Columns and Aggregate every model column is selected.
func (q *Query) Columns(cols ...Column) *Query {
	if q.checkColumns(cols...) {
		q.columns = append(q.columns, cols...)
	}
	return q
}

func (q *Query) Aggregate(aggs ...Aggregate) *Query {
	for _, a := range aggs {
		if a.col != nil && !q.checkColumns(*a.col) {
			return q
		}
	}
	q.aggregates = append(q.aggregates, aggs...)
	return q
}

func (q *Query) GroupBy(cols ...Column) *Query {
	if q.checkColumns(cols...) {
		q.group = append(q.group, cols...)
	}
	return q
}

func (q *Query) OrderBy(orders ...Order) *Query {
	for _, o := range orders {
		switch by := o.by.(type) {
		case Column:
			if !q.checkColumns(by) {
				return q
			}
		case Aggregate:
			if by.col != nil && !q.checkColumns(*by.col) {
				return q
			}
		case nil:
			q.setErr(fmt.Errorf("%w: empty order expression", ErrQuery))
			return q
		}
	}
	q.orders = append(q.orders, orders...)
	return q
}

func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

func (q *Query) Offset(n int) *Query {
	q.offset = n
	return q
}

// Where returns the accumulated predicate, nil when the query is unfiltered.
func (q *Query) Where() Predicate { return q.where }

// apply translates the query onto a go-pg query over the same table.
func (q *Query) apply(db pg.DBI, oq *orm.Query) (*orm.Query, error) {
	if q.err != nil {
		return nil, q.err
	}

	for _, c := range q.columns {
		oq = oq.ColumnExpr("?", pg.Ident(c.Name))
	}

	for _, a := range q.aggregates {
		sql, args := a.expr()
		oq = oq.ColumnExpr(sql+" AS ?", append(args, pg.Ident(a.Alias()))...)
	}

	if q.where != nil {
		sql, args, err := q.where.compile(db)
		if err != nil {
			return nil, err
		}
		oq = oq.Where(sql, args...)
	}

	for _, g := range q.group {
		oq = oq.GroupExpr("?", pg.Ident(g.Name))
	}

	for _, o := range q.orders {
		sql, args := o.by.expr()
		if o.desc {
			sql += " DESC"
		} else {
			sql += " ASC"
		}
		oq = oq.OrderExpr(sql, args...)
	}

	if q.limit > 0 {
		oq = oq.Limit(q.limit)
	}
	if q.offset > 0 {
		oq = oq.Offset(q.offset)
	}

	return oq, nil
}
