package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-pg/pg/v10"
)

// Column is a column bound to the table it belongs to.
type Column struct {
	Table string
	Name  string
}

func (c Column) String() string {
	return c.Table + "." + c.Name
}

func (c Column) expr() (string, []interface{}) {
	return "?", []interface{}{pg.Ident(c.Name)}
}

type ColumnType string

const (
	TypeInteger   ColumnType = "integer"
	TypeText      ColumnType = "text"
	TypeBool      ColumnType = "boolean"
	TypeTimestamp ColumnType = "timestamp without time zone"
)

type ColumnDef struct {
	Name     string
	Type     ColumnType
	Nullable bool
	// PrimaryKey columns are assigned by storage on insert and never written afterwards.
	PrimaryKey bool
	// Managed columns are filled by storage defaults or triggers.
	Managed bool
	// Default columns take a storage default when no value is supplied.
	Default bool
}

// Required reports whether an inserted row must carry a value for the column.
func (c ColumnDef) Required() bool {
	return c.Writable() && !c.Nullable && !c.Default
}

// Writable reports whether callers may supply a value for the column.
func (c ColumnDef) Writable() bool {
	return !c.PrimaryKey && !c.Managed
}

type TableDef struct {
	Name    string
	Columns []ColumnDef
}

func (t TableDef) Column(name string) (ColumnDef, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// Schema is the expected layout of the database after all migrations are applied.
var Schema = []TableDef{
	{
		Name: "category",
		Columns: []ColumnDef{
			{Name: "id", Type: TypeInteger, Nullable: true, PrimaryKey: true},
			{Name: "name", Type: TypeText},
			{Name: "description", Type: TypeText, Nullable: true},
		},
	},
	{
		Name: "posts",
		Columns: []ColumnDef{
			{Name: "id", Type: TypeInteger, Nullable: true, PrimaryKey: true},
			{Name: "title", Type: TypeText},
			{Name: "body", Type: TypeText},
			{Name: "category_id", Type: TypeInteger, Nullable: true},
			{Name: "author", Type: TypeText, Nullable: true},
			{Name: "published", Type: TypeBool, Default: true},
			{Name: "good_count", Type: TypeInteger, Default: true},
			{Name: "created_at", Type: TypeTimestamp, Managed: true},
			{Name: "updated_at", Type: TypeTimestamp, Managed: true},
		},
	},
}

// joinable lists table pairs that may appear in the same query.
var joinable = [][2]string{
	{"category", "posts"},
}

func TableByName(name string) (TableDef, bool) {
	for _, t := range Schema {
		if t.Name == name {
			return t, true
		}
	}
	return TableDef{}, false
}

// Joinable reports whether tables a and b may be referenced by one statement.
func Joinable(a, b string) bool {
	if a == b {
		return true
	}
	for _, pair := range joinable {
		if (pair[0] == a && pair[1] == b) || (pair[0] == b && pair[1] == a) {
			return true
		}
	}
	return false
}

func lookupColumn(c Column) (ColumnDef, error) {
	t, ok := TableByName(c.Table)
	if !ok {
		return ColumnDef{}, fmt.Errorf("%w: unknown table %q", ErrQuery, c.Table)
	}
	def, ok := t.Column(c.Name)
	if !ok {
		return ColumnDef{}, fmt.Errorf("%w: unknown column %q in table %q", ErrQuery, c.Name, c.Table)
	}
	return def, nil
}

type liveColumn struct {
	TableName  string `pg:"table_name"`
	ColumnName string `pg:"column_name"`
	DataType   string `pg:"data_type"`
	IsNullable string `pg:"is_nullable"`
}

// VerifySchema compares Schema with information_schema of the connected database.
// Primary key nullability is not compared: storage always reports keys as NOT NULL.
func VerifySchema(ctx context.Context, db pg.DBI) error {
	names := make([]string, 0, len(Schema))
	for _, t := range Schema {
		names = append(names, t.Name)
	}

	var live []liveColumn
	_, err := db.QueryContext(ctx, &live, `
		SELECT table_name, column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name IN (?)`, pg.In(names))
	if err != nil {
		return fmt.Errorf("verify schema: %w: %w", ErrConnection, err)
	}

	return compareSchema(Schema, live)
}

func compareSchema(expected []TableDef, live []liveColumn) error {
	index := make(map[string]liveColumn, len(live))
	for _, c := range live {
		index[c.TableName+"."+c.ColumnName] = c
	}

	var problems []string
	for _, t := range expected {
		for _, c := range t.Columns {
			got, ok := index[t.Name+"."+c.Name]
			if !ok {
				problems = append(problems, fmt.Sprintf("%s.%s is missing", t.Name, c.Name))
				continue
			}
			if got.DataType != string(c.Type) {
				problems = append(problems, fmt.Sprintf("%s.%s has type %q, want %q", t.Name, c.Name, got.DataType, c.Type))
			}
			if !c.PrimaryKey && (got.IsNullable == "YES") != c.Nullable {
				problems = append(problems, fmt.Sprintf("%s.%s nullable=%s, want %t", t.Name, c.Name, got.IsNullable, c.Nullable))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: schema mismatch: %s", ErrMigration, strings.Join(problems, "; "))
	}

	return nil
}
