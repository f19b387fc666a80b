// nolint
//
//lint:file-ignore U1000 ignore unused code, it's generated
package db

import (
	"time"
)

var Columns = struct {
	Category struct {
		ID, Name, Description Column
	}
	GooseDbVersion struct {
		ID, VersionID, IsApplied, Tstamp Column
	}
	Post struct {
		ID, Title, Body, CategoryID, Author, Published, GoodCount, CreatedAt, UpdatedAt Column
	}
}{
	Category: struct {
		ID, Name, Description Column
	}{
		ID:          Column{Table: "category", Name: "id"},
		Name:        Column{Table: "category", Name: "name"},
		Description: Column{Table: "category", Name: "description"},
	},
	GooseDbVersion: struct {
		ID, VersionID, IsApplied, Tstamp Column
	}{
		ID:        Column{Table: "goose_db_version", Name: "id"},
		VersionID: Column{Table: "goose_db_version", Name: "version_id"},
		IsApplied: Column{Table: "goose_db_version", Name: "is_applied"},
		Tstamp:    Column{Table: "goose_db_version", Name: "tstamp"},
	},
	Post: struct {
		ID, Title, Body, CategoryID, Author, Published, GoodCount, CreatedAt, UpdatedAt Column
	}{
		ID:         Column{Table: "posts", Name: "id"},
		Title:      Column{Table: "posts", Name: "title"},
		Body:       Column{Table: "posts", Name: "body"},
		CategoryID: Column{Table: "posts", Name: "category_id"},
		Author:     Column{Table: "posts", Name: "author"},
		Published:  Column{Table: "posts", Name: "published"},
		GoodCount:  Column{Table: "posts", Name: "good_count"},
		CreatedAt:  Column{Table: "posts", Name: "created_at"},
		UpdatedAt:  Column{Table: "posts", Name: "updated_at"},
	},
}

var Tables = struct {
	Category struct {
		Name string
	}
	GooseDbVersion struct {
		Name string
	}
	Post struct {
		Name string
	}
}{
	Category: struct {
		Name string
	}{
		Name: "category",
	},
	GooseDbVersion: struct {
		Name string
	}{
		Name: "goose_db_version",
	},
	Post: struct {
		Name string
	}{
		Name: "posts",
	},
}

type Category struct {
	tableName struct{} `pg:"category,discard_unknown_columns"`

	ID          int     `pg:"id,pk"`
	Name        string  `pg:"name,use_zero"`
	Description *string `pg:"description"`
}

type GooseDbVersion struct {
	tableName struct{} `pg:"goose_db_version,discard_unknown_columns"`

	ID        int       `pg:"id,pk"`
	VersionID int64     `pg:"version_id,use_zero"`
	IsApplied bool      `pg:"is_applied,use_zero"`
	Tstamp    time.Time `pg:"tstamp,use_zero"`
}

type Post struct {
	tableName struct{} `pg:"posts,discard_unknown_columns"`

	ID         int       `pg:"id,pk"`
	Title      string    `pg:"title,use_zero"`
	Body       string    `pg:"body,use_zero"`
	CategoryID *int      `pg:"category_id"`
	Author     *string   `pg:"author"`
	Published  bool      `pg:"published,use_zero"`
	GoodCount  int       `pg:"good_count,use_zero"`
	CreatedAt  time.Time `pg:"created_at"`
	UpdatedAt  time.Time `pg:"updated_at"`
}
