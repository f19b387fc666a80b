package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/go-pg/pg/v10"
	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/posts-crud/internal/db"
	"github.com/daniilsolovey/posts-crud/internal/posts"
)

var testDB *pg.DB

func TestMain(m *testing.M) {
	database, err := db.SetupTestDB()
	if err != nil {
		fmt.Fprintln(os.Stderr, "test database is not available, skipping integration tests. Make sure PostgreSQL is running:")
		fmt.Fprintln(os.Stderr, "  docker-compose -f docker-compose.test.yml up -d")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	testDB = database

	code := m.Run()

	if testDB != nil {
		if err := testDB.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close database connection: %v\n", err)
		}
	}

	os.Exit(code)
}

// withRoutes serves the API over a transaction holding the fixture, rolled back on cleanup.
func withRoutes(t *testing.T) *echo.Echo {
	t.Helper()
	if testDB == nil {
		t.Skip("test database is not available")
	}

	tx, err := testDB.Begin()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Errorf("failed to rollback transaction: %v", err)
		}
	})

	if _, err := db.LoadPosts(t.Context(), tx, db.FilterFixture); err != nil {
		t.Fatalf("failed to load fixture: %v", err)
	}

	repo := db.New(tx, noOpLogger())
	handler := NewPostHandler(posts.NewManager(repo), stubPinger{}, noOpLogger())
	return handler.RegisterRoutes()
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("failed to unmarshal response %s: %v", body, err)
	}
	return v
}

func TestPostHandler_Posts_Integration(t *testing.T) {
	e := withRoutes(t)

	tests := []struct {
		name      string
		query     string
		wantTotal string
		want      []string
	}{
		{"all", "", "9", []string{"title1", "title2", "title3", "title4", "title5", "title6", "title7", "title8", "title9"}},
		{"published top", "?published=true&sort_by=good_count&desc=true&limit=2", "7", []string{"title9", "title1"}},
		{"categories", "?category_id=1&category_id=3", "3", []string{"title2", "title3", "title9"}},
		{"category name", "?category_name=Tech", "3", []string{"title5", "title6", "title7"}},
		{"author", "?author=Bob", "1", []string{"title6"}},
		{"good count", "?min_good_count=50", "2", []string{"title1", "title9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, http.MethodGet, "/api/v1/posts"+tt.query, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d, body: %s", rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get(totalCountHeader); got != tt.wantTotal {
				t.Errorf("expected total %s, got %s", tt.wantTotal, got)
			}

			list := decode[[]Post](t, rec.Body.Bytes())
			if len(list) != len(tt.want) {
				t.Fatalf("expected %d posts, got %d", len(tt.want), len(list))
			}
			for i := range tt.want {
				if list[i].Title != tt.want[i] {
					t.Errorf("post %d: expected %s, got %s", i, tt.want[i], list[i].Title)
				}
			}
		})
	}
}

func TestPostHandler_CRUD_Integration(t *testing.T) {
	e := withRoutes(t)

	rec := serve(e, http.MethodPost, "/api/v1/posts", `{"title":"test title","body":"tes","author":"Eve"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d, body: %s", rec.Code, rec.Body.String())
	}
	created := decode[Post](t, rec.Body.Bytes())
	if created.ID == 0 || created.Published || created.GoodCount != 0 || created.CategoryID != nil {
		t.Fatalf("unexpected created post: %+v", created)
	}
	path := fmt.Sprintf("/api/v1/posts/%d", created.ID)

	rec = serve(e, http.MethodPatch, path, `{"author":null,"categoryId":2,"goodCount":7}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body: %s", rec.Code, rec.Body.String())
	}
	patched := decode[Post](t, rec.Body.Bytes())
	if patched.Author != nil {
		t.Errorf("expected author cleared, got %q", *patched.Author)
	}
	if patched.CategoryID == nil || *patched.CategoryID != 2 || patched.GoodCount != 7 {
		t.Errorf("unexpected patched post: %+v", patched)
	}
	if patched.Title != "test title" {
		t.Errorf("expected title untouched, got %q", patched.Title)
	}

	rec = serve(e, http.MethodPut, path, `{"title":"replaced","body":"b","published":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body: %s", rec.Code, rec.Body.String())
	}
	replaced := decode[Post](t, rec.Body.Bytes())
	if replaced.Title != "replaced" || !replaced.Published || replaced.CategoryID != nil || replaced.GoodCount != 0 {
		t.Errorf("unexpected replaced post: %+v", replaced)
	}

	rec = serve(e, http.MethodGet, path, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	rec = serve(e, http.MethodDelete, path, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec = serve(e, method, path, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s after delete: expected status 404, got %d", method, rec.Code)
		}
	}

	rec = serve(e, http.MethodPatch, path, `{"published":true}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("patch after delete: expected status 404, got %d", rec.Code)
	}
}

func TestPostHandler_DeletePosts_Integration(t *testing.T) {
	e := withRoutes(t)

	rec := serve(e, http.MethodDelete, "/api/v1/posts", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 without filters, got %d", rec.Code)
	}

	rec = serve(e, http.MethodDelete, "/api/v1/posts?category_id=1&category_id=2&category_id=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body: %s", rec.Code, rec.Body.String())
	}
	result := decode[map[string]int](t, rec.Body.Bytes())
	if result["deleted"] != 6 {
		t.Errorf("expected 6 deleted, got %d", result["deleted"])
	}

	rec = serve(e, http.MethodGet, "/api/v1/posts", "")
	if got := rec.Header().Get(totalCountHeader); got != "3" {
		t.Errorf("expected 3 posts left, got %s", got)
	}
}

func TestPostHandler_AuthorStats_Integration(t *testing.T) {
	e := withRoutes(t)

	rec := serve(e, http.MethodGet, "/api/v1/posts/stats/authors", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body: %s", rec.Code, rec.Body.String())
	}

	stats := decode[[]AuthorStat](t, rec.Body.Bytes())
	want := []AuthorStat{
		{Author: "Alice", Posts: 1, GoodCount: 200},
		{Author: "John", Posts: 1, GoodCount: 20},
	}
	if len(stats) != len(want) {
		t.Fatalf("expected %d authors, got %+v", len(want), stats)
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Errorf("author %d: expected %+v, got %+v", i, want[i], stats[i])
		}
	}
}

func TestPostHandler_Categories_Integration(t *testing.T) {
	e := withRoutes(t)

	rec := serve(e, http.MethodPost, "/api/v1/categories", `{"name":"Sport"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d, body: %s", rec.Code, rec.Body.String())
	}
	created := decode[Category](t, rec.Body.Bytes())
	if created.ID == 0 || created.Name != "Sport" || created.Description != nil {
		t.Errorf("unexpected category: %+v", created)
	}

	rec = serve(e, http.MethodGet, "/api/v1/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	list := decode[[]Category](t, rec.Body.Bytes())
	if len(list) != len(db.FixtureCategories)+1 {
		t.Errorf("expected %d categories, got %d", len(db.FixtureCategories)+1, len(list))
	}
}
