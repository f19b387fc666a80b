package db

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/go-pg/pg/v10"
)

func noOpLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func skipWithoutDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("test database is not available")
	}
}

func withTx(t *testing.T) (*pg.Tx, context.Context, *Repository) {
	t.Helper()
	skipWithoutDB(t)
	ctx := context.Background()

	tx, err := testDB.Begin()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}

	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Errorf("failed to rollback transaction: %v", err)
		}
	})

	repo := New(tx, noOpLogger())
	return tx, ctx, repo
}

// withFixture opens a transaction and loads posts into it.
func withFixture(t *testing.T, posts []Post) (context.Context, *Repository, []Post) {
	t.Helper()

	tx, ctx, repo := withTx(t)
	inserted, err := LoadPosts(ctx, tx, posts)
	if err != nil {
		t.Fatalf("failed to load fixture: %v", err)
	}

	return ctx, repo, inserted
}

func titlesOf(posts []Post) []string {
	titles := make([]string, 0, len(posts))
	for _, p := range posts {
		titles = append(titles, p.Title)
	}
	return titles
}

func assertTitles(t *testing.T, posts []Post, want ...string) {
	t.Helper()

	got := titlesOf(posts)
	if len(got) != len(want) {
		t.Fatalf("expected titles %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected titles %v, got %v", want, got)
		}
	}
}

func assertSortedByGoodCountDesc(t *testing.T, posts []Post) {
	t.Helper()

	for i := 1; i < len(posts); i++ {
		if posts[i-1].GoodCount < posts[i].GoodCount {
			t.Errorf("posts are not sorted by good_count desc: %q (%d) before %q (%d)",
				posts[i-1].Title, posts[i-1].GoodCount, posts[i].Title, posts[i].GoodCount)
		}
	}
}
