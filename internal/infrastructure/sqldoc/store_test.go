package sqldoc

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
)

type note struct {
	Title string `json:"title"`
	Rank  int    `json:"rank"`
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), SQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStorePageInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewStore[note](setupTestDB(t), SQLite)

	for i := 1; i <= 10; i++ {
		if _, err := store.Create(ctx, "notes", note{Title: fmt.Sprintf("note %d", i), Rank: i}); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}
	if _, err := store.Create(ctx, "other", note{Title: "elsewhere"}); err != nil {
		t.Fatalf("create in other collection failed: %v", err)
	}

	tests := []struct {
		name      string
		offset    int
		limit     int
		wantRanks []int
	}{
		{"window", 5, 2, []int{6, 7}},
		{"first page", 0, 3, []int{1, 2, 3}},
		{"tail shorter than limit", 8, 5, []int{9, 10}},
		{"offset past end", 20, 5, []int{}},
		{"no limit fetches the rest", 7, 0, []int{8, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := store.Page(ctx, "notes", tt.offset, tt.limit)
			if err != nil {
				t.Fatalf("page failed: %v", err)
			}
			if len(docs) != len(tt.wantRanks) {
				t.Fatalf("expected %d documents, got %d", len(tt.wantRanks), len(docs))
			}
			for i, doc := range docs {
				if doc.Data.Rank != tt.wantRanks[i] {
					t.Errorf("position %d: expected rank %d, got %d", i, tt.wantRanks[i], doc.Data.Rank)
				}
				if doc.ID == "" || doc.TS.IsZero() {
					t.Errorf("position %d: missing id or ts", i)
				}
			}
		})
	}

	n, err := store.Count(ctx, "notes")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 10 {
		t.Errorf("expected 10 notes, got %d", n)
	}
}

func TestStoreCreateReturnsWrappedDocument(t *testing.T) {
	ctx := context.Background()
	store := NewStore[note](setupTestDB(t), SQLite)

	created, err := store.Create(ctx, "notes", note{Title: "hello", Rank: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	docs, err := store.Page(ctx, "notes", 0, 10)
	if err != nil {
		t.Fatalf("page failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].ID != created.ID || docs[0].Data != created.Data || !docs[0].TS.Equal(created.TS) {
		t.Errorf("stored document %+v does not match created %+v", docs[0], created)
	}
}

func TestDialectFor(t *testing.T) {
	for _, name := range []string{"sqlite", "SQLite3", "postgres", "pg"} {
		if _, err := DialectFor(name); err != nil {
			t.Errorf("%s should resolve: %v", name, err)
		}
	}
	if _, err := DialectFor("mongo"); err == nil {
		t.Error("mongo is not a sql dialect")
	}
}

func TestRebind(t *testing.T) {
	query := "SELECT 1 WHERE a = ? AND b = ?"
	if got := SQLite.rebind(query); got != query {
		t.Errorf("sqlite should keep placeholders, got %q", got)
	}
	if got := Postgres.rebind(query); got != "SELECT 1 WHERE a = $1 AND b = $2" {
		t.Errorf("unexpected postgres query %q", got)
	}
}
