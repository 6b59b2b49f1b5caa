//go:build sqlite_fts5

package index

import (
	"testing"
	"time"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM outputs_fts`).Scan(&count); err != nil {
		t.Fatalf("outputs_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	row := OutputRow{
		Name:        "fts.md",
		Description: "FTS Output",
		Checksum:    "f1",
		UpdatedAt:   time.Now(),
	}
	if err := db.UpsertOutput(row, "The model produced a powerful recursive solution."); err != nil {
		t.Fatalf("UpsertOutput: %v", err)
	}

	results, err := db.Search("powerful", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Name != "fts.md" {
		t.Errorf("name = %q", results[0].Name)
	}
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_DeleteRemovesFromFTS(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertOutput(OutputRow{Name: "gone.md", Checksum: "g", UpdatedAt: time.Now()}, "vanishing content")
	_ = db.DeleteOutput("gone.md")

	results, _ := db.Search("vanishing", 10)
	for _, r := range results {
		if r.Name == "gone.md" {
			t.Error("deleted output still in FTS index")
		}
	}
}

func TestFTS5_UpsertReplacesContent(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertOutput(OutputRow{Name: "evo.md", Description: "Old", Checksum: "1", UpdatedAt: now}, "original text")
	_ = db.UpsertOutput(OutputRow{Name: "evo.md", Description: "New", Checksum: "2", UpdatedAt: now}, "replacement text")

	results, _ := db.Search("original", 10)
	if len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ = db.Search("replacement", 10)
	if len(results) != 1 || results[0].Description != "New" {
		t.Errorf("FTS not updated: %+v", results)
	}
}
