//go:build sqlite_fts5

package index

import "testing"

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM warbands_fts`).Scan(&count); err != nil {
		t.Fatalf("warbands_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertWarband(summary("fts", "Corvos", "", 0), "Corvos Ana necromante poderoso"); err != nil {
		t.Fatalf("UpsertWarband: %v", err)
	}

	results, err := db.Search("necromante", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ID != "fts" {
		t.Errorf("id = %q", results[0].ID)
	}
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_DiacriticsIgnored(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertWarband(summary("d", "Bando", "", 0), "Álvaro Ímpeto")

	results, _ := db.Search("alvaro", 10)
	if len(results) != 1 {
		t.Errorf("expected diacritic-insensitive match, got %+v", results)
	}
}

func TestFTS5_DeleteRemovesFromFTS(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertWarband(summary("gone", "Gone", "", 0), "vanishing content")
	_ = db.DeleteWarband("gone")

	results, _ := db.Search("vanishing", 10)
	for _, r := range results {
		if r.ID == "gone" {
			t.Error("deleted warband still in FTS index")
		}
	}
}

func TestFTS5_UpsertReplacesContent(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertWarband(summary("evo", "Old", "", 0), "original text")
	_ = db.UpsertWarband(summary("evo", "New", "", 0), "replacement text")

	results, _ := db.Search("original", 10)
	if len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ = db.Search("replacement", 10)
	if len(results) != 1 || results[0].Name != "New" {
		t.Errorf("FTS not updated: %+v", results)
	}
}
