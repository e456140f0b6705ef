package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/aria/internal/models"
)

func tempLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "processed_albums.json"))
}

func TestLedger_LoadMissingFile(t *testing.T) {
	l := tempLedger(t)
	if entries := l.Load(); len(entries) != 0 {
		t.Errorf("missing file should load as empty ledger, got %d entries", len(entries))
	}
}

func TestLedger_LoadCorruptFile(t *testing.T) {
	l := tempLedger(t)
	if err := os.WriteFile(l.Path(), []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	if entries := l.Load(); len(entries) != 0 {
		t.Errorf("corrupt file should load as empty ledger, got %d entries", len(entries))
	}
}

func TestLedger_UpsertInsert(t *testing.T) {
	l := tempLedger(t)

	if err := l.Upsert("Boards of Canada", "Geogaddi", "LIKED_EXACT", 1700000000); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	entries := l.Load()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	entry := entries[0]
	if entry.Key != "Boards of Canada::Geogaddi" {
		t.Errorf("Key = %q, want %q", entry.Key, "Boards of Canada::Geogaddi")
	}
	if entry.Artist != "Boards of Canada" || entry.Title != "Geogaddi" {
		t.Errorf("entry fields = %q / %q", entry.Artist, entry.Title)
	}
	if entry.Outcome != "LIKED_EXACT" {
		t.Errorf("Outcome = %q, want LIKED_EXACT", entry.Outcome)
	}
	if entry.Timestamp != 1700000000 {
		t.Errorf("Timestamp = %d, want 1700000000", entry.Timestamp)
	}
}

func TestLedger_UpsertOverwrites(t *testing.T) {
	l := tempLedger(t)

	if err := l.Upsert("Burial", "Untrue", "ADDED_FUZZY", 100); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := l.Upsert("Burial", "Untrue", "LIKED_VIA_COMMAND", 200); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	entries := l.Load()
	if len(entries) != 1 {
		t.Fatalf("upsert must keep one entry per key, got %d", len(entries))
	}
	if entries[0].Outcome != "LIKED_VIA_COMMAND" {
		t.Errorf("Outcome = %q, want the later write to win", entries[0].Outcome)
	}
	if entries[0].Timestamp != 200 {
		t.Errorf("Timestamp = %d, want 200", entries[0].Timestamp)
	}
}

func TestLedger_UpsertPreservesOrder(t *testing.T) {
	l := tempLedger(t)

	l.Upsert("A", "First", "ADDED_EXACT", 1)
	l.Upsert("B", "Second", "ADDED_EXACT", 2)
	l.Upsert("C", "Third", "ADDED_EXACT", 3)
	l.Upsert("B", "Second", "EXCLUDED_VIA_COMMAND", 4)

	entries := l.Load()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	wantKeys := []string{"A::First", "B::Second", "C::Third"}
	for i, want := range wantKeys {
		if entries[i].Key != want {
			t.Errorf("entries[%d].Key = %q, want %q", i, entries[i].Key, want)
		}
	}
	if entries[1].Outcome != "EXCLUDED_VIA_COMMAND" {
		t.Errorf("in-place update expected, got Outcome %q", entries[1].Outcome)
	}
}

func TestLedger_KeysAndContains(t *testing.T) {
	l := tempLedger(t)

	l.Upsert("Autechre", "Amber", "LIKED_EXACT", 10)
	l.Upsert("Aphex Twin", "Syro", "ADDED_FUZZY", 20)

	keys := l.Keys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
	if !keys[models.LedgerKey("Autechre", "Amber")] {
		t.Error("Keys() missing Autechre::Amber")
	}

	if !l.Contains("Aphex Twin", "Syro") {
		t.Error("Contains() = false for a recorded pair")
	}
	if l.Contains("Aphex Twin", "Drukqs") {
		t.Error("Contains() = true for an unrecorded pair")
	}
}

func TestLedger_WriteCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	l := New(filepath.Join(dir, "nested", "deep", "ledger.json"))

	if err := l.Upsert("Artist", "Album", "ADDED_EXACT", 1); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if _, err := os.Stat(l.Path()); err != nil {
		t.Errorf("ledger file not created: %v", err)
	}
}
