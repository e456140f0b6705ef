// package ledger persists the permanent record of finalized (artist, title)
// outcomes that makes every run idempotent.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/aria/internal/models"
)

// Ledger is a whole-file JSON journal of processed albums.
//
// Every upsert reloads, mutates, and rewrites the full file. That accepts a
// theoretical lost-update race between overlapping runs; the scheduler
// guarantees non-overlapping invocations, so no lock is taken.
type Ledger struct {
	path string
}

// New creates a Ledger backed by the file at path. The file does not need
// to exist yet.
func New(path string) *Ledger {
	return &Ledger{path: path}
}

// Path returns the backing file location.
func (l *Ledger) Path() string { return l.path }

// Load reads all entries. A missing or corrupt file loads as an empty
// ledger: losing the ledger degrades to "reprocess everything", which is
// safe because the consuming catalog actions are idempotent.
func (l *Ledger) Load() []models.LedgerEntry {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil
	}

	var entries []models.LedgerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}

	return entries
}

// Keys returns the set of processed keys for dedup checks.
func (l *Ledger) Keys() map[string]bool {
	entries := l.Load()
	keys := make(map[string]bool, len(entries))
	for _, entry := range entries {
		keys[entry.Key] = true
	}
	return keys
}

// Contains reports whether the (artist, title) pair has been finalized.
func (l *Ledger) Contains(artist, title string) bool {
	key := models.LedgerKey(artist, title)
	for _, entry := range l.Load() {
		if entry.Key == key {
			return true
		}
	}
	return false
}

// Upsert records an outcome for the (artist, title) pair. An existing entry
// with the same key is overwritten in place (last-write-wins); otherwise a
// new entry is appended. At most one entry per key ever exists.
func (l *Ledger) Upsert(artist, title, outcome string, timestamp int64) error {
	entries := l.Load()
	key := models.LedgerKey(artist, title)

	found := false
	for i := range entries {
		if entries[i].Key == key {
			entries[i].Outcome = outcome
			entries[i].Timestamp = timestamp
			found = true
			break
		}
	}

	if !found {
		entries = append(entries, models.LedgerEntry{
			Key:       key,
			Artist:    artist,
			Title:     title,
			Timestamp: timestamp,
			Outcome:   outcome,
		})
	}

	return l.write(entries)
}

func (l *Ledger) write(entries []models.LedgerEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}

	return nil
}
