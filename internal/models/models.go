// package models defines the data model for the music curation pipeline
package models

import (
	"fmt"
	"strings"
)

// LedgerKeySeparator joins artist and title into a ledger key.
// Neither field is expected to contain it.
const LedgerKeySeparator = "::"

// DecisionTag is the action class assigned to a candidate by the analyst.
type DecisionTag string

const (
	// DecisionFavorite marks a candidate for the user's permanent library.
	DecisionFavorite DecisionTag = "FAVORITE"
	// DecisionCollect marks a candidate for the discovery playlist.
	DecisionCollect DecisionTag = "COLLECT"
)

// Candidate is an AI-approved release awaiting catalog resolution and action.
// Immutable once received from the analyst.
type Candidate struct {
	Artist         string      `json:"artist"`
	Title          string      `json:"album"`
	Decision       DecisionTag `json:"decision"`
	RelevanceScore int         `json:"relevance_score"`
	Rationale      string      `json:"reasoning"`
}

// Validate checks the fields required before any catalog call is attempted.
func (c Candidate) Validate() error {
	if strings.TrimSpace(c.Artist) == "" {
		return fmt.Errorf("missing artist")
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("missing album title")
	}
	return nil
}

// Key returns the ledger dedup identity for this candidate.
func (c Candidate) Key() string {
	return LedgerKey(c.Artist, c.Title)
}

// LedgerKey builds the order-preserving dedup key for an (artist, title) pair.
func LedgerKey(artist, title string) string {
	return artist + LedgerKeySeparator + title
}

// CatalogAlbum represents an album returned by the catalog search.
type CatalogAlbum struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ArtistName string `json:"artist_name"`
}

// Playlist represents a named, mutable container of tracks on the catalog.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
}

// PlaylistItem is a track currently present in a playlist along with the
// album it belongs to, used for album-level removal.
type PlaylistItem struct {
	TrackID string `json:"track_id"`
	AlbumID string `json:"album_id"`
}

// MatchStatus classifies the result of resolving a candidate against the catalog.
type MatchStatus string

const (
	MatchExact    MatchStatus = "EXACT"
	MatchFuzzy    MatchStatus = "FUZZY"
	MatchNotFound MatchStatus = "NOT_FOUND"
	MatchError    MatchStatus = "ERROR"
)

// MatchResult is the outcome of fuzzy identity resolution for one candidate.
type MatchResult struct {
	AlbumID       string // Empty when Status is NOT_FOUND or ERROR
	ResolvedTitle string // The catalog's own title for the matched album
	Similarity    int    // 0-100, artist bonus included
	Status        MatchStatus
	Detail        string // Failure description when Status is ERROR
}

// LedgerEntry records a finalized (artist, title) outcome.
//
// JSON tags match the processed_albums.json layout so existing ledger files
// keep loading across versions.
type LedgerEntry struct {
	Key       string `json:"key"`
	Artist    string `json:"artist"`
	Title     string `json:"album"`
	Timestamp int64  `json:"timestamp"`
	Outcome   string `json:"action"`
}

// OutcomeStatus classifies what happened to a candidate or staged command.
type OutcomeStatus string

const (
	OutcomeLikedExact         OutcomeStatus = "LIKED_EXACT"
	OutcomeLikedFuzzy         OutcomeStatus = "LIKED_FUZZY"
	OutcomeAddedExact         OutcomeStatus = "ADDED_EXACT"
	OutcomeAddedFuzzy         OutcomeStatus = "ADDED_FUZZY"
	OutcomeNotFound           OutcomeStatus = "NOT_FOUND"
	OutcomeError              OutcomeStatus = "ERROR"
	OutcomeSkippedDuplicate   OutcomeStatus = "SKIPPED_DUPLICATE"
	OutcomeSkippedInvalid     OutcomeStatus = "SKIPPED_INVALID"
	OutcomeLikedViaCommand    OutcomeStatus = "LIKED_VIA_COMMAND"
	OutcomeExcludedViaCommand OutcomeStatus = "EXCLUDED_VIA_COMMAND"
)

// Recordable reports whether an outcome is written to the processed ledger.
// NOT_FOUND, ERROR and SKIPPED outcomes stay unrecorded so the candidate is
// retried on the next run.
func (s OutcomeStatus) Recordable() bool {
	switch s {
	case OutcomeLikedExact, OutcomeLikedFuzzy, OutcomeAddedExact, OutcomeAddedFuzzy,
		OutcomeLikedViaCommand, OutcomeExcludedViaCommand:
		return true
	}
	return false
}

// ActionOutcome is produced once per candidate or per staged command and
// consumed by reporting and the ledger writer.
type ActionOutcome struct {
	Status         OutcomeStatus `json:"status"`
	Artist         string        `json:"artist"`
	QueriedTitle   string        `json:"queried_title"`
	ResolvedTitle  string        `json:"resolved_title,omitempty"`
	AlbumID        string        `json:"album_id,omitempty"`
	RelevanceScore int           `json:"relevance_score,omitempty"`
	Rationale      string        `json:"rationale,omitempty"`
	Detail         string        `json:"detail,omitempty"`
}

// SourceSuggestion is a new harvest source proposed by the discovery pass.
// Suggestions are written to a file for the user to vet; nothing adopts
// them into the configured source list automatically.
type SourceSuggestion struct {
	Website   string `json:"website"`
	URL       string `json:"url"`
	Rationale string `json:"reasoning,omitempty"`
}

// CommandType distinguishes the two staged correction queues.
type CommandType string

const (
	CommandRemove  CommandType = "REMOVE"
	CommandPromote CommandType = "PROMOTE"
)

// StagedCommand is a queued correction awaiting reconciliation. Staged by an
// external trigger (the review TUI or the Tidal app itself) as a queue
// playlist item, consumed exactly once by the reconciler, then cleared from
// its queue. Artist and title are resolved from the album at apply time.
type StagedCommand struct {
	AlbumID string      `json:"album_id"`
	TrackID string      `json:"track_id"` // The queue item carrying this command
	Type    CommandType `json:"type"`
}
