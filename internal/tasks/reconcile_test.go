package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/aria/internal/models"
	"github.com/desertthunder/aria/internal/shared"
)

func reconcileOpts() CurationOpts {
	return CurationOpts{
		PlaylistName: "Weekly Discovery",
		RemoveQueue:  "aria: remove",
		PromoteQueue: "aria: promote",
	}
}

func TestStageCommands(t *testing.T) {
	staged := []models.PlaylistItem{
		{TrackID: "1", AlbumID: "alb1"},
		{TrackID: "2", AlbumID: "alb1"},
		{TrackID: "3", AlbumID: ""},
		{TrackID: "4", AlbumID: "alb2"},
	}

	commands := stageCommands(staged, models.CommandRemove)
	if len(commands) != 2 {
		t.Fatalf("expected one command per distinct album, got %d", len(commands))
	}
	if commands[0].AlbumID != "alb1" || commands[1].AlbumID != "alb2" {
		t.Errorf("commands must keep first-seen album order: %+v", commands)
	}
	if commands[0].TrackID != "1" {
		t.Errorf("command must carry the first staged track, got %q", commands[0].TrackID)
	}
	for _, sc := range commands {
		if sc.Type != models.CommandRemove {
			t.Errorf("command type = %q, want REMOVE", sc.Type)
		}
	}
}

func TestCurationEngine_ReconcileMissingQueues(t *testing.T) {
	catalog := newMockCatalog()
	catalog.playlists = []models.Playlist{{ID: "target", Name: "Weekly Discovery"}}

	engine := newTestEngine(t, catalog, reconcileOpts())

	result, err := engine.Reconcile(context.Background(), nil)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if result.Promoted != 0 || result.Excluded != 0 || result.Drained != 0 {
		t.Errorf("missing queues must be a no-op, got %+v", result)
	}
}

func TestCurationEngine_ReconcileEmptyQueue(t *testing.T) {
	catalog := newMockCatalog()
	catalog.playlists = []models.Playlist{
		{ID: "target", Name: "Weekly Discovery"},
		{ID: "rq", Name: "aria: remove"},
	}

	engine := newTestEngine(t, catalog, reconcileOpts())

	result, err := engine.Reconcile(context.Background(), nil)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if result.Drained != 0 {
		t.Errorf("empty queue must drain nothing, got %d", result.Drained)
	}
	if len(catalog.removeCalls) != 0 {
		t.Errorf("empty queue must not call RemovePlaylistTracks, got %v", catalog.removeCalls)
	}
}

func TestCurationEngine_ReconcileRemoveQueue(t *testing.T) {
	catalog := newMockCatalog()
	catalog.playlists = []models.Playlist{
		{ID: "target", Name: "Weekly Discovery"},
		{ID: "rq", Name: "aria: remove"},
	}
	// Two staged tracks referencing the same album: processed once.
	catalog.playlistItems["rq"] = []models.PlaylistItem{
		{TrackID: "s1", AlbumID: "alb1"},
		{TrackID: "s2", AlbumID: "alb1"},
	}
	catalog.playlistItems["target"] = []models.PlaylistItem{
		{TrackID: "t1", AlbumID: "alb1"},
		{TrackID: "t2", AlbumID: "alb1"},
		{TrackID: "t3", AlbumID: "other"},
	}
	catalog.albums["alb1"] = models.CatalogAlbum{ID: "alb1", Title: "Untrue", ArtistName: "Burial"}

	engine := newTestEngine(t, catalog, reconcileOpts())

	result, err := engine.Reconcile(context.Background(), nil)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if result.Excluded != 1 {
		t.Errorf("Excluded = %d, want 1 (album processed once despite two staged tracks)", result.Excluded)
	}
	if len(catalog.favorited) != 0 {
		t.Errorf("REMOVE must not favorite, got %v", catalog.favorited)
	}

	// The album's tracks leave the target playlist, the unrelated track stays.
	targetRemovals := catalog.removeCalls["target"]
	if len(targetRemovals) != 1 || len(targetRemovals[0]) != 2 {
		t.Fatalf("expected one removal of 2 tracks from target, got %v", targetRemovals)
	}

	// Every originally staged item drains from the queue.
	queueRemovals := catalog.removeCalls["rq"]
	if len(queueRemovals) != 1 || len(queueRemovals[0]) != 2 {
		t.Fatalf("expected queue drain of 2 items, got %v", queueRemovals)
	}
	if result.Drained != 2 {
		t.Errorf("Drained = %d, want 2", result.Drained)
	}

	if !engine.ledger.Contains("Burial", "Untrue") {
		t.Error("EXCLUDED_VIA_COMMAND must be recorded in the ledger")
	}
}

func TestCurationEngine_ReconcilePromoteQueue(t *testing.T) {
	catalog := newMockCatalog()
	catalog.playlists = []models.Playlist{
		{ID: "target", Name: "Weekly Discovery"},
		{ID: "pq", Name: "aria: promote"},
	}
	catalog.playlistItems["pq"] = []models.PlaylistItem{{TrackID: "s1", AlbumID: "alb2"}}
	catalog.albums["alb2"] = models.CatalogAlbum{ID: "alb2", Title: "Amber", ArtistName: "Autechre"}

	engine := newTestEngine(t, catalog, reconcileOpts())

	result, err := engine.Reconcile(context.Background(), nil)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if result.Promoted != 1 {
		t.Errorf("Promoted = %d, want 1", result.Promoted)
	}
	if len(catalog.favorited) != 1 || catalog.favorited[0] != "alb2" {
		t.Errorf("PROMOTE must favorite the album, got %v", catalog.favorited)
	}

	entries := engine.ledger.Load()
	if len(entries) != 1 || entries[0].Outcome != string(models.OutcomeLikedViaCommand) {
		t.Errorf("expected one LIKED_VIA_COMMAND entry, got %+v", entries)
	}
}

func TestCurationEngine_ReconcileAlbumLookupFailure(t *testing.T) {
	catalog := newMockCatalog()
	catalog.playlists = []models.Playlist{{ID: "rq", Name: "aria: remove"}}
	catalog.playlistItems["rq"] = []models.PlaylistItem{
		{TrackID: "s1", AlbumID: "gone"},
		{TrackID: "s2", AlbumID: "alb3"},
	}
	catalog.albums["alb3"] = models.CatalogAlbum{ID: "alb3", Title: "Syro", ArtistName: "Aphex Twin"}

	engine := newTestEngine(t, catalog, reconcileOpts())

	result, err := engine.Reconcile(context.Background(), nil)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	// One album fails its lookup, the other is still processed.
	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
	if result.Excluded != 1 {
		t.Errorf("Excluded = %d, want 1", result.Excluded)
	}
	// The queue still drains both staged items.
	if result.Drained != 2 {
		t.Errorf("Drained = %d, want 2", result.Drained)
	}
}

func TestCurationEngine_ReconcileMissingTargetPlaylist(t *testing.T) {
	catalog := newMockCatalog()
	catalog.playlists = []models.Playlist{{ID: "pq", Name: "aria: promote"}}
	catalog.playlistItems["pq"] = []models.PlaylistItem{{TrackID: "s1", AlbumID: "alb4"}}
	catalog.albums["alb4"] = models.CatalogAlbum{ID: "alb4", Title: "Drukqs", ArtistName: "Aphex Twin"}

	engine := newTestEngine(t, catalog, reconcileOpts())

	result, err := engine.Reconcile(context.Background(), nil)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	// No target playlist: nothing to remove, but the favorite and ledger
	// write still happen.
	if result.Promoted != 1 {
		t.Errorf("Promoted = %d, want 1", result.Promoted)
	}
	if !engine.ledger.Contains("Aphex Twin", "Drukqs") {
		t.Error("promotion must be recorded even without a target playlist")
	}
}

func TestCurationEngine_ReconcilePlaylistListingFailure(t *testing.T) {
	catalog := newMockCatalog()
	catalog.playlistsErr = errors.New("api down")

	engine := newTestEngine(t, catalog, reconcileOpts())

	if _, err := engine.Reconcile(context.Background(), nil); !errors.Is(err, shared.ErrAPIRequest) {
		t.Errorf("Reconcile() error = %v, want ErrAPIRequest", err)
	}
}

func TestCurationEngine_ReconcileNilCatalog(t *testing.T) {
	engine := newTestEngine(t, newMockCatalog(), reconcileOpts())
	engine.catalog = nil

	if _, err := engine.Reconcile(context.Background(), nil); !errors.Is(err, shared.ErrServiceUnavailable) {
		t.Errorf("Reconcile() error = %v, want ErrServiceUnavailable", err)
	}
}
