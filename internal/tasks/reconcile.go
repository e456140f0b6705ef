package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/aria/internal/models"
	"github.com/desertthunder/aria/internal/shared"
)

// ReconcileResult contains all data from one reconciliation pass.
type ReconcileResult struct {
	Outcomes []models.ActionOutcome `json:"outcomes"`
	Promoted int                    `json:"promoted"`
	Excluded int                    `json:"excluded"`
	Failed   int                    `json:"failed"`
	Drained  int                    `json:"drained"`
}

// queueSpec binds a queue playlist name to the command it stages.
type queueSpec struct {
	name    string
	command models.CommandType
}

// Reconcile turns the staged command queues into ledger and playlist
// mutations, then drains them.
//
// Each queue is processed independently: staged items are read, grouped by
// the album they reference, and every distinct album is handled once.
// PROMOTE favorites the album; REMOVE only records the exclusion. Both
// remove the album's tracks from the target playlist. Per-album failures
// are logged and do not block the remaining albums. Finally every
// originally-read item is removed from the queue itself; removing an
// already-gone item is a no-op the catalog tolerates.
func (e *CurationEngine) Reconcile(ctx context.Context, progress chan<- ProgressUpdate) (*ReconcileResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	result := &ReconcileResult{}

	playlists, err := e.catalog.Playlists(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list playlists: %v", shared.ErrAPIRequest, err)
	}

	byName := make(map[string]models.Playlist, len(playlists))
	for _, pl := range playlists {
		byName[pl.Name] = pl
	}

	// The target playlist may legitimately not exist yet; track removal
	// then has nothing to do, but favorites and ledger writes still apply.
	var targetID string
	if target, ok := byName[e.opts.PlaylistName]; ok {
		targetID = target.ID
	}

	queues := []queueSpec{
		{name: e.opts.RemoveQueue, command: models.CommandRemove},
		{name: e.opts.PromoteQueue, command: models.CommandPromote},
	}

	for _, q := range queues {
		queue, ok := byName[q.name]
		if !ok {
			e.logger.Debug("queue playlist not found, skipping", "queue", q.name)
			continue
		}

		if err := e.reconcileQueue(ctx, progress, queue, q.command, targetID, result); err != nil {
			e.logger.Error("queue reconciliation failed", "queue", q.name, "err", err)
			result.Failed++
		}
	}

	return result, nil
}

// reconcileQueue processes one staged command queue end to end.
func (e *CurationEngine) reconcileQueue(ctx context.Context, progress chan<- ProgressUpdate, queue models.Playlist, command models.CommandType, targetID string, result *ReconcileResult) error {
	staged, err := e.catalog.PlaylistItems(ctx, queue.ID)
	if err != nil {
		return fmt.Errorf("failed to read queue: %w", err)
	}

	e.sendProgress(progress, readQueueUpdate(queue.Name, len(staged)))
	if len(staged) == 0 {
		return nil
	}

	commands := stageCommands(staged, command)

	for i, sc := range commands {
		e.sendProgress(progress, reconcileAlbumUpdate(i+1, len(commands), sc.AlbumID, sc.Type))

		outcome := e.reconcileAlbum(ctx, sc, targetID)
		result.Outcomes = append(result.Outcomes, outcome)

		switch outcome.Status {
		case models.OutcomeLikedViaCommand:
			result.Promoted++
		case models.OutcomeExcludedViaCommand:
			result.Excluded++
		case models.OutcomeError:
			result.Failed++
		}
	}

	// Drain the queue itself so nothing is reprocessed next pass.
	drainIDs := make([]string, 0, len(staged))
	for _, item := range staged {
		drainIDs = append(drainIDs, item.TrackID)
	}

	e.sendProgress(progress, drainQueueUpdate(queue.Name, len(drainIDs)))
	if err := e.catalog.RemovePlaylistTracks(ctx, queue.ID, drainIDs); err != nil {
		return fmt.Errorf("failed to drain queue: %w", err)
	}
	result.Drained += len(drainIDs)

	return nil
}

// stageCommands collapses raw queue items into one staged command per
// distinct album, in first-seen order. Items without an album are ignored.
func stageCommands(staged []models.PlaylistItem, command models.CommandType) []models.StagedCommand {
	var commands []models.StagedCommand
	seen := make(map[string]bool)
	for _, item := range staged {
		if item.AlbumID == "" || seen[item.AlbumID] {
			continue
		}
		seen[item.AlbumID] = true
		commands = append(commands, models.StagedCommand{
			AlbumID: item.AlbumID,
			TrackID: item.TrackID,
			Type:    command,
		})
	}
	return commands
}

// reconcileAlbum applies one staged command to its album. All failures are
// converted to an ERROR outcome here so one album never blocks the rest of
// the queue.
func (e *CurationEngine) reconcileAlbum(ctx context.Context, sc models.StagedCommand, targetID string) models.ActionOutcome {
	outcome := models.ActionOutcome{AlbumID: sc.AlbumID}

	album, err := e.catalog.Album(ctx, sc.AlbumID)
	if err != nil {
		outcome.Status = models.OutcomeError
		outcome.Detail = fmt.Sprintf("album lookup failed: %v", err)
		return outcome
	}

	outcome.Artist = album.ArtistName
	outcome.QueriedTitle = album.Title
	outcome.ResolvedTitle = album.Title

	if sc.Type == models.CommandPromote {
		if err := e.favorite(ctx, sc.AlbumID); err != nil {
			outcome.Status = models.OutcomeError
			outcome.Detail = fmt.Sprintf("favorite failed: %v", err)
			return outcome
		}
		outcome.Status = models.OutcomeLikedViaCommand
	} else {
		outcome.Status = models.OutcomeExcludedViaCommand
	}

	if err := e.removeAlbumTracks(ctx, sc.AlbumID, targetID); err != nil {
		outcome.Status = models.OutcomeError
		outcome.Detail = fmt.Sprintf("track removal failed: %v", err)
		return outcome
	}

	if err := e.ledger.Upsert(album.ArtistName, album.Title, string(outcome.Status), e.now()); err != nil {
		e.logger.Error("ledger upsert failed", "album", sc.AlbumID, "err", err)
	}

	return outcome
}

// removeAlbumTracks removes every target-playlist track belonging to the
// album. An album with no tracks in the playlist removes nothing and is not
// an error. Duplicate track IDs collapse before the removal call.
func (e *CurationEngine) removeAlbumTracks(ctx context.Context, albumID, targetID string) error {
	if targetID == "" {
		return nil
	}

	items, err := e.catalog.PlaylistItems(ctx, targetID)
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	var trackIDs []string
	for _, item := range items {
		if item.AlbumID != albumID || seen[item.TrackID] {
			continue
		}
		seen[item.TrackID] = true
		trackIDs = append(trackIDs, item.TrackID)
	}

	if len(trackIDs) == 0 {
		return nil
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}
	return e.catalog.RemovePlaylistTracks(ctx, targetID, trackIDs)
}
