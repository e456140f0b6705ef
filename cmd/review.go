package main

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/aria/internal/matcher"
	"github.com/desertthunder/aria/internal/models"
	"github.com/desertthunder/aria/internal/services"
	"github.com/desertthunder/aria/internal/shared"
	"github.com/desertthunder/aria/internal/ui"
	"github.com/urfave/cli/v3"
)

// Review launches the interactive ledger review TUI.
//
// Staged corrections land in the queue playlists, which `aria reconcile`
// applies and drains on its next pass.
func (r *Runner) Review(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureSession(ctx); err != nil {
		return err
	}

	entries := r.ledger.Load()
	if len(entries) == 0 {
		r.writePlain("Ledger is empty; nothing to review.\n")
		return nil
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/aria-review.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}

	stager := &queueStager{
		catalog: r.catalog,
		logger:  fileLogger,
		matcher: matcher.New(r.catalog, matcher.Opts{
			AcceptThreshold: r.config.Matching.AcceptThreshold,
			ExactThreshold:  r.config.Matching.ExactThreshold,
			ArtistBonus:     r.config.Matching.ArtistBonus,
			SearchDepth:     r.config.Matching.SearchDepth,
		}),
		queueNames: map[models.CommandType]string{
			models.CommandRemove:  r.config.Curation.RemoveQueue,
			models.CommandPromote: r.config.Curation.PromoteQueue,
		},
		queueIDs: make(map[models.CommandType]string),
	}

	model := ui.NewModel(ctx, stager, entries)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// queueStager stages review corrections by adding one of the album's tracks
// to the matching queue playlist. The reconciler later resolves the track
// back to its album.
type queueStager struct {
	catalog    *services.TidalService
	logger     *log.Logger
	matcher    *matcher.Matcher
	queueNames map[models.CommandType]string

	mu       sync.Mutex
	queueIDs map[models.CommandType]string
}

func (s *queueStager) Stage(ctx context.Context, entry models.LedgerEntry, command models.CommandType) error {
	match := s.matcher.Resolve(ctx, entry.Artist, entry.Title)
	switch match.Status {
	case models.MatchNotFound:
		return fmt.Errorf("%w: no catalog match for %s - %s", shared.ErrAlbumNotFound, entry.Artist, entry.Title)
	case models.MatchError:
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, match.Detail)
	}

	trackIDs, err := s.catalog.AlbumTracks(ctx, match.AlbumID)
	if err != nil {
		return fmt.Errorf("failed to list album tracks: %w", err)
	}
	if len(trackIDs) == 0 {
		return fmt.Errorf("%w: album %s has no tracks", shared.ErrAlbumNotFound, match.AlbumID)
	}

	queueID, err := s.queue(ctx, command)
	if err != nil {
		return err
	}

	// One track is enough; the reconciler groups queue items by album.
	if err := s.catalog.AddPlaylistTracks(ctx, queueID, trackIDs[:1]); err != nil {
		return fmt.Errorf("failed to stage command: %w", err)
	}

	s.logger.Info("staged command", "command", command, "artist", entry.Artist, "album", entry.Title)
	return nil
}

// queue finds the queue playlist for a command by exact name, creating it if
// absent. IDs are memoized across staging calls.
func (s *queueStager) queue(ctx context.Context, command models.CommandType) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.queueIDs[command]; ok {
		return id, nil
	}

	name := s.queueNames[command]
	playlists, err := s.catalog.Playlists(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list playlists: %w", err)
	}

	for _, pl := range playlists {
		if pl.Name == name {
			s.queueIDs[command] = pl.ID
			return pl.ID, nil
		}
	}

	created, err := s.catalog.CreatePlaylist(ctx, name, "aria staged commands")
	if err != nil {
		return "", fmt.Errorf("failed to create queue playlist: %w", err)
	}

	s.queueIDs[command] = created.ID
	return created.ID, nil
}
