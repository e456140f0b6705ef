// package services defines interfaces for the external collaborators the
// curation engine consumes
//
// Tidal (catalog), Gemini (analyst)
package services

import (
	"context"

	"github.com/desertthunder/aria/internal/models"
)

// Catalog defines the streaming catalog operations the curation engine needs.
// Implemented by [TidalService]; tests substitute in-memory fakes.
type Catalog interface {
	// SearchAlbums queries the catalog with a free-text query and returns
	// the top results in the catalog's own ranking order.
	SearchAlbums(ctx context.Context, query string, limit int) ([]models.CatalogAlbum, error)

	// Album fetches a single album's metadata by ID.
	Album(ctx context.Context, albumID string) (*models.CatalogAlbum, error)

	// AlbumTracks returns the ordered track IDs of an album.
	AlbumTracks(ctx context.Context, albumID string) ([]string, error)

	// AddFavoriteAlbum marks an album as a favorite. Idempotent: favoriting
	// an already-favorited album is a no-op on the catalog side.
	AddFavoriteAlbum(ctx context.Context, albumID string) error

	// Playlists retrieves all playlists for the authenticated user.
	Playlists(ctx context.Context) ([]models.Playlist, error)

	// CreatePlaylist creates a new private playlist.
	CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error)

	// AddPlaylistTracks appends tracks to a playlist.
	AddPlaylistTracks(ctx context.Context, playlistID string, trackIDs []string) error

	// RemovePlaylistTracks removes tracks from a playlist. Removing an ID
	// that is not present must be tolerated as a no-op.
	RemovePlaylistTracks(ctx context.Context, playlistID string, trackIDs []string) error

	// PlaylistItems lists the tracks currently in a playlist along with
	// the album each belongs to.
	PlaylistItems(ctx context.Context, playlistID string) ([]models.PlaylistItem, error)
}

// Analyst judges harvested release mentions for relevance.
// Implemented by [GeminiService]; tests substitute canned responses.
type Analyst interface {
	// Analyze sends the system prompt and page text to the model and
	// returns the approved candidates it extracted.
	Analyze(ctx context.Context, systemPrompt, pageText string) ([]models.Candidate, error)
}

// Scout proposes new harvest sources. Implemented by [GeminiService].
type Scout interface {
	// DiscoverSources sends the discovery prompt and a rendering of the
	// current source list to the model and returns suggested additions.
	DiscoverSources(ctx context.Context, systemPrompt, currentSources string) ([]models.SourceSuggestion, error)
}
