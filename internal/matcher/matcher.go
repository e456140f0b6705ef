// package matcher resolves free-text (artist, title) pairs to catalog albums.
//
// Free-text music metadata from disparate sources rarely matches catalog
// strings exactly (featuring-artist suffixes, remaster tags, punctuation),
// so resolution uses approximate matching with an artist-identity bonus and
// a conservative acceptance threshold.
package matcher

import (
	"context"
	"fmt"

	"github.com/desertthunder/aria/internal/models"
	"github.com/desertthunder/aria/internal/services"
)

// Defaults for the tunable constants. The thresholds carry no derivation
// beyond observed false-positive rates; treat them as policy, not math.
const (
	DefaultAcceptThreshold = 85
	DefaultExactThreshold  = 97
	DefaultArtistBonus     = 10
	DefaultSearchDepth     = 5
)

// Matcher resolves candidates against a catalog search collaborator.
type Matcher struct {
	catalog         services.Catalog
	acceptThreshold int
	exactThreshold  int
	artistBonus     int
	searchDepth     int
}

// Opts contains tunable matching parameters. Zero values fall back to the
// package defaults.
type Opts struct {
	AcceptThreshold int
	ExactThreshold  int
	ArtistBonus     int
	SearchDepth     int
}

// New creates a Matcher over the given catalog.
func New(catalog services.Catalog, opts Opts) *Matcher {
	if opts.AcceptThreshold <= 0 {
		opts.AcceptThreshold = DefaultAcceptThreshold
	}
	if opts.ExactThreshold <= 0 {
		opts.ExactThreshold = DefaultExactThreshold
	}
	if opts.ArtistBonus <= 0 {
		opts.ArtistBonus = DefaultArtistBonus
	}
	if opts.SearchDepth <= 0 {
		opts.SearchDepth = DefaultSearchDepth
	}

	return &Matcher{
		catalog:         catalog,
		acceptThreshold: opts.AcceptThreshold,
		exactThreshold:  opts.ExactThreshold,
		artistBonus:     opts.ArtistBonus,
		searchDepth:     opts.SearchDepth,
	}
}

// Resolve finds the catalog album best matching the (artist, title) pair.
//
// The top search results are scored by token-sort title similarity plus a
// fixed bonus when the result's artist matches case-insensitively. Ties keep
// the earlier (higher-ranked) result, so resolution is deterministic for a
// fixed catalog response. A search failure yields MatchError and never
// propagates: the caller treats it as an unresolved candidate.
func (m *Matcher) Resolve(ctx context.Context, artist, title string) models.MatchResult {
	query := fmt.Sprintf("%s %s", artist, title)

	results, err := m.catalog.SearchAlbums(ctx, query, m.searchDepth)
	if err != nil {
		return models.MatchResult{
			Status: models.MatchError,
			Detail: err.Error(),
		}
	}

	if len(results) > m.searchDepth {
		results = results[:m.searchDepth]
	}

	best := models.MatchResult{Status: models.MatchNotFound}
	for _, album := range results {
		score := TokenSortRatio(title, album.Title)
		if artistsMatch(artist, album.ArtistName) {
			score += m.artistBonus
		}
		if score > 100 {
			score = 100
		}

		if score > best.Similarity {
			best.Similarity = score
			best.AlbumID = album.ID
			best.ResolvedTitle = album.Title
		}
	}

	if best.Similarity < m.acceptThreshold {
		return models.MatchResult{Status: models.MatchNotFound, Similarity: best.Similarity}
	}

	if best.Similarity >= m.exactThreshold {
		best.Status = models.MatchExact
	} else {
		best.Status = models.MatchFuzzy
	}

	return best
}
