// package tasks implements the curation engine: candidate selection,
// catalog actions, and command reconciliation.
//
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers. Every per-candidate and per-album failure is
// caught at its boundary and converted to an outcome record; nothing here
// aborts a batch.
package tasks

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/aria/internal/ledger"
	"github.com/desertthunder/aria/internal/matcher"
	"github.com/desertthunder/aria/internal/models"
	"github.com/desertthunder/aria/internal/services"
	"github.com/desertthunder/aria/internal/shared"
	"golang.org/x/time/rate"
)

// DefaultMaxFavorites caps favorite actions per run. Favoriting pollutes the
// user's permanent library, so it is deliberately rate limited; playlist
// adds are lower commitment and stay uncapped.
const DefaultMaxFavorites = 5

// Selection is the partition the selector produces from a candidate batch.
type Selection struct {
	Favorites []models.Candidate     // Capped, ordered by relevance desc
	Collects  []models.Candidate     // Uncapped, input order
	Skipped   []models.ActionOutcome // Invalid and duplicate candidates
}

// RunResult contains all data from one curation pass.
type RunResult struct {
	RunID     string                 `json:"run_id"`
	Outcomes  []models.ActionOutcome `json:"outcomes"`
	Favorited int                    `json:"favorited"`
	Collected int                    `json:"collected"`
	Skipped   int                    `json:"skipped"`
	NotFound  int                    `json:"not_found"`
	Failed    int                    `json:"failed"`
}

// CurationOpts configures a CurationEngine.
type CurationOpts struct {
	PlaylistName        string  // Target collection, found by exact name
	PlaylistDescription string  // Used when the collection must be created
	MaxFavorites        int     // Favorite cap per run (default 5)
	RateLimit           float64 // Catalog mutations per second (default 2)
	RemoveQueue         string  // Name of the staged-removal queue playlist
	PromoteQueue        string  // Name of the staged-promotion queue playlist
}

// CurationEngine orchestrates selection, matching, catalog mutation, and
// ledger recording for one batch of candidates.
type CurationEngine struct {
	catalog services.Catalog
	matcher *matcher.Matcher
	ledger  *ledger.Ledger
	logger  *log.Logger
	opts    CurationOpts
	limiter *rate.Limiter

	// Resolved once per run; the target playlist rarely changes.
	playlistID string

	now func() int64
}

// NewCurationEngine creates an engine over the given collaborators.
func NewCurationEngine(catalog services.Catalog, m *matcher.Matcher, l *ledger.Ledger, logger *log.Logger, opts CurationOpts) *CurationEngine {
	if opts.MaxFavorites <= 0 {
		opts.MaxFavorites = DefaultMaxFavorites
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &CurationEngine{
		catalog: catalog,
		matcher: m,
		ledger:  l,
		logger:  logger,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		now:     func() int64 { return time.Now().Unix() },
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *CurationEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Select partitions candidates into capped favorites, uncapped collects, and
// skipped outcomes.
//
// Invalid candidates (missing artist or title) are skipped before any ledger
// or catalog interaction. Ledger-recorded keys are skipped as duplicates.
// The favorite group is sorted descending by relevance score (stable, so
// ties keep input order) and truncated to the cap; candidates beyond the cap
// produce no outcome and no ledger entry, leaving them eligible next run.
func (e *CurationEngine) Select(candidates []models.Candidate, processed map[string]bool) Selection {
	var sel Selection

	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			sel.Skipped = append(sel.Skipped, models.ActionOutcome{
				Status:       models.OutcomeSkippedInvalid,
				Artist:       c.Artist,
				QueriedTitle: c.Title,
				Detail:       err.Error(),
			})
			continue
		}

		if processed[c.Key()] {
			sel.Skipped = append(sel.Skipped, models.ActionOutcome{
				Status:         models.OutcomeSkippedDuplicate,
				Artist:         c.Artist,
				QueriedTitle:   c.Title,
				RelevanceScore: c.RelevanceScore,
			})
			continue
		}

		switch c.Decision {
		case models.DecisionFavorite:
			sel.Favorites = append(sel.Favorites, c)
		case models.DecisionCollect:
			sel.Collects = append(sel.Collects, c)
		default:
			sel.Skipped = append(sel.Skipped, models.ActionOutcome{
				Status:       models.OutcomeSkippedInvalid,
				Artist:       c.Artist,
				QueriedTitle: c.Title,
				Detail:       fmt.Sprintf("unknown decision tag %q", c.Decision),
			})
		}
	}

	sort.SliceStable(sel.Favorites, func(i, j int) bool {
		return sel.Favorites[i].RelevanceScore > sel.Favorites[j].RelevanceScore
	})
	if len(sel.Favorites) > e.opts.MaxFavorites {
		sel.Favorites = sel.Favorites[:e.opts.MaxFavorites]
	}

	return sel
}

// Execute resolves one candidate and performs its catalog action.
//
// NOT_FOUND and ERROR matches short-circuit without touching the catalog.
// Mutation failures are caught here and become ERROR outcomes so one bad
// call never aborts the batch.
func (e *CurationEngine) Execute(ctx context.Context, c models.Candidate) models.ActionOutcome {
	outcome := models.ActionOutcome{
		Artist:         c.Artist,
		QueriedTitle:   c.Title,
		RelevanceScore: c.RelevanceScore,
		Rationale:      c.Rationale,
	}

	match := e.matcher.Resolve(ctx, c.Artist, c.Title)
	switch match.Status {
	case models.MatchNotFound:
		outcome.Status = models.OutcomeNotFound
		return outcome
	case models.MatchError:
		outcome.Status = models.OutcomeError
		outcome.Detail = match.Detail
		return outcome
	}

	outcome.ResolvedTitle = match.ResolvedTitle
	outcome.AlbumID = match.AlbumID

	var err error
	switch c.Decision {
	case models.DecisionFavorite:
		err = e.favorite(ctx, match.AlbumID)
		if err == nil {
			outcome.Status = likedStatus(match.Status)
		}
	case models.DecisionCollect:
		err = e.collect(ctx, match.AlbumID)
		if err == nil {
			outcome.Status = addedStatus(match.Status)
		}
	default:
		err = fmt.Errorf("%w: unknown decision tag %q", shared.ErrInvalidInput, c.Decision)
	}

	if err != nil {
		outcome.Status = models.OutcomeError
		outcome.Detail = err.Error()
	}

	return outcome
}

// Run performs a full curation pass: select, execute, record.
//
// Ledger entries are written only for LIKED/ADDED outcomes; NOT_FOUND,
// ERROR, and skipped candidates stay unrecorded so the next run retries
// them naturally.
func (e *CurationEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, candidates []models.Candidate) (*RunResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	result := &RunResult{RunID: shared.GenerateID()}

	e.sendProgress(progress, ProgressUpdate{Phase: LoadLedger, Step: 1, Total: 1, Message: "Loading processed ledger..."})
	processed := e.ledger.Keys()

	sel := e.Select(candidates, processed)
	e.sendProgress(progress, selectUpdate(len(sel.Favorites)+len(sel.Collects), len(sel.Skipped)))

	result.Outcomes = append(result.Outcomes, sel.Skipped...)
	result.Skipped = len(sel.Skipped)

	total := len(sel.Favorites) + len(sel.Collects)
	step := 0

	execute := func(phase Phase, c models.Candidate) {
		step++
		e.sendProgress(progress, executeUpdate(phase, step, total, c))

		outcome := e.Execute(ctx, c)
		result.Outcomes = append(result.Outcomes, outcome)
		e.tally(result, outcome)

		if outcome.Status.Recordable() {
			if err := e.ledger.Upsert(c.Artist, c.Title, string(outcome.Status), e.now()); err != nil {
				e.logger.Error("ledger upsert failed", "key", c.Key(), "err", err)
			}
		}

		e.sendProgress(progress, outcomeUpdate(step, total, outcome))
	}

	for _, c := range sel.Favorites {
		execute(FavoriteAlbum, c)
	}
	for _, c := range sel.Collects {
		execute(CollectAlbum, c)
	}

	return result, nil
}

func (e *CurationEngine) tally(result *RunResult, outcome models.ActionOutcome) {
	switch outcome.Status {
	case models.OutcomeLikedExact, models.OutcomeLikedFuzzy:
		result.Favorited++
	case models.OutcomeAddedExact, models.OutcomeAddedFuzzy:
		result.Collected++
	case models.OutcomeNotFound:
		result.NotFound++
	case models.OutcomeError:
		result.Failed++
	}
}

// favorite marks the album as a user favorite, paced by the rate limiter.
func (e *CurationEngine) favorite(ctx context.Context, albumID string) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}
	return e.catalog.AddFavoriteAlbum(ctx, albumID)
}

// collect appends the album's tracks to the target playlist, creating the
// playlist on first use.
func (e *CurationEngine) collect(ctx context.Context, albumID string) error {
	trackIDs, err := e.catalog.AlbumTracks(ctx, albumID)
	if err != nil {
		return err
	}
	if len(trackIDs) == 0 {
		return fmt.Errorf("%w: album %s has no tracks", shared.ErrAlbumNotFound, albumID)
	}

	playlistID, err := e.targetPlaylist(ctx)
	if err != nil {
		return err
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}
	return e.catalog.AddPlaylistTracks(ctx, playlistID, trackIDs)
}

// targetPlaylist locates the target collection by exact name, creating it
// if absent. The ID is memoized for the rest of the run.
func (e *CurationEngine) targetPlaylist(ctx context.Context) (string, error) {
	if e.playlistID != "" {
		return e.playlistID, nil
	}

	playlists, err := e.catalog.Playlists(ctx)
	if err != nil {
		return "", err
	}

	for _, pl := range playlists {
		if pl.Name == e.opts.PlaylistName {
			e.playlistID = pl.ID
			return pl.ID, nil
		}
	}

	e.logger.Info("creating target playlist", "name", e.opts.PlaylistName)
	created, err := e.catalog.CreatePlaylist(ctx, e.opts.PlaylistName, e.opts.PlaylistDescription)
	if err != nil {
		return "", err
	}

	e.playlistID = created.ID
	return created.ID, nil
}

func likedStatus(m models.MatchStatus) models.OutcomeStatus {
	if m == models.MatchExact {
		return models.OutcomeLikedExact
	}
	return models.OutcomeLikedFuzzy
}

func addedStatus(m models.MatchStatus) models.OutcomeStatus {
	if m == models.MatchExact {
		return models.OutcomeAddedExact
	}
	return models.OutcomeAddedFuzzy
}
