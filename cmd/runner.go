package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/aria/internal/ledger"
	"github.com/desertthunder/aria/internal/matcher"
	"github.com/desertthunder/aria/internal/services"
	"github.com/desertthunder/aria/internal/shared"
	"github.com/desertthunder/aria/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	catalog    *services.TidalService
	analyst    services.Analyst
	scout      services.Scout
	ledger     *ledger.Ledger
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Catalog    *services.TidalService
	Analyst    services.Analyst
	Scout      services.Scout
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		catalog:    opts.Catalog,
		analyst:    opts.Analyst,
		scout:      opts.Scout,
		ledger:     ledger.New(opts.Config.Storage.LedgerPath),
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// engine builds a curation engine over the runner's catalog and ledger.
func (r *Runner) engine() *tasks.CurationEngine {
	m := matcher.New(r.catalog, matcher.Opts{
		AcceptThreshold: r.config.Matching.AcceptThreshold,
		ExactThreshold:  r.config.Matching.ExactThreshold,
		ArtistBonus:     r.config.Matching.ArtistBonus,
		SearchDepth:     r.config.Matching.SearchDepth,
	})

	return tasks.NewCurationEngine(r.catalog, m, r.ledger, r.logger, tasks.CurationOpts{
		PlaylistName:        r.config.Curation.PlaylistName,
		PlaylistDescription: r.config.Curation.PlaylistDescription,
		MaxFavorites:        r.config.Curation.MaxFavoritesPerRun,
		RateLimit:           r.config.Curation.RateLimit,
		RemoveQueue:         r.config.Curation.RemoveQueue,
		PromoteQueue:        r.config.Curation.PromoteQueue,
	})
}

// ensureSession loads the saved token and establishes a catalog session.
// Everything downstream of this boundary degrades per item instead of failing.
func (r *Runner) ensureSession(ctx context.Context) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: catalog service not initialized (check credentials.tidal in config.toml)", shared.ErrServiceUnavailable)
	}

	if err := r.catalog.LoadToken(ctx, r.config.Credentials.Tidal.TokenPath); err != nil {
		return fmt.Errorf("%w: %v (run 'aria auth login')", shared.ErrNotAuthenticated, err)
	}

	if err := r.catalog.EstablishSession(ctx); err != nil {
		return fmt.Errorf("failed to establish session: %w", err)
	}

	return nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		authCommand, harvestCommand, analyzeCommand, discoverCommand, curateCommand, reconcileCommand, reportCommand, reviewCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// drainProgress renders progress updates on a background goroutine. The
// returned channel closes once every update has been written; callers join
// it after closing progressCh so summaries never interleave with buffered
// updates.
func (r *Runner) drainProgress(progressCh <-chan tasks.ProgressUpdate, render func(tasks.ProgressUpdate)) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			render(update)
		}
	}()
	return done
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
