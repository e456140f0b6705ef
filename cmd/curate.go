package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/aria/internal/models"
	"github.com/desertthunder/aria/internal/repositories"
	"github.com/desertthunder/aria/internal/shared"
	"github.com/desertthunder/aria/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CurateRun performs a full curation pass over the analyzed candidates.
func (r *Runner) CurateRun(ctx context.Context, cmd *cli.Command) error {
	inputPath := cmd.String("input")
	if inputPath == "" {
		inputPath = r.config.Storage.CandidatesPath
	}

	if err := r.ensureSession(ctx); err != nil {
		return err
	}

	var candidates []models.Candidate
	if err := shared.ReadJSONFile(inputPath, &candidates); err != nil {
		return fmt.Errorf("failed to read candidates file (run 'aria analyze' first): %w", err)
	}

	r.logger.Info("starting curation", "candidates", len(candidates))
	r.writePlain("Curating %d candidates...\n\n", len(candidates))

	startedAt := time.Now()

	progressCh := make(chan tasks.ProgressUpdate, 50)
	progressDone := r.drainProgress(progressCh, func(update tasks.ProgressUpdate) {
		switch update.Phase {
		case tasks.SelectCandidates:
			r.writePlain("🔍 %s\n\n", update.Message)
		case tasks.FavoriteAlbum:
			r.writePlain("❤️  %s\n", update.Message)
		case tasks.CollectAlbum:
			r.writePlain("📥 %s\n", update.Message)
		case tasks.RecordOutcome:
			r.writePlain("   %s\n", update.Message)
		}
	})

	result, err := r.engine().Run(ctx, progressCh, candidates)
	close(progressCh)
	<-progressDone

	if err != nil {
		return err
	}

	r.saveRun(repositories.RunCurate, result.RunID, startedAt, repositories.RunRecord{
		Favorited: result.Favorited,
		Collected: result.Collected,
		Skipped:   result.Skipped,
		NotFound:  result.NotFound,
		Failed:    result.Failed,
	}, result.Outcomes)

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlain("\n")
	r.writePlainHeader("Curation Complete!")
	r.writePlain("Favorited: %d\n", result.Favorited)
	r.writePlain("Collected: %d\n", result.Collected)
	r.writePlain("Skipped: %d\n", result.Skipped)
	r.writePlain("Not found: %d\n", result.NotFound)
	r.writePlain("Failed: %d\n", result.Failed)
	r.writePlain("Run ID: %s\n", result.RunID)

	return nil
}

// saveRun persists a run to the history database. History is advisory; the
// catalog mutations already happened, so failures here only warn.
func (r *Runner) saveRun(kind repositories.RunKind, runID string, startedAt time.Time, counters repositories.RunRecord, outcomes []models.ActionOutcome) {
	db, err := shared.NewDatabase(r.config.Storage.DatabasePath)
	if err != nil {
		r.logger.Warn("run history unavailable", "error", err)
		return
	}
	defer db.Close()

	if err := repositories.EnsureSchema(db); err != nil {
		r.logger.Warn("run history schema check failed", "error", err)
		return
	}

	record := counters
	record.ID = runID
	record.Kind = kind
	record.StartedAt = startedAt

	if err := repositories.NewHistoryRepository(db).SaveRun(record, outcomes); err != nil {
		r.logger.Warn("failed to save run history", "error", err)
	}
}
