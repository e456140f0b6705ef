package main

import (
	"context"
	"time"

	"github.com/desertthunder/aria/internal/repositories"
	"github.com/desertthunder/aria/internal/shared"
	"github.com/desertthunder/aria/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Reconcile applies staged remove/promote commands and drains the queues.
func (r *Runner) Reconcile(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureSession(ctx); err != nil {
		return err
	}

	r.logger.Info("starting reconciliation",
		"remove_queue", r.config.Curation.RemoveQueue,
		"promote_queue", r.config.Curation.PromoteQueue)
	r.writePlain("Reconciling staged commands...\n\n")

	startedAt := time.Now()

	progressCh := make(chan tasks.ProgressUpdate, 50)
	progressDone := r.drainProgress(progressCh, func(update tasks.ProgressUpdate) {
		switch update.Phase {
		case tasks.ReadQueue:
			r.writePlain("📋 %s\n", update.Message)
		case tasks.ReconcileAlbum:
			r.writePlain("   %s\n", update.Message)
		case tasks.DrainQueue:
			r.writePlain("🧹 %s\n", update.Message)
		}
	})

	result, err := r.engine().Reconcile(ctx, progressCh)
	close(progressCh)
	<-progressDone

	if err != nil {
		return err
	}

	// Promotions are favorites; exclusions land in the skipped column.
	runID := shared.GenerateID()
	r.saveRun(repositories.RunReconcile, runID, startedAt, repositories.RunRecord{
		Favorited: result.Promoted,
		Skipped:   result.Excluded,
		Failed:    result.Failed,
	}, result.Outcomes)

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlain("\n")
	r.writePlainHeader("Reconciliation Complete!")
	r.writePlain("Promoted: %d\n", result.Promoted)
	r.writePlain("Excluded: %d\n", result.Excluded)
	r.writePlain("Failed: %d\n", result.Failed)
	r.writePlain("Drained: %d queue items\n", result.Drained)

	return nil
}
