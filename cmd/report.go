package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/aria/internal/formatter"
	"github.com/desertthunder/aria/internal/repositories"
	"github.com/desertthunder/aria/internal/shared"
	"github.com/urfave/cli/v3"
)

// Report renders outcomes from past runs stored in the history database.
func (r *Runner) Report(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	if err := repositories.EnsureSchema(db); err != nil {
		return fmt.Errorf("failed to prepare history database: %w", err)
	}

	repo := repositories.NewHistoryRepository(db)

	if limit := int(cmd.Int("list")); limit > 0 {
		records, err := repo.Runs(limit)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(records, true)
		}
		for _, rec := range records {
			r.writePlain("%s  %-9s  %s  ❤️ %d 📥 %d ⏭ %d ∅ %d ✗ %d\n",
				formatter.ShortID(rec.ID), rec.Kind, rec.StartedAt.Format("2006-01-02 15:04"),
				rec.Favorited, rec.Collected, rec.Skipped, rec.NotFound, rec.Failed)
		}
		return nil
	}

	var record *repositories.RunRecord
	if runID := cmd.String("run"); runID != "" {
		record, err = repo.Run(runID)
	} else {
		record, err = repo.LatestRun()
	}
	if err != nil {
		return err
	}

	outcomes, err := repo.Outcomes(record.ID)
	if err != nil {
		return err
	}

	if path := cmd.String("markdown"); path != "" {
		if err := formatter.WriteMarkdownReport(path, *record, outcomes); err != nil {
			return err
		}
		r.writePlain("Wrote markdown report to %s\n", path)
		return nil
	}

	if cmd.Bool("json") {
		if path := cmd.String("output"); path != "" {
			if err := formatter.WriteJSONReport(path, *record, outcomes); err != nil {
				return err
			}
			r.writePlain("Wrote JSON report to %s\n", path)
			return nil
		}
		return r.writeJSON(formatter.Report{Run: *record, Outcomes: outcomes}, true)
	}

	formatter.RenderRunTable(r.output, *record, outcomes)
	return nil
}
