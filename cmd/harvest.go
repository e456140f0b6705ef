package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/aria/internal/harvest"
	"github.com/desertthunder/aria/internal/shared"
	"github.com/urfave/cli/v3"
)

// Harvest fetches review page text from every configured source and writes
// the pages to the harvest file for analysis.
func (r *Runner) Harvest(ctx context.Context, cmd *cli.Command) error {
	outputPath := cmd.String("output")
	if outputPath == "" {
		outputPath = r.config.Storage.HarvestPath
	}

	if len(r.config.Sources) == 0 {
		return fmt.Errorf("%w: no sources configured", shared.ErrInvalidInput)
	}

	r.logger.Info("harvesting sources", "count", len(r.config.Sources))
	r.writePlain("Harvesting %d sources...\n", len(r.config.Sources))

	harvester := harvest.New(r.httpClient, r.logger)
	pages := harvester.Run(ctx, r.config.Sources)

	for _, page := range pages {
		r.writePlain("  ✓ %s (%d chars)\n", page.SourceName, len(page.Text))
	}

	if len(pages) == 0 {
		r.writePlain("No pages harvested; nothing written.\n")
		return nil
	}

	if err := shared.WriteJSONFile(outputPath, pages); err != nil {
		return fmt.Errorf("failed to write harvest file: %w", err)
	}

	r.logger.Info("harvest complete", "pages", len(pages), "path", outputPath)
	r.writePlain("\nWrote %d pages to %s\n", len(pages), outputPath)

	if cmd.Bool("json") {
		return r.writeJSON(pages, true)
	}

	return nil
}
