package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/aria/internal/harvest"
	"github.com/desertthunder/aria/internal/shared"
	"github.com/desertthunder/aria/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Analyze runs harvested pages through the AI analyst and writes the
// approved candidates to the candidates file for curation.
func (r *Runner) Analyze(ctx context.Context, cmd *cli.Command) error {
	inputPath := cmd.String("input")
	if inputPath == "" {
		inputPath = r.config.Storage.HarvestPath
	}
	outputPath := cmd.String("output")
	if outputPath == "" {
		outputPath = r.config.Storage.CandidatesPath
	}

	if r.analyst == nil {
		return fmt.Errorf("%w: analyst not initialized (check credentials.gemini in config.toml)", shared.ErrServiceUnavailable)
	}

	var pages []harvest.Page
	if err := shared.ReadJSONFile(inputPath, &pages); err != nil {
		return fmt.Errorf("failed to read harvest file (run 'aria harvest' first): %w", err)
	}
	if len(pages) == 0 {
		r.writePlain("Harvest file is empty; nothing to analyze.\n")
		return nil
	}

	prompt, err := os.ReadFile(r.config.Storage.PromptPath)
	if err != nil {
		return fmt.Errorf("failed to read analyzer prompt: %w", err)
	}

	r.writePlain("Analyzing %d pages...\n", len(pages))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	progressDone := r.drainProgress(progressCh, func(update tasks.ProgressUpdate) {
		r.writePlain("  %s\n", update.Message)
	})

	candidates := tasks.AnalyzePages(ctx, r.analyst, r.logger, progressCh, string(prompt), pages)
	close(progressCh)
	<-progressDone

	if len(candidates) == 0 {
		r.writePlain("No candidates extracted; nothing written.\n")
		return nil
	}

	if err := shared.WriteJSONFile(outputPath, candidates); err != nil {
		return fmt.Errorf("failed to write candidates file: %w", err)
	}

	r.logger.Info("analysis complete", "candidates", len(candidates), "path", outputPath)
	r.writePlain("\nWrote %d candidates to %s\n", len(candidates), outputPath)

	if cmd.Bool("json") {
		return r.writeJSON(candidates, true)
	}

	return nil
}
