package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/aria/internal/shared"
	"github.com/urfave/cli/v3"
)

// Discover asks the model to propose new harvest sources based on the
// configured list and writes the suggestions to a file for the user to vet.
// Accepted suggestions are copied into [[sources]] in config.toml by hand.
func (r *Runner) Discover(ctx context.Context, cmd *cli.Command) error {
	outputPath := cmd.String("output")
	if outputPath == "" {
		outputPath = r.config.Storage.SuggestionsPath
	}

	if r.scout == nil {
		return fmt.Errorf("%w: analyst not initialized (check credentials.gemini in config.toml)", shared.ErrServiceUnavailable)
	}

	prompt, err := os.ReadFile(r.config.Storage.DiscoveryPromptPath)
	if err != nil {
		return fmt.Errorf("failed to read discovery prompt: %w", err)
	}

	current := "I have no current sources. Please find new ones based on my prompt."
	if len(r.config.Sources) > 0 {
		rendered, err := shared.MarshalJSON(r.config.Sources, true)
		if err != nil {
			return fmt.Errorf("failed to render source list: %w", err)
		}
		current = fmt.Sprintf("Here is my current list of sources. Please find new ones based on my prompt.\n\n%s", rendered)
	}

	r.writePlain("Looking for new sources (%d configured)...\n", len(r.config.Sources))

	suggestions, err := r.scout.DiscoverSources(ctx, string(prompt), current)
	if err != nil {
		return fmt.Errorf("source discovery failed: %w", err)
	}

	if len(suggestions) == 0 {
		r.writePlain("No new sources suggested.\n")
		return nil
	}

	if err := shared.WriteJSONFile(outputPath, suggestions); err != nil {
		return fmt.Errorf("failed to write suggestions file: %w", err)
	}

	r.logger.Info("discovery complete", "suggestions", len(suggestions), "path", outputPath)
	for _, s := range suggestions {
		r.writePlain("🔎 %s - %s\n", s.Website, s.URL)
	}
	r.writePlain("\nWrote %d suggested sources to %s\n", len(suggestions), outputPath)

	if cmd.Bool("json") {
		return r.writeJSON(suggestions, true)
	}

	return nil
}
