package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/aria/internal/harvest"
	"github.com/desertthunder/aria/internal/models"
	"github.com/desertthunder/aria/internal/services"
)

// AnalyzePages runs the analyst over every harvested page and aggregates
// the approved candidates.
//
// A page whose analysis fails is logged and skipped; the remaining pages
// still contribute candidates. Candidates seen on multiple pages are
// collapsed by ledger key, keeping the first (highest-ranked source) verdict.
func AnalyzePages(ctx context.Context, analyst services.Analyst, logger *log.Logger, progress chan<- ProgressUpdate, systemPrompt string, pages []harvest.Page) []models.Candidate {
	var all []models.Candidate
	seen := make(map[string]bool)

	for i, page := range pages {
		if progress != nil {
			select {
			case progress <- analyzePageUpdate(i+1, len(pages), page.SourceName):
			default:
			}
		}

		candidates, err := analyst.Analyze(ctx, systemPrompt, page.Text)
		if err != nil {
			logger.Error("analysis failed", "source", page.SourceName, "err", err)
			continue
		}

		for _, c := range candidates {
			if c.Validate() != nil || seen[c.Key()] {
				continue
			}
			seen[c.Key()] = true
			all = append(all, c)
		}

		logger.Info("page analyzed", "source", page.SourceName, "approved", len(candidates))
	}

	return all
}
