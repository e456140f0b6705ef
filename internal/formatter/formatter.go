// package formatter renders run reports for the terminal and for files.
package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/aria/internal/models"
	"github.com/desertthunder/aria/internal/repositories"
	"github.com/desertthunder/aria/internal/shared"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Report bundles a run record with its outcomes for JSON output.
type Report struct {
	Run      repositories.RunRecord `json:"run"`
	Outcomes []models.ActionOutcome `json:"outcomes"`
}

// ShortID returns the display prefix of a run ID. IDs shorter than the
// prefix render whole.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RenderRunTable writes a human-readable outcome table for one run.
func RenderRunTable(w io.Writer, record repositories.RunRecord, outcomes []models.ActionOutcome) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Status", "Artist", "Album", "Resolved", "Score"})

	for i, o := range outcomes {
		resolved := o.ResolvedTitle
		if resolved == o.QueriedTitle {
			resolved = ""
		}
		t.AppendRow(table.Row{i + 1, colorStatus(o.Status), o.Artist, o.QueriedTitle, resolved, scoreCell(o)})
	}

	t.AppendFooter(table.Row{"", "", "", "", "run", ShortID(record.ID)})
	t.Render()

	fmt.Fprintf(w, "favorited %d · collected %d · skipped %d · not found %d · failed %d\n",
		record.Favorited, record.Collected, record.Skipped, record.NotFound, record.Failed)
}

func colorStatus(status models.OutcomeStatus) string {
	s := string(status)
	switch status {
	case models.OutcomeLikedExact, models.OutcomeLikedFuzzy, models.OutcomeLikedViaCommand:
		return text.FgGreen.Sprint(s)
	case models.OutcomeAddedExact, models.OutcomeAddedFuzzy:
		return text.FgCyan.Sprint(s)
	case models.OutcomeError:
		return text.FgRed.Sprint(s)
	case models.OutcomeNotFound, models.OutcomeExcludedViaCommand:
		return text.FgYellow.Sprint(s)
	default:
		return text.Faint.Sprint(s)
	}
}

func scoreCell(o models.ActionOutcome) string {
	if o.RelevanceScore == 0 {
		return ""
	}
	return fmt.Sprintf("%d", o.RelevanceScore)
}

// WriteMarkdownReport writes a markdown summary of a run to path.
func WriteMarkdownReport(path string, record repositories.RunRecord, outcomes []models.ActionOutcome) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# aria %s run %s\n\n", record.Kind, record.ID)
	fmt.Fprintf(&b, "Started: %s\n\n", record.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "| Favorited | Collected | Skipped | Not found | Failed |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d |\n\n", record.Favorited, record.Collected, record.Skipped, record.NotFound, record.Failed)

	if len(outcomes) > 0 {
		fmt.Fprintf(&b, "## Outcomes\n\n")
		fmt.Fprintf(&b, "| Status | Artist | Album | Resolved | Score | Detail |\n")
		fmt.Fprintf(&b, "|---|---|---|---|---|---|\n")
		for _, o := range outcomes {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				o.Status, escapePipes(o.Artist), escapePipes(o.QueriedTitle),
				escapePipes(o.ResolvedTitle), scoreCell(o), escapePipes(o.Detail))
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// WriteJSONReport writes the run record and outcomes as a JSON document.
func WriteJSONReport(path string, record repositories.RunRecord, outcomes []models.ActionOutcome) error {
	return shared.WriteJSONFile(path, Report{Run: record, Outcomes: outcomes})
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
