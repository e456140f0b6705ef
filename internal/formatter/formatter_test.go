package formatter

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/aria/internal/models"
	"github.com/desertthunder/aria/internal/repositories"
	th "github.com/desertthunder/aria/internal/testing"
)

func sampleRun() (repositories.RunRecord, []models.ActionOutcome) {
	record := repositories.RunRecord{
		ID:        "0a1b2c3d-0000-0000-0000-000000000000",
		Kind:      repositories.RunCurate,
		StartedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Favorited: 1,
		Collected: 1,
		NotFound:  1,
	}
	outcomes := []models.ActionOutcome{
		{Status: models.OutcomeLikedExact, Artist: "Burial", QueriedTitle: "Untrue", ResolvedTitle: "Untrue", RelevanceScore: 95},
		{Status: models.OutcomeAddedFuzzy, Artist: "David Bowie", QueriedTitle: "Blackstar", ResolvedTitle: "Black Star", RelevanceScore: 70},
		{Status: models.OutcomeNotFound, Artist: "Obscure", QueriedTitle: "Missing"},
	}
	return record, outcomes
}

func TestRenderRunTable(t *testing.T) {
	record, outcomes := sampleRun()

	var buf bytes.Buffer
	RenderRunTable(&buf, record, outcomes)
	got := buf.String()

	for _, want := range []string{"LIKED_EXACT", "ADDED_FUZZY", "NOT_FOUND", "Burial", "Blackstar", "0a1b2c3d"} {
		if !strings.Contains(got, want) {
			t.Errorf("table output missing %q:\n%s", want, got)
		}
	}
	if !strings.Contains(got, "favorited 1") || !strings.Contains(got, "not found 1") {
		t.Errorf("summary line missing from output:\n%s", got)
	}
	// Resolved column stays empty when it matches the query.
	if strings.Count(got, "Untrue") != 1 {
		t.Errorf("identical resolved title should render once, got:\n%s", got)
	}
}

func TestRenderRunTableShortRunID(t *testing.T) {
	record, outcomes := sampleRun()
	record.ID = "run-1"

	var buf bytes.Buffer
	RenderRunTable(&buf, record, outcomes)

	if !strings.Contains(buf.String(), "run-1") {
		t.Errorf("short run IDs must render whole:\n%s", buf.String())
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("0a1b2c3d-0000-0000-0000-000000000000"); got != "0a1b2c3d" {
		t.Errorf("ShortID() = %q, want prefix", got)
	}
	if got := ShortID("run-1"); got != "run-1" {
		t.Errorf("ShortID() = %q, want unchanged", got)
	}
}

func TestWriteMarkdownReport(t *testing.T) {
	record, outcomes := sampleRun()
	outcomes = append(outcomes, models.ActionOutcome{
		Status:       models.OutcomeError,
		Artist:       "Weird | Artist",
		QueriedTitle: "Album",
		Detail:       "pipe | in detail",
	})

	path := filepath.Join(t.TempDir(), "reports", "run.md")
	if err := WriteMarkdownReport(path, record, outcomes); err != nil {
		t.Fatalf("WriteMarkdownReport() error = %v", err)
	}

	got := th.MustReadFile(t, path)
	if !strings.Contains(got, "# aria curate run") {
		t.Errorf("missing heading:\n%s", got)
	}
	if !strings.Contains(got, "| 1 | 1 | 0 | 1 | 0 |") {
		t.Errorf("missing summary row:\n%s", got)
	}
	if !strings.Contains(got, `Weird \| Artist`) {
		t.Errorf("pipes must be escaped in table cells:\n%s", got)
	}
}

func TestWriteMarkdownReportNoOutcomes(t *testing.T) {
	record, _ := sampleRun()

	path := filepath.Join(t.TempDir(), "run.md")
	if err := WriteMarkdownReport(path, record, nil); err != nil {
		t.Fatalf("WriteMarkdownReport() error = %v", err)
	}

	got := th.MustReadFile(t, path)
	if strings.Contains(got, "## Outcomes") {
		t.Errorf("empty runs should omit the outcomes section:\n%s", got)
	}
}

func TestWriteJSONReport(t *testing.T) {
	record, outcomes := sampleRun()

	path := filepath.Join(t.TempDir(), "run.json")
	if err := WriteJSONReport(path, record, outcomes); err != nil {
		t.Fatalf("WriteJSONReport() error = %v", err)
	}

	got := th.MustReadFile(t, path)
	for _, want := range []string{`"run"`, `"outcomes"`, `"LIKED_EXACT"`, `"Burial"`} {
		if !strings.Contains(got, want) {
			t.Errorf("JSON report missing %q:\n%s", want, got)
		}
	}
}

func TestEscapePipes(t *testing.T) {
	if got := escapePipes("a|b"); got != `a\|b` {
		t.Errorf("escapePipes() = %q", got)
	}
	if got := escapePipes("plain"); got != "plain" {
		t.Errorf("escapePipes() = %q", got)
	}
}
