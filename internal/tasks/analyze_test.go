package tasks

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/desertthunder/aria/internal/harvest"
	"github.com/desertthunder/aria/internal/models"
	"github.com/desertthunder/aria/internal/shared"
)

type mockAnalyst struct {
	verdicts map[string][]models.Candidate
	errFor   map[string]error
}

func (m *mockAnalyst) Analyze(ctx context.Context, systemPrompt, pageText string) ([]models.Candidate, error) {
	if err, ok := m.errFor[pageText]; ok {
		return nil, err
	}
	return m.verdicts[pageText], nil
}

func TestAnalyzePages(t *testing.T) {
	analyst := &mockAnalyst{
		verdicts: map[string][]models.Candidate{
			"page one": {
				candidate("Burial", "Untrue", models.DecisionFavorite, 95),
				candidate("", "Invalid", models.DecisionCollect, 50),
			},
			"page two": {
				candidate("Burial", "Untrue", models.DecisionCollect, 70), // Duplicate of page one
				candidate("Autechre", "Amber", models.DecisionCollect, 80),
			},
		},
	}

	pages := []harvest.Page{
		{SourceName: "first", Text: "page one"},
		{SourceName: "second", Text: "page two"},
	}

	got := AnalyzePages(context.Background(), analyst, shared.NewLogger(io.Discard), nil, "prompt", pages)

	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(got), got)
	}
	if got[0].Artist != "Burial" || got[0].Decision != models.DecisionFavorite {
		t.Errorf("first page's verdict must win for duplicates, got %+v", got[0])
	}
	if got[1].Artist != "Autechre" {
		t.Errorf("expected Autechre second, got %+v", got[1])
	}
}

func TestAnalyzePagesSkipsFailedPages(t *testing.T) {
	analyst := &mockAnalyst{
		verdicts: map[string][]models.Candidate{
			"good page": {candidate("Autechre", "Amber", models.DecisionCollect, 80)},
		},
		errFor: map[string]error{
			"bad page": errors.New("model overloaded"),
		},
	}

	pages := []harvest.Page{
		{SourceName: "broken", Text: "bad page"},
		{SourceName: "working", Text: "good page"},
	}

	got := AnalyzePages(context.Background(), analyst, shared.NewLogger(io.Discard), nil, "prompt", pages)

	if len(got) != 1 || got[0].Artist != "Autechre" {
		t.Fatalf("failed page must not block the rest, got %+v", got)
	}
}

func TestAnalyzePagesEmptyInput(t *testing.T) {
	got := AnalyzePages(context.Background(), &mockAnalyst{}, shared.NewLogger(io.Discard), nil, "prompt", nil)
	if len(got) != 0 {
		t.Errorf("expected no candidates for no pages, got %+v", got)
	}
}
