package tasks

import (
	"fmt"

	"github.com/desertthunder/aria/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadLedger Phase = iota
	SelectCandidates
	ResolveCandidate
	FavoriteAlbum
	CollectAlbum
	RecordOutcome
	ReadQueue
	ReconcileAlbum
	DrainQueue
	AnalyzePage
)

func (p Phase) String() string {
	switch p {
	case LoadLedger:
		return "load_ledger"
	case SelectCandidates:
		return "select_candidates"
	case ResolveCandidate:
		return "resolve_candidate"
	case FavoriteAlbum:
		return "favorite_album"
	case CollectAlbum:
		return "collect_album"
	case RecordOutcome:
		return "record_outcome"
	case ReadQueue:
		return "read_queue"
	case ReconcileAlbum:
		return "reconcile_album"
	case DrainQueue:
		return "drain_queue"
	case AnalyzePage:
		return "analyze_page"
	default:
		return ""
	}
}

func selectUpdate(total, skipped int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SelectCandidates,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Selected %d candidates (%d skipped)", total, skipped),
	}
}

func executeUpdate(phase Phase, step, total int, c models.Candidate) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, c.Artist, c.Title),
	}
}

func outcomeUpdate(step, total int, outcome models.ActionOutcome) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecordOutcome,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: %s - %s", step, total, outcome.Status, outcome.Artist, outcome.QueriedTitle),
		Data:    outcome,
	}
}

func readQueueUpdate(name string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadQueue,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Queue '%s': %d staged items", name, count),
	}
}

func reconcileAlbumUpdate(step, total int, albumID string, cmd models.CommandType) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReconcileAlbum,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s album %s", step, total, cmd, albumID),
	}
}

func drainQueueUpdate(name string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DrainQueue,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Clearing %d items from queue '%s'", count, name),
	}
}

func analyzePageUpdate(step, total int, source string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AnalyzePage,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Analyzing %s...", step, total, source),
	}
}
