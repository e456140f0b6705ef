package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/aria/internal/models"
	"github.com/desertthunder/aria/internal/shared"
)

// RunKind distinguishes curation passes from reconciliation passes.
type RunKind string

const (
	RunCurate    RunKind = "curate"
	RunReconcile RunKind = "reconcile"
)

// RunRecord is one persisted run with its summary counters.
type RunRecord struct {
	ID        string    `json:"id"`
	Sequence  int       `json:"-"`
	Kind      RunKind   `json:"kind"`
	StartedAt time.Time `json:"started_at"`
	Favorited int       `json:"favorited"`
	Collected int       `json:"collected"`
	Skipped   int       `json:"skipped"`
	NotFound  int       `json:"not_found"`
	Failed    int       `json:"failed"`
}

// HistoryRepository persists runs and their outcomes.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a HistoryRepository with the given database connection.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// SaveRun inserts a run and its ordered outcomes in one transaction.
func (r *HistoryRepository) SaveRun(record RunRecord, outcomes []models.ActionOutcome) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, sequence, kind, started_at, favorited, collected, skipped, not_found, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		sequence,
		string(record.Kind),
		record.StartedAt,
		record.Favorited,
		record.Collected,
		record.Skipped,
		record.NotFound,
		record.Failed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, outcome := range outcomes {
		_, err = tx.Exec(`
			INSERT INTO outcomes (id, run_id, status, artist, queried_title, resolved_title, album_id, relevance_score, rationale, detail, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			shared.GenerateID(),
			record.ID,
			string(outcome.Status),
			outcome.Artist,
			outcome.QueriedTitle,
			outcome.ResolvedTitle,
			outcome.AlbumID,
			outcome.RelevanceScore,
			outcome.Rationale,
			outcome.Detail,
			i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert outcome: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

// LatestRun returns the most recent run, or an error when history is empty.
func (r *HistoryRepository) LatestRun() (*RunRecord, error) {
	row := r.db.QueryRow(`
		SELECT id, sequence, kind, started_at, favorited, collected, skipped, not_found, failed
		FROM runs
		ORDER BY sequence DESC
		LIMIT 1
	`)
	return r.scanRun(row)
}

// Run retrieves a run by ID.
func (r *HistoryRepository) Run(id string) (*RunRecord, error) {
	row := r.db.QueryRow(`
		SELECT id, sequence, kind, started_at, favorited, collected, skipped, not_found, failed
		FROM runs
		WHERE id = ?
	`, id)
	return r.scanRun(row)
}

// Runs lists the most recent runs, newest first.
func (r *HistoryRepository) Runs(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT id, sequence, kind, started_at, favorited, collected, skipped, not_found, failed
		FROM runs
		ORDER BY sequence DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var kind string
		if err := rows.Scan(&rec.ID, &rec.Sequence, &kind, &rec.StartedAt, &rec.Favorited, &rec.Collected, &rec.Skipped, &rec.NotFound, &rec.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rec.Kind = RunKind(kind)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// Outcomes lists a run's outcomes in their original emission order.
func (r *HistoryRepository) Outcomes(runID string) ([]models.ActionOutcome, error) {
	rows, err := r.db.Query(`
		SELECT status, artist, queried_title, resolved_title, album_id, relevance_score, rationale, detail
		FROM outcomes
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []models.ActionOutcome
	for rows.Next() {
		var o models.ActionOutcome
		var status string
		var resolved, albumID, rationale, detail sql.NullString
		var score sql.NullInt64
		if err := rows.Scan(&status, &o.Artist, &o.QueriedTitle, &resolved, &albumID, &score, &rationale, &detail); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		o.Status = models.OutcomeStatus(status)
		o.ResolvedTitle = resolved.String
		o.AlbumID = albumID.String
		o.RelevanceScore = int(score.Int64)
		o.Rationale = rationale.String
		o.Detail = detail.String
		outcomes = append(outcomes, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return outcomes, nil
}

// scanRun scans a single row into a [RunRecord].
func (r *HistoryRepository) scanRun(row *sql.Row) (*RunRecord, error) {
	var rec RunRecord
	var kind string

	err := row.Scan(&rec.ID, &rec.Sequence, &kind, &rec.StartedAt, &rec.Favorited, &rec.Collected, &rec.Skipped, &rec.NotFound, &rec.Failed)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	rec.Kind = RunKind(kind)
	return &rec, nil
}
