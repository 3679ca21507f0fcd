// Package store provides a SQLite-backed ledger of report runs.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/adburn/internal/pipeline"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNoRuns is returned by LastRun on an empty ledger.
var ErrNoRuns = errors.New("store: no runs recorded")

// timeLayout is fixed width so started_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Report statuses.
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Run triggers.
const (
	TriggerCLI      = "cli"
	TriggerSchedule = "schedule"
	TriggerHTTP     = "http"
)

// Run is one recorded pipeline pass.
type Run struct {
	ID        string        `json:"id"`
	Trigger   string        `json:"trigger"`
	OutputDir string        `json:"output_dir"`
	Sample    bool          `json:"sample"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Succeeded int           `json:"succeeded"`
	Total     int           `json:"total"`
	Spend     float64       `json:"spend"` // total campaign spend, 0 when unknown
	Reports   []RunReport   `json:"reports"`
}

// RunReport is the outcome of one report inside a run.
type RunReport struct {
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Rows     int           `json:"rows"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// NewRun converts a runner summary into a ledger entry with a fresh ID.
func NewRun(sum pipeline.RunSummary, trigger, outputDir string, sample bool) Run {
	r := Run{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		OutputDir: outputDir,
		Sample:    sample,
		StartedAt: sum.Started,
		Duration:  sum.Duration,
		Succeeded: sum.Succeeded(),
		Total:     len(sum.Results),
	}
	for _, res := range sum.Results {
		rep := RunReport{Name: res.Name, Rows: res.Rows, Duration: res.Duration, Status: StatusOK}
		switch {
		case res.Err != nil:
			rep.Status = StatusFailed
			rep.Error = res.Err.Error()
		case res.Skipped:
			rep.Status = StatusSkipped
		}
		r.Reports = append(r.Reports, rep)
	}
	return r
}

// History is the run ledger.
type History struct {
	db *sql.DB
}

// DefaultPath returns the ledger location inside dataDir.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, "history.db")
}

// Open opens or creates the ledger database at the given path.
func Open(dbPath string) (*History, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &History{db: db}, nil
}

// Close closes the ledger database.
func (h *History) Close() error {
	return h.db.Close()
}

// SaveRun stores a run and its reports.
func (h *History) SaveRun(r Run) error {
	tx, err := h.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	sample := 0
	if r.Sample {
		sample = 1
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO runs
		(run_id, triggered_by, output_dir, sample, started_at, duration_ms, succeeded, total, spend)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Trigger, r.OutputDir, sample, r.StartedAt.UTC().Format(timeLayout),
		r.Duration.Milliseconds(), r.Succeeded, r.Total, r.Spend,
	)
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM run_reports WHERE run_id = ?", r.ID); err != nil {
		return err
	}

	for i, rep := range r.Reports {
		_, err = tx.Exec(`INSERT INTO run_reports
			(run_id, position, report, status, row_count, duration_ms, error)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, i, rep.Name, rep.Status, rep.Rows, rep.Duration.Milliseconds(), nullString(rep.Error),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListRuns returns up to limit runs, newest first. limit <= 0 returns all.
func (h *History) ListRuns(limit int) ([]Run, error) {
	query := `SELECT run_id, triggered_by, output_dir, sample, started_at, duration_ms, succeeded, total, spend
		FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		var sample int
		var durMs int64
		var spend sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.Trigger, &r.OutputDir, &sample, &started, &durMs, &r.Succeeded, &r.Total, &spend); err != nil {
			return nil, err
		}
		r.Sample = sample != 0
		r.StartedAt, _ = time.Parse(timeLayout, started)
		r.Duration = time.Duration(durMs) * time.Millisecond
		r.Spend = spend.Float64
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return runs, nil
	}

	return runs, h.loadReports(runs)
}

// loadReports batch-loads the reports of runs.
func (h *History) loadReports(runs []Run) error {
	idx := make(map[string]int, len(runs))
	ids := make([]any, len(runs))
	for i, r := range runs {
		idx[r.ID] = i
		ids[i] = r.ID
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	//nolint:gosec // placeholders only
	rows, err := h.db.Query(`SELECT run_id, report, status, row_count, duration_ms, error
		FROM run_reports WHERE run_id IN (`+placeholders+`) ORDER BY run_id, position`, ids...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id string
		var rep RunReport
		var durMs int64
		var errStr sql.NullString
		if err := rows.Scan(&id, &rep.Name, &rep.Status, &rep.Rows, &durMs, &errStr); err != nil {
			return err
		}
		rep.Duration = time.Duration(durMs) * time.Millisecond
		rep.Error = errStr.String
		if i, ok := idx[id]; ok {
			runs[i].Reports = append(runs[i].Reports, rep)
		}
	}
	return rows.Err()
}

// LastRun returns the most recent run.
func (h *History) LastRun() (Run, error) {
	runs, err := h.ListRuns(1)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, ErrNoRuns
	}
	return runs[0], nil
}

// RunCount returns the number of recorded runs.
func (h *History) RunCount() (int, error) {
	var count int
	err := h.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}

// Prune deletes all but the newest keep runs and returns how many were removed.
func (h *History) Prune(keep int) (int64, error) {
	res, err := h.db.Exec(`DELETE FROM runs WHERE run_id NOT IN
		(SELECT run_id FROM runs ORDER BY started_at DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
