package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    run_id               TEXT PRIMARY KEY,
    triggered_by         TEXT NOT NULL,
    output_dir           TEXT NOT NULL,
    sample               INTEGER NOT NULL DEFAULT 0,
    started_at           TEXT NOT NULL,
    duration_ms          INTEGER NOT NULL,
    succeeded            INTEGER NOT NULL,
    total                INTEGER NOT NULL,
    spend                REAL
);

CREATE TABLE IF NOT EXISTS run_reports (
    run_id               TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    position             INTEGER NOT NULL,
    report               TEXT NOT NULL,
    status               TEXT NOT NULL,
    row_count            INTEGER NOT NULL,
    duration_ms          INTEGER NOT NULL,
    error                TEXT,
    PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`
