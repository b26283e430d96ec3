package metrics

// timestampLayout is the naive local time text the metrics sampler writes.
// Stored values may carry fractional seconds, which still sort correctly as text.
const timestampLayout = "2006-01-02 15:04:05"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS process_metrics (
    id              INTEGER PRIMARY KEY,
    pid             INTEGER NOT NULL,
    name            TEXT NOT NULL,
    cpu_percent     REAL NOT NULL,
    memory_mb       REAL NOT NULL,
    runtime_seconds INTEGER NOT NULL,
    timestamp       TIMESTAMP NOT NULL,
    status          TEXT NOT NULL,
    cmd             TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_timestamp ON process_metrics(timestamp);
CREATE INDEX IF NOT EXISTS idx_pid ON process_metrics(pid);
`
