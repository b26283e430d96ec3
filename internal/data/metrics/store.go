// Package metrics reads and writes sampled agent process metrics in SQLite.
package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Sample is one observation of an agent process.
type Sample struct {
	PID            int
	Name           string
	CPUPercent     float64
	MemoryMB       float64
	RuntimeSeconds int64
	Timestamp      time.Time
	Status         string
	Cmd            []string
}

// ProcessStats summarises the samples of a time range. Start and End are
// zero when the range holds no samples.
type ProcessStats struct {
	ProcessCount int       `json:"process_count"`
	AvgCPU       float64   `json:"avg_cpu_percent"`
	MaxCPU       float64   `json:"max_cpu_percent"`
	AvgMemoryMB  float64   `json:"avg_memory_mb"`
	MaxMemoryMB  float64   `json:"max_memory_mb"`
	Start        time.Time `json:"start_time"`
	End          time.Time `json:"end_time"`
}

// Store provides SQLite-backed process metrics.
type Store struct {
	db *sql.DB
}

// Exists reports whether a database file is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Open opens or creates the metrics database at the given path.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating metrics dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening metrics db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores one sample with its timestamp as local wall-clock text.
func (s *Store) Insert(ctx context.Context, sample Sample) error {
	cmd, err := sonic.Marshal(sample.Cmd)
	if err != nil {
		return fmt.Errorf("encoding cmd: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO process_metrics
		(pid, name, cpu_percent, memory_mb, runtime_seconds, timestamp, status, cmd)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sample.PID, sample.Name, sample.CPUPercent, sample.MemoryMB,
		sample.RuntimeSeconds, formatTimestamp(sample.Timestamp), sample.Status, string(cmd),
	)
	if err != nil {
		return fmt.Errorf("inserting sample: %w", err)
	}
	return nil
}

// Stats aggregates the samples taken in [start, end]. A zero bound is open.
func (s *Store) Stats(ctx context.Context, start, end time.Time) (ProcessStats, error) {
	query := `SELECT COUNT(DISTINCT pid), AVG(cpu_percent), MAX(cpu_percent),
		AVG(memory_mb), MAX(memory_mb), MIN(timestamp), MAX(timestamp)
		FROM process_metrics`

	var (
		conditions []string
		args       []any
	)
	if !start.IsZero() {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, formatTimestamp(start))
	}
	if !end.IsZero() {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, formatTimestamp(end))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var (
		stats                      ProcessStats
		avgCPU, maxCPU, avgM, maxM sql.NullFloat64
		first, last                any
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&stats.ProcessCount, &avgCPU, &maxCPU, &avgM, &maxM, &first, &last,
	)
	if err != nil {
		return ProcessStats{}, fmt.Errorf("querying process stats: %w", err)
	}

	stats.AvgCPU = avgCPU.Float64
	stats.MaxCPU = maxCPU.Float64
	stats.AvgMemoryMB = avgM.Float64
	stats.MaxMemoryMB = maxM.Float64
	stats.Start = parseTimestamp(first)
	stats.End = parseTimestamp(last)
	return stats, nil
}

func formatTimestamp(t time.Time) string {
	return t.In(time.Local).Format(timestampLayout)
}

// parseTimestamp reads a stored timestamp back as local time; NULL and
// unreadable values give the zero time.
func parseTimestamp(v any) time.Time {
	var text string
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return time.Time{}
	}
	t, err := time.ParseInLocation(timestampLayout, strings.TrimSpace(text), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
