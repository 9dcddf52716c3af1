package world

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/orizon-lang/fuzzcheck/pkg/pool"
)

// StatsWriter periodically persists a pool's Stats snapshot as a CSV line,
// so a long-running session's progress can be tailed externally.
type StatsWriter struct {
	path    string
	started bool
	file    *os.File
}

// NewStatsWriter opens (creating if necessary) path for appending CSV
// stats rows.
func NewStatsWriter(path string) (*StatsWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("world: open stats file %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()

		return nil, fmt.Errorf("world: stat stats file %s: %w", path, err)
	}

	return &StatsWriter{path: path, file: f, started: info.Size() > 0}, nil
}

// Write appends one timestamped row for stats, writing a header row first
// if the file was empty.
func (w *StatsWriter) Write(stats pool.Stats) error {
	row := stats.CSV()

	if !w.started {
		header := append([]string{"timestamp"}, fmt.Sprintf("stats(%d cols)", len(row)))
		if _, err := fmt.Fprintln(w.file, joinCSV(header)); err != nil {
			return err
		}

		w.started = true
	}

	line := append([]string{time.Now().UTC().Format(time.RFC3339Nano)}, row...)
	if _, err := fmt.Fprintln(w.file, joinCSV(line)); err != nil {
		return fmt.Errorf("world: write stats row to %s: %w", w.path, err)
	}

	return nil
}

// Close flushes and closes the underlying stats file.
func (w *StatsWriter) Close() error { return w.file.Close() }

func joinCSV(fields []string) string {
	var b bytes.Buffer

	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteString(f)
	}

	return b.String()
}
