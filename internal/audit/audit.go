// Package audit appends operation records to an optional journal file.
// Records are stored as JSON Lines (JSONL), one mutating operation per
// line. The journal is write-only observability: nothing in the tool
// ever reads it back.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Op classifies a journaled operation.
type Op string

const (
	OpEdit     Op = "edit"
	OpDisable  Op = "disable"
	OpReenable Op = "reenable"
	OpRestart  Op = "restart"
)

// Entry represents a single journal record.
type Entry struct {
	Time    time.Time `json:"time"`
	Op      Op        `json:"op"`
	Target  string    `json:"target,omitempty"`
	Outcome string    `json:"outcome"`
	Detail  string    `json:"detail,omitempty"`
}

// Journal appends records to the configured journal file. A Journal
// with no path is disabled and records nothing.
type Journal struct {
	path string
}

// New creates a journal writing to path. An empty path disables it.
func New(path string) *Journal {
	return &Journal{path: path}
}

// Enabled reports whether a journal file is configured.
func (j *Journal) Enabled() bool {
	return j != nil && j.path != ""
}

// Record appends an entry to the journal.
func (j *Journal) Record(entry Entry) error {
	if !j.Enabled() {
		return nil
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}

	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write journal entry: %w", err)
	}

	return nil
}

// Result records the outcome of an operation in one call.
func (j *Journal) Result(op Op, target string, opErr error) error {
	entry := Entry{Op: op, Target: target, Outcome: "ok"}
	if opErr != nil {
		entry.Outcome = "error"
		entry.Detail = opErr.Error()
	}
	return j.Record(entry)
}
