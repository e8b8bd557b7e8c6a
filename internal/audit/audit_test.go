package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read journal: %v", err)
	}

	var entries []Entry
	for _, line := range bytes.Split(bytes.TrimSpace(data), []byte("\n")) {
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("Malformed journal line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestJournal_Record(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	journal := New(path)

	now := time.Now().Truncate(time.Millisecond)
	records := []Entry{
		{Time: now, Op: OpDisable, Target: "blogs", Outcome: "ok", Detail: "parked 2 steps"},
		{Time: now.Add(time.Second), Op: OpReenable, Target: "blogs", Outcome: "ok"},
		{Time: now.Add(2 * time.Second), Op: OpEdit, Target: "config/routes", Outcome: "error", Detail: "aborted"},
	}
	for _, r := range records {
		if err := journal.Record(r); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	entries := readEntries(t, path)
	if len(entries) != len(records) {
		t.Fatalf("journal has %d entries, want %d", len(entries), len(records))
	}
	for i, entry := range entries {
		if entry.Op != records[i].Op || entry.Target != records[i].Target || entry.Outcome != records[i].Outcome {
			t.Errorf("entry %d = %+v, want %+v", i, entry, records[i])
		}
	}
}

func TestJournal_RecordFillsTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	journal := New(path)

	if err := journal.Record(Entry{Op: OpRestart, Target: "blogs", Outcome: "ok"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	entries := readEntries(t, path)
	if entries[0].Time.IsZero() {
		t.Error("Record should stamp the entry time")
	}
}

func TestJournal_Result(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	journal := New(path)

	if err := journal.Result(OpRestart, "blogs", nil); err != nil {
		t.Fatalf("Result failed: %v", err)
	}
	if err := journal.Result(OpRestart, "ghost", fmt.Errorf("application not found: ghost")); err != nil {
		t.Fatalf("Result failed: %v", err)
	}

	entries := readEntries(t, path)
	if entries[0].Outcome != "ok" || entries[0].Detail != "" {
		t.Errorf("success entry = %+v, want ok with no detail", entries[0])
	}
	if entries[1].Outcome != "error" || entries[1].Detail == "" {
		t.Errorf("failure entry = %+v, want error with detail", entries[1])
	}
}

func TestJournal_Disabled(t *testing.T) {
	journal := New("")
	if journal.Enabled() {
		t.Error("journal with no path should be disabled")
	}
	if err := journal.Record(Entry{Op: OpEdit, Outcome: "ok"}); err != nil {
		t.Errorf("disabled journal should silently drop records, got: %v", err)
	}

	var nilJournal *Journal
	if nilJournal.Enabled() {
		t.Error("nil journal should be disabled")
	}
	if err := nilJournal.Record(Entry{Op: OpEdit, Outcome: "ok"}); err != nil {
		t.Errorf("nil journal should silently drop records, got: %v", err)
	}
}

func TestJournal_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nuri", "journal.jsonl")
	journal := New(path)

	if err := journal.Result(OpDisable, "blogs", nil); err != nil {
		t.Fatalf("Result failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("journal file was not created: %v", err)
	}
}
