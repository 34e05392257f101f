package journal

import (
	"context"
	"path/filepath"
	"testing"
)

// createTestJournal opens a journal in a per-test temporary directory.
func createTestJournal(t *testing.T) *Journal {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

// appendAll writes entries in order, failing the test on the first error.
func appendAll(t *testing.T, j *Journal, entries ...Entry) {
	t.Helper()
	for _, e := range entries {
		if err := j.Append(context.Background(), e); err != nil {
			t.Fatalf("Append(seq=%d) failed: %v", e.Seq, err)
		}
	}
}

// recordedRun is the journal of: add John, add Jane, find 1, delete 1,
// delete 999, list.
func recordedRun(runID string) []Entry {
	return []Entry{
		{RunID: runID, Seq: 1, Op: OpAdd, UserID: 1, Name: "John Doe", Email: "john@example.com", OK: true},
		{RunID: runID, Seq: 2, Op: OpAdd, UserID: 2, Name: "Jane Doe", Email: "jane@example.com", OK: true},
		{RunID: runID, Seq: 3, Op: OpFind, UserID: 1, Name: "John Doe", Email: "john@example.com", OK: true},
		{RunID: runID, Seq: 4, Op: OpDelete, UserID: 1, OK: true},
		{RunID: runID, Seq: 5, Op: OpDelete, UserID: 999, OK: false},
		{RunID: runID, Seq: 6, Op: OpList, Count: 1, OK: true},
	}
}
