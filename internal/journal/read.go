package journal

import (
	"context"
	"fmt"
)

// RunSummary describes one recorded run.
type RunSummary struct {
	RunID   string `db:"run_id" json:"run_id"`
	Entries int    `db:"entries" json:"entries"`
	LastSeq int64  `db:"last_seq" json:"last_seq"`
}

// Entries returns all entries for a run ordered by seq.
// Returns an empty slice (not nil) if the run has no entries.
func (j *Journal) Entries(ctx context.Context, runID string) ([]Entry, error) {
	entries := []Entry{}
	err := j.db.SelectContext(ctx, &entries, `
		SELECT run_id, seq, op, user_id, name, email, ok, count
		FROM entries
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	return entries, nil
}

// EntriesByOp returns a run's entries for a single op ordered by seq.
func (j *Journal) EntriesByOp(ctx context.Context, runID, op string) ([]Entry, error) {
	entries := []Entry{}
	err := j.db.SelectContext(ctx, &entries, `
		SELECT run_id, seq, op, user_id, name, email, ok, count
		FROM entries
		WHERE run_id = ? AND op = ?
		ORDER BY seq ASC
	`, runID, op)
	if err != nil {
		return nil, fmt.Errorf("read entries by op: %w", err)
	}
	return entries, nil
}

// Runs returns a summary of every recorded run ordered by run id.
func (j *Journal) Runs(ctx context.Context) ([]RunSummary, error) {
	runs := []RunSummary{}
	err := j.db.SelectContext(ctx, &runs, `
		SELECT run_id, COUNT(*) AS entries, MAX(seq) AS last_seq
		FROM entries
		GROUP BY run_id
		ORDER BY run_id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// LastSeq returns the highest seq recorded for a run, or 0 if none.
func (j *Journal) LastSeq(ctx context.Context, runID string) (int64, error) {
	var seq int64
	err := j.db.GetContext(ctx, &seq, `
		SELECT COALESCE(MAX(seq), 0) FROM entries WHERE run_id = ?
	`, runID)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq, nil
}
