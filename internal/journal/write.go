package journal

import (
	"context"
	"errors"
	"fmt"
)

// Operation names recorded in Entry.Op.
const (
	OpAdd    = "add"
	OpFind   = "find"
	OpDelete = "delete"
	OpList   = "list"
)

// Ops lists every valid Entry.Op.
var Ops = []string{OpAdd, OpFind, OpDelete, OpList}

// Entry is one recorded store operation.
//
// Field use by op:
//   - add: UserID is the assigned id, Name/Email the inputs, OK always true
//   - find: UserID is the requested id, OK whether found, Name/Email the match
//   - delete: UserID is the requested id, OK whether a user was removed
//   - list: Count is the number of users returned, OK always true
type Entry struct {
	RunID  string `db:"run_id" json:"run_id"`
	Seq    int64  `db:"seq" json:"seq"`
	Op     string `db:"op" json:"op"`
	UserID int64  `db:"user_id" json:"user_id,omitempty"`
	Name   string `db:"name" json:"name,omitempty"`
	Email  string `db:"email" json:"email,omitempty"`
	OK     bool   `db:"ok" json:"ok"`
	Count  int    `db:"count" json:"count,omitempty"`
}

// ErrConflict is returned when an entry's (run_id, seq) is already recorded
// with different content.
var ErrConflict = errors.New("conflicting entry already recorded")

// Append inserts an entry into the journal.
// Uses ON CONFLICT(run_id, seq) DO NOTHING for idempotency - rewriting an
// identical entry is a no-op. Rewriting the key with different content
// returns ErrConflict and leaves the stored entry untouched.
func (j *Journal) Append(ctx context.Context, e Entry) error {
	if e.RunID == "" {
		return fmt.Errorf("append entry: empty run id")
	}

	tx, err := j.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append entry: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.NamedExecContext(ctx, `
		INSERT INTO entries
		(run_id, seq, op, user_id, name, email, ok, count)
		VALUES (:run_id, :seq, :op, :user_id, :name, :email, :ok, :count)
		ON CONFLICT(run_id, seq) DO NOTHING
	`, e)
	if err != nil {
		return fmt.Errorf("append entry: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("append entry: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var stored Entry
		err := tx.GetContext(ctx, &stored, `
			SELECT run_id, seq, op, user_id, name, email, ok, count
			FROM entries
			WHERE run_id = ? AND seq = ?
		`, e.RunID, e.Seq)
		if err != nil {
			return fmt.Errorf("append entry: read existing: %w", err)
		}
		if stored != e {
			return fmt.Errorf("append entry: run %s seq %d: %w", e.RunID, e.Seq, ErrConflict)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append entry: commit: %w", err)
	}
	return nil
}

// Record implements scenario.Recorder.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	return j.Append(ctx, e)
}
