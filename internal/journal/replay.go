package journal

import (
	"context"
	"fmt"

	"github.com/roach88/roster/internal/user"
)

// Divergence describes an entry whose outcome was not reproduced on replay.
type Divergence struct {
	Seq      int64  `json:"seq"`
	Op       string `json:"op"`
	Recorded string `json:"recorded"`
	Replayed string `json:"replayed"`
}

// ReplayResult holds the outcome of replaying a run.
type ReplayResult struct {
	RunID       string       `json:"run_id"`
	Applied     int          `json:"applied"`
	Divergences []Divergence `json:"divergences"`
	Final       []user.User  `json:"final"`
}

// Deterministic reports whether every entry was reproduced.
func (r *ReplayResult) Deterministic() bool {
	return len(r.Divergences) == 0
}

// Replay re-executes a run's entries against a fresh user.Manager in seq
// order and compares every outcome with what was recorded.
//
// Returns an error if the run has no entries or contains an unknown op.
func (j *Journal) Replay(ctx context.Context, runID string) (*ReplayResult, error) {
	entries, err := j.Entries(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", runID, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("replay %s: no entries recorded", runID)
	}

	m := user.NewManager()
	result := &ReplayResult{RunID: runID, Divergences: []Divergence{}}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("replay %s: %w", runID, err)
		}
		d, err := replayEntry(m, e)
		if err != nil {
			return nil, fmt.Errorf("replay %s: %w", runID, err)
		}
		if d != nil {
			result.Divergences = append(result.Divergences, *d)
		}
		result.Applied++
	}

	result.Final = m.All()
	return result, nil
}

func replayEntry(m *user.Manager, e Entry) (*Divergence, error) {
	diverged := func(recorded, replayed string) *Divergence {
		return &Divergence{Seq: e.Seq, Op: e.Op, Recorded: recorded, Replayed: replayed}
	}

	switch e.Op {
	case OpAdd:
		u := m.Add(e.Name, e.Email)
		if u.ID != e.UserID {
			return diverged(fmt.Sprintf("id=%d", e.UserID), fmt.Sprintf("id=%d", u.ID)), nil
		}
	case OpFind:
		u, ok := m.FindByID(e.UserID)
		if ok != e.OK {
			return diverged(fmt.Sprintf("found=%t", e.OK), fmt.Sprintf("found=%t", ok)), nil
		}
		if ok && (u.Name != e.Name || u.Email != e.Email) {
			return diverged(
				fmt.Sprintf("name=%q email=%q", e.Name, e.Email),
				fmt.Sprintf("name=%q email=%q", u.Name, u.Email),
			), nil
		}
	case OpDelete:
		ok := m.Delete(e.UserID)
		if ok != e.OK {
			return diverged(fmt.Sprintf("deleted=%t", e.OK), fmt.Sprintf("deleted=%t", ok)), nil
		}
	case OpList:
		if n := m.Len(); n != e.Count {
			return diverged(fmt.Sprintf("count=%d", e.Count), fmt.Sprintf("count=%d", n)), nil
		}
	default:
		return nil, fmt.Errorf("seq %d: unknown op %q", e.Seq, e.Op)
	}
	return nil, nil
}
