package scenario

import (
	"context"
	"fmt"
	"slices"

	"github.com/hashicorp/go-multierror"

	"github.com/roach88/roster/internal/journal"
	"github.com/roach88/roster/internal/user"
)

// Recorder receives one entry per executed step.
// *journal.Journal implements Recorder.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// Options configures a scenario run.
type Options struct {
	// Recorder, if set, receives every step as a journal entry.
	Recorder Recorder

	// RunIDs generates the run id when the scenario has none.
	// Defaults to UUIDv7Generator.
	RunIDs RunIDGenerator
}

// TraceEvent is the observed outcome of one step.
type TraceEvent struct {
	Seq   int64   `json:"seq"`
	Op    string  `json:"op"`
	ID    int64   `json:"id,omitempty"`
	Name  string  `json:"name,omitempty"`
	Email string  `json:"email,omitempty"`
	OK    bool    `json:"ok"`
	Count int     `json:"count,omitempty"`
	IDs   []int64 `json:"ids,omitempty"`
}

// Result holds the outcome of a scenario run.
type Result struct {
	RunID    string       `json:"run_id"`
	Trace    []TraceEvent `json:"trace"`
	Final    []user.User  `json:"final"`
	NextID   int64        `json:"next_id"`
	Failures []*StepError `json:"-"`
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// Err returns all expectation failures as a single error, or nil.
func (r *Result) Err() error {
	var merr *multierror.Error
	for _, f := range r.Failures {
		merr = multierror.Append(merr, f)
	}
	return merr.ErrorOrNil()
}

// Run executes a scenario against a fresh user.Manager.
//
// Expectation mismatches do not stop the run; they are collected in
// Result.Failures. A malformed step (unknown op, missing id) or a recorder
// failure aborts the run with an error.
func Run(ctx context.Context, sc *Scenario, opts Options) (*Result, error) {
	runID := sc.RunID
	if runID == "" {
		gen := opts.RunIDs
		if gen == nil {
			gen = UUIDv7Generator{}
		}
		runID = gen.Generate()
	}

	m := user.NewManager()
	result := &Result{RunID: runID, Trace: []TraceEvent{}}
	var seq int64

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run %s: %w", sc.Name, err)
		}

		seq++
		event, err := execute(m, i, step)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", sc.Name, err)
		}
		event.Seq = seq
		result.Trace = append(result.Trace, event)

		if opts.Recorder != nil {
			if err := opts.Recorder.Record(ctx, toEntry(runID, event)); err != nil {
				return nil, fmt.Errorf("run %s: record step %d: %w", sc.Name, i, err)
			}
		}

		if step.Expect != nil {
			result.Failures = append(result.Failures, check(i, step, event)...)
		}
	}

	result.Final = m.All()
	result.NextID = m.NextID()
	return result, nil
}

// execute applies one step to the manager.
func execute(m *user.Manager, i int, step Step) (TraceEvent, error) {
	if !validOps[step.Op] {
		return TraceEvent{}, &StepError{Code: ErrCodeUnknownOp, Step: i, Op: step.Op, Message: "unknown op"}
	}

	ev := TraceEvent{Op: step.Op}
	switch step.Op {
	case journal.OpAdd:
		u := m.Add(step.Name, step.Email)
		ev.ID, ev.Name, ev.Email, ev.OK = u.ID, u.Name, u.Email, true
	case journal.OpFind:
		if step.ID == nil {
			return TraceEvent{}, missingID(i, step.Op)
		}
		u, ok := m.FindByID(*step.ID)
		ev.ID, ev.OK = *step.ID, ok
		if ok {
			ev.Name, ev.Email = u.Name, u.Email
		}
	case journal.OpDelete:
		if step.ID == nil {
			return TraceEvent{}, missingID(i, step.Op)
		}
		ev.ID, ev.OK = *step.ID, m.Delete(*step.ID)
	case journal.OpList:
		all := m.All()
		ev.OK, ev.Count = true, len(all)
		ev.IDs = make([]int64, len(all))
		for j, u := range all {
			ev.IDs[j] = u.ID
		}
	}
	return ev, nil
}

func missingID(i int, op string) *StepError {
	return &StepError{Code: ErrCodeMissingArg, Step: i, Op: op, Message: "id is required"}
}

// check compares a step's observed event with its expectation.
func check(i int, step Step, ev TraceEvent) []*StepError {
	var failures []*StepError
	fail := func(format string, args ...any) {
		failures = append(failures, &StepError{
			Code:    ErrCodeExpectationFailed,
			Step:    i,
			Op:      step.Op,
			Message: fmt.Sprintf(format, args...),
		})
	}

	exp := step.Expect
	if exp.ID != nil && *exp.ID != ev.ID {
		fail("expected id %d, got %d", *exp.ID, ev.ID)
	}
	if exp.Found != nil && *exp.Found != ev.OK {
		fail("expected found=%t, got %t", *exp.Found, ev.OK)
	}
	if exp.OK != nil && *exp.OK != ev.OK {
		fail("expected ok=%t, got %t", *exp.OK, ev.OK)
	}
	if exp.Name != nil && *exp.Name != ev.Name {
		fail("expected name %q, got %q", *exp.Name, ev.Name)
	}
	if exp.Email != nil && *exp.Email != ev.Email {
		fail("expected email %q, got %q", *exp.Email, ev.Email)
	}
	if exp.Count != nil && *exp.Count != ev.Count {
		fail("expected count %d, got %d", *exp.Count, ev.Count)
	}
	if exp.IDs != nil && !slices.Equal(exp.IDs, ev.IDs) {
		fail("expected ids %v, got %v", exp.IDs, ev.IDs)
	}
	return failures
}

func toEntry(runID string, ev TraceEvent) journal.Entry {
	return journal.Entry{
		RunID:  runID,
		Seq:    ev.Seq,
		Op:     ev.Op,
		UserID: ev.ID,
		Name:   ev.Name,
		Email:  ev.Email,
		OK:     ev.OK,
		Count:  ev.Count,
	}
}
