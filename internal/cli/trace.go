package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/roster/internal/journal"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string
	Op       string // optional - filter to a single op
}

// TraceResult holds the entries of one run.
type TraceResult struct {
	RunID   string          `json:"run_id"`
	Entries []journal.Entry `json:"entries"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show journaled runs",
		Long: `Show what was recorded in the journal.

Without --run, lists every recorded run with its entry count.
With --run, lists that run's entries in seq order.

Examples:
  roster trace --db ./roster.db
  roster trace --db ./roster.db --run golden-find-by-id
  roster trace --db ./roster.db --run golden-find-by-id --op delete`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required unless set in config)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to show")
	cmd.Flags().StringVar(&opts.Op, "op", "", "filter to a single op (add|find|delete|list)")

	return cmd
}

func runTrace(ctx context.Context, opts *TraceOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	db := opts.database(opts.Database)
	if db == "" {
		return NewExitError(ExitCommandError, "--db is required")
	}
	if opts.Op != "" && opts.RunID == "" {
		return NewExitError(ExitCommandError, "--op requires --run")
	}
	if opts.Op != "" && !slices.Contains(journal.Ops, opts.Op) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid op %q: must be one of %v", opts.Op, journal.Ops))
	}

	out := opts.formatter(cmd)

	j, err := journal.Open(db)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	if opts.RunID == "" {
		runs, err := j.Runs(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		return out.Success(runs, formatRunsText(runs))
	}

	var entries []journal.Entry
	if opts.Op != "" {
		entries, err = j.EntriesByOp(ctx, opts.RunID, opts.Op)
	} else {
		entries, err = j.Entries(ctx, opts.RunID)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read entries", err)
	}
	if len(entries) == 0 && opts.Op == "" {
		_ = out.Error(ErrCodeNotFound, fmt.Sprintf("run not found: %s", opts.RunID), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.RunID))
	}

	result := TraceResult{RunID: opts.RunID, Entries: entries}
	return out.Success(result, formatTraceText(result))
}

func formatRunsText(runs []journal.RunSummary) string {
	if len(runs) == 0 {
		return "No runs recorded.\n"
	}
	var b strings.Builder
	for _, r := range runs {
		fmt.Fprintf(&b, "%s  %d entries (last seq %d)\n", r.RunID, r.Entries, r.LastSeq)
	}
	return b.String()
}

func formatTraceText(r TraceResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run: %s\n", r.RunID)
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "  [%d] %s\n", e.Seq, describeEntry(e))
	}
	return b.String()
}

func describeEntry(e journal.Entry) string {
	switch e.Op {
	case journal.OpAdd:
		return fmt.Sprintf("add %q <%s> -> id=%d", e.Name, e.Email, e.UserID)
	case journal.OpFind:
		if e.OK {
			return fmt.Sprintf("find %d -> %q <%s>", e.UserID, e.Name, e.Email)
		}
		return fmt.Sprintf("find %d -> not found", e.UserID)
	case journal.OpDelete:
		return fmt.Sprintf("delete %d -> %t", e.UserID, e.OK)
	case journal.OpList:
		return fmt.Sprintf("list -> %d user(s)", e.Count)
	default:
		return e.Op
	}
}
