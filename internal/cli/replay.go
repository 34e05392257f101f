package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/roster/internal/journal"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string
}

// ReplayResult holds the replay outcome of every requested run.
type ReplayResult struct {
	Runs             []*journal.ReplayResult `json:"runs"`
	TotalRuns        int                     `json:"total_runs"`
	AllDeterministic bool                    `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay journaled runs and verify determinism",
		Long: `Replay journaled runs against a fresh store and check that every
recorded id and outcome is reproduced.

Exit codes:
  0 - All runs reproduced
  1 - At least one run diverged
  2 - Command error

Examples:
  roster replay --db ./roster.db
  roster replay --db ./roster.db --run golden-list-in-order`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required unless set in config)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay a single run only")

	return cmd
}

func runReplay(ctx context.Context, opts *ReplayOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	db := opts.database(opts.Database)
	if db == "" {
		return NewExitError(ExitCommandError, "--db is required")
	}

	log := opts.logger(cmd.ErrOrStderr())
	out := opts.formatter(cmd)

	j, err := journal.Open(db)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	var runIDs []string
	if opts.RunID != "" {
		runIDs = []string{opts.RunID}
	} else {
		runs, err := j.Runs(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		for _, r := range runs {
			runIDs = append(runIDs, r.RunID)
		}
	}

	result := ReplayResult{
		Runs:             make([]*journal.ReplayResult, 0, len(runIDs)),
		TotalRuns:        len(runIDs),
		AllDeterministic: true,
	}
	for _, id := range runIDs {
		log.Debug("replaying run", "run_id", id)
		r, err := j.Replay(ctx, id)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", id), err)
		}
		if !r.Deterministic() {
			result.AllDeterministic = false
			log.Warn("run diverged", "run_id", id, "divergences", len(r.Divergences))
		}
		result.Runs = append(result.Runs, r)
	}

	if err := out.Success(result, formatReplayText(result)); err != nil {
		return err
	}
	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "replay diverged from journal")
	}
	return nil
}

func formatReplayText(r ReplayResult) string {
	if r.TotalRuns == 0 {
		return "No runs recorded.\n"
	}
	var b strings.Builder
	for _, run := range r.Runs {
		if run.Deterministic() {
			fmt.Fprintf(&b, "✓ %s (%d entries)\n", run.RunID, run.Applied)
			continue
		}
		fmt.Fprintf(&b, "✗ %s (%d entries, %d divergence(s))\n", run.RunID, run.Applied, len(run.Divergences))
		for _, d := range run.Divergences {
			fmt.Fprintf(&b, "    [%d] %s: recorded %s, replayed %s\n", d.Seq, d.Op, d.Recorded, d.Replayed)
		}
	}
	if r.AllDeterministic {
		fmt.Fprintln(&b, "\nAll runs deterministic.")
	} else {
		fmt.Fprintln(&b, "\nReplay diverged.")
	}
	return b.String()
}
