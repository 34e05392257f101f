package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/roster/internal/journal"
	"github.com/roach88/roster/internal/scenario"
	"github.com/roach88/roster/internal/user"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to scenario.UUIDv7Generator.
	RunIDs scenario.RunIDGenerator
}

// RunOutput is the JSON payload of the run command.
type RunOutput struct {
	Scenario string                `json:"scenario"`
	RunID    string                `json:"run_id"`
	Passed   bool                  `json:"passed"`
	Trace    []scenario.TraceEvent `json:"trace"`
	Final    []user.User           `json:"final"`
	NextID   int64                 `json:"next_id"`
	Failures []string              `json:"failures,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario against a fresh store",
		Long: `Run a single scenario against a fresh in-memory user store.

Prints the trace and the final store contents. With --db, every step is
recorded in the SQLite journal so the run can be traced and replayed.

Examples:
  roster run ./scenarios/find_by_id.yaml
  roster run ./scenarios/find_by_id.yaml --db ./roster.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (optional)")

	return cmd
}

func runScenario(ctx context.Context, opts *RunOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.logger(cmd.ErrOrStderr())
	out := opts.formatter(cmd)

	sc, err := scenario.Load(path)
	if err != nil {
		if scenario.IsSchemaError(err) {
			_ = out.Error(ErrCodeInvalidScenario, err.Error(), nil)
			return WrapExitError(ExitFailure, "invalid scenario", err)
		}
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	runOpts := scenario.Options{RunIDs: opts.RunIDs}
	if db := opts.database(opts.Database); db != "" {
		log.Debug("opening journal", "path", db)
		j, err := journal.Open(db)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer j.Close()
		runOpts.Recorder = j
	}

	log.Debug("running scenario", "name", sc.Name, "steps", len(sc.Steps))
	result, err := scenario.Run(ctx, sc, runOpts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}
	log.Info("scenario finished", "name", sc.Name, "run_id", result.RunID, "passed", result.Passed())

	output := RunOutput{
		Scenario: sc.Name,
		RunID:    result.RunID,
		Passed:   result.Passed(),
		Trace:    result.Trace,
		Final:    result.Final,
		NextID:   result.NextID,
		Failures: failureMessages(result),
	}
	if err := out.Success(output, formatRunText(output)); err != nil {
		return err
	}

	if !result.Passed() {
		return WrapExitError(ExitFailure, fmt.Sprintf("scenario %s failed", sc.Name), result.Err())
	}
	return nil
}

func failureMessages(r *scenario.Result) []string {
	msgs := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		msgs[i] = f.Error()
	}
	return msgs
}

func formatRunText(o RunOutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scenario: %s\n", o.Scenario)
	fmt.Fprintf(&b, "Run: %s\n\n", o.RunID)

	fmt.Fprintln(&b, "Trace:")
	for _, ev := range o.Trace {
		fmt.Fprintf(&b, "  [%d] %s\n", ev.Seq, describeEvent(ev))
	}

	fmt.Fprintf(&b, "\nUsers (%d, next id %d):\n", len(o.Final), o.NextID)
	for _, u := range o.Final {
		fmt.Fprintf(&b, "  %d  %s <%s>\n", u.ID, u.Name, u.Email)
	}

	if o.Passed {
		fmt.Fprintln(&b, "\n✓ PASS")
	} else {
		fmt.Fprintln(&b, "\n✗ FAIL")
		for _, f := range o.Failures {
			fmt.Fprintf(&b, "  %s\n", f)
		}
	}
	return b.String()
}

func describeEvent(ev scenario.TraceEvent) string {
	switch ev.Op {
	case journal.OpAdd:
		return fmt.Sprintf("add %q <%s> -> id=%d", ev.Name, ev.Email, ev.ID)
	case journal.OpFind:
		if ev.OK {
			return fmt.Sprintf("find %d -> %q <%s>", ev.ID, ev.Name, ev.Email)
		}
		return fmt.Sprintf("find %d -> not found", ev.ID)
	case journal.OpDelete:
		return fmt.Sprintf("delete %d -> %t", ev.ID, ev.OK)
	case journal.OpList:
		return fmt.Sprintf("list -> %d user(s) %v", ev.Count, ev.IDs)
	default:
		return ev.Op
	}
}
