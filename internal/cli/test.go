package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/roster/internal/journal"
	"github.com/roach88/roster/internal/scenario"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter   string // substring match on scenario name
	Database string
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	RunID  string   `json:"run_id"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test [scenarios-dir]",
		Short: "Run every scenario in a directory",
		Long: `Run every .yaml/.yml scenario in a directory, each against its own
fresh store, and report which passed.

The directory defaults to "scenarios" from roster.yml.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, invalid scenario files, etc.)

Examples:
  roster test ./scenarios
  roster test ./scenarios --filter delete
  roster test ./scenarios --db ./roster.db --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			} else if opts.Config != nil {
				dir = opts.Config.Scenarios
			}
			return runTests(cmd.Context(), opts, dir, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run scenarios whose name contains this")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (optional)")

	return cmd
}

func runTests(ctx context.Context, opts *TestOptions, dir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if dir == "" {
		return NewExitError(ExitCommandError, "scenarios directory is required")
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", dir))
	}

	log := opts.logger(cmd.ErrOrStderr())
	out := opts.formatter(cmd)

	scenarios, err := scenario.LoadDir(dir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenarios", err)
	}
	log.Debug("loaded scenarios", "dir", dir, "count", len(scenarios))

	runOpts := scenario.Options{}
	if db := opts.database(opts.Database); db != "" {
		j, err := journal.Open(db)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer j.Close()
		runOpts.Recorder = j
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(scenarios)),
		Total:     len(scenarios),
	}
	for _, sc := range scenarios {
		r, err := scenario.Run(ctx, sc, runOpts)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to run scenario %s", sc.Name), err)
		}
		sr := ScenarioResult{Name: sc.Name, RunID: r.RunID, Pass: r.Passed(), Errors: failureMessages(r)}
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		log.Debug("scenario finished", "name", sc.Name, "passed", sr.Pass)
		result.Scenarios = append(result.Scenarios, sr)
	}

	if err := out.Success(result, formatTestText(result)); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario(s) failed", result.Failed, result.Total))
	}
	return nil
}

func formatTestText(r TestResult) string {
	if r.Total == 0 {
		return "No scenarios found.\n"
	}

	var b strings.Builder
	for _, s := range r.Scenarios {
		if s.Pass {
			fmt.Fprintf(&b, "✓ %s\n", s.Name)
			continue
		}
		fmt.Fprintf(&b, "✗ %s\n", s.Name)
		for _, e := range s.Errors {
			fmt.Fprintf(&b, "    %s\n", e)
		}
	}
	fmt.Fprintf(&b, "\n%d passed, %d failed, %d total\n", r.Passed, r.Failed, r.Total)
	return b.String()
}
