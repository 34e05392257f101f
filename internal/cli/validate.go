package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/roster/internal/scenario"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                   `json:"valid"`
	Scenario string                 `json:"scenario,omitempty"`
	Steps    int                    `json:"steps"`
	Errors   []scenario.SchemaIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Validate a scenario file without running it",
		Long: `Validate a scenario file against the scenario schema.

Checks field names and types, the op of every step, and that find and
delete steps carry an id. Nothing is executed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	log := opts.logger(cmd.ErrOrStderr())
	out := opts.formatter(cmd)

	log.Debug("validating scenario", "path", path)
	sc, err := scenario.Load(path)
	if err != nil {
		var se *scenario.SchemaError
		if !errors.As(err, &se) {
			_ = out.Error(ErrCodeNotFound, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to load scenario", err)
		}

		result := ValidationResult{Valid: false, Errors: se.Issues}
		var b strings.Builder
		fmt.Fprintf(&b, "✗ %s is invalid (%d error(s))\n", path, len(se.Issues))
		for _, issue := range se.Issues {
			fmt.Fprintf(&b, "  %s\n", issue.Message)
		}
		if err := out.Success(result, b.String()); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "validation failed")
	}

	result := ValidationResult{Valid: true, Scenario: sc.Name, Steps: len(sc.Steps)}
	return out.Success(result, fmt.Sprintf("✓ %s is valid (%d step(s))\n", sc.Name, len(sc.Steps)))
}
