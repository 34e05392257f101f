package scenario

import (
	"errors"
	"fmt"
	"strings"
)

// StepErrorCode categorizes step failures.
type StepErrorCode string

const (
	// ErrCodeExpectationFailed indicates a step outcome did not match its expectation.
	ErrCodeExpectationFailed StepErrorCode = "EXPECTATION_FAILED"

	// ErrCodeUnknownOp indicates a step names an op the store does not have.
	ErrCodeUnknownOp StepErrorCode = "UNKNOWN_OP"

	// ErrCodeMissingArg indicates a find or delete step without an id.
	ErrCodeMissingArg StepErrorCode = "MISSING_ARG"
)

// StepError describes a failure at a single scenario step.
type StepError struct {
	Code StepErrorCode

	// Step is the zero-based index of the failing step.
	Step int

	// Op is the step's op.
	Op string

	Message string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: step %d (%s): %s", e.Code, e.Step, e.Op, e.Message)
}

// IsExpectationError returns true if err is an expectation failure.
// Uses errors.As to handle wrapped errors.
func IsExpectationError(err error) bool {
	var se *StepError
	if errors.As(err, &se) {
		return se.Code == ErrCodeExpectationFailed
	}
	return false
}

// SchemaIssue is a single schema violation.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// SchemaError reports that a scenario file does not match the schema.
type SchemaError struct {
	Issues []SchemaIssue
}

func (e *SchemaError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.Message
	}
	return "invalid scenario: " + strings.Join(msgs, "; ")
}

// IsSchemaError returns true if err is a schema violation.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
