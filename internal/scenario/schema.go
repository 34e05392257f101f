package scenario

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Validate checks raw scenario YAML against the embedded CUE schema.
// Returns a *SchemaError describing every violation.
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &SchemaError{Issues: []SchemaIssue{{Message: fmt.Sprintf("invalid YAML: %v", err)}}}
	}
	if doc == nil {
		return &SchemaError{Issues: []SchemaIssue{{Message: "empty scenario"}}}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile scenario schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Scenario"))
	v := def.Unify(ctx.Encode(doc))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return newSchemaError(err)
	}
	return nil
}

// newSchemaError flattens a CUE error list into a SchemaError.
func newSchemaError(err error) *SchemaError {
	se := &SchemaError{}
	for _, e := range cueerrors.Errors(err) {
		path := strings.Join(e.Path(), ".")
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if path != "" {
			msg = path + ": " + msg
		}
		se.Issues = append(se.Issues, SchemaIssue{Path: path, Message: msg})
	}
	if len(se.Issues) == 0 {
		se.Issues = []SchemaIssue{{Message: err.Error()}}
	}
	return se
}
