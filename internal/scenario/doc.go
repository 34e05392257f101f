// Package scenario runs YAML conformance scenarios against the user store.
//
// A scenario is a named list of steps (add, find, delete, list), each with
// optional expectations. Run executes the steps against a fresh
// user.Manager, builds a trace stamped with a per-run logical seq, and
// collects every expectation that did not hold.
//
// Scenario files are checked against an embedded CUE schema before they
// are decoded. Traces serialize to canonical JSON so they can be compared
// byte-for-byte with golden files:
//
//	go test ./internal/scenario -update
//
// regenerates testdata/golden.
//
// Example scenario:
//
//	name: find_existing
//	steps:
//	  - op: add
//	    name: John Doe
//	    email: john@example.com
//	    expect: {id: 1}
//	  - op: find
//	    id: 1
//	    expect: {found: true, name: John Doe}
package scenario
