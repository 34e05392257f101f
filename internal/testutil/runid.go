package testutil

// FixedRunIDGenerator returns the same run id every time.
//
// This enables deterministic journal contents: the same scenario run with
// the same generator writes byte-identical entries.
//
// Thread-safety: FixedRunIDGenerator is stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a fixed run id generator.
// If id is empty, Generate() returns "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run id.
//
// Implements scenario.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
