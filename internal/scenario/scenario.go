package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/roster/internal/journal"
)

// Scenario defines a conformance scenario for the user store.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are keyed by it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// RunID is an optional fixed run id. If empty, one is generated.
	RunID string `yaml:"run_id,omitempty"`

	// Steps are executed in order against a fresh store.
	Steps []Step `yaml:"steps"`
}

// Step is a single store operation.
type Step struct {
	// Op is one of add, find, delete, list.
	Op string `yaml:"op"`

	// Name and Email are the add inputs.
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`

	// ID is the target of find and delete.
	ID *int64 `yaml:"id,omitempty"`

	// Expect is optional. Only the fields that are set are checked.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect lists expected outcomes of a step.
type Expect struct {
	ID    *int64  `yaml:"id,omitempty"`    // add: assigned id; find, delete: target id
	Found *bool   `yaml:"found,omitempty"` // find
	OK    *bool   `yaml:"ok,omitempty"`    // delete
	Name  *string `yaml:"name,omitempty"`  // find: matched name
	Email *string `yaml:"email,omitempty"` // find: matched email
	Count *int    `yaml:"count,omitempty"` // list: number of users
	IDs   []int64 `yaml:"ids,omitempty"`   // list: ids in order
}

var validOps = map[string]bool{
	journal.OpAdd:    true,
	journal.OpFind:   true,
	journal.OpDelete: true,
	journal.OpList:   true,
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return sc, nil
}

// Parse validates data against the scenario schema and decodes it.
// Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return &sc, nil
}

// LoadDir loads every .yaml/.yml scenario in dir, sorted by file name.
// Files whose scenario name does not contain filter are skipped; an empty
// filter matches everything.
func LoadDir(dir, filter string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenario dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	scenarios := []*Scenario{}
	for _, name := range names {
		sc, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if filter != "" && !strings.Contains(sc.Name, filter) {
			continue
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}
