package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/woql/woql"
)

// Scenario defines a printer conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Query is an inline JSON-LD query document.
	Query string `yaml:"query,omitempty"`

	// QueryFile is a path to a JSON-LD query document. LoadScenario
	// resolves it relative to the scenario file.
	QueryFile string `yaml:"query_file,omitempty"`

	// Fluent selects method-chain printing for chainable Ands.
	Fluent bool `yaml:"fluent,omitempty"`

	// Indent is the tab depth the printed expression starts at.
	Indent int `yaml:"indent,omitempty"`

	// ExpectError is the error code decoding or printing must fail with.
	// When set, no assertions run.
	ExpectError woql.Code `yaml:"expect_error,omitempty"`

	// Assertions validate the decoded query and the printed text.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Assertion validates one property of a scenario run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Text is the substring output_contains looks for.
	Text string `yaml:"text,omitempty"`

	// Operators is the exact operator set the operators assertion expects,
	// in any order.
	Operators []string `yaml:"operators,omitempty"`
}

// Assertion type constants.
const (
	AssertOutputContains = "output_contains"
	AssertRoundTrip      = "round_trip"
	AssertSchemaValid    = "schema_valid"
	AssertOperators      = "operators"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.QueryFile != "" && !filepath.IsAbs(scenario.QueryFile) {
		scenario.QueryFile = filepath.Join(filepath.Dir(path), scenario.QueryFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, in file name order.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// document returns the scenario's query document.
func (s *Scenario) document() ([]byte, error) {
	if s.QueryFile == "" {
		return []byte(s.Query), nil
	}
	data, err := os.ReadFile(s.QueryFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read query file: %w", err)
	}
	return data, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Query == "" && s.QueryFile == "":
		return fmt.Errorf("one of query or query_file is required")
	case s.Query != "" && s.QueryFile != "":
		return fmt.Errorf("query and query_file are mutually exclusive")
	}

	if s.QueryFile != "" {
		if _, err := os.Stat(s.QueryFile); os.IsNotExist(err) {
			return fmt.Errorf("query file not found: %s", s.QueryFile)
		}
	}

	if s.Indent < 0 {
		return fmt.Errorf("indent must be non-negative")
	}

	if s.ExpectError != "" && len(s.Assertions) > 0 {
		return fmt.Errorf("assertions cannot be combined with expect_error")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertOutputContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for output_contains", index)
		}
	case AssertOperators:
		if len(a.Operators) == 0 {
			return fmt.Errorf("assertions[%d]: operators list is required for operators", index)
		}
		for _, op := range a.Operators {
			if _, ok := woql.LookupOp(woql.Op(op)); !ok {
				return fmt.Errorf("assertions[%d]: unknown operator %q", index, op)
			}
		}
	case AssertRoundTrip, AssertSchemaValid:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
