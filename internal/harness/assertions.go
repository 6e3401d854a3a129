package harness

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/woql/internal/schema"
	"github.com/roach88/woql/woql"
)

// AssertionError is returned when an assertion fails.
// It includes the printed query to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Output   string // Printed query for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Output != "" {
		fmt.Fprintf(&buf, "\nPrinted query:\n%s\n", e.Output)
	}

	return buf.String()
}

// AssertionContext carries what the assertions inspect.
type AssertionContext struct {
	Document []byte
	Query    *woql.Query
	Output   string
	Indent   int
	Fluent   bool

	schema *schema.Schema
}

func (c *AssertionContext) loadSchema() (*schema.Schema, error) {
	if c.schema == nil {
		s, err := schema.New()
		if err != nil {
			return nil, err
		}
		c.schema = s
	}
	return c.schema, nil
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluateAssertion(a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertOutputContains:
		return assertOutputContains(actx, a)
	case AssertRoundTrip:
		return assertRoundTrip(actx)
	case AssertSchemaValid:
		return assertSchemaValid(actx)
	case AssertOperators:
		return assertOperators(actx, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

func assertOutputContains(actx *AssertionContext, a Assertion) error {
	if strings.Contains(actx.Output, a.Text) {
		return nil
	}
	return &AssertionError{
		Type:     AssertOutputContains,
		Expected: fmt.Sprintf("output containing %q", a.Text),
		Actual:   "not found",
		Output:   actx.Output,
	}
}

// assertRoundTrip re-encodes the decoded query, decodes it again and
// checks that nothing changed.
func assertRoundTrip(actx *AssertionContext) error {
	data, err := json.Marshal(actx.Query)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	again, err := woql.Decode(data)
	if err != nil {
		return fmt.Errorf("decode re-encoded query: %w", err)
	}
	if diff := cmp.Diff(actx.Query, again); diff != "" {
		return &AssertionError{
			Type:     AssertRoundTrip,
			Expected: "identical query after re-encoding",
			Actual:   "(-first +second)\n" + diff,
		}
	}
	output, err := woql.Print(again, actx.Indent, actx.Fluent)
	if err != nil {
		return fmt.Errorf("print re-encoded query: %w", err)
	}
	if output != actx.Output {
		return &AssertionError{
			Type:     AssertRoundTrip,
			Expected: "identical printed text after re-encoding",
			Actual:   output,
			Output:   actx.Output,
		}
	}
	return nil
}

func assertSchemaValid(actx *AssertionContext) error {
	s, err := actx.loadSchema()
	if err != nil {
		return err
	}
	violations, err := s.Validate(actx.Document)
	if err != nil {
		return err
	}
	if len(violations) == 0 {
		return nil
	}
	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.String()
	}
	return &AssertionError{
		Type:     AssertSchemaValid,
		Expected: "no schema violations",
		Actual:   strings.Join(msgs, "; "),
	}
}

func assertOperators(actx *AssertionContext, a Assertion) error {
	seen := make(map[string]bool)
	collectOperators(actx.Query, seen)

	got := make([]string, 0, len(seen))
	for op := range seen {
		got = append(got, op)
	}
	slices.Sort(got)

	want := make([]string, 0, len(a.Operators))
	for _, op := range a.Operators {
		if !slices.Contains(want, op) {
			want = append(want, op)
		}
	}
	slices.Sort(want)

	if cmp.Equal(want, got) {
		return nil
	}
	return &AssertionError{
		Type:     AssertOperators,
		Expected: strings.Join(want, ", "),
		Actual:   strings.Join(got, ", "),
		Output:   actx.Output,
	}
}

// collectOperators records every operator in q, including arithmetic
// sub-expressions.
func collectOperators(q *woql.Query, seen map[string]bool) {
	seen[string(q.Op)] = true
	for _, t := range q.Args {
		collectTerm(t, seen)
	}
}

func collectTerm(t woql.Term, seen map[string]bool) {
	switch v := t.(type) {
	case *woql.Query:
		collectOperators(v, seen)
	case woql.List:
		for _, item := range v.Items {
			collectTerm(item, seen)
		}
	}
}
