package harness

import (
	"fmt"

	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/woql"
)

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Read the query document
//  2. Decode and print it
//  3. Check expect_error, or evaluate the assertions
//
// A decode or print failure in a scenario that does not expect one is
// returned as an error. Failed assertions are reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	doc, err := scenario.document()
	if err != nil {
		return nil, err
	}

	result := NewResult()

	q, err := woql.Decode(doc)
	var output string
	if err == nil {
		output, err = woql.Print(q, scenario.Indent, scenario.Fluent)
	}

	if scenario.ExpectError != "" {
		switch {
		case err == nil:
			result.AddError(fmt.Sprintf("expected %s error, query printed as:\n%s", scenario.ExpectError, output))
		case !woql.HasCode(err, scenario.ExpectError):
			result.AddError(fmt.Sprintf("expected %s error, got: %v", scenario.ExpectError, err))
		}
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result.Output = output

	ast, err := q.ToIR()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	if result.Hash, err = ir.QueryHash(ast); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	actx := &AssertionContext{
		Document: doc,
		Query:    q,
		Output:   output,
		Indent:   scenario.Indent,
		Fluent:   scenario.Fluent,
	}
	for _, errMsg := range EvaluateAssertions(scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}
