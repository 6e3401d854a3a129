package woql

import (
	"context"
	"fmt"

	"github.com/roach88/woql/internal/ir"
)

// Binding maps variable names (without "v:") to the values a solution
// assigns them.
type Binding map[string]ir.IRValue

// ExecOptions are passed through to the executor untouched.
type ExecOptions struct {
	CommitMessage string
	Graph         string
	Branch        string
}

// Executor runs a finished query against a database. This package ships
// no implementation; transports live with the caller.
type Executor interface {
	Query(ctx context.Context, q *Query, opts ExecOptions) ([]Binding, error)
}

// Run finishes b and hands the query to ex. A builder with recorded errors
// is refused before anything is sent.
func Run(ctx context.Context, ex Executor, b *Builder, opts ExecOptions) ([]Binding, error) {
	q, err := b.Query()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bindings, err := ex.Query(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("execute %s query: %w", q.Op, err)
	}
	return bindings, nil
}
