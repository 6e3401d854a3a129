package woql

import (
	"fmt"
	"slices"
)

// Builder assembles one query from chained calls.
//
// A Builder is not safe for concurrent use. Sub-queries passed as
// arguments are deep-copied, so reusing a sub-builder afterwards never
// changes the parent.
type Builder struct {
	clean cleaner
	vars  *VarGen

	root   *Query
	cursor *Query // node the next call extends
	closed bool   // next call starts a new top-level And
	arith  bool   // holds an arithmetic expression, not a query

	// open records Or nodes opened without arguments; calls on them
	// append children instead of wrapping them in an And.
	open map[*Query]bool

	errs []*Error
}

// Option configures a Builder.
type Option func(*Builder)

// WithVocabulary replaces the prefix map and well-known predicates.
func WithVocabulary(v Vocabulary) Option {
	return func(b *Builder) {
		b.clean.vocab = v
	}
}

// WithExpandedPrefixes expands prefix:local names whose prefix is in the
// vocabulary into full IRIs.
func WithExpandedPrefixes() Option {
	return func(b *Builder) {
		b.clean.expand = true
	}
}

// WithVarGen sets the generator used by Localize on this builder.
func WithVarGen(g *VarGen) Option {
	return func(b *Builder) {
		b.vars = g
	}
}

// New creates an empty builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		clean: cleaner{vocab: DefaultVocabulary()},
		vars:  DefaultVarGen(),
		open:  make(map[*Query]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Errors returns every error recorded so far, in call order.
func (b *Builder) Errors() []error {
	errs := make([]error, len(b.errs))
	for i, err := range b.errs {
		errs[i] = err
	}
	return errs
}

// Closed reports whether the last call finished the chain with a
// sub-query argument.
func (b *Builder) Closed() bool {
	return b.closed
}

// Query returns a copy of the finished query. It fails with a *BuildError
// if any call recorded an error or a sub-query slot was never filled.
func (b *Builder) Query() (*Query, error) {
	errs := slices.Clone(b.errs)
	if b.root == nil {
		errs = append(errs, newError(CodeParameterError, "", "empty query"))
	} else {
		errs = append(errs, unfilled(b.root)...)
	}
	if len(errs) > 0 {
		return nil, &BuildError{Errs: errs}
	}
	return b.root.Clone(), nil
}

// JSON serializes the finished query.
func (b *Builder) JSON() ([]byte, error) {
	q, err := b.Query()
	if err != nil {
		return nil, err
	}
	return q.MarshalJSON()
}

// MarshalJSON implements json.Marshaler.
func (b *Builder) MarshalJSON() ([]byte, error) {
	return b.JSON()
}

// unfilled reports sub-query slots that still hold a placeholder.
func unfilled(q *Query) []*Error {
	spec, ok := ops[q.Op]
	if !ok {
		return nil
	}
	var errs []*Error
	for _, p := range spec.params {
		switch p.Role {
		case RoleQuery:
			sub, _ := q.Args[p.Name].(*Query)
			switch {
			case sub == nil:
				// A failed sub-builder already recorded its error.
			case sub.Op == "":
				errs = append(errs, newError(CodeParameterError, string(q.Op), "sub-query was never supplied"))
			default:
				errs = append(errs, unfilled(sub)...)
			}
		case RoleQueries:
			for _, sub := range q.SubQueries() {
				errs = append(errs, unfilled(sub)...)
			}
		}
	}
	return errs
}

func (b *Builder) record(op Op, param string, err *Error) {
	e := *err
	if e.Op == "" {
		e.Op = string(op)
	}
	if param != "" {
		e.Message = param + ": " + e.Message
	}
	b.errs = append(b.errs, &e)
}

func (b *Builder) fail(op Op, code Code, format string, args ...any) {
	b.errs = append(b.errs, newError(code, string(op), format, args...))
}

// queryable rejects query operators on arithmetic builders.
func (b *Builder) queryable(op Op) bool {
	if b.arith {
		b.fail(op, CodeParameterError, "cannot extend an arithmetic expression with a query")
		return false
	}
	return true
}

// adopt deep-copies a sub-builder's query and takes over its errors.
func (b *Builder) adopt(op Op, param string, sub *Builder) *Query {
	if sub == nil {
		b.fail(op, CodeParameterError, "%s: nil sub-query", param)
		return nil
	}
	b.errs = append(b.errs, sub.errs...)
	if sub.root == nil {
		b.fail(op, CodeParameterError, "%s: empty sub-query", param)
		return nil
	}
	return sub.root.Clone()
}

func (b *Builder) adoptQuery(op Op, param string, sub *Builder) *Query {
	q := b.adopt(op, param, sub)
	if q != nil && sub.arith {
		b.fail(op, CodeParameterError, "%s: an arithmetic expression is not a query", param)
		return nil
	}
	return q
}

// node builds a query node from positional arguments in table order.
// Sub-query slots are left to the caller.
func (b *Builder) node(op Op, args ...any) *Query {
	n := newQuery(op)
	i := 0
	for _, p := range ops[op].params {
		if p.Role == RoleQuery || p.Role == RoleQueries {
			continue
		}
		if i >= len(args) {
			if !p.Optional {
				b.fail(op, CodeParameterError, "missing argument %s", p.Name)
			}
			continue
		}
		arg := args[i]
		i++
		if sub, ok := arg.(*Builder); ok {
			q := b.adopt(op, p.Name, sub)
			if q == nil {
				continue
			}
			if !sub.arith || p.Role != RoleArith {
				b.fail(op, CodeParameterError, "%s: a query cannot be used as a %s", p.Name, p.Role)
				continue
			}
			arg = q
		}
		t, err := b.clean.clean(p.Role, arg)
		if err != nil {
			b.record(op, p.Name, err)
			continue
		}
		n.Args[p.Name] = t
	}
	if i < len(args) {
		b.fail(op, CodeParameterError, "too many arguments: got %d, want %d", len(args), i)
	}
	return n
}

// attach places n relative to the cursor and returns the node n lives
// at. An And merged into an enclosing And returns the enclosing And.
func (b *Builder) attach(n *Query) *Query {
	if b.root == nil {
		b.root, b.cursor = n, n
		return n
	}
	if b.closed {
		b.closed = false
		if b.root.Op != OpAnd {
			b.wrap(b.root)
		}
		b.cursor = b.root
		return b.appendTo(b.root, n)
	}
	switch {
	case b.cursor.Op == "":
		*b.cursor = *n
		return b.cursor
	case b.cursor.Op == OpAnd, b.cursor.Op == OpOr && b.open[b.cursor]:
		return b.appendTo(b.cursor, n)
	default:
		b.wrap(b.cursor)
		return b.appendTo(b.cursor, n)
	}
}

// wrap turns q, in place, into And[q].
func (b *Builder) wrap(q *Query) {
	old := *q
	delete(b.open, q)
	*q = Query{Op: OpAnd, Args: map[string]Term{"and": List{Items: []Term{&old}}}}
}

// appendTo adds n as the last child of parent. An And added to an And is
// flattened into it.
func (b *Builder) appendTo(parent, n *Query) *Query {
	subs := parent.SubQueries()
	if n.Op == OpAnd && parent.Op == OpAnd {
		parent.setSubQueries(append(subs, n.SubQueries()...))
		return parent
	}
	parent.setSubQueries(append(subs, n))
	return n
}

func (b *Builder) primitive(op Op, args ...any) *Builder {
	if !b.queryable(op) {
		return b
	}
	b.attach(b.node(op, args...))
	return b
}

// combinator attaches op. Without a sub-query the cursor moves into the
// empty query slot; with one the chain is closed.
func (b *Builder) combinator(op Op, subs []*Builder, args ...any) *Builder {
	if !b.queryable(op) {
		return b
	}
	if len(subs) > 1 {
		b.fail(op, CodeParameterError, "takes at most one sub-query, got %d", len(subs))
		return b
	}
	n := b.node(op, args...)
	if len(subs) == 0 {
		placeholder := &Query{}
		n.Args["query"] = placeholder
		b.attach(n)
		b.cursor = placeholder
		return b
	}
	if q := b.adoptQuery(op, "query", subs[0]); q != nil {
		n.Args["query"] = q
	}
	b.attach(n)
	b.closed = true
	return b
}

// queryList attaches an And or Or. Called without children it opens the
// node so later calls append to it.
func (b *Builder) queryList(op Op, subs []*Builder) *Builder {
	if !b.queryable(op) {
		return b
	}
	children := make([]*Query, 0, len(subs))
	for i, sub := range subs {
		q := b.adoptQuery(op, fmt.Sprintf("%s[%d]", ops[op].params[0].Name, i), sub)
		if q == nil {
			continue
		}
		if op == OpAnd && q.Op == OpAnd {
			children = append(children, q.SubQueries()...)
			continue
		}
		children = append(children, q)
	}
	n := newQuery(op)
	n.setSubQueries(children)
	at := b.attach(n)
	if len(subs) > 0 {
		b.closed = true
		return b
	}
	b.cursor = at
	if op == OpOr {
		b.open[at] = true
	}
	return b
}

// arithmetic builds a left-nested expression: Plus(a, b, c) is
// Plus(Plus(a, b), c).
func (b *Builder) arithmetic(op Op, operands ...any) *Builder {
	if b.root != nil {
		b.fail(op, CodeParameterError, "an arithmetic expression must start its own builder")
		return b
	}
	arity := len(ops[op].params)
	switch {
	case op == OpFloor || op == OpExp:
		if len(operands) != arity {
			b.fail(op, CodeParameterError, "takes %d operands, got %d", arity, len(operands))
			return b
		}
	case len(operands) < 2:
		b.fail(op, CodeParameterError, "takes at least 2 operands, got %d", len(operands))
		return b
	}
	b.arith = true
	var acc *Query
	if arity == 1 {
		acc = b.node(op, operands[0])
	} else {
		acc = b.node(op, operands[0], operands[1])
		for _, operand := range operands[2:] {
			acc = b.node(op, acc, operand)
		}
	}
	b.root, b.cursor = acc, acc
	return b
}
