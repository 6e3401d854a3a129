package woql

import (
	"slices"

	"github.com/roach88/woql/internal/ir"
)

// Op is a WOQL operator tag, the "@type" of a query node.
type Op string

// Combinators.
const (
	OpAnd         Op = "And"
	OpOr          Op = "Or"
	OpNot         Op = "Not"
	OpOptional    Op = "Optional"
	OpOnce        Op = "Once"
	OpImmediately Op = "Immediately"
	OpSelect      Op = "Select"
	OpDistinct    Op = "Distinct"
	OpLimit       Op = "Limit"
	OpStart       Op = "Start"
	OpOrderBy     Op = "OrderBy"
	OpGroupBy     Op = "GroupBy"
	OpCollect     Op = "Collect"
	OpCount       Op = "Count"
	OpUsing       Op = "Using"
	OpFrom        Op = "From"
	OpInto        Op = "Into"
)

// Primitives.
const (
	OpTriple       Op = "Triple"
	OpAddTriple    Op = "AddTriple"
	OpDeleteTriple Op = "DeleteTriple"
	OpEquals       Op = "Equals"
	OpLess         Op = "Less"
	OpGreater      Op = "Greater"
	OpLike         Op = "Like"
	OpEval         Op = "Eval"
	OpIsA          Op = "IsA"
	OpSubsumption  Op = "Subsumption"
	OpTypeOf       Op = "TypeOf"
	OpTypecast     Op = "Typecast"
	OpConcatenate  Op = "Concatenate"
	OpSubstring    Op = "Substring"
	OpRegexp       Op = "Regexp"
	OpUpper        Op = "Upper"
	OpLower        Op = "Lower"
	OpTrim         Op = "Trim"
	OpPad          Op = "Pad"
	OpSplit        Op = "Split"
	OpJoin         Op = "Join"
	OpLength       Op = "Length"
	OpMember       Op = "Member"
	OpSum          Op = "Sum"
	OpDot          Op = "Dot"
	OpPath         Op = "Path"
	OpLexicalKey   Op = "LexicalKey"
	OpHashKey      Op = "HashKey"
	OpRandomKey    Op = "RandomKey"
	OpTrue         Op = "True"
)

// Arithmetic expressions. Only valid under Eval or nested in one another.
const (
	OpPlus   Op = "Plus"
	OpMinus  Op = "Minus"
	OpTimes  Op = "Times"
	OpDivide Op = "Divide"
	OpDiv    Op = "Div"
	OpExp    Op = "Exp"
	OpFloor  Op = "Floor"
)

// Role says how a slot value is cleaned, encoded and printed.
type Role int

const (
	RoleSubject   Role = iota // NodeValue; strings are nodes as written
	RolePredicate             // NodeValue; barewords via the well-known table or @schema:
	RoleClass                 // NodeValue; barewords become @schema:<word>
	RoleObject                // Value; strings with a colon are nodes, others xsd:string
	RoleValue                 // Value; strings are xsd:string literals
	RoleData                  // DataValue; no node references
	RoleArith                 // ArithmeticValue or a nested arithmetic node
	RoleGraph                 // plain string from a closed set
	RoleQuery                 // one nested query
	RoleQueries               // ordered nested queries
	RoleInt                   // plain integer
	RoleNames                 // plain list of variable names
	RoleText                  // plain string
	RoleOrdering              // list of OrderTemplate
	RolePath                  // path pattern tree
)

var roleNames = [...]string{
	"subject", "predicate", "class", "object", "value", "data", "arithmetic",
	"graph", "query", "queries", "int", "names", "text", "ordering", "path",
}

// String returns the role name.
func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// Param is one argument slot of an operator, in fluent argument order.
type Param struct {
	Name     string // JSON key
	Role     Role
	Optional bool
}

type family int

const (
	familyPrimitive  family = iota
	familyQueryList         // And, Or: variadic sub-queries, printed one per line
	familyCombinator        // last param is the sub-query
	familyArith
)

type opSpec struct {
	fn     string
	family family
	params []Param
}

func req(name string, role Role) Param { return Param{Name: name, Role: role} }
func opt(name string, role Role) Param { return Param{Name: name, Role: role, Optional: true} }

func prim(fn string, params ...Param) opSpec {
	return opSpec{fn: fn, family: familyPrimitive, params: params}
}

func comb(fn string, params ...Param) opSpec {
	return opSpec{fn: fn, family: familyCombinator, params: append(params, req("query", RoleQuery))}
}

func arith(fn string, params ...Param) opSpec {
	return opSpec{fn: fn, family: familyArith, params: params}
}

var (
	leftRight   = []Param{req("left", RoleArith), req("right", RoleArith)}
	tripleSlots = []Param{
		req("subject", RoleSubject),
		req("predicate", RolePredicate),
		req("object", RoleObject),
		opt("graph", RoleGraph),
	}
)

// ops is the operator table. Every Op constant has exactly one entry.
var ops = map[Op]opSpec{
	OpAnd: {fn: "And", family: familyQueryList, params: []Param{req("and", RoleQueries)}},
	OpOr:  {fn: "Or", family: familyQueryList, params: []Param{req("or", RoleQueries)}},

	OpNot:         comb("Not"),
	OpOptional:    comb("Opt"),
	OpOnce:        comb("Once"),
	OpImmediately: comb("Immediately"),
	OpSelect:      comb("Select", req("variables", RoleNames)),
	OpDistinct:    comb("Distinct", req("variables", RoleNames)),
	OpLimit:       comb("Limit", req("limit", RoleInt)),
	OpStart:       comb("Start", req("start", RoleInt)),
	OpOrderBy:     comb("OrderBy", req("ordering", RoleOrdering)),
	OpGroupBy: comb("GroupBy",
		req("group_by", RoleNames), req("template", RoleValue), req("grouped", RoleValue)),
	OpCollect: comb("Collect", req("template", RoleValue), req("into", RoleValue)),
	OpCount:   comb("Count", req("count", RoleValue)),
	OpUsing:   comb("Using", req("collection", RoleText)),
	OpFrom:    comb("From", req("graph", RoleGraph)),
	OpInto:    comb("Into", req("graph", RoleGraph)),

	OpTriple:       prim("Triple", tripleSlots...),
	OpAddTriple:    prim("AddTriple", tripleSlots...),
	OpDeleteTriple: prim("DeleteTriple", tripleSlots...),
	OpEquals:       prim("Eq", req("left", RoleValue), req("right", RoleValue)),
	OpLess:         prim("Less", req("left", RoleData), req("right", RoleData)),
	OpGreater:      prim("Greater", req("left", RoleData), req("right", RoleData)),
	OpLike: prim("Like",
		req("left", RoleData), req("right", RoleData), req("similarity", RoleData)),
	OpEval:        prim("Eval", req("expression", RoleArith), req("result", RoleArith)),
	OpIsA:         prim("IsA", req("element", RoleSubject), req("type", RoleClass)),
	OpSubsumption: prim("Sub", req("parent", RoleClass), req("child", RoleClass)),
	OpTypeOf:      prim("TypeOf", req("value", RoleValue), req("type", RoleClass)),
	OpTypecast: prim("Typecast",
		req("value", RoleValue), req("type", RoleClass), req("result", RoleValue)),
	OpConcatenate: prim("Concat", req("list", RoleData), req("result", RoleData)),
	OpSubstring: prim("Substr",
		req("string", RoleData), req("before", RoleData), req("length", RoleData),
		req("after", RoleData), req("substring", RoleData)),
	OpRegexp: prim("Re",
		req("pattern", RoleData), req("string", RoleData), req("result", RoleData)),
	OpUpper: prim("Upper", req("left", RoleData), req("right", RoleData)),
	OpLower: prim("Lower", req("left", RoleData), req("right", RoleData)),
	OpTrim:  prim("Trim", req("untrimmed", RoleData), req("trimmed", RoleData)),
	OpPad: prim("Pad",
		req("string", RoleData), req("char", RoleData), req("times", RoleData), req("result", RoleData)),
	OpSplit: prim("Split",
		req("string", RoleData), req("pattern", RoleData), req("list", RoleData)),
	OpJoin: prim("Join",
		req("list", RoleData), req("separator", RoleData), req("result", RoleData)),
	OpLength: prim("Length", req("list", RoleData), req("length", RoleData)),
	OpMember: prim("Member", req("member", RoleValue), req("list", RoleValue)),
	OpSum:    prim("Sum", req("list", RoleData), req("result", RoleData)),
	OpDot: prim("Dot",
		req("document", RoleData), req("field", RoleData), req("value", RoleData)),
	OpPath: prim("Path",
		req("subject", RoleSubject), req("pattern", RolePath), req("object", RoleObject),
		opt("path", RoleValue)),
	OpLexicalKey: prim("LexicalKey",
		req("base", RoleData), req("key_list", RoleData), req("uri", RoleSubject)),
	OpHashKey: prim("HashKey",
		req("base", RoleData), req("key_list", RoleData), req("uri", RoleSubject)),
	OpRandomKey: prim("RandomKey", req("base", RoleData), req("uri", RoleSubject)),
	OpTrue:      prim("True"),

	OpPlus:   arith("Plus", leftRight...),
	OpMinus:  arith("Minus", leftRight...),
	OpTimes:  arith("Times", leftRight...),
	OpDivide: arith("Divide", leftRight...),
	OpDiv:    arith("Div", leftRight...),
	OpExp:    arith("Exp", leftRight...),
	OpFloor:  arith("Floor", req("argument", RoleArith)),
}

// quadFunc names the fluent form of a triple operator that carries a graph.
var quadFunc = map[Op]string{
	OpTriple:       "Quad",
	OpAddTriple:    "AddQuad",
	OpDeleteTriple: "DeleteQuad",
}

// OpInfo describes one operator for tooling outside this package.
type OpInfo struct {
	Op         Op
	Func       string
	Params     []Param
	Combinator bool
	Arithmetic bool
}

// LookupOp returns the table entry for op.
func LookupOp(op Op) (OpInfo, bool) {
	spec, ok := ops[op]
	if !ok {
		return OpInfo{}, false
	}
	return OpInfo{
		Op:         op,
		Func:       spec.fn,
		Params:     slices.Clone(spec.params),
		Combinator: spec.family == familyCombinator || spec.family == familyQueryList,
		Arithmetic: spec.family == familyArith,
	}, true
}

// Ops returns every operator, sorted by tag.
func Ops() []OpInfo {
	infos := make([]OpInfo, 0, len(ops))
	for op := range ops {
		info, _ := LookupOp(op)
		infos = append(infos, info)
	}
	slices.SortFunc(infos, func(a, b OpInfo) int {
		switch {
		case a.Op < b.Op:
			return -1
		case a.Op > b.Op:
			return 1
		}
		return 0
	})
	return infos
}

// Term is a slot value. It is a sealed interface: Var, Node, TypedValue,
// List, *Query, Int, Names, Text, Orderings and the path pattern nodes
// are the only implementations.
type Term interface {
	term()
}

// Var is a logic variable. Its textual form is "v:" + Name.
type Var struct {
	Name string
}

func (Var) term() {}

// String returns the "v:Name" form.
func (v Var) String() string { return varPrefix + v.Name }

// Node is a reference to a document or schema element by IRI.
type Node struct {
	IRI string
}

func (Node) term() {}

// TypedValue is a literal tagged with its datatype.
// Value is one of ir.IRString, ir.IRInt, ir.IRDecimal or ir.IRBool.
type TypedValue struct {
	Type  string
	Value ir.IRValue
}

func (TypedValue) term() {}

// List is an ordered list of terms. The empty list is a valid value.
type List struct {
	Items []Term
}

func (List) term() {}

// Int is a plain integer slot such as the count of a Limit.
type Int int64

func (Int) term() {}

// Names is a list of variable names without the "v:" prefix.
// The single empty name is the projection that hides every variable.
type Names []string

func (Names) term() {}

// Text is a plain string slot such as a graph or collection name.
type Text string

func (Text) term() {}

// Order is one ordering key of an OrderBy.
type Order struct {
	Variable  string // without the "v:" prefix
	Direction string // "asc" or "desc"
}

// Asc orders by v ascending.
func Asc(v string) Order { return Order{Variable: stripVarPrefix(v), Direction: "asc"} }

// Desc orders by v descending.
func Desc(v string) Order { return Order{Variable: stripVarPrefix(v), Direction: "desc"} }

// Orderings is the ordering slot of an OrderBy.
type Orderings []Order

func (Orderings) term() {}

// Query is one node of a WOQL abstract syntax tree. A Query with an empty
// Op is an unfilled sub-query placeholder.
type Query struct {
	Op   Op
	Args map[string]Term
}

func (*Query) term() {}

func newQuery(op Op) *Query {
	return &Query{Op: op, Args: make(map[string]Term)}
}

// Arg returns the term in slot name, or nil.
func (q *Query) Arg(name string) Term {
	if q == nil {
		return nil
	}
	return q.Args[name]
}

// SubQueries returns the children of an And or Or in order.
func (q *Query) SubQueries() []*Query {
	spec, ok := ops[q.Op]
	if !ok || spec.family != familyQueryList {
		return nil
	}
	list, _ := q.Args[spec.params[0].Name].(List)
	out := make([]*Query, 0, len(list.Items))
	for _, item := range list.Items {
		if sub, ok := item.(*Query); ok {
			out = append(out, sub)
		}
	}
	return out
}

func (q *Query) setSubQueries(subs []*Query) {
	items := make([]Term, len(subs))
	for i, s := range subs {
		items[i] = s
	}
	q.Args[ops[q.Op].params[0].Name] = List{Items: items}
}

// Clone returns a deep copy of q.
func (q *Query) Clone() *Query {
	if q == nil {
		return nil
	}
	c := &Query{Op: q.Op, Args: make(map[string]Term, len(q.Args))}
	for k, v := range q.Args {
		c.Args[k] = cloneTerm(v)
	}
	return c
}

func cloneTerm(t Term) Term {
	switch v := t.(type) {
	case *Query:
		return v.Clone()
	case List:
		items := make([]Term, len(v.Items))
		for i, item := range v.Items {
			items[i] = cloneTerm(item)
		}
		return List{Items: items}
	case Names:
		return slices.Clone(v)
	case Orderings:
		return slices.Clone(v)
	default:
		// Remaining terms hold no shared mutable state.
		return t
	}
}
