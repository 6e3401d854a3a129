package woql

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/roach88/woql/internal/ir"
)

// Print renders q as a Go expression built from this package's
// constructors. indent is the tab depth of the line the expression starts
// on; nested lines are indented relative to it.
//
// In fluent mode an And whose children can be chained is printed as a
// method chain:
//
//	woql.Triple("v:X", "rdf:type", "@schema:Person").
//		Triple("v:X", "@schema:name", "v:Name")
//
// Otherwise every And and Or lists one child per line. Arguments use the
// shortest form that rebuilds the same term, falling back to explicit
// constructors such as woql.String or woql.Iri.
func Print(q *Query, indent int, fluent bool) (string, error) {
	p := &printer{clean: cleaner{vocab: DefaultVocabulary()}, fluent: fluent}
	return p.query(q, indent)
}

// PrintJSON decodes a JSON-LD query document and prints it.
func PrintJSON(data []byte, fluent bool) (string, error) {
	q, err := Decode(data)
	if err != nil {
		return "", err
	}
	return Print(q, 0, fluent)
}

type printer struct {
	clean  cleaner
	fluent bool
}

const pkg = "woql."

func tabs(n int) string { return strings.Repeat("\t", n) }

func (p *printer) query(q *Query, depth int) (string, error) {
	if q == nil || q.Op == "" {
		return "", newError(CodeParameterError, "", "sub-query was never supplied")
	}
	spec, ok := ops[q.Op]
	if !ok {
		return "", newError(CodeUnknownOperator, string(q.Op), "no such operator")
	}
	switch spec.family {
	case familyQueryList:
		return p.queryList(q, spec, depth)
	case familyArith:
		return p.arith(q, spec, depth)
	}

	fn := spec.fn
	if _, ok := q.Args["graph"]; ok && quadFunc[q.Op] != "" {
		fn = quadFunc[q.Op]
	}
	args := make([]string, 0, len(spec.params))
	for _, param := range spec.params {
		t, ok := q.Args[param.Name]
		if !ok {
			if param.Optional {
				continue
			}
			return "", newError(CodeParameterError, string(q.Op), "missing argument %s", param.Name)
		}
		s, err := p.arg(param.Role, t, depth)
		if err != nil {
			return "", withOp(err, q.Op, param.Name)
		}
		args = append(args, s)
	}
	return pkg + fn + "(" + strings.Join(args, ", ") + ")", nil
}

func withOp(err error, op Op, param string) error {
	e := *asError(err)
	if e.Op == "" {
		e.Op = string(op)
		e.Message = param + ": " + e.Message
	}
	return &e
}

func (p *printer) queryList(q *Query, spec opSpec, depth int) (string, error) {
	subs := q.SubQueries()
	if len(subs) == 0 {
		return pkg + spec.fn + "()", nil
	}
	if p.fluent && q.Op == OpAnd && chainable(subs) {
		return p.chain(subs, depth)
	}
	var sb strings.Builder
	sb.WriteString(pkg + spec.fn + "(\n")
	for _, sub := range subs {
		s, err := p.query(sub, depth+1)
		if err != nil {
			return "", err
		}
		sb.WriteString(tabs(depth+1) + s + ",\n")
	}
	sb.WriteString(tabs(depth) + ")")
	return sb.String(), nil
}

// chainable reports whether rebuilding subs as a method chain yields the
// same And. A nested And would be merged and an empty Or would capture the
// calls after it.
func chainable(subs []*Query) bool {
	if len(subs) < 2 {
		return false
	}
	for _, sub := range subs {
		if sub.Op == OpAnd || (sub.Op == OpOr && len(sub.SubQueries()) == 0) {
			return false
		}
	}
	return true
}

func (p *printer) chain(subs []*Query, depth int) (string, error) {
	var sb strings.Builder
	for i, sub := range subs {
		d := depth
		if i > 0 {
			d = depth + 1
		}
		s, err := p.query(sub, d)
		if err != nil {
			return "", err
		}
		if i > 0 {
			sb.WriteString(".\n" + tabs(d) + strings.TrimPrefix(s, pkg))
			continue
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// variadicArith lists the operators whose builder calls take any number of
// operands and nest them to the left.
var variadicArith = map[Op]bool{
	OpPlus: true, OpMinus: true, OpTimes: true, OpDivide: true, OpDiv: true,
}

func (p *printer) arith(q *Query, spec opSpec, depth int) (string, error) {
	var operands []Term
	if variadicArith[q.Op] {
		for cur := q; ; {
			right, ok := cur.Args["right"]
			if !ok {
				return "", newError(CodeParameterError, string(q.Op), "missing argument right")
			}
			operands = append([]Term{right}, operands...)
			left, ok := cur.Args["left"]
			if !ok {
				return "", newError(CodeParameterError, string(q.Op), "missing argument left")
			}
			if sub, isQuery := left.(*Query); isQuery && sub.Op == q.Op {
				cur = sub
				continue
			}
			operands = append([]Term{left}, operands...)
			break
		}
	} else {
		for _, param := range spec.params {
			t, ok := q.Args[param.Name]
			if !ok {
				return "", newError(CodeParameterError, string(q.Op), "missing argument %s", param.Name)
			}
			operands = append(operands, t)
		}
	}
	args := make([]string, len(operands))
	for i, t := range operands {
		s, err := p.arg(RoleArith, t, depth)
		if err != nil {
			return "", withOp(err, q.Op, "operand")
		}
		args[i] = s
	}
	return pkg + spec.fn + "(" + strings.Join(args, ", ") + ")", nil
}

func (p *printer) arg(role Role, t Term, depth int) (string, error) {
	switch role {
	case RoleQuery:
		q, ok := t.(*Query)
		if !ok {
			return "", newError(CodeUnknownOperator, "", "cannot print %T as a sub-query", t)
		}
		return p.query(q, depth)
	case RoleArith:
		if q, ok := t.(*Query); ok {
			return p.query(q, depth)
		}
	case RoleGraph, RoleText:
		if s, ok := t.(Text); ok {
			return strconv.Quote(string(s)), nil
		}
	case RoleInt:
		if n, ok := t.(Int); ok {
			return strconv.FormatInt(int64(n), 10), nil
		}
	case RoleNames:
		if names, ok := t.(Names); ok {
			return printNames(names), nil
		}
	case RoleOrdering:
		if orders, ok := t.(Orderings); ok {
			return printOrderings(orders), nil
		}
	case RolePath:
		if pat, ok := t.(Pattern); ok {
			return printPattern(pat)
		}
	}
	if role > RoleArith {
		return "", newError(CodeUnknownOperator, "", "cannot print %T as a %s", t, role)
	}
	src, _, err := p.leaf(role, t)
	return src, err
}

// printPattern writes pat as pattern text when that text compiles back to
// the same tree, and as composite literals otherwise.
func printPattern(pat Pattern) (string, error) {
	text := DecompilePath(pat)
	if back, err := CompilePath(text); err == nil && reflect.DeepEqual(back, pat) {
		return strconv.Quote(text), nil
	}
	return patternLiteral(pat)
}

func patternLiteral(pat Pattern) (string, error) {
	switch v := pat.(type) {
	case nil:
		return "nil", nil
	case PathAtom:
		src := pkg + "PathAtom{Predicate: " + strconv.Quote(v.Predicate)
		if v.Inverse {
			src += ", Inverse: true"
		}
		return src + "}", nil
	case PathSeq:
		steps, err := patternList(v.Steps)
		if err != nil {
			return "", err
		}
		if steps == "" {
			return pkg + "PathSeq{}", nil
		}
		return pkg + "PathSeq{Steps: " + steps + "}", nil
	case PathAlt:
		options, err := patternList(v.Options)
		if err != nil {
			return "", err
		}
		if options == "" {
			return pkg + "PathAlt{}", nil
		}
		return pkg + "PathAlt{Options: " + options + "}", nil
	case PathRepeat:
		of, err := patternLiteral(v.Of)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%sPathRepeat{Of: %s, Min: %d, Max: %d}", pkg, of, v.Min, v.Max), nil
	}
	return "", newError(CodeUnknownOperator, "", "cannot print path pattern %T", pat)
}

// patternList writes a []Pattern literal, or "" for a nil slice.
func patternList(pats []Pattern) (string, error) {
	if pats == nil {
		return "", nil
	}
	items := make([]string, len(pats))
	for i, sub := range pats {
		src, err := patternLiteral(sub)
		if err != nil {
			return "", err
		}
		items[i] = src
	}
	return "[]" + pkg + "Pattern{" + strings.Join(items, ", ") + "}", nil
}

func printNames(names Names) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		if n == "" {
			quoted[i] = `""`
			continue
		}
		quoted[i] = strconv.Quote(varPrefix + n)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}

func printOrderings(orders Orderings) string {
	items := make([]string, len(orders))
	for i, o := range orders {
		fn := "Asc"
		if o.Direction == "desc" {
			fn = "Desc"
		}
		items[i] = pkg + fn + "(" + strconv.Quote(varPrefix+o.Variable) + ")"
	}
	return "[]" + pkg + "Order{" + strings.Join(items, ", ") + "}"
}

// candidate is one way to write a term: the source text and the Go value
// that text evaluates to.
type candidate struct {
	src string
	val any
}

// leaf picks the first candidate that the slot's cleaner turns back into
// exactly t.
func (p *printer) leaf(role Role, t Term) (string, any, error) {
	if l, ok := t.(List); ok {
		srcs := make([]string, len(l.Items))
		vals := make([]any, len(l.Items))
		for i, item := range l.Items {
			src, val, err := p.leaf(role, item)
			if err != nil {
				return "", nil, err
			}
			srcs[i], vals[i] = src, val
		}
		src := "[]any{" + strings.Join(srcs, ", ") + "}"
		if p.rebuilds(role, vals, t) {
			return src, vals, nil
		}
		return "", nil, newError(CodeUnknownOperator, "", "cannot print list as a %s", role)
	}
	for _, c := range candidates(t) {
		if p.rebuilds(role, c.val, t) {
			return c.src, c.val, nil
		}
	}
	return "", nil, newError(CodeUnknownOperator, "", "cannot print %T as a %s", t, role)
}

func (p *printer) rebuilds(role Role, val any, want Term) bool {
	got, err := p.clean.clean(role, val)
	return err == nil && reflect.DeepEqual(got, want)
}

// typeConstructors are the helpers that fix a literal's datatype.
var typeConstructors = map[string]string{
	XSDString:     "String",
	XSDDate:       "Date",
	XSDDateTime:   "DateTime",
	XSDTime:       "Time",
	XSDDuration:   "Duration",
	XSDGYear:      "GYear",
	XSDGYearMonth: "GYearMonth",
}

func candidates(t Term) []candidate {
	switch v := t.(type) {
	case Var:
		s := varPrefix + v.Name
		return []candidate{{strconv.Quote(s), s}}
	case Node:
		return []candidate{
			{strconv.Quote(v.IRI), v.IRI},
			{pkg + "Iri(" + strconv.Quote(v.IRI) + ")", Iri(v.IRI)},
		}
	case TypedValue:
		return literalCandidates(v)
	}
	return nil
}

func literalCandidates(v TypedValue) []candidate {
	typ := strconv.Quote(v.Type)
	var cs []candidate
	switch val := v.Value.(type) {
	case ir.IRString:
		q := strconv.Quote(string(val))
		cs = append(cs, candidate{q, string(val)})
		if fn, ok := typeConstructors[v.Type]; ok {
			cs = append(cs, candidate{pkg + fn + "(" + q + ")", TypedValue{Type: v.Type, Value: val}})
		}
		cs = append(cs, candidate{
			pkg + "Literal(" + pkg + "String(" + q + "), " + typ + ")",
			Literal(String(string(val)), v.Type),
		})
	case ir.IRBool:
		b := bool(val)
		cs = append(cs,
			candidate{strconv.FormatBool(b), b},
			candidate{pkg + "Literal(" + strconv.FormatBool(b) + ", " + typ + ")", Literal(b, v.Type)},
		)
	case ir.IRInt:
		n := strconv.FormatInt(int64(val), 10)
		cs = append(cs,
			candidate{n, int(val)},
			candidate{pkg + "Literal(" + n + ", " + typ + ")", Literal(int(val), v.Type)},
		)
	case ir.IRDecimal:
		text := string(val)
		if f, ok := goFloat(text); ok {
			cs = append(cs, candidate{text, f})
		}
		q := strconv.Quote(text)
		cs = append(cs,
			candidate{pkg + "Decimal(" + q + ")", Decimal(text)},
			candidate{pkg + "Literal(" + pkg + "Decimal(" + q + "), " + typ + ")", Literal(Decimal(text), v.Type)},
		)
	}
	return cs
}

// goFloat returns the float64 a Go compiler makes of text when it is
// passed as an untyped constant, if text is a valid floating-point literal.
func goFloat(text string) (float64, bool) {
	if !strings.ContainsAny(text, ".eE") {
		return 0, false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	// Constant arithmetic has no negative zero.
	if f == 0 && strings.HasPrefix(text, "-") {
		return 0, false
	}
	return f, true
}
