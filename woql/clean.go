package woql

import (
	"strings"
)

// cleaner normalizes raw arguments into slot terms.
type cleaner struct {
	vocab  Vocabulary
	expand bool
}

func structural(format string, args ...any) *Error {
	return newError(CodeInvalidArgumentStructure, "", format, args...)
}

func parameter(format string, args ...any) *Error {
	return newError(CodeParameterError, "", format, args...)
}

// clean converts v for a slot with the given role.
func (c cleaner) clean(role Role, v any) (Term, *Error) {
	if bad, ok := v.(invalidTerm); ok {
		return nil, bad.err
	}
	switch role {
	case RoleSubject:
		return c.node(role, v, c.expandPrefix)
	case RolePredicate:
		return c.node(role, v, c.predicateIRI)
	case RoleClass:
		return c.node(role, v, c.classIRI)
	case RoleObject:
		return c.object(v)
	case RoleValue:
		return c.value(v, true)
	case RoleData:
		return c.value(v, false)
	case RoleArith:
		return c.arith(v)
	case RoleGraph:
		return cleanGraph(v)
	case RoleInt:
		return cleanInt(v)
	case RoleNames:
		return cleanNames(v)
	case RoleText:
		switch s := v.(type) {
		case string:
			return Text(s), nil
		case Text:
			return s, nil
		}
		return nil, parameter("expected a string, got %T", v)
	case RoleOrdering:
		return cleanOrdering(v)
	case RolePath:
		switch p := v.(type) {
		case string:
			pat, err := CompilePath(p)
			if err != nil {
				return nil, asError(err)
			}
			return pat, nil
		case Pattern:
			return p, nil
		}
		return nil, parameter("expected a path pattern string, got %T", v)
	}
	return nil, structural("a %s slot takes a sub-query", role)
}

// node cleans subject, predicate and class slots.
func (c cleaner) node(role Role, v any, iri func(string) string) (Term, *Error) {
	switch val := v.(type) {
	case Var:
		return val, nil
	case Node:
		return val, nil
	case string:
		if name, ok := strings.CutPrefix(val, varPrefix); ok {
			return Var{Name: name}, nil
		}
		if val == "" {
			return nil, structural("empty %s", role)
		}
		return Node{IRI: iri(val)}, nil
	}
	return nil, structural("cannot use %T as a %s", v, role)
}

func isBareword(s string) bool {
	return !strings.ContainsAny(s, ":/#")
}

func (c cleaner) predicateIRI(s string) string {
	if !isBareword(s) {
		return c.expandPrefix(s)
	}
	if iri, ok := c.vocab.Predicates[s]; ok {
		return c.expandPrefix(iri)
	}
	return "@schema:" + s
}

func (c cleaner) classIRI(s string) string {
	if isBareword(s) {
		return "@schema:" + s
	}
	return c.expandPrefix(s)
}

// expandPrefix rewrites prefix:local to a full IRI when expansion is on
// and the prefix is known. URLs and unknown prefixes are left alone.
func (c cleaner) expandPrefix(s string) string {
	if !c.expand {
		return s
	}
	prefix, local, ok := strings.Cut(s, ":")
	if !ok || strings.HasPrefix(local, "//") {
		return s
	}
	if ns, ok := c.vocab.Prefixes[prefix]; ok {
		return ns + local
	}
	return s
}

// object cleans the object of a triple: text with a colon is a node,
// other text is an xsd:string.
func (c cleaner) object(v any) (Term, *Error) {
	switch val := v.(type) {
	case string:
		if name, ok := strings.CutPrefix(val, varPrefix); ok {
			return Var{Name: name}, nil
		}
		if strings.Contains(val, ":") {
			return Node{IRI: c.expandPrefix(val)}, nil
		}
		return String(val), nil
	case Node:
		return val, nil
	case List:
		return encodeList(val.Items, func(t Term) (Term, *Error) { return c.object(t) })
	case []any:
		return encodeList(val, c.object)
	case []string:
		return encodeList(val, func(s string) (Term, *Error) { return c.object(s) })
	}
	return encodeScalar(v)
}

// value cleans Value and DataValue slots; only Value admits nodes.
func (c cleaner) value(v any, nodes bool) (Term, *Error) {
	switch val := v.(type) {
	case Node:
		if !nodes {
			return nil, structural("node %q is not allowed in a data slot", val.IRI)
		}
		return val, nil
	case List:
		return encodeList(val.Items, func(t Term) (Term, *Error) { return c.value(t, nodes) })
	case []any:
		return encodeList(val, func(item any) (Term, *Error) { return c.value(item, nodes) })
	case []string:
		return encodeList(val, func(s string) (Term, *Error) { return c.value(s, nodes) })
	}
	return encodeScalar(v)
}

// encodeScalar accepts variables and literals but not queries or nodes.
func encodeScalar(v any) (Term, *Error) {
	switch v.(type) {
	case *Query, *Builder:
		return nil, structural("a query cannot be used as a value")
	}
	return encodeLiteral(v, "")
}

// arith cleans arithmetic operands: numbers, numeric literals, variables
// and nested arithmetic expressions.
func (c cleaner) arith(v any) (Term, *Error) {
	switch val := v.(type) {
	case *Query:
		if spec, ok := ops[val.Op]; ok && spec.family == familyArith {
			return val, nil
		}
		return nil, structural("%s is not an arithmetic expression", val.Op)
	case Var:
		return val, nil
	case string:
		if name, ok := strings.CutPrefix(val, varPrefix); ok {
			return Var{Name: name}, nil
		}
		return nil, structural("arithmetic operand %q is neither a number nor a variable", val)
	case bool, Node, List, []any:
		return nil, structural("cannot use %T as an arithmetic operand", v)
	}
	t, err := encodeLiteral(v, "")
	if err != nil {
		return nil, err
	}
	if tv, ok := t.(TypedValue); ok {
		if k, _ := datatypeKind(tv.Type); k != kindInteger && k != kindFloat {
			return nil, structural("arithmetic operand typed %s is not numeric", tv.Type)
		}
	}
	return t, nil
}

// cleanGraph restricts graph slots to schema, instance or a collection
// graph path ending in one of them. Variables are rejected.
func cleanGraph(v any) (Term, *Error) {
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case Text:
		s = string(val)
	default:
		return nil, structural("graph must be a string, got %T", v)
	}
	if strings.HasPrefix(s, varPrefix) {
		return nil, structural("graph %q cannot be a variable", s)
	}
	if s == "schema" || s == "instance" ||
		strings.HasSuffix(s, "/schema") || strings.HasSuffix(s, "/instance") {
		return Text(s), nil
	}
	return nil, structural("graph %q is not schema, instance or a collection graph", s)
}

func cleanInt(v any) (Term, *Error) {
	var n int64
	switch val := v.(type) {
	case int:
		n = int64(val)
	case int32:
		n = int64(val)
	case int64:
		n = val
	case Int:
		n = int64(val)
	default:
		return nil, parameter("expected an integer, got %T", v)
	}
	if n < 0 {
		return nil, parameter("expected a non-negative integer, got %d", n)
	}
	return Int(n), nil
}

func cleanNames(v any) (Term, *Error) {
	switch val := v.(type) {
	case []string:
		names := make(Names, len(val))
		for i, s := range val {
			names[i] = stripVarPrefix(s)
		}
		return names, nil
	case Names:
		return cleanNames([]string(val))
	case []Var:
		names := make(Names, len(val))
		for i, v := range val {
			names[i] = v.Name
		}
		return names, nil
	case string:
		return Names{stripVarPrefix(val)}, nil
	}
	return nil, parameter("expected variable names, got %T", v)
}

func cleanOrdering(v any) (Term, *Error) {
	var orders []Order
	switch val := v.(type) {
	case []Order:
		orders = val
	case Orderings:
		orders = val
	case Order:
		orders = []Order{val}
	default:
		return nil, parameter("expected []Order, got %T", v)
	}
	out := make(Orderings, len(orders))
	for i, o := range orders {
		if o.Direction != "asc" && o.Direction != "desc" {
			return nil, parameter("ordering %q has direction %q, want asc or desc", o.Variable, o.Direction)
		}
		if o.Variable == "" {
			return nil, parameter("ordering %d has no variable", i)
		}
		out[i] = Order{Variable: stripVarPrefix(o.Variable), Direction: o.Direction}
	}
	return out, nil
}
