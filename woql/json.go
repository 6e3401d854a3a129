package woql

import (
	"fmt"
	"slices"

	"github.com/roach88/woql/internal/ir"
)

// Wrapper @type tags of slot values.
const (
	typeNodeValue       = "NodeValue"
	typeValue           = "Value"
	typeDataValue       = "DataValue"
	typeArithmeticValue = "ArithmeticValue"
	typeOrderTemplate   = "OrderTemplate"
)

// Path pattern @type tags.
const (
	typePathPredicate        = "PathPredicate"
	typeInversePathPredicate = "InversePathPredicate"
	typePathSequence         = "PathSequence"
	typePathOr               = "PathOr"
	typePathStar             = "PathStar"
	typePathPlus             = "PathPlus"
	typePathTimes            = "PathTimes"
)

// MarshalJSON implements json.Marshaler with sorted keys.
func (q *Query) MarshalJSON() ([]byte, error) {
	obj, err := q.ToIR()
	if err != nil {
		return nil, err
	}
	return obj.MarshalJSON()
}

// ToIR converts q to its JSON-LD object form.
func (q *Query) ToIR() (ir.IRObject, error) {
	if q == nil || q.Op == "" {
		return nil, newError(CodeParameterError, "", "sub-query was never supplied")
	}
	spec, ok := ops[q.Op]
	if !ok {
		return nil, newError(CodeUnknownOperator, string(q.Op), "no such operator")
	}
	obj := ir.IRObject{"@type": ir.IRString(q.Op)}
	for _, p := range spec.params {
		t, ok := q.Args[p.Name]
		if !ok {
			if p.Role == RoleQueries {
				obj[p.Name] = ir.IRArray{}
			}
			continue
		}
		v, err := encodeTerm(p.Role, t)
		if err != nil {
			e := *asError(err)
			if e.Op == "" {
				e.Op = string(q.Op)
			}
			return nil, &e
		}
		obj[p.Name] = v
	}
	return obj, nil
}

func encodeTerm(role Role, t Term) (ir.IRValue, error) {
	switch role {
	case RoleSubject, RolePredicate, RoleClass:
		return wrapValue(typeNodeValue, t, false)
	case RoleObject, RoleValue:
		return wrapValue(typeValue, t, true)
	case RoleData:
		return wrapValue(typeDataValue, t, false)
	case RoleArith:
		if q, ok := t.(*Query); ok {
			return q.ToIR()
		}
		return wrapValue(typeArithmeticValue, t, false)
	case RoleQuery:
		q, ok := t.(*Query)
		if !ok {
			return nil, structural("expected a sub-query, got %T", t)
		}
		return q.ToIR()
	case RoleQueries:
		list, ok := t.(List)
		if !ok {
			return nil, structural("expected sub-queries, got %T", t)
		}
		arr := make(ir.IRArray, 0, len(list.Items))
		for _, item := range list.Items {
			v, err := encodeTerm(RoleQuery, item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case RoleGraph, RoleText:
		s, ok := t.(Text)
		if !ok {
			return nil, structural("expected text, got %T", t)
		}
		return ir.IRString(s), nil
	case RoleInt:
		n, ok := t.(Int)
		if !ok {
			return nil, structural("expected an integer, got %T", t)
		}
		return ir.IRInt(n), nil
	case RoleNames:
		names, ok := t.(Names)
		if !ok {
			return nil, structural("expected variable names, got %T", t)
		}
		arr := make(ir.IRArray, len(names))
		for i, n := range names {
			arr[i] = ir.IRString(n)
		}
		return arr, nil
	case RoleOrdering:
		orders, ok := t.(Orderings)
		if !ok {
			return nil, structural("expected orderings, got %T", t)
		}
		arr := make(ir.IRArray, len(orders))
		for i, o := range orders {
			arr[i] = ir.IRObject{
				"@type":    ir.IRString(typeOrderTemplate),
				"variable": ir.IRString(o.Variable),
				"order":    ir.IRString(o.Direction),
			}
		}
		return arr, nil
	case RolePath:
		p, ok := t.(Pattern)
		if !ok {
			return nil, structural("expected a path pattern, got %T", t)
		}
		return encodePath(p)
	}
	return nil, newError(CodeUnknownOperator, "", "unknown role %d", role)
}

// wrapValue encodes a variable, node, literal or list inside a wrapper
// object of the given @type. List items use the same wrapper.
func wrapValue(wrapper string, t Term, nodes bool) (ir.IRValue, error) {
	obj := ir.IRObject{"@type": ir.IRString(wrapper)}
	switch v := t.(type) {
	case Var:
		obj["variable"] = ir.IRString(v.Name)
	case Node:
		if wrapper != typeNodeValue && !nodes {
			return nil, structural("node %q is not allowed in a %s", v.IRI, wrapper)
		}
		obj["node"] = ir.IRString(v.IRI)
	case TypedValue:
		if wrapper == typeNodeValue {
			return nil, structural("a literal is not allowed in a %s", wrapper)
		}
		obj["data"] = ir.IRObject{"@type": ir.IRString(v.Type), "@value": v.Value}
	case List:
		if wrapper == typeNodeValue || wrapper == typeArithmeticValue {
			return nil, structural("a list is not allowed in a %s", wrapper)
		}
		arr := make(ir.IRArray, 0, len(v.Items))
		for _, item := range v.Items {
			iv, err := wrapValue(wrapper, item, nodes)
			if err != nil {
				return nil, err
			}
			arr = append(arr, iv)
		}
		obj["list"] = arr
	default:
		return nil, newError(CodeUnknownOperator, "", "cannot encode %T in a %s", t, wrapper)
	}
	return obj, nil
}

func encodePath(p Pattern) (ir.IRValue, error) {
	typed := func(tag string) ir.IRObject { return ir.IRObject{"@type": ir.IRString(tag)} }
	list := func(ps []Pattern) (ir.IRArray, error) {
		arr := make(ir.IRArray, len(ps))
		for i, sub := range ps {
			v, err := encodePath(sub)
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil
	}
	switch v := p.(type) {
	case PathAtom:
		obj := typed(typePathPredicate)
		if v.Inverse {
			obj = typed(typeInversePathPredicate)
		}
		obj["predicate"] = ir.IRString(v.Predicate)
		return obj, nil
	case PathSeq:
		arr, err := list(v.Steps)
		if err != nil {
			return nil, err
		}
		obj := typed(typePathSequence)
		obj["sequence"] = arr
		return obj, nil
	case PathAlt:
		arr, err := list(v.Options)
		if err != nil {
			return nil, err
		}
		obj := typed(typePathOr)
		obj["or"] = arr
		return obj, nil
	case PathRepeat:
		inner, err := encodePath(v.Of)
		if err != nil {
			return nil, err
		}
		switch {
		case v.Min == 0 && v.Max < 0:
			obj := typed(typePathStar)
			obj["star"] = inner
			return obj, nil
		case v.Min == 1 && v.Max < 0:
			obj := typed(typePathPlus)
			obj["plus"] = inner
			return obj, nil
		case v.Max < 0:
			// {m,} has no wire form of its own.
			return encodePath(PathSeq{Steps: []Pattern{
				PathRepeat{Of: v.Of, Min: v.Min, Max: v.Min},
				PathRepeat{Of: v.Of, Min: 0, Max: -1},
			}})
		}
		obj := typed(typePathTimes)
		obj["times"] = inner
		obj["from"] = ir.IRInt(v.Min)
		obj["to"] = ir.IRInt(v.Max)
		return obj, nil
	}
	return nil, newError(CodeUnknownOperator, "Path", "unknown path node %T", p)
}

// Decode parses a JSON-LD query document. Numbers that look like integers
// become IRInt; all others keep their exact decimal text.
func Decode(data []byte) (*Query, error) {
	v, err := ir.UnmarshalIRValue(data)
	if err != nil {
		return nil, &Error{Code: CodeInvalidArgumentStructure, Message: "malformed JSON", Err: err}
	}
	obj, ok := v.(ir.IRObject)
	if !ok {
		return nil, structural("query document must be an object, got %T", v)
	}
	return FromIR(obj)
}

// FromIR converts a JSON-LD object back into a query. Unknown keys are
// ignored.
func FromIR(obj ir.IRObject) (*Query, error) {
	tag, ok := obj.String("@type")
	if !ok {
		return nil, structural("query node has no @type")
	}
	op := Op(tag)
	spec, ok := ops[op]
	if !ok {
		return nil, newError(CodeUnknownOperator, tag, "no such operator")
	}
	q := newQuery(op)
	for _, p := range spec.params {
		raw, ok := obj[p.Name]
		if !ok {
			if p.Optional {
				continue
			}
			if p.Role == RoleQueries {
				q.Args[p.Name] = List{Items: []Term{}}
				continue
			}
			return nil, newError(CodeInvalidArgumentStructure, tag, "missing slot %q", p.Name)
		}
		t, err := decodeTerm(p.Role, raw)
		if err != nil {
			e := *asError(err)
			if e.Op == "" {
				e.Op = tag
			}
			e.Message = p.Name + ": " + e.Message
			return nil, &e
		}
		q.Args[p.Name] = t
	}
	return q, nil
}

func decodeTerm(role Role, v ir.IRValue) (Term, error) {
	switch role {
	case RoleSubject, RolePredicate, RoleClass:
		return unwrapValue(v, typeNodeValue)
	case RoleObject, RoleValue:
		return unwrapValue(v, typeValue)
	case RoleData:
		return unwrapValue(v, typeDataValue)
	case RoleArith:
		obj, ok := v.(ir.IRObject)
		if !ok {
			return nil, structural("expected an arithmetic value, got %T", v)
		}
		if obj.Type() == typeArithmeticValue {
			return unwrapValue(obj, typeArithmeticValue)
		}
		q, err := FromIR(obj)
		if err != nil {
			return nil, err
		}
		if ops[q.Op].family != familyArith {
			return nil, structural("%s is not an arithmetic expression", q.Op)
		}
		return q, nil
	case RoleQuery:
		obj, ok := v.(ir.IRObject)
		if !ok {
			return nil, structural("expected a sub-query object, got %T", v)
		}
		q, err := FromIR(obj)
		if err != nil {
			return nil, err
		}
		if ops[q.Op].family == familyArith {
			return nil, structural("%s is an arithmetic expression, not a query", q.Op)
		}
		return q, nil
	case RoleQueries:
		arr, ok := v.(ir.IRArray)
		if !ok {
			return nil, structural("expected an array of sub-queries, got %T", v)
		}
		items := make([]Term, 0, len(arr))
		for i, elem := range arr {
			t, err := decodeTerm(RoleQuery, elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, t)
		}
		return List{Items: items}, nil
	case RoleGraph:
		s, ok := v.(ir.IRString)
		if !ok {
			return nil, structural("graph must be a string, got %T", v)
		}
		t, err := cleanGraph(string(s))
		if err != nil {
			return nil, err
		}
		return t, nil
	case RoleText:
		s, ok := v.(ir.IRString)
		if !ok {
			return nil, structural("expected a string, got %T", v)
		}
		return Text(s), nil
	case RoleInt:
		n, ok := v.(ir.IRInt)
		if !ok || n < 0 {
			return nil, structural("expected a non-negative integer, got %v", v)
		}
		return Int(n), nil
	case RoleNames:
		arr, ok := v.(ir.IRArray)
		if !ok {
			return nil, structural("expected an array of names, got %T", v)
		}
		names := make(Names, len(arr))
		for i, elem := range arr {
			s, ok := elem.(ir.IRString)
			if !ok {
				return nil, structural("name %d is %T, not a string", i, elem)
			}
			names[i] = string(s)
		}
		return names, nil
	case RoleOrdering:
		return decodeOrdering(v)
	case RolePath:
		return decodePath(v)
	}
	return nil, newError(CodeUnknownOperator, "", "unknown role %d", role)
}

// unwrapValue decodes a wrapper object. The keys it may carry depend on
// the wrapper: only Value and NodeValue admit nodes, only Value and
// DataValue admit lists.
func unwrapValue(v ir.IRValue, wrapper string) (Term, error) {
	obj, ok := v.(ir.IRObject)
	if !ok {
		return nil, structural("expected a %s object, got %T", wrapper, v)
	}
	if tag := obj.Type(); tag != "" && tag != wrapper {
		return nil, structural("expected @type %s, got %s", wrapper, tag)
	}
	if name, ok := obj.String("variable"); ok {
		return Var{Name: name}, nil
	}
	if iri, ok := obj.String("node"); ok {
		if wrapper != typeNodeValue && wrapper != typeValue {
			return nil, structural("node %q is not allowed in a %s", iri, wrapper)
		}
		return Node{IRI: iri}, nil
	}
	if wrapper == typeNodeValue {
		return nil, structural("%s needs a variable or node", wrapper)
	}
	if data, ok := obj["data"]; ok {
		return decodeLiteral(data)
	}
	if raw, ok := obj["list"]; ok && wrapper != typeArithmeticValue {
		arr, ok := raw.(ir.IRArray)
		if !ok {
			return nil, structural("list must be an array, got %T", raw)
		}
		items := make([]Term, 0, len(arr))
		for i, elem := range arr {
			t, err := unwrapValue(elem, wrapper)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			items = append(items, t)
		}
		return List{Items: items}, nil
	}
	return nil, structural("%s has none of the expected keys", wrapper)
}

func decodeLiteral(v ir.IRValue) (Term, error) {
	obj, ok := v.(ir.IRObject)
	if !ok {
		return nil, structural("literal must be an object, got %T", v)
	}
	datatype, ok := obj.String("@type")
	if !ok {
		return nil, structural("literal has no @type")
	}
	raw, ok := obj["@value"]
	if !ok {
		return nil, structural("literal has no @value")
	}
	switch raw.(type) {
	case ir.IRString, ir.IRInt, ir.IRDecimal, ir.IRBool:
	default:
		return nil, structural("literal @value must be a scalar, got %T", raw)
	}
	t, err := typed(raw, datatype)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func decodeOrdering(v ir.IRValue) (Term, error) {
	arr, ok := v.(ir.IRArray)
	if !ok {
		return nil, structural("ordering must be an array, got %T", v)
	}
	orders := make(Orderings, 0, len(arr))
	for i, elem := range arr {
		obj, ok := elem.(ir.IRObject)
		if !ok {
			return nil, structural("ordering %d is %T, not an object", i, elem)
		}
		name, ok1 := obj.String("variable")
		dir, ok2 := obj.String("order")
		if !ok1 || !ok2 || !slices.Contains([]string{"asc", "desc"}, dir) {
			return nil, structural("ordering %d needs a variable and an asc or desc order", i)
		}
		orders = append(orders, Order{Variable: name, Direction: dir})
	}
	return orders, nil
}

func decodePath(v ir.IRValue) (Pattern, error) {
	obj, ok := v.(ir.IRObject)
	if !ok {
		return nil, structural("path pattern must be an object, got %T", v)
	}
	list := func(key string) ([]Pattern, error) {
		arr, ok := obj[key].(ir.IRArray)
		if !ok || len(arr) == 0 {
			return nil, structural("%s needs a non-empty %q array", obj.Type(), key)
		}
		out := make([]Pattern, len(arr))
		for i, elem := range arr {
			p, err := decodePath(elem)
			if err != nil {
				return nil, err
			}
			out[i] = p
		}
		return out, nil
	}
	switch tag := obj.Type(); tag {
	case typePathPredicate, typeInversePathPredicate:
		pred, ok := obj.String("predicate")
		if !ok || pred == "" {
			return nil, structural("%s needs a predicate", tag)
		}
		return PathAtom{Predicate: pred, Inverse: tag == typeInversePathPredicate}, nil
	case typePathSequence:
		steps, err := list("sequence")
		if err != nil {
			return nil, err
		}
		return PathSeq{Steps: steps}, nil
	case typePathOr:
		options, err := list("or")
		if err != nil {
			return nil, err
		}
		return PathAlt{Options: options}, nil
	case typePathStar, typePathPlus:
		key, lo := "star", 0
		if tag == typePathPlus {
			key, lo = "plus", 1
		}
		inner, err := decodePath(obj[key])
		if err != nil {
			return nil, err
		}
		return PathRepeat{Of: inner, Min: lo, Max: -1}, nil
	case typePathTimes:
		inner, err := decodePath(obj["times"])
		if err != nil {
			return nil, err
		}
		from, ok1 := obj["from"].(ir.IRInt)
		to, ok2 := obj["to"].(ir.IRInt)
		if !ok1 || !ok2 || from < 0 || to < from {
			return nil, structural("PathTimes needs 0 <= from <= to")
		}
		return PathRepeat{Of: inner, Min: int(from), Max: int(to)}, nil
	default:
		return nil, newError(CodeUnknownOperator, "Path", "unknown path node %q", tag)
	}
}
