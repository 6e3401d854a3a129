package woql

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/woql/internal/ir"
)

const varPrefix = "v:"

// Datatypes the encoder produces on its own.
const (
	XSDString     = "xsd:string"
	XSDBoolean    = "xsd:boolean"
	XSDInteger    = "xsd:integer"
	XSDDecimal    = "xsd:decimal"
	XSDDate       = "xsd:date"
	XSDDateTime   = "xsd:dateTime"
	XSDTime       = "xsd:time"
	XSDDuration   = "xsd:duration"
	XSDGYear      = "xsd:gYear"
	XSDGYearMonth = "xsd:gYearMonth"
)

const (
	xsdNamespace = "http://www.w3.org/2001/XMLSchema#"
	xddNamespace = "http://terminusdb.com/schema/xdd#"
	rdfNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
)

type kind int

const (
	kindString kind = iota
	kindBoolean
	kindInteger
	kindFloat
)

// datatypes maps every recognized datatype, compact form, to the value kind
// it constrains. kindString admits any lexical form.
var datatypes = map[string]kind{
	"xsd:string":             kindString,
	"xsd:normalizedString":   kindString,
	"xsd:token":              kindString,
	"xsd:language":           kindString,
	"xsd:NMTOKEN":            kindString,
	"xsd:Name":               kindString,
	"xsd:NCName":             kindString,
	"xsd:anyURI":             kindString,
	"xsd:hexBinary":          kindString,
	"xsd:base64Binary":       kindString,
	"xsd:date":               kindString,
	"xsd:dateTime":           kindString,
	"xsd:dateTimeStamp":      kindString,
	"xsd:time":               kindString,
	"xsd:duration":           kindString,
	"xsd:dayTimeDuration":    kindString,
	"xsd:yearMonthDuration":  kindString,
	"xsd:gYear":              kindString,
	"xsd:gYearMonth":         kindString,
	"xsd:gMonth":             kindString,
	"xsd:gMonthDay":          kindString,
	"xsd:gDay":               kindString,
	"xsd:boolean":            kindBoolean,
	"xsd:integer":            kindInteger,
	"xsd:int":                kindInteger,
	"xsd:long":               kindInteger,
	"xsd:short":              kindInteger,
	"xsd:byte":               kindInteger,
	"xsd:nonNegativeInteger": kindInteger,
	"xsd:positiveInteger":    kindInteger,
	"xsd:nonPositiveInteger": kindInteger,
	"xsd:negativeInteger":    kindInteger,
	"xsd:unsignedLong":       kindInteger,
	"xsd:unsignedInt":        kindInteger,
	"xsd:unsignedShort":      kindInteger,
	"xsd:unsignedByte":       kindInteger,
	"xsd:decimal":            kindFloat,
	"xsd:double":             kindFloat,
	"xsd:float":              kindFloat,
	"xdd:coordinate":         kindString,
	"xdd:coordinatePolygon":  kindString,
	"xdd:coordinatePolyline": kindString,
	"xdd:dateRange":          kindString,
	"xdd:gYearRange":         kindString,
	"xdd:integerRange":       kindString,
	"xdd:decimalRange":       kindString,
	"xdd:json":               kindString,
	"xdd:url":                kindString,
	"xdd:email":              kindString,
	"xdd:html":               kindString,
	"rdf:langString":         kindString,
}

var namespaces = []struct{ iri, prefix string }{
	{xsdNamespace, "xsd:"},
	{xddNamespace, "xdd:"},
	{rdfNamespace, "rdf:"},
}

// datatypeKind resolves a compact or full datatype IRI.
func datatypeKind(datatype string) (kind, bool) {
	compact := datatype
	for _, ns := range namespaces {
		if local, ok := strings.CutPrefix(datatype, ns.iri); ok {
			compact = ns.prefix + local
			break
		}
	}
	k, ok := datatypes[compact]
	return k, ok
}

// IsDatatype reports whether datatype is a recognized literal type.
func IsDatatype(datatype string) bool {
	_, ok := datatypeKind(datatype)
	return ok
}

// invalidTerm carries a constructor failure into the builder call that
// consumes it, where it is recorded like any other slot error.
type invalidTerm struct {
	err *Error
}

func (invalidTerm) term() {}

// encodeLiteral turns a native value into a Var, TypedValue or List.
// An empty datatype means "infer from the value".
func encodeLiteral(v any, datatype string) (Term, *Error) {
	if datatype != "" {
		if _, ok := datatypeKind(datatype); !ok {
			return nil, newError(CodeInvalidLiteral, "", "unrecognized datatype %q", datatype)
		}
	}

	switch val := v.(type) {
	case invalidTerm:
		return nil, val.err
	case Var:
		return val, nil
	case TypedValue:
		if datatype == "" || datatype == val.Type {
			if err := checkValue(val.Value, val.Type); err != nil {
				return nil, err
			}
			return val, nil
		}
		return typed(val.Value, datatype)
	case string:
		if name, ok := strings.CutPrefix(val, varPrefix); ok {
			return Var{Name: name}, nil
		}
		return typed(ir.IRString(val), orDefault(datatype, XSDString))
	case bool:
		return typed(ir.IRBool(val), orDefault(datatype, XSDBoolean))
	case int:
		return typed(ir.IRInt(val), orDefault(datatype, XSDInteger))
	case int8:
		return typed(ir.IRInt(val), orDefault(datatype, XSDInteger))
	case int16:
		return typed(ir.IRInt(val), orDefault(datatype, XSDInteger))
	case int32:
		return typed(ir.IRInt(val), orDefault(datatype, XSDInteger))
	case int64:
		return typed(ir.IRInt(val), orDefault(datatype, XSDInteger))
	case Int:
		return typed(ir.IRInt(val), orDefault(datatype, XSDInteger))
	case uint8:
		return typed(ir.IRInt(val), orDefault(datatype, XSDInteger))
	case uint16:
		return typed(ir.IRInt(val), orDefault(datatype, XSDInteger))
	case uint32:
		return typed(ir.IRInt(val), orDefault(datatype, XSDInteger))
	case uint:
		return encodeUint(uint64(val), datatype)
	case uint64:
		return encodeUint(val, datatype)
	case float32:
		return encodeFloat(float64(val), datatype)
	case float64:
		return encodeFloat(val, datatype)
	case json.Number:
		n, err := ir.NumberFromText(string(val))
		if err != nil {
			return nil, &Error{Code: CodeInvalidLiteral, Message: "bad number", Err: err}
		}
		if _, isInt := n.(ir.IRInt); isInt {
			return typed(n, orDefault(datatype, XSDInteger))
		}
		return typed(n, orDefault(datatype, XSDDecimal))
	case ir.IRString, ir.IRInt, ir.IRDecimal, ir.IRBool:
		return typed(val.(ir.IRValue), orDefault(datatype, defaultType(val.(ir.IRValue))))
	case []any:
		return encodeList(val, func(item any) (Term, *Error) { return encodeLiteral(item, "") })
	case []string:
		return encodeList(val, func(item string) (Term, *Error) { return encodeLiteral(item, "") })
	case []Var:
		return encodeList(val, func(item Var) (Term, *Error) { return item, nil })
	case List:
		return val, nil
	case nil:
		return nil, newError(CodeInvalidArgumentStructure, "", "missing value")
	default:
		return nil, newError(CodeInvalidArgumentStructure, "", "cannot encode %T as a literal", v)
	}
}

func encodeList[T any](items []T, enc func(T) (Term, *Error)) (Term, *Error) {
	out := make([]Term, 0, len(items))
	for _, item := range items {
		t, err := enc(item)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return List{Items: out}, nil
}

func encodeFloat(f float64, datatype string) (Term, *Error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, newError(CodeInvalidLiteral, "", "%v has no decimal lexical form", f)
	}
	return typed(ir.NewDecimal(f), orDefault(datatype, XSDDecimal))
}

// encodeUint keeps integers beyond int64 as exact text.
func encodeUint(u uint64, datatype string) (Term, *Error) {
	if u > math.MaxInt64 {
		return typed(ir.IRDecimal(strconv.FormatUint(u, 10)), orDefault(datatype, XSDInteger))
	}
	return typed(ir.IRInt(u), orDefault(datatype, XSDInteger))
}

func orDefault(datatype, def string) string {
	if datatype == "" {
		return def
	}
	return datatype
}

func defaultType(v ir.IRValue) string {
	switch v.(type) {
	case ir.IRBool:
		return XSDBoolean
	case ir.IRInt:
		return XSDInteger
	case ir.IRDecimal:
		return XSDDecimal
	default:
		return XSDString
	}
}

func typed(v ir.IRValue, datatype string) (Term, *Error) {
	if err := checkValue(v, datatype); err != nil {
		return nil, err
	}
	return TypedValue{Type: datatype, Value: v}, nil
}

// checkValue rejects a value whose kind contradicts the datatype.
// There is no coercion: 1.5 is never an xsd:integer and "true" is never
// an xsd:boolean.
func checkValue(v ir.IRValue, datatype string) *Error {
	k, ok := datatypeKind(datatype)
	if !ok {
		return newError(CodeInvalidLiteral, "", "unrecognized datatype %q", datatype)
	}
	bad := func(what string) *Error {
		return newError(CodeInvalidLiteral, "", "%s cannot be typed %s", what, datatype)
	}
	switch val := v.(type) {
	case ir.IRString:
		if k == kindBoolean {
			return bad("a string")
		}
	case ir.IRBool:
		if k != kindBoolean {
			return bad("a boolean")
		}
	case ir.IRInt:
		if k != kindInteger && k != kindFloat {
			return bad("an integer")
		}
	case ir.IRDecimal:
		if !val.Valid() {
			return newError(CodeInvalidLiteral, "", "malformed decimal %q", string(val))
		}
		if k != kindFloat {
			// Integers beyond int64 are kept as exact text.
			if k == kindInteger && !strings.ContainsAny(string(val), ".eE") {
				return nil
			}
			return bad("a decimal")
		}
	default:
		return newError(CodeInvalidLiteral, "", "unsupported literal value %T", v)
	}
	return nil
}

// Literal types v as datatype. Failures surface from the builder call
// that receives the result.
func Literal(v any, datatype string) Term {
	t, err := encodeLiteral(v, datatype)
	if err != nil {
		if err.Op == "" {
			err.Op = "Literal"
		}
		return invalidTerm{err: err}
	}
	return t
}

// String is an xsd:string literal, even for text that looks like a
// variable or an IRI.
func String(s string) TypedValue { return TypedValue{Type: XSDString, Value: ir.IRString(s)} }

// Boolean is an xsd:boolean literal.
func Boolean(b bool) TypedValue { return TypedValue{Type: XSDBoolean, Value: ir.IRBool(b)} }

// Integer is an xsd:integer literal.
func Integer(n int64) TypedValue { return TypedValue{Type: XSDInteger, Value: ir.IRInt(n)} }

// Decimal is an xsd:decimal literal whose lexical form is kept exactly.
func Decimal(text string) Term {
	return Literal(ir.IRDecimal(text), XSDDecimal)
}

// Date is an xsd:date literal. The text is not validated or reformatted.
func Date(s string) TypedValue { return TypedValue{Type: XSDDate, Value: ir.IRString(s)} }

// DateTime is an xsd:dateTime literal.
func DateTime(s string) TypedValue { return TypedValue{Type: XSDDateTime, Value: ir.IRString(s)} }

// Time is an xsd:time literal.
func Time(s string) TypedValue { return TypedValue{Type: XSDTime, Value: ir.IRString(s)} }

// Duration is an xsd:duration literal.
func Duration(s string) TypedValue { return TypedValue{Type: XSDDuration, Value: ir.IRString(s)} }

// GYear is an xsd:gYear literal.
func GYear(s string) TypedValue { return TypedValue{Type: XSDGYear, Value: ir.IRString(s)} }

// GYearMonth is an xsd:gYearMonth literal.
func GYearMonth(s string) TypedValue {
	return TypedValue{Type: XSDGYearMonth, Value: ir.IRString(s)}
}

// Iri is a node reference that is never cleaned, expanded or mistaken
// for a literal.
func Iri(s string) Node { return Node{IRI: s} }

func stripVarPrefix(s string) string {
	return strings.TrimPrefix(s, varPrefix)
}
