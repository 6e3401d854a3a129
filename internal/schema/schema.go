// Package schema checks WOQL JSON-LD documents against CUE definitions
// generated from the woql operator table.
//
// CUE sees one node at a time. Every definition is shallow: nested query
// nodes, list items and path steps are typed as open structs and visited
// by the Go walker, which knows the role of each slot.
package schema

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/woql"
)

// prelude holds the slot definitions shared by every operator.
const prelude = `#Int: int & >=0

#Graph: "schema" | "instance" | =~"/(schema|instance)$"

#Sub: {"@type": string, ...}

#Literal: {
	"@type":  string & !=""
	"@value": string | number | bool
}

#NodeValue: {"@type"?: "NodeValue", variable: string} |
	{"@type"?: "NodeValue", node: string & !=""}

#Value: {"@type"?: "Value", variable: string} |
	{"@type"?: "Value", node: string & !=""} |
	{"@type"?: "Value", data: #Literal} |
	{"@type"?: "Value", list: [...]}

#DataValue: {"@type"?: "DataValue", variable: string} |
	{"@type"?: "DataValue", data: #Literal} |
	{"@type"?: "DataValue", list: [...]}

#ArithmeticValue: {"@type": "ArithmeticValue", variable: string} |
	{"@type": "ArithmeticValue", data: #Literal}

#OrderTemplate: {
	"@type"?: "OrderTemplate"
	variable: string
	order:    "asc" | "desc"
}

#PathPattern: {"@type": "PathPredicate" | "InversePathPredicate", predicate: string & !=""} |
	{"@type": "PathSequence", sequence: [_, ...]} |
	{"@type": "PathOr", or: [_, ...]} |
	{"@type": "PathStar", star: {...}} |
	{"@type": "PathPlus", plus: {...}} |
	{"@type": "PathTimes", times: {...}, from: #Int, to: #Int}
`

var slotTypes = map[woql.Role]string{
	woql.RoleSubject:   "#NodeValue",
	woql.RolePredicate: "#NodeValue",
	woql.RoleClass:     "#NodeValue",
	woql.RoleObject:    "#Value",
	woql.RoleValue:     "#Value",
	woql.RoleData:      "#DataValue",
	woql.RoleArith:     "#Arith",
	woql.RoleGraph:     "#Graph",
	woql.RoleQuery:     "#Sub",
	woql.RoleQueries:   "[...#Sub]",
	woql.RoleInt:       "#Int",
	woql.RoleNames:     "[...string]",
	woql.RoleText:      "string",
	woql.RoleOrdering:  "[...#OrderTemplate]",
	woql.RolePath:      "#PathPattern",
}

// Source returns the generated CUE definitions: the shared prelude, an
// #Arith slot type and one closed definition per operator.
func Source() string {
	var sb strings.Builder
	sb.WriteString(prelude)

	var arith []string
	for _, info := range woql.Ops() {
		if info.Arithmetic {
			arith = append(arith, fmt.Sprintf("%q", info.Op))
		}
	}
	fmt.Fprintf(&sb, "\n#Arith: #ArithmeticValue | {\"@type\": %s, ...}\n", strings.Join(arith, " | "))

	for _, info := range woql.Ops() {
		fmt.Fprintf(&sb, "\n#%s: {\n\t\"@type\": %q\n", info.Op, info.Op)
		for _, p := range info.Params {
			marker := ""
			if p.Optional || p.Role == woql.RoleQueries {
				marker = "?"
			}
			fmt.Fprintf(&sb, "\t%q%s: %s\n", p.Name, marker, slotTypes[p.Role])
		}
		sb.WriteString("}\n")
	}
	return sb.String()
}

// Violation is one schema failure, located by a JSON pointer into the
// document.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return v.Path + ": " + v.Message
}

// Schema holds the compiled definitions. It is not safe for concurrent
// use; the underlying cue.Context is not.
type Schema struct {
	ctx  *cue.Context
	defs cue.Value
}

// New compiles the generated definitions.
func New() (*Schema, error) {
	ctx := cuecontext.New()
	defs := ctx.CompileString(Source(), cue.Filename("woql.cue"))
	if err := defs.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{ctx: ctx, defs: defs}, nil
}

// Validate checks a JSON document. The error is non-nil only when data is
// not JSON at all; schema failures are returned as violations.
func (s *Schema) Validate(data []byte) ([]Violation, error) {
	v, err := ir.UnmarshalIRValue(data)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	obj, ok := v.(ir.IRObject)
	if !ok {
		return []Violation{{Message: fmt.Sprintf("document must be an object, got %T", v)}}, nil
	}
	return s.ValidateIR(obj), nil
}

// ValidateIR checks a decoded document.
func (s *Schema) ValidateIR(doc ir.IRObject) []Violation {
	w := &walker{schema: s}
	w.query(doc, "", false)
	return w.found
}

type walker struct {
	schema *Schema
	found  []Violation
}

func (w *walker) report(path, format string, args ...any) {
	w.found = append(w.found, Violation{Path: path, Message: fmt.Sprintf(format, args...)})
}

// check unifies node with the named definition. It reports false when the
// node does not conform, after recording why.
func (w *walker) check(def string, node ir.IRValue, path string) bool {
	data, err := ir.MarshalIRValue(node)
	if err != nil {
		w.report(path, "%v", err)
		return false
	}
	value := w.schema.ctx.CompileBytes(data)
	unified := w.schema.defs.LookupPath(cue.ParsePath(def)).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		for _, e := range cueerrors.Errors(err) {
			w.report(path, "%s", e.Error())
		}
		return false
	}
	return true
}

func (w *walker) query(v ir.IRValue, path string, arith bool) {
	obj, ok := v.(ir.IRObject)
	if !ok {
		w.report(path, "query node must be an object, got %T", v)
		return
	}
	tag := obj.Type()
	if tag == "" {
		w.report(path, "query node has no @type")
		return
	}
	info, ok := woql.LookupOp(woql.Op(tag))
	if !ok {
		w.report(path, "unknown operator %q", tag)
		return
	}
	if arith != info.Arithmetic {
		if arith {
			w.report(path, "%s is not an arithmetic expression", tag)
		} else {
			w.report(path, "%s is an arithmetic expression, not a query", tag)
		}
		return
	}
	if !w.check("#"+tag, obj, path) {
		return
	}
	for _, p := range info.Params {
		child, ok := obj[p.Name]
		if !ok {
			continue
		}
		w.slot(p.Role, child, path+"/"+p.Name)
	}
}

func (w *walker) slot(role woql.Role, v ir.IRValue, path string) {
	switch role {
	case woql.RoleQuery:
		w.query(v, path, false)
	case woql.RoleQueries:
		for i, item := range v.(ir.IRArray) {
			w.query(item, fmt.Sprintf("%s/%d", path, i), false)
		}
	case woql.RoleArith:
		if obj := v.(ir.IRObject); obj.Type() != "ArithmeticValue" {
			w.query(obj, path, true)
		}
	case woql.RoleObject, woql.RoleValue, woql.RoleData:
		w.list(slotTypes[role], v, path)
	case woql.RolePath:
		w.path(v, path)
	}
}

// list descends into the items of a wrapper's list form, checking each
// against the same wrapper definition.
func (w *walker) list(def string, v ir.IRValue, path string) {
	items, ok := v.(ir.IRObject)["list"].(ir.IRArray)
	if !ok {
		return
	}
	for i, item := range items {
		p := fmt.Sprintf("%s/list/%d", path, i)
		if w.check(def, item, p) {
			w.list(def, item, p)
		}
	}
}

func (w *walker) path(v ir.IRValue, path string) {
	if !w.check("#PathPattern", v, path) {
		return
	}
	obj := v.(ir.IRObject)
	for _, key := range []string{"sequence", "or"} {
		if steps, ok := obj[key].(ir.IRArray); ok {
			for i, step := range steps {
				w.path(step, fmt.Sprintf("%s/%s/%d", path, key, i))
			}
		}
	}
	for _, key := range []string{"star", "plus", "times"} {
		if inner, ok := obj[key]; ok {
			w.path(inner, path+"/"+key)
		}
	}
}
