package woql_test

import (
	"github.com/roach88/woql/woql"
)

// fixture pairs a builder expression with the exact text Print produces
// for it. The text is the same Go expression, so printing round-trips.
type fixture struct {
	name   string
	fluent bool
	build  *woql.Builder
	text   string
}

func fixtures() []fixture {
	return []fixture{
		{
			name:   "and chain",
			fluent: true,
			build: woql.Triple("v:A", "rdf:type", "@schema:Person").
				Triple("v:A", "rdfs:label", "v:Name"),
			text: "woql.Triple(\"v:A\", \"rdf:type\", \"@schema:Person\").\n" +
				"\tTriple(\"v:A\", \"rdfs:label\", \"v:Name\")",
		},
		{
			name: "and list",
			build: woql.And(
				woql.Triple("v:A", "rdf:type", "@schema:Person"),
				woql.Triple("v:A", "rdfs:label", "v:Name"),
			),
			text: "woql.And(\n" +
				"\twoql.Triple(\"v:A\", \"rdf:type\", \"@schema:Person\"),\n" +
				"\twoql.Triple(\"v:A\", \"rdfs:label\", \"v:Name\"),\n" +
				")",
		},
		{
			name:   "chain after closed select",
			fluent: true,
			build: woql.Select([]string{"v:A"}, woql.True()).
				Triple("v:A", "v:P", "v:B"),
			text: "woql.Select([]string{\"v:A\"}, woql.True()).\n" +
				"\tTriple(\"v:A\", \"v:P\", \"v:B\")",
		},
		{
			name:   "chain into or",
			fluent: true,
			build: woql.Triple("v:A", "v:P", "v:B").
				Or(
					woql.True(),
					woql.Triple("v:B", "v:Q", "v:C"),
				),
			text: "woql.Triple(\"v:A\", \"v:P\", \"v:B\").\n" +
				"\tOr(\n" +
				"\t\twoql.True(),\n" +
				"\t\twoql.Triple(\"v:B\", \"v:Q\", \"v:C\"),\n" +
				"\t)",
		},
		{
			name:   "select over chain",
			fluent: true,
			build: woql.Select([]string{"v:Name"}, woql.Triple("v:A", "rdf:type", "@schema:Person").
				Triple("v:A", "rdfs:label", "v:Name")),
			text: "woql.Select([]string{\"v:Name\"}, woql.Triple(\"v:A\", \"rdf:type\", \"@schema:Person\").\n" +
				"\tTriple(\"v:A\", \"rdfs:label\", \"v:Name\"))",
		},
		{
			name: "nested lists",
			build: woql.Select([]string{"v:A"}, woql.And(
				woql.Triple("v:A", "v:P", "v:B"),
				woql.Or(
					woql.Triple("v:B", "v:Q", "v:C"),
					woql.True(),
				),
			)),
			text: "woql.Select([]string{\"v:A\"}, woql.And(\n" +
				"\twoql.Triple(\"v:A\", \"v:P\", \"v:B\"),\n" +
				"\twoql.Or(\n" +
				"\t\twoql.Triple(\"v:B\", \"v:Q\", \"v:C\"),\n" +
				"\t\twoql.True(),\n" +
				"\t),\n" +
				"))",
		},
		{
			name: "or",
			build: woql.Or(
				woql.Triple("v:A", "rdf:type", "@schema:Cat"),
				woql.Triple("v:A", "rdf:type", "@schema:Dog"),
			),
			text: "woql.Or(\n" +
				"\twoql.Triple(\"v:A\", \"rdf:type\", \"@schema:Cat\"),\n" +
				"\twoql.Triple(\"v:A\", \"rdf:type\", \"@schema:Dog\"),\n" +
				")",
		},
		{
			name:  "not",
			build: woql.Not(woql.Triple("v:A", "rdf:type", "@schema:Cat")),
			text:  `woql.Not(woql.Triple("v:A", "rdf:type", "@schema:Cat"))`,
		},
		{
			name:  "opt",
			build: woql.Opt(woql.Triple("v:A", "rdfs:label", "v:Name")),
			text:  `woql.Opt(woql.Triple("v:A", "rdfs:label", "v:Name"))`,
		},
		{
			name:  "once",
			build: woql.Once(woql.True()),
			text:  `woql.Once(woql.True())`,
		},
		{
			name:  "immediately",
			build: woql.Immediately(woql.AddTriple("Person/alice", "rdf:type", "@schema:Person")),
			text:  `woql.Immediately(woql.AddTriple("Person/alice", "rdf:type", "@schema:Person"))`,
		},
		{
			name:  "select hiding everything",
			build: woql.Select([]string{""}, woql.True()),
			text:  `woql.Select([]string{""}, woql.True())`,
		},
		{
			name:  "distinct",
			build: woql.Distinct([]string{"v:A", "v:B"}, woql.Triple("v:A", "v:P", "v:B")),
			text:  `woql.Distinct([]string{"v:A", "v:B"}, woql.Triple("v:A", "v:P", "v:B"))`,
		},
		{
			name:  "limit and start",
			build: woql.Limit(10, woql.Start(20, woql.Triple("v:A", "v:P", "v:B"))),
			text:  `woql.Limit(10, woql.Start(20, woql.Triple("v:A", "v:P", "v:B")))`,
		},
		{
			name: "order by",
			build: woql.OrderBy([]woql.Order{woql.Asc("v:Name"), woql.Desc("v:Age")},
				woql.Triple("v:A", "@schema:age", "v:Age")),
			text: `woql.OrderBy([]woql.Order{woql.Asc("v:Name"), woql.Desc("v:Age")}, ` +
				`woql.Triple("v:A", "@schema:age", "v:Age"))`,
		},
		{
			name: "group by",
			build: woql.GroupBy([]string{"v:Dept"}, "v:Name", "v:Names",
				woql.Triple("v:P", "@schema:dept", "v:Dept")),
			text: `woql.GroupBy([]string{"v:Dept"}, "v:Name", "v:Names", ` +
				`woql.Triple("v:P", "@schema:dept", "v:Dept"))`,
		},
		{
			name:  "collect",
			build: woql.Collect("v:Name", "v:Names", woql.Triple("v:P", "rdfs:label", "v:Name")),
			text:  `woql.Collect("v:Name", "v:Names", woql.Triple("v:P", "rdfs:label", "v:Name"))`,
		},
		{
			name:  "count",
			build: woql.Count("v:N", woql.Triple("v:P", "rdf:type", "@schema:Person")),
			text:  `woql.Count("v:N", woql.Triple("v:P", "rdf:type", "@schema:Person"))`,
		},
		{
			name:  "using",
			build: woql.Using("admin/people", woql.Triple("v:A", "v:P", "v:B")),
			text:  `woql.Using("admin/people", woql.Triple("v:A", "v:P", "v:B"))`,
		},
		{
			name:  "from",
			build: woql.From("schema", woql.Triple("v:C", "rdf:type", "sys:Class")),
			text:  `woql.From("schema", woql.Triple("v:C", "rdf:type", "sys:Class"))`,
		},
		{
			name: "into",
			build: woql.Into("admin/people/local/branch/main/instance",
				woql.AddTriple("Person/bob", "@schema:name", "Bob")),
			text: `woql.Into("admin/people/local/branch/main/instance", ` +
				`woql.AddTriple("Person/bob", "@schema:name", "Bob"))`,
		},
		{
			name:  "quad",
			build: woql.Quad("v:S", "v:P", "v:O", "schema"),
			text:  `woql.Quad("v:S", "v:P", "v:O", "schema")`,
		},
		{
			name:  "add quad",
			build: woql.AddQuad("Person/bob", "rdf:type", "@schema:Person", "instance"),
			text:  `woql.AddQuad("Person/bob", "rdf:type", "@schema:Person", "instance")`,
		},
		{
			name:  "delete triple",
			build: woql.DeleteTriple("Person/bob", "@schema:name", "v:Old"),
			text:  `woql.DeleteTriple("Person/bob", "@schema:name", "v:Old")`,
		},
		{
			name:  "delete quad",
			build: woql.DeleteQuad("Person/bob", "@schema:name", "v:Old", "instance"),
			text:  `woql.DeleteQuad("Person/bob", "@schema:name", "v:Old", "instance")`,
		},
		{
			name:  "eq string",
			build: woql.Eq("v:Name", "Alice"),
			text:  `woql.Eq("v:Name", "Alice")`,
		},
		{
			name:  "eq string that looks like a variable",
			build: woql.Eq("v:A", woql.String("v:B")),
			text:  `woql.Eq("v:A", woql.String("v:B"))`,
		},
		{
			name:  "eq string that looks like a node",
			build: woql.Eq("v:X", "@schema:Person"),
			text:  `woql.Eq("v:X", "@schema:Person")`,
		},
		{
			name:  "eq date",
			build: woql.Eq("v:D", woql.Date("2024-01-31")),
			text:  `woql.Eq("v:D", woql.Date("2024-01-31"))`,
		},
		{
			name:  "eq typed integer",
			build: woql.Eq("v:N", woql.Literal(7, "xsd:long")),
			text:  `woql.Eq("v:N", woql.Literal(7, "xsd:long"))`,
		},
		{
			name:  "eq exact decimal",
			build: woql.Eq("v:X", woql.Decimal("2.50")),
			text:  `woql.Eq("v:X", woql.Decimal("2.50"))`,
		},
		{
			name:  "eq float",
			build: woql.Eq("v:X", 2.5),
			text:  `woql.Eq("v:X", 2.5)`,
		},
		{
			name:  "eq bool",
			build: woql.Eq("v:X", true),
			text:  `woql.Eq("v:X", true)`,
		},
		{
			name:  "eq node",
			build: woql.Eq("v:X", woql.Iri("Person")),
			text:  `woql.Eq("v:X", woql.Iri("Person"))`,
		},
		{
			name:  "eq list",
			build: woql.Eq("v:L", []any{1, "two", "v:Three"}),
			text:  `woql.Eq("v:L", []any{1, "two", "v:Three"})`,
		},
		{
			name:  "eq empty list",
			build: woql.Eq("v:L", []any{}),
			text:  `woql.Eq("v:L", []any{})`,
		},
		{
			name:  "less",
			build: woql.Less("v:Age", 18),
			text:  `woql.Less("v:Age", 18)`,
		},
		{
			name:  "greater",
			build: woql.Greater("v:Age", 65),
			text:  `woql.Greater("v:Age", 65)`,
		},
		{
			name:  "like",
			build: woql.Like("v:Name", "Alice", "v:Score"),
			text:  `woql.Like("v:Name", "Alice", "v:Score")`,
		},
		{
			name:  "eval plus",
			build: woql.Eval(woql.Plus(1, 2, "v:X"), "v:R"),
			text:  `woql.Eval(woql.Plus(1, 2, "v:X"), "v:R")`,
		},
		{
			name:  "eval divide",
			build: woql.Eval(woql.Divide(woql.Times("v:A", 2.5), woql.Minus("v:B", 1)), "v:R"),
			text:  `woql.Eval(woql.Divide(woql.Times("v:A", 2.5), woql.Minus("v:B", 1)), "v:R")`,
		},
		{
			name:  "eval floor",
			build: woql.Eval(woql.Floor(woql.Div(woql.Exp("v:A", 2), 3)), "v:R"),
			text:  `woql.Eval(woql.Floor(woql.Div(woql.Exp("v:A", 2), 3)), "v:R")`,
		},
		{
			name:  "isa",
			build: woql.IsA("v:A", "@schema:Person"),
			text:  `woql.IsA("v:A", "@schema:Person")`,
		},
		{
			name:  "sub",
			build: woql.Sub("@schema:Animal", "v:C"),
			text:  `woql.Sub("@schema:Animal", "v:C")`,
		},
		{
			name:  "type of",
			build: woql.TypeOf("v:V", "v:T"),
			text:  `woql.TypeOf("v:V", "v:T")`,
		},
		{
			name:  "typecast",
			build: woql.Typecast("v:V", "xsd:integer", "v:I"),
			text:  `woql.Typecast("v:V", "xsd:integer", "v:I")`,
		},
		{
			name:  "concat",
			build: woql.Concat([]any{"v:First", " ", "v:Last"}, "v:Full"),
			text:  `woql.Concat([]any{"v:First", " ", "v:Last"}, "v:Full")`,
		},
		{
			name:  "substr",
			build: woql.Substr("v:S", 0, 3, "v:After", "v:Sub"),
			text:  `woql.Substr("v:S", 0, 3, "v:After", "v:Sub")`,
		},
		{
			name:  "re",
			build: woql.Re("^A.*", "v:Name", "v:Groups"),
			text:  `woql.Re("^A.*", "v:Name", "v:Groups")`,
		},
		{
			name:  "upper",
			build: woql.Upper("v:A", "v:B"),
			text:  `woql.Upper("v:A", "v:B")`,
		},
		{
			name:  "lower",
			build: woql.Lower("v:A", "v:B"),
			text:  `woql.Lower("v:A", "v:B")`,
		},
		{
			name:  "trim",
			build: woql.Trim("  hi  ", "v:T"),
			text:  `woql.Trim("  hi  ", "v:T")`,
		},
		{
			name:  "pad",
			build: woql.Pad("v:S", "0", 8, "v:Padded"),
			text:  `woql.Pad("v:S", "0", 8, "v:Padded")`,
		},
		{
			name:  "split",
			build: woql.Split("a,b", ",", "v:Parts"),
			text:  `woql.Split("a,b", ",", "v:Parts")`,
		},
		{
			name:  "join",
			build: woql.Join("v:Parts", ", ", "v:Joined"),
			text:  `woql.Join("v:Parts", ", ", "v:Joined")`,
		},
		{
			name:  "length",
			build: woql.Length("v:L", "v:N"),
			text:  `woql.Length("v:L", "v:N")`,
		},
		{
			name:  "member",
			build: woql.Member("v:M", []any{"a", "b"}),
			text:  `woql.Member("v:M", []any{"a", "b"})`,
		},
		{
			name:  "sum",
			build: woql.Sum([]any{1, 2.5}, "v:Total"),
			text:  `woql.Sum([]any{1, 2.5}, "v:Total")`,
		},
		{
			name:  "dot",
			build: woql.Dot("v:Doc", "name", "v:Name"),
			text:  `woql.Dot("v:Doc", "name", "v:Name")`,
		},
		{
			name:  "path",
			build: woql.Path("v:A", "knows+,(likes|<hates)", "v:B"),
			text:  `woql.Path("v:A", "knows+,(likes|<hates)", "v:B")`,
		},
		{
			name:  "path with edges",
			build: woql.Path("v:A", "@schema:parent{1,3}", "v:B", "v:Edges"),
			text:  `woql.Path("v:A", "@schema:parent{1,3}", "v:B", "v:Edges")`,
		},
		{
			name:  "lexical key",
			build: woql.LexicalKey("Person/", []any{"v:First", "v:Last"}, "v:ID"),
			text:  `woql.LexicalKey("Person/", []any{"v:First", "v:Last"}, "v:ID")`,
		},
		{
			name:  "hash key",
			build: woql.HashKey("Person/", []any{"v:Email"}, "v:ID"),
			text:  `woql.HashKey("Person/", []any{"v:Email"}, "v:ID")`,
		},
		{
			name:  "random key",
			build: woql.RandomKey("Person/", "v:ID"),
			text:  `woql.RandomKey("Person/", "v:ID")`,
		},
		{
			name:  "true",
			build: woql.True(),
			text:  `woql.True()`,
		},
	}
}

// opsIn lists every operator used anywhere in q.
func opsIn(q *woql.Query, seen map[woql.Op]bool) {
	if q == nil {
		return
	}
	seen[q.Op] = true
	for _, t := range q.Args {
		switch v := t.(type) {
		case *woql.Query:
			opsIn(v, seen)
		case woql.List:
			for _, item := range v.Items {
				if sub, ok := item.(*woql.Query); ok {
					opsIn(sub, seen)
				}
			}
		}
	}
}
