package woql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/woql/internal/ir"
)

func mustQuery(t *testing.T, b *Builder) *Query {
	t.Helper()
	q, err := b.Query()
	require.NoError(t, err)
	return q
}

func TestBuilder_ThreePrimitivesMakeOneAnd(t *testing.T) {
	q := mustQuery(t, Triple("v:A", "type", "@schema:Person").
		Triple("v:A", "label", "v:Name").
		Triple("v:A", "@schema:age", "v:Age"))

	require.Equal(t, OpAnd, q.Op)
	subs := q.SubQueries()
	require.Len(t, subs, 3)
	assert.Equal(t, Node{IRI: "rdf:type"}, subs[0].Arg("predicate"))
	assert.Equal(t, Node{IRI: "rdfs:label"}, subs[1].Arg("predicate"))
	assert.Equal(t, Node{IRI: "@schema:age"}, subs[2].Arg("predicate"))
}

func TestBuilder_ClosedChainStartsNewAnd(t *testing.T) {
	b := Select([]string{"v:A"}, Triple("v:A", "type", "@schema:Person"))
	assert.True(t, b.Closed())

	b.Triple("v:A", "label", "v:Name")
	assert.False(t, b.Closed())

	q := mustQuery(t, b)
	require.Equal(t, OpAnd, q.Op)
	subs := q.SubQueries()
	require.Len(t, subs, 2)
	assert.Equal(t, OpSelect, subs[0].Op)
	assert.Equal(t, OpTriple, subs[1].Op)
	assert.Equal(t, OpTriple, subs[0].Arg("query").(*Query).Op)
}

func TestBuilder_ClosedAndKeepsAppending(t *testing.T) {
	q := mustQuery(t, And(Triple("v:A", "p", "v:B"), Triple("v:B", "p", "v:C")).
		Triple("v:C", "p", "v:D"))

	require.Equal(t, OpAnd, q.Op)
	subs := q.SubQueries()
	require.Len(t, subs, 3)
	for _, sub := range subs {
		assert.Equal(t, OpTriple, sub.Op, "no nested And")
	}
	assert.Equal(t, Var{Name: "D"}, subs[2].Arg("object"))
}

func TestBuilder_CombinatorWithoutSubQueryTakesNextCalls(t *testing.T) {
	q := mustQuery(t, Select([]string{"v:Name"}).
		Triple("v:A", "label", "v:Name").
		Triple("v:A", "type", "@schema:Person"))

	require.Equal(t, OpSelect, q.Op)
	assert.Equal(t, Names{"Name"}, q.Arg("variables"))
	inner := q.Arg("query").(*Query)
	require.Equal(t, OpAnd, inner.Op)
	assert.Len(t, inner.SubQueries(), 2)
}

func TestBuilder_NestedCombinatorsWithoutSubQueries(t *testing.T) {
	q := mustQuery(t, Limit(5).Select([]string{"v:A"}).Triple("v:A", "type", "v:T"))

	require.Equal(t, OpLimit, q.Op)
	sel := q.Arg("query").(*Query)
	require.Equal(t, OpSelect, sel.Op)
	assert.Equal(t, OpTriple, sel.Arg("query").(*Query).Op)
}

func TestBuilder_OpenOrCollectsBranches(t *testing.T) {
	q := mustQuery(t, Or().
		Triple("v:A", "type", "@schema:Cat").
		Triple("v:A", "type", "@schema:Dog"))

	require.Equal(t, OpOr, q.Op)
	assert.Len(t, q.SubQueries(), 2)
}

func TestBuilder_AndFlattensNestedAnd(t *testing.T) {
	q := mustQuery(t, And(
		And(Triple("v:A", "p", "v:B"), Triple("v:B", "p", "v:C")),
		Triple("v:C", "p", "v:D"),
	))

	require.Equal(t, OpAnd, q.Op)
	subs := q.SubQueries()
	require.Len(t, subs, 3)
	for _, sub := range subs {
		assert.Equal(t, OpTriple, sub.Op)
	}
}

func TestBuilder_SubQueriesAreCopied(t *testing.T) {
	sub := Triple("v:A", "p", "v:B")
	parent := Not(sub)

	sub.Triple("v:B", "p", "v:C")

	q := mustQuery(t, parent)
	assert.Equal(t, OpTriple, q.Arg("query").(*Query).Op)
}

func TestBuilder_UnfilledPlaceholder(t *testing.T) {
	_, err := Select([]string{"v:A"}).JSON()

	require.Error(t, err)
	assert.True(t, IsParameterError(err))
}

func TestBuilder_EmptyQuery(t *testing.T) {
	_, err := New().Query()

	require.Error(t, err)
	assert.True(t, IsParameterError(err))
}

func TestBuilder_ErrorsAccumulate(t *testing.T) {
	b := Triple("v:A", "label", Literal(1.5, XSDInteger)).
		Quad("v:A", "label", "v:B", "v:G")

	require.Len(t, b.Errors(), 2)

	_, err := b.JSON()
	require.Error(t, err)
	assert.True(t, IsInvalidLiteral(err))
	assert.True(t, IsInvalidArgumentStructure(err))

	var be *BuildError
	require.ErrorAs(t, err, &be)
	assert.Len(t, be.Errs, 2)
	assert.Equal(t, "Literal", be.Errs[0].Op)
	assert.Equal(t, "Triple", be.Errs[1].Op)
	assert.Contains(t, be.Errs[0].Message, "object")
	assert.Contains(t, be.Errs[1].Message, "graph")
}

func TestBuilder_SubBuilderErrorsAreAdopted(t *testing.T) {
	b := Not(Triple("v:A", "", "v:B"))

	_, err := b.Query()
	require.Error(t, err)
	assert.True(t, IsInvalidArgumentStructure(err))
}

func TestBuilder_ParameterErrors(t *testing.T) {
	tests := []struct {
		name string
		b    *Builder
	}{
		{"negative limit", Limit(-1, True())},
		{"one operand", Plus(1)},
		{"query on arithmetic", Plus(1, 2).Triple("v:A", "p", "v:B")},
		{"arithmetic after query", True().Plus(1, 2)},
		{"two sub-queries", Not(True(), True())},
		{"bad ordering", OrderBy([]Order{{Variable: "X", Direction: "up"}}, True())},
		{"query as value", Eq("v:A", True())},
		{"arithmetic as query", Not(Plus(1, 2))},
		{"two path variables", Path("v:A", "p", "v:B", "v:P", "v:Q")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.b.Query()
			require.Error(t, err)
			assert.True(t, IsParameterError(err), "got %v", err)
		})
	}
}

func TestBuilder_Arithmetic(t *testing.T) {
	q := mustQuery(t, Eval(Plus(1, 2, "v:X"), "v:R"))

	require.Equal(t, OpEval, q.Op)
	outer := q.Arg("expression").(*Query)
	require.Equal(t, OpPlus, outer.Op)
	assert.Equal(t, Var{Name: "X"}, outer.Arg("right"))

	inner := outer.Arg("left").(*Query)
	require.Equal(t, OpPlus, inner.Op)
	assert.Equal(t, Integer(1), inner.Arg("left"))
	assert.Equal(t, Integer(2), inner.Arg("right"))
	assert.Equal(t, Var{Name: "R"}, q.Arg("result"))
}

func TestBuilder_ArithmeticRejectsText(t *testing.T) {
	_, err := Eval(Times("two", 2), "v:R").Query()

	require.Error(t, err)
	assert.True(t, IsInvalidArgumentStructure(err))
}

func TestBuilder_QuadSetsGraph(t *testing.T) {
	q := mustQuery(t, Quad("v:S", "v:P", "v:O", "schema"))

	assert.Equal(t, OpTriple, q.Op)
	assert.Equal(t, Text("schema"), q.Arg("graph"))
}

func TestBuilder_PathCompilesPattern(t *testing.T) {
	q := mustQuery(t, Path("v:A", "knows+", "v:B", "v:Edges"))

	assert.Equal(t, PathRepeat{Of: PathAtom{Predicate: "knows"}, Min: 1, Max: -1}, q.Arg("pattern"))
	assert.Equal(t, Var{Name: "Edges"}, q.Arg("path"))
}

func TestBuilder_PathRejectsBadPattern(t *testing.T) {
	_, err := Path("v:A", "(knows", "v:B").Query()

	require.Error(t, err)
	assert.True(t, IsInvalidPathPattern(err))
}

func TestBuilder_ExpandedPrefixes(t *testing.T) {
	q := mustQuery(t, New(WithExpandedPrefixes()).Triple("v:A", "type", "owl:Thing"))

	assert.Equal(t, Node{IRI: "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"}, q.Arg("predicate"))
	assert.Equal(t, Node{IRI: "http://www.w3.org/2002/07/owl#Thing"}, q.Arg("object"))
}

func TestBuilder_CustomVocabulary(t *testing.T) {
	vocab := DefaultVocabulary().Merge(Vocabulary{
		Predicates: map[string]string{"knows": "foaf:knows"},
	})
	q := mustQuery(t, New(WithVocabulary(vocab)).Triple("v:A", "knows", "v:B"))

	assert.Equal(t, Node{IRI: "foaf:knows"}, q.Arg("predicate"))
}

func TestBuilder_JSON(t *testing.T) {
	data, err := Triple("v:Person", "type", "@schema:Person").JSON()
	require.NoError(t, err)

	assert.Equal(t,
		`{"@type":"Triple",`+
			`"object":{"@type":"Value","node":"@schema:Person"},`+
			`"predicate":{"@type":"NodeValue","node":"rdf:type"},`+
			`"subject":{"@type":"NodeValue","variable":"Person"}}`,
		string(data))
}

func TestBuilder_JSONLiteral(t *testing.T) {
	data, err := Eq("v:X", 42).JSON()
	require.NoError(t, err)

	assert.Equal(t,
		`{"@type":"Equals",`+
			`"left":{"@type":"Value","variable":"X"},`+
			`"right":{"@type":"Value","data":{"@type":"xsd:integer","@value":42}}}`,
		string(data))
}

func TestBuilder_QueryHashIsStable(t *testing.T) {
	a, err := Triple("v:A", "type", "@schema:Person").Query()
	require.NoError(t, err)
	b, err := Triple("v:A", "rdf:type", "@schema:Person").Query()
	require.NoError(t, err)

	ia, err := a.ToIR()
	require.NoError(t, err)
	ib, err := b.ToIR()
	require.NoError(t, err)

	assert.Equal(t, ir.MustQueryHash(ia), ir.MustQueryHash(ib))
}
