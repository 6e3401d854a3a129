package woql

// Combinators. Each takes its sub-query as an optional trailing argument;
// without it the cursor moves into the sub-query slot.

// And is a conjunction. Nested And children are flattened.
func (b *Builder) And(subs ...*Builder) *Builder { return b.queryList(OpAnd, subs) }

// Or is a disjunction. Called with no arguments, later calls add branches.
func (b *Builder) Or(subs ...*Builder) *Builder { return b.queryList(OpOr, subs) }

// Not succeeds when its sub-query has no solutions.
func (b *Builder) Not(sub ...*Builder) *Builder { return b.combinator(OpNot, sub) }

// Opt makes its sub-query optional.
func (b *Builder) Opt(sub ...*Builder) *Builder { return b.combinator(OpOptional, sub) }

// Once keeps the first solution of its sub-query.
func (b *Builder) Once(sub ...*Builder) *Builder { return b.combinator(OpOnce, sub) }

// Immediately runs the side effects of its sub-query without waiting for
// commit.
func (b *Builder) Immediately(sub ...*Builder) *Builder {
	return b.combinator(OpImmediately, sub)
}

// Select projects the listed variables. []string{""} hides every variable
// bound inside.
func (b *Builder) Select(vars []string, sub ...*Builder) *Builder {
	return b.combinator(OpSelect, sub, vars)
}

// Distinct keeps solutions distinct on the listed variables.
func (b *Builder) Distinct(vars []string, sub ...*Builder) *Builder {
	return b.combinator(OpDistinct, sub, vars)
}

// Limit keeps at most n solutions.
func (b *Builder) Limit(n int, sub ...*Builder) *Builder { return b.combinator(OpLimit, sub, n) }

// Start skips the first n solutions.
func (b *Builder) Start(n int, sub ...*Builder) *Builder { return b.combinator(OpStart, sub, n) }

// OrderBy sorts solutions.
func (b *Builder) OrderBy(ordering []Order, sub ...*Builder) *Builder {
	return b.combinator(OpOrderBy, sub, ordering)
}

// GroupBy groups solutions on groupBy, collecting template into grouped.
func (b *Builder) GroupBy(groupBy []string, template, grouped any, sub ...*Builder) *Builder {
	return b.combinator(OpGroupBy, sub, groupBy, template, grouped)
}

// Collect gathers template over every solution into a list.
func (b *Builder) Collect(template, into any, sub ...*Builder) *Builder {
	return b.combinator(OpCollect, sub, template, into)
}

// Count binds count to the number of solutions.
func (b *Builder) Count(count any, sub ...*Builder) *Builder {
	return b.combinator(OpCount, sub, count)
}

// Using runs its sub-query against another collection.
func (b *Builder) Using(collection string, sub ...*Builder) *Builder {
	return b.combinator(OpUsing, sub, collection)
}

// From reads from graph.
func (b *Builder) From(graph string, sub ...*Builder) *Builder {
	return b.combinator(OpFrom, sub, graph)
}

// Into writes into graph.
func (b *Builder) Into(graph string, sub ...*Builder) *Builder {
	return b.combinator(OpInto, sub, graph)
}

// Primitives.

// Triple matches an edge.
func (b *Builder) Triple(subject, predicate, object any) *Builder {
	return b.primitive(OpTriple, subject, predicate, object)
}

// Quad matches an edge in graph.
func (b *Builder) Quad(subject, predicate, object any, graph string) *Builder {
	return b.primitive(OpTriple, subject, predicate, object, graph)
}

// AddTriple inserts an edge.
func (b *Builder) AddTriple(subject, predicate, object any) *Builder {
	return b.primitive(OpAddTriple, subject, predicate, object)
}

// AddQuad inserts an edge into graph.
func (b *Builder) AddQuad(subject, predicate, object any, graph string) *Builder {
	return b.primitive(OpAddTriple, subject, predicate, object, graph)
}

// DeleteTriple removes an edge.
func (b *Builder) DeleteTriple(subject, predicate, object any) *Builder {
	return b.primitive(OpDeleteTriple, subject, predicate, object)
}

// DeleteQuad removes an edge from graph.
func (b *Builder) DeleteQuad(subject, predicate, object any, graph string) *Builder {
	return b.primitive(OpDeleteTriple, subject, predicate, object, graph)
}

// Eq unifies left and right.
func (b *Builder) Eq(left, right any) *Builder { return b.primitive(OpEquals, left, right) }

// Less holds when left < right.
func (b *Builder) Less(left, right any) *Builder { return b.primitive(OpLess, left, right) }

// Greater holds when left > right.
func (b *Builder) Greater(left, right any) *Builder { return b.primitive(OpGreater, left, right) }

// Like binds similarity to the string similarity of left and right.
func (b *Builder) Like(left, right, similarity any) *Builder {
	return b.primitive(OpLike, left, right, similarity)
}

// Eval binds result to the value of an arithmetic expression.
func (b *Builder) Eval(expression, result any) *Builder {
	return b.primitive(OpEval, expression, result)
}

// IsA holds when element has type typ.
func (b *Builder) IsA(element, typ any) *Builder { return b.primitive(OpIsA, element, typ) }

// Sub holds when child is a subclass of parent.
func (b *Builder) Sub(parent, child any) *Builder { return b.primitive(OpSubsumption, parent, child) }

// TypeOf binds typ to the type of value.
func (b *Builder) TypeOf(value, typ any) *Builder { return b.primitive(OpTypeOf, value, typ) }

// Typecast converts value to typ.
func (b *Builder) Typecast(value, typ, result any) *Builder {
	return b.primitive(OpTypecast, value, typ, result)
}

// Concat joins the strings in list.
func (b *Builder) Concat(list, result any) *Builder {
	return b.primitive(OpConcatenate, list, result)
}

// Substr relates a string to one of its substrings.
func (b *Builder) Substr(str, before, length, after, substring any) *Builder {
	return b.primitive(OpSubstring, str, before, length, after, substring)
}

// Re matches str against a regular expression.
func (b *Builder) Re(pattern, str, result any) *Builder {
	return b.primitive(OpRegexp, pattern, str, result)
}

// Upper upper-cases left into right.
func (b *Builder) Upper(left, right any) *Builder { return b.primitive(OpUpper, left, right) }

// Lower lower-cases left into right.
func (b *Builder) Lower(left, right any) *Builder { return b.primitive(OpLower, left, right) }

// Trim strips surrounding whitespace.
func (b *Builder) Trim(untrimmed, trimmed any) *Builder {
	return b.primitive(OpTrim, untrimmed, trimmed)
}

// Pad pads str with char, times times.
func (b *Builder) Pad(str, char, times, result any) *Builder {
	return b.primitive(OpPad, str, char, times, result)
}

// Split splits str on pattern.
func (b *Builder) Split(str, pattern, list any) *Builder {
	return b.primitive(OpSplit, str, pattern, list)
}

// Join joins list with separator.
func (b *Builder) Join(list, separator, result any) *Builder {
	return b.primitive(OpJoin, list, separator, result)
}

// Length binds the length of list.
func (b *Builder) Length(list, length any) *Builder { return b.primitive(OpLength, list, length) }

// Member holds when member is in list.
func (b *Builder) Member(member, list any) *Builder { return b.primitive(OpMember, member, list) }

// Sum adds the numbers in list.
func (b *Builder) Sum(list, result any) *Builder { return b.primitive(OpSum, list, result) }

// Dot reads field of a JSON document.
func (b *Builder) Dot(document, field, value any) *Builder {
	return b.primitive(OpDot, document, field, value)
}

// Path follows a path pattern from subject to object. An optional last
// argument binds the traversed edges.
func (b *Builder) Path(subject, pattern, object any, path ...any) *Builder {
	if len(path) > 1 {
		b.fail(OpPath, CodeParameterError, "takes at most one path variable, got %d", len(path))
		return b
	}
	return b.primitive(OpPath, append([]any{subject, pattern, object}, path...)...)
}

// LexicalKey builds an IRI from base and the values in keyList.
func (b *Builder) LexicalKey(base, keyList, uri any) *Builder {
	return b.primitive(OpLexicalKey, base, keyList, uri)
}

// HashKey builds an IRI from base and a hash of keyList.
func (b *Builder) HashKey(base, keyList, uri any) *Builder {
	return b.primitive(OpHashKey, base, keyList, uri)
}

// RandomKey builds a random IRI from base.
func (b *Builder) RandomKey(base, uri any) *Builder { return b.primitive(OpRandomKey, base, uri) }

// True always succeeds.
func (b *Builder) True() *Builder { return b.primitive(OpTrue) }

// Arithmetic. Expressions start their own builder and are used as the
// expression of Eval.

// Plus adds two or more operands.
func (b *Builder) Plus(operands ...any) *Builder { return b.arithmetic(OpPlus, operands...) }

// Minus subtracts, left to right.
func (b *Builder) Minus(operands ...any) *Builder { return b.arithmetic(OpMinus, operands...) }

// Times multiplies two or more operands.
func (b *Builder) Times(operands ...any) *Builder { return b.arithmetic(OpTimes, operands...) }

// Divide divides, left to right.
func (b *Builder) Divide(operands ...any) *Builder { return b.arithmetic(OpDivide, operands...) }

// Div is integer division, left to right.
func (b *Builder) Div(operands ...any) *Builder { return b.arithmetic(OpDiv, operands...) }

// Exp raises base to exponent.
func (b *Builder) Exp(base, exponent any) *Builder { return b.arithmetic(OpExp, base, exponent) }

// Floor rounds down.
func (b *Builder) Floor(argument any) *Builder { return b.arithmetic(OpFloor, argument) }

// Package-level constructors start a new builder with the default
// vocabulary.

// And starts a conjunction of subs.
func And(subs ...*Builder) *Builder { return New().And(subs...) }

// Or starts a disjunction of subs. Called with no arguments it collects
// the calls that follow.
func Or(subs ...*Builder) *Builder { return New().Or(subs...) }

// Not starts a negation.
func Not(sub ...*Builder) *Builder { return New().Not(sub...) }

// Opt starts an optional match.
func Opt(sub ...*Builder) *Builder { return New().Opt(sub...) }

// Once starts a query limited to its first solution.
func Once(sub ...*Builder) *Builder { return New().Once(sub...) }

// Immediately starts a query whose side effects apply at once.
func Immediately(sub ...*Builder) *Builder { return New().Immediately(sub...) }

// Select starts a projection onto vars.
func Select(vars []string, sub ...*Builder) *Builder {
	return New().Select(vars, sub...)
}

// Distinct starts a query with duplicate solutions for vars removed.
func Distinct(vars []string, sub ...*Builder) *Builder {
	return New().Distinct(vars, sub...)
}

// Limit starts a query capped at n solutions.
func Limit(n int, sub ...*Builder) *Builder { return New().Limit(n, sub...) }

// Start starts a query that skips its first n solutions.
func Start(n int, sub ...*Builder) *Builder { return New().Start(n, sub...) }

// OrderBy starts a sorted query.
func OrderBy(ordering []Order, sub ...*Builder) *Builder {
	return New().OrderBy(ordering, sub...)
}

// GroupBy starts a grouping of template values by the groupBy variables.
func GroupBy(groupBy []string, template, grouped any, sub ...*Builder) *Builder {
	return New().GroupBy(groupBy, template, grouped, sub...)
}

// Collect starts a query that gathers template values into a list.
func Collect(template, into any, sub ...*Builder) *Builder {
	return New().Collect(template, into, sub...)
}

// Count starts a query that counts solutions into count.
func Count(count any, sub ...*Builder) *Builder { return New().Count(count, sub...) }

// Using starts a query against collection.
func Using(collection string, sub ...*Builder) *Builder { return New().Using(collection, sub...) }

// From starts a query that reads graph.
func From(graph string, sub ...*Builder) *Builder { return New().From(graph, sub...) }

// Into starts a query that writes to graph.
func Into(graph string, sub ...*Builder) *Builder { return New().Into(graph, sub...) }

// Triple starts a query with one triple pattern.
func Triple(subject, predicate, object any) *Builder {
	return New().Triple(subject, predicate, object)
}

// Quad is Triple restricted to graph.
func Quad(subject, predicate, object any, graph string) *Builder {
	return New().Quad(subject, predicate, object, graph)
}

// AddTriple starts a query that inserts a triple.
func AddTriple(subject, predicate, object any) *Builder {
	return New().AddTriple(subject, predicate, object)
}

// AddQuad inserts a triple into graph.
func AddQuad(subject, predicate, object any, graph string) *Builder {
	return New().AddQuad(subject, predicate, object, graph)
}

// DeleteTriple starts a query that removes a triple.
func DeleteTriple(subject, predicate, object any) *Builder {
	return New().DeleteTriple(subject, predicate, object)
}

// DeleteQuad removes a triple from graph.
func DeleteQuad(subject, predicate, object any, graph string) *Builder {
	return New().DeleteQuad(subject, predicate, object, graph)
}

// Eq starts a query that unifies left and right.
func Eq(left, right any) *Builder { return New().Eq(left, right) }

// Less starts a comparison.
func Less(left, right any) *Builder { return New().Less(left, right) }

// Greater starts a comparison.
func Greater(left, right any) *Builder { return New().Greater(left, right) }

// Like starts a string similarity test.
func Like(left, right, similarity any) *Builder { return New().Like(left, right, similarity) }

// Eval starts a query that evaluates an arithmetic expression into result.
func Eval(expression, result any) *Builder { return New().Eval(expression, result) }

// IsA starts a type membership test.
func IsA(element, typ any) *Builder { return New().IsA(element, typ) }

// Sub starts a subsumption test between classes.
func Sub(parent, child any) *Builder { return New().Sub(parent, child) }

// TypeOf starts a query binding the type of value.
func TypeOf(value, typ any) *Builder { return New().TypeOf(value, typ) }

// Typecast starts a conversion of value to typ.
func Typecast(value, typ, result any) *Builder { return New().Typecast(value, typ, result) }

// Concat starts a string concatenation.
func Concat(list, result any) *Builder { return New().Concat(list, result) }

// Re starts a regular expression match.
func Re(pattern, str, result any) *Builder { return New().Re(pattern, str, result) }

// Upper starts an upper-casing.
func Upper(left, right any) *Builder { return New().Upper(left, right) }

// Lower starts a lower-casing.
func Lower(left, right any) *Builder { return New().Lower(left, right) }

// Trim starts a whitespace trim.
func Trim(untrimmed, trimmed any) *Builder { return New().Trim(untrimmed, trimmed) }

// Pad starts a padding of str with char.
func Pad(str, char, times, result any) *Builder { return New().Pad(str, char, times, result) }

// Split starts a split of str on pattern.
func Split(str, pattern, list any) *Builder { return New().Split(str, pattern, list) }

// Join starts a join of list with separator.
func Join(list, separator, result any) *Builder { return New().Join(list, separator, result) }

// Length starts a query binding the length of list.
func Length(list, length any) *Builder { return New().Length(list, length) }

// Member starts a list membership test.
func Member(member, list any) *Builder { return New().Member(member, list) }

// Sum starts a query that adds up list.
func Sum(list, result any) *Builder { return New().Sum(list, result) }

// Dot starts a field lookup on a document.
func Dot(document, field, value any) *Builder { return New().Dot(document, field, value) }

// LexicalKey starts a key built from key values.
func LexicalKey(base, keyList, uri any) *Builder { return New().LexicalKey(base, keyList, uri) }

// HashKey starts a key built from hashed key values.
func HashKey(base, keyList, uri any) *Builder { return New().HashKey(base, keyList, uri) }

// RandomKey starts a random key under base.
func RandomKey(base, uri any) *Builder { return New().RandomKey(base, uri) }

// True starts the query that always succeeds.
func True() *Builder { return New().True() }

// Substr starts a substring extraction.
func Substr(str, before, length, after, substring any) *Builder {
	return New().Substr(str, before, length, after, substring)
}

// Path starts a path traversal from subject to object. pattern is
// pattern text or a compiled Pattern.
func Path(subject, pattern, object any, path ...any) *Builder {
	return New().Path(subject, pattern, object, path...)
}

// Plus starts an arithmetic sum.
func Plus(operands ...any) *Builder { return New().Plus(operands...) }

// Minus starts an arithmetic difference.
func Minus(operands ...any) *Builder { return New().Minus(operands...) }

// Times starts an arithmetic product.
func Times(operands ...any) *Builder { return New().Times(operands...) }

// Divide starts a division.
func Divide(operands ...any) *Builder { return New().Divide(operands...) }

// Div starts an integer division.
func Div(operands ...any) *Builder { return New().Div(operands...) }

// Exp starts an exponentiation.
func Exp(base, exponent any) *Builder { return New().Exp(base, exponent) }

// Floor starts a round-down.
func Floor(argument any) *Builder { return New().Floor(argument) }
