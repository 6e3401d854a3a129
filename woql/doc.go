// Package woql builds WOQL queries and prints them back as Go source.
//
// WOQL is a logic query language whose wire format is a JSON-LD abstract
// syntax tree. This package covers both directions:
//
//	[fluent calls] → Builder → *Query → JSON
//	JSON → Decode → *Query → Print → [fluent Go source]
//
// BUILDING:
//
// Every operator has a Builder method and a package-level constructor of
// the same name, so these are equivalent:
//
//	woql.Triple("v:Person", "type", "Person").Triple("v:Person", "label", "v:Name")
//	woql.And(
//		woql.Triple("v:Person", "type", "Person"),
//		woql.Triple("v:Person", "label", "v:Name"),
//	)
//
// A Builder keeps a cursor on the node the next call extends. Calls on a
// primitive wrap it into an And; calls on an And (or an Or opened with no
// arguments) append to it. A combinator called without its sub-query moves
// the cursor into the empty sub-query slot:
//
//	woql.Select([]string{"v:Name"}).Triple("v:P", "label", "v:Name")
//
// A combinator called with its sub-query closes the chain; the next call
// starts a new top-level And whose first child is the closed query.
//
// ERRORS:
//
// Builder calls never panic on bad input. Each problem is recorded as an
// *Error with a Code and the chain continues, so one call to JSON (or
// Query) reports every problem at once as a *BuildError.
//
// VARIABLES:
//
// Strings of the form "v:Name" are logic variables in every slot that
// accepts one. VarGen produces collision-free names and Localize scopes a
// sub-query so its internal variables never reach the outer result
// bindings.
//
// PRINTING:
//
// Print renders a *Query as Go source using this package. The output is
// chosen so that evaluating it rebuilds a structurally equal query.
package woql
