// Package harness runs printer conformance scenarios.
//
// A scenario pairs a JSON-LD query document with the way it should be
// printed, plus assertions about the decoded query. Scenarios are YAML
// files:
//
//	name: chained_triples
//	description: "An And of two triples prints as a method chain"
//	query_file: queries/chained_triples.json
//	fluent: true
//	indent: 0
//	assertions:
//	  - type: output_contains
//	    text: "Triple("
//	  - type: round_trip
//	  - type: schema_valid
//	  - type: operators
//	    operators: [And, Triple]
//
// The query may be given inline with query: (a JSON string) instead of
// query_file:, which is resolved relative to the scenario file.
//
// A scenario that sets expect_error passes only when decoding or printing
// fails with that error code, for example UNKNOWN_OPERATOR.
//
// # Assertion Types
//
//   - output_contains: the printed text contains the given text
//   - round_trip: re-encoding the decoded query and decoding it again
//     yields the same query and the same printed text
//   - schema_valid: the document passes the CUE schema
//   - operators: the query uses exactly the listed operators
//
// # Golden Files
//
// RunWithGolden compares the printed text against
// testdata/golden/{name}.golden. To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
