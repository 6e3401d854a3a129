// Package ir provides the JSON value model used to carry WOQL ASTs.
//
// Every AST produced by the builder is lowered to IRValue trees before it
// is serialised, and every AST read from disk or the wire is decoded into
// IRValue trees before it is lifted back into woql.Query nodes. ir imports
// nothing internal.
//
// Key constraints:
//   - Numbers are either IRInt or IRDecimal; decimals keep their exact
//     lexical form so literals survive a round trip byte-for-byte
//   - Object keys serialise in RFC 8785 order (UTF-16 code units)
//   - MarshalCanonical is the only serialisation used for content hashes
package ir
