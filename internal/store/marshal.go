package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/woql/internal/ir"
)

// marshalAST converts a query AST to canonical JSON TEXT for storage.
// Uses RFC 8785 canonical JSON so equal queries store byte-identical text.
func marshalAST(ast ir.IRObject) (string, error) {
	data, err := ir.MarshalCanonical(ast)
	if err != nil {
		return "", fmt.Errorf("marshal ast: %w", err)
	}
	return string(data), nil
}

// unmarshalAST parses canonical JSON TEXT to IRObject.
// Uses ir.IRObject.UnmarshalJSON, which keeps decimal literals as exact
// text and large integers without float64 precision loss.
func unmarshalAST(data string) (ir.IRObject, error) {
	if data == "" {
		return nil, fmt.Errorf("unmarshal ast: empty column")
	}
	var obj ir.IRObject
	if err := json.Unmarshal([]byte(data), &obj); err != nil {
		return nil, fmt.Errorf("unmarshal ast: %w", err)
	}
	return obj, nil
}
