package woql

import (
	"errors"
	"fmt"
	"strings"
)

// Code categorizes builder, codec and printer errors.
type Code string

const (
	// CodeInvalidLiteral indicates an unrecognized or contradictory datatype.
	CodeInvalidLiteral Code = "INVALID_LITERAL"

	// CodeInvalidArgumentStructure indicates a slot value that is neither a
	// literal, a variable nor a node reference of the right shape.
	CodeInvalidArgumentStructure Code = "INVALID_ARGUMENT_STRUCTURE"

	// CodeInvalidPathPattern indicates a path pattern that does not parse.
	CodeInvalidPathPattern Code = "INVALID_PATH_PATTERN"

	// CodeParameterError indicates wrong arity or argument type for a call.
	CodeParameterError Code = "PARAMETER_ERROR"

	// CodeUnknownOperator indicates an operator with no table entry.
	CodeUnknownOperator Code = "UNKNOWN_OPERATOR"
)

// Error is a single problem found while building, decoding or printing.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Op is the operator (or helper) the problem was found in, if any.
	Op string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	sb.WriteString(": ")
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code Code, op, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Message: fmt.Sprintf(format, args...)}
}

// asError returns err as an *Error, wrapping foreign errors as
// structural problems.
func asError(err error) *Error {
	var we *Error
	if errors.As(err, &we) {
		return we
	}
	return &Error{Code: CodeInvalidArgumentStructure, Message: "invalid argument", Err: err}
}

// BuildError aggregates every error accumulated on a Builder.
type BuildError struct {
	Errs []*Error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if len(e.Errs) == 1 {
		return "woql: " + e.Errs[0].Error()
	}
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("woql: %d errors: %s", len(e.Errs), strings.Join(msgs, "; "))
}

// Unwrap exposes every aggregated error to errors.Is and errors.As.
func (e *BuildError) Unwrap() []error {
	errs := make([]error, len(e.Errs))
	for i, err := range e.Errs {
		errs[i] = err
	}
	return errs
}

// HasCode reports whether err, or any error it wraps, is an *Error with
// the given code.
func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	var we *Error
	if errors.As(err, &we) && we.Code == code {
		return true
	}
	// errors.As stops at the first *Error; a BuildError may hold several.
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if HasCode(inner, code) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return HasCode(u.Unwrap(), code)
	}
	return false
}

// IsInvalidLiteral returns true if err carries CodeInvalidLiteral.
func IsInvalidLiteral(err error) bool { return HasCode(err, CodeInvalidLiteral) }

// IsInvalidArgumentStructure returns true if err carries CodeInvalidArgumentStructure.
func IsInvalidArgumentStructure(err error) bool {
	return HasCode(err, CodeInvalidArgumentStructure)
}

// IsInvalidPathPattern returns true if err carries CodeInvalidPathPattern.
func IsInvalidPathPattern(err error) bool { return HasCode(err, CodeInvalidPathPattern) }

// IsParameterError returns true if err carries CodeParameterError.
func IsParameterError(err error) bool { return HasCode(err, CodeParameterError) }

// IsUnknownOperator returns true if err carries CodeUnknownOperator.
func IsUnknownOperator(err error) bool { return HasCode(err, CodeUnknownOperator) }
