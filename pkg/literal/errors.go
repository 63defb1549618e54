package literal

import (
	"errors"
	"fmt"

	"github.com/yaklabco/rbfix/pkg/ast"
)

var (
	// ErrUnevaluableLiteral is returned when a node is not a literal the
	// evaluator understands.
	ErrUnevaluableLiteral = errors.New("unevaluable literal")

	// ErrUnsupportedDelimiter is returned when a container's delimiter is
	// not a recognized string, symbol, regexp or word-list opener.
	ErrUnsupportedDelimiter = errors.New("unsupported delimiter")
)

// EvalError reports the node that could not be evaluated.
type EvalError struct {
	Kind   ast.NodeKind
	Source string
	Reason string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot evaluate %s %q: %s", e.Kind, e.Source, e.Reason)
	}
	return fmt.Sprintf("cannot evaluate %s %q", e.Kind, e.Source)
}

// Unwrap allows errors.Is(err, ErrUnevaluableLiteral).
func (e *EvalError) Unwrap() error {
	return ErrUnevaluableLiteral
}

// DelimiterError reports an unrecognized container delimiter.
type DelimiterError struct {
	Delimiter string
}

// Error implements the error interface.
func (e *DelimiterError) Error() string {
	if e.Delimiter == "" {
		return "no delimited container"
	}
	return fmt.Sprintf("unsupported delimiter %q", e.Delimiter)
}

// Unwrap allows errors.Is(err, ErrUnsupportedDelimiter).
func (e *DelimiterError) Unwrap() error {
	return ErrUnsupportedDelimiter
}
