package interp

import (
	"fmt"

	"github.com/emberlang/ember/lexer"
)

// ResolutionError covers unknown identifiers, redeclaration in a scope, and
// assignment to a CONST or FUNCTION entry (spec §7).
type ResolutionError struct{ Message string }

func (e *ResolutionError) Error() string { return e.Message }

// TypeError covers an operator applied to disallowed operand shapes, a
// non-bool/non-nothing condition, and an unhashable dict key.
type TypeError struct{ Message string }

func (e *TypeError) Error() string { return e.Message }

// ArityError covers a call-site argument count mismatch.
type ArityError struct{ Message string }

func (e *ArityError) Error() string { return e.Message }

// BoundsError covers a vector or string index out of range.
type BoundsError struct{ Message string }

func (e *BoundsError) Error() string { return e.Message }

// ImportError covers a missing module file or a malformed module (its root
// is not TOP_LEVEL).
type ImportError struct{ Message string }

func (e *ImportError) Error() string { return e.Message }

// InternalError covers a structurally malformed AST reaching the evaluator,
// e.g. a node with the wrong number or kind of children for its Kind.
type InternalError struct{ Message string }

func (e *InternalError) Error() string { return e.Message }

// RuntimeError annotates the first error produced while evaluating a given
// node with that node's source position. eval_node attaches this exactly
// once, at the innermost node where the error originated, so nested
// propagation back up through enclosing blocks/calls does not re-wrap it.
type RuntimeError struct {
	Err      error
	Position lexer.Position
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("Runtime error encountered at line %d, column %d: %s", e.Position.Line, e.Position.Column, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }
