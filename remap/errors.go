package remap

import (
	"errors"
	"fmt"
)

// Configuration errors, surfaced before any table mutation.
var (
	ErrDuplicateColumn     = errors.New("column name already exists")
	ErrMissingInput        = errors.New("missing required input")
	ErrAmbiguousColumn     = errors.New("both new column name and replace target given")
	ErrUnmappedSplitColumn = errors.New("split column has no source column mapped")
)

// SyntaxError reports a formula that could not be parsed after substitution.
type SyntaxError struct {
	Formula string
	Reason  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("formula syntax error in %q: %s", e.Formula, e.Reason)
}

// EvalError reports a formula that parsed but produced no finite number.
type EvalError struct {
	Formula string
	Reason  string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("formula evaluation error in %q: %s", e.Formula, e.Reason)
}
