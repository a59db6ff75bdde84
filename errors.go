package caravel

import (
	"errors"
	"fmt"
)

// Every failure in this package is synchronous and recoverable: operations
// return one of the sentinel errors below (wrapped with context) to the
// immediate caller. Nothing is retried and nothing is silently dropped,
// with one documented exception: DenseView discards null information by
// contract rather than returning an error.
var (
	// ErrUnsupported is returned when no kernel exists for an
	// (operation, dtype) combination.
	ErrUnsupported = errors.New("operation not supported for dtype")

	// ErrDTypeMismatch is returned when two Series with different dtypes
	// are combined where matching dtypes are required.
	ErrDTypeMismatch = errors.New("dtype mismatch")

	// ErrShapeMismatch is returned when an element-wise operation receives
	// operands of unequal length.
	ErrShapeMismatch = errors.New("length mismatch")

	// ErrIndexOutOfRange is returned by Get, Take and Slice for bounds
	// violations.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInferenceFailure is returned when the nullable construction path
	// cannot infer a dtype (all-null input or unrecognized element type).
	ErrInferenceFailure = errors.New("cannot infer dtype")

	// ErrInvalidStrategy is returned by FillNone for an unknown strategy name.
	ErrInvalidStrategy = errors.New("invalid fill strategy")

	// ErrConstructionRejected is returned for input shapes that have no
	// columnar interpretation, such as map-typed elements.
	ErrConstructionRejected = errors.New("construction rejected")
)

// errUnsupported wraps ErrUnsupported with the operation and dtype that missed
// dispatch.
func errUnsupported(op string, dtype DType) error {
	return fmt.Errorf("%w: %s on %s", ErrUnsupported, op, dtype)
}
