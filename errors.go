package repeatindex

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameter   = errors.New("repeatindex: invalid parameter")
	ErrCapacityExceeded   = errors.New("repeatindex: text too large to index")
	ErrInvariantViolation = errors.New("repeatindex: invariant violated")
)

// ParamError reports a query or counter parameter outside its allowed range.
// It matches ErrInvalidParameter with errors.Is.
type ParamError struct {
	Param      string
	Constraint string
	Value      any
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("repeatindex: invalid %s=%v: must be %s", e.Param, e.Value, e.Constraint)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}

// CheckAtLeast returns a *ParamError when value < lower.
func CheckAtLeast(param string, value, lower int) error {
	if value < lower {
		return &ParamError{Param: param, Constraint: fmt.Sprintf(">= %d", lower), Value: value}
	}
	return nil
}

// CheckRange returns a *ParamError when value is outside [lower, upper].
func CheckRange(param string, value, lower, upper int) error {
	if value < lower || value > upper {
		return &ParamError{Param: param, Constraint: fmt.Sprintf("in [%d, %d]", lower, upper), Value: value}
	}
	return nil
}

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}
