// Package checks implements the precondition checks shared by the samplers
// and mechanisms. Every failed check wraps [ErrInvalidArgument].
package checks

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is wrapped by every precondition violation.
var ErrInvalidArgument = errors.New("invalid argument")

// Finite checks that v is neither NaN nor infinite.
func Finite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidArgument, name, v)
	}
	return nil
}

// Positive checks that v is finite and strictly positive.
func Positive(name string, v float64) error {
	if err := Finite(name, v); err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("%w: %s must be strictly positive, got %v", ErrInvalidArgument, name, v)
	}
	return nil
}

// OpenUnit checks that v lies in the open interval (0, 1).
func OpenUnit(name string, v float64) error {
	if math.IsNaN(v) || v <= 0 || v >= 1 {
		return fmt.Errorf("%w: %s must be in (0, 1), got %v", ErrInvalidArgument, name, v)
	}
	return nil
}

// IntInRange checks that min <= v <= max.
func IntInRange(name string, v, min, max int) error {
	if v < min || v > max {
		return fmt.Errorf("%w: %s must be in [%d, %d], got %d", ErrInvalidArgument, name, min, max, v)
	}
	return nil
}

// Count checks that n is non-negative.
func Count(name string, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %s must be non-negative, got %d", ErrInvalidArgument, name, n)
	}
	return nil
}

// FiniteSlice checks that every element of data is finite.
func FiniteSlice(name string, data []float64) error {
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s[%d] must be finite, got %v", ErrInvalidArgument, name, i, v)
		}
	}
	return nil
}
