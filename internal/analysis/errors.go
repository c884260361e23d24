package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfOrder means a producer appended to a line before the current
	// tail line. The pass must be abandoned.
	ErrOutOfOrder = errors.New("span appended out of line order")

	// ErrColumnOrder means a span did not start after the previous span on
	// its line. Only reported when column checks are enabled.
	ErrColumnOrder = errors.New("span column does not increase")

	// ErrInvalidRange means a line, column or offset was outside its bounds.
	ErrInvalidRange = errors.New("position out of range")

	// ErrFinalized means a result was mutated after Determine.
	ErrFinalized = errors.New("analysis result already finalized")
)

// OutOfOrderError reports the offending line and the tail it fell behind.
type OutOfOrderError struct {
	Line int
	Tail int
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("%v: line %d is before current line %d", ErrOutOfOrder, e.Line, e.Tail)
}

func (e *OutOfOrderError) Is(target error) bool { return target == ErrOutOfOrder }

// ColumnOrderError reports a non-increasing column on one line.
type ColumnOrderError struct {
	Line     int
	Column   int
	Previous int
}

func (e *ColumnOrderError) Error() string {
	return fmt.Sprintf("%v: line %d column %d after column %d", ErrColumnOrder, e.Line, e.Column, e.Previous)
}

func (e *ColumnOrderError) Is(target error) bool { return target == ErrColumnOrder }

// InvalidRangeError reports a value outside [Min, Max]. Max < 0 means unbounded.
type InvalidRangeError struct {
	What  string
	Value int
	Min   int
	Max   int
}

func (e *InvalidRangeError) Error() string {
	if e.Max < 0 {
		return fmt.Sprintf("%v: %s %d, want >= %d", ErrInvalidRange, e.What, e.Value, e.Min)
	}
	return fmt.Sprintf("%v: %s %d, want %d..%d", ErrInvalidRange, e.What, e.Value, e.Min, e.Max)
}

func (e *InvalidRangeError) Is(target error) bool { return target == ErrInvalidRange }
