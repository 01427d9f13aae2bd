package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrInvalidState indicates a body set containing NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates per-body sequences of unequal length.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between body sequences")

	// ErrFinished indicates a step was requested after the run terminated.
	ErrFinished = errors.New("dynamo: simulation already finished")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Bodies  int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (%d bodies): %v", e.Step, e.Bodies, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
