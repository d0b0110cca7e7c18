package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a body state containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidMass indicates a body constructed with non-positive mass.
	ErrInvalidMass = errors.New("dynamo: mass must be positive")

	// ErrInvalidRadius indicates a body constructed with non-positive radius.
	ErrInvalidRadius = errors.New("dynamo: radius must be positive")

	// ErrUnknownBody indicates a handle that does not belong to the world.
	ErrUnknownBody = errors.New("dynamo: unknown body handle")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Handle  Handle
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("body %d step %d (t=%.4f): %v", e.Handle, e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
