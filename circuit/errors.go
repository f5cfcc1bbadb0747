package circuit

import "github.com/pkg/errors"

var (
	// ErrInvalidConfiguration is returned when a component is configured
	// with attributes it does not support. Component packages wrap it with
	// the offending attribute.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrWidthMismatch is returned when ports of different widths share a
	// net.
	ErrWidthMismatch = errors.New("incompatible widths on net")

	// ErrRecursiveCircuit is returned when a circuit contains itself, directly
	// or through other sub-circuits, and therefore cannot be simulated.
	ErrRecursiveCircuit = errors.New("circuit includes itself")

	// ErrOscillation is returned when the simulation does not reach
	// quiescence within the step limit.
	ErrOscillation = errors.New("oscillation detected")

	// ErrUnknownInstance is returned when an instance name or path cannot be
	// resolved.
	ErrUnknownInstance = errors.New("unknown instance")

	// ErrDuplicateName is returned when two instances of a circuit share a
	// name.
	ErrDuplicateName = errors.New("duplicate instance name")
)
