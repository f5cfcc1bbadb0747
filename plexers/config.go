// Package plexers implements the multiplexer and demultiplexer components.
//
// Both are the same decoder seen from two sides: a demultiplexer fans one
// data input out to 2^s outputs, a multiplexer fans 2^s data inputs in to one
// output. In both cases the selector picks the active data port, an enable
// input can switch the component off, and every port that is not active
// receives a default value that depends on the tri-state and disabled-output
// attributes.
package plexers

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/sarchlab/logicsim/circuit"
	"github.com/sarchlab/logicsim/signal"
	"github.com/sarchlab/logicsim/timing"
)

// Selector width bounds.
const (
	MinSelectWidth = 1
	MaxSelectWidth = 5
)

// DefaultDelay is the propagation delay of a plexer.
const DefaultDelay timing.VTimeInCycle = 3

// DisabledPolicy is what the data ports carry while the enable input is low.
type DisabledPolicy int

const (
	// Floating leaves the data ports unknown.
	Floating DisabledPolicy = iota

	// Zero forces the data ports to 0.
	Zero
)

func (p DisabledPolicy) String() string {
	switch p {
	case Floating:
		return "floating"
	case Zero:
		return "zero"
	}

	return fmt.Sprintf("DisabledPolicy(%d)", int(p))
}

// ParseDisabledPolicy reads a policy name as printed by String.
func ParseDisabledPolicy(s string) (DisabledPolicy, error) {
	switch s {
	case "floating":
		return Floating, nil
	case "zero":
		return Zero, nil
	}

	return Floating, errors.Wrapf(circuit.ErrInvalidConfiguration,
		"disabled output policy %q", s)
}

// Config holds the attributes of a plexer.
type Config struct {
	Facing      circuit.Direction
	SelectWidth int
	DataWidth   int
	TriState    bool
	Disabled    DisabledPolicy
	Delay       timing.VTimeInCycle
}

// DefaultConfig returns the attributes a plexer gets when it is placed.
func DefaultConfig() Config {
	return Config{
		Facing:      circuit.East,
		SelectWidth: 1,
		DataWidth:   1,
		TriState:    false,
		Disabled:    Floating,
		Delay:       DefaultDelay,
	}
}

// Validate rejects attributes the plexers do not support.
func (c Config) Validate() error {
	if !c.Facing.Valid() {
		return errors.Wrapf(circuit.ErrInvalidConfiguration, "facing %s", c.Facing)
	}

	if c.SelectWidth < MinSelectWidth || c.SelectWidth > MaxSelectWidth {
		return errors.Wrapf(circuit.ErrInvalidConfiguration,
			"select width %d not in [%d, %d]",
			c.SelectWidth, MinSelectWidth, MaxSelectWidth)
	}

	if c.DataWidth < 1 || c.DataWidth > signal.MaxWidth {
		return errors.Wrapf(circuit.ErrInvalidConfiguration,
			"data width %d not in [1, %d]", c.DataWidth, signal.MaxWidth)
	}

	if c.Disabled != Floating && c.Disabled != Zero {
		return errors.Wrapf(circuit.ErrInvalidConfiguration,
			"disabled output policy %s", c.Disabled)
	}

	if c.Delay < 1 {
		return errors.Wrapf(circuit.ErrInvalidConfiguration, "delay %d", c.Delay)
	}

	return nil
}

// Ways returns the number of data ports on the wide side, 2^SelectWidth.
func (c Config) Ways() int {
	return 1 << uint(c.SelectWidth)
}

// Classify tells how moving from old to next affects a placed plexer. Facing
// and widths move or resize ports; the tri-state, disabled-output and delay
// attributes only change the computed values.
func Classify(old, next Config) circuit.Change {
	if old.Facing != next.Facing ||
		old.SelectWidth != next.SelectWidth ||
		old.DataWidth != next.DataWidth {
		return circuit.ShapeChanged
	}

	if old.TriState != next.TriState ||
		old.Disabled != next.Disabled ||
		old.Delay != next.Delay {
		return circuit.BehaviorChanged
	}

	return circuit.NoChange
}
