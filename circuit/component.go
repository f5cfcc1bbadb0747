package circuit

import (
	"github.com/sarchlab/logicsim/signal"
	"github.com/sarchlab/logicsim/timing"
)

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// A Factory identifies a kind of component. Factories are compared by
// identity, so implementations are usually pointers to package-level values.
type Factory interface {
	Named
}

// State is the view of the circuit a component gets while propagating. All
// the values it returns belong to the same instant.
type State interface {
	// Port returns the current value of the net attached to port i.
	Port(i int) signal.Value

	// IsPortConnected tells if anything else than the component itself is
	// attached to the net of port i.
	IsPortConnected(i int) bool
}

// A Write asks the simulator to drive a port with a value.
type Write struct {
	Port  int
	Value signal.Value
}

// Result is what a component asks for after propagating: a set of port writes
// that all take effect after Delay.
type Result struct {
	Writes []Write
	Delay  timing.VTimeInCycle
}

// A Component is the behaviour of a placed element, built from an immutable
// configuration. Propagate must be a pure function of the state it is given:
// the simulator may call it concurrently for different instances.
type Component interface {
	Factory() Factory
	Ports() []Port
	Propagate(s State) Result
}

// Change tells how a reconfiguration affects the simulator.
type Change int

const (
	// NoChange means the new configuration is equivalent to the old one.
	NoChange Change = iota

	// BehaviorChanged means the ports are the same but the outputs must be
	// recomputed.
	BehaviorChanged

	// ShapeChanged means the port set was replaced. Values in flight for the
	// old ports must not reach the new ones.
	ShapeChanged
)

func (c Change) String() string {
	switch c {
	case NoChange:
		return "no change"
	case BehaviorChanged:
		return "behavior changed"
	default:
		return "shape changed"
	}
}

// A Classifier is a component that knows how it differs from a previous
// configuration of itself.
type Classifier interface {
	ChangeFrom(prev Component) Change
}

// Classify tells how replacing prev with next affects a running simulation.
// Components implementing Classifier decide themselves; others are compared
// by their port sets.
func Classify(prev, next Component) Change {
	if c, ok := next.(Classifier); ok {
		return c.ChangeFrom(prev)
	}

	if prev.Factory() != next.Factory() || !PortsEqual(prev.Ports(), next.Ports()) {
		return ShapeChanged
	}

	return BehaviorChanged
}
