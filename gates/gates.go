// Package gates provides constants and the basic logic gates.
package gates

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/logicsim/circuit"
	"github.com/sarchlab/logicsim/signal"
	"github.com/sarchlab/logicsim/timing"
)

// DefaultDelay is the propagation delay of a gate.
const DefaultDelay timing.VTimeInCycle = 1

// MaxInputs is the largest fan-in of a gate.
const MaxInputs = 32

type factory struct {
	name string
}

func (f *factory) Name() string { return f.name }

// Factories of the gates library.
var (
	ConstantFactory circuit.Factory = &factory{name: "Constant"}
	NotFactory      circuit.Factory = &factory{name: "NOT Gate"}
	AndFactory      circuit.Factory = &factory{name: "AND Gate"}
	OrFactory       circuit.Factory = &factory{name: "OR Gate"}
	XorFactory      circuit.Factory = &factory{name: "XOR Gate"}
)

// Library returns the gates library.
func Library() *circuit.Library {
	return &circuit.Library{
		Name: "Gates",
		Factories: []circuit.Factory{
			ConstantFactory, NotFactory, AndFactory, OrFactory, XorFactory,
		},
	}
}

// Kind selects the logic function of a gate.
type Kind int

// Gate kinds.
const (
	Not Kind = iota
	And
	Or
	Xor
)

func (k Kind) factory() circuit.Factory {
	switch k {
	case Not:
		return NotFactory
	case And:
		return AndFactory
	case Or:
		return OrFactory
	default:
		return XorFactory
	}
}

// Config holds the attributes of a gate.
type Config struct {
	Width  int
	Inputs int
	Delay  timing.VTimeInCycle
}

// DefaultConfig returns a one-bit, two-input gate.
func DefaultConfig() Config {
	return Config{Width: 1, Inputs: 2, Delay: DefaultDelay}
}

// Validate checks the attributes of a gate of kind k.
func (c Config) Validate(k Kind) error {
	if k < Not || k > Xor {
		return errors.Wrapf(circuit.ErrInvalidConfiguration, "gate kind %d", k)
	}

	if c.Width < 1 || c.Width > signal.MaxWidth {
		return errors.Wrapf(circuit.ErrInvalidConfiguration, "gate width %d", c.Width)
	}

	if k != Not && (c.Inputs < 2 || c.Inputs > MaxInputs) {
		return errors.Wrapf(circuit.ErrInvalidConfiguration, "gate inputs %d", c.Inputs)
	}

	if c.Delay < 1 {
		return errors.Wrapf(circuit.ErrInvalidConfiguration, "gate delay %d", c.Delay)
	}

	return nil
}

// A Gate computes a logic function of its inputs. Port 0 is the output, the
// inputs follow.
type Gate struct {
	kind  Kind
	cfg   Config
	ports []circuit.Port
}

// New creates a gate.
func New(k Kind, cfg Config) (*Gate, error) {
	if k == Not {
		cfg.Inputs = 1
	}

	if err := cfg.Validate(k); err != nil {
		return nil, err
	}

	g := &Gate{kind: k, cfg: cfg}
	g.ports = append(g.ports, circuit.Port{
		Loc:     circuit.Loc(0, 0),
		Type:    circuit.Output,
		Width:   cfg.Width,
		Tooltip: "output",
	})

	for i := 0; i < cfg.Inputs; i++ {
		g.ports = append(g.ports, circuit.Port{
			Loc:     circuit.Loc(-30, (i-cfg.Inputs/2)*10),
			Type:    circuit.Input,
			Width:   cfg.Width,
			Tooltip: "input",
		})
	}

	return g, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew(k Kind, cfg Config) *Gate {
	g, err := New(k, cfg)
	if err != nil {
		panic(err)
	}

	return g
}

// Kind returns the logic function of the gate.
func (g *Gate) Kind() Kind { return g.kind }

// Config returns the attributes of the gate.
func (g *Gate) Config() Config { return g.cfg }

// Factory returns the factory of the gate kind.
func (g *Gate) Factory() circuit.Factory { return g.kind.factory() }

// Ports returns the output followed by the inputs.
func (g *Gate) Ports() []circuit.Port {
	return append([]circuit.Port(nil), g.ports...)
}

// Propagate computes the output.
func (g *Gate) Propagate(s circuit.State) circuit.Result {
	out := s.Port(1)

	switch g.kind {
	case Not:
		out = out.Not()
	default:
		for i := 2; i <= g.cfg.Inputs; i++ {
			in := s.Port(i)
			switch g.kind {
			case And:
				out = out.And(in)
			case Or:
				out = out.Or(in)
			case Xor:
				out = out.Xor(in)
			}
		}
	}

	return circuit.Result{
		Writes: []circuit.Write{{Port: 0, Value: out}},
		Delay:  g.cfg.Delay,
	}
}

// A Constant drives a fixed value on its only port.
type Constant struct {
	value signal.Value
}

// NewConstant creates a constant driving v.
func NewConstant(v signal.Value) *Constant {
	if v.Width() < 1 {
		panic(errors.Wrap(circuit.ErrInvalidConfiguration, "constant without width"))
	}

	return &Constant{value: v}
}

// Value returns the driven value.
func (c *Constant) Value() signal.Value { return c.value }

// Factory returns ConstantFactory.
func (c *Constant) Factory() circuit.Factory { return ConstantFactory }

// Ports returns the output port.
func (c *Constant) Ports() []circuit.Port {
	return []circuit.Port{{
		Loc:   circuit.Loc(0, 0),
		Type:  circuit.Output,
		Width: c.value.Width(),
	}}
}

// Propagate drives the constant value.
func (c *Constant) Propagate(circuit.State) circuit.Result {
	return circuit.Result{
		Writes: []circuit.Write{{Port: 0, Value: c.value}},
		Delay:  DefaultDelay,
	}
}
