package circuit

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/logicsim/signal"
)

type pinFactory struct{}

func (pinFactory) Name() string { return "Pin" }

// PinFactory is the factory of all pins.
var PinFactory Factory = &pinFactory{}

// A Pin is an interface point of a circuit. Input pins are driven from the
// outside with Simulator.Drive; output pins expose a net to the outside.
// Inside a sub-circuit, pins are transparent joints to the enclosing circuit.
type Pin struct {
	input bool
	width int
	label string
}

func newPin(input bool, label string, width int) *Pin {
	if width < 1 || width > signal.MaxWidth {
		panic(errors.Wrapf(ErrInvalidConfiguration, "pin %s: width %d", label, width))
	}

	return &Pin{input: input, width: width, label: label}
}

// NewInputPin creates an input pin.
func NewInputPin(label string, width int) *Pin {
	return newPin(true, label, width)
}

// NewOutputPin creates an output pin.
func NewOutputPin(label string, width int) *Pin {
	return newPin(false, label, width)
}

// IsInput tells if the pin is an input of its circuit.
func (p *Pin) IsInput() bool { return p.input }

// Width returns the bus width of the pin.
func (p *Pin) Width() int { return p.width }

// Label returns the label of the pin.
func (p *Pin) Label() string { return p.label }

// Factory returns PinFactory.
func (p *Pin) Factory() Factory { return PinFactory }

// Ports returns the single port of the pin. An input pin drives its net; an
// output pin reads it.
func (p *Pin) Ports() []Port {
	t := Input
	if p.input {
		t = Output
	}

	return []Port{{Loc: Location{}, Type: t, Width: p.width, Tooltip: p.label}}
}

// Propagate does nothing. Input pins change only when driven.
func (p *Pin) Propagate(State) Result {
	return Result{}
}
