package cmd

import (
	"fmt"

	"github.com/sarchlab/logicsim/circuit"
	"github.com/sarchlab/logicsim/gates"
	"github.com/sarchlab/logicsim/plexers"
)

// plexerOrigin is where the demo circuits place their plexer.
var plexerOrigin = circuit.Loc(100, 100)

// pinName names the pin the demo circuit attaches to a plexer port.
func pinName(k plexers.Kind, s plexers.Slot) string {
	switch s.Role {
	case plexers.RoleSelect:
		return "sel"
	case plexers.RoleEnable:
		return "en"
	case plexers.RoleShared:
		if k == plexers.FanOut {
			return "data"
		}

		return "out"
	}

	if k == plexers.FanOut {
		return fmt.Sprintf("out%d", s.Index)
	}

	return fmt.Sprintf("in%d", s.Index)
}

// PlexerCircuit builds a circuit holding one plexer with a pin on each of
// its ports. Input ports get input pins and output ports get output pins.
func PlexerCircuit(k plexers.Kind, cfg plexers.Config) (*circuit.Circuit, error) {
	p, err := plexers.New(k, cfg)
	if err != nil {
		return nil, err
	}

	c := circuit.NewCircuit(fmt.Sprintf("%s demo", k))
	c.MustAdd("plexer", plexerOrigin, p)

	for _, slot := range plexers.Layout(k, cfg) {
		loc := plexerOrigin.Add(slot.Port.Loc)
		name := pinName(k, slot)

		if slot.Port.Type == circuit.Output {
			c.MustAdd(name, loc, circuit.NewOutputPin(name, slot.Port.Width))
		} else {
			c.MustAdd(name, loc, circuit.NewInputPin(name, slot.Port.Width))
		}
	}

	return c, nil
}

func gate(k gates.Kind) *gates.Gate {
	return gates.MustNew(k, gates.DefaultConfig())
}

// halfAdder adds a and b into s and the carry c.
func halfAdder() *circuit.Circuit {
	c := circuit.NewCircuit("half adder")
	c.MustAdd("a", circuit.Loc(0, 0), circuit.NewInputPin("a", 1))
	c.MustAdd("b", circuit.Loc(0, 10), circuit.NewInputPin("b", 1))
	c.MustAdd("xor", circuit.Loc(40, 0), gate(gates.Xor))
	c.MustAdd("and", circuit.Loc(40, 30), gate(gates.And))
	c.MustAdd("s", circuit.Loc(40, 0), circuit.NewOutputPin("s", 1))
	c.MustAdd("c", circuit.Loc(40, 30), circuit.NewOutputPin("c", 1))

	c.Connect(circuit.Loc(0, 0), circuit.Loc(10, -10))
	c.Connect(circuit.Loc(0, 0), circuit.Loc(10, 20))
	c.Connect(circuit.Loc(0, 10), circuit.Loc(10, 0))
	c.Connect(circuit.Loc(0, 10), circuit.Loc(10, 30))

	return c
}

// fullAdder chains two half adders. Its sub-circuit ports are a, b, cin on
// the left and s, cout on the right.
func fullAdder(ha *circuit.Circuit) *circuit.Circuit {
	c := circuit.NewCircuit("full adder")
	c.MustAdd("a", circuit.Loc(100, 0), circuit.NewInputPin("a", 1))
	c.MustAdd("b", circuit.Loc(100, 10), circuit.NewInputPin("b", 1))
	c.MustAdd("cin", circuit.Loc(50, 60), circuit.NewInputPin("cin", 1))
	c.MustAdd("ha1", circuit.Loc(100, 0), circuit.NewSubCircuit(ha))
	c.MustAdd("ha2", circuit.Loc(200, 0), circuit.NewSubCircuit(ha))
	c.MustAdd("or", circuit.Loc(300, 50), gate(gates.Or))
	c.MustAdd("s", circuit.Loc(240, 0), circuit.NewOutputPin("s", 1))
	c.MustAdd("cout", circuit.Loc(300, 50), circuit.NewOutputPin("cout", 1))

	c.Connect(circuit.Loc(50, 60), circuit.Loc(200, 10))
	c.Connect(circuit.Loc(140, 0), circuit.Loc(200, 0))
	c.Connect(circuit.Loc(140, 10), circuit.Loc(270, 40))
	c.Connect(circuit.Loc(240, 10), circuit.Loc(270, 50))

	return c
}

// adder2 adds two 2-bit numbers a1a0 and b1b0 into c s1 s0.
func adder2(ha, fa *circuit.Circuit) *circuit.Circuit {
	c := circuit.NewCircuit("adder2")
	c.MustAdd("a0", circuit.Loc(100, 0), circuit.NewInputPin("a0", 1))
	c.MustAdd("b0", circuit.Loc(100, 10), circuit.NewInputPin("b0", 1))
	c.MustAdd("a1", circuit.Loc(300, 0), circuit.NewInputPin("a1", 1))
	c.MustAdd("b1", circuit.Loc(300, 10), circuit.NewInputPin("b1", 1))
	c.MustAdd("low", circuit.Loc(100, 0), circuit.NewSubCircuit(ha))
	c.MustAdd("high", circuit.Loc(300, 0), circuit.NewSubCircuit(fa))
	c.MustAdd("s0", circuit.Loc(140, 0), circuit.NewOutputPin("s0", 1))
	c.MustAdd("s1", circuit.Loc(340, 0), circuit.NewOutputPin("s1", 1))
	c.MustAdd("c", circuit.Loc(340, 10), circuit.NewOutputPin("c", 1))

	c.Connect(circuit.Loc(140, 10), circuit.Loc(300, 20))

	return c
}

// AdderFile returns a project file declaring a half adder, a full adder
// built from two half adders, and a 2-bit adder built from both.
func AdderFile() *circuit.Library {
	ha := halfAdder()
	fa := fullAdder(ha)
	top := adder2(ha, fa)

	return &circuit.Library{
		Name:      "adders",
		Factories: []circuit.Factory{ha, fa, top},
		Libraries: []*circuit.Library{
			circuit.Wiring(),
			gates.Library(),
			plexers.Library(),
		},
	}
}
