package circuit

// Spacing between the ports of a sub-circuit.
const subCircuitPortPitch = 10

// Horizontal distance between the input and the output side of a
// sub-circuit.
const subCircuitWidth = 40

// A SubCircuit places a circuit inside another one. Its ports follow the
// pins of the inner circuit: inputs on the left edge, outputs on the right,
// both in pin order.
type SubCircuit struct {
	circuit *Circuit
	pins    []*Instance
	ports   []Port
}

// NewSubCircuit creates a component instantiating c. The port set is fixed
// from the pins c has at this point.
func NewSubCircuit(c *Circuit) *SubCircuit {
	s := &SubCircuit{circuit: c, pins: c.Pins()}

	inputs, outputs := 0, 0
	for _, inst := range s.pins {
		pin := inst.comp.(*Pin)

		var loc Location
		if pin.IsInput() {
			loc = Loc(0, inputs*subCircuitPortPitch)
			inputs++
		} else {
			loc = Loc(subCircuitWidth, outputs*subCircuitPortPitch)
			outputs++
		}

		t := Output
		if pin.IsInput() {
			t = Input
		}

		s.ports = append(s.ports, Port{
			Loc:     loc,
			Type:    t,
			Width:   pin.Width(),
			Tooltip: pin.Label(),
		})
	}

	return s
}

// Circuit returns the instantiated circuit.
func (s *SubCircuit) Circuit() *Circuit { return s.circuit }

// Factory returns the instantiated circuit.
func (s *SubCircuit) Factory() Factory { return s.circuit }

// Ports returns one port per pin of the inner circuit.
func (s *SubCircuit) Ports() []Port { return append([]Port(nil), s.ports...) }

// Propagate does nothing. The simulator flattens sub-circuits, so their
// behaviour comes from the inner components.
func (s *SubCircuit) Propagate(State) Result { return Result{} }
