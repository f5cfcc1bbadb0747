package circuit

import "fmt"

// PortType tells which way signals flow through a port.
type PortType int

// Port types.
const (
	Input PortType = iota
	Output
	InOut
)

func (t PortType) String() string {
	switch t {
	case Input:
		return "input"
	case Output:
		return "output"
	case InOut:
		return "inout"
	}

	return fmt.Sprintf("PortType(%d)", int(t))
}

// Drives tells if a port of this type can put a value on its net.
func (t PortType) Drives() bool {
	return t == Output || t == InOut
}

// Reads tells if a port of this type observes the value of its net.
func (t PortType) Reads() bool {
	return t == Input || t == InOut
}

// A Port is a connection point of a component. Loc is relative to the
// component's own location and only serves to identify which net the port
// joins.
type Port struct {
	Loc     Location
	Type    PortType
	Width   int
	Tooltip string
}

// PortsEqual tells if two port sets have the same arity, and the same
// location, type and width at every index. Tooltips are ignored.
func PortsEqual(a, b []Port) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i].Loc != b[i].Loc ||
			a[i].Type != b[i].Type ||
			a[i].Width != b[i].Width {
			return false
		}
	}

	return true
}
