package plexers

import (
	"fmt"

	"github.com/sarchlab/logicsim/circuit"
)

// Kind tells which way data flows through a plexer.
type Kind int

const (
	// FanOut is the demultiplexer: one data input, many outputs.
	FanOut Kind = iota

	// FanIn is the multiplexer: many data inputs, one output.
	FanIn
)

func (k Kind) String() string {
	switch k {
	case FanOut:
		return "Demultiplexer"
	case FanIn:
		return "Multiplexer"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Role is the function of a plexer port.
type Role int

const (
	// RoleData is one of the 2^s ports on the wide side.
	RoleData Role = iota
	RoleSelect
	RoleEnable
	// RoleShared is the single data port on the narrow side.
	RoleShared
)

// Slot is a port of a plexer together with what it does.
type Slot struct {
	Role  Role
	Index int
	Port  circuit.Port
}

// SelectPort returns the port index of the selector for the given config.
func SelectPort(c Config) int {
	return c.Ways()
}

// EnablePort returns the port index of the enable input.
func EnablePort(c Config) int {
	return c.Ways() + 1
}

// SharedPort returns the port index of the narrow-side data port.
func SharedPort(c Config) int {
	return c.Ways() + 2
}

// Layout computes the ports of a plexer. The result depends on nothing but
// the arguments, so calling it twice gives the same port set. Ports
// 0..n-1 are the wide side, n is the selector, n+1 the enable input and n+2
// the narrow side, with n = 2^SelectWidth.
//
// A multiplexer is a demultiplexer turned around: its wide side sits where
// the demultiplexer facing the opposite way puts its outputs.
func Layout(k Kind, c Config) []Slot {
	facing := c.Facing
	if k == FanIn {
		facing = facing.Reverse()
	}

	n := c.Ways()
	wide := wideSide(facing, n)

	sel := wide[n]
	en := sel.Translate(facing, -10)

	wideType, sharedType := circuit.Output, circuit.Input
	if k == FanIn {
		wideType, sharedType = circuit.Input, circuit.Output
	}

	slots := make([]Slot, 0, n+3)
	for i := 0; i < n; i++ {
		slots = append(slots, Slot{
			Role:  RoleData,
			Index: i,
			Port: circuit.Port{
				Loc:     wide[i],
				Type:    wideType,
				Width:   c.DataWidth,
				Tooltip: wideTooltip(k, i),
			},
		})
	}

	slots = append(slots,
		Slot{
			Role:  RoleSelect,
			Index: -1,
			Port: circuit.Port{
				Loc:     sel,
				Type:    circuit.Input,
				Width:   c.SelectWidth,
				Tooltip: "selection input",
			},
		},
		Slot{
			Role:  RoleEnable,
			Index: -1,
			Port: circuit.Port{
				Loc:     en,
				Type:    circuit.Input,
				Width:   1,
				Tooltip: "enable input",
			},
		},
		Slot{
			Role:  RoleShared,
			Index: -1,
			Port: circuit.Port{
				Loc:     circuit.Loc(0, 0),
				Type:    sharedType,
				Width:   c.DataWidth,
				Tooltip: sharedTooltip(k),
			},
		},
	)

	return slots
}

// Ports returns just the ports of Layout.
func Ports(k Kind, c Config) []circuit.Port {
	slots := Layout(k, c)

	ports := make([]circuit.Port, len(slots))
	for i, s := range slots {
		ports[i] = s.Port
	}

	return ports
}

// wideSide returns the locations of the n wide-side ports followed by the
// selector location.
func wideSide(facing circuit.Direction, n int) []circuit.Location {
	locs := make([]circuit.Location, 0, n+1)

	if n == 2 {
		switch facing {
		case circuit.West:
			return append(locs,
				circuit.Loc(-30, -10), circuit.Loc(-30, 10), circuit.Loc(-20, 20))
		case circuit.North:
			return append(locs,
				circuit.Loc(-10, -30), circuit.Loc(10, -30), circuit.Loc(-20, -20))
		case circuit.South:
			return append(locs,
				circuit.Loc(-10, 30), circuit.Loc(10, 30), circuit.Loc(-20, 20))
		default:
			return append(locs,
				circuit.Loc(30, -10), circuit.Loc(30, 10), circuit.Loc(20, 20))
		}
	}

	dx := -(n / 2) * 10
	ddx := 10
	dy := dx
	ddy := 10

	var sel circuit.Location
	switch facing {
	case circuit.West:
		dx, ddx = -40, 0
		sel = circuit.Loc(-20, dy+10*n)
	case circuit.North:
		dy, ddy = -40, 0
		sel = circuit.Loc(dx, -20)
	case circuit.South:
		dy, ddy = 40, 0
		sel = circuit.Loc(dx, 20)
	default:
		dx, ddx = 40, 0
		sel = circuit.Loc(20, dy+10*n)
	}

	for i := 0; i < n; i++ {
		locs = append(locs, circuit.Loc(dx, dy))
		dx += ddx
		dy += ddy
	}

	return append(locs, sel)
}

func wideTooltip(k Kind, i int) string {
	if k == FanIn {
		return fmt.Sprintf("input %d", i)
	}

	return fmt.Sprintf("output %d", i)
}

func sharedTooltip(k Kind) string {
	if k == FanIn {
		return "output"
	}

	return "data input"
}
