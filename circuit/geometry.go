package circuit

import (
	"fmt"

	"github.com/pkg/errors"
)

// Direction is the way a component faces.
type Direction int

// The four facings. East is the default for most components.
const (
	East Direction = iota
	North
	West
	South
)

// Valid tells if d is one of the four facings.
func (d Direction) Valid() bool {
	return d >= East && d <= South
}

// Reverse returns the opposite facing.
func (d Direction) Reverse() Direction {
	switch d {
	case East:
		return West
	case West:
		return East
	case North:
		return South
	default:
		return North
	}
}

// String returns the name of the facing.
func (d Direction) String() string {
	switch d {
	case East:
		return "east"
	case North:
		return "north"
	case West:
		return "west"
	case South:
		return "south"
	}

	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection reads a facing name as printed by String.
func ParseDirection(s string) (Direction, error) {
	for d := East; d <= South; d++ {
		if d.String() == s {
			return d, nil
		}
	}

	return East, errors.Errorf("unknown direction %q", s)
}

// A Location is a point on the circuit grid. Y grows downwards.
type Location struct {
	X, Y int
}

// Loc is a short-hand for Location{x, y}.
func Loc(x, y int) Location {
	return Location{X: x, Y: y}
}

// Add returns the sum of two locations.
func (l Location) Add(o Location) Location {
	return Location{X: l.X + o.X, Y: l.Y + o.Y}
}

// Translate moves the location by dist units towards d.
func (l Location) Translate(d Direction, dist int) Location {
	switch d {
	case East:
		return Location{X: l.X + dist, Y: l.Y}
	case West:
		return Location{X: l.X - dist, Y: l.Y}
	case South:
		return Location{X: l.X, Y: l.Y + dist}
	default:
		return Location{X: l.X, Y: l.Y - dist}
	}
}

func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.X, l.Y)
}
