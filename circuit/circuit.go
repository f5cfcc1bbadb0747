// Package circuit models circuits as placed components joined by wires, and
// simulates them on top of the timing engine.
package circuit

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/sarchlab/logicsim/idgen"
)

// An Instance is a component placed in a circuit.
type Instance struct {
	id   string
	name string
	loc  Location
	comp Component
}

// ID returns the unique identifier of the instance.
func (i *Instance) ID() string {
	return i.id
}

// Name returns the name of the instance, unique within its circuit.
func (i *Instance) Name() string {
	return i.name
}

// Loc returns where the instance is placed.
func (i *Instance) Loc() Location {
	return i.loc
}

// Component returns the current behaviour of the instance.
func (i *Instance) Component() Component {
	return i.comp
}

// Factory returns the kind of the instance.
func (i *Instance) Factory() Factory {
	return i.comp.Factory()
}

// A Wire joins two locations of a circuit.
type Wire struct {
	From, To Location
}

// A Circuit is a set of placed components and the wires between them. A
// circuit is also a Factory: placing a SubCircuit of it inside another
// circuit instantiates it.
type Circuit struct {
	name      string
	instances []*Instance
	byName    map[string]*Instance
	wires     []Wire
}

// NewCircuit creates an empty circuit.
func NewCircuit(name string) *Circuit {
	NameMustBeValid(name)

	return &Circuit{
		name:   name,
		byName: make(map[string]*Instance),
	}
}

// NameMustBeValid panics if name cannot be used for a circuit or an
// instance. Names are joined with "/" into instance paths, so they must not
// contain one.
func NameMustBeValid(name string) {
	if name == "" {
		panic("name must not be empty")
	}

	if strings.Contains(name, PathSeparator) {
		panic("name " + name + " must not contain " + PathSeparator)
	}
}

// Name returns the name of the circuit.
func (c *Circuit) Name() string {
	return c.name
}

// Add places a component at loc.
func (c *Circuit) Add(name string, loc Location, comp Component) (*Instance, error) {
	NameMustBeValid(name)

	if _, found := c.byName[name]; found {
		return nil, errors.Wrapf(ErrDuplicateName, "%s in circuit %s", name, c.name)
	}

	inst := &Instance{
		id:   idgen.Get().Generate(),
		name: name,
		loc:  loc,
		comp: comp,
	}
	c.instances = append(c.instances, inst)
	c.byName[name] = inst

	return inst, nil
}

// MustAdd is like Add but panics on error.
func (c *Circuit) MustAdd(name string, loc Location, comp Component) *Instance {
	inst, err := c.Add(name, loc, comp)
	if err != nil {
		panic(err)
	}

	return inst
}

// Connect adds a wire between two locations.
func (c *Circuit) Connect(from, to Location) {
	c.wires = append(c.wires, Wire{From: from, To: to})
}

// Wires returns the wires of the circuit.
func (c *Circuit) Wires() []Wire {
	return append([]Wire(nil), c.wires...)
}

// NonWires returns every placed component, in the order they were added.
func (c *Circuit) NonWires() []*Instance {
	return append([]*Instance(nil), c.instances...)
}

// Instance returns the instance with the given name.
func (c *Circuit) Instance(name string) (*Instance, bool) {
	inst, found := c.byName[name]
	return inst, found
}

// Pins returns the pin instances of the circuit in the order they were
// added. They form the interface of the circuit when it is used as a
// sub-circuit.
func (c *Circuit) Pins() []*Instance {
	var pins []*Instance

	for _, inst := range c.instances {
		if _, ok := inst.comp.(*Pin); ok {
			pins = append(pins, inst)
		}
	}

	return pins
}

// Reconfigure replaces the behaviour of an instance and reports what kind of
// change it was. Running simulators keep their own copy of the circuit and
// are reconfigured through Simulator.Reconfigure.
func (c *Circuit) Reconfigure(name string, comp Component) (Change, error) {
	inst, found := c.byName[name]
	if !found {
		return NoChange, errors.Wrapf(ErrUnknownInstance, "%s in circuit %s", name, c.name)
	}

	change := Classify(inst.comp, comp)
	inst.comp = comp

	return change, nil
}
