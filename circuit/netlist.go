package circuit

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/sarchlab/logicsim/signal"
)

// PathSeparator joins the names of nested instances into a path.
const PathSeparator = "/"

// simInstance is a leaf component of the flattened circuit.
type simInstance struct {
	index  int
	path   string
	scope  int
	origin Location
	comp   Component

	// gen changes every time the port set is replaced. Commits carry the
	// generation they were computed for.
	gen     uint64
	ports   []Port
	nets    []int
	drivers []signal.Value
}

func (i *simInstance) portName(port int) string {
	return fmt.Sprintf("%s[%d]", i.path, port)
}

func (i *simInstance) setComponent(comp Component) {
	i.comp = comp
	i.ports = comp.Ports()
	i.nets = make([]int, len(i.ports))
	i.drivers = make([]signal.Value, len(i.ports))
}

type nodeKey struct {
	scope int
	loc   Location
}

type portRef struct {
	inst *simInstance
	port int
}

type net struct {
	id        int
	name      string
	width     int
	endpoints []portRef
	drivers   []portRef
	readers   []*simInstance
	joined    bool
	value     signal.Value
}

// connected tells if anything besides a single port is attached to the net.
func (n *net) connected() bool {
	return n.joined || len(n.endpoints) > 1
}

func (n *net) resolve() signal.Value {
	v := signal.Nil
	for _, d := range n.drivers {
		v = v.Combine(d.inst.drivers[d.port])
	}

	if v == signal.Nil {
		return signal.UnknownOf(n.width)
	}

	return v
}

// flatCircuit is a circuit hierarchy with the sub-circuits expanded. Each
// expanded circuit gets its own scope so that equal locations in different
// circuits do not meet.
type flatCircuit struct {
	instances []*simInstance
	wires     map[int][]Wire
	links     [][2]nodeKey
	scopes    int
}

func flatten(root *Circuit) (*flatCircuit, error) {
	f := &flatCircuit{wires: make(map[int][]Wire)}

	err := f.expand(root, "", f.newScope(), nil)
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (f *flatCircuit) newScope() int {
	s := f.scopes
	f.scopes++

	return s
}

func (f *flatCircuit) expand(
	c *Circuit,
	prefix string,
	scope int,
	stack []*Circuit,
) error {
	for _, outer := range stack {
		if outer == c {
			return errors.Wrapf(ErrRecursiveCircuit, "%s at %s", c.Name(), prefix)
		}
	}

	stack = append(stack, c)
	f.wires[scope] = c.Wires()

	for _, inst := range c.instances {
		path := prefix + inst.name

		sub, ok := inst.comp.(*SubCircuit)
		if !ok {
			si := &simInstance{
				index:  len(f.instances),
				path:   path,
				scope:  scope,
				origin: inst.loc,
			}
			si.setComponent(inst.comp)
			f.instances = append(f.instances, si)

			continue
		}

		inner := f.newScope()
		for k, pinInst := range sub.pins {
			outerKey := nodeKey{scope: scope, loc: inst.loc.Add(sub.ports[k].Loc)}
			innerKey := nodeKey{scope: inner, loc: pinInst.loc}
			f.links = append(f.links, [2]nodeKey{outerKey, innerKey})
		}

		err := f.expand(sub.circuit, path+PathSeparator, inner, stack)
		if err != nil {
			return err
		}
	}

	return nil
}

type unionFind struct {
	parent map[nodeKey]nodeKey
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[nodeKey]nodeKey)}
}

func (u *unionFind) find(k nodeKey) nodeKey {
	p, found := u.parent[k]
	if !found {
		u.parent[k] = k
		return k
	}

	if p == k {
		return k
	}

	root := u.find(p)
	u.parent[k] = root

	return root
}

func (u *unionFind) union(a, b nodeKey) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}

// buildNets groups every port of the flattened circuit into nets and assigns
// the net index of each port. Nets are numbered in the order their first
// port appears.
func (f *flatCircuit) buildNets() ([]*net, error) {
	uf := newUnionFind()
	joined := make(map[nodeKey]bool)

	for scope, wires := range f.wires {
		for _, w := range wires {
			from := nodeKey{scope: scope, loc: w.From}
			to := nodeKey{scope: scope, loc: w.To}
			uf.union(from, to)
			joined[from] = true
			joined[to] = true
		}
	}

	for _, l := range f.links {
		uf.union(l[0], l[1])
		joined[l[0]] = true
		joined[l[1]] = true
	}

	joinedRoots := make(map[nodeKey]bool)
	for k := range joined {
		joinedRoots[uf.find(k)] = true
	}

	var nets []*net
	byRoot := make(map[nodeKey]*net)

	for _, inst := range f.instances {
		for i, p := range inst.ports {
			root := uf.find(nodeKey{scope: inst.scope, loc: inst.origin.Add(p.Loc)})

			n, found := byRoot[root]
			if !found {
				n = &net{
					id:     len(nets),
					name:   inst.portName(i),
					width:  p.Width,
					joined: joinedRoots[root],
				}
				byRoot[root] = n
				nets = append(nets, n)
			}

			if p.Width != n.width {
				return nil, errors.Wrapf(ErrWidthMismatch,
					"%s is %d bits wide but net %s is %d bits wide",
					inst.portName(i), p.Width, n.name, n.width)
			}

			inst.nets[i] = n.id
			n.endpoints = append(n.endpoints, portRef{inst: inst, port: i})

			if p.Type.Drives() {
				n.drivers = append(n.drivers, portRef{inst: inst, port: i})
			}

			if p.Type.Reads() && !containsInstance(n.readers, inst) {
				n.readers = append(n.readers, inst)
			}
		}
	}

	for _, n := range nets {
		n.value = n.resolve()
	}

	return nets, nil
}

func containsInstance(list []*simInstance, inst *simInstance) bool {
	for _, i := range list {
		if i == inst {
			return true
		}
	}

	return false
}
