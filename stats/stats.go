// Package stats counts how often each kind of component is used by a
// circuit, directly and through the sub-circuits it instantiates.
package stats

import (
	"github.com/sarchlab/logicsim/circuit"
)

// Count is the usage of one factory.
type Count struct {
	// Library is where the factory is declared: the file itself or one of
	// the libraries it references.
	Library *circuit.Library
	Factory circuit.Factory

	// DirectCount is the number of instances placed in the circuit itself.
	DirectCount int

	// FlatCount adds, for each distinct sub-circuit, the flat count of that
	// sub-circuit once, regardless of how many times it is instantiated.
	FlatCount int

	// RecursiveCount is the number of instances in the fully expanded
	// circuit.
	RecursiveCount int
}

// Statistics is the result of Compute.
type Statistics struct {
	counts []Count
}

// Counts returns one entry per used factory, in declaration order: the
// file's own factories first, then those of each referenced library.
func (s *Statistics) Counts() []Count {
	return append([]Count(nil), s.counts...)
}

// Find returns the entry of a factory.
func (s *Statistics) Find(f circuit.Factory) (Count, bool) {
	for _, c := range s.counts {
		if c.Factory == f {
			return c, true
		}
	}

	return Count{}, false
}

// Totals sums the counts of every entry.
func (s *Statistics) Totals() Count {
	var total Count
	for _, c := range s.counts {
		total.DirectCount += c.DirectCount
		total.FlatCount += c.FlatCount
		total.RecursiveCount += c.RecursiveCount
	}

	return total
}

type tally struct {
	order  []circuit.Factory
	counts map[circuit.Factory]*Count
}

func newTally() *tally {
	return &tally{counts: make(map[circuit.Factory]*Count)}
}

func (t *tally) get(f circuit.Factory) *Count {
	c, found := t.counts[f]
	if !found {
		c = &Count{Factory: f}
		t.counts[f] = c
		t.order = append(t.order, f)
	}

	return c
}

func (t *tally) snapshot() []Count {
	entries := make([]Count, len(t.order))
	for i, f := range t.order {
		entries[i] = *t.counts[f]
	}

	return entries
}

type counter struct {
	circuits []*circuit.Circuit
	memo     map[*circuit.Circuit]*tally
}

// Compute counts the components used by root. Only the circuits declared in
// file are descended into. A circuit that includes itself, directly or not,
// is counted with the partial result reached when the cycle closes.
func Compute(file *circuit.Library, root *circuit.Circuit) *Statistics {
	c := &counter{
		circuits: file.Circuits(),
		memo:     make(map[*circuit.Circuit]*tally),
	}

	t := c.count(root)

	return &Statistics{counts: sortCounts(t, file)}
}

func (c *counter) count(circ *circuit.Circuit) *tally {
	if t, found := c.memo[circ]; found {
		return t
	}

	t := newTally()
	c.memo[circ] = t

	for _, inst := range circ.NonWires() {
		n := t.get(inst.Factory())
		n.DirectCount++
		n.FlatCount++
		n.RecursiveCount++
	}

	type use struct {
		sub        *circuit.Circuit
		multiplier int
	}

	var uses []use
	for _, sub := range c.circuits {
		if n, found := t.counts[sub]; found {
			uses = append(uses, use{sub: sub, multiplier: n.DirectCount})
		}
	}

	for _, u := range uses {
		for _, e := range c.count(u.sub).snapshot() {
			n := t.get(e.Factory)
			n.FlatCount += e.FlatCount
			n.RecursiveCount += u.multiplier * e.RecursiveCount
		}
	}

	return t
}

func sortCounts(t *tally, file *circuit.Library) []Count {
	var counts []Count

	add := func(lib *circuit.Library) {
		for _, f := range lib.Factories {
			n, found := t.counts[f]
			if !found {
				continue
			}

			entry := *n
			entry.Library = lib
			counts = append(counts, entry)
		}
	}

	add(file)
	for _, lib := range file.Libraries {
		add(lib)
	}

	return counts
}
