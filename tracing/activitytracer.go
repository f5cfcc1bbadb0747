package tracing

import (
	"sort"
	"sync"

	"github.com/sarchlab/logicsim/circuit"
)

// NetActivity is how often a net changed.
type NetActivity struct {
	Net     string
	Changes uint64
}

// ActivityTracer counts the changes of every net.
type ActivityTracer struct {
	lock    sync.Mutex
	nets    []string
	changes map[string]uint64
	filter  func(net string) bool
}

// NewActivityTracer creates an ActivityTracer. A nil filter counts every
// net.
func NewActivityTracer(filter func(net string) bool) *ActivityTracer {
	return &ActivityTracer{
		changes: make(map[string]uint64),
		filter:  filter,
	}
}

// Commit counts a change.
func (t *ActivityTracer) Commit(change circuit.SignalChange) {
	if t.filter != nil && !t.filter(change.Net) {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if _, ok := t.changes[change.Net]; !ok {
		t.nets = append(t.nets, change.Net)
	}
	t.changes[change.Net]++
}

// Nets returns the nets that changed, in the order they first changed.
func (t *ActivityTracer) Nets() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	return append([]string(nil), t.nets...)
}

// Changes returns how often a net changed.
func (t *ActivityTracer) Changes(net string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.changes[net]
}

// Busiest returns up to n nets with the most changes. Ties keep the order
// in which the nets first changed.
func (t *ActivityTracer) Busiest(n int) []NetActivity {
	t.lock.Lock()
	defer t.lock.Unlock()

	list := make([]NetActivity, len(t.nets))
	for i, net := range t.nets {
		list[i] = NetActivity{Net: net, Changes: t.changes[net]}
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Changes > list[j].Changes
	})

	if n >= 0 && n < len(list) {
		list = list[:n]
	}

	return list
}
