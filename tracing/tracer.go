// Package tracing observes the nets of a running simulation.
package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/logicsim/circuit"
	"github.com/sarchlab/logicsim/hooking"
)

// A Tracer is told about every value a net takes.
type Tracer interface {
	Commit(change circuit.SignalChange)
}

// NamedHookable is a hookable object with a name, such as a Simulator.
type NamedHookable interface {
	hooking.Hookable
	Name() string
}

// CollectTrace lets the tracer collect the net changes of a domain.
func CollectTrace(domain NamedHookable, tracer Tracer) {
	for _, hook := range domain.Hooks() {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	domain.AcceptHook(&traceHook{t: tracer})
}

// A traceHook forwards signal commits to a tracer.
type traceHook struct {
	t Tracer
}

// Func calls the tracer when a net changes.
func (h *traceHook) Func(ctx hooking.HookCtx) {
	if ctx.Pos != circuit.HookPosSignalCommit {
		return
	}

	h.t.Commit(ctx.Item.(circuit.SignalChange))
}
