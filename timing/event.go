// Package timing provides the discrete event scheduler that drives a circuit
// simulation.
package timing

import "github.com/sarchlab/logicsim/hooking"

// VTimeInCycle is a point on the simulated timeline, counted in gate-delay
// ticks.
type VTimeInCycle uint64

// Handler processes events of various types.
// Events are plain data; handlers use type switches to tell them apart:
//
//	func (h *MyHandler) Handle(event any) error {
//	    switch e := event.(type) {
//	    case *MyEvent:
//	        // handle MyEvent
//	    default:
//	        return fmt.Errorf("unknown event type: %T", event)
//	    }
//	    return nil
//	}
type Handler interface {
	Handle(event any) error
}

// TimeTeller exposes the current simulation time.
type TimeTeller interface {
	CurrentTime() VTimeInCycle
}

// EventScheduler schedules events in the simulation timeline.
type EventScheduler interface {
	TimeTeller
	Schedule(event ScheduledEvent)
}

// ScheduledEvent is the engine-facing wrapper for user-defined events.
type ScheduledEvent struct {
	// Event is the payload delivered to the handler.
	Event any

	// Time is when the event should be processed.
	Time VTimeInCycle

	// Handler is the object that will process this event.
	Handler Handler

	// IsSecondary marks events that run after all the primary events of the
	// same time.
	IsSecondary bool
}

// An Engine keeps the discrete event simulation running.
type Engine interface {
	hooking.Hookable
	EventScheduler

	// Run processes events until the queue is empty or a handler fails.
	Run() error

	// Pause stops the engine from dispatching more events until Continue is
	// called.
	Pause()

	// Continue resumes a paused engine.
	Continue()

	// Pending returns the number of events waiting in the queue.
	Pending() int

	// Clear drops every pending event.
	Clear()
}

// HookPosBeforeEvent is a hook position that triggers before handling an
// event.
var HookPosBeforeEvent = &hooking.HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent is a hook position that triggers after handling an event.
var HookPosAfterEvent = &hooking.HookPos{Name: "AfterEvent"}
