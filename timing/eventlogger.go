package timing

import (
	"log"
	"reflect"

	"github.com/sarchlab/logicsim/hooking"
)

// Named is implemented by handlers that want their name in the event log.
type Named interface {
	Name() string
}

// EventLogger is a hook that prints every event before it is handled.
type EventLogger struct {
	*log.Logger
}

// NewEventLogger returns an EventLogger writing to logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	return &EventLogger{Logger: logger}
}

// Func writes the event information into the logger.
func (h *EventLogger) Func(ctx hooking.HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(*ScheduledEvent)
	if !ok {
		return
	}

	named, ok := evt.Handler.(Named)
	if ok {
		h.Printf("%d, %s -> %s", evt.Time, reflect.TypeOf(evt.Event), named.Name())
		return
	}

	h.Printf("%d, %s", evt.Time, reflect.TypeOf(evt.Event))
}
