package dispatch

import (
	"fmt"

	"github.com/quantfold/backtester/event"
)

// Handler reacts to one event and may emit follow-up events. Handlers that
// produce nothing return a nil or empty slice. A non-nil error is fatal for
// the run; expected business outcomes (e.g. a rejected intent) are not
// errors.
type Handler func(ev event.Event) ([]event.Event, error)

// Dispatcher routes an event to every handler registered for its kind, in
// registration order, and concatenates whatever they emit. It holds no
// business logic and no ordering responsibility beyond registration order;
// causal ordering between events is the scheduler's job.
type Dispatcher struct {
	handlers map[event.Kind][]Handler
}

func New() *Dispatcher {
	return &Dispatcher{handlers: make(map[event.Kind][]Handler)}
}

// Register appends a handler to the kind's handler list. Multiple handlers
// per kind are allowed and all are invoked.
func (d *Dispatcher) Register(kind event.Kind, h Handler) {
	d.handlers[kind] = append(d.handlers[kind], h)
}

// Dispatch invokes every handler for the event's kind. A kind with no
// handlers dispatches to nobody and returns nil; that is not an error.
func (d *Dispatcher) Dispatch(ev event.Event) ([]event.Event, error) {
	var out []event.Event
	for _, h := range d.handlers[ev.Kind()] {
		emitted, err := h(ev)
		if err != nil {
			return nil, fmt.Errorf("dispatch %s at t=%d (%s): %w",
				ev.Kind(), ev.Time(), ev.Symbol(), err)
		}
		out = append(out, emitted...)
	}
	return out, nil
}
