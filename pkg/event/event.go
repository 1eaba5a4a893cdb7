// Package event provides the synchronous pub/sub bus scoped to one
// collection. Listeners for the three pre-request events can veto the
// request by returning Abort; the return value of every other
// listener is ignored.
package event

import (
	"strings"

	"github.com/livebuzzevents/syncset/pkg/record"
	"github.com/livebuzzevents/syncset/pkg/transport"
)

// Result is returned by listeners. Only pre-request events observe
// it; Abort vetoes the request before any transport call is made.
type Result int

const (
	// Proceed lets the request continue. The zero value.
	Proceed Result = iota
	// Abort vetoes a pre-request event.
	Abort
)

// Event is the context passed to listeners.
type Event struct {
	// Name is the event name, e.g. "add" or "fetch.success".
	Name string

	// Target is the emitting collection.
	Target any

	// Model is the record concerned, set for add/remove events.
	Model record.Record

	// Err is the request error, set for failure and always events.
	Err error

	// Response is the transport response, set for request outcome
	// events when one is available.
	Response *transport.Response
}

// Listener receives events. Listeners registered for non-veto events
// should return Proceed. Panics are not recovered by the bus.
type Listener func(*Event) Result

// Bus is a synchronous, in-process event bus. The zero value is not
// usable; create one with NewBus.
type Bus struct {
	listeners map[string][]Listener
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
	}
}

// On registers listener for one or more comma-separated event names,
// e.g. On("add,remove", fn). Whitespace around names is ignored.
func (b *Bus) On(names string, listener Listener) {
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		b.listeners[name] = append(b.listeners[name], listener)
	}
}

// Emit dispatches e to every listener registered for e.Name, in
// registration order. All listeners run; the result is Abort iff any
// listener returned Abort.
func (b *Bus) Emit(e *Event) Result {
	result := Proceed
	for _, listener := range b.listeners[e.Name] {
		if listener(e) == Abort {
			result = Abort
		}
	}
	return result
}
