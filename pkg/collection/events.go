package collection

import (
	"github.com/livebuzzevents/syncset/pkg/event"
	"github.com/livebuzzevents/syncset/pkg/record"
	"github.com/livebuzzevents/syncset/pkg/transport"
)

// Mutation event names. Request lifecycle events are named after the
// action ("fetch", "save", "delete") plus the ".success", ".failure"
// and ".always" suffixes.
const (
	EventAdd    = "add"
	EventRemove = "remove"
)

func (c *Collection) emitAdd(r record.Record) {
	c.bus.Emit(&event.Event{Name: EventAdd, Target: c, Model: r})
}

func (c *Collection) emitRemove(r record.Record) {
	c.bus.Emit(&event.Event{Name: EventRemove, Target: c, Model: r})
}

// emitRequest fires the pre-request event for action. The return is
// Abort when any listener vetoed the request.
func (c *Collection) emitRequest(action Action) event.Result {
	return c.bus.Emit(&event.Event{Name: string(action), Target: c})
}

func (c *Collection) emitOutcome(name string, err error, resp *transport.Response) {
	c.bus.Emit(&event.Event{Name: name, Target: c, Err: err, Response: resp})
}
