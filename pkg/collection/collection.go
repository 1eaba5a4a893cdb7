// Package collection implements a client-side synchronized ordered
// set of records. A Collection owns an ordered sequence of records,
// keeps it consistent with a remote resource collection through
// fetch, save and delete requests, and notifies the host of
// mutations and the full lifecycle of each request through a
// synchronous event bus.
package collection

import (
	"log/slog"
	"sync"

	"github.com/livebuzzevents/syncset/pkg/event"
	"github.com/livebuzzevents/syncset/pkg/logging"
	"github.com/livebuzzevents/syncset/pkg/record"
	"github.com/livebuzzevents/syncset/pkg/route"
	"github.com/livebuzzevents/syncset/pkg/transport"
)

// Action is one of the three synchronization operations.
type Action string

// Action kinds.
const (
	ActionFetch  Action = "fetch"
	ActionSave   Action = "save"
	ActionDelete Action = "delete"
)

// Default transport verbs per action, overridable with WithMethods.
var defaultMethods = map[Action]string{
	ActionFetch:  "GET",
	ActionSave:   "POST",
	ActionDelete: "DELETE",
}

// Collection is an ordered set of records synchronized with a remote
// resource collection.
//
// Mutation, aggregation and event dispatch run to completion without
// yielding; the only suspension point is a pending transport call. At
// most one request per action kind is in flight at a time — a second
// call of the same kind while one is pending is silently ignored.
// Fetch, save and delete may be in flight simultaneously.
type Collection struct {
	mu      sync.Mutex
	records []record.Record

	factory       record.Factory
	routes        route.Map
	resolver      route.Resolver
	trans         transport.Transport
	methods       map[Action]string
	useDeleteBody bool
	params        map[string]any
	logger        *slog.Logger
	bus           *event.Bus

	loading  bool
	saving   bool
	deleting bool

	page            *int
	lastPageReached bool
}

// Option configures a Collection.
type Option func(*Collection)

// WithFactory sets the record factory used to construct records from
// plain attribute maps. Defaults to record.NewFactory().
func WithFactory(factory record.Factory) Option {
	return func(c *Collection) {
		c.factory = factory
	}
}

// WithRoutes sets the action to route template map.
func WithRoutes(routes route.Map) Option {
	return func(c *Collection) {
		c.routes = routes
	}
}

// WithResolver replaces the route resolver wholesale, for hosts with
// non-path route systems.
func WithResolver(resolver route.Resolver) Option {
	return func(c *Collection) {
		c.resolver = resolver
	}
}

// WithRouteParameterPattern sets the placeholder pattern used by the
// default template resolver. Ignored after WithResolver.
func WithRouteParameterPattern(pattern string) Option {
	return func(c *Collection) {
		c.resolver = route.NewTemplateResolver(pattern)
	}
}

// WithTransport sets the transport performing requests.
func WithTransport(t transport.Transport) Option {
	return func(c *Collection) {
		c.trans = t
	}
}

// WithMethods overrides the transport verb for the given actions.
// Actions not present keep their defaults.
func WithMethods(methods map[Action]string) Option {
	return func(c *Collection) {
		for action, verb := range methods {
			c.methods[action] = verb
		}
	}
}

// WithDeleteBody controls how delete requests carry the collected
// identifiers: as a JSON body when true, as repeated "id" query
// parameters when false (the default).
func WithDeleteBody(useBody bool) Option {
	return func(c *Collection) {
		c.useDeleteBody = useBody
	}
}

// WithRouteParams sets extra parameters available to route templates.
func WithRouteParams(params map[string]any) Option {
	return func(c *Collection) {
		c.params = params
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collection) {
		c.logger = logger
	}
}

// New creates a Collection. Without options the collection can be
// mutated and aggregated locally but needs a transport and routes
// before any of the request actions can succeed.
func New(opts ...Option) *Collection {
	c := &Collection{
		factory:  record.NewFactory(),
		routes:   route.Map{},
		resolver: route.NewTemplateResolver(""),
		methods:  make(map[Action]string, len(defaultMethods)),
		logger:   logging.Nop(),
		bus:      event.NewBus(),
	}
	for action, verb := range defaultMethods {
		c.methods[action] = verb
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// On registers listener for one or more comma-separated event names.
// Listeners for the pre-request events "fetch", "save" and "delete"
// may return event.Abort to veto the request.
func (c *Collection) On(names string, listener event.Listener) {
	c.bus.On(names, listener)
}

// Loading reports whether a fetch request is in flight.
func (c *Collection) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Saving reports whether a save request is in flight.
func (c *Collection) Saving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saving
}

// Deleting reports whether a delete request is in flight.
func (c *Collection) Deleting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleting
}

// Records returns a copy of the ordered record sequence.
func (c *Collection) Records() []record.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]record.Record, len(c.records))
	copy(out, c.records)
	return out
}

// Discard implements record.Owner: a record asks its owning
// collection to remove it on confirmed deletion.
func (c *Collection) Discard(r record.Record) {
	c.Remove(r)
}

// snapshotLocked returns a point-in-time copy of the record
// sequence. Must be called with c.mu held.
func (c *Collection) snapshotLocked() []record.Record {
	out := make([]record.Record, len(c.records))
	copy(out, c.records)
	return out
}
