package collection

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/livebuzzevents/syncset/pkg/event"
	"github.com/livebuzzevents/syncset/pkg/record"
	"github.com/livebuzzevents/syncset/pkg/transport"
)

// ErrLocalValidation is the failure reported when one or more records
// fail their own validation before a save request is issued. The
// request never reaches the transport; each invalid record holds its
// errors.
var ErrLocalValidation = errors.New("one or more records failed validation")

// Handlers are host-supplied callbacks for a single request attempt.
// Each entry is optional. Handlers run before the corresponding event
// bus emission.
type Handlers struct {
	OnSuccess func(resp *transport.Response)
	OnFailure func(err error, resp *transport.Response)
	OnAlways  func(err error, resp *transport.Response)
}

// Always wraps a single function as the always handler.
func Always(fn func(err error, resp *transport.Response)) Handlers {
	return Handlers{OnAlways: fn}
}

// Fetch issues a fetch request and replaces the collection's records
// with the response payload (appends, while paginated past the first
// page). The call is silently ignored when a fetch is already in
// flight, or when paginating and the last page was reached. A
// pre-request "fetch" listener returning event.Abort vetoes the
// request. Returns the transport or reconciliation error, nil
// otherwise — including for ignored and vetoed calls.
func (c *Collection) Fetch(ctx context.Context, handlers ...Handlers) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		c.logger.Debug("fetch ignored: already in flight")
		return nil
	}
	if c.page != nil && c.lastPageReached {
		c.mu.Unlock()
		c.logger.Debug("fetch ignored: last page reached")
		return nil
	}
	c.loading = true
	var page *int
	if c.page != nil {
		p := *c.page
		page = &p
	}
	c.mu.Unlock()

	if c.emitRequest(ActionFetch) == event.Abort {
		c.clearFlag(ActionFetch)
		return nil
	}

	method, target, err := c.resolveFetch(page)
	if err != nil {
		return c.fail(ActionFetch, handlers, err, nil)
	}

	resp, err := c.trans.Perform(ctx, method, target, nil)
	if err != nil {
		return c.fail(ActionFetch, handlers, err, transport.ResponseOf(err))
	}

	if err := c.applyFetch(resp); err != nil {
		return c.fail(ActionFetch, handlers, err, resp)
	}
	c.succeed(ActionFetch, handlers, resp)
	return nil
}

// Save issues a save request whose body is the ordered sequence of
// every record's save body. Reconciliation operates on the snapshot
// of records taken when the body is built, so mutations made while
// the request is pending do not disturb the positional contract. The
// call is silently ignored when a save is already in flight; a
// pre-request "save" listener returning event.Abort vetoes it.
//
// Records implementing record.Validator are validated first; if any
// fails, no request is issued and ErrLocalValidation takes the
// failure path.
func (c *Collection) Save(ctx context.Context, handlers ...Handlers) error {
	c.mu.Lock()
	if c.saving {
		c.mu.Unlock()
		c.logger.Debug("save ignored: already in flight")
		return nil
	}
	c.saving = true
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	if c.emitRequest(ActionSave) == event.Abort {
		c.clearFlag(ActionSave)
		return nil
	}

	invalid := false
	for _, r := range snapshot {
		if v, ok := r.(record.Validator); ok {
			if v.Validate() != nil {
				invalid = true
			}
		}
	}
	if invalid {
		return c.fail(ActionSave, handlers, ErrLocalValidation, nil)
	}

	method, target, err := c.resolveRequest(ActionSave)
	if err != nil {
		return c.fail(ActionSave, handlers, err, nil)
	}

	body := make([]any, len(snapshot))
	for i, r := range snapshot {
		body[i] = r.SaveBody()
	}

	resp, err := c.trans.Perform(ctx, method, target, body)
	if err != nil {
		c.distributeValidationErrors(snapshot, transport.ResponseOf(err))
		return c.fail(ActionSave, handlers, err, transport.ResponseOf(err))
	}

	if err := c.applySave(snapshot, resp); err != nil {
		return c.fail(ActionSave, handlers, err, resp)
	}
	c.succeed(ActionSave, handlers, resp)
	return nil
}

// Delete issues a delete request for every record that has an
// identifier. Identifiers travel as a JSON array body when the
// collection was built with WithDeleteBody(true), as repeated "id"
// query parameters otherwise. On success each targeted record still
// present is removed, firing one "remove" event apiece. A call with
// no identifiable records, or with a delete already in flight, is
// silently ignored; a pre-request "delete" listener returning
// event.Abort vetoes it.
func (c *Collection) Delete(ctx context.Context, handlers ...Handlers) error {
	c.mu.Lock()
	if c.deleting {
		c.mu.Unlock()
		c.logger.Debug("delete ignored: already in flight")
		return nil
	}
	var targets []record.Record
	var ids []any
	for _, r := range c.records {
		if id, ok := r.Identifier(); ok {
			targets = append(targets, r)
			ids = append(ids, id)
		}
	}
	if len(targets) == 0 {
		c.mu.Unlock()
		c.logger.Debug("delete ignored: no identifiable records")
		return nil
	}
	c.deleting = true
	c.mu.Unlock()

	if c.emitRequest(ActionDelete) == event.Abort {
		c.clearFlag(ActionDelete)
		return nil
	}

	method, target, err := c.resolveRequest(ActionDelete)
	if err != nil {
		return c.fail(ActionDelete, handlers, err, nil)
	}

	var body any
	if c.useDeleteBody {
		body = ids
	} else {
		values := url.Values{}
		for _, id := range ids {
			values.Add("id", fmt.Sprintf("%v", id))
		}
		target = appendQuery(target, values)
	}

	resp, err := c.trans.Perform(ctx, method, target, body)
	if err != nil {
		return c.fail(ActionDelete, handlers, err, transport.ResponseOf(err))
	}

	c.applyDelete(targets)
	c.succeed(ActionDelete, handlers, resp)
	return nil
}

// resolveRequest returns the transport verb and URL for action.
func (c *Collection) resolveRequest(action Action) (method, target string, err error) {
	tmpl, ok := c.routes[string(action)]
	if !ok {
		return "", "", fmt.Errorf("no route defined for action %q", action)
	}
	target, err = c.resolver.Resolve(tmpl, c.params)
	if err != nil {
		return "", "", err
	}
	return c.methods[action], target, nil
}

// resolveFetch resolves the fetch URL with the current page merged
// into the route parameters. When the route template does not consume
// the page itself, the page travels as a "page" query parameter
// instead.
func (c *Collection) resolveFetch(page *int) (method, target string, err error) {
	if page == nil {
		return c.resolveRequest(ActionFetch)
	}

	tmpl, ok := c.routes[string(ActionFetch)]
	if !ok {
		return "", "", fmt.Errorf("no route defined for action %q", ActionFetch)
	}

	params := make(map[string]any, len(c.params)+1)
	for k, v := range c.params {
		params[k] = v
	}
	params["page"] = *page

	target, err = c.resolver.Resolve(tmpl, params)
	if err != nil {
		return "", "", err
	}

	// The template consumed the page iff resolution fails without it.
	if _, withoutErr := c.resolver.Resolve(tmpl, c.params); withoutErr != nil {
		return c.methods[ActionFetch], target, nil
	}
	return c.methods[ActionFetch], appendQuery(target, url.Values{"page": []string{strconv.Itoa(*page)}}), nil
}

// succeed runs the success side of the outcome: handlers first, then
// the bus events, then the in-flight flag clears.
func (c *Collection) succeed(action Action, handlers []Handlers, resp *transport.Response) {
	c.logger.Debug("request succeeded", "action", string(action))
	for _, h := range handlers {
		if h.OnSuccess != nil {
			h.OnSuccess(resp)
		}
	}
	c.emitOutcome(string(action)+".success", nil, resp)
	for _, h := range handlers {
		if h.OnAlways != nil {
			h.OnAlways(nil, resp)
		}
	}
	c.emitOutcome(string(action)+".always", nil, resp)
	c.clearFlag(action)
}

// fail runs the failure side of the outcome and returns err. The
// error is forwarded verbatim; nothing is retried.
func (c *Collection) fail(action Action, handlers []Handlers, err error, resp *transport.Response) error {
	c.logger.Debug("request failed", "action", string(action), "error", err)
	for _, h := range handlers {
		if h.OnFailure != nil {
			h.OnFailure(err, resp)
		}
	}
	c.emitOutcome(string(action)+".failure", err, resp)
	for _, h := range handlers {
		if h.OnAlways != nil {
			h.OnAlways(err, resp)
		}
	}
	c.emitOutcome(string(action)+".always", err, resp)
	c.clearFlag(action)
	return err
}

func (c *Collection) clearFlag(action Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch action {
	case ActionFetch:
		c.loading = false
	case ActionSave:
		c.saving = false
	case ActionDelete:
		c.deleting = false
	}
}

// appendQuery merges values into the query string of target.
func appendQuery(target string, values url.Values) string {
	u, err := url.Parse(target)
	if err != nil {
		// Leave the URL untouched; the transport will report it.
		return target
	}
	q := u.Query()
	for key, vs := range values {
		for _, v := range vs {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
