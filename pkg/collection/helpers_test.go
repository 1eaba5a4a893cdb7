package collection

import (
	"context"
	"sync"

	"github.com/livebuzzevents/syncset/pkg/route"
	"github.com/livebuzzevents/syncset/pkg/transport"
)

// fakeCall records one Perform invocation.
type fakeCall struct {
	method string
	url    string
	body   any
}

// fakeOutcome is a scripted Perform result.
type fakeOutcome struct {
	resp *transport.Response
	err  error
}

// fakeTransport scripts transport outcomes and records calls. With an
// empty queue every call succeeds with an empty 200. Setting started
// and release turns Perform into a blocking call for in-flight tests.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []fakeCall
	queue   []fakeOutcome
	started chan struct{}
	release chan struct{}
}

func (f *fakeTransport) Perform(ctx context.Context, method, url string, body any) (*transport.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{method: method, url: url, body: body})
	var outcome fakeOutcome
	if len(f.queue) > 0 {
		outcome = f.queue[0]
		f.queue = f.queue[1:]
	} else {
		outcome = fakeOutcome{resp: &transport.Response{Status: 200}}
	}
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return outcome.resp, outcome.err
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeTransport) lastCall() fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func (f *fakeTransport) enqueue(outcomes ...fakeOutcome) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, outcomes...)
}

func okJSON(body string) fakeOutcome {
	return fakeOutcome{resp: &transport.Response{Status: 200, Body: []byte(body)}}
}

func failJSON(status int, body string) fakeOutcome {
	resp := &transport.Response{Status: status, Body: []byte(body)}
	return fakeOutcome{err: &transport.Error{Status: status, Response: resp}}
}

// newTestCollection wires a collection to ft with routes for all
// three actions.
func newTestCollection(ft *fakeTransport, opts ...Option) *Collection {
	base := []Option{
		WithTransport(ft),
		WithRoutes(route.Map{
			"fetch":  "/api/items",
			"save":   "/api/items",
			"delete": "/api/items",
		}),
	}
	return New(append(base, opts...)...)
}
