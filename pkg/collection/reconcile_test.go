package collection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livebuzzevents/syncset/pkg/record"
)

func TestSave_PositionalMerge(t *testing.T) {
	ft := &fakeTransport{}
	ft.enqueue(okJSON(`[{"x":1},{"x":2},{"x":3}]`))
	c := newTestCollection(ft)

	// Mixed identifiers: positional reconciliation must not care.
	a := c.Add(map[string]any{"id": 30, "name": "a"})
	b := c.Add(map[string]any{"name": "b"}) // transient
	d := c.Add(map[string]any{"id": 10, "name": "d"})

	require.NoError(t, c.Save(context.Background()))

	for i, r := range []record.Record{a, b, d} {
		x, ok := r.Get("x")
		require.True(t, ok)
		assert.Equal(t, float64(i+1), x)
	}
	name, _ := a.Get("name")
	assert.Equal(t, "a", name, "unmentioned attributes survive the merge")
}

func TestSave_EmptyResponseLeavesLocalStateAuthoritative(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestCollection(ft) // default outcome: empty 200
	r := c.Add(map[string]any{"id": 1, "name": "local"})
	r.SetValidationErrors(map[string][]string{"name": {"stale"}})

	require.NoError(t, c.Save(context.Background()))

	name, _ := r.Get("name")
	assert.Equal(t, "local", name)
	assert.Empty(t, r.ValidationErrors(), "a successful save clears prior validation errors")
}

func TestSave_LengthMismatchTruncates(t *testing.T) {
	ft := &fakeTransport{}
	ft.enqueue(okJSON(`[{"x":1}]`))
	c := newTestCollection(ft)
	a := c.Add(map[string]any{"id": 1})
	b := c.Add(map[string]any{"id": 2})

	require.NoError(t, c.Save(context.Background()))

	_, ok := a.Get("x")
	assert.True(t, ok)
	_, ok = b.Get("x")
	assert.False(t, ok, "records past the shorter length are untouched")
}

func TestSave_SnapshotSurvivesMidFlightMutation(t *testing.T) {
	ft := &fakeTransport{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	ft.enqueue(okJSON(`[{"x":1},{"x":2}]`))
	c := newTestCollection(ft)
	a := c.Add(map[string]any{"id": 1})
	b := c.Add(map[string]any{"id": 2})

	done := make(chan error)
	go func() { done <- c.Save(context.Background()) }()
	<-ft.started

	// Mutate while the save is pending: the response still merges
	// into the request-time snapshot.
	c.Remove(a)
	c.Add(map[string]any{"id": 3})

	close(ft.release)
	require.NoError(t, <-done)

	x, _ := a.Get("x")
	assert.Equal(t, float64(1), x, "removed record still receives its positional merge")
	x, _ = b.Get("x")
	assert.Equal(t, float64(2), x)
	assert.Nil(t, c.Find(3).Attributes()["x"], "the mid-flight addition is untouched")
}

func TestSave_ValidationErrorsByIndex(t *testing.T) {
	ft := &fakeTransport{}
	ft.enqueue(failJSON(422, `[{},{"name":["required"]}]`))
	c := newTestCollection(ft)
	a := c.Add(map[string]any{"id": 1})
	b := c.Add(map[string]any{"id": 2})

	require.Error(t, c.Save(context.Background()))

	assert.Empty(t, a.ValidationErrors(), "empty map means no error for that position")
	assert.Equal(t, []string{"required"}, b.ValidationErrors()["name"])
	assert.False(t, c.Saving())
}

func TestSave_ValidationErrorsByIdentifier(t *testing.T) {
	ft := &fakeTransport{}
	ft.enqueue(failJSON(422, `{"4":{"name":["taken"]}}`))
	c := newTestCollection(ft)
	a := c.Add(map[string]any{"id": 3})
	b := c.Add(map[string]any{"id": 4})
	d := c.Add(map[string]any{"name": "transient"}) // cannot be targeted

	require.Error(t, c.Save(context.Background()))

	assert.Empty(t, a.ValidationErrors())
	assert.Equal(t, []string{"taken"}, b.ValidationErrors()["name"])
	assert.Empty(t, d.ValidationErrors())
}

func TestSave_FailureWithoutPayload(t *testing.T) {
	ft := &fakeTransport{}
	ft.enqueue(failJSON(500, ``))
	c := newTestCollection(ft)
	r := c.Add(map[string]any{"id": 1})

	require.Error(t, c.Save(context.Background()))
	assert.Empty(t, r.ValidationErrors())
	assert.False(t, c.Saving())
}

func TestFetch_MalformedPayload(t *testing.T) {
	ft := &fakeTransport{}
	ft.enqueue(okJSON(`{"not":"a list"}`))
	c := newTestCollection(ft)
	c.Add(map[string]any{"id": 1})

	err := c.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, c.Count(), "records untouched on a reconciliation error")
	assert.False(t, c.Loading(), "flag cleared on the reconciliation-error exit path")
}

func TestFetch_EmptyPayloadClearsRecords(t *testing.T) {
	ft := &fakeTransport{}
	ft.enqueue(okJSON(`[]`))
	c := newTestCollection(ft)
	c.AddAll(map[string]any{"id": 1}, map[string]any{"id": 2})

	require.NoError(t, c.Fetch(context.Background()))
	assert.Zero(t, c.Count(), "an unpaginated empty payload replaces with nothing")
}
