package event

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_EmitInRegistrationOrder(t *testing.T) {
	bus := NewBus()
	var order []int

	bus.On("fetch", func(e *Event) Result {
		order = append(order, 1)
		return Proceed
	})
	bus.On("fetch", func(e *Event) Result {
		order = append(order, 2)
		return Proceed
	})

	result := bus.Emit(&Event{Name: "fetch"})
	assert.Equal(t, Proceed, result)
	assert.Equal(t, []int{1, 2}, order)
}

func TestBus_CommaSeparatedNames(t *testing.T) {
	bus := NewBus()
	var seen []string

	bus.On("add, remove", func(e *Event) Result {
		seen = append(seen, e.Name)
		return Proceed
	})

	bus.Emit(&Event{Name: "add"})
	bus.Emit(&Event{Name: "remove"})
	bus.Emit(&Event{Name: "fetch"})

	assert.Equal(t, []string{"add", "remove"}, seen)
}

func TestBus_AbortWins(t *testing.T) {
	bus := NewBus()
	ran := 0

	bus.On("save", func(e *Event) Result {
		ran++
		return Abort
	})
	bus.On("save", func(e *Event) Result {
		ran++
		return Proceed
	})

	result := bus.Emit(&Event{Name: "save"})
	assert.Equal(t, Abort, result)
	assert.Equal(t, 2, ran, "all listeners run even after an abort")
}

func TestBus_NoListeners(t *testing.T) {
	bus := NewBus()
	assert.Equal(t, Proceed, bus.Emit(&Event{Name: "fetch"}))
}

func TestBus_EventFields(t *testing.T) {
	bus := NewBus()
	wantErr := errors.New("boom")
	target := struct{ name string }{"collection"}

	var got *Event
	bus.On("fetch.failure", func(e *Event) Result {
		got = e
		return Proceed
	})

	bus.Emit(&Event{Name: "fetch.failure", Target: target, Err: wantErr})
	if assert.NotNil(t, got) {
		assert.Equal(t, target, got.Target)
		assert.Equal(t, wantErr, got.Err)
	}
}

func TestBus_IgnoresEmptyNames(t *testing.T) {
	bus := NewBus()
	calls := 0
	bus.On("add,,  ", func(e *Event) Result {
		calls++
		return Proceed
	})

	bus.Emit(&Event{Name: "add"})
	bus.Emit(&Event{Name: ""})
	assert.Equal(t, 1, calls)
}
