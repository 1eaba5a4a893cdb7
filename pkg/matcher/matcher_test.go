package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livebuzzevents/syncset/pkg/record"
)

func rec(attrs map[string]any) record.Record {
	return record.NewBase(attrs)
}

func TestByAttributes(t *testing.T) {
	r := rec(map[string]any{"id": 4, "name": "alice", "active": true})

	tests := []struct {
		name  string
		attrs map[string]any
		want  bool
	}{
		{"single match", map[string]any{"name": "alice"}, true},
		{"all match", map[string]any{"name": "alice", "active": true}, true},
		{"identifier match", map[string]any{"id": 4}, true},
		{"identifier as float", map[string]any{"id": float64(4)}, true},
		{"value mismatch", map[string]any{"name": "bob"}, false},
		{"missing attribute", map[string]any{"email": "x"}, false},
		{"partial mismatch", map[string]any{"name": "alice", "active": false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ByAttributes(tt.attrs).Matches(r))
		})
	}
}

func TestByAttributes_IdentifierAbsent(t *testing.T) {
	r := rec(map[string]any{"name": "transient"})
	assert.False(t, ByAttributes(map[string]any{"id": 1}).Matches(r))
}

func TestByPredicate(t *testing.T) {
	r := rec(map[string]any{"age": 21})

	m := ByPredicate(func(r record.Record) bool {
		v, _ := r.Get("age")
		return v == 21
	})
	assert.True(t, m.Matches(r))

	never := ByPredicate(func(record.Record) bool { return false })
	assert.False(t, never.Matches(r))
}

func TestByKey(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]any
		key   string
		want  bool
	}{
		{"true bool", map[string]any{"active": true}, "active", true},
		{"false bool", map[string]any{"active": false}, "active", false},
		{"non-empty string", map[string]any{"name": "x"}, "name", true},
		{"empty string", map[string]any{"name": ""}, "name", false},
		{"zero int", map[string]any{"count": 0}, "count", false},
		{"nonzero float", map[string]any{"count": 1.5}, "count", true},
		{"nil value", map[string]any{"ref": nil}, "ref", false},
		{"absent key", map[string]any{}, "missing", false},
		{"object value", map[string]any{"meta": map[string]any{}}, "meta", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ByKey(tt.key).Matches(rec(tt.attrs)))
		})
	}
}

func TestByExpr(t *testing.T) {
	m, err := ByExpr(`age >= 18 && active`)
	require.NoError(t, err)

	assert.True(t, m.Matches(rec(map[string]any{"age": 20, "active": true})))
	assert.False(t, m.Matches(rec(map[string]any{"age": 20, "active": false})))
	assert.False(t, m.Matches(rec(map[string]any{"age": 10, "active": true})))
}

func TestByExpr_CompileError(t *testing.T) {
	_, err := ByExpr(`age >=`)
	require.Error(t, err)
}

func TestMustExpr_Panics(t *testing.T) {
	assert.Panics(t, func() { MustExpr(`&&&`) })
	assert.NotPanics(t, func() { MustExpr(`true`) })
}

func TestZeroMatcher(t *testing.T) {
	var m Matcher
	assert.False(t, m.Matches(rec(map[string]any{"id": 1})))
	assert.False(t, m.Matches(nil))
}
