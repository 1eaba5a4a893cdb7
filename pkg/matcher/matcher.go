// Package matcher selects records out of a collection. Instead of
// duck-typed predicate overloading, the matcher kinds are explicit: an
// attribute map, a predicate function, a bare attribute key, or a
// compiled expression.
package matcher

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/livebuzzevents/syncset/pkg/record"
)

type kind int

const (
	kindAttributes kind = iota
	kindPredicate
	kindKey
	kindExpr
)

// Matcher decides whether a record is selected. The zero value
// matches nothing.
type Matcher struct {
	kind    kind
	attrs   map[string]any
	pred    func(record.Record) bool
	key     string
	program *vm.Program
}

// ByAttributes matches records whose attributes exactly equal every
// entry in attrs. The key "id" is checked against the record
// identifier. Values are compared by their string form so numeric
// types decoded from JSON still match their Go literals.
func ByAttributes(attrs map[string]any) Matcher {
	return Matcher{kind: kindAttributes, attrs: attrs}
}

// ByPredicate matches records for which fn returns true.
func ByPredicate(fn func(record.Record) bool) Matcher {
	return Matcher{kind: kindPredicate, pred: fn}
}

// ByKey matches records whose attribute named key is present and
// truthy (not nil, false, zero, or the empty string).
func ByKey(key string) Matcher {
	return Matcher{kind: kindKey, key: key}
}

// ByExpr compiles src as a boolean expression evaluated with the
// record's attributes as its environment, e.g. "age >= 18 && active".
func ByExpr(src string) (Matcher, error) {
	program, err := expr.Compile(src,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return Matcher{}, fmt.Errorf("failed to compile matcher expression: %w", err)
	}
	return Matcher{kind: kindExpr, program: program}, nil
}

// MustExpr is ByExpr that panics on a compile error. Intended for
// expression literals known at build time.
func MustExpr(src string) Matcher {
	m, err := ByExpr(src)
	if err != nil {
		panic(err)
	}
	return m
}

// Matches reports whether r is selected by the matcher.
func (m Matcher) Matches(r record.Record) bool {
	if r == nil {
		return false
	}
	switch m.kind {
	case kindAttributes:
		if m.attrs == nil {
			return false
		}
		return matchAttributes(r, m.attrs)
	case kindPredicate:
		return m.pred != nil && m.pred(r)
	case kindKey:
		v, ok := r.Get(m.key)
		return ok && truthy(v)
	case kindExpr:
		if m.program == nil {
			return false
		}
		out, err := expr.Run(m.program, r.Attributes())
		if err != nil {
			return false
		}
		b, ok := out.(bool)
		return ok && b
	}
	return false
}

func matchAttributes(r record.Record, attrs map[string]any) bool {
	for key, want := range attrs {
		var got any
		switch key {
		case "id":
			id, ok := r.Identifier()
			if !ok {
				return false
			}
			got = id
		default:
			v, ok := r.Get(key)
			if !ok {
				return false
			}
			got = v
		}
		if fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}
