package collection

import (
	"fmt"

	"github.com/livebuzzevents/syncset/pkg/matcher"
	"github.com/livebuzzevents/syncset/pkg/record"
)

// Add appends one record to the collection and adopts it. The input
// is one of:
//
//   - nil: one empty record is constructed via the factory
//   - map[string]any: a record is constructed with those attributes
//   - record.Record: adopted as-is, bypassing construction
//
// A record already present (by reference, or by identifier when both
// sides have one) is not appended again; the present instance is
// returned and no event fires. Otherwise the added record is returned
// and one "add" event fires carrying it. Use AddAll for sequences.
func (c *Collection) Add(input any) record.Record {
	r, existing := c.addOne(input)
	if existing {
		return r
	}
	c.emitAdd(r)
	return r
}

// AddAll adds each input in order, with Add semantics per element. A
// []map[string]any or []record.Record element is flattened. The
// returned sequence holds the records actually appended, in order;
// duplicates are skipped.
func (c *Collection) AddAll(inputs ...any) []record.Record {
	added := []record.Record{}
	for _, input := range inputs {
		switch seq := input.(type) {
		case []map[string]any:
			for _, attrs := range seq {
				added = c.appendAdded(added, attrs)
			}
		case []record.Record:
			for _, r := range seq {
				added = c.appendAdded(added, r)
			}
		case []any:
			for _, item := range seq {
				added = c.appendAdded(added, item)
			}
		default:
			added = c.appendAdded(added, input)
		}
	}
	return added
}

func (c *Collection) appendAdded(added []record.Record, input any) []record.Record {
	r, existing := c.addOne(input)
	if existing {
		return added
	}
	c.emitAdd(r)
	return append(added, r)
}

// addOne converts and appends a single input. The second return is
// true when the record was already present and nothing changed.
func (c *Collection) addOne(input any) (record.Record, bool) {
	r := c.toRecord(input)

	c.mu.Lock()
	if present := c.findSameLocked(r); present != nil {
		c.mu.Unlock()
		return present, true
	}
	c.records = append(c.records, r)
	c.mu.Unlock()

	r.AdoptBy(c)
	return r, false
}

// toRecord converts an Add input into a record.
func (c *Collection) toRecord(input any) record.Record {
	switch v := input.(type) {
	case nil:
		return c.factory(nil)
	case record.Record:
		return v
	case map[string]any:
		return c.factory(v)
	default:
		panic(fmt.Sprintf("collection: cannot add value of type %T", input))
	}
}

// Remove excises the given record if present, clears its owner
// back-reference, and fires one "remove" event. Returns the removed
// record, or nil when it was not in the collection.
func (c *Collection) Remove(r record.Record) record.Record {
	if r == nil {
		return nil
	}

	c.mu.Lock()
	i := c.indexOfLocked(r)
	if i < 0 {
		c.mu.Unlock()
		return nil
	}
	removed := c.records[i]
	c.records = append(c.records[:i], c.records[i+1:]...)
	c.mu.Unlock()

	removed.Abandon()
	c.emitRemove(removed)
	return removed
}

// RemoveMatching excises every record selected by m, in order.
// Returns the removed records (possibly empty), each having fired one
// "remove" event.
func (c *Collection) RemoveMatching(m matcher.Matcher) []record.Record {
	c.mu.Lock()
	var kept, removed []record.Record
	for _, r := range c.records {
		if m.Matches(r) {
			removed = append(removed, r)
		} else {
			kept = append(kept, r)
		}
	}
	c.records = kept
	c.mu.Unlock()

	out := []record.Record{}
	for _, r := range removed {
		r.Abandon()
		c.emitRemove(r)
		out = append(out, r)
	}
	return out
}

// RemoveAll removes each input element-wise: record.Record elements
// remove that exact record, matcher.Matcher elements remove every
// match. Returns all removed records in removal order.
func (c *Collection) RemoveAll(inputs ...any) []record.Record {
	removed := []record.Record{}
	for _, input := range inputs {
		switch v := input.(type) {
		case record.Record:
			if r := c.Remove(v); r != nil {
				removed = append(removed, r)
			}
		case matcher.Matcher:
			removed = append(removed, c.RemoveMatching(v)...)
		case []any:
			removed = append(removed, c.RemoveAll(v...)...)
		default:
			panic(fmt.Sprintf("collection: cannot remove value of type %T", input))
		}
	}
	return removed
}

// Replace clears the collection without firing per-record remove
// events, then adds the inputs with AddAll semantics.
func (c *Collection) Replace(inputs ...any) []record.Record {
	c.mu.Lock()
	old := c.records
	c.records = nil
	c.mu.Unlock()

	for _, r := range old {
		r.Abandon()
	}
	return c.AddAll(inputs...)
}

// findSameLocked returns the present record equal to r by reference
// or identifier, or nil. Must be called with c.mu held.
func (c *Collection) findSameLocked(r record.Record) record.Record {
	for _, existing := range c.records {
		if sameRecord(existing, r) {
			return existing
		}
	}
	return nil
}

// indexOfLocked returns the position of r, or -1. Must be called with
// c.mu held.
func (c *Collection) indexOfLocked(r record.Record) int {
	for i, existing := range c.records {
		if sameRecord(existing, r) {
			return i
		}
	}
	return -1
}

// sameRecord reports identity between two records: the same instance,
// or two records with determinable, equal identifiers. Records
// without a determinable identifier compare by reference only.
// Identifiers compare by string form so a float64 decoded from JSON
// matches its integer literal.
func sameRecord(a, b record.Record) bool {
	if a == b {
		return true
	}
	aID, aOK := a.Identifier()
	bID, bOK := b.Identifier()
	if !aOK || !bOK {
		return false
	}
	return fmt.Sprintf("%v", aID) == fmt.Sprintf("%v", bID)
}
