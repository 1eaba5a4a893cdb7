package collection

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/livebuzzevents/syncset/pkg/matcher"
	"github.com/livebuzzevents/syncset/pkg/record"
)

// Aggregation helpers operate purely over the record sequence: no
// network calls and no events. Shift and Pop mutate the sequence but
// still fire nothing.

// Count returns the number of records.
func (c *Collection) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// IsEmpty reports whether the collection holds no records.
func (c *Collection) IsEmpty() bool {
	return c.Count() == 0
}

// First returns the first record, or nil when empty.
func (c *Collection) First() record.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.records) == 0 {
		return nil
	}
	return c.records[0]
}

// Last returns the last record, or nil when empty.
func (c *Collection) Last() record.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.records) == 0 {
		return nil
	}
	return c.records[len(c.records)-1]
}

// Each calls fn for every record in order.
func (c *Collection) Each(fn func(r record.Record)) {
	for _, r := range c.Records() {
		fn(r)
	}
}

// Map returns fn applied to every record, in order.
func (c *Collection) Map(fn func(r record.Record) any) []any {
	records := c.Records()
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = fn(r)
	}
	return out
}

// Filter returns the records selected by m, in order.
func (c *Collection) Filter(m matcher.Matcher) []record.Record {
	out := []record.Record{}
	for _, r := range c.Records() {
		if m.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Where returns the records whose attributes exactly match attrs.
func (c *Collection) Where(attrs map[string]any) []record.Record {
	return c.Filter(matcher.ByAttributes(attrs))
}

// FindMatching returns the first record selected by m, or nil.
func (c *Collection) FindMatching(m matcher.Matcher) record.Record {
	for _, r := range c.Records() {
		if m.Matches(r) {
			return r
		}
	}
	return nil
}

// Find returns the record with the given identifier, or nil.
func (c *Collection) Find(identifier any) record.Record {
	want := fmt.Sprintf("%v", identifier)
	for _, r := range c.Records() {
		if id, ok := r.Identifier(); ok && fmt.Sprintf("%v", id) == want {
			return r
		}
	}
	return nil
}

// Has reports whether r is in the collection, by reference or
// identifier.
func (c *Collection) Has(r record.Record) bool {
	return c.IndexOf(r) >= 0
}

// IndexOf returns the position of r, or -1.
func (c *Collection) IndexOf(r record.Record) int {
	if r == nil {
		return -1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOfLocked(r)
}

// Sum totals the attribute named key across all records. Numeric
// attribute values are accumulated as float64; numeric strings are
// parsed; everything else counts as zero.
func (c *Collection) Sum(key string) float64 {
	var total float64
	for _, r := range c.Records() {
		v, ok := r.Get(key)
		if !ok {
			continue
		}
		total += toFloat(v)
	}
	return total
}

// Reduce folds the records left to right.
func (c *Collection) Reduce(fn func(acc any, r record.Record) any, initial any) any {
	acc := initial
	for _, r := range c.Records() {
		acc = fn(acc, r)
	}
	return acc
}

// SortBy stably sorts the records in place by the attribute named
// key, ascending. The identifier sorts under the key "id".
func (c *Collection) SortBy(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sort.SliceStable(c.records, func(i, j int) bool {
		return lessValues(attrForSort(c.records[i], key), attrForSort(c.records[j], key))
	})
}

// SortFunc stably sorts the records in place with the given ordering.
func (c *Collection) SortFunc(less func(a, b record.Record) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sort.SliceStable(c.records, func(i, j int) bool {
		return less(c.records[i], c.records[j])
	})
}

// Shift removes and returns the first record, or nil when empty. No
// remove event fires and the record keeps no owner.
func (c *Collection) Shift() record.Record {
	c.mu.Lock()
	if len(c.records) == 0 {
		c.mu.Unlock()
		return nil
	}
	r := c.records[0]
	c.records = c.records[1:]
	c.mu.Unlock()

	r.Abandon()
	return r
}

// Pop removes and returns the last record, or nil when empty. No
// remove event fires and the record keeps no owner.
func (c *Collection) Pop() record.Record {
	c.mu.Lock()
	if len(c.records) == 0 {
		c.mu.Unlock()
		return nil
	}
	r := c.records[len(c.records)-1]
	c.records = c.records[:len(c.records)-1]
	c.mu.Unlock()

	r.Abandon()
	return r
}

func attrForSort(r record.Record, key string) any {
	if key == "id" {
		if id, ok := r.Identifier(); ok {
			return id
		}
		return nil
	}
	v, _ := r.Get(key)
	return v
}

// lessValues orders two attribute values: numerically when both are
// numeric, by string form otherwise. Nil sorts first.
func lessValues(a, b any) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	af, aNum := asFloat(a)
	bf, bNum := asFloat(b)
	if aNum && bNum {
		return af < bf
	}
	return fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

func toFloat(v any) float64 {
	if f, ok := asFloat(v); ok {
		return f
	}
	if s, ok := v.(string); ok {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return 0
}
