package collection

import (
	"fmt"

	"github.com/livebuzzevents/syncset/pkg/record"
	"github.com/livebuzzevents/syncset/pkg/transport"
)

// applyFetch reconciles a fetch response. Outside pagination the
// payload replaces the records wholesale. While paginated, a
// non-empty payload is appended (replacing on the first page) and the
// page advances by one; an empty payload marks the last page and
// changes nothing else.
func (c *Collection) applyFetch(resp *transport.Response) error {
	records, err := resp.Records()
	if err != nil {
		return err
	}

	inputs := make([]any, len(records))
	for i, attrs := range records {
		inputs[i] = attrs
	}

	c.mu.Lock()
	paginated := c.page != nil
	firstPage := paginated && *c.page == 1
	c.mu.Unlock()

	if !paginated {
		c.Replace(inputs...)
		return nil
	}

	if len(records) == 0 {
		c.mu.Lock()
		c.lastPageReached = true
		c.mu.Unlock()
		return nil
	}

	if firstPage {
		c.Replace(inputs...)
	} else {
		c.AddAll(inputs...)
	}

	c.mu.Lock()
	if c.page != nil {
		next := *c.page + 1
		c.page = &next
	}
	c.mu.Unlock()
	return nil
}

// applySave reconciles a save response against the records snapshot
// taken when the request body was built. A payload of attribute maps
// merges positionally: index i of the payload into the record that
// was at index i at request time. An absent or empty payload leaves
// local state authoritative. Validation errors from the previous
// attempt clear on every successful save.
//
// A payload length differing from the snapshot breaks the positional
// contract and is a caller error; the merge truncates at the shorter
// length and the mismatch is logged.
func (c *Collection) applySave(snapshot []record.Record, resp *transport.Response) error {
	for _, r := range snapshot {
		r.ClearValidationErrors()
	}

	if resp.IsEmpty() {
		return nil
	}
	records, err := resp.Records()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	if len(records) != len(snapshot) {
		c.logger.Warn("save response length does not match request order",
			"sent", len(snapshot), "received", len(records))
	}
	n := len(records)
	if len(snapshot) < n {
		n = len(snapshot)
	}
	for i := 0; i < n; i++ {
		snapshot[i].Merge(records[i])
	}
	return nil
}

// distributeValidationErrors applies a failed save's validation
// payload onto the snapshot records: a positional list addresses
// records by request order (an empty map meaning no error for that
// position), an object addresses them by identifier. Records with
// transient identifiers cannot be targeted by the keyed form.
func (c *Collection) distributeValidationErrors(snapshot []record.Record, resp *transport.Response) {
	if resp.IsEmpty() {
		return
	}

	if byIndex, ok := resp.ErrorsByIndex(); ok {
		if len(byIndex) != len(snapshot) {
			c.logger.Warn("validation error list length does not match request order",
				"sent", len(snapshot), "received", len(byIndex))
		}
		n := len(byIndex)
		if len(snapshot) < n {
			n = len(snapshot)
		}
		for i := 0; i < n; i++ {
			snapshot[i].SetValidationErrors(byIndex[i])
		}
		return
	}

	if byID, ok := resp.ErrorsByIdentifier(); ok {
		for _, r := range snapshot {
			id, has := r.Identifier()
			if !has {
				continue
			}
			if errs, found := byID[fmt.Sprintf("%v", id)]; found {
				r.SetValidationErrors(errs)
			}
		}
	}
}

// applyDelete removes every targeted record still present, with the
// same effect as Remove including the per-record "remove" event. The
// response payload is not consulted.
func (c *Collection) applyDelete(targets []record.Record) {
	for _, r := range targets {
		c.Remove(r)
	}
}
