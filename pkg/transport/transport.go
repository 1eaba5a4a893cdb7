// Package transport carries requests between a collection and its
// remote resource. The contract is a single Perform call; the HTTP
// implementation in this package is the default, and tests or
// non-HTTP hosts can substitute their own.
package transport

import (
	"context"
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// Transport performs a single request and returns the response.
//
// A nil error means the remote accepted the request; the response
// payload shape depends on the action that built the request. A
// non-nil error means the request failed. When the failure carries a
// usable payload (validation errors in particular) the error is an
// *Error holding the decoded Response.
type Transport interface {
	Perform(ctx context.Context, method, url string, body any) (*Response, error)
}

// Error is a request failure reported by the remote, as opposed to a
// network fault. It keeps the response so validation payloads survive
// the failure path.
type Error struct {
	Status   int
	Response *Response
}

func (e *Error) Error() string {
	return fmt.Sprintf("request failed: status %d", e.Status)
}

// ResponseOf returns the response attached to err when err is a
// transport *Error, nil otherwise.
func ResponseOf(err error) *Response {
	if te, ok := err.(*Error); ok {
		return te.Response
	}
	return nil
}

// RecordsPath selects the record list out of an enveloped payload,
// e.g. "data.items" for APIs that wrap lists. The zero value selects
// the payload root.
type RecordsPath struct {
	expr jp.Expr
}

// ParseRecordsPath parses a JSONPath records selector.
func ParseRecordsPath(path string) (RecordsPath, error) {
	if path == "" {
		return RecordsPath{}, nil
	}
	expr, err := jp.ParseString(path)
	if err != nil {
		return RecordsPath{}, fmt.Errorf("invalid records path %q: %w", path, err)
	}
	return RecordsPath{expr: expr}, nil
}

// Extract applies the path to a decoded document. It returns the
// document itself when no path is set, and reports whether a value
// was found.
func (p RecordsPath) Extract(doc any) (any, bool) {
	if p.expr == nil {
		return doc, true
	}
	found := p.expr.Get(doc)
	if len(found) == 0 {
		return nil, false
	}
	return found[0], true
}

// Response is a decoded transport response.
type Response struct {
	// Status is the protocol status code, 0 when the transport has no
	// status concept.
	Status int

	// Body is the raw response payload. May be empty.
	Body []byte

	// Path selects the record list out of enveloped payloads. Set by
	// the transport that produced the response.
	Path RecordsPath
}

// IsEmpty reports whether the response carries no payload.
func (r *Response) IsEmpty() bool {
	return r == nil || len(r.Body) == 0
}

// Decode unmarshals the raw body into v.
func (r *Response) Decode(v any) error {
	if r.IsEmpty() {
		return fmt.Errorf("response has no body")
	}
	return oj.Unmarshal(r.Body, v)
}

// Records decodes the payload as an ordered sequence of attribute
// maps, applying the records path first when one is set. An empty
// body yields a nil slice and no error.
func (r *Response) Records() ([]map[string]any, error) {
	if r.IsEmpty() {
		return nil, nil
	}
	var doc any
	if err := oj.Unmarshal(r.Body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode response payload: %w", err)
	}
	doc, ok := r.Path.Extract(doc)
	if !ok {
		return nil, fmt.Errorf("records path matched nothing in response payload")
	}
	if doc == nil {
		return nil, nil
	}
	list, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of records, got %T", doc)
	}
	records := make([]map[string]any, 0, len(list))
	for i, item := range list {
		attrs, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected record %d to be an object, got %T", i, item)
		}
		records = append(records, attrs)
	}
	return records, nil
}

// ErrorsByIndex decodes the payload as a positional list of
// per-record validation errors. The second return is false when the
// payload is not a list.
func (r *Response) ErrorsByIndex() ([]map[string][]string, bool) {
	if r.IsEmpty() {
		return nil, false
	}
	var doc any
	if err := oj.Unmarshal(r.Body, &doc); err != nil {
		return nil, false
	}
	list, ok := doc.([]any)
	if !ok {
		return nil, false
	}
	out := make([]map[string][]string, 0, len(list))
	for _, item := range list {
		out = append(out, coerceErrorMap(item))
	}
	return out, true
}

// ErrorsByIdentifier decodes the payload as a map of record
// identifier to validation errors. The second return is false when
// the payload is not an object.
func (r *Response) ErrorsByIdentifier() (map[string]map[string][]string, bool) {
	if r.IsEmpty() {
		return nil, false
	}
	var doc any
	if err := oj.Unmarshal(r.Body, &doc); err != nil {
		return nil, false
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, false
	}
	out := make(map[string]map[string][]string, len(obj))
	for id, item := range obj {
		out[id] = coerceErrorMap(item)
	}
	return out, true
}

// coerceErrorMap normalizes one record's error payload. Values may be
// a single message or a list of messages.
func coerceErrorMap(item any) map[string][]string {
	obj, ok := item.(map[string]any)
	if !ok {
		return map[string][]string{}
	}
	errs := make(map[string][]string, len(obj))
	for field, v := range obj {
		switch t := v.(type) {
		case string:
			errs[field] = []string{t}
		case []any:
			msgs := make([]string, 0, len(t))
			for _, m := range t {
				msgs = append(msgs, fmt.Sprintf("%v", m))
			}
			errs[field] = msgs
		default:
			errs[field] = []string{fmt.Sprintf("%v", v)}
		}
	}
	return errs
}
