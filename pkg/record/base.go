package record

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// DefaultIdentifierKey is the attribute holding the record identifier
// unless overridden with WithIdentifierKey.
const DefaultIdentifierKey = "id"

// Base is a map-backed Record implementation.
type Base struct {
	uid           string
	identifierKey string
	attrs         map[string]any
	errs          map[string][]string
	owner         Owner
	schema        *jsonschema.Schema
}

// Option configures a Base record.
type Option func(*Base)

// WithIdentifierKey sets the attribute used as the record identifier.
func WithIdentifierKey(key string) Option {
	return func(b *Base) {
		b.identifierKey = key
	}
}

// WithSchema attaches a compiled JSON Schema used by Validate.
func WithSchema(schema *jsonschema.Schema) Option {
	return func(b *Base) {
		b.schema = schema
	}
}

// NewBase creates a Base record with the given initial attributes.
// A nil attrs map creates an empty record.
func NewBase(attrs map[string]any, opts ...Option) *Base {
	if attrs == nil {
		attrs = make(map[string]any)
	}
	b := &Base{
		uid:           uuid.NewString(),
		identifierKey: DefaultIdentifierKey,
		attrs:         attrs,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Identifier returns the identifier attribute and whether one is set.
// A nil identifier attribute counts as absent.
func (b *Base) Identifier() (any, bool) {
	v, ok := b.attrs[b.identifierKey]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// UID returns the transient process-unique id.
func (b *Base) UID() string {
	return b.uid
}

// Attributes returns the live attribute map.
func (b *Base) Attributes() map[string]any {
	return b.attrs
}

// Get returns the attribute named key.
func (b *Base) Get(key string) (any, bool) {
	v, ok := b.attrs[key]
	return v, ok
}

// Set stores value under key.
func (b *Base) Set(key string, value any) {
	b.attrs[key] = value
}

// Merge applies attrs over the current attributes.
func (b *Base) Merge(attrs map[string]any) {
	for k, v := range attrs {
		b.attrs[k] = v
	}
}

// SaveBody returns the attribute map. Embedding types can override
// this to send a reduced or transformed body.
func (b *Base) SaveBody() any {
	return b.attrs
}

// SetValidationErrors replaces the record's validation errors. An
// empty or nil map clears them.
func (b *Base) SetValidationErrors(errs map[string][]string) {
	if len(errs) == 0 {
		b.errs = nil
		return
	}
	b.errs = errs
}

// ValidationErrors returns the current validation errors.
func (b *Base) ValidationErrors() map[string][]string {
	return b.errs
}

// ClearValidationErrors removes all validation errors.
func (b *Base) ClearValidationErrors() {
	b.errs = nil
}

// AdoptBy sets the owning container handle.
func (b *Base) AdoptBy(o Owner) {
	b.owner = o
}

// Abandon clears the owning container handle.
func (b *Base) Abandon() {
	b.owner = nil
}

// Owner returns the current owning container handle, or nil.
func (b *Base) Owner() Owner {
	return b.owner
}

// Discard asks the owning container, if any, to remove this record.
// Records call this on confirmed deletion.
func (b *Base) Discard() {
	if b.owner != nil {
		b.owner.Discard(b)
	}
}

// Validate checks the attributes against the attached JSON Schema and
// stores any findings as validation errors. Records without a schema
// are always valid. It returns ErrInvalid iff validation failed.
func (b *Base) Validate() error {
	if b.schema == nil {
		b.ClearValidationErrors()
		return nil
	}

	err := b.schema.Validate(normalize(b.attrs))
	if err == nil {
		b.ClearValidationErrors()
		return nil
	}

	errs := make(map[string][]string)
	if ve, ok := err.(*jsonschema.ValidationError); ok {
		collectSchemaErrors(ve, errs)
	} else {
		errs[""] = []string{err.Error()}
	}
	b.errs = errs
	return ErrInvalid
}

// String identifies the record by identifier when present, UID
// otherwise.
func (b *Base) String() string {
	if id, ok := b.Identifier(); ok {
		return fmt.Sprintf("record(%v)", id)
	}
	return fmt.Sprintf("record(uid=%s)", b.uid)
}
