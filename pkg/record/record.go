// Package record defines the record collaborator used by collection:
// a single addressable unit of data with attributes, an optional
// identifier, and a weak back-reference to the container that owns it.
package record

// Owner is the handle a container passes to records it adopts. The
// relation is weak and revocable: a record may be abandoned and later
// adopted by a different owner.
type Owner interface {
	// Discard removes the record from the owning container.
	Discard(r Record)
}

// Record is a single addressable unit of data.
type Record interface {
	// Identifier returns the record identifier and whether one is set.
	// Records without a determinable identifier are transient.
	Identifier() (any, bool)

	// UID returns a process-unique id minted at construction. It is
	// stable for the record's lifetime and never sent over the wire;
	// it exists so transient records still have a usable identity.
	UID() string

	// Attributes returns the live attribute map.
	Attributes() map[string]any

	// Get returns the attribute named key and whether it is present.
	Get(key string) (any, bool)

	// Set stores value under key.
	Set(key string, value any)

	// Merge applies attrs over the current attributes, overwriting
	// existing keys and keeping the rest.
	Merge(attrs map[string]any)

	// SaveBody returns the request body fragment for this record.
	SaveBody() any

	// SetValidationErrors replaces the record's validation errors.
	// An empty or nil map clears them.
	SetValidationErrors(errs map[string][]string)

	// ValidationErrors returns the current validation errors, keyed
	// by attribute name.
	ValidationErrors() map[string][]string

	// ClearValidationErrors removes all validation errors.
	ClearValidationErrors()

	// AdoptBy sets the owning container handle.
	AdoptBy(o Owner)

	// Abandon clears the owning container handle.
	Abandon()

	// Owner returns the current owning container handle, or nil.
	Owner() Owner
}

// Validator is implemented by records that can validate their own
// attributes before a save request is issued.
type Validator interface {
	// Validate checks the record's attributes and stores any findings
	// as validation errors. It returns a non-nil error iff the record
	// is invalid.
	Validate() error
}

// Factory constructs a Record from a plain attribute map. Records
// passed to a container directly bypass construction.
type Factory func(attrs map[string]any) Record

// NewFactory returns a Factory producing Base records with the given
// options applied to each constructed record.
func NewFactory(opts ...Option) Factory {
	return func(attrs map[string]any) Record {
		return NewBase(attrs, opts...)
	}
}
