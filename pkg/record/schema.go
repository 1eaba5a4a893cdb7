package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalid is returned by Validate when a record fails its schema.
var ErrInvalid = errors.New("record attributes failed validation")

// CompileSchema compiles an inline JSON Schema document for use with
// WithSchema. The schema is marshalled through JSON first so map
// literals with mixed value types compile consistently.
func CompileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", strings.NewReader(string(data))); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	return compiler.Compile("schema.json")
}

// normalize round-trips attributes through JSON so validation sees the
// same value types a decoded response payload would carry (ints become
// float64, nested maps become map[string]any).
func normalize(attrs map[string]any) any {
	data, err := json.Marshal(attrs)
	if err != nil {
		return attrs
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return attrs
	}
	return doc
}

// collectSchemaErrors flattens a jsonschema validation error tree into
// per-attribute messages. Errors without an instance location are
// stored under the empty key.
func collectSchemaErrors(err *jsonschema.ValidationError, out map[string][]string) {
	if len(err.Causes) == 0 {
		field := fieldFromLocation(err.InstanceLocation)
		out[field] = append(out[field], err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, out)
	}
}

// fieldFromLocation extracts the top-level attribute name from a JSON
// pointer like "/name" or "/address/street".
func fieldFromLocation(loc string) string {
	loc = strings.TrimPrefix(loc, "/")
	if i := strings.IndexByte(loc, '/'); i >= 0 {
		return loc[:i]
	}
	return loc
}
