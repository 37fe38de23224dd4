package trade

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaValidator compiles versioned JSON schemas lazily and caches them per
// schema file, so repeated exports pay the compile cost once.
type SchemaValidator struct {
	mu       sync.Mutex
	compiled map[string]*compiledSchema
}

type compiledSchema struct {
	schema  *jsonschema.Schema
	version string
}

func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{compiled: make(map[string]*compiledSchema)}
}

// Validate checks the payload against the schema at path and returns the
// schema's declared version. A non-nil []error return carries the structured
// validation failures; a plain error means the schema itself could not be
// loaded.
func (v *SchemaValidator) Validate(path string, payload map[string]any) (version string, failures []error, err error) {
	cs, err := v.load(path)
	if err != nil {
		return "", nil, err
	}
	if err := cs.schema.Validate(anyify(payload)); err != nil {
		return cs.version, []error{err}, nil
	}
	return cs.version, nil, nil
}

func (v *SchemaValidator) load(path string) (*compiledSchema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if cs, ok := v.compiled[path]; ok {
		return cs, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", path, err)
	}
	version, _ := doc["version"].(string)

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(path, doc); err != nil {
		return nil, fmt.Errorf("register schema %s: %w", path, err)
	}
	schema, err := compiler.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", path, err)
	}

	cs := &compiledSchema{schema: schema, version: version}
	v.compiled[path] = cs
	return cs, nil
}

// anyify round-trips the payload through JSON so the validator sees the same
// value shapes the wire would carry.
func anyify(payload map[string]any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return payload
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return payload
	}
	return out
}
