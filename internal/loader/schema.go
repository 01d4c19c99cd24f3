package loader

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-scholarly/metadata"
)

const schemaResource = "frontmatter.schema.json"

// compiledSchema wraps an optional JSON schema applied to parsed front
// matter mappings.
type compiledSchema struct {
	schema *jsonschema.Schema
}

// compileSchema builds the validator, or returns nil when no schema is
// configured.
func compileSchema(schema map[string]any) (*compiledSchema, error) {
	if len(schema) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaResource, bytes.NewReader(payload)); err != nil {
		return nil, fmt.Errorf("register schema: %w", err)
	}

	compiled, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &compiledSchema{schema: compiled}, nil
}

// validate checks the pre-extraction front matter mapping against the
// schema.
func (c *compiledSchema) validate(fields metadata.Value) error {
	if c == nil || c.schema == nil {
		return nil
	}
	return c.schema.Validate(fields.Interface())
}
