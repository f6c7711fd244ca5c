package tools

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// resolvedSchema pairs a declared schema with its resolved form, which is
// what actually validates instances.
type resolvedSchema struct {
	resolved *jsonschema.Resolved
}

func resolveSchema(s *jsonschema.Schema) (*resolvedSchema, error) {
	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, err
	}
	return &resolvedSchema{resolved: resolved}, nil
}

func (s *resolvedSchema) validate(instance map[string]interface{}) error {
	return s.resolved.Validate(instance)
}

func (s *resolvedSchema) applyDefaults(instance *map[string]interface{}) error {
	return s.resolved.ApplyDefaults(instance)
}

// ObjectSchema builds the common case of a tool schema: an object with named
// properties and a required list.
func ObjectSchema(properties map[string]*jsonschema.Schema, required []string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}
