// Package tools implements the provider side of a tool-invocation exchange:
// named functions published with declared input and output schemas, invoked
// with JSON arguments, and validated in both directions.
package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
)

// Func is the body of a tool. Arguments have already been validated against
// the input schema by the time the function runs; the returned payload is
// validated against the output schema before anyone else sees it.
type Func func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error)

// Tool declares a callable function with its schemas. Declaration is
// explicit: there is no reflection-derived schema, what is registered is
// what gets published.
type Tool struct {
	Name         string
	Description  string
	InputSchema  *jsonschema.Schema
	OutputSchema *jsonschema.Schema
	Func         Func
}

// Descriptor is the published form of a tool, as served by the schema
// endpoint and by tools/list. Immutable once published.
type Descriptor struct {
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	InputSchema  *jsonschema.Schema `json:"inputSchema"`
	OutputSchema *jsonschema.Schema `json:"outputSchema,omitempty"`
}

// Descriptor returns the published form of the tool
func (t Tool) Descriptor() Descriptor {
	return Descriptor{
		Name:         t.Name,
		Description:  t.Description,
		InputSchema:  t.InputSchema,
		OutputSchema: t.OutputSchema,
	}
}
