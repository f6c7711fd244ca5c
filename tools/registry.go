package tools

import (
	"context"
	"fmt"
	"sync"
)

// Registry holds the tools a provider exposes. Tools are registered once at
// startup and live for the provider's process lifetime; the descriptor set
// is stable for as long as the registry exists.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]*registeredTool
}

type registeredTool struct {
	tool   Tool
	input  *resolvedSchema
	output *resolvedSchema
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*registeredTool),
	}
}

// Register adds a tool to the registry. Schemas are resolved here so that a
// malformed declaration fails at startup rather than on first call, and so
// that the published schema cannot change afterwards.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if t.Func == nil {
		return fmt.Errorf("tool %q has no function", t.Name)
	}
	if t.InputSchema == nil {
		return fmt.Errorf("tool %q has no input schema", t.Name)
	}

	input, err := resolveSchema(t.InputSchema)
	if err != nil {
		return fmt.Errorf("tool %q: resolving input schema: %w", t.Name, err)
	}

	var output *resolvedSchema
	if t.OutputSchema != nil {
		output, err = resolveSchema(t.OutputSchema)
		if err != nil {
			return fmt.Errorf("tool %q: resolving output schema: %w", t.Name, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("tool %q already registered", t.Name)
	}

	r.order = append(r.order, t.Name)
	r.tools[t.Name] = &registeredTool{
		tool:   t,
		input:  input,
		output: output,
	}
	return nil
}

// Descriptors returns the published descriptor set in registration order.
// Repeated calls within a session return the same sequence.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		descriptors = append(descriptors, r.tools[name].tool.Descriptor())
	}
	return descriptors
}

// Get returns the descriptor for a single tool
func (r *Registry) Get(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tools[name]
	if !ok {
		return Descriptor{}, false
	}
	return rt.tool.Descriptor(), true
}

// Invoke runs a registered tool. The argument map is validated against the
// declared input schema (with defaults applied) before the function runs,
// and the success payload is validated against the output schema before it
// is returned: a mismatch there is an execution error, never unvalidated
// data.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]interface{}) (map[string]interface{}, error) {
	r.mu.RLock()
	rt, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return nil, Errorf(KindUnknownTool, "tool %q is not registered", name)
	}

	// Defaults and validation work on a copy so the caller's map stays intact
	if args == nil {
		args = map[string]interface{}{}
	}
	supplied := make(map[string]interface{}, len(args))
	for k, v := range args {
		supplied[k] = v
	}

	if err := rt.input.applyDefaults(&supplied); err != nil {
		return nil, Errorf(KindSchemaViolation, "tool %q: %v", name, err)
	}
	if err := rt.input.validate(supplied); err != nil {
		return nil, Errorf(KindSchemaViolation, "tool %q: %v", name, err)
	}

	payload, err := rt.tool.Func(ctx, supplied)
	if err != nil {
		return nil, Errorf(KindExecutionError, "tool %q: %v", name, err)
	}

	if rt.output != nil {
		if err := rt.output.validate(payload); err != nil {
			return nil, Errorf(KindExecutionError, "tool %q returned a payload violating its output schema: %v", name, err)
		}
	}

	return payload, nil
}
