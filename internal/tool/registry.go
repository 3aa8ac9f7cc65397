package tool

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSpec is returned by Create when a specification is missing its
// name or type.
var ErrInvalidSpec = errors.New("invalid tool specification: 'name' and 'type' fields are required")

// UnknownToolError is returned by Create when no builder is registered for
// the (type, name) pair.
type UnknownToolError struct {
	Type string
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q for type %q", e.Name, e.Type)
}

// Registry maps (type, name) pairs to builder functions.
//
// Registration and creation are not synchronised: populate the registry
// fully before handing it to concurrent callers.
type Registry struct {
	builders map[string]map[string]Builder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]map[string]Builder)}
}

// Register inserts or overwrites the builder for the given type and name.
func (r *Registry) Register(toolType, name string, builder Builder) {
	bucket, ok := r.builders[toolType]
	if !ok {
		bucket = make(map[string]Builder)
		r.builders[toolType] = bucket
	}
	bucket[name] = builder
}

// Create builds a bound tool instance from the given specification.
func (r *Registry) Create(spec Spec) (Tool, error) {
	name := strings.TrimSpace(spec.Name)
	toolType := strings.TrimSpace(spec.Type)
	if name == "" || toolType == "" {
		return nil, ErrInvalidSpec
	}

	bucket, ok := r.builders[toolType]
	if !ok {
		return nil, &UnknownToolError{Type: toolType, Name: name}
	}
	builder, ok := bucket[name]
	if !ok {
		return nil, &UnknownToolError{Type: toolType, Name: name}
	}

	config := spec.Config
	if config == nil {
		config = map[string]any{}
	}
	return builder(config)
}
