// Package tool defines the capability model of the agent: a Tool interface
// every bound capability implements, and a Registry that turns declarative
// tool specifications into bound instances.
package tool

import (
	"context"

	"reviewagent/internal/provider"
)

// Tool represents a capability the agent can use.
// Each instance closes only over its immutable configuration, so concurrent
// invocation of different instances is safe.
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Definition returns the structured tool definition for the provider.
	Definition() provider.ToolDefinition

	// Execute runs the tool with the given arguments. Args is a map of
	// argument names to values, as provided by the model. The returned
	// string carries both success and failure outcomes as plain text;
	// the error is reserved for malformed argument maps.
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// Spec is a declarative tool specification, typically loaded from an agent
// YAML file. Config is passed verbatim to the matching builder.
type Spec struct {
	Name   string
	Type   string
	Config map[string]any
}

// Builder constructs a bound Tool from a configuration mapping. Builders
// receive only the config and must not reach back into the registry.
type Builder func(config map[string]any) (Tool, error)
