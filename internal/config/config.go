// Package config loads the YAML agent definition: the instructions the
// agent runs with and the tools it is allowed to use.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Agent is a declarative agent definition.
type Agent struct {
	// ID names the agent; it defaults to "agent" when omitted.
	ID string `yaml:"id"`

	// Description is the system instruction handed to the model.
	Description string `yaml:"description"`

	// Tools lists the tools the agent may call.
	Tools []ToolSpec `yaml:"tools"`
}

// ToolSpec selects a tool and optionally configures it. In YAML it is
// either a bare string naming the tool or a mapping with name, type and
// config keys.
type ToolSpec struct {
	Name   string
	Type   string
	Config map[string]any
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (s *ToolSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var name string
		if err := value.Decode(&name); err != nil {
			return err
		}
		s.Name = name
		return nil
	case yaml.MappingNode:
		var full struct {
			Name   string         `yaml:"name"`
			Type   string         `yaml:"type"`
			Config map[string]any `yaml:"config"`
		}
		if err := value.Decode(&full); err != nil {
			return err
		}
		s.Name = full.Name
		s.Type = full.Type
		s.Config = full.Config
		return nil
	default:
		return fmt.Errorf("line %d: tool entry must be a string or a mapping", value.Line)
	}
}

// Load reads and validates an agent definition file.
func Load(path string) (*Agent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read agent file %s: %w", path, err)
	}

	var agent Agent
	if err := yaml.Unmarshal(data, &agent); err != nil {
		return nil, fmt.Errorf("failed to parse agent file %s: %w", path, err)
	}
	if agent.ID == "" {
		agent.ID = "agent"
	}
	if err := agent.Validate(); err != nil {
		return nil, fmt.Errorf("invalid agent file %s: %w", path, err)
	}
	return &agent, nil
}

// Validate checks the definition for the mistakes users actually make:
// a missing description or tool entries without a name.
func (a *Agent) Validate() error {
	if strings.TrimSpace(a.Description) == "" {
		return fmt.Errorf("agent %q has no description", a.ID)
	}
	for i, t := range a.Tools {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("tool entry %d has no name", i)
		}
	}
	return nil
}
