// Package provider defines the interface between the agent loop and an LLM
// backend, together with the message and tool-definition types exchanged
// across that boundary.
package provider

import "context"

// Role values for Message.
const (
	RoleUser     = "user"
	RoleModel    = "model"
	RoleFunction = "function"
)

// Message is a single turn in the conversation history.
type Message struct {
	// Role is one of RoleUser, RoleModel or RoleFunction.
	Role string

	// Content is the plain text of the turn, if any.
	Content string

	// ToolCalls holds the calls requested by a model turn.
	ToolCalls []ToolCall

	// ToolResults holds the outputs of a function turn.
	ToolResults []ToolResult
}

// ToolCall is a request from the model to invoke a named tool.
type ToolCall struct {
	Name string
	Args map[string]any
}

// ToolResult is the textual outcome of one tool invocation.
type ToolResult struct {
	Name    string
	Content string
}

// ToolDefinition describes a tool the model may invoke natively.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  *Schema // nil means no parameters
}

// Schema maps directly to a JSON Schema object definition.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Property defines a single parameter property.
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// GenerateRequest encapsulates one generation turn.
type GenerateRequest struct {
	// System is the system instruction for the conversation.
	System string

	// History contains every prior turn, oldest first.
	History []Message

	// Tools are the definitions offered for native tool calling.
	Tools []ToolDefinition

	// Temperature is optional; nil uses the model default.
	Temperature *float32
}

// Response is the model's answer to a GenerateRequest. Exactly one of Text
// and ToolCalls is populated.
type Response struct {
	Text      string
	ToolCalls []ToolCall
}

// Provider is implemented by LLM backends.
type Provider interface {
	// Generate sends one request to the model and returns its response.
	Generate(ctx context.Context, req *GenerateRequest) (*Response, error)

	// Model returns the active model name.
	Model() string
}
