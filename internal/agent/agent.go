// Package agent runs the model conversation loop: it hands the tool
// definitions to the provider, executes the calls the model makes and feeds
// the results back until the model produces a final text answer.
package agent

import (
	"context"
	"fmt"

	"reviewagent/internal/logger"
	"reviewagent/internal/provider"
	"reviewagent/internal/tool"
)

// DefaultMaxTurns bounds the loop so a confused model cannot spin forever.
const DefaultMaxTurns = 10

// Agent drives one conversation against a provider.
type Agent struct {
	provider    provider.Provider
	tools       map[string]tool.Tool
	definitions []provider.ToolDefinition
	system      string
	log         *logger.Entry

	// MaxTurns is the generation budget for a single Run.
	MaxTurns int

	// Temperature is forwarded to the provider when set.
	Temperature *float32
}

// New creates an agent with the given tool set and system instruction.
func New(p provider.Provider, tools []tool.Tool, system string) *Agent {
	byName := make(map[string]tool.Tool, len(tools))
	definitions := make([]provider.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		byName[t.Name()] = t
		definitions = append(definitions, t.Definition())
	}
	return &Agent{
		provider:    p,
		tools:       byName,
		definitions: definitions,
		system:      system,
		log:         logger.Named("agent"),
		MaxTurns:    DefaultMaxTurns,
	}
}

// Run executes the conversation loop for one prompt and returns the
// model's final text answer.
func (a *Agent) Run(ctx context.Context, prompt string) (string, error) {
	history := []provider.Message{{Role: provider.RoleUser, Content: prompt}}

	for turn := 0; turn < a.MaxTurns; turn++ {
		resp, err := a.provider.Generate(ctx, &provider.GenerateRequest{
			System:      a.system,
			History:     history,
			Tools:       a.definitions,
			Temperature: a.Temperature,
		})
		if err != nil {
			return "", err
		}

		if len(resp.ToolCalls) == 0 {
			return resp.Text, nil
		}

		history = append(history, provider.Message{
			Role:      provider.RoleModel,
			Content:   resp.Text,
			ToolCalls: resp.ToolCalls,
		})

		results := make([]provider.ToolResult, 0, len(resp.ToolCalls))
		for _, call := range resp.ToolCalls {
			results = append(results, provider.ToolResult{
				Name:    call.Name,
				Content: a.execute(ctx, call),
			})
		}
		history = append(history, provider.Message{
			Role:        provider.RoleFunction,
			ToolResults: results,
		})
	}

	return "", fmt.Errorf("no final answer after %d turns", a.MaxTurns)
}

// execute runs a single tool call. Failures come back as text so the model
// can recover instead of aborting the whole run.
func (a *Agent) execute(ctx context.Context, call provider.ToolCall) string {
	t, ok := a.tools[call.Name]
	if !ok {
		a.log.Warnf("model requested unknown tool %q", call.Name)
		return fmt.Sprintf("Error: unknown tool '%s'", call.Name)
	}

	a.log.WithField("tool", call.Name).Debug("executing tool call")
	out, err := t.Execute(ctx, call.Args)
	if err != nil {
		a.log.WithField("tool", call.Name).Warnf("tool call failed: %v", err)
		return "Error: " + err.Error()
	}
	return out
}
