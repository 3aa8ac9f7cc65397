package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"reviewagent/internal/provider"
	"reviewagent/internal/tool"
)

func newWithTools(p provider.Provider, tools ...tool.Tool) *Agent {
	return New(p, tools, "")
}

// scriptedProvider returns queued responses and records the requests.
type scriptedProvider struct {
	responses []*provider.Response
	requests  []*provider.GenerateRequest
	err       error
}

func (p *scriptedProvider) Generate(ctx context.Context, req *provider.GenerateRequest) (*provider.Response, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	if len(p.responses) == 0 {
		return &provider.Response{Text: "out of script"}, nil
	}
	resp := p.responses[0]
	p.responses = p.responses[1:]
	return resp, nil
}

func (p *scriptedProvider) Model() string { return "scripted" }

// echoTool repeats its "text" argument.
type echoTool struct {
	calls []map[string]any
	err   error
}

func (t *echoTool) Name() string        { return "echo" }
func (t *echoTool) Description() string { return "Echo the input." }
func (t *echoTool) Definition() provider.ToolDefinition {
	return provider.ToolDefinition{Name: "echo", Description: "Echo the input."}
}
func (t *echoTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	t.calls = append(t.calls, args)
	if t.err != nil {
		return "", t.err
	}
	text, _ := args["text"].(string)
	return text, nil
}

func TestRunReturnsTextImmediately(t *testing.T) {
	p := &scriptedProvider{responses: []*provider.Response{{Text: "all good"}}}
	a := New(p, nil, "system prompt")

	out, err := a.Run(context.Background(), "check this")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "all good" {
		t.Errorf("unexpected answer: %q", out)
	}

	req := p.requests[0]
	if req.System != "system prompt" {
		t.Errorf("unexpected system instruction: %q", req.System)
	}
	if len(req.History) != 1 || req.History[0].Content != "check this" {
		t.Errorf("unexpected history: %+v", req.History)
	}
}

func TestRunExecutesToolCalls(t *testing.T) {
	echo := &echoTool{}
	p := &scriptedProvider{responses: []*provider.Response{
		{ToolCalls: []provider.ToolCall{{Name: "echo", Args: map[string]any{"text": "ping"}}}},
		{Text: "done"},
	}}
	a := newWithTools(p, echo)

	out, err := a.Run(context.Background(), "go")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "done" {
		t.Errorf("unexpected answer: %q", out)
	}
	if len(echo.calls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(echo.calls))
	}

	// Second request must carry the model turn and the function results.
	history := p.requests[1].History
	if len(history) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(history))
	}
	if history[1].Role != provider.RoleModel || len(history[1].ToolCalls) != 1 {
		t.Errorf("unexpected model turn: %+v", history[1])
	}
	if history[2].Role != provider.RoleFunction || history[2].ToolResults[0].Content != "ping" {
		t.Errorf("unexpected function turn: %+v", history[2])
	}
}

func TestRunReportsToolErrorsAsText(t *testing.T) {
	echo := &echoTool{err: errors.New("disk on fire")}
	p := &scriptedProvider{responses: []*provider.Response{
		{ToolCalls: []provider.ToolCall{{Name: "echo", Args: map[string]any{}}}},
		{Text: "recovered"},
	}}
	a := newWithTools(p, echo)

	out, err := a.Run(context.Background(), "go")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "recovered" {
		t.Errorf("unexpected answer: %q", out)
	}

	result := p.requests[1].History[2].ToolResults[0].Content
	if !strings.HasPrefix(result, "Error: disk on fire") {
		t.Errorf("expected error text result, got %q", result)
	}
}

func TestRunUnknownTool(t *testing.T) {
	p := &scriptedProvider{responses: []*provider.Response{
		{ToolCalls: []provider.ToolCall{{Name: "nope", Args: map[string]any{}}}},
		{Text: "ok"},
	}}
	a := New(p, nil, "")

	if _, err := a.Run(context.Background(), "go"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	result := p.requests[1].History[2].ToolResults[0].Content
	if result != "Error: unknown tool 'nope'" {
		t.Errorf("unexpected result: %q", result)
	}
}

func TestRunTurnBudget(t *testing.T) {
	echo := &echoTool{}
	// Every response asks for another tool call, never a final answer.
	var responses []*provider.Response
	for i := 0; i < 20; i++ {
		responses = append(responses, &provider.Response{
			ToolCalls: []provider.ToolCall{{Name: "echo", Args: map[string]any{"text": "again"}}},
		})
	}
	p := &scriptedProvider{responses: responses}
	a := newWithTools(p, echo)
	a.MaxTurns = 3

	_, err := a.Run(context.Background(), "go")
	if err == nil || !strings.Contains(err.Error(), "3 turns") {
		t.Errorf("expected turn budget error, got %v", err)
	}
	if len(p.requests) != 3 {
		t.Errorf("expected 3 generations, got %d", len(p.requests))
	}
}

func TestRunPropagatesProviderError(t *testing.T) {
	p := &scriptedProvider{err: errors.New("quota exceeded")}
	a := New(p, nil, "")

	if _, err := a.Run(context.Background(), "go"); err == nil {
		t.Error("expected provider error to propagate")
	}
}
