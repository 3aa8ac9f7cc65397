package tool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewagent/internal/provider"
)

// echoTool records the config it was built from and echoes it on Execute.
type echoTool struct {
	config map[string]any
	calls  int
}

func (e *echoTool) Name() string        { return "echo" }
func (e *echoTool) Description() string { return "echoes its bound config" }
func (e *echoTool) Definition() provider.ToolDefinition {
	return provider.ToolDefinition{Name: "echo"}
}
func (e *echoTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	e.calls++
	return fmt.Sprintf("%v", e.config["value"]), nil
}

func newEchoBuilder() Builder {
	return func(config map[string]any) (Tool, error) {
		return &echoTool{config: config}, nil
	}
}

func TestRegistryCreate(t *testing.T) {
	r := NewRegistry()
	r.Register("test", "echo", newEchoBuilder())

	tl, err := r.Create(Spec{Name: "echo", Type: "test", Config: map[string]any{"value": 42}})
	require.NoError(t, err)

	out, err := tl.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "42", out)
}

func TestRegistryCreateInvalidSpec(t *testing.T) {
	r := NewRegistry()
	r.Register("test", "echo", newEchoBuilder())

	cases := []struct {
		name string
		spec Spec
	}{
		{"empty name", Spec{Type: "test"}},
		{"empty type", Spec{Name: "echo"}},
		{"whitespace name", Spec{Name: "   ", Type: "test"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Create(tc.spec)
			assert.ErrorIs(t, err, ErrInvalidSpec)
		})
	}
}

func TestRegistryCreateUnknownTool(t *testing.T) {
	r := NewRegistry()
	r.Register("test", "echo", newEchoBuilder())

	_, err := r.Create(Spec{Name: "missing", Type: "test"})
	var unknown *UnknownToolError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "missing", unknown.Name)
	assert.Equal(t, "test", unknown.Type)

	_, err = r.Create(Spec{Name: "echo", Type: "nope"})
	assert.ErrorAs(t, err, &unknown)
}

func TestRegistryRegisterOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Register("test", "echo", func(config map[string]any) (Tool, error) {
		return &echoTool{config: map[string]any{"value": "old"}}, nil
	})
	r.Register("test", "echo", func(config map[string]any) (Tool, error) {
		return &echoTool{config: map[string]any{"value": "new"}}, nil
	})

	tl, err := r.Create(Spec{Name: "echo", Type: "test"})
	require.NoError(t, err)
	out, _ := tl.Execute(context.Background(), nil)
	assert.Equal(t, "new", out)
}

// Two instances built from the same spec must not share state.
func TestRegistryCreateIndependentInstances(t *testing.T) {
	r := NewRegistry()
	r.Register("test", "echo", newEchoBuilder())
	spec := Spec{Name: "echo", Type: "test", Config: map[string]any{"value": "x"}}

	first, err := r.Create(spec)
	require.NoError(t, err)
	second, err := r.Create(spec)
	require.NoError(t, err)
	require.NotSame(t, first, second)

	outA, _ := first.Execute(context.Background(), nil)
	outB, _ := second.Execute(context.Background(), nil)
	assert.Equal(t, outA, outB)
	assert.Equal(t, 1, first.(*echoTool).calls)
	assert.Equal(t, 1, second.(*echoTool).calls)
}
