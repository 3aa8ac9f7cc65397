package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"reviewagent/internal/provider"
	"reviewagent/internal/tool"
)

// maxListEntries caps directory listings; anything beyond it is replaced by
// a single truncation marker line.
const maxListEntries = 500

// ListDirectory lists the immediate children of a directory inside the
// sandbox. Entries failing containment or matching a deny pattern are
// skipped. The result is always descriptive text.
func (s *Sandbox) ListDirectory(p string) string {
	if p == "" {
		p = "."
	}

	target, ok := s.resolve(p)
	if !ok {
		return fmt.Sprintf("Access denied: path is outside the working directory (%s)", p)
	}

	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("Directory not found: %s", p)
		}
		return fmt.Sprintf("Permission denied for directory: %s", p)
	}
	if !info.IsDir() {
		return fmt.Sprintf("Not a directory: %s", p)
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return fmt.Sprintf("Permission denied for directory: %s", p)
	}

	// os.ReadDir returns entries sorted by name.
	lines := []string{fmt.Sprintf("Contents of %s:", p)}
	count := 0
	for _, entry := range entries {
		rel := s.relOf(filepath.Join(target, entry.Name()))
		if s.denied(rel) || s.ignored(rel) {
			continue
		}
		if count >= maxListEntries {
			lines = append(lines, "... (output truncated)")
			break
		}
		if entry.IsDir() {
			lines = append(lines, fmt.Sprintf("[DIR]  %s", entry.Name()))
		} else {
			sizeInfo := "? B"
			if fi, err := entry.Info(); err == nil {
				sizeInfo = fmt.Sprintf("%d B", fi.Size())
			}
			lines = append(lines, fmt.Sprintf("[FILE] %s  (%s)", entry.Name(), sizeInfo))
		}
		count++
	}
	return strings.Join(lines, "\n")
}

type listDirectoryArgs struct {
	Path string `mapstructure:"path"`
}

// listDirectoryTool adapts Sandbox.ListDirectory to the Tool interface.
type listDirectoryTool struct {
	sandbox *Sandbox
}

func (t *listDirectoryTool) Name() string {
	return "list_directory"
}

func (t *listDirectoryTool) Description() string {
	return "Lists directory contents within the configured working directory"
}

func (t *listDirectoryTool) Definition() provider.ToolDefinition {
	return provider.ToolDefinition{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: &provider.Schema{
			Type: "object",
			Properties: map[string]provider.Property{
				"path": {
					Type:        "string",
					Description: "Relative path inside the working directory (default '.')",
				},
			},
		},
	}
}

func (t *listDirectoryTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req listDirectoryArgs
	if err := tool.DecodeArgs(args, &req); err != nil {
		return "", err
	}
	return t.sandbox.ListDirectory(req.Path), nil
}

// BuildListDirectory creates a list_directory tool bound to the given
// configuration.
func BuildListDirectory(config map[string]any) (tool.Tool, error) {
	sandbox, err := NewSandbox(config)
	if err != nil {
		return nil, err
	}
	return &listDirectoryTool{sandbox: sandbox}, nil
}
