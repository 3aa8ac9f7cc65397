package filesystem

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"reviewagent/internal/provider"
	"reviewagent/internal/tool"
)

// ReadFile reads a file inside the sandbox. When either line bound is set
// the file is streamed line by line and the byte limit does not apply;
// otherwise the file size is checked against the limit first. Containment
// and deny-pattern checks happen before any I/O.
func (s *Sandbox) ReadFile(p string, maxBytes *int64, startLine, endLine *int) string {
	limit := s.maxBytes
	if maxBytes != nil {
		limit = *maxBytes
	}

	target, ok := s.resolve(p)
	if !ok {
		return fmt.Sprintf("Access denied: path is outside the working directory (%s)", p)
	}
	if s.denied(s.relOf(target)) {
		return fmt.Sprintf("Access denied by deny policy for: %s", p)
	}

	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("File not found: %s", p)
		}
		return fmt.Sprintf("Permission denied when checking file size for %s: %v", p, err)
	}
	if info.IsDir() {
		return fmt.Sprintf("The path points to a directory, not a file: %s", p)
	}

	ranged := startLine != nil || endLine != nil
	if !ranged && info.Size() > limit {
		return fmt.Sprintf("File is too large (%d bytes), limit %d bytes: %s", info.Size(), limit, p)
	}

	f, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("File not found while opening: %s", p)
		}
		if os.IsPermission(err) {
			return fmt.Sprintf("Permission denied when reading file %s: %v", p, err)
		}
		return fmt.Sprintf("OS error while reading file %s: %v", p, err)
	}
	defer f.Close()

	if ranged {
		return readLineRange(f, startLine, endLine)
	}

	data, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return fmt.Sprintf("OS error while reading file %s: %v", p, err)
	}
	// Invalid bytes are substituted rather than failing the read.
	return strings.ToValidUTF8(string(data), "�")
}

// readLineRange keeps lines whose 1-based index falls in [startLine,
// endLine]; either bound may be nil for an open end. Trailing newlines are
// stripped per line and the kept lines joined with a newline.
func readLineRange(f *os.File, startLine, endLine *int) string {
	reader := bufio.NewReader(f)
	var kept []string
	lineNo := 0
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			lineNo++
			include := true
			if startLine != nil && lineNo < *startLine {
				include = false
			}
			if endLine != nil && lineNo > *endLine {
				break
			}
			if include {
				kept = append(kept, strings.TrimSuffix(line, "\n"))
			}
		}
		if err != nil {
			break
		}
	}
	return strings.Join(kept, "\n")
}

type readFileArgs struct {
	Path      string `mapstructure:"path"`
	MaxBytes  *int64 `mapstructure:"max_bytes"`
	StartLine *int   `mapstructure:"start_line"`
	EndLine   *int   `mapstructure:"end_line"`
}

// readFileTool adapts Sandbox.ReadFile to the Tool interface.
type readFileTool struct {
	sandbox *Sandbox
}

func (t *readFileTool) Name() string {
	return "read_file"
}

func (t *readFileTool) Description() string {
	return "Reads a file within the working directory with size limits, deny-pattern checks and optional line ranges"
}

func (t *readFileTool) Definition() provider.ToolDefinition {
	return provider.ToolDefinition{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: &provider.Schema{
			Type: "object",
			Properties: map[string]provider.Property{
				"path": {
					Type:        "string",
					Description: "Relative path to a file inside the working directory",
				},
				"max_bytes": {
					Type:        "integer",
					Description: "Override the read size limit for this call",
				},
				"start_line": {
					Type:        "integer",
					Description: "First line to read (1-based, optional)",
				},
				"end_line": {
					Type:        "integer",
					Description: "Last line to read (inclusive, optional)",
				},
			},
			Required: []string{"path"},
		},
	}
}

func (t *readFileTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req readFileArgs
	if err := tool.DecodeArgs(args, &req); err != nil {
		return "", err
	}
	return t.sandbox.ReadFile(req.Path, req.MaxBytes, req.StartLine, req.EndLine), nil
}

// BuildReadFile creates a read_file tool bound to the given configuration.
func BuildReadFile(config map[string]any) (tool.Tool, error) {
	sandbox, err := NewSandbox(config)
	if err != nil {
		return nil, err
	}
	return &readFileTool{sandbox: sandbox}, nil
}
