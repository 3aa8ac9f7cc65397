package filesystem

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"reviewagent/internal/provider"
	"reviewagent/internal/tool"
)

// defaultMaxMatches bounds a search unless the caller asks for fewer.
const defaultMaxMatches = 50

// errStopWalk aborts the walk once enough matches were collected.
var errStopWalk = errors.New("stop walk")

// Search recursively scans files under a subtree for a literal,
// case-sensitive substring. Denied paths are skipped, filenames can be
// filtered by a glob, and files that cannot be read are silently ignored.
func (s *Sandbox) Search(query, p, fileGlob string, maxMatches int) string {
	if p == "" {
		p = "."
	}
	if maxMatches <= 0 {
		maxMatches = defaultMaxMatches
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

	var matches []string
	walkErr := filepath.WalkDir(target, func(entryPath string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries do not abort the whole search.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel := s.relOf(entryPath)
		if d.IsDir() {
			if entryPath != target && (s.denied(rel) || s.ignored(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.denied(rel) || s.ignored(rel) {
			return nil
		}
		if fileGlob != "" {
			if ok, _ := path.Match(fileGlob, d.Name()); !ok {
				return nil
			}
		}

		matches = append(matches, scanFile(entryPath, rel, query, maxMatches-len(matches))...)
		if len(matches) >= maxMatches {
			return errStopWalk
		}
		return nil
	})
	if walkErr != nil && !errors.Is(walkErr, errStopWalk) {
		return fmt.Sprintf("Failed to search in %s: %v", p, walkErr)
	}

	if len(matches) == 0 {
		return fmt.Sprintf("No matches for '%s' in %s", query, p)
	}
	return strings.Join(matches, "\n")
}

// scanFile collects up to remaining matching lines from one file. Files that
// cannot be opened are skipped without reporting.
func scanFile(absPath, rel, query string, remaining int) []string {
	if remaining <= 0 {
		return nil
	}
	f, err := os.Open(absPath)
	if err != nil {
		return nil
	}
	defer f.Close()

	var found []string
	reader := bufio.NewReader(f)
	lineNo := 0
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			lineNo++
			if strings.Contains(line, query) {
				found = append(found, fmt.Sprintf("%s:%d: %s", rel, lineNo, strings.TrimSpace(line)))
				if len(found) >= remaining {
					return found
				}
			}
		}
		if err != nil {
			return found
		}
	}
}

type searchArgs struct {
	Query      string `mapstructure:"query"`
	Path       string `mapstructure:"path"`
	FileGlob   string `mapstructure:"file_glob"`
	MaxMatches int    `mapstructure:"max_matches"`
}

// searchTool adapts Sandbox.Search to the Tool interface.
type searchTool struct {
	sandbox *Sandbox
}

func (t *searchTool) Name() string {
	return "search_in_files"
}

func (t *searchTool) Description() string {
	return "Searches for literal text within files under the working directory"
}

func (t *searchTool) Definition() provider.ToolDefinition {
	return provider.ToolDefinition{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: &provider.Schema{
			Type: "object",
			Properties: map[string]provider.Property{
				"query": {
					Type:        "string",
					Description: "Text to search for (literal, case-sensitive)",
				},
				"path": {
					Type:        "string",
					Description: "Directory path relative to the working directory (default '.')",
				},
				"file_glob": {
					Type:        "string",
					Description: "Optional filename pattern (e.g. '*.go')",
				},
				"max_matches": {
					Type:        "integer",
					Description: "Maximum number of matches to return (default 50)",
				},
			},
			Required: []string{"query"},
		},
	}
}

func (t *searchTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req searchArgs
	if err := tool.DecodeArgs(args, &req); err != nil {
		return "", err
	}
	if req.Query == "" {
		return "The 'query' field is required and must be a non-empty string.", nil
	}
	return t.sandbox.Search(req.Query, req.Path, req.FileGlob, req.MaxMatches), nil
}

// BuildSearchInFiles creates a search_in_files tool bound to the given
// configuration.
func BuildSearchInFiles(config map[string]any) (tool.Tool, error) {
	sandbox, err := NewSandbox(config)
	if err != nil {
		return nil, err
	}
	return &searchTool{sandbox: sandbox}, nil
}
