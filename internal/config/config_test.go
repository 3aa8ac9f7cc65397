package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeAgentFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write agent file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("full definition", func(t *testing.T) {
		path := writeAgentFile(t, `
id: reviewer
description: Review pull requests for defects.
tools:
  - git_pr_diff
  - name: read_file
    type: filesystem
    config:
      workdir: /repo
      max_bytes: 100000
`)
		agent, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if agent.ID != "reviewer" {
			t.Errorf("unexpected id: %q", agent.ID)
		}
		if len(agent.Tools) != 2 {
			t.Fatalf("expected 2 tools, got %d", len(agent.Tools))
		}
		if agent.Tools[0].Name != "git_pr_diff" || agent.Tools[0].Config != nil {
			t.Errorf("unexpected scalar tool: %+v", agent.Tools[0])
		}
		if agent.Tools[1].Type != "filesystem" {
			t.Errorf("unexpected tool type: %q", agent.Tools[1].Type)
		}
		if agent.Tools[1].Config["workdir"] != "/repo" {
			t.Errorf("unexpected tool config: %+v", agent.Tools[1].Config)
		}
	})

	t.Run("default id", func(t *testing.T) {
		path := writeAgentFile(t, "description: Do things.\n")
		agent, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if agent.ID != "agent" {
			t.Errorf("unexpected id: %q", agent.ID)
		}
	})

	t.Run("missing description", func(t *testing.T) {
		path := writeAgentFile(t, "id: broken\ntools:\n  - read_file\n")
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "no description") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("nameless tool entry", func(t *testing.T) {
		path := writeAgentFile(t, "description: x\ntools:\n  - type: filesystem\n")
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "no name") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("tool entry of wrong kind", func(t *testing.T) {
		path := writeAgentFile(t, "description: x\ntools:\n  - [a, b]\n")
		if _, err := Load(path); err == nil {
			t.Error("expected error for sequence tool entry")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "gone.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeAgentFile(t, "description: [unclosed\n")
		if _, err := Load(path); err == nil {
			t.Error("expected parse error")
		}
	})
}
