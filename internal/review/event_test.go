package review

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeEventFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write event file: %v", err)
	}
	return path
}

func TestIdentityFromEnv(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "tok")
		t.Setenv("GITHUB_REPOSITORY", "octo/demo")
		t.Setenv("GITHUB_EVENT_PATH", "/tmp/event.json")

		id, err := IdentityFromEnv()
		if err != nil {
			t.Fatalf("IdentityFromEnv: %v", err)
		}
		if id.Token != "tok" || id.Repository != "octo/demo" || id.EventPath != "/tmp/event.json" {
			t.Errorf("unexpected identity: %+v", id)
		}
	})

	t.Run("reports all missing variables", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "")
		t.Setenv("GITHUB_REPOSITORY", "octo/demo")
		t.Setenv("GITHUB_EVENT_PATH", "")

		_, err := IdentityFromEnv()
		if err == nil {
			t.Fatal("expected error")
		}
		msg := err.Error()
		if !strings.Contains(msg, "GITHUB_TOKEN, GITHUB_EVENT_PATH") {
			t.Errorf("expected both missing variables listed, got %q", msg)
		}
		if !strings.Contains(msg, "GitHub Actions") {
			t.Errorf("expected remediation hint, got %q", msg)
		}
	})
}

func TestLoadEvent(t *testing.T) {
	t.Run("pull request payload", func(t *testing.T) {
		path := writeEventFile(t, `{"pull_request": {"number": 42, "head": {"sha": "abc123"}}}`)
		ev, err := LoadEvent(path)
		if err != nil {
			t.Fatalf("LoadEvent: %v", err)
		}
		if ev.PRNumber != 42 || ev.HeadSHA != "abc123" {
			t.Errorf("unexpected event: %+v", ev)
		}
	})

	t.Run("top-level number", func(t *testing.T) {
		path := writeEventFile(t, `{"number": 7}`)
		ev, err := LoadEvent(path)
		if err != nil {
			t.Fatalf("LoadEvent: %v", err)
		}
		if ev.PRNumber != 7 {
			t.Errorf("unexpected number: %d", ev.PRNumber)
		}
	})

	t.Run("no number", func(t *testing.T) {
		path := writeEventFile(t, `{"action": "opened"}`)
		if _, err := LoadEvent(path); err == nil {
			t.Error("expected error for payload without a PR number")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadEvent(filepath.Join(t.TempDir(), "gone.json")); err == nil {
			t.Error("expected error for missing event file")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		path := writeEventFile(t, "{not json")
		if _, err := LoadEvent(path); err == nil {
			t.Error("expected error for invalid payload")
		}
	})
}
