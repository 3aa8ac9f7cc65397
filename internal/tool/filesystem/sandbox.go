// Package filesystem provides read-only tools that operate inside a
// sandboxed working directory. Every operation enforces path containment and
// deny-pattern policy before touching the disk, and reports all outcomes,
// success or failure, as plain text.
package filesystem

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"reviewagent/internal/tool"
)

// DefaultMaxBytes caps how much of a file a single read may return unless
// the caller overrides the limit.
const DefaultMaxBytes int64 = 200_000

// Config is the declarative configuration a filesystem tool is bound to.
type Config struct {
	// Workdir is the sandbox root. Relative values are resolved against
	// the process working directory at build time.
	Workdir string `mapstructure:"workdir"`

	// Deny lists glob patterns excluded from all access. Each pattern is
	// matched against both the full relative path and its basename.
	Deny []string `mapstructure:"deny"`

	// MaxBytes overrides DefaultMaxBytes for full-file reads.
	MaxBytes int64 `mapstructure:"max_bytes"`

	// RespectGitignore additionally hides entries matched by the sandbox
	// root's .gitignore from listing and search.
	RespectGitignore bool `mapstructure:"respect_gitignore"`
}

// Sandbox binds the immutable configuration shared by the filesystem tools.
// It carries no per-call state, so one instance is safe for concurrent use.
type Sandbox struct {
	workdir  string // absolute, cleaned
	deny     []string
	maxBytes int64
	ignore   gitignore.Matcher // nil when disabled or no .gitignore
}

// NewSandbox decodes the configuration mapping and returns a bound sandbox.
func NewSandbox(config map[string]any) (*Sandbox, error) {
	var cfg Config
	if err := tool.DecodeArgs(config, &cfg); err != nil {
		return nil, fmt.Errorf("invalid filesystem tool config: %w", err)
	}

	workdir := cfg.Workdir
	if workdir == "" {
		workdir = "."
	}
	abs, err := filepath.Abs(filepath.Clean(workdir))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workdir: %w", err)
	}

	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	s := &Sandbox{
		workdir:  abs,
		deny:     cfg.Deny,
		maxBytes: maxBytes,
	}
	if cfg.RespectGitignore {
		s.ignore = loadIgnoreMatcher(abs)
	}
	return s, nil
}

// resolve joins a caller-supplied path onto the sandbox root and checks
// containment. The check is a lexical prefix comparison after cleaning;
// symlinks are not followed. Any failure is treated as a denial.
func (s *Sandbox) resolve(p string) (string, bool) {
	var target string
	if filepath.IsAbs(p) {
		target = filepath.Clean(p)
	} else {
		target = filepath.Join(s.workdir, p)
	}
	if target == s.workdir {
		return target, true
	}
	if strings.HasPrefix(target, s.workdir+string(filepath.Separator)) {
		return target, true
	}
	return "", false
}

// relOf converts an absolute path inside the sandbox to its slash-separated
// relative form.
func (s *Sandbox) relOf(abs string) string {
	rel, err := filepath.Rel(s.workdir, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

// denied reports whether a relative path matches any deny pattern, checking
// both the full path and its final segment.
func (s *Sandbox) denied(rel string) bool {
	base := path.Base(rel)
	for _, pattern := range s.deny {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// ignored reports whether a relative path is hidden by the .gitignore
// matcher. Always false when gitignore integration is disabled.
func (s *Sandbox) ignored(rel string) bool {
	if s.ignore == nil || rel == "" || rel == "." {
		return false
	}
	return s.ignore.Match(strings.Split(rel, "/"), false)
}

// loadIgnoreMatcher parses the sandbox root's .gitignore. A missing or
// unreadable file yields a nil matcher, which never ignores.
func loadIgnoreMatcher(workdir string) gitignore.Matcher {
	data, err := os.ReadFile(filepath.Join(workdir, ".gitignore"))
	if err != nil {
		return nil
	}

	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if len(patterns) == 0 {
		return nil
	}
	return gitignore.NewMatcher(patterns)
}
