// Package gitrepo provides read-only git tools: a validated, allow-listed
// subprocess runner with per-stage timeouts, and the composed diff
// operations built on top of it. Like the filesystem tools, every operation
// reports success and failure alike as descriptive text.
package gitrepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"

	"reviewagent/internal/tool"
)

// Subprocess timeout bounds. Fetch gets the longest window because it talks
// to the network; the branch existence probe the shortest.
const (
	DefaultTimeout     = 30 * time.Second
	FetchTimeout       = 60 * time.Second
	BranchCheckTimeout = 10 * time.Second
	BranchListTimeout  = 5 * time.Second
)

// Timeouts bundles the subprocess bounds so callers can override them as a
// group instead of scattering magic durations through call sites.
type Timeouts struct {
	Default     time.Duration
	Fetch       time.Duration
	BranchCheck time.Duration
	BranchList  time.Duration
}

// DefaultTimeouts returns the standard bounds.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Default:     DefaultTimeout,
		Fetch:       FetchTimeout,
		BranchCheck: BranchCheckTimeout,
		BranchList:  BranchListTimeout,
	}
}

// Config is the declarative configuration a git tool is bound to.
type Config struct {
	Workdir    string `mapstructure:"workdir"`
	BaseBranch string `mapstructure:"base_branch"`
	Remote     string `mapstructure:"remote"`
}

// allowedSubcommands is the closed set of git subcommands the runner will
// execute. Everything here is read-only apart from fetch, which only updates
// remote tracking refs.
var allowedSubcommands = map[string]struct{}{
	"diff":      {},
	"fetch":     {},
	"show-ref":  {},
	"branch":    {},
	"rev-parse": {},
	"status":    {},
}

// Canned diagnostics for subprocess failures that never produced output.
const (
	diagGitMissing  = "Git command not found. Please ensure Git is installed and in your PATH."
	diagGitTimedOut = "Git command timed out. The repository might be too large or there might be network issues."
)

// NotARepositoryError reports that a working directory cannot be used as a
// git repository.
type NotARepositoryError struct {
	Reason string
}

func (e *NotARepositoryError) Error() string { return e.Reason }

// Runner executes allow-listed git subcommands in a fixed working directory.
// It caches nothing: the repository is re-validated on every composed
// operation, so instances stay stateless between calls.
type Runner struct {
	workdir  string
	Timeouts Timeouts
}

// NewRunner creates a runner rooted at workdir. The directory is not
// validated here; call Validate before running composed operations.
func NewRunner(workdir string) (*Runner, error) {
	if workdir == "" {
		workdir = "."
	}
	abs, err := filepath.Abs(filepath.Clean(workdir))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workdir: %w", err)
	}
	return &Runner{workdir: abs, Timeouts: DefaultTimeouts()}, nil
}

// Workdir returns the absolute working directory of the runner.
func (r *Runner) Workdir() string { return r.workdir }

// Validate checks that the working directory exists and holds a git
// repository. Detection goes through go-git, so no subprocess is spawned.
func (r *Runner) Validate() error {
	info, err := os.Stat(r.workdir)
	if err != nil {
		if os.IsNotExist(err) {
			return &NotARepositoryError{Reason: fmt.Sprintf("Working directory does not exist: %s", r.workdir)}
		}
		return &NotARepositoryError{Reason: fmt.Sprintf("Cannot access working directory %s: %v", r.workdir, err)}
	}
	if !info.IsDir() {
		return &NotARepositoryError{Reason: fmt.Sprintf("Path is not a directory: %s", r.workdir)}
	}

	if _, err := git.PlainOpenWithOptions(r.workdir, &git.PlainOpenOptions{}); err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return &NotARepositoryError{Reason: fmt.Sprintf(
				"Not a Git repository (missing .git directory): %s\n"+
					"Please ensure you're running this command from within a Git repository "+
					"or initialize one with 'git init'.", r.workdir)}
		}
		return &NotARepositoryError{Reason: fmt.Sprintf("Failed to open repository at %s: %v", r.workdir, err)}
	}
	return nil
}

// Run executes one allow-listed git subcommand, bounded by the given
// timeout, and returns (ok, stdout, stderr) with both streams trimmed.
// Missing binary, timeout and permission failures are reported as ok=false
// with a diagnostic in the stderr slot; Run never returns an error.
func (r *Runner) Run(ctx context.Context, args []string, timeout time.Duration) (bool, string, string) {
	if len(args) == 0 {
		return false, "", "no git subcommand given"
	}
	if _, ok := allowedSubcommands[args[0]]; !ok {
		return false, "", fmt.Sprintf("git subcommand %q is not allowed", args[0])
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "git", args...)
	cmd.Dir = r.workdir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return false, "", diagGitTimedOut
	}
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return false, "", diagGitMissing
		}
		if os.IsPermission(err) {
			return false, "", fmt.Sprintf("Permission denied when trying to access %s. Check your read permissions.", r.workdir)
		}
		// Non-zero exit: pass the command's own streams through.
		return false, strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String())
	}
	return true, strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String())
}

// newRunnerFromConfig decodes a tool configuration mapping into a runner
// plus the PR comparison settings.
func newRunnerFromConfig(config map[string]any) (*Runner, string, string, error) {
	var cfg Config
	if err := tool.DecodeArgs(config, &cfg); err != nil {
		return nil, "", "", fmt.Errorf("invalid git tool config: %w", err)
	}
	runner, err := NewRunner(cfg.Workdir)
	if err != nil {
		return nil, "", "", err
	}
	baseBranch := cfg.BaseBranch
	if baseBranch == "" {
		baseBranch = "origin/main"
	}
	remote := cfg.Remote
	if remote == "" {
		remote = "origin"
	}
	return runner, baseBranch, remote, nil
}
