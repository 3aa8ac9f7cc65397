package gitrepo

import (
	"context"
	"fmt"
	"strings"

	"reviewagent/internal/provider"
	"reviewagent/internal/tool"
)

// changedFilesTool lists locally modified file paths.
type changedFilesTool struct {
	runner *Runner
}

// BuildChangedFiles builds the git_changed_files tool.
func BuildChangedFiles(config map[string]any) (tool.Tool, error) {
	runner, _, _, err := newRunnerFromConfig(config)
	if err != nil {
		return nil, err
	}
	return &changedFilesTool{runner: runner}, nil
}

func (t *changedFilesTool) Name() string { return "git_changed_files" }

func (t *changedFilesTool) Description() string {
	return "List the paths of files with uncommitted changes in the working tree."
}

func (t *changedFilesTool) Definition() provider.ToolDefinition {
	return provider.ToolDefinition{Name: t.Name(), Description: t.Description()}
}

func (t *changedFilesTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	if err := t.runner.Validate(); err != nil {
		return "Error: " + err.Error(), nil
	}
	ok, out, errMsg := t.runner.Run(ctx, []string{"diff", "--name-only"}, t.runner.Timeouts.Default)
	if !ok {
		if errMsg == "" {
			errMsg = "git diff failed"
		}
		return fmt.Sprintf("Error: %s\n\n"+
			"Troubleshooting tips:\n"+
			"1. Make sure you have the necessary Git permissions\n"+
			"2. Run 'git status' in the repository to check its state\n"+
			"3. If this is a new repository, try making an initial commit", errMsg), nil
	}
	if out == "" {
		return "No changed files", nil
	}
	return out, nil
}

// fullDiffTool returns the diff of uncommitted changes against HEAD.
type fullDiffTool struct {
	runner *Runner
}

// BuildFullDiff builds the git_diff tool.
func BuildFullDiff(config map[string]any) (tool.Tool, error) {
	runner, _, _, err := newRunnerFromConfig(config)
	if err != nil {
		return nil, err
	}
	return &fullDiffTool{runner: runner}, nil
}

func (t *fullDiffTool) Name() string { return "git_diff" }

func (t *fullDiffTool) Description() string {
	return "Show the full diff of uncommitted changes against HEAD."
}

func (t *fullDiffTool) Definition() provider.ToolDefinition {
	return provider.ToolDefinition{Name: t.Name(), Description: t.Description()}
}

func (t *fullDiffTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	if err := t.runner.Validate(); err != nil {
		return "Error: " + err.Error(), nil
	}
	// A repository without commits has no HEAD to diff against.
	if ok, _, _ := t.runner.Run(ctx, []string{"rev-parse", "--is-inside-work-tree"}, t.runner.Timeouts.BranchCheck); !ok {
		return "Error: Not a valid Git repository or no commits yet.\n" +
			"Make sure you have made at least one commit in this repository.", nil
	}
	ok, out, errMsg := t.runner.Run(ctx, []string{"diff", "HEAD"}, t.runner.Timeouts.Default)
	if !ok {
		if errMsg == "" {
			errMsg = "git diff failed"
		}
		return "Error: " + errMsg, nil
	}
	if out == "" {
		return "No changes to show", nil
	}
	return out, nil
}

// prDiff runs the staged comparison against the remote base branch:
// verify the base ref exists, refresh the remote, then diff base...HEAD.
// Each stage short-circuits with its own diagnostic.
func prDiff(ctx context.Context, r *Runner, baseBranch, remote string, nameOnly bool) string {
	if err := r.Validate(); err != nil {
		return "Error: " + err.Error()
	}

	ref := "refs/remotes/" + baseBranch
	if ok, _, errMsg := r.Run(ctx, []string{"show-ref", "--verify", ref}, r.Timeouts.BranchCheck); !ok {
		if errMsg == diagGitTimedOut {
			return "Error: Timed out while checking for base branch. " +
				"The repository might be too large or there might be network issues."
		}
		return fmt.Sprintf("Error: Base branch '%s' not found in remote repository.%s\n"+
			"Please check the branch name or fetch the latest changes with 'git fetch --all'",
			baseBranch, availableBranches(ctx, r))
	}

	if ok, _, errMsg := r.Run(ctx, []string{"fetch", remote}, r.Timeouts.Fetch); !ok {
		return fmt.Sprintf("Git fetch failed.\n"+
			"Command: git fetch %s\n"+
			"Error: %s\n\n"+
			"Troubleshooting tips:\n"+
			"1. Check your network connection\n"+
			"2. Verify you have permission to access the remote repository\n"+
			"3. Run 'git remote -v' to check your remote configuration", remote, errMsg)
	}

	diffArgs := []string{"diff"}
	if nameOnly {
		diffArgs = append(diffArgs, "--name-only")
	}
	diffArgs = append(diffArgs, baseBranch+"...HEAD")
	ok, out, errMsg := r.Run(ctx, diffArgs, r.Timeouts.Default)
	if !ok {
		return fmt.Sprintf("Git diff failed. %s\n\n"+
			"Troubleshooting tips:\n"+
			"1. Verify that branch '%s' exists in the remote\n"+
			"2. Check if you have any uncommitted changes with 'git status'\n"+
			"3. Try running 'git fetch --all' to update all remote branches", errMsg, baseBranch)
	}
	if out == "" {
		if nameOnly {
			return "No changed files"
		}
		return "No changes to show"
	}
	return out
}

// availableBranches renders the remote branch list for the base-branch
// error message. Listing is best effort; a failure yields no hint at all.
func availableBranches(ctx context.Context, r *Runner) string {
	ok, out, _ := r.Run(ctx, []string{"branch", "-r"}, r.Timeouts.BranchList)
	if !ok {
		return ""
	}
	return "\n\nAvailable remote branches:\n" + formatBranchList(out)
}

func formatBranchList(out string) string {
	out = strings.TrimSpace(out)
	if out == "" {
		return "  (no remote branches found)"
	}
	var b strings.Builder
	for _, line := range strings.Split(out, "\n") {
		b.WriteString("  ")
		b.WriteString(strings.TrimSpace(line))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// prDiffTool returns the full diff between the remote base branch and HEAD.
type prDiffTool struct {
	runner     *Runner
	baseBranch string
	remote     string
}

// BuildPRDiff builds the git_pr_diff tool.
func BuildPRDiff(config map[string]any) (tool.Tool, error) {
	runner, baseBranch, remote, err := newRunnerFromConfig(config)
	if err != nil {
		return nil, err
	}
	return &prDiffTool{runner: runner, baseBranch: baseBranch, remote: remote}, nil
}

func (t *prDiffTool) Name() string { return "git_pr_diff" }

func (t *prDiffTool) Description() string {
	return fmt.Sprintf("Show the full diff between the base branch (%s) and HEAD, as a pull request would.", t.baseBranch)
}

func (t *prDiffTool) Definition() provider.ToolDefinition {
	return provider.ToolDefinition{Name: t.Name(), Description: t.Description()}
}

func (t *prDiffTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	return prDiff(ctx, t.runner, t.baseBranch, t.remote, false), nil
}

// prChangedFilesTool lists the files changed between the base branch and HEAD.
type prChangedFilesTool struct {
	runner     *Runner
	baseBranch string
	remote     string
}

// BuildPRChangedFiles builds the git_pr_changed_files tool.
func BuildPRChangedFiles(config map[string]any) (tool.Tool, error) {
	runner, baseBranch, remote, err := newRunnerFromConfig(config)
	if err != nil {
		return nil, err
	}
	return &prChangedFilesTool{runner: runner, baseBranch: baseBranch, remote: remote}, nil
}

func (t *prChangedFilesTool) Name() string { return "git_pr_changed_files" }

func (t *prChangedFilesTool) Description() string {
	return fmt.Sprintf("List the files changed between the base branch (%s) and HEAD.", t.baseBranch)
}

func (t *prChangedFilesTool) Definition() provider.ToolDefinition {
	return provider.ToolDefinition{Name: t.Name(), Description: t.Description()}
}

func (t *prChangedFilesTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	return prDiff(ctx, t.runner, t.baseBranch, t.remote, true), nil
}
