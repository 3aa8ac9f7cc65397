// Package builtin assembles the registry of tools that ship with the
// agent. Keeping the assembly here avoids import cycles between the
// registry and the tool implementations.
package builtin

import (
	"reviewagent/internal/review"
	"reviewagent/internal/tool"
	"reviewagent/internal/tool/filesystem"
	"reviewagent/internal/tool/gitrepo"
)

// NewRegistry returns a registry populated with every built-in tool.
func NewRegistry() *tool.Registry {
	r := tool.NewRegistry()

	r.Register("filesystem", "list_directory", filesystem.BuildListDirectory)
	r.Register("filesystem", "read_file", filesystem.BuildReadFile)
	r.Register("filesystem", "search_in_files", filesystem.BuildSearchInFiles)

	r.Register("git", "git_changed_files", gitrepo.BuildChangedFiles)
	r.Register("git", "git_diff", gitrepo.BuildFullDiff)
	r.Register("git", "git_pr_diff", gitrepo.BuildPRDiff)
	r.Register("git", "git_pr_changed_files", gitrepo.BuildPRChangedFiles)
	r.Register("git", "post_review_comment", review.BuildPostReviewComment)
	r.Register("git", "list_review_comments", review.BuildListReviewComments)

	return r
}

var defaultTypes = map[string]string{
	"list_directory":       "filesystem",
	"read_file":            "filesystem",
	"search_in_files":      "filesystem",
	"git_changed_files":    "git",
	"git_diff":             "git",
	"git_pr_diff":          "git",
	"git_pr_changed_files": "git",
	"post_review_comment":  "git",
	"list_review_comments": "git",
}

// DefaultType resolves the tool type for specs that name a built-in tool
// without saying which type it belongs to.
func DefaultType(name string) (string, bool) {
	t, ok := defaultTypes[name]
	return t, ok
}
