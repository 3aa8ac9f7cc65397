package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewagent/internal/tool"
)

func TestNewRegistryCreatesEveryBuiltin(t *testing.T) {
	r := NewRegistry()
	workdir := t.TempDir()

	specs := []tool.Spec{
		{Name: "list_directory", Type: "filesystem", Config: map[string]any{"workdir": workdir}},
		{Name: "read_file", Type: "filesystem", Config: map[string]any{"workdir": workdir}},
		{Name: "search_in_files", Type: "filesystem", Config: map[string]any{"workdir": workdir}},
		{Name: "git_changed_files", Type: "git", Config: map[string]any{"workdir": workdir}},
		{Name: "git_diff", Type: "git", Config: map[string]any{"workdir": workdir}},
		{Name: "git_pr_diff", Type: "git", Config: map[string]any{"workdir": workdir}},
		{Name: "git_pr_changed_files", Type: "git", Config: map[string]any{"workdir": workdir}},
		{Name: "post_review_comment", Type: "git"},
		{Name: "list_review_comments", Type: "git"},
	}
	for _, spec := range specs {
		t.Run(spec.Name, func(t *testing.T) {
			tl, err := r.Create(spec)
			require.NoError(t, err)
			assert.Equal(t, spec.Name, tl.Name())
			assert.NotEmpty(t, tl.Description())
		})
	}
}

func TestDefaultType(t *testing.T) {
	typ, ok := DefaultType("read_file")
	require.True(t, ok)
	assert.Equal(t, "filesystem", typ)

	_, ok = DefaultType("write_file")
	assert.False(t, ok)
}

func TestNewRegistryRejectsUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Create(tool.Spec{Name: "write_file", Type: "filesystem"})
	var unknown *tool.UnknownToolError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "write_file", unknown.Name)
}
