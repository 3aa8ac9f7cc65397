package review

import (
	"context"

	"reviewagent/internal/provider"
	"reviewagent/internal/tool"
)

// newClientForCall resolves the GitHub Actions context at call time rather
// than at construction, so a tool built outside CI still reports a clear
// message instead of failing the agent startup.
func newClientForCall(ctx context.Context) (*Client, string) {
	id, err := IdentityFromEnv()
	if err != nil {
		return nil, "Error: " + err.Error()
	}
	client, err := NewClient(ctx, id)
	if err != nil {
		return nil, "Error: " + err.Error()
	}
	return client, ""
}

// postCommentTool posts an inline review comment on the current pull request.
type postCommentTool struct{}

// BuildPostReviewComment builds the post_review_comment tool.
func BuildPostReviewComment(config map[string]any) (tool.Tool, error) {
	return &postCommentTool{}, nil
}

func (t *postCommentTool) Name() string { return "post_review_comment" }

func (t *postCommentTool) Description() string {
	return "Post a review comment on a specific line of a file in the current pull request. " +
		"Falls back to a general PR comment when the line is not part of the diff."
}

func (t *postCommentTool) Definition() provider.ToolDefinition {
	return provider.ToolDefinition{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: &provider.Schema{
			Type: "object",
			Properties: map[string]provider.Property{
				"file": {
					Type:        "string",
					Description: "Path of the file to comment on, relative to the repository root.",
				},
				"line": {
					Type:        "integer",
					Description: "Line number in the new version of the file.",
				},
				"comment": {
					Type:        "string",
					Description: "The comment text.",
				},
			},
			Required: []string{"file", "line", "comment"},
		},
	}
}

func (t *postCommentTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	client, errMsg := newClientForCall(ctx)
	if client == nil {
		return errMsg, nil
	}
	return client.PostComment(ctx, args), nil
}

// listCommentsTool lists the existing review comments on the current pull request.
type listCommentsTool struct{}

// BuildListReviewComments builds the list_review_comments tool.
func BuildListReviewComments(config map[string]any) (tool.Tool, error) {
	return &listCommentsTool{}, nil
}

func (t *listCommentsTool) Name() string { return "list_review_comments" }

func (t *listCommentsTool) Description() string {
	return "List the review comments already present on the current pull request as JSON."
}

func (t *listCommentsTool) Definition() provider.ToolDefinition {
	return provider.ToolDefinition{Name: t.Name(), Description: t.Description()}
}

func (t *listCommentsTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	client, errMsg := newClientForCall(ctx)
	if client == nil {
		return errMsg, nil
	}
	return client.ListComments(ctx), nil
}
