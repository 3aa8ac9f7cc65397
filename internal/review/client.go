package review

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// Client talks to the GitHub API for a single pull request. Like the other
// tools, its operations report both success and failure as descriptive text
// so the model can react to either.
type Client struct {
	gh       *github.Client
	owner    string
	repo     string
	prNumber int
	headSHA  string
}

// NewClient builds a pull request client from the GitHub Actions context.
func NewClient(ctx context.Context, id Identity) (*Client, error) {
	parts := strings.SplitN(id.Repository, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid GITHUB_REPOSITORY value %q, expected owner/repo", id.Repository)
	}

	event, err := LoadEvent(id.EventPath)
	if err != nil {
		return nil, err
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: id.Token})
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		gh:       github.NewClient(tc),
		owner:    parts[0],
		repo:     parts[1],
		prNumber: event.PRNumber,
		headSHA:  event.HeadSHA,
	}, nil
}

// ChangedFiles returns every file of the pull request, following
// pagination until the listing is exhausted.
func (c *Client) ChangedFiles(ctx context.Context) ([]*github.CommitFile, error) {
	opts := &github.ListOptions{PerPage: 100}
	var all []*github.CommitFile
	for {
		files, resp, err := c.gh.PullRequests.ListFiles(ctx, c.owner, c.repo, c.prNumber, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, files...)
		if resp.NextPage == 0 {
			return all, nil
		}
		opts.Page = resp.NextPage
	}
}

// positionFor locates the diff position of file/line within the pull
// request's changed files.
func (c *Client) positionFor(files []*github.CommitFile, file string, line int) (int, bool) {
	for _, f := range files {
		if f.GetFilename() != file {
			continue
		}
		patch := f.GetPatch()
		if patch == "" {
			return 0, false
		}
		return PositionIn(patch, line)
	}
	return 0, false
}

// PostComment adds a review comment to the pull request. It prefers an
// inline comment anchored to the diff and falls back to a general PR
// comment when no diff position exists or the inline request fails.
func (c *Client) PostComment(ctx context.Context, args map[string]any) string {
	file, ok := stringArg(args, "file")
	if !ok {
		return "Error: The 'file' argument is required and must be a non-empty string."
	}
	line, ok := intArg(args, "line")
	if !ok || line <= 0 {
		return "Error: The 'line' argument is required and must be a positive integer."
	}
	comment, ok := stringArg(args, "comment")
	if !ok {
		return "Error: The 'comment' argument is required and must be a non-empty string."
	}

	files, err := c.ChangedFiles(ctx)
	if err != nil {
		return fmt.Sprintf("Error: Failed to list changed files for PR #%d: %v", c.prNumber, err)
	}

	position, ok := c.positionFor(files, file, line)
	if !ok {
		body := fmt.Sprintf("File: %s, line %d\n\n%s\n\n(Diff position not found)", file, line, comment)
		if err := c.postGeneralComment(ctx, body); err != nil {
			return fmt.Sprintf("Error: Failed to add a comment to the PR: %v", err)
		}
		return "Could not determine a position for the inline comment. Added a general comment to the PR."
	}

	inline := &github.PullRequestComment{
		Body:     github.String(comment),
		Path:     github.String(file),
		Position: github.Int(position),
		CommitID: github.String(c.headSHA),
	}
	if _, _, err := c.gh.PullRequests.CreateComment(ctx, c.owner, c.repo, c.prNumber, inline); err != nil {
		body := fmt.Sprintf("File: %s, line %d\n\n%s\n\n(Failed to create inline comment: %v)", file, line, comment, err)
		if err := c.postGeneralComment(ctx, body); err != nil {
			return fmt.Sprintf("Error: Failed to add a comment to the PR: %v", err)
		}
		return "Failed to create an inline comment. Added a general comment to the PR."
	}
	return fmt.Sprintf("Comment added to PR #%d, file %s, line %d (position %d)", c.prNumber, file, line, position)
}

func (c *Client) postGeneralComment(ctx context.Context, body string) error {
	_, _, err := c.gh.Issues.CreateComment(ctx, c.owner, c.repo, c.prNumber,
		&github.IssueComment{Body: github.String(body)})
	return err
}

type commentRecord struct {
	ID        int64  `json:"id"`
	File      string `json:"file"`
	Line      int    `json:"line"`
	Body      string `json:"body"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
}

// ListComments renders the existing review comments of the pull request as
// a JSON array the model can read back.
func (c *Client) ListComments(ctx context.Context) string {
	opts := &github.PullRequestListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var records []commentRecord
	for {
		comments, resp, err := c.gh.PullRequests.ListComments(ctx, c.owner, c.repo, c.prNumber, opts)
		if err != nil {
			return fmt.Sprintf("Error: Failed to list review comments: %v", err)
		}
		for _, cm := range comments {
			records = append(records, commentRecord{
				ID:        cm.GetID(),
				File:      cm.GetPath(),
				Line:      commentLine(cm),
				Body:      cm.GetBody(),
				Author:    cm.GetUser().GetLogin(),
				CreatedAt: cm.GetCreatedAt().UTC().Format(time.RFC3339),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	if records == nil {
		records = []commentRecord{}
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error: Failed to render review comments: %v", err)
	}
	return string(out)
}

// commentLine picks the best available line indicator. Comments on
// outdated diffs lose their current line but keep the original one, and
// very old comments may only carry a position.
func commentLine(cm *github.PullRequestComment) int {
	for _, v := range []*int{cm.Line, cm.OriginalLine, cm.Position, cm.OriginalPosition} {
		if v != nil {
			return *v
		}
	}
	return 0
}

func stringArg(args map[string]any, key string) (string, bool) {
	s, ok := args[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// intArg accepts both native integers and the float64 values JSON
// decoding produces for model arguments. Non-integral floats are rejected.
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}
