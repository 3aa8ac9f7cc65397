package review

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Identity is the GitHub Actions context the review tools operate under.
type Identity struct {
	Token      string
	Repository string
	EventPath  string
}

// IdentityFromEnv reads the GitHub Actions environment. All missing
// variables are reported together so the user can fix them in one go.
func IdentityFromEnv() (Identity, error) {
	id := Identity{
		Token:      os.Getenv("GITHUB_TOKEN"),
		Repository: os.Getenv("GITHUB_REPOSITORY"),
		EventPath:  os.Getenv("GITHUB_EVENT_PATH"),
	}
	var missing []string
	if id.Token == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}
	if id.Repository == "" {
		missing = append(missing, "GITHUB_REPOSITORY")
	}
	if id.EventPath == "" {
		missing = append(missing, "GITHUB_EVENT_PATH")
	}
	if len(missing) > 0 {
		return Identity{}, fmt.Errorf("Missing environment variables: %s. "+
			"The tool must be run inside GitHub Actions or have these variables set manually.",
			strings.Join(missing, ", "))
	}
	return id, nil
}

// Event carries the pull request facts extracted from a GitHub Actions
// event payload.
type Event struct {
	PRNumber int
	HeadSHA  string
}

// LoadEvent parses the webhook payload file GitHub Actions points
// GITHUB_EVENT_PATH at. The pull request number may live at the top level
// or under pull_request depending on the triggering event.
func LoadEvent(path string) (*Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file %s: %w", path, err)
	}

	var payload struct {
		Number      int `json:"number"`
		PullRequest struct {
			Number int `json:"number"`
			Head   struct {
				SHA string `json:"sha"`
			} `json:"head"`
		} `json:"pull_request"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse event file %s: %w", path, err)
	}

	number := payload.PullRequest.Number
	if number == 0 {
		number = payload.Number
	}
	if number == 0 {
		return nil, fmt.Errorf("could not determine the pull request number from event file %s", path)
	}
	return &Event{PRNumber: number, HeadSHA: payload.PullRequest.Head.SHA}, nil
}
