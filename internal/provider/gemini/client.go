// Package gemini implements the Provider interface on top of the Google
// Gemini API.
package gemini

import (
	"context"

	"google.golang.org/genai"
)

// Client is the slice of the Gemini SDK the provider needs. The
// abstraction keeps tests off the network.
type Client interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// SDKClient adapts the official SDK client to the Client interface.
type SDKClient struct {
	client *genai.Client
}

// NewSDKClient wraps an SDK client.
func NewSDKClient(client *genai.Client) *SDKClient {
	return &SDKClient{client: client}
}

// GenerateContent calls the SDK's GenerateContent method.
func (c *SDKClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return c.client.Models.GenerateContent(ctx, model, contents, config)
}

// Connect creates an authenticated SDK client.
func Connect(ctx context.Context, apiKey string) (*SDKClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	return NewSDKClient(client), nil
}
