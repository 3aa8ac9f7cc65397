package gemini

import (
	"context"
	"fmt"

	"reviewagent/internal/provider"
)

// Provider implements provider.Provider for Google Gemini.
type Provider struct {
	client Client
	model  string
}

// New creates a Provider with the given client and model name.
func New(client Client, model string) *Provider {
	return &Provider{client: client, model: model}
}

// Generate sends one request to the Gemini API.
func (p *Provider) Generate(ctx context.Context, req *provider.GenerateRequest) (*provider.Response, error) {
	resp, err := p.client.GenerateContent(ctx, p.model, toContents(req.History), toConfig(req))
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	return fromResponse(resp), nil
}

// Model returns the active model name.
func (p *Provider) Model() string { return p.model }
