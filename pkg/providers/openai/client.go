package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"mercator-hq/kotoba/pkg/providers"
)

// ProviderName is the name used in logs and errors.
const ProviderName = "openai"

// Client sends chat completion requests to an OpenAI-compatible endpoint.
// It is safe for concurrent use; one Client per process shares a single
// connection pool.
type Client struct {
	*providers.HTTPProvider
	apiKey string
}

// NewClient creates a client for the configured endpoint. The API key may be
// empty; callers are expected to check for it before calling Complete.
func NewClient(config providers.ProviderConfig) (*Client, error) {
	if config.Name == "" {
		config.Name = ProviderName
	}
	if config.Endpoint == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "endpoint",
			Message:  "endpoint is required",
		}
	}

	return &Client{
		HTTPProvider: providers.NewHTTPProvider(config),
		apiKey:       config.APIKey,
	}, nil
}

// HasCredential reports whether an API key was configured.
func (c *Client) HasCredential() bool {
	return c.apiKey != ""
}

// Complete posts req and decodes the reply. The body is decoded whatever the
// HTTP status, because OpenAI reports failures inside the JSON body.
//
// Errors are *providers.TransportError when no response arrived and
// *providers.ParseError when the body is not a JSON object.
func (c *Client) Complete(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	raw, err := c.Post(ctx, body, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
		"Content-Type":  "application/json",
	})
	if err != nil {
		return nil, err
	}

	resp, err := DecodeResponse(raw.Body)
	if err != nil {
		return nil, &providers.ParseError{
			Provider:    c.GetName(),
			StatusCode:  raw.StatusCode,
			RawResponse: string(raw.Body),
			Cause:       err,
		}
	}
	resp.StatusCode = raw.StatusCode

	return resp, nil
}
