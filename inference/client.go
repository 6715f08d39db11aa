// Package inference provides the client for the managed model
// inference API consumed by the forwarding service.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hferrera/vision-chat/convo"
)

const (
	defaultRegion  = "us-east-1"
	defaultTimeout = 60 * time.Second
	endpointFormat = "https://bedrock-runtime.%s.amazonaws.com"
)

// Client is the inference boundary the forwarding service depends on.
type Client interface {
	// Converse sends the full normalized conversation and returns the
	// assistant's reply message.
	Converse(ctx context.Context, messages convo.Conversation) (convo.Message, error)
}

// HTTPClient implements Client against the provider's HTTP API.
type HTTPClient struct {
	options    ClientOptions
	httpClient *http.Client
}

// NewClient creates a new inference client.
func NewClient(opts ...ClientOption) (*HTTPClient, error) {
	options := ClientOptions{
		Region:       defaultRegion,
		SystemPrompt: DefaultSystemPrompt,
		Timeout:      defaultTimeout,
	}
	for _, opt := range opts {
		opt(&options)
	}

	if options.ModelID == "" {
		return nil, fmt.Errorf("inference model id not provided")
	}
	if options.BaseURL == "" {
		options.BaseURL = fmt.Sprintf(endpointFormat, options.Region)
	}

	return &HTTPClient{
		options:    options,
		httpClient: &http.Client{Timeout: options.Timeout},
	}, nil
}

// Converse performs one request/response cycle with the inference API.
// The conversation must already be normalized to its binary-image form.
func (c *HTTPClient) Converse(ctx context.Context, messages convo.Conversation) (convo.Message, error) {
	payload := converseRequest{
		ModelID:  c.options.ModelID,
		System:   []systemBlock{{Text: c.options.SystemPrompt}},
		Messages: messages,
		InferenceConfig: inferenceSettings{
			MaxTokens:   maxTokens,
			Temperature: temperature,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return convo.Message{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.options.BaseURL+"/converse", bytes.NewReader(body))
	if err != nil {
		return convo.Message{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.options.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.options.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return convo.Message{}, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return convo.Message{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
			return convo.Message{}, fmt.Errorf("inference API error: %s", apiErr.Message)
		}
		return convo.Message{}, fmt.Errorf("inference API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var parsed converseResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return convo.Message{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Output == nil || parsed.Output.Message == nil {
		return convo.Message{}, fmt.Errorf("inference response missing output message")
	}

	return *parsed.Output.Message, nil
}
