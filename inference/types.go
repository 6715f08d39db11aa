package inference

import (
	"time"

	"github.com/hferrera/vision-chat/convo"
)

// Request parameters fixed by the exchange contract.
const (
	maxTokens   = 1000
	temperature = 0.5
)

// DefaultSystemPrompt is sent when no prompt is configured.
const DefaultSystemPrompt = "You are a helpful assistant. Answer questions about text and images the user sends you."

// converseRequest is the wire form of one inference call.
type converseRequest struct {
	ModelID         string            `json:"modelId"`
	System          []systemBlock     `json:"system"`
	Messages        []convo.Message   `json:"messages"`
	InferenceConfig inferenceSettings `json:"inferenceConfig"`
}

type systemBlock struct {
	Text string `json:"text"`
}

type inferenceSettings struct {
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

// converseResponse is the wire form of the provider's reply. The
// output message is the only part this client consumes; its absence is
// a hard failure.
type converseResponse struct {
	Output *struct {
		Message *convo.Message `json:"message"`
	} `json:"output"`
}

// apiError is the provider's error body shape.
type apiError struct {
	Message string `json:"message"`
}

// ClientOptions contains options for creating an inference client.
type ClientOptions struct {
	BaseURL      string
	Region       string
	ModelID      string
	SystemPrompt string
	APIKey       string
	Timeout      time.Duration
}

// ClientOption is a functional option for configuring the client.
type ClientOption func(*ClientOptions)

// WithBaseURL overrides the endpoint derived from the region.
func WithBaseURL(url string) ClientOption {
	return func(o *ClientOptions) {
		o.BaseURL = url
	}
}

// WithRegion sets the region the endpoint is derived from.
func WithRegion(region string) ClientOption {
	return func(o *ClientOptions) {
		o.Region = region
	}
}

// WithModel sets the model identifier sent on every request.
func WithModel(modelID string) ClientOption {
	return func(o *ClientOptions) {
		o.ModelID = modelID
	}
}

// WithSystemPrompt overrides the default system prompt.
func WithSystemPrompt(prompt string) ClientOption {
	return func(o *ClientOptions) {
		o.SystemPrompt = prompt
	}
}

// WithAPIKey sets the bearer token for the inference endpoint.
func WithAPIKey(key string) ClientOption {
	return func(o *ClientOptions) {
		o.APIKey = key
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(o *ClientOptions) {
		o.Timeout = timeout
	}
}
