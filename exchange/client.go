// Package exchange is the client side of the transport boundary
// between the chat surface and the forwarding service: one serialized
// conversation out, one assistant message (or an error list) back.
package exchange

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

const defaultTimeout = 60 * time.Second

// Invoker performs one exchange against the forwarding service. The
// conversation is already serialized to its JSON transport string.
type Invoker interface {
	Exchange(ctx context.Context, conversation string) (convo.Message, error)
}

// ErrorDetail is one entry of the transport's error list.
type ErrorDetail struct {
	Message   string `json:"message"`
	ErrorType string `json:"errorType"`
}

// Request is the transport request: the conversation JSON-encoded to
// a single string. Shared with the forwarding service's handler.
type Request struct {
	Conversation string `json:"conversation"`
}

// wireResponse carries either a message or an error list. The message
// may arrive structured or as a JSON-encoded string.
type wireResponse struct {
	Message json.RawMessage `json:"message"`
	Errors  []ErrorDetail   `json:"errors"`
}

// HTTPClient implements Invoker over HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates an exchange client for the forwarding service
// at baseURL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Exchange posts the conversation and parses the reply.
func (c *HTTPClient) Exchange(ctx context.Context, conversation string) (convo.Message, error) {
	body, err := json.Marshal(Request{Conversation: conversation})
	if err != nil {
		return convo.Message{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return convo.Message{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return convo.Message{}, &RemoteError{Detail: genericFailure}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return convo.Message{}, &RemoteError{Detail: genericFailure}
	}

	return ParseResponse(resp.StatusCode, respBody)
}

// ParseResponse interprets one transport reply. An error list always
// wins over a message; the first detail with any text becomes the
// user-visible failure.
func ParseResponse(status int, body []byte) (convo.Message, error) {
	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		if status != http.StatusOK {
			return convo.Message{}, &RemoteError{Detail: genericFailure}
		}
		return convo.Message{}, &ParseError{Err: err}
	}

	if len(wire.Errors) > 0 {
		return convo.Message{}, &RemoteError{Detail: detailText(wire.Errors[0])}
	}
	if status != http.StatusOK {
		return convo.Message{}, &RemoteError{Detail: genericFailure}
	}
	if len(wire.Message) == 0 {
		return convo.Message{}, &RemoteError{Detail: genericFailure}
	}

	msg, err := decodeMessage(wire.Message)
	if err != nil {
		return convo.Message{}, &ParseError{Err: err}
	}
	return msg, nil
}

// decodeMessage accepts both forms the contract allows: a structured
// message object, or a JSON-encoded message string. The two are told
// apart by the leading byte so a bad content item inside an object
// surfaces its own decode error instead of a shape complaint.
func decodeMessage(raw json.RawMessage) (convo.Message, error) {
	var msg convo.Message
	switch leadByte(raw) {
	case '{':
		if err := json.Unmarshal(raw, &msg); err != nil {
			return convo.Message{}, fmt.Errorf("decode message object: %w", err)
		}
		return msg, nil
	case '"':
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return convo.Message{}, fmt.Errorf("decode message string: %w", err)
		}
		if err := json.Unmarshal([]byte(encoded), &msg); err != nil {
			return convo.Message{}, fmt.Errorf("decode message string: %w", err)
		}
		return msg, nil
	default:
		return convo.Message{}, fmt.Errorf("message is neither an object nor a string")
	}
}

func leadByte(raw []byte) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func detailText(d ErrorDetail) string {
	if d.Message != "" {
		return d.Message
	}
	if d.ErrorType != "" {
		return d.ErrorType
	}
	return genericFailure
}
