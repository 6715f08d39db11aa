package convo

import (
	"encoding/json"
	"fmt"
)

// Role labels the author of a message. Roles are free-form on the wire;
// these are the two values this client produces.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation turn: a role plus an ordered sequence of
// content items.
type Message struct {
	Role    string
	Content []Item
}

// Conversation is an ordered sequence of messages. Order is turn order
// and is preserved everywhere in this package.
type Conversation []Message

// Item is one unit of message content, either a TextItem or an
// ImageItem. The wire form is a tagged union keyed by which field is
// present ("text" vs "image"); in memory the variants are explicit.
type Item interface {
	item()
}

// TextItem is a plain text content item.
type TextItem struct {
	Text string
}

func (TextItem) item() {}

// ImageItem is an image content item. Format is the image subtype
// ("png", "jpeg", ...); Source carries the payload.
type ImageItem struct {
	Format string
	Source ImageSource
}

func (ImageItem) item() {}

// ImageSource holds an image payload in one of two stages. Encoded is
// the producing-side form: a base64 string, optionally carrying a
// "data:image/<subtype>;base64," prefix. Blob is the transport-side
// binary form handed to the inference API. Exactly one is set; an
// ImageSource with neither is invalid.
type ImageSource struct {
	Encoded string
	Blob    []byte
}

// wire shapes for the tagged-union content encoding

type wireMessage struct {
	Role    string            `json:"role"`
	Content []json.RawMessage `json:"content"`
}

type wireItem struct {
	Text  *string    `json:"text,omitempty"`
	Image *wireImage `json:"image,omitempty"`
}

type wireImage struct {
	Format string     `json:"format"`
	Source wireSource `json:"source"`
}

type wireSource struct {
	Bytes json.RawMessage `json:"bytes"`
}

// MarshalJSON encodes the message with each content item as its tagged
// wire form.
func (m Message) MarshalJSON() ([]byte, error) {
	content := make([]json.RawMessage, 0, len(m.Content))
	for _, item := range m.Content {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		content = append(content, data)
	}
	return json.Marshal(wireMessage{Role: m.Role, Content: content})
}

// UnmarshalJSON decodes the tagged wire form back into explicit
// variants. An item carrying neither or both of "text" and "image" is
// rejected.
func (m *Message) UnmarshalJSON(data []byte) error {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	items := make([]Item, 0, len(w.Content))
	for i, raw := range w.Content {
		var wi wireItem
		if err := json.Unmarshal(raw, &wi); err != nil {
			return fmt.Errorf("content item %d: %w", i, err)
		}
		switch {
		case wi.Text != nil && wi.Image != nil:
			return fmt.Errorf("content item %d: both text and image present", i)
		case wi.Text != nil:
			items = append(items, TextItem{Text: *wi.Text})
		case wi.Image != nil:
			src, err := decodeSource(wi.Image.Source.Bytes)
			if err != nil {
				return fmt.Errorf("content item %d: %w", i, err)
			}
			items = append(items, ImageItem{Format: wi.Image.Format, Source: src})
		default:
			return fmt.Errorf("content item %d: neither text nor image present", i)
		}
	}

	m.Role = w.Role
	m.Content = items
	return nil
}

// decodeSource interprets the "bytes" field. A JSON string is kept as
// the encoded stage; anything else is rejected. Binary payloads never
// appear on the producing side of this boundary.
func decodeSource(raw json.RawMessage) (ImageSource, error) {
	if len(raw) == 0 {
		return ImageSource{}, fmt.Errorf("image source has no bytes")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ImageSource{}, fmt.Errorf("image bytes is not a string: %w", err)
	}
	return ImageSource{Encoded: s}, nil
}

func (t TextItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Text string `json:"text"`
	}{Text: t.Text})
}

func (it ImageItem) MarshalJSON() ([]byte, error) {
	type source struct {
		Bytes any `json:"bytes"`
	}
	type image struct {
		Format string `json:"format"`
		Source source `json:"source"`
	}
	// encoding/json emits []byte as plain base64, which is the binary
	// payload's JSON representation on the transport side.
	var bytes any = it.Source.Encoded
	if it.Source.Blob != nil {
		bytes = it.Source.Blob
	}
	return json.Marshal(struct {
		Image image `json:"image"`
	}{Image: image{Format: it.Format, Source: source{Bytes: bytes}}})
}

// NewTextMessage builds a message with a single text item.
func NewTextMessage(role, text string) Message {
	return Message{Role: role, Content: []Item{TextItem{Text: text}}}
}

func unmarshalConversation(s string, c *Conversation) error {
	return json.Unmarshal([]byte(s), c)
}

// Encode serializes the conversation to its JSON transport string.
func (c Conversation) Encode() (string, error) {
	data, err := json.Marshal([]Message(c))
	if err != nil {
		return "", fmt.Errorf("encode conversation: %w", err)
	}
	return string(data), nil
}
