package convo

import (
	"encoding/base64"
	"fmt"
	"regexp"
)

// dataURIPrefix matches the displayable data-URI header that browsers
// and previews prepend to a base64 image payload.
var dataURIPrefix = regexp.MustCompile(`^data:image/[a-zA-Z]+;base64,`)

// Decode parses a JSON-encoded conversation. Malformed input fails
// with a *FormatError and produces nothing partial.
func Decode(s string) (Conversation, error) {
	var c Conversation
	if err := unmarshalConversation(s, &c); err != nil {
		return nil, &FormatError{Reason: "invalid conversation format", Err: err}
	}
	return c, nil
}

// Normalize returns a copy of the conversation ready for the inference
// transport: every image item still carrying an encoded payload is
// rewritten to its binary form, with any data-URI header stripped
// before decoding. Text items and already-binary images pass through
// unchanged. Message and item order is preserved and the input is not
// mutated.
func Normalize(c Conversation) (Conversation, error) {
	out := make(Conversation, 0, len(c))
	for mi, msg := range c {
		norm := Message{Role: msg.Role, Content: make([]Item, 0, len(msg.Content))}
		for ii, item := range msg.Content {
			switch it := item.(type) {
			case TextItem:
				norm.Content = append(norm.Content, it)
			case ImageItem:
				img, err := normalizeImage(it)
				if err != nil {
					return nil, fmt.Errorf("message %d content %d: %w", mi, ii, err)
				}
				norm.Content = append(norm.Content, img)
			default:
				return nil, fmt.Errorf("message %d content %d: unknown item type %T", mi, ii, item)
			}
		}
		out = append(out, norm)
	}
	return out, nil
}

func normalizeImage(it ImageItem) (ImageItem, error) {
	if it.Source.Blob != nil {
		// Already binary; decoding again would corrupt the payload.
		return it, nil
	}
	if it.Source.Encoded == "" {
		return ImageItem{}, &FormatError{Reason: "image item has no payload"}
	}

	payload := dataURIPrefix.ReplaceAllString(it.Source.Encoded, "")
	blob, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return ImageItem{}, fmt.Errorf("decode image payload: %w", err)
	}
	return ImageItem{Format: it.Format, Source: ImageSource{Blob: blob}}, nil
}
