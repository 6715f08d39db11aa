package convo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTextOnlyIsIdentity(t *testing.T) {
	in := Conversation{
		{Role: RoleUser, Content: []Item{TextItem{Text: "Show me Paris"}}},
		{Role: RoleAssistant, Content: []Item{TextItem{Text: "Here you go"}, TextItem{Text: "Anything else?"}}},
	}

	out, err := Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestNormalizeDecodesDataURI(t *testing.T) {
	in := Conversation{{
		Role: RoleUser,
		Content: []Item{ImageItem{
			Format: "png",
			Source: ImageSource{Encoded: "data:image/png;base64,QUJD"},
		}},
	}}

	out, err := Normalize(in)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Len(t, out[0].Content, 1)

	img, ok := out[0].Content[0].(ImageItem)
	require.True(t, ok)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, []byte("ABC"), img.Source.Blob)
	assert.Empty(t, img.Source.Encoded)
}

func TestNormalizePrefixDoesNotChangePayload(t *testing.T) {
	with := Conversation{{Role: RoleUser, Content: []Item{
		ImageItem{Format: "jpeg", Source: ImageSource{Encoded: "data:image/jpeg;base64,QUJD"}},
	}}}
	without := Conversation{{Role: RoleUser, Content: []Item{
		ImageItem{Format: "jpeg", Source: ImageSource{Encoded: "QUJD"}},
	}}}

	a, err := Normalize(with)
	require.NoError(t, err)
	b, err := Normalize(without)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNormalizeBinaryPassesThrough(t *testing.T) {
	blob := []byte{0x89, 0x50, 0x4e, 0x47}
	in := Conversation{{Role: RoleUser, Content: []Item{
		ImageItem{Format: "png", Source: ImageSource{Blob: blob}},
	}}}

	out, err := Normalize(in)
	require.NoError(t, err)

	img := out[0].Content[0].(ImageItem)
	assert.Equal(t, blob, img.Source.Blob)
}

func TestNormalizePreservesOrder(t *testing.T) {
	in := Conversation{{
		Role: RoleUser,
		Content: []Item{
			TextItem{Text: "what is this?"},
			ImageItem{Format: "gif", Source: ImageSource{Encoded: "QUJD"}},
			TextItem{Text: "and this?"},
		},
	}}

	out, err := Normalize(in)
	require.NoError(t, err)
	require.Len(t, out[0].Content, 3)
	assert.IsType(t, TextItem{}, out[0].Content[0])
	assert.IsType(t, ImageItem{}, out[0].Content[1])
	assert.IsType(t, TextItem{}, out[0].Content[2])
	assert.Equal(t, "what is this?", out[0].Content[0].(TextItem).Text)
	assert.Equal(t, "and this?", out[0].Content[2].(TextItem).Text)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := Conversation{{Role: RoleUser, Content: []Item{
		ImageItem{Format: "png", Source: ImageSource{Encoded: "QUJD"}},
	}}}

	_, err := Normalize(in)
	require.NoError(t, err)

	img := in[0].Content[0].(ImageItem)
	assert.Equal(t, "QUJD", img.Source.Encoded)
	assert.Nil(t, img.Source.Blob)
}

func TestNormalizeRejectsEmptyPayload(t *testing.T) {
	in := Conversation{{Role: RoleUser, Content: []Item{
		ImageItem{Format: "png"},
	}}}

	_, err := Normalize(in)
	require.Error(t, err)

	var fe *FormatError
	assert.True(t, errors.As(err, &fe))
}

func TestNormalizeBadBase64Errors(t *testing.T) {
	in := Conversation{{Role: RoleUser, Content: []Item{
		ImageItem{Format: "png", Source: ImageSource{Encoded: "!!not-base64!!"}},
	}}}

	_, err := Normalize(in)
	assert.Error(t, err)
}

func TestDecodeInvalidStringFails(t *testing.T) {
	_, err := Decode("{not json")
	require.Error(t, err)

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "invalid conversation format", fe.Reason)
}

func TestDecodeRoundTrip(t *testing.T) {
	in := Conversation{
		{Role: RoleUser, Content: []Item{
			TextItem{Text: "look"},
			ImageItem{Format: "webp", Source: ImageSource{Encoded: "data:image/webp;base64,QUJD"}},
		}},
	}

	encoded, err := in.Encode()
	require.NoError(t, err)

	out, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
