package tui

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// maxImageBytes caps attachments at 5 MiB.
const maxImageBytes = 5 * 1024 * 1024

const (
	errImageTooLarge    = "Image size must be less than 5MB"
	errImageUnsupported = "Image must be a JPEG, PNG, GIF, or WebP file"
)

// imageFormats maps file extensions to the MIME subtype sent as the
// image item's format.
var imageFormats = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
	".gif":  "gif",
	".webp": "webp",
}

// selectImage validates the file and stages it as the pending
// attachment. Violations set the error and leave any existing
// attachment untouched. On success the preview is computed off the
// update loop; the attachment is not submittable until it arrives.
func (m *Model) selectImage(path string) tea.Cmd {
	format, ok := imageFormats[strings.ToLower(filepath.Ext(path))]
	if !ok {
		m.errMsg = errImageUnsupported
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		m.errMsg = fmt.Sprintf("Cannot read image: %v", err)
		return nil
	}
	if info.Size() > maxImageBytes {
		m.errMsg = errImageTooLarge
		return nil
	}

	m.errMsg = ""
	m.pending = &Attachment{
		Path:   path,
		Format: format,
		Size:   info.Size(),
	}
	return loadPreview(path, format)
}

// clearImage drops the pending attachment. Idempotent.
func (m *Model) clearImage() {
	m.pending = nil
}

// loadPreview reads the file and encodes it as a base64 data-URI.
func loadPreview(path, format string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return previewReadyMsg{Path: path, Error: err}
		}
		preview := fmt.Sprintf("data:image/%s;base64,%s", format, base64.StdEncoding.EncodeToString(data))
		return previewReadyMsg{Path: path, Preview: preview}
	}
}
