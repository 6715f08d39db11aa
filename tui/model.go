package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/hferrera/vision-chat/convo"
	"github.com/hferrera/vision-chat/exchange"
	"github.com/hferrera/vision-chat/tui/styles"
)

// Attachment is a pending image selection. Preview is the displayable
// base64 data-URI, computed asynchronously after selection; the
// attachment is not submittable until it lands.
type Attachment struct {
	Path    string
	Format  string // image subtype: "jpeg", "png", ...
	Size    int64
	Preview string
}

// Ready reports whether the attachment can be submitted.
func (a *Attachment) Ready() bool {
	return a != nil && a.Preview != ""
}

// Model holds one chat session's state. All transitions go through
// Update; the loading flag serializes submissions.
type Model struct {
	// UI components
	textarea textarea.Model
	chatView viewport.Model
	spin     spinner.Model

	// Session state
	invoker exchange.Invoker
	history convo.Conversation
	pending *Attachment
	loading bool
	errMsg  string

	// Layout
	width       int
	height      int
	initialized bool

	theme styles.Theme
	keys  KeyMap
}

// History returns the visible conversation.
func (m Model) History() convo.Conversation {
	return m.history
}

// KeyMap defines key bindings
type KeyMap struct {
	Quit  key.Binding
	Send  key.Binding
	Clear key.Binding
}

// DefaultKeyMap returns default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send message"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear chat"),
		),
	}
}

// Messages for the update loop
type (
	// previewReadyMsg is sent when an attachment's data-URI preview
	// has been computed.
	previewReadyMsg struct {
		Path    string
		Preview string
		Error   error
	}

	// exchangeResultMsg is sent when the remote exchange resolves.
	exchangeResultMsg struct {
		User      convo.Message
		Assistant convo.Message
		Error     error
	}
)
