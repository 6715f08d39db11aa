// Package tui is the chat surface: one session's conversation state
// and the submit cycle against the forwarding service.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hferrera/vision-chat/convo"
	"github.com/hferrera/vision-chat/exchange"
	"github.com/hferrera/vision-chat/tui/styles"
)

// New creates a chat session over the given exchange client.
func New(invoker exchange.Invoker) Model {
	ta := textarea.New()
	ta.Placeholder = "Type a message, or /image <path> to attach..."
	ta.Focus()
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false) // Enter sends message

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		textarea: ta,
		chatView: viewport.New(80, 20),
		spin:     sp,
		invoker:  invoker,
		history:  convo.Conversation{},
		theme:    styles.DefaultTheme,
		keys:     DefaultKeyMap(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+c", msg.String() == "ctrl+d":
			return m, tea.Quit

		case msg.String() == "ctrl+l":
			// Reset the session
			m.history = convo.Conversation{}
			m.pending = nil
			m.errMsg = ""
			m.updateChatView()
			return m, nil

		case msg.String() == "enter":
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			switch {
			case strings.HasPrefix(input, "/image "):
				m.textarea.Reset()
				return m, m.selectImage(strings.TrimSpace(strings.TrimPrefix(input, "/image ")))
			case input == "/clear-image":
				m.textarea.Reset()
				m.clearImage()
				return m, nil
			default:
				if cmd := m.submit(); cmd != nil {
					return m, tea.Batch(cmd, m.spin.Tick)
				}
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.initialized = true
		return m, nil

	case previewReadyMsg:
		if msg.Error != nil {
			if m.pending != nil && m.pending.Path == msg.Path {
				m.pending = nil
				m.errMsg = "Failed to load image preview"
			}
			return m, nil
		}
		if m.pending != nil && m.pending.Path == msg.Path {
			m.pending.Preview = msg.Preview
		}
		return m, nil

	case exchangeResultMsg:
		m.loading = false
		if msg.Error != nil {
			m.errMsg = exchange.UserMessage(msg.Error)
		} else {
			m.history = append(m.history, msg.User, msg.Assistant)
			m.updateChatView()
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			sp, cmd := m.spin.Update(msg)
			m.spin = sp
			return m, cmd
		}
		return m, nil
	}

	// Text input stays editable while a submit is in flight; only
	// submission is gated by the loading flag.
	before := m.textarea.Value()
	ta, cmd := m.textarea.Update(msg)
	m.textarea = ta
	cmds = append(cmds, cmd)
	if m.textarea.Value() != before {
		m.errMsg = ""
	}

	vp, cmd := m.chatView.Update(msg)
	m.chatView = vp
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// updateText replaces the input buffer and clears any standing error.
func (m *Model) updateText(value string) {
	m.textarea.SetValue(value)
	m.errMsg = ""
}

// submit runs one exchange cycle. It is a no-op while a submit is in
// flight, and when there is neither trimmed text nor a ready
// attachment. Input is reset optimistically; the user message joins
// the visible history only once the exchange succeeds.
func (m *Model) submit() tea.Cmd {
	if m.loading {
		return nil
	}

	text := strings.TrimSpace(m.textarea.Value())
	if text == "" && !m.pending.Ready() {
		return nil
	}

	var content []convo.Item
	if text != "" {
		content = append(content, convo.TextItem{Text: text})
	}
	if m.pending.Ready() {
		content = append(content, convo.ImageItem{
			Format: m.pending.Format,
			Source: convo.ImageSource{Encoded: m.pending.Preview},
		})
	}
	user := convo.Message{Role: convo.RoleUser, Content: content}

	// Optimistic input reset
	m.textarea.Reset()
	m.pending = nil
	m.loading = true
	m.errMsg = ""

	candidate := make(convo.Conversation, 0, len(m.history)+1)
	candidate = append(candidate, m.history...)
	candidate = append(candidate, user)

	payload, err := candidate.Encode()
	if err != nil {
		m.loading = false
		m.errMsg = exchange.UserMessage(err)
		return nil
	}

	invoker := m.invoker
	return func() tea.Msg {
		reply, err := invoker.Exchange(context.Background(), payload)
		return exchangeResultMsg{User: user, Assistant: reply, Error: err}
	}
}
