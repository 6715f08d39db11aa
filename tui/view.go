package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hferrera/vision-chat/convo"
	"github.com/hferrera/vision-chat/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.initialized {
		return "Initializing..."
	}

	s := styles.NewStyles(m.theme)

	var sections []string
	sections = append(sections, s.Header.Render("vision-chat"))
	sections = append(sections, s.ChatPanel.Render(m.chatView.View()))
	sections = append(sections, m.renderStatus(s))
	sections = append(sections, s.InputArea.Render(m.textarea.View()))
	sections = append(sections, s.Footer.Render("enter send · /image <path> attach · ctrl+l clear · ctrl+c quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatus shows the error line, the in-flight spinner, or the
// pending attachment, whichever applies.
func (m Model) renderStatus(s *styles.Styles) string {
	switch {
	case m.errMsg != "":
		return s.ErrorText.Render(m.errMsg)
	case m.loading:
		return s.Muted.Render(m.spin.View() + " waiting for assistant...")
	case m.pending != nil && !m.pending.Ready():
		return s.Muted.Render(fmt.Sprintf("loading preview: %s", m.pending.Path))
	case m.pending.Ready():
		return s.Muted.Render(fmt.Sprintf("attached: %s (%s, %s)", m.pending.Path, m.pending.Format, humanSize(m.pending.Size)))
	default:
		return ""
	}
}

func (m *Model) updateLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	headerHeight := 1
	statusHeight := 1
	footerHeight := 1
	inputHeight := 5

	m.chatView.Width = m.width - 2
	m.chatView.Height = m.height - headerHeight - statusHeight - footerHeight - inputHeight - 2
	m.textarea.SetWidth(m.width - 4)
	m.updateChatView()
}

func (m *Model) updateChatView() {
	s := styles.NewStyles(m.theme)

	var content strings.Builder
	for _, msg := range m.history {
		content.WriteString(s.RenderRole(msg.Role))
		content.WriteString("\n")
		for _, item := range msg.Content {
			switch it := item.(type) {
			case convo.TextItem:
				for _, line := range strings.Split(it.Text, "\n") {
					content.WriteString("  ")
					content.WriteString(line)
					content.WriteString("\n")
				}
			case convo.ImageItem:
				content.WriteString(s.Muted.Render(fmt.Sprintf("  [image: %s]", it.Format)))
				content.WriteString("\n")
			}
		}
		content.WriteString("\n")
	}

	m.chatView.SetContent(content.String())
	m.chatView.GotoBottom()
}

func humanSize(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
