// Package styles holds the lipgloss theme for the chat surface.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color theme
type Theme struct {
	Name      string
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	TextDim   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
}

// Default theme
var DefaultTheme = Theme{
	Name:      "default",
	Primary:   lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7B68EE"},
	Secondary: lipgloss.AdaptiveColor{Light: "#6C6CFF", Dark: "#9370DB"},
	Text:      lipgloss.AdaptiveColor{Light: "#1E1E1E", Dark: "#E0E0E0"},
	TextDim:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"},
	Border:    lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#404040"},
	Error:     lipgloss.AdaptiveColor{Light: "#F44336", Dark: "#EF5350"},
}

// Styles holds all the styles for the application
type Styles struct {
	Theme Theme

	Header    lipgloss.Style
	Footer    lipgloss.Style
	ChatPanel lipgloss.Style
	InputArea lipgloss.Style

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	ErrorText      lipgloss.Style
	Muted          lipgloss.Style
}

// NewStyles creates a new styles instance with the given theme
func NewStyles(theme Theme) *Styles {
	s := &Styles{Theme: theme}

	s.Header = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Padding(0, 1).
		Bold(true)

	s.Footer = lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Padding(0, 1)

	s.ChatPanel = lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)

	s.InputArea = lipgloss.NewStyle().
		Padding(0, 1)

	s.UserLabel = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	s.AssistantLabel = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true)

	s.ErrorText = lipgloss.NewStyle().
		Foreground(theme.Error).
		Padding(0, 1)

	s.Muted = lipgloss.NewStyle().
		Foreground(theme.TextDim)

	return s
}

// RenderRole renders a message's role label.
func (s *Styles) RenderRole(role string) string {
	switch role {
	case "user":
		return s.UserLabel.Render("You")
	case "assistant":
		return s.AssistantLabel.Render("Assistant")
	default:
		return s.Muted.Render(role)
	}
}
