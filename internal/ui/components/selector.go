package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/ui/theme"
)

// Selector picks one of a fixed set of options. Left/right cycle through
// them when focused.
type Selector struct {
	Label    string
	Options  []string
	Selected int
	focused  bool
}

// NewSelector creates a selector with the option at selected chosen.
func NewSelector(label string, options []string, selected int) Selector {
	if selected < 0 || selected >= len(options) {
		selected = 0
	}
	return Selector{Label: label, Options: options, Selected: selected}
}

func (s *Selector) Focus()       { s.focused = true }
func (s *Selector) Blur()        { s.focused = false }
func (s Selector) Focused() bool { return s.focused }
func (s Selector) Value() string {
	if len(s.Options) == 0 {
		return ""
	}
	return s.Options[s.Selected]
}

// Update handles keyboard navigation.
func (s Selector) Update(msg tea.Msg) (Selector, tea.Cmd) {
	if !s.focused || len(s.Options) == 0 {
		return s, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "left", "h":
		s.Selected = (s.Selected - 1 + len(s.Options)) % len(s.Options)
	case "right", "l", "space":
		s.Selected = (s.Selected + 1) % len(s.Options)
	}
	return s, nil
}

// View renders the label and the options in a row.
func (s Selector) View() string {
	var b strings.Builder
	if s.Label != "" {
		style := theme.Label
		if s.focused {
			style = theme.Selected
		}
		b.WriteString(style.Render(s.Label))
		b.WriteString("\n")
	}

	parts := make([]string, 0, len(s.Options))
	for i, opt := range s.Options {
		switch {
		case i == s.Selected && s.focused:
			parts = append(parts, theme.Selected.Render("◂ "+opt+" ▸"))
		case i == s.Selected:
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("  "+opt+"  "))
		default:
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).Render("  "+opt+"  "))
		}
	}
	b.WriteString(strings.Join(parts, " "))
	return b.String()
}
