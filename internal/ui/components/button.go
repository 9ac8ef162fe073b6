package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/parley/internal/ui/theme"
)

// Button is a form's submit control. It reports presses instead of
// running a callback, so the owning screen decides what submitting means.
type Button struct {
	Label   string
	Focused bool
}

// NewButton creates an unfocused button.
func NewButton(label string) Button {
	return Button{Label: label}
}

// Pressed reports whether msg activates the focused button. Enter and
// space both count.
func (b Button) Pressed(msg tea.Msg) bool {
	if !b.Focused {
		return false
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return false
	}
	switch kmsg.String() {
	case "enter", "space":
		return true
	}
	return false
}

func (b Button) View() string {
	if b.Focused {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}
