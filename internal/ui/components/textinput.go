package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/parley/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with parley styling and an inline
// error line.
type TextInput struct {
	Model textinput.Model
	Label string
	err   string
}

// NewTextInput creates a new styled text input. A zero charLimit means
// no limit.
func NewTextInput(label, placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Model: ti, Label: label}
}

// Focus focuses the input and returns the cursor command.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		t.err = ""
	}
	return t, cmd
}

// View renders the label, the input and any error.
func (t TextInput) View() string {
	view := ""
	if t.Label != "" {
		style := theme.Label
		if t.Focused() {
			style = theme.Selected
		}
		view = style.Render(t.Label) + "\n"
	}
	view += t.Model.View()
	if t.err != "" {
		view += "\n" + theme.ErrorText.Render(t.err)
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}

// Reset clears the value and any error.
func (t *TextInput) Reset() {
	t.Model.Reset()
	t.err = ""
}

// SetError shows msg under the input until the next key press.
func (t *TextInput) SetError(msg string) {
	t.err = msg
}

// Error returns the inline error, if any.
func (t TextInput) Error() string {
	return t.err
}
