package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestSelectorCycles(t *testing.T) {
	s := NewSelector("Difficulty", []string{"Beginner", "Intermediate", "Advanced"}, 0)

	// Unfocused selectors ignore keys.
	s, _ = s.Update(specialKey(tea.KeyRight))
	if s.Value() != "Beginner" {
		t.Fatalf("unfocused selector moved to %q", s.Value())
	}

	s.Focus()
	s, _ = s.Update(specialKey(tea.KeyRight))
	if s.Value() != "Intermediate" {
		t.Errorf("expected Intermediate, got %q", s.Value())
	}
	s, _ = s.Update(specialKey(tea.KeyLeft))
	s, _ = s.Update(specialKey(tea.KeyLeft))
	if s.Value() != "Advanced" {
		t.Errorf("expected wrap to Advanced, got %q", s.Value())
	}
}

func TestMenuEnterRunsAction(t *testing.T) {
	ran := ""
	m := NewMenu([]MenuItem{
		{Label: "Reset", Action: func() tea.Cmd { ran = "reset"; return nil }},
		{Label: "Cancel", Action: func() tea.Cmd { ran = "cancel"; return nil }},
	})

	m, _ = m.Update(specialKey(tea.KeyDown))
	m.Update(specialKey(tea.KeyEnter))
	if ran != "cancel" {
		t.Errorf("expected cancel action, got %q", ran)
	}
	if !strings.Contains(m.View(), "▸ Cancel") {
		t.Errorf("selected item not marked: %q", m.View())
	}
}

func TestTextInputErrorClearsOnKey(t *testing.T) {
	in := NewTextInput("Scenario", "", 0)
	in.Focus()
	in.SetError("Scenario is required")
	if !strings.Contains(in.View(), "Scenario is required") {
		t.Fatal("error not rendered")
	}

	in, _ = in.Update(keyPress('a'))
	if in.Error() != "" {
		t.Errorf("error should clear on typing, got %q", in.Error())
	}
	if in.Value() != "a" {
		t.Errorf("value = %q", in.Value())
	}
}

func TestProgressBarShowsCount(t *testing.T) {
	p := NewProgressBar("History", 3, 5, true, 30)
	if !strings.Contains(p.View(), "3/5") {
		t.Errorf("missing count in %q", p.View())
	}
}

func TestButtonPressedOnlyWhenFocused(t *testing.T) {
	b := NewButton("Start Session")
	if b.Pressed(specialKey(tea.KeyEnter)) {
		t.Fatal("unfocused button reported a press")
	}

	b.Focused = true
	if !b.Pressed(specialKey(tea.KeyEnter)) {
		t.Error("enter did not press focused button")
	}
	if !b.Pressed(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}) {
		t.Error("space did not press focused button")
	}
	if b.Pressed(keyPress('x')) {
		t.Error("x pressed the button")
	}
	if !strings.Contains(b.View(), "▸ Start Session") {
		t.Errorf("focused button not marked: %q", b.View())
	}
}
