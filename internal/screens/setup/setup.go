// Package setup is the form that starts a new practice session.
package setup

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/practice"
	"github.com/abhisek/parley/internal/router"
	"github.com/abhisek/parley/internal/screen"
	"github.com/abhisek/parley/internal/ui/components"
	"github.com/abhisek/parley/internal/ui/layout"
	"github.com/abhisek/parley/internal/ui/theme"
)

// Default form values.
const (
	DefaultNative   = "English"
	DefaultTarget   = "Deutsch"
	DefaultScenario = "Ordering coffee at a cafe"
)

const (
	fieldNative = iota
	fieldTarget
	fieldDifficulty
	fieldScenario
	fieldSubmit
	fieldCount
)

// SetupScreen collects languages, difficulty and scenario, then starts a
// session on the controller.
type SetupScreen struct {
	ctx  context.Context
	ctrl *practice.Controller
	next func() screen.Screen

	native     components.TextInput
	target     components.TextInput
	difficulty components.Selector
	scenario   components.TextInput
	submit     components.Button
	focus      int
	errMsg     string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates a SetupScreen. next builds the screen shown once the
// session has started.
func New(ctx context.Context, ctrl *practice.Controller, next func() screen.Screen) *SetupScreen {
	labels := make([]string, len(practice.Difficulties))
	for i, d := range practice.Difficulties {
		labels[i] = d.Label()
	}

	s := &SetupScreen{
		ctx:        ctx,
		ctrl:       ctrl,
		next:       next,
		native:     components.NewTextInput("Native Language", "English", 40),
		target:     components.NewTextInput("Target Language", "Deutsch", 40),
		difficulty: components.NewSelector("Difficulty", labels, 0),
		scenario:   components.NewTextInput("Scenario", "e.g. Ordering at a cafe", 120),
		submit:     components.NewButton("Start Session"),
	}
	s.native.SetValue(DefaultNative)
	s.target.SetValue(DefaultTarget)
	s.scenario.SetValue(DefaultScenario)
	return s
}

func (s *SetupScreen) Init() tea.Cmd {
	return s.setFocus(fieldNative)
}

func (s *SetupScreen) Title() string {
	return "New Session"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Shift+Tab", Description: "Previous"},
	}
	if s.focus == fieldDifficulty {
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Change"})
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: "Start"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.submit.Pressed(msg) {
		return s.start()
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return s, s.setFocus((s.focus - 1 + fieldCount) % fieldCount)
		case "enter":
			if s.focus == fieldScenario {
				return s.start()
			}
			return s, s.setFocus(s.focus + 1)
		}
		s.errMsg = ""
	}

	var cmd tea.Cmd
	switch s.focus {
	case fieldNative:
		s.native, cmd = s.native.Update(msg)
	case fieldTarget:
		s.target, cmd = s.target.Update(msg)
	case fieldDifficulty:
		s.difficulty, cmd = s.difficulty.Update(msg)
	case fieldScenario:
		s.scenario, cmd = s.scenario.Update(msg)
	}
	return s, cmd
}

func (s *SetupScreen) setFocus(field int) tea.Cmd {
	s.focus = field
	s.native.Blur()
	s.target.Blur()
	s.difficulty.Blur()
	s.scenario.Blur()
	s.submit.Focused = field == fieldSubmit

	switch field {
	case fieldNative:
		return s.native.Focus()
	case fieldTarget:
		return s.target.Focus()
	case fieldDifficulty:
		s.difficulty.Focus()
	case fieldScenario:
		return s.scenario.Focus()
	}
	return nil
}

// start validates the form and hands it to the controller.
func (s *SetupScreen) start() (screen.Screen, tea.Cmd) {
	required := []struct {
		field int
		input *components.TextInput
	}{
		{fieldNative, &s.native},
		{fieldTarget, &s.target},
		{fieldScenario, &s.scenario},
	}
	first := -1
	for _, r := range required {
		if strings.TrimSpace(r.input.Value()) != "" {
			continue
		}
		r.input.SetError(r.input.Label + " is required")
		if first < 0 {
			first = r.field
		}
	}
	if first >= 0 {
		return s, s.setFocus(first)
	}

	difficulty := practice.Difficulties[s.difficulty.Selected]
	_, err := s.ctrl.Start(s.ctx, practice.SetupParams{
		NativeLanguage: s.native.Value(),
		TargetLanguage: s.target.Value(),
		Difficulty:     difficulty,
		Scenario:       s.scenario.Value(),
	})
	if err != nil {
		if errors.Is(err, practice.ErrInvalidSession) {
			s.errMsg = err.Error()
		} else {
			s.errMsg = "Could not start session: " + err.Error()
		}
		return s, nil
	}

	next := s.next()
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *SetupScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(cw, lipgloss.Center, renderBanner(width, height)))
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(cw).Render("What do you want to practice?"))
	b.WriteString("\n\n")

	for _, field := range []string{
		s.native.View(),
		s.target.View(),
		s.difficulty.View(),
		s.scenario.View(),
	} {
		b.WriteString(field)
		b.WriteString("\n\n")
	}
	b.WriteString(s.submit.View())

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	}

	form := lipgloss.NewStyle().Width(cw).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, form)
}
