// Package practice is the main practice screen: the current prompt, the
// answer input, feedback on the last answer and the history and reset
// modals.
package practice

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	prac "github.com/abhisek/parley/internal/practice"
	"github.com/abhisek/parley/internal/router"
	"github.com/abhisek/parley/internal/screen"
	"github.com/abhisek/parley/internal/ui/components"
	"github.com/abhisek/parley/internal/ui/layout"
)

const spinnerInterval = 120 * time.Millisecond

// AlertMessage is the headline of the failure modal.
const AlertMessage = "Failed to get response. Please try again."

type modal int

const (
	modalNone modal = iota
	modalHistory
	modalReset
	modalAlert
)

// PracticeScreen implements screen.Screen for an active session.
type PracticeScreen struct {
	ctx     context.Context
	ctrl    *prac.Controller
	onReset func() screen.Screen

	input       components.TextInput
	resetMenu   components.Menu
	modal       modal
	alertDetail string
	frame       int
	spinning    bool
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.StatusProvider = (*PracticeScreen)(nil)

// New creates a PracticeScreen over ctrl, which must hold a session.
// onReset builds the screen shown after the session is reset.
func New(ctx context.Context, ctrl *prac.Controller, onReset func() screen.Screen) *PracticeScreen {
	target := ""
	if sess := ctrl.Session(); sess != nil {
		target = sess.TargetLanguage
	}
	return &PracticeScreen{
		ctx:     ctx,
		ctrl:    ctrl,
		onReset: onReset,
		input:   components.NewTextInput("", "Type your answer in "+target+"...", 500),
		resetMenu: components.NewMenu([]components.MenuItem{
			{Label: "Yes, Reset Session", Action: func() tea.Cmd {
				return func() tea.Msg { return resetConfirmedMsg{} }
			}},
			{Label: "Cancel", Action: func() tea.Cmd {
				return func() tea.Msg { return modalClosedMsg{} }
			}},
		}),
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return tea.Batch(s.input.Focus(), s.beginFirstPrompt())
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

func (s *PracticeScreen) Status() string {
	sess := s.ctrl.Session()
	if sess == nil {
		return ""
	}
	return sess.NativeLanguage + " → " + sess.TargetLanguage + " · " + sess.Difficulty.Label()
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch s.modal {
	case modalHistory:
		return []layout.KeyHint{{Key: "Esc", Description: "Close"}}
	case modalReset:
		return []layout.KeyHint{
			{Key: "Y", Description: "Reset"},
			{Key: "N", Description: "Cancel"},
		}
	case modalAlert:
		return []layout.KeyHint{{Key: "any key", Description: "Dismiss"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+H", Description: "History"},
		{Key: "Ctrl+R", Description: "Reset"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case exchangeDoneMsg:
		return s.handleExchangeDone(msg)

	case spinnerTickMsg:
		if !s.ctrl.Busy() {
			s.spinning = false
			return s, nil
		}
		s.frame++
		return s, spinnerTick()

	case resetConfirmedMsg:
		return s.confirmReset()

	case modalClosedMsg:
		s.modal = modalNone
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)

	case tea.PasteMsg:
		// Same lock as typing: the answer in flight must stay as sent.
		if s.ctrl.Busy() {
			return s, nil
		}
	}

	if s.modal == modalNone {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.modal {
	case modalAlert:
		// Any key dismisses. A failed opening request is retried.
		s.modal = modalNone
		s.alertDetail = ""
		return s, s.beginFirstPrompt()

	case modalHistory:
		switch key {
		case "esc", "q", "ctrl+h", "enter":
			s.modal = modalNone
		}
		return s, nil

	case modalReset:
		switch key {
		case "y", "Y":
			return s.confirmReset()
		case "n", "N", "esc":
			s.modal = modalNone
			return s, nil
		}
		var cmd tea.Cmd
		s.resetMenu, cmd = s.resetMenu.Update(msg)
		return s, cmd
	}

	switch key {
	case "enter":
		return s.submit()
	case "ctrl+h":
		s.modal = modalHistory
		return s, nil
	case "ctrl+r":
		s.modal = modalReset
		s.resetMenu.Selected = 0
		return s, nil
	}

	// Input is locked while a request is outstanding.
	if s.ctrl.Busy() {
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// beginFirstPrompt issues the opening request if the session has no
// prompt yet. The controller makes this a no-op after the first call.
func (s *PracticeScreen) beginFirstPrompt() tea.Cmd {
	ex, ok := s.ctrl.BeginFirstPrompt()
	if !ok {
		return nil
	}
	return s.run(ex)
}

func (s *PracticeScreen) submit() (screen.Screen, tea.Cmd) {
	ex, err := s.ctrl.Submit(s.input.Value())
	if err != nil {
		// Blank input, a request already in flight or no prompt yet.
		return s, nil
	}
	return s, s.run(ex)
}

// run executes ex off the event loop and starts the busy spinner.
func (s *PracticeScreen) run(ex *prac.Exchange) tea.Cmd {
	ctx := s.ctx
	cmds := []tea.Cmd{func() tea.Msg {
		return exchangeDoneMsg{Outcome: ex.Run(ctx)}
	}}
	if !s.spinning {
		s.spinning = true
		cmds = append(cmds, spinnerTick())
	}
	return tea.Batch(cmds...)
}

func (s *PracticeScreen) handleExchangeDone(msg exchangeDoneMsg) (screen.Screen, tea.Cmd) {
	err := s.ctrl.Complete(s.ctx, msg.Outcome)
	switch {
	case errors.Is(err, prac.ErrStaleExchange):
		return s, nil
	case err != nil:
		s.modal = modalAlert
		s.alertDetail = err.Error()
		return s, nil
	}

	if msg.Outcome.Answer != nil {
		s.input.Reset()
	}
	return s, nil
}

func (s *PracticeScreen) confirmReset() (screen.Screen, tea.Cmd) {
	s.ctrl.Reset(s.ctx)
	s.modal = modalNone
	next := s.onReset()
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
