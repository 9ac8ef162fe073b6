package app

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/practice"
	"github.com/abhisek/parley/internal/router"
	"github.com/abhisek/parley/internal/screen"
	practicescreen "github.com/abhisek/parley/internal/screens/practice"
	"github.com/abhisek/parley/internal/screens/setup"
	"github.com/abhisek/parley/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel restores the persisted session through ctrl and opens the
// practice screen, or the setup form when there is none.
func newAppModel(ctx context.Context, ctrl *practice.Controller) AppModel {
	var newSetup, newPractice func() screen.Screen
	newPractice = func() screen.Screen { return practicescreen.New(ctx, ctrl, newSetup) }
	newSetup = func() screen.Screen { return setup.New(ctx, ctrl, newPractice) }

	initial := newSetup
	if ctrl.Load(ctx) != practice.Uninitialized {
		initial = newPractice
	}
	return AppModel{
		router: router.New(initial()),
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.frame())
	v.AltScreen = true
	return v
}

// frame renders the whole screen: header, active screen and footer.
func (m AppModel) frame() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var title, status string
	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
		if kp, ok := active.(screen.KeyHintProvider); ok {
			footerHints = kp.KeyHints()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, ctrl *practice.Controller) error {
	p := tea.NewProgram(newAppModel(ctx, ctrl), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
