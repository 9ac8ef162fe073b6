// Package router holds the active screen and switches between setup and
// practice. The app never stacks screens: starting a session replaces
// setup, and resetting replaces practice.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/parley/internal/screen"
)

// ReplaceScreenMsg requests the router to swap the active screen for a new one.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router owns the active screen.
type Router struct {
	active screen.Screen
}

// New creates a Router showing initial.
func New(initial screen.Screen) *Router {
	return &Router{active: initial}
}

// Replace makes s the active screen and returns its Init command.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.active = s
	if s == nil {
		return nil
	}
	return s.Init()
}

// Active returns the screen currently shown, or nil.
func (r *Router) Active() screen.Screen {
	return r.active
}

// Update handles ReplaceScreenMsg and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(ReplaceScreenMsg); ok {
		return r.Replace(msg.Screen)
	}
	if r.active == nil {
		return nil
	}
	var cmd tea.Cmd
	r.active, cmd = r.active.Update(msg)
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	if r.active == nil {
		return ""
	}
	return r.active.View(width, height)
}
