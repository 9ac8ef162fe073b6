package practice

import (
	"time"

	prac "github.com/abhisek/parley/internal/practice"
)

// exchangeDoneMsg carries the result of a feedback request back to the
// event loop.
type exchangeDoneMsg struct {
	Outcome prac.Outcome
}

// spinnerTickMsg animates the busy indicator.
type spinnerTickMsg time.Time

// resetConfirmedMsg is sent by the reset modal's confirm action.
type resetConfirmedMsg struct{}

// modalClosedMsg is sent by the reset modal's cancel action.
type modalClosedMsg struct{}
