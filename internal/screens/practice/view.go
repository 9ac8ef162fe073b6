package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	prac "github.com/abhisek/parley/internal/practice"
	"github.com/abhisek/parley/internal/ui/components"
	"github.com/abhisek/parley/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (s *PracticeScreen) View(width, height int) string {
	sess := s.ctrl.Session()
	if sess == nil {
		return ""
	}

	switch s.modal {
	case modalHistory:
		return components.Overlay(renderHistoryModal(sess.History, components.ContentWidth(width)), width, height)
	case modalReset:
		return components.Overlay(s.renderResetModal(), width, height)
	case modalAlert:
		return components.Overlay(s.renderAlert(), width, height)
	}

	if !sess.Started() {
		return s.renderLoading(width, height)
	}
	return s.renderPractice(sess, width)
}

func (s *PracticeScreen) spinner() string {
	return lipgloss.NewStyle().Foreground(theme.Secondary).Render(spinnerFrames[s.frame%len(spinnerFrames)])
}

func (s *PracticeScreen) renderLoading(width, height int) string {
	text := "Generating session..."
	if !s.ctrl.Busy() {
		text = "Waiting to start the session..."
	}
	body := s.spinner() + " " + theme.Hint.Render(text)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *PracticeScreen) renderPractice(sess *prac.Session, width int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	// Scenario line.
	b.WriteString(theme.Label.Render("CURRENT SCENARIO"))
	b.WriteString("\n")
	b.WriteString(theme.Body.Bold(true).Render(sess.Scenario))
	b.WriteString("\n\n")

	// Prompt card and input.
	turn := theme.Body.Render(sess.Prompt()) + "\n\n" + s.input.View() + "\n"
	if s.ctrl.Busy() {
		turn += s.spinner() + " " + theme.Hint.Render("Sending...")
	} else {
		turn += theme.Hint.Render("Enter  Send Answer")
	}
	b.WriteString(components.Card("Your turn", turn, cw))
	b.WriteString("\n")

	b.WriteString(components.Card("Feedback", renderFeedback(sess), cw))
	b.WriteString("\n")

	if len(sess.History) > 0 {
		b.WriteString(renderHistoryPreview(sess.History, cw))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

// renderFeedback shows the correction of the last answer, or a
// placeholder when there is none yet.
func renderFeedback(sess *prac.Session) string {
	fb := sess.LastFeedback
	if fb == nil || fb.Opening || sess.LastAnswer == nil {
		return theme.Hint.Render("Feedback will appear here.")
	}

	var b strings.Builder
	b.WriteString(theme.Label.Render("You said") + "\n")
	b.WriteString(theme.Original.Render(*sess.LastAnswer) + "\n\n")
	b.WriteString(theme.Label.Render("Corrected") + "\n")
	b.WriteString(theme.Corrected.Render(fb.Corrected))
	if fb.Explanation != "" {
		b.WriteString("\n\n" + theme.Label.Render("Why") + "\n")
		b.WriteString(theme.Body.Render(fb.Explanation))
	}
	if len(fb.Alternatives) > 0 {
		b.WriteString("\n\n" + theme.Label.Render("Other ways to say it") + "\n")
		for _, alt := range fb.Alternatives {
			b.WriteString(theme.Body.Render("• "+alt) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderHistoryPreview shows the most recent exchange and how many more
// are behind Ctrl+H.
func renderHistoryPreview(history []prac.HistoryItem, cw int) string {
	latest := history[0]
	var b strings.Builder
	b.WriteString(components.NewProgressBar("History", len(history), prac.HistoryLimit, true, cw).View())
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(latest.Prompt) + "\n")
	b.WriteString(renderHistoryAnswer(latest))
	if more := len(history) - 1; more > 0 {
		b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("+%d more (Ctrl+H)", more)))
	}
	return b.String()
}

func renderHistoryAnswer(item prac.HistoryItem) string {
	if item.Perfect() {
		return theme.Corrected.Render("Perfect! ") + theme.Body.Render(item.Answer)
	}
	return theme.Original.Render(item.Answer) + theme.Hint.Render("  →  ") + theme.Corrected.Render(item.Corrected)
}

// renderHistoryModal lists history newest first, numbered so the newest
// entry has the highest number.
func renderHistoryModal(history []prac.HistoryItem, cw int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("History"))
	b.WriteString("\n\n")
	if len(history) == 0 {
		b.WriteString(theme.Hint.Render("No answers yet."))
	}
	for i, item := range history {
		label := "Correction"
		if item.Perfect() {
			label = "Perfect!"
		}
		b.WriteString(theme.Label.Render(fmt.Sprintf("Entry #%d", len(history)-i)))
		b.WriteString("  " + theme.Hint.Render(label) + "\n")
		b.WriteString(theme.Body.Render(item.Prompt) + "\n")
		b.WriteString(theme.Original.Render("You: "+item.Answer) + "\n")
		if !item.Perfect() {
			b.WriteString(theme.Corrected.Render("Fix: "+item.Corrected) + "\n")
		}
		if i < len(history)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n" + theme.Hint.Render("Esc to close"))
	return theme.Modal.Width(cw).Render(b.String())
}

func (s *PracticeScreen) renderResetModal() string {
	body := theme.Title.Render("Reset session?") + "\n\n" +
		theme.Body.Render("This will clear your current session and history.\nThis action cannot be undone.") +
		"\n\n" + s.resetMenu.View()
	return theme.Modal.Render(body)
}

func (s *PracticeScreen) renderAlert() string {
	body := theme.ErrorText.Bold(true).Render(AlertMessage)
	if s.alertDetail != "" {
		body += "\n\n" + theme.Hint.Render(s.alertDetail)
	}
	body += "\n\n" + theme.Hint.Render("Press any key to continue")
	return theme.AlertModal.Render(body)
}
