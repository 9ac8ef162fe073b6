package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/parley/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for count out of total.
type ProgressBar struct {
	Label     string
	Count     int
	Total     int
	ShowCount bool
	Width     int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, count, total int, showCount bool, width int) ProgressBar {
	return ProgressBar{
		Label:     label,
		Count:     count,
		Total:     total,
		ShowCount: showCount,
		Width:     width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(p.Label) + "  "
	}

	suffix := ""
	if p.ShowCount {
		suffix = fmt.Sprintf("  %d/%d", p.Count, p.Total)
	}

	barWidth := max(p.Width-lipgloss.Width(result)-len(suffix), 4)

	filled := 0
	if p.Total > 0 {
		filled = barWidth * p.Count / p.Total
	}
	filled = min(max(filled, 0), barWidth)

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))

	if suffix != "" {
		result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
	}
	return result
}
