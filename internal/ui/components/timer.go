package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pitchquiz/pitchquiz/internal/ui/theme"
)

// lowTimeSeconds turns the bar red.
const lowTimeSeconds = 5

// TimerBar is a countdown bar with the seconds left printed after it.
type TimerBar struct {
	Remaining int
	Total     int
	Width     int
}

// View renders the bar.
func (t TimerBar) View() string {
	label := fmt.Sprintf(" %2ds", t.Remaining)
	barWidth := t.Width - lipgloss.Width(label)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := 0
	if t.Total > 0 {
		filled = barWidth * t.Remaining / t.Total
	}
	filled = max(0, min(filled, barWidth))

	fill := theme.TimerFilled
	if t.Remaining <= lowTimeSeconds {
		fill = theme.TimerLow
	}

	return fill.Render(strings.Repeat(" ", filled)) +
		theme.TimerEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		theme.Hint.Render(label)
}
