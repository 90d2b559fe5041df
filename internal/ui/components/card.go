package components

import (
	"strings"

	"github.com/pitchquiz/pitchquiz/internal/ui/theme"
)

// ContentWidth returns the inner width shared by every card so they line up.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded border at the given content width.
func Card(content string, cw int) string {
	return theme.Card.
		Width(cw - 2).
		Render(content)
}

// Stack joins blocks vertically with a blank line between them, skipping
// empty ones.
func Stack(blocks ...string) string {
	var parts []string
	for _, b := range blocks {
		if b != "" {
			parts = append(parts, b)
		}
	}
	return strings.Join(parts, "\n\n")
}
