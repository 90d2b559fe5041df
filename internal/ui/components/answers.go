package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/pitchquiz/pitchquiz/internal/trivia"
	"github.com/pitchquiz/pitchquiz/internal/ui/theme"
)

// AnswerPicker renders a question's options and tracks the cursor. It does
// not score anything; Update reports which label the player committed to.
type AnswerPicker struct {
	Options []trivia.Option
	Cursor  int

	// Revealed shows the correct and chosen options once answered.
	Revealed bool
	Correct  trivia.Label
	Chosen   trivia.Label
}

// NewAnswerPicker creates a picker for q with the cursor on the first option.
func NewAnswerPicker(q trivia.Question) AnswerPicker {
	return AnswerPicker{Options: q.Options, Correct: q.Correct}
}

// Update moves the cursor and returns the label chosen by this key, if any.
// Letter keys a-d and digits 1-4 choose directly; enter chooses the cursor.
func (p AnswerPicker) Update(msg tea.Msg) (AnswerPicker, trivia.Label) {
	if p.Revealed || len(p.Options) == 0 {
		return p, trivia.LabelUnknown
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return p, trivia.LabelUnknown
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if p.Cursor > 0 {
			p.Cursor--
		}
	case "down", "j":
		if p.Cursor < len(p.Options)-1 {
			p.Cursor++
		}
	case "enter":
		return p, p.Options[p.Cursor].Label
	case "a", "b", "c", "d", "A", "B", "C", "D":
		return p.choose(trivia.Label(strings.ToUpper(key)))
	case "1", "2", "3", "4":
		return p.choose(trivia.Label(string(rune('A' + key[0] - '1'))))
	}
	return p, trivia.LabelUnknown
}

func (p AnswerPicker) choose(l trivia.Label) (AnswerPicker, trivia.Label) {
	for i, o := range p.Options {
		if o.Label == l {
			p.Cursor = i
			return p, l
		}
	}
	return p, trivia.LabelUnknown
}

// Reveal marks chosen as the player's answer. An empty label reveals the
// correct option without a choice, as after a timeout.
func (p AnswerPicker) Reveal(chosen trivia.Label) AnswerPicker {
	p.Revealed = true
	p.Chosen = chosen
	return p
}

// View renders one line per option.
func (p AnswerPicker) View() string {
	var b strings.Builder
	for i, o := range p.Options {
		prefix := "  "
		if i == p.Cursor && !p.Revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s. %s", prefix, o.Label, o.Text)

		switch {
		case p.Revealed && o.Label == p.Correct:
			line = theme.Correct.Render(line + "  ✓")
		case p.Revealed && o.Label == p.Chosen:
			line = theme.Incorrect.Render(line + "  ✗")
		case p.Revealed:
			line = theme.Faded.Render(line)
		case i == p.Cursor:
			line = theme.Selected.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
