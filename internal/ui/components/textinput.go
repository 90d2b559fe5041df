package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/pitchquiz/pitchquiz/internal/ui/theme"
)

// TeamInput is a text field for the team name with club suggestions.
type TeamInput struct {
	Model textinput.Model

	// Suggest returns clubs matching the typed prefix.
	Suggest func(prefix string) []string

	suggestions []string
	pick        int
}

// NewTeamInput creates a focused input prefilled with current.
func NewTeamInput(current string, suggest func(string) []string) TeamInput {
	ti := textinput.New()
	ti.Placeholder = "Type a club, e.g. Arsenal"
	ti.CharLimit = 60
	ti.SetWidth(40)
	ti.SetValue(current)
	ti.Focus()

	t := TeamInput{Model: ti, Suggest: suggest}
	t.refresh()
	return t
}

// Init focuses the field.
func (t TeamInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles typing. Tab cycles through suggestions.
func (t TeamInput) Update(msg tea.Msg) (TeamInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "tab" {
		if len(t.suggestions) > 0 {
			t.Model.SetValue(t.suggestions[t.pick%len(t.suggestions)])
			t.Model.CursorEnd()
			t.pick++
		}
		return t, nil
	}

	before := t.Model.Value()
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	if t.Model.Value() != before {
		t.refresh()
	}
	return t, cmd
}

func (t *TeamInput) refresh() {
	t.pick = 0
	t.suggestions = nil
	if t.Suggest != nil {
		t.suggestions = t.Suggest(t.Model.Value())
	}
}

// View renders the field and any suggestions.
func (t TeamInput) View() string {
	view := t.Model.View()
	if len(t.suggestions) > 0 {
		view += "\n" + theme.Hint.Render("tab: "+strings.Join(t.suggestions, " · "))
	}
	return view
}

// Value returns the trimmed team name.
func (t TeamInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}
