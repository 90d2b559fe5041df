package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/pitchquiz/pitchquiz/internal/screen"
	"github.com/pitchquiz/pitchquiz/internal/ui/layout"
)

type stubScreen struct {
	title   string
	updates int
}

func (s *stubScreen) Init() tea.Cmd { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) {
	s.updates++
	return s, nil
}
func (s *stubScreen) View(int, int) string       { return "pitch" }
func (s *stubScreen) Title() string              { return s.title }
func (s *stubScreen) HeaderScore() (int, int)    { return 7, 3 }
func (s *stubScreen) KeyHints() []layout.KeyHint { return []layout.KeyHint{{Key: "x", Description: "Explode"}} }

func TestAppModel_View(t *testing.T) {
	m := newAppModel(&stubScreen{title: "Arsenal"})

	if got := m.render(); got != "" {
		t.Errorf("view before first resize = %q, want empty", got)
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	out := updated.(AppModel).render()
	for _, want := range []string{"PitchQuiz", "Arsenal", "Score 7", "Streak 3", "Explode", "pitch"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestAppModel_TooSmall(t *testing.T) {
	m := newAppModel(&stubScreen{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})

	if out := updated.(AppModel).render(); !strings.Contains(out, "Terminal too small") {
		t.Errorf("expected size warning, got:\n%s", out)
	}
}

func TestAppModel_UsesAltScreen(t *testing.T) {
	m := newAppModel(&stubScreen{})
	if !m.View().AltScreen {
		t.Error("game should take over the whole terminal")
	}
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	s := &stubScreen{}
	m := newAppModel(s)

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
	if s.updates != 0 {
		t.Error("ctrl+c should not reach the screen")
	}

	m.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if s.updates != 1 {
		t.Errorf("updates = %d, want 1", s.updates)
	}
}
