package play

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/pitchquiz/pitchquiz/internal/game"
	"github.com/pitchquiz/pitchquiz/internal/leagues"
	"github.com/pitchquiz/pitchquiz/internal/live"
	"github.com/pitchquiz/pitchquiz/internal/llm"
	"github.com/pitchquiz/pitchquiz/internal/store"
	"github.com/pitchquiz/pitchquiz/internal/trivia"
)

// inlineScheduler delivers work immediately and fires timers on demand.
type inlineScheduler struct {
	timers []*inlineTimer
}

type inlineTimer struct {
	fn        func()
	cancelled bool
}

func (t *inlineTimer) Cancel() { t.cancelled = true }

func (s *inlineScheduler) Every(_ time.Duration, fn func()) game.TimerHandle {
	t := &inlineTimer{fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *inlineScheduler) Go(work func() func()) {
	if done := work(); done != nil {
		done()
	}
}


const questionText = `Question: Who won the 2005 Champions League final in Istanbul?
A. Liverpool
B. AC Milan
C. Chelsea
D. Juventus
Answer: A
Explanation: Liverpool came back from 3-0 down at half-time.`

type fakeBoard struct {
	requests int
	entries  []live.Entry
}

func (b *fakeBoard) RequestLeaderboard()       { b.requests++ }
func (b *fakeBoard) Leaderboard() []live.Entry { return b.entries }

type fixture struct {
	screen *Screen
	sched  *inlineScheduler
	sess   *game.Session
	copied []string
}

func newFixture(t *testing.T, team string, opts Options) *fixture {
	t.Helper()

	kv := store.NewMemory()
	if team != "" {
		if err := kv.Set(t.Context(), game.KeyTeam, team); err != nil {
			t.Fatal(err)
		}
	}

	f := &fixture{sched: &inlineScheduler{}}
	provider := llm.NewRepeatingMockProvider(llm.MockResponse{Text: questionText})
	f.sess = game.NewSession(game.Options{
		Acquirer:   trivia.New(provider, trivia.DefaultConfig(), nil),
		Scheduler:  f.sched,
		Store:      kv,
		PlayerName: "Sam",
	})
	t.Cleanup(f.sess.Close)

	cat, err := leagues.Builtin()
	if err != nil {
		t.Fatal(err)
	}

	opts.Session = f.sess
	opts.Leagues = cat
	opts.CopyText = func(s string) error {
		f.copied = append(f.copied, s)
		return nil
	}
	f.screen = New(opts)
	return f
}

func (f *fixture) press(keys ...tea.KeyPressMsg) {
	for _, k := range keys {
		f.screen.Update(k)
	}
}

// tick fires live timers n times, routed through the screen the way the
// program delivers them.
func (f *fixture) tick(n int) {
	for range n {
		for _, t := range f.sched.timers {
			if !t.cancelled {
				f.screen.Update(Post(t.fn))
			}
		}
	}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

var (
	enter = specialKey(tea.KeyEnter)
	tab   = specialKey(tea.KeyTab)
	esc   = specialKey(tea.KeyEscape)
)

func TestNew_OpensTeamInputWithoutTeam(t *testing.T) {
	f := newFixture(t, "", Options{})

	if f.screen.mode != modeTeam {
		t.Fatalf("mode = %v, want team input", f.screen.mode)
	}

	// Escape is ignored until a team exists.
	f.press(esc)
	if f.screen.mode != modeTeam {
		t.Fatal("esc left the team prompt without a team")
	}

	f.press(enter)
	if f.screen.status != "Enter a team name." {
		t.Errorf("status = %q", f.screen.status)
	}

	for _, r := range "Liverpool" {
		f.press(keyPress(r))
	}
	f.press(enter)

	if f.screen.mode != modePlay {
		t.Fatalf("mode = %v, want play", f.screen.mode)
	}
	if got := f.sess.View().Team; got != "Liverpool" {
		t.Errorf("team = %q, want Liverpool", got)
	}
	if f.sess.View().Phase != game.PhaseNotStarted {
		t.Errorf("phase = %s, choosing a team should not start the game", f.sess.View().Phase)
	}
}

func TestPlay_AnswerFlow(t *testing.T) {
	f := newFixture(t, "Liverpool", Options{})
	if f.screen.mode != modePlay {
		t.Fatalf("mode = %v, want play", f.screen.mode)
	}

	f.press(enter)
	v := f.sess.View()
	if v.Phase != game.PhaseAwaitingAnswer {
		t.Fatalf("phase = %s, want awaiting answer", v.Phase)
	}

	out := f.screen.View(80, 30)
	if !strings.Contains(out, "Istanbul") {
		t.Errorf("view missing question:\n%s", out)
	}

	f.tick(2)
	f.press(keyPress('a'))

	v = f.sess.View()
	if v.Phase != game.PhaseAnswered {
		t.Fatalf("phase = %s, want answered", v.Phase)
	}
	if v.Score != 2 {
		t.Errorf("score = %d, want 2", v.Score)
	}
	if !f.screen.picker.Revealed || f.screen.picker.Chosen != trivia.LabelA {
		t.Errorf("picker not revealed with A: %+v", f.screen.picker)
	}

	out = f.screen.View(80, 30)
	for _, want := range []string{"Correct! +2", "speed bonus", "half-time"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}

	if score, streak := f.screen.HeaderScore(); score != 2 || streak != 1 {
		t.Errorf("HeaderScore() = %d, %d", score, streak)
	}
}

func TestPlay_ArrowsAndEnterSelect(t *testing.T) {
	f := newFixture(t, "Liverpool", Options{})
	f.press(enter)

	f.press(specialKey(tea.KeyDown), enter)

	v := f.sess.View()
	if v.Selected != trivia.LabelB {
		t.Errorf("selected = %q, want B", v.Selected)
	}
	if v.Streak != 0 {
		t.Errorf("streak = %d after a wrong answer", v.Streak)
	}
}

func TestPlay_TimeUp(t *testing.T) {
	f := newFixture(t, "Liverpool", Options{})
	f.press(enter)

	f.tick(game.RoundSeconds)

	if f.sess.View().Phase != game.PhaseTimedOut {
		t.Fatalf("phase = %s, want timed out", f.sess.View().Phase)
	}
	if !f.screen.picker.Revealed {
		t.Error("picker should reveal the answer after a timeout")
	}
	if out := f.screen.View(80, 30); !strings.Contains(out, game.MsgTimeUp) {
		t.Errorf("view missing time-up message:\n%s", out)
	}
}

func TestPlay_DuplicateQuestionFails(t *testing.T) {
	f := newFixture(t, "Liverpool", Options{})
	f.press(enter)
	f.press(keyPress('a'))

	// The mock only knows one question, so the next fetch runs out of attempts.
	f.press(enter)

	v := f.sess.View()
	if v.Phase != game.PhaseFailed {
		t.Fatalf("phase = %s, want failed", v.Phase)
	}
	if out := f.screen.View(80, 30); !strings.Contains(out, game.MsgNoUniqueQuestion) {
		t.Errorf("view missing failure message:\n%s", out)
	}
}

func TestPlay_LeagueCycles(t *testing.T) {
	f := newFixture(t, "Liverpool", Options{})

	f.press(keyPress('l'))
	if got := f.sess.View().League; got != "Bundesliga" {
		t.Errorf("league = %q, want Bundesliga", got)
	}
}

func TestPlay_ResetKey(t *testing.T) {
	f := newFixture(t, "Liverpool", Options{})
	f.press(enter, keyPress('a'), keyPress('r'))

	v := f.sess.View()
	if v.Phase != game.PhaseNotStarted || v.Score != 0 {
		t.Errorf("after reset: phase %s score %d", v.Phase, v.Score)
	}
	if f.screen.status != "Game reset." {
		t.Errorf("status = %q", f.screen.status)
	}
}

func TestPlay_Share(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, "Liverpool", Options{ShareDir: dir})
	f.press(enter, keyPress('a'), keyPress('s'))

	want := f.sess.ShareText()
	if len(f.copied) != 1 || f.copied[0] != want {
		t.Errorf("copied = %q, want [%q]", f.copied, want)
	}
	if !strings.HasPrefix(f.screen.status, "Copied: "+want) {
		t.Errorf("status = %q", f.screen.status)
	}
	if _, err := os.Stat(filepath.Join(dir, shareFileName)); err != nil {
		t.Errorf("share code not written: %v", err)
	}
}

func TestPlay_Board(t *testing.T) {
	board := &fakeBoard{entries: []live.Entry{{Name: "Sam", Score: 4}, {Name: "Alex", Score: 1}}}
	f := newFixture(t, "Liverpool", Options{Board: board})

	_, cmd := f.screen.Update(tab)
	if f.screen.mode != modeBoard {
		t.Fatalf("mode = %v, want board", f.screen.mode)
	}
	if cmd == nil || board.requests != 1 {
		t.Errorf("expected a leaderboard request and refresh tick, got %d requests", board.requests)
	}

	out := f.screen.View(80, 30)
	if !strings.Contains(out, "Alex") || !strings.Contains(out, "Leaderboard") {
		t.Errorf("board view:\n%s", out)
	}

	f.screen.Update(leaderboardTickMsg{})
	if board.requests != 2 {
		t.Errorf("requests = %d after refresh, want 2", board.requests)
	}

	f.press(tab)
	if f.screen.mode != modePlay {
		t.Errorf("tab should close the board")
	}
}

func TestPost_RunsOnUpdate(t *testing.T) {
	f := newFixture(t, "Liverpool", Options{})

	ran := false
	f.screen.Update(Post(func() { ran = true }))
	if !ran {
		t.Error("posted function did not run")
	}
}
