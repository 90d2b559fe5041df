// Package play is the game screen: it hosts a game.Session and turns key
// presses into session operations.
package play

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/pitchquiz/pitchquiz/internal/game"
	"github.com/pitchquiz/pitchquiz/internal/leagues"
	"github.com/pitchquiz/pitchquiz/internal/live"
	"github.com/pitchquiz/pitchquiz/internal/screen"
	"github.com/pitchquiz/pitchquiz/internal/trivia"
	"github.com/pitchquiz/pitchquiz/internal/ui/components"
	"github.com/pitchquiz/pitchquiz/internal/ui/layout"
)

const (
	leaderboardRefresh = 2 * time.Second
	shareFileName      = "pitchquiz-share.png"
	suggestLimit       = 4
)

// Board is the read side of the live leaderboard.
type Board interface {
	RequestLeaderboard()
	Leaderboard() []live.Entry
}

// Options configures the screen.
type Options struct {
	Session *game.Session
	Leagues *leagues.Catalogue // optional
	Board   Board              // optional
	Logger  *zap.Logger

	// ShareDir receives a QR code of the share text. Empty skips it.
	ShareDir string

	// CopyText puts text on the clipboard. Nil uses the system clipboard.
	CopyText func(string) error
}

type mode int

const (
	modePlay mode = iota
	modeTeam
	modeBoard
)

// Screen implements screen.Screen for a game session.
type Screen struct {
	sess     *game.Session
	leagues  *leagues.Catalogue
	board    Board
	logger   *zap.Logger
	shareDir string
	copyText func(string) error

	mode      mode
	picker    components.AnswerPicker
	pickerFor string
	team      components.TeamInput
	spinner   spinner.Model
	status    string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.ScoreProvider = (*Screen)(nil)

// New creates the screen. It opens on the team prompt when no team is set.
func New(opts Options) *Screen {
	s := &Screen{
		sess:     opts.Session,
		leagues:  opts.Leagues,
		board:    opts.Board,
		logger:   opts.Logger,
		shareDir: opts.ShareDir,
		copyText: opts.CopyText,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.copyText == nil {
		s.copyText = clipboard.WriteAll
	}
	if s.sess.View().Team == "" {
		s.openTeamInput()
	}
	return s
}

func (s *Screen) Init() tea.Cmd {
	cmds := []tea.Cmd{s.spinner.Tick}
	if s.mode == modeTeam {
		cmds = append(cmds, s.team.Init())
	}
	return tea.Batch(cmds...)
}

func (s *Screen) Title() string {
	v := s.sess.View()
	if v.Team == "" {
		return "Football Trivia"
	}
	return v.Team
}

func (s *Screen) HeaderScore() (int, int) {
	v := s.sess.View()
	return v.Score, v.Streak
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeTeam:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Confirm"},
			{Key: "Tab", Description: "Suggest"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeBoard:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Back"},
		}
	}

	common := []layout.KeyHint{
		{Key: "t", Description: "Team"},
		{Key: "r", Description: "Reset"},
		{Key: "q", Description: "Quit"},
	}
	switch s.sess.View().Phase {
	case game.PhaseNotStarted:
		return append([]layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "l", Description: "League"},
		}, common...)
	case game.PhaseAwaitingAnswer:
		return append([]layout.KeyHint{
			{Key: "A-D", Description: "Answer"},
		}, common...)
	case game.PhaseAnswered, game.PhaseTimedOut:
		return append([]layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "s", Description: "Share"},
		}, common...)
	case game.PhaseFailed:
		return append([]layout.KeyHint{
			{Key: "Enter", Description: "Retry"},
		}, common...)
	}
	return common
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loopMsg:
		msg.fn()
		s.syncPicker()
		return s, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case leaderboardTickMsg:
		if s.mode != modeBoard {
			return s, nil
		}
		s.board.RequestLeaderboard()
		return s, leaderboardTick()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.mode == modeTeam {
		var cmd tea.Cmd
		s.team, cmd = s.team.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch s.mode {
	case modeTeam:
		return s.handleTeamKey(msg)
	case modeBoard:
		if k := msg.String(); k == "tab" || k == "esc" {
			s.mode = modePlay
		}
		return s, nil
	}

	v := s.sess.View()
	if v.Phase == game.PhaseAwaitingAnswer {
		var label trivia.Label
		s.picker, label = s.picker.Update(msg)
		if label != trivia.LabelUnknown {
			s.sess.Select(label)
			s.syncPicker()
			return s, nil
		}
	}

	switch msg.String() {
	case "q":
		return s, tea.Quit

	case "enter", "n":
		s.status = ""
		switch v.Phase {
		case game.PhaseNotStarted:
			if msg.String() != "enter" {
				return s, nil
			}
			if v.Team == "" {
				return s, s.openTeamInput()
			}
			s.report(s.sess.Start(v.Team))
		case game.PhaseAnswered, game.PhaseTimedOut, game.PhaseFailed:
			s.report(s.sess.Next())
		}

	case "t":
		return s, s.openTeamInput()

	case "l":
		if s.leagues != nil {
			s.report(s.sess.SetLeague(s.leagues.Next(v.League)))
		}

	case "r":
		s.sess.Reset()
		s.status = "Game reset."

	case "s":
		s.share()

	case "tab":
		if s.board != nil {
			s.mode = modeBoard
			s.board.RequestLeaderboard()
			return s, leaderboardTick()
		}
	}

	s.syncPicker()
	return s, nil
}

func (s *Screen) handleTeamKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if s.sess.View().Team != "" {
			s.mode = modePlay
		}
		return s, nil

	case "enter":
		team := s.team.Value()
		if team == "" {
			s.status = "Enter a team name."
			return s, nil
		}
		s.status = ""
		s.mode = modePlay
		s.report(s.sess.ChangeTeam(team))
		s.syncPicker()
		return s, nil
	}

	var cmd tea.Cmd
	s.team, cmd = s.team.Update(msg)
	return s, cmd
}

func (s *Screen) openTeamInput() tea.Cmd {
	v := s.sess.View()
	var suggest func(string) []string
	if s.leagues != nil {
		league := v.League
		suggest = func(prefix string) []string {
			return s.leagues.Suggest(league, prefix, suggestLimit)
		}
	}
	s.team = components.NewTeamInput(v.Team, suggest)
	s.mode = modeTeam
	return s.team.Init()
}

// syncPicker rebuilds or reveals the answer picker to match the session.
func (s *Screen) syncPicker() {
	v := s.sess.View()
	if v.Question == nil {
		s.pickerFor = ""
		return
	}
	if v.Question.Text != s.pickerFor {
		s.picker = components.NewAnswerPicker(*v.Question)
		s.pickerFor = v.Question.Text
	}
	switch v.Phase {
	case game.PhaseAnswered:
		s.picker = s.picker.Reveal(v.Selected)
	case game.PhaseTimedOut:
		s.picker = s.picker.Reveal(trivia.LabelUnknown)
	}
}

func (s *Screen) share() {
	text := s.sess.ShareText()
	s.status = text

	if err := s.copyText(text); err != nil {
		s.logger.Debug("clipboard unavailable", zap.Error(err))
	} else {
		s.status = "Copied: " + text
	}

	if s.shareDir == "" {
		return
	}
	path := filepath.Join(s.shareDir, shareFileName)
	if err := os.MkdirAll(s.shareDir, 0o755); err != nil {
		s.logger.Warn("failed to create share directory", zap.Error(err))
		return
	}
	if err := qrcode.WriteFile(text, qrcode.Medium, 256, path); err != nil {
		s.logger.Warn("failed to write share code", zap.Error(err))
		return
	}
	s.status += " (QR: " + path + ")"
}

// report shows a session error in the status line.
func (s *Screen) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, game.ErrNoTeam):
		s.status = "Pick a team first."
	case errors.Is(err, game.ErrFetchInFlight):
		s.status = "Still fetching a question…"
	default:
		s.status = err.Error()
	}
}

func leaderboardTick() tea.Cmd {
	return tea.Tick(leaderboardRefresh, func(time.Time) tea.Msg {
		return leaderboardTickMsg{}
	})
}
