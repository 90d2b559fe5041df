package app

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/pitchquiz/pitchquiz/internal/game"
	"github.com/pitchquiz/pitchquiz/internal/leagues"
	"github.com/pitchquiz/pitchquiz/internal/live"
	"github.com/pitchquiz/pitchquiz/internal/screen"
	"github.com/pitchquiz/pitchquiz/internal/screens/play"
	"github.com/pitchquiz/pitchquiz/internal/store"
	"github.com/pitchquiz/pitchquiz/internal/ui/layout"
)

// AppModel is the root Bubble Tea model. It draws the frame around the
// active screen.
type AppModel struct {
	screen screen.Screen
	width  int
	height int
}

func newAppModel(s screen.Screen) AppModel {
	return AppModel{screen: s}
}

func (m AppModel) Init() tea.Cmd {
	return m.screen.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.screen, cmd = m.screen.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the frame, or nothing before the first window size arrives.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	var score, streak int
	if sp, ok := m.screen.(screen.ScoreProvider); ok {
		score, streak = sp.HeaderScore()
	}
	header := layout.RenderHeader(m.screen.Title(), score, streak, m.width)

	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if hp, ok := m.screen.(screen.KeyHintProvider); ok {
		hints = hp.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	content := m.screen.View(m.width, m.height)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Deps are the collaborators of a game run.
type Deps struct {
	Acquirer game.Acquirer
	Store    store.KV
	Emitter  live.Emitter
	Board    play.Board
	Leagues  *leagues.Catalogue
	Logger   *zap.Logger

	PlayerName string
	SessionID  string
	ShareDir   string

	// Team and League, when set, replace the persisted choices.
	Team   string
	League string
}

// Run plays a game in the terminal until the player quits or ctx ends.
func Run(ctx context.Context, deps Deps) error {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// The program is the session's event loop: callbacks from timers and
	// fetches are sent to it and run inside Update.
	var p *tea.Program
	loop := game.NewLoop(func(fn func()) { p.Send(play.Post(fn)) })

	var validLeague func(string) bool
	if deps.Leagues != nil {
		validLeague = deps.Leagues.Valid
	}
	sess := game.NewSession(game.Options{
		Acquirer:    deps.Acquirer,
		Scheduler:   loop,
		Store:       deps.Store,
		Emitter:     deps.Emitter,
		Logger:      logger,
		PlayerName:  deps.PlayerName,
		ValidLeague: validLeague,
		SessionID:   deps.SessionID,
	})

	if deps.League != "" {
		if err := sess.SetLeague(deps.League); err != nil {
			sess.Close()
			return err
		}
	}
	if deps.Team != "" {
		if err := sess.ChangeTeam(deps.Team); err != nil {
			sess.Close()
			return err
		}
	}

	scr := play.New(play.Options{
		Session:  sess,
		Leagues:  deps.Leagues,
		Board:    deps.Board,
		Logger:   logger,
		ShareDir: deps.ShareDir,
	})

	p = tea.NewProgram(newAppModel(scr), tea.WithContext(ctx))
	_, err := p.Run()

	sess.Close()
	loop.Wait()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
