package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pitchquiz/pitchquiz/internal/game"
	"github.com/pitchquiz/pitchquiz/internal/ui/components"
	"github.com/pitchquiz/pitchquiz/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	v := s.sess.View()

	var body string
	switch s.mode {
	case modeTeam:
		body = s.renderTeamInput(v, cw)
	case modeBoard:
		body = s.renderBoard(cw)
	default:
		body = s.renderGame(v, cw)
	}

	return components.Stack(
		body,
		renderBadges(v),
		s.renderStatus(cw),
	)
}

func (s *Screen) renderGame(v game.View, cw int) string {
	switch v.Phase {
	case game.PhaseNotStarted:
		return renderSetup(v, cw)

	case game.PhaseLoading:
		return components.Card(s.spinner.View()+" Loading question…", cw)

	case game.PhaseFailed:
		return components.Card(components.Stack(
			theme.Warning.Render(v.Message),
			theme.Hint.Render("Press Enter to try again."),
		), cw)
	}

	if v.Question == nil {
		return ""
	}

	header := theme.Hint.Render(fmt.Sprintf("%s question · %s", capitalize(v.Difficulty.String()), v.League))
	question := theme.Body.Bold(true).Width(cw - 6).Render(v.Question.Text)

	blocks := []string{header, question, strings.TrimRight(s.picker.View(), "\n")}

	switch v.Phase {
	case game.PhaseAwaitingAnswer:
		blocks = append(blocks, components.TimerBar{
			Remaining: v.Remaining,
			Total:     game.RoundSeconds,
			Width:     cw - 6,
		}.View())

	case game.PhaseAnswered:
		blocks = append(blocks, renderResult(v, cw))

	case game.PhaseTimedOut:
		blocks = append(blocks, theme.Warning.Render(v.Message))
		if v.Question.Explanation != "" {
			blocks = append(blocks, theme.Hint.Width(cw-6).Render(v.Question.Explanation))
		}
	}

	return components.Card(components.Stack(blocks...), cw)
}

func renderSetup(v game.View, cw int) string {
	action := "Start Game"
	if v.InGame {
		action = "Continue Game"
	}
	team := v.Team
	if team == "" {
		team = "(none)"
	}

	lines := []string{
		theme.Title.Width(cw - 6).Render("Football Trivia"),
		theme.Body.Render("Player: " + v.PlayerName),
		theme.Body.Render("League: " + v.League),
		theme.Body.Render("Team:   " + team),
		theme.Selected.Render("▸ Press Enter to " + action),
	}
	if v.FunFact != "" {
		lines = append(lines, theme.FunFact.Width(cw-8).Render("Fun fact: "+v.FunFact))
	}
	return components.Card(components.Stack(lines...), cw)
}

func renderResult(v game.View, cw int) string {
	r := v.Result
	if r == nil {
		return ""
	}

	var verdict string
	if r.Correct {
		verdict = theme.Correct.Render(fmt.Sprintf("✅ Correct! +%d", r.Points))
		if r.SpeedBonus {
			verdict += theme.Badge.Render("  ⚡ speed bonus")
		}
	} else {
		verdict = theme.Incorrect.Render(fmt.Sprintf("❌ Wrong. The answer was %s.", v.Question.Correct))
	}

	blocks := []string{verdict}
	if v.JustEarned != "" {
		blocks = append(blocks, theme.Badge.Render("🎉 New badge: "+string(v.JustEarned)))
	}
	if v.FunFact != "" && r.Correct {
		blocks = append(blocks, theme.FunFact.Width(cw-8).Render(v.FunFact))
	} else if v.Question.Explanation != "" {
		blocks = append(blocks, theme.Hint.Width(cw-6).Render(v.Question.Explanation))
	}
	return components.Stack(blocks...)
}

// renderBadges lists earned badges other than the one just announced.
func renderBadges(v game.View) string {
	var parts []string
	for _, b := range v.Badges {
		if b == v.JustEarned {
			continue
		}
		parts = append(parts, theme.Badge.Render(string(b)))
	}
	if len(parts) == 0 {
		return ""
	}
	return theme.Hint.Render("Badges: ") + strings.Join(parts, "  ")
}

func (s *Screen) renderTeamInput(v game.View, cw int) string {
	return components.Card(components.Stack(
		theme.Title.Width(cw-6).Render("Pick your team"),
		theme.Hint.Render("League: "+v.League),
		s.team.View(),
	), cw)
}

func (s *Screen) renderBoard(cw int) string {
	entries := s.board.Leaderboard()
	if len(entries) == 0 {
		return components.Card(theme.Hint.Render("No scores yet."), cw)
	}

	rows := []string{theme.Title.Width(cw - 6).Render("Leaderboard")}
	for i, e := range entries {
		name := e.Name
		if name == s.sess.View().PlayerName {
			name = theme.Selected.Render(name)
		}
		rows = append(rows, fmt.Sprintf("%2d. %s %s",
			i+1, name, theme.Hint.Render(fmt.Sprintf("%d", e.Score))))
	}
	return components.Card(strings.Join(rows, "\n"), cw)
}

func (s *Screen) renderStatus(cw int) string {
	if s.status == "" {
		return ""
	}
	return lipgloss.NewStyle().Width(cw).Render(theme.Hint.Render(s.status))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
