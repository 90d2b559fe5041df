package play

import tea "charm.land/bubbletea/v2"

// loopMsg carries a session callback onto the UI goroutine.
type loopMsg struct {
	fn func()
}

// Post wraps fn as a message. Sending it to the program runs fn inside
// Update, which makes the program the session's event loop.
func Post(fn func()) tea.Msg {
	return loopMsg{fn: fn}
}

// leaderboardTickMsg refreshes the board panel while it is open.
type leaderboardTickMsg struct{}
