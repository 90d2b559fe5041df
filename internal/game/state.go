package game

import (
	"errors"
	"fmt"

	"github.com/pitchquiz/pitchquiz/internal/trivia"
)

// RoundSeconds is the time allowed to answer one question.
const RoundSeconds = 15

// Messages shown when a round cannot start or ends without an answer.
const (
	MsgFetchError       = "Error fetching question."
	MsgNoUniqueQuestion = "Couldn't fetch a unique question."
	MsgTimeUp           = "⏳ Time's up!"
)

var (
	ErrNoTeam            = errors.New("pick a team first")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrFetchInFlight     = errors.New("a question is already being fetched")
	ErrUnknownLeague     = errors.New("unknown league")
)

// Phase is the session's position in the round lifecycle.
type Phase int

const (
	PhaseNotStarted     Phase = iota // No game running, or a saved game not yet continued
	PhaseLoading                     // Waiting for a question
	PhaseAwaitingAnswer              // Question shown, timer running
	PhaseAnswered                    // Option chosen, explanation visible
	PhaseTimedOut                    // Timer ran out without an answer
	PhaseFailed                      // No question could be fetched
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not started"
	case PhaseLoading:
		return "loading"
	case PhaseAwaitingAnswer:
		return "awaiting answer"
	case PhaseAnswered:
		return "answered"
	case PhaseTimedOut:
		return "timed out"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// RoundResult describes how the latest answer was scored.
type RoundResult struct {
	Selected   trivia.Label
	Correct    bool
	Points     int
	SpeedBonus bool
	Latency    trivia.Latency

	// Badge is set when this answer earned a new badge.
	Badge Badge
}

// View is a read-only copy of the session for rendering.
type View struct {
	Phase      Phase
	PlayerName string
	League     string
	Team       string

	// InGame is true once a game has started and until Reset. A session
	// in PhaseNotStarted with InGame set continues a saved game on Start.
	InGame bool

	Score      int
	Streak     int
	Difficulty trivia.Difficulty
	Badges     Badges
	JustEarned Badge

	Question  *trivia.Question
	Selected  trivia.Label
	Result    *RoundResult
	Remaining int

	FunFact string

	// Message is the user-facing error or time-up notice, if any.
	Message string
	Err     error
}
