package trivia

import "fmt"

// Label identifies a multiple-choice option.
type Label string

const (
	LabelA Label = "A"
	LabelB Label = "B"
	LabelC Label = "C"
	LabelD Label = "D"

	// LabelUnknown is the answer of a question with no parsed options.
	LabelUnknown Label = ""
)

// PlaceholderText replaces the question text when no "Question:" line is
// found. A question carrying it is a parse failure, not a real question.
const PlaceholderText = "??"

// Option is one of a question's answer choices.
type Option struct {
	Label Label
	Text  string
}

// Question is a parsed trivia question. Values are never mutated after Parse
// returns them.
type Question struct {
	// Text is the question shown to the player, or PlaceholderText.
	Text string

	// Options are in the order they appeared in the response. Usually four,
	// but any number is possible.
	Options []Option

	// Correct is the label of the right answer. It may name a label that is
	// not among Options; it is LabelUnknown only when Options is empty.
	Correct Label

	// Explanation is shown after the round ends. May be empty.
	Explanation string
}

// IsPlaceholder reports whether parsing failed to find the question text.
func (q Question) IsPlaceholder() bool {
	return q.Text == PlaceholderText
}

// IsCorrect reports whether choosing l answers q correctly.
func (q Question) IsCorrect(l Label) bool {
	return l != LabelUnknown && l == q.Correct
}

// Option returns the option labelled l.
func (q Question) Option(l Label) (Option, bool) {
	for _, o := range q.Options {
		if o.Label == l {
			return o, true
		}
	}
	return Option{}, false
}

// Difficulty is the tier requested from the generator.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// article returns the difficulty with its indefinite article, as used in
// the prompt sentence.
func (d Difficulty) article() string {
	if d == Easy {
		return "an easy"
	}
	return "a " + d.String()
}

// Pacing tells the generator how quickly the previous question was answered.
type Pacing int

const (
	PacingNone Pacing = iota
	PacingFast
	PacingSlow
)

func (p Pacing) String() string {
	switch p {
	case PacingNone:
		return "none"
	case PacingFast:
		return "fast"
	case PacingSlow:
		return "slow"
	default:
		return fmt.Sprintf("Pacing(%d)", int(p))
	}
}

// Latency is the number of whole seconds the player took to answer.
type Latency int

// LatencyUnknown marks a round that ended without an answer, or no round at all.
const LatencyUnknown Latency = -1

// Known reports whether l holds a measured latency.
func (l Latency) Known() bool { return l >= 0 }

// FastAnswerSeconds is the latency below which an answer counts as quick.
const FastAnswerSeconds = 5

// DifficultyFor maps the current streak to a difficulty tier.
func DifficultyFor(streak int) Difficulty {
	switch {
	case streak == 0:
		return Easy
	case streak > 5:
		return Hard
	default:
		return Medium
	}
}

// PacingFor maps the previous round's latency to a pacing hint.
func PacingFor(l Latency) Pacing {
	switch {
	case !l.Known():
		return PacingNone
	case l < FastAnswerSeconds:
		return PacingFast
	default:
		return PacingSlow
	}
}

// PromptContext is everything the prompt depends on. It is rebuilt from the
// session before every request.
type PromptContext struct {
	Difficulty Difficulty
	Pacing     Pacing
	League     string
	Team       string
}

// NewPromptContext derives a PromptContext from session state.
func NewPromptContext(streak int, last Latency, league, team string) PromptContext {
	return PromptContext{
		Difficulty: DifficultyFor(streak),
		Pacing:     PacingFor(last),
		League:     league,
		Team:       team,
	}
}
