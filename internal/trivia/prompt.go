package trivia

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a sports trivia generator."

// responseTemplate is the line format Parse understands.
const responseTemplate = `Question: …
A. …
B. …
C. …
D. …
Answer: <letter>
Explanation: …`

// BuildPrompt renders the request for one question. It is pure: the same
// context always yields the same prompt.
func BuildPrompt(pc PromptContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %s football trivia question about %s answered%s.\n",
		pc.Difficulty.article(), pc.Team, pacingPhrase(pc.Pacing))
	if pc.League != "" {
		fmt.Fprintf(&b, "The team plays in %s.\n", pc.League)
	}
	b.WriteString("Offer exactly one correct option and three incorrect options, in this format:\n")
	b.WriteString(responseTemplate)

	return b.String()
}

func pacingPhrase(p Pacing) string {
	switch p {
	case PacingFast:
		return " quickly"
	case PacingSlow:
		return " a bit slowly"
	default:
		return ""
	}
}
