package trivia

import (
	"regexp"
	"strings"
)

var (
	fenceOpenRe  = regexp.MustCompile("^```[^\n]*\n?")
	fenceCloseRe = regexp.MustCompile("\n?```$")

	questionRe    = regexp.MustCompile(`(?i)question:\s*([^\n]*)`)
	optionRe      = regexp.MustCompile(`(?m)^[ \t]*([A-Da-d])[.)][ \t]+(.*?)[ \t]*$`)
	answerRe      = regexp.MustCompile(`(?im)^[ \t]*(?:correct[ \t]+answer|answer)[ \t]*[:\s][ \t]*([A-D])\b`)
	explanationRe = regexp.MustCompile(`(?is)explanation:\s*(.*)`)
)

// Parse extracts a Question from generator output. It never fails: fields
// that cannot be found get fallback values.
//
//   - No "Question:" line: Text is PlaceholderText.
//   - Options are every "A. text" or "b) text" line, in order.
//   - The answer marker must start a line, so "answer: a" inside the
//     question text is not mistaken for it.
//   - No "Answer:" marker: Correct is the first option's label, or
//     LabelUnknown without options. An answer that names no parsed option
//     is kept as-is.
//   - No "Explanation:": Explanation is empty.
func Parse(raw string) Question {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = stripFences(text)

	q := Question{
		Text:    PlaceholderText,
		Correct: LabelUnknown,
	}

	if m := questionRe.FindStringSubmatch(text); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			q.Text = t
		}
	}

	for _, m := range optionRe.FindAllStringSubmatch(text, -1) {
		q.Options = append(q.Options, Option{
			Label: Label(strings.ToUpper(m[1])),
			Text:  strings.TrimSpace(m[2]),
		})
	}

	switch m := answerRe.FindStringSubmatch(text); {
	case m != nil:
		q.Correct = Label(strings.ToUpper(m[1]))
	case len(q.Options) > 0:
		q.Correct = q.Options[0].Label
	}

	if m := explanationRe.FindStringSubmatch(text); m != nil {
		q.Explanation = strings.TrimSpace(m[1])
	}

	return q
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = fenceOpenRe.ReplaceAllString(s, "")
	s = fenceCloseRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
