package trivia

import "fmt"

const (
	maxQuestionLen    = 300
	maxOptionLen      = 120
	maxExplanationLen = 1000
)

// StructuralValidator rejects placeholder text and oversized fields.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question, _ PromptContext) *ValidationError {
	if q.IsPlaceholder() {
		return &ValidationError{Validator: v.Name(), Message: "no question line found"}
	}
	if len(q.Text) > maxQuestionLen {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("question text exceeds %d characters", maxQuestionLen),
		}
	}
	for _, o := range q.Options {
		if o.Text == "" {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("option %s is empty", o.Label)}
		}
		if len(o.Text) > maxOptionLen {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %s exceeds %d characters", o.Label, maxOptionLen),
			}
		}
	}
	if len(q.Explanation) > maxExplanationLen {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("explanation exceeds %d characters", maxExplanationLen),
		}
	}
	return nil
}

// OptionsValidator requires exactly the options A, B, C and D in that order.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(q *Question, _ PromptContext) *ValidationError {
	want := []Label{LabelA, LabelB, LabelC, LabelD}
	if len(q.Options) != len(want) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected 4 options, got %d", len(q.Options)),
		}
	}
	for i, o := range q.Options {
		if o.Label != want[i] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %d is labelled %s, want %s", i+1, o.Label, want[i]),
			}
		}
	}
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if seen[o.Text] {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("option %q appears twice", o.Text)}
		}
		seen[o.Text] = true
	}
	return nil
}

// AnswerValidator requires the answer to name one of the options.
type AnswerValidator struct{}

func (v *AnswerValidator) Name() string { return "answer" }

func (v *AnswerValidator) Validate(q *Question, _ PromptContext) *ValidationError {
	if _, ok := q.Option(q.Correct); !ok {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("answer %q is not among the options", q.Correct),
		}
	}
	return nil
}
