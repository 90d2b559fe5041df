package trivia

import (
	"strings"
	"testing"
)

func validQuestion() Question {
	return Parse("Question: Q\nA. w\nB. x\nC. y\nD. z\nAnswer: C\nExplanation: e")
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name      string
		validator Validator
		mutate    func(q *Question)
		wantErr   string
	}{
		{"structural ok", &StructuralValidator{}, func(q *Question) {}, ""},
		{"placeholder", &StructuralValidator{}, func(q *Question) { q.Text = PlaceholderText }, "no question line"},
		{"long text", &StructuralValidator{}, func(q *Question) { q.Text = strings.Repeat("x", 301) }, "question text exceeds"},
		{"empty option", &StructuralValidator{}, func(q *Question) { q.Options[1].Text = "" }, "option B is empty"},
		{"long explanation", &StructuralValidator{}, func(q *Question) { q.Explanation = strings.Repeat("x", 1001) }, "explanation exceeds"},
		{"options ok", &OptionsValidator{}, func(q *Question) {}, ""},
		{"three options", &OptionsValidator{}, func(q *Question) { q.Options = q.Options[:3] }, "expected 4 options, got 3"},
		{"out of order", &OptionsValidator{}, func(q *Question) { q.Options[0], q.Options[1] = q.Options[1], q.Options[0] }, "option 1 is labelled B"},
		{"repeated option", &OptionsValidator{}, func(q *Question) { q.Options[3].Text = "w" }, `option "w" appears twice`},
		{"answer ok", &AnswerValidator{}, func(q *Question) {}, ""},
		{"answer not an option", &AnswerValidator{}, func(q *Question) { q.Options = q.Options[:2] }, `answer "C" is not among the options`},
		{"unknown answer", &AnswerValidator{}, func(q *Question) { q.Correct = LabelUnknown }, "not among the options"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuestion()
			tt.mutate(&q)
			verr := tt.validator.Validate(&q, testContext())
			if tt.wantErr == "" {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if verr.Validator != tt.validator.Name() {
				t.Errorf("Validator = %q, want %q", verr.Validator, tt.validator.Name())
			}
			if !strings.Contains(verr.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", verr.Error(), tt.wantErr)
			}
		})
	}
}
