package trivia

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pitchquiz/pitchquiz/internal/llm"
)

const chelseaQuestion = `Question: In which year did Chelsea first win the Champions League?
A. 2008
B. 2012
C. 2016
D. 2021
Answer: B
Explanation: They beat Bayern Munich on penalties in Munich.`

const spursQuestion = `Question: Which stadium did Tottenham leave in 2017?
A. White Hart Lane
B. Highbury
C. Upton Park
D. Maine Road
Answer: A
Explanation: They moved to Wembley while the new stadium was built.`

func testContext() PromptContext {
	return NewPromptContext(0, LatencyUnknown, "Premier League", "Chelsea")
}

func TestAcquire_Success(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: chelseaQuestion})
	gen := New(mock, DefaultConfig(), nil)

	q, err := gen.Acquire(context.Background(), testContext(), NewAskedSet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Correct != LabelB {
		t.Errorf("Correct = %q, want B", q.Correct)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}

	call := mock.Calls[0]
	if call.System != systemPrompt {
		t.Errorf("System = %q", call.System)
	}
	if call.MaxTokens != 512 || call.Temperature != 0.9 {
		t.Errorf("unexpected request settings: %+v", call)
	}
	if !strings.Contains(mock.LastPrompt(), "about Chelsea") {
		t.Errorf("prompt does not mention the team: %q", mock.LastPrompt())
	}
}

func TestAcquire_DoesNotMutateAsked(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: chelseaQuestion})
	gen := New(mock, DefaultConfig(), nil)
	asked := NewAskedSet("something else")

	if _, err := gen.Acquire(context.Background(), testContext(), asked); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asked.Len() != 1 {
		t.Fatalf("Acquire modified the asked set: %v", asked.Texts())
	}
}

func TestAcquire_RetriesDuplicates(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: chelseaQuestion},
		llm.MockResponse{Text: chelseaQuestion},
		llm.MockResponse{Text: spursQuestion},
	)
	gen := New(mock, DefaultConfig(), nil)
	asked := NewAskedSet(Parse(chelseaQuestion).Text)

	q, err := gen.Acquire(context.Background(), testContext(), asked)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Text != "Which stadium did Tottenham leave in 2017?" {
		t.Errorf("Text = %q", q.Text)
	}
	if mock.CallCount() != 3 {
		t.Errorf("expected 3 calls, got %d", mock.CallCount())
	}

	// Every attempt sends the identical prompt.
	for i, c := range mock.Calls[1:] {
		if c.Messages[0].Content != mock.Calls[0].Messages[0].Content {
			t.Errorf("attempt %d changed the prompt", i+2)
		}
	}
}

func TestAcquire_ExhaustsAfterExactlyMaxAttempts(t *testing.T) {
	for _, max := range []int{1, 4, 7} {
		mock := llm.NewRepeatingMockProvider(llm.MockResponse{Text: chelseaQuestion})
		cfg := DefaultConfig()
		cfg.MaxAttempts = max
		gen := New(mock, cfg, nil)
		asked := NewAskedSet(Parse(chelseaQuestion).Text)

		_, err := gen.Acquire(context.Background(), testContext(), asked)
		if !errors.Is(err, ErrExhaustedAttempts) {
			t.Fatalf("max=%d: expected ErrExhaustedAttempts, got %v", max, err)
		}
		var aerr *AcquisitionError
		if !errors.As(err, &aerr) || aerr.Attempts != max {
			t.Fatalf("max=%d: unexpected error %#v", max, err)
		}
		if !errors.Is(err, ErrDuplicate) {
			t.Errorf("max=%d: last rejection should be a duplicate: %v", max, err)
		}
		if mock.CallCount() != max {
			t.Errorf("max=%d: expected %d calls, got %d", max, max, mock.CallCount())
		}
	}
}

func TestAcquire_DefaultMaxAttempts(t *testing.T) {
	mock := llm.NewRepeatingMockProvider(llm.MockResponse{Text: chelseaQuestion})
	gen := New(mock, Config{}, nil)

	_, err := gen.Acquire(context.Background(), testContext(), NewAskedSet(Parse(chelseaQuestion).Text))
	if !errors.Is(err, ErrExhaustedAttempts) {
		t.Fatalf("expected ErrExhaustedAttempts, got %v", err)
	}
	if mock.CallCount() != DefaultMaxAttempts {
		t.Errorf("expected %d calls, got %d", DefaultMaxAttempts, mock.CallCount())
	}
}

func TestAcquire_GenerationErrorFailsFast(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
		kind llm.ErrorKind
	}{
		{"transport", llm.MockResponse{Err: &llm.GenerationError{Kind: llm.TransportFailure, StatusCode: 500}}, llm.TransportFailure},
		{"empty", llm.MockResponse{Err: &llm.GenerationError{Kind: llm.EmptyResponse}}, llm.EmptyResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(tt.resp, llm.MockResponse{Text: chelseaQuestion})
			gen := New(mock, DefaultConfig(), nil)

			_, err := gen.Acquire(context.Background(), testContext(), nil)
			if !llm.IsKind(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
			if errors.Is(err, ErrExhaustedAttempts) {
				t.Fatal("generation failure must not look like exhaustion")
			}
			if mock.CallCount() != 1 {
				t.Errorf("expected 1 call, got %d", mock.CallCount())
			}
		})
	}
}

func TestAcquire_LenientByDefault(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Question: Q\nA. x\nB. y\nAnswer: D"})
	gen := New(mock, DefaultConfig(), nil)

	q, err := gen.Acquire(context.Background(), testContext(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Correct != LabelD || len(q.Options) != 2 {
		t.Errorf("unexpected question %+v", q)
	}
}

func TestAcquire_StrictRejectsConsumeAttempts(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "nonsense"},
		llm.MockResponse{Text: "Question: Q\nA. x\nB. y\nC. z\nD. w\nAnswer: A"},
	)
	gen := New(mock, StrictConfig(), nil)

	q, err := gen.Acquire(context.Background(), testContext(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Text != "Q" || mock.CallCount() != 2 {
		t.Errorf("got %+v after %d calls", q, mock.CallCount())
	}

	mock = llm.NewRepeatingMockProvider(llm.MockResponse{Text: "Question: Q\nA. x\nAnswer: A"})
	_, err = New(mock, StrictConfig(), nil).Acquire(context.Background(), testContext(), nil)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Validator != "options" {
		t.Fatalf("expected options validation error, got %v", err)
	}
	if mock.CallCount() != DefaultMaxAttempts {
		t.Errorf("expected %d calls, got %d", DefaultMaxAttempts, mock.CallCount())
	}
}

func TestAcquire_TagsPurpose(t *testing.T) {
	var purpose string
	p := providerFunc(func(ctx context.Context, _ llm.Request) (*llm.Response, error) {
		purpose = llm.PurposeFrom(ctx)
		return &llm.Response{Text: chelseaQuestion}, nil
	})

	if _, err := New(p, DefaultConfig(), nil).Acquire(context.Background(), testContext(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if purpose != Purpose {
		t.Errorf("purpose = %q, want %q", purpose, Purpose)
	}
}

type providerFunc func(context.Context, llm.Request) (*llm.Response, error)

func (f providerFunc) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return f(ctx, req)
}

func (f providerFunc) ModelID() string { return "func" }
