package trivia

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pitchquiz/pitchquiz/internal/llm"
)

// Purpose tags generation requests in the LLM event log.
const Purpose = "question-gen"

// Asked is the read-only view of already served questions that Acquire needs.
type Asked interface {
	Contains(text string) bool
}

// Generator acquires fresh trivia questions from an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
	logger   *zap.Logger
}

// New creates a Generator. A zero MaxAttempts means DefaultMaxAttempts.
func New(provider llm.Provider, cfg Config, logger *zap.Logger) *Generator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{provider: provider, config: cfg, logger: logger}
}

// Acquire asks the provider for a question that is not in asked.
//
// A provider failure is returned immediately, wrapping the *llm.GenerationError.
// Repeats and rejected questions are retried with the same prompt; after
// MaxAttempts calls Acquire returns an *AcquisitionError. asked is never
// modified: recording the returned question is the caller's job.
func (g *Generator) Acquire(ctx context.Context, pc PromptContext, asked Asked) (Question, error) {
	ctx = llm.WithPurpose(ctx, Purpose)

	req := llm.UserPrompt(systemPrompt, BuildPrompt(pc))
	req.MaxTokens = g.config.MaxTokens
	req.Temperature = g.config.Temperature

	var last error
	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		resp, err := g.provider.Generate(ctx, req)
		if err != nil {
			return Question{}, fmt.Errorf("generate question: %w", err)
		}

		q := Parse(resp.Text)

		if asked != nil && asked.Contains(q.Text) {
			last = fmt.Errorf("%w: %q", ErrDuplicate, q.Text)
			g.logger.Debug("duplicate question rejected",
				zap.Int("attempt", attempt),
				zap.String("question", q.Text))
			continue
		}

		if verr := g.validate(&q, pc); verr != nil {
			last = verr
			g.logger.Debug("question rejected",
				zap.Int("attempt", attempt),
				zap.String("validator", verr.Validator),
				zap.String("reason", verr.Message))
			continue
		}

		return q, nil
	}

	g.logger.Info("question acquisition exhausted",
		zap.Int("attempts", g.config.MaxAttempts),
		zap.String("team", pc.Team),
		zap.Error(last))

	return Question{}, &AcquisitionError{
		Reason:   ExhaustedAttempts,
		Attempts: g.config.MaxAttempts,
		Last:     last,
	}
}

func (g *Generator) validate(q *Question, pc PromptContext) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(q, pc); verr != nil {
			return verr
		}
	}
	return nil
}
