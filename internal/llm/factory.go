package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pitchquiz/pitchquiz/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with timeout and logging middleware.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *zap.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = newOfflineProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → timeout → logging → base
	logged := WithLogging(base, eventRepo, logger)
	return WithTimeout(logged, cfg.Timeout), nil
}

// NewProviderFromEnv reads the environment, validates it and builds a Provider.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo, logger *zap.Logger) (Provider, error) {
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, eventRepo, logger)
}

// TimeoutProvider bounds every request with a deadline.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so each Generate call gets at most d.
// A non-positive d returns p unchanged.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}

// newOfflineProvider backs the "mock" provider so the game runs without a
// network. It serves each canned question once, then repeats the first.
func newOfflineProvider() *MockProvider {
	m := NewRepeatingMockProvider(MockResponse{Text: offlineQuestions[0]})
	for _, q := range offlineQuestions {
		m.AddResponse(MockResponse{Text: q})
	}
	return m
}

var offlineQuestions = []string{
	`Question: Which club won the first Premier League title in 1992-93?
A. Manchester United
B. Blackburn Rovers
C. Aston Villa
D. Arsenal
Answer: A
Explanation: Manchester United finished ten points clear of Aston Villa.`,

	`Question: Which team went the whole 2003-04 Premier League season unbeaten?
A. Chelsea
B. Arsenal
C. Manchester United
D. Liverpool
Answer: B
Explanation: Arsenal's "Invincibles" won 26 and drew 12 of their 38 games.`,

	`Question: Who is the Bundesliga's all-time top scorer?
A. Robert Lewandowski
B. Klaus Fischer
C. Gerd Müller
D. Jupp Heynckes
Answer: C
Explanation: Gerd Müller scored 365 Bundesliga goals for Bayern Munich.`,

	`Question: Which club plays its home games at the Mestalla?
A. Sevilla
B. Real Betis
C. Villarreal
D. Valencia
Answer: D
Explanation: The Mestalla opened in 1923 and is the oldest stadium in La Liga.`,

	`Question: Which Belgian club has won the most league titles?
A. Club Brugge
B. Anderlecht
C. Standard Liège
D. Genk
Answer: B
Explanation: Anderlecht have been Belgian champions 34 times.`,
}
