package trivia

// DefaultMaxAttempts bounds generator calls per acquisition.
const DefaultMaxAttempts = 4

// Config controls the behavior of the Generator.
type Config struct {
	// Validators run in order on every parsed question; the first failure
	// rejects it and consumes the attempt.
	Validators []Validator

	// MaxAttempts is the number of generator calls before giving up.
	MaxAttempts int

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig accepts whatever the parser produces, matching how
// forgiving the game has always been with odd generator output.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: DefaultMaxAttempts,
		MaxTokens:   512,
		Temperature: 0.9,
	}
}

// StrictConfig rejects placeholder questions, malformed option lists and
// answers that point at no option.
func StrictConfig() Config {
	cfg := DefaultConfig()
	cfg.Validators = []Validator{
		&StructuralValidator{},
		&OptionsValidator{},
		&AnswerValidator{},
	}
	return cfg
}
