package trivia

import "fmt"

// Validator checks a parsed question before it is handed to the session.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for logs and errors.
	Name() string

	// Validate returns nil if q is acceptable for the request described by pc.
	Validate(q *Question, pc PromptContext) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
