package trivia

import (
	"errors"
	"fmt"
)

// ErrExhaustedAttempts matches any *AcquisitionError with reason
// ExhaustedAttempts.
var ErrExhaustedAttempts = errors.New("exhausted attempts")

// ErrDuplicate is recorded when the generator repeats an asked question.
var ErrDuplicate = errors.New("question already asked")

// AcquisitionReason explains why Acquire gave up.
type AcquisitionReason int

const (
	// ExhaustedAttempts means every attempt produced an unusable question.
	ExhaustedAttempts AcquisitionReason = iota + 1
)

func (r AcquisitionReason) String() string {
	switch r {
	case ExhaustedAttempts:
		return "exhausted attempts"
	default:
		return fmt.Sprintf("AcquisitionReason(%d)", int(r))
	}
}

// AcquisitionError is returned by Acquire when no usable question could be
// obtained within the attempt bound.
type AcquisitionError struct {
	Reason   AcquisitionReason
	Attempts int

	// Last is why the final attempt was rejected: ErrDuplicate or a
	// *ValidationError.
	Last error
}

func (e *AcquisitionError) Error() string {
	msg := fmt.Sprintf("couldn't fetch a unique question after %d attempts", e.Attempts)
	if e.Last != nil {
		return msg + ": " + e.Last.Error()
	}
	return msg
}

func (e *AcquisitionError) Unwrap() error { return e.Last }

// Is lets errors.Is(err, ErrExhaustedAttempts) match.
func (e *AcquisitionError) Is(target error) bool {
	return target == ErrExhaustedAttempts && e.Reason == ExhaustedAttempts
}
