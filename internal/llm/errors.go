package llm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a generation failure.
type ErrorKind int

const (
	// TransportFailure covers network errors and non-2xx responses.
	TransportFailure ErrorKind = iota + 1

	// EmptyResponse means the backend answered but carried no usable text.
	EmptyResponse
)

func (k ErrorKind) String() string {
	switch k {
	case TransportFailure:
		return "transport failure"
	case EmptyResponse:
		return "empty response"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// GenerationError is returned by every Provider when a request fails.
type GenerationError struct {
	Kind ErrorKind

	// StatusCode is the HTTP status reported by the backend, 0 if unknown.
	StatusCode int

	Err error
}

func (e *GenerationError) Error() string {
	var msg string
	switch {
	case e.StatusCode != 0:
		msg = fmt.Sprintf("generation failed (%s, status %d)", e.Kind, e.StatusCode)
	default:
		msg = fmt.Sprintf("generation failed (%s)", e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *GenerationError) Unwrap() error { return e.Err }

// IsKind reports whether err is a *GenerationError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var gerr *GenerationError
	return errors.As(err, &gerr) && gerr.Kind == kind
}

func transportError(err error, status int) *GenerationError {
	return &GenerationError{Kind: TransportFailure, StatusCode: status, Err: err}
}

func emptyResponse(format string, args ...any) *GenerationError {
	return &GenerationError{Kind: EmptyResponse, Err: fmt.Errorf(format, args...)}
}
