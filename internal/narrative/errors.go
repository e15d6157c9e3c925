package narrative

import (
	"errors"
	"fmt"
)

// Narrative service error kinds.
var (
	ErrTimeout         = errors.New("narrative service timed out")
	ErrRateLimited     = errors.New("narrative service rate limited")
	ErrInvalidResponse = errors.New("narrative service returned an invalid response")
	ErrUnavailable     = errors.New("narrative service unavailable")
)

// ServiceError reports why the AI strategy could not produce a section.
// errors.Is matches it against its Kind and the underlying error.
type ServiceError struct {
	Section Kind
	Kind    error
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Section, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Section, e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// ErrorKind returns the kind name of a narrative service error for logging,
// or "other" when err is not one.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	default:
		return "other"
	}
}
