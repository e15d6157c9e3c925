package patient

import "errors"

var (
	// ErrInvalidRange indicates the encounter date precedes the date of birth.
	ErrInvalidRange = errors.New("encounter date precedes date of birth")
	ErrMissingName  = errors.New("patient name required")
	ErrMissingDate  = errors.New("patient date required")
)
