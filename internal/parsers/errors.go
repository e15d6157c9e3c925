package parsers

import (
	"errors"
	"fmt"

	"github.com/JaimeStill/otreport/internal/assessment"
)

// Extraction error kinds.
var (
	ErrNoRecognizedContent   = errors.New("no recognized content")
	ErrMalformedNumericField = errors.New("malformed numeric field")
	ErrUnsupported           = errors.New("no parser registered for instrument")
)

// ExtractionError reports why a document produced no usable record.
// errors.Is matches it against its Kind.
type ExtractionError struct {
	Instrument assessment.Instrument
	Kind       error
	Detail     string
}

func (e *ExtractionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Instrument, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Instrument, e.Kind, e.Detail)
}

func (e *ExtractionError) Unwrap() error {
	return e.Kind
}

func noContent(instrument assessment.Instrument) error {
	return &ExtractionError{
		Instrument: instrument,
		Kind:       ErrNoRecognizedContent,
	}
}

func malformed(instrument assessment.Instrument, issues []assessment.Issue) error {
	detail := ""
	if len(issues) > 0 {
		detail = fmt.Sprintf("%s %q: %s", issues[0].Field, issues[0].Value, issues[0].Reason)
	}
	return &ExtractionError{
		Instrument: instrument,
		Kind:       ErrMalformedNumericField,
		Detail:     detail,
	}
}
