package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JaimeStill/otreport/internal/assessment"
)

// Assembly error kinds.
var (
	ErrIncompleteCore = errors.New("incomplete core assessments")
	ErrInvalidType    = errors.New("report type must be professional or basic")
)

// IncompleteCoreError names every mandatory instrument that produced no
// usable record. errors.Is matches it against ErrIncompleteCore.
type IncompleteCoreError struct {
	Missing []assessment.Instrument
}

func (e *IncompleteCoreError) Error() string {
	return fmt.Sprintf("%v: missing %s", ErrIncompleteCore, strings.Join(e.names(), ", "))
}

func (e *IncompleteCoreError) Unwrap() error {
	return ErrIncompleteCore
}

// Message is the user-facing explanation of the failure.
func (e *IncompleteCoreError) Message() string {
	return fmt.Sprintf(
		"A report cannot be generated without a readable %s report. Upload the missing assessment and try again.",
		joinNames(e.names()),
	)
}

func (e *IncompleteCoreError) names() []string {
	names := make([]string, 0, len(e.Missing))
	for _, i := range e.Missing {
		names = append(names, i.Name())
	}
	return names
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
