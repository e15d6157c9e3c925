// Package parsers turns the extracted text of instrument reports into
// assessment records. Each instrument has its own Parser; a Registry
// dispatches on the instrument tag assigned at upload time.
package parsers

import (
	"fmt"

	"github.com/JaimeStill/otreport/internal/assessment"
)

// Parser reads one instrument's report text.
type Parser interface {
	Instrument() assessment.Instrument
	// Parse returns a record, or an *ExtractionError when nothing usable was
	// found. A record missing some expected fields is returned with partial
	// confidence and a nil error.
	Parse(text string) (assessment.Record, error)
}

// Registry dispatches parse requests by instrument tag.
type Registry struct {
	parsers map[assessment.Instrument]Parser
}

// NewRegistry creates a registry from the given parsers. A later parser for
// the same instrument replaces an earlier one.
func NewRegistry(parsers ...Parser) *Registry {
	r := &Registry{parsers: make(map[assessment.Instrument]Parser, len(parsers))}
	for _, p := range parsers {
		r.parsers[p.Instrument()] = p
	}
	return r
}

// Default returns a registry holding a parser for every instrument.
func Default() *Registry {
	return NewRegistry(
		Facesheet{},
		NewBayleyCognitive(),
		NewBayleySocial(),
		NewSensoryProfile(),
		NewChOMPS(),
		NewPediEAT(),
		ClinicalNotes{},
	)
}

// Parse dispatches text to the parser registered for instrument.
func (r *Registry) Parse(instrument assessment.Instrument, text string) (assessment.Record, error) {
	p, ok := r.parsers[instrument]
	if !ok {
		return assessment.Record{}, fmt.Errorf("%w: %s", ErrUnsupported, instrument)
	}

	record, err := p.Parse(text)
	if err != nil {
		record.Instrument = instrument
		record.Confidence = assessment.ConfidenceFailed
		return record, err
	}
	return record, nil
}

// Supports reports whether a parser is registered for instrument.
func (r *Registry) Supports(instrument assessment.Instrument) bool {
	_, ok := r.parsers[instrument]
	return ok
}
