package pipeline

import "errors"

// Sentinel errors for pipeline operations.
var (
	ErrNoDocuments = errors.New("no documents uploaded")
	ErrPatient     = errors.New("invalid patient")
	ErrNarrate     = errors.New("narrative synthesis failed")
)
