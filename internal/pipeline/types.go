// Package pipeline runs one report generation session as a state graph:
// parse → age → interpret → narrate → assemble.
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/otreport/internal/assessment"
	"github.com/JaimeStill/otreport/internal/patient"
	"github.com/JaimeStill/otreport/internal/report"
)

// State keys used in the graph state bag.
const (
	KeySession  = "session"
	KeyRequest  = "request"
	KeyRecords  = "records"
	KeyDropped  = "dropped"
	KeyPatient  = "patient"
	KeyAge      = "age"
	KeySections = "sections"
	KeyDocument = "document"
)

// Upload is one document's extracted text, tagged with its instrument at
// upload time.
type Upload struct {
	Instrument assessment.Instrument
	Source     string
	Text       string
}

// Request is the input of one generation session.
type Request struct {
	Patient    patient.Patient
	Uploads    []Upload
	ReportType report.Type
}

// Dropped records an upload that did not contribute to the report.
type Dropped struct {
	Instrument assessment.Instrument `json:"instrument"`
	Source     string                `json:"source,omitempty"`
	Reason     string                `json:"reason"`
}

// Result is the output of a completed session.
type Result struct {
	SessionID   uuid.UUID        `json:"session_id"`
	Document    *report.Document `json:"document"`
	Dropped     []Dropped        `json:"dropped,omitempty"`
	CompletedAt time.Time        `json:"completed_at"`
}
