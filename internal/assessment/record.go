package assessment

import (
	"slices"
	"time"
)

// Confidence reports how much of a document's expected content was found.
type Confidence string

const (
	ConfidenceComplete Confidence = "complete"
	ConfidencePartial  Confidence = "partial"
	ConfidenceFailed   Confidence = "failed"
)

// Scale identifies the norm a standard score is expressed on.
type Scale string

const (
	// ScaleComposite has mean 100 and SD 15.
	ScaleComposite Scale = "composite"
	// ScaleScaled has mean 10 and SD 3.
	ScaleScaled Scale = "scaled"
	// ScaleTScore has mean 50 and SD 10.
	ScaleTScore Scale = "t_score"
	// ScaleRaw carries no norm; only a raw score was reported.
	ScaleRaw Scale = "raw"
)

// Classification is the qualitative band a score falls in.
type Classification string

const (
	Unknown Classification = "Unknown"

	ExtremelyLow Classification = "Extremely Low"
	BelowAverage Classification = "Below Average"
	Average      Classification = "Average"
	AboveAverage Classification = "Above Average"
	VerySuperior Classification = "Very Superior"

	DefiniteDifficulty Classification = "Definite Difficulty"
	SomeDifficulty     Classification = "Some Difficulty"
	Typical            Classification = "Typical"
)

// DataNotAvailable is the narrative wording for an Unknown classification.
const DataNotAvailable = "data not available"

// Describe returns the narrative wording of c.
func (c Classification) Describe() string {
	if c == "" || c == Unknown {
		return DataNotAvailable
	}
	return string(c)
}

// Known reports whether c carries a band.
func (c Classification) Known() bool {
	return c != "" && c != Unknown
}

// ScoreValue is one domain's scores as printed on an instrument report.
// Classification is filled by the scoring package and never by a parser.
type ScoreValue struct {
	Domain         string         `json:"domain"`
	Kind           ScoreKind      `json:"kind"`
	Raw            *float64       `json:"raw,omitempty"`
	Standard       *float64       `json:"standard,omitempty"`
	Scale          Scale          `json:"scale"`
	Percentile     *float64       `json:"percentile,omitempty"`
	AgeEquivalent  string         `json:"age_equivalent,omitempty"`
	Interval       string         `json:"interval,omitempty"`
	Descriptor     string         `json:"descriptor,omitempty"`
	Classification Classification `json:"classification"`
	NormTable      string         `json:"norm_table,omitempty"`
}

// ScoreKind groups domains within an instrument.
type ScoreKind string

const (
	KindComposite ScoreKind = "composite"
	KindSubtest   ScoreKind = "subtest"
	KindQuadrant  ScoreKind = "quadrant"
	KindSection   ScoreKind = "section"
	KindDomain    ScoreKind = "domain"
	KindTotal     ScoreKind = "total"
)

// Normed reports whether the score can be classified.
func (s ScoreValue) Normed() bool {
	return s.Standard != nil || s.Percentile != nil
}

// Float returns a pointer to v for optional score fields.
func Float(v float64) *float64 {
	return &v
}

// Issue records a field the parser found but could not read.
type Issue struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Record is the normalized result of parsing one uploaded document.
// Records are values: later stages return modified copies.
type Record struct {
	Instrument   Instrument   `json:"instrument"`
	Source       string       `json:"source,omitempty"`
	Observations []string     `json:"observations,omitempty"`
	Scores       []ScoreValue `json:"scores,omitempty"`
	Confidence   Confidence   `json:"confidence"`
	Issues       []Issue      `json:"issues,omitempty"`
	Detail       Detail       `json:"detail,omitempty"`
}

// Usable reports whether the record can inform a report.
func (r Record) Usable() bool {
	return r.Confidence == ConfidenceComplete || r.Confidence == ConfidencePartial
}

// Score returns the score for domain, if present.
func (r Record) Score(domain string) (ScoreValue, bool) {
	for _, s := range r.Scores {
		if s.Domain == domain {
			return s, true
		}
	}
	return ScoreValue{}, false
}

// ScoresOf returns the scores of one kind in record order.
func (r Record) ScoresOf(kind ScoreKind) []ScoreValue {
	var out []ScoreValue
	for _, s := range r.Scores {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// Clone returns a copy of r that shares no slices with it.
func (r Record) Clone() Record {
	out := r
	out.Observations = slices.Clone(r.Observations)
	out.Scores = slices.Clone(r.Scores)
	out.Issues = slices.Clone(r.Issues)
	return out
}

// Detail carries instrument-specific content beyond the shared score model.
type Detail interface {
	Instrument() Instrument
}

// Demographics is the detail of a facesheet record.
type Demographics struct {
	Name           string    `json:"name,omitempty"`
	DateOfBirth    time.Time `json:"date_of_birth,omitzero"`
	AgeText        string    `json:"age_text,omitempty"`
	Sex            string    `json:"sex,omitempty"`
	Language       string    `json:"language,omitempty"`
	Identifier     string    `json:"identifier,omitempty"`
	Guardian       string    `json:"guardian,omitempty"`
	Address        string    `json:"address,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Insurance      string    `json:"insurance,omitempty"`
	ReferralReason string    `json:"referral_reason,omitempty"`
	Diagnosis      string    `json:"diagnosis,omitempty"`
}

func (Demographics) Instrument() Instrument { return Facesheet }

// BayleyDetail is the detail of both Bayley-4 records.
type BayleyDetail struct {
	Form Instrument `json:"form"`
}

func (d BayleyDetail) Instrument() Instrument { return d.Form }

// SensoryDetail is the detail of a Sensory Profile 2 record.
type SensoryDetail struct {
	Form string `json:"form,omitempty"`
}

func (SensoryDetail) Instrument() Instrument { return SP2 }

// FeedingDetail is the detail of ChOMPS and PediEAT records. Risk holds the
// level printed beside each domain, keyed by domain name.
type FeedingDetail struct {
	Form Instrument        `json:"form"`
	Risk map[string]string `json:"risk,omitempty"`
}

func (d FeedingDetail) Instrument() Instrument { return d.Form }

// NotesDetail is the detail of a clinical notes record.
type NotesDetail struct {
	Bullets  []string `json:"bullets,omitempty"`
	Concerns []string `json:"concerns,omitempty"`
	Feeding  []string `json:"feeding,omitempty"`
}

func (NotesDetail) Instrument() Instrument { return ClinicalNotes }
