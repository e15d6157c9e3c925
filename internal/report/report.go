// Package report assembles synthesized sections into the document handed to
// renderers.
package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/JaimeStill/otreport/internal/assessment"
	"github.com/JaimeStill/otreport/internal/narrative"
	"github.com/JaimeStill/otreport/internal/patient"
)

// Title is the heading of every report.
const Title = "Pediatric Occupational Therapy Evaluation"

// Type selects how much detail a report carries.
type Type string

const (
	// TypeProfessional carries every section and full score tables.
	TypeProfessional Type = "professional"
	// TypeBasic drops subtest and sensory section rows from score tables.
	TypeBasic Type = "basic"
)

// ParseType validates s as a report type. An empty string is professional.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TypeProfessional, nil
	case TypeProfessional, TypeBasic:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

// Document is the finished report. It exists for one generation run and is
// never mutated after Assemble returns it.
type Document struct {
	ID          string                   `json:"id,omitempty"`
	Type        Type                     `json:"type"`
	Patient     patient.Patient          `json:"patient"`
	Age         patient.ChronologicalAge `json:"age"`
	Records     []assessment.Record      `json:"records"`
	Sections    []narrative.Section      `json:"sections"`
	GeneratedAt time.Time                `json:"generated_at,omitzero"`
}

// Section returns the section of kind k, if present.
func (d *Document) Section(k narrative.Kind) (narrative.Section, bool) {
	for _, s := range d.Sections {
		if s.Kind == k {
			return s, true
		}
	}
	return narrative.Section{}, false
}

// Slug returns a filename stem built from the patient name and encounter
// date, for example "ana-lopez-2023-06-01".
func (d *Document) Slug() string {
	var parts []string
	for _, f := range strings.Fields(strings.ToLower(d.Patient.Name)) {
		f = strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				return r
			}
			return -1
		}, f)
		if f != "" {
			parts = append(parts, f)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "report")
	}
	if !d.Patient.EncounterDate.IsZero() {
		parts = append(parts, d.Patient.EncounterDate.Format("2006-01-02"))
	}
	return strings.Join(parts, "-")
}

// RequireCore returns an *IncompleteCoreError when any mandatory instrument
// has no usable record.
func RequireCore(records []assessment.Record) error {
	var missing []assessment.Instrument
	for _, required := range assessment.Required() {
		usable := slices.ContainsFunc(records, func(r assessment.Record) bool {
			return r.Instrument == required && r.Usable()
		})
		if !usable {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return &IncompleteCoreError{Missing: missing}
	}
	return nil
}

// Assemble checks the mandatory assessments and orders sections into the
// fixed report order regardless of the order they were produced in. Only
// usable records are kept. When a kind appears more than once the first
// section wins.
func Assemble(
	p patient.Patient,
	age patient.ChronologicalAge,
	records []assessment.Record,
	sections []narrative.Section,
	typ Type,
) (*Document, error) {
	if err := RequireCore(records); err != nil {
		return nil, err
	}
	if typ == "" {
		typ = TypeProfessional
	}

	doc := &Document{
		Type:    typ,
		Patient: p,
		Age:     age,
	}

	for _, r := range records {
		if r.Usable() {
			doc.Records = append(doc.Records, r.Clone())
		}
	}

	for _, kind := range narrative.Kinds() {
		i := slices.IndexFunc(sections, func(s narrative.Section) bool { return s.Kind == kind })
		if i < 0 {
			continue
		}
		s := sections[i]
		if s.Title == "" {
			s.Title = kind.Title()
		}
		if typ == TypeBasic {
			s.Blocks = summarize(s.Blocks)
		}
		doc.Sections = append(doc.Sections, s)
	}

	return doc, nil
}

// summarize drops detail rows from every table, and any table left empty.
func summarize(blocks []narrative.Block) []narrative.Block {
	out := make([]narrative.Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Kind != narrative.BlockTable || b.Table == nil {
			out = append(out, b)
			continue
		}
		t := *b.Table
		t.Rows = slices.DeleteFunc(slices.Clone(t.Rows), func(r narrative.Row) bool { return r.Detail })
		if len(t.Rows) == 0 {
			continue
		}
		b.Table = &t
		out = append(out, b)
	}
	return out
}
