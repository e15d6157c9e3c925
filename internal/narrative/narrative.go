// Package narrative turns interpreted assessment records into report
// sections. Two strategies share one contract: Template fills sections from
// classification-driven sentence fragments with no external calls, and AI
// asks a language model for each section and falls back to Template for any
// section it cannot produce.
package narrative

import (
	"context"
	"slices"

	"github.com/JaimeStill/otreport/internal/assessment"
	"github.com/JaimeStill/otreport/internal/patient"
	"github.com/JaimeStill/otreport/internal/prompts"
)

// Kind identifies a report section.
type Kind string

// Section kinds, in report order.
const (
	KindBackground        Kind = "background"
	KindResults           Kind = "results"
	KindObservations      Kind = "observations"
	KindStrengthsAndNeeds Kind = "strengths_and_needs"
	KindRecommendations   Kind = "recommendations"
	KindGoals             Kind = "goals"
)

var kinds = []Kind{
	KindBackground,
	KindResults,
	KindObservations,
	KindStrengthsAndNeeds,
	KindRecommendations,
	KindGoals,
}

var titles = map[Kind]string{
	KindBackground:        "Background Information",
	KindResults:           "Assessment Results",
	KindObservations:      "Clinical Observations",
	KindStrengthsAndNeeds: "Strengths and Needs",
	KindRecommendations:   "Recommendations",
	KindGoals:             "Goals",
}

// Kinds returns the section kinds in report order.
func Kinds() []Kind {
	return slices.Clone(kinds)
}

// Title returns the heading a section of kind k is rendered under.
func (k Kind) Title() string {
	return titles[k]
}

// Stage returns the prompt stage that produces sections of kind k.
func (k Kind) Stage() prompts.Stage {
	return prompts.Stage(k)
}

// BlockKind is the body variant of a section block.
type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockBullets   BlockKind = "bullets"
	BlockTable     BlockKind = "table"
)

// Block is one body element of a section. Exactly one of Text, Items, or
// Table is set, according to Kind.
type Block struct {
	Kind  BlockKind `json:"kind"`
	Text  string    `json:"text,omitempty"`
	Items []string  `json:"items,omitempty"`
	Table *Table    `json:"table,omitempty"`
}

// Paragraph returns a paragraph block.
func Paragraph(text string) Block {
	return Block{Kind: BlockParagraph, Text: text}
}

// Bullets returns a bullet list block.
func Bullets(items ...string) Block {
	return Block{Kind: BlockBullets, Items: items}
}

// Table is a score table. Detail rows hold subtest-level scores and are
// dropped from basic reports.
type Table struct {
	Caption string   `json:"caption"`
	Header  []string `json:"header"`
	Rows    []Row    `json:"rows"`
}

// Row is one table row.
type Row struct {
	Cells  []string `json:"cells"`
	Detail bool     `json:"detail,omitempty"`
}

// Goal is a SMART treatment objective for one need domain.
type Goal struct {
	Domain    string `json:"domain"`
	Target    string `json:"target"`
	Timeframe string `json:"timeframe"`
}

// Statement renders g as a sentence about child.
func (g Goal) Statement(child string) string {
	return sentence(g.Timeframe + ", " + child + " will " + g.Target)
}

// Section is one synthesized report section. Sources lists the
// instruments whose records informed it.
type Section struct {
	Kind     Kind                    `json:"kind"`
	Title    string                  `json:"title"`
	Blocks   []Block                 `json:"blocks"`
	Goals    []Goal                  `json:"goals,omitempty"`
	Sources  []assessment.Instrument `json:"sources,omitempty"`
	Strategy string                  `json:"strategy"`
}

// Empty reports whether s carries no content.
func (s Section) Empty() bool {
	for _, b := range s.Blocks {
		switch b.Kind {
		case BlockParagraph:
			if b.Text != "" {
				return false
			}
		case BlockBullets:
			if len(b.Items) > 0 {
				return false
			}
		case BlockTable:
			if b.Table != nil && len(b.Table.Rows) > 0 {
				return false
			}
		}
	}
	return len(s.Goals) == 0
}

// Input is everything a strategy synthesizes from. Records are expected to
// be interpreted and usable.
type Input struct {
	Patient patient.Patient
	Age     patient.ChronologicalAge
	Records []assessment.Record
}

// Child returns the name the narrative refers to the child by.
func (in Input) Child() string {
	return in.Patient.FirstName()
}

// Record returns the record of instrument i, if present.
func (in Input) Record(i assessment.Instrument) (assessment.Record, bool) {
	for _, r := range in.Records {
		if r.Instrument == i {
			return r, true
		}
	}
	return assessment.Record{}, false
}

// Instruments returns the instruments present in the input, in canonical
// order.
func (in Input) Instruments() []assessment.Instrument {
	var out []assessment.Instrument
	for _, i := range assessment.Instruments() {
		if _, ok := in.Record(i); ok {
			out = append(out, i)
		}
	}
	return out
}

// Strategy synthesizes every section kind from one input.
type Strategy interface {
	Name() string
	Synthesize(ctx context.Context, in Input) ([]Section, error)
}
