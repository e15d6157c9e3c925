package parsers

import (
	"fmt"

	"github.com/JaimeStill/otreport/internal/assessment"
)

var sensoryDescriptors = []string{
	"Much Less Than Others",
	"Less Than Others",
	"Just Like the Majority of Others",
	"More Than Others",
	"Much More Than Others",
	"Much Less Than Most",
	"Less Than Most",
	"Typical Performance",
	"More Than Most",
	"Much More Than Most",
	"Probable Difference",
	"Definite Difference",
}

var sensoryRow = layout{
	patterns: [][]column{
		{colRaw, colTScore, colPercentile},
		{colRaw, colPercentile},
		{colRaw},
	},
	scale: assessment.ScaleRaw,
}

var (
	quadrantHeadings = []string{"quadrant summary", "quadrant scores", "quadrants"}
	sectionHeadings  = []string{"sensory section summary", "section summary", "sensory and behavioral sections", "sensory sections", "sections"}
)

// sensoryForms are matched against the document in order; the first form
// named wins.
var sensoryForms = []struct {
	key  string
	form string
}{
	{"infant sensory profile", "Infant"},
	{"toddler sensory profile", "Toddler"},
	{"short sensory profile", "Short"},
	{"sensory profile 2 school companion", "School Companion"},
	{"school companion", "School Companion"},
	{"child sensory profile", "Child"},
	{"adolescent adult sensory profile", "Adolescent/Adult"},
}

// SensoryProfile reads a Sensory Profile 2 score summary.
type SensoryProfile struct {
	quadrants []field
	sections  []field
}

// NewSensoryProfile returns the parser for the four quadrants and the
// sensory sections of any SP2 form.
func NewSensoryProfile() *SensoryProfile {
	quadrant := func(domain string, aliases ...string) field {
		return field{domain: domain, kind: assessment.KindQuadrant, aliases: aliases, layout: sensoryRow}
	}
	section := func(domain string, aliases ...string) field {
		return field{domain: domain, kind: assessment.KindSection, aliases: aliases, layout: sensoryRow}
	}
	return &SensoryProfile{
		quadrants: []field{
			quadrant("Seeking", "seeker", "seeking seeker"),
			quadrant("Avoiding", "avoider", "avoiding avoider"),
			quadrant("Sensitivity", "sensor", "sensitivity sensor"),
			quadrant("Registration", "bystander", "registration bystander"),
		},
		sections: []field{
			section("Auditory", "auditory processing"),
			section("Visual", "visual processing"),
			section("Touch", "touch processing", "tactile"),
			section("Movement", "movement processing", "vestibular"),
			section("Body Position", "body position processing", "proprioceptive"),
			section("Oral", "oral sensory processing", "oral processing"),
		},
	}
}

func (p *SensoryProfile) Instrument() assessment.Instrument { return assessment.SP2 }

func (p *SensoryProfile) Parse(text string) (assessment.Record, error) {
	doc := newDocument(text)
	if doc.empty() {
		return assessment.Record{}, noContent(assessment.SP2)
	}

	qlo, qhi := doc.region(quadrantHeadings, sectionHeadings)
	slo, shi := doc.region(sectionHeadings, quadrantHeadings)

	quadrants := scanFields(doc, qlo, qhi, p.quadrants, sensoryDescriptors, nil)
	sections := scanFields(doc, slo, shi, p.sections, sensoryDescriptors, quadrants.used)
	quadrants.release(sections.used)

	anchors := quadrants.anchors
	for i := range sections.anchors {
		anchors[i] = true
	}

	record, err := buildRecord(
		assessment.SP2,
		doc,
		anchors,
		assessment.SensoryDetail{Form: sensoryForm(doc)},
		quadrants,
		sections,
	)
	if err != nil {
		return record, err
	}

	var printed []string
	for _, s := range record.Scores {
		if s.Descriptor != "" {
			printed = append(printed, fmt.Sprintf("%s: %s", s.Domain, s.Descriptor))
		}
	}
	record.Observations = append(printed, record.Observations...)

	return record, nil
}

func sensoryForm(doc *document) string {
	for _, f := range sensoryForms {
		for _, l := range doc.lines {
			if containsKey(l.key, f.key) {
				return f.form
			}
		}
	}
	return ""
}
