package parsers

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/JaimeStill/otreport/internal/assessment"
)

var (
	chompsRisk = regexp.MustCompile(
		`(?i)\b(?:risk(?: level)?\s*[:=]?\s*(no|low|moderate|high)\b|(no|low|moderate|high|elevated)\s+risk\b|(at risk|of concern|within normal limits|typical))`,
	)
	pediEATLevel = regexp.MustCompile(
		`(?i)\b(high concern|concern|elevated|atypical|typical|no concern|within normal limits)\b`,
	)
)

// Feeding reads the domain table of a ChOMPS or PediEAT report together
// with the risk level printed beside each domain.
type Feeding struct {
	form   assessment.Instrument
	fields []field
	level  *regexp.Regexp
}

// NewChOMPS returns the parser for the Chicago Oral Motor and Feeding
// Assessment for Pediatric Swallowing.
func NewChOMPS() *Feeding {
	domain := func(name string, aliases ...string) field {
		return field{domain: name, kind: assessment.KindDomain, aliases: aliases, layout: rawPercentileRow}
	}
	return &Feeding{
		form: assessment.ChOMPS,
		fields: []field{
			domain("Complex Movement Patterns", "complex movement"),
			domain("Basic Movement Patterns", "basic movement"),
			domain("Oral Motor Skills", "oral motor coordination", "oral motor"),
			domain("Fine Motor Skills", "fine motor"),
			{domain: "ChOMPS Total", kind: assessment.KindTotal, aliases: []string{"total score", "total"}, layout: rawPercentileRow},
		},
		level: chompsRisk,
	}
}

// NewPediEAT returns the parser for the Pediatric Eating Assessment Tool.
func NewPediEAT() *Feeding {
	domain := func(name string, aliases ...string) field {
		return field{domain: name, kind: assessment.KindDomain, aliases: aliases, layout: symptomRow}
	}
	return &Feeding{
		form: assessment.PediEAT,
		fields: []field{
			domain("Physiologic Symptoms", "physiological symptoms", "physiology"),
			domain("Problematic Mealtime Behaviors", "mealtime behaviors", "mealtime behavior"),
			domain("Selective/Restrictive Eating", "selective restrictive", "selectivity"),
			domain("Oral Processing", "processing"),
			{domain: "PediEAT Total", kind: assessment.KindTotal, aliases: []string{"total score", "total"}, layout: symptomRow},
		},
		level: pediEATLevel,
	}
}

func (f *Feeding) Instrument() assessment.Instrument { return f.form }

func (f *Feeding) Parse(text string) (assessment.Record, error) {
	doc := newDocument(text)
	if doc.empty() {
		return assessment.Record{}, noContent(f.form)
	}

	scan := scanFields(doc, 0, len(doc.lines), f.fields, nil, nil)

	detail := assessment.FeedingDetail{Form: f.form}
	for domain, row := range scan.rows {
		if level := f.levelAt(doc, row); level != "" {
			if detail.Risk == nil {
				detail.Risk = make(map[string]string)
			}
			detail.Risk[domain] = level
		}
	}

	record, err := buildRecord(f.form, doc, scan.anchors, detail, scan)
	if err != nil {
		return record, err
	}

	for i, s := range record.Scores {
		if level, ok := detail.Risk[s.Domain]; ok {
			record.Scores[i].Descriptor = level
		}
	}

	return record, nil
}

// levelAt returns the risk level printed on the row starting at i.
func (f *Feeding) levelAt(doc *document, i int) string {
	m := f.level.FindStringSubmatch(doc.lines[i].text)
	if m == nil {
		return ""
	}
	for _, g := range m[1:] {
		if g != "" {
			return cases.Title(language.English).String(strings.ToLower(g))
		}
	}
	return ""
}
