package parsers

import (
	"github.com/JaimeStill/otreport/internal/assessment"
)

var bayleyDescriptors = []string{
	"Extremely Low",
	"Borderline",
	"Low Average",
	"Below Average",
	"Average",
	"High Average",
	"Above Average",
	"Superior",
	"Very Superior",
}

var (
	subtestHeadings   = []string{"subtest score summary", "subtest scores", "scaled score summary", "subtest summary"}
	compositeHeadings = []string{"composite score summary", "composite scores", "composite summary", "index score summary"}
)

// Bayley reads either Bayley-4 record. Subtest and composite tables repeat
// domain names, so each table is scanned within its own heading when the
// headings are present.
type Bayley struct {
	form       assessment.Instrument
	subtests   []field
	composites []field
}

// NewBayleyCognitive returns the parser for the Cognitive, Language, and
// Motor scales.
func NewBayleyCognitive() *Bayley {
	return &Bayley{
		form: assessment.Bayley4Cognitive,
		subtests: []field{
			{domain: "Cognitive", kind: assessment.KindSubtest, aliases: []string{"cog"}, layout: subtestRow},
			{domain: "Receptive Communication", kind: assessment.KindSubtest, aliases: []string{"rc"}, layout: subtestRow},
			{domain: "Expressive Communication", kind: assessment.KindSubtest, aliases: []string{"ec"}, layout: subtestRow},
			{domain: "Fine Motor", kind: assessment.KindSubtest, aliases: []string{"fm"}, layout: subtestRow},
			{domain: "Gross Motor", kind: assessment.KindSubtest, aliases: []string{"gm"}, layout: subtestRow},
		},
		composites: []field{
			{domain: "Cognitive Composite", kind: assessment.KindComposite, aliases: []string{"cognitive", "cog"}, layout: compositeRow},
			{domain: "Language Composite", kind: assessment.KindComposite, aliases: []string{"language", "lang"}, layout: compositeRow},
			{domain: "Motor Composite", kind: assessment.KindComposite, aliases: []string{"motor", "mot"}, layout: compositeRow},
		},
	}
}

// NewBayleySocial returns the parser for the Social-Emotional and Adaptive
// Behavior questionnaire.
func NewBayleySocial() *Bayley {
	skill := func(domain string, aliases ...string) field {
		return field{domain: domain, kind: assessment.KindSubtest, aliases: aliases, layout: subtestRow}
	}
	return &Bayley{
		form: assessment.Bayley4Social,
		subtests: []field{
			skill("Communication", "com"),
			skill("Community Use", "cu"),
			skill("Functional Pre-Academics", "functional preacademics", "fa"),
			skill("Home Living", "hl"),
			skill("Health and Safety", "health safety", "hs"),
			skill("Leisure", "ls"),
			skill("Self-Care", "self care", "sc"),
			skill("Self-Direction", "self direction", "sd"),
			skill("Social", "soc"),
			skill("Motor", "mo"),
		},
		composites: []field{
			{domain: "Social-Emotional Composite", kind: assessment.KindComposite, aliases: []string{"social emotional", "se"}, layout: compositeRow},
			{domain: "Adaptive Behavior Composite", kind: assessment.KindComposite, aliases: []string{"general adaptive composite", "adaptive behavior", "gac"}, layout: compositeRow},
		},
	}
}

func (b *Bayley) Instrument() assessment.Instrument { return b.form }

func (b *Bayley) Parse(text string) (assessment.Record, error) {
	doc := newDocument(text)
	if doc.empty() {
		return assessment.Record{}, noContent(b.form)
	}

	slo, shi := doc.region(subtestHeadings, compositeHeadings)
	clo, chi := doc.region(compositeHeadings, subtestHeadings)

	subtests := scanFields(doc, slo, shi, b.subtests, bayleyDescriptors, nil)
	composites := scanFields(doc, clo, chi, b.composites, bayleyDescriptors, subtests.used)
	subtests.release(composites.used)

	anchors := subtests.anchors
	for i := range composites.anchors {
		anchors[i] = true
	}
	for i := range subtests.used {
		anchors[i] = true
	}

	return buildRecord(b.form, doc, anchors, assessment.BayleyDetail{Form: b.form}, subtests, composites)
}

// buildRecord applies the partial-success policy shared by score-based
// instruments.
func buildRecord(
	instrument assessment.Instrument,
	doc *document,
	anchors map[int]bool,
	detail assessment.Detail,
	scans ...scanResult,
) (assessment.Record, error) {
	record := assessment.Record{
		Instrument: instrument,
		Detail:     detail,
		Confidence: assessment.ConfidenceComplete,
	}

	anchored := 0
	for _, s := range scans {
		anchored += s.anchored
		record.Scores = append(record.Scores, s.scores...)
		record.Issues = append(record.Issues, s.allIssues()...)
		if s.confidence() != assessment.ConfidenceComplete {
			record.Confidence = assessment.ConfidencePartial
		}
	}

	record.Observations = collectObservations(doc, anchors)

	if len(record.Scores) == 0 {
		if len(record.Issues) > 0 {
			return assessment.Record{}, malformed(instrument, record.Issues)
		}
		if anchored == 0 || len(record.Observations) == 0 {
			return assessment.Record{}, noContent(instrument)
		}
		record.Confidence = assessment.ConfidencePartial
	}

	return record, nil
}
