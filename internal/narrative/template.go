package narrative

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/JaimeStill/otreport/internal/assessment"
)

// TemplateName identifies sections written by the deterministic strategy.
const TemplateName = "template"

// GoalTimeframe is the timeframe every deterministic goal uses.
const GoalTimeframe = "Within six months"

const goalCriterion = "in 4 out of 5 opportunities"

// Template is the deterministic strategy. It never makes an external call
// and produces non-empty content for every section kind.
type Template struct{}

func (Template) Name() string { return TemplateName }

// Synthesize returns every section kind in report order.
func (t Template) Synthesize(ctx context.Context, in Input) ([]Section, error) {
	profile := BuildProfile(in.Records)
	out := make([]Section, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, t.Section(k, in, profile))
	}
	return out, nil
}

// Section writes one section of the given kind.
func (Template) Section(kind Kind, in Input, profile Profile) Section {
	var s Section
	switch kind {
	case KindBackground:
		s = background(in)
	case KindResults:
		s = results(in)
	case KindObservations:
		s = observations(in)
	case KindStrengthsAndNeeds:
		s = strengthsAndNeeds(profile)
	case KindRecommendations:
		s = recommendations(in, profile)
	case KindGoals:
		s = goalsSection(in.Child(), TemplateGoals(profile))
		s.Sources = profile.Sources()
	}
	s.Kind = kind
	s.Title = kind.Title()
	s.Strategy = TemplateName
	return s
}

func background(in Input) Section {
	p := in.Patient
	child := in.Child()
	name := p.Name
	if name == "" {
		name = child
	}

	intro := name
	if in.Age.Formatted != "" {
		intro += fmt.Sprintf(" (chronological age %s)", in.Age)
	}
	intro += " was seen for an occupational therapy evaluation"
	if !p.EncounterDate.IsZero() {
		intro += " on " + p.EncounterDate.Format("January 2, 2006")
	}
	if p.Guardian != "" {
		intro += ", accompanied by " + p.Guardian
	}

	parts := []string{sentence(intro)}
	if p.Language != "" {
		parts = append(parts, sentence(fmt.Sprintf("%s's primary language is %s", child, p.Language)))
	}

	var sources []assessment.Instrument
	if r, ok := in.Record(assessment.Facesheet); ok {
		sources = append(sources, assessment.Facesheet)
		if d, ok := r.Detail.(assessment.Demographics); ok {
			if d.ReferralReason != "" {
				parts = append(parts, sentence(fmt.Sprintf("%s was referred for evaluation due to %s", child, lowerFirst(d.ReferralReason))))
			}
			if d.Diagnosis != "" {
				parts = append(parts, sentence("Diagnoses on record include "+d.Diagnosis))
			}
		}
	}

	blocks := []Block{Paragraph(strings.Join(parts, " "))}

	if r, ok := in.Record(assessment.ClinicalNotes); ok {
		if d, ok := r.Detail.(assessment.NotesDetail); ok && len(d.Concerns) > 0 {
			sources = append(sources, assessment.ClinicalNotes)
			concerns := make([]string, 0, len(d.Concerns))
			for _, c := range d.Concerns {
				concerns = append(concerns, strings.TrimSuffix(lowerFirst(c), "."))
			}
			blocks = append(blocks, Paragraph(sentence("Caregiver concerns include the following: "+strings.Join(concerns, "; "))))
		}
	}

	var administered []string
	for _, i := range in.Instruments() {
		if i == assessment.Facesheet || i == assessment.ClinicalNotes {
			continue
		}
		administered = append(administered, i.Name())
	}
	if len(administered) > 0 {
		blocks = append(blocks,
			Paragraph("The following assessments were administered during this evaluation:"),
			Bullets(administered...),
		)
	}

	return Section{Blocks: blocks, Sources: sources}
}

// summarized are the score kinds described in prose. Every score appears in
// the table.
var summarized = map[assessment.ScoreKind]bool{
	assessment.KindComposite: true,
	assessment.KindQuadrant:  true,
	assessment.KindDomain:    true,
	assessment.KindTotal:     true,
}

func results(in Input) Section {
	child := in.Child()
	var blocks []Block
	var sources []assessment.Instrument

	for _, i := range in.Instruments() {
		r, _ := in.Record(i)
		if len(r.Scores) == 0 {
			continue
		}
		sources = append(sources, i)

		var prose []assessment.ScoreValue
		for _, s := range r.Scores {
			if summarized[s.Kind] {
				prose = append(prose, s)
			}
		}
		if len(prose) == 0 {
			prose = r.Scores
		}

		sentences := []string{sentence(fmt.Sprintf("The %s was completed", i.Name()))}
		for _, s := range prose {
			sentences = append(sentences, ScoreSentence(child, s))
		}
		blocks = append(blocks, Paragraph(strings.Join(sentences, " ")))

		if i == assessment.SP2 || i == assessment.ChOMPS || i == assessment.PediEAT {
			if len(r.Observations) > 0 {
				blocks = append(blocks, Bullets(r.Observations...))
			}
		}

		blocks = append(blocks, Block{Kind: BlockTable, Table: ScoreTable(r)})
	}

	if len(blocks) == 0 {
		blocks = append(blocks, Paragraph("No standardized assessment scores were available for this evaluation."))
	}
	return Section{Blocks: blocks, Sources: sources}
}

// ScoreSentence describes one score. Unknown classifications are stated as
// data not available rather than omitted.
func ScoreSentence(child string, s assessment.ScoreValue) string {
	label := strings.TrimSuffix(s.Domain, " Composite")
	if !s.Classification.Known() {
		return sentence(fmt.Sprintf("%s: %s", label, assessment.DataNotAvailable))
	}

	text := fmt.Sprintf("%s scored within the %s range on %s", child, s.Classification.Describe(), label)
	if detail := scoreDetail(s); detail != "" {
		text += " (" + detail + ")"
	}
	return sentence(text)
}

func scoreDetail(s assessment.ScoreValue) string {
	var parts []string
	if s.Standard != nil {
		switch s.Scale {
		case assessment.ScaleScaled:
			parts = append(parts, "scaled score "+number(*s.Standard))
		case assessment.ScaleTScore:
			parts = append(parts, "T-score "+number(*s.Standard))
		default:
			parts = append(parts, "standard score "+number(*s.Standard))
		}
	} else if s.Raw != nil {
		parts = append(parts, "raw score "+number(*s.Raw))
	}
	if s.Percentile != nil {
		parts = append(parts, ordinal(*s.Percentile)+" percentile")
	}
	if s.Descriptor != "" && !strings.EqualFold(s.Descriptor, string(s.Classification)) {
		parts = append(parts, s.Descriptor)
	}
	return strings.Join(parts, ", ")
}

// ScoreTable lays out every score of r. Subtest and sensory section rows are
// marked as detail.
func ScoreTable(r assessment.Record) *Table {
	t := &Table{
		Caption: r.Instrument.Name(),
		Header:  []string{"Domain", "Raw", "Standard", "Percentile", "Age Equivalent", "Classification"},
	}
	for _, s := range r.Scores {
		t.Rows = append(t.Rows, Row{
			Cells: []string{
				s.Domain,
				optional(s.Raw),
				optional(s.Standard),
				optional(s.Percentile),
				s.AgeEquivalent,
				s.Classification.Describe(),
			},
			Detail: s.Kind == assessment.KindSubtest || s.Kind == assessment.KindSection,
		})
	}
	return t
}

// observed are the instruments whose observations are clinical narrative
// rather than printed descriptors.
var observed = []assessment.Instrument{
	assessment.ClinicalNotes,
	assessment.Bayley4Cognitive,
	assessment.Bayley4Social,
}

func observations(in Input) Section {
	child := in.Child()
	var blocks []Block
	var sources []assessment.Instrument

	for _, i := range observed {
		r, ok := in.Record(i)
		if !ok || len(r.Observations) == 0 {
			continue
		}
		sources = append(sources, i)
		blocks = append(blocks, Paragraph(Narrate(child, r.Observations)))
	}

	if len(blocks) == 0 {
		blocks = append(blocks, Paragraph(sentence(fmt.Sprintf(
			"%s participated in the evaluation; no additional clinical observations were recorded", child,
		))))
	}
	return Section{Blocks: blocks, Sources: sources}
}

func strengthsAndNeeds(profile Profile) Section {
	list := func(intro, empty string, findings []Finding, describe func(Finding) string) []Block {
		if len(findings) == 0 {
			return []Block{Paragraph(empty)}
		}
		items := make([]string, 0, len(findings))
		for _, f := range findings {
			items = append(items, describe(f))
		}
		return []Block{Paragraph(intro), Bullets(items...)}
	}

	banded := func(f Finding) string {
		return fmt.Sprintf("%s (%s): %s", f.Label(), f.Instrument.Name(), f.Classification)
	}

	var blocks []Block
	blocks = append(blocks, list(
		"Areas of strength:",
		"No areas of relative strength were identified on the standardized measures.",
		profile.Strengths, banded)...)
	blocks = append(blocks, list(
		"Areas of need:",
		"No areas of need were identified on the standardized measures.",
		profile.Needs, banded)...)
	if len(profile.NotAssessed) > 0 {
		blocks = append(blocks, list("Not assessed:", "", profile.NotAssessed, func(f Finding) string {
			return fmt.Sprintf("%s (%s): %s", f.Label(), f.Instrument.Name(), assessment.DataNotAvailable)
		})...)
	}
	return Section{Blocks: blocks, Sources: profile.Sources()}
}

// TemplateGoals writes one goal per need, in profile order.
func TemplateGoals(profile Profile) []Goal {
	goals := make([]Goal, 0, len(profile.Needs))
	for _, f := range profile.Needs {
		goals = append(goals, Goal{
			Domain:    f.Domain,
			Target:    goalTarget(f) + " " + goalCriterion,
			Timeframe: GoalTimeframe,
		})
	}
	return goals
}

func goalsSection(child string, goals []Goal) Section {
	if len(goals) == 0 {
		return Section{Blocks: []Block{
			Paragraph("No treatment goals were written because no domain was identified as an area of need."),
		}}
	}
	statements := make([]string, 0, len(goals))
	for _, g := range goals {
		statements = append(statements, g.Statement(child))
	}
	return Section{
		Blocks: []Block{Bullets(statements...)},
		Goals:  goals,
	}
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return number(*v)
}

func ordinal(v float64) string {
	n := number(v)
	if v != float64(int(v)) {
		return n
	}
	i := int(v)
	switch {
	case i%100 >= 11 && i%100 <= 13:
		return n + "th"
	case i%10 == 1:
		return n + "st"
	case i%10 == 2:
		return n + "nd"
	case i%10 == 3:
		return n + "rd"
	default:
		return n + "th"
	}
}

func lowerFirst(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	// acronyms and names stay as printed
	if len(s) > 1 && strings.ToUpper(s[:2]) == s[:2] {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
