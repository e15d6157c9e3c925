package narrative

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JaimeStill/otreport/internal/assessment"
	"github.com/JaimeStill/otreport/internal/prompts"
)

// promptData is the clinical context appended to every section prompt.
type promptData struct {
	Child          string         `json:"child"`
	Age            string         `json:"chronological_age,omitempty"`
	Sex            string         `json:"sex,omitempty"`
	Language       string         `json:"language,omitempty"`
	Guardian       string         `json:"guardian,omitempty"`
	EncounterDate  string         `json:"encounter_date,omitempty"`
	Referral       string         `json:"referral_reason,omitempty"`
	Diagnosis      string         `json:"diagnosis,omitempty"`
	Assessments    []promptRecord `json:"assessments"`
	Strengths      []string       `json:"strengths"`
	Needs          []string       `json:"needs"`
	NotAssessed    []string       `json:"not_assessed"`
	CaregiverNotes []string       `json:"caregiver_concerns,omitempty"`
}

type promptRecord struct {
	Instrument   string        `json:"instrument"`
	Scores       []promptScore `json:"scores,omitempty"`
	Observations []string      `json:"observations,omitempty"`
}

type promptScore struct {
	Domain         string   `json:"domain"`
	Raw            *float64 `json:"raw,omitempty"`
	Standard       *float64 `json:"standard,omitempty"`
	Scale          string   `json:"scale,omitempty"`
	Percentile     *float64 `json:"percentile,omitempty"`
	AgeEquivalent  string   `json:"age_equivalent,omitempty"`
	Classification string   `json:"classification"`
}

// ComposePrompt builds the prompt for one section by combining the tunable
// instructions, the immutable response specification, and the clinical data
// of the run.
func ComposePrompt(ps prompts.System, stage prompts.Stage, in Input, profile Profile) (string, error) {
	instructions, err := ps.Instructions(stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := ps.Spec(stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	data, err := json.MarshalIndent(newPromptData(in, profile), "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize clinical data: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)
	sb.WriteString("\n\nClinical data:\n\n")
	sb.Write(data)

	return sb.String(), nil
}

func newPromptData(in Input, profile Profile) promptData {
	p := in.Patient
	d := promptData{
		Child:       in.Child(),
		Age:         in.Age.Formatted,
		Sex:         p.Sex,
		Language:    p.Language,
		Guardian:    p.Guardian,
		Strengths:   labels(profile.Strengths),
		Needs:       labels(profile.Needs),
		NotAssessed: labels(profile.NotAssessed),
	}
	if !p.EncounterDate.IsZero() {
		d.EncounterDate = p.EncounterDate.Format("2006-01-02")
	}

	for _, i := range in.Instruments() {
		r, _ := in.Record(i)
		switch detail := r.Detail.(type) {
		case assessment.Demographics:
			d.Referral = detail.ReferralReason
			d.Diagnosis = detail.Diagnosis
			continue
		case assessment.NotesDetail:
			d.CaregiverNotes = detail.Concerns
		}

		rec := promptRecord{Instrument: i.Name(), Observations: r.Observations}
		for _, s := range r.Scores {
			rec.Scores = append(rec.Scores, promptScore{
				Domain:         s.Domain,
				Raw:            s.Raw,
				Standard:       s.Standard,
				Scale:          string(s.Scale),
				Percentile:     s.Percentile,
				AgeEquivalent:  s.AgeEquivalent,
				Classification: s.Classification.Describe(),
			})
		}
		d.Assessments = append(d.Assessments, rec)
	}
	return d
}

func labels(findings []Finding) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Domain)
	}
	return out
}
