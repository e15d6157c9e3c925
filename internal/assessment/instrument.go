// Package assessment defines the normalized model every instrument parser
// produces: instrument tags, records, and score values.
package assessment

import (
	"encoding/json"
	"slices"
	"strings"
)

// Instrument tags the assessment a document was produced by.
type Instrument string

const (
	Facesheet        Instrument = "facesheet"
	Bayley4Cognitive Instrument = "bayley4_cognitive"
	Bayley4Social    Instrument = "bayley4_social"
	SP2              Instrument = "sp2"
	ChOMPS           Instrument = "chomps"
	PediEAT          Instrument = "pedieat"
	ClinicalNotes    Instrument = "clinical_notes"
)

var instruments = []Instrument{
	Facesheet,
	Bayley4Cognitive,
	Bayley4Social,
	SP2,
	ChOMPS,
	PediEAT,
	ClinicalNotes,
}

var info = map[Instrument]Info{
	Facesheet: {
		Name:        "Facesheet",
		Description: "Patient demographics, referral, and insurance information.",
	},
	Bayley4Cognitive: {
		Name:        "Bayley-4 Cognitive, Language, and Motor",
		Description: "Bayley Scales of Infant and Toddler Development, Fourth Edition: cognitive, language, and motor scales.",
		Required:    true,
	},
	Bayley4Social: {
		Name:        "Bayley-4 Social-Emotional and Adaptive Behavior",
		Description: "Bayley-4 caregiver questionnaire: social-emotional and adaptive behavior scales.",
		Required:    true,
	},
	SP2: {
		Name:        "Sensory Profile 2",
		Description: "Sensory processing patterns across the four quadrants and sensory sections.",
	},
	ChOMPS: {
		Name:        "ChOMPS",
		Description: "Child Oral and Motor Proficiency Scale.",
	},
	PediEAT: {
		Name:        "PediEAT",
		Description: "Pediatric Eating Assessment Tool: feeding symptom screening.",
	},
	ClinicalNotes: {
		Name:        "Clinical Notes",
		Description: "Therapist observations and caregiver concerns recorded during the session.",
	},
}

// Info describes an instrument for listings and report text.
type Info struct {
	Tag         Instrument `json:"tag"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Required    bool       `json:"required"`
}

// Instruments returns every known instrument in canonical order.
func Instruments() []Instrument {
	return instruments
}

// Catalog returns Info for every instrument in canonical order.
func Catalog() []Info {
	out := make([]Info, 0, len(instruments))
	for _, i := range instruments {
		out = append(out, i.Info())
	}
	return out
}

// Required returns the instruments a report cannot be assembled without.
func Required() []Instrument {
	var out []Instrument
	for _, i := range instruments {
		if info[i].Required {
			out = append(out, i)
		}
	}
	return out
}

// ParseInstrument validates s as an instrument tag. Matching ignores case and
// treats hyphens and spaces as underscores.
func ParseInstrument(s string) (Instrument, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)

	v := Instrument(normalized)
	if !slices.Contains(instruments, v) {
		return "", ErrInvalidInstrument
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known instrument.
func (i *Instrument) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseInstrument(raw)
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// Info returns the descriptive record for i.
func (i Instrument) Info() Info {
	in := info[i]
	in.Tag = i
	if in.Name == "" {
		in.Name = string(i)
	}
	return in
}

// Name returns the display name of i.
func (i Instrument) Name() string {
	return i.Info().Name
}

// Required reports whether i is a mandatory assessment category.
func (i Instrument) Required() bool {
	return info[i].Required
}
