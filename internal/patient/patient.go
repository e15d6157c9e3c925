// Package patient models the child under evaluation and the chronological
// age derived from their dates.
package patient

import (
	"fmt"
	"strings"
	"time"
)

// Identifier keys recognised on patient records.
const (
	IdentifierUCI = "uci"
	IdentifierMRN = "mrn"
)

// Patient holds the demographic header of a report. A Patient is treated as
// a value: once a generation run starts it is copied, never mutated.
type Patient struct {
	Name          string            `json:"name"`
	DateOfBirth   time.Time         `json:"date_of_birth"`
	EncounterDate time.Time         `json:"encounter_date"`
	Sex           string            `json:"sex,omitempty"`
	Language      string            `json:"language,omitempty"`
	Guardian      string            `json:"guardian,omitempty"`
	Identifiers   map[string]string `json:"identifiers,omitempty"`
}

// Validate checks the fields a report cannot be produced without.
func (p Patient) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingName
	}
	if p.DateOfBirth.IsZero() {
		return fmt.Errorf("%w: date of birth", ErrMissingDate)
	}
	if p.EncounterDate.IsZero() {
		return fmt.Errorf("%w: encounter date", ErrMissingDate)
	}
	if civil(p.EncounterDate).Before(civil(p.DateOfBirth)) {
		return ErrInvalidRange
	}
	return nil
}

// FirstName returns the first token of the name, used in narrative voice.
func (p Patient) FirstName() string {
	fields := strings.Fields(p.Name)
	if len(fields) == 0 {
		return "The child"
	}
	return fields[0]
}

// Identifier returns the identifier stored under key, if any.
func (p Patient) Identifier(key string) string {
	if p.Identifiers == nil {
		return ""
	}
	return p.Identifiers[key]
}

// WithDefaults returns a copy of p where every empty field is taken from
// fallback. Fields already set on p are never overwritten.
func (p Patient) WithDefaults(fallback Patient) Patient {
	out := p
	if out.Name == "" {
		out.Name = fallback.Name
	}
	if out.DateOfBirth.IsZero() {
		out.DateOfBirth = fallback.DateOfBirth
	}
	if out.EncounterDate.IsZero() {
		out.EncounterDate = fallback.EncounterDate
	}
	if out.Sex == "" {
		out.Sex = fallback.Sex
	}
	if out.Language == "" {
		out.Language = fallback.Language
	}
	if out.Guardian == "" {
		out.Guardian = fallback.Guardian
	}

	ids := make(map[string]string, len(p.Identifiers)+len(fallback.Identifiers))
	for k, v := range fallback.Identifiers {
		ids[k] = v
	}
	for k, v := range p.Identifiers {
		if v != "" {
			ids[k] = v
		}
	}
	if len(ids) > 0 {
		out.Identifiers = ids
	}
	return out
}
