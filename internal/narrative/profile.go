package narrative

import (
	"slices"
	"strings"

	"github.com/JaimeStill/otreport/internal/assessment"
	"github.com/JaimeStill/otreport/internal/scoring"
)

// profiled are the score kinds that count as domains for strengths, needs,
// and goals. Subtests, sensory sections, and totals are summarized by the
// composites, quadrants, and domains above them.
var profiled = []assessment.ScoreKind{
	assessment.KindComposite,
	assessment.KindQuadrant,
	assessment.KindDomain,
}

// Finding is one domain placed in the profile.
type Finding struct {
	Instrument     assessment.Instrument     `json:"instrument"`
	Domain         string                    `json:"domain"`
	Classification assessment.Classification `json:"classification"`
}

// Label returns the domain name used in narrative text.
func (f Finding) Label() string {
	return strings.TrimSuffix(f.Domain, " Composite")
}

// Profile partitions every profiled domain into strengths, needs, and
// domains that were not assessed. A domain appears in at most one list.
type Profile struct {
	Strengths   []Finding `json:"strengths"`
	Needs       []Finding `json:"needs"`
	NotAssessed []Finding `json:"not_assessed"`
}

// BuildProfile applies the cross-domain rule to records in canonical
// instrument order: a known band at or above the midpoint is a strength, one
// of the lowest two bands is a need, and Unknown is not assessed. Domains in
// the middle of a long ladder land in no list.
func BuildProfile(records []assessment.Record) Profile {
	var p Profile
	seen := make(map[string]bool)

	for _, instrument := range assessment.Instruments() {
		for _, r := range records {
			if r.Instrument != instrument {
				continue
			}
			for _, s := range r.Scores {
				if !slices.Contains(profiled, s.Kind) || seen[s.Domain] {
					continue
				}
				seen[s.Domain] = true

				f := Finding{Instrument: r.Instrument, Domain: s.Domain, Classification: s.Classification}
				switch {
				case !s.Classification.Known():
					p.NotAssessed = append(p.NotAssessed, f)
				case scoring.IsNeed(s.Classification):
					p.Needs = append(p.Needs, f)
				case scoring.IsStrength(s.Classification):
					p.Strengths = append(p.Strengths, f)
				}
			}
		}
	}
	return p
}

// NeedDomains returns the domain names of every need, in profile order.
func (p Profile) NeedDomains() []string {
	out := make([]string, 0, len(p.Needs))
	for _, f := range p.Needs {
		out = append(out, f.Domain)
	}
	return out
}

// Sources returns the instruments contributing to any list, in canonical
// order.
func (p Profile) Sources() []assessment.Instrument {
	present := make(map[assessment.Instrument]bool)
	for _, list := range [][]Finding{p.Strengths, p.Needs, p.NotAssessed} {
		for _, f := range list {
			present[f.Instrument] = true
		}
	}

	var out []assessment.Instrument
	for _, i := range assessment.Instruments() {
		if present[i] {
			out = append(out, i)
		}
	}
	return out
}
