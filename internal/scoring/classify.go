package scoring

import (
	"fmt"
	"slices"

	"github.com/JaimeStill/otreport/internal/assessment"
)

// Classify returns the band of score for the given instrument at the given
// age. The standard score wins over the percentile; a score with neither,
// or with values outside the plausible range of its scale, is Unknown.
// Bands are currently shared across age brackets; see NormTable.
func Classify(score assessment.ScoreValue, instrument assessment.Instrument, ageInMonths int) assessment.Classification {
	norm, ok := NormFor(instrument)
	if !ok {
		return assessment.Unknown
	}

	if score.Standard != nil {
		if table, ok := norm.Standard[score.Scale]; ok {
			if c := table.Lookup(*score.Standard); c.Known() {
				return c
			}
		}
	}

	if score.Percentile != nil && norm.Percentile != nil {
		return norm.Percentile.Lookup(*score.Percentile)
	}

	return assessment.Unknown
}

// NormTable returns the reference of the norm table a score is read from.
// Age selects the form for instruments normed by age bracket.
func NormTable(instrument assessment.Instrument, scale assessment.Scale, ageInMonths int) string {
	norm, ok := NormFor(instrument)
	if !ok {
		return ""
	}

	switch norm.ID {
	case "bayley4":
		if ageInMonths > 42 {
			return fmt.Sprintf("bayley4/%s/extrapolated", scale)
		}
		return fmt.Sprintf("bayley4/%s", scale)
	case "sp2":
		return "sp2/" + sensoryForm(ageInMonths)
	default:
		return norm.ID
	}
}

func sensoryForm(ageInMonths int) string {
	switch {
	case ageInMonths < 7:
		return "infant"
	case ageInMonths < 36:
		return "toddler"
	case ageInMonths < 180:
		return "child"
	default:
		return "adolescent"
	}
}

// Interpret returns a copy of record with every score classified and its
// norm table recorded. The input record is not modified.
func Interpret(record assessment.Record, ageInMonths int) assessment.Record {
	out := record.Clone()
	for i, s := range out.Scores {
		out.Scores[i].Classification = Classify(s, record.Instrument, ageInMonths)
		out.Scores[i].NormTable = NormTable(record.Instrument, s.Scale, ageInMonths)
	}
	return out
}

// Ladder returns the ordered bands, worst first, that c belongs to.
func Ladder(c assessment.Classification) []assessment.Classification {
	if slices.Contains(normative, c) {
		return normative
	}
	if slices.Contains(severity, c) {
		return severity
	}
	return nil
}

// Rank returns the position of c within its ladder, worst first.
func Rank(c assessment.Classification) (int, bool) {
	ladder := Ladder(c)
	if ladder == nil {
		return 0, false
	}
	return slices.Index(ladder, c), true
}

// IsNeed reports whether c falls in the lowest two bands of its ladder.
func IsNeed(c assessment.Classification) bool {
	rank, ok := Rank(c)
	return ok && rank <= 1
}

// IsStrength reports whether c sits at or above the midpoint band of its
// ladder. On short ladders a band that is also a need is not a strength.
func IsStrength(c assessment.Classification) bool {
	rank, ok := Rank(c)
	if !ok || IsNeed(c) {
		return false
	}
	return rank >= len(Ladder(c))/2
}
