// Package scoring maps instrument scores onto qualitative classification
// bands. Every lookup is a pure interval test against constant tables.
package scoring

import (
	"math"

	"github.com/JaimeStill/otreport/internal/assessment"
)

// Band is the lower bound of one classification interval. A value equal to
// Min belongs to the band, so boundary ties land in the better band.
type Band struct {
	Min   float64
	Class assessment.Classification
}

// Table is a monotonic classification table for one metric. Bands are
// ordered best first. Transform maps a reported value onto the axis the
// bands are expressed on.
type Table struct {
	Bands     []Band
	Floor     assessment.Classification
	Low       float64
	High      float64
	Transform func(float64) float64
}

// Lookup returns the band containing v, or Unknown when v is outside the
// plausible range of the metric.
func (t Table) Lookup(v float64) assessment.Classification {
	if math.IsNaN(v) || v < t.Low || v > t.High {
		return assessment.Unknown
	}
	if t.Transform != nil {
		v = t.Transform(v)
	}
	for _, b := range t.Bands {
		if v >= b.Min {
			return b.Class
		}
	}
	return t.Floor
}

// Norm groups the tables an instrument family is classified with.
type Norm struct {
	ID         string
	Ladder     []assessment.Classification
	Standard   map[assessment.Scale]Table
	Percentile *Table
}

var (
	normative = []assessment.Classification{
		assessment.ExtremelyLow,
		assessment.BelowAverage,
		assessment.Average,
		assessment.AboveAverage,
		assessment.VerySuperior,
	}

	severity = []assessment.Classification{
		assessment.DefiniteDifficulty,
		assessment.SomeDifficulty,
		assessment.Typical,
	}
)

var compositeTable = Table{
	Bands: []Band{
		{130, assessment.VerySuperior},
		{110, assessment.AboveAverage},
		{90, assessment.Average},
		{70, assessment.BelowAverage},
	},
	Floor: assessment.ExtremelyLow,
	Low:   40,
	High:  160,
}

var scaledTable = Table{
	Bands: []Band{
		{16, assessment.VerySuperior},
		{13, assessment.AboveAverage},
		{8, assessment.Average},
		{4, assessment.BelowAverage},
	},
	Floor: assessment.ExtremelyLow,
	Low:   1,
	High:  19,
}

var normativePercentile = Table{
	Bands: []Band{
		{98, assessment.VerySuperior},
		{75, assessment.AboveAverage},
		{25, assessment.Average},
		{2, assessment.BelowAverage},
	},
	Floor: assessment.ExtremelyLow,
	Low:   0.1,
	High:  99.9,
}

// folded measures distance from the norm median, so both tails of a
// two-sided scale read as atypical.
func folded(median float64) func(float64) float64 {
	return func(v float64) float64 {
		return median - math.Abs(v-median)
	}
}

func inverted(v float64) float64 { return -v }

var sensoryPercentile = Table{
	Bands: []Band{
		{16, assessment.Typical},
		{2, assessment.SomeDifficulty},
	},
	Floor:     assessment.DefiniteDifficulty,
	Low:       0.1,
	High:      99.9,
	Transform: folded(50),
}

var sensoryTScore = Table{
	Bands: []Band{
		{40, assessment.Typical},
		{30, assessment.SomeDifficulty},
	},
	Floor:     assessment.DefiniteDifficulty,
	Low:       20,
	High:      90,
	Transform: folded(50),
}

var motorPercentile = Table{
	Bands: []Band{
		{16, assessment.Typical},
		{5, assessment.SomeDifficulty},
	},
	Floor: assessment.DefiniteDifficulty,
	Low:   0.1,
	High:  99.9,
}

var symptomPercentile = Table{
	Bands: []Band{
		{-84, assessment.Typical},
		{-97, assessment.SomeDifficulty},
	},
	Floor:     assessment.DefiniteDifficulty,
	Low:       0.1,
	High:      99.9,
	Transform: inverted,
}

var symptomTScore = Table{
	Bands: []Band{
		{-60, assessment.Typical},
		{-70, assessment.SomeDifficulty},
	},
	Floor:     assessment.DefiniteDifficulty,
	Low:       20,
	High:      90,
	Transform: inverted,
}

var (
	bayleyNorm = Norm{
		ID:     "bayley4",
		Ladder: normative,
		Standard: map[assessment.Scale]Table{
			assessment.ScaleComposite: compositeTable,
			assessment.ScaleScaled:    scaledTable,
		},
		Percentile: &normativePercentile,
	}

	sensoryNorm = Norm{
		ID:     "sp2",
		Ladder: severity,
		Standard: map[assessment.Scale]Table{
			assessment.ScaleTScore: sensoryTScore,
		},
		Percentile: &sensoryPercentile,
	}

	chompsNorm = Norm{
		ID:         "chomps",
		Ladder:     severity,
		Percentile: &motorPercentile,
	}

	pediEATNorm = Norm{
		ID:     "pedieat",
		Ladder: severity,
		Standard: map[assessment.Scale]Table{
			assessment.ScaleTScore: symptomTScore,
		},
		Percentile: &symptomPercentile,
	}
)

var norms = map[assessment.Instrument]Norm{
	assessment.Bayley4Cognitive: bayleyNorm,
	assessment.Bayley4Social:    bayleyNorm,
	assessment.SP2:              sensoryNorm,
	assessment.ChOMPS:           chompsNorm,
	assessment.PediEAT:          pediEATNorm,
}

// NormFor returns the norm an instrument is classified with.
func NormFor(instrument assessment.Instrument) (Norm, bool) {
	n, ok := norms[instrument]
	return n, ok
}

// percentileAnchors maps composite standard scores to the percentile
// printed in Bayley-4 norm tables at that score.
var percentileAnchors = []struct {
	standard   float64
	percentile float64
}{
	{130, 98},
	{120, 91},
	{110, 75},
	{100, 50},
	{90, 25},
	{80, 9},
	{70, 2},
}

// EstimatePercentile returns the anchored percentile for a composite
// standard score. It is a reporting aid and never feeds classification.
func EstimatePercentile(standard float64) float64 {
	for _, a := range percentileAnchors {
		if standard >= a.standard {
			return a.percentile
		}
	}
	return 1
}
