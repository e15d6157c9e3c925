package narrative_test

import (
	"io"
	"log/slog"
	"time"

	"github.com/JaimeStill/otreport/internal/assessment"
	"github.com/JaimeStill/otreport/internal/narrative"
	"github.com/JaimeStill/otreport/internal/patient"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func score(domain string, kind assessment.ScoreKind, standard float64, c assessment.Classification) assessment.ScoreValue {
	return assessment.ScoreValue{
		Domain:         domain,
		Kind:           kind,
		Standard:       assessment.Float(standard),
		Scale:          assessment.ScaleComposite,
		Classification: c,
	}
}

func unknown(domain string, kind assessment.ScoreKind) assessment.ScoreValue {
	return assessment.ScoreValue{Domain: domain, Kind: kind, Classification: assessment.Unknown}
}

// sampleInput has four needs: Language Composite, Motor Composite, Seeking,
// and Oral Motor Skills.
func sampleInput() narrative.Input {
	dob := time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC)
	encounter := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	age, _ := patient.ComputeAge(dob, encounter)

	return narrative.Input{
		Patient: patient.Patient{
			Name:          "Ana Lopez",
			DateOfBirth:   dob,
			EncounterDate: encounter,
			Sex:           "female",
			Language:      "Spanish",
			Guardian:      "Maria Lopez",
		},
		Age: age,
		Records: []assessment.Record{
			{
				Instrument: assessment.ClinicalNotes,
				Confidence: assessment.ConfidenceComplete,
				Observations: []string{
					"refused purees",
					"cried when spoon approached",
				},
				Detail: assessment.NotesDetail{Concerns: []string{"Mother reports picky eating"}},
			},
			{
				Instrument: assessment.Bayley4Cognitive,
				Confidence: assessment.ConfidenceComplete,
				Scores: []assessment.ScoreValue{
					score("Fine Motor", assessment.KindSubtest, 3, assessment.ExtremelyLow),
					score("Cognitive Composite", assessment.KindComposite, 95, assessment.Average),
					score("Language Composite", assessment.KindComposite, 75, assessment.BelowAverage),
					score("Motor Composite", assessment.KindComposite, 65, assessment.ExtremelyLow),
				},
			},
			{
				Instrument: assessment.Bayley4Social,
				Confidence: assessment.ConfidencePartial,
				Scores: []assessment.ScoreValue{
					score("Social-Emotional Composite", assessment.KindComposite, 115, assessment.AboveAverage),
					unknown("Adaptive Behavior Composite", assessment.KindComposite),
				},
			},
			{
				Instrument: assessment.SP2,
				Confidence: assessment.ConfidenceComplete,
				Scores: []assessment.ScoreValue{
					score("Seeking", assessment.KindQuadrant, 64, assessment.SomeDifficulty),
					score("Avoiding", assessment.KindQuadrant, 50, assessment.Typical),
				},
				Observations: []string{"Seeking: More Than Others"},
			},
			{
				Instrument: assessment.ChOMPS,
				Confidence: assessment.ConfidenceComplete,
				Scores: []assessment.ScoreValue{
					score("Oral Motor Skills", assessment.KindDomain, 2, assessment.DefiniteDifficulty),
				},
			},
		},
	}
}

var sampleNeeds = []string{"Language Composite", "Motor Composite", "Seeking", "Oral Motor Skills"}
