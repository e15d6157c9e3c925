package report_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/otreport/internal/assessment"
	"github.com/JaimeStill/otreport/internal/narrative"
	"github.com/JaimeStill/otreport/internal/patient"
	"github.com/JaimeStill/otreport/internal/report"
)

func record(i assessment.Instrument, c assessment.Confidence) assessment.Record {
	return assessment.Record{Instrument: i, Confidence: c}
}

func TestRequireCore(t *testing.T) {
	tests := []struct {
		name    string
		records []assessment.Record
		missing []assessment.Instrument
	}{
		{
			name: "both usable",
			records: []assessment.Record{
				record(assessment.Bayley4Cognitive, assessment.ConfidenceComplete),
				record(assessment.Bayley4Social, assessment.ConfidencePartial),
			},
		},
		{
			name: "social missing",
			records: []assessment.Record{
				record(assessment.Facesheet, assessment.ConfidenceComplete),
				record(assessment.Bayley4Cognitive, assessment.ConfidenceComplete),
			},
			missing: []assessment.Instrument{assessment.Bayley4Social},
		},
		{
			name: "cognitive failed",
			records: []assessment.Record{
				record(assessment.Bayley4Cognitive, assessment.ConfidenceFailed),
				record(assessment.Bayley4Social, assessment.ConfidenceComplete),
			},
			missing: []assessment.Instrument{assessment.Bayley4Cognitive},
		},
		{
			name:    "none",
			missing: []assessment.Instrument{assessment.Bayley4Cognitive, assessment.Bayley4Social},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := report.RequireCore(tt.records)
			if tt.missing == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, report.ErrIncompleteCore)

			var ice *report.IncompleteCoreError
			require.True(t, errors.As(err, &ice))
			assert.Equal(t, tt.missing, ice.Missing)
			for _, m := range tt.missing {
				assert.Contains(t, ice.Message(), m.Name())
			}
		})
	}
}

func TestAssembleOrdersSections(t *testing.T) {
	records := []assessment.Record{
		record(assessment.Bayley4Cognitive, assessment.ConfidenceComplete),
		record(assessment.Bayley4Social, assessment.ConfidencePartial),
		record(assessment.SP2, assessment.ConfidenceFailed),
	}
	sections := []narrative.Section{
		{Kind: narrative.KindGoals, Strategy: "template"},
		{Kind: narrative.KindBackground, Title: "Background"},
		{Kind: narrative.KindResults},
		{Kind: narrative.KindBackground, Title: "Duplicate"},
		{Kind: narrative.KindRecommendations},
		{Kind: narrative.KindObservations},
		{Kind: narrative.KindStrengthsAndNeeds},
	}

	doc, err := report.Assemble(patient.Patient{Name: "Ana"}, patient.ChronologicalAge{}, records, sections, "")
	require.NoError(t, err)

	var kinds []narrative.Kind
	for _, s := range doc.Sections {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, narrative.Kinds(), kinds)
	assert.Equal(t, "Background", doc.Sections[0].Title)
	assert.Equal(t, narrative.KindResults.Title(), doc.Sections[1].Title)
	assert.Equal(t, report.TypeProfessional, doc.Type)
	assert.Len(t, doc.Records, 2)
}

func TestAssembleIncompleteCore(t *testing.T) {
	records := []assessment.Record{
		record(assessment.Facesheet, assessment.ConfidenceComplete),
		record(assessment.Bayley4Cognitive, assessment.ConfidenceComplete),
	}
	_, err := report.Assemble(patient.Patient{}, patient.ChronologicalAge{}, records, nil, report.TypeProfessional)
	assert.ErrorIs(t, err, report.ErrIncompleteCore)
}

func TestAssembleBasic(t *testing.T) {
	records := []assessment.Record{
		record(assessment.Bayley4Cognitive, assessment.ConfidenceComplete),
		record(assessment.Bayley4Social, assessment.ConfidenceComplete),
	}
	table := &narrative.Table{
		Header: []string{"Domain"},
		Rows: []narrative.Row{
			{Cells: []string{"Fine Motor"}, Detail: true},
			{Cells: []string{"Motor Composite"}},
		},
	}
	detailOnly := &narrative.Table{Rows: []narrative.Row{{Cells: []string{"Touch"}, Detail: true}}}
	sections := []narrative.Section{{
		Kind: narrative.KindResults,
		Blocks: []narrative.Block{
			narrative.Paragraph("Scores."),
			{Kind: narrative.BlockTable, Table: table},
			{Kind: narrative.BlockTable, Table: detailOnly},
		},
	}}

	doc, err := report.Assemble(patient.Patient{}, patient.ChronologicalAge{}, records, sections, report.TypeBasic)
	require.NoError(t, err)

	blocks := doc.Sections[0].Blocks
	require.Len(t, blocks, 2)
	require.Len(t, blocks[1].Table.Rows, 1)
	assert.Equal(t, []string{"Motor Composite"}, blocks[1].Table.Rows[0].Cells)
	assert.Len(t, table.Rows, 2, "input table is not modified")
}

func TestParseType(t *testing.T) {
	typ, err := report.ParseType(" Basic ")
	require.NoError(t, err)
	assert.Equal(t, report.TypeBasic, typ)

	typ, err = report.ParseType("")
	require.NoError(t, err)
	assert.Equal(t, report.TypeProfessional, typ)

	_, err = report.ParseType("brief")
	assert.ErrorIs(t, err, report.ErrInvalidType)
}

func TestSlug(t *testing.T) {
	doc := &report.Document{Patient: patient.Patient{
		Name:          "Ana  O'Brien-Lopez",
		EncounterDate: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
	}}
	assert.Equal(t, "ana-obrienlopez-2023-06-01", doc.Slug())
	assert.Equal(t, "report", (&report.Document{}).Slug())
}
