package parsers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/otreport/internal/assessment"
	"github.com/JaimeStill/otreport/internal/parsers"
)

func TestChOMPS(t *testing.T) {
	text := `ChOMPS Score Summary
Complex Movement Patterns 28 12 Moderate Risk
Basic Movement Patterns 30 45 Low Risk
Oral Motor Skills 14 3 High Risk
Fine Motor Skills 20 60 Low Risk
Total 92 10 Moderate Risk
Observations:
Coughed with thin liquids from an open cup.
`
	record, err := parsers.NewChOMPS().Parse(text)
	require.NoError(t, err)

	assert.Equal(t, assessment.ChOMPS, record.Instrument)
	assert.Equal(t, assessment.ConfidenceComplete, record.Confidence)
	assert.Len(t, record.ScoresOf(assessment.KindDomain), 4)
	assert.Len(t, record.ScoresOf(assessment.KindTotal), 1)

	oral, ok := record.Score("Oral Motor Skills")
	require.True(t, ok)
	require.NotNil(t, oral.Raw)
	require.NotNil(t, oral.Percentile)
	assert.Equal(t, 14.0, *oral.Raw)
	assert.Equal(t, 3.0, *oral.Percentile)
	assert.Equal(t, "High", oral.Descriptor)

	detail, ok := record.Detail.(assessment.FeedingDetail)
	require.True(t, ok)
	assert.Equal(t, assessment.ChOMPS, detail.Form)
	assert.Equal(t, map[string]string{
		"Complex Movement Patterns": "Moderate",
		"Basic Movement Patterns":   "Low",
		"Oral Motor Skills":         "High",
		"Fine Motor Skills":         "Low",
		"ChOMPS Total":              "Moderate",
	}, detail.Risk)

	assert.Equal(t, []string{"Coughed with thin liquids from an open cup."}, record.Observations)
}

func TestPediEAT(t *testing.T) {
	text := `Pediatric Eating Assessment Tool (PediEAT)
Physiologic Symptoms 20 65 91 Concern
Problematic Mealtime Behaviors 8 52 60 Typical
Selective/Restrictive Eating 6 48 45 Typical
Oral Processing 9 72 98 High Concern
Total 43 63 90 Concern
`
	record, err := parsers.NewPediEAT().Parse(text)
	require.NoError(t, err)

	assert.Equal(t, assessment.ConfidenceComplete, record.Confidence)
	require.Len(t, record.Scores, 5)

	oral, ok := record.Score("Oral Processing")
	require.True(t, ok)
	require.NotNil(t, oral.Standard)
	assert.Equal(t, 72.0, *oral.Standard)
	assert.Equal(t, assessment.ScaleTScore, oral.Scale)
	assert.Equal(t, 98.0, *oral.Percentile)
	assert.Equal(t, "High Concern", oral.Descriptor)

	selective, ok := record.Score("Selective/Restrictive Eating")
	require.True(t, ok)
	assert.Equal(t, 48.0, *selective.Standard)
}

func TestFeedingPartialAndFailure(t *testing.T) {
	t.Run("missing domains", func(t *testing.T) {
		record, err := parsers.NewPediEAT().Parse("Physiologic Symptoms 20 65 91\n")
		require.NoError(t, err)
		assert.Equal(t, assessment.ConfidencePartial, record.Confidence)
		assert.Len(t, record.Scores, 1)
	})

	t.Run("no domains", func(t *testing.T) {
		_, err := parsers.NewChOMPS().Parse("Feeding questionnaire was not returned.\n")
		assert.ErrorIs(t, err, parsers.ErrNoRecognizedContent)
	})
}
