package parsers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/otreport/internal/assessment"
	"github.com/JaimeStill/otreport/internal/parsers"
)

const sensoryReport = `Child Sensory Profile 2
Quadrant Summary
Seeking/Seeker 45 More Than Others
Avoiding/Avoider 60 Much More Than Others
Sensitivity/Sensor 38 Just Like the Majority of Others
Registration/Bystander 22 Just Like the Majority of Others
Sensory Section Summary
Auditory 30 More Than Others
Visual 18 Just Like the Majority of Others
Touch 40 More Than Others
Movement 25 Just Like the Majority of Others
Body Position 15 Just Like the Majority of Others
Oral 28 Just Like the Majority of Others
`

func TestSensoryProfile(t *testing.T) {
	record, err := parsers.NewSensoryProfile().Parse(sensoryReport)
	require.NoError(t, err)

	assert.Equal(t, assessment.SP2, record.Instrument)
	assert.Equal(t, assessment.ConfidenceComplete, record.Confidence)
	assert.Len(t, record.ScoresOf(assessment.KindQuadrant), 4)
	assert.Len(t, record.ScoresOf(assessment.KindSection), 6)

	detail, ok := record.Detail.(assessment.SensoryDetail)
	require.True(t, ok)
	assert.Equal(t, "Child", detail.Form)

	avoiding, ok := record.Score("Avoiding")
	require.True(t, ok)
	require.NotNil(t, avoiding.Raw)
	assert.Equal(t, 60.0, *avoiding.Raw)
	assert.Nil(t, avoiding.Standard)
	assert.Equal(t, "Much More Than Others", avoiding.Descriptor)

	require.NotEmpty(t, record.Observations)
	assert.Equal(t, "Seeking: More Than Others", record.Observations[0])
	assert.Contains(t, record.Observations, "Avoiding: Much More Than Others")
}

func TestSensoryProfileNormedRow(t *testing.T) {
	text := "Quadrant Summary\nSeeking 45 62 88\n"

	record, err := parsers.NewSensoryProfile().Parse(text)
	require.NoError(t, err)
	assert.Equal(t, assessment.ConfidencePartial, record.Confidence)

	seeking, ok := record.Score("Seeking")
	require.True(t, ok)
	require.NotNil(t, seeking.Standard)
	require.NotNil(t, seeking.Percentile)
	assert.Equal(t, 62.0, *seeking.Standard)
	assert.Equal(t, assessment.ScaleTScore, seeking.Scale)
	assert.Equal(t, 88.0, *seeking.Percentile)
}

func TestSensoryProfileNoContent(t *testing.T) {
	_, err := parsers.NewSensoryProfile().Parse("Sensory Profile 2\nScoring could not be completed.\n")
	assert.ErrorIs(t, err, parsers.ErrNoRecognizedContent)
}
