package parsers_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/otreport/internal/assessment"
	"github.com/JaimeStill/otreport/internal/parsers"
)

const bayleyCognitiveReport = `Bayley-4 Score Report
Subtest Score Summary
Subtest Total Raw Score Scaled Score Age Equivalent
Cognitive 62 11 3:4
Receptive Communication 30 8 2:9
Expressive Communication 33 9 2:11
Fine Motor 40 12 3:6
Gross Motor 55 7 2:8
Composite Score Summary
Domain Sum of Scaled Scores Composite Score Percentile Rank 95% Confidence Interval Qualitative Descriptor
Cognitive 11 105 63 98-111 Average
Language 17 88 21 82-95 Low Average
Motor 19 97 42 90-104 Average
Behavioral Observations
- Attended to tasks for brief periods
- Required repetition of directions
`

func TestBayleyCognitive(t *testing.T) {
	record, err := parsers.NewBayleyCognitive().Parse(bayleyCognitiveReport)
	require.NoError(t, err)

	assert.Equal(t, assessment.Bayley4Cognitive, record.Instrument)
	assert.Equal(t, assessment.ConfidenceComplete, record.Confidence)
	assert.Empty(t, record.Issues)
	require.Len(t, record.Scores, 8)

	t.Run("subtests", func(t *testing.T) {
		subtests := record.ScoresOf(assessment.KindSubtest)
		require.Len(t, subtests, 5)

		cog := subtests[0]
		assert.Equal(t, "Cognitive", cog.Domain)
		require.NotNil(t, cog.Raw)
		require.NotNil(t, cog.Standard)
		assert.Equal(t, 62.0, *cog.Raw)
		assert.Equal(t, 11.0, *cog.Standard)
		assert.Equal(t, assessment.ScaleScaled, cog.Scale)
		assert.Equal(t, "3:4", cog.AgeEquivalent)
		assert.Nil(t, cog.Percentile)
	})

	t.Run("composites", func(t *testing.T) {
		lang, ok := record.Score("Language Composite")
		require.True(t, ok)
		require.NotNil(t, lang.Standard)
		require.NotNil(t, lang.Percentile)
		assert.Equal(t, 88.0, *lang.Standard)
		assert.Equal(t, 21.0, *lang.Percentile)
		assert.Equal(t, 17.0, *lang.Raw)
		assert.Equal(t, assessment.ScaleComposite, lang.Scale)
		assert.Equal(t, "82-95", lang.Interval)
		assert.Equal(t, "Low Average", lang.Descriptor)
	})

	t.Run("classification is left to scoring", func(t *testing.T) {
		for _, s := range record.Scores {
			assert.Empty(t, s.Classification, s.Domain)
		}
	})

	t.Run("observations keep source order", func(t *testing.T) {
		assert.Equal(t, []string{
			"Attended to tasks for brief periods",
			"Required repetition of directions",
		}, record.Observations)
	})
}

func TestBayleyLabelledValues(t *testing.T) {
	text := "Cognitive Composite\nComposite Score: 115\nPercentile Rank: 84\n"

	record, err := parsers.NewBayleyCognitive().Parse(text)
	require.NoError(t, err)

	assert.Equal(t, assessment.ConfidencePartial, record.Confidence)

	cog, ok := record.Score("Cognitive Composite")
	require.True(t, ok)
	require.NotNil(t, cog.Standard)
	require.NotNil(t, cog.Percentile)
	assert.Equal(t, 115.0, *cog.Standard)
	assert.Equal(t, 84.0, *cog.Percentile)
	assert.Equal(t, assessment.ScaleComposite, cog.Scale)
}

func TestBayleyCompositeRowWithoutHeadings(t *testing.T) {
	text := "Cognitive Composite 115 84\n"

	record, err := parsers.NewBayleyCognitive().Parse(text)
	require.NoError(t, err)

	cog, ok := record.Score("Cognitive Composite")
	require.True(t, ok)
	require.NotNil(t, cog.Standard)
	require.NotNil(t, cog.Percentile)
	assert.Equal(t, 115.0, *cog.Standard)
	assert.Equal(t, 84.0, *cog.Percentile)

	assert.Empty(t, record.ScoresOf(assessment.KindSubtest))
	for _, is := range record.Issues {
		assert.NotEqual(t, "Cognitive", is.Field, "line read as a composite must not leave a subtest issue: %+v", is)
	}
}

func TestBayleyPartial(t *testing.T) {
	text := "Composite Score Summary\nCognitive 10 100 50 93-107 Average\n"

	record, err := parsers.NewBayleyCognitive().Parse(text)
	require.NoError(t, err)

	assert.Equal(t, assessment.ConfidencePartial, record.Confidence)
	require.Len(t, record.Scores, 1)
	assert.Equal(t, "Cognitive Composite", record.Scores[0].Domain)
	assert.Equal(t, 100.0, *record.Scores[0].Standard)
	assert.Equal(t, 50.0, *record.Scores[0].Percentile)
}

func TestBayleySocial(t *testing.T) {
	text := `Social-Emotional and Adaptive Behavior Questionnaire
Subtest Score Summary
Communication 24 9
Community Use 15 10
Functional Pre-Academics 12 8
Home Living 20 11
Health and Safety 18 9
Leisure 22 10
Self-Care 19 7
Self-Direction 21 9
Social 25 12
Motor 30 10
Composite Score Summary
Social-Emotional 10 100 50
General Adaptive Composite 95 95 37
`
	record, err := parsers.NewBayleySocial().Parse(text)
	require.NoError(t, err)

	assert.Equal(t, assessment.Bayley4Social, record.Instrument)
	assert.Equal(t, assessment.ConfidenceComplete, record.Confidence)
	assert.Len(t, record.ScoresOf(assessment.KindSubtest), 10)

	se, ok := record.Score("Social-Emotional Composite")
	require.True(t, ok)
	assert.Equal(t, 100.0, *se.Standard)

	gac, ok := record.Score("Adaptive Behavior Composite")
	require.True(t, ok)
	assert.Equal(t, 95.0, *gac.Standard)
	assert.Equal(t, 37.0, *gac.Percentile)

	selfCare, ok := record.Score("Self-Care")
	require.True(t, ok)
	assert.Equal(t, 7.0, *selfCare.Standard)
}

func TestBayleyFailures(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind error
	}{
		{"empty", "", parsers.ErrNoRecognizedContent},
		{"unrelated text", "Progress note\nChild attended session.\n", parsers.ErrNoRecognizedContent},
		{"values out of range", "Subtest Score Summary\nCognitive 62 450\n", parsers.ErrMalformedNumericField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parsers.NewBayleyCognitive().Parse(tt.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var extraction *parsers.ExtractionError
			require.True(t, errors.As(err, &extraction))
			assert.Equal(t, assessment.Bayley4Cognitive, extraction.Instrument)
		})
	}
}
