package parsers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/otreport/internal/assessment"
	"github.com/JaimeStill/otreport/internal/parsers"
)

func TestDefaultRegistry(t *testing.T) {
	registry := parsers.Default()
	for _, instrument := range assessment.Instruments() {
		assert.True(t, registry.Supports(instrument), instrument)
	}
}

func TestRegistryParse(t *testing.T) {
	registry := parsers.Default()

	t.Run("dispatches by instrument", func(t *testing.T) {
		record, err := registry.Parse(assessment.Bayley4Cognitive, bayleyCognitiveReport)
		require.NoError(t, err)
		assert.Equal(t, assessment.Bayley4Cognitive, record.Instrument)
		assert.True(t, record.Usable())
	})

	t.Run("failed parse is tagged", func(t *testing.T) {
		record, err := registry.Parse(assessment.SP2, "")
		assert.ErrorIs(t, err, parsers.ErrNoRecognizedContent)
		assert.Equal(t, assessment.SP2, record.Instrument)
		assert.Equal(t, assessment.ConfidenceFailed, record.Confidence)
		assert.False(t, record.Usable())
	})

	t.Run("unregistered instrument", func(t *testing.T) {
		_, err := parsers.NewRegistry(parsers.Facesheet{}).Parse(assessment.ChOMPS, "Total 10 5")
		assert.ErrorIs(t, err, parsers.ErrUnsupported)
	})
}
