package parsers_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/otreport/internal/assessment"
	"github.com/JaimeStill/otreport/internal/parsers"
)

func TestFacesheet(t *testing.T) {
	text := `PATIENT FACESHEET
Patient Name: JANE DOE    DOB: 03/15/2020
Sex: Female   Primary Language: English
UCI #: 1234567
Parent/Guardian Name: Mary Doe
Address: 12 Elm St, Springfield
Phone: (555) 555-1234
Reason for Referral: feeding difficulties
`
	record, err := parsers.Facesheet{}.Parse(text)
	require.NoError(t, err)

	assert.Equal(t, assessment.Facesheet, record.Instrument)
	assert.Equal(t, assessment.ConfidenceComplete, record.Confidence)
	assert.Empty(t, record.Scores)

	demo, ok := record.Detail.(assessment.Demographics)
	require.True(t, ok)

	assert.Equal(t, "Jane Doe", demo.Name)
	assert.Equal(t, time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC), demo.DateOfBirth)
	assert.Equal(t, "Female", demo.Sex)
	assert.Equal(t, "English", demo.Language)
	assert.Equal(t, "1234567", demo.Identifier)
	assert.Equal(t, "Mary Doe", demo.Guardian)
	assert.Equal(t, "12 Elm St, Springfield", demo.Address)
	assert.Equal(t, "(555) 555-1234", demo.Phone)
	assert.Equal(t, "feeding difficulties", demo.ReferralReason)
	assert.Equal(t, []string{"feeding difficulties"}, record.Observations)
}

func TestFacesheetPartial(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		issue bool
	}{
		{"missing fields", "Name: Sam Lee\nDate of Birth: 2021-07-04\n", false},
		{"unreadable date", "Name: Sam Lee\nDOB: unknown\nSex: M\nLanguage: Spanish\nMRN: 88\nGuardian: Ana Lee\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := parsers.Facesheet{}.Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, assessment.ConfidencePartial, record.Confidence)
			assert.Equal(t, tt.issue, len(record.Issues) > 0)

			demo := record.Detail.(assessment.Demographics)
			assert.Equal(t, "Sam Lee", demo.Name)
		})
	}
}

func TestFacesheetNoContent(t *testing.T) {
	_, err := parsers.Facesheet{}.Parse("Intake packet page 2 of 4\n")
	assert.ErrorIs(t, err, parsers.ErrNoRecognizedContent)
}
