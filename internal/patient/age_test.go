package patient_test

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/otreport/internal/patient"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeAge(t *testing.T) {
	tests := []struct {
		name      string
		dob       time.Time
		encounter time.Time
		years     int
		months    int
		days      int
	}{
		{"borrows a month", date(2020, 3, 15), date(2023, 6, 1), 3, 2, 17},
		{"same day", date(2021, 7, 4), date(2021, 7, 4), 0, 0, 0},
		{"exact birthday", date(2019, 2, 10), date(2022, 2, 10), 3, 0, 0},
		{"borrows a year", date(2020, 11, 20), date(2022, 2, 5), 1, 2, 16},
		{"month end clamps", date(2021, 1, 31), date(2021, 3, 1), 0, 1, 1},
		{"leap day birth", date(2020, 2, 29), date(2021, 2, 28), 0, 11, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			age, err := patient.ComputeAge(tt.dob, tt.encounter)
			require.NoError(t, err)

			assert.Equal(t, tt.years, age.Years)
			assert.Equal(t, tt.months, age.Months)
			assert.Equal(t, tt.days, age.Days)
			assert.Equal(t, tt.encounter, age.AddTo(tt.dob))
		})
	}
}

func TestComputeAgeExampleFormatting(t *testing.T) {
	age, err := patient.ComputeAge(date(2020, 3, 15), date(2023, 6, 1))
	require.NoError(t, err)

	assert.Equal(t, "3 years, 2 months, 17 days", age.Formatted)
	assert.Equal(t, 38, age.InMonths())
	assert.Equal(t, 1173, age.TotalDays)
}

func TestComputeAgeCenturiesApart(t *testing.T) {
	age, err := patient.ComputeAge(date(1500, 1, 1), date(2023, 3, 15))
	require.NoError(t, err)

	assert.Equal(t, 523, age.Years)
	assert.Equal(t, 2, age.Months)
	assert.Equal(t, 14, age.Days)
	assert.Equal(t, 191095, age.TotalDays)
}

func TestComputeAgeInvalidRange(t *testing.T) {
	_, err := patient.ComputeAge(date(2023, 6, 1), date(2023, 5, 31))
	require.Error(t, err)
	assert.True(t, errors.Is(err, patient.ErrInvalidRange))
}

func TestComputeAgeIgnoresClock(t *testing.T) {
	dob := time.Date(2020, 3, 15, 23, 30, 0, 0, time.UTC)
	encounter := time.Date(2020, 3, 16, 0, 5, 0, 0, time.UTC)

	age, err := patient.ComputeAge(dob, encounter)
	require.NoError(t, err)
	assert.Equal(t, 1, age.Days)
	assert.Equal(t, 1, age.TotalDays)
}

func TestComputeAgeProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))
	base := date(2000, 1, 1)

	for range 5000 {
		dob := base.AddDate(0, 0, r.IntN(9000))
		encounter := dob.AddDate(0, 0, r.IntN(3000))

		age, err := patient.ComputeAge(dob, encounter)
		require.NoError(t, err)

		require.GreaterOrEqual(t, age.Years, 0)
		require.GreaterOrEqual(t, age.Months, 0)
		require.GreaterOrEqual(t, age.Days, 0)
		require.Less(t, age.Months, 12)

		diff := age.AddTo(dob).Sub(encounter)
		if diff < 0 {
			diff = -diff
		}
		require.LessOrEqual(t, diff, 24*time.Hour, "dob %s encounter %s age %s", dob, encounter, age)
	}
}
