package patient

import (
	"fmt"
	"strings"
	"time"
)

// ChronologicalAge is the calendar distance between a date of birth and an
// encounter date.
type ChronologicalAge struct {
	Years     int    `json:"years"`
	Months    int    `json:"months"`
	Days      int    `json:"days"`
	TotalDays int    `json:"total_days"`
	Formatted string `json:"formatted"`
}

// ComputeAge returns the age at encounter in years, months and days.
//
// Days are subtracted first. When the encounter day-of-month is earlier than
// the birth day-of-month a month is borrowed, and the remaining days are
// counted from the birth day anchored in the preceding month (clamped to that
// month's length). Months borrow from years the same way. TotalDays is the
// literal number of days between the two dates.
func ComputeAge(dob, encounter time.Time) (ChronologicalAge, error) {
	start := civil(dob)
	end := civil(encounter)

	if end.Before(start) {
		return ChronologicalAge{}, fmt.Errorf(
			"%w: dob %s, encounter %s",
			ErrInvalidRange,
			start.Format(time.DateOnly),
			end.Format(time.DateOnly),
		)
	}

	months := (end.Year()-start.Year())*12 + int(end.Month()-start.Month())
	if end.Day() < start.Day() {
		months--
	}

	anchor := addMonths(start, months)
	age := ChronologicalAge{
		Years:     months / 12,
		Months:    months % 12,
		Days:      daysBetween(anchor, end),
		TotalDays: daysBetween(start, end),
	}
	age.Formatted = age.format()

	return age, nil
}

// InMonths returns the completed months of age.
func (a ChronologicalAge) InMonths() int {
	return a.Years*12 + a.Months
}

// AddTo applies the age to t using the same month clamping ComputeAge uses,
// so AddTo(dob) reproduces the encounter date.
func (a ChronologicalAge) AddTo(t time.Time) time.Time {
	return addMonths(civil(t), a.InMonths()).AddDate(0, 0, a.Days)
}

func (a ChronologicalAge) String() string {
	return a.Formatted
}

func (a ChronologicalAge) format() string {
	parts := []string{
		plural(a.Years, "year"),
		plural(a.Months, "month"),
		plural(a.Days, "day"),
	}
	return strings.Join(parts, ", ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + months
	year := y + total/12
	month := time.Month(total%12 + 1)
	if last := daysIn(year, month); d > last {
		d = last
	}
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// daysBetween counts calendar days between two civil dates. It works from
// Unix seconds rather than Sub, whose Duration saturates near 292 years.
func daysBetween(a, b time.Time) int {
	return int((b.Unix() - a.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60
