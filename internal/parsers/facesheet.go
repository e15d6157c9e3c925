package parsers

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/JaimeStill/otreport/internal/assessment"
)

// facesheetLabel matches "Label: value" pairs. Several pairs may share a
// line, so values run to the next label.
var facesheetLabel = regexp.MustCompile(
	`(?i)\b(patient name|child'?s name|child name|name|date of birth|birth date|dob|age|sex|gender|primary language|preferred language|language|uci(?: number| no\.?)?|mrn|medical record(?: number)?|client id|(?:parent/guardian|parent or guardian|guardian|parent|caregiver|mother|father)(?:'?s)?(?: name)?|address|phone|telephone|tel|insurance|payer|reason for referral|referral reason|diagnosis|diagnoses|dx)\s*[:#][\s:#]*`,
)

var guardianLabel = regexp.MustCompile(`^(?:parent|guardian|caregiver|mother|father)`)

type facesheetField int

const (
	fsName facesheetField = iota
	fsDOB
	fsAge
	fsSex
	fsLanguage
	fsIdentifier
	fsGuardian
	fsAddress
	fsPhone
	fsInsurance
	fsReferral
	fsDiagnosis
)

func facesheetFieldOf(label string) facesheetField {
	switch label {
	case "patient name", "child's name", "childs name", "child name", "name":
		return fsName
	case "date of birth", "birth date", "dob":
		return fsDOB
	case "age":
		return fsAge
	case "sex", "gender":
		return fsSex
	case "primary language", "preferred language", "language":
		return fsLanguage
	case "address":
		return fsAddress
	case "phone", "telephone", "tel":
		return fsPhone
	case "insurance", "payer":
		return fsInsurance
	case "reason for referral", "referral reason":
		return fsReferral
	case "diagnosis", "diagnoses", "dx":
		return fsDiagnosis
	}
	if guardianLabel.MatchString(label) {
		return fsGuardian
	}
	return fsIdentifier
}

// facesheetExpected are the fields whose absence makes a facesheet partial.
var facesheetExpected = []facesheetField{fsName, fsDOB, fsSex, fsLanguage, fsIdentifier, fsGuardian}

// Facesheet reads the demographics page of an intake packet.
type Facesheet struct{}

func (Facesheet) Instrument() assessment.Instrument { return assessment.Facesheet }

func (Facesheet) Parse(text string) (assessment.Record, error) {
	doc := newDocument(text)
	if doc.empty() {
		return assessment.Record{}, noContent(assessment.Facesheet)
	}

	values := make(map[facesheetField]string)
	for _, l := range doc.lines {
		for field, value := range facesheetPairs(l.text) {
			if _, seen := values[field]; !seen && value != "" {
				values[field] = value
			}
		}
	}
	if len(values) == 0 {
		return assessment.Record{}, noContent(assessment.Facesheet)
	}

	demo := assessment.Demographics{
		Name:           displayName(values[fsName]),
		AgeText:        values[fsAge],
		Sex:            values[fsSex],
		Language:       values[fsLanguage],
		Identifier:     values[fsIdentifier],
		Guardian:       displayName(values[fsGuardian]),
		Address:        values[fsAddress],
		Phone:          values[fsPhone],
		Insurance:      values[fsInsurance],
		ReferralReason: values[fsReferral],
		Diagnosis:      values[fsDiagnosis],
	}

	record := assessment.Record{
		Instrument: assessment.Facesheet,
		Confidence: assessment.ConfidenceComplete,
	}

	if raw, ok := values[fsDOB]; ok {
		dob, err := parseDate(raw)
		if err != nil {
			record.Issues = append(record.Issues, assessment.Issue{
				Field:  "Date of Birth",
				Value:  raw,
				Reason: "unreadable date",
			})
		} else {
			demo.DateOfBirth = dob
		}
	}

	for _, f := range facesheetExpected {
		if _, ok := values[f]; !ok {
			record.Confidence = assessment.ConfidencePartial
		}
	}
	if len(record.Issues) > 0 {
		record.Confidence = assessment.ConfidencePartial
	}

	if demo.ReferralReason != "" {
		record.Observations = append(record.Observations, demo.ReferralReason)
	}

	record.Detail = demo
	return record, nil
}

// facesheetPairs splits a line into its labelled values.
func facesheetPairs(text string) map[facesheetField]string {
	matches := facesheetLabel.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	out := make(map[facesheetField]string, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		label := strings.ToLower(text[m[2]:m[3]])
		value := strings.Trim(strings.TrimSpace(text[m[1]:end]), ",;|")
		field := facesheetFieldOf(label)
		if _, seen := out[field]; !seen {
			out[field] = strings.TrimSpace(value)
		}
	}
	return out
}

// parseDate reads a printed date leniently and returns midnight UTC of that
// calendar day. Numeric dates are read month first.
func parseDate(s string) (time.Time, error) {
	t, err := dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// displayName title-cases names printed entirely in upper case.
func displayName(s string) string {
	if s == "" {
		return s
	}
	for _, r := range s {
		if unicode.IsLower(r) {
			return s
		}
	}
	return cases.Title(language.English).String(strings.ToLower(s))
}
