package parsers

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenAgeEquivalent
	tokenInterval
	tokenGarbled
)

type token struct {
	kind tokenKind
	text string
	// value is set for numbers.
	value float64
	// rank marks a number printed with a percentile suffix (%, st, nd, rd, th).
	rank bool
}

var tokenPattern = regexp.MustCompile(
	`(\d{1,2}:\d{1,2})` +
		`|(\d+(?:\.\d+)?\s?[-–]\s?\d+(?:\.\d+)?)` +
		`|(\b\d+[OoIl]+\d*\b|\b[Oo]\d+\b)` +
		`|([<>≤≥]?\d+(?:\.\d+)?)(%|st\b|nd\b|rd\b|th\b)?`,
)

func tokenize(s string) []token {
	var out []token
	for _, m := range tokenPattern.FindAllStringSubmatch(s, -1) {
		switch {
		case m[1] != "":
			out = append(out, token{kind: tokenAgeEquivalent, text: m[1]})
		case m[2] != "":
			out = append(out, token{kind: tokenInterval, text: m[2]})
		case m[3] != "":
			out = append(out, token{kind: tokenGarbled, text: m[3]})
		case m[4] != "":
			v, ok := parseNumber(m[4])
			if !ok {
				out = append(out, token{kind: tokenGarbled, text: m[0]})
				continue
			}
			out = append(out, token{kind: tokenNumber, text: m[0], value: v, rank: m[5] != ""})
		}
	}
	return out
}

func numbers(tokens []token) []token {
	var out []token
	for _, t := range tokens {
		if t.kind == tokenNumber {
			out = append(out, t)
		}
	}
	return out
}

func firstOf(tokens []token, kind tokenKind) string {
	for _, t := range tokens {
		if t.kind == kind {
			return t.text
		}
	}
	return ""
}

// parseNumber reads a printed score. Comparison prefixes are dropped, so
// "<0.1" reads as 0.1; percentile suffixes are ignored.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ",;.)")
	s = strings.TrimLeft(s, "<>≤≥(")
	for _, suffix := range []string{"%", "st", "nd", "rd", "th"} {
		s = strings.TrimSuffix(s, suffix)
	}
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// column is one positional slot of a score row.
type column int

const (
	colRaw column = iota
	colScaled
	colSum
	colComposite
	colPercentile
	colTScore
	// colStandard is the "Standard Score" label; it resolves to whichever
	// standard metric a layout carries.
	colStandard
)

var columnNames = map[column]string{
	colRaw:        "raw score",
	colScaled:     "scaled score",
	colSum:        "sum of scaled scores",
	colComposite:  "composite score",
	colPercentile: "percentile rank",
	colTScore:     "t-score",
	colStandard:   "standard score",
}

func (c column) String() string {
	return columnNames[c]
}

// accepts applies the range check that separates overlapping formats.
func (c column) accepts(t token) bool {
	v := t.value
	integral := v == math.Trunc(v)

	if t.rank && c != colPercentile {
		return false
	}

	switch c {
	case colRaw:
		return v >= 0 && v <= 999
	case colScaled:
		return integral && v >= 1 && v <= 19
	case colSum:
		return integral && v >= 1 && v <= 250
	case colComposite:
		return integral && v >= 40 && v <= 160
	case colPercentile:
		return v >= 0.1 && v <= 99.9
	case colTScore:
		return integral && v >= 20 && v <= 90
	}
	return false
}

// align assigns numbers to the first pattern of matching length whose
// columns all accept them. Numbers beyond the longest pattern are ignored.
func align(nums []token, patterns [][]column) ([]column, bool) {
	longest := 0
	for _, p := range patterns {
		longest = max(longest, len(p))
	}
	if len(nums) > longest {
		nums = nums[:longest]
	}

	for _, p := range patterns {
		if len(p) != len(nums) {
			continue
		}
		fits := true
		for i, c := range p {
			if !c.accepts(nums[i]) {
				fits = false
				break
			}
		}
		if fits {
			return p, true
		}
	}
	return nil, false
}

var labelPattern = regexp.MustCompile(
	`(?i)\b(total raw score|raw score|scaled score|sum of scaled scores|composite score|standard score|percentile rank|percentile|t[- ]?score)\b\s*[:=]?\s*([^\s,;|]+)`,
)

var labelColumns = map[string]column{
	"total raw score":      colRaw,
	"raw score":            colRaw,
	"scaled score":         colScaled,
	"sum of scaled scores": colSum,
	"composite score":      colComposite,
	"standard score":       colStandard,
	"percentile rank":      colPercentile,
	"percentile":           colPercentile,
	"t score":              colTScore,
	"tscore":               colTScore,
	"t-score":              colTScore,
}

type labeled struct {
	col   column
	label string
	value string
}

// labels returns every "Label: value" pair whose value carries a digit.
// Column headers ("Composite Score Percentile Rank") carry none and are
// skipped.
func labels(s string) []labeled {
	var out []labeled
	for _, m := range labelPattern.FindAllStringSubmatch(s, -1) {
		name := strings.ToLower(m[1])
		col, ok := labelColumns[name]
		if !ok {
			continue
		}
		if !strings.ContainsAny(m[2], "0123456789") {
			continue
		}
		out = append(out, labeled{col: col, label: name, value: m[2]})
	}
	return out
}
