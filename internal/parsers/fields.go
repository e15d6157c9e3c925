package parsers

import (
	"fmt"
	"slices"

	"github.com/JaimeStill/otreport/internal/assessment"
)

// layout describes how numbers on a score row map to score fields.
// Patterns are tried in order; the first whose length matches the row and
// whose columns accept every number wins.
type layout struct {
	patterns [][]column
	scale    assessment.Scale
}

var (
	subtestRow = layout{
		patterns: [][]column{
			{colRaw, colScaled},
			{colScaled},
			{colRaw},
		},
		scale: assessment.ScaleScaled,
	}

	compositeRow = layout{
		patterns: [][]column{
			{colSum, colComposite, colPercentile},
			{colComposite, colPercentile},
			{colSum, colComposite},
			{colComposite},
			{colPercentile},
		},
		scale: assessment.ScaleComposite,
	}

	rawPercentileRow = layout{
		patterns: [][]column{
			{colRaw, colPercentile},
			{colRaw},
		},
		scale: assessment.ScaleRaw,
	}

	symptomRow = layout{
		patterns: [][]column{
			{colRaw, colTScore, colPercentile},
			{colRaw, colTScore},
			{colRaw, colPercentile},
			{colRaw},
		},
		scale: assessment.ScaleTScore,
	}
)

// field is one expected domain of an instrument.
type field struct {
	domain  string
	kind    assessment.ScoreKind
	aliases []string
	layout  layout
}

func (f field) keys() []string {
	return foldAll(append([]string{f.domain}, f.aliases...))
}

type hit struct {
	start, end int
}

type lineIssue struct {
	line  int
	issue assessment.Issue
}

// scanResult is what a pass of fields over a region found.
type scanResult struct {
	scores []assessment.ScoreValue
	issues []assessment.Issue
	// passed holds issues from anchor lines of fields that never yielded
	// values, keyed by line so a later scan that reads the line can
	// release them.
	passed   []lineIssue
	anchored int
	missing  []string
	anchors  map[int]bool
	used     map[int]bool
	// rows maps each domain read to the first line of its row.
	rows map[string]int
}

// scanFields locates each field's anchor lines in [lo, hi) and reads the
// first anchor line that yields values. Issues from lines that were passed
// over are kept only when no line yielded values, and only until another
// scan reads the same line (see release). A line that matches
// several fields belongs to the field with the longest matching anchor. Lines in exclude
// were consumed by an earlier scan and are skipped.
func scanFields(doc *document, lo, hi int, fields []field, descriptors []string, exclude map[int]bool) scanResult {
	keys := make([][]string, len(fields))
	for i, f := range fields {
		keys[i] = f.keys()
	}

	hits := make([][]hit, len(fields))
	anchors := make(map[int]bool)

	for i := lo; i < hi; i++ {
		if exclude[i] {
			continue
		}
		best, bestLen, bestSpan := -1, 0, 0
		for fi := range fields {
			for _, k := range keys[fi] {
				span, ok := doc.matchAt(i, k)
				if ok && len(k) > bestLen {
					best, bestLen, bestSpan = fi, len(k), span
				}
			}
		}
		if best >= 0 {
			hits[best] = append(hits[best], hit{start: i, end: min(i+bestSpan, hi)})
			anchors[i] = true
		}
	}

	descKeys := foldAll(descriptors)
	res := scanResult{
		anchors: anchors,
		used:    make(map[int]bool),
		rows:    make(map[string]int),
	}

	for fi, f := range fields {
		if len(hits[fi]) > 0 {
			res.anchored++
		}

		var pending []lineIssue
		found := false
		for _, h := range hits[fi] {
			score, issues, ok := readRow(doc, h, hi, anchors, f, descriptors, descKeys)
			if ok {
				res.scores = append(res.scores, score)
				res.issues = append(res.issues, issues...)
				res.used[h.start] = true
				res.rows[f.domain] = h.start
				found = true
				break
			}
			for _, is := range issues {
				pending = append(pending, lineIssue{line: h.start, issue: is})
			}
		}
		if !found {
			res.passed = append(res.passed, pending...)
			res.missing = append(res.missing, f.domain)
		}
	}

	return res
}

// readRow reads the values of one anchor hit. When the anchor line carries
// no numbers, or its values are labelled, the following non-anchor lines are
// consulted, up to two.
func readRow(
	doc *document,
	h hit,
	hi int,
	anchors map[int]bool,
	f field,
	descriptors, descKeys []string,
) (assessment.ScoreValue, []assessment.Issue, bool) {
	end := h.end
	text := doc.join(h.start, end)
	for len(numbers(tokenize(text))) == 0 && end < hi && end-h.end < 2 && !anchors[end] {
		end++
		text = doc.join(h.start, end)
	}
	// Labelled values may be stacked one per line under the domain.
	for len(labels(text)) > 0 && end < hi && end-h.end < 2 && !anchors[end] && len(labels(doc.lines[end].text)) > 0 {
		end++
		text = doc.join(h.start, end)
	}

	score := assessment.ScoreValue{
		Domain: f.domain,
		Kind:   f.kind,
		Scale:  assessment.ScaleRaw,
	}

	var issues []assessment.Issue
	assigned := 0

	if pairs := labels(text); len(pairs) > 0 {
		for _, p := range pairs {
			col, ok := f.layout.resolve(p.col)
			if !ok {
				continue
			}
			v, ok := parseNumber(p.value)
			tok := token{kind: tokenNumber, value: v}
			if !ok || !col.accepts(tok) {
				issues = append(issues, assessment.Issue{
					Field:  fmt.Sprintf("%s %s", f.domain, col),
					Value:  p.value,
					Reason: fmt.Sprintf("not a valid %s", col),
				})
				continue
			}
			if set(&score, col, v) {
				assigned++
			}
		}
	} else {
		tokens := tokenize(text)
		for _, t := range tokens {
			if t.kind == tokenGarbled {
				issues = append(issues, assessment.Issue{
					Field:  f.domain,
					Value:  t.text,
					Reason: "unreadable number",
				})
			}
		}

		nums := numbers(tokens)
		if len(nums) > 0 {
			cols, ok := align(nums, f.layout.patterns)
			if !ok {
				issues = append(issues, assessment.Issue{
					Field:  f.domain,
					Value:  text,
					Reason: "values do not fit the expected columns",
				})
			}
			for i, c := range cols {
				if set(&score, c, nums[i].value) {
					assigned++
				}
			}
		}

		score.AgeEquivalent = firstOf(tokens, tokenAgeEquivalent)
		score.Interval = firstOf(tokens, tokenInterval)
	}

	if assigned == 0 {
		return assessment.ScoreValue{}, issues, false
	}

	if score.Standard == nil && score.Percentile != nil {
		score.Scale = f.layout.scale
	}
	score.Descriptor = descriptorIn(fold(text), descriptors, descKeys)

	return score, issues, true
}

func (l layout) has(c column) bool {
	for _, p := range l.patterns {
		for _, col := range p {
			if col == c {
				return true
			}
		}
	}
	return false
}

// resolve maps a labelled column onto the layout.
func (l layout) resolve(c column) (column, bool) {
	if c == colStandard {
		for _, alt := range []column{colComposite, colScaled, colTScore} {
			if l.has(alt) {
				return alt, true
			}
		}
		return c, false
	}
	return c, l.has(c)
}

func set(score *assessment.ScoreValue, c column, v float64) bool {
	switch c {
	case colRaw, colSum:
		score.Raw = assessment.Float(v)
	case colScaled:
		score.Standard = assessment.Float(v)
		score.Scale = assessment.ScaleScaled
	case colComposite:
		score.Standard = assessment.Float(v)
		score.Scale = assessment.ScaleComposite
	case colTScore:
		score.Standard = assessment.Float(v)
		score.Scale = assessment.ScaleTScore
	case colPercentile:
		score.Percentile = assessment.Float(v)
	default:
		return false
	}
	return true
}

// descriptorIn returns the longest known descriptor printed in key.
func descriptorIn(key string, descriptors, descKeys []string) string {
	best := ""
	bestLen := 0
	for i, k := range descKeys {
		if k != "" && len(k) > bestLen && containsKey(key, k) {
			best, bestLen = descriptors[i], len(k)
		}
	}
	return best
}

// release drops passed-over issues on lines another scan read.
func (r *scanResult) release(used map[int]bool) {
	r.passed = slices.DeleteFunc(r.passed, func(li lineIssue) bool {
		return used[li.line]
	})
}

// allIssues returns the issues of read rows followed by those of lines
// passed over.
func (r scanResult) allIssues() []assessment.Issue {
	out := slices.Clone(r.issues)
	for _, li := range r.passed {
		out = append(out, li.issue)
	}
	return out
}

// confidence grades a scan: complete when every field was read without
// issues, partial otherwise.
func (r scanResult) confidence() assessment.Confidence {
	if len(r.missing) == 0 && len(r.issues) == 0 && len(r.passed) == 0 {
		return assessment.ConfidenceComplete
	}
	return assessment.ConfidencePartial
}
