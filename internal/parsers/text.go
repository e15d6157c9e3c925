package parsers

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var listMarker = regexp.MustCompile(`^\s*(?:[-–•*▪●◦‣]+\s*|o\s+|\d{1,2}[.)]\s+)`)

// line is one non-empty line of extracted text. key is the folded form used
// for anchor matching: lower case, list markers removed, punctuation and
// whitespace collapsed to single spaces.
type line struct {
	text string
	key  string
}

type document struct {
	lines []line
}

func newDocument(raw string) *document {
	caser := cases.Fold()
	normalized := norm.NFKC.String(raw)
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	doc := &document{}
	for _, l := range strings.Split(normalized, "\n") {
		text := strings.Join(strings.Fields(l), " ")
		if text == "" {
			continue
		}
		doc.lines = append(doc.lines, line{
			text: text,
			key:  foldWith(caser, listMarker.ReplaceAllString(text, "")),
		})
	}
	return doc
}

func (d *document) empty() bool {
	return len(d.lines) == 0
}

func fold(s string) string {
	return foldWith(cases.Fold(), s)
}

func foldWith(caser cases.Caser, s string) string {
	s = caser.String(s)

	var b strings.Builder
	gap := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if gap && b.Len() > 0 {
				b.WriteByte(' ')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String()
}

// hasPrefixKey reports whether key starts with the whole words of anchor.
func hasPrefixKey(key, anchor string) bool {
	return key == anchor || strings.HasPrefix(key, anchor+" ")
}

// containsKey reports whether the words of needle appear contiguously in key.
func containsKey(key, needle string) bool {
	return strings.Contains(" "+key+" ", " "+needle+" ")
}

// matchAt reports whether the line at i starts with anchor, allowing the
// anchor to be broken across two lines by extraction. It returns how many
// lines the anchor spans.
func (d *document) matchAt(i int, anchor string) (int, bool) {
	key := d.lines[i].key
	if hasPrefixKey(key, anchor) {
		return 1, true
	}
	if i+1 < len(d.lines) && strings.HasPrefix(anchor, key+" ") {
		joined := key + " " + d.lines[i+1].key
		if hasPrefixKey(joined, anchor) {
			return 2, true
		}
	}
	return 0, false
}

// find returns the index of the first line in [lo, hi) starting with any of
// the anchors, or -1.
func (d *document) find(lo, hi int, anchors []string) int {
	for i := lo; i < hi; i++ {
		for _, a := range anchors {
			if _, ok := d.matchAt(i, a); ok {
				return i
			}
		}
	}
	return -1
}

// region returns the span from the first heading matching start up to the
// first later heading matching stop. Without a start heading the whole
// document is the region.
func (d *document) region(start, stop []string) (int, int) {
	lo := d.find(0, len(d.lines), start)
	if lo < 0 {
		return 0, len(d.lines)
	}
	hi := d.find(lo+1, len(d.lines), stop)
	if hi < 0 {
		hi = len(d.lines)
	}
	return lo + 1, hi
}

func (d *document) join(lo, hi int) string {
	parts := make([]string, 0, hi-lo)
	for i := lo; i < hi && i < len(d.lines); i++ {
		parts = append(parts, d.lines[i].text)
	}
	return strings.Join(parts, " ")
}

func foldAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fold(v)
	}
	return out
}
