package parsers

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var bulletPattern = regexp.MustCompile(`^\s*(?:[-–•*▪●◦‣]+\s*|o\s+|\d{1,2}[.)]\s+)(\S.*)$`)

var observationHeading = regexp.MustCompile(
	`(?i)^(behavioral observations|behavior observations|clinical observations|test observations|observations|examiner comments|comments|notes|caregiver report|parent report)\b\s*:?\s*(.*)$`,
)

func bullet(text string) (string, bool) {
	m := bulletPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func continues(text string) bool {
	r, _ := utf8.DecodeRuneInString(text)
	return unicode.IsLower(r)
}

// boundary reports whether the line at i ends a free-text block.
func boundary(doc *document, i int, anchors map[int]bool) bool {
	if anchors[i] {
		return true
	}
	text := doc.lines[i].text
	if strings.HasSuffix(text, ":") {
		return true
	}
	return len(numbers(tokenize(text))) >= 3
}

// collectObservations gathers bullet lines anywhere in the document and the
// free text under observation headings, in source order. Wrapped lines that
// begin in lower case are joined to the fragment they continue.
func collectObservations(doc *document, anchors map[int]bool) []string {
	var out []string
	inBlock := false
	lastBullet := false

	for i, l := range doc.lines {
		if m := observationHeading.FindStringSubmatch(l.text); m != nil {
			inBlock = true
			lastBullet = false
			if rest := strings.TrimSpace(m[2]); rest != "" {
				out = append(out, rest)
			}
			continue
		}

		if text, ok := bullet(l.text); ok && !anchors[i] {
			out = append(out, text)
			lastBullet = true
			continue
		}

		if (inBlock || lastBullet) && len(out) > 0 && continues(l.text) && !anchors[i] {
			out[len(out)-1] += " " + l.text
			continue
		}

		if inBlock {
			if boundary(doc, i, anchors) {
				inBlock = false
			} else {
				out = append(out, l.text)
			}
		}
		lastBullet = false
	}

	return out
}
