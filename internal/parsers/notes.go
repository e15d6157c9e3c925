package parsers

import (
	"regexp"
	"strings"

	"github.com/JaimeStill/otreport/internal/assessment"
)

type notesBlock int

const (
	blockNone notesBlock = iota
	blockConcerns
	blockFeeding
	blockObservations
)

var notesHeading = regexp.MustCompile(
	`(?i)^(caregiver concerns|parent concerns|family concerns|concerns|feeding observations|mealtime observations|feeding|mealtime|behavioral observations|clinical observations|observations|behavior|session notes|notes)\s*(?::\s*(.*))?$`,
)

func notesBlockOf(heading string) notesBlock {
	h := strings.ToLower(heading)
	switch {
	case strings.Contains(h, "concern"):
		return blockConcerns
	case strings.HasPrefix(h, "feeding"), strings.HasPrefix(h, "mealtime"):
		return blockFeeding
	}
	return blockObservations
}

// ClinicalNotes reads a clinician's session notes. Every bullet and every
// free-text fragment is kept verbatim in source order; fragments under
// concern and feeding headings are also grouped in the detail.
type ClinicalNotes struct{}

func (ClinicalNotes) Instrument() assessment.Instrument { return assessment.ClinicalNotes }

func (ClinicalNotes) Parse(text string) (assessment.Record, error) {
	doc := newDocument(text)

	var (
		detail    assessment.NotesDetail
		fragments []string
		block     = blockNone
	)

	// last points at the slice the previous fragment was appended to, so a
	// wrapped line extends every copy of it.
	type ref struct {
		list  *[]string
		index int
	}
	var last []ref

	add := func(text string, isBullet bool) {
		last = last[:0]
		push := func(list *[]string) {
			*list = append(*list, text)
			last = append(last, ref{list: list, index: len(*list) - 1})
		}
		push(&fragments)
		if isBullet {
			push(&detail.Bullets)
		}
		switch block {
		case blockConcerns:
			push(&detail.Concerns)
		case blockFeeding:
			push(&detail.Feeding)
		}
	}

	for _, l := range doc.lines {
		if m := notesHeading.FindStringSubmatch(l.text); m != nil {
			block = notesBlockOf(m[1])
			last = last[:0]
			if rest := strings.TrimSpace(m[2]); rest != "" {
				add(rest, false)
			}
			continue
		}

		if b, ok := bullet(l.text); ok {
			add(b, true)
			continue
		}

		if len(last) > 0 && continues(l.text) {
			for _, r := range last {
				(*r.list)[r.index] += " " + l.text
			}
			continue
		}

		add(l.text, false)
	}

	if len(fragments) == 0 {
		return assessment.Record{}, noContent(assessment.ClinicalNotes)
	}

	return assessment.Record{
		Instrument:   assessment.ClinicalNotes,
		Observations: fragments,
		Confidence:   assessment.ConfidenceComplete,
		Detail:       detail,
	}, nil
}
