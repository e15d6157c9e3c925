package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/otreport/internal/assessment"
	"github.com/JaimeStill/otreport/internal/narrative"
	"github.com/JaimeStill/otreport/internal/patient"
	"github.com/JaimeStill/otreport/internal/report"
	"github.com/JaimeStill/otreport/internal/scoring"
)

// run holds one session's identity and the hard failure, if any, that ended
// it. Nodes record the failure so Execute can return it unwrapped.
type run struct {
	rt      *Runtime
	session uuid.UUID
	logger  *slog.Logger
	failure error
}

func (r *run) fail(err error) error {
	r.failure = err
	return err
}

// parseNode parses every upload concurrently. Failed documents are dropped
// with a warning; when two uploads carry the same instrument the first
// usable one is kept.
func (r *run) parseNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		req, err := get[Request](s, KeyRequest)
		if err != nil {
			return s, fmt.Errorf("parse: %w", err)
		}

		parsed := make([]assessment.Record, len(req.Uploads))
		errs := make([]error, len(req.Uploads))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workerCount(len(req.Uploads)))

		for i, u := range req.Uploads {
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				parsed[i], errs[i] = r.rt.Parsers.Parse(u.Instrument, u.Text)
				parsed[i].Source = u.Source
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return s, fmt.Errorf("parse: %w", err)
		}

		var records []assessment.Record
		var dropped []Dropped
		seen := make(map[assessment.Instrument]bool)

		for i, u := range req.Uploads {
			reason := ""
			switch {
			case errs[i] != nil:
				reason = errs[i].Error()
			case seen[u.Instrument]:
				reason = "duplicate upload for instrument"
			}

			if reason != "" {
				r.logger.WarnContext(ctx, "document dropped",
					"instrument", u.Instrument,
					"source", u.Source,
					"error", reason,
				)
				dropped = append(dropped, Dropped{Instrument: u.Instrument, Source: u.Source, Reason: reason})
				continue
			}

			seen[u.Instrument] = true
			records = append(records, parsed[i])
		}

		r.logger.InfoContext(ctx, "parse node complete",
			"uploads", len(req.Uploads),
			"records", len(records),
			"dropped", len(dropped),
		)

		s = s.Set(KeyRecords, records)
		s = s.Set(KeyDropped, dropped)
		return s, nil
	})
}

// ageNode resolves the patient, filling fields the request left empty from
// the facesheet, and computes the chronological age. The resolved patient
// is not changed by later nodes.
func (r *run) ageNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		req, err := get[Request](s, KeyRequest)
		if err != nil {
			return s, fmt.Errorf("age: %w", err)
		}
		records, err := get[[]assessment.Record](s, KeyRecords)
		if err != nil {
			return s, fmt.Errorf("age: %w", err)
		}

		p := r.resolvePatient(req.Patient, records)
		if err := p.Validate(); err != nil {
			return s, r.fail(fmt.Errorf("%w: %w", ErrPatient, err))
		}

		age, err := patient.ComputeAge(p.DateOfBirth, p.EncounterDate)
		if err != nil {
			return s, r.fail(fmt.Errorf("%w: %w", ErrPatient, err))
		}

		r.logger.InfoContext(ctx, "age node complete", "age", age.Formatted, "months", age.InMonths())

		s = s.Set(KeyPatient, p)
		s = s.Set(KeyAge, age)
		return s, nil
	})
}

func (r *run) resolvePatient(p patient.Patient, records []assessment.Record) patient.Patient {
	for _, rec := range records {
		if d, ok := rec.Detail.(assessment.Demographics); ok {
			p = p.WithDefaults(FromDemographics(d))
			break
		}
	}
	if p.EncounterDate.IsZero() {
		y, m, d := r.rt.now().Date()
		p.EncounterDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return p
}

// FromDemographics converts facesheet demographics to patient fields.
func FromDemographics(d assessment.Demographics) patient.Patient {
	p := patient.Patient{
		Name:        d.Name,
		DateOfBirth: d.DateOfBirth,
		Sex:         d.Sex,
		Language:    d.Language,
		Guardian:    d.Guardian,
	}
	if d.Identifier != "" {
		p.Identifiers = map[string]string{patient.IdentifierUCI: d.Identifier}
	}
	return p
}

// interpretNode classifies every score of every record for the patient's
// age. Records are interpreted concurrently; order is kept.
func (r *run) interpretNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		records, err := get[[]assessment.Record](s, KeyRecords)
		if err != nil {
			return s, fmt.Errorf("interpret: %w", err)
		}
		age, err := get[patient.ChronologicalAge](s, KeyAge)
		if err != nil {
			return s, fmt.Errorf("interpret: %w", err)
		}

		interpreted := make([]assessment.Record, len(records))
		var wg sync.WaitGroup
		for i, rec := range records {
			wg.Go(func() {
				interpreted[i] = scoring.Interpret(rec, age.InMonths())
			})
		}
		wg.Wait()

		r.logger.InfoContext(ctx, "interpret node complete", "records", len(interpreted))

		s = s.Set(KeyRecords, interpreted)
		return s, nil
	})
}

func (r *run) narrateNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		records, err := get[[]assessment.Record](s, KeyRecords)
		if err != nil {
			return s, fmt.Errorf("narrate: %w", err)
		}
		p, err := get[patient.Patient](s, KeyPatient)
		if err != nil {
			return s, fmt.Errorf("narrate: %w", err)
		}
		age, err := get[patient.ChronologicalAge](s, KeyAge)
		if err != nil {
			return s, fmt.Errorf("narrate: %w", err)
		}

		sections, err := r.rt.Strategy.Synthesize(ctx, narrative.Input{
			Patient: p,
			Age:     age,
			Records: records,
		})
		if err != nil {
			if ctx.Err() != nil {
				return s, r.fail(ctx.Err())
			}
			return s, r.fail(fmt.Errorf("%w: %w", ErrNarrate, err))
		}

		r.logger.InfoContext(ctx, "narrate node complete",
			"strategy", r.rt.Strategy.Name(),
			"sections", len(sections),
		)

		s = s.Set(KeySections, sections)
		return s, nil
	})
}

func (r *run) assembleNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		req, err := get[Request](s, KeyRequest)
		if err != nil {
			return s, fmt.Errorf("assemble: %w", err)
		}
		records, err := get[[]assessment.Record](s, KeyRecords)
		if err != nil {
			return s, fmt.Errorf("assemble: %w", err)
		}

		p, err := get[patient.Patient](s, KeyPatient)
		if err != nil {
			p = req.Patient
		}
		age, _ := get[patient.ChronologicalAge](s, KeyAge)
		sections, _ := get[[]narrative.Section](s, KeySections)

		doc, err := report.Assemble(p, age, records, sections, req.ReportType)
		if err != nil {
			return s, r.fail(err)
		}
		doc.ID = r.session.String()
		doc.GeneratedAt = r.rt.now().UTC()

		r.logger.InfoContext(ctx, "assemble node complete",
			"type", doc.Type,
			"sections", len(doc.Sections),
		)

		s = s.Set(KeyDocument, doc)
		return s, nil
	})
}
