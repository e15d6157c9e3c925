// Package render writes an assembled report in each supported output
// format. Every renderer consumes the same section model, so the content of
// a PDF, a workbook, and a cloud document never diverges.
package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/otreport/internal/patient"
	"github.com/JaimeStill/otreport/internal/report"
)

// Renderer writes a document in one output format.
type Renderer interface {
	// Name is the format name used in configuration and requests.
	Name() string
	ContentType() string
	// Extension includes the leading dot.
	Extension() string
	Render(ctx context.Context, w io.Writer, doc *report.Document) error
}

// Registry holds renderers by format name.
type Registry struct {
	renderers map[string]Renderer
	order     []string
}

// NewRegistry creates a registry over the given renderers. A later renderer
// with the same name replaces an earlier one.
func NewRegistry(renderers ...Renderer) *Registry {
	r := &Registry{renderers: make(map[string]Renderer, len(renderers))}
	for _, rnd := range renderers {
		if _, ok := r.renderers[rnd.Name()]; !ok {
			r.order = append(r.order, rnd.Name())
		}
		r.renderers[rnd.Name()] = rnd
	}
	return r
}

// Default returns a registry with every built-in format.
func Default() *Registry {
	return NewRegistry(PDF{}, Docs{}, Workbook{}, JSON{})
}

// Formats returns the registered format names in registration order.
func (r *Registry) Formats() []string {
	return slices.Clone(r.order)
}

// Get returns the renderer for format.
func (r *Registry) Get(format string) (Renderer, error) {
	rnd, ok := r.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	return rnd, nil
}

// ByExtension returns the renderer whose artifacts end in ext.
func (r *Registry) ByExtension(ext string) (Renderer, bool) {
	for _, name := range r.order {
		if rnd := r.renderers[name]; strings.EqualFold(rnd.Extension(), ext) {
			return rnd, true
		}
	}
	return nil, false
}

// Select returns the renderers for formats in the order given, skipping
// repeats.
func (r *Registry) Select(formats []string) ([]Renderer, error) {
	var out []Renderer
	seen := make(map[string]bool, len(formats))
	for _, f := range formats {
		if seen[f] {
			continue
		}
		seen[f] = true
		rnd, err := r.Get(f)
		if err != nil {
			return nil, err
		}
		out = append(out, rnd)
	}
	return out, nil
}

// Artifact is one rendered output held in memory until it is stored.
type Artifact struct {
	Format      string `json:"format"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	Data        []byte `json:"-"`
}

// All renders doc with every renderer concurrently. Either every artifact
// is returned or none are.
func All(ctx context.Context, doc *report.Document, renderers []Renderer) ([]Artifact, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}

	artifacts := make([]Artifact, len(renderers))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(min(runtime.NumCPU(), len(renderers)), 1))

	for i, rnd := range renderers {
		g.Go(func() error {
			var buf bytes.Buffer
			if err := rnd.Render(ctx, &buf, doc); err != nil {
				return fmt.Errorf("render %s: %w", rnd.Name(), err)
			}
			artifacts[i] = Artifact{
				Format:      rnd.Name(),
				Filename:    Filename(doc, rnd),
				ContentType: rnd.ContentType(),
				Size:        buf.Len(),
				Data:        buf.Bytes(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// Filename returns the artifact name of doc in rnd's format.
func Filename(doc *report.Document, rnd Renderer) string {
	return doc.Slug() + rnd.Extension()
}

// field is one labelled line of the patient header.
type field struct {
	Label string
	Value string
}

const dateLayout = "January 2, 2006"

func header(doc *report.Document) []field {
	p := doc.Patient
	fields := []field{
		{"Name", p.Name},
		{"Date of Birth", formatDate(p.DateOfBirth)},
		{"Date of Evaluation", formatDate(p.EncounterDate)},
		{"Chronological Age", doc.Age.String()},
		{"Sex", p.Sex},
		{"Primary Language", p.Language},
		{"Guardian", p.Guardian},
		{"UCI", p.Identifier(patient.IdentifierUCI)},
		{"Report Type", typeLabel(doc.Type)},
	}
	return slices.DeleteFunc(fields, func(f field) bool { return f.Value == "" })
}

func typeLabel(t report.Type) string {
	if t == report.TypeBasic {
		return "Basic"
	}
	return "Professional"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
