// Package reports exposes report generation over HTTP: uploaded assessment
// files are extracted, run through the generation pipeline, rendered in the
// requested formats, and stored as downloadable artifacts.
package reports

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/otreport/internal/assessment"
	"github.com/JaimeStill/otreport/internal/config"
	"github.com/JaimeStill/otreport/internal/extract"
	"github.com/JaimeStill/otreport/internal/patient"
	"github.com/JaimeStill/otreport/internal/pipeline"
	"github.com/JaimeStill/otreport/internal/render"
	"github.com/JaimeStill/otreport/internal/report"
	"github.com/JaimeStill/otreport/pkg/storage"
)

// System defines the report generation contract.
type System interface {
	Handler(maxUploadSize int64) *Handler
	Generate(ctx context.Context, cmd Command) (*Result, error)
	// Open returns a stored artifact and its content type. The caller must
	// close the reader.
	Open(ctx context.Context, session uuid.UUID, name string) (io.ReadCloser, string, error)
	// List returns the artifacts stored for session. Returns ErrNotFound
	// when there are none.
	List(ctx context.Context, session uuid.UUID) ([]Artifact, error)
}

// File is one uploaded document tagged with its instrument.
type File struct {
	Instrument  assessment.Instrument
	Filename    string
	ContentType string
	Data        []byte
}

// Command is a report generation request.
type Command struct {
	Patient    patient.Patient
	Files      []File
	Formats    []string
	ReportType string
}

// Artifact describes one stored output.
type Artifact struct {
	Format      string `json:"format"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Key         string `json:"key"`
}

// Result is the response of a generation request.
type Result struct {
	SessionID   uuid.UUID          `json:"session_id"`
	Document    *report.Document   `json:"document"`
	Artifacts   []Artifact         `json:"artifacts"`
	Dropped     []pipeline.Dropped `json:"dropped,omitempty"`
	CompletedAt time.Time          `json:"completed_at"`
}

type reportSystem struct {
	runtime   *pipeline.Runtime
	extractor *extract.Extractor
	renderers *render.Registry
	store     storage.System
	outputs   config.OutputsConfig
	logger    *slog.Logger
}

// New creates a report system. Artifacts are written to store.
func New(
	rt *pipeline.Runtime,
	extractor *extract.Extractor,
	renderers *render.Registry,
	store storage.System,
	outputs config.OutputsConfig,
	logger *slog.Logger,
) System {
	return &reportSystem{
		runtime:   rt,
		extractor: extractor,
		renderers: renderers,
		store:     store,
		outputs:   outputs,
		logger:    logger.With("system", "reports"),
	}
}

func (s *reportSystem) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, maxUploadSize)
}

func (s *reportSystem) Generate(ctx context.Context, cmd Command) (*Result, error) {
	if len(cmd.Files) == 0 {
		return nil, pipeline.ErrNoDocuments
	}

	renderers, err := s.selectRenderers(cmd.Formats)
	if err != nil {
		return nil, err
	}

	typ, err := s.reportType(cmd.ReportType)
	if err != nil {
		return nil, err
	}

	uploads, dropped, err := s.extract(ctx, cmd.Files)
	if err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		// every file failed extraction; report which core assessments are missing
		if err := report.RequireCore(nil); err != nil {
			return nil, err
		}
		return nil, pipeline.ErrNoDocuments
	}

	res, err := pipeline.Execute(ctx, s.runtime, pipeline.Request{
		Patient:    cmd.Patient,
		Uploads:    uploads,
		ReportType: typ,
	})
	if err != nil {
		return nil, err
	}

	built, err := render.All(ctx, res.Document, renderers)
	if err != nil {
		return nil, err
	}

	artifacts, err := s.persist(ctx, res.SessionID, built)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "report generated",
		"session", res.SessionID,
		"artifacts", len(artifacts),
		"dropped", len(dropped)+len(res.Dropped),
	)

	return &Result{
		SessionID:   res.SessionID,
		Document:    res.Document,
		Artifacts:   artifacts,
		Dropped:     append(dropped, res.Dropped...),
		CompletedAt: res.CompletedAt,
	}, nil
}

func (s *reportSystem) Open(ctx context.Context, session uuid.UUID, name string) (io.ReadCloser, string, error) {
	if name == "" || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return nil, "", fmt.Errorf("%w: artifact name %q", ErrInvalidRequest, name)
	}

	rnd, ok := s.renderers.ByExtension(path.Ext(name))
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	rc, err := s.store.Download(ctx, artifactKey(session, name))
	if err != nil {
		return nil, "", err
	}
	return rc, rnd.ContentType(), nil
}

func (s *reportSystem) List(ctx context.Context, session uuid.UUID) ([]Artifact, error) {
	objects, err := s.store.List(ctx, session.String()+"/")
	if err != nil {
		return nil, err
	}

	artifacts := make([]Artifact, 0, len(objects))
	for _, obj := range objects {
		name := path.Base(obj.Key)
		rnd, ok := s.renderers.ByExtension(path.Ext(name))
		if !ok {
			continue
		}
		artifacts = append(artifacts, Artifact{
			Format:      rnd.Name(),
			Filename:    name,
			ContentType: rnd.ContentType(),
			Size:        obj.Size,
			Key:         obj.Key,
		})
	}

	if len(artifacts) == 0 {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, session)
	}
	return artifacts, nil
}

func (s *reportSystem) selectRenderers(formats []string) ([]render.Renderer, error) {
	if len(formats) == 0 {
		formats = s.outputs.Formats
	}
	for _, f := range formats {
		if !s.outputs.Enabled(f) {
			return nil, fmt.Errorf("%w: %s", ErrFormatDisabled, f)
		}
	}
	return s.renderers.Select(formats)
}

func (s *reportSystem) reportType(requested string) (report.Type, error) {
	if strings.TrimSpace(requested) == "" {
		requested = s.outputs.ReportType
	}
	return report.ParseType(requested)
}

// extract reads the text of every file concurrently. A file that cannot be
// read is dropped; whether the report can still be produced is decided by
// the pipeline.
func (s *reportSystem) extract(ctx context.Context, files []File) ([]pipeline.Upload, []pipeline.Dropped, error) {
	texts := make([]*extract.Text, len(files))
	failures := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(min(runtime.NumCPU(), len(files)), 1))

	for i, f := range files {
		g.Go(func() error {
			text, err := s.extractor.Extract(gctx, f.Filename, f.ContentType, f.Data)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failures[i] = err
				return nil
			}
			texts[i] = &text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		uploads []pipeline.Upload
		dropped []pipeline.Dropped
	)
	for i, f := range files {
		if failures[i] != nil {
			s.logger.WarnContext(ctx, "document dropped",
				"instrument", f.Instrument,
				"filename", f.Filename,
				"error", failures[i],
			)
			dropped = append(dropped, pipeline.Dropped{
				Instrument: f.Instrument,
				Source:     f.Filename,
				Reason:     failures[i].Error(),
			})
			continue
		}
		uploads = append(uploads, pipeline.Upload{
			Instrument: f.Instrument,
			Source:     f.Filename,
			Text:       texts[i].Content,
		})
	}
	return uploads, dropped, nil
}

// persist uploads every artifact. If any upload fails the artifacts already
// written are deleted so a session is either fully stored or absent.
func (s *reportSystem) persist(ctx context.Context, session uuid.UUID, built []render.Artifact) ([]Artifact, error) {
	stored := make([]Artifact, 0, len(built))

	for _, a := range built {
		key := artifactKey(session, a.Filename)
		if err := s.store.Upload(ctx, key, bytes.NewReader(a.Data), a.ContentType); err != nil {
			s.rollback(context.WithoutCancel(ctx), stored)
			return nil, fmt.Errorf("%w: %w", ErrStore, err)
		}
		stored = append(stored, Artifact{
			Format:      a.Format,
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Size:        int64(a.Size),
			Key:         key,
		})
	}

	return stored, nil
}

func (s *reportSystem) rollback(ctx context.Context, stored []Artifact) {
	for _, a := range stored {
		if err := s.store.Delete(ctx, a.Key); err != nil {
			s.logger.ErrorContext(ctx, "artifact cleanup failed", "key", a.Key, "error", err)
		}
	}
}

func artifactKey(session uuid.UUID, filename string) string {
	return session.String() + "/" + filename
}
