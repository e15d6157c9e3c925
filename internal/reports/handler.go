package reports

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"

	"github.com/JaimeStill/otreport/internal/assessment"
	"github.com/JaimeStill/otreport/internal/config"
	"github.com/JaimeStill/otreport/internal/patient"
	"github.com/JaimeStill/otreport/pkg/handlers"
	"github.com/JaimeStill/otreport/pkg/routes"
)

// Multipart form fields of a generation request. Files are submitted under
// their instrument tag, for example "bayley4_cognitive".
const (
	FieldName          = "name"
	FieldDateOfBirth   = "date_of_birth"
	FieldEncounterDate = "encounter_date"
	FieldSex           = "sex"
	FieldLanguage      = "language"
	FieldGuardian      = "guardian"
	FieldUCI           = "uci"
	FieldFormats       = "formats"
	FieldReportType    = "report_type"
)

// Handler provides HTTP endpoints for report generation.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "reports"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for report endpoints. Responses
// carry patient data and are never cached.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:     "/reports",
		Middleware: []func(http.Handler) http.Handler{noStore},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/instruments", Handler: h.Instruments},
			{Method: "POST", Pattern: "", Handler: h.Generate},
			{Method: "GET", Pattern: "/{session}", Handler: h.List},
			{Method: "GET", Pattern: "/{session}/{name}", Handler: h.Download},
		},
	}
}

// Instruments lists the instrument tags a request may upload files under.
func (h *Handler) Instruments(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, assessment.Catalog())
}

// Generate accepts a multipart form of patient fields and tagged assessment
// files and returns the assembled report with its stored artifacts.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.fail(w, fmt.Errorf("%w: limit %d bytes", ErrFileTooLarge, maxErr.Limit))
			return
		}
		h.fail(w, fmt.Errorf("%w: %w", ErrInvalidRequest, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	cmd, err := commandFromForm(r.MultipartForm)
	if err != nil {
		h.fail(w, err)
		return
	}

	result, err := h.sys.Generate(r.Context(), cmd)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Download streams a stored artifact.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	name := r.PathValue("name")

	rc, contentType, err := h.sys.Open(r.Context(), session, name)
	if err != nil {
		h.fail(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.WarnContext(r.Context(), "artifact download interrupted", "name", name, "error", err)
	}
}

// List returns the artifacts stored for a session.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	artifacts, err := h.sys.List(r.Context(), session)
	if err != nil {
		h.fail(w, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, artifacts)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	session, err := uuid.Parse(r.PathValue("session"))
	if err != nil {
		h.fail(w, fmt.Errorf("%w: session id", ErrInvalidRequest))
		return uuid.Nil, false
	}
	return session, true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	handlers.RespondMessage(w, h.logger, MapHTTPStatus(err), err, Message(err))
}

func commandFromForm(form *multipart.Form) (Command, error) {
	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	dob, err := formDate(FieldDateOfBirth, value(FieldDateOfBirth))
	if err != nil {
		return Command{}, err
	}
	encounter, err := formDate(FieldEncounterDate, value(FieldEncounterDate))
	if err != nil {
		return Command{}, err
	}

	cmd := Command{
		Patient: patient.Patient{
			Name:          value(FieldName),
			DateOfBirth:   dob,
			EncounterDate: encounter,
			Sex:           value(FieldSex),
			Language:      value(FieldLanguage),
			Guardian:      value(FieldGuardian),
		},
		ReportType: value(FieldReportType),
	}
	if uci := value(FieldUCI); uci != "" {
		cmd.Patient.Identifiers = map[string]string{patient.IdentifierUCI: uci}
	}
	for _, v := range form.Value[FieldFormats] {
		cmd.Formats = append(cmd.Formats, config.SplitList(v)...)
	}

	byInstrument := make(map[assessment.Instrument][]*multipart.FileHeader, len(form.File))
	for field, headers := range form.File {
		instrument, err := assessment.ParseInstrument(field)
		if err != nil {
			return Command{}, fmt.Errorf("%w: unknown file field %q", ErrInvalidRequest, field)
		}
		byInstrument[instrument] = append(byInstrument[instrument], headers...)
	}

	// canonical order keeps first-wins deduplication independent of map order
	for _, instrument := range assessment.Instruments() {
		for _, header := range byInstrument[instrument] {
			data, err := readFile(header)
			if err != nil {
				return Command{}, fmt.Errorf("%w: read %s: %w", ErrInvalidRequest, header.Filename, err)
			}
			cmd.Files = append(cmd.Files, File{
				Instrument:  instrument,
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}

	return cmd, nil
}

func formDate(field, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := dateparse.ParseIn(v, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q is not a date", ErrInvalidRequest, field, v)
	}
	return t, nil
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
