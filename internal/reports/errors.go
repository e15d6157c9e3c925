package reports

import (
	"context"
	"errors"
	"net/http"

	"github.com/JaimeStill/otreport/internal/extract"
	"github.com/JaimeStill/otreport/internal/pipeline"
	"github.com/JaimeStill/otreport/internal/render"
	"github.com/JaimeStill/otreport/internal/report"
	"github.com/JaimeStill/otreport/pkg/storage"
)

// Domain errors for report generation.
var (
	ErrInvalidRequest = errors.New("invalid report request")
	ErrFileTooLarge   = errors.New("upload exceeds maximum size")
	ErrFormatDisabled = errors.New("output format is not enabled")
	ErrStore          = errors.New("store report artifacts")
	ErrNotFound       = errors.New("report artifact not found")
)

// MapHTTPStatus maps report generation errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, report.ErrIncompleteCore):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrFormatDisabled),
		errors.Is(err, render.ErrUnknownFormat),
		errors.Is(err, report.ErrInvalidType),
		errors.Is(err, pipeline.ErrNoDocuments),
		errors.Is(err, pipeline.ErrPatient),
		errors.Is(err, storage.ErrEmptyKey),
		errors.Is(err, storage.ErrInvalidKey):
		return http.StatusBadRequest
	case errors.Is(err, extract.ErrUnsupportedType),
		errors.Is(err, extract.ErrInvalidPDF),
		errors.Is(err, extract.ErrNoText):
		return extract.MapHTTPStatus(err)
	case errors.Is(err, storage.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// Message returns the user-facing explanation of err.
func Message(err error) string {
	var incomplete *report.IncompleteCoreError
	if errors.As(err, &incomplete) {
		return incomplete.Message()
	}
	return err.Error()
}
