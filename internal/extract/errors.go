package extract

import (
	"errors"
	"net/http"
)

var (
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrInvalidPDF      = errors.New("invalid pdf document")
	ErrNoText          = errors.New("document contains no extractable text")
)

// MapHTTPStatus maps extraction errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUnsupportedType) {
		return http.StatusUnsupportedMediaType
	}
	if errors.Is(err, ErrInvalidPDF) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNoText) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
