package extract_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/otreport/internal/extract"
)

func newExtractor() *extract.Extractor {
	return extract.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestExtractText(t *testing.T) {
	data := []byte("\ufeffSession Notes\r\n- refused purees\r\n")

	text, err := newExtractor().Extract(context.Background(), "notes.txt", "", data)
	require.NoError(t, err)

	assert.Equal(t, extract.ContentTypeText, text.ContentType)
	assert.Equal(t, "Session Notes\n- refused purees\n", text.Content)
	assert.Zero(t, text.Pages)
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		declared string
		data     []byte
		want     error
	}{
		{"image", "scan.png", "", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), extract.ErrUnsupportedType},
		{"declared image", "scan", "image/jpeg", []byte("anything"), extract.ErrUnsupportedType},
		{"corrupt pdf", "bayley.pdf", "application/pdf", []byte("%PDF-1.4\nnot really a pdf"), extract.ErrInvalidPDF},
		{"blank text", "notes.txt", "text/plain", []byte(" \r\n\t"), extract.ErrNoText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newExtractor().Extract(context.Background(), tt.filename, tt.declared, tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		declared string
		data     []byte
		want     string
	}{
		{"declared wins", "a.pdf", "text/plain; charset=utf-8", nil, "text/plain"},
		{"octet stream falls through", "a.pdf", "application/octet-stream", nil, "application/pdf"},
		{"extension", "notes.TXT", "", []byte("%PDF-"), "text/plain"},
		{"sniffed pdf", "upload", "", []byte("%PDF-1.7\n"), "application/pdf"},
		{"sniffed text", "upload", "", []byte("Total 10 5"), "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extract.DetectContentType(tt.filename, tt.declared, tt.data))
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnsupportedMediaType, extract.MapHTTPStatus(extract.ErrUnsupportedType))
	assert.Equal(t, http.StatusBadRequest, extract.MapHTTPStatus(extract.ErrInvalidPDF))
	assert.Equal(t, http.StatusUnprocessableEntity, extract.MapHTTPStatus(extract.ErrNoText))
	assert.Equal(t, http.StatusInternalServerError, extract.MapHTTPStatus(io.EOF))
}
