// Package extract turns uploaded assessment documents into the plain text
// the instrument parsers read. PDFs are validated with pdfcpu before their
// text layer is read; plain text passes through unchanged.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeText = "text/plain"
)

// Text is the extracted content of one document.
type Text struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	Pages       int    `json:"pages,omitempty"`
}

// Extractor reads text out of uploaded files.
type Extractor struct {
	logger *slog.Logger
}

// New creates an Extractor.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger.With("system", "extract")}
}

// Extract detects the type of data and returns its text. declared is the
// content type the client sent, if any. Documents without any text layer
// return ErrNoText.
func (e *Extractor) Extract(ctx context.Context, filename, declared string, data []byte) (Text, error) {
	contentType := DetectContentType(filename, declared, data)

	var (
		text Text
		err  error
	)
	switch {
	case contentType == ContentTypePDF:
		text, err = e.extractPDF(ctx, data)
	case strings.HasPrefix(contentType, "text/"):
		text = Text{Content: string(data)}
	default:
		return Text{}, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if err != nil {
		return Text{}, err
	}

	text.ContentType = contentType
	text.Content = normalize(text.Content)
	if strings.TrimSpace(text.Content) == "" {
		return Text{}, fmt.Errorf("%w: %s", ErrNoText, filename)
	}

	e.logger.DebugContext(ctx, "document extracted",
		"filename", filename,
		"content_type", contentType,
		"pages", text.Pages,
		"chars", len(text.Content),
	)
	return text, nil
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (Text, error) {
	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return Text{}, fmt.Errorf("%w: %w", ErrInvalidPDF, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Text{}, fmt.Errorf("%w: %w", ErrInvalidPDF, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return Text{}, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return Text{}, fmt.Errorf("%w: page %d: %w", ErrInvalidPDF, i, err)
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	return Text{Content: b.String(), Pages: count}, nil
}

// DetectContentType resolves the media type of an upload. A specific
// declared type wins, then the file extension, then content sniffing.
// Parameters such as charset are dropped.
func DetectContentType(filename, declared string, data []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return mediaType(declared)
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return ContentTypePDF
	case ".txt", ".text":
		return ContentTypeText
	}
	return mediaType(http.DetectContentType(data))
}

func mediaType(v string) string {
	mt, _, err := mime.ParseMediaType(v)
	if err != nil {
		return strings.ToLower(v)
	}
	return mt
}

func normalize(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
