package render

import (
	"context"
	"encoding/json"
	"io"

	"github.com/JaimeStill/otreport/internal/report"
)

// JSON renders the assembled document as indented JSON.
type JSON struct{}

func (JSON) Name() string        { return "json" }
func (JSON) ContentType() string { return "application/json" }
func (JSON) Extension() string   { return ".json" }

func (JSON) Render(ctx context.Context, w io.Writer, doc *report.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
