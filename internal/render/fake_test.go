package render_test

import (
	"context"
	"errors"
	"io"

	"github.com/JaimeStill/otreport/internal/report"
)

var errRender = errors.New("renderer exploded")

type failing struct{}

func (failing) Name() string        { return "failing" }
func (failing) ContentType() string { return "text/plain" }
func (failing) Extension() string   { return ".txt" }

func (failing) Render(context.Context, io.Writer, *report.Document) error {
	return errRender
}
