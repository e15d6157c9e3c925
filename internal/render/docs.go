package render

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/JaimeStill/otreport/internal/narrative"
	"github.com/JaimeStill/otreport/internal/report"
)

// Docs renders the report as a Markdown document, the body imported into
// the shared cloud document editor.
type Docs struct{}

func (Docs) Name() string        { return "docs" }
func (Docs) ContentType() string { return "text/markdown; charset=utf-8" }
func (Docs) Extension() string   { return ".md" }

func (Docs) Render(ctx context.Context, w io.Writer, doc *report.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s\n\n", report.Title)
	for _, f := range header(doc) {
		fmt.Fprintf(bw, "**%s:** %s  \n", f.Label, escapeMarkdown(f.Value))
	}

	child := doc.Patient.FirstName()
	for _, s := range doc.Sections {
		fmt.Fprintf(bw, "\n## %s\n", s.Title)
		for _, b := range s.Blocks {
			writeMarkdownBlock(bw, b)
		}
		if len(s.Goals) > 0 {
			bw.WriteString("\n")
			for i, g := range s.Goals {
				fmt.Fprintf(bw, "%d. %s\n", i+1, escapeMarkdown(g.Statement(child)))
			}
		}
	}

	return bw.Flush()
}

func writeMarkdownBlock(w *bufio.Writer, b narrative.Block) {
	switch b.Kind {
	case narrative.BlockParagraph:
		fmt.Fprintf(w, "\n%s\n", escapeMarkdown(b.Text))
	case narrative.BlockBullets:
		w.WriteString("\n")
		for _, item := range b.Items {
			fmt.Fprintf(w, "- %s\n", escapeMarkdown(item))
		}
	case narrative.BlockTable:
		if b.Table == nil || len(b.Table.Header) == 0 {
			return
		}
		if b.Table.Caption != "" {
			fmt.Fprintf(w, "\n### %s\n", b.Table.Caption)
		}
		w.WriteString("\n")
		writeMarkdownRow(w, b.Table.Header)
		sep := make([]string, len(b.Table.Header))
		for i := range sep {
			sep[i] = "---"
		}
		writeMarkdownRow(w, sep)
		for _, row := range b.Table.Rows {
			cells := make([]string, len(b.Table.Header))
			copy(cells, row.Cells)
			for i, c := range cells {
				cells[i] = strings.ReplaceAll(c, "|", `\|`)
			}
			writeMarkdownRow(w, cells)
		}
	}
}

func writeMarkdownRow(w *bufio.Writer, cells []string) {
	fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
