package render

import (
	"context"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/JaimeStill/otreport/internal/narrative"
	"github.com/JaimeStill/otreport/internal/report"
)

const (
	pdfFont       = "Helvetica"
	pdfLineHeight = 5.0
	pdfMargin     = 20.0
)

// PDF renders a printable report on US Letter pages.
type PDF struct{}

func (PDF) Name() string        { return "pdf" }
func (PDF) ContentType() string { return "application/pdf" }
func (PDF) Extension() string   { return ".pdf" }

func (PDF) Render(ctx context.Context, w io.Writer, doc *report.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(report.Title, true)
	pdf.SetCreator("otreport", true)
	if !doc.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.GeneratedAt)
	}
	pdf.AliasNbPages("")

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	p := &pdfWriter{pdf: pdf, tr: tr}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	p.title(report.Title)
	p.fields(header(doc))

	child := doc.Patient.FirstName()
	for _, s := range doc.Sections {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.heading(s.Title)
		for _, b := range s.Blocks {
			p.block(b)
		}
		for i, g := range s.Goals {
			p.item(fmt.Sprintf("%d.", i+1), g.Statement(child))
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (p *pdfWriter) title(text string) {
	p.pdf.SetFont(pdfFont, "B", 16)
	p.pdf.MultiCell(0, 8, p.tr(text), "", "C", false)
	p.pdf.Ln(4)
}

func (p *pdfWriter) fields(fields []field) {
	for _, f := range fields {
		p.pdf.SetFont(pdfFont, "B", 10)
		p.pdf.CellFormat(45, pdfLineHeight, p.tr(f.Label+":"), "", 0, "L", false, 0, "")
		p.pdf.SetFont(pdfFont, "", 10)
		p.pdf.MultiCell(0, pdfLineHeight, p.tr(f.Value), "", "L", false)
	}
	p.pdf.Ln(2)
}

func (p *pdfWriter) heading(text string) {
	p.pdf.Ln(3)
	p.pdf.SetFont(pdfFont, "B", 13)
	p.pdf.MultiCell(0, 7, p.tr(text), "B", "L", false)
	p.pdf.Ln(2)
}

func (p *pdfWriter) block(b narrative.Block) {
	switch b.Kind {
	case narrative.BlockParagraph:
		p.pdf.SetFont(pdfFont, "", 10)
		p.pdf.MultiCell(0, pdfLineHeight, p.tr(b.Text), "", "L", false)
		p.pdf.Ln(2)
	case narrative.BlockBullets:
		for _, item := range b.Items {
			p.item("•", item)
		}
		p.pdf.Ln(1)
	case narrative.BlockTable:
		if b.Table != nil {
			p.table(b.Table)
		}
	}
}

func (p *pdfWriter) item(marker, text string) {
	left, _, _, _ := p.pdf.GetMargins()
	p.pdf.SetFont(pdfFont, "", 10)
	p.pdf.SetX(left + 2)
	p.pdf.CellFormat(6, pdfLineHeight, p.tr(marker), "", 0, "L", false, 0, "")
	p.pdf.MultiCell(0, pdfLineHeight, p.tr(text), "", "L", false)
}

// table lays out a score table with a wide first column and equal widths
// for the rest.
func (p *pdfWriter) table(t *narrative.Table) {
	if len(t.Header) == 0 {
		return
	}
	pageWidth, _ := p.pdf.GetPageSize()
	left, _, right, _ := p.pdf.GetMargins()
	usable := pageWidth - left - right

	widths := make([]float64, len(t.Header))
	widths[0] = usable
	if n := len(t.Header); n > 1 {
		widths[0] = usable * 0.3
		rest := (usable - widths[0]) / float64(n-1)
		for i := 1; i < n; i++ {
			widths[i] = rest
		}
	}

	if t.Caption != "" {
		p.pdf.SetFont(pdfFont, "B", 10)
		p.pdf.MultiCell(0, pdfLineHeight+1, p.tr(t.Caption), "", "L", false)
	}

	p.pdf.SetFont(pdfFont, "B", 8)
	p.pdf.SetFillColor(230, 238, 246)
	for i, h := range t.Header {
		p.pdf.CellFormat(widths[i], 6, p.tr(h), "1", 0, "C", true, 0, "")
	}
	p.pdf.Ln(-1)

	p.pdf.SetFont(pdfFont, "", 8)
	for _, row := range t.Rows {
		for i := range widths {
			cell := ""
			if i < len(row.Cells) {
				cell = row.Cells[i]
			}
			align := "C"
			if i == 0 {
				align = "L"
			}
			p.pdf.CellFormat(widths[i], 6, p.tr(cell), "1", 0, align, false, 0, "")
		}
		p.pdf.Ln(-1)
	}
	p.pdf.Ln(3)
}
