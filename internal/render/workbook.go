package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JaimeStill/otreport/internal/narrative"
	"github.com/JaimeStill/otreport/internal/report"
)

const (
	summarySheet   = "Summary"
	maxSheetName   = 31
	defaultSheet   = "Sheet1"
	invalidInSheet = `:\/?*[]`
)

// Workbook renders a spreadsheet with a summary sheet and one sheet per
// score table of the results section.
type Workbook struct{}

func (Workbook) Name() string { return "workbook" }
func (Workbook) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (Workbook) Extension() string { return ".xlsx" }

func (Workbook) Render(ctx context.Context, w io.Writer, doc *report.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6EEF6"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeSummary(f, doc, headerStyle); err != nil {
		return err
	}

	used := map[string]bool{summarySheet: true}
	if results, ok := doc.Section(narrative.KindResults); ok {
		for _, b := range results.Blocks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if b.Kind != narrative.BlockTable || b.Table == nil {
				continue
			}
			name := sheetName(b.Table.Caption, used)
			if err := writeTable(f, name, b.Table, headerStyle); err != nil {
				return err
			}
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, doc *report.Document, headerStyle int) error {
	rows := [][]any{{report.Title}}
	for _, fl := range header(doc) {
		rows = append(rows, []any{fl.Label, fl.Value})
	}

	if goals, ok := doc.Section(narrative.KindGoals); ok && len(goals.Goals) > 0 {
		rows = append(rows, nil, []any{"Domain", "Goal"})
		child := doc.Patient.FirstName()
		for _, g := range goals.Goals {
			rows = append(rows, []any{g.Domain, g.Statement(child)})
		}
	}

	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
		if i == 0 || (len(row) == 2 && row[0] == "Domain") {
			end, _ := excelize.CoordinatesToCellName(len(row), i+1)
			if err := f.SetCellStyle(summarySheet, cell, end, headerStyle); err != nil {
				return fmt.Errorf("style summary row: %w", err)
			}
		}
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 28); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 90); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, t *narrative.Table, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header %s: %w", sheet, err)
	}
	if len(header) > 0 {
		end, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(sheet, "A1", end, headerStyle); err != nil {
			return fmt.Errorf("style header %s: %w", sheet, err)
		}
	}

	for i, row := range t.Rows {
		cells := make([]any, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %s: %w", sheet, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 34); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return nil
}

// sheetName derives a unique valid sheet name from a table caption.
func sheetName(caption string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidInSheet, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(caption))
	if name == "" {
		name = "Scores"
	}
	name = truncate(name, maxSheetName)

	candidate := name
	for n := 2; used[candidate]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncate(name, maxSheetName-len(suffix)) + suffix
	}
	used[candidate] = true
	return candidate
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
