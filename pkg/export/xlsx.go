package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// SheetName is the only sheet of an exported workbook.
const SheetName = "Extraction"

// Row is one extracted field as shown on screen.
type Row struct {
	Label   string
	Value   string
	Percent int
	Tier    string
	Color   string
}

// Workbook describes the result of one submission.
type Workbook struct {
	SourceFile  string
	ExtractedAt time.Time
	Rows        []Row
}

// ResultXLSX renders w as XLSX bytes.
func ResultXLSX(w Workbook) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Rename the default sheet rather than adding a second one
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(SheetName, cell, v)
	}

	write(1, 1, "Source File")
	write(2, 1, w.SourceFile)
	write(1, 2, "Extracted At")
	write(2, 2, w.ExtractedAt.UTC().Format(time.RFC3339))

	headers := []string{"Field", "Value", "Confidence (%)", "Tier"}
	for i, h := range headers {
		write(i+1, 4, h)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(SheetName, "A1", "A2", bold)
	_ = f.SetCellStyle(SheetName, "A4", "D4", bold)

	row := 5
	for _, r := range w.Rows {
		write(1, row, r.Label)
		write(2, row, r.Value)
		write(3, row, r.Percent)
		write(4, row, r.Tier)

		if r.Color != "" {
			style, err := f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{r.Color}},
			})
			if err == nil {
				cell, _ := excelize.CoordinatesToCellName(4, row)
				_ = f.SetCellStyle(SheetName, cell, cell, style)
			}
		}
		row++
	}

	_ = f.SetColWidth(SheetName, "A", "A", 16)
	_ = f.SetColWidth(SheetName, "B", "B", 48)
	_ = f.SetColWidth(SheetName, "C", "D", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
