package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestResultXLSX(t *testing.T) {
	data, err := ResultXLSX(Workbook{
		SourceFile:  "cv.pdf",
		ExtractedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Rows: []Row{
			{Label: "Name", Value: "Jane Doe", Percent: 92, Tier: "high", Color: "#4CAF50"},
			{Label: "Phone", Value: "Not found", Percent: 10, Tier: "low", Color: "#EF5350"},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Source File", "cv.pdf"}, rows[0])
	assert.Equal(t, []string{"Extracted At", "2026-03-01T12:00:00Z"}, rows[1])
	assert.Equal(t, []string{"Field", "Value", "Confidence (%)", "Tier"}, rows[3])
	assert.Equal(t, []string{"Name", "Jane Doe", "92", "high"}, rows[4])
	assert.Equal(t, []string{"Phone", "Not found", "10", "low"}, rows[5])
}
