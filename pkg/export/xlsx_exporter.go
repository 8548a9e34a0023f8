package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	headerFillColor = "CCCCCC"
	columnWidth     = 20
	maxSheetName    = 31
)

// XLSXExporter renders a Grid into an Excel workbook.
type XLSXExporter struct{}

// NewXLSXExporter builds an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render produces xlsx encoded bytes for the grid. The title becomes the
// sheet name, truncated to the 31-character sheet limit.
func (e *XLSXExporter) Render(grid Grid, title string) ([]byte, error) {
	if len(grid.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("name xlsx sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
	})
	if err != nil {
		return nil, fmt.Errorf("build xlsx header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return nil, fmt.Errorf("build xlsx cell style: %w", err)
	}

	for col, header := range grid.Headers {
		ref, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("resolve xlsx header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, ref, header); err != nil {
			return nil, fmt.Errorf("write xlsx header: %w", err)
		}
		if err := f.SetCellStyle(sheet, ref, ref, headerStyle); err != nil {
			return nil, fmt.Errorf("style xlsx header: %w", err)
		}
	}

	for i, row := range grid.Rows {
		labelRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("resolve xlsx label cell: %w", err)
		}
		if err := f.SetCellValue(sheet, labelRef, row.Label); err != nil {
			return nil, fmt.Errorf("write xlsx row label: %w", err)
		}
		for j, entries := range row.Cells {
			if len(entries) == 0 {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(j+2, i+2)
			if err != nil {
				return nil, fmt.Errorf("resolve xlsx cell: %w", err)
			}
			if err := f.SetCellValue(sheet, ref, strings.Join(entries, "\n")); err != nil {
				return nil, fmt.Errorf("write xlsx cell: %w", err)
			}
			if err := f.SetCellStyle(sheet, ref, ref, cellStyle); err != nil {
				return nil, fmt.Errorf("style xlsx cell: %w", err)
			}
		}
	}

	last, err := excelize.ColumnNumberToName(len(grid.Headers))
	if err != nil {
		return nil, fmt.Errorf("resolve xlsx column span: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", last, columnWidth); err != nil {
		return nil, fmt.Errorf("set xlsx column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func sheetName(title string) string {
	if title == "" {
		return "Horario"
	}
	// Characters excel forbids in sheet names.
	title = strings.NewReplacer(":", "-", "\\", "-", "/", "-", "?", "", "*", "", "[", "(", "]", ")").Replace(title)
	if len(title) > maxSheetName {
		title = title[:maxSheetName]
	}
	return title
}
